package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestRun_ServesAndShutsDown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	t.Setenv("HOME", t.TempDir())
	port := freePort(t)
	t.Setenv("SERVER_HTTP_PORT", fmt.Sprint(port))
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "2s")
	t.Setenv("OBSERVABILITY_LOG_LEVEL", "error")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, "") }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 25*time.Millisecond)

	resp, err := http.Post(base+"/api/v1/branch/map", "application/json",
		strings.NewReader(`{"longitude_deg":275}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "bazodiac_branch_lookups_total")
	assert.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestSetup_InvalidConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "bazodiac")
	require.NoError(t, os.MkdirAll(dir, 0700))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fusion:\n  mode: nearest\n"), 0600))

	_, err := setup(context.Background(), path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading configuration")
}

func TestSetup_ResolvesDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	rt, err := setup(context.Background(), "", true)
	require.NoError(t, err)
	defer rt.close()

	assert.Equal(t, filepath.Join(home, ".config", "bazodiac", "config.yaml"), rt.path)
	assert.Equal(t, "1f025f00-53ec-5602-9e6a-c236ec3235f5", rt.svc.DefaultFingerprint())

	// No file on disk: the watcher is skipped and stop is a no-op.
	rt.watchConfig(context.Background())()
}
