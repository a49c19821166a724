package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// setupTestHome points HOME at a temporary directory and creates the
// bazodiac config directory inside it. It returns the config file path.
func setupTestHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".config", "bazodiac")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	return filepath.Join(configDir, "config.yaml")
}

func writeConfig(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
}

// TestLoadWithFile_ValidYAML tests loading configuration from a valid YAML file.
func TestLoadWithFile_ValidYAML(t *testing.T) {
	configPath := setupTestHome(t)

	writeConfig(t, configPath, `server:
  http_port: 9292
  http_host: 0.0.0.0
  shutdown_timeout: 3s

observability:
  enable_telemetry: true
  service_name: bazodiac-test

fusion:
  zi_apex_deg: 0
  convention: SHIFT_LONGITUDES
  harmonics_k: [3, 2]
  kappa: 2.5
  mode: soft_kernel

cache:
  size: 8
`, 0600)

	cfg, err := LoadWithFile(configPath)
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v, want nil", err)
	}

	if cfg.Server.Port != 9292 {
		t.Errorf("Server.Port = %d, want 9292", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.ShutdownTimeout.Duration() != 3*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 3s", cfg.Server.ShutdownTimeout.Duration())
	}
	if cfg.Observability.ServiceName != "bazodiac-test" {
		t.Errorf("Observability.ServiceName = %q, want bazodiac-test", cfg.Observability.ServiceName)
	}
	if cfg.Fusion.ZiApexDeg != 0 {
		t.Errorf("Fusion.ZiApexDeg = %v, want 0", cfg.Fusion.ZiApexDeg)
	}
	if cfg.Fusion.BranchWidthDeg != 30 {
		t.Errorf("Fusion.BranchWidthDeg = %v, want default 30", cfg.Fusion.BranchWidthDeg)
	}
	if got := cfg.Fusion.Harmonics; len(got) != 2 || got[0] != 3 || got[1] != 2 {
		t.Errorf("Fusion.Harmonics = %v, want [3 2]", got)
	}
	if cfg.Cache.Size != 8 {
		t.Errorf("Cache.Size = %d, want 8", cfg.Cache.Size)
	}

	fc, err := cfg.Fusion.ToFusion()
	if err != nil {
		t.Fatalf("ToFusion() error = %v", err)
	}
	if fc.Kappa != 2.5 {
		t.Errorf("fusion Kappa = %v, want 2.5", fc.Kappa)
	}
	if fc.Mode.String() != "soft_kernel" {
		t.Errorf("fusion Mode = %v, want soft_kernel", fc.Mode)
	}
	if fc.Branch.Convention.String() != "SHIFT_LONGITUDES" {
		t.Errorf("fusion Convention = %v, want SHIFT_LONGITUDES", fc.Branch.Convention)
	}
}

// TestLoadWithFile_EnvironmentOverride tests that environment variables override YAML.
func TestLoadWithFile_EnvironmentOverride(t *testing.T) {
	configPath := setupTestHome(t)

	writeConfig(t, configPath, `server:
  http_port: 9090
observability:
  service_name: yaml-service
fusion:
  kappa: 2
`, 0600)

	t.Setenv("SERVER_HTTP_PORT", "7777")
	t.Setenv("OBSERVABILITY_SERVICE_NAME", "env-service")
	t.Setenv("FUSION_KAPPA", "6.5")
	t.Setenv("FUSION_REFERENCE_BODY", "Moon")
	t.Setenv("RATELIMIT_RPS", "5")

	cfg, err := LoadWithFile(configPath)
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v, want nil", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777 (from env override)", cfg.Server.Port)
	}
	if cfg.Observability.ServiceName != "env-service" {
		t.Errorf("Observability.ServiceName = %q, want env-service (from env override)", cfg.Observability.ServiceName)
	}
	if cfg.Fusion.Kappa != 6.5 {
		t.Errorf("Fusion.Kappa = %v, want 6.5 (from env override)", cfg.Fusion.Kappa)
	}
	if cfg.Fusion.ReferenceBody != "Moon" {
		t.Errorf("Fusion.ReferenceBody = %q, want Moon", cfg.Fusion.ReferenceBody)
	}
	if cfg.RateLimit.RequestsPerSecond != 5 {
		t.Errorf("RateLimit.RequestsPerSecond = %v, want 5", cfg.RateLimit.RequestsPerSecond)
	}
}

// TestLoadWithFile_MissingFile tests handling of missing config file.
func TestLoadWithFile_MissingFile(t *testing.T) {
	configPath := setupTestHome(t)

	cfg, err := LoadWithFile(configPath)
	if err != nil {
		t.Fatalf("LoadWithFile() should not error on missing file, got: %v", err)
	}

	def := Default()
	if cfg.Server.Port != def.Server.Port {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, def.Server.Port)
	}
	if len(cfg.Fusion.Harmonics) != 5 {
		t.Errorf("Fusion.Harmonics = %v, want defaults", cfg.Fusion.Harmonics)
	}
}

// TestLoadWithFile_DefaultPath tests that an empty path resolves under HOME.
func TestLoadWithFile_DefaultPath(t *testing.T) {
	configPath := setupTestHome(t)
	writeConfig(t, configPath, "cache:\n  size: 3\n", 0600)

	cfg, err := LoadWithFile("")
	if err != nil {
		t.Fatalf("LoadWithFile(\"\") error = %v, want nil", err)
	}
	if cfg.Cache.Size != 3 {
		t.Errorf("Cache.Size = %d, want 3", cfg.Cache.Size)
	}
}

// TestLoadWithFile_InvalidYAML tests handling of malformed YAML.
func TestLoadWithFile_InvalidYAML(t *testing.T) {
	configPath := setupTestHome(t)

	writeConfig(t, configPath, `server:
  http_port: not-a-number
  invalid syntax here
`, 0600)

	if _, err := LoadWithFile(configPath); err == nil {
		t.Error("LoadWithFile() should error on invalid YAML, got nil")
	}
}

// TestLoadWithFile_Validation tests configuration validation.
func TestLoadWithFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"invalid port", "server:\n  http_port: 99999\n", "invalid server port"},
		{"zero width", "fusion:\n  branch_width_deg: 0\n", "branch_width_deg"},
		{"unknown mode", "fusion:\n  mode: nearest\n", "fusion_mode"},
		{"negative kappa", "fusion:\n  kappa: -1\n", "kappa"},
		{"bad protocol", "observability:\n  otlp_protocol: udp\n", "otlp protocol"},
		{"zero cache", "cache:\n  size: 0\n", "cache size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := setupTestHome(t)
			writeConfig(t, configPath, tt.content, 0600)

			_, err := LoadWithFile(configPath)
			if err == nil {
				t.Fatal("LoadWithFile() should fail validation, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

// TestLoadWithFile_PathTraversal tests path traversal attack prevention.
func TestLoadWithFile_PathTraversal(t *testing.T) {
	setupTestHome(t)

	_, err := LoadWithFile("../../../../etc/passwd")
	if err == nil {
		t.Fatal("Expected error for path traversal, got nil")
	}
	if !strings.Contains(err.Error(), "must be in ~/.config/bazodiac/ or /etc/bazodiac/") {
		t.Errorf("Expected path validation error, got: %v", err)
	}
}

// TestLoadWithFile_InsecurePermissions tests file permission enforcement.
func TestLoadWithFile_InsecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping permission test on Windows")
	}

	configPath := setupTestHome(t)
	writeConfig(t, configPath, "server:\n  http_port: 9090\n", 0644)

	_, err := LoadWithFile(configPath)
	if err == nil {
		t.Fatal("Expected error for insecure permissions, got nil")
	}
	if !strings.Contains(err.Error(), "insecure") {
		t.Errorf("Expected 'insecure permissions' error, got: %v", err)
	}
}

// TestLoadWithFile_ReadOnlyPermissions tests that 0400 permissions are accepted.
func TestLoadWithFile_ReadOnlyPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping permission test on Windows")
	}

	configPath := setupTestHome(t)
	writeConfig(t, configPath, "server:\n  http_port: 9090\n", 0400)

	cfg, err := LoadWithFile(configPath)
	if err != nil {
		t.Fatalf("LoadWithFile() should succeed with 0400 permissions, got error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
}

// TestLoadWithFile_FileTooLarge tests file size limit enforcement.
func TestLoadWithFile_FileTooLarge(t *testing.T) {
	configPath := setupTestHome(t)

	largeContent := bytes.Repeat([]byte("# comment line\n"), 150000)
	if err := os.WriteFile(configPath, largeContent, 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadWithFile(configPath)
	if err == nil {
		t.Fatal("Expected error for large file, got nil")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Errorf("Expected 'too large' error, got: %v", err)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(home, ".config", "bazodiac"))
	if err != nil {
		t.Fatalf("config dir not created: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0700 {
		t.Errorf("config dir perm = %v, want 0700", info.Mode().Perm())
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SERVER_HTTP_PORT":   "server.http_port",
		"FUSION_ZI_APEX_DEG": "fusion.zi_apex_deg",
		"RATELIMIT_RPS":      "ratelimit.rps",
		"HOME":               "home",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}
