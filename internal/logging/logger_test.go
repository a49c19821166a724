package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "console to stderr", mutate: func(c *Config) {
			c.Format = "console"
			c.Output = OutputConfig{Stderr: true}
		}},
		{name: "otel without provider falls back to stdout", mutate: func(c *Config) {
			c.Output.OTEL = true
		}},
		{name: "otel only without provider", mutate: func(c *Config) {
			c.Output = OutputConfig{OTEL: true}
		}, wantErr: true},
		{name: "bad format", mutate: func(c *Config) { c.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			logger, err := NewLogger(cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger.Underlying())
			assert.True(t, logger.Enabled(zapcore.InfoLevel))
			assert.False(t, logger.Enabled(zapcore.DebugLevel))
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	tl := NewTestLogger()
	ctx := context.Background()

	tl.Trace(ctx, "trace msg")
	tl.Debug(ctx, "debug msg")
	tl.Info(ctx, "info msg", zap.Int("n", 1))
	tl.Warn(ctx, "warn msg")
	tl.Error(ctx, "error msg")

	require.Len(t, tl.All(), 5)
	tl.AssertLogged(t, TraceLevel, "trace msg")
	tl.AssertLogged(t, zapcore.DebugLevel, "debug msg")
	tl.AssertLogged(t, zapcore.InfoLevel, "info msg")
	tl.AssertLogged(t, zapcore.WarnLevel, "warn msg")
	tl.AssertLogged(t, zapcore.ErrorLevel, "error msg")
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "info msg")
	tl.AssertField(t, "info msg", "n", int64(1))

	tl.Reset()
	assert.Empty(t, tl.All())
}

func TestLogger_WithAndNamed(t *testing.T) {
	tl := NewTestLogger()
	ctx := context.Background()

	child := tl.With(zap.String("component", "mapper")).Named("branch")
	child.Info(ctx, "child msg")
	tl.Info(ctx, "parent msg")

	entries := tl.FilterMessage("child msg").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "branch", entries[0].LoggerName)
	assert.Equal(t, "mapper", entries[0].ContextMap()["component"])

	parent := tl.FilterMessage("parent msg").All()
	require.Len(t, parent, 1)
	assert.NotContains(t, parent[0].ContextMap(), "component")
}

func TestLogger_ContextFieldsAttached(t *testing.T) {
	tl := NewTestLogger()
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithOperation(ctx, "fusion.fuse")

	tl.Info(ctx, "fused")

	tl.AssertField(t, "fused", "request.id", "req-1")
	tl.AssertField(t, "fused", "op", "fusion.fuse")
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info(context.Background(), "discarded")
	assert.NoError(t, l.Sync())
}
