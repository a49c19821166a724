package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fyrsmithlabs/bazodiac/internal/mcp"
)

// runStdio serves the MCP tools on stdin/stdout until ctx is done.
// Logs go to stderr because stdout carries the protocol.
func runStdio(ctx context.Context, configPath string) error {
	rt, err := setup(ctx, configPath, true)
	if err != nil {
		return err
	}
	defer rt.close()

	stopWatch := rt.watchConfig(ctx)
	defer stopWatch()

	server, err := mcp.NewServer(&mcp.Config{
		Name:      "bazodiac",
		Version:   version,
		Logger:    rt.logger.Underlying(),
		Telemetry: rt.telemetry,
	}, rt.svc)
	if err != nil {
		return fmt.Errorf("failed to create mcp server: %w", err)
	}

	fmt.Fprintf(os.Stderr, "bazodiacd mcp mode started (config %s)\n", rt.svc.DefaultFingerprint())

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("stdio server error: %w", err)
	}
	return nil
}
