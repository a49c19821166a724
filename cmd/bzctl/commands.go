package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/bazodiac/internal/fusion"
	"github.com/fyrsmithlabs/bazodiac/internal/service"
	v1 "github.com/fyrsmithlabs/bazodiac/pkg/api/v1"
)

func newMapCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "map <longitude>",
		Short: "Map an ecliptic longitude to its earthly branch",
		Long: `Map an ecliptic longitude to its earthly branch.

Examples:
  bzctl map 275
  bzctl map --convention SHIFT_LONGITUDES 15
  bzctl map -- -85`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lon, err := parseLongitude(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.newService()
			if err != nil {
				return err
			}
			res, err := svc.MapBranch(cmd.Context(), lon, opts.overrides(cmd))
			if err != nil {
				return err
			}
			out := service.MappingView(lon, res)
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderMapping(out))
			return nil
		},
	}
}

func newSoftCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "soft <longitude>",
		Short: "Von Mises weights of a longitude over the twelve branches",
		Long: `Von Mises weights of a longitude over the twelve branches.

Examples:
  bzctl soft 270
  bzctl soft --kappa 8 270 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lon, err := parseLongitude(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.newService()
			if err != nil {
				return err
			}
			res, err := svc.SoftWeights(cmd.Context(), lon, opts.overrides(cmd))
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), service.SoftView(res))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSoft(res))
			return nil
		},
	}
}

func newBranchesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "branches",
		Short: "List the twelve branch sectors of the configured geometry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService()
			if err != nil {
				return err
			}
			table, err := svc.Branches(cmd.Context(), opts.overrides(cmd))
			if err != nil {
				return err
			}
			out := service.TableView(table)
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(out))
			return nil
		},
	}
}

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <longitude>",
		Short: "Compare boundary conventions at a longitude",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lon, err := parseLongitude(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.newService()
			if err != nil {
				return err
			}
			res, err := svc.Compare(cmd.Context(), lon, opts.overrides(cmd))
			if err != nil {
				return err
			}
			out := service.ComparisonView(res)
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderComparison(out))
			return nil
		},
	}
}

func newFuseCmd(opts *options) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "fuse",
		Short: "Fuse a chart of pillars and positions",
		Long: `Fuse BaZi pillars with western positions read from a chart file.

The chart format follows the file extension: .yaml/.yml, .toml or .json.
Use "-" to read JSON from stdin. Flags override any config in the file.

Example chart (YAML):
  pillars: {year: 0, month: 5, day: 9, hour: 11}
  positions: {Sun: 275, Moon: 120.5, Mars: 284.95}

Examples:
  bzctl fuse --input chart.yaml
  bzctl fuse --input chart.toml --mode soft_kernel --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readChart(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if ov := opts.overrides(cmd); ov != nil {
				req.Config = mergeOverrides(req.Config, ov)
			}

			svc, err := opts.newService()
			if err != nil {
				return err
			}
			res, err := svc.Fuse(cmd.Context(), req)
			if err != nil {
				return err
			}

			if opts.jsonOut {
				doc, err := fusion.MarshalDocument(res)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(doc))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderFusion(res))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "chart file (.yaml, .toml, .json or - for stdin)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newHealthCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check bazodiacd server health",
		Long: `Check the health status of a running bazodiacd.

Examples:
  bzctl health
  bzctl health --server http://localhost:9292`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimRight(serverURL, "/") + "/health"
			client := &http.Client{Timeout: 5 * time.Second}

			resp, err := client.Get(url)
			if err != nil {
				return fmt.Errorf("failed to connect to %s: %w", url, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				body, readErr := io.ReadAll(resp.Body)
				if readErr != nil {
					return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
				}
				return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
			}

			var health v1.HealthResponse
			if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Server Status: %s\n", health.Status)
			fmt.Fprintf(w, "Server URL:    %s\n", serverURL)
			fmt.Fprintf(w, "Version:       %s\n", health.Version)
			fmt.Fprintf(w, "Config:        %s\n", health.Fingerprint)
			if health.Telemetry != "" {
				fmt.Fprintf(w, "Telemetry:     %s\n", health.Telemetry)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:9191", "bazodiacd server URL")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
