package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/bazodiac/internal/fusion"
	"github.com/fyrsmithlabs/bazodiac/internal/service"
	v1 "github.com/fyrsmithlabs/bazodiac/pkg/api/v1"
)

// toolSpecs lists every tool with its registry metadata.
var toolSpecs = []*ToolMetadata{
	{
		Name:        "fusion_compute",
		Description: "Fuse BaZi pillar branch indices with western ecliptic longitudes into the rounded fusion document (hard_segment, soft_kernel or harmonic_phasor).",
		Category:    CategoryFusion,
		Keywords:    []string{"bazi", "chart", "harmonic", "phasor", "alignment"},
	},
	{
		Name:        "branch_map",
		Description: "Map an ecliptic longitude to one of the twelve earthly branches with its sector bounds and boundary stability.",
		Category:    CategoryBranch,
		Keywords:    []string{"longitude", "sector", "hard", "boundary"},
	},
	{
		Name:        "branch_soft_weights",
		Description: "Von Mises weights of an ecliptic longitude over the twelve branch centers.",
		Category:    CategoryBranch,
		Keywords:    []string{"kernel", "kappa", "soft", "von mises"},
	},
	{
		Name:        "branch_table",
		Description: "List the twelve branch sectors of the active geometry with the config fingerprint.",
		Category:    CategoryBranch,
		Keywords:    []string{"geometry", "sectors", "fingerprint"},
	},
	{
		Name:        "branch_compare",
		Description: "Contrast shift-boundaries, apex-shifted and shift-longitudes conventions at one longitude.",
		Category:    CategoryBranch,
		Keywords:    []string{"convention", "apex", "diagnostic"},
	},
	{
		Name:        "tool_search",
		Description: "Search the available tools by name, description or keyword. Queries are matched literally and as regular expressions.",
		Category:    CategorySearch,
	},
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() error {
	for _, def := range toolSpecs {
		if err := s.toolRegistry.Register(def); err != nil {
			return err
		}
	}

	addTool(s, "fusion_compute", s.fusionCompute)
	addTool(s, "branch_map", s.branchMap)
	addTool(s, "branch_soft_weights", s.branchSoftWeights)
	addTool(s, "branch_table", s.branchTable)
	addTool(s, "branch_compare", s.branchCompare)
	addTool(s, "tool_search", s.toolSearch)
	return nil
}

// addTool registers h under name and wraps it with invocation metrics.
func addTool[In, Out any](s *Server, name string, h mcp.ToolHandlerFor[In, Out]) {
	meta, _ := s.toolRegistry.Get(name)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        meta.Name,
		Description: meta.Description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args In) (*mcp.CallToolResult, Out, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, name)
		res, out, err := h(ctx, req, args)
		s.metrics.DecrementActive(ctx, name)
		s.metrics.RecordInvocation(ctx, name, time.Since(start), err)
		return res, out, err
	})
}

func textResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}

// ===== FUSION TOOLS =====

type fusionComputeInput struct {
	Pillars       map[string]int      `json:"pillars" jsonschema:"Pillar name to branch index in [0, 11], e.g. {\"year\": 0, \"hour\": 11}"`
	PillarWeights map[string]float64  `json:"pillar_weights,omitempty" jsonschema:"Optional per-pillar weights (default 1)"`
	Positions     map[string]float64  `json:"positions" jsonschema:"Body name to ecliptic longitude in degrees [0, 360)"`
	BodyWeights   map[string]float64  `json:"body_weights,omitempty" jsonschema:"Optional per-body weights (default 1)"`
	Config        *v1.ConfigOverrides `json:"config,omitempty" jsonschema:"Optional overrides of the server fusion defaults"`
}

type fusionComputeOutput struct {
	Fingerprint string         `json:"fingerprint" jsonschema:"UUIDv5 fingerprint of the effective config"`
	Document    map[string]any `json:"document" jsonschema:"Fusion document with every float rounded to six decimals"`
}

func (s *Server) fusionCompute(ctx context.Context, _ *mcp.CallToolRequest, args fusionComputeInput) (*mcp.CallToolResult, fusionComputeOutput, error) {
	res, err := s.svc.Fuse(ctx, v1.FusionRequest{
		Pillars:       args.Pillars,
		PillarWeights: args.PillarWeights,
		Positions:     args.Positions,
		BodyWeights:   args.BodyWeights,
		Config:        args.Config,
	})
	if err != nil {
		return nil, fusionComputeOutput{}, fmt.Errorf("fusion failed: %w", err)
	}

	out := fusionComputeOutput{Fingerprint: res.Fingerprint, Document: fusion.Document(res)}
	summary := textResult("Fusion (%s): total alignment %.6f, dominant harmonic %d",
		res.Mode, fusion.Round6(res.AggregateAlignment), res.DominantHarmonic)
	if len(res.UnstableBodies) > 0 {
		summary = textResult("Fusion (%s): total alignment %.6f, dominant harmonic %d, unstable: %s",
			res.Mode, fusion.Round6(res.AggregateAlignment), res.DominantHarmonic, strings.Join(res.UnstableBodies, ", "))
	}
	return summary, out, nil
}

// ===== BRANCH TOOLS =====

type longitudeInput struct {
	LongitudeDeg float64             `json:"longitude_deg" jsonschema:"Ecliptic longitude in degrees; values outside [0, 360) are wrapped"`
	Config       *v1.ConfigOverrides `json:"config,omitempty" jsonschema:"Optional overrides of the server fusion defaults"`
}

type tableInput struct {
	Config *v1.ConfigOverrides `json:"config,omitempty" jsonschema:"Optional overrides of the server fusion defaults"`
}

func (s *Server) branchMap(ctx context.Context, _ *mcp.CallToolRequest, args longitudeInput) (*mcp.CallToolResult, v1.BranchMapping, error) {
	res, err := s.svc.MapBranch(ctx, args.LongitudeDeg, args.Config)
	if err != nil {
		return nil, v1.BranchMapping{}, fmt.Errorf("branch map failed: %w", err)
	}
	out := service.MappingView(args.LongitudeDeg, res)
	text := textResult("%.6f° maps to %s (%d), %.6f° from the nearest boundary",
		args.LongitudeDeg, out.Name, out.Index, out.DistanceToBoundaryDeg)
	if out.Unstable {
		text = textResult("%.6f° maps to %s (%d), unstable: %.6f° from the nearest boundary",
			args.LongitudeDeg, out.Name, out.Index, out.DistanceToBoundaryDeg)
	}
	return text, out, nil
}

func (s *Server) branchSoftWeights(ctx context.Context, _ *mcp.CallToolRequest, args longitudeInput) (*mcp.CallToolResult, v1.SoftWeights, error) {
	res, err := s.svc.SoftWeights(ctx, args.LongitudeDeg, args.Config)
	if err != nil {
		return nil, v1.SoftWeights{}, fmt.Errorf("soft weights failed: %w", err)
	}
	out := service.SoftView(res)
	return textResult("Soft weights at %.6f° (kappa %.3f): argmax %s", out.LongitudeDeg, out.Kappa, out.Argmax), out, nil
}

func (s *Server) branchTable(ctx context.Context, _ *mcp.CallToolRequest, args tableInput) (*mcp.CallToolResult, v1.BranchTable, error) {
	res, err := s.svc.Branches(ctx, args.Config)
	if err != nil {
		return nil, v1.BranchTable{}, fmt.Errorf("branch table failed: %w", err)
	}
	out := service.TableView(res)
	return textResult("%d branches, config %s", len(out.Branches), out.Fingerprint), out, nil
}

func (s *Server) branchCompare(ctx context.Context, _ *mcp.CallToolRequest, args longitudeInput) (*mcp.CallToolResult, v1.Comparison, error) {
	res, err := s.svc.Compare(ctx, args.LongitudeDeg, args.Config)
	if err != nil {
		return nil, v1.Comparison{}, fmt.Errorf("branch compare failed: %w", err)
	}
	out := service.ComparisonView(res)
	return textResult("shift_boundaries %s, apex_shifted %s, shift_longitudes %s",
		out.ShiftBoundaries, out.ApexShifted, out.ShiftLongitudes), out, nil
}

// ===== TOOL SEARCH =====

type toolSearchInput struct {
	Query    string `json:"query" jsonschema:"Search query or regular expression matched against tool names, descriptions and keywords"`
	Category string `json:"category,omitempty" jsonschema:"Filter results to a category (branch, fusion, search)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default: 5)"`
}

type toolSearchOutput struct {
	Query      string          `json:"query" jsonschema:"Search query used"`
	Results    []*SearchResult `json:"results" jsonschema:"Matching tools with metadata and match score"`
	Count      int             `json:"count" jsonschema:"Number of tools found"`
	TotalTools int             `json:"total_tools" jsonschema:"Total number of tools in registry"`
}

func (s *Server) toolSearch(_ context.Context, _ *mcp.CallToolRequest, args toolSearchInput) (*mcp.CallToolResult, toolSearchOutput, error) {
	if args.Query == "" {
		return nil, toolSearchOutput{}, fmt.Errorf("query is required")
	}

	limit := args.Limit
	if limit <= 0 {
		limit = 5
	}

	var results []*SearchResult
	if args.Category != "" {
		results = s.toolRegistry.SearchByCategory(args.Query, ToolCategory(args.Category))
	} else {
		results = s.toolRegistry.Search(args.Query)
	}
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []*SearchResult{}
	}

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Tool.Name
	}

	out := toolSearchOutput{
		Query:      args.Query,
		Results:    results,
		Count:      len(results),
		TotalTools: s.toolRegistry.Count(),
	}
	if len(names) == 0 {
		return textResult("No tools found matching: %s", args.Query), out, nil
	}
	return textResult("Found %d tool(s) for query '%s': %s", len(names), args.Query, strings.Join(names, ", ")), out, nil
}
