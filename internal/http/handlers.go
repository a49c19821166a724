package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/bazodiac/internal/fusion"
	"github.com/fyrsmithlabs/bazodiac/internal/logging"
	"github.com/fyrsmithlabs/bazodiac/internal/service"
	v1 "github.com/fyrsmithlabs/bazodiac/pkg/api/v1"
)

// handleHealth reports liveness and the active default fingerprint.
func (s *Server) handleHealth(c echo.Context) error {
	resp := v1.HealthResponse{
		Status:      "ok",
		Version:     s.config.Version,
		Fingerprint: s.svc.DefaultFingerprint(),
		Telemetry:   "disabled",
	}
	if tel := s.config.Telemetry; tel != nil && tel.IsEnabled() {
		resp.Telemetry = "healthy"
		if tel.Health().Degraded {
			resp.Telemetry = "degraded"
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// handleBranches returns the sector table. POST accepts config overrides.
func (s *Server) handleBranches(c echo.Context) error {
	var req v1.BranchesRequest
	if c.Request().Method == http.MethodPost {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}

	ctx := logging.WithOperation(c.Request().Context(), "branch.table")
	table, err := s.svc.Branches(ctx, req.Config)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, service.TableView(table))
}

func (s *Server) handleMap(c echo.Context) error {
	var req v1.LongitudeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := logging.WithOperation(c.Request().Context(), "branch.map")
	res, err := s.svc.MapBranch(ctx, *req.LongitudeDeg, req.Config)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, service.MappingView(*req.LongitudeDeg, res))
}

func (s *Server) handleSoft(c echo.Context) error {
	var req v1.LongitudeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := logging.WithOperation(c.Request().Context(), "branch.soft")
	res, err := s.svc.SoftWeights(ctx, *req.LongitudeDeg, req.Config)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, service.SoftView(res))
}

func (s *Server) handleCompare(c echo.Context) error {
	var req v1.LongitudeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := logging.WithOperation(c.Request().Context(), "branch.compare")
	cmp, err := s.svc.Compare(ctx, *req.LongitudeDeg, req.Config)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, service.ComparisonView(cmp))
}

func (s *Server) handleFusion(c echo.Context) error {
	var req v1.FusionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := logging.WithOperation(c.Request().Context(), "fusion.fuse")
	res, err := s.svc.Fuse(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v1.FusionResponse(fusion.Document(res)))
}

// handleBatch fuses several charts. Item errors are reported inline; the
// call itself fails only for an oversized or malformed batch.
func (s *Server) handleBatch(c echo.Context) error {
	var req v1.BatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := logging.WithOperation(c.Request().Context(), "fusion.batch")
	out, err := s.svc.FuseBatch(ctx, req.Items)
	if err != nil {
		return err
	}

	resp := v1.BatchResponse{Items: make([]v1.BatchItem, len(out))}
	for i, item := range out {
		resp.Items[i].Index = i
		if item.Err != nil {
			_, body := errorResponse(item.Err)
			resp.Items[i].Error = &body
			continue
		}
		resp.Items[i].Result = fusion.Document(item.Result)
	}
	return c.JSON(http.StatusOK, resp)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
