package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
	"github.com/fyrsmithlabs/bazodiac/internal/fusion"
	"github.com/fyrsmithlabs/bazodiac/internal/service"
	v1 "github.com/fyrsmithlabs/bazodiac/pkg/api/v1"
)

// errorResponse maps an error to its status code and JSON body.
func errorResponse(err error) (int, v1.ErrorResponse) {
	var (
		cfgErr  *conventions.ConfigurationError
		valErrs validator.ValidationErrors
		httpErr *echo.HTTPError
	)

	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest, v1.ErrorResponse{
			Error: cfgErr.Error(),
			Code:  v1.CodeInvalidConfig,
			Field: cfgErr.Field,
		}
	case errors.As(err, &valErrs) && len(valErrs) > 0:
		fe := valErrs[0]
		return http.StatusBadRequest, v1.ErrorResponse{
			Error: fmt.Sprintf("%s failed %q validation", fieldPath(fe), fe.Tag()),
			Code:  v1.CodeInvalidRequest,
			Field: fieldPath(fe),
		}
	case errors.Is(err, fusion.ErrInvalidInput), errors.Is(err, service.ErrEmptyBatch):
		return http.StatusBadRequest, v1.ErrorResponse{Error: err.Error(), Code: v1.CodeInvalidRequest}
	case errors.Is(err, service.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge, v1.ErrorResponse{Error: err.Error(), Code: v1.CodeBatchTooLarge}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, v1.ErrorResponse{Error: err.Error(), Code: v1.CodeInternal}
	case errors.As(err, &httpErr):
		code := v1.CodeInvalidRequest
		switch {
		case httpErr.Code == http.StatusTooManyRequests:
			code = v1.CodeRateLimited
		case httpErr.Code == http.StatusNotFound, httpErr.Code == http.StatusMethodNotAllowed:
			code = v1.CodeNotFound
		case httpErr.Code >= http.StatusInternalServerError:
			code = v1.CodeInternal
		}
		return httpErr.Code, v1.ErrorResponse{Error: fmt.Sprint(httpErr.Message), Code: code}
	default:
		return http.StatusInternalServerError, v1.ErrorResponse{Error: "internal error", Code: v1.CodeInternal}
	}
}

// fieldPath turns "LongitudeRequest.LongitudeDeg" into "LongitudeDeg".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// handleError writes every handler error as a v1.ErrorResponse.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed", zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.logger.Warn(c.Request().Context(), "writing error response", zap.Error(err))
	}
}
