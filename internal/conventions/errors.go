package conventions

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is the sentinel wrapped by every ConfigurationError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigurationError reports an invalid configuration value.
//
// It is fatal: callers must reject the configuration before any computation
// and must not retry with the same value.
type ConfigurationError struct {
	Field  string // Config field name, e.g. "branch_width_deg"
	Value  any    // Offending value
	Reason string // Human-readable constraint, e.g. "must be > 0"
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v %s", e.Field, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidConfig).
func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(field string, value any, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}
