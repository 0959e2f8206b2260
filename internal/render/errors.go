package render

import (
	"errors"
	"fmt"

	"github.com/coreman2200/arcprogress/internal/profile"
)

var (
	ErrArcCountRange = fmt.Errorf("arc count outside [%d, %d]", MinArcs, MaxArcs)
	// ErrUnknownProfile is only returned by the strict parsers; the engine
	// itself falls back and logs.
	ErrUnknownProfile = profile.ErrUnknownProfile
)

// ConfigError describes a rejected engine setting.
type ConfigError struct {
	Op    string
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %v", e.Op, e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err carries a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
