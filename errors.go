package swrast

import (
	"errors"
	"fmt"
)

// ErrUnsupported marks a configuration the rasterizer rejects at
// pipeline-creation or draw-setup time, before any task is scheduled.
// Wrap-aware callers can match it with errors.Is.
var ErrUnsupported = errors.New("swrast: unsupported configuration")

// ErrInvalidTarget marks a render-target set that cannot be drawn to:
// mismatched sizes or sample counts, or a non-renderable format.
var ErrInvalidTarget = errors.New("swrast: invalid render target")

func unsupportedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}

func invalidTargetf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTarget, fmt.Sprintf(format, args...))
}
