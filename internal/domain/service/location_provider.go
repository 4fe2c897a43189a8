package service

import (
	"context"
	"errors"

	"tripwatch/internal/domain/entity"
)

// Capture failure modes. All of them degrade the scan rather than abort it;
// the distinction only feeds logging and the degraded flag.
var (
	// ErrCapturePermissionDenied is returned when the device refused the
	// location request.
	ErrCapturePermissionDenied = errors.New("location permission denied")
	// ErrCaptureUnavailable is returned when no position source is available.
	ErrCaptureUnavailable = errors.New("location service unavailable")
)

// LocationProvider obtains a single position fix from the scanning device's
// location service. Exactly one attempt is made per call; retry policy, if
// any, belongs to the operator UI. The context carries the capture timeout
// and cancellation.
type LocationProvider interface {
	Capture(ctx context.Context) (*entity.Position, error)
}
