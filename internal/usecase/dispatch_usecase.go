package usecase

import (
	"context"

	"tripwatch/internal/domain/entity"

	"github.com/google/uuid"
)

// DispatchUsecase manages guardian notification delivery: one attempt-tracked
// dispatch per location event, retried with backoff up to a fixed ceiling.
type DispatchUsecase interface {
	// DispatchEvent renders the session template and starts delivery for the
	// event. Idempotent: a second call for the same event returns the
	// existing dispatch without sending again. Must only be called after the
	// event is durably stored.
	DispatchEvent(ctx context.Context, session *entity.ScanSession, child *entity.Child, event *entity.LocationEvent) (*entity.NotificationDispatch, error)

	// ProcessDue attempts every pending dispatch whose retry is due and
	// returns how many were attempted. Driven by the retry worker.
	ProcessDue(ctx context.Context) (int, error)

	// Abandon settles a pending dispatch as failed without further retries.
	Abandon(ctx context.Context, dispatchID uuid.UUID) error
}
