package repository

import (
	"context"
	"errors"
	"time"

	"tripwatch/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for dispatch persistence.
var (
	// ErrDispatchNotFound is returned when a dispatch is not found.
	ErrDispatchNotFound = errors.New("dispatch not found")
	// ErrDispatchAlreadyExists is returned when a dispatch for the same
	// location event already exists. The invariant is at most one dispatch
	// per event, backed by a unique index.
	ErrDispatchAlreadyExists = errors.New("dispatch already exists for location event")
)

// DispatchRepository persists guardian notification dispatches and their
// attempt bookkeeping.
type DispatchRepository interface {
	// Create persists a new pending dispatch. Returns
	// ErrDispatchAlreadyExists when the event already has one.
	Create(ctx context.Context, dispatch *entity.NotificationDispatch) error

	// FindByID retrieves a dispatch by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.NotificationDispatch, error)

	// FindByLocationEvent retrieves the dispatch for a location event.
	FindByLocationEvent(ctx context.Context, eventID uuid.UUID) (*entity.NotificationDispatch, error)

	// FindDue retrieves pending dispatches whose next retry is due.
	FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.NotificationDispatch, error)

	// RecordSuccess marks a dispatch sent, storing the gateway message ID
	// and incrementing the attempt counter.
	RecordSuccess(ctx context.Context, id uuid.UUID, messageID string) error

	// RecordFailure increments the attempt counter and stores the error.
	// A non-nil nextRetryAt keeps the dispatch pending for the retry worker;
	// nil settles it as permanently failed.
	RecordFailure(ctx context.Context, id uuid.UUID, lastError string, nextRetryAt *time.Time) error

	// Abandon settles a pending dispatch as failed without further retries.
	// Sent or already-failed dispatches are left untouched.
	Abandon(ctx context.Context, id uuid.UUID) error
}
