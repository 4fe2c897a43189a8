package repository

import (
	"context"
	"errors"
	"time"

	"tripwatch/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrLocationEventNotFound is returned when no location event matches the lookup.
var ErrLocationEventNotFound = errors.New("location event not found")

// LocationEventRepository is the append-only store of location events.
// No update or delete operation is exposed; events are immutable facts.
type LocationEventRepository interface {
	// Append persists a new location event.
	Append(ctx context.Context, event *entity.LocationEvent) error

	// FindLatestByChild retrieves the most recent event for a child.
	FindLatestByChild(ctx context.Context, childID uuid.UUID) (*entity.LocationEvent, error)

	// FindRecent retrieves the most recent event for a child under a session
	// captured at or after since. Used for the debounce check; callers must
	// hold the per-child lock to make the check race-free.
	FindRecent(ctx context.Context, childID, sessionID uuid.UUID, since time.Time) (*entity.LocationEvent, error)
}
