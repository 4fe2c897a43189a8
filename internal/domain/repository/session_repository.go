package repository

import (
	"context"
	"errors"

	"tripwatch/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrScanSessionNotFound is returned when no open session matches the ID,
// either because it never existed or because its TTL elapsed.
var ErrScanSessionNotFound = errors.New("scan session not found")

// ScanSessionRepository holds open scan sessions. Sessions are ephemeral
// operational state, kept out of the event database on purpose.
type ScanSessionRepository interface {
	// Save stores an opened session until its TTL elapses.
	Save(ctx context.Context, session *entity.ScanSession) error

	// Find retrieves an open session by ID.
	Find(ctx context.Context, id uuid.UUID) (*entity.ScanSession, error)

	// Delete closes a session explicitly.
	Delete(ctx context.Context, id uuid.UUID) error
}
