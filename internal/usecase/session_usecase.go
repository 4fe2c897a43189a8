// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"tripwatch/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionUsecase manages scan sessions: one configured message reused
// across many scans of a group.
type SessionUsecase interface {
	// OpenSession opens a session binding a group to a message template.
	// Fails when the group has no enrollment inside its trip window.
	OpenSession(ctx context.Context, groupID uuid.UUID, template, operator string) (*entity.ScanSession, error)

	// GetSession retrieves an open session.
	GetSession(ctx context.Context, id uuid.UUID) (*entity.ScanSession, error)

	// CloseSession closes a session explicitly; subsequent scans against it
	// are rejected.
	CloseSession(ctx context.Context, id uuid.UUID) error
}
