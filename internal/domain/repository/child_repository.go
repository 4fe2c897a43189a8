// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"tripwatch/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for directory lookups.
var (
	// ErrChildNotFound is returned when no child matches the lookup.
	ErrChildNotFound = errors.New("child not found")
	// ErrGuardianNotFound is returned when a guardian is not found.
	ErrGuardianNotFound = errors.New("guardian not found")
)

// ChildRepository defines read-only lookups against the child directory.
// Records are maintained by the external CRUD collaborator; this core never
// writes to them.
type ChildRepository interface {
	// FindByTagUID resolves the child bound to a physical tag identifier.
	FindByTagUID(ctx context.Context, tagUID string) (*entity.Child, error)

	// FindByID retrieves a child by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Child, error)

	// ListByGroup retrieves all children with an enrollment in the group,
	// for operator visibility.
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Child, error)
}

// GuardianRepository defines read-only lookups against the guardian directory.
type GuardianRepository interface {
	// FindByID retrieves a guardian by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Guardian, error)

	// FindByIDs retrieves multiple guardians in one round trip.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Guardian, error)
}
