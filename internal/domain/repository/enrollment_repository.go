package repository

import (
	"context"

	"tripwatch/internal/domain/entity"

	"github.com/google/uuid"
)

// EnrollmentRepository defines read-only lookups against the enrollment
// directory. The trip-window predicate itself lives on entity.Enrollment;
// the repository only narrows by child, group, and status.
type EnrollmentRepository interface {
	// FindActiveByChildAndGroup retrieves the active enrollments linking a
	// child to a group, regardless of trip dates.
	FindActiveByChildAndGroup(ctx context.Context, childID, groupID uuid.UUID) ([]*entity.Enrollment, error)

	// FindActiveByChild retrieves all active enrollments for a child.
	FindActiveByChild(ctx context.Context, childID uuid.UUID) ([]*entity.Enrollment, error)

	// FindActiveByGroup retrieves all active enrollments of a group.
	FindActiveByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Enrollment, error)
}
