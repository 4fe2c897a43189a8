package postgres

import (
	"context"

	"tripwatch/internal/domain/entity"
	"tripwatch/internal/domain/repository"
	"tripwatch/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// enrollmentRepository implements the repository.EnrollmentRepository interface.
type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository is the constructor for enrollmentRepository.
func NewEnrollmentRepository(db *gorm.DB) repository.EnrollmentRepository {
	return &enrollmentRepository{
		db: db,
	}
}

// FindActiveByChildAndGroup retrieves the active enrollments linking a child
// to a group, regardless of trip dates.
func (repo *enrollmentRepository) FindActiveByChildAndGroup(ctx context.Context, childID, groupID uuid.UUID) ([]*entity.Enrollment, error) {
	var enrollmentModels []*model.EnrollmentModel

	if err := repo.db.WithContext(ctx).
		Where("child_id = ? AND group_id = ? AND status = ?", childID, groupID, string(entity.EnrollmentStatusActive)).
		Find(&enrollmentModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find enrollments by child and group")
	}

	return toEnrollmentDomains(enrollmentModels), nil
}

// FindActiveByChild retrieves all active enrollments for a child.
func (repo *enrollmentRepository) FindActiveByChild(ctx context.Context, childID uuid.UUID) ([]*entity.Enrollment, error) {
	var enrollmentModels []*model.EnrollmentModel

	if err := repo.db.WithContext(ctx).
		Where("child_id = ? AND status = ?", childID, string(entity.EnrollmentStatusActive)).
		Find(&enrollmentModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find enrollments by child")
	}

	return toEnrollmentDomains(enrollmentModels), nil
}

// FindActiveByGroup retrieves all active enrollments of a group.
func (repo *enrollmentRepository) FindActiveByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Enrollment, error) {
	var enrollmentModels []*model.EnrollmentModel

	if err := repo.db.WithContext(ctx).
		Where("group_id = ? AND status = ?", groupID, string(entity.EnrollmentStatusActive)).
		Find(&enrollmentModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find enrollments by group")
	}

	return toEnrollmentDomains(enrollmentModels), nil
}

// toEnrollmentDomains converts GORM models to domain entities.
func toEnrollmentDomains(models []*model.EnrollmentModel) []*entity.Enrollment {
	enrollments := make([]*entity.Enrollment, 0, len(models))
	for _, enrollmentM := range models {
		enrollments = append(enrollments, &entity.Enrollment{
			ID:           enrollmentM.ID,
			ChildID:      enrollmentM.ChildID,
			GroupID:      enrollmentM.GroupID,
			TripStartsOn: enrollmentM.TripStartsOn,
			TripEndsOn:   enrollmentM.TripEndsOn,
			Status:       entity.EnrollmentStatus(enrollmentM.Status),
		})
	}

	return enrollments
}
