// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
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

// childRepository implements the repository.ChildRepository interface.
type childRepository struct {
	db *gorm.DB
}

// NewChildRepository is the constructor for childRepository.
func NewChildRepository(db *gorm.DB) repository.ChildRepository {
	return &childRepository{
		db: db,
	}
}

// FindByTagUID resolves the child bound to a physical tag identifier.
func (repo *childRepository) FindByTagUID(ctx context.Context, tagUID string) (*entity.Child, error) {
	var childM model.ChildModel

	if err := repo.db.WithContext(ctx).
		Where("tag_uid = ?", tagUID).
		First(&childM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrChildNotFound
		}

		return nil, errors.Wrap(err, "failed to find child by tag UID")
	}

	return toChildDomain(&childM), nil
}

// FindByID retrieves a child by its unique ID.
func (repo *childRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Child, error) {
	var childM model.ChildModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&childM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrChildNotFound
		}

		return nil, errors.Wrap(err, "failed to find child by ID")
	}

	return toChildDomain(&childM), nil
}

// ListByGroup retrieves all children holding an active enrollment in the group.
func (repo *childRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Child, error) {
	var childModels []*model.ChildModel

	if err := repo.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.child_id = children.id").
		Where("enrollments.group_id = ? AND enrollments.status = ?", groupID, string(entity.EnrollmentStatusActive)).
		Order("children.full_name ASC").
		Find(&childModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list children by group")
	}

	children := make([]*entity.Child, 0, len(childModels))
	for _, childM := range childModels {
		children = append(children, toChildDomain(childM))
	}

	return children, nil
}

// toChildDomain converts a GORM model to a domain entity.
func toChildDomain(data *model.ChildModel) *entity.Child {
	return &entity.Child{
		ID:             data.ID,
		FullName:       data.FullName,
		DocumentNumber: data.DocumentNumber,
		TagUID:         data.TagUID,
		GuardianID:     data.GuardianID,
		Active:         data.Active,
		CreatedAt:      data.CreatedAt,
	}
}
