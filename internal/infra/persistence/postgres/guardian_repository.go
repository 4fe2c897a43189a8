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

// guardianRepository implements the repository.GuardianRepository interface.
type guardianRepository struct {
	db *gorm.DB
}

// NewGuardianRepository is the constructor for guardianRepository.
func NewGuardianRepository(db *gorm.DB) repository.GuardianRepository {
	return &guardianRepository{
		db: db,
	}
}

// FindByID retrieves a guardian by its unique ID.
func (repo *guardianRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Guardian, error) {
	var guardianM model.GuardianModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&guardianM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGuardianNotFound
		}

		return nil, errors.Wrap(err, "failed to find guardian by ID")
	}

	return toGuardianDomain(&guardianM), nil
}

// FindByIDs retrieves multiple guardians in one round trip.
func (repo *guardianRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Guardian, error) {
	if len(ids) == 0 {
		return []*entity.Guardian{}, nil
	}

	var guardianModels []*model.GuardianModel

	if err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&guardianModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find guardians by IDs")
	}

	guardians := make([]*entity.Guardian, 0, len(guardianModels))
	for _, guardianM := range guardianModels {
		guardians = append(guardians, toGuardianDomain(guardianM))
	}

	return guardians, nil
}

// toGuardianDomain converts a GORM model to a domain entity.
func toGuardianDomain(data *model.GuardianModel) *entity.Guardian {
	return &entity.Guardian{
		ID:       data.ID,
		FullName: data.FullName,
		Phone:    data.Phone,
	}
}
