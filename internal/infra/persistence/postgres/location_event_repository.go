package postgres

import (
	"context"
	"time"

	"tripwatch/internal/domain/entity"
	domainerrors "tripwatch/internal/domain/errors"
	"tripwatch/internal/domain/repository"
	"tripwatch/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// locationEventRepository implements the repository.LocationEventRepository interface.
type locationEventRepository struct {
	db *gorm.DB
}

// NewLocationEventRepository is the constructor for locationEventRepository.
func NewLocationEventRepository(db *gorm.DB) repository.LocationEventRepository {
	return &locationEventRepository{
		db: db,
	}
}

// Append persists a new location event.
func (repo *locationEventRepository) Append(ctx context.Context, event *entity.LocationEvent) error {
	eventM := fromLocationEventDomain(event)

	if err := repo.db.WithContext(ctx).Create(eventM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append location event")
	}

	return nil
}

// FindLatestByChild retrieves the most recent event for a child.
func (repo *locationEventRepository) FindLatestByChild(ctx context.Context, childID uuid.UUID) (*entity.LocationEvent, error) {
	var eventM model.LocationEventModel

	if err := repo.db.WithContext(ctx).
		Where("child_id = ?", childID).
		Order("captured_at DESC").
		First(&eventM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLocationEventNotFound
		}

		return nil, errors.Wrap(err, "failed to find latest location event")
	}

	return toLocationEventDomain(&eventM), nil
}

// FindRecent retrieves the most recent event for a child under a session
// captured at or after since.
func (repo *locationEventRepository) FindRecent(ctx context.Context, childID, sessionID uuid.UUID, since time.Time) (*entity.LocationEvent, error) {
	var eventM model.LocationEventModel

	if err := repo.db.WithContext(ctx).
		Where("child_id = ? AND session_id = ? AND captured_at >= ?", childID, sessionID, since).
		Order("captured_at DESC").
		First(&eventM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLocationEventNotFound
		}

		return nil, errors.Wrap(err, "failed to find recent location event")
	}

	return toLocationEventDomain(&eventM), nil
}

// toLocationEventDomain converts a GORM model to a domain entity.
func toLocationEventDomain(data *model.LocationEventModel) *entity.LocationEvent {
	event := &entity.LocationEvent{
		ID:          data.ID,
		ChildID:     data.ChildID,
		SessionID:   data.SessionID,
		GroupID:     data.GroupID,
		Address:     data.Address,
		Description: data.Description,
		Degraded:    data.Degraded,
		CapturedAt:  data.CapturedAt,
	}
	if data.Latitude != nil && data.Longitude != nil {
		event.Position = &entity.Position{
			Latitude:  *data.Latitude,
			Longitude: *data.Longitude,
		}
		if data.AccuracyM != nil {
			event.Position.AccuracyM = *data.AccuracyM
		}
	}

	return event
}

// fromLocationEventDomain converts a domain entity to a GORM model.
func fromLocationEventDomain(data *entity.LocationEvent) *model.LocationEventModel {
	eventM := &model.LocationEventModel{
		ID:          data.ID,
		ChildID:     data.ChildID,
		SessionID:   data.SessionID,
		GroupID:     data.GroupID,
		Address:     data.Address,
		Description: data.Description,
		Degraded:    data.Degraded,
		CapturedAt:  data.CapturedAt,
	}
	if data.Position != nil {
		eventM.Latitude = &data.Position.Latitude
		eventM.Longitude = &data.Position.Longitude
		eventM.AccuracyM = &data.Position.AccuracyM
	}

	return eventM
}
