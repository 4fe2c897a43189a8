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

// dispatchRepository implements the repository.DispatchRepository interface.
type dispatchRepository struct {
	db *gorm.DB
}

// NewDispatchRepository is the constructor for dispatchRepository.
func NewDispatchRepository(db *gorm.DB) repository.DispatchRepository {
	return &dispatchRepository{
		db: db,
	}
}

// Create persists a new pending dispatch. The unique index on
// location_event_id rejects a second dispatch for the same event.
func (repo *dispatchRepository) Create(ctx context.Context, dispatch *entity.NotificationDispatch) error {
	dispatchM := fromDispatchDomain(dispatch)

	if err := repo.db.WithContext(ctx).Create(dispatchM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDispatchAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create dispatch")
	}

	dispatch.CreatedAt = dispatchM.CreatedAt
	dispatch.UpdatedAt = dispatchM.UpdatedAt

	return nil
}

// FindByID retrieves a dispatch by its unique ID.
func (repo *dispatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.NotificationDispatch, error) {
	var dispatchM model.NotificationDispatchModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&dispatchM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDispatchNotFound
		}

		return nil, errors.Wrap(err, "failed to find dispatch by ID")
	}

	return toDispatchDomain(&dispatchM), nil
}

// FindByLocationEvent retrieves the dispatch for a location event.
func (repo *dispatchRepository) FindByLocationEvent(ctx context.Context, eventID uuid.UUID) (*entity.NotificationDispatch, error) {
	var dispatchM model.NotificationDispatchModel

	if err := repo.db.WithContext(ctx).
		Where("location_event_id = ?", eventID).
		First(&dispatchM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDispatchNotFound
		}

		return nil, errors.Wrap(err, "failed to find dispatch by location event")
	}

	return toDispatchDomain(&dispatchM), nil
}

// FindDue retrieves pending dispatches whose next retry is due. Dispatches
// with a null next_retry_at are owned by the inline attempt and never
// surface here.
func (repo *dispatchRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.NotificationDispatch, error) {
	var dispatchModels []*model.NotificationDispatchModel

	if err := repo.db.WithContext(ctx).
		Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", string(entity.DispatchStatusPending), now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&dispatchModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find due dispatches")
	}

	dispatches := make([]*entity.NotificationDispatch, 0, len(dispatchModels))
	for _, dispatchM := range dispatchModels {
		dispatches = append(dispatches, toDispatchDomain(dispatchM))
	}

	return dispatches, nil
}

// RecordSuccess marks a dispatch sent, storing the gateway message ID and
// incrementing the attempt counter. Only a still-pending row is updated, so
// an attempt racing an operator abandon cannot resurrect the dispatch.
func (repo *dispatchRepository) RecordSuccess(ctx context.Context, id uuid.UUID, messageID string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationDispatchModel{}).
		Where("id = ? AND status = ?", id, string(entity.DispatchStatusPending)).
		Updates(map[string]any{
			"status":        string(entity.DispatchStatusSent),
			"attempts":      gorm.Expr("attempts + 1"),
			"message_id":    messageID,
			"next_retry_at": nil,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to record dispatch success")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDispatchNotFound
	}

	return nil
}

// RecordFailure increments the attempt counter and stores the error. A
// non-nil nextRetryAt keeps the dispatch pending; nil settles it as failed.
// Like RecordSuccess, the update only touches a still-pending row.
func (repo *dispatchRepository) RecordFailure(ctx context.Context, id uuid.UUID, lastError string, nextRetryAt *time.Time) error {
	status := entity.DispatchStatusPending
	if nextRetryAt == nil {
		status = entity.DispatchStatusFailed
	}

	result := repo.db.WithContext(ctx).
		Model(&model.NotificationDispatchModel{}).
		Where("id = ? AND status = ?", id, string(entity.DispatchStatusPending)).
		Updates(map[string]any{
			"status":        string(status),
			"attempts":      gorm.Expr("attempts + 1"),
			"last_error":    lastError,
			"next_retry_at": nextRetryAt,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to record dispatch failure")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDispatchNotFound
	}

	return nil
}

// Abandon settles a pending dispatch as failed without further retries.
// Sent or already-failed dispatches are left untouched.
func (repo *dispatchRepository) Abandon(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationDispatchModel{}).
		Where("id = ? AND status = ?", id, string(entity.DispatchStatusPending)).
		Updates(map[string]any{
			"status":        string(entity.DispatchStatusFailed),
			"last_error":    "abandoned by operator",
			"next_retry_at": nil,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to abandon dispatch")
	}

	return nil
}

// toDispatchDomain converts a GORM model to a domain entity.
func toDispatchDomain(data *model.NotificationDispatchModel) *entity.NotificationDispatch {
	return &entity.NotificationDispatch{
		ID:              data.ID,
		LocationEventID: data.LocationEventID,
		Channel:         data.Channel,
		Destination:     data.Destination,
		Body:            data.Body,
		Status:          entity.DispatchStatus(data.Status),
		Attempts:        data.Attempts,
		LastError:       data.LastError,
		NextRetryAt:     data.NextRetryAt,
		MessageID:       data.MessageID,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromDispatchDomain converts a domain entity to a GORM model.
func fromDispatchDomain(data *entity.NotificationDispatch) *model.NotificationDispatchModel {
	return &model.NotificationDispatchModel{
		ID:              data.ID,
		LocationEventID: data.LocationEventID,
		Channel:         data.Channel,
		Destination:     data.Destination,
		Body:            data.Body,
		Status:          string(data.Status),
		Attempts:        data.Attempts,
		LastError:       data.LastError,
		NextRetryAt:     data.NextRetryAt,
		MessageID:       data.MessageID,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
