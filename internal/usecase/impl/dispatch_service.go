package impl

import (
	"context"
	"log/slog"
	"time"

	"tripwatch/config"
	deliverycontext "tripwatch/internal/delivery/context"
	"tripwatch/internal/domain/entity"
	domainerrors "tripwatch/internal/domain/errors"
	"tripwatch/internal/domain/repository"
	"tripwatch/internal/domain/service"
	"tripwatch/internal/usecase"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// retryBatchSize bounds how many due dispatches one worker tick processes.
const retryBatchSize = 50

// dispatchService implements the DispatchUsecase interface.
type dispatchService struct {
	dispatchRepo  repository.DispatchRepository
	guardianRepo  repository.GuardianRepository
	sender        service.MessageSender
	confirmations usecase.ConfirmationUsecase
	cfg           *config.Config
	logger        *slog.Logger
}

// NewDispatchService is the constructor for dispatchService.
func NewDispatchService(
	dispatchRepo repository.DispatchRepository,
	guardianRepo repository.GuardianRepository,
	sender service.MessageSender,
	confirmations usecase.ConfirmationUsecase,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.DispatchUsecase {
	return &dispatchService{
		dispatchRepo:  dispatchRepo,
		guardianRepo:  guardianRepo,
		sender:        sender,
		confirmations: confirmations,
		cfg:           cfg,
		logger:        logger,
	}
}

func (srv *dispatchService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// DispatchEvent renders the session template and starts delivery for the
// event. Idempotent per event: the second call returns the existing dispatch
// untouched, whatever its status.
func (srv *dispatchService) DispatchEvent(
	ctx context.Context,
	session *entity.ScanSession,
	child *entity.Child,
	event *entity.LocationEvent,
) (*entity.NotificationDispatch, error) {
	guardian, err := srv.guardianRepo.FindByID(ctx, child.GuardianID)
	if err != nil {
		if errors.Is(err, repository.ErrGuardianNotFound) {
			return nil, domainerrors.ErrGuardianNotFound
		}

		return nil, errors.Wrap(err, "failed to find guardian")
	}

	now := time.Now()
	dispatch := &entity.NotificationDispatch{
		ID:              uuid.New(),
		LocationEventID: event.ID,
		Channel:         entity.DispatchChannelSMS,
		Destination:     guardian.Phone,
		Body:            session.Render(child, event),
		Status:          entity.DispatchStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := srv.dispatchRepo.Create(ctx, dispatch); err != nil {
		if errors.Is(err, repository.ErrDispatchAlreadyExists) {
			existing, findErr := srv.dispatchRepo.FindByLocationEvent(ctx, event.ID)
			if findErr != nil {
				return nil, errors.Wrap(findErr, "failed to load existing dispatch")
			}

			return existing, nil
		}

		return nil, errors.Wrap(err, "failed to create dispatch")
	}

	srv.attempt(ctx, dispatch)

	return dispatch, nil
}

// ProcessDue attempts every pending dispatch whose retry is due.
func (srv *dispatchService) ProcessDue(ctx context.Context) (int, error) {
	due, err := srv.dispatchRepo.FindDue(ctx, time.Now(), retryBatchSize)
	if err != nil {
		return 0, errors.Wrap(err, "failed to find due dispatches")
	}

	for _, dispatch := range due {
		srv.attempt(ctx, dispatch)
		if dispatch.Settled() {
			srv.confirmations.DispatchSettled(dispatch.ID, dispatch.Status)
		}
	}

	return len(due), nil
}

// Abandon settles a pending dispatch as failed without further retries.
func (srv *dispatchService) Abandon(ctx context.Context, dispatchID uuid.UUID) error {
	if err := srv.dispatchRepo.Abandon(ctx, dispatchID); err != nil {
		return errors.Wrap(err, "failed to abandon dispatch")
	}

	srv.log(ctx).Info("Dispatch abandoned", slog.Any("dispatch_id", dispatchID))

	return nil
}

// attempt makes exactly one delivery attempt and records the outcome,
// scheduling the next retry while the ceiling allows. It mutates dispatch in
// place so callers observe the post-attempt state.
func (srv *dispatchService) attempt(ctx context.Context, dispatch *entity.NotificationDispatch) {
	messageID, sendErr := srv.sender.Send(ctx, dispatch.Destination, dispatch.Body)
	dispatch.Attempts++
	dispatch.UpdatedAt = time.Now()

	if sendErr == nil {
		if err := srv.dispatchRepo.RecordSuccess(ctx, dispatch.ID, messageID); err != nil {
			srv.log(ctx).Error("Failed to record dispatch success",
				slog.Any("error", err), slog.Any("dispatch_id", dispatch.ID))
		}
		dispatch.Status = entity.DispatchStatusSent
		dispatch.MessageID = messageID
		dispatch.NextRetryAt = nil

		srv.log(ctx).Info("Guardian notification sent",
			slog.Any("dispatch_id", dispatch.ID), slog.Int("attempts", dispatch.Attempts))

		return
	}

	dispatch.LastError = sendErr.Error()

	if dispatch.Attempts >= srv.cfg.Pipeline.MaxDispatchAttempts {
		if err := srv.dispatchRepo.RecordFailure(ctx, dispatch.ID, dispatch.LastError, nil); err != nil {
			srv.log(ctx).Error("Failed to record dispatch failure",
				slog.Any("error", err), slog.Any("dispatch_id", dispatch.ID))
		}
		dispatch.Status = entity.DispatchStatusFailed
		dispatch.NextRetryAt = nil

		srv.log(ctx).Warn("Guardian notification failed permanently",
			slog.Any("dispatch_id", dispatch.ID),
			slog.Int("attempts", dispatch.Attempts),
			slog.String("last_error", dispatch.LastError))

		return
	}

	nextRetryAt := time.Now().Add(srv.backoffDelay(dispatch.Attempts))
	if err := srv.dispatchRepo.RecordFailure(ctx, dispatch.ID, dispatch.LastError, &nextRetryAt); err != nil {
		srv.log(ctx).Error("Failed to record dispatch failure",
			slog.Any("error", err), slog.Any("dispatch_id", dispatch.ID))
	}
	dispatch.NextRetryAt = &nextRetryAt

	srv.log(ctx).Warn("Guardian notification attempt failed, retry scheduled",
		slog.Any("dispatch_id", dispatch.ID),
		slog.Int("attempts", dispatch.Attempts),
		slog.Time("next_retry_at", nextRetryAt))
}

// backoffDelay returns the delay after the given failed attempt count:
// strictly increasing, doubling from the configured initial interval.
func (srv *dispatchService) backoffDelay(failedAttempts int) time.Duration {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = srv.cfg.Pipeline.RetryInitialInterval
	policy.RandomizationFactor = 0
	policy.Multiplier = 2
	policy.MaxInterval = 10 * time.Minute
	policy.MaxElapsedTime = 0
	policy.Reset()

	delay := policy.NextBackOff()
	for i := 1; i < failedAttempts; i++ {
		delay = policy.NextBackOff()
	}

	return delay
}
