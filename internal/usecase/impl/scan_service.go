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
	"tripwatch/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// scanService implements the ScanUsecase interface. It orchestrates the full
// pipeline for one tag read: resolve, guard, capture, persist, notify.
type scanService struct {
	sessionRepo    repository.ScanSessionRepository
	childRepo      repository.ChildRepository
	enrollmentRepo repository.EnrollmentRepository
	eventRepo      repository.LocationEventRepository
	dispatchRepo   repository.DispatchRepository
	locations      service.LocationProvider
	geocoder       service.ReverseGeocoder
	dispatchUC     usecase.DispatchUsecase
	confirmations  usecase.ConfirmationUsecase
	childLocks     *util.KeyedMutex
	cfg            *config.Config
	logger         *slog.Logger
}

// NewScanService is the constructor for scanService.
func NewScanService(
	sessionRepo repository.ScanSessionRepository,
	childRepo repository.ChildRepository,
	enrollmentRepo repository.EnrollmentRepository,
	eventRepo repository.LocationEventRepository,
	dispatchRepo repository.DispatchRepository,
	locations service.LocationProvider,
	geocoder service.ReverseGeocoder,
	dispatchUC usecase.DispatchUsecase,
	confirmations usecase.ConfirmationUsecase,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.ScanUsecase {
	return &scanService{
		sessionRepo:    sessionRepo,
		childRepo:      childRepo,
		enrollmentRepo: enrollmentRepo,
		eventRepo:      eventRepo,
		dispatchRepo:   dispatchRepo,
		locations:      locations,
		geocoder:       geocoder,
		dispatchUC:     dispatchUC,
		confirmations:  confirmations,
		childLocks:     util.NewKeyedMutex(),
		cfg:            cfg,
		logger:         logger,
	}
}

func (srv *scanService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SubmitScan runs the full pipeline for one tag read.
func (srv *scanService) SubmitScan(ctx context.Context, sessionID uuid.UUID, input *usecase.ScanInput) (*usecase.ScanResult, error) {
	session, err := srv.sessionRepo.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrScanSessionNotFound) {
			return nil, domainerrors.ErrSessionExpired
		}

		return nil, errors.Wrap(err, "failed to find scan session")
	}

	// A session stays valid only while its group has an open trip window.
	// Once the window closes mid-TTL the session is as good as expired and
	// the operator has to reconfigure.
	now := time.Now()
	open, err := groupWindowOpen(ctx, srv.enrollmentRepo, session.GroupID, now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check group window")
	}
	if !open {
		srv.log(ctx).Warn("Scan against session with closed group window rejected",
			slog.Any("session_id", sessionID), slog.Any("group_id", session.GroupID))

		return nil, domainerrors.ErrSessionExpired
	}

	child, err := srv.childRepo.FindByTagUID(ctx, input.TagUID)
	if err != nil {
		if errors.Is(err, repository.ErrChildNotFound) {
			srv.log(ctx).Warn("Scan of unknown tag rejected",
				slog.String("tag_uid", input.TagUID), slog.Any("session_id", sessionID))

			return nil, domainerrors.ErrUnknownTag
		}

		return nil, errors.Wrap(err, "failed to resolve tag")
	}
	if !child.Active {
		return nil, domainerrors.ErrInactiveTag
	}

	enrollments, err := srv.enrollmentRepo.FindActiveByChildAndGroup(ctx, child.ID, session.GroupID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find enrollments")
	}
	if !anyWithinWindow(enrollments, now) {
		// A child without an in-window enrollment for this group is
		// rejected the same way an inactive tag is.
		return nil, domainerrors.ErrInactiveTag
	}

	confirmation := entity.NewConfirmation(session.ID, child.ID)
	srv.confirmations.Track(confirmation)

	// The per-child lock makes the debounce check and the append atomic with
	// respect to concurrent scans of the same child.
	srv.childLocks.Lock(child.ID.String())
	defer srv.childLocks.Unlock(child.ID.String())

	recent, err := srv.eventRepo.FindRecent(ctx, child.ID, session.ID, now.Add(-srv.cfg.Pipeline.DebounceWindow))
	if err != nil && !errors.Is(err, repository.ErrLocationEventNotFound) {
		// Arm the countdown so the aborted scan's confirmation does not
		// linger in the registry forever.
		srv.confirmations.ArmAutoClose(confirmation.ID())

		return nil, errors.Wrap(err, "failed to check debounce window")
	}
	if recent != nil {
		return srv.resolveDuplicate(ctx, confirmation, recent)
	}

	position, degraded := srv.capturePosition(ctx, input)

	event := &entity.LocationEvent{
		ID:          uuid.New(),
		ChildID:     child.ID,
		SessionID:   session.ID,
		GroupID:     session.GroupID,
		Position:    position,
		Description: input.Description,
		Degraded:    degraded,
		CapturedAt:  now,
	}
	if position != nil {
		if address, geoErr := srv.geocoder.ReverseGeocode(ctx, position.Latitude, position.Longitude); geoErr == nil {
			event.Address = address
		} else {
			srv.log(ctx).Warn("Reverse geocoding failed",
				slog.Any("error", geoErr), slog.Any("event_id", event.ID))
		}
	}

	if err := srv.eventRepo.Append(ctx, event); err != nil {
		srv.confirmations.ArmAutoClose(confirmation.ID())

		return nil, errors.Wrap(err, "failed to append location event")
	}
	confirmation.MarkLocationResolved(event.ID)

	dispatch, err := srv.dispatchUC.DispatchEvent(ctx, session, child, event)
	if err != nil {
		// The event is durably stored; only the notification leg failed.
		confirmation.MarkNotificationPending(uuid.Nil)
		confirmation.MarkNotificationFailed()
		srv.confirmations.ArmAutoClose(confirmation.ID())
		srv.log(ctx).Error("Failed to start guardian notification",
			slog.Any("error", err), slog.Any("event_id", event.ID))

		// Keep the specific failure (missing guardian, say) visible to the
		// operator instead of folding everything into the terminal
		// delivery failure.
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}

		return nil, domainerrors.ErrDispatchFailed
	}

	confirmation.MarkNotificationPending(dispatch.ID)
	srv.confirmations.BindDispatch(confirmation.ID(), dispatch.ID)
	if dispatch.Settled() {
		srv.confirmations.DispatchSettled(dispatch.ID, dispatch.Status)
	}

	srv.log(ctx).Info("Scan processed",
		slog.Any("child_id", child.ID),
		slog.Any("event_id", event.ID),
		slog.Bool("degraded", degraded),
		slog.String("dispatch_status", string(dispatch.Status)))

	return &usecase.ScanResult{
		ConfirmationID: confirmation.ID(),
		Event:          event,
		Dispatch:       dispatch,
	}, nil
}

// GetConfirmation returns the operator-visible state of a scan.
func (srv *scanService) GetConfirmation(ctx context.Context, confirmationID uuid.UUID) (*usecase.ConfirmationView, error) {
	confirmation, ok := srv.confirmations.Get(confirmationID)
	if !ok {
		return nil, domainerrors.ErrConfirmationNotFound
	}

	view := &usecase.ConfirmationView{
		ID:      confirmation.ID(),
		State:   confirmation.State(),
		EventID: confirmation.EventID(),
	}
	if closesAt := confirmation.ClosesAt(); !closesAt.IsZero() {
		view.ClosesAt = closesAt.UTC().Format(time.RFC3339)
	}

	return view, nil
}

// DismissConfirmation closes a confirmation explicitly. A dispatch still
// pending is abandoned; a sent one is never cancelled.
func (srv *scanService) DismissConfirmation(ctx context.Context, confirmationID uuid.UUID) error {
	confirmation, ok := srv.confirmations.Close(confirmationID)
	if !ok {
		return domainerrors.ErrConfirmationNotFound
	}

	if dispatchID := confirmation.DispatchID(); dispatchID != uuid.Nil {
		dispatch, err := srv.dispatchRepo.FindByID(ctx, dispatchID)
		if err != nil {
			if errors.Is(err, repository.ErrDispatchNotFound) {
				return nil
			}

			return errors.Wrap(err, "failed to find dispatch")
		}
		if !dispatch.Settled() {
			if err := srv.dispatchUC.Abandon(ctx, dispatchID); err != nil {
				return err
			}
		}
	}

	return nil
}

// resolveDuplicate handles a scan inside the debounce window: the existing
// event and its dispatch are surfaced unchanged through a fresh confirmation.
func (srv *scanService) resolveDuplicate(ctx context.Context, confirmation *entity.Confirmation, event *entity.LocationEvent) (*usecase.ScanResult, error) {
	confirmation.MarkLocationResolved(event.ID)

	dispatch, err := srv.dispatchRepo.FindByLocationEvent(ctx, event.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrDispatchNotFound) {
			srv.confirmations.ArmAutoClose(confirmation.ID())

			return nil, errors.Wrap(err, "failed to find dispatch for event")
		}
		srv.confirmations.ArmAutoClose(confirmation.ID())

		return &usecase.ScanResult{
			ConfirmationID: confirmation.ID(),
			Event:          event,
			Duplicate:      true,
		}, nil
	}

	confirmation.MarkNotificationPending(dispatch.ID)
	srv.confirmations.BindDispatch(confirmation.ID(), dispatch.ID)
	if dispatch.Settled() {
		srv.confirmations.DispatchSettled(dispatch.ID, dispatch.Status)
	}

	srv.log(ctx).Info("Duplicate scan suppressed",
		slog.Any("child_id", event.ChildID), slog.Any("event_id", event.ID))

	return &usecase.ScanResult{
		ConfirmationID: confirmation.ID(),
		Event:          event,
		Dispatch:       dispatch,
		Duplicate:      true,
	}, nil
}

// capturePosition obtains the position for the event, preferring the fix the
// scanning device already reported. A failed capture degrades the event
// instead of aborting the pipeline.
func (srv *scanService) capturePosition(ctx context.Context, input *usecase.ScanInput) (*entity.Position, bool) {
	if input.Position != nil {
		return input.Position, false
	}

	captureCtx, cancel := context.WithTimeout(ctx, srv.cfg.Pipeline.CaptureTimeout)
	defer cancel()

	position, err := srv.locations.Capture(captureCtx)
	if err != nil {
		srv.log(ctx).Warn("Position capture failed, continuing degraded",
			slog.Any("error", err))

		return nil, true
	}

	return position, false
}
