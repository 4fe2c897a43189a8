package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "tripwatch/internal/delivery/context"
	"tripwatch/internal/domain/entity"
	domainerrors "tripwatch/internal/domain/errors"
	"tripwatch/internal/domain/repository"
	"tripwatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	sessionRepo    repository.ScanSessionRepository
	enrollmentRepo repository.EnrollmentRepository
	logger         *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(
	sessionRepo repository.ScanSessionRepository,
	enrollmentRepo repository.EnrollmentRepository,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionService{
		sessionRepo:    sessionRepo,
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// OpenSession opens a scan session binding a group to a message template.
func (srv *sessionService) OpenSession(ctx context.Context, groupID uuid.UUID, template, operator string) (*entity.ScanSession, error) {
	srv.log(ctx).Info("Opening scan session", slog.Any("group_id", groupID), slog.String("operator", operator))

	open, err := groupWindowOpen(ctx, srv.enrollmentRepo, groupID, time.Now())
	if err != nil {
		return nil, errors.Wrap(err, "failed to check group window")
	}
	if !open {
		return nil, domainerrors.ErrGroupWindowClosed
	}

	session := &entity.ScanSession{
		ID:        uuid.New(),
		GroupID:   groupID,
		Template:  template,
		Operator:  operator,
		CreatedAt: time.Now(),
	}

	if err := srv.sessionRepo.Save(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to save scan session")
	}

	srv.log(ctx).Info("Scan session opened", slog.Any("session_id", session.ID), slog.Any("group_id", groupID))

	return session, nil
}

// GetSession retrieves an open session.
func (srv *sessionService) GetSession(ctx context.Context, id uuid.UUID) (*entity.ScanSession, error) {
	session, err := srv.sessionRepo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScanSessionNotFound) {
			return nil, domainerrors.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to find scan session")
	}

	return session, nil
}

// CloseSession closes a session explicitly.
func (srv *sessionService) CloseSession(ctx context.Context, id uuid.UUID) error {
	if err := srv.sessionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrScanSessionNotFound) {
			return domainerrors.ErrSessionNotFound
		}

		return errors.Wrap(err, "failed to close scan session")
	}

	srv.log(ctx).Info("Scan session closed", slog.Any("session_id", id))

	return nil
}

// groupWindowOpen reports whether any active enrollment of the group is
// presently inside its trip window.
func groupWindowOpen(ctx context.Context, repo repository.EnrollmentRepository, groupID uuid.UUID, now time.Time) (bool, error) {
	enrollments, err := repo.FindActiveByGroup(ctx, groupID)
	if err != nil {
		return false, err
	}

	return anyWithinWindow(enrollments, now), nil
}

// anyWithinWindow reports whether any enrollment is inside its trip window.
func anyWithinWindow(enrollments []*entity.Enrollment, now time.Time) bool {
	for _, enrollment := range enrollments {
		if enrollment.WithinWindow(now) {
			return true
		}
	}

	return false
}
