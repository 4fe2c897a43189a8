package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "tripwatch/internal/delivery/context"
	"tripwatch/internal/domain/entity"
	domainerrors "tripwatch/internal/domain/errors"
	"tripwatch/internal/domain/repository"
	"tripwatch/internal/domain/service"
	"tripwatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// locationService implements the LocationUsecase interface.
type locationService struct {
	childRepo      repository.ChildRepository
	guardianRepo   repository.GuardianRepository
	enrollmentRepo repository.EnrollmentRepository
	eventRepo      repository.LocationEventRepository
	tagCodes       service.TagCodeService
	logger         *slog.Logger
}

// NewLocationService is the constructor for locationService.
func NewLocationService(
	childRepo repository.ChildRepository,
	guardianRepo repository.GuardianRepository,
	enrollmentRepo repository.EnrollmentRepository,
	eventRepo repository.LocationEventRepository,
	tagCodes service.TagCodeService,
	logger *slog.Logger,
) usecase.LocationUsecase {
	return &locationService{
		childRepo:      childRepo,
		guardianRepo:   guardianRepo,
		enrollmentRepo: enrollmentRepo,
		eventRepo:      eventRepo,
		tagCodes:       tagCodes,
		logger:         logger,
	}
}

func (srv *locationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// LatestChildLocation returns the most recent location event for a child.
// Outside every enrollment window the stored events are withheld.
func (srv *locationService) LatestChildLocation(ctx context.Context, childID uuid.UUID) (*entity.LocationEvent, error) {
	if _, err := srv.childRepo.FindByID(ctx, childID); err != nil {
		if errors.Is(err, repository.ErrChildNotFound) {
			return nil, domainerrors.ErrChildNotFound
		}

		return nil, errors.Wrap(err, "failed to find child")
	}

	enrollments, err := srv.enrollmentRepo.FindActiveByChild(ctx, childID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find enrollments")
	}
	if !anyWithinWindow(enrollments, time.Now()) {
		return nil, domainerrors.ErrGroupWindowClosed
	}

	event, err := srv.eventRepo.FindLatestByChild(ctx, childID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationEventNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to find latest location event")
	}

	return event, nil
}

// GroupRoster lists the children of a group with guardian contact info.
func (srv *locationService) GroupRoster(ctx context.Context, groupID uuid.UUID) ([]*usecase.RosterEntry, error) {
	children, err := srv.childRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list group children")
	}
	if len(children) == 0 {
		return []*usecase.RosterEntry{}, nil
	}

	guardianIDs := make([]uuid.UUID, 0, len(children))
	seen := make(map[uuid.UUID]struct{}, len(children))
	for _, child := range children {
		if _, ok := seen[child.GuardianID]; ok {
			continue
		}
		seen[child.GuardianID] = struct{}{}
		guardianIDs = append(guardianIDs, child.GuardianID)
	}

	guardians, err := srv.guardianRepo.FindByIDs(ctx, guardianIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find guardians")
	}
	byID := make(map[uuid.UUID]*entity.Guardian, len(guardians))
	for _, guardian := range guardians {
		byID[guardian.ID] = guardian
	}

	entries := make([]*usecase.RosterEntry, 0, len(children))
	for _, child := range children {
		guardian, ok := byID[child.GuardianID]
		if !ok {
			srv.log(ctx).Warn("Child references missing guardian",
				slog.Any("child_id", child.ID), slog.Any("guardian_id", child.GuardianID))
		}
		entries = append(entries, &usecase.RosterEntry{Child: child, Guardian: guardian})
	}

	return entries, nil
}

// ChildTagCode renders the printable fallback code for a child's tag.
func (srv *locationService) ChildTagCode(ctx context.Context, childID uuid.UUID) ([]byte, error) {
	child, err := srv.childRepo.FindByID(ctx, childID)
	if err != nil {
		if errors.Is(err, repository.ErrChildNotFound) {
			return nil, domainerrors.ErrChildNotFound
		}

		return nil, errors.Wrap(err, "failed to find child")
	}

	code, err := srv.tagCodes.GenerateTagCode(child.TagUID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tag code")
	}

	return code, nil
}
