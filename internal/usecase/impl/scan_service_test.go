package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"tripwatch/config"
	"tripwatch/internal/domain/entity"
	domainerrors "tripwatch/internal/domain/errors"
	"tripwatch/internal/domain/repository"
	"tripwatch/internal/domain/service"
	"tripwatch/internal/mocks"
	"tripwatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pipelineConfig() *config.Config {
	return &config.Config{
		Pipeline: &config.PipelineConfig{
			DebounceWindow:        10 * time.Second,
			CaptureTimeout:        8 * time.Second,
			MaxDispatchAttempts:   3,
			RetryInitialInterval:  30 * time.Second,
			RetryPollInterval:     5 * time.Second,
			ConfirmationCountdown: 15 * time.Second,
		},
	}
}

type scanFixture struct {
	sessionRepo    *mocks.ScanSessionRepository
	childRepo      *mocks.ChildRepository
	enrollmentRepo *mocks.EnrollmentRepository
	eventRepo      *mocks.LocationEventRepository
	dispatchRepo   *mocks.DispatchRepository
	locations      *mocks.LocationProvider
	geocoder       *mocks.ReverseGeocoder
	dispatchUC     *mocks.DispatchUsecase
	confirmations  usecase.ConfirmationUsecase
	scanUC         usecase.ScanUsecase

	session    *entity.ScanSession
	child      *entity.Child
	enrollment *entity.Enrollment
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()

	f := &scanFixture{
		sessionRepo:    new(mocks.ScanSessionRepository),
		childRepo:      new(mocks.ChildRepository),
		enrollmentRepo: new(mocks.EnrollmentRepository),
		eventRepo:      new(mocks.LocationEventRepository),
		dispatchRepo:   new(mocks.DispatchRepository),
		locations:      new(mocks.LocationProvider),
		geocoder:       new(mocks.ReverseGeocoder),
		dispatchUC:     new(mocks.DispatchUsecase),
	}

	logger := slog.Default()
	cfg := pipelineConfig()
	f.confirmations = NewConfirmationService(cfg, logger)
	f.scanUC = NewScanService(
		f.sessionRepo, f.childRepo, f.enrollmentRepo, f.eventRepo, f.dispatchRepo,
		f.locations, f.geocoder, f.dispatchUC, f.confirmations, cfg, logger,
	)

	groupID := uuid.New()
	f.session = &entity.ScanSession{
		ID:        uuid.New(),
		GroupID:   groupID,
		Template:  "{child} seen at {time} near {location}",
		Operator:  "chaperone-1",
		CreatedAt: time.Now(),
	}
	f.child = &entity.Child{
		ID:         uuid.New(),
		FullName:   "Ana Souza",
		TagUID:     "04:A2:19:B3",
		GuardianID: uuid.New(),
		Active:     true,
	}
	f.enrollment = &entity.Enrollment{
		ID:           uuid.New(),
		ChildID:      f.child.ID,
		GroupID:      groupID,
		TripStartsOn: time.Now().Add(-24 * time.Hour),
		TripEndsOn:   time.Now().Add(24 * time.Hour),
		Status:       entity.EnrollmentStatusActive,
	}

	return f
}

func (f *scanFixture) stubHappyLookups() {
	f.sessionRepo.On("Find", mock.Anything, f.session.ID).Return(f.session, nil)
	f.enrollmentRepo.On("FindActiveByGroup", mock.Anything, f.session.GroupID).
		Return([]*entity.Enrollment{f.enrollment}, nil)
	f.childRepo.On("FindByTagUID", mock.Anything, f.child.TagUID).Return(f.child, nil)
	f.enrollmentRepo.On("FindActiveByChildAndGroup", mock.Anything, f.child.ID, f.session.GroupID).
		Return([]*entity.Enrollment{f.enrollment}, nil)
}

func TestScanService_SubmitScan_Success(t *testing.T) {
	f := newScanFixture(t)
	f.stubHappyLookups()

	position := &entity.Position{Latitude: -23.55052, Longitude: -46.633308, AccuracyM: 12}
	f.eventRepo.On("FindRecent", mock.Anything, f.child.ID, f.session.ID, mock.Anything).
		Return(nil, repository.ErrLocationEventNotFound)
	f.locations.On("Capture", mock.Anything).Return(position, nil)
	f.geocoder.On("ReverseGeocode", mock.Anything, position.Latitude, position.Longitude).
		Return("Av. Paulista 1578", nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	dispatch := &entity.NotificationDispatch{
		ID:       uuid.New(),
		Status:   entity.DispatchStatusSent,
		Attempts: 1,
	}
	f.dispatchUC.On("DispatchEvent", mock.Anything, f.session, f.child, mock.Anything).Return(dispatch, nil)

	result, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, dispatch, result.Dispatch)
	require.NotNil(t, result.Event)
	assert.Equal(t, f.child.ID, result.Event.ChildID)
	assert.Equal(t, f.session.GroupID, result.Event.GroupID)
	assert.Equal(t, position, result.Event.Position)
	assert.Equal(t, "Av. Paulista 1578", result.Event.Address)
	assert.False(t, result.Event.Degraded)

	// Sent dispatch settles the confirmation immediately.
	view, err := f.scanUC.GetConfirmation(context.Background(), result.ConfirmationID)
	require.NoError(t, err)
	assert.Equal(t, entity.ConfirmationNotificationSent, view.State)
	assert.NotEmpty(t, view.ClosesAt)
}

func TestScanService_SubmitScan_DeviceProvidedPosition(t *testing.T) {
	f := newScanFixture(t)
	f.stubHappyLookups()

	position := &entity.Position{Latitude: 1, Longitude: 2, AccuracyM: 5}
	f.eventRepo.On("FindRecent", mock.Anything, f.child.ID, f.session.ID, mock.Anything).
		Return(nil, repository.ErrLocationEventNotFound)
	f.geocoder.On("ReverseGeocode", mock.Anything, position.Latitude, position.Longitude).
		Return("", assert.AnError)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.dispatchUC.On("DispatchEvent", mock.Anything, f.session, f.child, mock.Anything).
		Return(&entity.NotificationDispatch{ID: uuid.New(), Status: entity.DispatchStatusPending}, nil)

	result, err := f.scanUC.SubmitScan(context.Background(), f.session.ID,
		&usecase.ScanInput{TagUID: f.child.TagUID, Position: position})
	require.NoError(t, err)
	assert.Equal(t, position, result.Event.Position)
	assert.Empty(t, result.Event.Address)
	f.locations.AssertNotCalled(t, "Capture", mock.Anything)
}

func TestScanService_SubmitScan_UnknownTag(t *testing.T) {
	f := newScanFixture(t)
	f.sessionRepo.On("Find", mock.Anything, f.session.ID).Return(f.session, nil)
	f.enrollmentRepo.On("FindActiveByGroup", mock.Anything, f.session.GroupID).
		Return([]*entity.Enrollment{f.enrollment}, nil)
	f.childRepo.On("FindByTagUID", mock.Anything, "ff:ff").Return(nil, repository.ErrChildNotFound)

	_, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: "ff:ff"})
	assert.ErrorIs(t, err, domainerrors.ErrUnknownTag)
	f.eventRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestScanService_SubmitScan_InactiveTag(t *testing.T) {
	f := newScanFixture(t)
	f.child.Active = false
	f.sessionRepo.On("Find", mock.Anything, f.session.ID).Return(f.session, nil)
	f.enrollmentRepo.On("FindActiveByGroup", mock.Anything, f.session.GroupID).
		Return([]*entity.Enrollment{f.enrollment}, nil)
	f.childRepo.On("FindByTagUID", mock.Anything, f.child.TagUID).Return(f.child, nil)

	_, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	assert.ErrorIs(t, err, domainerrors.ErrInactiveTag)
}

func TestScanService_SubmitScan_ExpiredSession(t *testing.T) {
	f := newScanFixture(t)
	f.sessionRepo.On("Find", mock.Anything, f.session.ID).Return(nil, repository.ErrScanSessionNotFound)

	_, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	assert.ErrorIs(t, err, domainerrors.ErrSessionExpired)
}

func TestScanService_SubmitScan_NoEnrollmentInWindowIsInactiveTag(t *testing.T) {
	f := newScanFixture(t)

	// The group's window is open through another child's enrollment; the
	// scanned child's own window ended two days ago.
	expired := &entity.Enrollment{
		ID:           uuid.New(),
		ChildID:      f.child.ID,
		GroupID:      f.session.GroupID,
		TripStartsOn: time.Now().Add(-72 * time.Hour),
		TripEndsOn:   time.Now().Add(-48 * time.Hour),
		Status:       entity.EnrollmentStatusActive,
	}
	f.sessionRepo.On("Find", mock.Anything, f.session.ID).Return(f.session, nil)
	f.enrollmentRepo.On("FindActiveByGroup", mock.Anything, f.session.GroupID).
		Return([]*entity.Enrollment{f.enrollment}, nil)
	f.childRepo.On("FindByTagUID", mock.Anything, f.child.TagUID).Return(f.child, nil)
	f.enrollmentRepo.On("FindActiveByChildAndGroup", mock.Anything, f.child.ID, f.session.GroupID).
		Return([]*entity.Enrollment{expired}, nil)

	_, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	assert.ErrorIs(t, err, domainerrors.ErrInactiveTag)
	f.eventRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestScanService_SubmitScan_GroupWindowClosedExpiresSession(t *testing.T) {
	f := newScanFixture(t)
	f.enrollment.TripStartsOn = time.Now().Add(-72 * time.Hour)
	f.enrollment.TripEndsOn = time.Now().Add(-48 * time.Hour)

	// The session key is still in Redis, but the group's only enrollment
	// window has closed underneath it.
	f.sessionRepo.On("Find", mock.Anything, f.session.ID).Return(f.session, nil)
	f.enrollmentRepo.On("FindActiveByGroup", mock.Anything, f.session.GroupID).
		Return([]*entity.Enrollment{f.enrollment}, nil)

	_, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	assert.ErrorIs(t, err, domainerrors.ErrSessionExpired)
	f.childRepo.AssertNotCalled(t, "FindByTagUID", mock.Anything, mock.Anything)
}

func TestScanService_SubmitScan_AbortedScanArmsAutoClose(t *testing.T) {
	f := newScanFixture(t)
	f.stubHappyLookups()

	f.eventRepo.On("FindRecent", mock.Anything, f.child.ID, f.session.ID, mock.Anything).
		Return(nil, assert.AnError)

	_, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	require.Error(t, err)

	// The confirmation created for the aborted scan must be on its way out
	// of the registry, not parked in Submitted forever.
	registry := f.confirmations.(*confirmationService)
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	require.Len(t, registry.byID, 1)
	for _, confirmation := range registry.byID {
		assert.False(t, confirmation.ClosesAt().IsZero())
	}
}

func TestScanService_SubmitScan_AppendFailureArmsAutoClose(t *testing.T) {
	f := newScanFixture(t)
	f.stubHappyLookups()

	f.eventRepo.On("FindRecent", mock.Anything, f.child.ID, f.session.ID, mock.Anything).
		Return(nil, repository.ErrLocationEventNotFound)
	f.locations.On("Capture", mock.Anything).Return(&entity.Position{Latitude: 1, Longitude: 2}, nil)
	f.geocoder.On("ReverseGeocode", mock.Anything, mock.Anything, mock.Anything).Return("somewhere", nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	require.Error(t, err)

	registry := f.confirmations.(*confirmationService)
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	require.Len(t, registry.byID, 1)
	for _, confirmation := range registry.byID {
		assert.False(t, confirmation.ClosesAt().IsZero())
	}
}

func TestScanService_SubmitScan_DebounceDuplicate(t *testing.T) {
	f := newScanFixture(t)
	f.stubHappyLookups()

	existing := &entity.LocationEvent{
		ID:         uuid.New(),
		ChildID:    f.child.ID,
		SessionID:  f.session.ID,
		GroupID:    f.session.GroupID,
		CapturedAt: time.Now().Add(-3 * time.Second),
	}
	existingDispatch := &entity.NotificationDispatch{
		ID:              uuid.New(),
		LocationEventID: existing.ID,
		Status:          entity.DispatchStatusSent,
		Attempts:        1,
	}
	f.eventRepo.On("FindRecent", mock.Anything, f.child.ID, f.session.ID, mock.Anything).Return(existing, nil)
	f.dispatchRepo.On("FindByLocationEvent", mock.Anything, existing.ID).Return(existingDispatch, nil)

	result, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Equal(t, existing, result.Event)
	assert.Equal(t, existingDispatch, result.Dispatch)

	f.eventRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.dispatchUC.AssertNotCalled(t, "DispatchEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	view, err := f.scanUC.GetConfirmation(context.Background(), result.ConfirmationID)
	require.NoError(t, err)
	assert.Equal(t, entity.ConfirmationNotificationSent, view.State)
}

func TestScanService_SubmitScan_DegradedCaptureCompletesPipeline(t *testing.T) {
	f := newScanFixture(t)
	f.stubHappyLookups()

	f.eventRepo.On("FindRecent", mock.Anything, f.child.ID, f.session.ID, mock.Anything).
		Return(nil, repository.ErrLocationEventNotFound)
	f.locations.On("Capture", mock.Anything).Return(nil, service.ErrCaptureUnavailable)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.dispatchUC.On("DispatchEvent", mock.Anything, f.session, f.child, mock.Anything).
		Return(&entity.NotificationDispatch{ID: uuid.New(), Status: entity.DispatchStatusSent, Attempts: 1}, nil)

	result, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	require.NoError(t, err)
	assert.True(t, result.Event.Degraded)
	assert.Nil(t, result.Event.Position)
	f.geocoder.AssertNotCalled(t, "ReverseGeocode", mock.Anything, mock.Anything, mock.Anything)
}

func TestScanService_SubmitScan_DispatchCreationFails(t *testing.T) {
	f := newScanFixture(t)
	f.stubHappyLookups()

	f.eventRepo.On("FindRecent", mock.Anything, f.child.ID, f.session.ID, mock.Anything).
		Return(nil, repository.ErrLocationEventNotFound)
	f.locations.On("Capture", mock.Anything).Return(&entity.Position{Latitude: 1, Longitude: 2}, nil)
	f.geocoder.On("ReverseGeocode", mock.Anything, mock.Anything, mock.Anything).Return("somewhere", nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.dispatchUC.On("DispatchEvent", mock.Anything, f.session, f.child, mock.Anything).
		Return(nil, assert.AnError)

	_, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	assert.ErrorIs(t, err, domainerrors.ErrDispatchFailed)
}

func TestScanService_SubmitScan_MissingGuardianSurfacedAsIs(t *testing.T) {
	f := newScanFixture(t)
	f.stubHappyLookups()

	f.eventRepo.On("FindRecent", mock.Anything, f.child.ID, f.session.ID, mock.Anything).
		Return(nil, repository.ErrLocationEventNotFound)
	f.locations.On("Capture", mock.Anything).Return(&entity.Position{Latitude: 1, Longitude: 2}, nil)
	f.geocoder.On("ReverseGeocode", mock.Anything, mock.Anything, mock.Anything).Return("somewhere", nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.dispatchUC.On("DispatchEvent", mock.Anything, f.session, f.child, mock.Anything).
		Return(nil, domainerrors.ErrGuardianNotFound)

	_, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	assert.ErrorIs(t, err, domainerrors.ErrGuardianNotFound)
	assert.NotErrorIs(t, err, domainerrors.ErrDispatchFailed)
}

func TestScanService_GetConfirmation_NotFound(t *testing.T) {
	f := newScanFixture(t)

	_, err := f.scanUC.GetConfirmation(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrConfirmationNotFound)
}

func TestScanService_DismissConfirmation_AbandonsPendingDispatch(t *testing.T) {
	f := newScanFixture(t)
	f.stubHappyLookups()

	pending := &entity.NotificationDispatch{ID: uuid.New(), Status: entity.DispatchStatusPending}
	f.eventRepo.On("FindRecent", mock.Anything, f.child.ID, f.session.ID, mock.Anything).
		Return(nil, repository.ErrLocationEventNotFound)
	f.locations.On("Capture", mock.Anything).Return(&entity.Position{Latitude: 1, Longitude: 2}, nil)
	f.geocoder.On("ReverseGeocode", mock.Anything, mock.Anything, mock.Anything).Return("somewhere", nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.dispatchUC.On("DispatchEvent", mock.Anything, f.session, f.child, mock.Anything).Return(pending, nil)

	result, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	require.NoError(t, err)

	f.dispatchRepo.On("FindByID", mock.Anything, pending.ID).Return(pending, nil)
	f.dispatchUC.On("Abandon", mock.Anything, pending.ID).Return(nil)

	require.NoError(t, f.scanUC.DismissConfirmation(context.Background(), result.ConfirmationID))
	f.dispatchUC.AssertCalled(t, "Abandon", mock.Anything, pending.ID)
}

func TestScanService_DismissConfirmation_SentDispatchNotAbandoned(t *testing.T) {
	f := newScanFixture(t)
	f.stubHappyLookups()

	sent := &entity.NotificationDispatch{ID: uuid.New(), Status: entity.DispatchStatusSent, Attempts: 1}
	f.eventRepo.On("FindRecent", mock.Anything, f.child.ID, f.session.ID, mock.Anything).
		Return(nil, repository.ErrLocationEventNotFound)
	f.locations.On("Capture", mock.Anything).Return(&entity.Position{Latitude: 1, Longitude: 2}, nil)
	f.geocoder.On("ReverseGeocode", mock.Anything, mock.Anything, mock.Anything).Return("somewhere", nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.dispatchUC.On("DispatchEvent", mock.Anything, f.session, f.child, mock.Anything).Return(sent, nil)

	result, err := f.scanUC.SubmitScan(context.Background(), f.session.ID, &usecase.ScanInput{TagUID: f.child.TagUID})
	require.NoError(t, err)

	f.dispatchRepo.On("FindByID", mock.Anything, sent.ID).Return(sent, nil)

	require.NoError(t, f.scanUC.DismissConfirmation(context.Background(), result.ConfirmationID))
	f.dispatchUC.AssertNotCalled(t, "Abandon", mock.Anything, mock.Anything)
}
