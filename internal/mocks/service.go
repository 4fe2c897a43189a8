package mocks

import (
	"context"

	"tripwatch/internal/domain/entity"
	"tripwatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MessageSender mocks service.MessageSender.
type MessageSender struct {
	mock.Mock
}

func (m *MessageSender) Send(ctx context.Context, destination, body string) (string, error) {
	args := m.Called(ctx, destination, body)

	return args.String(0), args.Error(1)
}

// LocationProvider mocks service.LocationProvider.
type LocationProvider struct {
	mock.Mock
}

func (m *LocationProvider) Capture(ctx context.Context) (*entity.Position, error) {
	args := m.Called(ctx)
	if position, ok := args.Get(0).(*entity.Position); ok {
		return position, args.Error(1)
	}

	return nil, args.Error(1)
}

// ReverseGeocoder mocks service.ReverseGeocoder.
type ReverseGeocoder struct {
	mock.Mock
}

func (m *ReverseGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	args := m.Called(ctx, lat, lng)

	return args.String(0), args.Error(1)
}

// TagCodeService mocks service.TagCodeService.
type TagCodeService struct {
	mock.Mock
}

func (m *TagCodeService) GenerateTagCode(tagUID string) ([]byte, error) {
	args := m.Called(tagUID)
	if code, ok := args.Get(0).([]byte); ok {
		return code, args.Error(1)
	}

	return nil, args.Error(1)
}

// DispatchUsecase mocks usecase.DispatchUsecase.
type DispatchUsecase struct {
	mock.Mock
}

func (m *DispatchUsecase) DispatchEvent(ctx context.Context, session *entity.ScanSession, child *entity.Child, event *entity.LocationEvent) (*entity.NotificationDispatch, error) {
	args := m.Called(ctx, session, child, event)
	if dispatch, ok := args.Get(0).(*entity.NotificationDispatch); ok {
		return dispatch, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *DispatchUsecase) ProcessDue(ctx context.Context) (int, error) {
	args := m.Called(ctx)

	return args.Int(0), args.Error(1)
}

func (m *DispatchUsecase) Abandon(ctx context.Context, dispatchID uuid.UUID) error {
	args := m.Called(ctx, dispatchID)

	return args.Error(0)
}

// ConfirmationUsecase mocks usecase.ConfirmationUsecase.
type ConfirmationUsecase struct {
	mock.Mock
}

func (m *ConfirmationUsecase) Track(confirmation *entity.Confirmation) {
	m.Called(confirmation)
}

func (m *ConfirmationUsecase) BindDispatch(confirmationID, dispatchID uuid.UUID) {
	m.Called(confirmationID, dispatchID)
}

func (m *ConfirmationUsecase) Get(id uuid.UUID) (*entity.Confirmation, bool) {
	args := m.Called(id)
	if confirmation, ok := args.Get(0).(*entity.Confirmation); ok {
		return confirmation, args.Bool(1)
	}

	return nil, args.Bool(1)
}

func (m *ConfirmationUsecase) Close(id uuid.UUID) (*entity.Confirmation, bool) {
	args := m.Called(id)
	if confirmation, ok := args.Get(0).(*entity.Confirmation); ok {
		return confirmation, args.Bool(1)
	}

	return nil, args.Bool(1)
}

func (m *ConfirmationUsecase) DispatchSettled(dispatchID uuid.UUID, status entity.DispatchStatus) {
	m.Called(dispatchID, status)
}

func (m *ConfirmationUsecase) ArmAutoClose(id uuid.UUID) {
	m.Called(id)
}

// ScanUsecase mocks usecase.ScanUsecase.
type ScanUsecase struct {
	mock.Mock
}

func (m *ScanUsecase) SubmitScan(ctx context.Context, sessionID uuid.UUID, input *usecase.ScanInput) (*usecase.ScanResult, error) {
	args := m.Called(ctx, sessionID, input)
	if result, ok := args.Get(0).(*usecase.ScanResult); ok {
		return result, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ScanUsecase) GetConfirmation(ctx context.Context, confirmationID uuid.UUID) (*usecase.ConfirmationView, error) {
	args := m.Called(ctx, confirmationID)
	if view, ok := args.Get(0).(*usecase.ConfirmationView); ok {
		return view, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ScanUsecase) DismissConfirmation(ctx context.Context, confirmationID uuid.UUID) error {
	args := m.Called(ctx, confirmationID)

	return args.Error(0)
}
