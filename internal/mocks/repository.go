// Package mocks provides hand-rolled testify mocks for the domain interfaces.
package mocks

import (
	"context"
	"time"

	"tripwatch/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ChildRepository mocks repository.ChildRepository.
type ChildRepository struct {
	mock.Mock
}

func (m *ChildRepository) FindByTagUID(ctx context.Context, tagUID string) (*entity.Child, error) {
	args := m.Called(ctx, tagUID)
	if child, ok := args.Get(0).(*entity.Child); ok {
		return child, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ChildRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Child, error) {
	args := m.Called(ctx, id)
	if child, ok := args.Get(0).(*entity.Child); ok {
		return child, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ChildRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Child, error) {
	args := m.Called(ctx, groupID)
	if children, ok := args.Get(0).([]*entity.Child); ok {
		return children, args.Error(1)
	}

	return nil, args.Error(1)
}

// GuardianRepository mocks repository.GuardianRepository.
type GuardianRepository struct {
	mock.Mock
}

func (m *GuardianRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Guardian, error) {
	args := m.Called(ctx, id)
	if guardian, ok := args.Get(0).(*entity.Guardian); ok {
		return guardian, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *GuardianRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Guardian, error) {
	args := m.Called(ctx, ids)
	if guardians, ok := args.Get(0).([]*entity.Guardian); ok {
		return guardians, args.Error(1)
	}

	return nil, args.Error(1)
}

// EnrollmentRepository mocks repository.EnrollmentRepository.
type EnrollmentRepository struct {
	mock.Mock
}

func (m *EnrollmentRepository) FindActiveByChildAndGroup(ctx context.Context, childID, groupID uuid.UUID) ([]*entity.Enrollment, error) {
	args := m.Called(ctx, childID, groupID)
	if enrollments, ok := args.Get(0).([]*entity.Enrollment); ok {
		return enrollments, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *EnrollmentRepository) FindActiveByChild(ctx context.Context, childID uuid.UUID) ([]*entity.Enrollment, error) {
	args := m.Called(ctx, childID)
	if enrollments, ok := args.Get(0).([]*entity.Enrollment); ok {
		return enrollments, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *EnrollmentRepository) FindActiveByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Enrollment, error) {
	args := m.Called(ctx, groupID)
	if enrollments, ok := args.Get(0).([]*entity.Enrollment); ok {
		return enrollments, args.Error(1)
	}

	return nil, args.Error(1)
}

// LocationEventRepository mocks repository.LocationEventRepository.
type LocationEventRepository struct {
	mock.Mock
}

func (m *LocationEventRepository) Append(ctx context.Context, event *entity.LocationEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *LocationEventRepository) FindLatestByChild(ctx context.Context, childID uuid.UUID) (*entity.LocationEvent, error) {
	args := m.Called(ctx, childID)
	if event, ok := args.Get(0).(*entity.LocationEvent); ok {
		return event, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *LocationEventRepository) FindRecent(ctx context.Context, childID, sessionID uuid.UUID, since time.Time) (*entity.LocationEvent, error) {
	args := m.Called(ctx, childID, sessionID, since)
	if event, ok := args.Get(0).(*entity.LocationEvent); ok {
		return event, args.Error(1)
	}

	return nil, args.Error(1)
}

// DispatchRepository mocks repository.DispatchRepository.
type DispatchRepository struct {
	mock.Mock
}

func (m *DispatchRepository) Create(ctx context.Context, dispatch *entity.NotificationDispatch) error {
	args := m.Called(ctx, dispatch)

	return args.Error(0)
}

func (m *DispatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.NotificationDispatch, error) {
	args := m.Called(ctx, id)
	if dispatch, ok := args.Get(0).(*entity.NotificationDispatch); ok {
		return dispatch, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *DispatchRepository) FindByLocationEvent(ctx context.Context, eventID uuid.UUID) (*entity.NotificationDispatch, error) {
	args := m.Called(ctx, eventID)
	if dispatch, ok := args.Get(0).(*entity.NotificationDispatch); ok {
		return dispatch, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *DispatchRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.NotificationDispatch, error) {
	args := m.Called(ctx, now, limit)
	if dispatches, ok := args.Get(0).([]*entity.NotificationDispatch); ok {
		return dispatches, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *DispatchRepository) RecordSuccess(ctx context.Context, id uuid.UUID, messageID string) error {
	args := m.Called(ctx, id, messageID)

	return args.Error(0)
}

func (m *DispatchRepository) RecordFailure(ctx context.Context, id uuid.UUID, lastError string, nextRetryAt *time.Time) error {
	args := m.Called(ctx, id, lastError, nextRetryAt)

	return args.Error(0)
}

func (m *DispatchRepository) Abandon(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// ScanSessionRepository mocks repository.ScanSessionRepository.
type ScanSessionRepository struct {
	mock.Mock
}

func (m *ScanSessionRepository) Save(ctx context.Context, session *entity.ScanSession) error {
	args := m.Called(ctx, session)

	return args.Error(0)
}

func (m *ScanSessionRepository) Find(ctx context.Context, id uuid.UUID) (*entity.ScanSession, error) {
	args := m.Called(ctx, id)
	if session, ok := args.Get(0).(*entity.ScanSession); ok {
		return session, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ScanSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
