// Package impl contains the application-specific business rules implementations.
package impl

import (
	"log/slog"
	"sync"
	"time"

	"tripwatch/config"
	"tripwatch/internal/domain/entity"
	"tripwatch/internal/usecase"

	"github.com/google/uuid"
)

// closedRetention keeps a closed confirmation pollable for a short grace
// period before it is evicted from the registry.
const closedRetention = time.Minute

// confirmationService is the in-memory registry of live confirmations.
// Countdown timers run on the instance itself, so a confirmation behaves the
// same whichever device polls it.
type confirmationService struct {
	cfg    *config.Config
	logger *slog.Logger

	mu         sync.RWMutex
	byID       map[uuid.UUID]*entity.Confirmation
	byDispatch map[uuid.UUID]uuid.UUID
}

// NewConfirmationService is the constructor for confirmationService.
func NewConfirmationService(cfg *config.Config, logger *slog.Logger) usecase.ConfirmationUsecase {
	return &confirmationService{
		cfg:        cfg,
		logger:     logger,
		byID:       make(map[uuid.UUID]*entity.Confirmation),
		byDispatch: make(map[uuid.UUID]uuid.UUID),
	}
}

// Track registers a freshly created confirmation.
func (srv *confirmationService) Track(confirmation *entity.Confirmation) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.byID[confirmation.ID()] = confirmation
}

// BindDispatch indexes the confirmation by its dispatch.
func (srv *confirmationService) BindDispatch(confirmationID, dispatchID uuid.UUID) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.byDispatch[dispatchID] = confirmationID
}

// Get returns a live confirmation by ID.
func (srv *confirmationService) Get(id uuid.UUID) (*entity.Confirmation, bool) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	confirmation, ok := srv.byID[id]

	return confirmation, ok
}

// Close closes a confirmation explicitly and returns it.
func (srv *confirmationService) Close(id uuid.UUID) (*entity.Confirmation, bool) {
	srv.mu.RLock()
	confirmation, ok := srv.byID[id]
	srv.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if confirmation.Close() {
		srv.scheduleEviction(confirmation)
	}

	return confirmation, true
}

// DispatchSettled applies a dispatch outcome to the bound confirmation and
// arms its auto-close countdown.
func (srv *confirmationService) DispatchSettled(dispatchID uuid.UUID, status entity.DispatchStatus) {
	srv.mu.RLock()
	confirmationID, ok := srv.byDispatch[dispatchID]
	confirmation := srv.byID[confirmationID]
	srv.mu.RUnlock()

	if !ok || confirmation == nil {
		// Settled after the confirmation was evicted; nothing to show.
		return
	}

	switch status {
	case entity.DispatchStatusSent:
		confirmation.MarkNotificationSent()
	case entity.DispatchStatusFailed:
		confirmation.MarkNotificationFailed()
	default:
		return
	}

	srv.armCountdown(confirmation)
}

// ArmAutoClose starts the auto-close countdown for a confirmation.
func (srv *confirmationService) ArmAutoClose(id uuid.UUID) {
	srv.mu.RLock()
	confirmation, ok := srv.byID[id]
	srv.mu.RUnlock()

	if !ok {
		return
	}

	srv.armCountdown(confirmation)
}

func (srv *confirmationService) armCountdown(confirmation *entity.Confirmation) {
	countdown := srv.cfg.Pipeline.ConfirmationCountdown
	confirmation.ArmClose(time.Now().Add(countdown))

	time.AfterFunc(countdown, func() {
		if confirmation.Close() {
			srv.logger.Debug("Confirmation auto-closed",
				slog.Any("confirmation_id", confirmation.ID()))
			srv.scheduleEviction(confirmation)
		}
	})
}

func (srv *confirmationService) scheduleEviction(confirmation *entity.Confirmation) {
	time.AfterFunc(closedRetention, func() {
		srv.mu.Lock()
		defer srv.mu.Unlock()

		delete(srv.byID, confirmation.ID())
		if dispatchID := confirmation.DispatchID(); dispatchID != uuid.Nil {
			delete(srv.byDispatch, dispatchID)
		}
	})
}
