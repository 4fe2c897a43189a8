package usecase

import (
	"tripwatch/internal/domain/entity"

	"github.com/google/uuid"
)

// ConfirmationUsecase is the in-memory registry of live confirmation
// instances. Confirmations are operator-device UI state promoted to explicit,
// restartable server state; they are never persisted.
type ConfirmationUsecase interface {
	// Track registers a freshly created confirmation.
	Track(confirmation *entity.Confirmation)

	// BindDispatch indexes the confirmation by its dispatch so settlement
	// events can find it.
	BindDispatch(confirmationID, dispatchID uuid.UUID)

	// Get returns a live confirmation by ID.
	Get(id uuid.UUID) (*entity.Confirmation, bool)

	// Close closes a confirmation explicitly and returns it, so the caller
	// can abandon a still-pending dispatch.
	Close(id uuid.UUID) (*entity.Confirmation, bool)

	// DispatchSettled applies a dispatch outcome to the bound confirmation
	// and arms its auto-close countdown.
	DispatchSettled(dispatchID uuid.UUID, status entity.DispatchStatus)

	// ArmAutoClose starts the auto-close countdown for a confirmation that
	// will receive no further transitions.
	ArmAutoClose(id uuid.UUID)
}
