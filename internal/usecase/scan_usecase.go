package usecase

import (
	"context"

	"tripwatch/internal/domain/entity"

	"github.com/google/uuid"
)

// ScanInput carries one physical tag read submitted against a session.
type ScanInput struct {
	TagUID      string `json:"tag_uid"`
	Description string `json:"description"`

	// Position is the fix reported by the scanning device itself, when its
	// reader app already holds one. Nil asks the location provider for a
	// fresh capture.
	Position *entity.Position `json:"position"`
}

// ScanResult is the synchronous outcome of a submitted scan. Dispatch
// delivery may still settle later through the retry worker; poll the
// confirmation for the final state.
type ScanResult struct {
	ConfirmationID uuid.UUID                    `json:"confirmation_id"`
	Event          *entity.LocationEvent        `json:"event"`
	Dispatch       *entity.NotificationDispatch `json:"dispatch"`

	// Duplicate is true when the scan hit the debounce window and the
	// existing event/dispatch were returned unchanged.
	Duplicate bool `json:"duplicate"`
}

// ConfirmationView is the poll-friendly projection of a confirmation.
type ConfirmationView struct {
	ID       uuid.UUID                `json:"id"`
	State    entity.ConfirmationState `json:"state"`
	EventID  uuid.UUID                `json:"event_id,omitzero"`
	ClosesAt string                   `json:"closes_at,omitempty"`
}

// ScanUsecase drives the scan -> capture -> persist -> notify pipeline.
type ScanUsecase interface {
	// SubmitScan runs the full pipeline for one tag read.
	SubmitScan(ctx context.Context, sessionID uuid.UUID, input *ScanInput) (*ScanResult, error)

	// GetConfirmation returns the operator-visible state of a scan.
	GetConfirmation(ctx context.Context, confirmationID uuid.UUID) (*ConfirmationView, error)

	// DismissConfirmation closes a confirmation explicitly. A dispatch still
	// pending is abandoned; a sent one is never cancelled.
	DismissConfirmation(ctx context.Context, confirmationID uuid.UUID) error
}
