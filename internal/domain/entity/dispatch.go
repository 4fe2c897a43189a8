package entity

import (
	"time"

	"github.com/google/uuid"
)

// DispatchStatus represents the delivery state of a guardian notification.
type DispatchStatus string

// Possible dispatch statuses.
const (
	DispatchStatusPending DispatchStatus = "pending"
	DispatchStatusSent    DispatchStatus = "sent"
	DispatchStatusFailed  DispatchStatus = "failed"
)

// DispatchChannelSMS is the only outbound channel currently wired.
const DispatchChannelSMS = "sms"

// NotificationDispatch is one attempt-tracked delivery of a rendered message
// to a guardian. Exactly one dispatch exists per location event.
type NotificationDispatch struct {
	ID              uuid.UUID      `json:"id"`                // The Global Unique Identifier (GUID) for the dispatch.
	LocationEventID uuid.UUID      `json:"location_event_id"` // The event this dispatch delivers.
	Channel         string         `json:"channel"`           // Outbound channel identifier.
	Destination     string         `json:"destination"`       // Guardian contact address (phone).
	Body            string         `json:"body"`              // Rendered message text, fixed at creation.
	Status          DispatchStatus `json:"status"`            // Current delivery status.
	Attempts        int            `json:"attempts"`          // Number of send attempts made so far.
	LastError       string         `json:"last_error"`        // Error text of the most recent failed attempt.
	NextRetryAt     *time.Time     `json:"next_retry_at"`     // When the next attempt is due; nil when settled.
	MessageID       string         `json:"message_id"`        // Gateway message ID of the successful send.
	CreatedAt       time.Time      `json:"created_at"`        // Timestamp of when this record was created.
	UpdatedAt       time.Time      `json:"updated_at"`        // Timestamp of the last modification.
}

// Settled reports whether the dispatch reached a terminal status.
func (d *NotificationDispatch) Settled() bool {
	return d.Status == DispatchStatusSent || d.Status == DispatchStatusFailed
}
