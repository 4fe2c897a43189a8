// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Child represents a minor participating in supervised group trips.
// Identity is immutable here; records are maintained by the external directory.
type Child struct {
	ID             uuid.UUID `json:"id"`              // The Global Unique Identifier (GUID) for the child.
	FullName       string    `json:"full_name"`       // The child's full name, used in guardian messages.
	DocumentNumber string    `json:"document_number"` // The identity document number registered by the directory.
	TagUID         string    `json:"tag_uid"`         // The opaque identifier of the NFC tag bound to this child.
	GuardianID     uuid.UUID `json:"guardian_id"`     // The guardian notified when this child is scanned.
	Active         bool      `json:"active"`          // Whether the child record is currently active.
	CreatedAt      time.Time `json:"created_at"`      // Timestamp of when this record was created.
}

// Guardian represents the contact notified about a child's location.
type Guardian struct {
	ID       uuid.UUID `json:"id"`        // The Global Unique Identifier (GUID) for the guardian.
	FullName string    `json:"full_name"` // The guardian's full name.
	Phone    string    `json:"phone"`     // The phone number messages are delivered to.
}
