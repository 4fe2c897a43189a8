package entity

import (
	"time"

	"github.com/google/uuid"
)

// Position is a single geographic fix reported by the scanning device.
type Position struct {
	Latitude  float64 `json:"latitude"`  // The geographic latitude of the fix.
	Longitude float64 `json:"longitude"` // The geographic longitude of the fix.
	AccuracyM float64 `json:"accuracy_m"` // Reported accuracy radius in meters, 0 when unknown.
}

// LocationEvent records one admitted scan of a child's tag. Events are
// append-only; they are never mutated after creation.
type LocationEvent struct {
	ID          uuid.UUID  `json:"id"`          // The Global Unique Identifier (GUID) for the event.
	ChildID     uuid.UUID  `json:"child_id"`    // The child whose tag was scanned.
	SessionID   uuid.UUID  `json:"session_id"`  // The scan session the event belongs to.
	GroupID     uuid.UUID  `json:"group_id"`    // The trip group of the session at capture time.
	Position    *Position  `json:"position"`    // Captured coordinates; nil when the fix degraded.
	Address     string     `json:"address"`     // Reverse-geocoded address, best effort.
	Description string     `json:"description"` // Operator free-text note attached to the scan.
	Degraded    bool       `json:"degraded"`    // True when the event was recorded without a position fix.
	CapturedAt  time.Time  `json:"captured_at"` // Timestamp of when the scan was captured.
}
