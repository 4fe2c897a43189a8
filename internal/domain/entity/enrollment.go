package entity

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// Enrollment links a child to a group for a trip date range. Enrollments are
// created and retired by the external directory; this core only reads them.
type Enrollment struct {
	ID           uuid.UUID        `json:"id"`             // The Global Unique Identifier (GUID) for the enrollment.
	ChildID      uuid.UUID        `json:"child_id"`       // The enrolled child.
	GroupID      uuid.UUID        `json:"group_id"`       // The trip group.
	TripStartsOn time.Time        `json:"trip_starts_on"` // First day of the trip (inclusive).
	TripEndsOn   time.Time        `json:"trip_ends_on"`   // Last day of the trip (inclusive through end of day).
	Status       EnrollmentStatus `json:"status"`         // Current enrollment status.
}

// WithinWindow reports whether now falls inside the enrollment's trip window.
// The end date is inclusive through end-of-day (UTC). Cancelled enrollments
// are never within the window.
func (e *Enrollment) WithinWindow(now time.Time) bool {
	if e.Status != EnrollmentStatusActive {
		return false
	}

	start := e.TripStartsOn.Truncate(24 * time.Hour)
	endOfDay := e.TripEndsOn.Truncate(24 * time.Hour).Add(24*time.Hour - time.Nanosecond)

	return !now.Before(start) && !now.After(endOfDay)
}
