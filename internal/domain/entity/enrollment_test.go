package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnrollment_WithinWindow(t *testing.T) {
	start := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	enrollment := &Enrollment{
		Status:       EnrollmentStatusActive,
		TripStartsOn: start,
		TripEndsOn:   end,
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before the trip", time.Date(2026, 7, 9, 23, 59, 0, 0, time.UTC), false},
		{"first morning", time.Date(2026, 7, 10, 0, 0, 1, 0, time.UTC), true},
		{"mid trip", time.Date(2026, 7, 12, 12, 0, 0, 0, time.UTC), true},
		{"last day evening", time.Date(2026, 7, 14, 23, 59, 59, 0, time.UTC), true},
		{"day after", time.Date(2026, 7, 15, 0, 0, 1, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, enrollment.WithinWindow(tt.now))
		})
	}
}

func TestEnrollment_WithinWindow_CancelledNeverMatches(t *testing.T) {
	enrollment := &Enrollment{
		Status:       EnrollmentStatusCancelled,
		TripStartsOn: time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		TripEndsOn:   time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC),
	}

	assert.False(t, enrollment.WithinWindow(time.Date(2026, 7, 12, 12, 0, 0, 0, time.UTC)))
}
