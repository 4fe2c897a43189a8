package model

import (
	"time"

	"github.com/google/uuid"
)

// LocationEventModel is the GORM-specific struct for the 'location_events'
// table. Rows are append-only; coordinates are null for degraded events.
type LocationEventModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	ChildID     uuid.UUID `gorm:"type:uuid;not null;index:idx_location_events_child_captured"`
	SessionID   uuid.UUID `gorm:"type:uuid;not null;index"`
	GroupID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Latitude    *float64  `gorm:"type:double precision"`
	Longitude   *float64  `gorm:"type:double precision"`
	AccuracyM   *float64  `gorm:"type:double precision"`
	Address     string    `gorm:"type:varchar(512)"`
	Description string    `gorm:"type:varchar(512)"`
	Degraded    bool      `gorm:"not null;default:false"`
	CapturedAt  time.Time `gorm:"not null;index:idx_location_events_child_captured,sort:desc"`
}

// TableName explicitly sets the table name for GORM.
func (LocationEventModel) TableName() string {
	return "location_events"
}
