package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationDispatchModel is the GORM-specific struct for the
// 'notification_dispatches' table. The unique index on LocationEventID backs
// the one-dispatch-per-event invariant.
type NotificationDispatchModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key"`
	LocationEventID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Channel         string     `gorm:"type:varchar(32);not null"`
	Destination     string     `gorm:"type:varchar(32);not null"`
	Body            string     `gorm:"type:text;not null"`
	Status          string     `gorm:"type:varchar(32);not null;index:idx_dispatches_due"`
	Attempts        int        `gorm:"not null;default:0"`
	LastError       string     `gorm:"type:text"`
	NextRetryAt     *time.Time `gorm:"index:idx_dispatches_due"`
	MessageID       string     `gorm:"type:varchar(128)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (NotificationDispatchModel) TableName() string {
	return "notification_dispatches"
}
