package model

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentModel is the GORM-specific struct for the 'enrollments' table.
// An enrollment links a child to a trip group for a date range.
type EnrollmentModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ChildID      uuid.UUID `gorm:"type:uuid;not null;index:idx_enrollments_child_group"`
	GroupID      uuid.UUID `gorm:"type:uuid;not null;index:idx_enrollments_child_group;index"`
	TripStartsOn time.Time `gorm:"type:date;not null"`
	TripEndsOn   time.Time `gorm:"type:date;not null"`
	Status       string    `gorm:"type:varchar(32);not null;default:'active'"`
}

// TableName explicitly sets the table name for GORM.
func (EnrollmentModel) TableName() string {
	return "enrollments"
}
