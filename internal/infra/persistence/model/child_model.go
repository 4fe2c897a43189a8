// Package model contains the GORM-specific structs mapping domain entities
// to database tables.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ChildModel is the GORM-specific struct for the 'children' table. The
// directory rows are owned by the external registration system; this service
// only reads them.
type ChildModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	FullName       string    `gorm:"type:varchar(255);not null"`
	DocumentNumber string    `gorm:"type:varchar(64)"`
	TagUID         string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	GuardianID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Active         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (ChildModel) TableName() string {
	return "children"
}

// GuardianModel is the GORM-specific struct for the 'guardians' table.
type GuardianModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	FullName string    `gorm:"type:varchar(255);not null"`
	Phone    string    `gorm:"type:varchar(32);not null"`
}

// TableName explicitly sets the table name for GORM.
func (GuardianModel) TableName() string {
	return "guardians"
}
