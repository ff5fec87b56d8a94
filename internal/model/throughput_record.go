package model

import (
	"time"

	"github.com/google/uuid"
)

// ThroughputRecord is one historical output sample for a product: what a
// workstation produced on a given day and at what quality. Capacity
// estimation averages over these.
type ThroughputRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index"`
	WorkstationID string    `gorm:"not null"`
	RecordedAt    time.Time `gorm:"not null;index"`
	UnitsProduced int       `gorm:"not null"`
	HoursWorked   float64   `gorm:"not null"`
	Efficiency    float64   `gorm:"not null"` // 0–1
	DefectRate    float64   `gorm:"not null"` // 0–1
	CreatedAt     time.Time
}
