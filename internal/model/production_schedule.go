package model

import (
	"time"

	"github.com/google/uuid"
)

// Production schedule lifecycle states.
const (
	ScheduleStatusPlanned    = "planned"
	ScheduleStatusInProgress = "in_progress"
	ScheduleStatusCompleted  = "completed"
	ScheduleStatusCancelled  = "cancelled"
)

// ProductionSchedule is a committed production run — the persisted form of an
// accepted proposal. EndDate is inclusive.
type ProductionSchedule struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity      int       `gorm:"not null"`
	DailyRate     int       `gorm:"not null"`
	StartDate     time.Time `gorm:"not null;index"`
	EndDate       time.Time `gorm:"not null;index"`
	WorkstationID string    `gorm:"not null"`
	Shift         int       `gorm:"not null;default:1"`
	ShiftsPerDay  int       `gorm:"not null;default:1"`
	Status        string    `gorm:"not null;default:'planned'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
