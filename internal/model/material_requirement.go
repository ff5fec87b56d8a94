package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Material requirement statuses.
const (
	RequirementSufficient = "sufficient"
	RequirementShortage   = "shortage"
	RequirementCritical   = "critical"
)

// MaterialRequirement is the persisted audit form of one MRP line.
// Requirements are computed on demand; a row is only written when a
// requirements run is explicitly materialized.
type MaterialRequirement struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ScheduleID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ComponentID      uuid.UUID `gorm:"type:uuid;not null;index"`
	GrossRequirement int       `gorm:"not null"`
	OnHand           int       `gorm:"not null"`
	Allocated        int       `gorm:"not null"`
	NetRequirement   int       `gorm:"not null"`
	OrderQuantity    int       `gorm:"not null"`
	OrderDate        *time.Time
	OrderDateInPast  bool            `gorm:"not null;default:false"`
	Status           string          `gorm:"not null"` // sufficient | shortage | critical
	Cost             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt        time.Time

	Component *Component `gorm:"foreignKey:ComponentID"`
}
