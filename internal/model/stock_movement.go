package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types.
const (
	MovementReceipt     = "receipt"
	MovementConsumption = "consumption"
	MovementAdjustment  = "adjustment"
)

// StockMovement records every change to a component's stock level.
// Append-only: rows are never updated or deleted.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComponentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"not null"` // "receipt" | "consumption" | "adjustment"
	Quantity    int       `gorm:"not null"` // positive = in, negative = out
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // production_schedule id if applicable
	CreatedAt   time.Time

	Component *Component `gorm:"foreignKey:ComponentID"`
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
