package model

import (
	"time"

	"github.com/google/uuid"
)

// Priority levels accepted on sales orders. Weights are used by the demand
// aggregator and the proposal generator (high dominates).
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// PriorityWeight maps a priority label to its ordering weight.
// Unknown labels weigh 0 and sort last.
func PriorityWeight(p string) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// SalesOrder is a raw demand record: one customer order line for a product.
type SalesOrder struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity  int       `gorm:"not null"`
	DueDate   time.Time `gorm:"not null;index"`
	Priority  string    `gorm:"not null;default:'medium'"` // high | medium | low
	Status    string    `gorm:"not null;default:'open'"`   // open | scheduled | fulfilled | cancelled
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
