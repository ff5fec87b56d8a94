package model

import (
	"time"

	"github.com/google/uuid"
)

// Alert types.
const (
	AlertStockShortage = "stock_shortage"
)

// Alert is raised when a component's stock crosses below its reorder point
// as a side effect of a production decrement.
type Alert struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComponentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"not null"`
	Message     string    `gorm:"not null"`
	Resolved    bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Component *Component `gorm:"foreignKey:ComponentID"`
}
