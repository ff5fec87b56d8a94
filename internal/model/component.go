package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Component is a purchasable material consumed by production runs.
// OnHand and Allocated are both tracked so that MRP netting can work with
// available stock (on-hand minus what other open requirements already claim).
type Component struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code         string    `gorm:"uniqueIndex;not null"`
	Description  string    `gorm:"not null"`
	OnHand       int       `gorm:"not null;default:0"`
	Allocated    int       `gorm:"not null;default:0"`
	SafetyStock  int       `gorm:"not null;default:0"`
	ReorderPoint int       `gorm:"not null;default:0"`
	LeadTimeDays int       `gorm:"not null;default:0"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Active       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BOMLine links a finished product to one of its components with the
// quantity consumed per finished unit. Single-level: components never have
// their own BOM lines.
type BOMLine struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_component"`
	ComponentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_component"`
	QtyPerUnit  int       `gorm:"not null"`
	CreatedAt   time.Time

	Product   *Product   `gorm:"foreignKey:ProductID"`
	Component *Component `gorm:"foreignKey:ComponentID"`
}

// TableName overrides GORM's default pluralization (b_o_m_lines → bom_lines).
func (BOMLine) TableName() string { return "bom_lines" }
