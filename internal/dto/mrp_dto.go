package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialRequirementLine is one netted MRP line for a (schedule, component)
// pair. Computed on demand; persisted only when a run is materialized.
type MaterialRequirementLine struct {
	ComponentID      string          `json:"component_id"`
	ComponentCode    string          `json:"component_code"`
	Description      string          `json:"description"`
	GrossRequirement int             `json:"gross_requirement"`
	OnHand           int             `json:"on_hand"`
	Allocated        int             `json:"allocated"`
	NetRequirement   int             `json:"net_requirement"`
	OrderQuantity    int             `json:"order_quantity"`
	OrderDate        *time.Time      `json:"order_date,omitempty"`
	OrderDateInPast  bool            `json:"order_date_in_past"`
	Status           string          `json:"status"` // sufficient | shortage | critical
	Cost             decimal.Decimal `json:"cost"`
	Recommendations  []string        `json:"recommendations,omitempty"`
	Warnings         []string        `json:"warnings,omitempty"`
}

// RequirementsSummary aggregates a full requirements run.
type RequirementsSummary struct {
	TotalComponents int             `json:"total_components"`
	Sufficient      int             `json:"sufficient"`
	Shortages       int             `json:"shortages"`
	Critical        int             `json:"critical"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	UrgentActions   []string        `json:"urgent_actions,omitempty"`
}

type RequirementsResponse struct {
	ScheduleID string                    `json:"schedule_id"`
	Results    []MaterialRequirementLine `json:"results"`
	Summary    RequirementsSummary       `json:"summary"`
}
