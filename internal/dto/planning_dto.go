package dto

import "time"

// ─── Capacity ────────────────────────────────────────────────────────────────

// Capability is a per-run computed view over historical throughput: how fast
// a product has actually been produced, and at what quality. Never persisted.
type Capability struct {
	ProductID              string  `json:"product_id"`
	AvgUnitsPerDay         float64 `json:"avg_units_per_day"`
	AvgEfficiency          float64 `json:"avg_efficiency"` // 0–1
	AvgDefectRate          float64 `json:"avg_defect_rate"` // 0–1
	SampleCount            int     `json:"sample_count"`
	RecommendedWorkstation string  `json:"recommended_workstation,omitempty"`
}

// ─── Demand aggregation ──────────────────────────────────────────────────────

// AggregatedDemand collapses all open orders for one product into a single
// demand entry. Discarded after a scheduling run.
type AggregatedDemand struct {
	ProductID       string    `json:"product_id"`
	TotalUnits      int       `json:"total_units"`
	EarliestDueDate time.Time `json:"earliest_due_date"`
	LatestDueDate   time.Time `json:"latest_due_date"`
	HighestPriority string    `json:"highest_priority"`
	OrderCount      int       `json:"order_count"`
	OrderIDs        []string  `json:"order_ids"`
}

// ─── Proposal generation ─────────────────────────────────────────────────────

// GenerateOptions are the global knobs for one proposal-generation run.
type GenerateOptions struct {
	WorkstationOverride string    // empty = use capability recommendation
	ShiftsPerDay        int       // 1–3
	WindowStart         time.Time // generation window start (day precision)
}

// ScheduleProposal is an unconfirmed candidate production run. Immutable once
// emitted; it only becomes a ProductionSchedule through an explicit commit.
type ScheduleProposal struct {
	ProductID           string    `json:"product_id"`
	DailyRate           int       `json:"daily_rate"`
	TotalUnits          int       `json:"total_units"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"` // inclusive
	WorkstationID       string    `json:"workstation_id"`
	Shift               int       `json:"shift"`
	ShiftsPerDay        int       `json:"shifts_per_day"`
	DaysRequired        int       `json:"days_required"`
	CapacityUtilization float64   `json:"capacity_utilization"`
	Priority            string    `json:"priority"`
	Warnings            []string  `json:"warnings"`
}

// ─── Conflicts ───────────────────────────────────────────────────────────────

// Conflict kinds and severities.
const (
	ConflictWorkstationOverlap = "workstation_overlap"
	ConflictCapacityExceeded   = "capacity_exceeded"
	ConflictDateRisk           = "date_risk"
	ConflictScheduleOverlap    = "schedule_overlap"

	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Conflict is a detected resource or capacity problem across proposals
// and/or committed schedules. Ephemeral.
type Conflict struct {
	Kind       string   `json:"kind"`
	Severity   string   `json:"severity"`
	Message    string   `json:"message"`
	ProductIDs []string `json:"product_ids"`
}

// ─── HTTP request/response shapes ────────────────────────────────────────────

// GenerateProposalsRequest is bound from POST /v1/planning/proposals.
type GenerateProposalsRequest struct {
	From                string `json:"from"                 validate:"required,datetime=2006-01-02"`
	To                  string `json:"to"                   validate:"required,datetime=2006-01-02"`
	Priority            string `json:"priority"             validate:"omitempty,oneof=high medium low"`
	ShiftsPerDay        int    `json:"shifts_per_day"       validate:"omitempty,min=1,max=3"`
	WindowStart         string `json:"window_start"         validate:"omitempty,datetime=2006-01-02"`
	WorkstationOverride string `json:"workstation_override"`
}

type GenerateProposalsResponse struct {
	Proposals []ScheduleProposal `json:"proposals"`
	Conflicts []Conflict         `json:"conflicts"`
	Demands   []AggregatedDemand `json:"demands"`
}

// DetectConflictsRequest re-checks a caller-supplied proposal set,
// optionally against committed schedules.
type DetectConflictsRequest struct {
	Proposals         []ScheduleProposal `json:"proposals" validate:"required,min=1"`
	ConsiderCommitted bool               `json:"consider_committed"`
}

type DetectConflictsResponse struct {
	Conflicts []Conflict `json:"conflicts"`
}

// UpdateScheduleStatusRequest moves a schedule between lifecycle states.
// "completed" is intentionally absent: completion goes through the
// production-completion endpoint, which consumes materials.
type UpdateScheduleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=planned in_progress cancelled"`
}

// CommitProposalRequest turns one proposal into a persisted schedule.
type CommitProposalRequest struct {
	Proposal ScheduleProposal `json:"proposal" validate:"required"`
}

type ScheduleResponse struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	DailyRate     int    `json:"daily_rate"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	WorkstationID string `json:"workstation_id"`
	Shift         int    `json:"shift"`
	ShiftsPerDay  int    `json:"shifts_per_day"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}
