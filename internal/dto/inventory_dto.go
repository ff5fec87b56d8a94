package dto

// CompleteProductionRequest is bound from POST /v1/schedules/:id/complete.
// QuantityProduced may differ from the scheduled quantity (scrap, overruns).
type CompleteProductionRequest struct {
	QuantityProduced int `json:"quantity_produced" validate:"required,min=1"`
}

// MovementResponse is one audit row from the stock movement log.
type MovementResponse struct {
	ID            string `json:"id"`
	ComponentID   string `json:"component_id"`
	ComponentCode string `json:"component_code,omitempty"`
	Type          string `json:"type"`
	Quantity      int    `json:"quantity"`
	StockBefore   int    `json:"stock_before"`
	StockAfter    int    `json:"stock_after"`
	Reason        string `json:"reason,omitempty"`
	ReferenceID   string `json:"reference_id,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type CompleteProductionResponse struct {
	ScheduleID       string             `json:"schedule_id"`
	QuantityProduced int                `json:"quantity_produced"`
	Movements        []MovementResponse `json:"movements"`
	AlertsRaised     int                `json:"alerts_raised"`
}

// AdjustStockRequest is bound from POST /v1/inventory/components/:id/adjust.
// Delta is signed: positive for receipts/corrections up, negative for
// write-offs.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3,max=255"`
}

// MovementFilter is bound from query string of GET /v1/inventory/movements.
type MovementFilter struct {
	ComponentID string `form:"component_id"`
	Type        string `form:"type"`
	Page        int    `form:"page,default=1"    validate:"min=1"`
	Limit       int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type AlertResponse struct {
	ID            string `json:"id"`
	ComponentID   string `json:"component_id"`
	ComponentCode string `json:"component_code,omitempty"`
	Type          string `json:"type"`
	Message       string `json:"message"`
	Resolved      bool   `json:"resolved"`
	CreatedAt     string `json:"created_at"`
}
