package worker

// email_notifier.go
// AlertNotifier implementation that delivers stock shortage alerts by email.
// SMTP calls go through a circuit breaker so a downed mail relay fast-fails
// instead of stalling the pool.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Verde726/my-erp-system-sub001/internal/infra"
)

// alertPayload mirrors the payload enqueued by the inventory service.
type alertPayload struct {
	AlertID       string `json:"alert_id"`
	ComponentID   string `json:"component_id"`
	ComponentCode string `json:"component_code"`
	Stock         int    `json:"stock"`
	ReorderPoint  int    `json:"reorder_point"`
}

// EmailNotifier sends shortage alerts to a fixed operations address.
type EmailNotifier struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	to     string
}

func NewEmailNotifier(mailer *infra.Mailer, cb *infra.CircuitBreaker, to string) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, cb: cb, to: to}
}

func (n *EmailNotifier) Notify(_ context.Context, raw json.RawMessage) error {
	var payload alertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email notifier: invalid payload: %w", err)
	}

	subject := fmt.Sprintf("Stock shortage: %s", payload.ComponentCode)
	body := fmt.Sprintf(
		"Component %s is at %d unit(s), below its reorder point of %d.\n\nAlert ID: %s\nComponent ID: %s\n",
		payload.ComponentCode, payload.Stock, payload.ReorderPoint,
		payload.AlertID, payload.ComponentID)

	return n.cb.Execute(func() error {
		return n.mailer.SendAlert(n.to, subject, body)
	})
}
