package repository

import (
	"context"
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/model"

	"gorm.io/gorm"
)

// SalesOrderRepository is the data access contract for raw demand records.
type SalesOrderRepository interface {
	Create(ctx context.Context, o *model.SalesOrder) error
	// FindOpenInWindow returns open orders due inside [from, to], optionally
	// filtered by priority. Ordered by due date so aggregation is deterministic.
	FindOpenInWindow(ctx context.Context, from, to time.Time, priority string) ([]model.SalesOrder, error)
}

type salesOrderRepo struct{ db *gorm.DB }

func NewSalesOrderRepository(db *gorm.DB) SalesOrderRepository { return &salesOrderRepo{db: db} }

func (r *salesOrderRepo) Create(ctx context.Context, o *model.SalesOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *salesOrderRepo) FindOpenInWindow(ctx context.Context, from, to time.Time, priority string) ([]model.SalesOrder, error) {
	q := r.db.WithContext(ctx).
		Where("status = ?", "open").
		Where("due_date >= ? AND due_date <= ?", from, to)
	if priority != "" {
		q = q.Where("priority = ?", priority)
	}
	var orders []model.SalesOrder
	err := q.Order("due_date ASC, created_at ASC").Find(&orders).Error
	return orders, err
}
