package repository

import (
	"context"

	"github.com/Verde726/my-erp-system-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComponentRepository is the data access contract for components and their
// product links (single-level BOM).
type ComponentRepository interface {
	Create(ctx context.Context, c *model.Component) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Component, error)
	FindBOMByProductID(ctx context.Context, productID uuid.UUID) ([]model.BOMLine, error)

	// Used inside transactions — callers must pass the tx instance.
	// FindByIDsForUpdateTx takes SELECT … FOR UPDATE row locks so that
	// concurrent decrements against the same components serialize.
	FindByIDsForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Component, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// AdjustStock changes on_hand outside any external transaction
	// (manual receipt/adjustment flows).
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error

	// ListBelowReorderPoint returns active components whose on-hand stock
	// is at or below their reorder point.
	ListBelowReorderPoint(ctx context.Context) ([]model.Component, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type componentRepo struct{ db *gorm.DB }

func NewComponentRepository(db *gorm.DB) ComponentRepository { return &componentRepo{db: db} }

func (r *componentRepo) Create(ctx context.Context, c *model.Component) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *componentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Component, error) {
	var c model.Component
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *componentRepo) FindBOMByProductID(ctx context.Context, productID uuid.UUID) ([]model.BOMLine, error) {
	var lines []model.BOMLine
	err := r.db.WithContext(ctx).
		Preload("Component").
		Where("product_id = ?", productID).
		Find(&lines).Error
	return lines, err
}

func (r *componentRepo) FindByIDsForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Component, error) {
	var components []model.Component
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC"). // deterministic lock order avoids deadlocks between concurrent decrements
		Find(&components).Error
	return components, err
}

func (r *componentRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Component{}).Where("id = ?", id).
		Update("on_hand", gorm.Expr("on_hand + ?", delta)).Error
}

func (r *componentRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.Component{}).
		Where("id = ? AND active = true", id).
		Update("on_hand", gorm.Expr("on_hand + ?", delta)).Error
}

func (r *componentRepo) ListBelowReorderPoint(ctx context.Context) ([]model.Component, error) {
	var components []model.Component
	err := r.db.WithContext(ctx).
		Where("active = true AND reorder_point > 0 AND on_hand <= reorder_point").
		Order("code ASC").
		Find(&components).Error
	return components, err
}

func (r *componentRepo) DB() *gorm.DB { return r.db }
