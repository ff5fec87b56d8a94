package repository

import (
	"context"

	"github.com/Verde726/my-erp-system-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertRepository is the data access contract for shortage alerts.
type AlertRepository interface {
	Create(ctx context.Context, a *model.Alert) error
	CreateTx(tx *gorm.DB, a *model.Alert) error
	ListUnresolved(ctx context.Context) ([]model.Alert, error)
	// HasUnresolved reports whether an open alert of the given type already
	// exists for the component, so repeated threshold crossings don't spam.
	HasUnresolved(ctx context.Context, componentID uuid.UUID, alertType string) (bool, error)
	Resolve(ctx context.Context, id uuid.UUID) error
}

type alertRepo struct{ db *gorm.DB }

func NewAlertRepository(db *gorm.DB) AlertRepository { return &alertRepo{db: db} }

func (r *alertRepo) Create(ctx context.Context, a *model.Alert) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *alertRepo) CreateTx(tx *gorm.DB, a *model.Alert) error {
	return tx.Create(a).Error
}

func (r *alertRepo) ListUnresolved(ctx context.Context) ([]model.Alert, error) {
	var alerts []model.Alert
	err := r.db.WithContext(ctx).
		Preload("Component").
		Where("resolved = false").
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) HasUnresolved(ctx context.Context, componentID uuid.UUID, alertType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Alert{}).
		Where("component_id = ? AND type = ? AND resolved = false", componentID, alertType).
		Count(&count).Error
	return count > 0, err
}

func (r *alertRepo) Resolve(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Alert{}).
		Where("id = ?", id).Update("resolved", true).Error
}
