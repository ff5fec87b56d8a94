package repository

import (
	"context"
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThroughputRepository is the data access contract for historical output samples.
type ThroughputRepository interface {
	Create(ctx context.Context, t *model.ThroughputRecord) error
	FindByProductSince(ctx context.Context, productID uuid.UUID, since time.Time) ([]model.ThroughputRecord, error)
}

type throughputRepo struct{ db *gorm.DB }

func NewThroughputRepository(db *gorm.DB) ThroughputRepository { return &throughputRepo{db: db} }

func (r *throughputRepo) Create(ctx context.Context, t *model.ThroughputRecord) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *throughputRepo) FindByProductSince(ctx context.Context, productID uuid.UUID, since time.Time) ([]model.ThroughputRecord, error) {
	var records []model.ThroughputRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND recorded_at >= ?", productID, since).
		Order("recorded_at ASC").
		Find(&records).Error
	return records, err
}
