package repository

import (
	"context"

	"github.com/Verde726/my-erp-system-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequirementRepository persists materialized MRP runs as audit records.
type RequirementRepository interface {
	// ReplaceForSchedule atomically swaps the stored requirement rows for a
	// schedule: re-materializing a run replaces the previous snapshot.
	ReplaceForSchedule(ctx context.Context, scheduleID uuid.UUID, rows []model.MaterialRequirement) error
	ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]model.MaterialRequirement, error)
}

type requirementRepo struct{ db *gorm.DB }

func NewRequirementRepository(db *gorm.DB) RequirementRepository {
	return &requirementRepo{db: db}
}

func (r *requirementRepo) ReplaceForSchedule(ctx context.Context, scheduleID uuid.UUID, rows []model.MaterialRequirement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_id = ?", scheduleID).
			Delete(&model.MaterialRequirement{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *requirementRepo) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]model.MaterialRequirement, error) {
	var rows []model.MaterialRequirement
	err := r.db.WithContext(ctx).
		Preload("Component").
		Where("schedule_id = ?", scheduleID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
