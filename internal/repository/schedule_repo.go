package repository

import (
	"context"
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleRepository is the data access contract for committed production schedules.
type ScheduleRepository interface {
	Create(ctx context.Context, s *model.ProductionSchedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionSchedule, error)
	// FindActiveInRange returns planned/in-progress schedules whose [start,end]
	// intersects [from, to]. Used by conflict detection against committed work.
	FindActiveInRange(ctx context.Context, from, to time.Time) ([]model.ProductionSchedule, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
}

type scheduleRepo struct{ db *gorm.DB }

func NewScheduleRepository(db *gorm.DB) ScheduleRepository { return &scheduleRepo{db: db} }

func (r *scheduleRepo) Create(ctx context.Context, s *model.ProductionSchedule) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *scheduleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionSchedule, error) {
	var s model.ProductionSchedule
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *scheduleRepo) FindActiveInRange(ctx context.Context, from, to time.Time) ([]model.ProductionSchedule, error) {
	var schedules []model.ProductionSchedule
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{model.ScheduleStatusPlanned, model.ScheduleStatusInProgress}).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.ProductionSchedule{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *scheduleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.ProductionSchedule{}).
		Where("id = ?", id).Update("status", status).Error
}
