package service

import (
	"context"
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/dto"
	"github.com/Verde726/my-erp-system-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ───────────────────────────────────────────────
// All stubs return a nil *gorm.DB from DB(), which makes runTx call the
// transaction body directly (unit test mode).

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku && p.Active {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubThroughputRepo struct {
	records map[uuid.UUID][]model.ThroughputRecord
}

func newStubThroughputRepo() *stubThroughputRepo {
	return &stubThroughputRepo{records: make(map[uuid.UUID][]model.ThroughputRecord)}
}

func (r *stubThroughputRepo) Create(_ context.Context, t *model.ThroughputRecord) error {
	r.records[t.ProductID] = append(r.records[t.ProductID], *t)
	return nil
}

func (r *stubThroughputRepo) FindByProductSince(_ context.Context, productID uuid.UUID, since time.Time) ([]model.ThroughputRecord, error) {
	var result []model.ThroughputRecord
	for _, rec := range r.records[productID] {
		if !rec.RecordedAt.Before(since) {
			result = append(result, rec)
		}
	}
	return result, nil
}

type stubSalesOrderRepo struct {
	orders []model.SalesOrder
}

func (r *stubSalesOrderRepo) Create(_ context.Context, o *model.SalesOrder) error {
	r.orders = append(r.orders, *o)
	return nil
}

func (r *stubSalesOrderRepo) FindOpenInWindow(_ context.Context, from, to time.Time, priority string) ([]model.SalesOrder, error) {
	var result []model.SalesOrder
	for _, o := range r.orders {
		if o.Status != "open" || o.DueDate.Before(from) || o.DueDate.After(to) {
			continue
		}
		if priority != "" && o.Priority != priority {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

type stubScheduleRepo struct {
	schedules map[uuid.UUID]*model.ProductionSchedule
}

func newStubScheduleRepo() *stubScheduleRepo {
	return &stubScheduleRepo{schedules: make(map[uuid.UUID]*model.ProductionSchedule)}
}

func (r *stubScheduleRepo) Create(_ context.Context, s *model.ProductionSchedule) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.schedules[s.ID] = s
	return nil
}

func (r *stubScheduleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductionSchedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *stubScheduleRepo) FindActiveInRange(_ context.Context, from, to time.Time) ([]model.ProductionSchedule, error) {
	var result []model.ProductionSchedule
	for _, s := range r.schedules {
		if s.Status != model.ScheduleStatusPlanned && s.Status != model.ScheduleStatusInProgress {
			continue
		}
		if !s.StartDate.After(to) && !from.After(s.EndDate) {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (r *stubScheduleRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if s, ok := r.schedules[id]; ok {
		s.Status = status
	}
	return nil
}

func (r *stubScheduleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	if s, ok := r.schedules[id]; ok {
		s.Status = status
	}
	return nil
}

type stubComponentRepo struct {
	components map[uuid.UUID]*model.Component
	bom        map[uuid.UUID][]model.BOMLine // keyed by product id
}

func newStubComponentRepo() *stubComponentRepo {
	return &stubComponentRepo{
		components: make(map[uuid.UUID]*model.Component),
		bom:        make(map[uuid.UUID][]model.BOMLine),
	}
}

func (r *stubComponentRepo) addComponent(c model.Component) *model.Component {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.components[c.ID] = &c
	return &c
}

func (r *stubComponentRepo) addBOMLine(productID uuid.UUID, componentID uuid.UUID, qtyPer int) {
	r.bom[productID] = append(r.bom[productID], model.BOMLine{
		ID:          uuid.New(),
		ProductID:   productID,
		ComponentID: componentID,
		QtyPerUnit:  qtyPer,
	})
}

func (r *stubComponentRepo) Create(_ context.Context, c *model.Component) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.components[c.ID] = c
	return nil
}

func (r *stubComponentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Component, error) {
	c, ok := r.components[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubComponentRepo) FindBOMByProductID(_ context.Context, productID uuid.UUID) ([]model.BOMLine, error) {
	lines := make([]model.BOMLine, 0, len(r.bom[productID]))
	for _, line := range r.bom[productID] {
		component := r.components[line.ComponentID]
		copied := *component
		line.Component = &copied
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *stubComponentRepo) FindByIDsForUpdateTx(_ *gorm.DB, ids []uuid.UUID) ([]model.Component, error) {
	var result []model.Component
	for _, id := range ids {
		if c, ok := r.components[id]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *stubComponentRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	r.components[id].OnHand += delta
	return nil
}

func (r *stubComponentRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	r.components[id].OnHand += delta
	return nil
}

func (r *stubComponentRepo) ListBelowReorderPoint(_ context.Context) ([]model.Component, error) {
	var result []model.Component
	for _, c := range r.components {
		if c.Active && c.ReorderPoint > 0 && c.OnHand <= c.ReorderPoint {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *stubComponentRepo) DB() *gorm.DB { return nil }

type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	m.ID = uuid.New()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	m.ID = uuid.New()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var result []model.StockMovement
	for _, m := range r.movements {
		if filter.ComponentID != "" && m.ComponentID.String() != filter.ComponentID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		result = append(result, m)
	}
	return result, int64(len(result)), nil
}

type stubAlertRepo struct {
	alerts []model.Alert
}

func (r *stubAlertRepo) Create(_ context.Context, a *model.Alert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.alerts = append(r.alerts, *a)
	return nil
}

func (r *stubAlertRepo) CreateTx(_ *gorm.DB, a *model.Alert) error {
	return r.Create(context.Background(), a)
}

func (r *stubAlertRepo) ListUnresolved(_ context.Context) ([]model.Alert, error) {
	var result []model.Alert
	for _, a := range r.alerts {
		if !a.Resolved {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *stubAlertRepo) HasUnresolved(_ context.Context, componentID uuid.UUID, alertType string) (bool, error) {
	for _, a := range r.alerts {
		if a.ComponentID == componentID && a.Type == alertType && !a.Resolved {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAlertRepo) Resolve(_ context.Context, id uuid.UUID) error {
	for i := range r.alerts {
		if r.alerts[i].ID == id {
			r.alerts[i].Resolved = true
		}
	}
	return nil
}

type stubRequirementRepo struct {
	rows map[uuid.UUID][]model.MaterialRequirement
}

func newStubRequirementRepo() *stubRequirementRepo {
	return &stubRequirementRepo{rows: make(map[uuid.UUID][]model.MaterialRequirement)}
}

func (r *stubRequirementRepo) ReplaceForSchedule(_ context.Context, scheduleID uuid.UUID, rows []model.MaterialRequirement) error {
	r.rows[scheduleID] = rows
	return nil
}

func (r *stubRequirementRepo) ListBySchedule(_ context.Context, scheduleID uuid.UUID) ([]model.MaterialRequirement, error) {
	return r.rows[scheduleID], nil
}

// day builds a date at midnight UTC, offset days from a fixed base.
func day(offset int) time.Time {
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}
