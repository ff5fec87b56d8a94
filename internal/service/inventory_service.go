package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Verde726/my-erp-system-sub001/internal/dto"
	"github.com/Verde726/my-erp-system-sub001/internal/model"
	"github.com/Verde726/my-erp-system-sub001/internal/repository"
	"github.com/Verde726/my-erp-system-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventoryService applies the material consumption of a completed production
// run, and exposes the movement log and shortage alerts.
type InventoryService interface {
	// DecrementForProduction consumes the committed materials of a schedule
	// atomically: all components are checked under row locks and either every
	// decrement and movement record is written, or none. On shortage it
	// returns *InsufficientInventoryError listing every short component.
	DecrementForProduction(ctx context.Context, scheduleID, productID uuid.UUID, quantityProduced int) (*dto.CompleteProductionResponse, error)

	// AdjustComponentStock applies a manual signed correction to a
	// component's on-hand stock and records it in the movement log.
	AdjustComponentStock(ctx context.Context, componentID uuid.UUID, delta int, reason string) (*dto.MovementResponse, error)

	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	ListAlerts(ctx context.Context) ([]dto.AlertResponse, error)
	ResolveAlert(ctx context.Context, id uuid.UUID) error
}

type inventoryService struct {
	scheduleRepo  repository.ScheduleRepository
	componentRepo repository.ComponentRepository
	movementRepo  repository.StockMovementRepository
	alertRepo     repository.AlertRepository
	dispatcher    *worker.Dispatcher
}

func NewInventoryService(
	scheduleRepo repository.ScheduleRepository,
	componentRepo repository.ComponentRepository,
	movementRepo repository.StockMovementRepository,
	alertRepo repository.AlertRepository,
	dispatcher *worker.Dispatcher,
) InventoryService {
	return &inventoryService{
		scheduleRepo:  scheduleRepo,
		componentRepo: componentRepo,
		movementRepo:  movementRepo,
		alertRepo:     alertRepo,
		dispatcher:    dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *inventoryService) DecrementForProduction(ctx context.Context, scheduleID, productID uuid.UUID, quantityProduced int) (*dto.CompleteProductionResponse, error) {
	schedule, err := s.scheduleRepo.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("fetching schedule %s: %w", scheduleID, err)
	}
	if schedule.ProductID != productID {
		return nil, ErrProductMismatch
	}
	if schedule.Status == model.ScheduleStatusCompleted {
		return nil, ErrScheduleAlreadyCompleted
	}

	bom, err := s.componentRepo.FindBOMByProductID(ctx, schedule.ProductID)
	if err != nil {
		return nil, fmt.Errorf("fetching BOM for product %s: %w", schedule.ProductID, err)
	}
	if len(bom) == 0 {
		return nil, ErrNoComponents
	}

	consumed := make(map[uuid.UUID]int, len(bom))
	ids := make([]uuid.UUID, 0, len(bom))
	for _, line := range bom {
		consumed[line.ComponentID] = line.QtyPerUnit * quantityProduced
		ids = append(ids, line.ComponentID)
	}

	var movements []model.StockMovement
	var crossed []model.Component

	txErr := runTx(ctx, s.componentRepo.DB(), func(tx *gorm.DB) error {
		// One locked batch read: concurrent decrements against the same
		// components serialize here, which is what keeps check-then-act safe.
		components, err := s.componentRepo.FindByIDsForUpdateTx(tx, ids)
		if err != nil {
			return err
		}
		if len(components) != len(ids) {
			return fmt.Errorf("expected %d components, locked %d", len(ids), len(components))
		}

		// Check every component before writing anything; report all
		// shortages, not just the first.
		var shortages []ComponentShortage
		for _, component := range components {
			need := consumed[component.ID]
			if component.OnHand < need {
				shortages = append(shortages, ComponentShortage{
					ComponentID:   component.ID,
					ComponentCode: component.Code,
					Required:      need,
					Available:     component.OnHand,
					Shortage:      need - component.OnHand,
				})
			}
		}
		if len(shortages) > 0 {
			return &InsufficientInventoryError{Shortages: shortages}
		}

		ref := schedule.ID
		for _, component := range components {
			need := consumed[component.ID]
			if err := s.componentRepo.UpdateStockTx(tx, component.ID, -need); err != nil {
				return err
			}
			movement := model.StockMovement{
				ComponentID: component.ID,
				Type:        model.MovementConsumption,
				Quantity:    -need,
				StockBefore: component.OnHand,
				StockAfter:  component.OnHand - need,
				Reason:      fmt.Sprintf("production run %s (%d units)", schedule.ID, quantityProduced),
				ReferenceID: &ref,
			}
			if err := s.movementRepo.CreateTx(tx, &movement); err != nil {
				return err
			}
			movements = append(movements, movement)

			// Newly crossed reorder-point thresholds raise an alert after commit.
			if component.OnHand >= component.ReorderPoint && component.OnHand-need < component.ReorderPoint {
				crossed = append(crossed, component)
			}
		}

		return s.scheduleRepo.UpdateStatusTx(tx, schedule.ID, model.ScheduleStatusCompleted)
	})
	if txErr != nil {
		return nil, txErr
	}

	alertsRaised := s.raiseShortageAlerts(ctx, crossed, consumed)

	response := &dto.CompleteProductionResponse{
		ScheduleID:       schedule.ID.String(),
		QuantityProduced: quantityProduced,
		Movements:        make([]dto.MovementResponse, 0, len(movements)),
		AlertsRaised:     alertsRaised,
	}
	for i := range movements {
		response.Movements = append(response.Movements, movementToResponse(&movements[i]))
	}
	return response, nil
}

// raiseShortageAlerts persists one alert per newly crossed threshold and
// enqueues an async notification job. Best effort: alert failures are logged,
// never unwound — the decrement has already committed.
func (s *inventoryService) raiseShortageAlerts(ctx context.Context, crossed []model.Component, consumed map[uuid.UUID]int) int {
	raised := 0
	for _, component := range crossed {
		exists, err := s.alertRepo.HasUnresolved(ctx, component.ID, model.AlertStockShortage)
		if err != nil {
			log.Error().Err(err).Str("component", component.Code).Msg("alert lookup failed")
			continue
		}
		if exists {
			continue
		}

		newStock := component.OnHand - consumed[component.ID]
		alert := &model.Alert{
			ComponentID: component.ID,
			Type:        model.AlertStockShortage,
			Message: fmt.Sprintf("component %s at %d unit(s), below reorder point %d",
				component.Code, newStock, component.ReorderPoint),
		}
		if err := s.alertRepo.Create(ctx, alert); err != nil {
			log.Error().Err(err).Str("component", component.Code).Msg("alert create failed")
			continue
		}
		raised++

		if s.dispatcher != nil {
			payload := map[string]interface{}{
				"alert_id":       alert.ID.String(),
				"component_id":   component.ID.String(),
				"component_code": component.Code,
				"stock":          newStock,
				"reorder_point":  component.ReorderPoint,
			}
			if err := s.dispatcher.EnqueueAlert(ctx, payload); err != nil {
				log.Error().Err(err).Str("component", component.Code).Msg("alert enqueue failed")
			}
		}
	}
	return raised
}

func (s *inventoryService) AdjustComponentStock(ctx context.Context, componentID uuid.UUID, delta int, reason string) (*dto.MovementResponse, error) {
	component, err := s.componentRepo.FindByID(ctx, componentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComponentNotFound
		}
		return nil, fmt.Errorf("fetching component %s: %w", componentID, err)
	}
	if component.OnHand+delta < 0 {
		return nil, &InsufficientInventoryError{Shortages: []ComponentShortage{{
			ComponentID:   component.ID,
			ComponentCode: component.Code,
			Required:      -delta,
			Available:     component.OnHand,
			Shortage:      -delta - component.OnHand,
		}}}
	}

	before := component.OnHand
	if err := s.componentRepo.AdjustStock(ctx, componentID, delta); err != nil {
		return nil, fmt.Errorf("adjusting stock for %s: %w", component.Code, err)
	}

	movement := model.StockMovement{
		ComponentID: component.ID,
		Type:        model.MovementAdjustment,
		Quantity:    delta,
		StockBefore: before,
		StockAfter:  before + delta,
		Reason:      reason,
	}
	if err := s.movementRepo.Create(ctx, &movement); err != nil {
		return nil, fmt.Errorf("recording adjustment movement: %w", err)
	}

	resp := movementToResponse(&movement)
	return &resp, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movements, total, err := s.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *inventoryService) ListAlerts(ctx context.Context) ([]dto.AlertResponse, error) {
	alerts, err := s.alertRepo.ListUnresolved(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0, len(alerts))
	for _, alert := range alerts {
		code := ""
		if alert.Component != nil {
			code = alert.Component.Code
		}
		items = append(items, dto.AlertResponse{
			ID:            alert.ID.String(),
			ComponentID:   alert.ComponentID.String(),
			ComponentCode: code,
			Type:          alert.Type,
			Message:       alert.Message,
			Resolved:      alert.Resolved,
			CreatedAt:     alert.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return items, nil
}

func (s *inventoryService) ResolveAlert(ctx context.Context, id uuid.UUID) error {
	return s.alertRepo.Resolve(ctx, id)
}

func movementToResponse(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:          m.ID.String(),
		ComponentID: m.ComponentID.String(),
		Type:        m.Type,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.Component != nil {
		resp.ComponentCode = m.Component.Code
	}
	if m.ReferenceID != nil {
		resp.ReferenceID = m.ReferenceID.String()
	}
	return resp
}
