package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Verde726/my-erp-system-sub001/internal/dto"
	"github.com/Verde726/my-erp-system-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventoryFixture struct {
	svc           InventoryService
	scheduleRepo  *stubScheduleRepo
	componentRepo *stubComponentRepo
	movementRepo  *stubMovementRepo
	alertRepo     *stubAlertRepo
}

func newInventoryFixture() *inventoryFixture {
	scheduleRepo := newStubScheduleRepo()
	componentRepo := newStubComponentRepo()
	movementRepo := &stubMovementRepo{}
	alertRepo := &stubAlertRepo{}
	return &inventoryFixture{
		svc:           NewInventoryService(scheduleRepo, componentRepo, movementRepo, alertRepo, nil),
		scheduleRepo:  scheduleRepo,
		componentRepo: componentRepo,
		movementRepo:  movementRepo,
		alertRepo:     alertRepo,
	}
}

func (f *inventoryFixture) addSchedule(t *testing.T, productID uuid.UUID, quantity int) *model.ProductionSchedule {
	t.Helper()
	schedule := &model.ProductionSchedule{
		ProductID: productID,
		Quantity:  quantity,
		StartDate: day(0),
		EndDate:   day(4),
		Status:    model.ScheduleStatusInProgress,
	}
	require.NoError(t, f.scheduleRepo.Create(context.Background(), schedule))
	return schedule
}

func TestDecrementForProduction_ConsumesStockAndLogsMovements(t *testing.T) {
	f := newInventoryFixture()
	productID := uuid.New()
	schedule := f.addSchedule(t, productID, 10)

	housing := f.componentRepo.addComponent(model.Component{Code: "CMP-100", OnHand: 50})
	screw := f.componentRepo.addComponent(model.Component{Code: "CMP-101", OnHand: 200})
	f.componentRepo.addBOMLine(productID, housing.ID, 2)
	f.componentRepo.addBOMLine(productID, screw.ID, 8)

	resp, err := f.svc.DecrementForProduction(context.Background(), schedule.ID, productID, 10)
	require.NoError(t, err)

	assert.Equal(t, 30, f.componentRepo.components[housing.ID].OnHand)
	assert.Equal(t, 120, f.componentRepo.components[screw.ID].OnHand)

	require.Len(t, resp.Movements, 2)
	byComponent := make(map[string]dto.MovementResponse)
	for _, m := range resp.Movements {
		byComponent[m.ComponentID] = m
	}
	housingMove := byComponent[housing.ID.String()]
	assert.Equal(t, model.MovementConsumption, housingMove.Type)
	assert.Equal(t, -20, housingMove.Quantity)
	assert.Equal(t, 50, housingMove.StockBefore)
	assert.Equal(t, 30, housingMove.StockAfter)
	assert.Equal(t, schedule.ID.String(), housingMove.ReferenceID)

	stored, err := f.scheduleRepo.FindByID(context.Background(), schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ScheduleStatusCompleted, stored.Status)
	assert.Len(t, f.movementRepo.movements, 2)
}

func TestDecrementForProduction_ShortageRollsBackEverything(t *testing.T) {
	f := newInventoryFixture()
	productID := uuid.New()
	schedule := f.addSchedule(t, productID, 10)

	scarce := f.componentRepo.addComponent(model.Component{Code: "CMP-200", OnHand: 15})
	plenty := f.componentRepo.addComponent(model.Component{Code: "CMP-201", OnHand: 500})
	f.componentRepo.addBOMLine(productID, scarce.ID, 2)
	f.componentRepo.addBOMLine(productID, plenty.ID, 1)

	_, err := f.svc.DecrementForProduction(context.Background(), schedule.ID, productID, 10)

	var insufficient *InsufficientInventoryError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Shortages, 1)

	shortage := insufficient.Shortages[0]
	assert.Equal(t, scarce.ID, shortage.ComponentID)
	assert.Equal(t, "CMP-200", shortage.ComponentCode)
	assert.Equal(t, 20, shortage.Required)
	assert.Equal(t, 15, shortage.Available)
	assert.Equal(t, 5, shortage.Shortage)

	// Nothing was written: stock, movement log and schedule are untouched.
	assert.Equal(t, 15, f.componentRepo.components[scarce.ID].OnHand)
	assert.Equal(t, 500, f.componentRepo.components[plenty.ID].OnHand)
	assert.Empty(t, f.movementRepo.movements)
	stored, err := f.scheduleRepo.FindByID(context.Background(), schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ScheduleStatusInProgress, stored.Status)
}

func TestDecrementForProduction_ReportsAllShortagesAtOnce(t *testing.T) {
	f := newInventoryFixture()
	productID := uuid.New()
	schedule := f.addSchedule(t, productID, 10)

	first := f.componentRepo.addComponent(model.Component{Code: "CMP-300", OnHand: 5})
	second := f.componentRepo.addComponent(model.Component{Code: "CMP-301", OnHand: 3})
	f.componentRepo.addBOMLine(productID, first.ID, 1)
	f.componentRepo.addBOMLine(productID, second.ID, 1)

	_, err := f.svc.DecrementForProduction(context.Background(), schedule.ID, productID, 10)

	var insufficient *InsufficientInventoryError
	require.ErrorAs(t, err, &insufficient)
	assert.Len(t, insufficient.Shortages, 2)
}

func TestDecrementForProduction_RaisesAlertOnReorderPointCrossing(t *testing.T) {
	f := newInventoryFixture()
	productID := uuid.New()
	schedule := f.addSchedule(t, productID, 10)

	component := f.componentRepo.addComponent(model.Component{Code: "CMP-400", OnHand: 30, ReorderPoint: 25})
	f.componentRepo.addBOMLine(productID, component.ID, 1)

	resp, err := f.svc.DecrementForProduction(context.Background(), schedule.ID, productID, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.AlertsRaised)
	require.Len(t, f.alertRepo.alerts, 1)
	alert := f.alertRepo.alerts[0]
	assert.Equal(t, component.ID, alert.ComponentID)
	assert.Equal(t, model.AlertStockShortage, alert.Type)
	assert.Contains(t, alert.Message, "CMP-400")
}

func TestDecrementForProduction_DeduplicatesOpenAlerts(t *testing.T) {
	f := newInventoryFixture()
	productID := uuid.New()

	component := f.componentRepo.addComponent(model.Component{Code: "CMP-500", OnHand: 60, ReorderPoint: 55})
	f.componentRepo.addBOMLine(productID, component.ID, 1)
	require.NoError(t, f.alertRepo.Create(context.Background(), &model.Alert{
		ComponentID: component.ID,
		Type:        model.AlertStockShortage,
		Message:     "already open",
	}))

	schedule := f.addSchedule(t, productID, 10)
	resp, err := f.svc.DecrementForProduction(context.Background(), schedule.ID, productID, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.AlertsRaised)
	assert.Len(t, f.alertRepo.alerts, 1)
}

func TestDecrementForProduction_NoAlertWhenAlreadyBelowReorderPoint(t *testing.T) {
	f := newInventoryFixture()
	productID := uuid.New()
	schedule := f.addSchedule(t, productID, 5)

	// Starting under the threshold means no new crossing.
	component := f.componentRepo.addComponent(model.Component{Code: "CMP-600", OnHand: 20, ReorderPoint: 25})
	f.componentRepo.addBOMLine(productID, component.ID, 1)

	resp, err := f.svc.DecrementForProduction(context.Background(), schedule.ID, productID, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.AlertsRaised)
	assert.Empty(t, f.alertRepo.alerts)
}

func TestDecrementForProduction_CompletedScheduleIsRejected(t *testing.T) {
	f := newInventoryFixture()
	productID := uuid.New()
	schedule := f.addSchedule(t, productID, 10)

	component := f.componentRepo.addComponent(model.Component{Code: "CMP-800", OnHand: 100})
	f.componentRepo.addBOMLine(productID, component.ID, 2)

	_, err := f.svc.DecrementForProduction(context.Background(), schedule.ID, productID, 10)
	require.NoError(t, err)

	// Replaying the completion must not consume materials a second time.
	_, err = f.svc.DecrementForProduction(context.Background(), schedule.ID, productID, 10)
	assert.ErrorIs(t, err, ErrScheduleAlreadyCompleted)
	assert.Equal(t, 80, f.componentRepo.components[component.ID].OnHand)
	assert.Len(t, f.movementRepo.movements, 1)
}

func TestDecrementForProduction_UnknownScheduleIsNotFound(t *testing.T) {
	f := newInventoryFixture()
	_, err := f.svc.DecrementForProduction(context.Background(), uuid.New(), uuid.New(), 10)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestDecrementForProduction_ProductMismatchRejected(t *testing.T) {
	f := newInventoryFixture()
	schedule := f.addSchedule(t, uuid.New(), 10)

	_, err := f.svc.DecrementForProduction(context.Background(), schedule.ID, uuid.New(), 10)
	assert.ErrorIs(t, err, ErrProductMismatch)
}

func TestDecrementForProduction_EmptyBOMFails(t *testing.T) {
	f := newInventoryFixture()
	productID := uuid.New()
	schedule := f.addSchedule(t, productID, 10)

	_, err := f.svc.DecrementForProduction(context.Background(), schedule.ID, productID, 10)
	assert.ErrorIs(t, err, ErrNoComponents)
}

func TestInsufficientInventoryError_MessageNamesComponents(t *testing.T) {
	err := &InsufficientInventoryError{Shortages: []ComponentShortage{
		{ComponentCode: "CMP-700", Required: 20, Available: 15, Shortage: 5},
		{ComponentCode: "CMP-701", Required: 8, Available: 0, Shortage: 8},
	}}
	msg := err.Error()
	assert.Contains(t, msg, "2 component(s)")
	assert.Contains(t, msg, "CMP-700 (need 20, have 15)")
	assert.Contains(t, msg, "CMP-701 (need 8, have 0)")
	assert.True(t, errors.As(error(err), new(*InsufficientInventoryError)))
}

func TestAdjustComponentStock_RecordsSignedMovement(t *testing.T) {
	f := newInventoryFixture()
	component := f.componentRepo.addComponent(model.Component{Code: "CMP-900", OnHand: 40, Active: true})

	movement, err := f.svc.AdjustComponentStock(context.Background(), component.ID, -15, "cycle count correction")
	require.NoError(t, err)

	assert.Equal(t, model.MovementAdjustment, movement.Type)
	assert.Equal(t, -15, movement.Quantity)
	assert.Equal(t, 40, movement.StockBefore)
	assert.Equal(t, 25, movement.StockAfter)
	assert.Equal(t, "cycle count correction", movement.Reason)
	assert.Equal(t, 25, f.componentRepo.components[component.ID].OnHand)
	require.Len(t, f.movementRepo.movements, 1)
}

func TestAdjustComponentStock_RejectsNegativeResult(t *testing.T) {
	f := newInventoryFixture()
	component := f.componentRepo.addComponent(model.Component{Code: "CMP-901", OnHand: 10, Active: true})

	_, err := f.svc.AdjustComponentStock(context.Background(), component.ID, -25, "write-off")

	var insufficient *InsufficientInventoryError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 10, f.componentRepo.components[component.ID].OnHand)
	assert.Empty(t, f.movementRepo.movements)
}

func TestAdjustComponentStock_UnknownComponentIsNotFound(t *testing.T) {
	f := newInventoryFixture()
	_, err := f.svc.AdjustComponentStock(context.Background(), uuid.New(), 5, "receipt")
	assert.ErrorIs(t, err, ErrComponentNotFound)
}

func TestListMovements_FiltersByComponent(t *testing.T) {
	f := newInventoryFixture()
	target := uuid.New()
	other := uuid.New()
	require.NoError(t, f.movementRepo.Create(context.Background(), &model.StockMovement{
		ComponentID: target, Type: model.MovementConsumption, Quantity: -5,
	}))
	require.NoError(t, f.movementRepo.Create(context.Background(), &model.StockMovement{
		ComponentID: other, Type: model.MovementReceipt, Quantity: 10,
	}))

	resp, err := f.svc.ListMovements(context.Background(), dto.MovementFilter{ComponentID: target.String()})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, target.String(), resp.Data[0].ComponentID)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 100, resp.Limit)
}

func TestResolveAlert_MarksResolved(t *testing.T) {
	f := newInventoryFixture()
	alert := &model.Alert{ComponentID: uuid.New(), Type: model.AlertStockShortage}
	require.NoError(t, f.alertRepo.Create(context.Background(), alert))

	require.NoError(t, f.svc.ResolveAlert(context.Background(), alert.ID))

	open, err := f.svc.ListAlerts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, open)
}
