//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests:
//   T-E2E-1: Commit → requirements → complete production (full cycle over HTTP)
//   T-E2E-2: Shortage rejects completion with 409 and rolls back all writes
//   T-E2E-3: Concurrent completions against shared components serialize on row
//            locks — exactly one succeeds

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/config"
	"github.com/Verde726/my-erp-system-sub001/internal/infra"
	"github.com/Verde726/my-erp-system-sub001/internal/model"
	"github.com/Verde726/my-erp-system-sub001/internal/repository"
	"github.com/Verde726/my-erp-system-sub001/internal/router"
	"github.com/Verde726/my-erp-system-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	// Start Postgres container
	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("planning_test"),
		tcPostgres.WithUsername("planning"),
		tcPostgres.WithPassword("planning"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start Redis container
	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                 8000,
		Env:                  "test",
		DatabaseURL:          pgURL,
		RedisURL:             rdURL,
		WorkerPoolSize:       1,
		CapacityLookbackDays: 90,
		CapacityCacheTTLMin:  1,
		OrderDateBufferDays:  1,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, db: db}
}

func seedProductWithBOM(t *testing.T, db *gorm.DB, onHand int) (*model.Product, *model.Component) {
	t.Helper()
	product := &model.Product{SKU: "WID-" + uuid.NewString()[:8], Name: "Widget", Active: true}
	require.NoError(t, db.Create(product).Error)

	component := &model.Component{
		Code:         "CMP-" + uuid.NewString()[:8],
		Description:  "housing",
		OnHand:       onHand,
		LeadTimeDays: 3,
		UnitCost:     decimal.NewFromFloat(2.50),
		Active:       true,
	}
	require.NoError(t, db.Create(component).Error)

	require.NoError(t, db.Create(&model.BOMLine{
		ProductID:   product.ID,
		ComponentID: component.ID,
		QtyPerUnit:  2,
	}).Error)
	return product, component
}

func commitSchedule(t *testing.T, env *testEnv, productID string, units int) string {
	t.Helper()
	start := time.Now().AddDate(0, 0, 7)
	resp := do(t, env.server, "POST", "/v1/planning/commit", jsonBody(t, map[string]any{
		"proposal": map[string]any{
			"product_id":     productID,
			"daily_rate":     20,
			"total_units":    units,
			"start_date":     start.Format(time.RFC3339),
			"end_date":       start.AddDate(0, 0, 4).Format(time.RFC3339),
			"workstation_id": "WS-1",
			"shift":          1,
			"shifts_per_day": 1,
			"days_required":  5,
		},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var schedule struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &schedule)
	require.NotEmpty(t, schedule.ID)
	return schedule.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// T-E2E-1: Commit → requirements → complete production
func TestE2E_FullProductionCycle(t *testing.T) {
	env := setupTestEnv(t)
	product, component := seedProductWithBOM(t, env.db, 100)

	scheduleID := commitSchedule(t, env, product.ID.String(), 10)

	// Requirements: gross = 2 × 10, fully covered by 100 on hand
	reqResp := do(t, env.server, "GET", "/v1/schedules/"+scheduleID+"/requirements", nil)
	require.Equal(t, http.StatusOK, reqResp.StatusCode)
	var requirements struct {
		Results []struct {
			GrossRequirement int    `json:"gross_requirement"`
			NetRequirement   int    `json:"net_requirement"`
			Status           string `json:"status"`
		} `json:"results"`
	}
	decodeJSON(t, reqResp, &requirements)
	require.Len(t, requirements.Results, 1)
	assert.Equal(t, 20, requirements.Results[0].GrossRequirement)
	assert.Equal(t, 0, requirements.Results[0].NetRequirement)
	assert.Equal(t, "sufficient", requirements.Results[0].Status)

	// Complete the run
	completeResp := do(t, env.server, "POST",
		fmt.Sprintf("/v1/schedules/%s/complete/%s", scheduleID, product.ID),
		jsonBody(t, map[string]any{"quantity_produced": 10}))
	require.Equal(t, http.StatusOK, completeResp.StatusCode)
	var completion struct {
		Movements []struct {
			Quantity    int `json:"quantity"`
			StockBefore int `json:"stock_before"`
			StockAfter  int `json:"stock_after"`
		} `json:"movements"`
	}
	decodeJSON(t, completeResp, &completion)
	require.Len(t, completion.Movements, 1)
	assert.Equal(t, -20, completion.Movements[0].Quantity)
	assert.Equal(t, 100, completion.Movements[0].StockBefore)
	assert.Equal(t, 80, completion.Movements[0].StockAfter)

	// Stock decremented, schedule completed
	var stored model.Component
	require.NoError(t, env.db.First(&stored, "id = ?", component.ID).Error)
	assert.Equal(t, 80, stored.OnHand)
	var schedule model.ProductionSchedule
	require.NoError(t, env.db.First(&schedule, "id = ?", scheduleID).Error)
	assert.Equal(t, model.ScheduleStatusCompleted, schedule.Status)

	// Replay is rejected without a second decrement
	replayResp := do(t, env.server, "POST",
		fmt.Sprintf("/v1/schedules/%s/complete/%s", scheduleID, product.ID),
		jsonBody(t, map[string]any{"quantity_produced": 10}))
	assert.Equal(t, http.StatusConflict, replayResp.StatusCode)
	replayResp.Body.Close()
	require.NoError(t, env.db.First(&stored, "id = ?", component.ID).Error)
	assert.Equal(t, 80, stored.OnHand)
}

// T-E2E-2: Shortage rejects the whole completion and rolls back
func TestE2E_ShortageRollsBack(t *testing.T) {
	env := setupTestEnv(t)
	product, component := seedProductWithBOM(t, env.db, 15) // 10 units need 20

	scheduleID := commitSchedule(t, env, product.ID.String(), 10)

	resp := do(t, env.server, "POST",
		fmt.Sprintf("/v1/schedules/%s/complete/%s", scheduleID, product.ID),
		jsonBody(t, map[string]any{"quantity_produced": 10}))
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var body struct {
		Shortages []struct {
			ComponentCode string `json:"component_code"`
			Required      int    `json:"required"`
			Available     int    `json:"available"`
			Shortage      int    `json:"shortage"`
		} `json:"shortages"`
	}
	decodeJSON(t, resp, &body)
	require.Len(t, body.Shortages, 1)
	assert.Equal(t, component.Code, body.Shortages[0].ComponentCode)
	assert.Equal(t, 20, body.Shortages[0].Required)
	assert.Equal(t, 15, body.Shortages[0].Available)
	assert.Equal(t, 5, body.Shortages[0].Shortage)

	// Nothing written
	var stored model.Component
	require.NoError(t, env.db.First(&stored, "id = ?", component.ID).Error)
	assert.Equal(t, 15, stored.OnHand)
	var movements int64
	require.NoError(t, env.db.Model(&model.StockMovement{}).Count(&movements).Error)
	assert.Zero(t, movements)
	var schedule model.ProductionSchedule
	require.NoError(t, env.db.First(&schedule, "id = ?", scheduleID).Error)
	assert.Equal(t, model.ScheduleStatusPlanned, schedule.Status)
}

// T-E2E-3: Concurrent completions serialize on SELECT … FOR UPDATE
func TestE2E_ConcurrentCompletionsSerialize(t *testing.T) {
	env := setupTestEnv(t)
	// 30 on hand: each run consumes 20, so only one of two can succeed.
	product, component := seedProductWithBOM(t, env.db, 30)

	firstID := commitSchedule(t, env, product.ID.String(), 10)
	secondID := commitSchedule(t, env, product.ID.String(), 10)

	scheduleRepo := repository.NewScheduleRepository(env.db)
	componentRepo := repository.NewComponentRepository(env.db)
	movementRepo := repository.NewStockMovementRepository(env.db)
	alertRepo := repository.NewAlertRepository(env.db)
	svc := service.NewInventoryService(scheduleRepo, componentRepo, movementRepo, alertRepo, nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, id := range []string{firstID, secondID} {
		wg.Add(1)
		go func(i int, raw string) {
			defer wg.Done()
			scheduleID, err := uuid.Parse(raw)
			if err != nil {
				errs[i] = err
				return
			}
			_, errs[i] = svc.DecrementForProduction(context.Background(), scheduleID, product.ID, 10)
		}(i, id)
	}
	wg.Wait()

	var shortages int
	for _, err := range errs {
		var insufficient *service.InsufficientInventoryError
		if errors.As(err, &insufficient) {
			shortages++
		} else {
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 1, shortages, "exactly one completion must hit the shortage")

	// The winner consumed its 20 units, the loser wrote nothing.
	var stored model.Component
	require.NoError(t, env.db.First(&stored, "id = ?", component.ID).Error)
	assert.Equal(t, 10, stored.OnHand)
	var movements int64
	require.NoError(t, env.db.Model(&model.StockMovement{}).Count(&movements).Error)
	assert.Equal(t, int64(1), movements)
}
