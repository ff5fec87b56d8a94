package worker

// stock_cron.go
// Background goroutine that periodically scans for components sitting at or
// below their reorder point and raises shortage alerts for any that slipped
// past the decrement path (manual adjustments, receipts that fell short).

import (
	"context"
	"fmt"
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/model"
	"github.com/Verde726/my-erp-system-sub001/internal/repository"

	"github.com/rs/zerolog/log"
)

// StockScanConfig holds all dependencies for the scan goroutine.
type StockScanConfig struct {
	ComponentRepo repository.ComponentRepository
	AlertRepo     repository.AlertRepository
	Dispatcher    *Dispatcher
	Interval      time.Duration
}

// StartStockScanCron launches a background goroutine that ticks on the
// configured interval and raises one alert per component found below its
// reorder point. It respects the context for graceful shutdown.
func StartStockScanCron(ctx context.Context, cfg StockScanConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("stock_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stock_cron: shutting down")
				return
			case <-ticker.C:
				scanStockLevels(ctx, cfg)
			}
		}
	}()
}

func scanStockLevels(ctx context.Context, cfg StockScanConfig) {
	components, err := cfg.ComponentRepo.ListBelowReorderPoint(ctx)
	if err != nil {
		log.Error().Err(err).Msg("stock_cron: failed to query stock levels")
		return
	}
	if len(components) == 0 {
		return
	}

	raised := 0
	for _, component := range components {
		// One open alert per component — repeated scans stay quiet until
		// the previous alert is resolved.
		exists, err := cfg.AlertRepo.HasUnresolved(ctx, component.ID, model.AlertStockShortage)
		if err != nil {
			log.Error().Err(err).Str("component", component.Code).Msg("stock_cron: alert lookup failed")
			continue
		}
		if exists {
			continue
		}

		alert := &model.Alert{
			ComponentID: component.ID,
			Type:        model.AlertStockShortage,
			Message: fmt.Sprintf("component %s at %d unit(s), below reorder point %d",
				component.Code, component.OnHand, component.ReorderPoint),
		}
		if err := cfg.AlertRepo.Create(ctx, alert); err != nil {
			log.Error().Err(err).Str("component", component.Code).Msg("stock_cron: alert create failed")
			continue
		}
		raised++

		if cfg.Dispatcher != nil {
			payload := map[string]interface{}{
				"alert_id":       alert.ID.String(),
				"component_id":   component.ID.String(),
				"component_code": component.Code,
				"stock":          component.OnHand,
				"reorder_point":  component.ReorderPoint,
			}
			if err := cfg.Dispatcher.EnqueueAlert(ctx, payload); err != nil {
				log.Error().Err(err).Str("component", component.Code).Msg("stock_cron: alert enqueue failed")
			}
		}
	}

	if raised > 0 {
		log.Warn().Int("raised", raised).Int("below_threshold", len(components)).
			Msg("stock_cron: shortage alerts raised")
	}
}
