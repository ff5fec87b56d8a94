package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/dto"
	"github.com/Verde726/my-erp-system-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Conservative fallback when a product has no throughput history: downstream
// scheduling degrades gracefully instead of failing.
const (
	defaultUnitsPerDay = 100.0
	defaultEfficiency  = 0.75
	defaultDefectRate  = 0.05

	hoursPerDay = 8.0
)

// CapacityService derives a product's historical production rate from
// throughput samples.
type CapacityService interface {
	EstimateCapability(ctx context.Context, productID uuid.UUID, lookbackDays int) (*dto.Capability, error)
}

type capacityService struct {
	throughputRepo repository.ThroughputRepository
	rdb            *redis.Client
	cacheTTL       time.Duration
}

// NewCapacityService builds a capacity estimator. rdb may be nil (unit test
// mode); estimates are then computed on every call.
func NewCapacityService(throughputRepo repository.ThroughputRepository, rdb *redis.Client, cacheTTL time.Duration) CapacityService {
	return &capacityService{throughputRepo: throughputRepo, rdb: rdb, cacheTTL: cacheTTL}
}

// EstimateCapability computes average units/day (from units-per-hour scaled to
// an 8-hour day), mean efficiency and defect rate, and the most frequently
// used workstation across samples in the lookback window. Read-only; the only
// error it returns is a storage failure.
func (s *capacityService) EstimateCapability(ctx context.Context, productID uuid.UUID, lookbackDays int) (*dto.Capability, error) {
	if lookbackDays <= 0 {
		lookbackDays = 90
	}

	cacheKey := fmt.Sprintf("capability:%s:%d", productID, lookbackDays)
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	since := time.Now().AddDate(0, 0, -lookbackDays)
	samples, err := s.throughputRepo.FindByProductSince(ctx, productID, since)
	if err != nil {
		return nil, fmt.Errorf("fetching throughput history for %s: %w", productID, err)
	}

	capability := &dto.Capability{ProductID: productID.String()}

	if len(samples) == 0 {
		capability.AvgUnitsPerDay = defaultUnitsPerDay
		capability.AvgEfficiency = defaultEfficiency
		capability.AvgDefectRate = defaultDefectRate
		return capability, nil
	}

	var totalUnits, totalHours, sumEfficiency, sumDefect float64
	workstationUse := make(map[string]int)
	for _, sample := range samples {
		totalUnits += float64(sample.UnitsProduced)
		totalHours += sample.HoursWorked
		sumEfficiency += sample.Efficiency
		sumDefect += sample.DefectRate
		if sample.WorkstationID != "" {
			workstationUse[sample.WorkstationID]++
		}
	}

	if totalHours > 0 {
		capability.AvgUnitsPerDay = totalUnits / totalHours * hoursPerDay
	} else {
		capability.AvgUnitsPerDay = defaultUnitsPerDay
	}
	capability.AvgEfficiency = sumEfficiency / float64(len(samples))
	capability.AvgDefectRate = sumDefect / float64(len(samples))
	capability.SampleCount = len(samples)
	capability.RecommendedWorkstation = mostUsedWorkstation(workstationUse)

	s.cacheSet(ctx, cacheKey, capability)
	return capability, nil
}

// mostUsedWorkstation returns the mode of workstation usage. Ties break by
// lexicographic order so the result does not depend on map iteration order.
func mostUsedWorkstation(use map[string]int) string {
	best := ""
	bestCount := 0
	for id, count := range use {
		if count > bestCount || (count == bestCount && best != "" && id < best) {
			best = id
			bestCount = count
		}
	}
	return best
}

// Cache reads and writes are best effort: a broken redis never fails an estimate.

func (s *capacityService) cacheGet(ctx context.Context, key string) *dto.Capability {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var capability dto.Capability
	if err := json.Unmarshal([]byte(raw), &capability); err != nil {
		return nil
	}
	return &capability
}

func (s *capacityService) cacheSet(ctx context.Context, key string, capability *dto.Capability) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(capability)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("capability cache write failed")
	}
}
