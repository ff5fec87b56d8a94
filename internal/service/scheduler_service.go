package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/dto"
	"github.com/Verde726/my-erp-system-sub001/internal/model"
	"github.com/Verde726/my-erp-system-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultWorkstation = "WS-DEFAULT"

	utilizationWarnThreshold = 0.9
	minReliableSampleCount   = 5
	defectRateWarnThreshold  = 0.05
)

// SchedulerService turns aggregated demand plus capability estimates into
// time-boxed schedule proposals, and commits accepted proposals.
type SchedulerService interface {
	// GenerateProposals is a pure, synchronous computation over already
	// fetched data: one proposal per demand, in priority order.
	GenerateProposals(demands []dto.AggregatedDemand, capabilities map[string]dto.Capability, opts dto.GenerateOptions) []dto.ScheduleProposal

	// GeneratePlan runs the whole pipeline for a demand window: aggregate →
	// estimate → generate → conflict-check (against committed schedules).
	GeneratePlan(ctx context.Context, req dto.GenerateProposalsRequest) (*dto.GenerateProposalsResponse, error)

	// CommitProposal persists a proposal as a planned production schedule.
	CommitProposal(ctx context.Context, proposal dto.ScheduleProposal) (*model.ProductionSchedule, error)

	// SetScheduleStatus moves a schedule between lifecycle states. Completion
	// is excluded: that only happens through the production-completion flow,
	// which consumes materials.
	SetScheduleStatus(ctx context.Context, id uuid.UUID, status string) error
}

type schedulerService struct {
	demand       DemandService
	capacity     CapacityService
	conflicts    ConflictService
	scheduleRepo repository.ScheduleRepository
	productRepo  repository.ProductRepository
	lookbackDays int
}

func NewSchedulerService(
	demand DemandService,
	capacity CapacityService,
	conflicts ConflictService,
	scheduleRepo repository.ScheduleRepository,
	productRepo repository.ProductRepository,
	lookbackDays int,
) SchedulerService {
	return &schedulerService{
		demand:       demand,
		capacity:     capacity,
		conflicts:    conflicts,
		scheduleRepo: scheduleRepo,
		productRepo:  productRepo,
		lookbackDays: lookbackDays,
	}
}

func (s *schedulerService) GenerateProposals(demands []dto.AggregatedDemand, capabilities map[string]dto.Capability, opts dto.GenerateOptions) []dto.ScheduleProposal {
	shiftsPerDay := opts.ShiftsPerDay
	if shiftsPerDay < 1 {
		shiftsPerDay = 1
	}
	if shiftsPerDay > 3 {
		shiftsPerDay = 3
	}
	windowStart := opts.WindowStart
	if windowStart.IsZero() {
		windowStart = time.Now()
	}

	// Priority dominates; earlier due date breaks priority ties; stable, so
	// equal demands keep their input order.
	ordered := make([]dto.AggregatedDemand, len(demands))
	copy(ordered, demands)
	sort.SliceStable(ordered, func(i, j int) bool {
		wi, wj := model.PriorityWeight(ordered[i].HighestPriority), model.PriorityWeight(ordered[j].HighestPriority)
		if wi != wj {
			return wi > wj
		}
		return ordered[i].EarliestDueDate.Before(ordered[j].EarliestDueDate)
	})

	timeline := newResourceTimeline(windowStart)
	proposals := make([]dto.ScheduleProposal, 0, len(ordered))

	for _, demand := range ordered {
		capability, ok := capabilities[demand.ProductID]
		if !ok {
			capability = dto.Capability{
				ProductID:      demand.ProductID,
				AvgUnitsPerDay: defaultUnitsPerDay,
				AvgEfficiency:  defaultEfficiency,
				AvgDefectRate:  defaultDefectRate,
			}
		}

		dailyCapacity := capability.AvgUnitsPerDay * float64(shiftsPerDay)
		effectiveRate := dailyCapacity * capability.AvgEfficiency
		if effectiveRate <= 0 {
			effectiveRate = 1
		}
		daysRequired := int(math.Ceil(float64(demand.TotalUnits) / effectiveRate))
		if daysRequired < 1 {
			daysRequired = 1
		}

		workstation := opts.WorkstationOverride
		if workstation == "" {
			workstation = capability.RecommendedWorkstation
		}
		if workstation == "" {
			workstation = defaultWorkstation
		}

		startDate, endDate := timeline.book(workstation, daysRequired)

		// Utilization denominator scales with shift count: running extra
		// shifts adds capacity, it does not raise utilization by itself.
		utilization := 0.0
		if dailyCapacity > 0 {
			utilization = float64(demand.TotalUnits) / float64(daysRequired) / dailyCapacity
		}

		var warnings []string
		if endDate.After(truncateToDay(demand.LatestDueDate)) {
			warnings = append(warnings, fmt.Sprintf(
				"projected end date %s exceeds latest due date %s",
				endDate.Format("2006-01-02"), demand.LatestDueDate.Format("2006-01-02")))
		}
		if utilization > utilizationWarnThreshold {
			warnings = append(warnings, fmt.Sprintf("capacity utilization %.0f%% above %.0f%%",
				utilization*100, utilizationWarnThreshold*100))
		}
		if capability.SampleCount < minReliableSampleCount {
			warnings = append(warnings, fmt.Sprintf(
				"estimate backed by only %d historical sample(s)", capability.SampleCount))
		}
		if capability.AvgDefectRate > defectRateWarnThreshold {
			warnings = append(warnings, fmt.Sprintf("historical defect rate %.1f%% above %.0f%%",
				capability.AvgDefectRate*100, defectRateWarnThreshold*100))
		}

		proposals = append(proposals, dto.ScheduleProposal{
			ProductID:           demand.ProductID,
			DailyRate:           int(math.Round(dailyCapacity)),
			TotalUnits:          demand.TotalUnits,
			StartDate:           startDate,
			EndDate:             endDate,
			WorkstationID:       workstation,
			Shift:               1,
			ShiftsPerDay:        shiftsPerDay,
			DaysRequired:        daysRequired,
			CapacityUtilization: utilization,
			Priority:            demand.HighestPriority,
			Warnings:            warnings,
		})
	}

	return proposals
}

func (s *schedulerService) GeneratePlan(ctx context.Context, req dto.GenerateProposalsRequest) (*dto.GenerateProposalsResponse, error) {
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, fmt.Errorf("invalid from date: %w", err)
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, fmt.Errorf("invalid to date: %w", err)
	}

	demands, err := s.demand.AggregateWindow(ctx, from, to, req.Priority)
	if err != nil {
		return nil, fmt.Errorf("aggregating demand: %w", err)
	}

	// Empty demand is "nothing to schedule", not an error.
	if len(demands) == 0 {
		return &dto.GenerateProposalsResponse{
			Proposals: []dto.ScheduleProposal{},
			Conflicts: []dto.Conflict{},
			Demands:   []dto.AggregatedDemand{},
		}, nil
	}

	capabilities := make(map[string]dto.Capability, len(demands))
	for _, demand := range demands {
		productID, err := uuid.Parse(demand.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q: %w", demand.ProductID, err)
		}
		capability, err := s.capacity.EstimateCapability(ctx, productID, s.lookbackDays)
		if err != nil {
			return nil, err
		}
		capabilities[demand.ProductID] = *capability
	}

	opts := dto.GenerateOptions{
		WorkstationOverride: req.WorkstationOverride,
		ShiftsPerDay:        req.ShiftsPerDay,
	}
	if req.WindowStart != "" {
		start, err := time.Parse("2006-01-02", req.WindowStart)
		if err != nil {
			return nil, fmt.Errorf("invalid window start: %w", err)
		}
		opts.WindowStart = start
	}

	proposals := s.GenerateProposals(demands, capabilities, opts)

	conflicts, err := s.conflicts.Detect(ctx, proposals, true)
	if err != nil {
		return nil, err
	}

	return &dto.GenerateProposalsResponse{
		Proposals: proposals,
		Conflicts: conflicts,
		Demands:   demands,
	}, nil
}

func (s *schedulerService) CommitProposal(ctx context.Context, proposal dto.ScheduleProposal) (*model.ProductionSchedule, error) {
	productID, err := uuid.Parse(proposal.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	if proposal.EndDate.Before(proposal.StartDate) {
		return nil, fmt.Errorf("proposal end date precedes start date")
	}

	// Proposals travel through clients before coming back for commit; the
	// product must still exist by then.
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("fetching product %s: %w", productID, err)
	}

	schedule := &model.ProductionSchedule{
		ProductID:     productID,
		Quantity:      proposal.TotalUnits,
		DailyRate:     proposal.DailyRate,
		StartDate:     truncateToDay(proposal.StartDate),
		EndDate:       truncateToDay(proposal.EndDate),
		WorkstationID: proposal.WorkstationID,
		Shift:         proposal.Shift,
		ShiftsPerDay:  proposal.ShiftsPerDay,
		Status:        model.ScheduleStatusPlanned,
	}
	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("persisting schedule: %w", err)
	}
	return schedule, nil
}

func (s *schedulerService) SetScheduleStatus(ctx context.Context, id uuid.UUID, status string) error {
	switch status {
	case model.ScheduleStatusPlanned, model.ScheduleStatusInProgress, model.ScheduleStatusCancelled:
	default:
		return fmt.Errorf("status %q cannot be set directly", status)
	}

	schedule, err := s.scheduleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return fmt.Errorf("fetching schedule %s: %w", id, err)
	}
	// Completed runs already consumed their materials; reopening one would
	// desynchronize stock.
	if schedule.Status == model.ScheduleStatusCompleted {
		return ErrScheduleAlreadyCompleted
	}

	return s.scheduleRepo.UpdateStatus(ctx, id, status)
}
