package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/dto"
	"github.com/Verde726/my-erp-system-sub001/internal/model"
	"github.com/Verde726/my-erp-system-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MRPService expands one committed schedule through its product's component
// list and nets required quantity against available stock. Lot-for-lot: the
// planned order quantity is exactly the net requirement.
type MRPService interface {
	CalculateRequirements(ctx context.Context, scheduleID uuid.UUID) (*dto.RequirementsResponse, error)

	// MaterializeRequirements runs the calculation and persists the result
	// as audit records, replacing any previous snapshot for the schedule.
	MaterializeRequirements(ctx context.Context, scheduleID uuid.UUID) (*dto.RequirementsResponse, error)
}

type mrpService struct {
	scheduleRepo    repository.ScheduleRepository
	componentRepo   repository.ComponentRepository
	requirementRepo repository.RequirementRepository
	orderBufferDays int
	now             func() time.Time
}

func NewMRPService(
	scheduleRepo repository.ScheduleRepository,
	componentRepo repository.ComponentRepository,
	requirementRepo repository.RequirementRepository,
	orderBufferDays int,
) MRPService {
	return &mrpService{
		scheduleRepo:    scheduleRepo,
		componentRepo:   componentRepo,
		requirementRepo: requirementRepo,
		orderBufferDays: orderBufferDays,
		now:             time.Now,
	}
}

func (s *mrpService) CalculateRequirements(ctx context.Context, scheduleID uuid.UUID) (*dto.RequirementsResponse, error) {
	schedule, err := s.scheduleRepo.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("fetching schedule %s: %w", scheduleID, err)
	}

	bom, err := s.componentRepo.FindBOMByProductID(ctx, schedule.ProductID)
	if err != nil {
		return nil, fmt.Errorf("fetching BOM for product %s: %w", schedule.ProductID, err)
	}
	// A committed schedule for a product with no BOM is a data-integrity
	// problem upstream — a hard failure, never silently skipped.
	if len(bom) == 0 {
		return nil, ErrNoComponents
	}

	sort.Slice(bom, func(i, j int) bool {
		return bom[i].Component.Code < bom[j].Component.Code
	})

	today := truncateToDay(s.now())
	// Material must be available when the run starts.
	needDate := truncateToDay(schedule.StartDate)

	results := make([]dto.MaterialRequirementLine, 0, len(bom))
	summary := dto.RequirementsSummary{
		TotalComponents: len(bom),
		TotalCost:       decimal.Zero,
	}

	for _, line := range bom {
		component := line.Component
		gross := line.QtyPerUnit * schedule.Quantity
		available := component.OnHand - component.Allocated
		net := gross - available
		if net < 0 {
			net = 0
		}

		requirement := dto.MaterialRequirementLine{
			ComponentID:      component.ID.String(),
			ComponentCode:    component.Code,
			Description:      component.Description,
			GrossRequirement: gross,
			OnHand:           component.OnHand,
			Allocated:        component.Allocated,
			NetRequirement:   net,
			Status:           model.RequirementSufficient,
			Cost:             decimal.Zero,
		}

		if net > 0 {
			requirement.OrderQuantity = net
			orderDate := needDate.AddDate(0, 0, -(component.LeadTimeDays + s.orderBufferDays))
			requirement.OrderDate = &orderDate
			requirement.Cost = component.UnitCost.Mul(decimal.NewFromInt(int64(net)))
			summary.TotalCost = summary.TotalCost.Add(requirement.Cost)

			if orderDate.Before(today) {
				requirement.OrderDateInPast = true
				requirement.Status = model.RequirementCritical
				requirement.Recommendations = append(requirement.Recommendations, fmt.Sprintf(
					"order %d × %s immediately: lead time of %d day(s) already exceeds the schedule start",
					net, component.Code, component.LeadTimeDays))
				summary.Critical++
				summary.UrgentActions = append(summary.UrgentActions, fmt.Sprintf(
					"%s: %d unit(s) short, order date %s is in the past",
					component.Code, net, orderDate.Format("2006-01-02")))
			} else {
				requirement.Status = model.RequirementShortage
				requirement.Recommendations = append(requirement.Recommendations, fmt.Sprintf(
					"place order for %d × %s by %s", net, component.Code, orderDate.Format("2006-01-02")))
				summary.Shortages++
			}
		} else {
			summary.Sufficient++
		}

		// Even a fully covered requirement can leave the bin below its
		// safety threshold once this schedule consumes its share.
		if component.OnHand-gross < component.SafetyStock {
			requirement.Warnings = append(requirement.Warnings, fmt.Sprintf(
				"stock of %s falls below safety threshold (%d) after fulfilling this schedule",
				component.Code, component.SafetyStock))
		}

		results = append(results, requirement)
	}

	return &dto.RequirementsResponse{
		ScheduleID: schedule.ID.String(),
		Results:    results,
		Summary:    summary,
	}, nil
}

func (s *mrpService) MaterializeRequirements(ctx context.Context, scheduleID uuid.UUID) (*dto.RequirementsResponse, error) {
	response, err := s.CalculateRequirements(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	rows := make([]model.MaterialRequirement, 0, len(response.Results))
	for _, line := range response.Results {
		componentID, err := uuid.Parse(line.ComponentID)
		if err != nil {
			return nil, fmt.Errorf("invalid component id %q: %w", line.ComponentID, err)
		}
		rows = append(rows, model.MaterialRequirement{
			ScheduleID:       scheduleID,
			ComponentID:      componentID,
			GrossRequirement: line.GrossRequirement,
			OnHand:           line.OnHand,
			Allocated:        line.Allocated,
			NetRequirement:   line.NetRequirement,
			OrderQuantity:    line.OrderQuantity,
			OrderDate:        line.OrderDate,
			OrderDateInPast:  line.OrderDateInPast,
			Status:           line.Status,
			Cost:             line.Cost,
		})
	}

	if err := s.requirementRepo.ReplaceForSchedule(ctx, scheduleID, rows); err != nil {
		return nil, fmt.Errorf("persisting requirements for %s: %w", scheduleID, err)
	}
	return response, nil
}
