package service

import (
	"context"
	"sort"
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/dto"
	"github.com/Verde726/my-erp-system-sub001/internal/model"
	"github.com/Verde726/my-erp-system-sub001/internal/repository"
)

// DemandService collapses raw sales orders into one consolidated demand entry
// per product.
type DemandService interface {
	// Aggregate is a pure function of its input. Output is sorted by product
	// id so results never depend on map iteration order.
	Aggregate(orders []model.SalesOrder) []dto.AggregatedDemand

	// AggregateWindow fetches open orders due inside [from, to] (optionally
	// filtered by priority) and aggregates them.
	AggregateWindow(ctx context.Context, from, to time.Time, priority string) ([]dto.AggregatedDemand, error)
}

type demandService struct {
	orderRepo repository.SalesOrderRepository
}

func NewDemandService(orderRepo repository.SalesOrderRepository) DemandService {
	return &demandService{orderRepo: orderRepo}
}

func (s *demandService) Aggregate(orders []model.SalesOrder) []dto.AggregatedDemand {
	byProduct := make(map[string]*dto.AggregatedDemand)

	for _, order := range orders {
		key := order.ProductID.String()
		demand, ok := byProduct[key]
		if !ok {
			demand = &dto.AggregatedDemand{
				ProductID:       key,
				EarliestDueDate: order.DueDate,
				LatestDueDate:   order.DueDate,
				HighestPriority: order.Priority,
			}
			byProduct[key] = demand
		}

		demand.TotalUnits += order.Quantity
		demand.OrderCount++
		demand.OrderIDs = append(demand.OrderIDs, order.ID.String())
		if order.DueDate.Before(demand.EarliestDueDate) {
			demand.EarliestDueDate = order.DueDate
		}
		if order.DueDate.After(demand.LatestDueDate) {
			demand.LatestDueDate = order.DueDate
		}
		// Strictly greater: equal-weight ties keep the priority already seen.
		if model.PriorityWeight(order.Priority) > model.PriorityWeight(demand.HighestPriority) {
			demand.HighestPriority = order.Priority
		}
	}

	result := make([]dto.AggregatedDemand, 0, len(byProduct))
	for _, demand := range byProduct {
		result = append(result, *demand)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProductID < result[j].ProductID })
	return result
}

func (s *demandService) AggregateWindow(ctx context.Context, from, to time.Time, priority string) ([]dto.AggregatedDemand, error) {
	orders, err := s.orderRepo.FindOpenInWindow(ctx, from, to, priority)
	if err != nil {
		return nil, err
	}
	return s.Aggregate(orders), nil
}
