package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/dto"
	"github.com/Verde726/my-erp-system-sub001/internal/repository"
)

const capacityConflictThreshold = 0.95

// ConflictService inspects a proposal set for resource contention and
// capacity risk, optionally against already-committed schedules.
type ConflictService interface {
	// Detect runs all checks. When considerCommitted is true, committed
	// schedules overlapping the proposal window are fetched and checked too.
	Detect(ctx context.Context, proposals []dto.ScheduleProposal, considerCommitted bool) ([]dto.Conflict, error)

	// DetectLocal runs the pure checks over the proposals alone.
	DetectLocal(proposals []dto.ScheduleProposal) []dto.Conflict
}

type conflictService struct {
	scheduleRepo repository.ScheduleRepository
}

func NewConflictService(scheduleRepo repository.ScheduleRepository) ConflictService {
	return &conflictService{scheduleRepo: scheduleRepo}
}

func (s *conflictService) DetectLocal(proposals []dto.ScheduleProposal) []dto.Conflict {
	conflicts := make([]dto.Conflict, 0)
	conflicts = append(conflicts, workstationOverlaps(proposals)...)

	for _, p := range proposals {
		if p.CapacityUtilization > capacityConflictThreshold {
			conflicts = append(conflicts, dto.Conflict{
				Kind:     dto.ConflictCapacityExceeded,
				Severity: dto.SeverityWarning,
				Message: fmt.Sprintf("product %s planned at %.0f%% of capacity",
					p.ProductID, p.CapacityUtilization*100),
				ProductIDs: []string{p.ProductID},
			})
		}
		for _, warning := range p.Warnings {
			conflicts = append(conflicts, dto.Conflict{
				Kind:       dto.ConflictDateRisk,
				Severity:   dto.SeverityWarning,
				Message:    warning,
				ProductIDs: []string{p.ProductID},
			})
		}
	}
	return conflicts
}

func (s *conflictService) Detect(ctx context.Context, proposals []dto.ScheduleProposal, considerCommitted bool) ([]dto.Conflict, error) {
	conflicts := s.DetectLocal(proposals)
	if !considerCommitted || len(proposals) == 0 {
		return conflicts, nil
	}

	from, to := proposalWindow(proposals)
	committed, err := s.scheduleRepo.FindActiveInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching committed schedules: %w", err)
	}

	for _, p := range proposals {
		for _, sched := range committed {
			if sched.WorkstationID != p.WorkstationID {
				continue
			}
			if intervalsOverlap(p.StartDate, p.EndDate, sched.StartDate, sched.EndDate) {
				conflicts = append(conflicts, dto.Conflict{
					Kind:     dto.ConflictScheduleOverlap,
					Severity: dto.SeverityCritical,
					Message: fmt.Sprintf("proposal for product %s overlaps committed schedule %s on workstation %s",
						p.ProductID, sched.ID, p.WorkstationID),
					ProductIDs: []string{p.ProductID, sched.ProductID.String()},
				})
			}
		}
	}
	return conflicts, nil
}

// workstationOverlaps finds every pair of proposals booked on the same
// workstation with intersecting date ranges. Workstations are visited in
// sorted order so output never depends on map iteration order.
func workstationOverlaps(proposals []dto.ScheduleProposal) []dto.Conflict {
	byWorkstation := make(map[string][]dto.ScheduleProposal)
	for _, p := range proposals {
		byWorkstation[p.WorkstationID] = append(byWorkstation[p.WorkstationID], p)
	}

	workstations := make([]string, 0, len(byWorkstation))
	for id := range byWorkstation {
		workstations = append(workstations, id)
	}
	sort.Strings(workstations)

	var conflicts []dto.Conflict
	for _, id := range workstations {
		group := byWorkstation[id]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if intervalsOverlap(a.StartDate, a.EndDate, b.StartDate, b.EndDate) {
					conflicts = append(conflicts, dto.Conflict{
						Kind:     dto.ConflictWorkstationOverlap,
						Severity: dto.SeverityCritical,
						Message: fmt.Sprintf("products %s and %s are double-booked on workstation %s",
							a.ProductID, b.ProductID, id),
						ProductIDs: []string{a.ProductID, b.ProductID},
					})
				}
			}
		}
	}
	return conflicts
}

func proposalWindow(proposals []dto.ScheduleProposal) (time.Time, time.Time) {
	from, to := proposals[0].StartDate, proposals[0].EndDate
	for _, p := range proposals[1:] {
		if p.StartDate.Before(from) {
			from = p.StartDate
		}
		if p.EndDate.After(to) {
			to = p.EndDate
		}
	}
	return from, to
}
