package handler

import (
	"errors"
	"net/http"

	"github.com/Verde726/my-erp-system-sub001/internal/apierror"
	"github.com/Verde726/my-erp-system-sub001/internal/dto"
	"github.com/Verde726/my-erp-system-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PlanningHandler struct {
	scheduler service.SchedulerService
	conflicts service.ConflictService
}

func NewPlanningHandler(scheduler service.SchedulerService, conflicts service.ConflictService) *PlanningHandler {
	return &PlanningHandler{scheduler: scheduler, conflicts: conflicts}
}

// GenerateProposals runs the full planning pipeline for a demand window.
func (h *PlanningHandler) GenerateProposals(c *gin.Context) {
	var req dto.GenerateProposalsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.scheduler.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, apierror.New("failed to generate proposals"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DetectConflicts re-checks a caller-supplied proposal set.
func (h *PlanningHandler) DetectConflicts(c *gin.Context) {
	var req dto.DetectConflictsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	conflicts, err := h.conflicts.Detect(c.Request.Context(), req.Proposals, req.ConsiderCommitted)
	if err != nil {
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, apierror.New("failed to detect conflicts"))
		return
	}
	c.JSON(http.StatusOK, dto.DetectConflictsResponse{Conflicts: conflicts})
}

// UpdateScheduleStatus moves a committed schedule between lifecycle states.
func (h *PlanningHandler) UpdateScheduleStatus(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid schedule id"))
		return
	}
	var req dto.UpdateScheduleStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.scheduler.SetScheduleStatus(c.Request.Context(), scheduleID, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrScheduleNotFound):
			c.JSON(http.StatusNotFound, apierror.New("schedule not found"))
		case errors.Is(err, service.ErrScheduleAlreadyCompleted):
			c.JSON(http.StatusConflict, apierror.New("schedule already completed"))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CommitProposal persists an accepted proposal as a planned schedule.
func (h *PlanningHandler) CommitProposal(c *gin.Context) {
	var req dto.CommitProposalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	schedule, err := h.scheduler.CommitProposal(c.Request.Context(), req.Proposal)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("product not found"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, dto.ScheduleResponse{
		ID:            schedule.ID.String(),
		ProductID:     schedule.ProductID.String(),
		Quantity:      schedule.Quantity,
		DailyRate:     schedule.DailyRate,
		StartDate:     schedule.StartDate.Format("2006-01-02"),
		EndDate:       schedule.EndDate.Format("2006-01-02"),
		WorkstationID: schedule.WorkstationID,
		Shift:         schedule.Shift,
		ShiftsPerDay:  schedule.ShiftsPerDay,
		Status:        schedule.Status,
		CreatedAt:     schedule.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}
