package handler

import (
	"errors"
	"net/http"

	"github.com/Verde726/my-erp-system-sub001/internal/apierror"
	"github.com/Verde726/my-erp-system-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MRPHandler struct{ svc service.MRPService }

func NewMRPHandler(svc service.MRPService) *MRPHandler {
	return &MRPHandler{svc: svc}
}

// GetRequirements computes material requirements for a committed schedule.
func (h *MRPHandler) GetRequirements(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid schedule id"))
		return
	}
	resp, err := h.svc.CalculateRequirements(c.Request.Context(), scheduleID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MaterializeRequirements computes and persists the run as audit records.
func (h *MRPHandler) MaterializeRequirements(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid schedule id"))
		return
	}
	resp, err := h.svc.MaterializeRequirements(c.Request.Context(), scheduleID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MRPHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		c.JSON(http.StatusNotFound, apierror.New("schedule not found"))
	case errors.Is(err, service.ErrNoComponents):
		// Missing configuration, not a stock problem — surfaced distinctly.
		c.JSON(http.StatusUnprocessableEntity, apierror.New("product has no components defined"))
	default:
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, apierror.New("failed to calculate requirements"))
	}
}
