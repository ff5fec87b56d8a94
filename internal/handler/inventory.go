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

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// CompleteProduction applies the material consumption of a finished run.
// A shortage rejects the whole operation with 409 and the full shortage list.
func (h *InventoryHandler) CompleteProduction(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid schedule id"))
		return
	}
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	var req dto.CompleteProductionRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.DecrementForProduction(c.Request.Context(), scheduleID, productID, req.QuantityProduced)
	if err != nil {
		var shortage *service.InsufficientInventoryError
		switch {
		case errors.As(err, &shortage):
			items := make([]apierror.ShortageItem, 0, len(shortage.Shortages))
			for _, s := range shortage.Shortages {
				items = append(items, apierror.ShortageItem{
					ComponentID:   s.ComponentID.String(),
					ComponentCode: s.ComponentCode,
					Required:      s.Required,
					Available:     s.Available,
					Shortage:      s.Shortage,
				})
			}
			c.JSON(http.StatusConflict, apierror.NewShortage("insufficient inventory", items))
		case errors.Is(err, service.ErrScheduleNotFound):
			c.JSON(http.StatusNotFound, apierror.New("schedule not found"))
		case errors.Is(err, service.ErrNoComponents):
			c.JSON(http.StatusUnprocessableEntity, apierror.New("product has no components defined"))
		case errors.Is(err, service.ErrProductMismatch):
			c.JSON(http.StatusBadRequest, apierror.New("product does not match schedule"))
		case errors.Is(err, service.ErrScheduleAlreadyCompleted):
			c.JSON(http.StatusConflict, apierror.New("schedule already completed"))
		default:
			c.Error(err) //nolint:errcheck
			c.JSON(http.StatusInternalServerError, apierror.New("failed to complete production"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdjustStock applies a manual signed stock correction to one component.
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	componentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid component id"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	movement, err := h.svc.AdjustComponentStock(c.Request.Context(), componentID, req.Delta, req.Reason)
	if err != nil {
		var shortage *service.InsufficientInventoryError
		switch {
		case errors.As(err, &shortage):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		case errors.Is(err, service.ErrComponentNotFound):
			c.JSON(http.StatusNotFound, apierror.New("component not found"))
		default:
			c.Error(err) //nolint:errcheck
			c.JSON(http.StatusInternalServerError, apierror.New("failed to adjust stock"))
		}
		return
	}
	c.JSON(http.StatusOK, movement)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query parameters"))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list movements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) ListAlerts(c *gin.Context) {
	resp, err := h.svc.ListAlerts(c.Request.Context())
	if err != nil {
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list alerts"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) ResolveAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid alert id"))
		return
	}
	if err := h.svc.ResolveAlert(c.Request.Context(), id); err != nil {
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, apierror.New("failed to resolve alert"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
