package inventory

import (
	"github.com/gin-gonic/gin"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/service/dashboard"
	"github.com/hospitalops/hospital-api/internal/service/inventory"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
	"github.com/hospitalops/hospital-api/pkg/httputil"
)

type Handler struct {
	service   inventory.InventoryService
	dashboard dashboard.DashboardService
}

func NewHandler(service inventory.InventoryService, dashboard dashboard.DashboardService) *Handler {
	return &Handler{service: service, dashboard: dashboard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/inventory")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/low-stock", h.ListLowStock)
		items.GET("/statistics", h.GetStatistics)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id/stock", h.AdjustStock)
	}
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req model.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	item := &model.InventoryItem{
		ItemID:       req.ItemID,
		HospitalID:   req.HospitalID,
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		MinimumStock: req.MinimumStock,
		UnitPrice:    req.UnitPrice,
		ExpiryDate:   req.ExpiryDate,
		Supplier:     req.Supplier,
	}

	if err := h.service.CreateItem(c.Request.Context(), item); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, item)
}

func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.service.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, item)
}

func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.service.ListItems(c.Request.Context(), c.Query("hospital_id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, items)
}

func (h *Handler) ListLowStock(c *gin.Context) {
	items, err := h.service.ListLowStock(c.Request.Context(), c.Query("hospital_id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, items)
}

func (h *Handler) AdjustStock(c *gin.Context) {
	var req model.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	item, err := h.service.AdjustStock(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, item)
}

func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.dashboard.GetInventoryStatistics(c.Request.Context(), c.Query("hospital_id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, stats)
}
