package bed

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hospitalops/hospital-api/internal/handler"
	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/service/bed"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
	"github.com/hospitalops/hospital-api/pkg/httputil"
)

type Handler struct {
	service bed.BedService
	*handler.Emitter
}

func NewHandler(service bed.BedService, emitter *handler.Emitter) *Handler {
	return &Handler{service: service, Emitter: emitter}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	beds := r.Group("/beds")
	{
		beds.POST("", h.CreateBed)
		beds.GET("", h.ListBeds)
		beds.GET("/statistics", h.GetStatistics)
		beds.GET("/:id", h.GetBed)
		beds.PUT("/:id", h.UpdateBedDetails)
		beds.PUT("/:id/status", h.UpdateBedStatus)
		beds.DELETE("/:id", h.DeleteBed)
	}
}

func (h *Handler) CreateBed(c *gin.Context) {
	var req model.CreateBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	b := &model.Bed{
		HospitalID: req.HospitalID,
		BedNumber:  req.BedNumber,
		RoomNumber: req.RoomNumber,
		Department: req.Department,
		BedType:    req.BedType,
		Floor:      req.Floor,
		Wing:       req.Wing,
	}

	if err := h.service.CreateBed(c.Request.Context(), b); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, b)
}

func (h *Handler) GetBed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid bed ID", err))
		return
	}

	b, err := h.service.GetBed(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, b)
}

func (h *Handler) ListBeds(c *gin.Context) {
	ctx := c.Request.Context()
	hospitalID := c.Query("hospital_id")

	var (
		beds []*model.Bed
		err  error
	)
	switch {
	case c.Query("department") != "":
		beds, err = h.service.ListBedsByDepartment(ctx, hospitalID, c.Query("department"))
	case c.Query("status") != "":
		beds, err = h.service.ListBedsByStatus(ctx, hospitalID, model.BedStatus(c.Query("status")))
	default:
		beds, err = h.service.ListBeds(ctx, hospitalID)
	}
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, beds)
}

func (h *Handler) UpdateBedStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid bed ID", err))
		return
	}

	var req model.UpdateBedStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	b, err := h.service.UpdateBedStatus(c.Request.Context(), id, model.BedStatus(req.Status), req.PatientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.Emit(c.Request.Context(), model.EventBedStatusChanged, b)
	httputil.RespondWithSuccess(c, b)
}

func (h *Handler) UpdateBedDetails(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid bed ID", err))
		return
	}

	var req model.UpdateBedDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	b, err := h.service.UpdateBedDetails(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, b)
}

func (h *Handler) DeleteBed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid bed ID", err))
		return
	}

	if err := h.service.DeleteBed(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deleted": id})
}

func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context(), c.Query("hospital_id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, stats)
}
