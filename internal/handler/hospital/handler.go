package hospital

import (
	"github.com/gin-gonic/gin"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/service/dashboard"
	"github.com/hospitalops/hospital-api/internal/service/hospital"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
	"github.com/hospitalops/hospital-api/pkg/httputil"
)

type Handler struct {
	service   hospital.HospitalService
	dashboard dashboard.DashboardService
}

func NewHandler(service hospital.HospitalService, dashboard dashboard.DashboardService) *Handler {
	return &Handler{service: service, dashboard: dashboard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hospitals := r.Group("/hospitals")
	{
		hospitals.POST("", h.CreateHospital)
		hospitals.GET("", h.ListHospitals)
		hospitals.GET("/search", h.SearchHospitals)
		hospitals.GET("/:id", h.GetHospital)
		hospitals.PUT("/:id", h.UpdateHospital)
		hospitals.DELETE("/:id", h.DeactivateHospital)

		hospitals.GET("/:id/dashboard", h.GetDashboard)
		hospitals.GET("/:id/alerts", h.GetAlerts)
	}
}

func (h *Handler) CreateHospital(c *gin.Context) {
	var req model.CreateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	hosp := &model.Hospital{
		HospitalID:   req.HospitalID,
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Country:      req.Country,
		Phone:        req.Phone,
		Email:        req.Email,
		HospitalType: req.HospitalType,
		Departments:  req.Departments,
		IsActive:     true,
	}

	if err := h.service.CreateHospital(c.Request.Context(), hosp); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, hosp)
}

func (h *Handler) GetHospital(c *gin.Context) {
	hosp, err := h.service.GetHospital(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, hosp)
}

func (h *Handler) ListHospitals(c *gin.Context) {
	hospitals, err := h.service.ListHospitals(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, hospitals)
}

func (h *Handler) SearchHospitals(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		httputil.RespondWithError(c, apperrors.Validation("search term is required", nil))
		return
	}

	hospitals, err := h.service.SearchHospitals(c.Request.Context(), term)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, hospitals)
}

func (h *Handler) UpdateHospital(c *gin.Context) {
	var req model.UpdateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	hosp, err := h.service.UpdateHospital(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, hosp)
}

func (h *Handler) DeactivateHospital(c *gin.Context) {
	if err := h.service.DeactivateHospital(c.Request.Context(), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deactivated": c.Param("id")})
}

func (h *Handler) GetDashboard(c *gin.Context) {
	dash, err := h.dashboard.GetDashboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, dash)
}

func (h *Handler) GetAlerts(c *gin.Context) {
	alerts, err := h.dashboard.GetHospitalAlerts(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, alerts)
}
