package staff

import (
	"github.com/gin-gonic/gin"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/service/auth"
	"github.com/hospitalops/hospital-api/internal/service/dashboard"
	"github.com/hospitalops/hospital-api/internal/service/staff"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
	"github.com/hospitalops/hospital-api/pkg/httputil"
)

type Handler struct {
	service   staff.StaffService
	auth      auth.AuthService
	dashboard dashboard.DashboardService
}

func NewHandler(service staff.StaffService, auth auth.AuthService, dashboard dashboard.DashboardService) *Handler {
	return &Handler{service: service, auth: auth, dashboard: dashboard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	staffGroup := r.Group("/staff")
	{
		staffGroup.POST("", h.CreateStaff)
		staffGroup.GET("", h.ListStaff)
		staffGroup.GET("/statistics", h.GetStatistics)
		staffGroup.GET("/:id", h.GetStaff)
		staffGroup.PUT("/:id/status", h.UpdateStatus)
	}
}

// RegisterAuthRoutes exposes login outside the authenticated group.
func (h *Handler) RegisterAuthRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.StaffLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) CreateStaff(c *gin.Context) {
	var req model.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	s, err := h.service.CreateStaff(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, s)
}

func (h *Handler) GetStaff(c *gin.Context) {
	s, err := h.service.GetStaff(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, s)
}

func (h *Handler) ListStaff(c *gin.Context) {
	ctx := c.Request.Context()
	hospitalID := c.Query("hospital_id")

	var (
		members []*model.Staff
		err     error
	)
	if dept := c.Query("department"); dept != "" {
		members, err = h.service.ListByDepartment(ctx, hospitalID, dept)
	} else {
		members, err = h.service.ListStaff(ctx, hospitalID)
	}
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, members)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req model.UpdateStaffStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	s, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), model.StaffStatus(req.Status))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, s)
}

func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.dashboard.GetStaffStatistics(c.Request.Context(), c.Query("hospital_id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, stats)
}
