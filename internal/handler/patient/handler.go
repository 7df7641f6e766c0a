package patient

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hospitalops/hospital-api/internal/handler"
	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/service/assignment"
	"github.com/hospitalops/hospital-api/internal/service/patient"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
	"github.com/hospitalops/hospital-api/pkg/httputil"
)

type Handler struct {
	service     patient.PatientService
	coordinator *assignment.Coordinator
	*handler.Emitter
}

func NewHandler(service patient.PatientService, coordinator *assignment.Coordinator, emitter *handler.Emitter) *Handler {
	return &Handler{service: service, coordinator: coordinator, Emitter: emitter}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/search", h.SearchPatients)
		patients.GET("/statistics", h.GetStatistics)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)

		patients.POST("/:id/assign-bed", h.AssignBed)
		patients.POST("/:id/discharge", h.DischargePatient)
		patients.POST("/:id/transfer", h.TransferPatient)
	}

	r.POST("/assignments/reconcile", h.Reconcile)
}

type assignBedRequest struct {
	BedID string `json:"bed_id" binding:"required,uuid"`
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	p := &model.Patient{
		PatientID: req.PatientID,
		Name:      req.Name,
		Age:       req.Age,
		Gender:    req.Gender,
		Phone:     req.Phone,
		Email:     req.Email,
		Diagnosis: req.Diagnosis,
		Status:    model.PatientStatus(req.Status),
	}
	if req.AdmissionReason != "" && p.Diagnosis == "" {
		p.Diagnosis = req.AdmissionReason
	}
	if req.CurrentHospital != "" {
		p.CurrentHospital = &req.CurrentHospital
	}

	if err := h.service.CreatePatient(c.Request.Context(), p); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if p.Status == model.PatientStatusAdmitted {
		h.Emit(c.Request.Context(), model.EventPatientAdmitted, p)
	}
	httputil.RespondWithCreated(c, p)
}

func (h *Handler) GetPatient(c *gin.Context) {
	p, err := h.service.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.ListPatients(c.Request.Context(), c.Query("hospital_id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) SearchPatients(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		httputil.RespondWithError(c, apperrors.Validation("search term is required", nil))
		return
	}

	patients, err := h.service.SearchPatients(c.Request.Context(), term)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	p, err := h.service.UpdatePatient(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) AssignBed(c *gin.Context) {
	var req assignBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	bedID, err := uuid.Parse(req.BedID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid bed ID", err))
		return
	}

	patientID := c.Param("id")
	if err := h.coordinator.Assign(c.Request.Context(), patientID, bedID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.Emit(c.Request.Context(), model.EventBedAssigned, gin.H{
		"patient_id": patientID,
		"bed_id":     bedID,
	})
	httputil.RespondWithSuccess(c, gin.H{
		"patient_id": patientID,
		"bed_id":     bedID,
	})
}

func (h *Handler) DischargePatient(c *gin.Context) {
	patientID := c.Param("id")
	err := h.coordinator.Discharge(c.Request.Context(), patientID)
	if apperrors.Is(err, apperrors.ErrNotAssigned) {
		// No bed to release: a plain status discharge is all that is left.
		_, err = h.service.DischargePatient(c.Request.Context(), patientID)
	}
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p, err := h.service.GetPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.Emit(c.Request.Context(), model.EventPatientDischarged, p)
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) TransferPatient(c *gin.Context) {
	var req model.TransferPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	patientID := c.Param("id")
	if err := h.coordinator.Transfer(c.Request.Context(), patientID, req.NewHospitalID, req.Reason); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p, err := h.service.GetPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.Emit(c.Request.Context(), model.EventPatientTransferred, p)
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) Reconcile(c *gin.Context) {
	report, err := h.coordinator.Reconcile(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if report.Drifted() {
		h.Emit(c.Request.Context(), model.EventDriftRepaired, report)
	}
	httputil.RespondWithSuccess(c, report)
}

func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context(), c.Query("hospital_id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, stats)
}
