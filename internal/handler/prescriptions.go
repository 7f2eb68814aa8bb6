package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthontrack/internal/auth"
	"healthontrack/internal/models"
	"healthontrack/internal/store"
	"healthontrack/pkg/response"
)

type createPrescriptionRequest struct {
	PatientID          string `json:"patientId"`
	DoctorID           string `json:"doctorId"`
	EmergencyRequestID string `json:"emergencyRequestId"`
	MedicationName     string `json:"medicationName"`
	Dosage             string `json:"dosage"`
	Frequency          string `json:"frequency"`
	Duration           string `json:"duration"`
	Instructions       string `json:"instructions"`
}

// CreatePrescription issues a new prescription; it is born active.
// Prescription endpoints reply in the {success,data,...} envelope.
func (h *Handlers) CreatePrescription(c *gin.Context) {
	var req createPrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.EnvelopeFail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PatientID == "" || req.DoctorID == "" || req.MedicationName == "" ||
		req.Dosage == "" || req.Frequency == "" || req.Duration == "" {
		response.EnvelopeFail(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	p := &models.Prescription{
		ID:             auth.GenerateID("rx_"),
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		MedicationName: req.MedicationName,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		Duration:       req.Duration,
		Status:         models.PrescriptionActive,
	}
	if req.EmergencyRequestID != "" {
		p.EmergencyRequestID = &req.EmergencyRequestID
	}
	if req.Instructions != "" {
		p.Instructions = &req.Instructions
	}

	row, err := h.store.CreatePrescription(c.Request.Context(), p)
	if err != nil {
		h.log.Error("create prescription failed", zap.Error(err))
		response.EnvelopeFail(c, http.StatusInternalServerError, "Failed to create prescription")
		return
	}
	response.EnvelopeData(c, http.StatusCreated, row)
}

// ListPrescriptions returns a patient's prescriptions newest first, with a
// count in the envelope.
func (h *Handlers) ListPrescriptions(c *gin.Context) {
	patientID := c.Query("patientId")
	if patientID == "" {
		response.EnvelopeFail(c, http.StatusBadRequest, "Patient ID is required")
		return
	}

	rows, err := h.store.FindPrescriptionsByPatient(c.Request.Context(), patientID)
	if err != nil {
		h.log.Error("list prescriptions failed", zap.Error(err))
		response.EnvelopeFail(c, http.StatusInternalServerError, "Failed to fetch prescriptions")
		return
	}
	response.EnvelopeList(c, http.StatusOK, rows, len(rows))
}

type updatePrescriptionRequest struct {
	Status string `json:"status"`
}

// UpdatePrescription changes a prescription's status. Any of the three
// states may be set; there is no transition graph here.
func (h *Handlers) UpdatePrescription(c *gin.Context) {
	var req updatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.EnvelopeFail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		response.EnvelopeFail(c, http.StatusBadRequest, "Status is required")
		return
	}
	if !models.ValidPrescriptionStatus(req.Status) {
		response.EnvelopeFail(c, http.StatusBadRequest, "Invalid status")
		return
	}

	row, err := h.store.UpdatePrescriptionStatus(c.Request.Context(), c.Param("id"), models.PrescriptionStatus(req.Status))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.EnvelopeFail(c, http.StatusNotFound, "Prescription not found")
			return
		}
		h.log.Error("update prescription failed", zap.Error(err))
		response.EnvelopeFail(c, http.StatusInternalServerError, "Failed to update prescription")
		return
	}
	response.EnvelopeData(c, http.StatusOK, row)
}
