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

type createVitalsRequest struct {
	PatientID              string   `json:"patientId"`
	EmergencyRequestID     string   `json:"emergencyRequestId"`
	HeartRate              *int     `json:"heartRate"`
	BloodPressureSystolic  *int     `json:"bloodPressureSystolic"`
	BloodPressureDiastolic *int     `json:"bloodPressureDiastolic"`
	Temperature            *float64 `json:"temperature"`
	OxygenSaturation       *int     `json:"oxygenSaturation"`
	RespiratoryRate        *int     `json:"respiratoryRate"`
	RecordedBy             string   `json:"recordedBy"`
}

// CreateVitals appends one snapshot to a patient's series. Every measurement
// is independently optional.
func (h *Handlers) CreateVitals(c *gin.Context) {
	var req createVitalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PatientID == "" || req.RecordedBy == "" {
		response.Message(c, http.StatusBadRequest, "Patient ID and recorded by are required")
		return
	}

	v := &models.VitalSigns{
		ID:                     auth.GenerateID("vital_"),
		PatientID:              req.PatientID,
		HeartRate:              req.HeartRate,
		BloodPressureSystolic:  req.BloodPressureSystolic,
		BloodPressureDiastolic: req.BloodPressureDiastolic,
		Temperature:            req.Temperature,
		OxygenSaturation:       req.OxygenSaturation,
		RespiratoryRate:        req.RespiratoryRate,
		RecordedBy:             req.RecordedBy,
	}
	if req.EmergencyRequestID != "" {
		v.EmergencyRequestID = &req.EmergencyRequestID
	}

	row, err := h.store.CreateVitals(c.Request.Context(), v)
	if err != nil {
		h.log.Error("create vitals failed", zap.Error(err))
		response.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// ListVitals returns a patient's series newest first, or only the latest
// snapshot when latest=true.
func (h *Handlers) ListVitals(c *gin.Context) {
	patientID := c.Query("patientId")
	if patientID == "" {
		response.Message(c, http.StatusBadRequest, "Patient ID is required")
		return
	}

	ctx := c.Request.Context()
	if c.Query("latest") == "true" {
		row, err := h.store.FindLatestVitalsByPatient(ctx, patientID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// No readings yet is not an error for this view.
				c.JSON(http.StatusOK, nil)
				return
			}
			h.log.Error("latest vitals failed", zap.Error(err))
			response.Internal(c)
			return
		}
		c.JSON(http.StatusOK, row)
		return
	}

	rows, err := h.store.FindVitalsByPatient(ctx, patientID)
	if err != nil {
		h.log.Error("list vitals failed", zap.Error(err))
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, rows)
}
