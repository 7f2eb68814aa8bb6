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

type createEmergencyRequest struct {
	PassengerID string `json:"passengerId"`
	TrainID     string `json:"trainId"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Location    string `json:"location"`
}

// CreateEmergency files a new emergency request. The initial status is
// always pending; a status supplied by the caller is ignored.
func (h *Handlers) CreateEmergency(c *gin.Context) {
	var req createEmergencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PassengerID == "" || req.TrainID == "" || req.Description == "" || req.Severity == "" {
		response.Message(c, http.StatusBadRequest, "Passenger ID, train ID, description, and severity are required")
		return
	}
	if !models.ValidSeverity(req.Severity) {
		response.Message(c, http.StatusBadRequest, "Invalid severity level")
		return
	}

	e := &models.EmergencyRequest{
		ID:          auth.GenerateID("emr_"),
		PassengerID: req.PassengerID,
		TrainID:     req.TrainID,
		Description: req.Description,
		Severity:    models.Severity(req.Severity),
	}
	if req.Location != "" {
		e.Location = &req.Location
	}

	ctx := c.Request.Context()
	if err := h.store.CreateEmergency(ctx, e); err != nil {
		h.log.Error("create emergency failed", zap.Error(err))
		response.Internal(c)
		return
	}
	detail, err := h.store.FindEmergencyByID(ctx, e.ID)
	if err != nil {
		h.log.Error("read back created emergency failed", zap.String("id", e.ID), zap.Error(err))
		response.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// ListEmergencies serves two named queries: a passenger's own requests, or
// the pending triage queue. Anything else is a client error.
func (h *Handlers) ListEmergencies(c *gin.Context) {
	passengerID := c.Query("passengerId")
	status := c.Query("status")

	switch {
	case passengerID != "":
		rows, err := h.store.FindEmergenciesByPassenger(c.Request.Context(), passengerID)
		if err != nil {
			h.log.Error("list emergencies failed", zap.Error(err))
			response.Internal(c)
			return
		}
		c.JSON(http.StatusOK, rows)
	case status == string(models.StatusPending):
		rows, err := h.store.FindPendingEmergencies(c.Request.Context())
		if err != nil {
			h.log.Error("list pending emergencies failed", zap.Error(err))
			response.Internal(c)
			return
		}
		c.JSON(http.StatusOK, rows)
	default:
		response.Message(c, http.StatusBadRequest, "Invalid query parameters")
	}
}

// GetEmergency returns one request joined with passenger and staff names.
func (h *Handlers) GetEmergency(c *gin.Context) {
	detail, err := h.store.FindEmergencyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Message(c, http.StatusNotFound, "Emergency request not found")
			return
		}
		h.log.Error("get emergency failed", zap.Error(err))
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updateEmergencyRequest struct {
	Status              string `json:"status"`
	AssignedAttendantID string `json:"assignedAttendantId"`
	AssignedDoctorID    string `json:"assignedDoctorId"`
	// Override skips the legal-transition check; the admin escape hatch.
	Override bool `json:"override"`
}

// UpdateEmergency moves a request through its lifecycle and/or assigns
// staff. Status and both assignment fields are overwritten with whatever the
// caller sent.
func (h *Handlers) UpdateEmergency(c *gin.Context) {
	var req updateEmergencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		response.Message(c, http.StatusBadRequest, "Status is required")
		return
	}
	if !models.ValidEmergencyStatus(req.Status) {
		response.Message(c, http.StatusBadRequest, "Invalid status")
		return
	}

	upd := store.EmergencyStatusUpdate{
		Status:   models.EmergencyStatus(req.Status),
		Override: req.Override,
	}
	if req.AssignedAttendantID != "" {
		upd.AttendantID = &req.AssignedAttendantID
	}
	if req.AssignedDoctorID != "" {
		upd.DoctorID = &req.AssignedDoctorID
	}

	detail, err := h.store.UpdateEmergencyStatus(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			response.Message(c, http.StatusNotFound, "Emergency request not found")
		case errors.Is(err, store.ErrInvalidTransition):
			response.Message(c, http.StatusConflict, "Illegal status transition from the current state")
		default:
			h.log.Error("update emergency failed", zap.Error(err))
			response.Internal(c)
		}
		return
	}
	c.JSON(http.StatusOK, detail)
}
