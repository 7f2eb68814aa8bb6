package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthontrack/internal/auth"
	"healthontrack/internal/models"
	"healthontrack/pkg/response"
)

type createMessageRequest struct {
	EmergencyRequestID string `json:"emergencyRequestId"`
	SenderID           string `json:"senderId"`
	Message            string `json:"message"`
	MessageType        string `json:"messageType"`
}

// CreateMessage appends one entry to an emergency request's chat thread.
func (h *Handlers) CreateMessage(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.EmergencyRequestID == "" || req.SenderID == "" || req.Message == "" {
		response.Message(c, http.StatusBadRequest, "Emergency request ID, sender ID, and message are required")
		return
	}
	if req.MessageType == "" {
		req.MessageType = string(models.MessageText)
	}
	if !models.ValidMessageType(req.MessageType) {
		response.Message(c, http.StatusBadRequest, "Invalid message type")
		return
	}

	m := &models.Message{
		ID:                 auth.GenerateID("msg_"),
		EmergencyRequestID: req.EmergencyRequestID,
		SenderID:           req.SenderID,
		Content:            req.Message,
		MessageType:        models.MessageType(req.MessageType),
	}
	row, err := h.store.CreateMessage(c.Request.Context(), m)
	if err != nil {
		h.log.Error("create message failed", zap.Error(err))
		response.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// ListMessages returns a thread in non-decreasing creation-time order.
func (h *Handlers) ListMessages(c *gin.Context) {
	emergencyRequestID := c.Query("emergencyRequestId")
	if emergencyRequestID == "" {
		response.Message(c, http.StatusBadRequest, "Emergency request ID is required")
		return
	}

	rows, err := h.store.FindMessagesByEmergency(c.Request.Context(), emergencyRequestID)
	if err != nil {
		h.log.Error("list messages failed", zap.Error(err))
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, rows)
}
