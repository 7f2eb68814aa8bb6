package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthontrack/pkg/llm"
)

type assistantRequest struct {
	Prompt              string     `json:"prompt"`
	ConversationHistory []llm.Turn `json:"conversationHistory"`
}

// Assistant proxies a passenger prompt to the generative-language API and
// returns the reply verbatim. The model's output is not validated or parsed.
func (h *Handlers) Assistant(c *gin.Context) {
	var req assistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.LLMTimeout)
	defer cancel()

	reply, err := h.ai.Reply(ctx, req.Prompt, req.ConversationHistory)
	if err != nil {
		h.log.Error("assistant reply failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get AI response"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
