package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthontrack/internal/models"
	"healthontrack/internal/store"
	"healthontrack/pkg/response"
)

// trainsCacheKey holds the full train listing. Trains are reference data
// that changes only on location updates, so the list is cheap to cache.
const trainsCacheKey = "trains:all"

// ListTrains returns every train, served from cache when warm.
func (h *Handlers) ListTrains(c *gin.Context) {
	if cached, ok := h.cache.Get(c.Request.Context(), trainsCacheKey); ok {
		if rows, ok := cached.([]models.Train); ok {
			c.JSON(http.StatusOK, rows)
			return
		}
	}

	rows, err := h.store.FindAllTrains(c.Request.Context())
	if err != nil {
		h.log.Error("list trains failed", zap.Error(err))
		response.Internal(c)
		return
	}
	if err := h.cache.Set(c.Request.Context(), trainsCacheKey, rows, h.cfg.TrainCacheTTL); err != nil {
		h.log.Warn("cache trains failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, rows)
}

type updateTrainLocationRequest struct {
	CurrentLocation string `json:"currentLocation"`
}

// UpdateTrainLocation records a train's position and drops the cached
// listing so the next read sees the move.
func (h *Handlers) UpdateTrainLocation(c *gin.Context) {
	var req updateTrainLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentLocation == "" {
		response.Message(c, http.StatusBadRequest, "Current location is required")
		return
	}

	row, err := h.store.UpdateTrainLocation(c.Request.Context(), c.Param("id"), req.CurrentLocation)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Message(c, http.StatusNotFound, "Train not found")
			return
		}
		h.log.Error("update train location failed", zap.Error(err))
		response.Internal(c)
		return
	}
	if err := h.cache.Delete(c.Request.Context(), trainsCacheKey); err != nil {
		h.log.Warn("invalidate trains cache failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, row)
}
