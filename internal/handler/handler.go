// Package handler translates inbound JSON to persistence calls. Each handler
// validates presence and enumerated-value membership, delegates to the
// store, and maps outcomes onto the HTTP error taxonomy. Persistence calls
// are single synchronous attempts; nothing here retries.
package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthontrack/internal/store"
	"healthontrack/pkg/cache"
	"healthontrack/pkg/config"
	"healthontrack/pkg/llm"
)

// Handlers owns the injected collaborators for every endpoint.
type Handlers struct {
	store store.Store
	ai    llm.Client
	cache cache.Cache
	cfg   *config.Config
	log   *zap.Logger
}

// New wires the endpoint layer. All dependencies are constructed once in
// main and passed in; there is no package-level state.
func New(st store.Store, ai llm.Client, c cache.Cache, cfg *config.Config, log *zap.Logger) *Handlers {
	return &Handlers{store: st, ai: ai, cache: c, cfg: cfg, log: log}
}

// Register mounts every route.
func (h *Handlers) Register(r gin.IRouter) {
	api := r.Group("/api")

	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/login", h.Login)

	api.POST("/emergency", h.CreateEmergency)
	api.GET("/emergency", h.ListEmergencies)
	api.GET("/emergency/:id", h.GetEmergency)
	api.PATCH("/emergency/:id", h.UpdateEmergency)

	api.POST("/messages", h.CreateMessage)
	api.GET("/messages", h.ListMessages)

	api.POST("/vitals", h.CreateVitals)
	api.GET("/vitals", h.ListVitals)

	api.POST("/prescriptions", h.CreatePrescription)
	api.GET("/prescriptions", h.ListPrescriptions)
	api.PATCH("/prescriptions/:id", h.UpdatePrescription)

	api.GET("/trains", h.ListTrains)
	api.PATCH("/trains/:id/location", h.UpdateTrainLocation)

	api.POST("/assistant", h.Assistant)

	r.GET("/health", h.HealthCheck)
}
