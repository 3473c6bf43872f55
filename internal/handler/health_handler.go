package handler

import (
	"net/http"
	"time"

	"club-rewards/pkg/logger"
	"club-rewards/pkg/redis"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	redis  *redis.Client
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(redisClient *redis.Client, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		redis:  redisClient,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Service   string    `json:"service"`
	Redis     string    `json:"redis,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Service:   "club-rewards",
	}

	if h.redis != nil {
		if err := h.redis.Health(r.Context()); err != nil {
			h.logger.WithError(err).Warn("Redis health check failed")
			response.Redis = "unavailable"
		} else {
			response.Redis = "ok"
		}
	}

	respondJSON(w, http.StatusOK, response)
}
