package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosetta-md/rosetta-api/internal/config"
)

// HealthHandler reports service health and non-secret configuration state.
type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	llmStatus := "configured"
	if h.cfg.GeminiAPIKey == "" && h.cfg.OpenAIAPIKey == "" {
		llmStatus = "missing_credentials"
	}

	deidStatus := "disabled"
	if h.cfg.DeidEndpoint != "" {
		deidStatus = "enabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"model":  h.cfg.Model,
		"llm":    gin.H{"status": llmStatus},
		"deid":   gin.H{"status": deidStatus},
	})
}
