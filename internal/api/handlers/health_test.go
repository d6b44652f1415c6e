package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosetta-md/rosetta-api/internal/config"
)

func newHealthRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.GET("/health", NewHealthHandler(cfg).HealthCheck)
	return router
}

func TestHealthCheck(t *testing.T) {
	cfg := &config.Config{
		Model:        "gemini-2.5-pro",
		GeminiAPIKey: "key",
		DeidEndpoint: "https://deid.example.com",
	}

	w := getPath(newHealthRouter(cfg), "/health")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "gemini-2.5-pro", body["model"])
	assert.Equal(t, "configured", body["llm"].(map[string]interface{})["status"])
	assert.Equal(t, "enabled", body["deid"].(map[string]interface{})["status"])
}

func TestHealthCheck_MissingCredentials(t *testing.T) {
	w := getPath(newHealthRouter(&config.Config{Model: "gemini-2.5-pro"}), "/health")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "missing_credentials", body["llm"].(map[string]interface{})["status"])
	assert.Equal(t, "disabled", body["deid"].(map[string]interface{})["status"])
}
