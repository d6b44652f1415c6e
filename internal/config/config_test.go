package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, int32(8192), cfg.MaxOutputTokens)
	assert.Equal(t, 120*time.Second, cfg.GenerateTimeout)
	assert.Equal(t, "./data/outputs", cfg.NotesDir)
	assert.Equal(t, "./data/smartphrase_templates", cfg.TemplatesDir)
}

func TestLoad_GeminiKeyFallback(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key")
	assert.Equal(t, "google-key", Load().GeminiAPIKey)

	t.Setenv("GEMINI_API_KEY", "gemini-key")
	assert.Equal(t, "gemini-key", Load().GeminiAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("LLM_MAX_OUTPUT_TOKENS", "4096")
	t.Setenv("LLM_GENERATE_TIMEOUT", "45s")
	t.Setenv("NOTES_BASE_PATH", "/var/rosetta")

	cfg := Load()
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, int32(4096), cfg.MaxOutputTokens)
	assert.Equal(t, 45*time.Second, cfg.GenerateTimeout)
	assert.Equal(t, "/var/rosetta/outputs", cfg.NotesDir)
	assert.Equal(t, "/var/rosetta/smartphrase_templates", cfg.TemplatesDir)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("LLM_MAX_OUTPUT_TOKENS", "not-a-number")
	t.Setenv("LLM_GENERATE_TIMEOUT", "not-a-duration")

	cfg := Load()
	assert.Equal(t, int32(8192), cfg.MaxOutputTokens)
	assert.Equal(t, 120*time.Second, cfg.GenerateTimeout)
}
