package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
// Loaded once in main and passed into component constructors so nothing
// depends on process-wide mutable state.
type Config struct {
	// Environment
	Environment string
	Port        string

	// LLM API Keys
	GeminiAPIKey string // Google Gemini API key (GEMINI_API_KEY, falls back to GOOGLE_API_KEY)
	OpenAIAPIKey string // OpenAI API key for GPT models

	// Generation
	Model           string        // Model identifier sent to the provider
	MaxOutputTokens int32         // Output-length cap for a single generation
	GenerateTimeout time.Duration // Hard deadline on the external model call

	// Storage
	NotesDir     string // Directory for generated note files
	TemplatesDir string // Directory for smartphrase template files

	// De-identification service
	DeidEndpoint string // Base URL of the external redaction API
	DeidAPIKey   string // API key for the redaction API

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse
}

const (
	defaultModel           = "gemini-2.5-pro"
	defaultMaxOutputTokens = 8192
	defaultGenerateTimeout = 120 * time.Second
)

func Load() *Config {
	geminiKey := getEnv("GEMINI_API_KEY", "")
	if geminiKey == "" {
		// Some deployments still export the key under the Google SDK's name.
		geminiKey = getEnv("GOOGLE_API_KEY", "")
	}

	basePath := getEnv("NOTES_BASE_PATH", "./data")

	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		GeminiAPIKey:      geminiKey,
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		Model:             getEnv("LLM_MODEL", defaultModel),
		MaxOutputTokens:   int32(getIntEnv("LLM_MAX_OUTPUT_TOKENS", defaultMaxOutputTokens)),
		GenerateTimeout:   getDurationEnv("LLM_GENERATE_TIMEOUT", defaultGenerateTimeout),
		NotesDir:          getEnv("NOTES_OUTPUT_DIR", basePath+"/outputs"),
		TemplatesDir:      getEnv("TEMPLATES_DIR", basePath+"/smartphrase_templates"),
		DeidEndpoint:      getEnv("DEID_API_URL", ""),
		DeidAPIKey:        getEnv("DEID_API_KEY", ""),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
