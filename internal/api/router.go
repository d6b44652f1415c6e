package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rosetta-md/rosetta-api/internal/api/handlers"
	apimiddleware "github.com/rosetta-md/rosetta-api/internal/api/middleware"
	"github.com/rosetta-md/rosetta-api/internal/config"
	"github.com/rosetta-md/rosetta-api/internal/deid"
	"github.com/rosetta-md/rosetta-api/internal/llm"
	"github.com/rosetta-md/rosetta-api/internal/notes"
	"github.com/rosetta-md/rosetta-api/internal/observability"
	"github.com/rosetta-md/rosetta-api/internal/store"
)

func SetupRouter(cfg *config.Config, langfuse *observability.LangfuseClient) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(cfg)
	router.GET("/health", healthHandler.HealthCheck)

	// Note generation and retrieval
	factory := llm.NewProviderFactory(cfg.GeminiAPIKey, cfg.OpenAIAPIKey)
	gateway := notes.NewGateway(factory, cfg, langfuse)
	noteStore := store.NewNoteStore(cfg.NotesDir)
	notesHandler := handlers.NewNotesHandler(gateway, noteStore, cfg.Model)
	router.POST("/generate_note", notesHandler.GenerateNote)
	router.GET("/list_notes", notesHandler.ListNotes)
	router.GET("/list_saved_notes", notesHandler.ListNotes) // Legacy alias
	router.GET("/get_note/:filename", notesHandler.GetNote)

	// Smartphrase templates
	templateStore := store.NewTemplateStore(cfg.TemplatesDir)
	templatesHandler := handlers.NewTemplatesHandler(templateStore)
	router.GET("/list_smartphrase_templates", templatesHandler.ListTemplates)
	router.POST("/save_smartphrase_template", templatesHandler.SaveTemplate)
	router.POST("/delete_smartphrase_template", templatesHandler.DeleteTemplate)
	router.OPTIONS("/delete_smartphrase_template", templatesHandler.DeleteTemplatePreflight)

	// De-identification proxy
	deidClient := deid.NewClient(cfg.DeidEndpoint, cfg.DeidAPIKey)
	deidHandler := handlers.NewDeidHandler(deidClient)
	router.POST("/api/deidentify_text", deidHandler.DeidentifyText)

	// Bulk deletion (destructive, requires explicit confirmation)
	router.POST("/api/delete_all_notes", notesHandler.DeleteAllNotes)

	return router
}
