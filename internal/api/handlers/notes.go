package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rosetta-md/rosetta-api/internal/logger"
	"github.com/rosetta-md/rosetta-api/internal/metrics"
	"github.com/rosetta-md/rosetta-api/internal/notes"
	"github.com/rosetta-md/rosetta-api/internal/prompt"
	"github.com/rosetta-md/rosetta-api/internal/store"
)

const feedbackNotAvailable = "N/A"

// NotesHandler serves note generation and note file CRUD.
type NotesHandler struct {
	gateway       *notes.Gateway
	noteStore     *store.NoteStore
	sentryMetrics *metrics.SentryMetrics
	model         string
}

func NewNotesHandler(gateway *notes.Gateway, noteStore *store.NoteStore, model string) *NotesHandler {
	return &NotesHandler{
		gateway:       gateway,
		noteStore:     noteStore,
		sentryMetrics: metrics.NewSentryMetrics(),
		model:         model,
	}
}

// GenerateNote handles POST /generate_note: compose the dynamic prompt,
// call the model, split and sanitize the reply, persist the note.
func (h *NotesHandler) GenerateNote(c *gin.Context) {
	var req prompt.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid JSON or no data provided: %s", err.Error())})
		return
	}

	serviceAbbr := strings.ToUpper(strings.TrimSpace(req.ServiceAbbreviation))
	if serviceAbbr == "" {
		serviceAbbr = store.DefaultService
	}

	// Resolve the existing note before composing, so a missing reference
	// fails fast with a 404 instead of a wasted model call.
	var existingContent string
	if req.ExistingNoteFilename != "" {
		if filepath.Base(req.ExistingNoteFilename) != req.ExistingNoteFilename {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid existing note filename."})
			return
		}
		content, err := h.noteStore.Read(req.ExistingNoteFilename)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"error": fmt.Sprintf("Existing note '%s' not found or is not a file.", req.ExistingNoteFilename),
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to read existing note: %s", err.Error())})
			return
		}
		existingContent = content
	}

	composed, err := prompt.Compose(&req, existingContent)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outputFilename := req.ExistingNoteFilename
	operation := "updated and saved"
	if outputFilename == "" {
		outputFilename = h.noteStore.FileNameFor(serviceAbbr)
		operation = "generated and saved"
	}

	logger.Info("Generating note", logger.Fields{
		"request_id": c.GetString("request_id"),
		"service":    serviceAbbr,
		"filename":   outputFilename,
		"reformat":   req.IsReformat(),
		"update":     req.ExistingNoteFilename != "",
	})

	start := time.Now()
	rawOutput, feedback := h.gateway.Generate(c.Request.Context(), composed)
	succeeded := rawOutput != "" && !strings.HasPrefix(rawOutput, notes.ErrorPrefix)
	h.sentryMetrics.RecordGeneration(c.Request.Context(), h.model, succeeded, time.Since(start))

	if feedback == "" {
		feedback = feedbackNotAvailable
	}

	if !succeeded {
		logger.Warn("LLM generation failed", logger.Fields{
			"request_id": c.GetString("request_id"),
			"details":    rawOutput,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":              "Failed to get a valid response from LLM.",
			"details":            rawOutput,
			"llm_model_thoughts": "",
			"llm_note_output":    "",
			"prompt_feedback":    feedback,
		})
		return
	}

	thoughts, note := notes.Split(rawOutput)
	cleanedNote := notes.SanitizeNote(note)

	if err := h.noteStore.Save(outputFilename, cleanedNote); err != nil {
		logger.Error("Failed to save note", err, logger.Fields{
			"request_id": c.GetString("request_id"),
			"filename":   outputFilename,
		})
		// The generated text is still returned so the caller does not lose it.
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":              "Failed to save the note.",
			"llm_model_thoughts": thoughts,
			"llm_note_output":    cleanedNote,
			"prompt_feedback":    feedback,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            fmt.Sprintf("Note %s successfully.", operation),
		"filename":           outputFilename,
		"llm_model_thoughts": thoughts,
		"llm_note_output":    cleanedNote,
		"prompt_feedback":    feedback,
	})
}

// ListNotes handles GET /list_notes and GET /list_saved_notes.
func (h *NotesHandler) ListNotes(c *gin.Context) {
	noteList, err := h.noteStore.List()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notes directory not found.", "notes": []string{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to list notes: %s", err.Error()),
			"notes": []string{},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": noteList})
}

// GetNote handles GET /get_note/:filename, returning raw note text.
func (h *NotesHandler) GetNote(c *gin.Context) {
	filename := c.Param("filename")

	// Reject traversal: the supplied name must already be a bare base name.
	if filename == "" || filepath.Base(filename) != filename {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename."})
		return
	}
	if !strings.HasSuffix(filename, store.NoteExtension) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file extension."})
		return
	}

	content, err := h.noteStore.Read(filename)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Note '%s' not found.", filename)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to read note: %s", err.Error())})
		return
	}

	c.String(http.StatusOK, content)
}

type deleteAllRequest struct {
	Confirm bool `json:"confirm"`
}

// DeleteAllNotes handles POST /api/delete_all_notes. Deletion is bulk and
// irreversible, so an explicit confirmation field is required.
func (h *NotesHandler) DeleteAllNotes(c *gin.Context) {
	var req deleteAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid JSON or no data provided: %s", err.Error())})
		return
	}
	if !req.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Confirmation required: set \"confirm\": true to delete all notes."})
		return
	}

	deleted, failures := h.noteStore.DeleteAll()
	logger.Info("Bulk note deletion", logger.Fields{
		"request_id": c.GetString("request_id"),
		"deleted":    deleted,
		"failed":     len(failures),
	})

	if len(failures) > 0 {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":         "Some notes could not be deleted.",
			"deleted_count": deleted,
			"errors":        failures,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "All notes deleted successfully.",
		"deleted_count": deleted,
		"errors":        []string{},
	})
}
