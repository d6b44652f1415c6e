package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosetta-md/rosetta-api/internal/logger"
	"github.com/rosetta-md/rosetta-api/internal/store"
)

// TemplatesHandler serves smartphrase template CRUD.
type TemplatesHandler struct {
	templateStore *store.TemplateStore
}

func NewTemplatesHandler(templateStore *store.TemplateStore) *TemplatesHandler {
	return &TemplatesHandler{templateStore: templateStore}
}

// ListTemplates handles GET /list_smartphrase_templates.
func (h *TemplatesHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templateStore.List()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Template directory not found on server.",
				"templates": []string{},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "An error occurred while listing templates.",
			"details":   err.Error(),
			"templates": []string{},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

type saveTemplateRequest struct {
	Filename string  `json:"filename"`
	Content  *string `json:"content"`
}

// SaveTemplate handles POST /save_smartphrase_template. Content must be
// present but may be an empty string (a blank template is valid).
func (h *TemplatesHandler) SaveTemplate(c *gin.Context) {
	var req saveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}
	if req.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filename is missing or empty"})
		return
	}
	if req.Content == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is missing"})
		return
	}

	saved, err := h.templateStore.Save(req.Filename, *req.Content)
	if err != nil {
		if errors.Is(err, store.ErrInvalidFilename) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or empty filename after sanitization."})
			return
		}
		logger.Error("Failed to save template", err, logger.Fields{
			"request_id": c.GetString("request_id"),
			"filename":   req.Filename,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "An error occurred while saving the template.",
			"details": err.Error(),
		})
		return
	}
	if saved != req.Filename {
		logger.Warn("Template filename sanitized", logger.Fields{"requested": req.Filename, "saved": saved})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template saved successfully.", "filename": saved})
}

type deleteTemplateRequest struct {
	Filename string `json:"filename"`
}

// DeleteTemplate handles POST /delete_smartphrase_template.
func (h *TemplatesHandler) DeleteTemplate(c *gin.Context) {
	var req deleteTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}
	if req.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filename is missing or empty"})
		return
	}

	deleted, err := h.templateStore.Delete(req.Filename)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidFilename):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or empty filename after sanitization for deletion."})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Template file '%s' not found.", deleted)})
		default:
			logger.Error("Failed to delete template", err, logger.Fields{
				"request_id": c.GetString("request_id"),
				"filename":   req.Filename,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "An error occurred while deleting the template.",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully.", "filename": deleted})
}

// DeleteTemplatePreflight answers the CORS preflight for the delete endpoint
// with explicit headers.
func (h *TemplatesHandler) DeleteTemplatePreflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Allow-Methods", "POST")
	c.Status(http.StatusNoContent)
}
