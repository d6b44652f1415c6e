package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosetta-md/rosetta-api/internal/deid"
	"github.com/rosetta-md/rosetta-api/internal/logger"
)

// DeidHandler proxies text de-identification requests to the external
// de-identification service.
type DeidHandler struct {
	client *deid.Client
}

func NewDeidHandler(client *deid.Client) *DeidHandler {
	return &DeidHandler{client: client}
}

type deidentifyRequest struct {
	Text string `json:"text"`
}

// DeidentifyText handles POST /api/deidentify_text.
func (h *DeidHandler) DeidentifyText(c *gin.Context) {
	var req deidentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}

	result, err := h.client.Deidentify(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, deid.ErrNotConfigured) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "De-identification service is not configured on the server.",
			})
			return
		}
		logger.Error("De-identification request failed", err, logger.Fields{
			"request_id": c.GetString("request_id"),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "De-identification service call failed.",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deidentified_text": result,
		"status":            "success",
	})
}
