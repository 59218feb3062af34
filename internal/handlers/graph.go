package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnfast-backend/internal/ingestion"
)

type GraphHandler struct {
	pipeline ingestion.Pipeline
}

func NewGraphHandler(pipeline ingestion.Pipeline) *GraphHandler {
	return &GraphHandler{pipeline: pipeline}
}

// POST /api/graph/sync
func (h *GraphHandler) Sync(c *gin.Context) {
	var mutation ingestion.GraphMutation
	if err := c.ShouldBindJSON(&mutation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.pipeline.Apply(c.Request.Context(), &mutation); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Graph mutation applied",
		"concepts":      len(mutation.Concepts),
		"prerequisites": len(mutation.Prerequisites),
	})
}
