package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnfast-backend/internal/services"
)

type ProgressHandler struct {
	svc services.ProgressService
}

func NewProgressHandler(svc services.ProgressService) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

type progressRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	ConceptName string `json:"concept_name" binding:"required"`
}

// POST /api/progress/start
func (h *ProgressHandler) Start(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.MarkInProgress(c.Request.Context(), req.UserID, req.ConceptName); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Started " + req.ConceptName})
}

// POST /api/progress/complete
func (h *ProgressHandler) Complete(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.MarkCompleted(c.Request.Context(), req.UserID, req.ConceptName); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Completed " + req.ConceptName})
}

// GET /api/users/:user_id/progress
func (h *ProgressHandler) GetState(c *gin.Context) {
	state, err := h.svc.GetUserState(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
