package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnfast-backend/internal/services"
)

type PathHandler struct {
	resolver services.PathResolverService
	content  services.ContentService
}

func NewPathHandler(resolver services.PathResolverService, content services.ContentService) *PathHandler {
	return &PathHandler{resolver: resolver, content: content}
}

type resolvePathRequest struct {
	UserID            string `json:"user_id" binding:"required"`
	TargetConcept     string `json:"target_concept" binding:"required"`
	TimeBudgetMinutes int    `json:"time_budget_minutes"`
}

// POST /api/learning/path
func (h *PathHandler) ResolvePath(c *gin.Context) {
	var req resolvePathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	path, err := h.resolver.ResolvePath(c.Request.Context(), req.UserID, req.TargetConcept, req.TimeBudgetMinutes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, path)
}

type lessonRequest struct {
	Concepts []string `json:"concepts" binding:"required"`
}

// POST /api/learning/lesson
func (h *PathHandler) GetLesson(c *gin.Context) {
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lesson, err := h.content.GetLessonContent(c.Request.Context(), req.Concepts)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": lesson})
}
