package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/learnfast-backend/internal/pkg/errors"
	"github.com/yungbote/learnfast-backend/internal/services"
)

const defaultPreviewDepth = 3

type ConceptHandler struct {
	nav services.NavigationService
}

func NewConceptHandler(nav services.NavigationService) *ConceptHandler {
	return &ConceptHandler{nav: nav}
}

// GET /api/concepts/roots
func (h *ConceptHandler) GetRootConcepts(c *gin.Context) {
	roots, err := h.nav.FindRootConcepts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roots": roots})
}

// GET /api/concepts/:name/preview?depth=N
func (h *ConceptHandler) GetPathPreview(c *gin.Context) {
	depth := defaultPreviewDepth
	if v := c.Query("depth"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid depth"})
			return
		}
		depth = parsed
	}

	preview, err := h.nav.GetPathPreview(c.Request.Context(), c.Param("name"), depth)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

// GET /api/users/:user_id/concepts/:name/validate
func (h *ConceptHandler) ValidatePrerequisites(c *gin.Context) {
	valid, err := h.nav.ValidatePrerequisites(c.Request.Context(), c.Param("user_id"), c.Param("name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// GET /api/users/:user_id/unlocked
func (h *ConceptHandler) GetUnlockedConcepts(c *gin.Context) {
	unlocked, err := h.nav.GetUnlockedConcepts(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlocked": unlocked})
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_argument"})
	case errors.Is(err, pkgerrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, pkgerrors.ErrUnreachable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "unreachable"})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	}
}
