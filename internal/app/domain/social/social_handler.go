package social

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the platform registry.
type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// GetPlatforms handles GET /api/platforms.
func (h *Handler) GetPlatforms(c *gin.Context) {
	platforms, err := h.repo.ListPlatforms(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list platforms", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch platforms"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"platforms":   platforms,
		"total_count": len(platforms),
	})
}
