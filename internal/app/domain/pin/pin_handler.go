package pin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/app/models"
)

// Handler serves the public pin read API.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetAllPins handles GET /api/pins/all.
func (h *Handler) GetAllPins(c *gin.Context) {
	pins, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list pins", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch pins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pins":        pins,
		"total_count": len(pins),
	})
}

// GetPinsByCategory handles GET /api/pins/:category, where :category is a
// table-style segment such as "main_attractions" or "hotels".
func (h *Handler) GetPinsByCategory(c *gin.Context) {
	table := c.Param("category")
	pins, err := h.service.ListByCategory(c.Request.Context(), table)
	if err != nil {
		if errors.Is(err, models.ErrUnknownCategory) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":            "unknown category",
				"available_tables": models.TableNames(),
			})
			return
		}
		h.logger.Error("failed to list pins by category",
			zap.String("category", table), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch pins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pins":        pins,
		"total_count": len(pins),
	})
}

// SearchPins handles GET /api/pins/search?q=.
func (h *Handler) SearchPins(c *gin.Context) {
	query := c.Query("q")
	pins, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
			return
		}
		h.logger.Error("failed to search pins", zap.String("q", query), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search pins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pins":        pins,
		"total_count": len(pins),
	})
}

// GetPinBySlug handles GET /api/pin/:slug.
func (h *Handler) GetPinBySlug(c *gin.Context) {
	slug := c.Param("slug")
	detail, err := h.service.GetDetail(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pin not found"})
			return
		}
		h.logger.Error("failed to get pin", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch pin"})
		return
	}
	c.JSON(http.StatusOK, detail)
}
