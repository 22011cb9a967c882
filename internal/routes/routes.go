// Package routes wires the public read API onto the gin engine.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/app/domain/cta"
	"github.com/tourato/tourato-api/internal/app/domain/pin"
	"github.com/tourato/tourato-api/internal/app/domain/social"
)

// Setup registers all routes with their handlers.
func Setup(r *gin.Engine, dbPool *pgxpool.Pool, logger *zap.Logger) {
	pinRepo := pin.NewRepository(dbPool, logger)
	socialRepo := social.NewRepository(dbPool, logger)
	ctaRepo := cta.NewRepository(dbPool, logger)

	pinService := pin.NewService(pinRepo, socialRepo, ctaRepo, logger)
	pinHandler := pin.NewHandler(pinService, logger)
	socialHandler := social.NewHandler(socialRepo, logger)

	r.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/pins/all", pinHandler.GetAllPins)
		api.GET("/pins/search", pinHandler.SearchPins)
		api.GET("/pins/:category", pinHandler.GetPinsByCategory)
		api.GET("/pin/:slug", pinHandler.GetPinBySlug)
		api.GET("/platforms", socialHandler.GetPlatforms)
	}
}
