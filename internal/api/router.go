// Package api exposes the pricewatch HTTP surface: product listing, product
// creation, and price history for charting.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/pricewatch/internal/config"
	"github.com/jonesrussell/pricewatch/internal/logger"
)

const corsMaxAge = 12 * time.Hour

// NewRouter builds the gin engine with middleware and all routes registered.
func NewRouter(handler *ProductHandler, cfg *config.ServerConfig, log logger.Logger) *gin.Engine {
	router := gin.New()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}))
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	products := v1.Group("/products")
	products.GET("", handler.List)
	products.POST("", handler.Create)
	products.GET("/:id/history", handler.History)

	// Minimal chart UI.
	if cfg.StaticDir != "" {
		router.Static("/static", cfg.StaticDir)
		router.StaticFile("/", cfg.StaticDir+"/index.html")
	}

	return router
}

// ginLogger logs one line per request with method, path, status, and timing.
func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", c.Writer.Status()),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", time.Since(start)),
		)
	}
}
