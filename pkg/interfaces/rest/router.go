package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the HTTP routes onto a gin engine
func NewRouter(handler *Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	stock := router.Group("/api/stock")
	{
		stock.POST("/reserve", handler.ReserveStock)
		stock.POST("/release", handler.ReleaseStock)
		stock.POST("/fulfill", handler.FulfillStock)
	}

	inventory := router.Group("/api/inventory")
	{
		inventory.POST("", handler.ProvisionInventory)
		inventory.GET("/stats", handler.GetStats)
		inventory.GET("/:id", handler.GetInventory)
		inventory.GET("/:id/history", handler.GetHistory)
		inventory.POST("/:id/adjust", handler.AdjustStock)
		inventory.PATCH("/:id/thresholds", handler.UpdateThresholds)
		inventory.DELETE("/:id", handler.RetireInventory)
	}

	router.GET("/api/alerts", handler.ListAlerts)
	router.GET("/api/recommendations/restock", handler.RestockRecommendations)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()))
	}
}
