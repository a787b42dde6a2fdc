package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shareit-app/shareit/internal/handler"
	"go.uber.org/zap"
)

// NewRouter builds the gateway engine: shared middleware, the rate limiter and the validating routes.
func NewRouter(log *zap.Logger, client *Client, limiter *RateLimiter) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(handler.RequestIDMiddleware())
	router.Use(handler.RecoveryMiddleware(log))
	router.Use(handler.LoggerMiddleware(log))
	router.Use(handler.MetricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "shareit-gateway"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("", limiter.Middleware())
	NewHandler(client, log).RegisterRoutes(api)

	return router
}
