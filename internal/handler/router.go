package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shareit-app/shareit/internal/application"
	"go.uber.org/zap"
)

// Services groups the application services exposed over HTTP.
type Services struct {
	Users    *application.UserService
	Items    *application.ItemService
	Requests *application.RequestService
	Bookings *application.BookingService
}

// NewRouter builds the backend gin engine with middleware, health routes and every API route.
func NewRouter(log *zap.Logger, health *HealthHandler, svc Services) *gin.Engine {
	router := gin.New()

	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(MetricsMiddleware())

	health.RegisterRoutes(router)

	api := &router.RouterGroup
	NewUserHandler(svc.Users).RegisterRoutes(api)
	NewItemHandler(svc.Items).RegisterRoutes(api)
	NewRequestHandler(svc.Requests).RegisterRoutes(api)
	NewBookingHandler(svc.Bookings).RegisterRoutes(api)

	return router
}
