package gateway

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shareit-app/shareit/internal/domain"
	bookingDomain "github.com/shareit-app/shareit/internal/domain/booking"
	"github.com/shareit-app/shareit/internal/handler"
	"go.uber.org/zap"
)

// Handler validates requests and relays them to the backend.
type Handler struct {
	client *Client
	logger *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(client *Client, logger *zap.Logger) *Handler {
	return &Handler{client: client, logger: logger}
}

// RegisterRoutes registers the same routes the backend serves.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", validateBody[createUserRequest](), h.forward)
		users.GET("", h.forward)
		users.GET("/:id", validateID, h.forward)
		users.PATCH("/:id", validateID, validateBody[updateUserRequest](), h.forward)
		users.DELETE("/:id", validateID, h.forward)
	}

	items := r.Group("/items", requireUser)
	{
		items.POST("", validateBody[createItemRequest](), h.forward)
		items.GET("", validatePage, h.forward)
		items.GET("/search", validatePage, h.forward)
		items.GET("/:id", validateID, h.forward)
		items.PATCH("/:id", validateID, validateBody[updateItemRequest](), h.forward)
		items.POST("/:id/comment", validateID, validateBody[createCommentRequest](), h.forward)
	}

	requests := r.Group("/requests", requireUser)
	{
		requests.POST("", validateBody[createItemRequestBody](), h.forward)
		requests.GET("", h.forward)
		requests.GET("/all", validatePage, h.forward)
		requests.GET("/:id", validateID, h.forward)
	}

	bookings := r.Group("/bookings", requireUser)
	{
		bookings.POST("", validateBody[bookItemRequest](), h.forward)
		bookings.PATCH("/:id", validateID, validateApproved, h.forward)
		bookings.GET("/owner", validateState, validatePage, h.forward)
		bookings.GET("/:id", validateID, h.forward)
		bookings.GET("", validateState, validatePage, h.forward)
	}
}

const bodyKey = "gateway_body"

// forward relays the request and writes back the backend status and body verbatim.
func (h *Handler) forward(c *gin.Context) {
	var body []byte
	if raw, ok := c.Get(bodyKey); ok {
		body, _ = raw.([]byte)
	}

	resp, err := h.client.Forward(c.Request.Context(), c.Request, body)
	if err != nil {
		h.logger.Error("backend call failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
		return
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.Status, contentType, resp.Body)
}

func reject(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

// validateBody decodes the JSON body into T, runs its binding rules and keeps the raw bytes for forwarding.
func validateBody[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			reject(c, "unreadable request body")
			return
		}
		var dto T
		if err := binding.JSON.BindBody(body, &dto); err != nil {
			reject(c, err.Error())
			return
		}
		c.Set(bodyKey, body)
		c.Next()
	}
}

func requireUser(c *gin.Context) {
	if _, ok := handler.UserID(c); !ok {
		return
	}
	c.Next()
}

func validateID(c *gin.Context) {
	if _, err := strconv.ParseInt(c.Param("id"), 10, 64); err != nil {
		reject(c, "invalid id: "+c.Param("id"))
		return
	}
	c.Next()
}

func validatePage(c *gin.Context) {
	from, size, ok := handler.Pagination(c)
	if !ok {
		return
	}
	if _, err := domain.NewPage(from, size); err != nil {
		reject(c, err.Error())
		return
	}
	c.Next()
}

func validateState(c *gin.Context) {
	if _, err := bookingDomain.ParseState(c.Query("state")); err != nil {
		reject(c, err.Error())
		return
	}
	c.Next()
}

func validateApproved(c *gin.Context) {
	if _, err := strconv.ParseBool(c.Query("approved")); err != nil {
		reject(c, "query parameter approved must be true or false")
		return
	}
	c.Next()
}
