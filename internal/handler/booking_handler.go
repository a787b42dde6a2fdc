package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shareit-app/shareit/internal/application"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.PATCH("/:id", h.UpdateStatus)
		bookings.GET("/owner", h.ListOwnerBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("", h.ListBookings)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateStatus handles PATCH /bookings/:id?approved=true|false.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		badRequest(c, "query parameter approved must be true or false")
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), userID, bookingID, approved)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBooking handles GET /bookings/:id. Only the booker and the item owner may see it.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Get(c.Request.Context(), userID, bookingID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListBookings handles GET /bookings?state=&from=&size=, the bookings made by the user.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		return
	}
	from, size, ok := Pagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListByBooker(c.Request.Context(), userID, c.Query("state"), from, size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListOwnerBookings handles GET /bookings/owner?state=&from=&size=, the bookings of the user's items.
func (h *BookingHandler) ListOwnerBookings(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		return
	}
	from, size, ok := Pagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListByOwner(c.Request.Context(), userID, c.Query("state"), from, size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
