package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shareit-app/shareit/internal/domain"
)

// HeaderUserID carries the id of the acting user on every request.
const HeaderUserID = "X-Sharer-User-Id"

// statusFor maps a domain error kind to its HTTP status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound, domain.KindPermission:
		return http.StatusNotFound
	case domain.KindOwnership:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotAvailable, domain.KindTimeValidation, domain.KindUnsupportedStatus, domain.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": message}. Errors without a domain kind are
// attached to the context for the logger and reported as a generic 500.
func writeError(c *gin.Context, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(statusFor(derr.Kind), gin.H{"error": derr.Message})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

// UserID reads the acting user from the X-Sharer-User-Id header.
func UserID(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.GetHeader(HeaderUserID))
	if raw == "" {
		badRequest(c, "missing header "+HeaderUserID)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		badRequest(c, "invalid header "+HeaderUserID+": "+raw)
		return 0, false
	}
	return id, true
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name+": "+c.Param(name))
		return 0, false
	}
	return id, true
}

// Pagination reads from (default 0) and size (default 10). Range checks are left to domain.NewPage.
func Pagination(c *gin.Context) (from, size int, ok bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		badRequest(c, "invalid from: "+c.Query("from"))
		return 0, 0, false
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		badRequest(c, "invalid size: "+c.Query("size"))
		return 0, 0, false
	}
	return from, size, true
}
