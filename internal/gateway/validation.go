// Package gateway validates incoming requests and forwards the valid ones to the backend unchanged.
package gateway

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shareit-app/shareit/internal/application"
)

var registerOnce sync.Once

// RegisterValidators adds the future, futureorpresent and notblank tags to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("future", func(fl validator.FieldLevel) bool {
			t, ok := fieldTime(fl.Field())
			return ok && t.After(time.Now())
		})
		_ = v.RegisterValidation("futureorpresent", func(fl validator.FieldLevel) bool {
			t, ok := fieldTime(fl.Field())
			return ok && !t.Before(time.Now().Truncate(time.Second))
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			f := fl.Field()
			return f.Kind() == reflect.String && strings.TrimSpace(f.String()) != ""
		})
	})
}

func fieldTime(f reflect.Value) (time.Time, bool) {
	if !f.IsValid() || !f.CanInterface() {
		return time.Time{}, false
	}
	switch v := f.Interface().(type) {
	case application.LocalDateTime:
		return v.Time(), true
	case time.Time:
		return v, true
	default:
		return time.Time{}, false
	}
}

// bookItemRequest mirrors the booking body with the gateway's stricter rules.
type bookItemRequest struct {
	ItemID *int64                     `json:"itemId" binding:"required"`
	Start  *application.LocalDateTime `json:"start" binding:"required,futureorpresent"`
	End    *application.LocalDateTime `json:"end" binding:"required,future"`
}

type createUserRequest struct {
	Name  string `json:"name" binding:"notblank"`
	Email string `json:"email" binding:"notblank,email"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type createItemRequest struct {
	Name        string `json:"name" binding:"notblank"`
	Description string `json:"description" binding:"notblank"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId"`
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type createCommentRequest struct {
	Text string `json:"text" binding:"notblank"`
}

type createItemRequestBody struct {
	Description string `json:"description" binding:"notblank"`
}
