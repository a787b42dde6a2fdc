package request

import (
	"context"
	"strings"
	"time"

	"github.com/shareit-app/shareit/internal/domain"
)

// ItemRequest is a user's ask for an item nobody has listed yet.
type ItemRequest struct {
	id          int64
	description string
	requesterID int64
	created     time.Time
}

// NewItemRequest creates an unsaved request stamped with the given creation time.
func NewItemRequest(requesterID int64, description string, created time.Time) (*ItemRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, domain.NewValidationError("request description is required")
	}
	return &ItemRequest{
		description: description,
		requesterID: requesterID,
		created:     created.UTC(),
	}, nil
}

// Reconstruct rebuilds an ItemRequest from persistence data (no validation).
func Reconstruct(id int64, description string, requesterID int64, created time.Time) *ItemRequest {
	return &ItemRequest{id: id, description: description, requesterID: requesterID, created: created}
}

func (r *ItemRequest) ID() int64           { return r.id }
func (r *ItemRequest) Description() string { return r.description }
func (r *ItemRequest) RequesterID() int64  { return r.requesterID }
func (r *ItemRequest) Created() time.Time  { return r.created }

// WithID returns a copy carrying the store-assigned identifier.
func (r *ItemRequest) WithID(id int64) *ItemRequest {
	c := *r
	c.id = id
	return &c
}

// Repository defines the persistence contract for item requests.
type Repository interface {
	// FindByID returns the request or a not-found domain error.
	FindByID(ctx context.Context, id int64) (*ItemRequest, error)

	// FindByRequesterID returns the user's own requests, newest first.
	FindByRequesterID(ctx context.Context, requesterID int64) ([]*ItemRequest, error)

	// FindOthers returns requests made by anyone but the given user, newest first.
	FindOthers(ctx context.Context, userID int64, page domain.Page) ([]*ItemRequest, error)

	// Save inserts a new request and returns it with its assigned id.
	Save(ctx context.Context, r *ItemRequest) (*ItemRequest, error)
}
