package item

import (
	"strings"

	"github.com/shareit-app/shareit/internal/domain"
)

// Item is a thing a user lists for others to borrow.
// The available flag is listing status, not a calendar: bookings never toggle it.
type Item struct {
	id          int64
	name        string
	description string
	available   bool
	ownerID     int64
	requestID   *int64
}

// NewItem creates an unsaved Item with validated fields.
func NewItem(ownerID int64, name, description string, available bool, requestID *int64) (*Item, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if ownerID <= 0 {
		return nil, domain.NewValidationError("item owner is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("item name is required")
	}
	if description == "" {
		return nil, domain.NewValidationError("item description is required")
	}
	return &Item{
		name:        name,
		description: description,
		available:   available,
		ownerID:     ownerID,
		requestID:   requestID,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(id int64, name, description string, available bool, ownerID int64, requestID *int64) *Item {
	return &Item{
		id:          id,
		name:        name,
		description: description,
		available:   available,
		ownerID:     ownerID,
		requestID:   requestID,
	}
}

// --- Getters ---

func (i *Item) ID() int64           { return i.id }
func (i *Item) Name() string        { return i.name }
func (i *Item) Description() string { return i.description }
func (i *Item) Available() bool     { return i.available }
func (i *Item) OwnerID() int64      { return i.ownerID }
func (i *Item) RequestID() *int64   { return i.requestID }

// --- Behavior ---

// IsOwnedBy reports whether the item belongs to the given user.
func (i *Item) IsOwnedBy(userID int64) bool {
	return i.ownerID == userID
}

// WithID returns a copy carrying the store-assigned identifier.
func (i *Item) WithID(id int64) *Item {
	c := *i
	c.id = id
	return &c
}

// Patch returns a copy with the non-nil fields applied. Blank strings are ignored.
func (i *Item) Patch(name, description *string, available *bool) *Item {
	c := *i
	if name != nil && strings.TrimSpace(*name) != "" {
		c.name = strings.TrimSpace(*name)
	}
	if description != nil && strings.TrimSpace(*description) != "" {
		c.description = strings.TrimSpace(*description)
	}
	if available != nil {
		c.available = *available
	}
	return &c
}
