package item

import (
	"context"

	"github.com/shareit-app/shareit/internal/domain"
)

// Repository defines the persistence contract for items.
type Repository interface {
	// FindByID returns the item or a not-found domain error.
	FindByID(ctx context.Context, id int64) (*Item, error)

	// FindByOwnerID returns the owner's items ordered by id.
	FindByOwnerID(ctx context.Context, ownerID int64, page domain.Page) ([]*Item, error)

	// FindByRequestIDs returns items created in answer to any of the given requests.
	FindByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error)

	// Search returns available items whose name or description contains text, ignoring case.
	Search(ctx context.Context, text string, page domain.Page) ([]*Item, error)

	// Save inserts a new item and returns it with its assigned id.
	Save(ctx context.Context, it *Item) (*Item, error)

	// Update persists changes to an existing item.
	Update(ctx context.Context, it *Item) error
}

// CommentRepository defines the persistence contract for item comments.
type CommentRepository interface {
	// FindByItemIDs returns comments on any of the given items, oldest first.
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*Comment, error)

	// Save inserts a new comment and returns it with its assigned id.
	Save(ctx context.Context, c *Comment) (*Comment, error)
}
