package booking

import (
	"context"
	"time"

	"github.com/shareit-app/shareit/internal/domain"
)

// Party selects which side of a booking a listing query is anchored on.
type Party int

const (
	PartyBooker Party = iota
	PartyOwner
)

// Query describes one listing: the bookings of UserID as Party, filtered by State
// evaluated at Now, ordered by start descending.
type Query struct {
	Party  Party
	UserID int64
	State  State
	Now    time.Time
	Page   domain.Page
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its identifier.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindByIDForUpdate retrieves a booking and locks its row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id int64) (*Booking, error)

	// Find runs a state-filtered listing query.
	Find(ctx context.Context, q Query) ([]*Booking, error)

	// FindByItemIDs retrieves every booking on the given items.
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*Booking, error)

	// FindApprovedByBookerAndItem retrieves the booker's approved bookings of one item.
	FindApprovedByBookerAndItem(ctx context.Context, bookerID, itemID int64) ([]*Booking, error)

	// Save persists a new booking and returns it with its assigned id.
	Save(ctx context.Context, b *Booking) (*Booking, error)

	// Update persists a status change with optimistic locking on the version.
	Update(ctx context.Context, b *Booking) error
}
