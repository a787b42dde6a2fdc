package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/shareit-app/shareit/internal/domain"
	"github.com/shareit-app/shareit/internal/domain/item"
	"github.com/shareit-app/shareit/internal/domain/user"
)

// Booking is the aggregate root for the booking domain.
// Values are immutable snapshots: transitions return a new Booking for the store to persist.
type Booking struct {
	id      int64
	start   time.Time
	end     time.Time
	item    *item.Item
	booker  *user.User
	status  BookingStatus
	version int64
}

// ValidateWindow checks that end is strictly after start.
func ValidateWindow(start, end time.Time) error {
	if !end.After(start) {
		return domain.NewTimeValidationError("Start or End in request body is incorrect")
	}
	return nil
}

// CheckBookable verifies that bookerID may book it: nobody books their own item,
// and only available items take new bookings.
func CheckBookable(it *item.Item, bookerID int64) error {
	if it.IsOwnedBy(bookerID) {
		return domain.NewPermissionError(fmt.Sprintf("Booker with ID: '%d' couldn't book his own item", bookerID))
	}
	if !it.Available() {
		return domain.NewNotAvailableError(fmt.Sprintf("Item with ID: '%d' is not available for booking", it.ID()))
	}
	return nil
}

// NewBooking creates an unsaved Booking in WAITING status.
func NewBooking(it *item.Item, booker *user.User, start, end time.Time) (*Booking, error) {
	if err := ValidateWindow(start, end); err != nil {
		return nil, err
	}
	if err := CheckBookable(it, booker.ID()); err != nil {
		return nil, err
	}
	return &Booking{
		start:   start.UTC(),
		end:     end.UTC(),
		item:    it,
		booker:  booker,
		status:  StatusWaiting,
		version: 1,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id int64,
	start, end time.Time,
	it *item.Item,
	booker *user.User,
	status BookingStatus,
	version int64,
) *Booking {
	return &Booking{
		id:      id,
		start:   start,
		end:     end,
		item:    it,
		booker:  booker,
		status:  status,
		version: version,
	}
}

// --- Getters ---

// ID returns the booking's identifier, zero until saved.
func (b *Booking) ID() int64 { return b.id }

// Start returns the beginning of the booked window.
func (b *Booking) Start() time.Time { return b.start }

// End returns the end of the booked window.
func (b *Booking) End() time.Time { return b.end }

// Item returns the booked item snapshot.
func (b *Booking) Item() *item.Item { return b.item }

// Booker returns the borrowing user snapshot.
func (b *Booking) Booker() *user.User { return b.booker }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// --- Behavior ---

// IsVisibleTo reports whether userID is one of the two counterparties: the booker or the item owner.
func (b *Booking) IsVisibleTo(userID int64) bool {
	return b.booker.ID() == userID || b.item.IsOwnedBy(userID)
}

// WithID returns a copy carrying the store-assigned identifier.
func (b *Booking) WithID(id int64) *Booking {
	c := *b
	c.id = id
	return &c
}

// Decide applies the owner's decision and returns the next version of the booking.
func (b *Booking) Decide(ownerID int64, approved bool) (*Booking, error) {
	if !b.item.IsOwnedBy(ownerID) {
		return nil, domain.NewPermissionError(fmt.Sprintf("User with ID: '%d' couldn't change status of booking", ownerID))
	}
	target := StatusRejected
	if approved {
		target = StatusApproved
	}
	if !b.status.CanTransitionTo(target) {
		return nil, domain.NewNotAvailableError(fmt.Sprintf("Status of booking with ID:'%d' already %s", b.id, strings.ToLower(string(b.status))))
	}
	c := *b
	c.status = target
	c.version++
	return &c, nil
}
