package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shareit-app/shareit/internal/domain"
	bookingDomain "github.com/shareit-app/shareit/internal/domain/booking"
	itemDomain "github.com/shareit-app/shareit/internal/domain/item"
	userDomain "github.com/shareit-app/shareit/internal/domain/user"
	"github.com/shareit-app/shareit/internal/events"
	"github.com/shareit-app/shareit/internal/metrics"
	"go.uber.org/zap"
)

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	bookings  bookingDomain.BookingRepository
	items     itemDomain.Repository
	users     userDomain.Repository
	tx        Transactor
	publisher EventPublisher
	logger    *zap.Logger
	now       clock
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	items itemDomain.Repository,
	users userDomain.Repository,
	tx Transactor,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		items:     items,
		users:     users,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Create books an item for bookerID. The booking starts in WAITING status.
func (s *BookingService) Create(ctx context.Context, bookerID int64, req CreateBookingRequest) (*BookingDTO, error) {
	if req.ItemID == nil || req.Start == nil || req.End == nil {
		return nil, domain.NewValidationError("itemId, start and end are required")
	}
	start, end := req.Start.Time(), req.End.Time()
	if err := bookingDomain.ValidateWindow(start, end); err != nil {
		return nil, err
	}

	var created *bookingDomain.Booking
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		it, err := s.items.FindByID(ctx, *req.ItemID)
		if err != nil {
			return err
		}
		if err := bookingDomain.CheckBookable(it, bookerID); err != nil {
			return err
		}
		booker, err := s.users.FindByID(ctx, bookerID)
		if err != nil {
			return err
		}

		bk, err := bookingDomain.NewBooking(it, booker, start, end)
		if err != nil {
			return err
		}
		created, err = s.bookings.Save(ctx, bk)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.logger.Info("booking created",
		zap.Int64("booking_id", created.ID()),
		zap.Int64("item_id", created.Item().ID()),
		zap.Int64("booker_id", bookerID),
	)
	publishEvent(ctx, s.publisher, s.logger, events.TopicBookingEvents, events.BookingCreated, bookingKey(created),
		events.BookingCreatedEvent{
			BookingID:  created.ID(),
			ItemID:     created.Item().ID(),
			OwnerID:    created.Item().OwnerID(),
			BookerID:   bookerID,
			Start:      created.Start(),
			End:        created.End(),
			OccurredAt: s.now().UTC(),
		})

	result := toBookingDTO(created)
	return &result, nil
}

// UpdateStatus applies the item owner's decision to a booking. The booking row is locked
// for the duration of the check and the write, so concurrent decisions are serialized.
func (s *BookingService) UpdateStatus(ctx context.Context, ownerID, bookingID int64, approved bool) (*BookingDTO, error) {
	var decided *bookingDomain.Booking
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, ownerID); err != nil {
			return err
		}
		bk, err := s.bookings.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		next, err := bk.Decide(ownerID, approved)
		if err != nil {
			return err
		}
		if err := s.bookings.Update(ctx, next); err != nil {
			return err
		}
		decided = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	status := decided.Status().String()
	metrics.IncBookingDecision(status)
	s.logger.Info("booking status updated",
		zap.Int64("booking_id", decided.ID()),
		zap.Int64("owner_id", ownerID),
		zap.String("status", status),
	)

	eventType := events.BookingRejected
	if decided.Status() == bookingDomain.StatusApproved {
		eventType = events.BookingApproved
	}
	publishEvent(ctx, s.publisher, s.logger, events.TopicBookingEvents, eventType, bookingKey(decided),
		events.BookingDecidedEvent{
			BookingID:  decided.ID(),
			ItemID:     decided.Item().ID(),
			BookerID:   decided.Booker().ID(),
			Status:     status,
			OccurredAt: s.now().UTC(),
		})

	result := toBookingDTO(decided)
	return &result, nil
}

// Get returns a booking to one of its two counterparties.
func (s *BookingService) Get(ctx context.Context, userID, bookingID int64) (*BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsVisibleTo(userID) {
		return nil, domain.NewPermissionError(
			fmt.Sprintf("User with ID: '%d' couldn't receive booking with ID: '%d'", userID, bookingID))
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListByBooker returns the bookings made by userID that fall into the raw state.
func (s *BookingService) ListByBooker(ctx context.Context, userID int64, rawState string, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, bookingDomain.PartyBooker, userID, rawState, from, size)
}

// ListByOwner returns the bookings of items owned by userID that fall into the raw state.
func (s *BookingService) ListByOwner(ctx context.Context, userID int64, rawState string, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, bookingDomain.PartyOwner, userID, rawState, from, size)
}

func (s *BookingService) list(ctx context.Context, party bookingDomain.Party, userID int64, rawState string, from, size int) ([]BookingDTO, error) {
	state, err := bookingDomain.ParseState(rawState)
	if err != nil {
		return nil, err
	}
	page, err := domain.NewPage(from, size)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.Find(ctx, bookingDomain.Query{
		Party:  party,
		UserID: userID,
		State:  state,
		Now:    s.now(),
		Page:   page,
	})
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

func bookingKey(b *bookingDomain.Booking) string {
	return strconv.FormatInt(b.ID(), 10)
}
