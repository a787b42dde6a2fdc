package application

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shareit-app/shareit/internal/events"
	"github.com/shareit-app/shareit/internal/repository"
	"github.com/shareit-app/shareit/internal/repository/repotest"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.CloudEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _, _ string, evt *events.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

type stack struct {
	publisher *recordingPublisher
	users     *UserService
	items     *ItemService
	requests  *RequestService
	bookings  *BookingService
}

func newStack(t *testing.T) *stack {
	t.Helper()
	db := repotest.NewDB(t)
	logger := zap.NewNop()

	userRepo := repository.NewGormUserRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	requestRepo := repository.NewGormRequestRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	publisher := &recordingPublisher{}

	return &stack{
		publisher: publisher,
		users:     NewUserService(userRepo, logger),
		items:     NewItemService(itemRepo, commentRepo, bookingRepo, userRepo, requestRepo, logger),
		requests:  NewRequestService(requestRepo, itemRepo, userRepo, logger),
		bookings:  NewBookingService(bookingRepo, itemRepo, userRepo, repository.NewTransactor(db), publisher, logger),
	}
}

func (s *stack) user(t *testing.T, name string) UserDTO {
	t.Helper()
	u, err := s.users.Create(context.Background(), CreateUserRequest{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return *u
}

func (s *stack) item(t *testing.T, ownerID int64, name string, available bool) ItemDTO {
	t.Helper()
	it, err := s.items.Create(context.Background(), ownerID, CreateItemRequest{
		Name:        name,
		Description: name + " for rent",
		Available:   &available,
	})
	require.NoError(t, err)
	return *it
}

func (s *stack) book(t *testing.T, bookerID, itemID int64, start, end time.Time) BookingDTO {
	t.Helper()
	b, err := s.bookings.Create(context.Background(), bookerID, bookingRequest(itemID, start, end))
	require.NoError(t, err)
	return *b
}

func (s *stack) approve(t *testing.T, ownerID, bookingID int64) {
	t.Helper()
	_, err := s.bookings.UpdateStatus(context.Background(), ownerID, bookingID, true)
	require.NoError(t, err)
}

func bookingRequest(itemID int64, start, end time.Time) CreateBookingRequest {
	st, en := NewLocalDateTime(start), NewLocalDateTime(end)
	return CreateBookingRequest{ItemID: &itemID, Start: &st, End: &en}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
