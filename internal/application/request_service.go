package application

import (
	"context"
	"time"

	"github.com/shareit-app/shareit/internal/domain"
	itemDomain "github.com/shareit-app/shareit/internal/domain/item"
	requestDomain "github.com/shareit-app/shareit/internal/domain/request"
	userDomain "github.com/shareit-app/shareit/internal/domain/user"
	"go.uber.org/zap"
)

// RequestService implements use cases for item requests.
type RequestService struct {
	requests requestDomain.Repository
	items    itemDomain.Repository
	users    userDomain.Repository
	logger   *zap.Logger
	now      clock
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requests requestDomain.Repository,
	items itemDomain.Repository,
	users userDomain.Repository,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
}

// Create stores a new request for userID.
func (s *RequestService) Create(ctx context.Context, userID int64, body CreateItemRequestBody) (*ItemRequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	r, err := requestDomain.NewItemRequest(userID, body.Description, s.now())
	if err != nil {
		return nil, err
	}
	saved, err := s.requests.Save(ctx, r)
	if err != nil {
		return nil, err
	}

	s.logger.Info("request created", zap.Int64("request_id", saved.ID()), zap.Int64("requester_id", userID))
	dto := toItemRequestDTO(saved, nil)
	return &dto, nil
}

// ListOwn returns the user's own requests, newest first, with the items answering them.
func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]ItemRequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.requests.FindByRequesterID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

// Get returns one request with the items answering it.
func (s *RequestService) Get(ctx context.Context, userID, requestID int64) (*ItemRequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	r, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	answers, err := s.items.FindByRequestIDs(ctx, []int64{requestID})
	if err != nil {
		return nil, err
	}
	dto := toItemRequestDTO(r, answers)
	return &dto, nil
}

// ListOthers returns requests made by other users, newest first.
func (s *RequestService) ListOthers(ctx context.Context, userID int64, from, size int) ([]ItemRequestDTO, error) {
	page, err := domain.NewPage(from, size)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.requests.FindOthers(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

func (s *RequestService) withItems(ctx context.Context, requests []*requestDomain.ItemRequest) ([]ItemRequestDTO, error) {
	result := make([]ItemRequestDTO, len(requests))
	if len(requests) == 0 {
		return result, nil
	}
	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID()
	}
	answers, err := s.items.FindByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, r := range requests {
		result[i] = toItemRequestDTO(r, answers)
	}
	return result, nil
}
