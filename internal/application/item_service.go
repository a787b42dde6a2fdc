package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shareit-app/shareit/internal/domain"
	bookingDomain "github.com/shareit-app/shareit/internal/domain/booking"
	itemDomain "github.com/shareit-app/shareit/internal/domain/item"
	requestDomain "github.com/shareit-app/shareit/internal/domain/request"
	userDomain "github.com/shareit-app/shareit/internal/domain/user"
	"go.uber.org/zap"
)

// ItemService implements use cases for items and their comments.
type ItemService struct {
	items    itemDomain.Repository
	comments itemDomain.CommentRepository
	bookings bookingDomain.BookingRepository
	users    userDomain.Repository
	requests requestDomain.Repository
	logger   *zap.Logger
	now      clock
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.Repository,
	comments itemDomain.CommentRepository,
	bookings bookingDomain.BookingRepository,
	users userDomain.Repository,
	requests requestDomain.Repository,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		comments: comments,
		bookings: bookings,
		users:    users,
		requests: requests,
		logger:   logger,
		now:      time.Now,
	}
}

// Create lists a new item for ownerID, optionally in answer to a request.
func (s *ItemService) Create(ctx context.Context, ownerID int64, req CreateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if req.RequestID != nil {
		if _, err := s.requests.FindByID(ctx, *req.RequestID); err != nil {
			return nil, err
		}
	}
	available := req.Available != nil && *req.Available

	it, err := itemDomain.NewItem(ownerID, req.Name, req.Description, available, req.RequestID)
	if err != nil {
		return nil, err
	}
	saved, err := s.items.Save(ctx, it)
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created", zap.Int64("item_id", saved.ID()), zap.Int64("owner_id", ownerID))
	dto := toItemDTO(saved)
	return &dto, nil
}

// Update applies a partial update. Only the owner may change an item.
func (s *ItemService) Update(ctx context.Context, userID, itemID int64, req UpdateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(userID) {
		return nil, domain.NewOwnershipError(
			fmt.Sprintf("User with ID: '%d' not the owner of item with ID: '%d'", userID, itemID))
	}

	patched := it.Patch(req.Name, req.Description, req.Available)
	if err := s.items.Update(ctx, patched); err != nil {
		return nil, err
	}

	s.logger.Info("item updated", zap.Int64("item_id", itemID), zap.Int64("owner_id", userID))
	dto := toItemDTO(patched)
	return &dto, nil
}

// Get returns an item with its comments. The last and next bookings are shown to the owner only.
func (s *ItemService) Get(ctx context.Context, userID, itemID int64) (*ItemInfoDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.FindByItemIDs(ctx, []int64{itemID})
	if err != nil {
		return nil, err
	}

	var availability bookingDomain.Availability
	if it.IsOwnedBy(userID) {
		bookings, err := s.bookings.FindByItemIDs(ctx, []int64{itemID})
		if err != nil {
			return nil, err
		}
		availability = bookingDomain.Annotate(itemID, bookings, s.now())
	}

	info := toItemInfoDTO(it, availability, comments)
	return &info, nil
}

// ListByOwner returns the owner's items, each with its last and next bookings and comments.
func (s *ItemService) ListByOwner(ctx context.Context, userID int64, from, size int) ([]ItemInfoDTO, error) {
	page, err := domain.NewPage(from, size)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	items, err := s.items.FindByOwnerID(ctx, userID, page)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}
	bookings, err := s.bookings.FindByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.FindByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	availability := bookingDomain.AnnotateAll(ids, bookings, s.now())
	result := make([]ItemInfoDTO, len(items))
	for i, it := range items {
		result[i] = toItemInfoDTO(it, availability[it.ID()], comments)
	}
	return result, nil
}

// Search returns available items whose name or description contains text, ignoring case.
// Blank text matches nothing.
func (s *ItemService) Search(ctx context.Context, text string, from, size int) ([]ItemDTO, error) {
	page, err := domain.NewPage(from, size)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return []ItemDTO{}, nil
	}

	items, err := s.items.Search(ctx, text, page)
	if err != nil {
		return nil, err
	}
	result := make([]ItemDTO, len(items))
	for i, it := range items {
		result[i] = toItemDTO(it)
	}
	return result, nil
}

// CreateComment stores a comment from a user who has finished an approved booking of the item.
func (s *ItemService) CreateComment(ctx context.Context, userID, itemID int64, req CreateCommentRequest) (*CommentDTO, error) {
	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindApprovedByBookerAndItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, domain.NewNotAvailableError("User without approved bookings couldn't make a comment")
	}
	now := s.now()
	finished := false
	for _, b := range bookings {
		if b.End().Before(now) {
			finished = true
			break
		}
	}
	if !finished {
		return nil, domain.NewNotAvailableError("User couldn't make a comment to item not booking yet")
	}

	c, err := itemDomain.NewComment(itemID, userID, author.Name(), req.Text, now)
	if err != nil {
		return nil, err
	}
	saved, err := s.comments.Save(ctx, c)
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		zap.Int64("comment_id", saved.ID()),
		zap.Int64("item_id", itemID),
		zap.Int64("author_id", userID),
	)
	dto := toCommentDTO(saved)
	return &dto, nil
}
