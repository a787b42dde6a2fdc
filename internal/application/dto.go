package application

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shareit-app/shareit/internal/domain/booking"
	"github.com/shareit-app/shareit/internal/domain/item"
	"github.com/shareit-app/shareit/internal/domain/request"
	"github.com/shareit-app/shareit/internal/domain/user"
)

// LocalDateTimeLayout is the wire format of timestamps: ISO local date-time without offset.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

var localDateTimeLayouts = []string{LocalDateTimeLayout, "2006-01-02T15:04"}

// LocalDateTime is a timestamp exchanged as local wall-clock time in the process time zone.
type LocalDateTime time.Time

// NewLocalDateTime wraps t for the wire.
func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime(t)
}

// ParseLocalDateTime parses s in the process time zone.
func ParseLocalDateTime(s string) (LocalDateTime, error) {
	for _, layout := range localDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return LocalDateTime(t), nil
		}
	}
	return LocalDateTime{}, fmt.Errorf("invalid local date-time %q, expected %s", s, LocalDateTimeLayout)
}

// Time returns the wrapped instant.
func (t LocalDateTime) Time() time.Time {
	return time.Time(t)
}

// String formats t in the wire layout.
func (t LocalDateTime) String() string {
	return t.Time().In(time.Local).Format(LocalDateTimeLayout)
}

// MarshalJSON implements json.Marshaler.
func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. null leaves the value untouched.
func (t *LocalDateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	parsed, err := ParseLocalDateTime(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// --- Requests ---

// CreateBookingRequest holds the data needed to book an item.
type CreateBookingRequest struct {
	ItemID *int64         `json:"itemId" binding:"required"`
	Start  *LocalDateTime `json:"start" binding:"required"`
	End    *LocalDateTime `json:"end" binding:"required"`
}

// CreateUserRequest is the request DTO for registering a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest is the request DTO for a partial user update.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// CreateItemRequest is the request DTO for listing an item.
type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId"`
}

// UpdateItemRequest is the request DTO for a partial item update.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CreateCommentRequest is the request DTO for commenting on an item.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateItemRequestBody is the request DTO for asking for an item nobody has listed.
type CreateItemRequestBody struct {
	Description string `json:"description" binding:"required"`
}

// --- Responses ---

// UserDTO is the API representation of a user.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ItemDTO is the API representation of an item.
type ItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

// BookingDTO is the API representation of a booking.
type BookingDTO struct {
	ID     int64         `json:"id"`
	Start  LocalDateTime `json:"start"`
	End    LocalDateTime `json:"end"`
	Status string        `json:"status"`
	Booker UserDTO       `json:"booker"`
	Item   ItemDTO       `json:"item"`
}

// BookingSummaryDTO is the short booking view attached to items.
type BookingSummaryDTO struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

// CommentDTO is the API representation of a comment.
type CommentDTO struct {
	ID         int64         `json:"id"`
	Text       string        `json:"text"`
	AuthorName string        `json:"authorName"`
	Created    LocalDateTime `json:"created"`
}

// ItemInfoDTO is an item with its comments and, for the owner, its last and next bookings.
type ItemInfoDTO struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Available   bool               `json:"available"`
	RequestID   *int64             `json:"requestId"`
	LastBooking *BookingSummaryDTO `json:"lastBooking"`
	NextBooking *BookingSummaryDTO `json:"nextBooking"`
	Comments    []CommentDTO       `json:"comments"`
}

// ItemRequestDTO is a request together with the items listed in answer to it.
type ItemRequestDTO struct {
	ID          int64         `json:"id"`
	Description string        `json:"description"`
	Created     LocalDateTime `json:"created"`
	Items       []ItemDTO     `json:"items"`
}

// --- Mapping ---

func toUserDTO(u *user.User) UserDTO {
	return UserDTO{ID: u.ID(), Name: u.Name(), Email: u.Email()}
}

func toItemDTO(it *item.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
	}
}

func toBookingDTO(b *booking.Booking) BookingDTO {
	return BookingDTO{
		ID:     b.ID(),
		Start:  NewLocalDateTime(b.Start()),
		End:    NewLocalDateTime(b.End()),
		Status: b.Status().String(),
		Booker: toUserDTO(b.Booker()),
		Item:   toItemDTO(b.Item()),
	}
}

func toBookingDTOs(bookings []*booking.Booking) []BookingDTO {
	result := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		result[i] = toBookingDTO(b)
	}
	return result
}

func toCommentDTO(c *item.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Text:       c.Text(),
		AuthorName: c.AuthorName(),
		Created:    NewLocalDateTime(c.Created()),
	}
}

func toSummaryDTO(s *booking.Summary) *BookingSummaryDTO {
	if s == nil {
		return nil
	}
	return &BookingSummaryDTO{ID: s.ID, BookerID: s.BookerID}
}

func toItemInfoDTO(it *item.Item, availability booking.Availability, comments []*item.Comment) ItemInfoDTO {
	info := ItemInfoDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
		LastBooking: toSummaryDTO(availability.Last),
		NextBooking: toSummaryDTO(availability.Next),
		Comments:    []CommentDTO{},
	}
	for _, c := range comments {
		if c.ItemID() == it.ID() {
			info.Comments = append(info.Comments, toCommentDTO(c))
		}
	}
	return info
}

func toItemRequestDTO(r *request.ItemRequest, answers []*item.Item) ItemRequestDTO {
	dto := ItemRequestDTO{
		ID:          r.ID(),
		Description: r.Description(),
		Created:     NewLocalDateTime(r.Created()),
		Items:       []ItemDTO{},
	}
	for _, it := range answers {
		if it.RequestID() != nil && *it.RequestID() == r.ID() {
			dto.Items = append(dto.Items, toItemDTO(it))
		}
	}
	return dto
}
