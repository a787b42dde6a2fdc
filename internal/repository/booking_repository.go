package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shareit-app/shareit/internal/domain"
	bookingDomain "github.com/shareit-app/shareit/internal/domain/booking"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	StartTime time.Time `gorm:"column:start_time;not null"`
	EndTime   time.Time `gorm:"column:end_time;not null"`
	ItemID    int64     `gorm:"not null;index"`
	Item      ItemModel `gorm:"foreignKey:ItemID"`
	BookerID  int64     `gorm:"not null;index"`
	Booker    UserModel `gorm:"foreignKey:BookerID"`
	Status    string    `gorm:"size:20;not null;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) withRelations(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Preload("Item").Preload("Booker")
}

// FindByID retrieves a booking with its item and booker.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	return r.findOne(ctx, r.withRelations(ctx), id)
}

// FindByIDForUpdate retrieves a booking and holds a row lock on it until the transaction
// bound to ctx ends.
func (r *GormBookingRepository) FindByIDForUpdate(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	return r.findOne(ctx, r.withRelations(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormBookingRepository) findOne(_ context.Context, q *gorm.DB, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := q.Where("bookings.id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id)
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// Find lists the bookings of one party filtered by state, newest start first.
func (r *GormBookingRepository) Find(ctx context.Context, q bookingDomain.Query) ([]*bookingDomain.Booking, error) {
	db := r.withRelations(ctx)

	switch q.Party {
	case bookingDomain.PartyBooker:
		db = db.Where("booker_id = ?", q.UserID)
	case bookingDomain.PartyOwner:
		owned := conn(ctx, r.db).Model(&ItemModel{}).Select("id").Where("owner_id = ?", q.UserID)
		db = db.Where("item_id IN (?)", owned)
	default:
		return nil, fmt.Errorf("unknown booking party: %d", q.Party)
	}

	now := q.Now.UTC()
	switch q.State {
	case bookingDomain.StateAll:
	case bookingDomain.StatePast:
		db = db.Where("end_time < ? AND start_time < end_time", now)
	case bookingDomain.StateFuture:
		db = db.Where("start_time > ? AND start_time < end_time", now)
	case bookingDomain.StateCurrent:
		db = db.Where("start_time < ? AND end_time > ?", now, now)
	case bookingDomain.StateWaiting:
		db = db.Where("status = ?", string(bookingDomain.StatusWaiting))
	case bookingDomain.StateRejected:
		db = db.Where("status = ?", string(bookingDomain.StatusRejected))
	default:
		return nil, domain.NewUnsupportedStatusError(string(q.State))
	}

	var models []BookingModel
	if err := db.
		Order("start_time DESC").
		Order("id DESC").
		Offset(q.Page.Offset).
		Limit(q.Page.Limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindByItemIDs retrieves every booking on the given items.
func (r *GormBookingRepository) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*bookingDomain.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var models []BookingModel
	if err := r.withRelations(ctx).
		Where("item_id IN ?", itemIDs).
		Order("start_time ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find item bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindApprovedByBookerAndItem retrieves the booker's approved bookings of one item.
func (r *GormBookingRepository) FindApprovedByBookerAndItem(ctx context.Context, bookerID, itemID int64) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.withRelations(ctx).
		Where("booker_id = ? AND item_id = ? AND status = ?", bookerID, itemID, string(bookingDomain.StatusApproved)).
		Order("end_time ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find approved bookings: %w", err)
	}
	return toDomainBookings(models)
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	model := toBookingModel(bk)
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}
	return bk.WithID(model.ID), nil
}

// Update persists a status change with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	// The decision already bumped the version; the row must still hold the previous one.
	expectedVersion := bk.Version() - 1
	result := conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", bk.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"status":     string(bk.Status()),
			"version":    bk.Version(),
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		StartTime: bk.Start().UTC(),
		EndTime:   bk.End().UTC(),
		ItemID:    bk.Item().ID(),
		BookerID:  bk.Booker().ID(),
		Status:    string(bk.Status()),
		Version:   bk.Version(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.StartTime.UTC(),
		m.EndTime.UTC(),
		toItemDomain(&m.Item),
		toUserDomain(&m.Booker),
		status,
		m.Version,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
