package repository

import (
	"context"
	"fmt"
	"time"

	itemDomain "github.com/shareit-app/shareit/internal/domain/item"
	"gorm.io/gorm"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	Text     string    `gorm:"size:1000;not null"`
	ItemID   int64     `gorm:"not null;index"`
	AuthorID int64     `gorm:"not null"`
	Author   UserModel `gorm:"foreignKey:AuthorID"`
	Created  time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (CommentModel) TableName() string { return "comments" }

// GormCommentRepository implements item.CommentRepository using GORM.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// FindByItemIDs returns comments on the given items with their authors loaded, oldest first.
func (r *GormCommentRepository) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*itemDomain.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var models []CommentModel
	if err := conn(ctx, r.db).
		Preload("Author").
		Where("item_id IN ?", itemIDs).
		Order("created ASC, id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}

	comments := make([]*itemDomain.Comment, len(models))
	for i := range models {
		comments[i] = toCommentDomain(&models[i])
	}
	return comments, nil
}

// Save persists a new comment.
func (r *GormCommentRepository) Save(ctx context.Context, c *itemDomain.Comment) (*itemDomain.Comment, error) {
	model := toCommentModel(c)
	if err := conn(ctx, r.db).Omit("Author").Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return c.WithID(model.ID), nil
}

// --- Conversions ---

func toCommentModel(c *itemDomain.Comment) *CommentModel {
	return &CommentModel{
		ID:       c.ID(),
		Text:     c.Text(),
		ItemID:   c.ItemID(),
		AuthorID: c.AuthorID(),
		Created:  c.Created(),
	}
}

func toCommentDomain(m *CommentModel) *itemDomain.Comment {
	return itemDomain.ReconstructComment(m.ID, m.Text, m.ItemID, m.AuthorID, m.Author.Name, m.Created.UTC())
}
