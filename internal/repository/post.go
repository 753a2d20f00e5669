package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Columns posts can be looked up by.
const (
	PostColumnAuthorID Column = "author_id"
	PostColumnTitle    Column = "title"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Get(ctx context.Context, id uint) (*models.Post, error)
	GetAny(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, page, pageSize int) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, page, pageSize int) ([]models.Post, error)
	Update(ctx context.Context, id uint, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id uint) (bool, error)
	FindBy(ctx context.Context, column Column, value interface{}, includeDeleted bool) ([]models.Post, error)
	FindOneBy(ctx context.Context, column Column, value interface{}, includeDeleted bool) (*models.Post, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

type postRepository struct {
	*Store[models.Post]
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{
		Store: NewStore[models.Post](db, "Post", PostColumnAuthorID, PostColumnTitle),
		db:    db,
	}
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, page, pageSize int) ([]models.Post, error) {
	limit, offset := NormalizePage(page, pageSize)
	posts := make([]models.Post, 0, limit)
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, r.wrap(err)
	}
	return posts, nil
}

// Update overwrites title and body only; authorship never changes here.
func (r *postRepository) Update(ctx context.Context, id uint, post *models.Post) (*models.Post, error) {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"title": post.Title,
		"body":  post.Body,
	})
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return r.CountBy(ctx, PostColumnAuthorID, authorID)
}
