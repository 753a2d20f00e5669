package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Columns comments can be looked up by.
const (
	CommentColumnPostID Column = "post_id"
	CommentColumnUserID Column = "user_id"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Get(ctx context.Context, id uint) (*models.Comment, error)
	GetAny(ctx context.Context, id uint) (*models.Comment, error)
	List(ctx context.Context, page, pageSize int) ([]models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	ListByPostIDs(ctx context.Context, postIDs []uint) ([]models.Comment, error)
	Update(ctx context.Context, id uint, comment *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, id uint) (bool, error)
	FindBy(ctx context.Context, column Column, value interface{}, includeDeleted bool) ([]models.Comment, error)
	FindOneBy(ctx context.Context, column Column, value interface{}, includeDeleted bool) (*models.Comment, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type commentRepository struct {
	*Store[models.Comment]
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{
		Store: NewStore[models.Comment](db, "Comment", CommentColumnPostID, CommentColumnUserID),
		db:    db,
	}
}

// ListByPost returns the post's live comments in creation order, the order
// the tree builder expects.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, r.wrap(err)
	}
	return comments, nil
}

func (r *commentRepository) ListByPostIDs(ctx context.Context, postIDs []uint) ([]models.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, r.wrap(err)
	}
	return comments, nil
}

// Update overwrites the body only; a comment never moves between posts or
// parents after creation.
func (r *commentRepository) Update(ctx context.Context, id uint, comment *models.Comment) (*models.Comment, error) {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"body": comment.Body,
	})
}

func (r *commentRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return r.CountBy(ctx, CommentColumnUserID, userID)
}
