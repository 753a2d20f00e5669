package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Columns reviews can be looked up by.
const (
	ReviewColumnPostID Column = "post_id"
	ReviewColumnUserID Column = "user_id"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Get(ctx context.Context, id uint) (*models.Review, error)
	GetAny(ctx context.Context, id uint) (*models.Review, error)
	List(ctx context.Context, page, pageSize int) ([]models.Review, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Review, error)
	ListByPostIDs(ctx context.Context, postIDs []uint) ([]models.Review, error)
	GetByPostAndUser(ctx context.Context, postID, userID uint) (*models.Review, error)
	Update(ctx context.Context, id uint, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, id uint) (bool, error)
	FindBy(ctx context.Context, column Column, value interface{}, includeDeleted bool) ([]models.Review, error)
	FindOneBy(ctx context.Context, column Column, value interface{}, includeDeleted bool) (*models.Review, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type reviewRepository struct {
	*Store[models.Review]
	db *gorm.DB
}

// NewReviewRepository returns a new ReviewRepository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{
		Store: NewStore[models.Review](db, "Review", ReviewColumnPostID, ReviewColumnUserID),
		db:    db,
	}
}

func (r *reviewRepository) ListByPost(ctx context.Context, postID uint) ([]models.Review, error) {
	return r.FindBy(ctx, ReviewColumnPostID, postID, false)
}

func (r *reviewRepository) ListByPostIDs(ctx context.Context, postIDs []uint) ([]models.Review, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var reviews []models.Review
	if err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&reviews).Error; err != nil {
		return nil, r.wrap(err)
	}
	return reviews, nil
}

// GetByPostAndUser returns the live review the user holds on the post, or
// nil, nil when the user has not rated it yet. More than one live row is a
// data-integrity fault.
func (r *reviewRepository) GetByPostAndUser(ctx context.Context, postID, userID uint) (*models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Limit(2).
		Find(&reviews).Error
	if err != nil {
		return nil, r.wrap(err)
	}
	switch len(reviews) {
	case 0:
		return nil, nil
	case 1:
		return &reviews[0], nil
	default:
		return nil, models.NewMultipleMatchesError("Review", "post_id,user_id", postID)
	}
}

func (r *reviewRepository) Update(ctx context.Context, id uint, review *models.Review) (*models.Review, error) {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"rate": review.Rate,
	})
}

func (r *reviewRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return r.CountBy(ctx, ReviewColumnUserID, userID)
}
