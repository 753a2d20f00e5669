package service

import (
	"context"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// ReviewService manages post ratings and their aggregation.
type ReviewService struct {
	repos *repository.Set
}

// NewReviewService returns a new ReviewService.
func NewReviewService(repos *repository.Set) *ReviewService {
	return &ReviewService{repos: repos}
}

// RateInput carries a rating submission.
type RateInput struct {
	PostID uint
	UserID uint
	Rate   models.Rating
}

// Rate records a user's rating of a post. A user holds one review per post:
// a second submission updates the existing row instead of inserting.
func (s *ReviewService) Rate(ctx context.Context, in RateInput) (*models.Review, error) {
	if !in.Rate.Valid() {
		return nil, models.NewValidationError("rate must be one of ONE..FIVE")
	}
	if _, err := s.repos.Posts.Get(ctx, in.PostID); err != nil {
		return nil, err
	}

	existing, err := s.repos.Reviews.GetByPostAndUser(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	var review *models.Review
	if existing != nil {
		review, err = s.repos.Reviews.Update(ctx, existing.ID, &models.Review{Rate: in.Rate})
	} else {
		review = &models.Review{PostID: in.PostID, UserID: in.UserID, Rate: in.Rate}
		err = s.repos.Reviews.Create(ctx, review)
	}
	if err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, in.PostID)
	return review, nil
}

// ListByPost returns the live reviews of a post.
func (s *ReviewService) ListByPost(ctx context.Context, postID uint) ([]models.Review, error) {
	return s.repos.Reviews.ListByPost(ctx, postID)
}

// Delete soft-deletes a review.
func (s *ReviewService) Delete(ctx context.Context, id uint) (bool, error) {
	review, err := s.repos.Reviews.Get(ctx, id)
	if models.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	deleted, err := s.repos.Reviews.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		cache.InvalidatePost(ctx, review.PostID)
	}
	return deleted, nil
}

// Summary aggregates a post's reviews into the numeric contract.
func (s *ReviewService) Summary(ctx context.Context, postID uint) (models.RatingSummary, error) {
	reviews, err := s.repos.Reviews.ListByPost(ctx, postID)
	if err != nil {
		return models.RatingSummary{}, err
	}
	return Summarize(reviews), nil
}

// Average is the arithmetic mean over the reviews' numeric ratings, 0.0 for
// an empty set.
func Average(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0.0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rate.Value()
	}
	return float64(total) / float64(len(reviews))
}

// Summarize packs the mean and count of a review set.
func Summarize(reviews []models.Review) models.RatingSummary {
	return models.RatingSummary{
		Average: Average(reviews),
		Count:   len(reviews),
	}
}

// Stars renders an average as a star string, adding a half star when the
// fractional part reaches 0.5. Display-only; the numeric contract is
// Summarize.
func Stars(average float64) string {
	full := int(average)
	if full < 0 {
		full = 0
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	if average-float64(full) >= 0.5 && full < 5 {
		b.WriteString("½")
	}
	return b.String()
}
