package repository

import (
	"context"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// PostTagRepository is the post-tag association store. Join rows have no
// identity beyond the key pair and no soft-delete envelope; detaching
// removes them physically.
type PostTagRepository interface {
	Associate(ctx context.Context, postID, tagID uint) error
	TagIDsForPost(ctx context.Context, postID uint) ([]uint, error)
	PostIDsForTag(ctx context.Context, tagID uint) ([]uint, error)
	ListByPostIDs(ctx context.Context, postIDs []uint) ([]models.PostTag, error)
	RemoveAllForPost(ctx context.Context, postID uint) error
	TopTags(ctx context.Context, limit int) ([]uint, error)
}

type postTagRepository struct {
	db *gorm.DB
}

// NewPostTagRepository returns a new PostTagRepository implementation.
func NewPostTagRepository(db *gorm.DB) PostTagRepository {
	return &postTagRepository{db: db}
}

// Associate inserts the join row. Inserting an existing pair is a caller
// error surfaced as Conflict; silent duplicate associations are never
// allowed to accumulate.
func (r *postTagRepository) Associate(ctx context.Context, postID, tagID uint) error {
	defer r.observe("associate")()
	row := models.PostTag{PostID: postID, TagID: tagID}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("tag is already associated with post")
		}
		return translateError("PostTag", err)
	}
	return nil
}

func (r *postTagRepository) TagIDsForPost(ctx context.Context, postID uint) ([]uint, error) {
	defer r.observe("tag_ids_for_post")()
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.PostTag{}).
		Where("post_id = ?", postID).
		Order("tag_id ASC").
		Pluck("tag_id", &ids).Error
	if err != nil {
		return nil, translateError("PostTag", err)
	}
	return ids, nil
}

func (r *postTagRepository) PostIDsForTag(ctx context.Context, tagID uint) ([]uint, error) {
	defer r.observe("post_ids_for_tag")()
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.PostTag{}).
		Where("tag_id = ?", tagID).
		Order("post_id ASC").
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, translateError("PostTag", err)
	}
	return ids, nil
}

func (r *postTagRepository) ListByPostIDs(ctx context.Context, postIDs []uint) ([]models.PostTag, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	defer r.observe("list_by_post_ids")()
	var rows []models.PostTag
	if err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&rows).Error; err != nil {
		return nil, translateError("PostTag", err)
	}
	return rows, nil
}

// RemoveAllForPost detaches every tag from the post. Used before applying a
// replacement tag set.
func (r *postTagRepository) RemoveAllForPost(ctx context.Context, postID uint) error {
	defer r.observe("remove_all_for_post")()
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.PostTag{}).Error
	if err != nil {
		return translateError("PostTag", err)
	}
	return nil
}

// TopTags returns ids of the limit most-associated live tags, most frequent
// first, ties broken by smaller tag id.
func (r *postTagRepository) TopTags(ctx context.Context, limit int) ([]uint, error) {
	defer r.observe("top_tags")()
	if limit < 1 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("post_tags").
		Joins("JOIN tags ON tags.id = post_tags.tag_id AND tags.deleted_at IS NULL").
		Group("post_tags.tag_id").
		Order("COUNT(*) DESC, post_tags.tag_id ASC").
		Limit(limit).
		Pluck("post_tags.tag_id", &ids).Error
	if err != nil {
		return nil, translateError("PostTag", err)
	}
	return ids, nil
}

func (r *postTagRepository) observe(operation string) func() {
	start := time.Now()
	return func() {
		observability.DatabaseQueryLatency.
			WithLabelValues(operation, "PostTag").
			Observe(time.Since(start).Seconds())
	}
}
