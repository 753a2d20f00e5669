package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Columns tags can be looked up by.
const (
	TagColumnName Column = "name"
)

// TagRepository defines persistence operations for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	Get(ctx context.Context, id uint) (*models.Tag, error)
	GetAny(ctx context.Context, id uint) (*models.Tag, error)
	List(ctx context.Context, page, pageSize int) ([]models.Tag, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	GetByName(ctx context.Context, normalized string) (*models.Tag, error)
	Update(ctx context.Context, id uint, tag *models.Tag) (*models.Tag, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Restore(ctx context.Context, id uint) (*models.Tag, error)
	FindBy(ctx context.Context, column Column, value interface{}, includeDeleted bool) ([]models.Tag, error)
	FindOneBy(ctx context.Context, column Column, value interface{}, includeDeleted bool) (*models.Tag, error)
}

type tagRepository struct {
	*Store[models.Tag]
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{
		Store: NewStore[models.Tag](db, "Tag", TagColumnName),
		db:    db,
	}
}

func (r *tagRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, r.wrap(err)
	}
	return tags, nil
}

// GetByName looks up a live tag by its stored (normalized) name. Returns
// nil, nil when the tag does not exist; creation paths branch on that.
func (r *tagRepository) GetByName(ctx context.Context, normalized string) (*models.Tag, error) {
	tag, err := r.FindOneBy(ctx, TagColumnName, normalized, false)
	if models.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *tagRepository) Update(ctx context.Context, id uint, tag *models.Tag) (*models.Tag, error) {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"name": tag.Name,
	})
}
