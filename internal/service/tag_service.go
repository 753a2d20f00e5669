// Package service implements the caller-facing operation surface over the
// repository layer. All validation happens here, before any store round trip.
package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// TagService manages tags and their frequency ranking.
type TagService struct {
	repos *repository.Set
}

// NewTagService returns a new TagService.
func NewTagService(repos *repository.Set) *TagService {
	return &TagService{repos: repos}
}

// GetOrCreate upserts a tag by name. Names are normalized before lookup, so
// "Rust", "rust" and "RUST" all resolve to the same row; creating an
// existing name returns the existing tag instead of inserting a duplicate.
func (s *TagService) GetOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	return upsertTag(ctx, s.repos, name)
}

// upsertTag is the shared dedup-on-create path, also used inside post
// transactions with a tx-bound repository set. The lookup spans deleted rows
// because a soft-deleted tag still owns the unique index on name; reusing
// the name revives that row instead of colliding with it.
func upsertTag(ctx context.Context, repos *repository.Set, name string) (*models.Tag, error) {
	normalized := models.NormalizeTagName(name)
	if normalized == "" {
		return nil, models.NewValidationError("tag name is required")
	}

	existing, err := repos.Tags.FindOneBy(ctx, repository.TagColumnName, normalized, true)
	if err != nil && !models.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return reviveOrReturn(ctx, repos, existing)
	}

	tag := &models.Tag{Name: normalized}
	if err := repos.Tags.Create(ctx, tag); err != nil {
		// Lost a race against a concurrent creator; their row wins.
		if models.IsConflict(err) {
			winner, lookupErr := repos.Tags.FindOneBy(ctx, repository.TagColumnName, normalized, true)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return reviveOrReturn(ctx, repos, winner)
		}
		return nil, err
	}
	return tag, nil
}

func reviveOrReturn(ctx context.Context, repos *repository.Set, tag *models.Tag) (*models.Tag, error) {
	if !tag.Deleted() {
		return tag, nil
	}
	restored, err := repos.Tags.Restore(ctx, tag.ID)
	if err != nil {
		return nil, err
	}
	cache.InvalidateTopTags(ctx)
	return restored, nil
}

// Get returns a live tag by id.
func (s *TagService) Get(ctx context.Context, id uint) (*models.Tag, error) {
	return s.repos.Tags.Get(ctx, id)
}

// List returns one page of live tags, newest first.
func (s *TagService) List(ctx context.Context, page, pageSize int) ([]models.Tag, error) {
	return s.repos.Tags.List(ctx, page, pageSize)
}

// Rename updates a tag's name, keeping it normalized.
func (s *TagService) Rename(ctx context.Context, id uint, name string) (*models.Tag, error) {
	normalized := models.NormalizeTagName(name)
	if normalized == "" {
		return nil, models.NewValidationError("tag name is required")
	}
	tag, err := s.repos.Tags.Update(ctx, id, &models.Tag{Name: normalized})
	if err != nil {
		return nil, err
	}
	cache.InvalidateTopTags(ctx)
	return tag, nil
}

// Delete soft-deletes a tag. Existing associations stay in place but stop
// resolving; ranking ignores them.
func (s *TagService) Delete(ctx context.Context, id uint) (bool, error) {
	deleted, err := s.repos.Tags.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		cache.InvalidateTopTags(ctx)
	}
	return deleted, nil
}

// TopTags returns the limit most-used live tags, most frequent first, ties
// broken by smaller id.
func (s *TagService) TopTags(ctx context.Context, limit int) ([]models.Tag, error) {
	var tags []models.Tag
	err := cache.CacheAside(ctx, cache.TopTagsKey(limit), &tags, cache.TopTagsTTL, func() error {
		ids, err := s.repos.PostTags.TopTags(ctx, limit)
		if err != nil {
			return err
		}
		resolved, err := s.repos.Tags.ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uint]models.Tag, len(resolved))
		for _, t := range resolved {
			byID[t.ID] = t
		}
		tags = tags[:0]
		for _, id := range ids {
			if t, ok := byID[id]; ok {
				tags = append(tags, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}
