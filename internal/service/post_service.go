package service

import (
	"context"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// PostService composes posts with their author, tags, comments, and review
// statistics. Multi-entity writes run inside a single transaction so a post
// is never observable without its tag associations.
type PostService struct {
	repos *repository.Set
}

// NewPostService returns a new PostService.
func NewPostService(repos *repository.Set) *PostService {
	return &PostService{repos: repos}
}

// CreatePostInput carries a publish request. Tags is treated as a set:
// names are normalized and duplicates collapse.
type CreatePostInput struct {
	AuthorID uint
	Title    string
	Body     string
	Tags     []string
}

// Create publishes a post and attaches its tag set, upserting each tag by
// the case-insensitive dedup rule. The post row, tag upserts, and
// associations commit or roll back together.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "post.create")
	defer span.End()

	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateRequired("body", in.Body); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.repos.Users.Get(ctx, in.AuthorID); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: in.AuthorID,
		Title:    strings.TrimSpace(in.Title),
		Body:     in.Body,
	}
	err := s.repos.InTx(ctx, func(tx *repository.Set) error {
		if err := tx.Posts.Create(ctx, post); err != nil {
			return err
		}
		return attachTagSet(ctx, tx, post.ID, in.Tags)
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	span.AddAttributes(attribute.Int("post.id", int(post.ID)))
	cache.InvalidateFeed(ctx)
	cache.InvalidateTopTags(ctx)
	return post, nil
}

// attachTagSet normalizes and dedups tagNames, upserts each tag, and
// associates it with the post.
func attachTagSet(ctx context.Context, tx *repository.Set, postID uint, tagNames []string) error {
	seen := make(map[string]bool, len(tagNames))
	for _, raw := range tagNames {
		normalized := models.NormalizeTagName(raw)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true

		tag, err := upsertTag(ctx, tx, normalized)
		if err != nil {
			return err
		}
		if err := tx.PostTags.Associate(ctx, postID, tag.ID); err != nil {
			return err
		}
	}
	return nil
}

// Update overwrites a post's title and body. Authorship never changes.
func (s *PostService) Update(ctx context.Context, id uint, title, body string) (*models.Post, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateRequired("body", body); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	post, err := s.repos.Posts.Update(ctx, id, &models.Post{
		Title: strings.TrimSpace(title),
		Body:  body,
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, id)
	return post, nil
}

// ReplaceTagSet detaches every tag from the post and attaches the given set
// in one transaction. The replacement is not a diff: equal sets still churn
// the association table, but the detach and reattach commit atomically so
// equal inputs always converge to exactly one association per tag.
func (s *PostService) ReplaceTagSet(ctx context.Context, postID uint, tagNames []string) error {
	span, ctx := observability.NewSpan(ctx, "post.replace_tag_set")
	defer span.End()
	span.AddAttributes(attribute.Int("post.id", int(postID)))

	if _, err := s.repos.Posts.Get(ctx, postID); err != nil {
		return err
	}
	err := s.repos.InTx(ctx, func(tx *repository.Set) error {
		if err := tx.PostTags.RemoveAllForPost(ctx, postID); err != nil {
			return err
		}
		return attachTagSet(ctx, tx, postID, tagNames)
	})
	if err != nil {
		span.SetError(err)
		return err
	}
	cache.InvalidatePost(ctx, postID)
	cache.InvalidateTopTags(ctx)
	return nil
}

// Get returns the live post row alone; LoadDetail resolves the aggregate.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.repos.Posts.Get(ctx, id)
}

// GetAny returns the post even if soft-deleted, for audit or recovery.
func (s *PostService) GetAny(ctx context.Context, id uint) (*models.Post, error) {
	return s.repos.Posts.GetAny(ctx, id)
}

// GetByAuthor returns one page of an author's live posts, newest first.
func (s *PostService) GetByAuthor(ctx context.Context, authorID uint, page, pageSize int) ([]models.Post, error) {
	return s.repos.Posts.ListByAuthor(ctx, authorID, page, pageSize)
}

// Delete soft-deletes a post. Comments, reviews, and associations stay
// stored but stop surfacing through aggregate reads.
func (s *PostService) Delete(ctx context.Context, id uint) (bool, error) {
	deleted, err := s.repos.Posts.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		cache.InvalidatePost(ctx, id)
		cache.InvalidateTopTags(ctx)
	}
	return deleted, nil
}

// Tags resolves the post's live tags.
func (s *PostService) Tags(ctx context.Context, postID uint) ([]models.Tag, error) {
	ids, err := s.repos.PostTags.TagIDsForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.repos.Tags.ListByIDs(ctx, ids)
}

// LoadFeed aggregates one page of live posts. Related entities are fetched
// with one batched query per kind across the whole page, not one round trip
// per post. Feed aggregates omit the comment tree; LoadDetail builds it.
func (s *PostService) LoadFeed(ctx context.Context, page, pageSize int) ([]models.PostAggregate, error) {
	span, ctx := observability.NewSpan(ctx, "post.load_feed")
	defer span.End()

	var feed []models.PostAggregate
	err := cache.CacheAside(ctx, cache.FeedKey(page, pageSize), &feed, cache.FeedTTL, func() error {
		posts, err := s.repos.Posts.List(ctx, page, pageSize)
		if err != nil {
			return err
		}
		aggregates, err := s.aggregate(ctx, posts)
		if err != nil {
			return err
		}
		feed = aggregates
		return nil
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int("feed.posts", len(feed)))
	return feed, nil
}

// LoadDetail aggregates a single post, additionally reconstructing the
// comment forest.
func (s *PostService) LoadDetail(ctx context.Context, postID uint) (*models.PostAggregate, error) {
	span, ctx := observability.NewSpan(ctx, "post.load_detail")
	defer span.End()
	span.AddAttributes(attribute.Int("post.id", int(postID)))

	var detail models.PostAggregate
	err := cache.CacheAside(ctx, cache.PostDetailKey(postID), &detail, cache.PostDetailTTL, func() error {
		post, err := s.repos.Posts.Get(ctx, postID)
		if err != nil {
			return err
		}
		aggregates, err := s.aggregate(ctx, []models.Post{*post})
		if err != nil {
			return err
		}
		detail = aggregates[0]
		detail.CommentTree = BuildThread(detail.Comments)
		return nil
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return &detail, nil
}

// aggregate resolves authors, tags, comments, and reviews for the given
// posts with one query per entity kind.
func (s *PostService) aggregate(ctx context.Context, posts []models.Post) ([]models.PostAggregate, error) {
	if len(posts) == 0 {
		return []models.PostAggregate{}, nil
	}

	postIDs := make([]uint, 0, len(posts))
	authorIDSet := make(map[uint]bool, len(posts))
	authorIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if !authorIDSet[p.AuthorID] {
			authorIDSet[p.AuthorID] = true
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	authors, err := s.repos.Users.ListByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	authorByID := make(map[uint]models.User, len(authors))
	for _, u := range authors {
		u.Password = ""
		authorByID[u.ID] = u
	}

	ptRows, err := s.repos.PostTags.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	tagIDSet := make(map[uint]bool)
	tagIDs := make([]uint, 0)
	for _, row := range ptRows {
		if !tagIDSet[row.TagID] {
			tagIDSet[row.TagID] = true
			tagIDs = append(tagIDs, row.TagID)
		}
	}
	tags, err := s.repos.Tags.ListByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	tagByID := make(map[uint]models.Tag, len(tags))
	for _, t := range tags {
		tagByID[t.ID] = t
	}
	tagsByPost := make(map[uint][]models.Tag, len(posts))
	for _, row := range ptRows {
		if t, ok := tagByID[row.TagID]; ok {
			tagsByPost[row.PostID] = append(tagsByPost[row.PostID], t)
		}
	}

	comments, err := s.repos.Comments.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	commentsByPost := make(map[uint][]models.Comment)
	for _, c := range comments {
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], c)
	}

	reviews, err := s.repos.Reviews.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	reviewsByPost := make(map[uint][]models.Review)
	for _, r := range reviews {
		reviewsByPost[r.PostID] = append(reviewsByPost[r.PostID], r)
	}

	aggregates := make([]models.PostAggregate, 0, len(posts))
	for _, p := range posts {
		agg := models.PostAggregate{
			Post:     p,
			Tags:     tagsByPost[p.ID],
			Comments: commentsByPost[p.ID],
			Reviews:  reviewsByPost[p.ID],
			Rating:   Summarize(reviewsByPost[p.ID]),
		}
		// A soft-deleted author leaves the aggregate authorless rather
		// than failing the read.
		if author, ok := authorByID[p.AuthorID]; ok {
			agg.Author = &author
		}
		aggregates = append(aggregates, agg)
	}
	return aggregates, nil
}
