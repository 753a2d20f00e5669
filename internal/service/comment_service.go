package service

import (
	"context"
	"sort"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// MaxThreadDepth caps reply nesting when a comment forest is rendered.
// Top-level comments sit at depth 0; replies nest through depth 3.
// Descendants deeper than the cap are attached, in creation order, to their
// depth-3 ancestor instead of being dropped.
const MaxThreadDepth = 3

// CommentService manages comments and thread reconstruction.
type CommentService struct {
	repos *repository.Set
}

// NewCommentService returns a new CommentService.
func NewCommentService(repos *repository.Set) *CommentService {
	return &CommentService{repos: repos}
}

// CreateCommentInput carries a new comment. ParentID nil means top-level.
type CreateCommentInput struct {
	PostID   uint
	UserID   uint
	Body     string
	ParentID *uint
}

// UpdateCommentInput edits a comment's body.
type UpdateCommentInput struct {
	CommentID uint
	UserID    uint
	Body      string
}

// Create adds a comment. A reply's parent must be a live comment on the
// same post; parents therefore always predate their children and the
// relation cannot form cycles.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Body == "" {
		return nil, models.NewValidationError("body is required")
	}
	if _, err := s.repos.Posts.Get(ctx, in.PostID); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		parent, err := s.repos.Comments.Get(ctx, *in.ParentID)
		if err != nil {
			if models.IsNotFound(err) {
				return nil, models.NewValidationError("parent comment does not exist")
			}
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		UserID:   in.UserID,
		Body:     in.Body,
		ParentID: in.ParentID,
	}
	if err := s.repos.Comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, in.PostID)
	return comment, nil
}

// Update edits a comment's body; only its author may do so.
func (s *CommentService) Update(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if in.Body == "" {
		return nil, models.NewValidationError("body is required")
	}
	comment, err := s.repos.Comments.Get(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("only the author can edit a comment")
	}
	updated, err := s.repos.Comments.Update(ctx, in.CommentID, &models.Comment{Body: in.Body})
	if err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return updated, nil
}

// Delete soft-deletes a comment if userID is its author. Live replies stay
// stored but drop out of the rendered thread while their parent is deleted.
func (s *CommentService) Delete(ctx context.Context, commentID, userID uint) (bool, error) {
	comment, err := s.repos.Comments.Get(ctx, commentID)
	if models.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if comment.UserID != userID {
		return false, models.NewUnauthorizedError("only the author can delete a comment")
	}
	deleted, err := s.repos.Comments.Delete(ctx, commentID)
	if err != nil {
		return false, err
	}
	if deleted {
		cache.InvalidatePost(ctx, comment.PostID)
	}
	return deleted, nil
}

// ListByPost returns the post's live comments in creation order.
func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.repos.Comments.ListByPost(ctx, postID)
}

// Thread returns the post's comment forest.
func (s *CommentService) Thread(ctx context.Context, postID uint) ([]*models.CommentNode, error) {
	comments, err := s.repos.Comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return BuildThread(comments), nil
}

// BuildThread reconstructs a forest from a flat, creation-ordered list of
// live comments. It builds a parentID index once and walks it, so the whole
// reconstruction is O(n log n) in the number of comments. A comment whose
// parent is absent from the list (parent soft-deleted) is orphaned and
// excluded from the forest rather than promoted to top level.
func BuildThread(comments []models.Comment) []*models.CommentNode {
	children := make(map[uint][]models.Comment, len(comments))
	var roots []models.Comment
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	forest := make([]*models.CommentNode, 0, len(roots))
	for _, root := range roots {
		forest = append(forest, buildNode(root, 0, children))
	}
	return forest
}

func buildNode(c models.Comment, depth int, children map[uint][]models.Comment) *models.CommentNode {
	node := &models.CommentNode{Comment: c}
	if depth >= MaxThreadDepth {
		// At the cap: flatten the whole remaining subtree onto this node.
		for _, desc := range descendants(c.ID, children) {
			node.Replies = append(node.Replies, &models.CommentNode{Comment: desc})
		}
		return node
	}
	for _, child := range children[c.ID] {
		node.Replies = append(node.Replies, buildNode(child, depth+1, children))
	}
	return node
}

// descendants collects the full subtree under id, flattened into creation
// order.
func descendants(id uint, children map[uint][]models.Comment) []models.Comment {
	var out []models.Comment
	queue := append([]models.Comment(nil), children[id]...)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		out = append(out, c)
		queue = append(queue, children[c.ID]...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
