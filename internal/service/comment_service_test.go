package service

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatComment builds an in-memory comment for tree tests without touching
// the database.
func flatComment(id uint, parentID *uint, createdAt time.Time) models.Comment {
	c := models.Comment{PostID: 1, UserID: 1, Body: "c"}
	c.ID = id
	c.ParentID = parentID
	c.CreatedAt = createdAt
	return c
}

func ptr(id uint) *uint { return &id }

func TestBuildThreadForest(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	comments := []models.Comment{
		flatComment(1, nil, base),
		flatComment(2, ptr(1), base.Add(time.Minute)),
		flatComment(3, ptr(1), base.Add(2*time.Minute)),
		flatComment(4, nil, base.Add(3*time.Minute)),
		flatComment(5, ptr(2), base.Add(4*time.Minute)),
	}

	forest := BuildThread(comments)
	require.Len(t, forest, 2)

	first := forest[0]
	assert.Equal(t, uint(1), first.Comment.ID)
	require.Len(t, first.Replies, 2)
	assert.Equal(t, uint(2), first.Replies[0].Comment.ID)
	assert.Equal(t, uint(3), first.Replies[1].Comment.ID)
	require.Len(t, first.Replies[0].Replies, 1)
	assert.Equal(t, uint(5), first.Replies[0].Replies[0].Comment.ID)

	second := forest[1]
	assert.Equal(t, uint(4), second.Comment.ID)
	assert.Empty(t, second.Replies)
}

func TestBuildThreadDepthCap(t *testing.T) {
	t.Parallel()

	// A pure reply chain 1←2←3←4←5←6: node 4 sits at the depth cap, so 5
	// and 6 flatten onto it as direct replies in creation order.
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	comments := []models.Comment{
		flatComment(1, nil, base),
		flatComment(2, ptr(1), base.Add(time.Minute)),
		flatComment(3, ptr(2), base.Add(2*time.Minute)),
		flatComment(4, ptr(3), base.Add(3*time.Minute)),
		flatComment(5, ptr(4), base.Add(4*time.Minute)),
		flatComment(6, ptr(5), base.Add(5*time.Minute)),
	}

	forest := BuildThread(comments)
	require.Len(t, forest, 1)

	node := forest[0]
	for _, wantID := range []uint{2, 3, 4} {
		require.Len(t, node.Replies, 1)
		node = node.Replies[0]
		assert.Equal(t, wantID, node.Comment.ID)
	}

	require.Len(t, node.Replies, 2, "descendants past the cap flatten here")
	assert.Equal(t, uint(5), node.Replies[0].Comment.ID)
	assert.Equal(t, uint(6), node.Replies[1].Comment.ID)
	assert.Empty(t, node.Replies[0].Replies)
	assert.Empty(t, node.Replies[1].Replies)
}

func TestBuildThreadExcludesOrphans(t *testing.T) {
	t.Parallel()

	// Comment 3 replies to 2, but 2 is absent (soft-deleted): 3 must not
	// surface anywhere, and must not be promoted to top level.
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	comments := []models.Comment{
		flatComment(1, nil, base),
		flatComment(3, ptr(2), base.Add(time.Minute)),
	}

	forest := BuildThread(comments)
	require.Len(t, forest, 1)
	assert.Equal(t, uint(1), forest[0].Comment.ID)
	assert.Empty(t, forest[0].Replies)
}

func TestBuildThreadEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, BuildThread(nil))
}

func TestCommentCreateValidation(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	comments := NewCommentService(repos)
	ctx := context.Background()

	author := registerTestUser(t, repos, "author")
	post := publishTestPost(t, repos, author.ID, "Discussed")
	other := publishTestPost(t, repos, author.ID, "Unrelated")

	t.Run("empty body", func(t *testing.T) {
		_, err := comments.Create(ctx, CreateCommentInput{PostID: post.ID, UserID: author.ID})
		assert.True(t, models.IsValidation(err))
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := comments.Create(ctx, CreateCommentInput{PostID: 9999, UserID: author.ID, Body: "hi"})
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("missing parent", func(t *testing.T) {
		missing := uint(9999)
		_, err := comments.Create(ctx, CreateCommentInput{PostID: post.ID, UserID: author.ID, Body: "hi", ParentID: &missing})
		assert.True(t, models.IsValidation(err))
	})

	t.Run("parent on another post", func(t *testing.T) {
		parent, err := comments.Create(ctx, CreateCommentInput{PostID: other.ID, UserID: author.ID, Body: "over here"})
		require.NoError(t, err)
		_, err = comments.Create(ctx, CreateCommentInput{PostID: post.ID, UserID: author.ID, Body: "hi", ParentID: &parent.ID})
		assert.True(t, models.IsValidation(err))
	})

	t.Run("valid reply", func(t *testing.T) {
		parent, err := comments.Create(ctx, CreateCommentInput{PostID: post.ID, UserID: author.ID, Body: "top"})
		require.NoError(t, err)
		reply, err := comments.Create(ctx, CreateCommentInput{PostID: post.ID, UserID: author.ID, Body: "reply", ParentID: &parent.ID})
		require.NoError(t, err)
		assert.False(t, reply.TopLevel())
	})
}

func TestCommentAuthorOnlyRules(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	comments := NewCommentService(repos)
	ctx := context.Background()

	author := registerTestUser(t, repos, "author")
	stranger := registerTestUser(t, repos, "stranger")
	post := publishTestPost(t, repos, author.ID, "Guarded")

	comment, err := comments.Create(ctx, CreateCommentInput{PostID: post.ID, UserID: author.ID, Body: "mine"})
	require.NoError(t, err)

	_, err = comments.Update(ctx, UpdateCommentInput{CommentID: comment.ID, UserID: stranger.ID, Body: "hijacked"})
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))

	_, err = comments.Delete(ctx, comment.ID, stranger.ID)
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))

	updated, err := comments.Update(ctx, UpdateCommentInput{CommentID: comment.ID, UserID: author.ID, Body: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Body)

	deleted, err := comments.Delete(ctx, comment.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = comments.Delete(ctx, comment.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "deleting an already-deleted comment is a no-op")
}

func TestThreadDropsDeletedSubtree(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	comments := NewCommentService(repos)
	ctx := context.Background()

	author := registerTestUser(t, repos, "author")
	post := publishTestPost(t, repos, author.ID, "Pruned")

	top, err := comments.Create(ctx, CreateCommentInput{PostID: post.ID, UserID: author.ID, Body: "top"})
	require.NoError(t, err)
	mid, err := comments.Create(ctx, CreateCommentInput{PostID: post.ID, UserID: author.ID, Body: "mid", ParentID: &top.ID})
	require.NoError(t, err)
	_, err = comments.Create(ctx, CreateCommentInput{PostID: post.ID, UserID: author.ID, Body: "leaf", ParentID: &mid.ID})
	require.NoError(t, err)

	_, err = comments.Delete(ctx, mid.ID, author.ID)
	require.NoError(t, err)

	forest, err := comments.Thread(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Empty(t, forest[0].Replies, "the deleted reply and its orphaned child drop out")
}
