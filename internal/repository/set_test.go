package repository

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInTxCommits(t *testing.T) {
	t.Parallel()

	repos := setupTestSet(t)
	ctx := context.Background()
	author := createTestUser(t, repos, "writer")

	var postID uint
	err := repos.InTx(ctx, func(tx *Set) error {
		post := &models.Post{AuthorID: author.ID, Title: "Atomic", Body: "all or nothing"}
		if err := tx.Posts.Create(ctx, post); err != nil {
			return err
		}
		postID = post.ID
		tag := &models.Tag{Name: "TX"}
		if err := tx.Tags.Create(ctx, tag); err != nil {
			return err
		}
		return tx.PostTags.Associate(ctx, post.ID, tag.ID)
	})
	require.NoError(t, err)

	post, err := repos.Posts.Get(ctx, postID)
	require.NoError(t, err)
	tagIDs, err := repos.PostTags.TagIDsForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, tagIDs, 1)
}

func TestInTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	repos := setupTestSet(t)
	ctx := context.Background()
	author := createTestUser(t, repos, "writer")

	boom := errors.New("boom")
	var postID uint
	err := repos.InTx(ctx, func(tx *Set) error {
		post := &models.Post{AuthorID: author.ID, Title: "Doomed", Body: "never lands"}
		if err := tx.Posts.Create(ctx, post); err != nil {
			return err
		}
		postID = post.ID
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NotZero(t, postID, "the insert ran inside the transaction")

	_, err = repos.Posts.GetAny(ctx, postID)
	assert.True(t, models.IsNotFound(err), "rollback leaves no trace of the post")
}
