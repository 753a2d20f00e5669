package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateDedups(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	tags := NewTagService(repos)
	ctx := context.Background()

	first, err := tags.GetOrCreate(ctx, "Rust")
	require.NoError(t, err)
	assert.Equal(t, "RUST", first.Name)

	for _, variant := range []string{"rust", "RUST", "  rust  "} {
		got, err := tags.GetOrCreate(ctx, variant)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID, "variant %q resolves to the same tag", variant)
	}

	all, err := tags.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetOrCreateRejectsBlank(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	tags := NewTagService(repos)

	for _, name := range []string{"", "   "} {
		_, err := tags.GetOrCreate(context.Background(), name)
		assert.True(t, models.IsValidation(err))
	}
}

func TestGetOrCreateRevivesDeletedTag(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	tags := NewTagService(repos)
	ctx := context.Background()

	original, err := tags.GetOrCreate(ctx, "go")
	require.NoError(t, err)

	deleted, err := tags.Delete(ctx, original.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	// The deleted row still holds the unique name; reusing it must revive
	// the row, not surface a conflict.
	revived, err := tags.GetOrCreate(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, original.ID, revived.ID)
	assert.False(t, revived.Deleted())

	live, err := tags.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "GO", live.Name)
}

func TestPostCreateReusesDeletedTagName(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	tags := NewTagService(repos)
	ctx := context.Background()

	author := registerTestUser(t, repos, "author")
	tag, err := tags.GetOrCreate(ctx, "retired")
	require.NoError(t, err)
	_, err = tags.Delete(ctx, tag.ID)
	require.NoError(t, err)

	post := publishTestPost(t, repos, author.ID, "Second life", "retired")

	posts := NewPostService(repos)
	attached, err := posts.Tags(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, tag.ID, attached[0].ID)
	assert.Equal(t, "RETIRED", attached[0].Name)
}

func TestTagRenameNormalizes(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	tags := NewTagService(repos)
	ctx := context.Background()

	tag, err := tags.GetOrCreate(ctx, "golang")
	require.NoError(t, err)

	renamed, err := tags.Rename(ctx, tag.ID, "  go  ")
	require.NoError(t, err)
	assert.Equal(t, "GO", renamed.Name)
}

func TestTopTagsResolvesInRankOrder(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	tags := NewTagService(repos)
	ctx := context.Background()

	author := registerTestUser(t, repos, "author")
	publishTestPost(t, repos, author.ID, "A", "go", "sql")
	publishTestPost(t, repos, author.ID, "B", "go", "sql")
	publishTestPost(t, repos, author.ID, "C", "go")

	top, err := tags.TopTags(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "GO", top[0].Name)
	assert.Equal(t, "SQL", top[1].Name)
}

func TestTopTagsSkipsDeletedTags(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	tags := NewTagService(repos)
	ctx := context.Background()

	author := registerTestUser(t, repos, "author")
	publishTestPost(t, repos, author.ID, "A", "keep", "drop")

	doomed, err := repos.Tags.GetByName(ctx, "DROP")
	require.NoError(t, err)
	require.NotNil(t, doomed)
	_, err = tags.Delete(ctx, doomed.ID)
	require.NoError(t, err)

	top, err := tags.TopTags(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "KEEP", top[0].Name)
}
