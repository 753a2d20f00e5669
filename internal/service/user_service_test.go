package service

import (
	"context"
	"testing"

	"inkwell/internal/credentials"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	users := NewUserService(repos, credentials.NewHasher())
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"short username", RegisterInput{Username: "abc", Email: "a@b.com", Password: "hunter2"}},
		{"long username", RegisterInput{Username: "waytoolongusername", Email: "a@b.com", Password: "hunter2"}},
		{"bad email", RegisterInput{Username: "valid", Email: "not-an-email", Password: "hunter2"}},
		{"short password", RegisterInput{Username: "valid", Email: "a@b.com", Password: "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.Register(ctx, tt.input)
			assert.True(t, models.IsValidation(err))
		})
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	users := NewUserService(repos, credentials.NewHasher())
	ctx := context.Background()

	user, err := users.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.Password)
	assert.NotEqual(t, "hunter2", user.Password, "plaintext is never stored")
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	users := NewUserService(repos, credentials.NewHasher())
	ctx := context.Background()

	_, err := users.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "hunter2"})
	require.NoError(t, err)

	_, err = users.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "hunter2"})
	assert.True(t, models.IsConflict(err))
}

func TestLogin(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	users := NewUserService(repos, credentials.NewHasher())
	ctx := context.Background()
	registerTestUser(t, repos, "alice")

	t.Run("success clears the hash", func(t *testing.T) {
		user, err := users.Login(ctx, "alice", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Empty(t, user.Password)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := users.Login(ctx, "alice", "wrong")
		assert.True(t, models.HasCode(err, models.CodeUnauthorized))
	})

	t.Run("unknown username looks identical", func(t *testing.T) {
		_, knownErr := users.Login(ctx, "alice", "wrong")
		_, unknownErr := users.Login(ctx, "nobody", "wrong")
		require.Error(t, unknownErr)
		assert.Equal(t, knownErr.Error(), unknownErr.Error())
	})
}

func TestLoginAfterDelete(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	users := NewUserService(repos, credentials.NewHasher())
	ctx := context.Background()
	user := registerTestUser(t, repos, "alice")

	deleted, err := users.Delete(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = users.Login(ctx, "alice", "hunter2")
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))
}

func TestUpdateProfileKeepsPassword(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	users := NewUserService(repos, credentials.NewHasher())
	ctx := context.Background()
	user := registerTestUser(t, repos, "alice")

	updated, err := users.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Username:  "alicia",
		FirstName: "Alicia",
		LastName:  "Stone",
		Email:     "alicia@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)
	assert.Equal(t, "Alicia Stone", updated.DisplayName())

	_, err = users.Login(ctx, "alicia", "hunter2")
	require.NoError(t, err, "the stored credential survives a profile update")
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	users := NewUserService(repos, credentials.NewHasher())
	ctx := context.Background()
	user := registerTestUser(t, repos, "alice")

	err := users.ChangePassword(ctx, user.ID, "wrong", "newpass")
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))

	require.NoError(t, users.ChangePassword(ctx, user.ID, "hunter2", "newpass"))

	_, err = users.Login(ctx, "alice", "hunter2")
	assert.Error(t, err)
	_, err = users.Login(ctx, "alice", "newpass")
	assert.NoError(t, err)
}

func TestUserStats(t *testing.T) {
	t.Parallel()

	repos := setupTestRepos(t)
	users := NewUserService(repos, credentials.NewHasher())
	comments := NewCommentService(repos)
	reviews := NewReviewService(repos)
	ctx := context.Background()

	author := registerTestUser(t, repos, "author")
	post := publishTestPost(t, repos, author.ID, "First")
	publishTestPost(t, repos, author.ID, "Second")

	_, err := comments.Create(ctx, CreateCommentInput{PostID: post.ID, UserID: author.ID, Body: "self reply"})
	require.NoError(t, err)
	_, err = reviews.Rate(ctx, RateInput{PostID: post.ID, UserID: author.ID, Rate: models.RatingFour})
	require.NoError(t, err)

	stats, err := users.Stats(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.PostCount)
	assert.Equal(t, int64(1), stats.CommentsCount)
	assert.Equal(t, int64(1), stats.ReviewsCount)

	_, err = users.Stats(ctx, 9999)
	assert.True(t, models.IsNotFound(err))
}
