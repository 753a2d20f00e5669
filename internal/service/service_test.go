package service

import (
	"context"
	"testing"

	"inkwell/internal/credentials"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestRepos returns a repository set over a fresh in-memory database.
// The cache client stays nil in tests, so every cached read degrades to a
// direct fetch.
func setupTestRepos(t *testing.T) *repository.Set {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.Entities()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return repository.NewSet(db)
}

func registerTestUser(t *testing.T, repos *repository.Set, username string) *models.User {
	t.Helper()
	users := NewUserService(repos, credentials.NewHasher())
	user, err := users.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	return user
}

func publishTestPost(t *testing.T, repos *repository.Set, authorID uint, title string, tags ...string) *models.Post {
	t.Helper()
	posts := NewPostService(repos)
	post, err := posts.Create(context.Background(), CreatePostInput{
		AuthorID: authorID,
		Title:    title,
		Body:     "body of " + title,
		Tags:     tags,
	})
	require.NoError(t, err)
	return post
}
