package repository

import (
	"context"
	"fmt"
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func setupTestSet(t *testing.T) *Set {
	t.Helper()
	return NewSet(setupTestDB(t))
}

func createTestUser(t *testing.T, repos *Set, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-pw",
	}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func createTestPost(t *testing.T, repos *Set, authorID uint, title string) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Title: title, Body: "body of " + title}
	require.NoError(t, repos.Posts.Create(context.Background(), post))
	return post
}

func createTestTag(t *testing.T, repos *Set, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: models.NormalizeTagName(name)}
	require.NoError(t, repos.Tags.Create(context.Background(), tag))
	return tag
}

func createTestComment(t *testing.T, repos *Set, postID, userID uint, body string, parentID *uint) *models.Comment {
	t.Helper()
	comment := &models.Comment{PostID: postID, UserID: userID, Body: body, ParentID: parentID}
	require.NoError(t, repos.Comments.Create(context.Background(), comment))
	return comment
}

func seedUsers(t *testing.T, repos *Set, n int) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, createTestUser(t, repos, fmt.Sprintf("user%04d", i)))
	}
	return users
}
