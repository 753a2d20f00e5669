package repository

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB creates a gorm handle backed by sqlmock, for driving driver
// failures that sqlite cannot produce.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestStoreTranslatesConnectionFailure(t *testing.T) {
	t.Parallel()

	gormDB, mock := setupMockDB(t)
	repos := NewSet(gormDB)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnError(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))

	_, err := repos.Users.Get(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreTranslatesUnknownDriverFailure(t *testing.T) {
	t.Parallel()

	gormDB, mock := setupMockDB(t)
	repos := NewSet(gormDB)

	mock.ExpectQuery(`SELECT (.+) FROM "posts"`).
		WillReturnError(errors.New("pq: deadlock detected"))

	_, err := repos.Posts.Get(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}
