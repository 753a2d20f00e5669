// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// DefaultPageSize is applied whenever a caller passes a non-positive page size.
const DefaultPageSize = 100

// Column names a queryable field of an entity. Every store is constructed
// with the closed set of columns it accepts and rejects anything else, so an
// unsanitized column name can never reach SQL.
type Column string

// NormalizePage clamps 1-based pagination input: page below 1 behaves as
// page 1, a non-positive page size falls back to DefaultPageSize.
func NormalizePage(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// Store is the generic soft-delete CRUD primitive shared by every entity
// repository. T must carry the models.Base envelope; default reads exclude
// soft-deleted rows, the *Any variants include them.
type Store[T any] struct {
	db       *gorm.DB
	resource string
	columns  map[Column]bool
}

// NewStore returns a store for T. resource names the entity in errors and
// metrics; columns is the closed set accepted by FindBy/FindOneBy.
func NewStore[T any](db *gorm.DB, resource string, columns ...Column) *Store[T] {
	allowed := make(map[Column]bool, len(columns))
	for _, c := range columns {
		allowed[c] = true
	}
	return &Store[T]{db: db, resource: resource, columns: allowed}
}

// Create inserts the entity and populates its generated id and timestamps.
func (s *Store[T]) Create(ctx context.Context, entity *T) error {
	defer s.observe("create")()
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return s.wrap(err)
	}
	return nil
}

// Get returns the live row with the given id.
func (s *Store[T]) Get(ctx context.Context, id uint) (*T, error) {
	defer s.observe("get")()
	var entity T
	if err := s.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(s.resource, id)
		}
		return nil, s.wrap(err)
	}
	return &entity, nil
}

// GetAny returns the row with the given id even if soft-deleted. Audit and
// recovery paths use this; everything else goes through Get.
func (s *Store[T]) GetAny(ctx context.Context, id uint) (*T, error) {
	defer s.observe("get_any")()
	var entity T
	if err := s.db.WithContext(ctx).Unscoped().First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(s.resource, id)
		}
		return nil, s.wrap(err)
	}
	return &entity, nil
}

// List returns one page of live rows ordered by creation time descending.
// A page beyond range yields an empty slice, never an error.
func (s *Store[T]) List(ctx context.Context, page, pageSize int) ([]T, error) {
	defer s.observe("list")()
	limit, offset := NormalizePage(page, pageSize)
	entities := make([]T, 0, limit)
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entities).Error
	if err != nil {
		return nil, s.wrap(err)
	}
	return entities, nil
}

// UpdateFields overwrites the given mutable fields on the live row and
// refreshes updated_at. A missing or soft-deleted id yields NotFound; the
// default scope guarantees an update never resurrects a deleted row.
func (s *Store[T]) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (*T, error) {
	defer s.observe("update")()
	res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, s.wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError(s.resource, id)
	}
	return s.Get(ctx, id)
}

// Restore clears the soft-delete mark, returning the row to default reads.
// Unknown ids yield NotFound; restoring a live row is a no-op.
func (s *Store[T]) Restore(ctx context.Context, id uint) (*T, error) {
	defer s.observe("restore")()
	res := s.db.WithContext(ctx).Unscoped().Model(new(T)).
		Where("id = ?", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return nil, s.wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError(s.resource, id)
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes the row. The first call on a live row returns true;
// repeated calls and unknown ids return false without error.
func (s *Store[T]) Delete(ctx context.Context, id uint) (bool, error) {
	defer s.observe("delete")()
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return false, s.wrap(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FindBy returns all rows whose column equals value. The column must belong
// to the store's closed enumeration.
func (s *Store[T]) FindBy(ctx context.Context, column Column, value interface{}, includeDeleted bool) ([]T, error) {
	defer s.observe("find_by")()
	if !s.columns[column] {
		return nil, models.NewValidationError(fmt.Sprintf("%s is not queryable by %q", s.resource, column))
	}
	tx := s.db.WithContext(ctx)
	if includeDeleted {
		tx = tx.Unscoped()
	}
	var entities []T
	if err := tx.Where(fmt.Sprintf("%s = ?", column), value).Find(&entities).Error; err != nil {
		return nil, s.wrap(err)
	}
	return entities, nil
}

// FindOneBy returns the single row whose column equals value, NotFound when
// none matches, and MultipleMatches when several do. The latter signals a
// data-integrity fault and is logged, not resolved.
func (s *Store[T]) FindOneBy(ctx context.Context, column Column, value interface{}, includeDeleted bool) (*T, error) {
	matches, err := s.FindBy(ctx, column, value, includeDeleted)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, models.NewNotFoundError(s.resource, value)
	case 1:
		return &matches[0], nil
	default:
		observability.GlobalLogger.Error("multiple rows match a single-row lookup",
			slog.String("resource", s.resource),
			slog.String("column", string(column)),
			slog.Any("value", value),
			slog.Int("matches", len(matches)),
		)
		return nil, models.NewMultipleMatchesError(s.resource, string(column), value)
	}
}

// CountBy counts live rows whose column equals value.
func (s *Store[T]) CountBy(ctx context.Context, column Column, value interface{}) (int64, error) {
	defer s.observe("count")()
	if !s.columns[column] {
		return 0, models.NewValidationError(fmt.Sprintf("%s is not queryable by %q", s.resource, column))
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(new(T)).
		Where(fmt.Sprintf("%s = ?", column), value).
		Count(&count).Error
	if err != nil {
		return 0, s.wrap(err)
	}
	return count, nil
}

func (s *Store[T]) observe(operation string) func() {
	start := time.Now()
	return func() {
		observability.DatabaseQueryLatency.
			WithLabelValues(operation, s.resource).
			Observe(time.Since(start).Seconds())
	}
}

// wrap translates driver errors into the application taxonomy so gorm
// internals never leak past the repository boundary.
func (s *Store[T]) wrap(err error) error {
	if err == nil {
		return nil
	}
	appErr := translateError(s.resource, err)
	observability.StoreErrors.WithLabelValues(appErr.Code).Inc()
	return appErr
}

func translateError(resource string, err error) *models.AppError {
	switch {
	case isUniqueConstraintError(err):
		return models.NewConflictError(resource + " already exists")
	case isConnectionError(err):
		return models.NewUnavailableError(err)
	default:
		return models.NewInternalError(err)
	}
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite reports
	// "UNIQUE constraint failed".
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// isConnectionError checks if a DB error is a connection/transport failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "i/o timeout")
}
