// Package store is the record store: typed CRUD over gorm with pagination,
// partial updates, and soft-delete aware reads.
//
// Soft deletion is handled by the models' soft_delete flag field, so every
// read, update, and preload issued here already filters is_deleted = 0.
// Callers bypass the filter explicitly with Unscoped.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
	ErrTimeout   = errors.New("operation timed out")
)

const uniqueViolation = "23505"

// Scope narrows a query.
type Scope = func(*gorm.DB) *gorm.DB

// ByID filters on the primary key.
func ByID(id uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

// Where is a plain condition scope.
func Where(query string, args ...any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
// Dialects without row locks (SQLite) drop the clause.
func ForUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Unscoped disables the soft-delete filter.
func Unscoped(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

// FindPage returns one page of rows, newest id first. A page past the end
// of the data is an empty slice.
func FindPage[T any](ctx context.Context, db *gorm.DB, page Page, scopes ...Scope) ([]T, error) {
	rows := make([]T, 0, page.Size)
	err := db.WithContext(ctx).
		Scopes(scopes...).
		Order("id DESC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, Translate(err)
	}
	return rows, nil
}

// FindOne returns the first row matching the scopes or ErrNotFound.
func FindOne[T any](ctx context.Context, db *gorm.DB, scopes ...Scope) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Scopes(scopes...).First(&row).Error; err != nil {
		return nil, Translate(err)
	}
	return &row, nil
}

// FindByID is FindOne on the primary key.
func FindByID[T any](ctx context.Context, db *gorm.DB, id uint, scopes ...Scope) (*T, error) {
	return FindOne[T](ctx, db, append(scopes, ByID(id))...)
}

// Insert creates rec and fills its generated id.
func Insert[T any](ctx context.Context, db *gorm.DB, rec *T) error {
	return Translate(db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error)
}

// InsertMany creates all recs in one statement.
func InsertMany[T any](ctx context.Context, db *gorm.DB, recs []T) error {
	if len(recs) == 0 {
		return nil
	}
	return Translate(db.WithContext(ctx).Omit(clause.Associations).Create(&recs).Error)
}

// UpdatePartial writes only the columns present in patch and returns the
// row as stored afterwards.
func UpdatePartial[T any](ctx context.Context, db *gorm.DB, id uint, patch Patch) (*T, error) {
	if !patch.Empty() {
		res := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(map[string]any(patch))
		if res.Error != nil {
			return nil, Translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return FindByID[T](ctx, db, id)
}

// SoftDelete flags the row as deleted. A row that is missing or already
// deleted yields ErrNotFound.
func SoftDelete[T any](ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HardDelete physically removes the row.
func HardDelete[T any](ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Unscoped().Delete(new(T), id)
	if res.Error != nil {
		return Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Transaction runs fn atomically. An error or panic from fn rolls back.
func Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return Translate(db.WithContext(ctx).Transaction(fn))
}

// Translate maps driver and gorm errors onto the store's sentinels.
// Errors it does not recognise are returned unchanged.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicate), errors.Is(err, ErrTimeout):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case isDuplicate(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return true
	}
	return false
}
