package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"route_dispatch/internal/models"
	"route_dispatch/internal/testdb"
)

func seedAdmin(t *testing.T, db *gorm.DB) models.Admin {
	t.Helper()
	admin := models.Admin{Name: "Owner", Email: "owner@example.com", PhoneNumber: "0700000000", Password: "x"}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func seedUsers(t *testing.T, db *gorm.DB, adminID uint, n int) []models.User {
	t.Helper()
	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{
			AdminID:     adminID,
			Name:        fmt.Sprintf("driver-%02d", i+1),
			PhoneNumber: "0711111111",
			Email:       fmt.Sprintf("driver%02d@example.com", i+1),
			Password:    "x",
		}
	}
	require.NoError(t, InsertMany(context.Background(), db, users))
	return users
}

func TestFindPageOrdersByIDDescending(t *testing.T) {
	db := testdb.Open(t)
	admin := seedAdmin(t, db)
	users := seedUsers(t, db, admin.ID, 25)
	ctx := context.Background()

	page, err := FindPage[models.User](ctx, db, NewPage(2, 10, 0))
	require.NoError(t, err)
	require.Len(t, page, 10)
	// 25 rows newest first: page 2 holds the 11th..20th newest.
	for i, u := range page {
		assert.Equal(t, users[len(users)-11-i].ID, u.ID)
	}

	last, err := FindPage[models.User](ctx, db, NewPage(3, 10, 0))
	require.NoError(t, err)
	assert.Len(t, last, 5)

	beyond, err := FindPage[models.User](ctx, db, NewPage(4, 10, 0))
	require.NoError(t, err)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)

	huge, err := FindPage[models.User](ctx, db, NewPage(math.MaxInt/2+1, 4, 0))
	require.NoError(t, err)
	assert.Empty(t, huge)
}

func TestSoftDeleteHidesRowAndSecondDeleteIsNotFound(t *testing.T) {
	db := testdb.Open(t)
	admin := seedAdmin(t, db)
	users := seedUsers(t, db, admin.ID, 2)
	ctx := context.Background()

	require.NoError(t, SoftDelete[models.User](ctx, db, users[0].ID))
	assert.ErrorIs(t, SoftDelete[models.User](ctx, db, users[0].ID), ErrNotFound)

	_, err := FindByID[models.User](ctx, db, users[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	hidden, err := FindByID[models.User](ctx, db, users[0].ID, Unscoped)
	require.NoError(t, err)
	assert.EqualValues(t, 1, hidden.IsDeleted)

	rows, err := FindPage[models.User](ctx, db, NewPage(1, 10, 0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, users[1].ID, rows[0].ID)
}

func TestUpdatePartialWritesOnlyPresentColumns(t *testing.T) {
	db := testdb.Open(t)
	admin := seedAdmin(t, db)
	user := seedUsers(t, db, admin.ID, 1)[0]
	ctx := context.Background()

	name := "renamed"
	var phone *string
	patch := Patch{}
	Set(patch, "name", &name)
	Set(patch, "phone_number", phone)
	assert.Len(t, patch, 1)

	got, err := UpdatePartial[models.User](ctx, db, user.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, user.PhoneNumber, got.PhoneNumber)
	assert.Equal(t, user.Email, got.Email)

	unchanged, err := UpdatePartial[models.User](ctx, db, user.ID, Patch{})
	require.NoError(t, err)
	assert.Equal(t, "renamed", unchanged.Name)

	_, err = UpdatePartial[models.User](ctx, db, 9999, patch)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePartialSkipsSoftDeletedRows(t *testing.T) {
	db := testdb.Open(t)
	admin := seedAdmin(t, db)
	user := seedUsers(t, db, admin.ID, 1)[0]
	ctx := context.Background()

	require.NoError(t, SoftDelete[models.User](ctx, db, user.ID))
	_, err := UpdatePartial[models.User](ctx, db, user.ID, Patch{"name": "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHardDeleteCascadesThroughForeignKeys(t *testing.T) {
	db := testdb.Open(t)
	admin := seedAdmin(t, db)
	seedUsers(t, db, admin.ID, 3)
	ctx := context.Background()

	require.NoError(t, HardDelete[models.Admin](ctx, db, admin.ID))
	assert.ErrorIs(t, HardDelete[models.Admin](ctx, db, admin.ID), ErrNotFound)

	var n int64
	require.NoError(t, db.Unscoped().Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestInsertDuplicateEmailIsErrDuplicate(t *testing.T) {
	db := testdb.Open(t)
	seedAdmin(t, db)

	dup := models.Admin{Name: "Other", Email: "owner@example.com", PhoneNumber: "1", Password: "x"}
	err := Insert(context.Background(), db, &dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := testdb.Open(t)
	admin := seedAdmin(t, db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := Transaction(ctx, db, func(tx *gorm.DB) error {
		u := models.User{AdminID: admin.ID, Name: "temp", PhoneNumber: "1", Email: "temp@example.com", Password: "x"}
		if err := Insert(ctx, tx, &u); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, Translate(nil))
	assert.ErrorIs(t, Translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, Translate(gorm.ErrDuplicatedKey), ErrDuplicate)
	assert.ErrorIs(t, Translate(&pgconn.PgError{Code: "23505"}), ErrDuplicate)
	assert.ErrorIs(t, Translate(&pq.Error{Code: "23505"}), ErrDuplicate)
	assert.ErrorIs(t, Translate(fmt.Errorf("query: %w", context.DeadlineExceeded)), ErrTimeout)

	other := errors.New("disk on fire")
	assert.Same(t, other, Translate(other))
}

func TestTranslateTimeoutFromExpiredContext(t *testing.T) {
	db := testdb.Open(t)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := FindPage[models.User](ctx, db, NewPage(1, 10, 0))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestNewPage(t *testing.T) {
	cases := []struct {
		name            string
		number, size    int
		max             int
		wantNum, wantSz int
		wantOffset      int
	}{
		{"defaults", 0, 0, 0, 1, 10, 0},
		{"negative", -3, -1, 0, 1, 10, 0},
		{"second page", 2, 10, 0, 2, 10, 10},
		{"clamped to configured max", 1, 500, 50, 1, 50, 0},
		{"clamped to package max", 3, 1000, 0, 3, MaxPageSize, 2 * MaxPageSize},
		{"number capped before offset overflows", math.MaxInt/2 + 1, 4, 0, math.MaxInt / 4, 4, (math.MaxInt/4 - 1) * 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPage(tc.number, tc.size, tc.max)
			assert.Equal(t, tc.wantNum, p.Number)
			assert.Equal(t, tc.wantSz, p.Size)
			assert.Equal(t, tc.wantOffset, p.Offset())
		})
	}
}
