package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/dto"
	"route_dispatch/internal/models"
	"route_dispatch/internal/store"
)

func newUser(adminID uint, email string) dto.UserCreateInput {
	return dto.UserCreateInput{
		AdminID:     adminID,
		Name:        "Driver",
		Email:       email,
		Password:    "drive123",
		PhoneNumber: "0711222333",
	}
}

func TestUserStoreHashesPasswordAndChecksAdmin(t *testing.T) {
	s, _, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	ctx := context.Background()

	user, err := s.Users.Store(ctx, newUser(admin.ID, "Driver@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "driver@example.com", user.Email)
	assert.NotEqual(t, "drive123", user.Password)
	assert.True(t, checkPassword(user.Password, "drive123"))

	_, err = s.Users.Store(ctx, newUser(999, "lost@example.com"))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUserDuplicateEmailIsConflict(t *testing.T) {
	s, _, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	ctx := context.Background()

	_, err := s.Users.Store(ctx, newUser(admin.ID, "driver@example.com"))
	require.NoError(t, err)
	_, err = s.Users.Store(ctx, newUser(admin.ID, "driver@example.com"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, msgEmailInUse, err.(*apperr.Error).Message)
}

func TestUserSoftDeleteTwiceIsNotFound(t *testing.T) {
	s, _, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	user, err := s.Users.Store(context.Background(), newUser(admin.ID, "driver@example.com"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Users.Delete(ctx, user.ID))
	assert.True(t, apperr.Is(s.Users.Delete(ctx, user.ID), apperr.KindNotFound))

	_, err = s.Users.GetOne(ctx, user.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = s.Users.Login(ctx, dto.LoginInput{Email: "driver@example.com", Password: "drive123"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestUserLoginAndUpdate(t *testing.T) {
	s, _, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	user, err := s.Users.Store(context.Background(), newUser(admin.ID, "driver@example.com"))
	require.NoError(t, err)
	ctx := context.Background()

	got, err := s.Users.Login(ctx, dto.LoginInput{Email: "driver@example.com", Password: "drive123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.Users.Login(ctx, dto.LoginInput{Email: "driver@example.com", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	updated, err := s.Users.Update(ctx, user.ID, dto.UserUpdateInput{Name: ptr("Renamed"), Password: ptr("newpass1")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "0711222333", updated.PhoneNumber)
	assert.True(t, checkPassword(updated.Password, "newpass1"))
}

func TestUsersByAdmin(t *testing.T) {
	s, _, _ := setup(t)
	a := seedAdmin(t, s, "a@example.com", models.RoleAdmin)
	b := seedAdmin(t, s, "b@example.com", models.RoleAdmin)
	ctx := context.Background()
	for _, email := range []string{"a1@example.com", "a2@example.com"} {
		_, err := s.Users.Store(ctx, newUser(a.ID, email))
		require.NoError(t, err)
	}
	_, err := s.Users.Store(ctx, newUser(b.ID, "b1@example.com"))
	require.NoError(t, err)

	rows, err := s.Users.GetAllByAdmin(ctx, a.ID, store.NewPage(1, 10, 0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a2@example.com", rows[0].Email)

	all, err := s.Users.GetAll(ctx, store.NewPage(1, 10, 0))
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
