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

func TestAdminLogin(t *testing.T) {
	s, _, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	ctx := context.Background()

	got, err := s.Admins.Login(ctx, dto.LoginInput{Email: "OPS@example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	_, wrongPassword := s.Admins.Login(ctx, dto.LoginInput{Email: "ops@example.com", Password: "nope"})
	_, unknownEmail := s.Admins.Login(ctx, dto.LoginInput{Email: "who@example.com", Password: "nope"})
	for _, err := range []error{wrongPassword, unknownEmail} {
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
		assert.Equal(t, msgBadCredentials, err.(*apperr.Error).Message)
	}
}

func TestAdminStoreDefaults(t *testing.T) {
	s, _, _ := setup(t)
	admin, err := s.Admins.Store(context.Background(), dto.AdminCreateInput{
		Name: "New", Email: "new@example.com", PhoneNumber: "1", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, models.StatusPending, admin.Status)
	assert.False(t, admin.IsSuperAdmin())

	_, err = s.Admins.Store(context.Background(), dto.AdminCreateInput{
		Name: "Dup", Email: "new@example.com", PhoneNumber: "1", Password: "secret123",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestAdminChangePassword(t *testing.T) {
	s, _, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	ctx := context.Background()

	err := s.Admins.ChangePassword(ctx, admin.ID, dto.ChangePasswordInput{OldPassword: "bad", NewPassword: "fresh123"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	err = s.Admins.ChangePassword(ctx, admin.ID, dto.ChangePasswordInput{OldPassword: "secret123", NewPassword: "secret123"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Contains(t, err.(*apperr.Error).Fields, "newPassword")

	require.NoError(t, s.Admins.ChangePassword(ctx, admin.ID, dto.ChangePasswordInput{OldPassword: "secret123", NewPassword: "fresh123"}))
	_, err = s.Admins.Login(ctx, dto.LoginInput{Email: "ops@example.com", Password: "fresh123"})
	assert.NoError(t, err)
}

func TestAdminUpdateAndHardDelete(t *testing.T) {
	s, db, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	createRoute(t, s, admin.ID, "Depot", "Market")
	ctx := context.Background()

	updated, err := s.Admins.Update(ctx, admin.ID, dto.AdminUpdateInput{Company: ptr("Acme Logistics")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Logistics", updated.Company)
	assert.Equal(t, admin.Name, updated.Name)

	require.NoError(t, s.Admins.Delete(ctx, admin.ID))
	assert.True(t, apperr.Is(s.Admins.Delete(ctx, admin.ID), apperr.KindNotFound))

	var routes, stops int64
	require.NoError(t, db.Unscoped().Model(&models.Route{}).Count(&routes).Error)
	require.NoError(t, db.Unscoped().Model(&models.Stop{}).Count(&stops).Error)
	assert.Zero(t, routes)
	assert.Zero(t, stops)

	_, err = s.Admins.Authenticate(ctx, admin.ID)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	rows, err := s.Admins.GetAll(ctx, store.NewPage(1, 10, 0))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
