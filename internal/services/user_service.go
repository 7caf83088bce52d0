package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/dto"
	"route_dispatch/internal/models"
	"route_dispatch/internal/store"
)

const msgUserNotFound = "User Not Found"

// UserService manages drivers. Users are soft-deleted.
type UserService struct {
	base
}

func (s *UserService) GetAll(ctx context.Context, page store.Page) ([]models.User, error) {
	rows, err := store.FindPage[models.User](ctx, s.db, page)
	if err != nil {
		return nil, classify(err, msgUserNotFound)
	}
	return rows, nil
}

// GetAllByAdmin lists one admin's users. An unknown admin is NotFound.
func (s *UserService) GetAllByAdmin(ctx context.Context, adminID uint, page store.Page) ([]models.User, error) {
	if _, err := store.FindByID[models.Admin](ctx, s.db, adminID); err != nil {
		return nil, classify(err, msgAdminNotFound)
	}
	rows, err := store.FindPage[models.User](ctx, s.db, page, store.Where("admin_id = ?", adminID))
	if err != nil {
		return nil, classify(err, msgUserNotFound)
	}
	return rows, nil
}

// Owner returns the admin a visible user belongs to.
func (s *UserService) Owner(ctx context.Context, id uint) (uint, error) {
	user, err := s.GetOne(ctx, id)
	if err != nil {
		return 0, err
	}
	return user.AdminID, nil
}

func (s *UserService) GetOne(ctx context.Context, id uint) (*models.User, error) {
	user, err := store.FindByID[models.User](ctx, s.db, id)
	if err != nil {
		return nil, classify(err, msgUserNotFound)
	}
	return user, nil
}

func (s *UserService) Store(ctx context.Context, in dto.UserCreateInput) (*models.User, error) {
	if in.AdminID == 0 {
		return nil, apperr.Validation("Validation failed", map[string]string{"admin_id": "admin_id is required"})
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("could not hash password", err)
	}
	user := models.User{
		AdminID:     in.AdminID,
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
		Email:       normalizeEmail(in.Email),
		Address:     in.Address,
		Password:    hashed,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	err = store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := store.FindByID[models.Admin](ctx, tx, in.AdminID); err != nil {
			return classify(err, msgAdminNotFound)
		}
		return store.Insert(ctx, tx, &user)
	})
	if err != nil {
		return nil, classify(err, msgUserNotFound)
	}
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in dto.UserUpdateInput) (*models.User, error) {
	patch := store.Patch{}
	store.Set(patch, "name", in.Name)
	store.Set(patch, "phone_number", in.PhoneNumber)
	store.Set(patch, "address", in.Address)
	if in.Email != nil {
		patch["email"] = normalizeEmail(*in.Email)
	}
	if in.Password != nil {
		hashed, err := hashPassword(*in.Password)
		if err != nil {
			return nil, apperr.Internal("could not hash password", err)
		}
		patch["password"] = hashed
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	user, err := store.UpdatePartial[models.User](ctx, s.db, id, patch)
	if err != nil {
		return nil, classify(err, msgUserNotFound)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return classify(store.SoftDelete[models.User](ctx, s.db, id), msgUserNotFound)
}

// Login authenticates a driver among the users that are not deleted.
func (s *UserService) Login(ctx context.Context, in dto.LoginInput) (*models.User, error) {
	user, err := store.FindOne[models.User](ctx, s.db, store.Where("email = ?", normalizeEmail(in.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			checkPassword(placeholderHash(), in.Password)
			return nil, apperr.Unauthorized(msgBadCredentials)
		}
		return nil, classify(err, msgUserNotFound)
	}
	if !checkPassword(user.Password, in.Password) {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}
	return user, nil
}

// Authenticate resolves the subject of a user token.
func (s *UserService) Authenticate(ctx context.Context, id uint) (*models.User, error) {
	user, err := store.FindByID[models.User](ctx, s.db, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthorized("User not found")
		}
		return nil, classify(err, msgUserNotFound)
	}
	return user, nil
}
