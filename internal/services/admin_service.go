package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/dto"
	"route_dispatch/internal/models"
	"route_dispatch/internal/store"
)

const (
	msgAdminNotFound  = "Admin Not Found"
	msgBadCredentials = "Invalid email or password"
)

type AdminService struct {
	base
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks the credentials and returns the admin they belong to.
// Unknown email and wrong password fail identically.
func (s *AdminService) Login(ctx context.Context, in dto.LoginInput) (*models.Admin, error) {
	admin, err := store.FindOne[models.Admin](ctx, s.db, store.Where("email = ?", normalizeEmail(in.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			checkPassword(placeholderHash(), in.Password)
			return nil, apperr.Unauthorized(msgBadCredentials)
		}
		return nil, classify(err, msgAdminNotFound)
	}
	if !checkPassword(admin.Password, in.Password) {
		logrus.WithField("admin_id", admin.ID).Warn("AdminService.Login: wrong password")
		return nil, apperr.Unauthorized(msgBadCredentials)
	}
	return admin, nil
}

// Authenticate resolves the subject of an admin token.
func (s *AdminService) Authenticate(ctx context.Context, id uint) (*models.Admin, error) {
	admin, err := store.FindByID[models.Admin](ctx, s.db, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthorized("Admin not found")
		}
		return nil, classify(err, msgAdminNotFound)
	}
	return admin, nil
}

func (s *AdminService) ChangePassword(ctx context.Context, id uint, in dto.ChangePasswordInput) error {
	admin, err := store.FindByID[models.Admin](ctx, s.db, id)
	if err != nil {
		return classify(err, msgAdminNotFound)
	}
	if !checkPassword(admin.Password, in.OldPassword) {
		return apperr.Unauthorized("Old password is incorrect")
	}
	if in.OldPassword == in.NewPassword {
		return apperr.Validation("New password must differ from the old password", map[string]string{
			"newPassword": "must differ from oldPassword",
		})
	}
	hashed, err := hashPassword(in.NewPassword)
	if err != nil {
		return apperr.Internal("could not hash password", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	_, err = store.UpdatePartial[models.Admin](ctx, s.db, id, store.Patch{"password": hashed})
	return classify(err, msgAdminNotFound)
}

func (s *AdminService) GetAll(ctx context.Context, page store.Page) ([]models.Admin, error) {
	rows, err := store.FindPage[models.Admin](ctx, s.db, page)
	if err != nil {
		return nil, classify(err, msgAdminNotFound)
	}
	return rows, nil
}

func (s *AdminService) GetOne(ctx context.Context, id uint) (*models.Admin, error) {
	admin, err := store.FindByID[models.Admin](ctx, s.db, id)
	if err != nil {
		return nil, classify(err, msgAdminNotFound)
	}
	return admin, nil
}

func (s *AdminService) Store(ctx context.Context, in dto.AdminCreateInput) (*models.Admin, error) {
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("could not hash password", err)
	}
	admin := models.Admin{
		Name:         in.Name,
		PhoneNumber:  in.PhoneNumber,
		Company:      in.Company,
		Address:      in.Address,
		Email:        normalizeEmail(in.Email),
		ProfileImage: in.ProfileImage,
		Password:     hashed,
		Role:         in.Role,
		Status:       in.Status,
	}
	if admin.Role == "" {
		admin.Role = models.RoleAdmin
	}
	if admin.Status == "" {
		admin.Status = models.StatusPending
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := store.Insert(ctx, s.db, &admin); err != nil {
		return nil, classify(err, msgAdminNotFound)
	}
	return &admin, nil
}

func (s *AdminService) Update(ctx context.Context, id uint, in dto.AdminUpdateInput) (*models.Admin, error) {
	patch := store.Patch{}
	store.Set(patch, "name", in.Name)
	store.Set(patch, "phone_number", in.PhoneNumber)
	store.Set(patch, "company", in.Company)
	store.Set(patch, "address", in.Address)
	store.Set(patch, "profile_image", in.ProfileImage)
	store.Set(patch, "role", in.Role)
	store.Set(patch, "status", in.Status)
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
	admin, err := store.UpdatePartial[models.Admin](ctx, s.db, id, patch)
	if err != nil {
		return nil, classify(err, msgAdminNotFound)
	}
	return admin, nil
}

// Delete removes the admin for good; its users and routes go with it
// through the foreign keys.
func (s *AdminService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return classify(store.HardDelete[models.Admin](ctx, s.db, id), msgAdminNotFound)
}
