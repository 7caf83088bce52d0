package dto

import (
	"time"

	"github.com/sirupsen/logrus"

	"route_dispatch/internal/geo"
	"route_dispatch/internal/models"
)

type AdminResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	Company      string    `json:"company"`
	Address      string    `json:"address"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromAdmin(a models.Admin) AdminResponse {
	return AdminResponse{
		ID:           a.ID,
		Name:         a.Name,
		PhoneNumber:  a.PhoneNumber,
		Company:      a.Company,
		Address:      a.Address,
		Email:        a.Email,
		ProfileImage: a.ProfileImage,
		Role:         a.Role,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt,
	}
}

type UserResponse struct {
	ID          uint      `json:"id"`
	AdminID     uint      `json:"admin_id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromUser(u models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		AdminID:     u.AdminID,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		Address:     u.Address,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type StopResponse struct {
	ID        uint      `json:"id"`
	RouteID   uint      `json:"route_id"`
	Order     int       `json:"order"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromStop(s models.Stop) StopResponse {
	return StopResponse{
		ID:        s.ID,
		RouteID:   s.RouteID,
		Order:     s.Seq,
		Name:      s.Name,
		Address:   s.Address,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// RouteResponse mirrors models.Route with the date as YYYY-MM-DD and the
// path as a GeoJSON string.
type RouteResponse struct {
	ID        uint           `json:"id"`
	AdminID   uint           `json:"admin_id"`
	Name      string         `json:"name"`
	Date      string         `json:"date"`
	Note      string         `json:"note"`
	Path      string         `json:"path,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Stops     []StopResponse `json:"stops"`
}

func FromRoute(r models.Route) RouteResponse {
	path, err := geo.PathGeoJSON(r.Path)
	if err != nil {
		logrus.WithError(err).WithField("route_id", r.ID).Warn("FromRoute: unreadable path geometry")
	}
	stops := make([]StopResponse, len(r.Stops))
	for i, s := range r.Stops {
		stops[i] = FromStop(s)
	}
	return RouteResponse{
		ID:        r.ID,
		AdminID:   r.AdminID,
		Name:      r.Name,
		Date:      r.Date.Format(DateLayout),
		Note:      r.Note,
		Path:      path,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Stops:     stops,
	}
}

type DeliveryResponse struct {
	ID        uint      `json:"id"`
	StopID    uint      `json:"stop_id"`
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	Ratings   *int      `json:"ratings"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromDelivery(d models.Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:        d.ID,
		StopID:    d.StopID,
		Status:    d.Status.String(),
		Note:      d.Note,
		Ratings:   d.Ratings,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// LoginResponse is returned by both admin and user login.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Admin     *AdminResponse `json:"admin,omitempty"`
	User      *UserResponse  `json:"user,omitempty"`
}

// Mapping helpers for lists.

func FromAdmins(rows []models.Admin) []AdminResponse {
	out := make([]AdminResponse, len(rows))
	for i, r := range rows {
		out[i] = FromAdmin(r)
	}
	return out
}

func FromUsers(rows []models.User) []UserResponse {
	out := make([]UserResponse, len(rows))
	for i, r := range rows {
		out[i] = FromUser(r)
	}
	return out
}

func FromRoutes(rows []models.Route) []RouteResponse {
	out := make([]RouteResponse, len(rows))
	for i, r := range rows {
		out[i] = FromRoute(r)
	}
	return out
}

func FromStops(rows []models.Stop) []StopResponse {
	out := make([]StopResponse, len(rows))
	for i, r := range rows {
		out[i] = FromStop(r)
	}
	return out
}

func FromDeliveries(rows []models.Delivery) []DeliveryResponse {
	out := make([]DeliveryResponse, len(rows))
	for i, r := range rows {
		out[i] = FromDelivery(r)
	}
	return out
}
