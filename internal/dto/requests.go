// Package dto holds the request payloads accepted by the API and the
// allow-listed records it returns.
//
// Update payloads use pointer fields: nil means "leave unchanged".
package dto

const DateLayout = "2006-01-02"

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=30"`
}

type AdminCreateInput struct {
	Name         string `json:"name" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,email"`
	PhoneNumber  string `json:"phone_number" binding:"required,max=30"`
	Company      string `json:"company" binding:"max=150"`
	Address      string `json:"address" binding:"max=255"`
	ProfileImage string `json:"profile_image" binding:"omitempty,url"`
	Password     string `json:"password" binding:"required,min=6,max=30"`
	Role         string `json:"role" binding:"omitempty,oneof=0 1"`
	Status       string `json:"status" binding:"omitempty,oneof=0 1"`
}

type AdminUpdateInput struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email        *string `json:"email" binding:"omitempty,email"`
	PhoneNumber  *string `json:"phone_number" binding:"omitempty,max=30"`
	Company      *string `json:"company" binding:"omitempty,max=150"`
	Address      *string `json:"address" binding:"omitempty,max=255"`
	ProfileImage *string `json:"profile_image" binding:"omitempty,url"`
	Password     *string `json:"password" binding:"omitempty,min=6,max=30"`
	Role         *string `json:"role" binding:"omitempty,oneof=0 1"`
	Status       *string `json:"status" binding:"omitempty,oneof=0 1"`
}

type UserCreateInput struct {
	// AdminID defaults to the calling admin when zero.
	AdminID     uint   `json:"admin_id"`
	Name        string `json:"name" binding:"required,min=3,max=30"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=30"`
	PhoneNumber string `json:"phone_number" binding:"required,number,max=30"`
	Address     string `json:"address" binding:"max=100"`
}

type UserUpdateInput struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=30"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password" binding:"omitempty,min=6,max=30"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,number,max=30"`
	Address     *string `json:"address" binding:"omitempty,max=100"`
}

// StopInput is one element of a route's stop sequence. Its position in the
// list is its order; there is no order field.
type StopInput struct {
	Name      string   `json:"name" binding:"required,min=3,max=50"`
	Address   string   `json:"address" binding:"required,max=255"`
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

type RouteCreateInput struct {
	AdminID uint        `json:"admin_id" binding:"required"`
	Name    string      `json:"name" binding:"required,min=3,max=100"`
	Date    string      `json:"date" binding:"required,datetime=2006-01-02"`
	Note    string      `json:"note" binding:"max=255"`
	Stops   []StopInput `json:"stops" binding:"required,min=1,dive"`
}

// RouteUpdateInput replaces the whole stop sequence; admin_id is fixed at
// creation and not accepted here.
type RouteUpdateInput struct {
	Name  *string     `json:"name" binding:"omitempty,min=3,max=100"`
	Date  *string     `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Note  *string     `json:"note" binding:"omitempty,max=255"`
	Stops []StopInput `json:"stops" binding:"required,min=1,dive"`
}

type StopCreateInput struct {
	RouteID   uint     `json:"route_id" binding:"required"`
	Name      string   `json:"name" binding:"required,min=3,max=50"`
	Address   string   `json:"address" binding:"required,max=255"`
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

// StopUpdateInput patches a single stop. A present Order moves the stop to
// that position and shifts the stops in between.
type StopUpdateInput struct {
	Order     *int     `json:"order" binding:"omitempty,min=1"`
	Name      *string  `json:"name" binding:"omitempty,min=3,max=50"`
	Address   *string  `json:"address" binding:"omitempty,max=255"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

type DeliveryCreateInput struct {
	StopID  uint   `json:"stop_id" binding:"required"`
	Status  string `json:"status" binding:"required,oneof=pending in-progress completed cancelled postponed"`
	Note    string `json:"note" binding:"max=255"`
	Ratings *int   `json:"ratings" binding:"omitempty,min=1,max=5"`
}

type DeliveryUpdateInput struct {
	Status  *string `json:"status" binding:"omitempty,oneof=pending in-progress completed cancelled postponed"`
	Note    *string `json:"note" binding:"omitempty,max=255"`
	Ratings *int    `json:"ratings" binding:"omitempty,min=1,max=5"`
}
