// internal/models/admin.go
package models

import (
	"time"
)

const (
	RoleSuperAdmin = "0"
	RoleAdmin      = "1"

	StatusPending = "0"
	StatusActive  = "1"
)

// Admin is a tenant operator. Admins are hard-deleted; the foreign keys on
// users and routes cascade the removal at the storage layer.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	PhoneNumber  string    `gorm:"size:30;not null" json:"phone_number"`
	Company      string    `gorm:"size:150;not null;default:''" json:"company"`
	Address      string    `gorm:"size:255;not null;default:''" json:"address"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	ProfileImage string    `gorm:"size:255" json:"profile_image"`
	Password     string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:1;not null;default:'1'" json:"role"`
	Status       string    `gorm:"size:1;not null;default:'0'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`

	Users  []User  `gorm:"foreignKey:AdminID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Routes []Route `gorm:"foreignKey:AdminID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (a Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}
