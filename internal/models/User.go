package models

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

// User is a driver owned by exactly one admin.
type User struct {
	ID          uint                  `gorm:"primaryKey" json:"id"`
	AdminID     uint                  `gorm:"index;not null" json:"admin_id"`
	Name        string                `gorm:"size:100;not null" json:"name"`
	PhoneNumber string                `gorm:"size:30;not null" json:"phone_number"`
	Email       string                `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Address     string                `gorm:"size:255;not null;default:''" json:"address"`
	Password    string                `gorm:"not null" json:"-"`
	IsDeleted   soft_delete.DeletedAt `gorm:"softDelete:flag;not null;default:0;index" json:"-"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}
