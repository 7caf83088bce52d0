package models

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

// Route is one admin's delivery run for a given date.
// Its stops form a dense 1..N sequence ordered by Stop.Seq.
type Route struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	AdminID uint      `gorm:"index;not null" json:"admin_id"`
	Name    string    `gorm:"size:100;not null" json:"name"`
	Date    time.Time `gorm:"type:date;not null" json:"date"`
	Note    string    `gorm:"size:255" json:"note"`

	// Path is the WKB LineString through the visible stops, in order.
	// It is rewritten whenever the stop sequence changes.
	Path []byte `json:"-"`

	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag;not null;default:0;index" json:"-"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`

	// Associations
	Stops []Stop `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"stops,omitempty"`
}
