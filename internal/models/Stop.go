package models

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

// Stop is a dropoff location along a route.
// Seq is the 1-based position within the route's visible stops, unique
// among them. Deleted stops keep their last Seq and drop out of the index.
type Stop struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	RouteID   uint    `gorm:"index;not null;uniqueIndex:idx_stops_route_seq,priority:1,where:is_deleted = 0" json:"route_id"`
	Seq       int     `gorm:"not null;uniqueIndex:idx_stops_route_seq,priority:2,where:is_deleted = 0" json:"order"`
	Name      string  `gorm:"size:50;not null" json:"name"`
	Address   string  `gorm:"size:255;not null;default:''" json:"address"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`

	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag;not null;default:0;index" json:"-"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`

	Deliveries []Delivery `gorm:"foreignKey:StopID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
