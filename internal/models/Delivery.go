package models

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

// DeliveryStatus is stored as a small code; clients see the name.
type DeliveryStatus uint8

const (
	DeliveryPending DeliveryStatus = iota
	DeliveryInProgress
	DeliveryCompleted
	DeliveryCancelled
	DeliveryPostponed
)

var deliveryStatusNames = [...]string{
	DeliveryPending:    "pending",
	DeliveryInProgress: "in-progress",
	DeliveryCompleted:  "completed",
	DeliveryCancelled:  "cancelled",
	DeliveryPostponed:  "postponed",
}

func (s DeliveryStatus) String() string {
	if int(s) < len(deliveryStatusNames) {
		return deliveryStatusNames[s]
	}
	return "unknown"
}

// ParseDeliveryStatus maps a status name back to its code.
func ParseDeliveryStatus(name string) (DeliveryStatus, bool) {
	for code, n := range deliveryStatusNames {
		if n == name {
			return DeliveryStatus(code), true
		}
	}
	return 0, false
}

// Delivery records the outcome of a visit to a stop.
type Delivery struct {
	ID      uint           `gorm:"primaryKey" json:"id"`
	StopID  uint           `gorm:"index;not null" json:"stop_id"`
	Status  DeliveryStatus `gorm:"not null;default:0" json:"status"`
	Note    string         `gorm:"size:255" json:"note"`
	Ratings *int           `json:"ratings"`

	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag;not null;default:0;index" json:"-"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}
