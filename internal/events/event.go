// Package events fans committed changes out to connected admin dashboards
// over websockets.
package events

import "time"

type Type string

const (
	RouteCreated Type = "route.created"
	RouteUpdated Type = "route.updated"
	RouteDeleted Type = "route.deleted"

	StopCreated Type = "stop.created"
	StopUpdated Type = "stop.updated"
	StopDeleted Type = "stop.deleted"

	DeliveryCreated Type = "delivery.created"
	DeliveryUpdated Type = "delivery.updated"
	DeliveryDeleted Type = "delivery.deleted"
)

// Event describes one committed change. AdminID is the owning tenant and
// decides which subscribers receive it.
type Event struct {
	Type       Type      `json:"type"`
	AdminID    uint      `json:"admin_id"`
	RouteID    uint      `json:"route_id"`
	StopID     uint      `json:"stop_id,omitempty"`
	DeliveryID uint      `json:"delivery_id,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher accepts events after the change they describe has committed.
// Implementations must not block the caller.
type Publisher interface {
	Publish(Event)
}
