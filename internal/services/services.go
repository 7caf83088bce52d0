// Package services holds the entity services. Each service validates
// existence and business rules, runs its writes through the record store,
// and publishes a change event once the write has committed.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"route_dispatch/internal/events"
)

const DefaultTxTimeout = 5 * time.Second

type Options struct {
	DB        *gorm.DB
	Events    events.Publisher
	TxTimeout time.Duration
}

type Services struct {
	Admins     *AdminService
	Users      *UserService
	Routes     *RouteService
	Stops      *StopService
	Deliveries *DeliveryService
}

// New wires every service around one database handle. Route and stop writes
// share a KeyedMutex so edits to the same route serialize.
func New(opts Options) *Services {
	if opts.TxTimeout <= 0 {
		opts.TxTimeout = DefaultTxTimeout
	}
	b := base{
		db:        opts.DB,
		events:    opts.Events,
		txTimeout: opts.TxTimeout,
		routes:    NewKeyedMutex(),
	}
	return &Services{
		Admins:     &AdminService{base: b},
		Users:      &UserService{base: b},
		Routes:     &RouteService{base: b},
		Stops:      &StopService{base: b},
		Deliveries: &DeliveryService{base: b},
	}
}

type base struct {
	db        *gorm.DB
	events    events.Publisher
	txTimeout time.Duration
	routes    *KeyedMutex
}

func (b base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.txTimeout)
}

func (b base) publish(e events.Event) {
	if b.events == nil {
		return
	}
	b.events.Publish(e)
}

// lockRoute takes the per-route lock. A deadline while waiting surfaces as
// a retryable timeout.
func (b base) lockRoute(ctx context.Context, routeID uint) (func(), error) {
	unlock, err := b.routes.Lock(ctx, routeID)
	if err != nil {
		return nil, classify(err, "Route Not Found")
	}
	return unlock, nil
}
