package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/dto"
	"route_dispatch/internal/events"
	"route_dispatch/internal/models"
	"route_dispatch/internal/store"
)

const msgStopNotFound = "Stop Not Found"

// StopService edits single stops while keeping each route's sequence dense.
// All writes take the owning route's lock.
type StopService struct {
	base
}

func (s *StopService) GetAll(ctx context.Context, page store.Page) ([]models.Stop, error) {
	rows, err := store.FindPage[models.Stop](ctx, s.db, page)
	if err != nil {
		return nil, classify(err, msgStopNotFound)
	}
	return rows, nil
}

// GetAllByAdmin lists the stops on adminID's routes.
func (s *StopService) GetAllByAdmin(ctx context.Context, adminID uint, page store.Page) ([]models.Stop, error) {
	rows, err := store.FindPage[models.Stop](ctx, s.db, page, store.Where("route_id IN (?)", routeIDsOf(s.db, adminID)))
	if err != nil {
		return nil, classify(err, msgStopNotFound)
	}
	return rows, nil
}

// Owner returns the admin owning the route of the visible stop id. The
// route itself may be deleted.
func (s *StopService) Owner(ctx context.Context, id uint) (uint, error) {
	stop, err := s.GetOne(ctx, id)
	if err != nil {
		return 0, err
	}
	route, err := store.FindByID[models.Route](ctx, s.db, stop.RouteID, store.Unscoped)
	if err != nil {
		return 0, classify(err, msgRouteNotFound)
	}
	return route.AdminID, nil
}

func (s *StopService) GetOne(ctx context.Context, id uint) (*models.Stop, error) {
	stop, err := store.FindByID[models.Stop](ctx, s.db, id)
	if err != nil {
		return nil, classify(err, msgStopNotFound)
	}
	return stop, nil
}

// Store appends a stop after the route's last visible stop.
func (s *StopService) Store(ctx context.Context, in dto.StopCreateInput) (*models.Stop, error) {
	if in.Latitude == nil || in.Longitude == nil {
		return nil, apperr.Validation("Validation failed", map[string]string{"latitude": "latitude and longitude are required"})
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	unlock, err := s.lockRoute(ctx, in.RouteID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	stop := models.Stop{
		RouteID:   in.RouteID,
		Name:      in.Name,
		Address:   in.Address,
		Latitude:  *in.Latitude,
		Longitude: *in.Longitude,
	}
	var adminID uint
	err = store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		route, err := store.FindByID[models.Route](ctx, tx, in.RouteID, store.ForUpdate)
		if err != nil {
			return classify(err, msgRouteNotFound)
		}
		adminID = route.AdminID
		last, err := lastSeq(ctx, tx, in.RouteID)
		if err != nil {
			return err
		}
		stop.Seq = last + 1
		if err := store.Insert(ctx, tx, &stop); err != nil {
			return err
		}
		return refreshPath(ctx, tx, in.RouteID)
	})
	if err != nil {
		return nil, classify(err, msgStopNotFound)
	}

	s.publish(events.Event{Type: events.StopCreated, AdminID: adminID, RouteID: stop.RouteID, StopID: stop.ID})
	return &stop, nil
}

// Update patches a stop. A new order moves it within its route and shifts
// the stops between the old and new positions by one.
func (s *StopService) Update(ctx context.Context, id uint, in dto.StopUpdateInput) (*models.Stop, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	current, err := store.FindByID[models.Stop](ctx, s.db, id)
	if err != nil {
		return nil, classify(err, msgStopNotFound)
	}
	unlock, err := s.lockRoute(ctx, current.RouteID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	patch := store.Patch{}
	store.Set(patch, "name", in.Name)
	store.Set(patch, "address", in.Address)
	store.Set(patch, "latitude", in.Latitude)
	store.Set(patch, "longitude", in.Longitude)
	moved := in.Latitude != nil || in.Longitude != nil

	var stop *models.Stop
	err = store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		cur, err := store.FindByID[models.Stop](ctx, tx, id, store.ForUpdate)
		if err != nil {
			return err
		}
		if in.Order != nil && *in.Order != cur.Seq {
			if err := moveStop(ctx, tx, cur, *in.Order); err != nil {
				return err
			}
			patch["seq"] = *in.Order
			moved = true
		}
		if stop, err = store.UpdatePartial[models.Stop](ctx, tx, id, patch); err != nil {
			return err
		}
		if moved {
			return refreshPath(ctx, tx, cur.RouteID)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, msgStopNotFound)
	}

	s.publish(events.Event{Type: events.StopUpdated, AdminID: s.ownerOf(ctx, stop.RouteID), RouteID: stop.RouteID, StopID: stop.ID})
	return stop, nil
}

// Delete soft-deletes the stop and closes the gap it leaves.
func (s *StopService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	current, err := store.FindByID[models.Stop](ctx, s.db, id)
	if err != nil {
		return classify(err, msgStopNotFound)
	}
	unlock, err := s.lockRoute(ctx, current.RouteID)
	if err != nil {
		return err
	}
	defer unlock()

	err = store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		cur, err := store.FindByID[models.Stop](ctx, tx, id, store.ForUpdate)
		if err != nil {
			return err
		}
		if err := store.SoftDelete[models.Stop](ctx, tx, id); err != nil {
			return err
		}
		err = shiftSeq(ctx, tx, cur.RouteID, -1, "seq > ?", cur.Seq)
		if err != nil {
			return err
		}
		return refreshPath(ctx, tx, cur.RouteID)
	})
	if err != nil {
		return classify(err, msgStopNotFound)
	}

	s.publish(events.Event{Type: events.StopDeleted, AdminID: s.ownerOf(ctx, current.RouteID), RouteID: current.RouteID, StopID: id})
	return nil
}

// moveStop shifts the neighbours of cur so that position to becomes free.
func moveStop(ctx context.Context, tx *gorm.DB, cur *models.Stop, to int) error {
	last, err := lastSeq(ctx, tx, cur.RouteID)
	if err != nil {
		return err
	}
	if to < 1 || to > last {
		return apperr.Validation("Validation failed", map[string]string{
			"order": fmt.Sprintf("order must be between 1 and %d", last),
		})
	}
	// Park the moving stop on 0 so its old position is free.
	err = tx.WithContext(ctx).Model(&models.Stop{}).Where("id = ?", cur.ID).Update("seq", 0).Error
	if err != nil {
		return err
	}
	if to < cur.Seq {
		return shiftSeq(ctx, tx, cur.RouteID, 1, "seq >= ? AND seq < ?", to, cur.Seq)
	}
	return shiftSeq(ctx, tx, cur.RouteID, -1, "seq > ? AND seq <= ?", cur.Seq, to)
}

// shiftSeq adds by to the seq of the route's visible stops matching cond.
// Rows pass through negative values first: the unique index on
// (route_id, seq) is checked row by row, and a direct seq + 1 would collide
// with the neighbour that has not moved yet.
func shiftSeq(ctx context.Context, tx *gorm.DB, routeID uint, by int, cond string, args ...any) error {
	err := tx.WithContext(ctx).Model(&models.Stop{}).
		Where("route_id = ?", routeID).
		Where(cond, args...).
		Update("seq", gorm.Expr("-(seq + ?)", by)).Error
	if err != nil {
		return err
	}
	return tx.WithContext(ctx).Model(&models.Stop{}).
		Where("route_id = ? AND seq < 0", routeID).
		Update("seq", gorm.Expr("-seq")).Error
}

func lastSeq(ctx context.Context, tx *gorm.DB, routeID uint) (int, error) {
	var last int
	err := tx.WithContext(ctx).Model(&models.Stop{}).
		Where("route_id = ?", routeID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&last).Error
	return last, err
}

// ownerOf returns the admin that owns routeID, deleted or not. It is only
// used to address change events, so a lookup failure yields 0.
func (s base) ownerOf(ctx context.Context, routeID uint) uint {
	route, err := store.FindByID[models.Route](ctx, s.db, routeID, store.Unscoped)
	if err != nil {
		return 0
	}
	return route.AdminID
}
