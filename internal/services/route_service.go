package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/dto"
	"route_dispatch/internal/events"
	"route_dispatch/internal/geo"
	"route_dispatch/internal/models"
	"route_dispatch/internal/store"
)

const msgRouteNotFound = "Route Not Found"

// RouteService owns a route together with its ordered stop sequence.
// Store and Update write the route and all of its stops as one unit.
type RouteService struct {
	base
}

func stopsInOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("Stops", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	})
}

func (s *RouteService) GetAll(ctx context.Context, page store.Page) ([]models.Route, error) {
	rows, err := store.FindPage[models.Route](ctx, s.db, page, stopsInOrder)
	if err != nil {
		return nil, classify(err, msgRouteNotFound)
	}
	return rows, nil
}

// GetAllByAdmin lists one admin's routes. An unknown admin is NotFound.
func (s *RouteService) GetAllByAdmin(ctx context.Context, adminID uint, page store.Page) ([]models.Route, error) {
	if _, err := store.FindByID[models.Admin](ctx, s.db, adminID); err != nil {
		return nil, classify(err, msgAdminNotFound)
	}
	rows, err := store.FindPage[models.Route](ctx, s.db, page, stopsInOrder, store.Where("admin_id = ?", adminID))
	if err != nil {
		return nil, classify(err, msgRouteNotFound)
	}
	return rows, nil
}

// Owner returns the admin that owns the visible route id.
func (s *RouteService) Owner(ctx context.Context, id uint) (uint, error) {
	route, err := store.FindByID[models.Route](ctx, s.db, id)
	if err != nil {
		return 0, classify(err, msgRouteNotFound)
	}
	return route.AdminID, nil
}

// routeIDsOf selects the ids of every route of adminID, deleted or not,
// for use as a subquery.
func routeIDsOf(db *gorm.DB, adminID uint) *gorm.DB {
	return db.Unscoped().Model(&models.Route{}).Select("id").Where("admin_id = ?", adminID)
}

func (s *RouteService) GetOne(ctx context.Context, id uint) (*models.Route, error) {
	route, err := store.FindByID[models.Route](ctx, s.db, id, stopsInOrder)
	if err != nil {
		return nil, classify(err, msgRouteNotFound)
	}
	return route, nil
}

// Store creates a route and its stops in one transaction. Stops are
// numbered 1..N by their position in the input.
func (s *RouteService) Store(ctx context.Context, in dto.RouteCreateInput) (*models.Route, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if err := checkStops(in.Stops); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	route := models.Route{
		AdminID: in.AdminID,
		Name:    in.Name,
		Date:    date,
		Note:    in.Note,
	}
	err = store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := store.FindByID[models.Admin](ctx, tx, in.AdminID); err != nil {
			return classify(err, msgAdminNotFound)
		}
		if err := store.Insert(ctx, tx, &route); err != nil {
			return err
		}
		stops, path, err := writeStops(ctx, tx, route.ID, in.Stops)
		if err != nil {
			return err
		}
		route.Stops, route.Path = stops, path
		return nil
	})
	if err != nil {
		return nil, classify(err, msgRouteNotFound)
	}

	s.publish(events.Event{Type: events.RouteCreated, AdminID: route.AdminID, RouteID: route.ID})
	return &route, nil
}

// Update patches the route's own fields and replaces its stop sequence.
// Writers to the same route are serialized in-process by the route lock
// and across processes by the row lock taken on the route.
func (s *RouteService) Update(ctx context.Context, id uint, in dto.RouteUpdateInput) (*models.Route, error) {
	if err := checkStops(in.Stops); err != nil {
		return nil, err
	}
	patch := store.Patch{}
	store.Set(patch, "name", in.Name)
	store.Set(patch, "note", in.Note)
	if in.Date != nil {
		date, err := parseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		patch["date"] = date
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	unlock, err := s.lockRoute(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var route *models.Route
	err = store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := store.FindByID[models.Route](ctx, tx, id, store.ForUpdate); err != nil {
			return err
		}
		if _, err := store.UpdatePartial[models.Route](ctx, tx, id, patch); err != nil {
			return err
		}
		// Every stop row goes, including soft-deleted ones, so the new
		// sequence is the only one left under the route.
		if err := tx.WithContext(ctx).Unscoped().Where("route_id = ?", id).Delete(&models.Stop{}).Error; err != nil {
			return err
		}
		if _, _, err := writeStops(ctx, tx, id, in.Stops); err != nil {
			return err
		}
		var err error
		route, err = store.FindByID[models.Route](ctx, tx, id, stopsInOrder)
		return err
	})
	if err != nil {
		return nil, classify(err, msgRouteNotFound)
	}

	s.publish(events.Event{Type: events.RouteUpdated, AdminID: route.AdminID, RouteID: route.ID})
	return route, nil
}

// Delete soft-deletes the route. Its stops are left as they are.
func (s *RouteService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	unlock, err := s.lockRoute(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	var adminID uint
	err = store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		route, err := store.FindByID[models.Route](ctx, tx, id, store.ForUpdate)
		if err != nil {
			return err
		}
		adminID = route.AdminID
		return store.SoftDelete[models.Route](ctx, tx, id)
	})
	if err != nil {
		return classify(err, msgRouteNotFound)
	}

	s.publish(events.Event{Type: events.RouteDeleted, AdminID: adminID, RouteID: id})
	return nil
}

// writeStops inserts inputs as stops 1..N of routeID and stores the path
// they trace.
func writeStops(ctx context.Context, tx *gorm.DB, routeID uint, inputs []dto.StopInput) ([]models.Stop, []byte, error) {
	stops := make([]models.Stop, len(inputs))
	for i, in := range inputs {
		stops[i] = models.Stop{
			RouteID:   routeID,
			Seq:       i + 1,
			Name:      in.Name,
			Address:   in.Address,
			Latitude:  *in.Latitude,
			Longitude: *in.Longitude,
		}
	}
	if err := store.InsertMany(ctx, tx, stops); err != nil {
		return nil, nil, err
	}
	path, err := savePath(ctx, tx, routeID, stops)
	if err != nil {
		return nil, nil, err
	}
	return stops, path, nil
}

// savePath writes the LineString through stops, which must already be in
// sequence order.
func savePath(ctx context.Context, tx *gorm.DB, routeID uint, stops []models.Stop) ([]byte, error) {
	points := make([]geo.Point, len(stops))
	for i, st := range stops {
		points[i] = geo.Point{Latitude: st.Latitude, Longitude: st.Longitude}
	}
	path, err := geo.EncodePath(points)
	if err != nil {
		return nil, apperr.Internal("could not build route path", err)
	}
	err = tx.WithContext(ctx).Model(&models.Route{}).Where("id = ?", routeID).Update("path", path).Error
	if err != nil {
		return nil, err
	}
	return path, nil
}

// refreshPath rebuilds the path from the route's visible stops.
func refreshPath(ctx context.Context, tx *gorm.DB, routeID uint) error {
	var stops []models.Stop
	err := tx.WithContext(ctx).Where("route_id = ?", routeID).Order("seq ASC").Find(&stops).Error
	if err != nil {
		return err
	}
	_, err = savePath(ctx, tx, routeID, stops)
	return err
}

func checkStops(stops []dto.StopInput) error {
	if len(stops) == 0 {
		return apperr.Validation("Validation failed", map[string]string{"stops": "at least one stop is required"})
	}
	for _, st := range stops {
		if st.Latitude == nil || st.Longitude == nil {
			return apperr.Validation("Validation failed", map[string]string{"stops": "every stop needs latitude and longitude"})
		}
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validation("Validation failed", map[string]string{"date": "date must be YYYY-MM-DD"})
	}
	return date, nil
}
