package services

import (
	"context"

	"gorm.io/gorm"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/dto"
	"route_dispatch/internal/events"
	"route_dispatch/internal/models"
	"route_dispatch/internal/store"
)

const msgDeliveryNotFound = "Delivery Not Found"

type DeliveryService struct {
	base
}

func (s *DeliveryService) GetAll(ctx context.Context, page store.Page) ([]models.Delivery, error) {
	rows, err := store.FindPage[models.Delivery](ctx, s.db, page)
	if err != nil {
		return nil, classify(err, msgDeliveryNotFound)
	}
	return rows, nil
}

// GetAllByAdmin lists the deliveries recorded on stops of adminID's routes.
func (s *DeliveryService) GetAllByAdmin(ctx context.Context, adminID uint, page store.Page) ([]models.Delivery, error) {
	stops := s.db.Unscoped().Model(&models.Stop{}).Select("id").Where("route_id IN (?)", routeIDsOf(s.db, adminID))
	rows, err := store.FindPage[models.Delivery](ctx, s.db, page, store.Where("stop_id IN (?)", stops))
	if err != nil {
		return nil, classify(err, msgDeliveryNotFound)
	}
	return rows, nil
}

// Owner returns the admin owning the route the visible delivery id was
// recorded on.
func (s *DeliveryService) Owner(ctx context.Context, id uint) (uint, error) {
	d, err := s.GetOne(ctx, id)
	if err != nil {
		return 0, err
	}
	stop, err := store.FindByID[models.Stop](ctx, s.db, d.StopID, store.Unscoped)
	if err != nil {
		return 0, classify(err, msgStopNotFound)
	}
	route, err := store.FindByID[models.Route](ctx, s.db, stop.RouteID, store.Unscoped)
	if err != nil {
		return 0, classify(err, msgRouteNotFound)
	}
	return route.AdminID, nil
}

func (s *DeliveryService) GetOne(ctx context.Context, id uint) (*models.Delivery, error) {
	d, err := store.FindByID[models.Delivery](ctx, s.db, id)
	if err != nil {
		return nil, classify(err, msgDeliveryNotFound)
	}
	return d, nil
}

func (s *DeliveryService) Store(ctx context.Context, in dto.DeliveryCreateInput) (*models.Delivery, error) {
	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	d := models.Delivery{
		StopID:  in.StopID,
		Status:  status,
		Note:    in.Note,
		Ratings: in.Ratings,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Route updates hard-delete stops; hold the route lock so the stop
	// cannot disappear between the check and the insert.
	stop, err := store.FindByID[models.Stop](ctx, s.db, in.StopID)
	if err != nil {
		return nil, classify(err, msgStopNotFound)
	}
	routeID := stop.RouteID
	unlock, err := s.lockRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := store.FindByID[models.Stop](ctx, tx, in.StopID, store.ForUpdate); err != nil {
			return classify(err, msgStopNotFound)
		}
		return store.Insert(ctx, tx, &d)
	})
	if err != nil {
		return nil, classify(err, msgDeliveryNotFound)
	}

	s.publish(events.Event{Type: events.DeliveryCreated, AdminID: s.ownerOf(ctx, routeID), RouteID: routeID, StopID: d.StopID, DeliveryID: d.ID})
	return &d, nil
}

func (s *DeliveryService) Update(ctx context.Context, id uint, in dto.DeliveryUpdateInput) (*models.Delivery, error) {
	patch := store.Patch{}
	store.Set(patch, "note", in.Note)
	store.Set(patch, "ratings", in.Ratings)
	if in.Status != nil {
		status, err := parseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		patch["status"] = status
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	d, err := store.UpdatePartial[models.Delivery](ctx, s.db, id, patch)
	if err != nil {
		return nil, classify(err, msgDeliveryNotFound)
	}

	routeID := s.routeOfStop(ctx, d.StopID)
	s.publish(events.Event{Type: events.DeliveryUpdated, AdminID: s.ownerOf(ctx, routeID), RouteID: routeID, StopID: d.StopID, DeliveryID: d.ID})
	return d, nil
}

func (s *DeliveryService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := store.FindByID[models.Delivery](ctx, s.db, id)
	if err != nil {
		return classify(err, msgDeliveryNotFound)
	}
	if err := store.SoftDelete[models.Delivery](ctx, s.db, id); err != nil {
		return classify(err, msgDeliveryNotFound)
	}

	routeID := s.routeOfStop(ctx, d.StopID)
	s.publish(events.Event{Type: events.DeliveryDeleted, AdminID: s.ownerOf(ctx, routeID), RouteID: routeID, StopID: d.StopID, DeliveryID: id})
	return nil
}

func (s *DeliveryService) routeOfStop(ctx context.Context, stopID uint) uint {
	stop, err := store.FindByID[models.Stop](ctx, s.db, stopID, store.Unscoped)
	if err != nil {
		return 0
	}
	return stop.RouteID
}

func parseStatus(name string) (models.DeliveryStatus, error) {
	status, ok := models.ParseDeliveryStatus(name)
	if !ok {
		return 0, apperr.Validation("Validation failed", map[string]string{
			"status": "status must be one of pending, in-progress, completed, cancelled, postponed",
		})
	}
	return status, nil
}
