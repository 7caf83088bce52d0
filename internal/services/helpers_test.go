package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"route_dispatch/internal/dto"
	"route_dispatch/internal/events"
	"route_dispatch/internal/models"
	"route_dispatch/internal/testdb"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recorder) last() events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func setup(t *testing.T) (*Services, *gorm.DB, *recorder) {
	t.Helper()
	db := testdb.Open(t)
	rec := &recorder{}
	return New(Options{DB: db, Events: rec}), db, rec
}

func seedAdmin(t *testing.T, s *Services, email string, role string) *models.Admin {
	t.Helper()
	admin, err := s.Admins.Store(context.Background(), dto.AdminCreateInput{
		Name:        "Admin " + email,
		Email:       email,
		PhoneNumber: "0700000000",
		Password:    "secret123",
		Role:        role,
		Status:      models.StatusActive,
	})
	require.NoError(t, err)
	return admin
}

func stopInputs(names ...string) []dto.StopInput {
	out := make([]dto.StopInput, len(names))
	for i, name := range names {
		lat := -1.28 + float64(i)*0.01
		lon := 36.82 + float64(i)*0.01
		out[i] = dto.StopInput{
			Name:      name,
			Address:   fmt.Sprintf("%d %s Road", i+1, name),
			Latitude:  &lat,
			Longitude: &lon,
		}
	}
	return out
}

func createRoute(t *testing.T, s *Services, adminID uint, names ...string) *models.Route {
	t.Helper()
	route, err := s.Routes.Store(context.Background(), dto.RouteCreateInput{
		AdminID: adminID,
		Name:    "Morning run",
		Date:    "2025-03-14",
		Note:    "north loop",
		Stops:   stopInputs(names...),
	})
	require.NoError(t, err)
	return route
}

// allStops returns every stop row of the route, deleted or not, by seq.
func allStops(t *testing.T, db *gorm.DB, routeID uint) []models.Stop {
	t.Helper()
	var stops []models.Stop
	require.NoError(t, db.Unscoped().Where("route_id = ?", routeID).Order("seq ASC").Find(&stops).Error)
	return stops
}

func visibleStops(t *testing.T, db *gorm.DB, routeID uint) []models.Stop {
	t.Helper()
	var stops []models.Stop
	require.NoError(t, db.Where("route_id = ?", routeID).Order("seq ASC").Find(&stops).Error)
	return stops
}

func names(stops []models.Stop) []string {
	out := make([]string, len(stops))
	for i, s := range stops {
		out[i] = s.Name
	}
	return out
}

func seqs(stops []models.Stop) []int {
	out := make([]int, len(stops))
	for i, s := range stops {
		out[i] = s.Seq
	}
	return out
}
