package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/dto"
	"route_dispatch/internal/events"
	"route_dispatch/internal/geo"
	"route_dispatch/internal/models"
	"route_dispatch/internal/store"
)

func ptr[T any](v T) *T { return &v }

func TestRouteStoreNumbersStopsByInputPosition(t *testing.T) {
	s, db, rec := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)

	route := createRoute(t, s, admin.ID, "Depot", "Market", "Harbour", "School")

	require.Len(t, route.Stops, 4)
	for i, st := range route.Stops {
		assert.Equal(t, i+1, st.Seq)
		assert.Equal(t, route.ID, st.RouteID)
		assert.NotZero(t, st.ID)
	}
	stored := visibleStops(t, db, route.ID)
	assert.Equal(t, []string{"Depot", "Market", "Harbour", "School"}, names(stored))
	assert.Equal(t, []int{1, 2, 3, 4}, seqs(stored))

	points, err := geo.DecodePath(route.Path)
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.InDelta(t, -1.28, points[0].Latitude, 1e-9)
	assert.InDelta(t, 36.82, points[0].Longitude, 1e-9)

	got, err := s.Routes.GetOne(context.Background(), route.ID)
	require.NoError(t, err)
	assert.Equal(t, route.Path, got.Path)
	assert.Equal(t, "2025-03-14", got.Date.Format(dto.DateLayout))

	assert.Equal(t, []events.Type{events.RouteCreated}, rec.types())
	assert.Equal(t, admin.ID, rec.last().AdminID)
}

func TestRouteStoreUnknownAdminIsNotFound(t *testing.T) {
	s, db, _ := setup(t)

	_, err := s.Routes.Store(context.Background(), dto.RouteCreateInput{
		AdminID: 42, Name: "Ghost run", Date: "2025-03-14", Stops: stopInputs("A"),
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	var n int64
	require.NoError(t, db.Unscoped().Model(&models.Route{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRouteStoreRejectsBadDateAndEmptyStops(t *testing.T) {
	s, _, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)

	_, err := s.Routes.Store(context.Background(), dto.RouteCreateInput{
		AdminID: admin.ID, Name: "Run", Date: "14/03/2025", Stops: stopInputs("A"),
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = s.Routes.Store(context.Background(), dto.RouteCreateInput{
		AdminID: admin.ID, Name: "Run", Date: "2025-03-14",
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRouteUpdateReplacesStopSequence(t *testing.T) {
	s, db, rec := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	route := createRoute(t, s, admin.ID, "Depot", "Market", "Harbour")
	original := map[uint]bool{}
	for _, st := range route.Stops {
		original[st.ID] = true
	}
	// A soft-deleted stop must not survive the replacement either.
	require.NoError(t, s.Stops.Delete(context.Background(), route.Stops[2].ID))

	updated, err := s.Routes.Update(context.Background(), route.ID, dto.RouteUpdateInput{
		Stops: stopInputs("Airport", "Station"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Airport", "Station"}, names(updated.Stops))
	assert.Equal(t, []int{1, 2}, seqs(updated.Stops))

	rows := allStops(t, db, route.ID)
	require.Len(t, rows, 2)
	for _, st := range rows {
		assert.False(t, original[st.ID], "stop %d from the old sequence survived", st.ID)
	}

	assert.Equal(t, "Morning run", updated.Name)
	assert.Equal(t, "north loop", updated.Note)
	assert.Equal(t, events.RouteUpdated, rec.last().Type)
}

func TestRouteUpdatePatchesOnlyProvidedFields(t *testing.T) {
	s, _, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	route := createRoute(t, s, admin.ID, "Depot", "Market")

	updated, err := s.Routes.Update(context.Background(), route.ID, dto.RouteUpdateInput{
		Name:  ptr("Evening run"),
		Date:  ptr("2025-04-01"),
		Stops: stopInputs("Depot", "Market"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Evening run", updated.Name)
	assert.Equal(t, "2025-04-01", updated.Date.Format(dto.DateLayout))
	assert.Equal(t, "north loop", updated.Note)
	assert.Equal(t, admin.ID, updated.AdminID)
}

func TestRouteUpdateRequiresStops(t *testing.T) {
	s, db, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	route := createRoute(t, s, admin.ID, "Depot", "Market")

	_, err := s.Routes.Update(context.Background(), route.ID, dto.RouteUpdateInput{Name: ptr("No stops")})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	assert.Len(t, visibleStops(t, db, route.ID), 2)
}

func TestRouteUpdateMissingOrDeletedIsNotFound(t *testing.T) {
	s, _, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	route := createRoute(t, s, admin.ID, "Depot")
	ctx := context.Background()

	_, err := s.Routes.Update(ctx, 999, dto.RouteUpdateInput{Stops: stopInputs("A")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, s.Routes.Delete(ctx, route.ID))
	_, err = s.Routes.Update(ctx, route.ID, dto.RouteUpdateInput{Stops: stopInputs("A")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRouteDeleteIsSoftAndLeavesStops(t *testing.T) {
	s, db, rec := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	route := createRoute(t, s, admin.ID, "Depot", "Market")
	ctx := context.Background()

	require.NoError(t, s.Routes.Delete(ctx, route.ID))
	err := s.Routes.Delete(ctx, route.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = s.Routes.GetOne(ctx, route.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	var stored models.Route
	require.NoError(t, db.Unscoped().First(&stored, route.ID).Error)
	assert.EqualValues(t, 1, stored.IsDeleted)

	// Stops are not cascaded on soft delete and stay readable by id.
	assert.Len(t, visibleStops(t, db, route.ID), 2)
	_, err = s.Stops.GetOne(ctx, route.Stops[0].ID)
	assert.NoError(t, err)

	assert.Equal(t, events.RouteDeleted, rec.last().Type)
}

func TestRouteListingsArePagedNewestFirst(t *testing.T) {
	s, _, _ := setup(t)
	mine := seedAdmin(t, s, "mine@example.com", models.RoleAdmin)
	other := seedAdmin(t, s, "other@example.com", models.RoleAdmin)
	first := createRoute(t, s, mine.ID, "A", "B")
	createRoute(t, s, other.ID, "C")
	second := createRoute(t, s, mine.ID, "D")
	ctx := context.Background()

	all, err := s.Routes.GetAll(ctx, store.NewPage(1, 10, 0))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byAdmin, err := s.Routes.GetAllByAdmin(ctx, mine.ID, store.NewPage(1, 10, 0))
	require.NoError(t, err)
	require.Len(t, byAdmin, 2)
	assert.Equal(t, second.ID, byAdmin[0].ID)
	assert.Equal(t, first.ID, byAdmin[1].ID)
	assert.Equal(t, []string{"A", "B"}, names(byAdmin[1].Stops))

	_, err = s.Routes.GetAllByAdmin(ctx, 999, store.NewPage(1, 10, 0))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

// The SQLite test pool has a single connection, which serializes the two
// transactions on its own. TestRouteUpdateWaitsForRouteLock checks the route
// lock directly, and the integration tests run this against Postgres.
func TestConcurrentRouteUpdatesLeaveOneWholeSequence(t *testing.T) {
	s, db, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	route := createRoute(t, s, admin.ID, "Depot")

	inputA := []string{"A1", "A2", "A3"}
	inputB := []string{"B1", "B2", "B3", "B4"}

	for round := 0; round < 5; round++ {
		var g errgroup.Group
		g.Go(func() error {
			_, err := s.Routes.Update(context.Background(), route.ID, dto.RouteUpdateInput{Stops: stopInputs(inputA...)})
			return err
		})
		g.Go(func() error {
			_, err := s.Routes.Update(context.Background(), route.ID, dto.RouteUpdateInput{Stops: stopInputs(inputB...)})
			return err
		})
		require.NoError(t, g.Wait())

		final := allStops(t, db, route.ID)
		got := names(final)
		if len(got) == len(inputA) {
			assert.Equal(t, inputA, got)
		} else {
			assert.Equal(t, inputB, got)
		}
		for i, st := range final {
			assert.Equal(t, i+1, st.Seq)
		}
	}
	assert.Zero(t, s.Routes.routes.Len())
}

func TestRouteUpdateWaitsForRouteLock(t *testing.T) {
	s, db, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	route := createRoute(t, s, admin.ID, "Depot")

	unlock, err := s.Routes.routes.Lock(context.Background(), route.ID)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Routes.Update(context.Background(), route.ID, dto.RouteUpdateInput{Stops: stopInputs("A1", "A2")})
		done <- err
	}()

	select {
	case err := <-done:
		unlock()
		t.Fatalf("update finished while the route was locked: %v", err)
	case <-time.After(150 * time.Millisecond):
	}
	assert.Equal(t, []string{"Depot"}, names(allStops(t, db, route.ID)))
	assert.Equal(t, 1, s.Routes.routes.Len())

	unlock()
	require.NoError(t, <-done)
	assert.Equal(t, []string{"A1", "A2"}, names(allStops(t, db, route.ID)))
	assert.Zero(t, s.Routes.routes.Len())
}

func TestFailedStopInsertRollsBackRoute(t *testing.T) {
	s, db, rec := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)

	var failStops atomic.Bool
	failStops.Store(true)
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_stops", func(tx *gorm.DB) {
		if failStops.Load() && tx.Statement.Schema != nil && tx.Statement.Schema.Table == "stops" {
			_ = tx.AddError(errors.New("forced stop insert failure"))
		}
	}))

	in := dto.RouteCreateInput{AdminID: admin.ID, Name: "Fragile run", Date: "2025-03-14", Stops: stopInputs("A", "B")}
	_, err := s.Routes.Store(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInternal))

	var n int64
	require.NoError(t, db.Unscoped().Model(&models.Route{}).Count(&n).Error)
	assert.Zero(t, n, "route must not outlive its failed stop insert")
	assert.Empty(t, rec.types())

	failStops.Store(false)
	route, err := s.Routes.Store(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, seqs(visibleStops(t, db, route.ID)))
}

func TestRouteUpdateDropsDeliveriesOfReplacedStops(t *testing.T) {
	s, db, _ := setup(t)
	admin := seedAdmin(t, s, "ops@example.com", models.RoleAdmin)
	route := createRoute(t, s, admin.ID, "Depot", "Market")
	ctx := context.Background()

	_, err := s.Deliveries.Store(ctx, dto.DeliveryCreateInput{StopID: route.Stops[0].ID, Status: "completed"})
	require.NoError(t, err)

	_, err = s.Routes.Update(ctx, route.ID, dto.RouteUpdateInput{Stops: stopInputs("Depot", "Market")})
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Unscoped().Model(&models.Delivery{}).Count(&n).Error)
	assert.Zero(t, n)
}
