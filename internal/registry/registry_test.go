package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warespace/internal/catalog"
	"warespace/internal/models"
)

func testLocation(id string, status models.LocationStatus) *models.Location {
	return &models.Location{
		ID:          id,
		AreaID:      "FLEX-01",
		AreaType:    models.AreaFlex,
		LengthMM:    1000,
		WidthMM:     1000,
		HeightMM:    2000,
		MaxWeightKG: 2000,
		Status:      status,
	}
}

func newTestRegistry(locs ...*models.Location) *Registry {
	return New(catalog.FromSlice(locs))
}

func TestQueryLimitAndCount(t *testing.T) {
	var locs []*models.Location
	for i := 0; i < 150; i++ {
		locs = append(locs, testLocation(string(rune('A'+i/26))+string(rune('A'+i%26)), models.StatusFree))
	}
	reg := newTestRegistry(locs...)

	items, count := reg.Query(Filter{})
	assert.Len(t, items, 100, "default limit caps results")
	assert.Equal(t, 100, count, "count reflects returned items, not total matches")

	items, count = reg.Query(Filter{Limit: 10})
	assert.Len(t, items, 10)
	assert.Equal(t, 10, count)
}

func TestQueryInsertionOrder(t *testing.T) {
	reg := newTestRegistry(
		testLocation("C1", models.StatusFree),
		testLocation("A1", models.StatusFree),
		testLocation("B1", models.StatusFree),
	)

	items, _ := reg.Query(Filter{})
	require.Len(t, items, 3)
	assert.Equal(t, "C1", items[0].ID)
	assert.Equal(t, "A1", items[1].ID)
	assert.Equal(t, "B1", items[2].ID)
}

func TestQueryFilters(t *testing.T) {
	rack := testLocation("R1", models.StatusFree)
	rack.AreaID = "RACK-01"
	rack.AreaType = models.AreaRacked
	rack.MaxWeightKG = 1500

	grouped := testLocation("G1", models.StatusOccupied)
	grouped.GroupID = "OVR-01"

	reg := newTestRegistry(rack, grouped, testLocation("F1", models.StatusFree))

	items, count := reg.Query(Filter{Status: models.StatusFree})
	assert.Equal(t, 2, count)

	items, count = reg.Query(Filter{AreaType: models.AreaRacked})
	require.Equal(t, 1, count)
	assert.Equal(t, "R1", items[0].ID)

	items, count = reg.Query(Filter{AreaID: "RACK-01"})
	require.Equal(t, 1, count)
	assert.Equal(t, "R1", items[0].ID)

	items, count = reg.Query(Filter{GroupID: "OVR-01"})
	require.Equal(t, 1, count)
	assert.Equal(t, "G1", items[0].ID)

	items, count = reg.Query(Filter{MinWeight: 1600})
	require.Equal(t, 1, count)
	assert.Equal(t, "F1", items[0].ID, "only the 2000kg flex slot clears the threshold")

	_, count = reg.Query(Filter{Status: models.StatusFree, AreaType: models.AreaFlex})
	assert.Equal(t, 1, count, "filters are conjunctive")
}

func TestReserveSuccess(t *testing.T) {
	reg := newTestRegistry(
		testLocation("L1", models.StatusFree),
		testLocation("L2", models.StatusFree),
	)

	res, err := reg.Reserve(ReservationRequest{ID: "RES-1", LocationIDs: []string{"L1", "L2"}, Ref: "PO-17"})
	require.NoError(t, err)
	assert.Equal(t, "RES-1", res.ID)
	assert.Equal(t, []string{"L1", "L2"}, res.LocationIDs)
	assert.Equal(t, models.ReservationActive, res.Status)

	for _, id := range []string{"L1", "L2"} {
		loc, err := reg.Get(id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusReserved, loc.Status)
	}

	stored, err := reg.GetReservation("RES-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"L1", "L2"}, stored.LocationIDs)
}

func TestReserveAllOrNothing(t *testing.T) {
	reg := newTestRegistry(
		testLocation("L3", models.StatusFree),
		testLocation("L4", models.StatusOccupied),
	)

	_, err := reg.Reserve(ReservationRequest{ID: "RES-1", LocationIDs: []string{"L3", "L4"}})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "L4", conflict.ID)
	assert.Equal(t, models.StatusOccupied, conflict.Status)

	loc, _ := reg.Get("L3")
	assert.Equal(t, models.StatusFree, loc.Status, "no location is mutated on a failed reserve")

	_, err = reg.GetReservation("RES-1")
	assert.Error(t, err, "no reservation is stored on a failed reserve")
}

func TestReserveMissingLocation(t *testing.T) {
	reg := newTestRegistry(testLocation("L1", models.StatusFree))

	_, err := reg.Reserve(ReservationRequest{ID: "RES-1", LocationIDs: []string{"L1", "NOPE"}})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "NOPE", notFound.ID)

	loc, _ := reg.Get("L1")
	assert.Equal(t, models.StatusFree, loc.Status)
}

func TestReserveRejectsReservedLocation(t *testing.T) {
	reg := newTestRegistry(testLocation("L1", models.StatusReserved))

	_, err := reg.Reserve(ReservationRequest{ID: "RES-2", LocationIDs: []string{"L1"}})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "reserve", conflict.Op)
}

func TestReserveOverwritesDuplicateID(t *testing.T) {
	reg := newTestRegistry(
		testLocation("L1", models.StatusFree),
		testLocation("L2", models.StatusFree),
	)

	_, err := reg.Reserve(ReservationRequest{ID: "RES-1", LocationIDs: []string{"L1"}})
	require.NoError(t, err)
	_, err = reg.Reserve(ReservationRequest{ID: "RES-1", LocationIDs: []string{"L2"}})
	require.NoError(t, err)

	res, err := reg.GetReservation("RES-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"L2"}, res.LocationIDs, "a duplicate reservation id overwrites silently")
}

func TestReserveGeneratesID(t *testing.T) {
	reg := newTestRegistry(testLocation("L1", models.StatusFree))

	res, err := reg.Reserve(ReservationRequest{LocationIDs: []string{"L1"}})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
}

func TestOccupyTransitions(t *testing.T) {
	reg := newTestRegistry(
		testLocation("FREE-1", models.StatusFree),
		testLocation("RES-1", models.StatusReserved),
		testLocation("OCC-1", models.StatusOccupied),
		testLocation("BLK-1", models.StatusBlocked),
		testLocation("MNT-1", models.StatusMaint),
	)

	for _, id := range []string{"FREE-1", "RES-1"} {
		loc, err := reg.Occupy(id, "PALLET-9")
		require.NoError(t, err)
		assert.Equal(t, models.StatusOccupied, loc.Status)
	}

	for _, id := range []string{"OCC-1", "BLK-1", "MNT-1"} {
		before, _ := reg.Get(id)
		_, err := reg.Occupy(id, "")
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict, id)
		assert.Equal(t, id, conflict.ID)
		assert.Equal(t, "occupy", conflict.Op)

		after, _ := reg.Get(id)
		assert.Equal(t, before.Status, after.Status, "failed occupy leaves status unchanged")
	}

	_, err := reg.Occupy("NOPE", "")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestReleaseUnconditional(t *testing.T) {
	statuses := []models.LocationStatus{
		models.StatusFree, models.StatusOccupied, models.StatusReserved,
		models.StatusBlocked, models.StatusMaint,
	}
	for _, status := range statuses {
		reg := newTestRegistry(testLocation("L1", status))
		loc, err := reg.Release("L1")
		require.NoError(t, err, string(status))
		assert.Equal(t, models.StatusFree, loc.Status)

		// Idempotent
		loc, err = reg.Release("L1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusFree, loc.Status)
	}

	reg := newTestRegistry()
	_, err := reg.Release("NOPE")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestMoveScenario(t *testing.T) {
	reg := newTestRegistry(
		testLocation("L1", models.StatusFree),
		testLocation("L2", models.StatusOccupied),
	)

	from, to, err := reg.Move("L2", "L1", "PALLET-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFree, from.Status)
	assert.Equal(t, models.StatusOccupied, to.Status)

	// L2 is now FREE, so the same move must fail and change nothing
	_, _, err = reg.Move("L2", "L1", "PALLET-1")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "L2", conflict.ID)

	l1, _ := reg.Get("L1")
	l2, _ := reg.Get("L2")
	assert.Equal(t, models.StatusOccupied, l1.Status)
	assert.Equal(t, models.StatusFree, l2.Status)
}

func TestMoveIntoReserved(t *testing.T) {
	reg := newTestRegistry(
		testLocation("SRC", models.StatusOccupied),
		testLocation("DST", models.StatusReserved),
	)

	from, to, err := reg.Move("SRC", "DST", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFree, from.Status)
	assert.Equal(t, models.StatusOccupied, to.Status)
}

func TestMoveDestinationConflict(t *testing.T) {
	reg := newTestRegistry(
		testLocation("SRC", models.StatusOccupied),
		testLocation("DST", models.StatusOccupied),
	)

	_, _, err := reg.Move("SRC", "DST", "")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "DST", conflict.ID)

	src, _ := reg.Get("SRC")
	dst, _ := reg.Get("DST")
	assert.Equal(t, models.StatusOccupied, src.Status, "failed move changes neither side")
	assert.Equal(t, models.StatusOccupied, dst.Status)
}

func TestMoveMissingLocation(t *testing.T) {
	reg := newTestRegistry(testLocation("L1", models.StatusOccupied))

	_, _, err := reg.Move("L1", "NOPE", "")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	_, _, err = reg.Move("NOPE", "L1", "")
	require.ErrorAs(t, err, &notFound)

	loc, _ := reg.Get("L1")
	assert.Equal(t, models.StatusOccupied, loc.Status)
}

func TestTransitionEvents(t *testing.T) {
	reg := newTestRegistry(
		testLocation("L1", models.StatusFree),
		testLocation("L2", models.StatusFree),
	)

	var events []Event
	reg.SetOnTransition(func(ev Event) { events = append(events, ev) })

	_, err := reg.Reserve(ReservationRequest{ID: "RES-1", LocationIDs: []string{"L1", "L2"}})
	require.NoError(t, err)
	_, err = reg.Occupy("L1", "")
	require.NoError(t, err)
	_, _, err = reg.Move("L1", "L2", "")
	require.NoError(t, err)
	_, err = reg.Release("L2")
	require.NoError(t, err)

	require.Len(t, events, 4)
	assert.Equal(t, "reserve", events[0].Op)
	assert.Len(t, events[0].Changes, 2)
	assert.Equal(t, "occupy", events[1].Op)
	assert.Equal(t, "move", events[2].Op)
	assert.Len(t, events[2].Changes, 2)
	assert.Equal(t, "release", events[3].Op)

	// Failed operations emit nothing
	_, err = reg.Occupy("L1", "")
	require.NoError(t, err)
	_, err = reg.Occupy("L1", "")
	require.Error(t, err)
	assert.Len(t, events, 5)
}

func TestStatusCounts(t *testing.T) {
	reg := newTestRegistry(
		testLocation("L1", models.StatusFree),
		testLocation("L2", models.StatusFree),
		testLocation("L3", models.StatusOccupied),
		testLocation("L4", models.StatusMaint),
	)

	counts := reg.StatusCounts()
	assert.Equal(t, 2, counts[models.StatusFree])
	assert.Equal(t, 1, counts[models.StatusOccupied])
	assert.Equal(t, 1, counts[models.StatusMaint])
	assert.Equal(t, 0, counts[models.StatusReserved])
}

func TestQueryReturnsCopies(t *testing.T) {
	reg := newTestRegistry(testLocation("L1", models.StatusFree))

	items, _ := reg.Query(Filter{})
	require.Len(t, items, 1)
	items[0].Status = models.StatusBlocked

	loc, _ := reg.Get("L1")
	assert.Equal(t, models.StatusFree, loc.Status, "callers cannot mutate registry state through query results")
}
