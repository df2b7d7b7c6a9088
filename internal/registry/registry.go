// Package registry holds the canonical set of warehouse locations and
// enforces all status transitions. All mutable state lives behind a single
// lock; multi-location operations are validated fully before any mutation.
package registry

import (
	"sync"

	"github.com/google/uuid"

	"warespace/internal/catalog"
	"warespace/internal/models"
)

// DefaultQueryLimit caps query results when no limit is given
const DefaultQueryLimit = 100

// Registry owns the location catalogue and the reservation ledger
type Registry struct {
	mu           sync.RWMutex
	locations    map[string]*models.Location
	order        []string
	reservations map[string]*models.Reservation

	onTransition func(Event)
}

// Event describes a completed status transition
type Event struct {
	Op      string         `json:"op"`
	Changes []StatusChange `json:"changes"`
}

// StatusChange is a single location's new status within an event
type StatusChange struct {
	LocationID string                `json:"location_id"`
	Status     models.LocationStatus `json:"status"`
}

// New creates a registry owning the given catalogue. The catalogue must not
// be mutated by the caller afterwards.
func New(cat *catalog.Catalogue) *Registry {
	return &Registry{
		locations:    cat.Locations,
		order:        cat.Order,
		reservations: make(map[string]*models.Reservation),
	}
}

// SetOnTransition installs a callback invoked after every successful write
// operation, outside the registry lock. Must be set before the registry is
// shared between goroutines.
func (r *Registry) SetOnTransition(fn func(Event)) {
	r.onTransition = fn
}

func (r *Registry) notify(ev Event) {
	if r.onTransition != nil {
		r.onTransition(ev)
	}
}

// Count returns the number of loaded locations
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Get returns a copy of the location with the given id
func (r *Registry) Get(id string) (*models.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, exists := r.locations[id]
	if !exists {
		return nil, &NotFoundError{ID: id}
	}
	copied := *loc
	return &copied, nil
}

// GetReservation returns a copy of the reservation with the given id
func (r *Registry) GetReservation(id string) (*models.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, exists := r.reservations[id]
	if !exists {
		return nil, &ReservationNotFoundError{ID: id}
	}
	copied := *res
	return &copied, nil
}

// Filter selects locations for Query. Zero values mean "no constraint".
type Filter struct {
	Status    models.LocationStatus
	AreaType  models.AreaType
	AreaID    string
	GroupID   string
	MinLength int
	MinWidth  int
	MinHeight int
	MinWeight int
	Limit     int
}

func (f Filter) matches(loc *models.Location) bool {
	if f.Status != "" && loc.Status != f.Status {
		return false
	}
	if f.AreaType != "" && loc.AreaType != f.AreaType {
		return false
	}
	if f.AreaID != "" && loc.AreaID != f.AreaID {
		return false
	}
	if f.GroupID != "" && loc.GroupID != f.GroupID {
		return false
	}
	if f.MinLength > 0 && loc.LengthMM < f.MinLength {
		return false
	}
	if f.MinWidth > 0 && loc.WidthMM < f.MinWidth {
		return false
	}
	if f.MinHeight > 0 && loc.HeightMM < f.MinHeight {
		return false
	}
	if f.MinWeight > 0 && loc.MaxWeightKG < f.MinWeight {
		return false
	}
	return true
}

// Query scans the catalogue in insertion order and returns locations
// matching all filters, stopping once limit items are collected. The
// returned count equals the number of returned items, not total matches.
func (r *Registry) Query(f Filter) ([]*models.Location, int) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	capHint := limit
	if capHint > len(r.order) {
		capHint = len(r.order)
	}
	results := make([]*models.Location, 0, capHint)
	for _, id := range r.order {
		loc := r.locations[id]
		if !f.matches(loc) {
			continue
		}
		copied := *loc
		results = append(results, &copied)
		if len(results) >= limit {
			break
		}
	}
	return results, len(results)
}

// ReservationRequest carries the metadata for Reserve
type ReservationRequest struct {
	ID          string
	LocationIDs []string
	Ref         string
	FromTS      string
	UntilTS     string
}

// Reserve places a hold on every listed location. Validation runs against
// all ids before any mutation: a single missing or non-FREE location leaves
// the whole catalogue untouched. An existing reservation with the same id is
// overwritten silently.
func (r *Registry) Reserve(req ReservationRequest) (*models.Reservation, error) {
	r.mu.Lock()

	for _, id := range req.LocationIDs {
		loc, exists := r.locations[id]
		if !exists {
			r.mu.Unlock()
			return nil, &NotFoundError{ID: id}
		}
		if loc.Status != models.StatusFree {
			r.mu.Unlock()
			return nil, &ConflictError{ID: id, Status: loc.Status, Op: "reserve"}
		}
	}

	changes := make([]StatusChange, 0, len(req.LocationIDs))
	for _, id := range req.LocationIDs {
		r.locations[id].Status = models.StatusReserved
		changes = append(changes, StatusChange{LocationID: id, Status: models.StatusReserved})
	}

	resID := req.ID
	if resID == "" {
		resID = uuid.New().String()
	}
	res := &models.Reservation{
		ID:          resID,
		LocationIDs: append([]string(nil), req.LocationIDs...),
		Ref:         req.Ref,
		FromTS:      req.FromTS,
		UntilTS:     req.UntilTS,
		Status:      models.ReservationActive,
	}
	r.reservations[resID] = res

	copied := *res
	r.mu.Unlock()

	r.notify(Event{Op: "reserve", Changes: changes})
	return &copied, nil
}

// Occupy transitions a FREE or RESERVED location to OCCUPIED. palletRef is
// accepted for the request layer's sake but not stored on the location.
func (r *Registry) Occupy(id, palletRef string) (*models.Location, error) {
	r.mu.Lock()

	loc, exists := r.locations[id]
	if !exists {
		r.mu.Unlock()
		return nil, &NotFoundError{ID: id}
	}
	if loc.Status != models.StatusFree && loc.Status != models.StatusReserved {
		r.mu.Unlock()
		return nil, &ConflictError{ID: id, Status: loc.Status, Op: "occupy"}
	}

	loc.Status = models.StatusOccupied
	copied := *loc
	r.mu.Unlock()

	r.notify(Event{Op: "occupy", Changes: []StatusChange{{LocationID: id, Status: models.StatusOccupied}}})
	return &copied, nil
}

// Release sets a location back to FREE regardless of its current status.
// This is a deliberately wide contract: it also clears BLOCKED and MAINT.
func (r *Registry) Release(id string) (*models.Location, error) {
	r.mu.Lock()

	loc, exists := r.locations[id]
	if !exists {
		r.mu.Unlock()
		return nil, &NotFoundError{ID: id}
	}

	loc.Status = models.StatusFree
	copied := *loc
	r.mu.Unlock()

	r.notify(Event{Op: "release", Changes: []StatusChange{{LocationID: id, Status: models.StatusFree}}})
	return &copied, nil
}

// Move relocates the contents of one location into another: from must be
// OCCUPIED and to must be FREE or RESERVED. Both mutations happen under the
// same lock hold, so no concurrent query observes a half-applied move.
func (r *Registry) Move(fromID, toID, palletRef string) (*models.Location, *models.Location, error) {
	r.mu.Lock()

	from, fromExists := r.locations[fromID]
	to, toExists := r.locations[toID]
	if !fromExists || !toExists {
		r.mu.Unlock()
		return nil, nil, &NotFoundError{}
	}
	if from.Status != models.StatusOccupied {
		r.mu.Unlock()
		return nil, nil, &ConflictError{ID: fromID, Status: from.Status, Op: "move out of"}
	}
	if to.Status != models.StatusFree && to.Status != models.StatusReserved {
		r.mu.Unlock()
		return nil, nil, &ConflictError{ID: toID, Status: to.Status, Op: "move into"}
	}

	from.Status = models.StatusFree
	to.Status = models.StatusOccupied
	fromCopy := *from
	toCopy := *to
	r.mu.Unlock()

	r.notify(Event{Op: "move", Changes: []StatusChange{
		{LocationID: fromID, Status: models.StatusFree},
		{LocationID: toID, Status: models.StatusOccupied},
	}})
	return &fromCopy, &toCopy, nil
}

// StatusCounts returns how many locations are in each status
func (r *Registry) StatusCounts() map[models.LocationStatus]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[models.LocationStatus]int)
	for _, loc := range r.locations {
		counts[loc.Status]++
	}
	return counts
}
