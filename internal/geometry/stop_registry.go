package geometry

import (
	"context"
	"fmt"
	"sync"

	"transitgeo.cartes.app/gtfsdb"
	"transitgeo.cartes.app/internal/metrics"
)

// StopRegistry memoizes resolved stops by id and indexes them by display
// name. One registry lives for one dataset version and is safe for
// concurrent use.
type StopRegistry struct {
	mu     sync.RWMutex
	byID   map[string]gtfsdb.Stop
	byName map[string]gtfsdb.Stop
	// epoch counts resets; a lookup started before a reset is not memoized
	epoch uint64
}

func NewStopRegistry() *StopRegistry {
	return &StopRegistry{
		byID:   make(map[string]gtfsdb.Stop),
		byName: make(map[string]gtfsdb.Stop),
	}
}

// Resolve returns the stop with the given id, querying store on first use.
// Zero or several matching rows yield a *StopResolutionError.
func (r *StopRegistry) Resolve(ctx context.Context, store StopLookup, stopID string) (gtfsdb.Stop, error) {
	r.mu.RLock()
	stop, ok := r.byID[stopID]
	epoch := r.epoch
	r.mu.RUnlock()
	if ok {
		metrics.StopRegistryLookups.WithLabelValues("hit").Inc()
		return stop, nil
	}
	metrics.StopRegistryLookups.WithLabelValues("miss").Inc()

	stops, err := store.StopsByID(ctx, stopID)
	if err != nil {
		return gtfsdb.Stop{}, fmt.Errorf("querying stop %q: %w", stopID, err)
	}
	switch len(stops) {
	case 0:
		return gtfsdb.Stop{}, &StopResolutionError{StopID: stopID, Matches: 0, Err: ErrStopNotFound}
	case 1:
		r.registerAt(epoch, stops[0])
		return stops[0], nil
	default:
		return gtfsdb.Stop{}, &StopResolutionError{StopID: stopID, Matches: len(stops), Err: ErrAmbiguousStop}
	}
}

// Register adds a stop. A later stop with the same display name replaces the
// earlier one in the name index.
func (r *StopRegistry) Register(stop gtfsdb.Stop) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[stop.ID] = stop
	r.byName[DisplayName(stop)] = stop
}

// registerAt registers stop only if no Reset happened since epoch was read.
func (r *StopRegistry) registerAt(epoch uint64, stop gtfsdb.Stop) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		return
	}
	r.byID[stop.ID] = stop
	r.byName[DisplayName(stop)] = stop
}

// StopByName looks a stop up by display name.
func (r *StopRegistry) StopByName(name string) (gtfsdb.Stop, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stop, ok := r.byName[name]
	return stop, ok
}

func (r *StopRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Reset forgets every stop. Called when a new dataset is loaded.
func (r *StopRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[string]gtfsdb.Stop)
	r.byName = make(map[string]gtfsdb.Stop)
	r.epoch++
}

// DisplayName is the stop name, or the stop id for unnamed stops.
func DisplayName(stop gtfsdb.Stop) string {
	if stop.Name != "" {
		return stop.Name
	}
	return stop.ID
}
