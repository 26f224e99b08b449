package geometry

import (
	"slices"

	"transitgeo.cartes.app/gtfsdb"
)

// SegmentKey is a directed pair of consecutive stop ids.
type SegmentKey struct {
	From string
	To   string
}

func (k SegmentKey) String() string {
	return k.From + " -> " + k.To
}

// SegmentStat accumulates the service days and trips using a segment.
type SegmentStat struct {
	Count   int
	TripIDs []string
}

// SegmentGraph is the weighted directed graph of one aggregation pass.
type SegmentGraph struct {
	keys      []SegmentKey
	stats     map[SegmentKey]*SegmentStat
	incidence map[string]map[SegmentKey]struct{}
	stopIDs   []string
	stops     map[string]gtfsdb.Stop
}

func NewSegmentGraph() *SegmentGraph {
	return &SegmentGraph{
		stats:     make(map[SegmentKey]*SegmentStat),
		incidence: make(map[string]map[SegmentKey]struct{}),
		stops:     make(map[string]gtfsdb.Stop),
	}
}

// Add records one use of from -> to by tripID weighted by its service days.
func (g *SegmentGraph) Add(from, to gtfsdb.Stop, weight int, tripID string) {
	key := SegmentKey{From: from.ID, To: to.ID}
	stat, ok := g.stats[key]
	if !ok {
		stat = &SegmentStat{}
		g.stats[key] = stat
		g.keys = append(g.keys, key)
		g.link(from, key)
		g.link(to, key)
	}
	stat.Count += weight
	stat.TripIDs = append(stat.TripIDs, tripID)
}

func (g *SegmentGraph) link(stop gtfsdb.Stop, key SegmentKey) {
	keys, ok := g.incidence[stop.ID]
	if !ok {
		keys = make(map[SegmentKey]struct{})
		g.incidence[stop.ID] = keys
		g.stopIDs = append(g.stopIDs, stop.ID)
		g.stops[stop.ID] = stop
	}
	keys[key] = struct{}{}
}

// Merge folds other into g, keeping first-seen order.
func (g *SegmentGraph) Merge(other *SegmentGraph) {
	for _, key := range other.keys {
		stat := other.stats[key]
		from, to := other.stops[key.From], other.stops[key.To]
		existing, ok := g.stats[key]
		if !ok {
			existing = &SegmentStat{}
			g.stats[key] = existing
			g.keys = append(g.keys, key)
			g.link(from, key)
			g.link(to, key)
		}
		existing.Count += stat.Count
		existing.TripIDs = append(existing.TripIDs, stat.TripIDs...)
	}
}

// Keys returns segment keys in first-seen order.
func (g *SegmentGraph) Keys() []SegmentKey {
	return slices.Clone(g.keys)
}

func (g *SegmentGraph) Stat(key SegmentKey) (SegmentStat, bool) {
	stat, ok := g.stats[key]
	if !ok {
		return SegmentStat{}, false
	}
	return SegmentStat{Count: stat.Count, TripIDs: slices.Clone(stat.TripIDs)}, true
}

func (g *SegmentGraph) Len() int {
	return len(g.keys)
}

// Stops returns every stop touching a segment, in first-seen order.
func (g *SegmentGraph) Stops() []gtfsdb.Stop {
	stops := make([]gtfsdb.Stop, len(g.stopIDs))
	for i, id := range g.stopIDs {
		stops[i] = g.stops[id]
	}
	return stops
}

// StopWeight sums the counts of the segments incident to stopID. A self loop
// is counted once.
func (g *SegmentGraph) StopWeight(stopID string) int {
	total := 0
	for key := range g.incidence[stopID] {
		total += g.stats[key].Count
	}
	return total
}
