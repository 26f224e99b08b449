package geometry

import "slices"

// Gather extends every route geometry by splicing in intermediate stops that
// other routes serve between two of its consecutive stops. For each adjacent
// pair the longest detour found in another route's base stop list wins.
// Already extended geometries are returned unchanged, so Gather(Gather(x)) == Gather(x).
func Gather(geometries []RouteGeometry, registry *StopRegistry) []RouteGeometry {
	out := make([]RouteGeometry, len(geometries))
	copy(out, geometries)

	for i := range out {
		g := out[i]
		if g.Extended || len(g.StopNames) < 2 {
			continue
		}

		joined := []string{g.StopNames[0]}
		extended := false
		for k := 0; k+1 < len(g.StopNames); k++ {
			a, b := g.StopNames[k], g.StopNames[k+1]
			detour := longestDetour(geometries, i, a, b, registry)
			if detour == nil {
				joined = append(joined, b)
				continue
			}
			joined = append(joined, detour[1:]...)
			extended = true
		}
		if !extended {
			continue
		}

		line, err := lineFromNames(joined, registry)
		if err != nil {
			// every detour name was checked against the registry
			continue
		}
		g.StopNames = joined
		g.Line = line
		g.Extended = true
		out[i] = g
	}
	return out
}

// longestDetour returns the stop names between a and b (inclusive, oriented
// from a to b) found in the base list of a geometry other than skip. Pairs
// that are adjacent there too are not detours.
func longestDetour(geometries []RouteGeometry, skip int, a, b string, registry *StopRegistry) []string {
	var best []string
	for j, other := range geometries {
		if j == skip {
			continue
		}
		base := other.BaseStopNames
		ia, ib := slices.Index(base, a), slices.Index(base, b)
		if ia < 0 || ib < 0 || absInt(ia-ib) <= 1 {
			continue
		}

		var candidate []string
		if ia < ib {
			candidate = slices.Clone(base[ia : ib+1])
		} else {
			candidate = slices.Clone(base[ib : ia+1])
			slices.Reverse(candidate)
		}
		if !allRegistered(candidate, registry) {
			continue
		}
		if len(candidate) > len(best) {
			best = candidate
		}
	}
	return best
}

func allRegistered(names []string, registry *StopRegistry) bool {
	for _, name := range names {
		if _, ok := registry.StopByName(name); !ok {
			return false
		}
	}
	return true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
