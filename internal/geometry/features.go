package geometry

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"transitgeo.cartes.app/internal/utils"
)

const earthRadiusInMeters = 6371000

// properties skips empty values so features only carry what the feed provides.
type properties geojson.Properties

func (p properties) set(key string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		if v == "" {
			return
		}
	case []string:
		if len(v) == 0 {
			return
		}
	case bool:
		if !v {
			return
		}
	}
	p[key] = value
}

// Feature renders the geometry as a GeoJSON LineString feature.
func (g RouteGeometry) Feature() *geojson.Feature {
	f := geojson.NewFeature(g.Line)
	props := properties(f.Properties)
	props.set("route_id", g.Route.ID)
	props.set("agency_id", g.Route.AgencyID)
	props.set("route_short_name", g.Route.ShortName)
	props.set("route_long_name", g.Route.LongName)
	props.set("route_desc", g.Route.Desc)
	props.set("route_type", g.Route.Type)
	props.set("route_color", g.Route.Color)
	props.set("route_text_color", g.Route.TextColor)
	if g.Trip != nil {
		props.set("trip_id", g.Trip.ID)
		props.set("trip_headsign", g.Trip.Headsign)
	}
	props.set("stop_names", g.StopNames)
	props.set("subtype", string(g.Subtype))
	props.set("strategy", string(g.Strategy))
	props.set("extended", g.Extended)
	props.set("length_m", math.Round(LineLength(g.Line)))
	f.ID = g.Route.ID
	return f
}

// RouteFeatureCollection renders route geometries in order.
func RouteFeatureCollection(geometries []RouteGeometry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, g := range geometries {
		fc.Append(g.Feature())
	}
	return fc
}

// FeatureCollection renders one LineString per segment followed by one
// Point per stop.
func (g *SegmentGraph) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, key := range g.keys {
		stat := g.stats[key]
		from, to := g.stops[key.From], g.stops[key.To]
		f := geojson.NewFeature(orb.LineString{stopPoint(from), stopPoint(to)})
		props := properties(f.Properties)
		props.set("from", key.From)
		props.set("to", key.To)
		props.set("count", stat.Count)
		props.set("tripIds", stat.TripIDs)
		bearing := utils.BearingBetweenPoints(from.Lat, from.Lon, to.Lat, to.Lon)
		props.set("bearing", math.Round(bearing))
		props.set("direction", utils.BearingToCompass(bearing))
		props.set("distance_m", math.Round(Distance(from.Lat, from.Lon, to.Lat, to.Lon)))
		fc.Append(f)
	}
	for _, id := range g.stopIDs {
		stop := g.stops[id]
		f := geojson.NewFeature(stopPoint(stop))
		props := properties(f.Properties)
		props.set("stopId", stop.ID)
		props.set("stopName", stop.Name)
		props.set("count", g.StopWeight(id))
		fc.Append(f)
	}
	return fc
}

// Distance is the great circle distance in meters.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * earthRadiusInMeters
}

// LineLength sums the great circle distances along line.
func LineLength(line orb.LineString) float64 {
	total := 0.0
	for i := 0; i+1 < len(line); i++ {
		total += Distance(line[i].Lat(), line[i].Lon(), line[i+1].Lat(), line[i+1].Lon())
	}
	return total
}
