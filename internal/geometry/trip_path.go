package geometry

import (
	"github.com/paulmach/orb"
	"transitgeo.cartes.app/gtfsdb"
)

// TripPath is the ordered list of stops visited by one trip.
type TripPath struct {
	Trip      gtfsdb.Trip
	Stops     []gtfsdb.Stop
	StopNames []string
	Subtype   VehicleSubtype
}

// BuildTripPath keeps orderedStops in the given order, consecutive
// duplicates included. Callers sort visits by stop_sequence beforehand.
func BuildTripPath(trip gtfsdb.Trip, orderedStops []gtfsdb.Stop) (TripPath, error) {
	subtype, err := subtypeOf(orderedStops)
	if err != nil {
		return TripPath{}, err
	}

	names := make([]string, len(orderedStops))
	for i, stop := range orderedStops {
		names[i] = DisplayName(stop)
	}

	return TripPath{
		Trip:      trip,
		Stops:     orderedStops,
		StopNames: names,
		Subtype:   subtype,
	}, nil
}

func (p TripPath) Len() int {
	return len(p.Stops)
}

// Coordinates returns the stops as [lon, lat] points in visit order.
func (p TripPath) Coordinates() orb.LineString {
	line := make(orb.LineString, len(p.Stops))
	for i, stop := range p.Stops {
		line[i] = stopPoint(stop)
	}
	return line
}

func stopPoint(stop gtfsdb.Stop) orb.Point {
	return orb.Point{stop.Lon, stop.Lat}
}
