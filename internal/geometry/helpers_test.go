package geometry

import (
	"context"
	"errors"
	"time"

	"transitgeo.cartes.app/gtfsdb"
)

var errStoreDown = errors.New("database is locked")

// fakeStore is an in-memory ScheduleStore.
type fakeStore struct {
	routes    map[string][]gtfsdb.Route
	trips     map[string][]gtfsdb.Trip
	stopTimes map[string][]gtfsdb.StopTime
	stops     []gtfsdb.Stop
	services  map[string]int
	stopCalls int
	failStops bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		routes:    make(map[string][]gtfsdb.Route),
		trips:     make(map[string][]gtfsdb.Trip),
		stopTimes: make(map[string][]gtfsdb.StopTime),
		services:  make(map[string]int),
	}
}

func (s *fakeStore) addStop(id, name string, lat, lon float64) *fakeStore {
	s.stops = append(s.stops, gtfsdb.Stop{ID: id, Name: name, Lat: lat, Lon: lon})
	return s
}

func (s *fakeStore) addRoute(agencyID, routeID string) *fakeStore {
	s.routes[agencyID] = append(s.routes[agencyID], gtfsdb.Route{ID: routeID, AgencyID: agencyID, ShortName: routeID})
	return s
}

func (s *fakeStore) addTrip(routeID, tripID, serviceID string, stopIDs ...string) *fakeStore {
	s.trips[routeID] = append(s.trips[routeID], gtfsdb.Trip{ID: tripID, RouteID: routeID, ServiceID: serviceID})
	for i, id := range stopIDs {
		s.stopTimes[tripID] = append(s.stopTimes[tripID], gtfsdb.StopTime{TripID: tripID, StopID: id, StopSequence: int64(i + 1)})
	}
	return s
}

func (s *fakeStore) setServiceDays(serviceID string, days int) *fakeStore {
	s.services[serviceID] = days
	return s
}

func (s *fakeStore) RoutesForAgency(_ context.Context, agencyID string) ([]gtfsdb.Route, error) {
	return s.routes[agencyID], nil
}

func (s *fakeStore) TripsForRoute(_ context.Context, routeID string) ([]gtfsdb.Trip, error) {
	return s.trips[routeID], nil
}

func (s *fakeStore) StopTimesForTrip(_ context.Context, tripID string) ([]gtfsdb.StopTime, error) {
	return s.stopTimes[tripID], nil
}

func (s *fakeStore) StopsByID(_ context.Context, stopID string) ([]gtfsdb.Stop, error) {
	s.stopCalls++
	if s.failStops {
		return nil, errStoreDown
	}
	var out []gtfsdb.Stop
	for _, stop := range s.stops {
		if stop.ID == stopID {
			out = append(out, stop)
		}
	}
	return out, nil
}

func (s *fakeStore) ActiveServiceDates(_ context.Context, serviceID string) ([]time.Time, error) {
	n := s.services[serviceID]
	dates := make([]time.Time, n)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = day.AddDate(0, 0, i)
	}
	return dates, nil
}

// corridorStore has stops A-D and route R1 with trips [A,B,D] and [A,B,C,D].
func corridorStore() *fakeStore {
	return newFakeStore().
		addStop("A", "Paris", 48.8443, 2.3743).
		addStop("B", "Dijon", 47.3232, 5.0270).
		addStop("C", "Macon", 46.3069, 4.8274).
		addStop("D", "Lyon", 45.7606, 4.8593).
		addRoute("SNCF", "R1").
		addTrip("R1", "T1", "daily", "A", "B", "D").
		addTrip("R1", "T2", "daily", "A", "B", "C", "D")
}

// pathOf builds a trip path from registered stop names.
func pathOf(registry *StopRegistry, tripID string, names ...string) TripPath {
	stops := make([]gtfsdb.Stop, len(names))
	for i, name := range names {
		stop, ok := registry.StopByName(name)
		if !ok {
			panic("unregistered stop " + name)
		}
		stops[i] = stop
	}
	path, err := BuildTripPath(gtfsdb.Trip{ID: tripID}, stops)
	if err != nil {
		panic(err)
	}
	return path
}

// letterRegistry registers stops named after each letter on a diagonal.
func letterRegistry(names ...string) *StopRegistry {
	registry := NewStopRegistry()
	for i, name := range names {
		registry.Register(gtfsdb.Stop{ID: "S" + name, Name: name, Lat: 45 + float64(i)*0.1, Lon: 5 + float64(i)*0.1})
	}
	return registry
}
