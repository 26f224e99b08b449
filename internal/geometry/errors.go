package geometry

import (
	"errors"
	"fmt"
)

// ErrDataIntegrity is the root of every error caused by inconsistent schedule
// data. Such errors are fatal for the route being built but not for the agency.
var ErrDataIntegrity = errors.New("data integrity error")

var (
	ErrStopNotFound  = fmt.Errorf("%w: stop not found", ErrDataIntegrity)
	ErrAmbiguousStop = fmt.Errorf("%w: stop id matches several stops", ErrDataIntegrity)
)

// ErrNoTrips is returned for routes without any usable trip.
var ErrNoTrips = errors.New("route has no trips with at least two stops")

// ErrMergeCycle is returned by TopologicalOrder when the precedence
// constraints between stops cannot be satisfied.
var ErrMergeCycle = errors.New("stop precedence graph contains a cycle")

// StopResolutionError reports a stop id that did not resolve to exactly one stop.
type StopResolutionError struct {
	StopID  string
	Matches int
	Err     error
}

func (e *StopResolutionError) Error() string {
	return fmt.Sprintf("resolving stop %q: %d matches: %v", e.StopID, e.Matches, e.Err)
}

func (e *StopResolutionError) Unwrap() error {
	return e.Err
}

// UnknownSubtypeError reports a vehicle subtype label outside the known set.
type UnknownSubtypeError struct {
	StopID string
	Label  string
}

func (e *UnknownSubtypeError) Error() string {
	return fmt.Sprintf("unknown vehicle subtype %q in stop id %q", e.Label, e.StopID)
}

func (e *UnknownSubtypeError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// failureKind is the metrics label for a route failure.
func failureKind(err error) string {
	var resolution *StopResolutionError
	var subtype *UnknownSubtypeError
	switch {
	case errors.As(err, &resolution):
		return "stop_resolution"
	case errors.As(err, &subtype):
		return "unknown_subtype"
	default:
		return "other"
	}
}
