package geometry

import (
	"strings"

	"transitgeo.cartes.app/gtfsdb"
)

// VehicleSubtype is the rolling stock label encoded in SNCF stop ids.
type VehicleSubtype string

const NoSubtype VehicleSubtype = ""

const (
	SubtypeTGVInoui        VehicleSubtype = "TGV INOUI"
	SubtypeOuigo           VehicleSubtype = "OUIGO"
	SubtypeLyria           VehicleSubtype = "Lyria"
	SubtypeTrain           VehicleSubtype = "Train"
	SubtypeTrainTER        VehicleSubtype = "Train TER"
	SubtypeCarTER          VehicleSubtype = "Car TER"
	SubtypeCar             VehicleSubtype = "Car"
	SubtypeNavette         VehicleSubtype = "Navette"
	SubtypeIntercites      VehicleSubtype = "INTERCITES"
	SubtypeIntercitesNight VehicleSubtype = "INTERCITES de nuit"
	SubtypeTramTrain       VehicleSubtype = "TramTrain"
	SubtypeICE             VehicleSubtype = "ICE"
)

// subtypePrefix marks stop ids of the form "StopPoint:OCE<label>-<uic>".
const subtypePrefix = "StopPoint:OCE"

var knownSubtypes = map[VehicleSubtype]struct{}{
	SubtypeTGVInoui:        {},
	SubtypeOuigo:           {},
	SubtypeLyria:           {},
	SubtypeTrain:           {},
	SubtypeTrainTER:        {},
	SubtypeCarTER:          {},
	SubtypeCar:             {},
	SubtypeNavette:         {},
	SubtypeIntercites:      {},
	SubtypeIntercitesNight: {},
	SubtypeTramTrain:       {},
	SubtypeICE:             {},
}

// ParseSubtype extracts the subtype label of a stop id. ok is false when the
// id does not carry one.
func ParseSubtype(stopID string) (subtype VehicleSubtype, ok bool, err error) {
	rest, found := strings.CutPrefix(stopID, subtypePrefix)
	if !found {
		return NoSubtype, false, nil
	}
	label, _, _ := strings.Cut(rest, "-")
	subtype = VehicleSubtype(label)
	if _, known := knownSubtypes[subtype]; !known {
		return NoSubtype, true, &UnknownSubtypeError{StopID: stopID, Label: label}
	}
	return subtype, true, nil
}

// subtypeOf validates every prefixed stop id and returns the subtype of the
// first one.
func subtypeOf(stops []gtfsdb.Stop) (VehicleSubtype, error) {
	result := NoSubtype
	seen := false
	for _, stop := range stops {
		subtype, ok, err := ParseSubtype(stop.ID)
		if err != nil {
			return NoSubtype, err
		}
		if ok && !seen {
			result, seen = subtype, true
		}
	}
	return result, nil
}
