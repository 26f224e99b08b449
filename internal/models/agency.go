package models

// AgencyCoverage is the bounding box of the stops an agency serves
type AgencyCoverage struct {
	AgencyID string  `json:"agencyId"`
	Lat      float64 `json:"lat"`
	LatSpan  float64 `json:"latSpan"`
	Lon      float64 `json:"lon"`
	LonSpan  float64 `json:"lonSpan"`
	Routes   int     `json:"routes"`
	Gather   bool    `json:"gather"`
}

// NewAgencyCoverage centers the coverage on the given bounds
func NewAgencyCoverage(agencyID string, minLat, maxLat, minLon, maxLon float64, routes int, gather bool) AgencyCoverage {
	return AgencyCoverage{
		AgencyID: agencyID,
		Lat:      (minLat + maxLat) / 2,
		LatSpan:  maxLat - minLat,
		Lon:      (minLon + maxLon) / 2,
		LonSpan:  maxLon - minLon,
		Routes:   routes,
		Gather:   gather,
	}
}

type AgencyReference struct {
	Email    string `json:"email,omitempty"`
	FareUrl  string `json:"fareUrl,omitempty"`
	ID       string `json:"id"`
	Lang     string `json:"lang,omitempty"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Timezone string `json:"timezone"`
	URL      string `json:"url"`
}
