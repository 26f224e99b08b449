package models

// ReferencesModel carries the entities referenced by a response entry
type ReferencesModel struct {
	Agencies []AgencyReference `json:"agencies"`
	Routes   []Route           `json:"routes"`
}

// NewEmptyReferences returns references with non-nil empty lists
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Agencies: []AgencyReference{},
		Routes:   []Route{},
	}
}
