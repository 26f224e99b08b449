package models

type Route struct {
	ID        string `json:"id"`
	AgencyID  string `json:"agencyId"`
	ShortName string `json:"shortName,omitempty"`
	LongName  string `json:"longName,omitempty"`
	Type      int64  `json:"type"`
	Color     string `json:"color,omitempty"`
	TextColor string `json:"textColor,omitempty"`
}
