package models

// ShapeEntry is a route line as an encoded polyline
type ShapeEntry struct {
	RouteID  string   `json:"routeId"`
	Points   string   `json:"points"`
	Length   int      `json:"length"`
	Levels   string   `json:"levels"`
	Strategy string   `json:"strategy"`
	Stops    []string `json:"stops"`
}
