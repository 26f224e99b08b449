package restapi

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/twpayne/go-polyline"
	"transitgeo.cartes.app/internal/geometry"
	"transitgeo.cartes.app/internal/models"
	"transitgeo.cartes.app/internal/utils"
)

// routeShapeHandler serves the representative line of a single route as an
// encoded polyline.
func (api *RestAPI) routeShapeHandler(w http.ResponseWriter, r *http.Request) {
	routeID := utils.ExtractIDFromParams(r, "route_id")
	if err := utils.ValidateID(routeID); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"route_id": {err.Error()}})
		return
	}

	ctx := r.Context()
	route, err := api.GtfsManager.GtfsDB.RouteByID(ctx, routeID)
	if errors.Is(err, sql.ErrNoRows) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	g, err := api.GtfsManager.Builder().BuildRoute(ctx, route)
	switch {
	case errors.Is(err, geometry.ErrNoTrips):
		api.sendNotFound(w, r)
		return
	case errors.Is(err, geometry.ErrDataIntegrity):
		api.unprocessableResponse(w, r, err)
		return
	case err != nil:
		api.buildErrorResponse(w, r, err)
		return
	}

	coords := make([][]float64, len(g.Line))
	for i, p := range g.Line {
		coords[i] = []float64{p.Lat(), p.Lon()}
	}
	points := string(polyline.EncodeCoords(coords))

	entry := models.ShapeEntry{
		RouteID:  route.ID,
		Points:   points,
		Length:   len(points),
		Levels:   "",
		Strategy: string(g.Strategy),
		Stops:    g.StopNames,
	}

	references := models.NewEmptyReferences()
	references.Routes = append(references.Routes, models.Route{
		ID:        route.ID,
		AgencyID:  route.AgencyID,
		ShortName: route.ShortName,
		LongName:  route.LongName,
		Type:      route.Type,
		Color:     route.Color,
		TextColor: route.TextColor,
	})

	api.sendResponse(w, r, models.NewEntryResponse(entry, references))
}
