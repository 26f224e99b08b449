package restapi

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"transitgeo.cartes.app/internal/geometry"
	"transitgeo.cartes.app/internal/utils"
)

// requestedAgency validates the agency_id parameter and checks that the
// agency exists. It writes the error response itself and returns false when
// the request cannot proceed.
func (api *RestAPI) requestedAgency(w http.ResponseWriter, r *http.Request) (string, bool) {
	agencyID := utils.ExtractIDFromParams(r, "agency_id")
	if err := utils.ValidateID(agencyID); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"agency_id": {err.Error()}})
		return "", false
	}

	if _, err := api.GtfsManager.GtfsDB.AgencyByID(r.Context(), agencyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			api.sendNotFound(w, r)
		} else {
			api.serverErrorResponse(w, r, err)
		}
		return "", false
	}
	return agencyID, true
}

// agencyGeojsonsHandler serves one LineString feature per route of the agency.
// The gather query parameter overrides the configured default.
func (api *RestAPI) agencyGeojsonsHandler(w http.ResponseWriter, r *http.Request) {
	agencyID, ok := api.requestedAgency(w, r)
	if !ok {
		return
	}

	fieldErrors := make(map[string][]string)
	gather := utils.ParseBoolParam(r, "gather", api.Config.ShouldGather(agencyID), fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	ctx := r.Context()
	body, err := api.cachedJSON("routes", agencyID+":"+strconv.FormatBool(gather), func() (any, error) {
		geometries, err := api.GtfsManager.Builder().BuildAgencyGeometries(ctx, agencyID, gather)
		if err != nil {
			return nil, err
		}
		return geometry.RouteFeatureCollection(geometries), nil
	})
	if err != nil {
		api.buildErrorResponse(w, r, err)
		return
	}

	api.sendGeoJSON(w, r, body)
}

func (api *RestAPI) buildErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		api.errorResponse(w, r, http.StatusServiceUnavailable, "request cancelled")
		return
	}
	api.serverErrorResponse(w, r, err)
}
