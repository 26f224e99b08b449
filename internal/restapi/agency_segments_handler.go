package restapi

import (
	"net/http"
)

// agencySegmentsHandler serves the weighted segment network of the agency:
// one LineString per directed stop pair and one Point per stop.
func (api *RestAPI) agencySegmentsHandler(w http.ResponseWriter, r *http.Request) {
	agencyID, ok := api.requestedAgency(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	body, err := api.cachedJSON("segments", agencyID, func() (any, error) {
		graph, err := api.GtfsManager.Builder().AggregateSegments(ctx, agencyID)
		if err != nil {
			return nil, err
		}
		return graph.FeatureCollection(), nil
	})
	if err != nil {
		api.buildErrorResponse(w, r, err)
		return
	}

	api.sendGeoJSON(w, r, body)
}
