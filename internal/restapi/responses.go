package restapi

import (
	"encoding/json"
	"net/http"

	"transitgeo.cartes.app/internal/logging"
	"transitgeo.cartes.app/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
}

// sendGeoJSON writes an already encoded FeatureCollection.
func (api *RestAPI) sendGeoJSON(w http.ResponseWriter, r *http.Request, body []byte) {
	w.Header().Set("Content-Type", "application/geo+json")
	if _, err := w.Write(body); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to write geojson response", err)
	}
}
