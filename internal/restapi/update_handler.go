package restapi

import (
	"context"
	"log/slog"
	"net/http"

	"transitgeo.cartes.app/internal/logging"
	"transitgeo.cartes.app/internal/models"
	"transitgeo.cartes.app/internal/utils"
)

// updateHandler reloads the GTFS source. The reload outlives a client that
// disconnects mid-way.
func (api *RestAPI) updateHandler(w http.ResponseWriter, r *http.Request) {
	secret := utils.ExtractIDFromParams(r, "secret")
	if !api.IsValidUpdateSecret(secret) {
		api.invalidAPIKeyResponse(w, r)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	if err := api.GtfsManager.Reload(ctx); err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	lastUpdated := api.GtfsManager.LastUpdated()
	logging.LogOperation(logging.FromContext(ctx), "gtfs_update_requested",
		slog.Time("last_updated", lastUpdated))

	api.sendResponse(w, r, models.NewOKResponse(map[string]interface{}{
		"lastUpdated": lastUpdated.UnixMilli(),
	}))
}
