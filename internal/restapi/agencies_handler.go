package restapi

import (
	"net/http"

	"transitgeo.cartes.app/internal/models"
)

func (api *RestAPI) agenciesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if ctx.Err() != nil {
		api.serverErrorResponse(w, r, ctx.Err())
		return
	}

	db := api.GtfsManager.GtfsDB
	agencies, err := db.QueryAgencies(ctx)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	coverage := make([]models.AgencyCoverage, 0, len(agencies))
	references := models.NewEmptyReferences()

	for _, a := range agencies {
		bounds, err := db.AgencyStopBounds(ctx, a.ID)
		if err != nil {
			api.serverErrorResponse(w, r, err)
			return
		}
		routes, err := db.RoutesForAgency(ctx, a.ID)
		if err != nil {
			api.serverErrorResponse(w, r, err)
			return
		}

		coverage = append(coverage, models.NewAgencyCoverage(
			a.ID,
			bounds.MinLat, bounds.MaxLat,
			bounds.MinLon, bounds.MaxLon,
			len(routes),
			api.Config.ShouldGather(a.ID),
		))

		references.Agencies = append(references.Agencies, models.AgencyReference{
			Email:    a.Email,
			FareUrl:  a.FareURL,
			ID:       a.ID,
			Lang:     a.Lang,
			Name:     a.Name,
			Phone:    a.Phone,
			Timezone: a.Timezone,
			URL:      a.URL,
		})
	}

	api.sendResponse(w, r, models.NewListResponse(coverage, references))
}
