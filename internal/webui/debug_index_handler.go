package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
	"transitgeo.cartes.app/internal/app"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dataTypes = []string{"tables", "agencies", "routes", "geometries", "segments", "registry"}

// WebUI serves human readable dumps of the loaded dataset for debugging.
type WebUI struct {
	*app.Application
}

func New(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

type debugData struct {
	Title     string
	Pre       string
	AgencyID  string
	DataTypes []string
}

func writeDebugData(w http.ResponseWriter, title, agencyID string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Pre:       spew.Sdump(data),
		AgencyID:  agencyID,
		DataTypes: dataTypes,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agencyID := r.URL.Query().Get("agency")
	db := webUI.GtfsManager.GtfsDB
	builder := webUI.GtfsManager.Builder()

	var (
		data  interface{}
		title string
		err   error
	)

	switch r.URL.Query().Get("dataType") {
	case "tables":
		data, err = db.TableCounts(ctx)
		title = "GTFS Static - Row counts"
	case "agencies":
		data, err = db.QueryAgencies(ctx)
		title = "GTFS Static - Agencies"
	case "routes":
		data, err = db.RoutesForAgency(ctx, agencyID)
		title = "GTFS Static - Routes of " + agencyID
	case "geometries":
		data, err = builder.BuildAgencyGeometries(ctx, agencyID, webUI.Config.ShouldGather(agencyID))
		title = "Route geometries of " + agencyID
	case "segments":
		data, err = builder.AggregateSegments(ctx, agencyID)
		title = "Segments of " + agencyID
	case "registry":
		data = map[string]interface{}{
			"stops":        webUI.GtfsManager.Registry().Len(),
			"last_updated": webUI.GtfsManager.LastUpdated(),
		}
		title = "Stop registry"
	default:
		data = map[string]string{
			"error": "Please use one of the following: tables, agencies, routes, geometries, segments, registry. Agency scoped types take an agency parameter.",
		}
		title = "Choose a data type"
	}

	if err != nil {
		data = map[string]string{"error": err.Error()}
	}
	writeDebugData(w, title, agencyID, data)
}
