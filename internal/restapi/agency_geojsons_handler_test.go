package restapi

import (
	"net/http"
	"testing"

	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"transitgeo.cartes.app/internal/appconf"
	"transitgeo.cartes.app/internal/metrics"
)

func TestAgencyGeojsonsHandler(t *testing.T) {
	api := createTestApi(t)

	resp, fc := serveApiAndRetrieveGeoJSON(t, api, "/agency/geojsons/SNCF.geojson?key=TEST")
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))
	require.Len(t, fc.Features, 2)

	r1 := fc.Features[0]
	assert.Equal(t, "R1", r1.ID)
	line, ok := r1.Geometry.(orb.LineString)
	require.True(t, ok)
	require.Len(t, line, 4)
	assert.Equal(t, orb.Point{2.3743, 48.8443}, line[0])
	assert.Equal(t, "richest_trip", r1.Properties.MustString("strategy"))
	assert.Equal(t, "T2", r1.Properties.MustString("trip_id"))

	r2 := fc.Features[1]
	assert.Equal(t, "R2", r2.ID)
	assert.Len(t, r2.Geometry.(orb.LineString), 4, "gathered onto the R1 corridor")
	assert.True(t, r2.Properties.MustBool("extended"))
}

func TestAgencyGeojsonsHandlerGatherParameter(t *testing.T) {
	api := createTestApi(t)

	_, fc := serveApiAndRetrieveGeoJSON(t, api, "/agency/geojsons/SNCF?key=TEST&gather=false")
	require.Len(t, fc.Features, 2)

	r2 := fc.Features[1]
	assert.Len(t, r2.Geometry.(orb.LineString), 2)
	_, extended := r2.Properties["extended"]
	assert.False(t, extended, "false values are dropped from properties")
	assert.Equal(t, []interface{}{"Paris", "Lyon"}, r2.Properties["stop_names"])
}

func TestAgencyGeojsonsHandlerConfiguredGather(t *testing.T) {
	api := createTestApi(t, func(c *appconf.Config) {
		c.Agencies = map[string]appconf.AgencyOptions{"SNCF": {Gather: false}}
	})

	_, fc := serveApiAndRetrieveGeoJSON(t, api, "/agency/geojsons/SNCF?key=TEST")
	assert.Len(t, fc.Features[1].Geometry.(orb.LineString), 2)

	_, fc = serveApiAndRetrieveGeoJSON(t, api, "/agency/geojsons/SNCF?key=TEST&gather=true")
	assert.Len(t, fc.Features[1].Geometry.(orb.LineString), 4)
}

func TestAgencyGeojsonsHandlerErrors(t *testing.T) {
	api := createTestApi(t)

	t.Run("unknown agency", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, "/agency/geojsons/RATP?key=TEST")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "resource not found", model.Text)
		assert.Nil(t, model.Data)
	})

	t.Run("invalid gather", func(t *testing.T) {
		resp, body := get(t, api, "/agency/geojsons/SNCF?key=TEST&gather=maybe")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(body), `"fieldErrors"`)
		assert.Contains(t, string(body), `"gather"`)
	})

	t.Run("invalid agency id", func(t *testing.T) {
		resp, body := get(t, api, "/agency/geojsons/SN%3BCF?key=TEST")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(body), `"agency_id"`)
	})

	t.Run("invalid key", func(t *testing.T) {
		resp, _ := get(t, api, "/agency/geojsons/SNCF?key=nope")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAgencyGeojsonsHandlerCachesResults(t *testing.T) {
	api := createTestApi(t)
	hits := metrics.ResultCacheLookups.WithLabelValues("hit")
	misses := metrics.ResultCacheLookups.WithLabelValues("miss")

	hitsBefore, missesBefore := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	_, first := get(t, api, "/agency/geojsons/SNCF?key=TEST")
	_, second := get(t, api, "/agency/geojsons/SNCF?key=TEST")
	assert.Equal(t, first, second)
	assert.Equal(t, missesBefore+1, testutil.ToFloat64(misses))
	assert.Equal(t, hitsBefore+1, testutil.ToFloat64(hits))

	// gather is part of the key
	get(t, api, "/agency/geojsons/SNCF?key=TEST&gather=false")
	assert.Equal(t, missesBefore+2, testutil.ToFloat64(misses))
}
