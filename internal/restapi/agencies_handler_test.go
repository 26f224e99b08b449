package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"transitgeo.cartes.app/internal/appconf"
)

func TestAgenciesHandler(t *testing.T) {
	api := createTestApi(t, func(c *appconf.Config) {
		c.Agencies = map[string]appconf.AgencyOptions{"SNCF": {Gather: false}}
	})

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/agencies?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.StatusOK, model.Code)
	assert.Equal(t, "OK", model.Text)

	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok)
	list, ok := data["list"].([]interface{})
	require.True(t, ok)
	require.Len(t, list, 1)

	agency := list[0].(map[string]interface{})
	assert.Equal(t, "SNCF", agency["agencyId"])
	assert.Equal(t, 2.0, agency["routes"])
	assert.Equal(t, false, agency["gather"])
	// stops span Lyon (45.7606) to Paris (48.8443)
	assert.InDelta(t, 3.0837, agency["latSpan"], 1e-6)
	assert.InDelta(t, (45.7606+48.8443)/2, agency["lat"], 1e-6)

	references := data["references"].(map[string]interface{})
	agencies := references["agencies"].([]interface{})
	require.Len(t, agencies, 1)
	ref := agencies[0].(map[string]interface{})
	assert.Equal(t, "SNCF Voyageurs", ref["name"])
	assert.Equal(t, "Europe/Paris", ref["timezone"])
}

func TestAgenciesHandlerRequiresValidApiKey(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/agencies?key=invalid")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, model.Code)
	assert.Equal(t, "permission denied", model.Text)

	resp, _ = serveApiAndRetrieveEndpoint(t, api, "/agencies")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAgenciesHandlerPublicWithoutKeys(t *testing.T) {
	api := createTestApi(t, func(c *appconf.Config) { c.ApiKeys = nil })

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/agencies")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.StatusOK, model.Code)
}
