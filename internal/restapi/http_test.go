package restapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"
	"transitgeo.cartes.app/internal/app"
	"transitgeo.cartes.app/internal/appconf"
	"transitgeo.cartes.app/internal/gtfs"
	"transitgeo.cartes.app/internal/logging"
	"transitgeo.cartes.app/internal/models"
	"transitgeo.cartes.app/internal/testfeed"
)

const testUpdateSecret = "s3cret"

func writeFeed(t *testing.T, path string, feed *testfeed.Feed) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, feed.MustZip(t), 0o600))
}

// createTestApiWithFeed creates a RestAPI backed by an in-memory database
// loaded from feed. It returns the path of the GTFS file so tests can
// replace it before triggering an update.
func createTestApiWithFeed(t *testing.T, feed *testfeed.Feed, configure ...func(*appconf.Config)) (*RestAPI, string) {
	t.Helper()
	logger := logging.NewStructuredLogger(io.Discard, slog.LevelInfo)

	source := filepath.Join(t.TempDir(), "gtfs.zip")
	writeFeed(t, source, feed)

	gtfsConfig := gtfs.Config{
		GtfsURL:      source,
		GTFSDataPath: ":memory:",
		Env:          appconf.Test,
	}
	gtfsManager, err := gtfs.InitGTFSManager(context.Background(), gtfsConfig, logger)
	require.NoError(t, err)
	t.Cleanup(gtfsManager.Shutdown)

	config := appconf.Config{
		Env:          appconf.Test,
		ApiKeys:      []string{"TEST"},
		UpdateSecret: testUpdateSecret,
	}
	for _, fn := range configure {
		fn(&config)
	}

	application := &app.Application{
		Config:      config,
		GtfsConfig:  gtfsConfig,
		Logger:      logger,
		GtfsManager: gtfsManager,
	}
	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api, source
}

// createTestApi creates a RestAPI serving the corridor fixture.
func createTestApi(t *testing.T, configure ...func(*appconf.Config)) *RestAPI {
	api, _ := createTestApiWithFeed(t, testfeed.Corridor(), configure...)
	return api
}

func get(t *testing.T, api *RestAPI, endpoint string) (*http.Response, []byte) {
	t.Helper()
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

// serveApiAndRetrieveEndpoint requests endpoint and decodes the JSON envelope.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	resp, body := get(t, api, endpoint)

	var response models.ResponseModel
	require.NoError(t, json.Unmarshal(body, &response), string(body))
	return resp, response
}

// serveApiAndRetrieveGeoJSON requests endpoint and decodes a FeatureCollection.
func serveApiAndRetrieveGeoJSON(t *testing.T, api *RestAPI, endpoint string) (*http.Response, *geojson.FeatureCollection) {
	t.Helper()
	resp, body := get(t, api, endpoint)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	fc, err := geojson.UnmarshalFeatureCollection(body)
	require.NoError(t, err)
	return resp, fc
}
