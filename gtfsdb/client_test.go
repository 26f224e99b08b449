package gtfsdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"transitgeo.cartes.app/internal/appconf"
	"transitgeo.cartes.app/internal/testfeed"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err, "Failed to create client")
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func importCorridor(t *testing.T, client *Client) {
	t.Helper()
	err := client.ImportFromBytes(context.Background(), testfeed.Corridor().MustZip(t), "corridor.zip")
	require.NoError(t, err)
}

func TestNewClient_TestEnvRequiresMemory(t *testing.T) {
	_, err := NewClient(NewConfig("/tmp/should-not-exist.db", appconf.Test, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in-memory")
}

func TestNewClient_InMemoryUsesSingleConnection(t *testing.T) {
	client := newTestClient(t)
	assert.Equal(t, 1, client.DB.Stats().MaxOpenConnections)
}

func TestImport_StoresSchedule(t *testing.T) {
	client := newTestClient(t)
	importCorridor(t, client)
	ctx := context.Background()

	counts, err := client.TableCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["agencies"])
	assert.Equal(t, 2, counts["routes"])
	assert.Equal(t, 4, counts["stops"])
	assert.Equal(t, 3, counts["trips"])
	assert.Equal(t, 9, counts["stop_times"])

	agencies, err := client.QueryAgencies(ctx)
	require.NoError(t, err)
	require.Len(t, agencies, 1)
	assert.Equal(t, "SNCF", agencies[0].ID)
	assert.Equal(t, "SNCF Voyageurs", agencies[0].Name)

	routes, err := client.RoutesForAgency(ctx, "SNCF")
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "R1", routes[0].ID)
	assert.Equal(t, "Paris - Lyon", routes[0].LongName)

	trips, err := client.TripsForRoute(ctx, "R1")
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "daily", trips[0].ServiceID)

	stopTimes, err := client.StopTimesForTrip(ctx, "T2")
	require.NoError(t, err)
	var ids []string
	for _, st := range stopTimes {
		ids = append(ids, st.StopID)
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, ids)
	assert.Equal(t, int64(8*3600), stopTimes[0].ArrivalTime)

	stops, err := client.StopsByID(ctx, "C")
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, "Macon", stops[0].Name)
	assert.InDelta(t, 46.3069, stops[0].Lat, 1e-6)

	stops, err = client.StopsByID(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, stops)
}

func TestImport_SkipsUnchangedArchive(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	data := testfeed.Corridor().MustZip(t)

	require.NoError(t, client.ImportFromBytes(ctx, data, "first"))
	first, err := client.GetImportMetadata(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first.FileHash)
	assert.Equal(t, "first", first.FileSource)
	assert.Greater(t, first.ImportTime, int64(0))

	_, err = client.DB.ExecContext(ctx, "DELETE FROM stop_times WHERE trip_id = 'T3'")
	require.NoError(t, err)

	require.NoError(t, client.ImportFromBytes(ctx, data, "second"))
	second, err := client.GetImportMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", second.FileSource, "unchanged archive should not be re-imported")

	stopTimes, err := client.StopTimesForTrip(ctx, "T3")
	require.NoError(t, err)
	assert.Empty(t, stopTimes)
}

func TestImport_ReplacesPreviousData(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	importCorridor(t, client)

	smaller := testfeed.New().
		Agency("TER", "TER").
		Route("X", "TER", "X", "Ligne X").
		Stop("S1", "Un", 45.0, 5.0).
		Stop("S2", "Deux", 45.1, 5.1).
		Trip("TX", "X", "daily", "S1", "S2")
	require.NoError(t, client.ImportFromBytes(ctx, smaller.MustZip(t), "smaller"))

	counts, err := client.TableCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["agencies"])
	assert.Equal(t, 1, counts["routes"])
	assert.Equal(t, 2, counts["stops"])

	_, err = client.AgencyByID(ctx, "SNCF")
	assert.Error(t, err)
}

func TestImport_InvalidArchive(t *testing.T) {
	client := newTestClient(t)
	err := client.ImportFromBytes(context.Background(), []byte("not a zip"), "garbage")
	assert.Error(t, err)

	_, err = client.GetImportMetadata(context.Background())
	assert.Error(t, err, "failed import must not record metadata")
}

func TestImport_FailureRollsBackToPreviousData(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	importCorridor(t, client)

	// clearing calendar_dates fails once stop_times and trips were emptied
	_, err := client.DB.ExecContext(ctx, "DROP TABLE calendar_dates")
	require.NoError(t, err)

	smaller := testfeed.New().
		Agency("TER", "TER").
		Route("X", "TER", "X", "Ligne X").
		Stop("S1", "Un", 45.0, 5.0).
		Stop("S2", "Deux", 45.1, 5.1).
		Trip("TX", "X", "daily", "S1", "S2")
	err = client.ImportFromBytes(ctx, smaller.MustZip(t), "smaller")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calendar_dates")

	stopTimes, err := client.StopTimesForTrip(ctx, "T2")
	require.NoError(t, err)
	assert.Len(t, stopTimes, 4, "stop times cleared before the failure must be restored")

	meta, err := client.GetImportMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "corridor.zip", meta.FileSource)
}

func TestAgencyStopBounds(t *testing.T) {
	client := newTestClient(t)
	importCorridor(t, client)
	ctx := context.Background()

	bounds, err := client.AgencyStopBounds(ctx, "SNCF")
	require.NoError(t, err)
	assert.InDelta(t, 45.7606, bounds.MinLat, 1e-6)
	assert.InDelta(t, 48.8443, bounds.MaxLat, 1e-6)
	assert.InDelta(t, 2.3743, bounds.MinLon, 1e-6)
	assert.InDelta(t, 5.0270, bounds.MaxLon, 1e-6)

	empty, err := client.AgencyStopBounds(ctx, "NOPE")
	require.NoError(t, err)
	assert.Equal(t, AgencyBounds{}, empty)
}

func TestConfigDSN(t *testing.T) {
	assert.Equal(t, ":memory:", NewConfig(":memory:", appconf.Test, false).dsn())
	dsn := NewConfig("/var/lib/gtfs.db", appconf.Production, false).dsn()
	assert.Contains(t, dsn, "file:/var/lib/gtfs.db?")
	assert.Contains(t, dsn, "journal_mode(WAL)")
}
