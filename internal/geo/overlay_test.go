package geo

import (
	"context"
	"errors"
	"testing"

	"village-ems/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestComposeSwapsPolygonWinding(t *testing.T) {
	zones := []models.HazardZone{
		{
			ID:       1,
			Category: models.HazardDanger,
			// Stored (lon, lat)
			Geometry: [][]float64{{101.7, 3.1}, {101.8, 3.2}, {101.9, 3.0}},
		},
	}
	layers := Compose(Coordinate{Lat: 3.1, Lon: 101.7}, nil, nil, zones)

	require.Len(t, layers.Hazards, 1)
	poly := layers.Hazards[0]
	assert.Equal(t, models.HazardDanger, poly.Category)
	require.Len(t, poly.Ring, 3)
	assert.Equal(t, Coordinate{Lat: 3.1, Lon: 101.7}, poly.Ring[0])
	assert.Equal(t, Coordinate{Lat: 3.2, Lon: 101.8}, poly.Ring[1])
}

func TestComposeSkipsGeometrylessPolygon(t *testing.T) {
	zones := []models.HazardZone{
		{ID: 1, Category: models.HazardDanger, Geometry: [][]float64{{101.7, 3.1}}},
		{ID: 2, Category: models.HazardCaution}, // no geometry
	}
	layers := Compose(Coordinate{}, nil, nil, zones)
	require.Len(t, layers.Hazards, 1)
	assert.Equal(t, 1, layers.Hazards[0].ID)
}

func TestComposeReportMarkersNeedBothCoordinates(t *testing.T) {
	reports := []models.Report{
		{ID: 1, Title: "Flood", Latitude: floatPtr(3.1), Longitude: floatPtr(101.7)},
		{ID: 2, Title: "No lon", Latitude: floatPtr(3.1)},
		{ID: 3, Title: "No coords"},
	}
	layers := Compose(Coordinate{Lat: 3.1, Lon: 101.7}, reports, nil, nil)
	require.Len(t, layers.Reports, 1)
	assert.Equal(t, 1, layers.Reports[0].ID)
}

func TestComposeSortsSOSByDistance(t *testing.T) {
	origin := Coordinate{Lat: 3.0, Lon: 101.0}
	sos := []models.SOSRequest{
		{ID: 1, UserID: 10, Latitude: 5.0, Longitude: 103.0},
		{ID: 2, UserID: 11, Latitude: 3.01, Longitude: 101.01},
	}
	layers := Compose(origin, nil, sos, nil)
	require.Len(t, layers.SOS, 2)
	assert.Equal(t, 2, layers.SOS[0].ID)
	assert.Less(t, layers.SOS[0].DistanceKm, layers.SOS[1].DistanceKm)
}

type providerFunc func(ctx context.Context) (Coordinate, error)

func (f providerFunc) Current(ctx context.Context) (Coordinate, error) { return f(ctx) }

func TestLocatorFallbackChain(t *testing.T) {
	fallback := Coordinate{Lat: 3.139, Lon: 101.6869}

	// Success: provider coordinate, no error flag.
	ok := NewLocator(providerFunc(func(ctx context.Context) (Coordinate, error) {
		return Coordinate{Lat: 1.5, Lon: 110.3}, nil
	}), fallback)
	coord := ok.Resolve(context.Background())
	assert.Equal(t, Coordinate{Lat: 1.5, Lon: 110.3}, coord)
	_, failed := ok.Position()
	assert.False(t, failed)

	// Failure: fixed default and the error flag.
	calls := 0
	failing := NewLocator(providerFunc(func(ctx context.Context) (Coordinate, error) {
		calls++
		return Coordinate{}, errors.New("denied")
	}), fallback)
	assert.Equal(t, fallback, failing.Resolve(context.Background()))
	_, failed = failing.Position()
	assert.True(t, failed)

	// Never re-polls.
	failing.Resolve(context.Background())
	assert.Equal(t, 1, calls)

	// Unsupported platform: nil provider.
	unsupported := NewLocator(nil, fallback)
	assert.Equal(t, fallback, unsupported.Resolve(context.Background()))
	_, failed = unsupported.Position()
	assert.True(t, failed)
}

func TestLocatorDragOverwrites(t *testing.T) {
	l := NewLocator(nil, Coordinate{Lat: 3, Lon: 101})
	l.Resolve(context.Background())
	l.DragTo(Coordinate{Lat: 4, Lon: 100})
	coord, failed := l.Position()
	assert.Equal(t, Coordinate{Lat: 4, Lon: 100}, coord)
	assert.False(t, failed)
}

func TestDraftLifecycle(t *testing.T) {
	d := NewDraft()

	// Saving before drawing is an error.
	_, _, err := d.Take()
	assert.ErrorIs(t, err, ErrEmptyDraft)

	d.SetGeometry([][]float64{{101.7, 3.1}, {101.8, 3.2}})
	_, category := d.Pending()
	assert.Equal(t, models.HazardCaution, category, "category defaults to Caution")

	d.SetCategory(models.HazardDanger)
	d.SetCategory(models.HazardCategory("Nonsense")) // ignored
	geometry, category, err := d.Take()
	require.NoError(t, err)
	assert.Equal(t, models.HazardDanger, category)
	assert.Len(t, geometry, 2)

	// Take resets the draft.
	_, _, err = d.Take()
	assert.ErrorIs(t, err, ErrEmptyDraft)

	d.SetGeometry([][]float64{{1, 2}})
	d.Discard()
	_, _, err = d.Take()
	assert.ErrorIs(t, err, ErrEmptyDraft)
}

func TestDistance(t *testing.T) {
	kl := Coordinate{Lat: 3.139, Lon: 101.6869}
	sg := Coordinate{Lat: 1.3521, Lon: 103.8198}

	d := Distance(kl, sg)
	assert.InDelta(t, 317, d, 15, "KL to Singapore is roughly 317km")
	assert.Zero(t, Distance(kl, kl))
}
