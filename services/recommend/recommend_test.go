package recommend

import (
	"math"
	"testing"

	"travel-assistant/models/interest"
	"travel-assistant/models/spot"
	personalizeTypes "travel-assistant/types/personalize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestHaversineZeroDistance(t *testing.T) {
	t.Parallel()

	d := Haversine(23.8103, 90.4125, 23.8103, 90.4125)
	assert.InDelta(t, 0, d, 1e-9)
}

func TestHaversineSymmetry(t *testing.T) {
	t.Parallel()

	d1 := Haversine(23.8103, 90.4125, 21.4272, 92.0058)
	d2 := Haversine(21.4272, 92.0058, 23.8103, 90.4125)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestHaversineKnownDistance(t *testing.T) {
	t.Parallel()

	// Dhaka to Cox's Bazar is roughly 313 km great-circle.
	d := Haversine(23.8103, 90.4125, 21.4272, 92.0058)
	assert.InDelta(t, 313, d, 5)
}

func testCatalog() []spot.Spot {
	beach := interest.Interest{ID: 1, Name: "Beaches"}
	museum := interest.Interest{ID: 2, Name: "Museums"}

	return []spot.Spot{
		{ID: 1, Name: "Near Beach", Location: "Close", Latitude: floatPtr(23.8200), Longitude: floatPtr(90.4125), Tags: []interest.Interest{beach}},
		{ID: 2, Name: "City Museum", Location: "Downtown", Latitude: floatPtr(23.8150), Longitude: floatPtr(90.4200), Tags: []interest.Interest{museum}},
		{ID: 3, Name: "Far Beach", Location: "Coast", Latitude: floatPtr(21.4272), Longitude: floatPtr(92.0058), Tags: []interest.Interest{beach}},
		{ID: 4, Name: "Unmapped Cafe", Location: "Somewhere", Tags: []interest.Interest{museum}},
	}
}

func baseRequest() *personalizeTypes.RecommendationRequest {
	return &personalizeTypes.RecommendationRequest{
		Latitude:  23.8103,
		Longitude: 90.4125,
		Timing:    "ALL_DAY",
		Distance:  5,
	}
}

func TestFilterExcludesSpotsBeyondRadius(t *testing.T) {
	t.Parallel()

	results := Filter(testCatalog(), baseRequest())
	require.Len(t, results, 2)
	for _, r := range results {
		assert.LessOrEqual(t, r.Distance, 5.0)
		assert.NotEqual(t, "Far Beach", r.Name)
	}
}

func TestFilterExcludesSpotsWithoutCoordinates(t *testing.T) {
	t.Parallel()

	req := baseRequest()
	req.Distance = 10
	results := Filter(testCatalog(), req)
	for _, r := range results {
		assert.NotEqual(t, "Unmapped Cafe", r.Name)
	}
}

func TestFilterByTags(t *testing.T) {
	t.Parallel()

	req := baseRequest()
	req.Preferences = []uint{1}
	results := Filter(testCatalog(), req)
	require.Len(t, results, 1)
	assert.Equal(t, "Near Beach", results[0].Name)
	assert.Equal(t, []string{"Beaches"}, results[0].Tags)
}

func TestFilterEmptyPreferencesMatchesAllTags(t *testing.T) {
	t.Parallel()

	req := baseRequest()
	req.Preferences = nil
	results := Filter(testCatalog(), req)
	assert.Len(t, results, 2)
}

func TestFilterBoundaryIsInclusive(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()[:1]
	exact := Haversine(23.8103, 90.4125, *catalog[0].Latitude, *catalog[0].Longitude)

	req := baseRequest()
	req.Distance = exact
	results := Filter(catalog, req)
	require.Len(t, results, 1, "a spot exactly on the radius must be included")

	req.Distance = exact - 0.001
	results = Filter(catalog, req)
	assert.Empty(t, results)
}

func TestFilterPreservesCatalogOrder(t *testing.T) {
	t.Parallel()

	req := baseRequest()
	results := Filter(testCatalog(), req)
	require.Len(t, results, 2)
	assert.Equal(t, uint(1), results[0].ID)
	assert.Equal(t, uint(2), results[1].ID)
}

func TestFilterRoundsDistanceToTwoDecimals(t *testing.T) {
	t.Parallel()

	results := Filter(testCatalog(), baseRequest())
	require.NotEmpty(t, results)
	for _, r := range results {
		scaled := r.Distance * 100
		assert.InDelta(t, math.Round(scaled), scaled, 1e-9)
	}
}

func TestFilterEmptyCatalog(t *testing.T) {
	t.Parallel()

	results := Filter(nil, baseRequest())
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
