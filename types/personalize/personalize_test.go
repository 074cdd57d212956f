package personalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItineraryRequest() ItineraryCreateRequest {
	return ItineraryCreateRequest{
		Destination: "Cox's Bazar",
		TripType:    "COUPLE",
		Budget:      "100-200",
		Duration:    "5_DAYS",
		StartDate:   "2026-03-06",
		EndDate:     "2026-03-10",
	}
}

func TestItineraryCreateRequestValid(t *testing.T) {
	t.Parallel()

	req := validItineraryRequest()
	require.NoError(t, req.Validate())

	start, end := req.Dates()
	assert.True(t, start.Before(end))
}

func TestItineraryCreateRequestRejectsBadEnums(t *testing.T) {
	t.Parallel()

	req := validItineraryRequest()
	req.TripType = "BUSINESS"
	assert.Error(t, req.Validate())

	req = validItineraryRequest()
	req.Budget = "0-50"
	assert.Error(t, req.Validate())

	req = validItineraryRequest()
	req.Duration = "1_MONTH"
	assert.Error(t, req.Validate())
}

func TestItineraryCreateRequestRejectsBadDates(t *testing.T) {
	t.Parallel()

	req := validItineraryRequest()
	req.EndDate = req.StartDate
	assert.Error(t, req.Validate(), "equal dates must be rejected")

	req = validItineraryRequest()
	req.StartDate = "2026-03-10"
	req.EndDate = "2026-03-06"
	assert.Error(t, req.Validate())

	req = validItineraryRequest()
	req.StartDate = "06-03-2026"
	assert.Error(t, req.Validate())
}

func TestPreferenceRequestValidation(t *testing.T) {
	t.Parallel()

	req := PreferenceRequest{Preferences: []uint{1, 2, 3}}
	assert.NoError(t, req.Validate())

	req = PreferenceRequest{}
	assert.Error(t, req.Validate())

	req = PreferenceRequest{Preferences: []uint{0}}
	assert.Error(t, req.Validate())
}

func TestRecommendationRequestDefaults(t *testing.T) {
	t.Parallel()

	req := RecommendationRequest{Latitude: 23.8103, Longitude: 90.4125}
	require.NoError(t, req.Validate())
	assert.Equal(t, "ALL_DAY", req.Timing)
	assert.Equal(t, 5.0, req.Distance)
}

func TestRecommendationRequestAcceptsZeroCoordinates(t *testing.T) {
	t.Parallel()

	// A user on the equator or the prime meridian is a valid position.
	req := RecommendationRequest{Latitude: 0, Longitude: 36.8219}
	assert.NoError(t, req.Validate())

	req = RecommendationRequest{Latitude: 51.4779, Longitude: 0}
	assert.NoError(t, req.Validate())
}

func TestRecommendationRequestAcceptsAllRadii(t *testing.T) {
	t.Parallel()

	for _, distance := range []float64{2, 5, 10} {
		req := RecommendationRequest{Latitude: 23.8103, Longitude: 90.4125, Distance: distance}
		assert.NoError(t, req.Validate())
		assert.Equal(t, distance, req.Distance)
	}
}

func TestRecommendationRequestRejectsBadValues(t *testing.T) {
	t.Parallel()

	req := RecommendationRequest{Latitude: 91, Longitude: 90.4125}
	assert.Error(t, req.Validate())

	req = RecommendationRequest{Latitude: 23.8103, Longitude: 181}
	assert.Error(t, req.Validate())

	req = RecommendationRequest{Latitude: 23.8103, Longitude: 90.4125, Distance: 7}
	assert.Error(t, req.Validate(), "distance must be one of 2, 5, 10")

	req = RecommendationRequest{Latitude: 23.8103, Longitude: 90.4125, Timing: "NIGHT"}
	assert.Error(t, req.Validate())
}
