package recommend

import (
	"math"

	"travel-assistant/models/spot"
	personalizeTypes "travel-assistant/types/personalize"
)

// earthRadiusKm is the mean radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// coordinate pairs.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Filter selects catalog spots within the requested radius of the user,
// restricted to the requested interest tags. Spots without coordinates are
// skipped. The timing window is accepted but does not narrow results yet;
// the catalog carries no opening hours. Input order is preserved.
func Filter(spots []spot.Spot, req *personalizeTypes.RecommendationRequest) []personalizeTypes.RecommendedSpot {
	results := make([]personalizeTypes.RecommendedSpot, 0)

	for _, s := range spots {
		if !s.HasCoordinates() {
			continue
		}
		if !s.HasAnyTag(req.Preferences) {
			continue
		}

		distance := Haversine(req.Latitude, req.Longitude, *s.Latitude, *s.Longitude)
		if distance > req.Distance {
			continue
		}

		tags := make([]string, 0, len(s.Tags))
		for _, tag := range s.Tags {
			tags = append(tags, tag.Name)
		}

		results = append(results, personalizeTypes.RecommendedSpot{
			ID:        s.ID,
			Name:      s.Name,
			Location:  s.Location,
			Latitude:  *s.Latitude,
			Longitude: *s.Longitude,
			Tags:      tags,
			Distance:  round2(distance),
		})
	}

	return results
}
