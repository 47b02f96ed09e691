// Package geo converts coordinate pairs into a bounded proximity score.
package geo

import (
	"math"

	"github.com/talentdb/matchd/internal/domain/model"
)

// Decay shape: full score within fullScoreKM, linear taper to zero at
// zeroScoreKM. Chosen for interpretability over geodesic precision.
const (
	earthRadiusKM = 6371.2
	fullScoreKM   = 5.0
	zeroScoreKM   = 150.0
)

// Score is the distance component of a pair.
type Score struct {
	KM    float64 // great-circle distance, rounded to 0.1 km
	Value float64 // decay score in [0,1]
}

// DistanceKM computes the haversine great-circle distance between two
// points, rounded to 0.1 km.
func DistanceKM(a, b model.Coordinate) float64 {
	dlat := toRadians(b.Lat - a.Lat)
	dlon := toRadians(b.Lon - a.Lon)
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Min(1, math.Sqrt(h)))
	return math.Round(earthRadiusKM*c*10) / 10
}

// DecayScore maps a distance to [0,1]: 1.0 within fullScoreKM, then a
// linear taper hitting 0.0 at zeroScoreKM.
func DecayScore(km float64) float64 {
	if km <= fullScoreKM {
		return 1.0
	}
	if km >= zeroScoreKM {
		return 0.0
	}
	return 1.0 - (km-fullScoreKM)/(zeroScoreKM-fullScoreKM)
}

// Compare returns the distance component for a pair of optional
// coordinates. The second return is false when either side has no
// coordinate; the component is then omitted from the composite, never
// zeroed.
func Compare(a, b *model.Coordinate) (Score, bool) {
	if a == nil || b == nil {
		return Score{}, false
	}
	km := DistanceKM(*a, *b)
	return Score{KM: km, Value: DecayScore(km)}, true
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
