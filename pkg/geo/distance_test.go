package geo

import (
	"math"
	"testing"
)

func TestHaversineDistanceSamePoint(t *testing.T) {
	a := NewCoordinate(13.0827, 80.2707)
	if got := HaversineDistance(a, a); got != 0 {
		t.Errorf("distance to itself should be 0, got %v", got)
	}
}

func TestHaversineDistance(t *testing.T) {
	testCases := []struct {
		name      string
		a, b      Coordinate
		want      float64
		tolerance float64
	}{
		{
			name:      "roughly 200m east along the equator-ish latitude",
			a:         NewCoordinate(13.0000, 80.0000),
			b:         NewCoordinate(13.0000, 80.0018),
			want:      195.0,
			tolerance: 5.0,
		},
		{
			name:      "one degree of latitude",
			a:         NewCoordinate(13.0, 80.0),
			b:         NewCoordinate(14.0, 80.0),
			want:      111195.0,
			tolerance: 100.0,
		},
		{
			name:      "symmetric",
			a:         NewCoordinate(13.0827, 80.2707),
			b:         NewCoordinate(13.0569, 80.2425),
			want:      HaversineDistance(NewCoordinate(13.0569, 80.2425), NewCoordinate(13.0827, 80.2707)),
			tolerance: 1e-9,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineDistance(%v, %v) = %v, want %v +- %v",
					tt.a, tt.b, got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestEuclideanDegreeDistance(t *testing.T) {
	a := NewCoordinate(0, 0)
	b := NewCoordinate(3, 4)
	if got := EuclideanDegreeDistance(a, b); math.Abs(got-5) > 1e-12 {
		t.Errorf("EuclideanDegreeDistance = %v, want 5", got)
	}
}

func TestGetDestinationPointRoundTrip(t *testing.T) {
	lat, lng := 13.0827, 80.2707
	distMeters := 200.0

	for _, bearing := range []float64{0, 45, 90, 135, 180, 225, 270, 315} {
		dLat, dLng := GetDestinationPoint(lat, lng, bearing, distMeters)
		got := HaversineDistance(NewCoordinate(lat, lng), NewCoordinate(dLat, dLng))
		if math.Abs(got-distMeters) > 1.0 {
			t.Errorf("bearing %v: destination point is %vm away, want %vm", bearing, got, distMeters)
		}
	}
}
