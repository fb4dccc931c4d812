package geo

import (
	"math"
	"testing"
)

func TestBearingTo(t *testing.T) {
	testCases := []struct {
		name      string
		from, to  Coordinate
		want      float64
		tolerance float64
	}{
		{
			name:      "due north",
			from:      NewCoordinate(13.0, 80.0),
			to:        NewCoordinate(14.0, 80.0),
			want:      0.0,
			tolerance: 1e-9,
		},
		{
			name:      "due east",
			from:      NewCoordinate(0.0, 80.0),
			to:        NewCoordinate(0.0, 81.0),
			want:      90.0,
			tolerance: 1e-9,
		},
		{
			name:      "due south",
			from:      NewCoordinate(14.0, 80.0),
			to:        NewCoordinate(13.0, 80.0),
			want:      180.0,
			tolerance: 1e-9,
		},
		{
			name:      "due west",
			from:      NewCoordinate(0.0, 81.0),
			to:        NewCoordinate(0.0, 80.0),
			want:      270.0,
			tolerance: 1e-9,
		},
		{
			name:      "degenerate, from equals to",
			from:      NewCoordinate(13.0, 80.0),
			to:        NewCoordinate(13.0, 80.0),
			want:      0.0,
			tolerance: 1e-9,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := BearingTo(tt.from, tt.to)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("BearingTo(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestOctantOf(t *testing.T) {
	testCases := []struct {
		degrees float64
		want    string
	}{
		{0, "N"},
		{22.4, "N"},
		{22.6, "NE"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{337.6, "N"},
		{360, "N"},
	}

	for _, tt := range testCases {
		if got := OctantOf(tt.degrees); got != tt.want {
			t.Errorf("OctantOf(%v) = %q, want %q", tt.degrees, got, tt.want)
		}
	}
}

func TestNewBearingOppositeDirections(t *testing.T) {
	a := NewCoordinate(0.0, 80.0)
	b := NewCoordinate(0.0, 81.0)

	forward := NewBearing(a, b)
	backward := NewBearing(b, a)

	if forward.Octant != "E" || backward.Octant != "W" {
		t.Errorf("got %q and %q, want E and W", forward.Octant, backward.Octant)
	}
	if math.Abs(math.Mod(forward.Degrees+180, 360)-backward.Degrees) > 1e-9 {
		t.Errorf("bearings not antisymmetric: %v vs %v", forward.Degrees, backward.Degrees)
	}
}
