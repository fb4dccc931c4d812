package geo

import (
	"math"
	"testing"
)

func TestDistanceToSegmentMeters(t *testing.T) {
	segStart := NewCoordinate(0.0, 0.0)
	segEnd := NewCoordinate(0.0, 1.0)

	testCases := []struct {
		name      string
		p         Coordinate
		want      float64
		tolerance float64
	}{
		{
			name:      "point on the segment",
			p:         NewCoordinate(0.0, 0.5),
			want:      0.0,
			tolerance: 0.5,
		},
		{
			name:      "point north of the segment midpoint",
			p:         NewCoordinate(0.001, 0.5),
			want:      111.195,
			tolerance: 1.0,
		},
		{
			name: "point past the end clamps to the endpoint",
			p:    NewCoordinate(0.0, 1.001),
			want: HaversineDistance(NewCoordinate(0.0, 1.001), segEnd),

			tolerance: 0.5,
		},
		{
			name:      "point before the start clamps to the start",
			p:         NewCoordinate(0.0, -0.001),
			want:      HaversineDistance(NewCoordinate(0.0, -0.001), segStart),
			tolerance: 0.5,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceToSegmentMeters(segStart, segEnd, tt.p)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("DistanceToSegmentMeters = %v, want %v +- %v", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceToSegmentDegrees(t *testing.T) {
	segStart := NewCoordinate(0.0, 0.0)
	segEnd := NewCoordinate(0.0, 1.0)

	testCases := []struct {
		name       string
		start, end Coordinate
		p          Coordinate
		want       float64
	}{
		{name: "perpendicular drop", start: segStart, end: segEnd,
			p: NewCoordinate(0.0004, 0.5), want: 0.0004},
		{name: "clamped to end", start: segStart, end: segEnd,
			p: NewCoordinate(0.0, 1.0003), want: 0.0003},
		{name: "zero length segment", start: segStart, end: segStart,
			p: NewCoordinate(0.0003, 0.0004), want: 0.0005},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceToSegmentDegrees(tt.start, tt.end, tt.p)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("DistanceToSegmentDegrees = %v, want %v", got, tt.want)
			}
		})
	}
}
