package geo

import (
	"github.com/golang/geo/s2"
)

// ProjectPointToSegment. closest point to p on the segment [segStart, segEnd],
// clamped to the segment endpoints.
func ProjectPointToSegment(segStart, segEnd, p Coordinate) Coordinate {
	segStartS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(segStart.Lat, segStart.Lng))
	segEndS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(segEnd.Lat, segEnd.Lng))
	pS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lng))
	projection := s2.Project(pS2, segStartS2, segEndS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// DistanceToSegmentMeters. great-circle distance in meters from p to the
// segment [segStart, segEnd], measured against the clamped nearest point.
func DistanceToSegmentMeters(segStart, segEnd, p Coordinate) float64 {
	projection := ProjectPointToSegment(segStart, segEnd, p)
	return HaversineDistance(p, projection)
}

// DistanceToSegmentDegrees. distance from p to the segment [segStart, segEnd]
// in raw coordinate-degree space. this is the flat-plane heuristic some
// callers use with a degree threshold (0.0005 deg is roughly 50 m at the
// equator); prefer DistanceToSegmentMeters for meter-accurate corridors.
func DistanceToSegmentDegrees(segStart, segEnd, p Coordinate) float64 {
	a := p.Lat - segStart.Lat
	b := p.Lng - segStart.Lng
	c := segEnd.Lat - segStart.Lat
	d := segEnd.Lng - segStart.Lng

	dot := a*c + b*d
	lenSq := c*c + d*d
	param := -1.0
	if lenSq != 0 {
		param = dot / lenSq
	}

	var xx, yy float64
	switch {
	case param < 0:
		xx = segStart.Lat
		yy = segStart.Lng
	case param > 1:
		xx = segEnd.Lat
		yy = segEnd.Lng
	default:
		xx = segStart.Lat + param*c
		yy = segStart.Lng + param*d
	}

	return EuclideanDegreeDistance(p, NewCoordinate(xx, yy))
}
