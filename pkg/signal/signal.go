package signal

import (
	"github.com/golang/geo/s2"

	"github.com/lifeline-ems/corridor/pkg/geo"
)

// ID is a stable identifier for a traffic signal, derived deterministically
// from its coordinate. two signals are the same entity iff their coordinates
// are bit-identical, so the s2 leaf cell containing the coordinate is a
// natural key.
type ID uint64

type Point struct {
	id    ID
	coord geo.Coordinate
}

func New(lat, lng float64) Point {
	cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng))
	return Point{
		id:    ID(cell),
		coord: geo.NewCoordinate(lat, lng),
	}
}

func (p Point) GetID() ID {
	return p.id
}

func (p Point) GetCoordinate() geo.Coordinate {
	return p.coord
}

func (p Point) GetLat() float64 {
	return p.coord.Lat
}

func (p Point) GetLng() float64 {
	return p.coord.Lng
}
