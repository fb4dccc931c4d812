package geo

import (
	"math"

	"github.com/lifeline-ems/corridor/pkg/util"
)

// compass octants in clockwise order, 45 degree sectors centered on each point.
var octants = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

type Bearing struct {
	Degrees float64 `json:"degrees"`
	Octant  string  `json:"cardinal"`
}

/*
BearingTo. initial bearing of the great-circle arc (from, to), normalized to [0,360).
https://www.movable-type.co.uk/scripts/latlong.html
for from == to the formula degenerates to atan2(0,0) = 0 (north by convention).
*/
func BearingTo(from, to Coordinate) float64 {

	dLng := util.DegreeToRadians(to.Lng - from.Lng)

	lat1 := util.DegreeToRadians(from.Lat)
	lat2 := util.DegreeToRadians(to.Lat)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	brng := math.Mod(util.RadiansToDegree(math.Atan2(y, x))+360, 360.0)

	return brng
}

// OctantOf. bucket a bearing in degrees into one of the 8 compass octants.
// 0 and 360 both map to N.
func OctantOf(degrees float64) string {
	idx := int(math.Round(degrees/45.0)) % 8
	return octants[idx]
}

func NewBearing(from, to Coordinate) Bearing {
	deg := BearingTo(from, to)
	return Bearing{
		Degrees: deg,
		Octant:  OctantOf(deg),
	}
}
