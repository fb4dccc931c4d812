package geo

import (
	"math"

	"github.com/lifeline-ems/corridor/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLng() float64 {
	return c.Lng
}

func NewCoordinate(lat, lng float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lng: lng,
	}
}

func NewCoordinates(lat, lng []float64) []Coordinate {
	coords := make([]Coordinate, len(lat))
	for i := range lat {
		coords[i] = NewCoordinate(lat[i], lng[i])
	}
	return coords
}

const (
	earthRadiusMeters = 6371000.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// HaversineDistance. calculate great-circle distance between a and b in meters
func HaversineDistance(a, b Coordinate) float64 {
	latOne := util.DegreeToRadians(a.Lat)
	longOne := util.DegreeToRadians(a.Lng)
	latTwo := util.DegreeToRadians(b.Lat)
	longTwo := util.DegreeToRadians(b.Lng)

	h := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(h))
	return earthRadiusMeters * c
}

// EuclideanDegreeDistance. flat distance between a and b in raw coordinate degrees.
// only meaningful for very short hops (interpolation step sizing).
func EuclideanDegreeDistance(a, b Coordinate) float64 {
	return math.Hypot(b.Lat-a.Lat, b.Lng-a.Lng)
}

// GetDestinationPoint returns the destination point given the starting point, bearing and distance
// dist in meters
func GetDestinationPoint(lat1, lng1 float64, bearing float64, dist float64) (float64, float64) {

	dr := dist / earthRadiusMeters

	bearing = util.DegreeToRadians(bearing)

	lat1 = util.DegreeToRadians(lat1)
	lng1 = util.DegreeToRadians(lng1)

	lat2Part1 := math.Sin(lat1) * math.Cos(dr)
	lat2Part2 := math.Cos(lat1) * math.Sin(dr) * math.Cos(bearing)

	lat2 := math.Asin(lat2Part1 + lat2Part2)

	lng2Part1 := math.Sin(bearing) * math.Sin(dr) * math.Cos(lat1)
	lng2Part2 := math.Cos(dr) - (math.Sin(lat1) * math.Sin(lat2))

	lng2 := lng1 + math.Atan2(lng2Part1, lng2Part2)

	return util.RadiansToDegree(lat2), normalizeLongitude(util.RadiansToDegree(lng2))
}

// normalizeLongitude. lng in degree
func normalizeLongitude(lng float64) float64 {
	return math.Mod((lng+540), 360) - 180.0
}
