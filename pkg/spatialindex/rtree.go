package spatialindex

import (
	"math"

	"github.com/tidwall/rtree"
	"go.uber.org/zap"

	"github.com/lifeline-ems/corridor/pkg/geo"
	"github.com/lifeline-ems/corridor/pkg/signal"
)

type Rtree struct {
	tr *rtree.RTreeG[signal.Point]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[signal.Point]
	return &Rtree{
		tr: &tr,
	}
}

// Build. build r-tree over the signal catalog, one point box per signal.
func (rt *Rtree) Build(catalog signal.Catalog, log *zap.Logger) {
	log.Info("Building R-tree spatial index over signal catalog...",
		zap.Int("signals", len(catalog)))
	for _, sp := range catalog {
		p := [2]float64{sp.GetLng(), sp.GetLat()}
		rt.tr.Insert(p, p, sp)
	}
	log.Info("R-tree spatial index built.")
}

// SearchWithinBox returns all signals inside the lat/lng box expanded by
// marginMeters on every side.
func (rt *Rtree) SearchWithinBox(minLat, minLng, maxLat, maxLng, marginMeters float64) []signal.Point {
	lowerLat, lowerLng := geo.GetDestinationPoint(minLat, minLng, 225, marginMeters*math.Sqrt2)
	upperLat, upperLng := geo.GetDestinationPoint(maxLat, maxLng, 45, marginMeters*math.Sqrt2)

	results := make([]signal.Point, 0, 16)
	rt.tr.Search([2]float64{lowerLng, lowerLat}, [2]float64{upperLng, upperLat},
		func(min, max [2]float64, data signal.Point) bool {
			results = append(results, data)
			return true
		})
	return results
}

// SearchWithinRadius search for all signals within radiusMeters of the query
// point. the bounding-box candidates are refined with the haversine distance.
func (rt *Rtree) SearchWithinRadius(q geo.Coordinate, radiusMeters float64) []signal.Point {
	candidates := rt.SearchWithinBox(q.Lat, q.Lng, q.Lat, q.Lng, radiusMeters)

	results := candidates[:0]
	for _, sp := range candidates {
		if geo.HaversineDistance(q, sp.GetCoordinate()) <= radiusMeters {
			results = append(results, sp)
		}
	}
	return results
}
