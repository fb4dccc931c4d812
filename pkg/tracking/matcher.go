package tracking

import (
	"math"

	"github.com/lifeline-ems/corridor/pkg/geo"
	"github.com/lifeline-ems/corridor/pkg/signal"
	"github.com/lifeline-ems/corridor/pkg/spatialindex"
)

// DefaultCorridorMeters is the meter equivalent of the 0.0005 degree
// threshold historically used for route-corridor matching.
const DefaultCorridorMeters = 50.0

// RouteMatcher filters a signal catalog down to the signals lying within a
// corridor of a route path. the optional spatial index narrows the catalog
// scan to signals near the path's bounding box before the exact per-segment
// distance test.
type RouteMatcher struct {
	index *spatialindex.Rtree
}

func NewRouteMatcher(index *spatialindex.Rtree) *RouteMatcher {
	return &RouteMatcher{index: index}
}

// MatchRoute returns the catalog entries within corridorMeters of any
// consecutive segment of path, in catalog order. a signal close to several
// segments is included once (first-match short-circuit). an empty path or
// catalog yields an empty result.
func (m *RouteMatcher) MatchRoute(path []geo.Coordinate, catalog []signal.Point, corridorMeters float64) []signal.Point {
	if corridorMeters <= 0 {
		corridorMeters = DefaultCorridorMeters
	}
	matched := make([]signal.Point, 0)
	if len(path) < 2 || len(catalog) == 0 {
		return matched
	}

	allowed := m.nearPathBox(path, corridorMeters)

	for _, cand := range catalog {
		if allowed != nil {
			if _, ok := allowed[cand.GetID()]; !ok {
				continue
			}
		}
		for i := 0; i < len(path)-1; i++ {
			if geo.DistanceToSegmentMeters(path[i], path[i+1], cand.GetCoordinate()) <= corridorMeters {
				matched = append(matched, cand)
				break
			}
		}
	}
	return matched
}

// nearPathBox pre-filters the catalog via the spatial index over the path's
// bounding box. nil means no index, scan everything.
func (m *RouteMatcher) nearPathBox(path []geo.Coordinate, corridorMeters float64) map[signal.ID]struct{} {
	if m.index == nil {
		return nil
	}

	minLat, minLng := math.Inf(1), math.Inf(1)
	maxLat, maxLng := math.Inf(-1), math.Inf(-1)
	for _, p := range path {
		minLat = math.Min(minLat, p.Lat)
		minLng = math.Min(minLng, p.Lng)
		maxLat = math.Max(maxLat, p.Lat)
		maxLng = math.Max(maxLng, p.Lng)
	}

	near := m.index.SearchWithinBox(minLat, minLng, maxLat, maxLng, corridorMeters)
	allowed := make(map[signal.ID]struct{}, len(near))
	for _, sp := range near {
		allowed[sp.GetID()] = struct{}{}
	}
	return allowed
}
