package tracking

import (
	"testing"

	"go.uber.org/zap"

	"github.com/lifeline-ems/corridor/pkg/geo"
	"github.com/lifeline-ems/corridor/pkg/signal"
	"github.com/lifeline-ems/corridor/pkg/spatialindex"
)

func matcherFixture() ([]geo.Coordinate, []signal.Point) {
	path := []geo.Coordinate{
		geo.NewCoordinate(0.0, 0.0),
		geo.NewCoordinate(0.0, 0.5),
		geo.NewCoordinate(0.0, 1.0),
	}
	catalog := []signal.Point{
		signal.New(0.0, 0.25),    // on the first segment
		signal.New(0.0003, 0.75), // ~33m north of the second segment
		signal.New(0.001, 0.5),   // ~111m off, outside a 50m corridor
		signal.New(10.0, 10.0),   // nowhere near
	}
	return path, catalog
}

func TestMatchRoute(t *testing.T) {
	path, catalog := matcherFixture()
	matcher := NewRouteMatcher(nil)

	matched := matcher.MatchRoute(path, catalog, 50.0)
	if len(matched) != 2 {
		t.Fatalf("got %d signals, want 2", len(matched))
	}
	// catalog order is preserved
	if matched[0].GetID() != catalog[0].GetID() || matched[1].GetID() != catalog[1].GetID() {
		t.Error("matched signals out of catalog order or wrong signals")
	}
}

func TestMatchRouteWithSpatialIndex(t *testing.T) {
	path, catalog := matcherFixture()

	rt := spatialindex.NewRtree()
	rt.Build(catalog, zap.NewNop())
	matcher := NewRouteMatcher(rt)

	matched := matcher.MatchRoute(path, catalog, 50.0)
	if len(matched) != 2 {
		t.Fatalf("got %d signals, want 2", len(matched))
	}
	if matched[0].GetID() != catalog[0].GetID() || matched[1].GetID() != catalog[1].GetID() {
		t.Error("index-backed match disagrees with the exhaustive scan")
	}
}

func TestMatchRouteIncludesSignalOnce(t *testing.T) {
	// signal equidistant from two consecutive segments sharing a vertex
	path := []geo.Coordinate{
		geo.NewCoordinate(0.0, 0.0),
		geo.NewCoordinate(0.0, 0.001),
		geo.NewCoordinate(0.0, 0.002),
	}
	catalog := []signal.Point{signal.New(0.0001, 0.001)}

	matcher := NewRouteMatcher(nil)
	matched := matcher.MatchRoute(path, catalog, 50.0)
	if len(matched) != 1 {
		t.Fatalf("got %d entries, want exactly 1", len(matched))
	}
}

func TestMatchRouteEmptyInputs(t *testing.T) {
	_, catalog := matcherFixture()
	matcher := NewRouteMatcher(nil)

	if got := matcher.MatchRoute(nil, catalog, 50.0); len(got) != 0 {
		t.Errorf("empty path: got %d, want 0", len(got))
	}
	if got := matcher.MatchRoute([]geo.Coordinate{geo.NewCoordinate(0, 0)}, catalog, 50.0); len(got) != 0 {
		t.Errorf("single point path: got %d, want 0", len(got))
	}
	path, _ := matcherFixture()
	if got := matcher.MatchRoute(path, nil, 50.0); len(got) != 0 {
		t.Errorf("empty catalog: got %d, want 0", len(got))
	}
}
