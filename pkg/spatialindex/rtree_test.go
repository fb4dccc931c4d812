package spatialindex

import (
	"testing"

	"go.uber.org/zap"

	"github.com/lifeline-ems/corridor/pkg/geo"
	"github.com/lifeline-ems/corridor/pkg/signal"
)

func buildIndex() *Rtree {
	catalog := signal.Catalog{
		signal.New(13.0000, 80.0000),
		signal.New(13.0000, 80.0009), // ~97m east of the first
		signal.New(13.0000, 80.0030), // ~325m east
		signal.New(13.0500, 80.0000), // ~5.5km north
	}

	rt := NewRtree()
	rt.Build(catalog, zap.NewNop())
	return rt
}

func TestSearchWithinRadius(t *testing.T) {
	rt := buildIndex()
	q := geo.NewCoordinate(13.0000, 80.0000)

	testCases := []struct {
		name         string
		radiusMeters float64
		want         int
	}{
		{name: "tight radius only finds the co-located signal", radiusMeters: 10, want: 1},
		{name: "200m sweep finds the close pair", radiusMeters: 200, want: 2},
		{name: "500m sweep adds the far one", radiusMeters: 500, want: 3},
		{name: "10km sweep finds everything", radiusMeters: 10000, want: 4},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := rt.SearchWithinRadius(q, tt.radiusMeters)
			if len(got) != tt.want {
				t.Errorf("got %d signals, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSearchWithinBoxMargin(t *testing.T) {
	rt := buildIndex()

	// a zero-size box exactly on a signal, expanded by a 150m margin, must
	// pick up the ~97m neighbor but not the ~325m one
	got := rt.SearchWithinBox(13.0000, 80.0000, 13.0000, 80.0000, 150)
	if len(got) != 2 {
		t.Fatalf("got %d signals, want 2", len(got))
	}
}
