package route

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"

	"github.com/lifeline-ems/corridor/pkg/geo"
)

func TestEngineClientRoute(t *testing.T) {
	wantPath := [][]float64{
		{13.1048, 80.2768},
		{13.0900, 80.2700},
		{13.0827, 80.2707},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/computeRoutes" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("origin_lat"); got != "13.1048" {
			t.Errorf("origin_lat = %q, want 13.1048", got)
		}
		if got := r.URL.Query().Get("destination_lon"); got != "80.2707" {
			t.Errorf("destination_lon = %q, want 80.2707", got)
		}

		resp := map[string]interface{}{
			"data": map[string]interface{}{
				"eta":      12.34,
				"path":     string(polyline.EncodeCoords(wantPath)),
				"distance": 5.6,
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewEngineClient(srv.URL, 5*time.Second, zap.NewNop())
	rt, err := client.Route(context.Background(),
		geo.NewCoordinate(13.1048, 80.2768), geo.NewCoordinate(13.0827, 80.2707))
	if err != nil {
		t.Fatalf("route: %v", err)
	}

	if len(rt.Path) != len(wantPath) {
		t.Fatalf("path has %d points, want %d", len(rt.Path), len(wantPath))
	}
	for i, p := range rt.Path {
		if math.Abs(p.Lat-wantPath[i][0]) > 1e-5 || math.Abs(p.Lng-wantPath[i][1]) > 1e-5 {
			t.Errorf("path[%d] = %v, want %v", i, p, wantPath[i])
		}
	}
	if rt.ETA != "12.3 min" {
		t.Errorf("eta = %q, want %q", rt.ETA, "12.3 min")
	}
	if math.Abs(rt.DistanceMeters-5600) > 1e-9 {
		t.Errorf("distance = %v, want 5600", rt.DistanceMeters)
	}
}

func TestEngineClientRouteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewEngineClient(srv.URL, 5*time.Second, zap.NewNop())
	if _, err := client.Route(context.Background(),
		geo.NewCoordinate(0, 0), geo.NewCoordinate(1, 1)); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}
