package route

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"

	"github.com/lifeline-ems/corridor/pkg/geo"
)

// Route is an ordered driving path with its estimated travel time.
type Route struct {
	Path           []geo.Coordinate
	ETA            string
	DistanceMeters float64
}

// Provider computes a driving route between two coordinates. route
// computation is an external concern; a failure here only degrades tracking,
// it never blocks a request from being accepted.
type Provider interface {
	Route(ctx context.Context, origin, destination geo.Coordinate) (Route, error)
}

// EngineClient fetches routes from a routing-engine HTTP API that answers
// with an encoded polyline.
type EngineClient struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewEngineClient(baseURL string, timeout time.Duration, log *zap.Logger) *EngineClient {
	return &EngineClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type computeRoutesResponse struct {
	Data struct {
		Eta      float64 `json:"eta"`
		Path     string  `json:"path"`
		Distance float64 `json:"distance"`
	} `json:"data"`
}

func (c *EngineClient) Route(ctx context.Context, origin, destination geo.Coordinate) (Route, error) {
	q := url.Values{}
	q.Set("origin_lat", strconv.FormatFloat(origin.Lat, 'f', -1, 64))
	q.Set("origin_lon", strconv.FormatFloat(origin.Lng, 'f', -1, 64))
	q.Set("destination_lat", strconv.FormatFloat(destination.Lat, 'f', -1, 64))
	q.Set("destination_lon", strconv.FormatFloat(destination.Lng, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/computeRoutes?"+q.Encode(), nil)
	if err != nil {
		return Route{}, fmt.Errorf("build route request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("fetch route: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("routing engine returned status %d", resp.StatusCode)
	}

	var body computeRoutesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Route{}, fmt.Errorf("decode route response: %w", err)
	}

	coords, _, err := polyline.DecodeCoords([]byte(body.Data.Path))
	if err != nil {
		return Route{}, fmt.Errorf("decode route polyline: %w", err)
	}

	path := make([]geo.Coordinate, 0, len(coords))
	for _, c := range coords {
		path = append(path, geo.NewCoordinate(c[0], c[1]))
	}

	c.log.Debug("route fetched",
		zap.Int("path_points", len(path)),
		zap.Float64("eta_minutes", body.Data.Eta))

	return Route{
		Path:           path,
		ETA:            fmt.Sprintf("%.1f min", body.Data.Eta),
		DistanceMeters: body.Data.Distance * 1000,
	}, nil
}
