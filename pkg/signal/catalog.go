package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

const trafficSignalTag = "traffic_signals"

// Catalog is the full set of known traffic signals, loaded once at startup
// and never mutated afterwards.
type Catalog []Point

// Load reads a signal catalog from an overpass-style JSON export or an
// openstreetmap pbf extract, picked by file extension.
func Load(ctx context.Context, path string) (Catalog, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return LoadOverpassJSON(path)
	case ".pbf":
		return LoadPBF(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported signal catalog format %q", ext)
	}
}

type overpassElement struct {
	Type string            `json:"type"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

type overpassExport struct {
	Elements []overpassElement `json:"elements"`
}

// LoadOverpassJSON reads an overpass API export and keeps the nodes tagged
// highway=traffic_signals.
func LoadOverpassJSON(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signal catalog: %w", err)
	}
	defer f.Close()

	var export overpassExport
	if err := json.NewDecoder(f).Decode(&export); err != nil {
		return nil, fmt.Errorf("decode signal catalog: %w", err)
	}

	catalog := make(Catalog, 0, len(export.Elements))
	for _, el := range export.Elements {
		if el.Type != "node" {
			continue
		}
		if el.Tags["highway"] != trafficSignalTag {
			continue
		}
		catalog = append(catalog, New(el.Lat, el.Lon))
	}
	return catalog, nil
}

// LoadPBF scans an osm pbf extract and keeps the nodes tagged
// highway=traffic_signals.
func LoadPBF(ctx context.Context, path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signal catalog: %w", err)
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, 0)
	defer scanner.Close()

	catalog := make(Catalog, 0)
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if node.Tags.Find("highway") != trafficSignalTag {
			continue
		}
		catalog = append(catalog, New(node.Lat, node.Lon))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan signal catalog: %w", err)
	}
	return catalog, nil
}
