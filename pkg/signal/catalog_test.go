package signal

import (
	"context"
	"testing"
)

func TestLoadOverpassJSON(t *testing.T) {
	catalog, err := LoadOverpassJSON("testdata/overpass_signals.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// only nodes tagged highway=traffic_signals survive: not the crossing,
	// not the way, not the untagged node
	if len(catalog) != 2 {
		t.Fatalf("got %d signals, want 2", len(catalog))
	}
	if catalog[0].GetLat() != 13.0604162 || catalog[0].GetLng() != 80.2495662 {
		t.Errorf("first signal = (%v, %v), want (13.0604162, 80.2495662)",
			catalog[0].GetLat(), catalog[0].GetLng())
	}
}

func TestLoadDispatch(t *testing.T) {
	if _, err := Load(context.Background(), "testdata/overpass_signals.json"); err != nil {
		t.Errorf("json dispatch failed: %v", err)
	}
	if _, err := Load(context.Background(), "signals.csv"); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}

func TestPointIdentity(t *testing.T) {
	a := New(13.0604162, 80.2495662)
	b := New(13.0604162, 80.2495662)
	c := New(13.0604163, 80.2495662)

	if a.GetID() != b.GetID() {
		t.Error("identical coordinates must map to the same id")
	}
	if a.GetID() == c.GetID() {
		t.Error("different coordinates must map to different ids")
	}
}
