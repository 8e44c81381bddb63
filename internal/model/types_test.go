package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const sampleRouteJSON = `{
  "city": "Vienna",
  "interests": "history, coffee",
  "isRoundtrip": true,
  "routeData": {
    "pois": [
      {
        "id": 1,
        "name": "Stephansdom",
        "address": "Stephansplatz 3",
        "long_description": "The cathedral.",
        "lat": 48.2086,
        "lng": 16.3731,
        "image": "https://example.com/dom.jpg",
        "link": "https://example.com/dom"
      },
      {
        "id": "cafe-central",
        "name": "Café Central",
        "location": {"lat": 48.2107, "lng": 16.3655},
        "short_description": "A coffee house."
      }
    ],
    "routePath": [
      [48.2086, 16.3731],
      {"lat": 48.2107, "lng": 16.3655},
      {"latitude": 48.21, "longitude": 16.36}
    ],
    "navigationSteps": [
      {
        "mode": "walk",
        "distance": 412.7,
        "duration": 300,
        "name": "Graben",
        "maneuver": {"type": "turn", "modifier": "slight_right"}
      }
    ],
    "stats": {"totalDistance": "12.345", "walkDistance": 1.2, "limitKm": null}
  }
}`

func TestRouteRecordUnmarshal(t *testing.T) {
	var rec RouteRecord
	if err := json.Unmarshal([]byte(sampleRouteJSON), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if rec.City != "Vienna" {
		t.Errorf("expected city Vienna, got %q", rec.City)
	}
	if !rec.IsRoundtrip {
		t.Error("expected roundtrip flag set")
	}
	if len(rec.RouteData.POIs) != 2 {
		t.Fatalf("expected 2 POIs, got %d", len(rec.RouteData.POIs))
	}

	poi := rec.RouteData.POIs[0]
	if poi.ID != "1" {
		t.Errorf("numeric id should stringify to \"1\", got %q", poi.ID)
	}
	if lat, lng := poi.Coords(); lat != 48.2086 || lng != 16.3731 {
		t.Errorf("flat coords: got (%v, %v)", lat, lng)
	}
	if poi.Description() != "The cathedral." {
		t.Errorf("expected long description, got %q", poi.Description())
	}

	poi2 := rec.RouteData.POIs[1]
	if poi2.ID != "cafe-central" {
		t.Errorf("expected string id kept, got %q", poi2.ID)
	}
	if lat, lng := poi2.Coords(); lat != 48.2107 || lng != 16.3655 {
		t.Errorf("nested coords: got (%v, %v)", lat, lng)
	}
	if poi2.Description() != "A coffee house." {
		t.Errorf("expected short description fallback, got %q", poi2.Description())
	}

	// Stats tolerate numeric strings and nulls.
	if float64(rec.RouteData.Stats.TotalDistance) != 12.345 {
		t.Errorf("expected totalDistance 12.345, got %v", rec.RouteData.Stats.TotalDistance)
	}
	if float64(rec.RouteData.Stats.LimitKm) != 0 {
		t.Errorf("expected null limit to default to 0, got %v", rec.RouteData.Stats.LimitKm)
	}
}

func TestPathVertexShapes(t *testing.T) {
	var rec RouteRecord
	if err := json.Unmarshal([]byte(sampleRouteJSON), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	path := rec.RouteData.RoutePath
	if len(path) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(path))
	}
	if path[0].Lat != 48.2086 || path[0].Lng != 16.3731 {
		t.Errorf("array vertex: got (%v, %v)", path[0].Lat, path[0].Lng)
	}
	if path[1].Lat != 48.2107 || path[1].Lng != 16.3655 {
		t.Errorf("keyed vertex: got (%v, %v)", path[1].Lat, path[1].Lng)
	}
	if path[2].Lat != 48.21 || path[2].Lng != 16.36 {
		t.Errorf("alternate-key vertex: got (%v, %v)", path[2].Lat, path[2].Lng)
	}
}

func TestPathVertexShortArray(t *testing.T) {
	var v PathVertex
	if err := json.Unmarshal([]byte(`[48.2]`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Lat != 0 || v.Lng != 0 {
		t.Errorf("short array should yield zero vertex, got (%v, %v)", v.Lat, v.Lng)
	}
}

func TestNavigationStepSynthesis(t *testing.T) {
	step := NavigationStep{
		Name:     "Elm St",
		Maneuver: Maneuver{Type: "turn", Modifier: "sharp_left"},
	}
	if got := step.Instruction(); got != "Turn sharp left onto Elm St" {
		t.Errorf("expected %q, got %q", "Turn sharp left onto Elm St", got)
	}
}

func TestNavigationStepReadyMadeWins(t *testing.T) {
	step := NavigationStep{
		Name:     "Elm St",
		Maneuver: Maneuver{Instruction: "Head north", Type: "turn", Modifier: "left"},
	}
	if got := step.Instruction(); got != "Head north" {
		t.Errorf("expected ready-made instruction, got %q", got)
	}
}

func TestNavigationStepDefaults(t *testing.T) {
	step := NavigationStep{}
	if got := step.Instruction(); got != "Go" {
		t.Errorf("expected %q, got %q", "Go", got)
	}
	if got := step.ModeLabel(); got != "Walk" {
		t.Errorf("expected %q, got %q", "Walk", got)
	}

	step = NavigationStep{Mode: "CYCLE"}
	if got := step.ModeLabel(); got != "Cycle" {
		t.Errorf("expected %q, got %q", "Cycle", got)
	}
}

func TestLoadRoute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "route.json")
	if err := os.WriteFile(path, []byte(sampleRouteJSON), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	rec, err := LoadRoute(path)
	if err != nil {
		t.Fatalf("LoadRoute: %v", err)
	}
	if rec.City != "Vienna" {
		t.Errorf("expected Vienna, got %q", rec.City)
	}
}

func TestLoadRouteFatalErrors(t *testing.T) {
	if _, err := LoadRoute(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadRoute(bad); err == nil {
		t.Error("expected error for unparsable file")
	}
}
