package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RouteRecord is the top-level structure of a planned route file.
type RouteRecord struct {
	City        string    `json:"city"`
	Interests   string    `json:"interests"`
	IsRoundtrip bool      `json:"isRoundtrip"`
	RouteData   RouteData `json:"routeData"`
}

// RouteData carries the route itself: the ordered stops, the traced
// path, the turn-by-turn steps and the summary statistics.
type RouteData struct {
	POIs            []PointOfInterest `json:"pois"`
	RoutePath       []PathVertex      `json:"routePath"`
	NavigationSteps []NavigationStep  `json:"navigationSteps"`
	Stats           Stats             `json:"stats"`
}

// Stats holds route summary figures. All fields tolerate numeric
// strings and default to 0 when absent or unparsable.
type Stats struct {
	TotalDistance FlexFloat `json:"totalDistance"`
	WalkDistance  FlexFloat `json:"walkDistance"`
	LimitKm       FlexFloat `json:"limitKm"`
}

// PointOfInterest is one named stop along the route. The raw decoded
// object is retained because location data arrives in several shapes
// (flat lat/lng, nested location object, latitude/longitude keys).
type PointOfInterest struct {
	ID                  string
	Name                string
	Address             string
	LongDescription     string
	StandardDescription string
	ShortDescription    string
	PlainDescription    string
	Image               string
	Link                string

	// Raw is the POI object as decoded from JSON, used by ResolveCoords.
	Raw map[string]any
}

func (p *PointOfInterest) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	p.Raw = m
	p.ID = idString(m["id"])
	p.Name = stringField(m, "name")
	p.Address = stringField(m, "address")
	p.LongDescription = stringField(m, "long_description")
	p.StandardDescription = stringField(m, "standard_description")
	p.ShortDescription = stringField(m, "short_description")
	p.PlainDescription = stringField(m, "description")
	p.Image = stringField(m, "image")
	p.Link = stringField(m, "link")
	return nil
}

// Coords resolves the POI's location to a (lat, lng) pair.
func (p *PointOfInterest) Coords() (float64, float64) {
	return ResolveCoords(p.Raw)
}

// Description returns the most verbose non-empty description field.
func (p *PointOfInterest) Description() string {
	for _, d := range []string{p.LongDescription, p.StandardDescription, p.ShortDescription, p.PlainDescription} {
		if d != "" {
			return d
		}
	}
	return ""
}

// PathVertex is one point of the traced route path. It decodes either a
// 2-element [lat, lng] array or a keyed object with lat/latitude and
// lng/longitude alternatives.
type PathVertex struct {
	Lat float64
	Lng float64
}

func (v *PathVertex) UnmarshalJSON(data []byte) error {
	var arr []any
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) >= 2 {
			v.Lat = toFloat(arr[0])
			v.Lng = toFloat(arr[1])
		}
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		// Unexpected shape: keep the zero vertex rather than failing the record.
		return nil
	}
	v.Lat = toFloat(orValue(m["lat"], m["latitude"]))
	v.Lng = toFloat(orValue(m["lng"], m["longitude"]))
	return nil
}

// NavigationStep is one turn-by-turn instruction of the route.
type NavigationStep struct {
	Mode     string    `json:"mode"`
	Distance FlexFloat `json:"distance"`
	Duration FlexFloat `json:"duration"`
	Name     string    `json:"name"`
	Maneuver Maneuver  `json:"maneuver"`
}

// Maneuver describes a turn when no ready-made instruction is given.
type Maneuver struct {
	Instruction string `json:"instruction"`
	Type        string `json:"type"`
	Modifier    string `json:"modifier"`
}

// Instruction returns the step's ready-made instruction when present,
// otherwise synthesizes one from the maneuver descriptor, e.g.
// "Turn sharp left onto Elm St".
func (s NavigationStep) Instruction() string {
	if s.Maneuver.Instruction != "" {
		return s.Maneuver.Instruction
	}

	typ := s.Maneuver.Type
	if typ == "" {
		typ = "go"
	}
	mod := strings.ReplaceAll(s.Maneuver.Modifier, "_", " ")

	instr := strings.TrimSpace(capitalize(typ) + " " + mod)
	if s.Name != "" {
		instr += " onto " + s.Name
	}
	return instr
}

// ModeLabel returns the travel mode, defaulting to walking, capitalized
// for display.
func (s NavigationStep) ModeLabel() string {
	mode := s.Mode
	if mode == "" {
		mode = "walk"
	}
	return capitalize(mode)
}

// FlexFloat decodes a JSON number, a numeric string, or a boolean as a
// float64, and anything else as 0 rather than failing the record.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(toFloat(v))
	return nil
}

// LoadRoute reads and parses a route record file. This is the one fatal
// boundary: an unreadable or unparsable record aborts the run.
func LoadRoute(path string) (*RouteRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading route file: %w", err)
	}

	var rec RouteRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing route file: %w", err)
	}
	return &rec, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// idString renders a POI identifier for use in filenames. Identifiers
// arrive as strings or numbers; a missing one becomes "x".
func idString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return "x"
	default:
		return fmt.Sprintf("%v", x)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
