package model

import (
	"strconv"
	"strings"
)

// ResolveCoords extracts a (lat, lng) pair from the location shapes the
// route planner produces. It is total: malformed or missing values
// resolve to (0, 0), never an error.
//
// Precedence:
//  1. flat "lat"/"lng" keys — presence of both keys alone selects this
//     branch, whatever the values hold (zero is a legitimate coordinate);
//  2. a nested "location" object with "lat"/"lng";
//  3. alternate keys "latitude"/"longitude" as fallback for "lat"/"lng" —
//     here a present-but-falsy value falls through to the alternate key
//     and ultimately to 0.
//
// The flat/alternate asymmetry around zero values is load-bearing:
// existing route files rely on it, so it must not be "fixed" here.
func ResolveCoords(obj map[string]any) (float64, float64) {
	if len(obj) == 0 {
		return 0, 0
	}

	latRaw, hasLat := obj["lat"]
	lngRaw, hasLng := obj["lng"]
	if hasLat && hasLng {
		return toFloat(latRaw), toFloat(lngRaw)
	}

	if loc, ok := obj["location"].(map[string]any); ok {
		return toFloat(loc["lat"]), toFloat(loc["lng"])
	}

	lat := orValue(obj["lat"], obj["latitude"])
	lng := orValue(obj["lng"], obj["longitude"])
	return toFloat(lat), toFloat(lng)
}

// orValue returns a unless it is absent or falsy, else b.
func orValue(a, b any) any {
	if truthy(a) {
		return a
	}
	return b
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

// toFloat coerces a decoded JSON value to float64, defaulting to 0.
func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
}
