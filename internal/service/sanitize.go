package service

import (
	"math"
	"strconv"
)

// StateInput is the raw player:state payload before sanitization.
// Fields are deliberately loose: clients send whatever their physics
// layer produced and the relay must never reject it.
type StateInput struct {
	Name     any   `json:"name"`
	Position []any `json:"position"`
	Rotation any   `json:"rotation"`
	Action   any   `json:"action"`
	Velocity []any `json:"velocity"`
}

// sanitizeVec3 coerces the first three components to finite floats.
// Numeric strings parse; anything non-finite or non-numeric becomes 0.
// Inputs shorter than three components yield the zero vector.
func sanitizeVec3(in []any) [3]float64 {
	var out [3]float64
	if len(in) < 3 {
		return out
	}
	for i := 0; i < 3; i++ {
		out[i] = toFinite(in[i])
	}
	return out
}

func toFinite(v any) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

func sanitizeRotation(v any) float64 {
	if n, ok := v.(float64); ok && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return n
	}
	return 0
}

func sanitizeAction(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "idle"
}
