package service

import (
	"math"
	"testing"
)

func TestSanitizeVec3(t *testing.T) {
	tests := []struct {
		name string
		in   []any
		want [3]float64
	}{
		{"nil", nil, [3]float64{}},
		{"too short", []any{1.0, 2.0}, [3]float64{}},
		{"numbers", []any{1.0, 2.0, 3.0}, [3]float64{1, 2, 3}},
		{"extra components ignored", []any{1.0, 2.0, 3.0, 4.0}, [3]float64{1, 2, 3}},
		{"invalid mixed", []any{"abc", nil, 5.0}, [3]float64{0, 0, 5}},
		{"numeric strings parse", []any{"1.5", "-2", "0"}, [3]float64{1.5, -2, 0}},
		{"nan and inf rejected", []any{math.NaN(), math.Inf(1), 3.0}, [3]float64{0, 0, 3}},
		{"objects rejected", []any{map[string]any{}, []any{}, true}, [3]float64{}},
	}

	for _, tt := range tests {
		if got := sanitizeVec3(tt.in); got != tt.want {
			t.Errorf("%s: sanitizeVec3(%v) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestSanitizeRotation(t *testing.T) {
	if got := sanitizeRotation(1.25); got != 1.25 {
		t.Fatalf("got %v", got)
	}
	for _, v := range []any{"1.25", nil, true, math.NaN()} {
		if got := sanitizeRotation(v); got != 0 {
			t.Errorf("sanitizeRotation(%v) = %v, want 0", v, got)
		}
	}
}

func TestSanitizeAction(t *testing.T) {
	if got := sanitizeAction("run"); got != "run" {
		t.Fatalf("got %q", got)
	}
	for _, v := range []any{nil, 7.0, true} {
		if got := sanitizeAction(v); got != "idle" {
			t.Errorf("sanitizeAction(%v) = %q, want idle", v, got)
		}
	}
}
