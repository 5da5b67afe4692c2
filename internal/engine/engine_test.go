package engine_test

import (
	"math"
	"testing"

	"vcompress/internal/engine"
)

func TestClamp(t *testing.T) {
	cases := map[float64]float64{
		-0.5:       0,
		0:          0,
		0.25:       0.25,
		1:          1,
		3.2:        1,
		math.NaN(): 0,
	}
	for in, want := range cases {
		if got := engine.Clamp(in); got != want {
			t.Fatalf("Clamp(%v) = %v, want %v", in, got, want)
		}
	}
}
