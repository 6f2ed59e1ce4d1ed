package testutil

import (
	"math"
	"testing"
)

func TestLinspaceEndpoints(t *testing.T) {
	s := Linspace(1900, 2100, 201)
	if len(s) != 201 {
		t.Fatalf("len = %d, want 201", len(s))
	}

	if s[0] != 1900 || math.Abs(s[200]-2100) > 1e-9 {
		t.Fatalf("endpoints = %v, %v", s[0], s[200])
	}

	if math.Abs((s[1]-s[0])-1) > 1e-12 {
		t.Fatalf("step = %v, want 1", s[1]-s[0])
	}
}

func TestLinspaceSingle(t *testing.T) {
	s := Linspace(5, 10, 1)
	if len(s) != 1 || s[0] != 5 {
		t.Fatalf("got %v", s)
	}
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 0.01, 100)
	b := DeterministicNoise(42, 0.01, 100)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d: %v != %v", i, a[i], b[i])
		}

		if math.Abs(a[i]) > 0.01 {
			t.Fatalf("index %d: %v exceeds amplitude", i, a[i])
		}
	}
}
