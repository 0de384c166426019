package testutil

import "testing"

func TestAssertNoError(t *testing.T) {
	AssertNoError(t, nil)
}

func TestNewRandDeterministic(t *testing.T) {
	a := NewRand(7)
	b := NewRand(7)
	for i := 0; i < 10; i++ {
		if x, y := a.Int63(), b.Int63(); x != y {
			t.Fatalf("draw %d differs: %d != %d", i, x, y)
		}
	}
}

func TestCoords(t *testing.T) {
	xs, ys := Coords(NewRand(1), 100, 5)
	if len(xs) != 100 || len(ys) != 100 {
		t.Fatalf("got %d/%d coordinates, want 100", len(xs), len(ys))
	}
	for i := range xs {
		if xs[i] < 0 || xs[i] >= 5 || ys[i] < 0 || ys[i] >= 5 {
			t.Errorf("coordinate %d = (%f, %f) outside [0, 5)", i, xs[i], ys[i])
		}
	}
}

func TestUniform(t *testing.T) {
	vs := Uniform(NewRand(2), 50, 1, 3)
	for i, v := range vs {
		if v < 1 || v >= 3 {
			t.Errorf("value %d = %f outside [1, 3)", i, v)
		}
	}
}
