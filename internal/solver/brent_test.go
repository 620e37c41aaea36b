package solver

import (
	"errors"
	"math"
	"testing"
)

func TestBrentLinear(t *testing.T) {
	root, err := Brent(func(x float64) float64 { return 3*x - 6 }, 0, 10)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if math.Abs(root-2) > 1e-9 {
		t.Errorf("expected root 2, got %.12f", root)
	}
}

func TestBrentCosine(t *testing.T) {
	root, err := Brent(math.Cos, 0, 3)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if math.Abs(root-math.Pi/2) > 1e-9 {
		t.Errorf("expected pi/2, got %.12f", root)
	}
}

func TestBrentCubic(t *testing.T) {
	f := func(x float64) float64 { return x*x*x - 2*x - 5 }
	root, err := Brent(f, 2, 3)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if math.Abs(f(root)) > 1e-9 {
		t.Errorf("residual too large at root %.12f: %g", root, f(root))
	}
}

func TestBrentEndpointRoot(t *testing.T) {
	root, err := Brent(func(x float64) float64 { return x }, 0, 1)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if root != 0 {
		t.Errorf("expected exact endpoint root 0, got %g", root)
	}
}

func TestBrentNoBracket(t *testing.T) {
	_, err := Brent(func(x float64) float64 { return x*x + 1 }, -1, 1)
	if !errors.Is(err, ErrNoRootBracketed) {
		t.Errorf("expected ErrNoRootBracketed, got %v", err)
	}
}

func TestBrentMaxIterations(t *testing.T) {
	defer func(n int) { MaxIter = n }(MaxIter)
	MaxIter = 2

	// Two iterations cannot close a unit-scale bracket to tolerance.
	_, err := Brent(math.Cos, 0, 3)
	if !errors.Is(err, ErrMaxIterations) {
		t.Errorf("expected ErrMaxIterations with a 2-iteration budget, got %v", err)
	}
}
