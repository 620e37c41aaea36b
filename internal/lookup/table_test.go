package lookup

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable(
		[]float64{0, 1, 2},
		[]float64{0, 10},
		[][]float64{
			{0, 0},
			{100, 80},
			{180, 140},
		},
	)
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	return tbl
}

func TestTableNodes(t *testing.T) {
	tbl := testTable(t)
	if got := tbl.At(1, 0); got != 100 {
		t.Errorf("At(1,0) = %g, want 100", got)
	}
	if got := tbl.At(2, 10); got != 140 {
		t.Errorf("At(2,10) = %g, want 140", got)
	}
}

func TestTableBilinear(t *testing.T) {
	tbl := testTable(t)
	// Midpoint of the (0..1, 0..10) cell: mean of 0, 0, 100, 80.
	if got := tbl.At(0.5, 5); math.Abs(got-45) > 1e-12 {
		t.Errorf("At(0.5,5) = %g, want 45", got)
	}
}

func TestTableClamping(t *testing.T) {
	tbl := testTable(t)
	if got := tbl.At(-3, 0); got != 0 {
		t.Errorf("below-range slip should clamp to edge, got %g", got)
	}
	if got := tbl.At(5, 20); got != 140 {
		t.Errorf("above-range query should clamp to corner, got %g", got)
	}
}

func TestTableRejectsBadAxes(t *testing.T) {
	_, err := NewTable([]float64{0, 0}, []float64{0, 1}, [][]float64{{1, 2}, {3, 4}})
	if err == nil {
		t.Error("expected error for non-ascending slip axis")
	}
	_, err = NewTable([]float64{0, 1}, []float64{0, 1}, [][]float64{{1, 2}})
	if err == nil {
		t.Error("expected error for mismatched row count")
	}
}

func TestLossTableFloorsNegative(t *testing.T) {
	tbl, err := NewTable(
		[]float64{0, 1},
		[]float64{0, 1},
		[][]float64{{-5, -5}, {-5, -5}},
	)
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	lt := LossTable{tbl}
	if got := lt.Loss(0.5, 0.5); got != 0 {
		t.Errorf("loss should floor at zero, got %g", got)
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "force.csv")
	data := "# thrust per wheel pair\nslip,0,10\n0,0,0\n1,100,80\n2,180,140\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	tbl, err := LoadTable(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := tbl.At(1, 10); got != 80 {
		t.Errorf("At(1,10) = %g, want 80", got)
	}
}

func TestLoadSlipCurve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slip.csv")
	data := "0,0.5\n50,1.0\n100,1.2\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	curve, err := LoadSlipCurve(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := curve.OptimalSlip(25); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("OptimalSlip(25) = %g, want 0.75", got)
	}
	if got := curve.OptimalSlip(500); got != 1.2 {
		t.Errorf("out-of-range velocity should clamp, got %g", got)
	}
}

func TestPolySlip(t *testing.T) {
	p := PolySlip{Coeffs: []float64{0.5, 0.01, 0.001}}
	want := 0.5 + 0.01*10 + 0.001*100
	if got := p.OptimalSlip(10); math.Abs(got-want) > 1e-12 {
		t.Errorf("OptimalSlip(10) = %g, want %g", got, want)
	}
}
