package tensor

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestArrayAtSet(t *testing.T) {
	a := New(2, 3)
	a.Set(7.5, 1, 2)
	if got := a.At(1, 2); got != 7.5 {
		t.Errorf("At(1,2) = %v, want 7.5", got)
	}
	if got := a.At(0, 0); got != 0 {
		t.Errorf("At(0,0) = %v, want 0", got)
	}
}

func TestArrayRowMajorLayout(t *testing.T) {
	a := NewWithData([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	want := [][]float64{{1, 2, 3}, {4, 5, 6}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if got := a.At(i, j); got != want[i][j] {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, got, want[i][j])
			}
		}
	}
}

func TestArrayMatrixRoundTrip(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	a := FromMatrix(m)
	back, err := a.Matrix()
	if err != nil {
		t.Fatalf("Matrix() error = %v", err)
	}
	if !mat.EqualApprox(m, back, 1e-15) {
		t.Errorf("round trip mismatch:\ngot %v\nwant %v", mat.Formatted(back), mat.Formatted(m))
	}

	if _, err := FromSlice([]float64{1, 2}).Matrix(); err == nil {
		t.Error("Matrix() accepted a vector")
	}
}

func TestArrayClone(t *testing.T) {
	a := FromSlice([]float64{1, 2, 3})
	b := a.Clone()
	b.Set(99, 0)
	if a.At(0) != 1 {
		t.Error("Clone() shares backing data")
	}
}

func TestFull(t *testing.T) {
	a := Full(math.Pi, 2, 2)
	for _, v := range a.Data() {
		if v != math.Pi {
			t.Fatalf("Full() element = %v, want pi", v)
		}
	}
}

func TestNewPanicsOnBadShape(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New() with negative dimension did not panic")
		}
	}()
	New(2, -1)
}
