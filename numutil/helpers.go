package numutil

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/numkit/pkg/errors"
	"github.com/YuminosukeSato/numkit/tensor"
)

// MaxAbs returns the largest element of a in absolute value.
func MaxAbs(a *tensor.Array) (float64, error) {
	if err := checkInput(a, "MaxAbs"); err != nil {
		return 0, err
	}
	m := 0.0
	for _, x := range a.Data() {
		if ax := math.Abs(x); ax > m {
			m = ax
		}
	}
	return m, nil
}

// RepeatCol returns the (len(v), n) matrix whose n columns all equal v.
func RepeatCol(v []float64, n int) *mat.Dense {
	m := len(v)
	out := mat.NewDense(m, n, nil)
	for i, x := range v {
		for j := 0; j < n; j++ {
			out.Set(i, j, x)
		}
	}
	return out
}

// RepeatRow returns the (m, len(v)) matrix whose m rows all equal v.
func RepeatRow(v []float64, m int) *mat.Dense {
	n := len(v)
	out := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		out.SetRow(i, v)
	}
	return out
}

// PadBegZeros pads the beginning of v with zeros up to size n. When v is
// already long enough it is returned unchanged.
func PadBegZeros(v []float64, n int) []float64 {
	if len(v) >= n {
		return v
	}
	out := make([]float64, n)
	copy(out[n-len(v):], v)
	return out
}

// PadEndZeros pads the end of v with zeros up to size n. When v is
// already long enough it is returned unchanged.
func PadEndZeros(v []float64, n int) []float64 {
	if len(v) >= n {
		return v
	}
	out := make([]float64, n)
	copy(out, v)
	return out
}

// Pad2EndZeros pads the ends of both dimensions of m with zeros up to
// (rows, cols), where needed.
func Pad2EndZeros(m mat.Matrix, rows, cols int) *mat.Dense {
	r, c := m.Dims()
	outR, outC := r, c
	if rows > outR {
		outR = rows
	}
	if cols > outC {
		outC = cols
	}
	if outR == r && outC == c {
		return mat.DenseCopyOf(m)
	}
	out := mat.NewDense(outR, outC, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, m.At(i, j))
		}
	}
	return out
}

// Grid returns the (len(v)*len(w), 2) matrix of all ordered pairs of
// elements of v and w, v varying slowest.
func Grid(v, w []float64) *mat.Dense {
	m, n := len(v), len(w)
	out := mat.NewDense(m*n, 2, nil)
	k := 0
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			out.Set(k, 0, v[i])
			out.Set(k, 1, w[j])
			k++
		}
	}
	return out
}

// LexicoGrid builds a lexicographic grid from the columns of arr. A 1-D
// input is returned as is. A 2-D input with nr rows and 2 or 3 columns
// yields a (nr^2, 2) or (nr^3, 3) array enumerating the column values in
// lexicographic order. More than 3 columns is not supported.
func LexicoGrid(arr *tensor.Array) (*tensor.Array, error) {
	ndims, err := tensor.CheckVectorOrMatrix(arr, "LexicoGrid")
	if err != nil {
		return nil, err
	}
	if ndims == 1 {
		return arr, nil
	}
	nr := arr.Shape()[0]
	nc := arr.Shape()[1]
	switch nc {
	case 1:
		return arr.Clone(), nil
	case 2:
		out := tensor.New(nr*nr, 2)
		k := 0
		for i := 0; i < nr; i++ {
			for j := 0; j < nr; j++ {
				out.Set(arr.At(i, 0), k, 0)
				out.Set(arr.At(j, 1), k, 1)
				k++
			}
		}
		return out, nil
	case 3:
		out := tensor.New(nr*nr*nr, 3)
		k := 0
		for i := 0; i < nr; i++ {
			for j := 0; j < nr; j++ {
				for l := 0; l < nr; l++ {
					out.Set(arr.At(i, 0), k, 0)
					out.Set(arr.At(j, 1), k, 1)
					out.Set(arr.At(l, 2), k, 2)
					k++
				}
			}
		}
		return out, nil
	default:
		return nil, errors.NewValueError("LexicoGrid", "the number of columns must be 3 or less")
	}
}
