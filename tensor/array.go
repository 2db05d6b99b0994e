// Package tensor provides the n-dimensional float64 array used by the
// element-wise routines in numkit, together with the shape validators
// every numeric routine calls on entry.
//
// Array is deliberately small: a shape and a flat backing slice in
// row-major order. Two-dimensional algebra is done with gonum matrices;
// Matrix and Vec convert at that boundary.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Array is an n-dimensional array of float64 in row-major order.
type Array struct {
	shape []int
	data  []float64
}

// New returns a zero-filled Array with the given shape.
// It panics if any dimension is negative or the shape is empty.
func New(shape ...int) *Array {
	n := checkedSize(shape)
	return &Array{shape: append([]int(nil), shape...), data: make([]float64, n)}
}

// NewWithData returns an Array wrapping data with the given shape. The
// slice is used directly, not copied. It panics if the sizes disagree.
func NewWithData(shape []int, data []float64) *Array {
	n := checkedSize(shape)
	if n != len(data) {
		panic(fmt.Sprintf("tensor: shape %v needs %d elements, data has %d", shape, n, len(data)))
	}
	return &Array{shape: append([]int(nil), shape...), data: data}
}

// Full returns an Array with the given shape, every element set to value.
func Full(value float64, shape ...int) *Array {
	a := New(shape...)
	for i := range a.data {
		a.data[i] = value
	}
	return a
}

// FromSlice returns a 1-D Array wrapping data. The slice is used directly.
func FromSlice(data []float64) *Array {
	return &Array{shape: []int{len(data)}, data: data}
}

// FromMatrix returns a 2-D Array copied from a gonum matrix.
func FromMatrix(m mat.Matrix) *Array {
	r, c := m.Dims()
	a := New(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			a.data[i*c+j] = m.At(i, j)
		}
	}
	return a
}

// FromVec returns a 1-D Array copied from a gonum vector.
func FromVec(v mat.Vector) *Array {
	n := v.Len()
	a := New(n)
	for i := 0; i < n; i++ {
		a.data[i] = v.AtVec(i)
	}
	return a
}

func checkedSize(shape []int) int {
	if len(shape) == 0 {
		panic("tensor: empty shape")
	}
	n := 1
	for _, d := range shape {
		if d < 0 {
			panic(fmt.Sprintf("tensor: negative dimension in shape %v", shape))
		}
		n *= d
	}
	return n
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int { return len(a.shape) }

// Shape returns a copy of the shape.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// Len returns the total number of elements.
func (a *Array) Len() int { return len(a.data) }

// Data returns the backing slice in row-major order. Mutating it mutates
// the array.
func (a *Array) Data() []float64 { return a.data }

// At returns the element at the given multi-index. It panics on a rank
// mismatch or an index out of range, like gonum's mat accessors.
func (a *Array) At(idx ...int) float64 {
	return a.data[a.offset(idx)]
}

// Set assigns the element at the given multi-index.
func (a *Array) Set(v float64, idx ...int) {
	a.data[a.offset(idx)] = v
}

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("tensor: %d indices for %d dimensions", len(idx), len(a.shape)))
	}
	off := 0
	for k, i := range idx {
		if i < 0 || i >= a.shape[k] {
			panic(fmt.Sprintf("tensor: index %d out of range for dimension %d of extent %d", i, k, a.shape[k]))
		}
		off = off*a.shape[k] + i
	}
	return off
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{
		shape: append([]int(nil), a.shape...),
		data:  append([]float64(nil), a.data...),
	}
}

// SameShape reports whether a and b have identical shapes.
func (a *Array) SameShape(b *Array) bool {
	if len(a.shape) != len(b.shape) {
		return false
	}
	for i, d := range a.shape {
		if d != b.shape[i] {
			return false
		}
	}
	return true
}

// Matrix returns the 2-D array as a gonum dense matrix sharing the backing
// data. The receiver must be 2-D.
func (a *Array) Matrix() (*mat.Dense, error) {
	if _, _, err := CheckMatrix(a, "Matrix"); err != nil {
		return nil, err
	}
	return mat.NewDense(a.shape[0], a.shape[1], a.data), nil
}

// Vec returns the 1-D array as a gonum dense vector sharing the backing
// data. The receiver must be 1-D.
func (a *Array) Vec() (*mat.VecDense, error) {
	if _, err := CheckVector(a, "Vec"); err != nil {
		return nil, err
	}
	return mat.NewVecDense(a.shape[0], a.data), nil
}
