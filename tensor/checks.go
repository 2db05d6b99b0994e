package tensor

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/numkit/pkg/errors"
)

// The checks below are the precondition guards used throughout numkit.
// Each returns the validated size or shape on success and a typed error
// naming the calling operation on violation. op may be empty, in which
// case the check's own name is used in the message.

func opName(op, fallback string) string {
	if op == "" {
		return fallback
	}
	return op
}

// CheckVector verifies that a is 1-D and returns its size.
func CheckVector(a *Array, op string) (int, error) {
	op = opName(op, "CheckVector")
	if a == nil {
		return 0, errors.NewValueError(op, "nil array")
	}
	if a.NDim() != 1 {
		return 0, errors.NewDimensionError(op, "dimensions", 1, a.NDim())
	}
	return a.shape[0], nil
}

// CheckMatrix verifies that a is 2-D and returns its rows and columns.
func CheckMatrix(a *Array, op string) (int, int, error) {
	op = opName(op, "CheckMatrix")
	if a == nil {
		return 0, 0, errors.NewValueError(op, "nil array")
	}
	if a.NDim() != 2 {
		return 0, 0, errors.NewDimensionError(op, "dimensions", 2, a.NDim())
	}
	return a.shape[0], a.shape[1], nil
}

// CheckVectorOrMatrix verifies that a is 1-D or 2-D and returns its rank.
func CheckVectorOrMatrix(a *Array, op string) (int, error) {
	op = opName(op, "CheckVectorOrMatrix")
	if a == nil {
		return 0, errors.NewValueError(op, "nil array")
	}
	if a.NDim() != 1 && a.NDim() != 2 {
		return 0, errors.NewDimensionError(op, "dimensions (at most)", 2, a.NDim())
	}
	return a.NDim(), nil
}

// CheckSquare verifies that a is a square matrix and returns its order.
func CheckSquare(a *Array, op string) (int, error) {
	op = opName(op, "CheckSquare")
	rows, cols, err := CheckMatrix(a, op)
	if err != nil {
		return 0, err
	}
	if rows != cols {
		return 0, errors.NewDimensionError(op, "columns (square matrix)", rows, cols)
	}
	return rows, nil
}

// CheckTensor verifies that a has exactly ndim dimensions and returns its
// shape.
func CheckTensor(a *Array, ndim int, op string) ([]int, error) {
	op = opName(op, "CheckTensor")
	if a == nil {
		return nil, errors.NewValueError(op, "nil array")
	}
	if a.NDim() != ndim {
		return nil, errors.NewDimensionError(op, "dimensions", ndim, a.NDim())
	}
	return a.Shape(), nil
}

// CheckSameShape verifies that a and b have identical shapes.
func CheckSameShape(a, b *Array, op string) error {
	op = opName(op, "CheckSameShape")
	if a == nil || b == nil {
		return errors.NewValueError(op, "nil array")
	}
	if !a.SameShape(b) {
		return errors.NewShapeError(op, a.Shape(), b.Shape())
	}
	return nil
}

// CheckSquareDense verifies that a gonum matrix is square and returns its
// order.
func CheckSquareDense(m mat.Matrix, op string) (int, error) {
	op = opName(op, "CheckSquareDense")
	if m == nil {
		return 0, errors.NewValueError(op, "nil matrix")
	}
	r, c := m.Dims()
	if r != c {
		return 0, errors.NewDimensionError(op, "columns (square matrix)", r, c)
	}
	return r, nil
}
