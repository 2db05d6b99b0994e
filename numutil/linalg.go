package numutil

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/numkit/pkg/errors"
)

// SqrtPD returns the symmetric square root of a positive semidefinite
// matrix via its eigendecomposition. Eigenvalues pushed slightly negative
// by rounding are clamped to zero.
func SqrtPD(m mat.Symmetric) (*mat.Dense, error) {
	n := m.SymmetricDim()
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "SqrtPD")
	}

	var es mat.EigenSym
	if ok := es.Factorize(m, true); !ok {
		return nil, errors.NewValueError("SqrtPD", "eigendecomposition failed")
	}

	vals := es.Values(nil)
	sqrtVals := mat.NewDiagDense(n, nil)
	for i, v := range vals {
		if v < 0 {
			v = 0
		}
		sqrtVals.SetDiag(i, math.Sqrt(v))
	}

	var vecs mat.Dense
	es.VectorsTo(&vecs)

	var tmp, out mat.Dense
	tmp.Mul(&vecs, sqrtVals)
	out.Mul(&tmp, vecs.T())
	return &out, nil
}
