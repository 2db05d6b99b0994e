// Package dcov implements the Szekely-Rizzo distance covariance and
// correlation, their partial analogues conditioned on a third variable,
// and permutation-bootstrap significance tests.
//
// Inputs are n observations of a random variable (1-D array) or random
// vector (2-D array, one observation per row). All statistics are the
// squared quantities of the literature.
package dcov

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/numkit/pkg/errors"
	"github.com/YuminosukeSato/numkit/tensor"
)

// Distances returns the matrix of pairwise distances between the
// observations in t: |t_i - t_j| for a vector, the Euclidean norm of the
// row difference for a matrix.
func Distances(t *tensor.Array) (*mat.Dense, error) {
	ndims, err := tensor.CheckVectorOrMatrix(t, "Distances")
	if err != nil {
		return nil, err
	}

	if ndims == 1 {
		n := t.Shape()[0]
		d := mat.NewDense(n, n, nil)
		v := t.Data()
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dij := math.Abs(v[i] - v[j])
				d.Set(i, j, dij)
				d.Set(j, i, dij)
			}
		}
		return d, nil
	}

	shape := t.Shape()
	n, nv := shape[0], shape[1]
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := 0.0
			for k := 0; k < nv; k++ {
				diff := t.At(i, k) - t.At(j, k)
				s += diff * diff
			}
			dij := math.Sqrt(s)
			d.Set(i, j, dij)
			d.Set(j, i, dij)
		}
	}
	return d, nil
}

// DoubleCenter removes row means, column means and adds back the grand
// mean of a square matrix. With unbiased set, the Szekely-Rizzo 2014
// U-statistic scalings (n-1, n-2) are used and the diagonal is zeroed.
func DoubleCenter(a mat.Matrix, unbiased bool) (*mat.Dense, error) {
	n, err := tensor.CheckSquareDense(a, "DoubleCenter")
	if err != nil {
		return nil, err
	}

	colSums := make([]float64, n)
	rowSums := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := a.At(i, j)
			rowSums[i] += v
			colSums[j] += v
			total += v
		}
	}

	fac1 := float64(n)
	fac2 := float64(n)
	if unbiased {
		fac1 = float64(n - 1)
		fac2 = float64(n - 2)
	}

	out := mat.NewDense(n, n, nil)
	grand := total / (fac1 * fac2)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, a.At(i, j)-colSums[j]/fac2-rowSums[i]/fac2+grand)
		}
	}
	if unbiased {
		for i := 0; i < n; i++ {
			out.Set(i, i, 0)
		}
	}
	return out, nil
}

// rawProduct is the inner product of two doubly-centered matrices scaled
// to the (squared) distance covariance. The caller guarantees a and b are
// square of equal order.
func rawProduct(a, b *mat.Dense, unbiased bool) float64 {
	n, _ := a.Dims()
	fac3 := float64(n)
	if unbiased {
		fac3 = float64(n - 3)
	}
	s := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			s += a.At(i, j) * b.At(i, j)
		}
	}
	return s / (float64(n) * fac3)
}

func covProduct(a, b *mat.Dense, unbiased bool) (float64, error) {
	n, err := tensor.CheckSquareDense(a, "covProduct")
	if err != nil {
		return 0, err
	}
	m, err := tensor.CheckSquareDense(b, "covProduct")
	if err != nil {
		return 0, err
	}
	if m != n {
		return 0, errors.NewDimensionError("covProduct", "rows", n, m)
	}
	return rawProduct(a, b, unbiased), nil
}

// Results bundles the distance covariance statistics of a pair of samples
// with the doubly-centered distance matrices, which are retained so a
// bootstrap test can reuse them without recomputation.
type Results struct {
	DCov     float64 // squared distance covariance
	DCovStat float64 // n * DCov, the independence test statistic
	DCor     float64 // squared distance correlation
	XDD      *mat.Dense
	YDD      *mat.Dense
	Unbiased bool
}

// DCovDCor evaluates the distance covariance and correlation of x and y,
// n observations each of a random variable or vector. With unbiased set
// the Szekely-Rizzo 2014 estimator is used.
func DCovDCor(x, y *tensor.Array, unbiased bool) (*Results, error) {
	xDist, err := Distances(x)
	if err != nil {
		return nil, err
	}
	n, _ := xDist.Dims()
	xdd, err := DoubleCenter(xDist, unbiased)
	if err != nil {
		return nil, err
	}
	yDist, err := Distances(y)
	if err != nil {
		return nil, err
	}
	ydd, err := DoubleCenter(yDist, unbiased)
	if err != nil {
		return nil, err
	}

	dcov2, err := covProduct(xdd, ydd, unbiased)
	if err != nil {
		return nil, err
	}
	varX := rawProduct(xdd, xdd, unbiased)
	varY := rawProduct(ydd, ydd, unbiased)
	dcor2 := dcov2 / math.Sqrt(varX*varY)
	if err := errors.CheckScalar("DCor", dcor2); err != nil {
		return nil, err
	}

	return &Results{
		DCov:     dcov2,
		DCovStat: float64(n) * dcov2,
		DCor:     dcor2,
		XDD:      xdd,
		YDD:      ydd,
		Unbiased: unbiased,
	}, nil
}

// PartialResults bundles the partial distance covariance statistics with
// the three doubly-centered matrices for bootstrap reuse.
type PartialResults struct {
	PDCov     float64
	PDCovStat float64
	PDCor     float64
	XDD       *mat.Dense
	YDD       *mat.Dense
	ZDD       *mat.Dense
}

// PDCovPDCor evaluates the partial distance covariance and correlation of
// x and y given z by projecting out z's contribution in distance
// covariance space. The unbiased estimator is always used.
func PDCovPDCor(x, y, z *tensor.Array) (*PartialResults, error) {
	const unbiased = true

	dd := make([]*mat.Dense, 3)
	for i, t := range []*tensor.Array{x, y, z} {
		dist, err := Distances(t)
		if err != nil {
			return nil, err
		}
		dd[i], err = DoubleCenter(dist, unbiased)
		if err != nil {
			return nil, err
		}
	}
	xdd, ydd, zdd := dd[0], dd[1], dd[2]

	cXY, err := covProduct(xdd, ydd, unbiased)
	if err != nil {
		return nil, err
	}
	cXZ, err := covProduct(xdd, zdd, unbiased)
	if err != nil {
		return nil, err
	}
	cYZ, err := covProduct(ydd, zdd, unbiased)
	if err != nil {
		return nil, err
	}
	cXX := rawProduct(xdd, xdd, unbiased)
	cYY := rawProduct(ydd, ydd, unbiased)
	cZZ := rawProduct(zdd, zdd, unbiased)

	pdcov := cXY - cXZ*cYZ/cZZ
	pdcor := pdcov / math.Sqrt((cXX-cXZ*cXZ/cZZ)*(cYY-cYZ*cYZ/cZZ))
	if err := errors.CheckScalar("PDCor", pdcor); err != nil {
		return nil, err
	}

	n, _ := xdd.Dims()
	return &PartialResults{
		PDCov:     pdcov,
		PDCovStat: float64(n) * pdcov,
		PDCor:     pdcor,
		XDD:       xdd,
		YDD:       ydd,
		ZDD:       zdd,
	}, nil
}
