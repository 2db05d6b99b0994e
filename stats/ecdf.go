// Package stats contains statistical helper routines: empirical cdf and
// quantiles, Rice local standard errors, normal densities, Silverman-rule
// density estimation, and polynomial projections with two-stage least
// squares on top.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/numkit/pkg/errors"
)

// ECDF evaluates the empirical cdf of the sample at each of its points.
// The returned values run from 1/n to 1 and out[i] corresponds to x[i].
func ECDF(x []float64) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "ECDF")
	}

	sorted := append([]float64(nil), x...)
	inds := make([]int, n)
	floats.Argsort(sorted, inds)

	out := make([]float64, n)
	for iOrder, nOrder := range inds {
		out[nOrder] = float64(iOrder+1) / float64(n)
	}
	return out, nil
}

// InvECDFAll evaluates the empirical q-quantiles of the sample v in a way
// consistent with ECDF, extending linearly below 1/n and flat at 1.
// Every q must lie in [0, 1].
func InvECDFAll(v []float64, q []float64) ([]float64, error) {
	nv := len(v)
	if nv == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "InvECDFAll")
	}

	// sorted sample with one artificial point at each end
	sorted := make([]float64, nv+2)
	copy(sorted[1:nv+1], v)
	sort.Float64s(sorted[1 : nv+1])
	sorted[0] = 2.0*sorted[1] - sorted[2]
	sorted[nv+1] = sorted[nv]

	out := make([]float64, len(q))
	for i, qi := range q {
		if qi < 0 || qi > 1 {
			return nil, errors.NewValidationError("q", "quantiles must lie in [0, 1]", qi)
		}
		nq := float64(nv) * qi
		qFloor := math.Floor(nq)
		k := int(qFloor)
		out[i] = sorted[k] + (nq-qFloor)*(sorted[k+1]-sorted[k])
	}
	return out, nil
}

// InvECDF evaluates a single empirical quantile of v.
func InvECDF(v []float64, q float64) (float64, error) {
	out, err := InvECDFAll(v, []float64{q})
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// RiceStdErr computes the Rice local estimator of the standard error of
// y given x, averaging squared first differences of y over a window of
// sqrt(n)/2 neighbors in x order. Set sorted when x is already increasing.
func RiceStdErr(y, x []float64, sorted bool) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "RiceStdErr")
	}
	if len(y) != n {
		return nil, errors.NewDimensionError("RiceStdErr", "size", n, len(y))
	}

	nNeighbors := int(math.Sqrt(float64(n)) / 2.0)
	if nNeighbors < 1 {
		return nil, errors.NewValueError("RiceStdErr", "sample too small for the neighbor window")
	}

	ys := y
	if !sorted {
		xs := append([]float64(nil), x...)
		inds := make([]int, n)
		floats.Argsort(xs, inds)
		ys = make([]float64, n)
		for i, ind := range inds {
			ys[i] = y[ind]
		}
	}

	facd := 1.0 / (2.0 * float64(nNeighbors))
	nn2 := nNeighbors / 2

	sumSqDiff := func(w []float64) float64 {
		s := 0.0
		for i := 1; i < len(w); i++ {
			d := w[i] - w[i-1]
			s += d * d
		}
		return s
	}

	variance := make([]float64, n)

	// first observations share the left-edge window
	left := sumSqDiff(ys[:nn2]) * facd
	for i := 0; i < nn2; i++ {
		variance[i] = left
	}
	// the middle of the sample gets a sliding window
	for ix := nn2; ix < n-nn2; ix++ {
		variance[ix] = sumSqDiff(ys[ix-nn2:ix+nn2]) * facd
	}
	// and the last observations share the right-edge window
	right := sumSqDiff(ys[n-nn2:]) * facd
	for i := n - nn2; i < n; i++ {
		variance[i] = right
	}

	stderr := make([]float64, n)
	for i, v := range variance {
		stderr[i] = math.Sqrt(v)
	}
	return stderr, nil
}
