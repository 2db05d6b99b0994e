package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/numkit/pkg/errors"
	"github.com/YuminosukeSato/numkit/tensor"
)

// minVar is the variance floor below which a column's R^2 is reported
// as 1 instead of dividing by (near) zero.
const minVar = 1e-12

// ProjResults holds the output of ProjZ: the projected values, the
// least-squares coefficients of the polynomial expansion, and the R^2 of
// each projected column.
type ProjResults struct {
	Proj   *tensor.Array
	Coeffs *mat.Dense
	R2     []float64
}

// ProjZ projects the columns of w on the polynomial expansion of z of
// total degree at most p, including interactions between z's columns.
// z must not include a constant term; one is added. The expansion is
// capped at nobs/5 terms.
func ProjZ(w, z *tensor.Array, p int) (*ProjResults, error) {
	ndimsW, err := tensor.CheckVectorOrMatrix(w, "ProjZ")
	if err != nil {
		return nil, err
	}
	ndimsZ, err := tensor.CheckVectorOrMatrix(z, "ProjZ")
	if err != nil {
		return nil, err
	}
	if p < 1 {
		return nil, errors.NewValidationError("p", "degree must be at least 1", p)
	}

	nobs := z.Shape()[0]
	if w.Shape()[0] != nobs {
		return nil, errors.NewDimensionError("ProjZ", "rows", nobs, w.Shape()[0])
	}

	var zp *mat.Dense
	if ndimsZ == 1 {
		zp = mat.NewDense(nobs, p+1, nil)
		zd := z.Data()
		for i := 0; i < nobs; i++ {
			zp.Set(i, 0, 1.0)
			v := 1.0
			for q := 1; q <= p; q++ {
				v *= zd[i]
				zp.Set(i, q, v)
			}
		}
	} else {
		zp, err = polyExpand(z, p, nobs)
		if err != nil {
			return nil, err
		}
	}

	nw := 1
	if ndimsW == 2 {
		nw = w.Shape()[1]
	}
	wm := mat.NewDense(nobs, nw, w.Data())

	var qr mat.QR
	qr.Factorize(zp)
	var coeffs mat.Dense
	if err := qr.SolveTo(&coeffs, false, wm); err != nil {
		return nil, errors.Wrap(errors.ErrSingularMatrix, "ProjZ: least squares solve failed")
	}

	var projM mat.Dense
	projM.Mul(zp, &coeffs)

	r2 := make([]float64, nw)
	colW := make([]float64, nobs)
	colP := make([]float64, nobs)
	for j := 0; j < nw; j++ {
		mat.Col(colW, j, wm)
		mat.Col(colP, j, &projM)
		varW := popVariance(colW)
		if varW > minVar {
			r2[j] = popVariance(colP) / varW
		} else {
			r2[j] = 1.0
		}
	}

	var proj *tensor.Array
	if ndimsW == 1 {
		mat.Col(colP, 0, &projM)
		proj = tensor.FromSlice(append([]float64(nil), colP...))
	} else {
		proj = tensor.FromMatrix(&projM)
	}
	return &ProjResults{Proj: proj, Coeffs: &coeffs, R2: r2}, nil
}

// polyExpand builds the design matrix of all monomials of total degree 1
// to p in the columns of z, preceded by a constant column.
func polyExpand(z *tensor.Array, p, nobs int) (*mat.Dense, error) {
	m := z.Shape()[1]
	maxTerms := int(math.Round(float64(nobs) / 5.0))

	cols := make([][]float64, 0, maxTerms)
	ones := make([]float64, nobs)
	for i := range ones {
		ones[i] = 1.0
	}
	cols = append(cols, ones)

	for q := 1; q <= p; q++ {
		for _, degs := range degreeVectors(m, q) {
			if len(cols) >= maxTerms {
				return nil, errors.NewValueError("ProjZ", fmt.Sprintf("no more than %d terms allowed", maxTerms))
			}
			col := make([]float64, nobs)
			for i := 0; i < nobs; i++ {
				v := 1.0
				for ivar, d := range degs {
					for k := 0; k < d; k++ {
						v *= z.At(i, ivar)
					}
				}
				col[i] = v
			}
			cols = append(cols, col)
		}
	}

	zp := mat.NewDense(nobs, len(cols), nil)
	for j, col := range cols {
		zp.SetCol(j, col)
	}
	return zp, nil
}

// degreeVectors enumerates the exponent vectors over m variables whose
// total degree is exactly q.
func degreeVectors(m, q int) [][]int {
	var out [][]int
	cur := make([]int, m)
	var rec func(pos, rem int)
	rec = func(pos, rem int) {
		if pos == m-1 {
			cur[pos] = rem
			out = append(out, append([]int(nil), cur...))
			return
		}
		for d := rem; d >= 0; d-- {
			cur[pos] = d
			rec(pos+1, rem-d)
		}
	}
	rec(0, q)
	return out
}

func popVariance(x []float64) float64 {
	n := float64(len(x))
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= n
	s := 0.0
	for _, v := range x {
		d := v - mean
		s += d * d
	}
	return s / n
}

// TSLSResults holds the full output of a two-stage least squares run.
type TSLSResults struct {
	IVEstimates *mat.Dense    // second-stage coefficients
	R2FirstIV   []float64     // first-stage R^2, one per covariate
	R2Y         []float64     // R^2 of y on the instruments
	R2Second    []float64     // second-stage R^2
	YProj       *tensor.Array // projection of y on the instruments
	YCoeffs     *mat.Dense
	XIVProj     *tensor.Array // first-stage fitted covariates
	BProjIV     *mat.Dense
}

// TSLS runs two-stage least squares of y on the covariates x with
// instruments z: both stages are linear projections through ProjZ.
func TSLS(y, x, z *tensor.Array) (*TSLSResults, error) {
	first, err := ProjZ(x, z, 1)
	if err != nil {
		return nil, err
	}
	yStage, err := ProjZ(y, z, 1)
	if err != nil {
		return nil, err
	}
	final, err := ProjZ(yStage.Proj, first.Proj, 1)
	if err != nil {
		return nil, err
	}
	return &TSLSResults{
		IVEstimates: final.Coeffs,
		R2FirstIV:   first.R2,
		R2Y:         yStage.R2,
		R2Second:    final.R2,
		YProj:       yStage.Proj,
		YCoeffs:     yStage.Coeffs,
		XIVProj:     first.Proj,
		BProjIV:     first.Coeffs,
	}, nil
}
