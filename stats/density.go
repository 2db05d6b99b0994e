package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/numkit/numutil"
	"github.com/YuminosukeSato/numkit/pkg/errors"
	"github.com/YuminosukeSato/numkit/tensor"
)

// NormalPDF evaluates the univariate normal density with the given mean
// and variance at each point.
func NormalPDF(points []float64, mean, variance float64) ([]float64, error) {
	if len(points) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "NormalPDF")
	}
	if variance <= 0 {
		return nil, errors.NewValueError("NormalPDF", "variance must be positive")
	}
	dist := distuv.Normal{Mu: mean, Sigma: math.Sqrt(variance)}
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = dist.Prob(p)
	}
	return out, nil
}

// MVNormalPDF evaluates the multivariate normal density at each row of
// points, an (n, nvars) array. mean must have nvars elements and cov must
// be (nvars, nvars) positive definite.
func MVNormalPDF(points *tensor.Array, mean []float64, cov mat.Symmetric) ([]float64, error) {
	n, nvars, err := tensor.CheckMatrix(points, "MVNormalPDF")
	if err != nil {
		return nil, err
	}
	if len(mean) != nvars {
		return nil, errors.NewDimensionError("MVNormalPDF", "size", nvars, len(mean))
	}
	if cov.SymmetricDim() != nvars {
		return nil, errors.NewDimensionError("MVNormalPDF", "rows", nvars, cov.SymmetricDim())
	}

	dist, ok := distmv.NewNormal(mean, cov, nil)
	if !ok {
		return nil, errors.Wrap(errors.ErrSingularMatrix, "MVNormalPDF: covariance not positive definite")
	}

	out := make([]float64, n)
	row := make([]float64, nvars)
	for i := 0; i < n; i++ {
		for j := 0; j < nvars; j++ {
			row[j] = points.At(i, j)
		}
		out[i] = dist.Prob(row)
	}
	return out, nil
}

// DefaultMinSizeNonpar is the base of the sample-size threshold above
// which EstimatePDF switches from a moment-matched normal to a kernel
// estimate.
const DefaultMinSizeNonpar = 200

type estimateOptions struct {
	minSizeNonpar int
	weights       []float64
}

// EstimateOption configures EstimatePDF.
type EstimateOption func(*estimateOptions)

// WithWeights supplies observation weights, one per row of the sample.
func WithWeights(w []float64) EstimateOption {
	return func(o *estimateOptions) { o.weights = w }
}

// WithMinSizeNonpar overrides the nonparametric-threshold base.
func WithMinSizeNonpar(n int) EstimateOption {
	return func(o *estimateOptions) { o.minSizeNonpar = n }
}

// EstimatePDF estimates the density of the sample xObs at the points
// xPoints. Above the size threshold minSize^((4+d)/5) a Gaussian kernel
// estimate with the Silverman bandwidth rule is used; below it a normal
// distribution is fitted by moments. Both arguments are an n-vector or an
// (n, nvars) matrix; with a matrix sample, a vector of points is read as
// a single nvars-dimensional point.
func EstimatePDF(xObs, xPoints *tensor.Array, opts ...EstimateOption) ([]float64, error) {
	o := &estimateOptions{minSizeNonpar: DefaultMinSizeNonpar}
	for _, opt := range opts {
		opt(o)
	}

	ndimsX, err := tensor.CheckVectorOrMatrix(xObs, "EstimatePDF")
	if err != nil {
		return nil, err
	}
	ndimsVal, err := tensor.CheckVectorOrMatrix(xPoints, "EstimatePDF")
	if err != nil {
		return nil, err
	}

	var nObs, nvars int
	var obs, points *mat.Dense
	if ndimsX == 1 {
		if ndimsVal != 1 {
			return nil, errors.NewDimensionError("EstimatePDF", "dimensions", 1, ndimsVal)
		}
		nObs, nvars = xObs.Len(), 1
		obs = mat.NewDense(nObs, 1, xObs.Data())
		points = mat.NewDense(xPoints.Len(), 1, xPoints.Data())
	} else {
		shape := xObs.Shape()
		nObs, nvars = shape[0], shape[1]
		if ndimsVal == 1 {
			// a single point with nvars coordinates
			if xPoints.Len() != nvars {
				return nil, errors.NewDimensionError("EstimatePDF", "size", nvars, xPoints.Len())
			}
			points = mat.NewDense(1, nvars, xPoints.Data())
		} else {
			if nv := xPoints.Shape()[1]; nv != nvars {
				return nil, errors.NewDimensionError("EstimatePDF", "columns", nvars, nv)
			}
			points = mat.NewDense(xPoints.Shape()[0], nvars, xPoints.Data())
		}
		obs = mat.NewDense(nObs, nvars, xObs.Data())
	}

	if o.weights != nil && len(o.weights) != nObs {
		return nil, errors.NewDimensionError("EstimatePDF", "size", nObs, len(o.weights))
	}

	minSizeNP := math.Pow(float64(o.minSizeNonpar), (4.0+float64(nvars))/5.0)
	if float64(nObs) > minSizeNP {
		return kdePDF(obs, points, o.weights)
	}
	return normalFitPDF(obs, points, o.weights)
}

// kdePDF is the Gaussian product kernel estimate with Silverman's rule:
// the kernel covariance is the (weighted) sample covariance scaled by
// (neff*(d+2)/4)^(-2/(d+4)).
func kdePDF(obs, points *mat.Dense, weights []float64) ([]float64, error) {
	nObs, nvars := obs.Dims()
	nPts, _ := points.Dims()

	neff := float64(nObs)
	wNorm := make([]float64, nObs)
	if weights == nil {
		for i := range wNorm {
			wNorm[i] = 1.0 / float64(nObs)
		}
	} else {
		var sw, sw2 float64
		for _, w := range weights {
			sw += w
			sw2 += w * w
		}
		if sw <= 0 {
			return nil, errors.NewValueError("EstimatePDF", "weights must have a positive sum")
		}
		neff = sw * sw / sw2
		for i, w := range weights {
			wNorm[i] = w / sw
		}
	}

	factor := math.Pow(neff*(float64(nvars)+2.0)/4.0, -1.0/(float64(nvars)+4.0))

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, obs, weights)
	cov.ScaleSym(factor*factor, &cov)

	kernel, ok := distmv.NewNormal(make([]float64, nvars), &cov, nil)
	if !ok {
		return nil, errors.Wrap(errors.ErrSingularMatrix, "EstimatePDF: kernel covariance not positive definite")
	}

	out := make([]float64, nPts)
	diff := make([]float64, nvars)
	for p := 0; p < nPts; p++ {
		s := 0.0
		for i := 0; i < nObs; i++ {
			for j := 0; j < nvars; j++ {
				diff[j] = points.At(p, j) - obs.At(i, j)
			}
			s += wNorm[i] * kernel.Prob(diff)
		}
		out[p] = s
	}
	return out, nil
}

// normalFitPDF fits a normal by (weighted) moments and evaluates it.
func normalFitPDF(obs, points *mat.Dense, weights []float64) ([]float64, error) {
	nObs, nvars := obs.Dims()
	nPts, _ := points.Dims()

	if nvars == 1 {
		col := make([]float64, nObs)
		mat.Col(col, 0, obs)
		mean := stat.Mean(col, weights)
		variance := stat.Variance(col, weights)
		pts := make([]float64, nPts)
		mat.Col(pts, 0, points)
		return NormalPDF(pts, mean, variance)
	}

	means := make([]float64, nvars)
	col := make([]float64, nObs)
	for j := 0; j < nvars; j++ {
		mat.Col(col, j, obs)
		means[j] = stat.Mean(col, weights)
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, obs, weights)
	return MVNormalPDF(tensor.FromMatrix(points), means, &cov)
}

// QuantileDensities holds the output of DensitiesAtQuantiles: the margin
// densities, the joint density, and the points both were evaluated at.
// For a vector sample all three reduce to the quantile points and the
// density values there.
type QuantileDensities struct {
	Margins *tensor.Array
	Joint   []float64
	Points  *tensor.Array
}

// DensitiesAtQuantiles estimates the density of each margin of X at the
// given quantiles, and the joint density on the lexicographic grid of
// those quantile points.
func DensitiesAtQuantiles(x *tensor.Array, qtiles []float64) (*QuantileDensities, error) {
	ndims, err := tensor.CheckVectorOrMatrix(x, "DensitiesAtQuantiles")
	if err != nil {
		return nil, err
	}

	if ndims == 1 {
		pts, err := quantilePoints(x.Data(), qtiles)
		if err != nil {
			return nil, err
		}
		ptsArr := tensor.FromSlice(pts)
		f, err := EstimatePDF(x, ptsArr)
		if err != nil {
			return nil, err
		}
		return &QuantileDensities{
			Margins: tensor.FromSlice(f),
			Joint:   f,
			Points:  ptsArr,
		}, nil
	}

	shape := x.Shape()
	nObs, nx := shape[0], shape[1]
	nq := len(qtiles)

	fMargins := tensor.New(nq, nx)
	nodes := tensor.New(nq, nx)
	col := make([]float64, nObs)
	for ix := 0; ix < nx; ix++ {
		for i := 0; i < nObs; i++ {
			col[i] = x.At(i, ix)
		}
		pts, err := quantilePoints(col, qtiles)
		if err != nil {
			return nil, err
		}
		f, err := EstimatePDF(tensor.FromSlice(col), tensor.FromSlice(pts))
		if err != nil {
			return nil, err
		}
		for iq := 0; iq < nq; iq++ {
			nodes.Set(pts[iq], iq, ix)
			fMargins.Set(f[iq], iq, ix)
		}
	}

	margins, err := numutil.LexicoGrid(fMargins)
	if err != nil {
		return nil, err
	}
	values, err := numutil.LexicoGrid(nodes)
	if err != nil {
		return nil, err
	}
	joint, err := EstimatePDF(x, values)
	if err != nil {
		return nil, err
	}
	return &QuantileDensities{Margins: margins, Joint: joint, Points: values}, nil
}

func quantilePoints(x, qtiles []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "DensitiesAtQuantiles")
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	out := make([]float64, len(qtiles))
	for i, q := range qtiles {
		if q < 0 || q > 1 {
			return nil, errors.NewValidationError("qtiles", "quantiles must lie in [0, 1]", q)
		}
		out[i] = stat.Quantile(q, stat.LinInterp, sorted, nil)
	}
	return out, nil
}
