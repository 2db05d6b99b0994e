package dcov

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/numkit/core/parallel"
	"github.com/YuminosukeSato/numkit/pkg/errors"
	"github.com/YuminosukeSato/numkit/pkg/log"
)

func errValidDraws(n int) error {
	return errors.NewValidationError("ndraws", "must be at least 1", n)
}

// DefaultDraws is the bootstrap draw count used when the caller does not
// override it.
const DefaultDraws = 199

// Draw evaluation fans out across CPUs above this many draws.
const parallelThreshold = 32

type bootOptions struct {
	ndraws int
	rng    *rand.Rand
}

// BootstrapOption configures the bootstrap p-value computations.
type BootstrapOption func(*bootOptions)

// WithDraws sets the number of bootstrap draws.
func WithDraws(n int) BootstrapOption {
	return func(o *bootOptions) { o.ndraws = n }
}

// WithRand threads an explicit generator through the bootstrap, making
// the p-value a pure function of the inputs and the seed. Without it a
// time-seeded generator is used.
func WithRand(r *rand.Rand) BootstrapOption {
	return func(o *bootOptions) { o.rng = r }
}

func newBootOptions(opts []BootstrapOption) *bootOptions {
	o := &bootOptions{ndraws: DefaultDraws}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		now := uint64(time.Now().UnixNano())
		o.rng = rand.New(rand.NewPCG(now, now^0x9E3779B97F4A7C15))
	}
	return o
}

// drawIndices resamples n row/column indices with replacement for each
// draw. The draws come from a single generator, sequentially, so the set
// of resamples is reproducible given the seed even though their
// evaluation is parallel.
func drawIndices(n int, o *bootOptions, op string) [][]int {
	l := log.Logger()
	idx := make([][]int, o.ndraws)
	for d := range idx {
		if d%50 == 0 {
			l.Info().Str("op", op).Int("draw", d).Msg("bootstrap draw")
		}
		draws := make([]int, n)
		for i := range draws {
			draws[i] = o.rng.IntN(n)
		}
		idx[d] = draws
	}
	return idx
}

// resample returns the matrix a[idx, :][:, idx].
func resample(a *mat.Dense, idx []int) *mat.Dense {
	n := len(idx)
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, a.At(idx[i], idx[j]))
		}
	}
	return out
}

// dcovBootstrap recomputes the independence test statistic on resampled
// doubly-centered matrices.
func dcovBootstrap(xdd, ydd *mat.Dense, unbiased bool, o *bootOptions) []float64 {
	n, _ := xdd.Dims()
	idx := drawIndices(n, o, "dcov")

	stats := make([]float64, o.ndraws)
	parallel.ForThreshold(o.ndraws, parallelThreshold, func(start, end int) {
		for d := start; d < end; d++ {
			xi := resample(xdd, idx[d])
			yi := resample(ydd, idx[d])
			stats[d] = float64(n) * rawProduct(xi, yi, unbiased)
		}
	})
	return stats
}

// PValueDCov is the nonparametric bootstrap test of independence between
// the two samples behind res: the fraction of resampled statistics
// exceeding the observed one, with Laplace smoothing in numerator and
// denominator.
func PValueDCov(res *Results, opts ...BootstrapOption) (float64, error) {
	o := newBootOptions(opts)
	if o.ndraws < 1 {
		return 0, errValidDraws(o.ndraws)
	}
	n, _ := res.XDD.Dims()
	for _, dd := range []*mat.Dense{res.XDD, res.YDD} {
		if err := errors.CheckMatrix("PValueDCov", dd, n, n); err != nil {
			return 0, err
		}
	}
	stats := dcovBootstrap(res.XDD, res.YDD, res.Unbiased, o)

	exceed := 0
	for _, s := range stats {
		if res.DCovStat < s {
			exceed++
		}
	}
	return (1.0 + float64(exceed)) / (1.0 + float64(o.ndraws)), nil
}

// pdcovBootstrap recomputes the partial statistic on resampled matrices.
func pdcovBootstrap(xdd, ydd, zdd *mat.Dense, o *bootOptions) []float64 {
	const unbiased = true
	n, _ := xdd.Dims()
	idx := drawIndices(n, o, "pdcov")

	stats := make([]float64, o.ndraws)
	parallel.ForThreshold(o.ndraws, parallelThreshold, func(start, end int) {
		for d := start; d < end; d++ {
			xi := resample(xdd, idx[d])
			yi := resample(ydd, idx[d])
			zi := resample(zdd, idx[d])
			cXY := rawProduct(xi, yi, unbiased)
			cXZ := rawProduct(xi, zi, unbiased)
			cYZ := rawProduct(yi, zi, unbiased)
			cZZ := rawProduct(zi, zi, unbiased)
			stats[d] = float64(n) * (cXY - cXZ*cYZ/cZZ)
		}
	})
	return stats
}

// PValuePDCov is the bootstrap test of no dependence between x and y
// given z, from the results of PDCovPDCor.
func PValuePDCov(res *PartialResults, opts ...BootstrapOption) (float64, error) {
	o := newBootOptions(opts)
	if o.ndraws < 1 {
		return 0, errValidDraws(o.ndraws)
	}
	n, _ := res.XDD.Dims()
	for _, dd := range []*mat.Dense{res.XDD, res.YDD, res.ZDD} {
		if err := errors.CheckMatrix("PValuePDCov", dd, n, n); err != nil {
			return 0, err
		}
	}
	stats := pdcovBootstrap(res.XDD, res.YDD, res.ZDD, o)

	exceed := 0
	for _, s := range stats {
		if res.PDCovStat < s {
			exceed++
		}
	}
	return (1.0 + float64(exceed)) / (1.0 + float64(o.ndraws)), nil
}
