// Package quad provides Gauss-Hermite and Gauss-Legendre quadrature rules
// and a Gaussian-expectation evaluator built on the Hermite rule.
//
// Nodes are found by Newton iteration on the three-term recurrence of the
// orthogonal polynomial, starting from asymptotic approximations. Both
// rules are symmetric: only the first half of the roots is computed, the
// rest is mirrored with a sign flip and equal weights.
package quad

import (
	"math"

	"github.com/YuminosukeSato/numkit/pkg/errors"
)

// Rule is a quadrature rule: two equal-length sequences of nodes and
// weights. For both generators in this package the nodes are ascending
// and antisymmetric about zero and the weights symmetric.
type Rule struct {
	Nodes   []float64
	Weights []float64
}

// Len returns the number of nodes.
func (r *Rule) Len() int { return len(r.Nodes) }

func (r *Rule) validate(op string) error {
	if r == nil || len(r.Nodes) == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	if len(r.Weights) != len(r.Nodes) {
		return errors.NewDimensionError(op, "weights", len(r.Nodes), len(r.Weights))
	}
	if err := errors.CheckValues(op, r.Nodes); err != nil {
		return err
	}
	return errors.CheckValues(op, r.Weights)
}

const (
	hermiteTol   = 1.0e-14
	hermiteMaxIt = 10
	// 1 / pi^(1/4), the seed of the normalized Hermite recurrence
	pim4 = 0.7511255444649425

	legendreTol = 3e-11
)

// GaussHermite returns the n-point rule for integrals weighted by
// exp(-x^2) on the real line. It fails with a ConvergenceError if a
// Newton root search has not settled within 10 iterations.
func GaussHermite(n int) (*Rule, error) {
	if n < 1 {
		return nil, errors.NewValidationError("n", "must be at least 1", n)
	}

	x := make([]float64, n)
	w := make([]float64, n)
	m := (n + 1) / 2

	var z float64
	for i := 0; i < m; i++ {
		// asymptotic first guesses for the largest roots, then step down
		switch i {
		case 0:
			n2 := 2.0*float64(n) + 1.0
			z = math.Sqrt(n2) - 1.85575*math.Pow(n2, -0.16667)
		case 1:
			z -= 1.14 * math.Pow(float64(n), 0.426) / z
		case 2:
			z = 1.86*z - 0.86*x[0]
		case 3:
			z = 1.91*z - 0.91*x[1]
		default:
			z = 2.0*z - x[i-2]
		}

		var pp float64
		converged := false
		for its := 0; its < hermiteMaxIt; its++ {
			p1 := pim4
			p2 := 0.0
			for j := 0; j < n; j++ {
				p3 := p2
				p2 = p1
				p1 = z*math.Sqrt(2.0/float64(j+1))*p2 - math.Sqrt(float64(j)/float64(j+1))*p3
			}
			pp = math.Sqrt(2.0*float64(n)) * p2
			z1 := z
			z = z1 - p1/pp
			if math.Abs(z-z1) <= hermiteTol {
				converged = true
				break
			}
		}
		if !converged {
			return nil, errors.NewConvergenceError("GaussHermite", hermiteMaxIt, "Newton root search did not converge")
		}

		x[i] = z
		x[n-1-i] = -z
		w[i] = 2.0 / (pp * pp)
		w[n-1-i] = w[i]
	}

	// the first half holds the positive roots in decreasing order;
	// reverse so the nodes ascend (the weights are symmetric)
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
	return &Rule{Nodes: x, Weights: w}, nil
}

// GaussLegendre returns the n-point rule for integrals with unit weight
// on [-1, 1].
func GaussLegendre(n int) (*Rule, error) {
	if n < 1 {
		return nil, errors.NewValidationError("n", "must be at least 1", n)
	}

	x := make([]float64, n)
	w := make([]float64, n)
	m := (n + 1) / 2

	for i := 1; i <= m; i++ {
		z := math.Cos(math.Pi * (float64(i) - 0.25) / (float64(n) + 0.5))
		z1 := math.Inf(1)
		var pp float64
		for math.Abs(z-z1) > legendreTol {
			p1 := 1.0
			p2 := 0.0
			for j := 1; j <= n; j++ {
				p3 := p2
				p2 = p1
				p1 = ((2.0*float64(j)-1.0)*z*p2 - (float64(j)-1.0)*p3) / float64(j)
			}
			pp = float64(n) * (z*p1 - p2) / (z*z - 1.0)
			z1 = z
			z = z1 - p1/pp
		}
		x[i-1] = -z
		x[n-i] = z
		w[i-1] = 2.0 / ((1.0 - z*z) * pp * pp)
		w[n-i] = w[i-1]
	}

	return &Rule{Nodes: x, Weights: w}, nil
}
