package quad

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/numkit/pkg/errors"
)

// DefaultNodes is the Hermite node count used by the expectation
// evaluators when the caller supplies neither a count nor a rule.
const DefaultNodes = 16

type expOptions struct {
	n    int
	rule *Rule
}

// ExpectationOption configures the Gaussian-expectation evaluators.
type ExpectationOption func(*expOptions)

// WithNodes sets the number of fresh Gauss-Hermite nodes to generate.
func WithNodes(n int) ExpectationOption {
	return func(o *expOptions) { o.n = n }
}

// WithRule supplies a precomputed Gauss-Hermite rule, bypassing node
// generation. Nodes and weights must have equal length and be finite.
func WithRule(r *Rule) ExpectationOption {
	return func(o *expOptions) { o.rule = r }
}

// gaussianRule returns the Hermite rule rescaled for E[f(Z)], Z ~ N(0,1):
// nodes times sqrt(2), weights divided by sqrt(pi).
func gaussianRule(opts []ExpectationOption) (*Rule, error) {
	o := &expOptions{n: DefaultNodes}
	for _, opt := range opts {
		opt(o)
	}

	base := o.rule
	if base == nil {
		var err error
		base, err = GaussHermite(o.n)
		if err != nil {
			return nil, err
		}
	} else if err := base.validate("Expectation"); err != nil {
		return nil, err
	}

	n := base.Len()
	scaled := &Rule{Nodes: make([]float64, n), Weights: make([]float64, n)}
	sqrt2 := math.Sqrt2
	invSqrtPi := 1.0 / math.Sqrt(math.Pi)
	for i := 0; i < n; i++ {
		scaled.Nodes[i] = base.Nodes[i] * sqrt2
		scaled.Weights[i] = base.Weights[i] * invSqrtPi
	}
	return scaled, nil
}

// Expectation computes E[f(Z)] for Z ~ N(0,1) with Gauss-Hermite
// quadrature, 16 nodes by default. Extra parameters of f are closure
// captures.
func Expectation(f func(float64) float64, opts ...ExpectationOption) (float64, error) {
	rule, err := gaussianRule(opts)
	if err != nil {
		return 0, err
	}
	val := 0.0
	for i, x := range rule.Nodes {
		val += rule.Weights[i] * f(x)
	}
	return val, nil
}

// ExpectationSlice computes E[f(Z)] for a slice-valued integrand. Every
// call of f must return a slice of the same length; the accumulated sum
// has that length.
func ExpectationSlice(f func(float64) []float64, opts ...ExpectationOption) ([]float64, error) {
	rule, err := gaussianRule(opts)
	if err != nil {
		return nil, err
	}

	// seed with the first node so the output takes f's length
	first := f(rule.Nodes[0])
	out := make([]float64, len(first))
	floats.AddScaled(out, rule.Weights[0], first)
	for i := 1; i < rule.Len(); i++ {
		fi := f(rule.Nodes[i])
		if len(fi) != len(out) {
			return nil, errors.NewDimensionError("ExpectationSlice", "integrand values", len(out), len(fi))
		}
		floats.AddScaled(out, rule.Weights[i], fi)
	}
	return out, nil
}

// ExpectationVectorized computes E[f(Z)] for an integrand that evaluates
// all nodes in one call, returning one value per node.
func ExpectationVectorized(f func(nodes []float64) []float64, opts ...ExpectationOption) (float64, error) {
	rule, err := gaussianRule(opts)
	if err != nil {
		return 0, err
	}
	vals := f(rule.Nodes)
	if len(vals) != rule.Len() {
		return 0, errors.NewDimensionError("ExpectationVectorized", "integrand values", rule.Len(), len(vals))
	}
	return floats.Dot(vals, rule.Weights), nil
}
