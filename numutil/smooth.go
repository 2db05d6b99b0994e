// Package numutil contains element-wise numerical routines: twice
// continuously differentiable extensions of log, exp, pow and x*log(x)
// outside their safe domains, and assorted array helpers (padding,
// tiling, grids, positive-definite square roots, seedable RNG streams,
// bivariate polynomials).
//
// The smooth extensions replace the mathematically undefined or
// numerically unstable region of each function with a second-order
// Taylor branch anchored at the domain boundary, so that the value and
// first derivative are continuous there and the result never overflows.
package numutil

import (
	"math"

	"github.com/YuminosukeSato/numkit/pkg/errors"
	"github.com/YuminosukeSato/numkit/tensor"
)

// Result holds an element-wise evaluation and its optional derivatives.
// D1 and D2 are nil unless the corresponding derivative level was
// requested with WithDeriv. All arrays share the input's shape.
type Result struct {
	Val *tensor.Array
	D1  *tensor.Array
	D2  *tensor.Array
}

func newResult(shape []int, deriv int) *Result {
	res := &Result{Val: tensor.New(shape...)}
	if deriv >= 1 {
		res.D1 = tensor.New(shape...)
	}
	if deriv == 2 {
		res.D2 = tensor.New(shape...)
	}
	return res
}

func checkInput(a *tensor.Array, op string) error {
	if a == nil {
		return errors.NewValueError(op, "nil array")
	}
	if a.Len() == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	return nil
}

// Log computes ln(a) element-wise, extended below eps (default 1e-30) by
// the quadratic Taylor branch
//
//	ln(eps) - d*(1 + d/2),  d = 1 - a/eps,
//
// which matches ln and its first derivative at the boundary. With
// WithDeriv(1) the first derivative is filled in (1/a above eps,
// (1+d)/eps below), with WithDeriv(2) also the second.
func Log(a *tensor.Array, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	if err := o.checkDeriv("Log"); err != nil {
		return nil, err
	}
	if err := checkInput(a, "Log"); err != nil {
		return nil, err
	}

	eps := o.eps
	logEps := math.Log(eps)
	res := newResult(a.Shape(), o.deriv)

	nSmall := 0
	minArg := math.Inf(1)
	val, d1, d2 := res.Val.Data(), dataOrNil(res.D1), dataOrNil(res.D2)
	for i, x := range a.Data() {
		if x > eps {
			val[i] = math.Log(x)
			if d1 != nil {
				d1[i] = 1.0 / x
			}
			if d2 != nil {
				d2[i] = -1.0 / (x * x)
			}
			continue
		}
		if x < eps {
			nSmall++
			if x < minArg {
				minArg = x
			}
		}
		d := 1.0 - x/eps
		val[i] = logEps - d*(1.0+d/2.0)
		if d1 != nil {
			d1[i] = (1.0 + d) / eps
		}
		if d2 != nil {
			d2[i] = -1.0 / (eps * eps)
		}
	}
	if o.verbose && nSmall > 0 {
		errors.Warn(errors.NewDomainWarning("Log", nSmall, eps, minArg))
	}
	return res, nil
}

// Exp computes exp(a) element-wise, extended above bigx and below lowx
// (defaults 50 and -50) by the quadratic Taylor branches
//
//	exp(bigx) * (1 + d*(1 + d/2)),  d = a - bigx,
//	exp(lowx) * (1 - d*(1 - d/2)),  d = lowx - a,
//
// so the returned value never overflows or underflows. Derivative levels
// as in Log; outside the bounds the second derivative is the clamped
// exponential.
func Exp(a *tensor.Array, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	if err := o.checkDeriv("Exp"); err != nil {
		return nil, err
	}
	if err := checkInput(a, "Exp"); err != nil {
		return nil, err
	}

	bigX, lowX := o.bigX, o.lowX
	eBig := math.Exp(bigX)
	eLow := math.Exp(lowX)
	res := newResult(a.Shape(), o.deriv)

	nLarge, nSmall := 0, 0
	maxArg, minArg := math.Inf(-1), math.Inf(1)
	val, d1, d2 := res.Val.Data(), dataOrNil(res.D1), dataOrNil(res.D2)
	for i, x := range a.Data() {
		switch {
		case x > bigX:
			nLarge++
			if x > maxArg {
				maxArg = x
			}
			d := x - bigX
			val[i] = eBig * (1.0 + d*(1.0+0.5*d))
			if d1 != nil {
				d1[i] = eBig * (1.0 + d)
			}
			if d2 != nil {
				d2[i] = eBig
			}
		case x < lowX:
			nSmall++
			if x < minArg {
				minArg = x
			}
			d := lowX - x
			val[i] = eLow * (1.0 - d*(1.0-0.5*d))
			if d1 != nil {
				d1[i] = eLow * (1.0 - d)
			}
			if d2 != nil {
				d2[i] = eLow
			}
		default:
			e := math.Exp(x)
			val[i] = e
			if d1 != nil {
				d1[i] = e
			}
			if d2 != nil {
				d2[i] = e
			}
		}
	}
	if o.verbose {
		if nLarge > 0 {
			errors.Warn(errors.NewDomainWarning("Exp", nLarge, bigX, maxArg))
		}
		if nSmall > 0 {
			errors.Warn(errors.NewDomainWarning("Exp", nSmall, lowX, minArg))
		}
	}
	return res, nil
}

// XLogX computes a*ln(a) element-wise, extended below eps by
//
//	a * (a/eps + ln(eps) - 1),
//
// which matches the value eps*ln(eps) at the boundary. Derivative levels
// as in Log: 1+ln(a) above eps, ln(eps)+a/eps below; the second
// derivative is 1/max(a, eps).
func XLogX(a *tensor.Array, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	if err := o.checkDeriv("XLogX"); err != nil {
		return nil, err
	}
	if err := checkInput(a, "XLogX"); err != nil {
		return nil, err
	}

	eps := o.eps
	logEps := math.Log(eps)
	res := newResult(a.Shape(), o.deriv)

	nSmall := 0
	minArg := math.Inf(1)
	val, d1, d2 := res.Val.Data(), dataOrNil(res.D1), dataOrNil(res.D2)
	for i, x := range a.Data() {
		if x > eps {
			lx := math.Log(x)
			val[i] = x * lx
			if d1 != nil {
				d1[i] = 1.0 + lx
			}
			if d2 != nil {
				d2[i] = 1.0 / x
			}
			continue
		}
		if x < eps {
			nSmall++
			if x < minArg {
				minArg = x
			}
		}
		val[i] = x * (x/eps + logEps - 1.0)
		if d1 != nil {
			d1[i] = logEps + x/eps
		}
		if d2 != nil {
			d2[i] = 1.0 / eps
		}
	}
	if o.verbose && nSmall > 0 {
		errors.Warn(errors.NewDomainWarning("XLogX", nSmall, eps, minArg))
	}
	return res, nil
}

func dataOrNil(a *tensor.Array) []float64 {
	if a == nil {
		return nil
	}
	return a.Data()
}
