package numutil

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Polynomial is a univariate polynomial stored as its coefficient slice,
// coef[i] multiplying x^i.
type Polynomial struct {
	coef []float64
}

// NewPolynomial returns the polynomial with the given coefficients in
// increasing degree order. A nil or empty argument is the zero polynomial.
func NewPolynomial(coef ...float64) Polynomial {
	if len(coef) == 0 {
		coef = []float64{0}
	}
	return Polynomial{coef: append([]float64(nil), coef...)}
}

// Coef returns a copy of the coefficient slice.
func (p Polynomial) Coef() []float64 { return append([]float64(nil), p.coef...) }

// Degree returns the length of the coefficient slice minus one.
func (p Polynomial) Degree() int { return len(p.coef) - 1 }

// Add returns p + q.
func (p Polynomial) Add(q Polynomial) Polynomial {
	n := len(p.coef)
	if len(q.coef) > n {
		n = len(q.coef)
	}
	out := make([]float64, n)
	copy(out, PadEndZeros(p.coef, n))
	for i, c := range q.coef {
		out[i] += c
	}
	return Polynomial{coef: out}
}

// Mul returns p * q.
func (p Polynomial) Mul(q Polynomial) Polynomial {
	out := make([]float64, len(p.coef)+len(q.coef)-1)
	for i, a := range p.coef {
		for j, b := range q.coef {
			out[i+j] += a * b
		}
	}
	return Polynomial{coef: out}
}

// Scale returns c * p.
func (p Polynomial) Scale(c float64) Polynomial {
	out := make([]float64, len(p.coef))
	for i, a := range p.coef {
		out[i] = c * a
	}
	return Polynomial{coef: out}
}

// Eval evaluates p at x by Horner's rule.
func (p Polynomial) Eval(x float64) float64 {
	v := 0.0
	for i := len(p.coef) - 1; i >= 0; i-- {
		v = v*x + p.coef[i]
	}
	return v
}

// BivariatePolynomial is a polynomial in two variables stored as a
// (deg1+1, deg2+1) coefficient matrix: entry (k, l) multiplies x1^k x2^l.
// It is kept as a list of row polynomials in x2 for evaluation and
// multiplication.
type BivariatePolynomial struct {
	deg1, deg2 int
	coef       *mat.Dense
	rows       []Polynomial // rows[k] is the x2-polynomial multiplying x1^k
}

// NewBivariate builds a BivariatePolynomial from its coefficient matrix.
func NewBivariate(coeffs *mat.Dense) *BivariatePolynomial {
	r, c := coeffs.Dims()
	bp := &BivariatePolynomial{
		deg1: r - 1,
		deg2: c - 1,
		coef: mat.DenseCopyOf(coeffs),
		rows: make([]Polynomial, r),
	}
	for k := 0; k < r; k++ {
		bp.rows[k] = NewPolynomial(bp.coef.RawRowView(k)...)
	}
	return bp
}

// Degrees returns the degrees in the first and second variable.
func (bp *BivariatePolynomial) Degrees() (int, int) { return bp.deg1, bp.deg2 }

// Coef returns a copy of the coefficient matrix.
func (bp *BivariatePolynomial) Coef() *mat.Dense { return mat.DenseCopyOf(bp.coef) }

func (bp *BivariatePolynomial) String() string {
	return fmt.Sprintf("BivariatePolynomial(%d, %d)", bp.deg1, bp.deg2)
}

// AddConst returns bp + c.
func (bp *BivariatePolynomial) AddConst(c float64) *BivariatePolynomial {
	out := mat.DenseCopyOf(bp.coef)
	out.Set(0, 0, out.At(0, 0)+c)
	return NewBivariate(out)
}

// Add returns bp + other, padding coefficient matrices as needed.
func (bp *BivariatePolynomial) Add(other *BivariatePolynomial) *BivariatePolynomial {
	maxD1 := bp.deg1
	if other.deg1 > maxD1 {
		maxD1 = other.deg1
	}
	maxD2 := bp.deg2
	if other.deg2 > maxD2 {
		maxD2 = other.deg2
	}
	a := Pad2EndZeros(bp.coef, maxD1+1, maxD2+1)
	b := Pad2EndZeros(other.coef, maxD1+1, maxD2+1)
	a.Add(a, b)
	return NewBivariate(a)
}

// Sub returns bp - other.
func (bp *BivariatePolynomial) Sub(other *BivariatePolynomial) *BivariatePolynomial {
	maxD1 := bp.deg1
	if other.deg1 > maxD1 {
		maxD1 = other.deg1
	}
	maxD2 := bp.deg2
	if other.deg2 > maxD2 {
		maxD2 = other.deg2
	}
	a := Pad2EndZeros(bp.coef, maxD1+1, maxD2+1)
	b := Pad2EndZeros(other.coef, maxD1+1, maxD2+1)
	a.Sub(a, b)
	return NewBivariate(a)
}

// MulConst returns c * bp.
func (bp *BivariatePolynomial) MulConst(c float64) *BivariatePolynomial {
	out := mat.DenseCopyOf(bp.coef)
	out.Scale(c, out)
	return NewBivariate(out)
}

// Mul returns bp * other. Row m of the product collects the convolution
// of the x2-row-polynomials whose x1 degrees sum to m.
func (bp *BivariatePolynomial) Mul(other *BivariatePolynomial) *BivariatePolynomial {
	degMul1 := bp.deg1 + other.deg1
	degMul2 := bp.deg2 + other.deg2
	out := mat.NewDense(degMul1+1, degMul2+1, nil)
	for m := 0; m <= degMul1; m++ {
		minI := 0
		if m-other.deg1 > 0 {
			minI = m - other.deg1
		}
		maxI := m
		if bp.deg1 < maxI {
			maxI = bp.deg1
		}
		pm := NewPolynomial(0)
		for i := minI; i <= maxI; i++ {
			pm = pm.Add(bp.rows[i].Mul(other.rows[m-i]))
		}
		for l, c := range pm.coef {
			out.Set(m, l, out.At(m, l)+c)
		}
	}
	return NewBivariate(out)
}

// Eval evaluates bp at (x1, x2).
func (bp *BivariatePolynomial) Eval(x1, x2 float64) float64 {
	x1Fac := 1.0
	val := 0.0
	for _, p := range bp.rows {
		val += p.Eval(x2) * x1Fac
		x1Fac *= x1
	}
	return val
}

// OuterBivar builds the bivariate polynomial p1(x1) * p2(x2) as the outer
// product of their coefficients.
func OuterBivar(p1, p2 Polynomial) *BivariatePolynomial {
	c1, c2 := p1.coef, p2.coef
	out := mat.NewDense(len(c1), len(c2), nil)
	for i, a := range c1 {
		for j, b := range c2 {
			out.Set(i, j, a*b)
		}
	}
	return NewBivariate(out)
}
