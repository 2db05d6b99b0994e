package numutil

import (
	"math"

	"github.com/YuminosukeSato/numkit/pkg/errors"
	"github.com/YuminosukeSato/numkit/tensor"
)

// Exponent is the exponent of Pow: either a scalar applied to every
// element of the base, or an element-wise array of the same shape.
// The variant is resolved once at the API boundary.
type Exponent struct {
	scalar float64
	arr    *tensor.Array
}

// Scalar returns an Exponent raising every base element to b. The base
// must then be strictly positive everywhere.
func Scalar(b float64) Exponent { return Exponent{scalar: b} }

// Elementwise returns an Exponent raising each base element to the
// matching element of b, which must have the base's shape.
func Elementwise(b *tensor.Array) Exponent { return Exponent{arr: b} }

// PowResult holds a**b and its optional partial derivatives. DA and DB
// are the first partials with respect to the base and the exponent; DAA,
// DAB and DBB the second partials. Fields beyond the requested derivative
// level are nil.
type PowResult struct {
	Val *tensor.Array
	DA  *tensor.Array
	DB  *tensor.Array
	DAA *tensor.Array
	DAB *tensor.Array
	DBB *tensor.Array
}

// Pow evaluates a**b element-wise, with optional first and second partial
// derivatives in both arguments (WithDeriv). With a scalar exponent every
// element of a must be strictly positive. With an element-wise exponent
// ln(a) is taken through the smooth Log extension, so nonpositive bases
// fall into its Taylor branch instead of failing.
func Pow(a *tensor.Array, b Exponent, opts ...Option) (*PowResult, error) {
	o := newOptions(opts)
	if err := o.checkDeriv("Pow"); err != nil {
		return nil, err
	}
	if err := checkInput(a, "Pow"); err != nil {
		return nil, err
	}
	if b.arr != nil {
		return powElementwise(a, b.arr, o)
	}
	return powScalar(a, b.scalar, o)
}

func newPowResult(shape []int, deriv int) *PowResult {
	res := &PowResult{Val: tensor.New(shape...)}
	if deriv >= 1 {
		res.DA = tensor.New(shape...)
		res.DB = tensor.New(shape...)
	}
	if deriv == 2 {
		res.DAA = tensor.New(shape...)
		res.DAB = tensor.New(shape...)
		res.DBB = tensor.New(shape...)
	}
	return res
}

func powScalar(a *tensor.Array, b float64, o *options) (*PowResult, error) {
	for _, x := range a.Data() {
		if x <= 0.0 {
			return nil, errors.NewValueError("Pow", "all elements of the base must be positive with a scalar exponent")
		}
	}

	res := newPowResult(a.Shape(), o.deriv)
	val := res.Val.Data()
	da, db := dataOrNil(res.DA), dataOrNil(res.DB)
	daa, dab, dbb := dataOrNil(res.DAA), dataOrNil(res.DAB), dataOrNil(res.DBB)

	for i, x := range a.Data() {
		apb := math.Pow(x, b)
		val[i] = apb
		if o.deriv == 0 {
			continue
		}
		logX := math.Log(x)
		da[i] = b * apb / x
		db[i] = apb * logX
		if o.deriv == 2 {
			apb1 := apb / x
			daa[i] = b * (b - 1.0) * apb1 / x
			dab[i] = apb1 * (1.0 + b*logX)
			dbb[i] = apb * logX * logX
		}
	}
	return res, nil
}

func powElementwise(a, b *tensor.Array, o *options) (*PowResult, error) {
	if err := tensor.CheckSameShape(a, b, "Pow"); err != nil {
		return nil, err
	}

	res := newPowResult(a.Shape(), o.deriv)
	val := res.Val.Data()
	bv := b.Data()
	for i, x := range a.Data() {
		val[i] = math.Pow(x, bv[i])
	}
	if o.deriv == 0 {
		return res, nil
	}

	logA, err := Log(a, WithEps(o.eps))
	if err != nil {
		return nil, err
	}
	la := logA.Val.Data()
	da, db := res.DA.Data(), res.DB.Data()
	for i, x := range a.Data() {
		da[i] = val[i] * bv[i] / x
		db[i] = val[i] * la[i]
	}
	if o.deriv == 2 {
		daa, dab, dbb := res.DAA.Data(), res.DAB.Data(), res.DBB.Data()
		for i, x := range a.Data() {
			apb1 := val[i] / x
			daa[i] = bv[i] * (bv[i] - 1.0) * apb1 / x
			dab[i] = apb1 * (1.0 + bv[i]*la[i])
			dbb[i] = val[i] * la[i] * la[i]
		}
	}
	return res, nil
}
