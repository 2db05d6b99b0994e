package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/numkit/tensor"
)

func TestProjZExactLinear(t *testing.T) {
	n := 60
	zs := normalSample(n, 0, 1, 61)
	ws := make([]float64, n)
	for i, z := range zs {
		ws[i] = 2 + 3*z
	}
	res, err := ProjZ(tensor.FromSlice(ws), tensor.FromSlice(zs), 1)
	require.NoError(t, err)

	r, c := res.Coeffs.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 1, c)
	assert.InDelta(t, 2.0, res.Coeffs.At(0, 0), 1e-10)
	assert.InDelta(t, 3.0, res.Coeffs.At(1, 0), 1e-10)
	require.Len(t, res.R2, 1)
	assert.InDelta(t, 1.0, res.R2[0], 1e-10)
	for i := range ws {
		assert.InDelta(t, ws[i], res.Proj.At(i), 1e-9)
	}
}

func TestProjZExactQuadratic(t *testing.T) {
	n := 80
	zs := normalSample(n, 0, 1, 67)
	ws := make([]float64, n)
	for i, z := range zs {
		ws[i] = 1 - z + 0.5*z*z
	}
	res, err := ProjZ(tensor.FromSlice(ws), tensor.FromSlice(zs), 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.R2[0], 1e-10)
	for i := range ws {
		assert.InDelta(t, ws[i], res.Proj.At(i), 1e-9)
	}
}

func TestProjZMatrixInstruments(t *testing.T) {
	n := 100
	z1 := normalSample(n, 0, 1, 71)
	z2 := normalSample(n, 0, 1, 73)
	z := tensor.New(n, 2)
	ws := make([]float64, n)
	for i := 0; i < n; i++ {
		z.Set(z1[i], i, 0)
		z.Set(z2[i], i, 1)
		ws[i] = 1 + 2*z1[i] - z2[i]
	}
	res, err := ProjZ(tensor.FromSlice(ws), z, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.R2[0], 1e-10)
}

func TestProjZTermBudget(t *testing.T) {
	// 12 observations allow round(12/5) = 2 terms; degree 2 in two
	// variables needs 6
	n := 12
	z := tensor.New(n, 2)
	w := tensor.FromSlice(make([]float64, n))
	for i := 0; i < n; i++ {
		z.Set(float64(i), i, 0)
		z.Set(float64(i*i), i, 1)
	}
	_, err := ProjZ(w, z, 2)
	assert.Error(t, err)
}

func TestProjZValidates(t *testing.T) {
	w := tensor.FromSlice([]float64{1, 2, 3})
	z := tensor.FromSlice([]float64{1, 2})
	_, err := ProjZ(w, z, 1)
	assert.Error(t, err, "row mismatch")

	_, err = ProjZ(w, tensor.FromSlice([]float64{1, 2, 3}), 0)
	assert.Error(t, err, "degree zero")
}

func TestTSLSRecoversStructuralSlope(t *testing.T) {
	n := 2000
	zs := normalSample(n, 0, 1, 83)
	us := normalSample(n, 0, 0.5, 89) // endogenous disturbance
	es := normalSample(n, 0, 0.3, 97)

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = 0.8*zs[i] + us[i]
		// the error term shares us with x, so OLS is biased
		ys[i] = 1.0 + 1.5*xs[i] + us[i] + es[i]
	}

	res, err := TSLS(tensor.FromSlice(ys), tensor.FromSlice(xs), tensor.FromSlice(zs))
	require.NoError(t, err)

	r, c := res.IVEstimates.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 1, c)
	assert.InDelta(t, 1.5, res.IVEstimates.At(1, 0), 0.15)

	require.Len(t, res.R2FirstIV, 1)
	assert.Greater(t, res.R2FirstIV[0], 0.3, "instrument must have power")
	assert.InDelta(t, 1.0, res.R2Second[0], 1e-8)

	if assert.NotNil(t, res.YProj) {
		assert.Equal(t, []int{n}, res.YProj.Shape())
	}
	if assert.NotNil(t, res.XIVProj) {
		assert.Equal(t, []int{n}, res.XIVProj.Shape())
	}
}
