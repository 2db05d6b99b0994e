package dcov

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/numkit/tensor"
)

func standardNormals(n int, seed uint64) []float64 {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, seed+1)}
	out := make([]float64, n)
	for i := range out {
		out[i] = norm.Rand()
	}
	return out
}

func TestDistancesVector(t *testing.T) {
	d, err := Distances(tensor.FromSlice([]float64{0, 3, 1}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, d.At(0, 0))
	assert.Equal(t, 3.0, d.At(0, 1))
	assert.Equal(t, 1.0, d.At(0, 2))
	assert.Equal(t, 2.0, d.At(1, 2))
	assert.Equal(t, d.At(2, 1), d.At(1, 2))
}

func TestDistancesMatrix(t *testing.T) {
	// two observations of a 2-vector: (0,0) and (3,4)
	a := tensor.NewWithData([]int{2, 2}, []float64{0, 0, 3, 4})
	d, err := Distances(a)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d.At(0, 1), 1e-14)
	assert.InDelta(t, 5.0, d.At(1, 0), 1e-14)
}

func TestDistancesRejectsTensor(t *testing.T) {
	_, err := Distances(tensor.New(2, 2, 2))
	assert.Error(t, err)
}

func TestDoubleCenterBiasedMeansVanish(t *testing.T) {
	x := tensor.FromSlice(standardNormals(20, 7))
	d, err := Distances(x)
	require.NoError(t, err)
	c, err := DoubleCenter(d, false)
	require.NoError(t, err)

	n, _ := c.Dims()
	for i := 0; i < n; i++ {
		rowSum, colSum := 0.0, 0.0
		for j := 0; j < n; j++ {
			rowSum += c.At(i, j)
			colSum += c.At(j, i)
		}
		assert.InDelta(t, 0.0, rowSum, 1e-10, "row %d", i)
		assert.InDelta(t, 0.0, colSum, 1e-10, "column %d", i)
	}
}

func TestDoubleCenterUnbiasedZeroDiagonal(t *testing.T) {
	x := tensor.FromSlice(standardNormals(15, 11))
	d, err := Distances(x)
	require.NoError(t, err)
	c, err := DoubleCenter(d, true)
	require.NoError(t, err)
	n, _ := c.Dims()
	for i := 0; i < n; i++ {
		assert.Equal(t, 0.0, c.At(i, i))
	}
}

func TestDCorPerfectDependence(t *testing.T) {
	x := tensor.FromSlice(standardNormals(200, 3))
	res, err := DCovDCor(x, x, false)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.DCor, 1e-10)
	assert.Greater(t, res.DCov, 0.0)
	assert.InDelta(t, res.DCov*200, res.DCovStat, 1e-10)
}

func TestDCorIndependentSamplesNearZero(t *testing.T) {
	n := 500
	x := tensor.FromSlice(standardNormals(n, 21))
	y := tensor.FromSlice(standardNormals(n, 22))
	res, err := DCovDCor(x, y, true)
	require.NoError(t, err)
	// the unbiased estimator is centered at zero under independence
	assert.InDelta(t, 0.0, res.DCor, 0.05)
}

// Round trip on the common-factor construction X = Z1+Z3, Y = Z2+Z3,
// Z = Z3 with independent standard normals. The large-sample values of
// the squared statistics follow Szekely and Rizzo (2014).
func TestDCorPDCorCommonFactor(t *testing.T) {
	if testing.Short() {
		t.Skip("large-sample round trip")
	}
	n := 2000
	z1 := standardNormals(n, 101)
	z2 := standardNormals(n, 202)
	z3 := standardNormals(n, 303)

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = z1[i] + z3[i]
		ys[i] = z2[i] + z3[i]
	}
	x := tensor.FromSlice(xs)
	y := tensor.FromSlice(ys)
	z := tensor.FromSlice(z3)

	xy, err := DCovDCor(x, y, true)
	require.NoError(t, err)
	xz, err := DCovDCor(x, z, true)
	require.NoError(t, err)
	yz, err := DCovDCor(y, z, true)
	require.NoError(t, err)

	assert.InDelta(t, 0.206, xy.DCor, 0.05)
	assert.InDelta(t, 0.432, xz.DCor, 0.05)
	assert.InDelta(t, 0.432, yz.DCor, 0.05)

	part, err := PDCovPDCor(x, y, z)
	require.NoError(t, err)
	// conditioning on the common factor removes nearly all dependence
	assert.InDelta(t, 0.024, part.PDCor, 0.05)
	assert.Less(t, part.PDCor, xy.DCor)
}

func TestPDCorSymmetricInXY(t *testing.T) {
	n := 100
	x := tensor.FromSlice(standardNormals(n, 1))
	y := tensor.FromSlice(standardNormals(n, 2))
	z := tensor.FromSlice(standardNormals(n, 3))

	a, err := PDCovPDCor(x, y, z)
	require.NoError(t, err)
	b, err := PDCovPDCor(y, x, z)
	require.NoError(t, err)
	assert.InDelta(t, a.PDCor, b.PDCor, 1e-12)
	assert.InDelta(t, a.PDCov, b.PDCov, 1e-12)
}

func TestDCovMismatchedSampleSizes(t *testing.T) {
	x := tensor.FromSlice(standardNormals(10, 5))
	y := tensor.FromSlice(standardNormals(12, 6))
	_, err := DCovDCor(x, y, false)
	assert.Error(t, err)
}

func TestPValueDCovBoundsAndReproducibility(t *testing.T) {
	n := 80
	x := tensor.FromSlice(standardNormals(n, 31))
	y := tensor.FromSlice(standardNormals(n, 32))
	res, err := DCovDCor(x, y, false)
	require.NoError(t, err)

	ndraws := 99
	p1, err := PValueDCov(res, WithDraws(ndraws), WithRand(rand.New(rand.NewPCG(9, 10))))
	require.NoError(t, err)
	p2, err := PValueDCov(res, WithDraws(ndraws), WithRand(rand.New(rand.NewPCG(9, 10))))
	require.NoError(t, err)

	assert.Equal(t, p1, p2, "same seed must give the same p-value")
	assert.GreaterOrEqual(t, p1, 1.0/float64(1+ndraws))
	assert.LessOrEqual(t, p1, 1.0)
}

func TestPValuePDCov(t *testing.T) {
	n := 60
	x := tensor.FromSlice(standardNormals(n, 41))
	y := tensor.FromSlice(standardNormals(n, 42))
	z := tensor.FromSlice(standardNormals(n, 43))
	res, err := PDCovPDCor(x, y, z)
	require.NoError(t, err)

	p, err := PValuePDCov(res, WithDraws(49), WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 1.0/50.0)
	assert.LessOrEqual(t, p, 1.0)
	assert.False(t, math.IsNaN(p))
}

func TestPValueRejectsNonFiniteCenteredMatrices(t *testing.T) {
	n := 30
	x := tensor.FromSlice(standardNormals(n, 57))
	y := tensor.FromSlice(standardNormals(n, 58))
	res, err := DCovDCor(x, y, false)
	require.NoError(t, err)

	res.XDD.Set(3, 4, math.NaN())
	_, err = PValueDCov(res, WithDraws(9), WithRand(rand.New(rand.NewPCG(7, 8))))
	assert.Error(t, err)

	z := tensor.FromSlice(standardNormals(n, 59))
	part, err := PDCovPDCor(x, y, z)
	require.NoError(t, err)
	part.ZDD.Set(0, 1, math.Inf(1))
	_, err = PValuePDCov(part, WithDraws(9), WithRand(rand.New(rand.NewPCG(7, 8))))
	assert.Error(t, err)
}

func TestPValueRejectsBadDraws(t *testing.T) {
	x := tensor.FromSlice(standardNormals(30, 51))
	res, err := DCovDCor(x, x, false)
	require.NoError(t, err)
	_, err = PValueDCov(res, WithDraws(0))
	assert.Error(t, err)
}
