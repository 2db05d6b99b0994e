package numutil

import (
	"math"
	"testing"

	nkerrors "github.com/YuminosukeSato/numkit/pkg/errors"
	"github.com/YuminosukeSato/numkit/tensor"
)

func TestLogMatchesMathLogOnSafeDomain(t *testing.T) {
	xs := tensor.FromSlice([]float64{0.5, 1.0, 2.0, 10.0, 1e3})
	res, err := Log(xs, WithDeriv(2))
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	for i, x := range xs.Data() {
		if got, want := res.Val.Data()[i], math.Log(x); math.Abs(got-want) > 1e-15 {
			t.Errorf("Log(%v) = %v, want %v", x, got, want)
		}
		if got, want := res.D1.Data()[i], 1/x; math.Abs(got-want) > 1e-15 {
			t.Errorf("Log'(%v) = %v, want %v", x, got, want)
		}
		if got, want := res.D2.Data()[i], -1/(x*x); math.Abs(got-want) > 1e-15 {
			t.Errorf("Log''(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestLogQuadraticBelowCutoff(t *testing.T) {
	eps := 1e-3
	res, err := Log(tensor.FromSlice([]float64{-1.0, 0.0, eps / 2}), WithEps(eps), WithDeriv(2))
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	for i, x := range []float64{-1.0, 0.0, eps / 2} {
		d := 1.0 - x/eps
		want := math.Log(eps) - d*(1.0+d/2.0)
		if got := res.Val.Data()[i]; math.Abs(got-want) > 1e-12 {
			t.Errorf("Log(%v) = %v, want %v", x, got, want)
		}
		if got, want := res.D1.Data()[i], (1.0+d)/eps; math.Abs(got-want) > 1e-12 {
			t.Errorf("Log'(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestLogContinuityAtCutoff(t *testing.T) {
	eps := 1e-3
	// at the boundary the Taylor branch reduces to ln(eps), 1/eps, -1/eps^2,
	// the same values the direct branch approaches from above
	res, err := Log(tensor.FromSlice([]float64{eps}), WithEps(eps), WithDeriv(2))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := res.Val.Data()[0], math.Log(eps); math.Abs(got-want) > 1e-15 {
		t.Errorf("value at cutoff = %v, want %v", got, want)
	}
	if got, want := res.D1.Data()[0], 1/eps; math.Abs(got-want) > 1e-9 {
		t.Errorf("first derivative at cutoff = %v, want %v", got, want)
	}
	if got, want := res.D2.Data()[0], -1/(eps*eps); math.Abs(got-want) > 1e-3 {
		t.Errorf("second derivative at cutoff = %v, want %v", got, want)
	}
}

func TestLogDerivativeFiniteDifference(t *testing.T) {
	eps := 0.1
	h := 1e-6
	for _, x := range []float64{-0.5, 0.05, 0.2, 1.5} {
		plus, err := Log(tensor.FromSlice([]float64{x + h}), WithEps(eps))
		if err != nil {
			t.Fatal(err)
		}
		minus, err := Log(tensor.FromSlice([]float64{x - h}), WithEps(eps))
		if err != nil {
			t.Fatal(err)
		}
		res, err := Log(tensor.FromSlice([]float64{x}), WithEps(eps), WithDeriv(1))
		if err != nil {
			t.Fatal(err)
		}
		fd := (plus.Val.Data()[0] - minus.Val.Data()[0]) / (2 * h)
		got := res.D1.Data()[0]
		if rel := math.Abs(got-fd) / math.Max(math.Abs(fd), 1e-12); rel > 1e-4 {
			t.Errorf("Log'(%v) = %v, finite difference %v (rel err %v)", x, got, fd, rel)
		}
	}
}

func TestExpMatchesMathExpOnSafeDomain(t *testing.T) {
	xs := tensor.FromSlice([]float64{-10, -1, 0, 1, 10})
	res, err := Exp(xs, WithDeriv(2))
	if err != nil {
		t.Fatalf("Exp() error = %v", err)
	}
	for i, x := range xs.Data() {
		want := math.Exp(x)
		for name, got := range map[string]float64{
			"value": res.Val.Data()[i], "d1": res.D1.Data()[i], "d2": res.D2.Data()[i],
		} {
			if math.Abs(got-want)/want > 1e-15 {
				t.Errorf("Exp %s at %v = %v, want %v", name, x, got, want)
			}
		}
	}
}

func TestExpQuadraticBeyondBounds(t *testing.T) {
	lowX, bigX := -5.0, 5.0
	res, err := Exp(tensor.FromSlice([]float64{7.0, -8.0}), WithBounds(lowX, bigX), WithDeriv(2))
	if err != nil {
		t.Fatalf("Exp() error = %v", err)
	}

	dHi := 7.0 - bigX
	wantHi := math.Exp(bigX) * (1.0 + dHi*(1.0+0.5*dHi))
	if got := res.Val.Data()[0]; math.Abs(got-wantHi)/wantHi > 1e-14 {
		t.Errorf("Exp above bigX = %v, want %v", got, wantHi)
	}
	dLo := lowX - (-8.0)
	wantLo := math.Exp(lowX) * (1.0 - dLo*(1.0-0.5*dLo))
	if got := res.Val.Data()[1]; math.Abs(got-wantLo)/math.Abs(wantLo) > 1e-14 {
		t.Errorf("Exp below lowX = %v, want %v", got, wantLo)
	}
}

func TestExpDerivativeFiniteDifference(t *testing.T) {
	lowX, bigX := -5.0, 5.0
	h := 1e-6
	for _, x := range []float64{-7.0, -2.0, 0.0, 3.0, 6.5} {
		plus, err := Exp(tensor.FromSlice([]float64{x + h}), WithBounds(lowX, bigX))
		if err != nil {
			t.Fatal(err)
		}
		minus, err := Exp(tensor.FromSlice([]float64{x - h}), WithBounds(lowX, bigX))
		if err != nil {
			t.Fatal(err)
		}
		res, err := Exp(tensor.FromSlice([]float64{x}), WithBounds(lowX, bigX), WithDeriv(1))
		if err != nil {
			t.Fatal(err)
		}
		fd := (plus.Val.Data()[0] - minus.Val.Data()[0]) / (2 * h)
		got := res.D1.Data()[0]
		if rel := math.Abs(got-fd) / math.Abs(fd); rel > 1e-4 {
			t.Errorf("Exp'(%v) = %v, finite difference %v (rel err %v)", x, got, fd, rel)
		}
	}
}

func TestXLogXSafeDomain(t *testing.T) {
	xs := tensor.FromSlice([]float64{0.5, 1.0, 3.0})
	res, err := XLogX(xs, WithDeriv(2))
	if err != nil {
		t.Fatalf("XLogX() error = %v", err)
	}
	for i, x := range xs.Data() {
		if got, want := res.Val.Data()[i], x*math.Log(x); math.Abs(got-want) > 1e-15 {
			t.Errorf("XLogX(%v) = %v, want %v", x, got, want)
		}
		if got, want := res.D1.Data()[i], 1+math.Log(x); math.Abs(got-want) > 1e-15 {
			t.Errorf("XLogX'(%v) = %v, want %v", x, got, want)
		}
		if got, want := res.D2.Data()[i], 1/x; math.Abs(got-want) > 1e-15 {
			t.Errorf("XLogX''(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestXLogXZeroStaysFinite(t *testing.T) {
	res, err := XLogX(tensor.FromSlice([]float64{0.0, -0.5}), WithEps(1e-2), WithDeriv(2))
	if err != nil {
		t.Fatalf("XLogX() error = %v", err)
	}
	for i, v := range res.Val.Data() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("XLogX value[%d] = %v, want finite", i, v)
		}
	}
}

func TestSmoothPreservesShape(t *testing.T) {
	a := tensor.NewWithData([]int{2, 3}, []float64{0.1, 1, 2, 3, 4, 5})
	res, err := Log(a, WithDeriv(2))
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	for _, out := range []*tensor.Array{res.Val, res.D1, res.D2} {
		if !a.SameShape(out) {
			t.Errorf("output shape = %v, want %v", out.Shape(), a.Shape())
		}
	}
}

func TestDerivValidation(t *testing.T) {
	for _, fn := range []func() error{
		func() error { _, err := Log(tensor.FromSlice([]float64{1}), WithDeriv(3)); return err },
		func() error { _, err := Exp(tensor.FromSlice([]float64{1}), WithDeriv(-1)); return err },
		func() error { _, err := XLogX(tensor.FromSlice([]float64{1}), WithDeriv(5)); return err },
	} {
		if err := fn(); err == nil {
			t.Error("invalid deriv level accepted")
		}
	}
}

func TestVerboseEmitsDomainWarning(t *testing.T) {
	var got error
	nkerrors.SetWarningHandler(func(w error) { got = w })
	defer nkerrors.SetWarningHandler(func(w error) {})

	_, err := Log(tensor.FromSlice([]float64{-3.0, 1.0, -7.0}), WithEps(1e-2), Verbose())
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	var dw *nkerrors.DomainWarning
	if !nkerrors.As(got, &dw) {
		t.Fatalf("warning type = %T, want *DomainWarning", got)
	}
	if dw.Count != 2 {
		t.Errorf("Count = %d, want 2", dw.Count)
	}
	if dw.Extreme != -7.0 {
		t.Errorf("Extreme = %v, want -7", dw.Extreme)
	}
}

func TestEmptyInputRejected(t *testing.T) {
	if _, err := Log(tensor.FromSlice(nil)); err == nil {
		t.Error("Log() accepted empty input")
	}
}
