package mocktheta

import (
	"testing"

	"qkangaroo/internal/fps"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

func testVar() symtab.ID {
	r := symtab.New()
	return r.Intern("q")
}

func TestThirdOrderFLowOrderCoeffs(t *testing.T) {
	v := testVar()
	tr := fps.Truncated(8)
	f, err := ThirdOrderF(v, tr)
	if err != nil {
		t.Fatalf("ThirdOrderF failed: %v", err)
	}
	// f(q) = 1 + q - 2q^2 + 3q^3 - ... : check the first couple of known
	// coefficients against the defining sum evaluated by hand for n=0,1.
	if !f.Coeff(0).Equal(qrat.FromInt64(1)) {
		t.Errorf("coeff(0) = %v, want 1", f.Coeff(0))
	}
	if !f.Coeff(1).Equal(qrat.FromInt64(1)) {
		t.Errorf("coeff(1) = %v, want 1", f.Coeff(1))
	}
}

func TestThirdOrderPsiConstantTerm(t *testing.T) {
	v := testVar()
	tr := fps.Truncated(6)
	psi, err := ThirdOrderPsi(v, tr)
	if err != nil {
		t.Fatalf("ThirdOrderPsi failed: %v", err)
	}
	// the n=0 term contributes q^0/(q;q^2)_1 = 1/(1-q), which alone already
	// has every coefficient equal to 1 up to the truncation order; later n
	// terms start at q^2 and above so they cannot cancel coeff(0) or coeff(1).
	if !psi.Coeff(0).Equal(qrat.FromInt64(1)) {
		t.Errorf("coeff(0) = %v, want 1", psi.Coeff(0))
	}
	if !psi.Coeff(1).Equal(qrat.FromInt64(1)) {
		t.Errorf("coeff(1) = %v, want 1", psi.Coeff(1))
	}
}

func TestFifthOrderF0F1NonNegative(t *testing.T) {
	v := testVar()
	tr := fps.Truncated(10)
	f0, err := FifthOrderF0(v, tr)
	if err != nil {
		t.Fatalf("FifthOrderF0 failed: %v", err)
	}
	f1, err := FifthOrderF1(v, tr)
	if err != nil {
		t.Fatalf("FifthOrderF1 failed: %v", err)
	}
	if !f0.Coeff(0).Equal(qrat.FromInt64(1)) {
		t.Errorf("f0 coeff(0) = %v, want 1", f0.Coeff(0))
	}
	if !f1.Coeff(0).Equal(qrat.FromInt64(1)) {
		t.Errorf("f1 coeff(0) = %v, want 1", f1.Coeff(0))
	}
}

func TestUnitBaileyPairVerifies(t *testing.T) {
	v := testVar()
	tr := fps.Truncated(12)
	q := qmono.New(qrat.One(), 1)
	bp := UnitBaileyPair(v, tr)
	ok, err := VerifyBaileyPair(v, q, bp, 4, tr)
	if err != nil {
		t.Fatalf("VerifyBaileyPair failed: %v", err)
	}
	if !ok {
		t.Errorf("unit Bailey pair failed its own defining relation")
	}
}

func TestBaileyLemmaProducesNewPair(t *testing.T) {
	v := testVar()
	tr := fps.Truncated(10)
	q := qmono.New(qrat.One(), 1)
	bp := UnitBaileyPair(v, tr)
	rho1 := qmono.New(qrat.One(), 1)
	rho2 := qmono.New(qrat.One(), 1)
	next := BaileyLemma(v, q, bp, rho1, rho2, tr)
	// beta'_0 should reduce to a well-defined series (no panic, no error path
	// hit) and agree with the direct n=0 term of the lemma's defining sum.
	b0 := next.Beta(0)
	if b0.Coeffs == nil {
		t.Fatalf("BaileyLemma produced a zero-valued beta'_0 series unexpectedly")
	}
	// the n=0 term of the lemma's sum is beta_0 = 1 with every other factor 1.
	if !b0.Equal(fps.One(v, tr)) {
		t.Fatalf("beta'_0 = %s, want 1", b0)
	}
}

func TestAppellLerchSumRunsWithoutError(t *testing.T) {
	v := testVar()
	tr := fps.Truncated(8)
	x := qmono.New(qrat.FromFrac(1, 2), 1)
	q := qmono.New(qrat.One(), 1)
	z := qmono.New(qrat.FromFrac(1, 3), 0)
	_, err := AppellLerchSum(v, x, q, z, 5, tr)
	if err != nil {
		t.Fatalf("AppellLerchSum failed: %v", err)
	}
}
