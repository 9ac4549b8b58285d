package fps

import (
	"testing"

	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

func sym() symtab.ID {
	r := symtab.New()
	return r.Intern("q")
}

func TestAddMulTruncation(t *testing.T) {
	v := sym()
	a := FromCoeffs(v, map[int64]qrat.Rat{0: qrat.One(), 1: qrat.One()}, Truncated(5))
	b := FromCoeffs(v, map[int64]qrat.Rat{0: qrat.One(), 1: qrat.One()}, Truncated(3))
	sum := a.Add(b)
	if sum.Trunc.Order() != 3 {
		t.Fatalf("expected combined truncation order 3, got %d", sum.Trunc.Order())
	}
	if !sum.Coeff(1).Equal(qrat.FromInt64(2)) {
		t.Fatalf("coeff(1) = %s, want 2", sum.Coeff(1))
	}

	prod := a.Mul(b)
	// (1+q)*(1+q) = 1+2q+q^2, truncated at 3 keeps all three terms.
	if !prod.Coeff(2).Equal(qrat.One()) {
		t.Fatalf("coeff(2) = %s, want 1", prod.Coeff(2))
	}
}

func TestPolynomialSentinelSurvivesMixedArithmetic(t *testing.T) {
	v := sym()
	poly := FromCoeffs(v, map[int64]qrat.Rat{0: qrat.One(), 5: qrat.One()}, Polynomial())
	series := FromCoeffs(v, map[int64]qrat.Rat{0: qrat.One()}, Truncated(3))
	mixed := poly.Add(series)
	if mixed.Trunc.IsPolynomial() {
		t.Fatalf("polynomial + truncated series must not stay polynomial")
	}
	if mixed.Trunc.Order() != 3 {
		t.Fatalf("expected min order 3, got %d", mixed.Trunc.Order())
	}

	bothPoly := poly.Add(poly)
	if !bothPoly.Trunc.IsPolynomial() {
		t.Fatalf("polynomial + polynomial must stay polynomial")
	}
}

func TestInvertRejectsZeroConstantTerm(t *testing.T) {
	v := sym()
	s := FromCoeffs(v, map[int64]qrat.Rat{1: qrat.One()}, Truncated(5))
	if _, err := s.Invert(); err == nil {
		t.Fatalf("expected ErrNotInvertible")
	}
}

func TestInvertRoundTrip(t *testing.T) {
	v := sym()
	// (1 - q) has inverse 1 + q + q^2 + q^3 + ... up to truncation.
	s := FromCoeffs(v, map[int64]qrat.Rat{0: qrat.One(), 1: qrat.FromInt64(-1)}, Truncated(5))
	inv, err := s.Invert()
	if err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	for e := int64(0); e < 5; e++ {
		if !inv.Coeff(e).Equal(qrat.One()) {
			t.Fatalf("coeff(%d) = %s, want 1", e, inv.Coeff(e))
		}
	}
	prod := s.Mul(inv)
	for e := int64(0); e < 5; e++ {
		want := qrat.Zero()
		if e == 0 {
			want = qrat.One()
		}
		if !prod.Coeff(e).Equal(want) {
			t.Fatalf("s*inv coeff(%d) = %s, want %s", e, prod.Coeff(e), want)
		}
	}
}

func TestSift(t *testing.T) {
	v := sym()
	coeffs := map[int64]qrat.Rat{}
	for e := int64(0); e < 10; e++ {
		coeffs[e] = qrat.FromInt64(e + 1)
	}
	s := FromCoeffs(v, coeffs, Truncated(10))
	sifted := s.Sift(2, 1) // odd exponents: 1,3,5,7,9 -> remapped 0,1,2,3,4
	for e := int64(0); e < 5; e++ {
		want := qrat.FromInt64(2*e + 2)
		if !sifted.Coeff(e).Equal(want) {
			t.Fatalf("sift coeff(%d) = %s, want %s", e, sifted.Coeff(e), want)
		}
	}
}

func TestRingAxiomsUnderTruncation(t *testing.T) {
	v := sym()
	a := FromCoeffs(v, map[int64]qrat.Rat{0: qrat.FromFrac(1, 2), 2: qrat.FromInt64(3)}, Truncated(6))
	b := FromCoeffs(v, map[int64]qrat.Rat{1: qrat.FromInt64(-2), 3: qrat.FromFrac(5, 7)}, Truncated(6))
	c := FromCoeffs(v, map[int64]qrat.Rat{0: qrat.FromInt64(4)}, Truncated(6))

	if !a.Add(b).Equal(b.Add(a)) {
		t.Fatalf("series addition not commutative")
	}
	if !a.Mul(b).Equal(b.Mul(a)) {
		t.Fatalf("series multiplication not commutative")
	}
	if !a.Mul(b.Add(c)).Equal(a.Mul(b).Add(a.Mul(c))) {
		t.Fatalf("series distributivity failed")
	}
}

func TestPolynomialDisplayHasNoSentinelTail(t *testing.T) {
	v := sym()
	poly := FromCoeffs(v, map[int64]qrat.Rat{0: qrat.One(), 1: qrat.FromInt64(-1), 2: qrat.FromInt64(2)}, Polynomial())
	s := poly.String()
	if s == "" {
		t.Fatalf("empty display string")
	}
	// Exact polynomials never show an O(.) tail.
	for i := 0; i+1 < len(s); i++ {
		if s[i] == 'O' && s[i+1] == '(' {
			t.Fatalf("polynomial display unexpectedly contains O(.) tail: %s", s)
		}
	}
}
