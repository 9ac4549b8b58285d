package polyq

import (
	"testing"

	"qkangaroo/internal/qrat"
)

func r(n int64) qrat.Rat { return qrat.FromInt64(n) }

func TestRingAxioms(t *testing.T) {
	p := New(r(1), r(2), r(3))
	q := New(r(-1), r(0), r(5))
	s := New(r(4))

	if !p.Add(q).Equal(q.Add(p)) {
		t.Fatalf("addition not commutative")
	}
	if !p.Mul(q).Equal(q.Mul(p)) {
		t.Fatalf("multiplication not commutative")
	}
	if !p.Mul(q.Add(s)).Equal(p.Mul(q).Add(p.Mul(s))) {
		t.Fatalf("distributivity failed")
	}
	if !p.Add(p.Neg()).IsZero() {
		t.Fatalf("additive inverse failed")
	}
	one := New(r(1))
	if !p.Mul(one).Equal(p) {
		t.Fatalf("multiplicative identity failed")
	}
}

func TestNormalizationInvariant(t *testing.T) {
	p := New(r(1), r(2), r(0), r(0))
	if p.Degree() != 1 {
		t.Fatalf("trailing zeros not trimmed, degree = %d", p.Degree())
	}
	z := New(r(0), r(0))
	if !z.IsZero() || z.Degree() != -1 {
		t.Fatalf("zero polynomial invariant violated")
	}
}

func TestDivRemAndExactDiv(t *testing.T) {
	// x^2 - 1 = (x-1)(x+1)
	p := New(r(-1), r(0), r(1))
	d := New(r(-1), r(1))
	quot, rem := DivRem(p, d)
	if !rem.IsZero() {
		t.Fatalf("expected exact division, remainder = %s", rem)
	}
	if !quot.Equal(New(r(1), r(1))) {
		t.Fatalf("quotient = %s, want x+1", quot)
	}
	if _, err := ExactDiv(p, d); err != nil {
		t.Fatalf("ExactDiv failed: %v", err)
	}
	bad := New(r(1), r(1), r(1))
	if _, err := ExactDiv(p, bad); err == nil {
		t.Fatalf("expected ErrNotExact")
	}
}

func TestGCDAndResultant(t *testing.T) {
	// p = (x-1)(x-2), q = (x-1)(x-3): gcd should be (x-1) up to unit scale.
	p := New(r(2), r(-3), r(1))
	q := New(r(3), r(-4), r(1))
	g := GCD(p, q)
	if g.Degree() != 1 {
		t.Fatalf("expected degree-1 gcd, got degree %d (%s)", g.Degree(), g)
	}
	// monic gcd should be (x-1)
	if !g.Equal(New(r(-1), r(1))) {
		t.Fatalf("gcd = %s, want x-1", g)
	}

	res := Resultant(p, q)
	if res.Sign() != 0 {
		t.Fatalf("resultant of polys sharing a root should vanish, got %s", res)
	}

	coprimeA := New(r(1), r(1)) // x+1
	coprimeB := New(r(-2), r(1)) // x-2
	if Resultant(coprimeA, coprimeB).IsZero() {
		t.Fatalf("resultant of coprime polys must be nonzero")
	}
}

func TestQShift(t *testing.T) {
	p := New(r(1), r(1), r(1)) // 1 + x + x^2
	q := r(2)
	shifted := QShift(p, q)
	// p(2x) = 1 + 2x + 4x^2
	if !shifted.Equal(New(r(1), r(2), r(4))) {
		t.Fatalf("QShift result = %s", shifted)
	}
	x := r(3)
	if !shifted.Eval(x).Equal(p.Eval(q.Mul(x))) {
		t.Fatalf("q_shift(p,q).eval(x) != p.eval(q*x)")
	}
	twice := QShift(QShift(p, q), q)
	viaN := QShiftN(p, q, 2)
	if !twice.Equal(viaN) {
		t.Fatalf("q_shift_n(p,q,2) != q_shift(q_shift(p,q),q)")
	}
}

func TestRationalFuncInvariants(t *testing.T) {
	n := New(r(0), r(2)) // 2x
	d := New(r(0), r(4)) // 4x
	rf := NewRationalFunc(n, d)
	// reduces to 1/2 as a constant rational function
	if rf.Numer.Degree() != 0 || rf.Denom.Degree() != 0 {
		t.Fatalf("expected full cancellation, got numer=%s denom=%s", rf.Numer, rf.Denom)
	}
	if !rf.Denom.Lc().Equal(qrat.One()) {
		t.Fatalf("denominator not monic: %s", rf.Denom)
	}
}
