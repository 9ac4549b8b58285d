package hypergeom

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

func qn(p int64) qmono.Mono { return qmono.New(qrat.One(), p) }

// a small nonterminating 2phi1 whose parameters and argument all carry
// positive q-powers, so EvalPhi can expand both sides of Heine1 at a modest
// truncation order.
func sample2phi1(q qmono.Mono) Series {
	a := qmono.New(qrat.FromFrac(1, 5), q.Power)
	b := qmono.New(qrat.FromFrac(1, 2), 1)
	c := qmono.New(qrat.FromFrac(1, 3), 2)
	z := qmono.New(qrat.One(), 1)
	return NewPhi([]qmono.Mono{a, b}, []qmono.Mono{c}, q, z)
}

func TestHeine1PreservesValue(t *testing.T) {
	v := testVar()
	q := qn(1)
	s := sample2phi1(q)
	t_ := fps.Truncated(20)

	orig, err := EvalPhi(v, s, t_)
	if err != nil {
		t.Fatalf("EvalPhi(orig) failed: %v", err)
	}

	res, err := Heine1(s)
	if err != nil {
		t.Fatalf("Heine1 failed: %v", err)
	}
	transformed, err := EvalPhi(v, res.Target, t_)
	if err != nil {
		t.Fatalf("EvalPhi(target) failed: %v", err)
	}
	pre, err := EvalPrefactor(v, q, res.Prefactor, t_)
	if err != nil {
		t.Fatalf("EvalPrefactor failed: %v", err)
	}
	got := pre.Mul(transformed)
	if !got.Equal(orig) {
		t.Fatalf("Heine1 round trip mismatch:\norig  = %s\ngot   = %s", orig, got)
	}
}

func TestCanonicalKeyIsOrderIndependent(t *testing.T) {
	q := qn(1)
	a := qmono.New(qrat.FromFrac(1, 2), 1)
	b := qmono.New(qrat.FromFrac(1, 3), 2)
	c := qmono.New(qrat.FromFrac(2, 5), 1)
	s1 := NewPhi([]qmono.Mono{a, b}, []qmono.Mono{c}, q, q)
	s2 := NewPhi([]qmono.Mono{b, a}, []qmono.Mono{c}, q, q)
	if s1.CanonicalKey() != s2.CanonicalKey() {
		t.Fatalf("CanonicalKey not order-independent: %q vs %q", s1.CanonicalKey(), s2.CanonicalKey())
	}
}

func TestChainSearchFindsHeineImage(t *testing.T) {
	v := testVar()
	q := qn(1)
	start := sample2phi1(q)
	res, err := Heine1(start)
	if err != nil {
		t.Fatalf("Heine1 failed: %v", err)
	}
	target := res.Target

	chain, err := ChainSearch(v, start, target, fps.Truncated(20), 3)
	if err != nil {
		t.Fatalf("ChainSearch failed to find a chain: %v", err)
	}
	if len(chain) == 0 {
		t.Fatalf("expected a nonempty chain to a distinct target series")
	}
}

func TestQVandermondeSum(t *testing.T) {
	v := testVar()
	q := qn(1)
	n := int64(3)
	qNegN := qmono.New(qrat.Pow(qrat.One(), -n), -n)
	b := qmono.New(qrat.FromFrac(1, 2), 1)
	c := qmono.New(qrat.FromFrac(1, 3), 1)
	z := c.Mul(q.Pow(n)).Mul(b.Inv())
	s := NewPhi([]qmono.Mono{qNegN, b}, []qmono.Mono{c}, q, z)

	res, err := TrySummation(s)
	if err != nil {
		t.Fatalf("TrySummation failed to match q-Vandermonde: %v", err)
	}
	if res.Name != "q-vandermonde" {
		t.Fatalf("matched %q, want q-vandermonde", res.Name)
	}

	t_ := fps.Truncated(30)
	lhs, err := EvalPhi(v, s, t_)
	if err != nil {
		t.Fatalf("EvalPhi failed: %v", err)
	}
	rhs, err := EvalPrefactor(v, q, res.Prefactor, t_)
	if err != nil {
		t.Fatalf("EvalPrefactor failed: %v", err)
	}
	if !lhs.Equal(rhs) {
		t.Fatalf("q-Vandermonde mismatch:\nlhs = %s\nrhs = %s", lhs, rhs)
	}
}
