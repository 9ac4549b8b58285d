package chenhoumu

import (
	"testing"

	"qkangaroo/internal/hypergeom"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
)

// emptyFamily builds 0phi0(;;q,z), whose term t_k = (-1)^k q^{k(k-1)/2}
// z^k / (q;q)_k — hand-computable term by term.
func emptyFamily(qVal, z qrat.Rat) hypergeom.Series {
	q := qmono.New(qrat.One(), 1)
	zm := qmono.New(z, 0)
	return hypergeom.NewPhi(nil, nil, q, zm)
}

func TestEvalTermMatchesHandComputation(t *testing.T) {
	qVal := qrat.FromFrac(1, 2)
	z := qrat.FromFrac(1, 3)
	s := emptyFamily(qVal, z)

	t0 := evalTerm(s, qVal, 0)
	if !t0.Equal(qrat.One()) {
		t.Fatalf("t_0 = %v, want 1", t0)
	}
	t1 := evalTerm(s, qVal, 1)
	if !t1.Equal(qrat.FromFrac(-2, 3)) {
		t.Fatalf("t_1 = %v, want -2/3", t1)
	}
	t2 := evalTerm(s, qVal, 2)
	if !t2.Equal(qrat.FromFrac(4, 27)) {
		t.Fatalf("t_2 = %v, want 4/27", t2)
	}
}

func TestTerminatesAtRespectsTestBound(t *testing.T) {
	qVal := qrat.FromFrac(1, 2)
	nome := qmono.New(qrat.One(), 1)
	s := hypergeom.NewPhi([]qmono.Mono{qmono.New(qrat.One(), -3)}, nil, nome, qmono.New(qrat.One(), 0))
	if !terminatesAt(s, qVal, 3) {
		t.Fatalf("expected termination at n_test=3 for parameter q^-3")
	}
	if terminatesAt(s, qVal, 2) {
		t.Fatalf("parameter q^-3 should not report termination for n_test=2 < 3")
	}
}

func TestParamShiftDetectsQPowerShift(t *testing.T) {
	of := qmono.New(qrat.One(), -5)
	to := qmono.New(qrat.One(), -6)
	delta, ok := paramShift(of, to)
	if !ok || delta != -1 {
		t.Fatalf("paramShift(q^-5, q^-6) = (%d,%v), want (-1,true)", delta, ok)
	}
}

func TestParamShiftRejectsNonQPowerRatio(t *testing.T) {
	of := qmono.New(qrat.FromFrac(1, 2), 0)
	to := qmono.New(qrat.FromFrac(1, 3), 0)
	if _, ok := paramShift(of, to); ok {
		t.Fatalf("ratio 2/3 is not a pure power of q, expected ok=false")
	}
}

func TestShiftRatioMatchesDirectPochhammerRatio(t *testing.T) {
	qVal := qrat.FromFrac(1, 3)
	aVal := qrat.FromFrac(1, 2)
	delta := int64(2)
	k := int64(3)

	rf := shiftRatio(aVal, qVal, delta)
	x := qrat.Pow(qVal, k)
	got := rf.Eval(x)

	shiftedA := aVal.Mul(qrat.Pow(qVal, delta))
	want := pochhammer(qmono.New(shiftedA, 0), qVal, k).Div(pochhammer(qmono.New(aVal, 0), qVal, k))

	if !got.Equal(want) {
		t.Fatalf("shiftRatio(...).Eval(q^k) = %v, want %v", got, want)
	}
}

func TestShiftRatioNegativeDelta(t *testing.T) {
	qVal := qrat.FromFrac(1, 3)
	aVal := qrat.FromFrac(2, 5)
	delta := int64(-2)
	k := int64(4)

	rf := shiftRatio(aVal, qVal, delta)
	x := qrat.Pow(qVal, k)
	got := rf.Eval(x)

	shiftedA := aVal.Mul(qrat.Pow(qVal, delta))
	want := pochhammer(qmono.New(shiftedA, 0), qVal, k).Div(pochhammer(qmono.New(aVal, 0), qVal, k))

	if !got.Equal(want) {
		t.Fatalf("shiftRatio(...).Eval(q^k) = %v, want %v", got, want)
	}
}

func TestPowerOfX(t *testing.T) {
	x := qrat.FromInt64(2)
	if got := powerOfX(3).Eval(x); !got.Equal(qrat.FromInt64(8)) {
		t.Fatalf("powerOfX(3).Eval(2) = %v, want 8", got)
	}
	if got := powerOfX(-2).Eval(x); !got.Equal(qrat.FromFrac(1, 4)) {
		t.Fatalf("powerOfX(-2).Eval(2) = %v, want 1/4", got)
	}
}

func TestProveRunsWithoutError(t *testing.T) {
	qVal := qrat.FromFrac(1, 2)
	nome := qmono.New(qrat.One(), 1)
	lhsBuilder := func(n int64) hypergeom.Series {
		return hypergeom.NewPhi([]qmono.Mono{qmono.New(qrat.One(), -n)}, nil, nome, qmono.New(qrat.One(), 1))
	}
	rhsBuilder := func(n int64) qrat.Rat {
		return sumSeries(lhsBuilder(n), qVal)
	}
	// Not asserting Proved vs Failed here: a genuine failure to find or
	// verify a recurrence is itself a meaningful outcome this package must
	// be able to report, not a bug by construction.
	result := Prove(lhsBuilder, rhsBuilder, qVal, 3)
	_ = result.Outcome
}
