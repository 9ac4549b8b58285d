package gosper

import (
	"testing"

	"qkangaroo/internal/hypergeom"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
)

// pureGeometricSeries builds 1phi0(q;;q,z), whose term t_k = z^k exactly
// because (q;q)_k cancels between the single upper parameter and the
// implicit (q;q)_k denominator every rphi_s term carries.
func pureGeometricSeries(qVal qrat.Rat) hypergeom.Series {
	q := qmono.New(qrat.One(), 1)
	z := qmono.New(qrat.FromFrac(1, 3), 0)
	return hypergeom.NewPhi([]qmono.Mono{q}, nil, q, z)
}

func TestExtractTermRatioReducesToConstant(t *testing.T) {
	qVal := qrat.FromFrac(1, 2)
	s := pureGeometricSeries(qVal)
	rf, err := ExtractTermRatio(s, qVal)
	if err != nil {
		t.Fatalf("ExtractTermRatio failed: %v", err)
	}
	if rf.Numer.Degree() != 0 || rf.Denom.Degree() != 0 {
		t.Fatalf("expected a constant ratio, got numer=%s denom=%s", rf.Numer, rf.Denom)
	}
	want := qrat.FromFrac(1, 3)
	got := rf.Numer.At(0).Div(rf.Denom.At(0))
	if !got.Equal(want) {
		t.Fatalf("ratio = %v, want %v", got, want)
	}
}

func TestGosperSumsPureGeometricSeries(t *testing.T) {
	qVal := qrat.FromFrac(1, 2)
	s := pureGeometricSeries(qVal)
	result, err := Gosper(s, qVal)
	if err != nil {
		t.Fatalf("Gosper failed: %v", err)
	}
	if result.Outcome != Summable {
		t.Fatalf("expected Summable, got %v", result.Outcome)
	}
	ratio, err := ExtractTermRatio(s, qVal)
	if err != nil {
		t.Fatalf("ExtractTermRatio failed: %v", err)
	}
	for k := int64(0); k < 6; k++ {
		tk := termValue(ratio, qVal, k)
		diff := result.Antidiff(k + 1).Sub(result.Antidiff(k))
		if !diff.Equal(tk) {
			t.Fatalf("antidiff telescoping failed at k=%d: G(k+1)-G(k)=%v, t_k=%v", k, diff, tk)
		}
	}
}

func TestComputeNormalFormTrivialCase(t *testing.T) {
	qVal := qrat.FromFrac(1, 2)
	s := pureGeometricSeries(qVal)
	rf, err := ExtractTermRatio(s, qVal)
	if err != nil {
		t.Fatalf("ExtractTermRatio failed: %v", err)
	}
	nf, err := ComputeNormalForm(rf, qVal)
	if err != nil {
		t.Fatalf("ComputeNormalForm failed: %v", err)
	}
	if nf.Tau.Degree() != 0 || nf.C.Degree() != 0 {
		t.Fatalf("expected a trivial normal form for a constant ratio, got tau=%s c=%s", nf.Tau, nf.C)
	}
}
