package petkovsek

import (
	"testing"

	"qkangaroo/internal/qrat"
)

func TestSolveOrder1(t *testing.T) {
	// S(n+1) - 3*S(n) = 0  =>  c_0 = -3, c_1 = 1  =>  ratio = 3.
	coefficients := []qrat.Rat{qrat.FromInt64(-3), qrat.FromInt64(1)}
	qVal := qrat.FromFrac(1, 2)
	result := Solve(coefficients, qVal)
	if result.Outcome != Found {
		t.Fatalf("expected Found, got %v", result.Outcome)
	}
	if len(result.Solutions) != 1 {
		t.Fatalf("expected exactly one solution, got %d", len(result.Solutions))
	}
	if !result.Solutions[0].Ratio.Equal(qrat.FromInt64(3)) {
		t.Fatalf("ratio = %v, want 3", result.Solutions[0].Ratio)
	}
}

func TestSolveOrder2WithIntegerRoots(t *testing.T) {
	// Characteristic polynomial (r-2)(r-3) = 6 - 5r + r^2, giving the
	// recurrence 6*S(n) - 5*S(n+1) + S(n+2) = 0 with roots r=2 and r=3.
	coefficients := []qrat.Rat{qrat.FromInt64(6), qrat.FromInt64(-5), qrat.FromInt64(1)}
	qVal := qrat.FromFrac(1, 2)
	result := Solve(coefficients, qVal)
	if result.Outcome != Found {
		t.Fatalf("expected Found, got %v", result.Outcome)
	}
	seen := map[string]bool{}
	for _, sol := range result.Solutions {
		seen[sol.Ratio.String()] = true
	}
	if !seen["2"] || !seen["3"] {
		t.Fatalf("expected roots {2,3}, got %v", seen)
	}
}

func TestSolveOrder1WithNoIntegerRatio(t *testing.T) {
	// S(n+1) - (2/5)*S(n) = 0  =>  c_0=-2/5, c_1=1  =>  ratio = 2/5, a
	// non-integer ratio the clearing-denominators step must still reach
	// through the order-1 fast path (which needs no root search at all).
	coefficients := []qrat.Rat{qrat.FromFrac(-2, 5), qrat.FromInt64(1)}
	qVal := qrat.FromFrac(1, 2)
	result := Solve(coefficients, qVal)
	if result.Outcome != Found {
		t.Fatalf("expected Found, got %v", result.Outcome)
	}
	if !result.Solutions[0].Ratio.Equal(qrat.FromFrac(2, 5)) {
		t.Fatalf("ratio = %v, want 2/5", result.Solutions[0].Ratio)
	}
}

func TestDecomposeFindsSingleFactor(t *testing.T) {
	qVal := qrat.FromFrac(1, 2)
	// (1-q^2)/(1-q^1) at q=1/2: (1-1/4)/(1-1/2) = (3/4)/(1/2) = 3/2.
	ratio := qrat.One().Sub(qrat.Pow(qVal, 2)).Div(qrat.One().Sub(qrat.Pow(qVal, 1)))
	cf, ok := decompose(ratio, qVal)
	if !ok {
		t.Fatalf("expected a closed-form decomposition for ratio %v", ratio)
	}
	if len(cf.NumerFactors) != 1 || len(cf.DenomFactors) != 1 {
		t.Fatalf("expected single numer/denom factors, got %+v", cf)
	}
	// Whatever (a,b) pair decompose settled on (search order over |a|,|b|
	// <= 10 may find an equivalent pair before (2,1)), it must reconstruct
	// the same ratio.
	rebuilt := qrat.One().Sub(qrat.Pow(qVal, cf.NumerFactors[0])).Div(qrat.One().Sub(qrat.Pow(qVal, cf.DenomFactors[0])))
	if !rebuilt.Equal(ratio) {
		t.Fatalf("decomposition (a=%d,b=%d) reconstructs to %v, want %v", cf.NumerFactors[0], cf.DenomFactors[0], rebuilt, ratio)
	}
}

func TestDecomposeFindsPureQPower(t *testing.T) {
	qVal := qrat.FromFrac(1, 3)
	ratio := qrat.Pow(qVal, 4)
	cf, ok := decompose(ratio, qVal)
	if !ok {
		t.Fatalf("expected a pure q-power decomposition for q^4")
	}
	if cf.QPowerCoeff != 4 || len(cf.NumerFactors) != 0 {
		t.Fatalf("unexpected closed form: %+v", cf)
	}
}

func TestDivisorsOfTwelve(t *testing.T) {
	got := divisors(qrat.FromInt64(12).Num())
	want := map[string]bool{"1": true, "2": true, "3": true, "4": true, "6": true, "12": true}
	if len(got) != len(want) {
		t.Fatalf("divisors(12) = %v, want six divisors", got)
	}
	for _, d := range got {
		if !want[d.String()] {
			t.Fatalf("unexpected divisor %v of 12", d)
		}
	}
}
