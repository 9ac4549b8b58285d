package zeilberger

import (
	"testing"

	"qkangaroo/internal/polyq"
	"qkangaroo/internal/qrat"
)

// constantSummand builds the trivial F(n,k) = z^k, independent of n, whose
// certified recurrence -S(n) + S(n+1) = 0 is checkable by hand since
// F(n+1,k) == F(n,k) identically.
func constantSummand(qVal, z qrat.Rat) Summand {
	one := polyq.New(qrat.One())
	zPoly := polyq.New(z)
	return Summand{
		QVal: qVal,
		Eval: func(n, k int64) qrat.Rat { return qrat.Pow(z, k) },
		KRatio: func(n int64) polyq.RationalFunc {
			return polyq.NewRationalFunc(zPoly, one)
		},
		NRatio: func(n int64, j int64) polyq.RationalFunc {
			return polyq.NewRationalFunc(one, one)
		},
	}
}

func TestVerifyWZCertificateTrivialRecurrence(t *testing.T) {
	qVal := qrat.FromFrac(1, 2)
	z := qrat.FromFrac(1, 3)
	sum := constantSummand(qVal, z)
	coefficients := []qrat.Rat{qrat.FromInt64(-1), qrat.FromInt64(1)}
	zeroCert := polyq.NewRationalFunc(polyq.Zero(), polyq.New(qrat.One()))
	if !VerifyWZCertificate(sum, 0, coefficients, zeroCert, 10) {
		t.Fatalf("expected the trivial -S(n)+S(n+1)=0 recurrence to verify against the zero certificate")
	}
}

func TestFPSCrossVerifyConstantSum(t *testing.T) {
	coefficients := []qrat.Rat{qrat.FromInt64(-1), qrat.FromInt64(1)}
	constantValue := qrat.FromInt64(5)
	sumAt := func(n int64) qrat.Rat { return constantValue }
	if !FPSCrossVerify(coefficients, sumAt, 0) {
		t.Fatalf("expected -S(n)+S(n+1)=0 to hold when S is n-independent")
	}
}

func TestFPSCrossVerifyRejectsWrongCoefficients(t *testing.T) {
	coefficients := []qrat.Rat{qrat.FromInt64(2), qrat.FromInt64(1)}
	sumAt := func(n int64) qrat.Rat { return qrat.FromInt64(5) }
	if FPSCrossVerify(coefficients, sumAt, 0) {
		t.Fatalf("2*S(n)+S(n+1) should not vanish for a nonzero constant S")
	}
}

func TestLcmPolyOfCoprimeLinearFactors(t *testing.T) {
	a := polyq.New(qrat.FromInt64(1), qrat.FromInt64(1))  // 1+x
	b := polyq.New(qrat.FromInt64(-2), qrat.FromInt64(1)) // -2+x
	l := lcmPoly(a, b)
	if l.Degree() != 2 {
		t.Fatalf("lcm of two coprime linear factors should have degree 2, got %d", l.Degree())
	}
}
