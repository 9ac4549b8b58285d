package etaproof

import (
	"testing"

	"qkangaroo/internal/qrat"
)

func TestCheckModularityDeltaFunction(t *testing.T) {
	eta := NewEtaExpression(1)
	eta.Factors[1] = 24
	result := CheckModularity(eta)
	if !result.OK {
		t.Fatalf("eta(tau)^24 should satisfy Newman's conditions, failed: %v", result.FailedConditions)
	}
}

func TestCheckModularityRejectsBareEta(t *testing.T) {
	eta := NewEtaExpression(1)
	eta.Factors[1] = 1
	result := CheckModularity(eta)
	if result.OK {
		t.Fatalf("eta(tau) alone should fail Newman's conditions")
	}
}

func TestCuspCountMatchesCuspMakeCardinality(t *testing.T) {
	for _, N := range []int64{1, 2, 3, 4, 6, 8, 12} {
		got := int64(len(CuspMake(N)))
		want := CuspCount(N)
		if got != want {
			t.Fatalf("N=%d: len(CuspMake)=%d, CuspCount=%d", N, got, want)
		}
	}
}

func TestOrderAtCuspDeltaFunctionHasSimpleZeroAtInfinity(t *testing.T) {
	eta := NewEtaExpression(1)
	eta.Factors[1] = 24
	ord := OrderAtCusp(eta, 1)
	if !ord.Equal(qrat.One()) {
		t.Fatalf("Delta = eta(tau)^24 should have order 1 at infinity, got %v", ord)
	}
}

func TestWeightZero(t *testing.T) {
	eta := NewEtaExpression(2)
	eta.Factors[1] = 1
	eta.Factors[2] = -1
	if !WeightZero(eta) {
		t.Fatalf("eta(tau)/eta(2tau) has weight 0")
	}
	eta.Factors[1] = 2
	if WeightZero(eta) {
		t.Fatalf("eta(tau)^2/eta(2tau) has nonzero weight")
	}
}

func TestProveEtaIdentityTrivialWhenFactorsCancel(t *testing.T) {
	lhs := NewEtaExpression(1)
	lhs.Factors[1] = 5
	rhs := NewEtaExpression(1)
	rhs.Factors[1] = 5
	result := ProveEtaIdentity(lhs, rhs, qrat.One())
	if result.Outcome != Proved {
		t.Fatalf("identical eta-quotients should combine to the empty quotient and prove trivially, got %v", result.Outcome)
	}
}

func TestProveEtaIdentityNotModular(t *testing.T) {
	lhs := NewEtaExpression(1)
	lhs.Factors[1] = 1
	rhs := NewEtaExpression(1)
	result := ProveEtaIdentity(lhs, rhs, qrat.One())
	if result.Outcome != NotModular {
		t.Fatalf("bare eta(tau) on one side should fail modularity, got %v", result.Outcome)
	}
}
