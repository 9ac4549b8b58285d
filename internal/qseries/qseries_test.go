package qseries

import (
	"math/big"
	"testing"

	"qkangaroo/internal/fps"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

func sym() symtab.ID {
	r := symtab.New()
	return r.Intern("q")
}

func TestPartitionCount100(t *testing.T) {
	got := PartitionCount(100)
	want, _ := new(big.Int).SetString("190569292", 10)
	if got.Cmp(want) != 0 {
		t.Fatalf("PartitionCount(100) = %s, want 190569292", got)
	}
}

func TestAQProdFinitePolynomial(t *testing.T) {
	v := sym()
	q := qmono.New(qrat.One(), 1)
	result, err := AQProd(v, q, q, 5, fps.Truncated(30))
	if err != nil {
		t.Fatalf("AQProd failed: %v", err)
	}
	if !result.Trunc.IsPolynomial() {
		t.Fatalf("AQProd with finite n must return a polynomial-tagged series")
	}
	// (q;q)_5 = 1 - q - q^2 + q^5 + q^6 + q^7 - q^8 - q^9 - q^10 + q^13 + q^14 - q^15
	want := map[int64]int64{
		0: 1, 1: -1, 2: -1, 5: 1, 6: 1, 7: 1, 8: -1, 9: -1, 10: -1, 13: 1, 14: 1, 15: -1,
	}
	for e, c := range want {
		if !result.Coeff(e).Equal(qrat.FromInt64(c)) {
			t.Fatalf("coeff(%d) = %s, want %d", e, result.Coeff(e), c)
		}
	}
	for _, e := range result.Exponents() {
		if _, ok := want[e]; !ok {
			t.Fatalf("unexpected nonzero coefficient at exponent %d: %s", e, result.Coeff(e))
		}
	}
}

func TestQBin42(t *testing.T) {
	v := sym()
	q := qmono.New(qrat.One(), 1)
	result, err := QBin(v, 4, 2, q)
	if err != nil {
		t.Fatalf("QBin failed: %v", err)
	}
	// [4 choose 2]_q = 1 + q + 2q^2 + q^3 + q^4
	want := map[int64]int64{0: 1, 1: 1, 2: 2, 3: 1, 4: 1}
	for e, c := range want {
		if !result.Coeff(e).Equal(qrat.FromInt64(c)) {
			t.Fatalf("coeff(%d) = %s, want %d", e, result.Coeff(e), c)
		}
	}
	if !result.Trunc.IsPolynomial() {
		t.Fatalf("qbin must be an exact polynomial")
	}
}

func TestSiftPartitionCongruence(t *testing.T) {
	v := sym()
	gf, err := PartitionGF(v, fps.Truncated(250))
	if err != nil {
		t.Fatalf("PartitionGF failed: %v", err)
	}
	sifted := gf.Sift(5, 4)
	for _, e := range sifted.Exponents() {
		c := sifted.Coeff(e)
		if c.Denom().Cmp(big.NewInt(1)) != 0 {
			t.Fatalf("non-integer partition count at exponent %d: %s", e, c)
		}
		num := new(big.Int).Mod(c.Num(), big.NewInt(5))
		if num.Sign() != 0 {
			t.Fatalf("Ramanujan congruence p(5n+4)=0 mod 5 violated at n=%d: %s", e, c)
		}
	}
}
