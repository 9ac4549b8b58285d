package qrat

import "testing"

func TestRingAxioms(t *testing.T) {
	a := FromFrac(1, 3)
	b := FromFrac(2, 5)
	c := FromFrac(-7, 11)

	if !a.Add(b).Equal(b.Add(a)) {
		t.Fatalf("addition not commutative")
	}
	if !a.Add(b).Add(c).Equal(a.Add(b.Add(c))) {
		t.Fatalf("addition not associative")
	}
	if !a.Mul(b).Equal(b.Mul(a)) {
		t.Fatalf("multiplication not commutative")
	}
	if !a.Mul(b.Add(c)).Equal(a.Mul(b).Add(a.Mul(c))) {
		t.Fatalf("distributivity failed")
	}
	if !a.Add(Zero()).Equal(a) {
		t.Fatalf("additive identity failed")
	}
	if !a.Mul(One()).Equal(a) {
		t.Fatalf("multiplicative identity failed")
	}
	if !a.Mul(Zero()).IsZero() {
		t.Fatalf("annihilator failed")
	}
	if !a.Add(a.Neg()).IsZero() {
		t.Fatalf("additive inverse failed")
	}
}

func TestPow(t *testing.T) {
	a := FromFrac(2, 3)
	if got := Pow(a, 3); !got.Equal(FromFrac(8, 27)) {
		t.Fatalf("Pow(2/3,3) = %s, want 8/27", got)
	}
	if got := Pow(a, -2); !got.Equal(FromFrac(9, 4)) {
		t.Fatalf("Pow(2/3,-2) = %s, want 9/4", got)
	}
	if got := Pow(a, 0); !got.Equal(One()) {
		t.Fatalf("Pow(x,0) = %s, want 1", got)
	}
}

func TestCanonicalBytesStable(t *testing.T) {
	a := FromFrac(6, 9) // reduces to 2/3
	b := FromFrac(2, 3)
	if string(a.CanonicalBytes()) != string(b.CanonicalBytes()) {
		t.Fatalf("canonical bytes differ for equal rationals")
	}
}

func TestOrdering(t *testing.T) {
	vals := []Rat{FromFrac(1, 2), FromFrac(-1, 3), FromFrac(0, 1), FromFrac(5, 4)}
	if !Less(vals[1], vals[2]) {
		t.Fatalf("expected -1/3 < 0")
	}
	if !Less(vals[0], vals[3]) {
		t.Fatalf("expected 1/2 < 5/4")
	}
}
