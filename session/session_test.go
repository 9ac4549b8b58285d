package session

import "testing"

func TestNewSessionQIsRegistrySymbol(t *testing.T) {
	s := New()
	if _, ok := s.Lookup("q"); ok {
		t.Fatal("q should be the registry symbol, not a user binding")
	}
	_ = s.Q()
}

func TestSessionBindLookupUnbindRestart(t *testing.T) {
	s := New()
	s.Bind("x", Int(5))
	v, ok := s.Lookup("x")
	if !ok || v.Int.Int64() != 5 {
		t.Fatalf("Lookup(x) = %v, %v, want 5, true", v, ok)
	}
	s.Unbind("x")
	if _, ok := s.Lookup("x"); ok {
		t.Fatal("x should be unbound")
	}
	s.Bind("y", Int(1))
	s.Restart()
	if names := s.ANames(); len(names) != 0 {
		t.Fatalf("ANames() after Restart() = %v, want empty", names)
	}
}

func TestSessionCallNumbpart(t *testing.T) {
	s := New()
	v, err := s.Call("numbpart", Int(10))
	if err != nil {
		t.Fatalf("Call(numbpart) failed: %v", err)
	}
	if v.Int.Int64() != 42 {
		t.Fatalf("numbpart(10) = %s, want 42", v.Int)
	}
}

func TestSessionCallAqprodDualDispatch(t *testing.T) {
	s := New()
	q := s.Q()
	v, err := s.Call("aqprod", q, q, Int(2))
	if err != nil {
		t.Fatalf("Call(aqprod) failed: %v", err)
	}
	// (q;q)_2 = (1-q)(1-q^2) = 1 - q - q^2 + q^3
	want := map[int64]int64{0: 1, 1: -1, 2: -1, 3: 1}
	for e, c := range want {
		got := v.Series.Coeff(e)
		if got.Num().Int64() != c || got.Denom().Int64() != 1 {
			t.Fatalf("aqprod(q,q,2) coeff(%d) = %s, want %d", e, got, c)
		}
	}
}
