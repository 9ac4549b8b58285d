package polyq

import "qkangaroo/internal/qrat"

// RationalFunc is a pair (Numer, Denom) held in lowest terms with a monic
// Denom. NewRationalFunc enforces both invariants; the fields are exported,
// so a struct literal does not go through that check.
type RationalFunc struct {
	Numer Poly
	Denom Poly
}

// NewRationalFunc builds Numer/Denom in lowest terms, dividing out
// gcd(Numer,Denom) and scaling so Denom is monic. Panics if Denom is zero.
func NewRationalFunc(n, d Poly) RationalFunc {
	if d.IsZero() {
		panic("polyq: RationalFunc with zero denominator")
	}
	if n.IsZero() {
		return RationalFunc{Numer: Zero(), Denom: New(qrat.One())}
	}
	g := GCD(n, d)
	if !g.IsZero() && g.Degree() > 0 {
		var err error
		n, err = ExactDiv(n, g)
		if err != nil {
			panic("polyq: gcd did not divide numerator exactly: " + err.Error())
		}
		d, err = ExactDiv(d, g)
		if err != nil {
			panic("polyq: gcd did not divide denominator exactly: " + err.Error())
		}
	}
	lc := d.Lc()
	if !lc.Equal(qrat.One()) {
		inv := lc.Inv()
		n = n.ScalarMul(inv)
		d = d.ScalarMul(inv)
	}
	return RationalFunc{Numer: n, Denom: d}
}

// Add returns a + b.
func (a RationalFunc) Add(b RationalFunc) RationalFunc {
	return NewRationalFunc(a.Numer.Mul(b.Denom).Add(b.Numer.Mul(a.Denom)), a.Denom.Mul(b.Denom))
}

// Sub returns a - b.
func (a RationalFunc) Sub(b RationalFunc) RationalFunc {
	return NewRationalFunc(a.Numer.Mul(b.Denom).Sub(b.Numer.Mul(a.Denom)), a.Denom.Mul(b.Denom))
}

// Mul returns a*b, cross-cancelling gcd(Numer_a, Denom_b) and gcd(Numer_b,
// Denom_a) before combining to keep intermediate coefficient sizes small.
func (a RationalFunc) Mul(b RationalFunc) RationalFunc {
	n1, d2 := crossReduce(a.Numer, b.Denom)
	n2, d1 := crossReduce(b.Numer, a.Denom)
	return NewRationalFunc(n1.Mul(n2), d1.Mul(d2))
}

func crossReduce(n, d Poly) (Poly, Poly) {
	g := GCD(n, d)
	if g.IsZero() || g.Degree() == 0 {
		return n, d
	}
	rn, err := ExactDiv(n, g)
	if err != nil {
		return n, d
	}
	rd, err := ExactDiv(d, g)
	if err != nil {
		return n, d
	}
	return rn, rd
}

// Div returns a/b.
func (a RationalFunc) Div(b RationalFunc) RationalFunc {
	return a.Mul(RationalFunc{Numer: b.Denom, Denom: b.Numer})
}

// IsZero reports whether a is the zero rational function.
func (a RationalFunc) IsZero() bool { return a.Numer.IsZero() }

// Eval evaluates a at x. Panics if x is a root of Denom.
func (a RationalFunc) Eval(x qrat.Rat) qrat.Rat {
	return a.Numer.Eval(x).Div(a.Denom.Eval(x))
}

func (a RationalFunc) String() string {
	if a.Denom.Equal(New(qrat.One())) {
		return a.Numer.String()
	}
	return "(" + a.Numer.String() + ")/(" + a.Denom.String() + ")"
}
