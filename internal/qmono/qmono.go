// Package qmono implements the q-monomial c*v^p, the atomic term shared by
// the q-products, hypergeometric, and mock-theta layers.
package qmono

import "qkangaroo/internal/qrat"

// Mono is c*v^p for a rational coefficient c and an integer power p. The
// variable itself is implicit (callers track which symbol a Mono is over).
type Mono struct {
	Coeff qrat.Rat
	Power int64
}

// New returns c*v^p.
func New(c qrat.Rat, p int64) Mono { return Mono{Coeff: c, Power: p} }

// One returns the monomial 1 = 1*v^0.
func One() Mono { return Mono{Coeff: qrat.One(), Power: 0} }

// Mul returns the product a*b = (ac*bc)*v^(ap+bp).
func (a Mono) Mul(b Mono) Mono {
	return Mono{Coeff: a.Coeff.Mul(b.Coeff), Power: a.Power + b.Power}
}

// Inv returns the multiplicative inverse 1/a = (1/ac)*v^(-ap). Panics if the
// coefficient is zero, mirroring qrat.Rat.Inv.
func (a Mono) Inv() Mono {
	return Mono{Coeff: a.Coeff.Inv(), Power: -a.Power}
}

// Pow returns a^n.
func (a Mono) Pow(n int64) Mono {
	return Mono{Coeff: qrat.Pow(a.Coeff, n), Power: a.Power * n}
}

// Equal reports whether a and b denote the same monomial.
func (a Mono) Equal(b Mono) bool {
	return a.Power == b.Power && a.Coeff.Equal(b.Coeff)
}

// IsZero reports whether the coefficient is zero (the monomial is the zero
// element regardless of power).
func (a Mono) IsZero() bool { return a.Coeff.IsZero() }
