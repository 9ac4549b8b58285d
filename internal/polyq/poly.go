// Package polyq implements the dense rational polynomial layer: Poly
// with subresultant GCD and resultant, q-shift, and the auto-reducing
// RationalFunc, generalizing a dense big.Int coefficient slice from a
// fixed-size ring element to an arbitrary-degree polynomial over Q.
package polyq

import (
	"fmt"

	"qkangaroo/internal/qrat"
)

// Poly is a dense polynomial over Q in ascending-degree order. The
// representation invariant, enforced by every constructor and arithmetic
// method, is: Coeffs is empty, or its last element is nonzero. The zero
// polynomial has no degree (Degree returns -1).
type Poly struct {
	Coeffs []qrat.Rat
}

// New builds a Poly from coefficients in ascending-degree order, trimming
// trailing zeros to restore the invariant.
func New(coeffs ...qrat.Rat) Poly {
	return Poly{Coeffs: trim(coeffs)}
}

func trim(c []qrat.Rat) []qrat.Rat {
	n := len(c)
	for n > 0 && c[n-1].IsZero() {
		n--
	}
	return append([]qrat.Rat(nil), c[:n]...)
}

// Zero returns the zero polynomial.
func Zero() Poly { return Poly{} }

// IsZero reports whether p is the zero polynomial.
func (p Poly) IsZero() bool { return len(p.Coeffs) == 0 }

// Degree returns the degree of p, or -1 for the zero polynomial.
func (p Poly) Degree() int { return len(p.Coeffs) - 1 }

// Lc returns the leading coefficient. Panics on the zero polynomial, an
// unreachable-state violation for any caller that checked IsZero first.
func (p Poly) Lc() qrat.Rat {
	if p.IsZero() {
		panic("polyq: Lc of zero polynomial")
	}
	return p.Coeffs[p.Degree()]
}

// At returns the coefficient of x^i, zero if i is out of range.
func (p Poly) At(i int) qrat.Rat {
	if i < 0 || i >= len(p.Coeffs) {
		return qrat.Zero()
	}
	return p.Coeffs[i]
}

// Add returns p + q.
func (p Poly) Add(q Poly) Poly {
	n := max(len(p.Coeffs), len(q.Coeffs))
	out := make([]qrat.Rat, n)
	for i := 0; i < n; i++ {
		out[i] = p.At(i).Add(q.At(i))
	}
	return New(out...)
}

// Sub returns p - q.
func (p Poly) Sub(q Poly) Poly {
	n := max(len(p.Coeffs), len(q.Coeffs))
	out := make([]qrat.Rat, n)
	for i := 0; i < n; i++ {
		out[i] = p.At(i).Sub(q.At(i))
	}
	return New(out...)
}

// Neg returns -p.
func (p Poly) Neg() Poly {
	out := make([]qrat.Rat, len(p.Coeffs))
	for i, c := range p.Coeffs {
		out[i] = c.Neg()
	}
	return Poly{Coeffs: out}
}

// ScalarMul returns c*p.
func (p Poly) ScalarMul(c qrat.Rat) Poly {
	if c.IsZero() {
		return Zero()
	}
	out := make([]qrat.Rat, len(p.Coeffs))
	for i, pc := range p.Coeffs {
		out[i] = pc.Mul(c)
	}
	return Poly{Coeffs: out}
}

// Mul returns p*q via the schoolbook convolution; degrees in this package
// stay small enough (bounded by Gosper/Zeilberger candidate search) that
// subquadratic multiplication is not worth the complexity.
func (p Poly) Mul(q Poly) Poly {
	if p.IsZero() || q.IsZero() {
		return Zero()
	}
	out := make([]qrat.Rat, len(p.Coeffs)+len(q.Coeffs)-1)
	for i := range out {
		out[i] = qrat.Zero()
	}
	for i, pc := range p.Coeffs {
		if pc.IsZero() {
			continue
		}
		for j, qc := range q.Coeffs {
			out[i+j] = out[i+j].Add(pc.Mul(qc))
		}
	}
	return New(out...)
}

// Equal reports structural equality after normalization.
func (p Poly) Equal(q Poly) bool {
	if len(p.Coeffs) != len(q.Coeffs) {
		return false
	}
	for i := range p.Coeffs {
		if !p.Coeffs[i].Equal(q.Coeffs[i]) {
			return false
		}
	}
	return true
}

// Eval evaluates p at x via Horner's method.
func (p Poly) Eval(x qrat.Rat) qrat.Rat {
	acc := qrat.Zero()
	for i := p.Degree(); i >= 0; i-- {
		acc = acc.Mul(x).Add(p.Coeffs[i])
	}
	return acc
}

// ErrNotExact is returned by ExactDiv when the remainder is nonzero.
type ErrNotExact struct{}

func (ErrNotExact) Error() string { return "polyq: exact division has a nonzero remainder" }

// DivRem performs Euclidean division p = q*quot + rem with deg(rem) <
// deg(q), over the field of fractions (division by q's leading coefficient
// is always exact since Q is a field). Panics if q is zero.
func DivRem(p, q Poly) (quot, rem Poly) {
	if q.IsZero() {
		panic("polyq: division by zero polynomial")
	}
	rem = p
	qDeg := q.Degree()
	qLc := q.Lc()
	var quotCoeffs []qrat.Rat
	for !rem.IsZero() && rem.Degree() >= qDeg {
		shift := rem.Degree() - qDeg
		coeff := rem.Lc().Div(qLc)
		for len(quotCoeffs) <= shift {
			quotCoeffs = append(quotCoeffs, qrat.Zero())
		}
		quotCoeffs[shift] = coeff
		term := shiftedScaled(q, shift, coeff)
		rem = rem.Sub(term)
	}
	return New(quotCoeffs...), rem
}

func shiftedScaled(q Poly, shift int, coeff qrat.Rat) Poly {
	out := make([]qrat.Rat, shift+len(q.Coeffs))
	for i := range out {
		out[i] = qrat.Zero()
	}
	for i, c := range q.Coeffs {
		out[i+shift] = c.Mul(coeff)
	}
	return New(out...)
}

// ExactDiv returns p/q, failing with ErrNotExact if the division leaves a
// nonzero remainder.
func ExactDiv(p, q Poly) (Poly, error) {
	quot, rem := DivRem(p, q)
	if !rem.IsZero() {
		return Poly{}, ErrNotExact{}
	}
	return quot, nil
}

// PseudoRem computes the pseudo-remainder of p by q, scaling p by
// lc(q)^(deg(p)-deg(q)+1) before dividing so the result stays in the same
// ring as the inputs even when lc(q) is not a unit there. This is the
// foundation of subresultant PRS.
func PseudoRem(p, q Poly) Poly {
	if q.IsZero() {
		panic("polyq: pseudo-remainder by zero polynomial")
	}
	if p.IsZero() || p.Degree() < q.Degree() {
		return p
	}
	delta := p.Degree() - q.Degree() + 1
	scale := qrat.Pow(q.Lc(), int64(delta))
	_, rem := DivRem(p.ScalarMul(scale), q)
	return rem
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (p Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	out := ""
	for i := p.Degree(); i >= 0; i-- {
		c := p.Coeffs[i]
		if c.IsZero() {
			continue
		}
		neg := c.Sign() < 0
		term := termStr(c.Abs(), i)
		switch {
		case out == "" && neg:
			out = "-" + term
		case out == "" && !neg:
			out = term
		case neg:
			out += " - " + term
		default:
			out += " + " + term
		}
	}
	return out
}

func termStr(abs qrat.Rat, i int) string {
	switch {
	case i == 0:
		return abs.String()
	case abs.Equal(qrat.One()) && i == 1:
		return "x"
	case abs.Equal(qrat.One()):
		return fmt.Sprintf("x^%d", i)
	case i == 1:
		return fmt.Sprintf("%s*x", abs.String())
	default:
		return fmt.Sprintf("%s*x^%d", abs.String(), i)
	}
}
