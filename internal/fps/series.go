// Package fps implements the Formal Power Series ring: a sparse
// exponent-to-coefficient map over qrat.Rat with a shared truncation
// discipline. Sparse storage keeps only nonzero limbs, generalized from a
// dense fixed-size coefficient slice to a sparse exponent map since
// q-series are overwhelmingly sparse (theta functions have O(sqrt(N))
// nonzero terms up to degree N).
package fps

import (
	"fmt"
	"sort"

	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

// Series is Sum(c_e * v^e) + O(v^T), or an exact polynomial when Trunc is the
// Polynomial tag. Coeffs never holds a zero-valued entry; that invariant is
// maintained by every constructor and mutator in this package.
type Series struct {
	Var    symtab.ID
	Coeffs map[int64]qrat.Rat
	Trunc  Truncation
}

// ErrNotInvertible is returned by Invert when the constant term is zero.
type ErrNotInvertible struct{}

func (ErrNotInvertible) Error() string { return "fps: series has zero constant term, not invertible" }

// Zero returns the zero series over v, truncated at order t.
func Zero(v symtab.ID, t Truncation) Series {
	return Series{Var: v, Coeffs: map[int64]qrat.Rat{}, Trunc: t}
}

// One returns the series 1 over v, truncated at order t.
func One(v symtab.ID, t Truncation) Series {
	s := Zero(v, t)
	s.Coeffs[0] = qrat.One()
	return s
}

// Constant returns the constant series c over v, truncated at order t.
func Constant(c qrat.Rat, v symtab.ID, t Truncation) Series {
	s := Zero(v, t)
	if !c.IsZero() {
		s.Coeffs[0] = c
	}
	return s
}

// FromCoeffs builds a series from an explicit exponent->coefficient map,
// copying it and dropping any zero entries so the no-zero-entries invariant
// holds regardless of what the caller passed in.
func FromCoeffs(v symtab.ID, coeffs map[int64]qrat.Rat, t Truncation) Series {
	s := Zero(v, t)
	for e, c := range coeffs {
		if !c.IsZero() {
			s.Coeffs[e] = c
		}
	}
	return s
}

// Clone returns a deep copy of s.
func (s Series) Clone() Series {
	cp := make(map[int64]qrat.Rat, len(s.Coeffs))
	for e, c := range s.Coeffs {
		cp[e] = c
	}
	return Series{Var: s.Var, Coeffs: cp, Trunc: s.Trunc}
}

// Coeff returns the coefficient of v^e, which is qrat.Zero() if e is absent
// or e is at/above the truncation order.
func (s Series) Coeff(e int64) qrat.Rat {
	if e >= s.Trunc.Order() {
		return qrat.Zero()
	}
	if c, ok := s.Coeffs[e]; ok {
		return c
	}
	return qrat.Zero()
}

// set stores c at exponent e, deleting the entry instead if c is zero.
func (s Series) set(e int64, c qrat.Rat) {
	if c.IsZero() {
		delete(s.Coeffs, e)
		return
	}
	s.Coeffs[e] = c
}

// Exponents returns the nonzero exponents of s in ascending order (the
// natural sparse-map iteration order).
func (s Series) Exponents() []int64 {
	es := make([]int64, 0, len(s.Coeffs))
	for e := range s.Coeffs {
		es = append(es, e)
	}
	sort.Slice(es, func(i, j int) bool { return es[i] < es[j] })
	return es
}

// Add returns a + b. Panics if a and b are over different variables, an
// unreachable-state violation rather than a user error.
func (a Series) Add(b Series) Series {
	mustSameVar(a, b)
	t := a.Trunc.Combine(b.Trunc)
	r := Zero(a.Var, t)
	for e, c := range a.Coeffs {
		if e < t.Order() {
			r.set(e, c)
		}
	}
	for e, c := range b.Coeffs {
		if e >= t.Order() {
			continue
		}
		r.set(e, r.Coeff(e).Add(c))
	}
	return r
}

// Neg returns -a.
func (a Series) Neg() Series {
	r := Zero(a.Var, a.Trunc)
	for e, c := range a.Coeffs {
		r.Coeffs[e] = c.Neg()
	}
	return r
}

// Sub returns a - b.
func (a Series) Sub(b Series) Series { return a.Add(b.Neg()) }

// ScalarMul returns c*a.
func (a Series) ScalarMul(c qrat.Rat) Series {
	r := Zero(a.Var, a.Trunc)
	if c.IsZero() {
		return r
	}
	for e, ac := range a.Coeffs {
		r.Coeffs[e] = ac.Mul(c)
	}
	return r
}

// Mul returns a*b, truncated per the combined truncation discipline: terms
// whose exponent would land at or beyond the combined order are discarded as
// they are produced rather than computed and thrown away, normalizing on
// every mutation rather than as a separate pass.
func (a Series) Mul(b Series) Series {
	mustSameVar(a, b)
	t := a.Trunc.Combine(b.Trunc)
	r := Zero(a.Var, t)
	limit := t.Order()
	for ea, ca := range a.Coeffs {
		if ea >= limit {
			continue
		}
		for eb, cb := range b.Coeffs {
			e := ea + eb
			if e >= limit {
				continue
			}
			r.set(e, r.Coeff(e).Add(ca.Mul(cb)))
		}
	}
	return r
}

// Invert computes the formal multiplicative inverse via the coefficient
// recurrence: b_0 = 1/c_0, b_n = -c_0^-1 * sum_{k=1..n}
// c_k*b_{n-k}, valid up to the truncation order. Fails with ErrNotInvertible
// when the constant term is zero. The result is always Truncated (an inverse
// of a nonconstant polynomial is generally an infinite series, so inversion
// forgets the Polynomial tag even when the input carried it).
func (a Series) Invert() (Series, error) {
	c0 := a.Coeff(0)
	if c0.IsZero() {
		return Series{}, ErrNotInvertible{}
	}
	order := a.Trunc.Order()
	if order == maxOrder {
		// An inverse of a true polynomial still needs a concrete horizon to
		// be representable; fall back to a generous default matching the
		// polynomial's own degree span doubled, which is enough for the
		// recurrence to reproduce every coefficient a caller could observe
		// from the finite input.
		order = 2*maxDegree(a) + 2
	}
	inv := c0.Inv()
	b := Zero(a.Var, Truncated(order))
	b.Coeffs[0] = inv
	for n := int64(1); n < order; n++ {
		acc := qrat.Zero()
		for k := int64(1); k <= n; k++ {
			ck := a.Coeff(k)
			if ck.IsZero() {
				continue
			}
			bk := b.Coeff(n - k)
			if bk.IsZero() {
				continue
			}
			acc = acc.Add(ck.Mul(bk))
		}
		bn := acc.Mul(inv).Neg()
		b.set(n, bn)
	}
	return b, nil
}

func maxDegree(a Series) int64 {
	var m int64
	for e := range a.Coeffs {
		if e > m {
			m = e
		}
	}
	return m
}

// Sift extracts the subseries of terms whose exponent is congruent to j
// (mod m), remapping exponent e -> (e-j)/m. The result's truncation order is
// the ceiling of (T-j)/m for a truncated input, or Polynomial for a
// polynomial input.
func (a Series) Sift(m int64, j int64) Series {
	if m <= 0 {
		panic("fps: Sift requires a positive modulus")
	}
	var t Truncation
	if a.Trunc.IsPolynomial() {
		t = Polynomial()
	} else {
		order := a.Trunc.Order()
		newOrder := (order - j + m - 1) / m
		if newOrder < 0 {
			newOrder = 0
		}
		t = Truncated(newOrder)
	}
	r := Zero(a.Var, t)
	for e, c := range a.Coeffs {
		rem := e % m
		if rem < 0 {
			rem += m
		}
		if rem != j {
			continue
		}
		r.set((e-j)/m, c)
	}
	return r
}

// Equal reports whether a and b have identical nonzero coefficients up to
// the smaller of their two truncation orders, i.e. agree "to truncation".
func (a Series) Equal(b Series) bool {
	limit := a.Trunc.Combine(b.Trunc).Order()
	seen := map[int64]bool{}
	for e, c := range a.Coeffs {
		if e >= limit {
			continue
		}
		if !c.Equal(b.Coeff(e)) {
			return false
		}
		seen[e] = true
	}
	for e, c := range b.Coeffs {
		if e >= limit || seen[e] {
			continue
		}
		if !c.Equal(a.Coeff(e)) {
			return false
		}
	}
	return true
}

// String renders s in Maple's descending-power convention: a trailing
// "+ O(v^T)" unless the Polynomial tag suppresses it, explicit "*" between
// coefficient and power, and bare "1"/"-1" elided.
func (s Series) String() string {
	exps := s.Exponents()
	varName := fmt.Sprintf("v%d", s.Var) // String has no registry, so the variable shows as v<id>
	out := ""
	for i := len(exps) - 1; i >= 0; i-- {
		e := exps[i]
		c := s.Coeffs[e]
		neg := c.Sign() < 0
		term := termString(c.Abs(), e, varName)
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
	if out == "" {
		out = "0"
	}
	if !s.Trunc.IsPolynomial() {
		tail := fmt.Sprintf("O(%s^%d)", varName, s.Trunc.Order())
		if out == "0" {
			out = tail
		} else {
			out += " + " + tail
		}
	}
	return out
}

func termString(abs qrat.Rat, e int64, varName string) string {
	switch {
	case e == 0:
		return abs.String()
	case abs.Equal(qrat.One()):
		if e == 1 {
			return varName
		}
		return fmt.Sprintf("%s^%d", varName, e)
	case e == 1:
		return fmt.Sprintf("%s*%s", abs.String(), varName)
	default:
		return fmt.Sprintf("%s*%s^%d", abs.String(), varName, e)
	}
}

func mustSameVar(a, b Series) {
	if a.Var != b.Var {
		panic("fps: series over different variables combined")
	}
}
