// Package mocktheta implements Ramanujan's mock theta functions, the
// Appell-Lerch sum building block, and Bailey pair/lemma/chain iteration.
package mocktheta

import (
	"qkangaroo/internal/fps"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qseries"
	"qkangaroo/internal/symtab"
)

// maxTerms caps the summation loops in this package against a degenerate
// nome (e.g. q with zero power) that would otherwise never advance the
// running exponent past the truncation order.
const maxTerms = 1 << 20

// finitePochhammer returns (a;q)_n, re-tagged from the Polynomial the
// underlying product naturally is to Truncated(t.Order()) so that a
// subsequent Invert() uses t's order instead of falling back to its own
// generous default horizon for a true polynomial input.
func finitePochhammer(v symtab.ID, a, q qmono.Mono, n int64, t fps.Truncation) (fps.Series, error) {
	poly, err := qseries.AQProd(v, a, q, n, t)
	if err != nil {
		return fps.Series{}, err
	}
	return retag(poly, t), nil
}

func retag(s fps.Series, t fps.Truncation) fps.Series {
	out := fps.Zero(s.Var, t)
	limit := t.Order()
	for _, e := range s.Exponents() {
		if e < limit {
			out.Coeffs[e] = s.Coeff(e)
		}
	}
	return out
}

// termSeries builds the single-monomial series for a q-power term, i.e. the
// q^{exponent} factor of a mock theta summand before it is divided by a
// Pochhammer symbol.
func termSeries(v symtab.ID, m qmono.Mono, t fps.Truncation) fps.Series {
	s := fps.Zero(v, t)
	if m.Power < t.Order() {
		s.Coeffs[m.Power] = m.Coeff
	}
	return s
}

// sumUntilExhausted accumulates term(n) for n=0,1,2,... into a running
// series truncated at t, stopping once term(n) contributes nothing new
// (its leading q-power is at or beyond the truncation order) or maxTerms is
// reached as a safety backstop.
func sumUntilExhausted(v symtab.ID, t fps.Truncation, leadingPower func(n int64) int64, term func(n int64) (fps.Series, error)) (fps.Series, error) {
	result := fps.Zero(v, t)
	limit := t.Order()
	for n := int64(0); n < maxTerms; n++ {
		if leadingPower(n) >= limit {
			break
		}
		ts, err := term(n)
		if err != nil {
			return fps.Series{}, err
		}
		result = result.Add(ts)
	}
	return result, nil
}
