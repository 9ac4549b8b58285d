package hypergeom

import (
	"qkangaroo/internal/fps"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

// ErrNegativePower is returned by EvalPhi when it would need to represent a
// negative-power factor (e.g. 1 - q^{-n}) in a Formal Power Series at finite
// truncation - the edge case where the basic hypergeometric series'
// term ratio cannot be evaluated as a single monomial factor. Callers needing exact
// termination should use TrySummation instead.
type ErrNegativePower struct{ Detail string }

func (e ErrNegativePower) Error() string { return "hypergeom: " + e.Detail }

// EvalPhi expands s term by term into a Formal Power Series in v, truncated
// at t: for each k>=0 the k-th term is the q-monomial product
//
//	[prod_i (a_i;q)_k] / [prod_j (b_j;q)_k * (q;q)_k] * ((-1)^k q^{k(k-1)/2})^e * z^k
//
// accumulation stops once the accumulated series has stabilized to order t
// (every further term lands at or beyond the truncation horizon) or an
// upper parameter equals q^{-k} at step k, making the next factor vanish.
// A parameter whose q-power is negative at some step needs the factor
// 1 - q^{-n}, so EvalPhi returns ErrNegativePower there; for an upper
// parameter q^{-n} with n >= 1 that happens already at k = 0. s.Nome
// is assumed to coincide with v itself (coefficient 1, power 1), the
// standard convention for q-hypergeometric series expanded in their own
// nome.
func EvalPhi(v symtab.ID, s Series, t fps.Truncation) (fps.Series, error) {
	q := s.Nome
	if q.Power <= 0 {
		return fps.Series{}, ErrNegativePower{Detail: "nome must have strictly positive power"}
	}
	result := fps.Zero(v, t)
	limit := t.Order()
	term := fps.One(v, t) // running term t_k, k=0 term is 1
	for k := int64(0); ; k++ {
		exps := term.Exponents()
		if len(exps) == 0 || exps[0] >= limit {
			break
		}
		result = result.Add(term)
		// advance to t_{k+1} = t_k * ratio_k
		ratio, terminated, err := termRatio(v, s, q, k, t)
		if err != nil {
			return fps.Series{}, err
		}
		if terminated {
			break
		}
		term = term.Mul(ratio)
	}
	return result, nil
}

// termRatio returns t_{k+1}/t_k for the k-th term of s, i.e.
//
//	[prod_i (1 - a_i*q^k)] / [(1-q^{k+1}) * prod_j (1 - b_j*q^k)] *
//	  ((-1) q^k)^e * z
//
// as a genuine Formal Power Series (each Pochhammer factor can itself carry
// q-dependence, so it cannot in general collapse to a single q-monomial -
// the same reasoning that makes internal/qseries.AQProdInfinite and
// hypergeom.evalPochhammer build their (1-c*v^p) factors via
// fps.FromCoeffs/Invert rather than qmono arithmetic.
//
// terminated reports that the series has an upper parameter equal to q^{-k}
// exactly (making the next numerator factor (1 - q^{-k}*q^k) = 0), the
// expected termination signal for a terminating basic hypergeometric series.
func termRatio(v symtab.ID, s Series, q qmono.Mono, k int64, t fps.Truncation) (ratio fps.Series, terminated bool, err error) {
	ratio = fps.One(v, t)
	for _, a := range s.Upper {
		if isNegativePowerOfQ(a, q, k) {
			terminated = true
			return
		}
		factor, ferr := oneMinus(v, a, q, k, t)
		if ferr != nil {
			return fps.Series{}, false, ferr
		}
		ratio = ratio.Mul(factor)
	}
	qk1, ferr := oneMinus(v, qmono.New(qrat.One(), 0), q, k+1, t)
	if ferr != nil {
		return fps.Series{}, false, ferr
	}
	qk1Inv, ierr := qk1.Invert()
	if ierr != nil {
		return fps.Series{}, false, ierr
	}
	ratio = ratio.Mul(qk1Inv)
	for _, b := range s.Lower {
		factor, ferr := oneMinus(v, b, q, k, t)
		if ferr != nil {
			return fps.Series{}, false, ferr
		}
		factorInv, ierr := factor.Invert()
		if ierr != nil {
			return fps.Series{}, false, ierr
		}
		ratio = ratio.Mul(factorInv)
	}
	corr := qmono.New(qrat.FromInt64(-1), 0).Mul(q.Pow(k))
	scalar := corr.Pow(s.ExtraFactor).Mul(s.Argument)
	ratio = ratio.Mul(monoSeries(v, scalar, t))
	return ratio, false, nil
}

// oneMinus returns 1 - a*q^k as a genuine Formal Power Series (a two-term
// polynomial, or a plain constant series when a*q^k itself has power 0),
// the same (1-c*v^p) construction qseries.monoFactorTruncated uses. Only a
// strictly negative a*q^k power (a parameter equal to q^{-n} for n>k, e.g.
// a non-terminating negative-power upper parameter) is unrepresentable and
// yields ErrNegativePower.
func oneMinus(v symtab.ID, a, q qmono.Mono, k int64, t fps.Truncation) (fps.Series, error) {
	aqk := a.Mul(q.Pow(k))
	if aqk.Power < 0 {
		return fps.Series{}, ErrNegativePower{Detail: "cannot represent 1 - q^{-n} as a formal power series factor"}
	}
	s := fps.One(v, t)
	if aqk.Power < t.Order() {
		s.Coeffs[aqk.Power] = s.Coeff(aqk.Power).Sub(aqk.Coeff)
		if s.Coeff(aqk.Power).IsZero() {
			delete(s.Coeffs, aqk.Power)
		}
	}
	return s, nil
}

// monoSeries returns the single-term series c*v^p for m = c*v^p, dropping it
// to 0 once p is at or beyond t's truncation order.
func monoSeries(v symtab.ID, m qmono.Mono, t fps.Truncation) fps.Series {
	if m.Power >= t.Order() || m.Coeff.IsZero() {
		return fps.Zero(v, t)
	}
	return fps.FromCoeffs(v, map[int64]qrat.Rat{m.Power: m.Coeff}, t)
}

func isNegativePowerOfQ(a, q qmono.Mono, k int64) bool {
	n, ok := isNegQPower(a, q)
	return ok && n == k
}
