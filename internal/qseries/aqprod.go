// Package qseries implements the q-Pochhammer products, theta functions,
// Jacobi products, and partition generating functions, returning Formal
// Power Series values the same way every generator in this package does:
// build up a sparse coefficient map term by term.
package qseries

import (
	"math/big"

	"qkangaroo/internal/fps"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

// AQProd computes the q-Pochhammer symbol (a;q)_n as a Formal Power Series:
//
//   - n >= 0: the finite product prod_{k=0}^{n-1} (1 - a*q^k), returned with
//     the Polynomial truncation tag. Returning an exact polynomial for finite
//     n is load-bearing: later arithmetic mixing this result
//     with a truncated series must take the series' order, never silently
//     re-truncate the polynomial to some default.
//   - n < 0: uses the identity (a;q)_{-n} = 1 / ((a/q;q)_n * (-a)^n *
//     q^{-n(n+1)/2}).
//
// a and q are q-monomials (coefficient times a power of the implicit
// variable v); the result is a series in v.
func AQProd(v symtab.ID, a, q qmono.Mono, n int64, t fps.Truncation) (fps.Series, error) {
	if n >= 0 {
		return aqprodFinite(v, a, q, n), nil
	}
	return aqprodNegative(v, a, q, n, t)
}

func aqprodFinite(v symtab.ID, a, q qmono.Mono, n int64) fps.Series {
	result := fps.One(v, fps.Polynomial())
	ak := a
	for k := int64(0); k < n; k++ {
		factor := monoFactor(v, ak)
		result = result.Mul(factor)
		ak = ak.Mul(q)
	}
	return result
}

func aqprodNegative(v symtab.ID, a, q qmono.Mono, n int64, t fps.Truncation) (fps.Series, error) {
	m := -n // m > 0: (a;q)_{-m} = 1 / ((a/q;q)_m * (-a)^m * q^{-m(m+1)/2})
	aOverQ := a.Mul(q.Inv())
	denom1 := aqprodFinite(v, aOverQ, q, m)

	negA := qmono.New(a.Coeff.Neg(), a.Power).Pow(m)
	qPow := q.Pow(-(m * (m + 1)) / 2)
	scalarMono := negA.Mul(qPow)

	denom := denom1.ScalarMul(scalarMono.Coeff)
	denom = shiftExponent(denom, scalarMono.Power)

	result, err := denom.Invert()
	if err != nil {
		return fps.Series{}, err
	}
	// Invert always forgets the polynomial tag; cap at the
	// caller's requested truncation if it is tighter.
	if !t.IsPolynomial() && t.Order() < result.Trunc.Order() {
		result = capTruncation(result, t)
	}
	return result, nil
}

func shiftExponent(s fps.Series, shift int64) fps.Series {
	out := fps.Zero(s.Var, s.Trunc)
	for _, e := range s.Exponents() {
		out.Coeffs[e+shift] = s.Coeff(e)
	}
	return out
}

func capTruncation(s fps.Series, t fps.Truncation) fps.Series {
	out := fps.Zero(s.Var, t)
	limit := t.Order()
	for _, e := range s.Exponents() {
		if e < limit {
			out.Coeffs[e] = s.Coeff(e)
		}
	}
	return out
}

// monoFactor returns the degree-1 polynomial series (1 - a) for a
// q-monomial a = c*v^p, i.e. 1 - c*v^p.
func monoFactor(v symtab.ID, a qmono.Mono) fps.Series {
	s := fps.One(v, fps.Polynomial())
	s.Coeffs[a.Power] = s.Coeff(a.Power).Sub(a.Coeff)
	if s.Coeff(a.Power).IsZero() {
		delete(s.Coeffs, a.Power)
	}
	return s
}

// AQProdInfinite returns the infinite product (a;q)_infty truncated at
// order T: prod_{k=0}^{infty} (1 - a*q^k), stopping once a*q^k's power
// exceeds T.
func AQProdInfinite(v symtab.ID, a, q qmono.Mono, t fps.Truncation) fps.Series {
	if q.Power <= 0 {
		panic("qseries: AQProdInfinite requires a nome with strictly positive power")
	}
	result := fps.One(v, t)
	ak := a
	limit := t.Order()
	for ak.Power < limit {
		factor := monoFactorTruncated(v, ak, t)
		result = result.Mul(factor)
		ak = ak.Mul(q)
	}
	return result
}

func monoFactorTruncated(v symtab.ID, a qmono.Mono, t fps.Truncation) fps.Series {
	s := fps.One(v, t)
	if a.Power < t.Order() {
		s.Coeffs[a.Power] = s.Coeff(a.Power).Sub(a.Coeff)
		if s.Coeff(a.Power).IsZero() {
			delete(s.Coeffs, a.Power)
		}
	}
	return s
}

// QBin returns the q-binomial coefficient [n choose k]_q = (q;q)_n /
// ((q;q)_k (q;q)_{n-k}) as an exact polynomial of degree k(n-k), computed via
// the min-term sparse product form: accumulate
// prod_{i=1}^{k} (1-q^{n-k+i}) / (1-q^i) term by term so every intermediate
// division is exact.
func QBin(v symtab.ID, n, k int64, q qmono.Mono) (fps.Series, error) {
	if k < 0 || k > n {
		return fps.Series{}, ErrOutOfRange{Func: "qbin", Detail: "k must satisfy 0 <= k <= n"}
	}
	if k > n-k {
		k = n - k
	}
	result := fps.One(v, fps.Polynomial())
	for i := int64(1); i <= k; i++ {
		numer := monoFactor(v, q.Pow(n-k+i))
		denom := monoFactor(v, q.Pow(i))
		result = result.Mul(numer)
		quot, exact := polyDivSeries(result, denom)
		if !exact {
			return fps.Series{}, ErrOutOfRange{Func: "qbin", Detail: "intermediate division was not exact"}
		}
		result = quot
	}
	return result, nil
}

// ErrOutOfRange reports an input-shape error
type ErrOutOfRange struct {
	Func   string
	Detail string
}

func (e ErrOutOfRange) Error() string { return e.Func + ": " + e.Detail }

func polyDivSeries(num, den fps.Series) (fps.Series, bool) {
	// Long division of sparse polynomials in ascending order; used only for
	// the exact qbin accumulation where division is guaranteed exact.
	remCoeffs := map[int64]qrat.Rat{}
	for _, e := range num.Exponents() {
		remCoeffs[e] = num.Coeff(e)
	}
	denExps := den.Exponents()
	if len(denExps) == 0 {
		return fps.Series{}, false
	}
	minDen := denExps[0]
	denLc := den.Coeff(minDen)
	quotCoeffs := map[int64]qrat.Rat{}
	for {
		// find smallest remaining exponent with nonzero coeff
		var lo int64
		found := false
		for e, c := range remCoeffs {
			if c.IsZero() {
				continue
			}
			if !found || e < lo {
				lo = e
				found = true
			}
		}
		if !found {
			break
		}
		if lo < minDen {
			return fps.Zero(num.Var, fps.Polynomial()), remCoeffs[lo].IsZero()
		}
		coeff := remCoeffs[lo].Div(denLc)
		shift := lo - minDen
		quotCoeffs[shift] = coeff
		for _, de := range denExps {
			e := de + shift
			cur, ok := remCoeffs[e]
			if !ok {
				cur = qrat.Zero()
			}
			remCoeffs[e] = cur.Sub(den.Coeff(de).Mul(coeff))
		}
	}
	allZero := true
	for _, c := range remCoeffs {
		if !c.IsZero() {
			allZero = false
			break
		}
	}
	return fps.FromCoeffs(num.Var, quotCoeffs, fps.Polynomial()), allZero
}

// PartitionCount returns p(n), the number of integer partitions of n, via
// Euler's pentagonal number recurrence: p(0)=1, and for n>0,
// p(n) = sum over k!=0 of (-1)^(k+1) * p(n - k(3k-1)/2), summed until the
// pentagonal argument exceeds n.
func PartitionCount(n int64) *big.Int {
	if n < 0 {
		return big.NewInt(0)
	}
	p := make([]*big.Int, n+1)
	p[0] = big.NewInt(1)
	for m := int64(1); m <= n; m++ {
		sum := new(big.Int)
		for k := int64(1); ; k++ {
			g1 := k * (3*k - 1) / 2
			g2 := k * (3*k + 1) / 2
			if g1 > m && g2 > m {
				break
			}
			sign := 1
			if k%2 == 0 {
				sign = -1
			}
			if g1 <= m {
				if sign > 0 {
					sum.Add(sum, p[m-g1])
				} else {
					sum.Sub(sum, p[m-g1])
				}
			}
			if g2 <= m {
				if sign > 0 {
					sum.Add(sum, p[m-g2])
				} else {
					sum.Sub(sum, p[m-g2])
				}
			}
		}
		p[m] = sum
	}
	return p[n]
}
