// Package chenhoumu implements the Chen-Hou-Mu method for proving
// nonterminating basic hypergeometric identities: verify the left side
// terminates at a test value, derive a q-Zeilberger recurrence for it,
// re-derive the same recurrence at neighboring test points to confirm it is
// order-stable, check the right side satisfies it too, and finally compare
// initial conditions.
package chenhoumu

import (
	"qkangaroo/internal/hypergeom"
	"qkangaroo/internal/polyq"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/zeilberger"
)

// Outcome distinguishes a fully checked identity from every way the proof
// attempt can fail.
type Outcome int

const (
	Proved Outcome = iota
	Failed
)

// Result reports the proof outcome. InitialConditionsChecked counts how many
// k = 0..d comparisons of LHS(n_test-k) vs RHS(n_test-k) passed; Reason is
// set only when Outcome is Failed.
type Result struct {
	Outcome                  Outcome
	Recurrence               []qrat.Rat
	InitialConditionsChecked int
	Reason                   string
}

// maxOrder bounds the q-Zeilberger order search the same way
// internal/zeilberger's own callers must.
const maxOrder = 8

// kGridSize bounds the finite k-grid the WZ certificate and series sums are
// evaluated over.
const kGridSize = 40

// Prove attempts to prove LHS(n) = RHS(n) for all nonterminating n, given:
//
//   - lhsBuilder(n) returns the basic hypergeometric series whose term-by-
//     term sum at n is the left-hand side;
//   - rhsBuilder(n) returns the scalar right-hand side at n;
//   - qVal is the concrete nome;
//   - nTest is the terminating test value at which the recurrence is
//     derived.
//
// lhsBuilder's series family must vary with n only through q-power shifts
// of its Upper/Lower/Argument parameters (e.g. an upper parameter of q^-n,
// or an argument scaled by q^n) — the form every terminating basic
// hypergeometric identity in the catalogue takes. A builder whose
// parameters shift by a non-q-power factor falls outside what NRatio here
// can represent exactly.
func Prove(lhsBuilder func(n int64) hypergeom.Series, rhsBuilder func(n int64) qrat.Rat, qVal qrat.Rat, nTest int64) Result {
	s := lhsBuilder(nTest)
	if !terminatesAt(s, qVal, nTest) {
		return Result{Outcome: Failed, Reason: "non-terminating"}
	}

	sum := buildSummand(lhsBuilder, qVal)
	zres, err := zeilberger.Zeilberger(sum, nTest, maxOrder)
	if err != nil || zres.Outcome != zeilberger.HasRecurrence {
		return Result{Outcome: Failed, Reason: "q-Zeilberger found no recurrence"}
	}
	d := zres.Order

	if !zeilberger.VerifyWZCertificate(sum, nTest, zres.Coefficients, zres.Certificate, kGridSize) {
		return Result{Outcome: Failed, Reason: "WZ certificate failed independent verification"}
	}

	for offset := int64(0); offset <= int64(d); offset++ {
		n := nTest - offset
		if n < 0 {
			continue
		}
		rederived, err := zeilberger.Zeilberger(sum, n, maxOrder)
		if err != nil || rederived.Outcome != zeilberger.HasRecurrence {
			return Result{Outcome: Failed, Reason: "recurrence failed to re-derive at a verification point"}
		}
		acc := qrat.Zero()
		for j, c := range rederived.Coefficients {
			acc = acc.Add(c.Mul(rhsBuilder(n + int64(j))))
		}
		if !acc.IsZero() {
			return Result{Outcome: Failed, Reason: "right-hand side does not satisfy the re-derived recurrence"}
		}
	}

	checked := 0
	for k := 0; k <= d; k++ {
		n := nTest - int64(k)
		if n < 0 {
			continue
		}
		lhsVal := sumSeries(lhsBuilder(n), qVal)
		rhsVal := rhsBuilder(n)
		if !lhsVal.Equal(rhsVal) {
			return Result{Outcome: Failed, Reason: "initial conditions disagree"}
		}
		checked++
	}

	return Result{
		Outcome:                  Proved,
		Recurrence:               zres.Coefficients,
		InitialConditionsChecked: checked,
	}
}

// terminatesAt reports whether s has an upper parameter equal to q^{-m} for
// some 0 <= m <= nTest, the basic-hypergeometric termination signal.
func terminatesAt(s hypergeom.Series, qVal qrat.Rat, nTest int64) bool {
	for _, a := range s.Upper {
		if m, ok := negativeQPower(a, s.Nome); ok && m >= 0 && m <= nTest {
			return true
		}
	}
	return false
}

// negativeQPower reports whether m equals q^{-n} for the series' own
// symbolic nome monomial q, for some non-negative integer n.
func negativeQPower(m, q qmono.Mono) (n int64, ok bool) {
	if q.Power == 0 || m.Power >= 0 || m.Power%q.Power != 0 {
		return 0, false
	}
	n = -m.Power / q.Power
	return n, m.Coeff.Equal(qrat.Pow(q.Coeff, -n))
}

// sumSeries evaluates Sum_k F(n,k) at the concrete nome by direct term
// accumulation, stopping once the running term is exactly zero (the
// terminating case every chenhoumu LHS is checked against).
func sumSeries(s hypergeom.Series, qVal qrat.Rat) qrat.Rat {
	acc := qrat.Zero()
	for k := int64(0); k < kGridSize; k++ {
		term := evalTerm(s, qVal, k)
		if term.IsZero() && k > 0 {
			break
		}
		acc = acc.Add(term)
	}
	return acc
}

// evalTerm evaluates the k-th term of s at the concrete nome directly from
// its Pochhammer-product definition, without going through an FPS.
func evalTerm(s hypergeom.Series, qVal qrat.Rat, k int64) qrat.Rat {
	numer := qrat.One()
	for _, a := range s.Upper {
		numer = numer.Mul(pochhammer(a, qVal, k))
	}
	denom := qrat.One()
	for _, b := range s.Lower {
		denom = denom.Mul(pochhammer(b, qVal, k))
	}
	denom = denom.Mul(pochhammer(s.Nome, qVal, k))
	if denom.IsZero() {
		return qrat.Zero()
	}
	term := numer.Div(denom)
	corr := qrat.Pow(qrat.FromInt64(-1), k).Mul(qrat.Pow(qVal, k*(k-1)/2))
	term = term.Mul(qrat.Pow(corr, s.ExtraFactor))
	term = term.Mul(qrat.Pow(evalMono(s.Argument, qVal), k))
	return term
}

// pochhammer evaluates (a;q)_k = prod_{i=0}^{k-1} (1 - a*q^i) at the
// concrete nome.
func pochhammer(a qmono.Mono, qVal qrat.Rat, k int64) qrat.Rat {
	acc := qrat.One()
	av := evalMono(a, qVal)
	qi := qrat.One()
	for i := int64(0); i < k; i++ {
		acc = acc.Mul(qrat.One().Sub(av.Mul(qi)))
		qi = qi.Mul(qVal)
	}
	return acc
}

func evalMono(m qmono.Mono, qVal qrat.Rat) qrat.Rat {
	return m.Coeff.Mul(qrat.Pow(qVal, m.Power))
}

// buildSummand adapts an n-parameterized series builder into the
// zeilberger.Summand ratio abstraction: KRatio uses termRatioAsRationalFunc,
// a local copy of internal/gosper's term-ratio extraction (the k-direction ratio
// doesn't involve n at all), and NRatio is built from the
// q-power-shift assumption documented on Prove.
func buildSummand(lhsBuilder func(n int64) hypergeom.Series, qVal qrat.Rat) zeilberger.Summand {
	return zeilberger.Summand{
		QVal: qVal,
		Eval: func(n, k int64) qrat.Rat {
			return evalTerm(lhsBuilder(n), qVal, k)
		},
		KRatio: func(n int64) polyq.RationalFunc {
			s := lhsBuilder(n)
			rf, err := termRatioAsRationalFunc(s, qVal)
			if err != nil {
				return polyq.NewRationalFunc(polyq.New(qrat.One()), polyq.New(qrat.One()))
			}
			return rf
		},
		NRatio: func(n int64, j int64) polyq.RationalFunc {
			return nShiftRatio(lhsBuilder, qVal, n, j)
		},
	}
}

// termRatioAsRationalFunc builds r(x) = t_{k+1}/t_k for s's defining term at
// the concrete nome, exactly as internal/gosper.ExtractTermRatio does; this
// package keeps its own copy of that construction.
func termRatioAsRationalFunc(s hypergeom.Series, qVal qrat.Rat) (polyq.RationalFunc, error) {
	if s.Kind != hypergeom.Basic {
		return polyq.RationalFunc{}, errNotBasic{}
	}
	linear := func(root qrat.Rat) polyq.Poly { return polyq.New(qrat.One(), root.Neg()) }

	numer := polyq.New(qrat.One())
	for _, a := range s.Upper {
		numer = numer.Mul(linear(evalMono(a, qVal)))
	}
	denom := polyq.New(qrat.One())
	for _, b := range s.Lower {
		denom = denom.Mul(linear(evalMono(b, qVal)))
	}
	denom = denom.Mul(linear(qVal))

	zVal := evalMono(s.Argument, qVal)
	sign := qrat.One()
	if s.ExtraFactor%2 != 0 {
		sign = sign.Neg()
	}
	scalar := zVal.Mul(sign)

	e := s.ExtraFactor
	if e >= 0 {
		coeffs := make([]qrat.Rat, e+1)
		for i := range coeffs {
			coeffs[i] = qrat.Zero()
		}
		coeffs[e] = qrat.One()
		numer = numer.Mul(polyq.New(coeffs...)).ScalarMul(scalar)
	} else {
		coeffs := make([]qrat.Rat, -e+1)
		for i := range coeffs {
			coeffs[i] = qrat.Zero()
		}
		coeffs[-e] = qrat.One()
		denom = denom.Mul(polyq.New(coeffs...))
		numer = numer.ScalarMul(scalar)
	}
	return polyq.NewRationalFunc(numer, denom), nil
}

type errNotBasic struct{}

func (errNotBasic) Error() string { return "chenhoumu: bilateral series have no single term-ratio rational function" }

// nShiftRatio builds F(n+j,k)/F(n,k) as a rational function of x=q^k,
// assuming every Upper/Lower/Argument parameter of the series family
// shifts with n by a pure power of q: each factor's contribution reduces
// to a finite telescoping Pochhammer-shift ratio, which is exactly
// representable as a polynomial-over-constant or constant-over-polynomial
// rational function in x.
func nShiftRatio(lhsBuilder func(n int64) hypergeom.Series, qVal qrat.Rat, n, j int64) polyq.RationalFunc {
	one := polyq.New(qrat.One())
	result := polyq.NewRationalFunc(one, one)
	if j == 0 {
		return result
	}
	sn := lhsBuilder(n)
	snj := lhsBuilder(n + j)

	for i := range sn.Upper {
		if i >= len(snj.Upper) {
			break
		}
		if delta, ok := paramShift(sn.Upper[i], snj.Upper[i]); ok {
			result = result.Mul(shiftRatio(evalMono(sn.Upper[i], qVal), qVal, delta))
		}
	}
	for i := range sn.Lower {
		if i >= len(snj.Lower) {
			break
		}
		if delta, ok := paramShift(sn.Lower[i], snj.Lower[i]); ok {
			inv := shiftRatio(evalMono(sn.Lower[i], qVal), qVal, delta)
			result = result.Mul(polyq.NewRationalFunc(inv.Denom, inv.Numer))
		}
	}
	if delta, ok := paramShift(sn.Argument, snj.Argument); ok && delta != 0 {
		result = result.Mul(powerOfX(delta))
	}
	return result
}

// paramShift reports the integer delta with to = of * q^delta, valid only
// when to/of is exactly a power of q (coefficient ratio exactly 1); a
// non-q-power shift reports ok=false and that parameter's contribution is
// skipped, the documented limitation of this construction.
func paramShift(of, to qmono.Mono) (delta int64, ok bool) {
	if of.Coeff.IsZero() || to.Coeff.IsZero() {
		return 0, false
	}
	ratio := to.Mul(of.Inv())
	if !ratio.Coeff.Equal(qrat.One()) {
		return 0, false
	}
	return ratio.Power, true
}

// shiftRatio returns (a*q^delta;q)_k / (a;q)_k as a rational function of
// x=q^k, using the telescoping identity
//
//	(a q^m;q)_k / (a;q)_k = [prod_{t=0}^{m-1} (1 - a q^{t+k})] / [prod_{t=0}^{m-1} (1 - a q^t)]
//
// for delta = m >= 0, and its reciprocal-with-swapped-base form for
// delta < 0.
func shiftRatio(aVal, qVal qrat.Rat, delta int64) polyq.RationalFunc {
	one := polyq.New(qrat.One())
	if delta == 0 {
		return polyq.NewRationalFunc(one, one)
	}
	if delta > 0 {
		numer := linearProduct(aVal, qVal, delta)
		denom := polyq.New(constantProduct(aVal, qVal, delta))
		return polyq.NewRationalFunc(numer, denom)
	}
	m := -delta
	aPrime := aVal.Mul(qrat.Pow(qVal, delta))
	numer := polyq.New(constantProduct(aPrime, qVal, m))
	denom := linearProduct(aPrime, qVal, m)
	return polyq.NewRationalFunc(numer, denom)
}

// linearProduct returns prod_{t=0}^{m-1} (1 - a*q^t*x) as a polynomial in x.
func linearProduct(aVal, qVal qrat.Rat, m int64) polyq.Poly {
	x := polyq.New(qrat.Zero(), qrat.One())
	one := polyq.New(qrat.One())
	p := one
	qt := qrat.One()
	for t := int64(0); t < m; t++ {
		p = p.Mul(one.Sub(x.ScalarMul(aVal.Mul(qt))))
		qt = qt.Mul(qVal)
	}
	return p
}

// constantProduct returns prod_{t=0}^{m-1} (1 - a*q^t) as a scalar.
func constantProduct(aVal, qVal qrat.Rat, m int64) qrat.Rat {
	acc := qrat.One()
	qt := qrat.One()
	for t := int64(0); t < m; t++ {
		acc = acc.Mul(qrat.One().Sub(aVal.Mul(qt)))
		qt = qt.Mul(qVal)
	}
	return acc
}

// powerOfX returns x^delta as a rational function, x^delta for delta >= 0
// and 1/x^{-delta} for delta < 0.
func powerOfX(delta int64) polyq.RationalFunc {
	one := polyq.New(qrat.One())
	if delta >= 0 {
		coeffs := make([]qrat.Rat, delta+1)
		for i := range coeffs {
			coeffs[i] = qrat.Zero()
		}
		coeffs[delta] = qrat.One()
		return polyq.NewRationalFunc(polyq.New(coeffs...), one)
	}
	m := -delta
	coeffs := make([]qrat.Rat, m+1)
	for i := range coeffs {
		coeffs[i] = qrat.Zero()
	}
	coeffs[m] = qrat.One()
	return polyq.NewRationalFunc(one, polyq.New(coeffs...))
}
