package hypergeom

import (
	"qkangaroo/internal/fps"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

// pochhammerFactor is one (base;q^StepExp)_n term of a Prefactor: N<0 marks
// an infinite product (base;q^StepExp)_inf rather than a finite Pochhammer
// symbol, and StepExp lets a factor step by a power of the series' nome
// other than q itself (e.g. StepExp=2 for a (x;q^2)_inf factor, the same
// multi-delta idiom used by qseries.EtaQMulti). StepExp defaults to 1 via
// the infFactors/finiteFactor constructors below.
type pochhammerFactor struct {
	Base    qmono.Mono
	N       int64
	StepExp int64
}

// Prefactor records a connecting factor between two transformation-chain
// states as a ratio of q-Pochhammer symbols (finite or infinite), rather
// than an already-expanded series, plus a Scalar monomial multiplied in
// directly (e.g. a power of one of the parameters).
type Prefactor struct {
	NumerFactors []pochhammerFactor
	DenomFactors []pochhammerFactor
	Scalar       qmono.Mono
}

func infFactors(bases ...qmono.Mono) []pochhammerFactor {
	out := make([]pochhammerFactor, len(bases))
	for i, b := range bases {
		out[i] = pochhammerFactor{Base: b, N: -1, StepExp: 1}
	}
	return out
}

func infFactorStep(base qmono.Mono, stepExp int64) pochhammerFactor {
	return pochhammerFactor{Base: base, N: -1, StepExp: stepExp}
}

func finiteFactor(base qmono.Mono, n int64) pochhammerFactor {
	return pochhammerFactor{Base: base, N: n, StepExp: 1}
}

func identityPrefactor() Prefactor {
	return Prefactor{Scalar: qmono.New(qrat.One(), 0)}
}

// EvalPrefactor expands p against nome q into a concrete Formal Power
// Series in v truncated at t.
func EvalPrefactor(v symtab.ID, q qmono.Mono, p Prefactor, t fps.Truncation) (fps.Series, error) {
	result := fps.One(v, t)
	for _, f := range p.NumerFactors {
		result = result.Mul(evalPochhammer(v, f, q, t))
	}
	for _, f := range p.DenomFactors {
		inv, err := evalPochhammer(v, f, q, t).Invert()
		if err != nil {
			return fps.Series{}, err
		}
		result = result.Mul(inv)
	}
	scalarSeries := fps.Zero(v, t)
	if p.Scalar.Power < t.Order() {
		scalarSeries.Coeffs[p.Scalar.Power] = p.Scalar.Coeff
	}
	return result.Mul(scalarSeries), nil
}

func evalPochhammer(v symtab.ID, f pochhammerFactor, q qmono.Mono, t fps.Truncation) fps.Series {
	step := q.Pow(f.StepExp)
	if f.N < 0 {
		return aqProdInf(v, f.Base, step, t)
	}
	result := fps.One(v, t)
	ak := f.Base
	for i := int64(0); i < f.N; i++ {
		factor := fps.One(v, t)
		if ak.Power < t.Order() {
			factor = factor.Sub(fps.FromCoeffs(v, map[int64]qrat.Rat{ak.Power: ak.Coeff}, t))
		}
		result = result.Mul(factor)
		ak = ak.Mul(step)
	}
	return result
}

// aqProdInf is the local restatement of the infinite q-Pochhammer product
// used by EvalPrefactor; it mirrors internal/qseries.AQProdInfinite but
// lives here because hypergeom depends only on the lower layers
// qmono/fps/qrat/symtab, not on qseries.
func aqProdInf(v symtab.ID, a, q qmono.Mono, t fps.Truncation) fps.Series {
	if q.Power <= 0 {
		panic("hypergeom: aqProdInf requires a nome with strictly positive power")
	}
	result := fps.One(v, t)
	ak := a
	limit := t.Order()
	for ak.Power < limit {
		factor := fps.One(v, t)
		if ak.Power < t.Order() {
			factor = factor.Sub(fps.FromCoeffs(v, map[int64]qrat.Rat{ak.Power: ak.Coeff}, t))
		}
		result = result.Mul(factor)
		ak = ak.Mul(q)
	}
	return result
}

// TransformationResult is one edge of the transformation-chain graph: s
// rewritten as Prefactor * Target, with Name identifying which classical
// transformation produced it.
type TransformationResult struct {
	Name      string
	Target    Series
	Prefactor Prefactor
}

// ErrWrongShape reports that a transformation's applicability precondition
// (parameter count, balancing, well-poisedness, termination) was not met.
type ErrWrongShape struct{ Transform, Detail string }

func (e ErrWrongShape) Error() string {
	return "hypergeom: " + e.Transform + ": " + e.Detail
}

func require2phi1(s Series) (a, b, c qmono.Mono, err error) {
	if s.Kind != Basic || len(s.Upper) != 2 || len(s.Lower) != 1 {
		err = ErrWrongShape{Transform: "heine", Detail: "requires a 2phi1(a,b;c;q,z) series"}
		return
	}
	return s.Upper[0], s.Upper[1], s.Lower[0], nil
}

// Heine1 rewrites 2phi1(a,b;c;q,z) as
//
//	[(b;q)_inf (az;q)_inf] / [(c;q)_inf (z;q)_inf] * 2phi1(c/b, z; az; q, b)
func Heine1(s Series) (TransformationResult, error) {
	a, b, c, err := require2phi1(s)
	if err != nil {
		return TransformationResult{}, err
	}
	q, z := s.Nome, s.Argument
	target := NewPhi([]qmono.Mono{c.Mul(b.Inv()), z}, []qmono.Mono{a.Mul(z)}, q, b)
	pre := Prefactor{
		NumerFactors: infFactors(b, a.Mul(z)),
		DenomFactors: infFactors(c, z),
		Scalar:       qmono.New(qrat.One(), 0),
	}
	return TransformationResult{Name: "heine1", Target: target, Prefactor: pre}, nil
}

// Heine2 rewrites 2phi1(a,b;c;q,z) as
//
//	[(c/b;q)_inf (bz;q)_inf] / [(c;q)_inf (z;q)_inf] * 2phi1(abz/c, b; bz; q, c/b)
func Heine2(s Series) (TransformationResult, error) {
	a, b, c, err := require2phi1(s)
	if err != nil {
		return TransformationResult{}, err
	}
	q, z := s.Nome, s.Argument
	cOverB := c.Mul(b.Inv())
	abzOverC := a.Mul(b).Mul(z).Mul(c.Inv())
	target := NewPhi([]qmono.Mono{abzOverC, b}, []qmono.Mono{b.Mul(z)}, q, cOverB)
	pre := Prefactor{
		NumerFactors: infFactors(cOverB, b.Mul(z)),
		DenomFactors: infFactors(c, z),
		Scalar:       qmono.New(qrat.One(), 0),
	}
	return TransformationResult{Name: "heine2", Target: target, Prefactor: pre}, nil
}

// Heine3 rewrites 2phi1(a,b;c;q,z) as
//
//	(abz/c;q)_inf / (z;q)_inf * 2phi1(c/a, c/b; c; q, abz/c)
func Heine3(s Series) (TransformationResult, error) {
	a, b, c, err := require2phi1(s)
	if err != nil {
		return TransformationResult{}, err
	}
	q, z := s.Nome, s.Argument
	abzOverC := a.Mul(b).Mul(z).Mul(c.Inv())
	target := NewPhi([]qmono.Mono{c.Mul(a.Inv()), c.Mul(b.Inv())}, []qmono.Mono{c}, q, abzOverC)
	pre := Prefactor{
		NumerFactors: infFactors(abzOverC),
		DenomFactors: infFactors(z),
		Scalar:       qmono.New(qrat.One(), 0),
	}
	return TransformationResult{Name: "heine3", Target: target, Prefactor: pre}, nil
}

// isNegQPower reports whether m equals q^{-n} for some non-negative integer
// n, identifying the terminating parameter q^{-n} of a hypergeometric series.
func isNegQPower(m, q qmono.Mono) (n int64, ok bool) {
	if m.Power >= 0 || m.Power%q.Power != 0 {
		return 0, false
	}
	n = -m.Power / q.Power
	return n, m.Coeff.Equal(qrat.Pow(q.Coeff, -n))
}

// Sears applies Sears' transformation to a terminating balanced
// 4phi3(q^{-n}, a, b, c; d, e, f; q, q) series (one upper parameter equal to
// q^{-n}, argument z=q, four upper and three lower parameters), producing
//
//	[(e/a;q)_n (f/a;q)_n] / [(e;q)_n (f;q)_n] * a^n *
//	  4phi3(q^{-n}, a, d/b, d/c; d, a*q^{1-n}/e, a*q^{1-n}/f; q, q)
//
// This realizes the terminating-balanced instance of Sears' transformation,
// the case exercised by the transformation-chain search; the fully general
// multi-parameter family is not implemented.
func Sears(s Series) (TransformationResult, error) {
	if s.Kind != Basic || len(s.Upper) != 4 || len(s.Lower) != 3 {
		return TransformationResult{}, ErrWrongShape{Transform: "sears", Detail: "requires a terminating 4phi3(q^-n,a,b,c;d,e,f;q,q) series"}
	}
	q := s.Nome
	var n int64
	var a, b, c qmono.Mono
	found := false
	rest := make([]qmono.Mono, 0, 3)
	for _, u := range s.Upper {
		if nn, ok := isNegQPower(u, q); ok && !found {
			n, found = nn, true
			continue
		}
		rest = append(rest, u)
	}
	if !found || len(rest) != 3 {
		return TransformationResult{}, ErrWrongShape{Transform: "sears", Detail: "no terminating parameter q^-n found among upper parameters"}
	}
	a, b, c = rest[0], rest[1], rest[2]
	if len(s.Lower) != 3 {
		return TransformationResult{}, ErrWrongShape{Transform: "sears", Detail: "expected exactly 3 lower parameters"}
	}
	d, e, f := s.Lower[0], s.Lower[1], s.Lower[2]

	dOverB := d.Mul(b.Inv())
	dOverC := d.Mul(c.Inv())
	aq1n := a.Mul(q.Pow(1 - n))
	newE := aq1n.Mul(e.Inv())
	newF := aq1n.Mul(f.Inv())
	qNegN := qmono.New(qrat.Pow(q.Coeff, -n), -n*q.Power)
	target := NewPhi([]qmono.Mono{qNegN, a, dOverB, dOverC}, []qmono.Mono{d, newE, newF}, q, q)

	eOverA := e.Mul(a.Inv())
	fOverA := f.Mul(a.Inv())
	pre := Prefactor{
		NumerFactors: []pochhammerFactor{finiteFactor(eOverA, n), finiteFactor(fOverA, n)},
		DenomFactors: []pochhammerFactor{finiteFactor(e, n), finiteFactor(f, n)},
		Scalar:       a.Pow(n),
	}
	return TransformationResult{Name: "sears", Target: target, Prefactor: pre}, nil
}

// WatsonSource builds the very-well-poised terminating 8phi7 series
//
//	8phi7(a, q*r, -q*r, b, c, d, e, q^-n;
//	      r, -r, aq/b, aq/c, aq/d, aq/e, aq^{n+1}; q, aq^{n+2}/(bcde))
//
// where r must be supplied by the caller such that r^2 = a (the
// well-poised construction classically needs a square root of a, which is
// not in general representable by a single q-monomial and so is not solved
// for internally).
func WatsonSource(a, b, c, d, e, r, q qmono.Mono, n int64) Series {
	qr := q.Mul(r)
	negQr := qmono.New(qr.Coeff.Neg(), qr.Power)
	negR := qmono.New(r.Coeff.Neg(), r.Power)
	qNegN := qmono.New(qrat.Pow(q.Coeff, -n), -n*q.Power)
	aqOverB := a.Mul(q).Mul(b.Inv())
	aqOverC := a.Mul(q).Mul(c.Inv())
	aqOverD := a.Mul(q).Mul(d.Inv())
	aqOverE := a.Mul(q).Mul(e.Inv())
	aqn1 := a.Mul(q.Pow(n + 1))
	z := a.Mul(q.Pow(n + 2)).Mul(b.Inv()).Mul(c.Inv()).Mul(d.Inv()).Mul(e.Inv())
	upper := []qmono.Mono{a, qr, negQr, b, c, d, e, qNegN}
	lower := []qmono.Mono{r, negR, aqOverB, aqOverC, aqOverD, aqOverE, aqn1}
	return NewPhi(upper, lower, q, z)
}

// WatsonTarget applies Watson's transformation, rewriting WatsonSource's
// series as
//
//	[(aq;q)_n (aq/(de);q)_n] / [(aq/d;q)_n (aq/e;q)_n] *
//	  4phi3(aq/(bc), d, e, q^-n; aq/b, aq/c, de*q^-n/a; q, q)
func WatsonTarget(a, b, c, d, e, q qmono.Mono, n int64) (Series, Prefactor) {
	aq := a.Mul(q)
	aqOverDE := aq.Mul(d.Inv()).Mul(e.Inv())
	aqOverD := aq.Mul(d.Inv())
	aqOverE := aq.Mul(e.Inv())
	aqOverB := aq.Mul(b.Inv())
	aqOverC := aq.Mul(c.Inv())
	qNegN := qmono.New(qrat.Pow(q.Coeff, -n), -n*q.Power)
	aqOverBC := aq.Mul(b.Inv()).Mul(c.Inv())
	deQNegN := d.Mul(e).Mul(qNegN).Mul(a.Inv())

	target := NewPhi([]qmono.Mono{aqOverBC, d, e, qNegN}, []qmono.Mono{aqOverB, aqOverC, deQNegN}, q, q)
	pre := Prefactor{
		NumerFactors: []pochhammerFactor{finiteFactor(aq, n), finiteFactor(aqOverDE, n)},
		DenomFactors: []pochhammerFactor{finiteFactor(aqOverD, n), finiteFactor(aqOverE, n)},
		Scalar:       qmono.New(qrat.One(), 0),
	}
	return target, pre
}
