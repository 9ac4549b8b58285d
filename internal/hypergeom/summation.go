package hypergeom

import (
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
)

// SummationResult is a closed-form evaluation of a hypergeometric series
// matching one of the classical summation theorems, expressed as a
// Prefactor (a ratio of q-Pochhammer symbols) rather than a further series.
type SummationResult struct {
	Name      string
	Prefactor Prefactor
}

// ErrNoSummation reports that none of the catalogued summation theorems
// matched s's parameter pattern.
type ErrNoSummation struct{ Detail string }

func (e ErrNoSummation) Error() string { return "hypergeom: no summation theorem matched: " + e.Detail }

// TrySummation attempts to match s against the q-Gauss, q-Vandermonde,
// q-Saalschutz, and q-Kummer (Bailey-Daum) summation theorems in that order,
// returning the first match's closed form. q-Dixon's well-poised sum is not
// attempted: like Watson's transformation it needs an externally supplied
// square root of a parameter that a Series alone cannot carry.
func TrySummation(s Series) (SummationResult, error) {
	if res, err := tryQGauss(s); err == nil {
		return res, nil
	}
	if res, err := tryQVandermonde(s); err == nil {
		return res, nil
	}
	if res, err := tryQSaalschutz(s); err == nil {
		return res, nil
	}
	if res, err := tryQKummer(s); err == nil {
		return res, nil
	}
	return SummationResult{}, ErrNoSummation{Detail: s.CanonicalKey()}
}

// tryQGauss matches the nonterminating q-Gauss sum
//
//	2phi1(a,b;c;q,c/(ab)) = (c/a;q)_inf (c/b;q)_inf / [(c;q)_inf (c/(ab);q)_inf]
func tryQGauss(s Series) (SummationResult, error) {
	a, b, c, err := require2phi1(s)
	if err != nil {
		return SummationResult{}, err
	}
	if _, ok := isNegQPower(a, s.Nome); ok {
		return SummationResult{}, ErrNoSummation{Detail: "q-Gauss: terminating series"}
	}
	if _, ok := isNegQPower(b, s.Nome); ok {
		return SummationResult{}, ErrNoSummation{Detail: "q-Gauss: terminating series"}
	}
	want := c.Mul(a.Inv()).Mul(b.Inv())
	if !s.Argument.Equal(want) {
		return SummationResult{}, ErrNoSummation{Detail: "q-Gauss: argument mismatch"}
	}
	pre := Prefactor{
		NumerFactors: infFactors(c.Mul(a.Inv()), c.Mul(b.Inv())),
		DenomFactors: infFactors(c, want),
		Scalar:       qmono.New(qrat.One(), 0),
	}
	return SummationResult{Name: "q-gauss", Prefactor: pre}, nil
}

// tryQVandermonde matches the terminating q-Vandermonde sum
//
//	2phi1(q^-n,b;c;q,c*q^n/b) = (c/b;q)_n / (c;q)_n
func tryQVandermonde(s Series) (SummationResult, error) {
	a, b, c, err := require2phi1(s)
	if err != nil {
		return SummationResult{}, err
	}
	q := s.Nome
	n, ok := isNegQPower(a, q)
	if !ok {
		n, ok = isNegQPower(b, q)
		if ok {
			b = a
		}
	}
	if !ok {
		return SummationResult{}, ErrNoSummation{Detail: "q-Vandermonde: no q^-n upper parameter"}
	}
	want := c.Mul(q.Pow(n)).Mul(b.Inv())
	if !s.Argument.Equal(want) {
		return SummationResult{}, ErrNoSummation{Detail: "q-Vandermonde: argument mismatch"}
	}
	pre := Prefactor{
		NumerFactors: []pochhammerFactor{finiteFactor(c.Mul(b.Inv()), n)},
		DenomFactors: []pochhammerFactor{finiteFactor(c, n)},
		Scalar:       qmono.New(qrat.One(), 0),
	}
	return SummationResult{Name: "q-vandermonde", Prefactor: pre}, nil
}

// tryQSaalschutz matches the terminating balanced 3phi2 sum
//
//	3phi2(q^-n,a,b; c, abq^{1-n}/c; q,q) = (c/a;q)_n (c/b;q)_n / [(c;q)_n (c/(ab);q)_n]
func tryQSaalschutz(s Series) (SummationResult, error) {
	if s.Kind != Basic || len(s.Upper) != 3 || len(s.Lower) != 2 {
		return SummationResult{}, ErrNoSummation{Detail: "q-Saalschutz: wrong shape"}
	}
	q := s.Nome
	var n int64
	found := false
	rest := make([]qmono.Mono, 0, 2)
	for _, u := range s.Upper {
		if nn, ok := isNegQPower(u, q); ok && !found {
			n, found = nn, true
			continue
		}
		rest = append(rest, u)
	}
	if !found || len(rest) != 2 {
		return SummationResult{}, ErrNoSummation{Detail: "q-Saalschutz: no terminating parameter"}
	}
	a, b := rest[0], rest[1]
	abq1n := a.Mul(b).Mul(q.Pow(1 - n))
	var c qmono.Mono
	matches := 0
	for _, lo := range s.Lower {
		if lo.Equal(abq1n) {
			matches++
			continue
		}
		c = lo
	}
	if matches != 1 {
		return SummationResult{}, ErrNoSummation{Detail: "q-Saalschutz: lower parameters do not balance"}
	}
	cOverAB := c.Mul(a.Inv()).Mul(b.Inv())
	if !s.Argument.Equal(q) {
		return SummationResult{}, ErrNoSummation{Detail: "q-Saalschutz: argument must be q"}
	}
	pre := Prefactor{
		NumerFactors: []pochhammerFactor{finiteFactor(c.Mul(a.Inv()), n), finiteFactor(c.Mul(b.Inv()), n)},
		DenomFactors: []pochhammerFactor{finiteFactor(c, n), finiteFactor(cOverAB, n)},
		Scalar:       qmono.New(qrat.One(), 0),
	}
	return SummationResult{Name: "q-saalschutz", Prefactor: pre}, nil
}

// tryQKummer matches the Bailey-Daum (q-Kummer) sum
//
//	2phi1(a,b;aq/b;q,-q/b) =
//	  (-q;q)_inf (aq;q^2)_inf (aq^2/b^2;q^2)_inf / [(aq/b;q)_inf (-q/b;q)_inf]
func tryQKummer(s Series) (SummationResult, error) {
	a, b, c, err := require2phi1(s)
	if err != nil {
		return SummationResult{}, err
	}
	q := s.Nome
	if !c.Equal(a.Mul(q).Mul(b.Inv())) {
		return SummationResult{}, ErrNoSummation{Detail: "q-Kummer: c must equal aq/b"}
	}
	want := qmono.New(qrat.FromInt64(-1), 0).Mul(q).Mul(b.Inv())
	if !s.Argument.Equal(want) {
		return SummationResult{}, ErrNoSummation{Detail: "q-Kummer: argument must be -q/b"}
	}
	q2 := q.Mul(q)
	negQ := qmono.New(qrat.FromInt64(-1), q.Power)
	negQOverB := negQ.Mul(b.Inv())
	b2 := b.Mul(b)
	aq := a.Mul(q)
	aq2OverB2 := a.Mul(q2).Mul(b2.Inv())
	pre := Prefactor{
		NumerFactors: []pochhammerFactor{
			infFactorStep(negQ, 1),
			infFactorStep(aq, 2),
			infFactorStep(aq2OverB2, 2),
		},
		DenomFactors: infFactors(c, negQOverB),
		Scalar:       qmono.New(qrat.One(), 0),
	}
	return SummationResult{Name: "q-kummer", Prefactor: pre}, nil
}
