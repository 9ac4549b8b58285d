// Package zeilberger implements q-Zeilberger's creative-telescoping
// algorithm (the q-analogue of the WZ method): given a summand F(n,k),
// search for the minimal-order recurrence satisfied by S(n) = Sum_k F(n,k)
// together with its WZ certificate.
package zeilberger

import (
	"qkangaroo/internal/gosper"
	"qkangaroo/internal/linalg"
	"qkangaroo/internal/polyq"
	"qkangaroo/internal/qrat"
)

// maxCandidateDegree bounds the increasing-degree search for the extended
// key equation's polynomial solution, a pragmatic bound of the same kind as
// (but lower than) the one internal/gosper uses for its own key equation.
const maxCandidateDegree = 40

// Summand abstracts a q-hypergeometric summand F(n,k) via the ratios
// q-Zeilberger actually needs, since the algorithm runs at a concrete
// rational nome rather than deriving a symbolic-in-q recurrence.
type Summand struct {
	QVal qrat.Rat
	// Eval returns F(n,k), needed only for certificate verification, not
	// for the recurrence search itself.
	Eval func(n, k int64) qrat.Rat
	// KRatio returns F(n,k+1)/F(n,k) as a rational function of x=q^k.
	KRatio func(n int64) polyq.RationalFunc
	// NRatio returns F(n+j,k)/F(n,k) as a rational function of x=q^k.
	NRatio func(n int64, j int64) polyq.RationalFunc
}

// Outcome distinguishes a found recurrence from a proven absence of one
// within the searched order bound.
type Outcome int

const (
	HasRecurrence Outcome = iota
	NoRecurrence
)

// Result is q-Zeilberger's verdict for one concrete n. Coefficients and
// Certificate are valid at this n; a caller needing the recurrence at
// several n values re-runs Zeilberger at each, since the extended key
// equation is solved at a single n throughout (per internal/chenhoumu's use
// of this package).
type Result struct {
	Outcome      Outcome
	Order        int
	Coefficients []qrat.Rat
	Certificate  polyq.RationalFunc
}

func lcmPoly(a, b polyq.Poly) polyq.Poly {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	g := polyq.GCD(a, b)
	prod := a.Mul(b)
	quot, err := polyq.ExactDiv(prod, g)
	if err != nil {
		return prod
	}
	return quot
}

// Zeilberger searches orders 1..maxOrder for a recurrence satisfied by
// S(n) = Sum_k F(n,k), at the concrete n supplied.
func Zeilberger(sum Summand, n int64, maxOrder int) (Result, error) {
	for d := 1; d <= maxOrder; d++ {
		ratios := make([]polyq.RationalFunc, d+1)
		for j := 0; j <= d; j++ {
			ratios[j] = sum.NRatio(n, int64(j))
		}
		kRatio := sum.KRatio(n)
		nf, err := gosper.ComputeNormalForm(kRatio, sum.QVal)
		if err != nil {
			continue
		}
		l := polyq.New(qrat.One())
		for _, r := range ratios {
			l = lcmPoly(l, r.Denom)
		}
		sigmaL := l.Mul(nf.Sigma)
		tauL := l.Mul(nf.Tau)
		tauC := nf.Tau.Mul(nf.C)
		qs := make([]polyq.Poly, d+1)
		for j, r := range ratios {
			quot, err := polyq.ExactDiv(l, r.Denom)
			if err != nil {
				continue
			}
			qs[j] = quot.Mul(r.Numer)
		}
		if res, ok := trySolve(sigmaL, tauL, tauC, qs, nf, sum.QVal); ok {
			return res, nil
		}
	}
	return Result{Outcome: NoRecurrence}, nil
}

func trySolve(sigmaL, tauL, tauC polyq.Poly, qs []polyq.Poly, nf gosper.NormalForm, qVal qrat.Rat) (Result, bool) {
	for degree := 0; degree <= maxCandidateDegree; degree++ {
		m := buildExtendedSystem(sigmaL, tauL, tauC, qs, qVal, degree)
		for _, v := range linalg.NullSpaceBasis(m) {
			fPart := v[:degree+1]
			cPart := v[degree+1:]
			if res, ok := normalizeAndBuild(fPart, cPart, nf); ok {
				return res, true
			}
		}
	}
	return Result{}, false
}

func buildExtendedSystem(sigmaL, tauL, tauC polyq.Poly, qs []polyq.Poly, qVal qrat.Rat, degree int) linalg.Matrix {
	tqs := make([]polyq.Poly, len(qs))
	maxDeg := sigmaL.Degree() + degree
	if x := tauL.Degree() + degree; x > maxDeg {
		maxDeg = x
	}
	for j, q := range qs {
		tqs[j] = tauC.Mul(q)
		if tqs[j].Degree() > maxDeg {
			maxDeg = tqs[j].Degree()
		}
	}
	rows := maxDeg + 1
	cols := degree + 1 + len(qs)
	m := linalg.NewMatrix(rows, cols)
	qpow := make([]qrat.Rat, degree+1)
	qpow[0] = qrat.One()
	for i := 1; i <= degree; i++ {
		qpow[i] = qpow[i-1].Mul(qVal)
	}
	for k := 0; k < rows; k++ {
		for i := 0; i <= degree; i++ {
			m.Data[k][i] = sigmaL.At(k - i).Mul(qpow[i]).Sub(tauL.At(k - i))
		}
		for j, tq := range tqs {
			m.Data[k][degree+1+j] = tq.At(k).Neg()
		}
	}
	return m
}

// normalizeAndBuild accepts a null-space vector only when its highest-order
// coefficient c_d is nonzero: a vector with c_d == 0 solves some lower-order
// relation that the outer order-search loop already tried (or will try) on
// its own terms, not a genuine order-d recurrence.
func normalizeAndBuild(fPart, cPart []qrat.Rat, nf gosper.NormalForm) (Result, bool) {
	pivot := len(cPart) - 1
	if cPart[pivot].IsZero() {
		return Result{}, false
	}
	inv := cPart[pivot].Inv()
	fNorm := make([]qrat.Rat, len(fPart))
	for i, v := range fPart {
		fNorm[i] = v.Mul(inv)
	}
	cNorm := make([]qrat.Rat, len(cPart))
	for i, v := range cPart {
		cNorm[i] = v.Mul(inv)
	}
	fPoly := polyq.New(fNorm...)
	certNumer := fPoly.Mul(nf.Tau)
	var cert polyq.RationalFunc
	if nf.C.IsZero() {
		cert = polyq.NewRationalFunc(polyq.Zero(), polyq.New(qrat.One()))
	} else {
		cert = polyq.NewRationalFunc(certNumer, nf.C)
	}
	return Result{
		Outcome:      HasRecurrence,
		Order:        len(cPart) - 1,
		Coefficients: cNorm,
		Certificate:  cert,
	}, true
}

// VerifyWZCertificate independently checks, over k = 0..kMax-1, that
// Sum_j coefficients[j]*F(n+j,k) == certificate(q^{k+1})*F(n,k+1) -
// certificate(q^k)*F(n,k), by direct evaluation.
func VerifyWZCertificate(sum Summand, n int64, coefficients []qrat.Rat, certificate polyq.RationalFunc, kMax int64) bool {
	for k := int64(0); k < kMax; k++ {
		lhs := qrat.Zero()
		for j, c := range coefficients {
			lhs = lhs.Add(c.Mul(sum.Eval(n+int64(j), k)))
		}
		xk := qrat.Pow(sum.QVal, k)
		xk1 := qrat.Pow(sum.QVal, k+1)
		rk := certificate.Eval(xk)
		rk1 := certificate.Eval(xk1)
		rhs := rk1.Mul(sum.Eval(n, k+1)).Sub(rk.Mul(sum.Eval(n, k)))
		if !lhs.Equal(rhs) {
			return false
		}
	}
	return true
}

// FPSCrossVerify checks the discovered recurrence against an independently
// computed closed-form or series-expanded S(n), without referring back to
// the key-equation derivation at all.
func FPSCrossVerify(coefficients []qrat.Rat, sumAt func(n int64) qrat.Rat, n int64) bool {
	acc := qrat.Zero()
	for j, c := range coefficients {
		acc = acc.Add(c.Mul(sumAt(n + int64(j))))
	}
	return acc.IsZero()
}
