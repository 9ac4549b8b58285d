package qseries

import (
	"qkangaroo/internal/fps"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

// EtaQ returns (q^b; q^t)_infty truncated at order T: the
// single-delta eta-style infinite product. v is the implicit power-series
// variable and qCoeff is the concrete rational value bound to the nome q in
// the caller's current evaluation (e.g. qCoeff = 1 for formal v-expansions).
func EtaQ(v symtab.ID, b, tStep int64, qCoeff qrat.Rat, t fps.Truncation) fps.Series {
	a := qmono.New(qrat.Pow(qCoeff, b), b)
	step := qmono.New(qrat.Pow(qCoeff, tStep), tStep)
	return AQProdInfinite(v, a, step, t)
}

// EtaQMulti multiplies EtaQ over several (b, tStep) pairs, the multi-delta
// form used to build eta quotients.
func EtaQMulti(v symtab.ID, deltas [][2]int64, qCoeff qrat.Rat, t fps.Truncation) fps.Series {
	result := fps.One(v, t)
	for _, d := range deltas {
		result = result.Mul(EtaQ(v, d[0], d[1], qCoeff, t))
	}
	return result
}

// TripleProd computes the Jacobi triple product
//
//	sum_{n=-inf}^{inf} z^n q^{n^2} = (q^2;q^2)_inf * (-z*q;q^2)_inf * (-q/z;q^2)_inf
//
// as a bilateral series truncated to order T in the formal variable v, with
// z and q bound to concrete q-monomials.
func TripleProd(v symtab.ID, z, q qmono.Mono, t fps.Truncation) fps.Series {
	qq := q.Mul(q) // q^2
	left := AQProdInfinite(v, qq, qq, t)
	zq := z.Mul(q).Mul(qmono.New(qrat.FromInt64(-1), 0))
	mid := AQProdInfinite(v, zq, qq, t)
	qOverZ := q.Mul(z.Inv()).Mul(qmono.New(qrat.FromInt64(-1), 0))
	right := AQProdInfinite(v, qOverZ, qq, t)
	return left.Mul(mid).Mul(right)
}

// QuinProd computes the quintuple product identity's right-hand side,
// (q^2;q^2)_inf * (z*q;q^2)_inf * (q/z;q^2)_inf * (z^2*q^2;q^4)_inf *
// (q^2/z^2;q^4)_inf, truncated at order T.
func QuinProd(v symtab.ID, z, q qmono.Mono, t fps.Truncation) fps.Series {
	qq := q.Mul(q)
	qqqq := qq.Mul(qq)
	f1 := AQProdInfinite(v, qq, qq, t)
	f2 := AQProdInfinite(v, z.Mul(q), qq, t)
	f3 := AQProdInfinite(v, q.Mul(z.Inv()), qq, t)
	z2 := z.Mul(z)
	f4 := AQProdInfinite(v, z2.Mul(qq), qqqq, t)
	f5 := AQProdInfinite(v, qq.Mul(z2.Inv()), qqqq, t)
	return f1.Mul(f2).Mul(f3).Mul(f4).Mul(f5)
}

// Winquist computes Winquist's identity product form
//
//	(a;q)_inf (q/a;q)_inf (b;q)_inf (q/b;q)_inf (ab;q)_inf (q/(ab);q)_inf
//	  (a/b;q)_inf (bq/a;q)_inf (q;q)_inf^2
//
// truncated at order T.
func Winquist(v symtab.ID, a, b, q qmono.Mono, t fps.Truncation) fps.Series {
	factors := []qmono.Mono{
		a, q.Mul(a.Inv()),
		b, q.Mul(b.Inv()),
		a.Mul(b), q.Mul(a.Mul(b).Inv()),
		a.Mul(b.Inv()), b.Mul(q).Mul(a.Inv()),
	}
	result := fps.One(v, t)
	for _, f := range factors {
		result = result.Mul(AQProdInfinite(v, f, q, t))
	}
	qqInf := AQProdInfinite(v, q, q, t)
	result = result.Mul(qqInf).Mul(qqInf)
	return result
}

// Jacprod returns JAC(a,b) = (q^a;q^b)_inf * (q^{b-a};q^b)_inf * (q^b;q^b)_inf
// for 0 < a < b, truncated at order T. This is the core primitive; the
// ratio form JAC(a,b)/JAC(b,3b) used by the "JacExpression" evaluator
// function is built from it at the evaluator dispatch layer, not here.
func Jacprod(v symtab.ID, a, b int64, qCoeff qrat.Rat, t fps.Truncation) fps.Series {
	if a <= 0 || a >= b {
		panic("qseries: Jacprod requires 0 < a < b")
	}
	qb := qmono.New(qrat.Pow(qCoeff, b), b)
	f1 := EtaQ(v, a, b, qCoeff, t)
	f2 := EtaQ(v, b-a, b, qCoeff, t)
	f3 := AQProdInfinite(v, qb, qb, t)
	return f1.Mul(f2).Mul(f3)
}

// Theta3 and Theta4 are classical Jacobi theta functions evaluated as
// bilateral q-series truncated to order T:
//
//	theta3(q) = sum_{n=-inf}^{inf} q^{n^2}
//	theta4(q) = sum_{n=-inf}^{inf} (-1)^n q^{n^2}
//
// Theta3 goes through the general bilateral sum Theta; Theta4 adds its
// terms directly. This package has no theta2.
func Theta3(v symtab.ID, t fps.Truncation) fps.Series {
	return Theta(v, qmono.New(qrat.One(), 0), 1, t)
}

func Theta4(v symtab.ID, t fps.Truncation) fps.Series {
	// theta4(q) = 1 + 2*sum_{n=1}^{inf} (-1)^n q^{n^2}; the n and -n terms of
	// the bilateral sum are equal since (-1)^n = (-1)^{-n} and n^2=(-n)^2.
	s := fps.Zero(v, t)
	limit := t.Order()
	s.Coeffs[0] = qrat.One()
	for n := int64(1); n*n < limit; n++ {
		sign := qrat.FromInt64(1)
		if n%2 == 1 {
			sign = sign.Neg()
		}
		s.Coeffs[n*n] = s.Coeff(n*n).Add(sign.Mul(qrat.FromInt64(2)))
	}
	return s
}

// Theta is the general bilateral sum sum_{n=-inf}^{inf} z^n * q^{f(n)} where
// f(n)=n^2 is fixed to the classical quadratic exponent; z's
// power scales the monomial exponent per term, q's power scales n^2.
func Theta(v symtab.ID, z qmono.Mono, qPower int64, t fps.Truncation) fps.Series {
	s := fps.Zero(v, t)
	limit := t.Order()
	addTermAt(s, z.Pow(0), 0)
	for n := int64(1); n*n*qPower < limit; n++ {
		addTermAt(s, z.Pow(n), qPower*n*n)
		addTermAt(s, z.Pow(-n), qPower*n*n)
	}
	return s
}

func addTermAt(s fps.Series, term qmono.Mono, extraPower int64) {
	e := term.Power + extraPower
	if e >= s.Trunc.Order() {
		return
	}
	s.Coeffs[e] = s.Coeff(e).Add(term.Coeff)
}
