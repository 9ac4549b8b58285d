package qseries

import (
	"qkangaroo/internal/fps"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

// PartitionGF returns 1/(q;q)_infty, the ordinary partition generating
// function, truncated at order T.
func PartitionGF(v symtab.ID, t fps.Truncation) (fps.Series, error) {
	q := qmono.New(qrat.One(), 1)
	inf := AQProdInfinite(v, q, q, t)
	return inf.Invert()
}

// DistinctPartsGF returns (-q;q)_infty, the generating function for
// partitions into distinct parts.
func DistinctPartsGF(v symtab.ID, t fps.Truncation) fps.Series {
	q := qmono.New(qrat.One(), 1)
	negQ := qmono.New(qrat.FromInt64(-1), 1)
	return AQProdInfinite(v, negQ, q, t)
}

// OddPartsGF returns 1/(q;q^2)_infty, the generating function for partitions
// into odd parts; by Euler's theorem this equals DistinctPartsGF.
func OddPartsGF(v symtab.ID, t fps.Truncation) (fps.Series, error) {
	q := qmono.New(qrat.One(), 1)
	q2 := qmono.New(qrat.One(), 2)
	inf := AQProdInfinite(v, q, q2, t)
	return inf.Invert()
}

// BoundedPartsGF returns the generating function for partitions into parts
// of size at most m: prod_{k=1}^{m} 1/(1-q^k), returned as an exact rational
// function realized as a series truncated at order T.
func BoundedPartsGF(v symtab.ID, m int64, t fps.Truncation) (fps.Series, error) {
	result := fps.One(v, t)
	for k := int64(1); k <= m; k++ {
		factor := qmono.New(qrat.One(), k)
		den := monoFactor(v, factor)
		den = capTruncation(den, t)
		inv, err := den.Invert()
		if err != nil {
			return fps.Series{}, err
		}
		result = result.Mul(inv)
	}
	return result, nil
}

// RankGF returns the two-variable partition rank generating function
// specialized at a fixed z-monomial (the rank-tracking variable bound to a
// concrete q-monomial the same way every generator in this package binds its
// parameters): sum_{n>=0} q^{n^2} / ((z*q;q)_n * (q/z;q)_n).
func RankGF(v symtab.ID, z qmono.Mono, t fps.Truncation) (fps.Series, error) {
	q := qmono.New(qrat.One(), 1)
	result := fps.Zero(v, t)
	limit := t.Order()
	for n := int64(0); n*n < limit; n++ {
		numer := monoSeries(v, qmono.New(qrat.One(), n*n), t)
		zq := z.Mul(q)
		d1, err := AQProd(v, zq, q, n, t)
		if err != nil {
			return fps.Series{}, err
		}
		qOverZ := q.Mul(z.Inv())
		d2, err := AQProd(v, qOverZ, q, n, t)
		if err != nil {
			return fps.Series{}, err
		}
		denom := d1.Mul(d2)
		denom = capTruncation(denom, t)
		invDenom, err := denom.Invert()
		if err != nil {
			continue // term vanishes identically at this order; skip rather than fail
		}
		term := numer.Mul(invDenom)
		result = result.Add(term)
	}
	return result, nil
}

func monoSeries(v symtab.ID, m qmono.Mono, t fps.Truncation) fps.Series {
	s := fps.Zero(v, t)
	if m.Power < t.Order() {
		s.Coeffs[m.Power] = m.Coeff
	}
	return s
}

// CrankGF returns the partition crank generating function specialized at z:
// (q;q)_infty / ((z*q;q)_infty * (q/z;q)_infty).
func CrankGF(v symtab.ID, z qmono.Mono, t fps.Truncation) (fps.Series, error) {
	q := qmono.New(qrat.One(), 1)
	numer := AQProdInfinite(v, q, q, t)
	zq := z.Mul(q)
	d1 := AQProdInfinite(v, zq, q, t)
	qOverZ := q.Mul(z.Inv())
	d2 := AQProdInfinite(v, qOverZ, q, t)
	denom := d1.Mul(d2)
	inv, err := denom.Invert()
	if err != nil {
		return fps.Series{}, err
	}
	return numer.Mul(inv), nil
}
