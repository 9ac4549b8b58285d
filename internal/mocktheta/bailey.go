package mocktheta

import (
	"qkangaroo/internal/fps"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

// BaileyPair is a pair of sequences (alpha_n, beta_n) relative to a base A,
// related by beta_n = sum_{r=0}^n alpha_r / ((q;q)_{n-r} (Aq;q)_{n+r}).
type BaileyPair struct {
	A     qmono.Mono
	Alpha func(n int64) fps.Series
	Beta  func(n int64) fps.Series
}

// UnitBaileyPair returns the classical unit Bailey pair relative to A=1:
//
//	alpha_0 = 1, alpha_n = (-1)^n q^{n(n-1)/2} (1+q^n) for n>=1
//	beta_0 = 1, beta_n = 0 for n>=1
func UnitBaileyPair(v symtab.ID, t fps.Truncation) BaileyPair {
	q := qmono.New(qrat.One(), 1)
	return BaileyPair{
		A: qmono.New(qrat.One(), 0),
		Alpha: func(n int64) fps.Series {
			if n == 0 {
				return fps.One(v, t)
			}
			sign := qrat.FromInt64(1)
			if n%2 != 0 {
				sign = sign.Neg()
			}
			exp := n * (n - 1) / 2
			s := fps.Zero(v, t)
			if exp < t.Order() {
				s.Coeffs[exp] = sign
			}
			qn := q.Pow(n)
			if exp+qn.Power < t.Order() {
				s.Coeffs[exp+qn.Power] = s.Coeff(exp + qn.Power).Add(sign)
			}
			return s
		},
		Beta: func(n int64) fps.Series {
			if n == 0 {
				return fps.One(v, t)
			}
			return fps.Zero(v, t)
		},
	}
}

// VerifyBaileyPair checks the defining relation of bp for n=0..upTo,
// returning false at the first n where it fails to the given truncation.
func VerifyBaileyPair(v symtab.ID, q qmono.Mono, bp BaileyPair, upTo int64, t fps.Truncation) (bool, error) {
	for n := int64(0); n <= upTo; n++ {
		sum := fps.Zero(v, t)
		for r := int64(0); r <= n; r++ {
			qqNr, err := finitePochhammer(v, q, q, n-r, t)
			if err != nil {
				return false, err
			}
			aqNr, err := finitePochhammer(v, bp.A.Mul(q), q, n+r, t)
			if err != nil {
				return false, err
			}
			denom := qqNr.Mul(aqNr)
			inv, err := denom.Invert()
			if err != nil {
				return false, err
			}
			sum = sum.Add(bp.Alpha(r).Mul(inv))
		}
		if !sum.Equal(bp.Beta(n)) {
			return false, nil
		}
	}
	return true, nil
}

// BaileyLemma applies Bailey's lemma to bp with free parameters rho1, rho2,
// producing a new Bailey pair relative to the same base A:
//
//	alpha'_n = (rho1;q)_n (rho2;q)_n (Aq/(rho1*rho2))^n / [(Aq/rho1;q)_n (Aq/rho2;q)_n] * alpha_n
//	beta'_n  = sum_{j=0}^n (rho1;q)_j (rho2;q)_j (Aq/(rho1*rho2);q)_{n-j} (Aq/(rho1*rho2))^j /
//	             [(Aq/rho1;q)_n (Aq/rho2;q)_n (q;q)_{n-j}] * beta_j
func BaileyLemma(v symtab.ID, q qmono.Mono, bp BaileyPair, rho1, rho2 qmono.Mono, t fps.Truncation) BaileyPair {
	a := bp.A
	aqOverRho1Rho2 := a.Mul(q).Mul(rho1.Inv()).Mul(rho2.Inv())
	aqOverRho1 := a.Mul(q).Mul(rho1.Inv())
	aqOverRho2 := a.Mul(q).Mul(rho2.Inv())

	alphaP := func(n int64) fps.Series {
		r1n, err1 := finitePochhammer(v, rho1, q, n, t)
		r2n, err2 := finitePochhammer(v, rho2, q, n, t)
		d1n, err3 := finitePochhammer(v, aqOverRho1, q, n, t)
		d2n, err4 := finitePochhammer(v, aqOverRho2, q, n, t)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return fps.Zero(v, t)
		}
		denom := d1n.Mul(d2n)
		inv, err := denom.Invert()
		if err != nil {
			return fps.Zero(v, t)
		}
		scalar := termSeries(v, aqOverRho1Rho2.Pow(n), t)
		return r1n.Mul(r2n).Mul(scalar).Mul(inv).Mul(bp.Alpha(n))
	}

	betaP := func(n int64) fps.Series {
		d1n, err1 := finitePochhammer(v, aqOverRho1, q, n, t)
		d2n, err2 := finitePochhammer(v, aqOverRho2, q, n, t)
		if err1 != nil || err2 != nil {
			return fps.Zero(v, t)
		}
		outerDenom := d1n.Mul(d2n)
		outerInv, err := outerDenom.Invert()
		if err != nil {
			return fps.Zero(v, t)
		}
		sum := fps.Zero(v, t)
		for j := int64(0); j <= n; j++ {
			r1j, e1 := finitePochhammer(v, rho1, q, j, t)
			r2j, e2 := finitePochhammer(v, rho2, q, j, t)
			mid, e3 := finitePochhammer(v, aqOverRho1Rho2, q, n-j, t)
			qq, e4 := finitePochhammer(v, q, q, n-j, t)
			if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
				continue
			}
			qqInv, err := qq.Invert()
			if err != nil {
				continue
			}
			scalar := termSeries(v, aqOverRho1Rho2.Pow(j), t)
			term := r1j.Mul(r2j).Mul(mid).Mul(scalar).Mul(qqInv).Mul(bp.Beta(j))
			sum = sum.Add(term)
		}
		return sum.Mul(outerInv)
	}

	return BaileyPair{A: a, Alpha: alphaP, Beta: betaP}
}

// BaileyChain iterates BaileyLemma depth times with the same parameters,
// the construction underlying Rogers-Ramanujan-type identity families.
func BaileyChain(v symtab.ID, q qmono.Mono, bp BaileyPair, rho1, rho2 qmono.Mono, depth int, t fps.Truncation) BaileyPair {
	for i := 0; i < depth; i++ {
		bp = BaileyLemma(v, q, bp, rho1, rho2, t)
	}
	return bp
}
