package mocktheta

import (
	"qkangaroo/internal/fps"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

// ThirdOrderF returns Ramanujan's third-order mock theta function
//
//	f(q) = sum_{n=0}^inf q^{n^2} / (-q;q)_n^2
func ThirdOrderF(v symtab.ID, t fps.Truncation) (fps.Series, error) {
	q := qmono.New(qrat.One(), 1)
	negQ := qmono.New(qrat.FromInt64(-1), 1)
	return sumUntilExhausted(v, t,
		func(n int64) int64 { return n * n },
		func(n int64) (fps.Series, error) {
			numer := termSeries(v, qmono.New(qrat.One(), n*n), t)
			denom, err := finitePochhammer(v, negQ, q, n, t)
			if err != nil {
				return fps.Series{}, err
			}
			sq := denom.Mul(denom)
			inv, err := sq.Invert()
			if err != nil {
				return fps.Series{}, err
			}
			return numer.Mul(inv), nil
		})
}

// ThirdOrderPhi returns phi(q) = sum_{n=0}^inf q^{n^2} / (-q^2;q^2)_n.
func ThirdOrderPhi(v symtab.ID, t fps.Truncation) (fps.Series, error) {
	q2 := qmono.New(qrat.One(), 2)
	negQ2 := qmono.New(qrat.FromInt64(-1), 2)
	return sumUntilExhausted(v, t,
		func(n int64) int64 { return n * n },
		func(n int64) (fps.Series, error) {
			numer := termSeries(v, qmono.New(qrat.One(), n*n), t)
			denom, err := finitePochhammer(v, negQ2, q2, n, t)
			if err != nil {
				return fps.Series{}, err
			}
			inv, err := denom.Invert()
			if err != nil {
				return fps.Series{}, err
			}
			return numer.Mul(inv), nil
		})
}

// ThirdOrderPsi returns psi(q) = sum_{n=0}^inf q^{n(n+1)} / (q;q^2)_{n+1}.
func ThirdOrderPsi(v symtab.ID, t fps.Truncation) (fps.Series, error) {
	q := qmono.New(qrat.One(), 1)
	q2 := qmono.New(qrat.One(), 2)
	return sumUntilExhausted(v, t,
		func(n int64) int64 { return n * (n + 1) },
		func(n int64) (fps.Series, error) {
			numer := termSeries(v, qmono.New(qrat.One(), n*(n+1)), t)
			denom, err := finitePochhammer(v, q, q2, n+1, t)
			if err != nil {
				return fps.Series{}, err
			}
			inv, err := denom.Invert()
			if err != nil {
				return fps.Series{}, err
			}
			return numer.Mul(inv), nil
		})
}

// ThirdOrderChi returns chi(q) = sum_{n=0}^inf q^{n^2} (-q;q)_n / (-q^3;q^3)_n.
func ThirdOrderChi(v symtab.ID, t fps.Truncation) (fps.Series, error) {
	q := qmono.New(qrat.One(), 1)
	q3 := qmono.New(qrat.One(), 3)
	negQ := qmono.New(qrat.FromInt64(-1), 1)
	negQ3 := qmono.New(qrat.FromInt64(-1), 3)
	return sumUntilExhausted(v, t,
		func(n int64) int64 { return n * n },
		func(n int64) (fps.Series, error) {
			numer := termSeries(v, qmono.New(qrat.One(), n*n), t)
			numerPoch, err := finitePochhammer(v, negQ, q, n, t)
			if err != nil {
				return fps.Series{}, err
			}
			denom, err := finitePochhammer(v, negQ3, q3, n, t)
			if err != nil {
				return fps.Series{}, err
			}
			inv, err := denom.Invert()
			if err != nil {
				return fps.Series{}, err
			}
			return numer.Mul(numerPoch).Mul(inv), nil
		})
}

// FifthOrderF0 returns the fifth-order mock theta function
//
//	f0(q) = sum_{n=0}^inf q^{n^2} / (-q;q)_n
func FifthOrderF0(v symtab.ID, t fps.Truncation) (fps.Series, error) {
	q := qmono.New(qrat.One(), 1)
	negQ := qmono.New(qrat.FromInt64(-1), 1)
	return sumUntilExhausted(v, t,
		func(n int64) int64 { return n * n },
		func(n int64) (fps.Series, error) {
			numer := termSeries(v, qmono.New(qrat.One(), n*n), t)
			denom, err := finitePochhammer(v, negQ, q, n, t)
			if err != nil {
				return fps.Series{}, err
			}
			inv, err := denom.Invert()
			if err != nil {
				return fps.Series{}, err
			}
			return numer.Mul(inv), nil
		})
}

// FifthOrderF1 returns the fifth-order mock theta function
//
//	f1(q) = sum_{n=0}^inf q^{n(n+1)} / (-q;q)_n
func FifthOrderF1(v symtab.ID, t fps.Truncation) (fps.Series, error) {
	q := qmono.New(qrat.One(), 1)
	negQ := qmono.New(qrat.FromInt64(-1), 1)
	return sumUntilExhausted(v, t,
		func(n int64) int64 { return n * (n + 1) },
		func(n int64) (fps.Series, error) {
			numer := termSeries(v, qmono.New(qrat.One(), n*(n+1)), t)
			denom, err := finitePochhammer(v, negQ, q, n, t)
			if err != nil {
				return fps.Series{}, err
			}
			inv, err := denom.Invert()
			if err != nil {
				return fps.Series{}, err
			}
			return numer.Mul(inv), nil
		})
}
