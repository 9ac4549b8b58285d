package mocktheta

import (
	"qkangaroo/internal/fps"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

// AppellLerchSum computes a truncated approximation to the Appell-Lerch sum
//
//	m(x,q,z) = 1/j(z;q) * sum_{n=-inf}^{inf} (-1)^n q^{n(n-1)/2} z^n / (1 - x*q^{n-1}*z)
//
// restricted to the symmetric window -window..window and with the leading
// theta-quotient 1/j(z;q) omitted (callers needing the full normalization
// multiply the result by j(z;q)'s inverse themselves via qseries.TripleProd).
// This is the single building block every mock theta function can in
// principle be expressed through; the classical named functions in
// catalogue.go are given directly by their defining basic hypergeometric
// sums instead; treat this as a general-purpose but best-effort evaluator
// for Appell-Lerch-form identities rather than a fully convergence-proof
// bilateral summation.
func AppellLerchSum(v symtab.ID, x, q, z qmono.Mono, window int64, t fps.Truncation) (fps.Series, error) {
	result := fps.Zero(v, t)
	for n := -window; n <= window; n++ {
		qExp := n * (n - 1) / 2
		sign := qrat.FromInt64(1)
		if n%2 != 0 {
			sign = sign.Neg()
		}
		zn := z.Pow(n)
		numerCoeff := sign.Mul(zn.Coeff)
		numerPower := qExp*q.Power + zn.Power
		if numerPower >= t.Order() {
			continue
		}
		denomBase := x.Mul(q.Pow(n - 1)).Mul(z)
		denomSeries := fps.One(v, t)
		if denomBase.Power < t.Order() {
			denomSeries.Coeffs[denomBase.Power] = denomSeries.Coeff(denomBase.Power).Sub(denomBase.Coeff)
		}
		inv, err := denomSeries.Invert()
		if err != nil {
			continue // this window term's denominator vanishes at the constant term; skip it
		}
		numer := fps.Zero(v, t)
		numer.Coeffs[numerPower] = numerCoeff
		term := numer.Mul(inv)
		result = result.Add(term)
	}
	return result, nil
}
