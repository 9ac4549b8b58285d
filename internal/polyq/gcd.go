package polyq

import (
	"math/big"

	"qkangaroo/internal/qrat"
)

// Content returns gcd(numerators)/lcm(denominators) of p's coefficients, the
// rational scale factor such that p/Content(p) has integer, content-1
// coefficients. Returns qrat.Zero() for the zero polynomial.
func Content(p Poly) qrat.Rat {
	if p.IsZero() {
		return qrat.Zero()
	}
	g := new(big.Int)
	l := big.NewInt(1)
	for _, c := range p.Coeffs {
		if c.IsZero() {
			continue
		}
		g = new(big.Int).GCD(nil, nil, g, new(big.Int).Abs(c.Num()))
		l = lcm(l, c.Denom())
	}
	if g.Sign() == 0 {
		g.SetInt64(1)
	}
	return qrat.FromBigFrac(g, l)
}

func lcm(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return big.NewInt(0)
	}
	g := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Div(a, g)
	return out.Mul(out, b)
}

// PrimitivePart returns p / Content(p). The zero polynomial is its own
// primitive part.
func PrimitivePart(p Poly) Poly {
	if p.IsZero() {
		return p
	}
	c := Content(p)
	return p.ScalarMul(c.Inv())
}

// GCD computes gcd(p, q) via Brown's subresultant pseudo-remainder sequence:
// content is extracted from both inputs up front, the PRS
// loop runs on the primitive parts with scaling factors psi/beta controlling
// coefficient growth, and the final primitive remainder is rescaled by the
// product of the two contents' gcd. The contract this algorithm satisfies is
// that coefficient bit-size growth along the PRS stays polynomial in the
// input degree, not exponential, unlike a naive Euclidean PRS over Q's
// numerator/denominator pairs.
func GCD(p, q Poly) Poly {
	if p.IsZero() {
		return normalizeMonic(q)
	}
	if q.IsZero() {
		return normalizeMonic(p)
	}
	contentGCD := gcdRat(Content(p), Content(q))
	a := PrimitivePart(p)
	b := PrimitivePart(q)
	if a.Degree() < b.Degree() {
		a, b = b, a
	}

	psi := qrat.One().Neg()
	beta := qrat.One().Neg()
	for {
		delta := a.Degree() - b.Degree()
		r := PseudoRem(a, b)
		verifyPseudoRem(a, b, r)
		if r.IsZero() {
			break
		}
		if r.Degree() == 0 {
			// gcd is a unit: primitive parts are coprime.
			return normalizeMonic(New(contentGCD))
		}
		rPrim := r.ScalarMul(beta.Inv())
		a, b = b, rPrim
		lc := a.Lc() // leading coeff of the *previous* b, i.e. the divisor just used
		if delta <= 1 {
			psi = lc.Neg()
		} else {
			psi = qrat.Pow(lc.Neg(), int64(delta)).Div(qrat.Pow(psi, int64(delta-1)))
		}
		beta = lc.Neg().Mul(qrat.Pow(psi, int64(delta)))
	}
	g := PrimitivePart(b).ScalarMul(contentGCD)
	return normalizeMonic(g)
}

func gcdRat(a, b qrat.Rat) qrat.Rat {
	// a and b are already the "content" scale, both of the form n/d with the
	// sign conventions from Content; their rational gcd is
	// gcd(|numerators|) / lcm(denominators).
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	an, ad := a.Num(), a.Denom()
	bn, bd := b.Num(), b.Denom()
	gn := new(big.Int).GCD(nil, nil, new(big.Int).Abs(an), new(big.Int).Abs(bn))
	ld := lcm(ad, bd)
	return qrat.FromBigFrac(gn, ld)
}

func normalizeMonic(p Poly) Poly {
	if p.IsZero() {
		return p
	}
	return p.ScalarMul(p.Lc().Inv())
}

// Resultant computes Res(p, q) along the Euclidean remainder sequence, using
// Res(a,b) = (-1)^{deg a * deg b} lc(b)^{deg a - deg r} Res(b,r) for
// r = a mod b; it is zero exactly when p and q share a nonconstant common
// factor (a round-trip property exercised by the tests).
func Resultant(p, q Poly) qrat.Rat {
	if p.IsZero() || q.IsZero() {
		return qrat.Zero()
	}
	if p.Degree() == 0 {
		return qrat.Pow(p.Coeffs[0], int64(q.Degree()))
	}
	if q.Degree() == 0 {
		return qrat.Pow(q.Coeffs[0], int64(p.Degree()))
	}
	a, b := p, q
	sign := 1
	if a.Degree() < b.Degree() {
		a, b = b, a
		if a.Degree()%2 == 1 && b.Degree()%2 == 1 {
			sign = -1
		}
	}
	res := qrat.One()
	for {
		if b.Degree() == 0 {
			res = res.Mul(qrat.Pow(b.Coeffs[0], int64(a.Degree())))
			break
		}
		_, r := DivRem(a, b)
		if r.IsZero() {
			return qrat.Zero()
		}
		if a.Degree()%2 == 1 && b.Degree()%2 == 1 {
			sign = -sign
		}
		res = res.Mul(qrat.Pow(b.Lc(), int64(a.Degree()-r.Degree())))
		a, b = b, r
	}
	if sign < 0 {
		res = res.Neg()
	}
	return res
}
