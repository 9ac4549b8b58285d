// Package petkovsek solves the constant-coefficient (concrete-q) recurrences
// produced by internal/zeilberger for their q-hypergeometric closed-form
// solutions: a ratio r with S(n+1)/S(n) = r, optionally decomposed into a
// q-power times a small product of (1-q^a)/(1-q^b) factors.
package petkovsek

import (
	"math/big"

	"qkangaroo/internal/qrat"
	"qkangaroo/internal/qtrace"
)

// maxCandidates bounds the Rational Root Theorem's candidate enumeration;
// exceeding it is treated as a resource-cap non-discovery rather than an
// error, matching q-Zeilberger's own search-bound philosophy.
const maxCandidates = 5000

// maxSingleExponent and maxDoubleExponent bound the closed-form
// (1-q^a)/(1-q^b) search: single factors search |a|,|b| <= 10, double
// factors (two stacked ratios) search |a|,|b| <= 6.
const (
	maxSingleExponent = 10
	maxDoubleExponent = 6
)

// ClosedForm is an optional q-Pochhammer-style decomposition of a ratio r
// already known to satisfy r = qPowerCoeff * prod(1-q^a_i) / prod(1-q^b_i).
type ClosedForm struct {
	Scalar       qrat.Rat
	QPowerCoeff  int64
	NumerFactors []int64
	DenomFactors []int64
}

// Solution is one q-hypergeometric closed-form solution S(n) = Scalar *
// Ratio^n, with an optional q-Pochhammer decomposition of Ratio.
type Solution struct {
	Ratio      qrat.Rat
	ClosedForm *ClosedForm
}

// Outcome distinguishes a genuine absence of roots from hitting the
// candidate-enumeration resource cap.
type Outcome int

const (
	Found Outcome = iota
	NoSolution
	CapExceeded
)

// Result is q-Petkovsek's verdict for one recurrence.
type Result struct {
	Outcome   Outcome
	Solutions []Solution
}

// Solve finds all q-hypergeometric closed-form ratios for the
// constant-coefficient recurrence Sum_j coefficients[j]*S(n+j) = 0, at the
// concrete nome qVal. Scalar is left as qrat.One() for every solution;
// callers scale by an initial condition as needed.
func Solve(coefficients []qrat.Rat, qVal qrat.Rat) Result {
	d := len(coefficients) - 1
	if d < 0 {
		return Result{Outcome: NoSolution}
	}
	if d == 0 {
		return Result{Outcome: NoSolution}
	}
	if d == 1 {
		if coefficients[1].IsZero() {
			return Result{Outcome: NoSolution}
		}
		ratio := coefficients[0].Neg().Div(coefficients[1])
		return buildResult(ratio, qVal)
	}
	return solveHigherOrder(coefficients, qVal)
}

func buildResult(ratio, qVal qrat.Rat) Result {
	sol := Solution{Ratio: ratio}
	if cf, ok := decompose(ratio, qVal); ok {
		sol.ClosedForm = &cf
	}
	return Result{Outcome: Found, Solutions: []Solution{sol}}
}

// solveHigherOrder forms the characteristic polynomial c_0 + c_1 r + ... +
// c_d r^d, clears denominators to integer coefficients, enumerates rational
// roots via the Rational Root Theorem, and evaluates each candidate exactly.
func solveHigherOrder(coefficients []qrat.Rat, qVal qrat.Rat) Result {
	intCoeffs := clearDenominators(coefficients)

	leading := intCoeffs[len(intCoeffs)-1]
	constant := intCoeffs[0]
	if leading.Sign() == 0 {
		// Trailing zero coefficients were already trimmed by the caller's
		// recurrence extraction in the common case; guard anyway.
		for leading.Sign() == 0 && len(intCoeffs) > 1 {
			intCoeffs = intCoeffs[:len(intCoeffs)-1]
			leading = intCoeffs[len(intCoeffs)-1]
		}
	}
	if constant.Sign() == 0 {
		// r=0 is a root only when S(n)=0 identically, which no
		// q-hypergeometric ratio represents; fall back to the non-trivial
		// tail coefficients.
		for constant.Sign() == 0 && len(intCoeffs) > 1 {
			intCoeffs = intCoeffs[1:]
			constant = intCoeffs[0]
		}
	}

	divConst := divisors(constant)
	divLead := divisors(leading)
	total := int64(len(divConst)) * int64(len(divLead)) * 2
	qtrace.Stderrf("petkovsek: candidate ratios to check: %d\n", total)
	if total > maxCandidates {
		return Result{Outcome: CapExceeded}
	}

	seen := make(map[string]bool)
	var solutions []Solution
	for _, p := range divConst {
		for _, q := range divLead {
			for _, sign := range []int64{1, -1} {
				num := new(big.Int).Mul(p, big.NewInt(sign))
				candidate := qrat.FromBigFrac(num, q)
				key := candidate.String()
				if seen[key] {
					continue
				}
				seen[key] = true
				if evalPoly(intCoeffs, candidate).IsZero() {
					sol := Solution{Ratio: candidate}
					if cf, ok := decompose(candidate, qVal); ok {
						sol.ClosedForm = &cf
					}
					solutions = append(solutions, sol)
				}
			}
		}
	}
	if len(solutions) == 0 {
		return Result{Outcome: NoSolution}
	}
	return Result{Outcome: Found, Solutions: solutions}
}

// clearDenominators multiplies every coefficient by the LCM of all
// denominators, producing an equivalent integer-coefficient polynomial.
func clearDenominators(coefficients []qrat.Rat) []*big.Int {
	lcm := big.NewInt(1)
	for _, c := range coefficients {
		lcm = lcmBig(lcm, c.Denom())
	}
	out := make([]*big.Int, len(coefficients))
	for i, c := range coefficients {
		scaled := c.Mul(qrat.FromInt(lcm))
		out[i] = scaled.Num()
	}
	return out
}

func lcmBig(a, b *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int).Set(b)
	}
	if b.Sign() == 0 {
		return new(big.Int).Set(a)
	}
	g := new(big.Int).GCD(nil, nil, a, b)
	prod := new(big.Int).Mul(a, b)
	return new(big.Int).Div(prod, g)
}

// divisors returns the positive divisors of |n| (n != 0 assumed).
func divisors(n *big.Int) []*big.Int {
	abs := new(big.Int).Abs(n)
	if abs.Sign() == 0 {
		return []*big.Int{big.NewInt(1)}
	}
	var out []*big.Int
	one := big.NewInt(1)
	for probe := big.NewInt(1); ; probe = new(big.Int).Add(probe, one) {
		if new(big.Int).Mul(probe, probe).Cmp(abs) > 0 {
			break
		}
		q, r := new(big.Int).QuoRem(abs, probe, new(big.Int))
		if r.Sign() == 0 {
			out = append(out, new(big.Int).Set(probe))
			if q.Cmp(probe) != 0 {
				out = append(out, new(big.Int).Set(q))
			}
		}
	}
	return out
}

// evalPoly evaluates Sum_i coeffs[i]*x^i using Horner's method.
func evalPoly(coeffs []*big.Int, x qrat.Rat) qrat.Rat {
	acc := qrat.Zero()
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(qrat.FromInt(coeffs[i]))
	}
	return acc
}

// decompose searches for a q-power times single or double (1-q^a)/(1-q^b)
// representation of ratio. A pure q-power ratio (q^e for some small integer
// e) is reported via QPowerCoeff alone, with nil factor slices.
func decompose(ratio, qVal qrat.Rat) (ClosedForm, bool) {
	if qVal.IsZero() || qVal.Equal(qrat.One()) {
		return ClosedForm{}, false
	}
	for e := int64(-maxDoubleExponent * 2); e <= maxDoubleExponent*2; e++ {
		if qrat.Pow(qVal, e).Equal(ratio) {
			return ClosedForm{Scalar: qrat.One(), QPowerCoeff: e}, true
		}
	}

	for a := int64(-maxSingleExponent); a <= maxSingleExponent; a++ {
		for b := int64(-maxSingleExponent); b <= maxSingleExponent; b++ {
			if a == 0 || b == 0 {
				continue
			}
			num := qrat.One().Sub(qrat.Pow(qVal, a))
			den := qrat.One().Sub(qrat.Pow(qVal, b))
			if den.IsZero() {
				continue
			}
			if num.Div(den).Equal(ratio) {
				return ClosedForm{
					Scalar:       qrat.One(),
					NumerFactors: []int64{a},
					DenomFactors: []int64{b},
				}, true
			}
		}
	}

	for a1 := int64(-maxDoubleExponent); a1 <= maxDoubleExponent; a1++ {
		for a2 := int64(-maxDoubleExponent); a2 <= maxDoubleExponent; a2++ {
			for b1 := int64(-maxDoubleExponent); b1 <= maxDoubleExponent; b1++ {
				for b2 := int64(-maxDoubleExponent); b2 <= maxDoubleExponent; b2++ {
					if a1 == 0 || a2 == 0 || b1 == 0 || b2 == 0 {
						continue
					}
					numer := qrat.One().Sub(qrat.Pow(qVal, a1))
					numer = numer.Mul(qrat.One().Sub(qrat.Pow(qVal, a2)))
					denom := qrat.One().Sub(qrat.Pow(qVal, b1))
					denom = denom.Mul(qrat.One().Sub(qrat.Pow(qVal, b2)))
					if denom.IsZero() {
						continue
					}
					if numer.Div(denom).Equal(ratio) {
						return ClosedForm{
							Scalar:       qrat.One(),
							NumerFactors: []int64{a1, a2},
							DenomFactors: []int64{b1, b2},
						}, true
					}
				}
			}
		}
	}
	return ClosedForm{}, false
}
