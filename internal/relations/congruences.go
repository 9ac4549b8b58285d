package relations

import (
	"qkangaroo/internal/fps"
	"qkangaroo/internal/qtrace"
)

// CongResult is one discovered congruence: a(mn+residue) = 0 (mod prime)
// for all n, found by sifting at modulus and checking the residue class.
type CongResult struct {
	Modulus, Residue, ReducingPrime int64
}

// FindCong discovers congruences by sifting series at every modulus m in
// 2..lm and checking which residue classes reduce to zero modulo each of a
// short list of small primes.
func FindCong(series fps.Series, lm int64) []CongResult {
	primes := []int64{2, 3, 5, 7, 11, 13}
	var out []CongResult
	for m := int64(2); m <= lm; m++ {
		for j := int64(0); j < m; j++ {
			sub := series.Sift(m, j)
			exps := sub.Exponents()
			if len(exps) == 0 {
				continue
			}
			for _, p := range primes {
				if allDivisible(sub, p) {
					out = append(out, CongResult{Modulus: m, Residue: j, ReducingPrime: p})
					break
				}
			}
		}
	}
	return out
}

func allDivisible(s fps.Series, p int64) bool {
	for _, e := range s.Exponents() {
		c := s.Coeff(e)
		if !c.IsInt() {
			return false
		}
		if c.Num().Int64()%p != 0 {
			return false
		}
	}
	return true
}

// ProdSearchResult is one combination found by FindProd: the valuation of
// the combined series and the integer coefficient vector that produced it.
type ProdSearchResult struct {
	Valuation int64
	Coeffs    []int64
}

// FindProd exhaustively searches integer coefficient vectors with |c_i| <=
// T for linear combinations of seriesList whose prodmake result has every
// |exponent| < M. Q bounds how many terms of each candidate combination
// are computed before running prodmake (truncation order).
func FindProd(seriesList []fps.Series, T int64, M int64, Q int64) []ProdSearchResult {
	var out []ProdSearchResult
	coeffs := make([]int64, len(seriesList))
	qtrace.Stderrf("relations: findprod searching (2T+1)^%d coefficient vectors, T=%d\n", len(seriesList), T)
	var recurse func(i int)
	recurse = func(i int) {
		if i == len(seriesList) {
			allZero := true
			for _, c := range coeffs {
				if c != 0 {
					allZero = false
					break
				}
			}
			if allZero {
				return
			}
			combo := combineScaled(seriesList, coeffs, Q)
			v, ok := Lqdegree0(combo)
			if !ok {
				return
			}
			prod, err := Prodmake(combo)
			if err != nil {
				return
			}
			within := true
			for _, a := range prod.Exponents {
				if a.Abs().Cmp(ratFromInt(M)) >= 0 {
					within = false
					break
				}
			}
			if within {
				out = append(out, ProdSearchResult{Valuation: v, Coeffs: append([]int64{}, coeffs...)})
			}
			return
		}
		for c := -T; c <= T; c++ {
			coeffs[i] = c
			recurse(i + 1)
		}
	}
	recurse(0)
	return out
}

func combineScaled(series []fps.Series, coeffs []int64, q int64) fps.Series {
	v := series[0].Var
	t := fps.Truncated(q)
	result := fps.Zero(v, t)
	for i, s := range series {
		if coeffs[i] == 0 {
			continue
		}
		scaled := s.ScalarMul(ratFromInt(coeffs[i]))
		result = result.Add(scaled)
	}
	return result
}

// CheckMult tests whether the integer sequence coefficients (0-indexed by
// array position, i.e. coefficients[m] = a(m)) is multiplicative up to T:
// a(mn) = a(m)*a(n) for all coprime m,n with 2 <= m,n and mn <= T. When all
// is true, every failure is reported; otherwise the search stops at the
// first one.
func CheckMult(coefficients []int64, T int64, all bool) []MultFailure {
	var failures []MultFailure
	for m := int64(2); m <= T/2; m++ {
		for n := m; m*n <= T; n++ {
			if gcdInt(m, n) != 1 {
				continue
			}
			if int(m) >= len(coefficients) || int(n) >= len(coefficients) || int(m*n) >= len(coefficients) {
				continue
			}
			lhs := coefficients[m*n]
			rhs := coefficients[m] * coefficients[n]
			if lhs != rhs {
				failures = append(failures, MultFailure{M: m, N: n, Expected: rhs, Actual: lhs})
				if !all {
					return failures
				}
			}
		}
	}
	return failures
}

// MultFailure records one multiplicativity violation a(mn) != a(m)*a(n).
type MultFailure struct {
	M, N             int64
	Expected, Actual int64
}

func gcdInt(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ProdCheckOutcome is checkprod's three-way verdict.
type ProdCheckOutcome int

const (
	NiceProduct ProdCheckOutcome = iota
	NotNiceProduct
	LeadingCoeffNotInteger
)

// ProdCheckResult is checkprod's result: whether f is a "nice" eta-quotient
// style product (all prodmake exponents bounded by M in absolute value).
type ProdCheckResult struct {
	Outcome      ProdCheckOutcome
	Valuation    int64
	LeadingCoeff int64
	MaxExponent  int64
}

// CheckProd determines whether f is a nice product by running Prodmake and
// checking that every exponent's absolute value is below M.
func CheckProd(f fps.Series, M int64) (ProdCheckResult, error) {
	prod, err := Prodmake(f)
	if err != nil {
		return ProdCheckResult{}, err
	}
	if !prod.LeadingCoeff.IsInt() {
		return ProdCheckResult{Outcome: LeadingCoeffNotInteger, Valuation: prod.Valuation}, nil
	}
	var maxAbs int64
	for _, a := range prod.Exponents {
		abs := a.Abs()
		if !abs.IsInt() {
			return ProdCheckResult{Outcome: NotNiceProduct, Valuation: prod.Valuation, MaxExponent: -1}, nil
		}
		v := abs.Num().Int64()
		if v > maxAbs {
			maxAbs = v
		}
	}
	outcome := NiceProduct
	if maxAbs >= M {
		outcome = NotNiceProduct
	}
	return ProdCheckResult{
		Outcome:      outcome,
		Valuation:    prod.Valuation,
		LeadingCoeff: prod.LeadingCoeff.Num().Int64(),
		MaxExponent:  maxAbs,
	}, nil
}
