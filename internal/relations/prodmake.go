// Package relations implements q-series analysis: product-form discovery
// (prodmake/etamake/jacprodmake), linear-relation search over exact
// rationals (findlincombo and the findhom family), congruence and
// product-combination search (findcong/findprod), and the small
// single-series predicates (checkmult/checkprod/lqdegree0/sift).
package relations

import (
	"sort"

	"qkangaroo/internal/etaproof"
	"qkangaroo/internal/fps"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

// Lqdegree0 returns the minimum exponent with a nonzero coefficient, or
// (0, false) if f is the zero series.
func Lqdegree0(f fps.Series) (int64, bool) {
	exps := f.Exponents()
	if len(exps) == 0 {
		return 0, false
	}
	return exps[0], true
}

// Sift extracts the subseries of exponents congruent to j (mod m); it is a
// thin re-export of fps.Series.Sift, named to match the dispatchable
// function catalogue rather than reimplemented.
func Sift(f fps.Series, m, j int64) fps.Series { return f.Sift(m, j) }

// ProdmakeResult is the outcome of peeling f into product-of-(1-q^n) form.
type ProdmakeResult struct {
	Exponents    map[int64]qrat.Rat // n -> a_n in f = c*q^v*prod_n (1-q^n)^{-a_n}
	TermsUsed    int64
	LeadingCoeff qrat.Rat
	Valuation    int64
	IsExact      bool
}

// Prodmake finds, for an FPS f with nonzero valuation-order coefficient,
// integer (or rational, when f is not itself an eta-quotient) exponents a_n
// such that f = c*q^v*prod_n (1-q^n)^{-a_n}. It works by normalizing f to a
// series g with constant term 1, computing the logarithmic derivative
// q*g'(q)/g(q) via exact series division, then Moebius-inverting the
// divisor-sum relation that the log-derivative's coefficients satisfy.
func Prodmake(f fps.Series) (ProdmakeResult, error) {
	v, ok := Lqdegree0(f)
	if !ok {
		return ProdmakeResult{}, ErrZeroSeries{}
	}
	c := f.Coeff(v)

	order := f.Trunc.Order()
	if f.Trunc.IsPolynomial() {
		order = maxExp(f) + 1
	}
	shifted := order - v

	g := fps.Zero(f.Var, fps.Truncated(shifted))
	cInv := c.Inv()
	for _, e := range f.Exponents() {
		if e < v {
			continue
		}
		g.Coeffs[e-v] = f.Coeff(e).Mul(cInv)
	}

	h := fps.Zero(f.Var, g.Trunc)
	for _, m := range g.Exponents() {
		if m == 0 {
			continue
		}
		h.Coeffs[m] = g.Coeff(m).Mul(qrat.FromInt64(m))
	}

	invG, err := g.Invert()
	if err != nil {
		return ProdmakeResult{}, err
	}
	logDeriv := h.Mul(invG)

	terms := shifted - 1
	if terms < 0 {
		terms = 0
	}
	exponents := map[int64]qrat.Rat{}
	for m := int64(1); m <= terms; m++ {
		acc := qrat.Zero()
		for _, d := range divisorsOf(m) {
			mu := moebius(m / d)
			if mu == 0 {
				continue
			}
			ld := logDeriv.Coeff(d)
			if ld.IsZero() {
				continue
			}
			term := ld.Mul(qrat.FromInt64(int64(mu)))
			acc = acc.Add(term)
		}
		a := acc.Div(qrat.FromInt64(m))
		if !a.IsZero() {
			exponents[m] = a
		}
	}

	result := ProdmakeResult{
		Exponents:    exponents,
		TermsUsed:    terms,
		LeadingCoeff: c,
		Valuation:    v,
		IsExact:      reconstructs(g, exponents, terms),
	}
	return result, nil
}

// ErrZeroSeries is returned by Prodmake when f has no nonzero coefficient.
type ErrZeroSeries struct{}

func (ErrZeroSeries) Error() string { return "relations: prodmake given the zero series" }

// reconstructs checks that prod_n (1-q^n)^{-a_n} (truncated) reproduces g
// exactly to g's truncation order, the is_exact flag prodmake reports.
func reconstructs(g fps.Series, exponents map[int64]qrat.Rat, terms int64) bool {
	product := fps.One(g.Var, g.Trunc)
	for n := int64(1); n <= terms; n++ {
		a, ok := exponents[n]
		if !ok || a.IsZero() {
			continue
		}
		product = product.Mul(binomialSeriesFactor(g.Var, n, a.Neg(), g.Trunc))
	}
	return product.Equal(g)
}

// binomialSeriesFactor returns (1-q^n)^exponent truncated, via the
// generalized binomial series (1-x)^a = sum_k C(a,k) (-x)^k with x=q^n:
// coefficient of q^{n*k} is (-1)^k * prod_{j=0}^{k-1}(a-j) / k!.
func binomialSeriesFactor(v symtab.ID, n int64, exponent qrat.Rat, t fps.Truncation) fps.Series {
	s := fps.Zero(v, t)
	limit := t.Order()
	falling := qrat.One()
	factorial := qrat.One()
	s.Coeffs[0] = qrat.One()
	for k := int64(1); n*k < limit; k++ {
		falling = falling.Mul(exponent.Sub(qrat.FromInt64(k - 1)))
		factorial = factorial.Mul(qrat.FromInt64(k))
		coeff := falling.Div(factorial)
		if k%2 == 1 {
			coeff = coeff.Neg()
		}
		if !coeff.IsZero() {
			s.Coeffs[n*k] = coeff
		}
	}
	return s
}

func ratFromInt(n int64) qrat.Rat { return qrat.FromInt64(n) }

func maxExp(f fps.Series) int64 {
	var m int64
	for _, e := range f.Exponents() {
		if e > m {
			m = e
		}
	}
	return m
}

func divisorsOf(n int64) []int64 {
	var out []int64
	for d := int64(1); d*d <= n; d++ {
		if n%d == 0 {
			out = append(out, d)
			if d != n/d {
				out = append(out, n/d)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// moebius computes the Moebius function via trial factorization.
func moebius(n int64) int {
	if n == 1 {
		return 1
	}
	rem := n
	primeCount := 0
	for p := int64(2); p*p <= rem; p++ {
		if rem%p == 0 {
			rem /= p
			primeCount++
			if rem%p == 0 {
				return 0
			}
		}
	}
	if rem > 1 {
		primeCount++
	}
	if primeCount%2 == 0 {
		return 1
	}
	return -1
}

// EtaQuotient is the eta-product representation an eta-quotient expands to:
// prod_delta eta(delta*tau)^{r_delta}, carrying the residual q-power shift
// and leading scalar that prodmake factored out of the original series.
type EtaQuotient struct {
	Factors      map[int64]int64 // delta -> r_delta (non-integer r_delta left out; see IsExact)
	QShift       int64
	LeadingCoeff qrat.Rat
	IsExact      bool
}

// Etamake wraps Prodmake and re-expresses its (1-q^n)^{-a_n} exponents as
// eta-dilate exponents r_delta via a second Moebius inversion over the
// divisor relation -a_n = sum_{delta|n} r_delta.
func Etamake(f fps.Series) (EtaQuotient, error) {
	prod, err := Prodmake(f)
	if err != nil {
		return EtaQuotient{}, err
	}
	factors := map[int64]int64{}
	exact := prod.IsExact
	for n := int64(1); n <= prod.TermsUsed; n++ {
		acc := qrat.Zero()
		for _, d := range divisorsOf(n) {
			mu := moebius(n / d)
			if mu == 0 {
				continue
			}
			an, ok := prod.Exponents[d]
			if !ok {
				continue // absent d: a_d = 0 contributes nothing
			}
			term := an.Neg().Mul(qrat.FromInt64(int64(mu)))
			acc = acc.Add(term)
		}
		if acc.IsZero() {
			continue
		}
		if !acc.IsInt() {
			exact = false
			continue
		}
		factors[n] = acc.Num().Int64()
	}
	return EtaQuotient{
		Factors:      factors,
		QShift:       prod.Valuation,
		LeadingCoeff: prod.LeadingCoeff,
		IsExact:      exact,
	}, nil
}

// ToEtaExpression lifts an EtaQuotient into an etaproof.EtaExpression at the
// given level, the bridge between series-side product discovery and the
// cusp-based identity-proving engine.
func (e EtaQuotient) ToEtaExpression(level int64) etaproof.EtaExpression {
	out := etaproof.NewEtaExpression(level)
	for d, r := range e.Factors {
		out.Factors[d] = r
	}
	return out
}
