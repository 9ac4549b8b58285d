package relations

import "qkangaroo/internal/qrat"

// JacFactor is one JAC(a,b) = (q^a;q^b)_inf * (q^{b-a};q^b)_inf *
// (q^b;q^b)_inf layer of a jacprodmake decomposition, raised to Multiplicity.
// A==0 denotes the degenerate diagonal factor (q^b;q^b)_inf alone.
type JacFactor struct {
	A, B         int64
	Multiplicity int64
}

// JacProdMake decomposes a Prodmake result's (1-q^n)^{-a_n} exponent
// sequence into JAC(a,b) factors: it looks for the smallest modulus b (2 <=
// b <= bMax) under which a_n depends only on n's residue class mod b,
// symmetric under r <-> b-r (the pairing Jacprod's two non-diagonal factors
// share). Reports ok=false if no modulus up to bMax reproduces the full
// sequence.
func JacProdMake(prod ProdmakeResult, bMax int64) (factors []JacFactor, ok bool) {
	if prod.TermsUsed <= 0 {
		return nil, true
	}
	for b := int64(2); b <= bMax; b++ {
		if fs, consistent := tryModulus(prod, b); consistent {
			return fs, true
		}
	}
	return nil, false
}

func tryModulus(prod ProdmakeResult, b int64) ([]JacFactor, bool) {
	classOf := func(r int64) int64 {
		if r == 0 {
			return 0
		}
		if b-r < r {
			return b - r
		}
		return r
	}
	classValue := map[int64]qrat.Rat{}
	for n := int64(1); n <= prod.TermsUsed; n++ {
		r := n % b
		cls := classOf(r)
		an, ok := prod.Exponents[n]
		if !ok {
			an = qrat.Zero()
		}
		if existing, seen := classValue[cls]; seen {
			if !existing.Equal(an) {
				return nil, false
			}
		} else {
			classValue[cls] = an
		}
	}

	// Every JAC(r,b) below also carries one (q^b;q^b)_inf per unit of
	// multiplicity; diag collects those so the A==0 factor only supplies the rest.
	var factors []JacFactor
	var diag int64
	for r := int64(1); r*2 < b; r++ {
		v, ok := classValue[r]
		if !ok || v.IsZero() {
			continue
		}
		if !v.IsInt() {
			return nil, false
		}
		factors = append(factors, JacFactor{A: r, B: b, Multiplicity: -v.Num().Int64()})
		diag += -v.Num().Int64()
	}
	if b%2 == 0 {
		half := b / 2
		if v, ok := classValue[half]; ok && !v.IsZero() {
			// JAC(b/2,b) holds (q^{b/2};q^b)_inf twice.
			if !v.IsInt() || v.Num().Int64()%2 != 0 {
				return nil, false
			}
			factors = append(factors, JacFactor{A: half, B: b, Multiplicity: -v.Num().Int64() / 2})
			diag += -v.Num().Int64() / 2
		}
	}
	if v, ok := classValue[0]; ok && v.IsInt() && -v.Num().Int64() != diag {
		factors = append([]JacFactor{{A: 0, B: b, Multiplicity: -v.Num().Int64() - diag}}, factors...)
	} else if ok && !v.IsInt() {
		return nil, false
	}
	return factors, true
}
