package relations

import (
	"qkangaroo/internal/fps"
	"qkangaroo/internal/linalg"
	"qkangaroo/internal/qrat"
)

// coefficientMatrix stacks the coefficients of series (one column per
// series) over the union of their nonzero exponents (one row per exponent,
// ascending), the assembly step every relation-finding function shares
// before handing off to linalg.NullSpaceBasis or SolveInhomogeneous.
func coefficientMatrix(series []fps.Series) (linalg.Matrix, []int64) {
	seen := map[int64]bool{}
	for _, s := range series {
		for _, e := range s.Exponents() {
			seen[e] = true
		}
	}
	exps := make([]int64, 0, len(seen))
	for e := range seen {
		exps = append(exps, e)
	}
	// ascending order, matching the sparse-map iteration convention.
	for i := 1; i < len(exps); i++ {
		for j := i; j > 0 && exps[j-1] > exps[j]; j-- {
			exps[j-1], exps[j] = exps[j], exps[j-1]
		}
	}
	m := linalg.NewMatrix(len(exps), len(series))
	for col, s := range series {
		for row, e := range exps {
			m.Data[row][col] = s.Coeff(e)
		}
	}
	return m, exps
}

// FindLinCombo solves Sum c_i*basis_i = f for rational c_i by stacking
// coefficients into a linear system and solving exactly. ok is false when no
// such combination exists.
func FindLinCombo(f fps.Series, basis []fps.Series) (coeffs []qrat.Rat, ok bool) {
	all := append(append([]fps.Series{}, basis...), f)
	m, exps := coefficientMatrix(all)
	// Drop f's column back out of m to build the homogeneous matrix and the
	// target vector b separately.
	basisCols := linalg.NewMatrix(len(exps), len(basis))
	b := make([]qrat.Rat, len(exps))
	for row := range exps {
		for col := range basis {
			basisCols.Data[row][col] = m.Data[row][col]
		}
		b[row] = m.Data[row][len(basis)]
	}
	return linalg.SolveInhomogeneous(basisCols, b)
}

// HomResult is a homogeneous linear relation Sum c_i*series_i = 0.
type HomResult struct {
	Coeffs []qrat.Rat
	Found  bool
}

// FindHom searches for a nontrivial homogeneous linear relation among
// series via the null space (linalg.NullSpaceBasis) of their stacked
// coefficient matrix. FindHomModP below solves the same null-space problem
// mod p; the nonhomogeneous members of the family go through
// SolveInhomogeneous instead.
func FindHom(series []fps.Series) HomResult {
	m, _ := coefficientMatrix(series)
	basis := linalg.NullSpaceBasis(m)
	if len(basis) == 0 {
		return HomResult{Found: false}
	}
	return HomResult{Coeffs: basis[0], Found: true}
}

// FindNonHom searches for rational c_i with Sum c_i*series_i = target, the
// inhomogeneous counterpart of FindHom (target is typically the constant
// series 1, proving a "sum of these equals a known closed form").
func FindNonHom(series []fps.Series, target fps.Series) HomResult {
	coeffs, ok := FindLinCombo(target, series)
	return HomResult{Coeffs: coeffs, Found: ok}
}

// FindNonHomCombo is findnonhomcombo: identical operation to FindLinCombo,
// kept under its own name since the dispatchable function catalogue
// (spec.md Sec 4.10) exposes both spellings historically.
func FindNonHomCombo(f fps.Series, basis []fps.Series) (coeffs []qrat.Rat, ok bool) {
	return FindLinCombo(f, basis)
}

// FindHomModP is findhommodp: a homogeneous relation search performed over
// GF(p) instead of the rationals, used when the rational null space is
// trivial but a relation exists modulo a small prime. Coefficients are
// returned as residues 0..p-1.
func FindHomModP(series []fps.Series, p int64) (coeffs []int64, found bool) {
	m, exps := coefficientMatrix(series)
	rows := make([][]int64, len(exps))
	for i := range exps {
		rows[i] = make([]int64, len(series))
		for j := range series {
			rows[i][j] = ratModP(m.Data[i][j], p)
		}
	}
	basis := nullSpaceModP(rows, len(series), p)
	if len(basis) == 0 {
		return nil, false
	}
	return basis[0], true
}

// ratModP reduces a qrat.Rat modulo prime p: numerator * (denominator^-1
// mod p), both taken mod p first since p is assumed to not divide the
// denominator for any relation-finding input.
func ratModP(r qrat.Rat, p int64) int64 {
	num := modP(r.Num().Int64(), p)
	den := modP(r.Denom().Int64(), p)
	if den == 0 {
		panic("relations: findhommodp denominator divisible by p")
	}
	return modP(num*modInverse(den, p), p)
}

func modP(n, p int64) int64 {
	n %= p
	if n < 0 {
		n += p
	}
	return n
}

func modInverse(a, p int64) int64 {
	// p is assumed prime and small; extended Euclid.
	g, x, _ := extGCD(a, p)
	if g != 1 {
		panic("relations: no modular inverse exists")
	}
	return modP(x, p)
}

func extGCD(a, b int64) (g, x, y int64) {
	if b == 0 {
		return a, 1, 0
	}
	g, x1, y1 := extGCD(b, a%b)
	return g, y1, x1 - (a/b)*y1
}

// nullSpaceModP computes a basis for the null space of an exact GF(p)
// matrix via Gauss-Jordan elimination over residues, the same
// RREF-then-back-substitute shape as linalg.NullSpaceBasis but specialized
// to modular arithmetic since linalg only covers the rationals.
func nullSpaceModP(rows [][]int64, cols int, p int64) [][]int64 {
	r := make([][]int64, len(rows))
	for i, row := range rows {
		r[i] = append([]int64{}, row...)
	}
	pivotCols := []int{}
	row := 0
	for col := 0; col < cols && row < len(r); col++ {
		pivot := -1
		for i := row; i < len(r); i++ {
			if r[i][col]%p != 0 {
				pivot = i
				break
			}
		}
		if pivot == -1 {
			continue
		}
		r[row], r[pivot] = r[pivot], r[row]
		inv := modInverse(modP(r[row][col], p), p)
		for j := 0; j < cols; j++ {
			r[row][j] = modP(r[row][j]*inv, p)
		}
		for i := 0; i < len(r); i++ {
			if i == row {
				continue
			}
			factor := modP(r[i][col], p)
			if factor == 0 {
				continue
			}
			for j := 0; j < cols; j++ {
				r[i][j] = modP(r[i][j]-factor*r[row][j], p)
			}
		}
		pivotCols = append(pivotCols, col)
		row++
	}
	isPivot := make([]bool, cols)
	for _, c := range pivotCols {
		isPivot[c] = true
	}
	var basis [][]int64
	for freeCol := 0; freeCol < cols; freeCol++ {
		if isPivot[freeCol] {
			continue
		}
		v := make([]int64, cols)
		v[freeCol] = 1
		for i, pc := range pivotCols {
			v[pc] = modP(-r[i][freeCol], p)
		}
		basis = append(basis, v)
	}
	return basis
}
