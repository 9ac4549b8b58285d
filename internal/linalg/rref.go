// Package linalg implements exact-rational linear algebra: row reduction and
// null-space extraction over qrat.Rat. Gosper's and Zeilberger's key
// equations and the relation-discovery search in internal/relations all
// reduce to "solve a linear system exactly over the rationals", so the
// routine lives here once instead of being reimplemented per caller.
package linalg

import "qkangaroo/internal/qrat"

// Matrix is a dense row-major matrix of exact rationals.
type Matrix struct {
	Rows, Cols int
	Data       [][]qrat.Rat
}

// NewMatrix builds an r x c zero matrix.
func NewMatrix(r, c int) Matrix {
	data := make([][]qrat.Rat, r)
	for i := range data {
		row := make([]qrat.Rat, c)
		for j := range row {
			row[j] = qrat.Zero()
		}
		data[i] = row
	}
	return Matrix{Rows: r, Cols: c, Data: data}
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := NewMatrix(m.Rows, m.Cols)
	for i := 0; i < m.Rows; i++ {
		copy(out.Data[i], m.Data[i])
	}
	return out
}

// RREF reduces m to reduced row-echelon form in place via exact-rational
// Gauss-Jordan elimination with partial pivoting on the first nonzero entry
// of each column (no floating-point round-off is possible over qrat.Rat, so
// pivot choice only affects pivot-list order, not correctness). Returns the
// list of pivot columns, one per nonzero row in order.
func RREF(m Matrix) (Matrix, []int) {
	r := m.Clone()
	pivotCols := []int{}
	row := 0
	for col := 0; col < r.Cols && row < r.Rows; col++ {
		pivot := -1
		for i := row; i < r.Rows; i++ {
			if !r.Data[i][col].IsZero() {
				pivot = i
				break
			}
		}
		if pivot == -1 {
			continue
		}
		r.Data[row], r.Data[pivot] = r.Data[pivot], r.Data[row]
		inv := r.Data[row][col].Inv()
		for j := 0; j < r.Cols; j++ {
			r.Data[row][j] = r.Data[row][j].Mul(inv)
		}
		for i := 0; i < r.Rows; i++ {
			if i == row {
				continue
			}
			factor := r.Data[i][col]
			if factor.IsZero() {
				continue
			}
			for j := 0; j < r.Cols; j++ {
				r.Data[i][j] = r.Data[i][j].Sub(factor.Mul(r.Data[row][j]))
			}
		}
		pivotCols = append(pivotCols, col)
		row++
	}
	return r, pivotCols
}

// NullSpaceBasis returns a basis for the null space of m (the solution space
// of m*x = 0) as a slice of column vectors, computed from the RREF's free
// columns by back-substitution.
func NullSpaceBasis(m Matrix) [][]qrat.Rat {
	r, pivotCols := RREF(m)
	isPivot := make([]bool, r.Cols)
	for _, c := range pivotCols {
		isPivot[c] = true
	}
	var basis [][]qrat.Rat
	for freeCol := 0; freeCol < r.Cols; freeCol++ {
		if isPivot[freeCol] {
			continue
		}
		v := make([]qrat.Rat, r.Cols)
		for i := range v {
			v[i] = qrat.Zero()
		}
		v[freeCol] = qrat.One()
		for i, pc := range pivotCols {
			v[pc] = r.Data[i][freeCol].Neg()
		}
		basis = append(basis, v)
	}
	return basis
}

// SolveInhomogeneous solves m*x = b for a particular solution, returning
// (solution, true) if consistent or (nil, false) if the system has no
// solution. When the system is underdetermined, returns the solution with
// every free variable set to zero.
func SolveInhomogeneous(m Matrix, b []qrat.Rat) ([]qrat.Rat, bool) {
	aug := NewMatrix(m.Rows, m.Cols+1)
	for i := 0; i < m.Rows; i++ {
		copy(aug.Data[i], m.Data[i])
		aug.Data[i][m.Cols] = b[i]
	}
	r, pivotCols := RREF(aug)
	for i := len(pivotCols); i < r.Rows; i++ {
		if !r.Data[i][m.Cols].IsZero() {
			return nil, false
		}
	}
	x := make([]qrat.Rat, m.Cols)
	for i := range x {
		x[i] = qrat.Zero()
	}
	for i, pc := range pivotCols {
		if pc == m.Cols {
			return nil, false // a pivot in b's column means 0 = 1
		}
		x[pc] = r.Data[i][m.Cols]
	}
	return x, true
}
