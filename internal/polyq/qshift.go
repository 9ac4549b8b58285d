package polyq

import "qkangaroo/internal/qrat"

// QShift returns the coefficient-wise scaling c_i <- c_i * qVal^i, i.e. the
// polynomial p(qVal*x) expressed back in the same coefficient basis.
// This is O(deg p).
func QShift(p Poly, qVal qrat.Rat) Poly {
	if p.IsZero() {
		return p
	}
	out := make([]qrat.Rat, len(p.Coeffs))
	pow := qrat.One()
	for i, c := range p.Coeffs {
		out[i] = c.Mul(pow)
		pow = pow.Mul(qVal)
	}
	return New(out...)
}

// QShiftN returns QShift(p, qVal^j); negative j uses qVal^-1.
func QShiftN(p Poly, qVal qrat.Rat, j int64) Poly {
	return QShift(p, qrat.Pow(qVal, j))
}
