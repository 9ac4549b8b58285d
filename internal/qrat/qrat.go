// Package qrat implements the exact-rational number kernel that every other
// package in q-kangaroo builds on: a canonicalized wrapper over math/big.Rat
// with stable hashing and total ordering.
package qrat

import (
	"math/big"
)

// Rat is an arbitrary-precision rational number, always held in lowest terms
// with a strictly positive denominator. The zero value is not valid; use Zero
// or one of the constructors.
type Rat struct {
	r *big.Rat
}

// Zero returns the rational 0.
func Zero() Rat { return Rat{r: new(big.Rat)} }

// One returns the rational 1.
func One() Rat { return FromInt64(1) }

// FromInt64 returns the rational n/1.
func FromInt64(n int64) Rat { return Rat{r: big.NewRat(n, 1)} }

// FromInt returns the rational n/1 for an arbitrary-precision integer n.
func FromInt(n *big.Int) Rat { return Rat{r: new(big.Rat).SetInt(n)} }

// FromFrac returns the rational numer/denom, reduced. Panics if denom is zero,
// matching math/big's own convention for SetFrac.
func FromFrac(numer, denom int64) Rat { return Rat{r: big.NewRat(numer, denom)} }

// FromBigFrac returns the rational numer/denom, reduced.
func FromBigFrac(numer, denom *big.Int) Rat {
	return Rat{r: new(big.Rat).SetFrac(numer, denom)}
}

// Add returns a + b.
func (a Rat) Add(b Rat) Rat { return Rat{r: new(big.Rat).Add(a.r, b.r)} }

// Sub returns a - b.
func (a Rat) Sub(b Rat) Rat { return Rat{r: new(big.Rat).Sub(a.r, b.r)} }

// Mul returns a * b.
func (a Rat) Mul(b Rat) Rat { return Rat{r: new(big.Rat).Mul(a.r, b.r)} }

// Neg returns -a.
func (a Rat) Neg() Rat { return Rat{r: new(big.Rat).Neg(a.r)} }

// Inv returns 1/a. Panics if a is zero, mirroring big.Rat.Inv.
func (a Rat) Inv() Rat { return Rat{r: new(big.Rat).Inv(a.r)} }

// Div returns a / b. Panics if b is zero.
func (a Rat) Div(b Rat) Rat { return Rat{r: new(big.Rat).Quo(a.r, b.r)} }

// IsZero reports whether a is exactly zero.
func (a Rat) IsZero() bool { return a.r.Sign() == 0 }

// Sign returns -1, 0, or 1.
func (a Rat) Sign() int { return a.r.Sign() }

// Cmp returns -1, 0, or 1 as a < b, a == b, a > b.
func (a Rat) Cmp(b Rat) int { return a.r.Cmp(b.r) }

// Equal reports whether a == b.
func (a Rat) Equal(b Rat) bool { return a.r.Cmp(b.r) == 0 }

// Num returns the reduced numerator.
func (a Rat) Num() *big.Int { return new(big.Int).Set(a.r.Num()) }

// Denom returns the reduced, strictly positive denominator.
func (a Rat) Denom() *big.Int { return new(big.Int).Set(a.r.Denom()) }

// IsInt reports whether a has denominator 1.
func (a Rat) IsInt() bool { return a.r.IsInt() }

// String renders a in Maple-like form: integers print bare, fractions as "n/d".
func (a Rat) String() string { return a.r.RatString() }

// Float64 returns the nearest float64 approximation, for diagnostics only;
// q-kangaroo never uses this for a correctness-relevant computation.
func (a Rat) Float64() float64 {
	f, _ := a.r.Float64()
	return f
}

// Abs returns |a|.
func (a Rat) Abs() Rat { return Rat{r: new(big.Rat).Abs(a.r)} }

// Pow returns a^n for an integer exponent n (n may be negative when a != 0).
func Pow(a Rat, n int64) Rat {
	if n == 0 {
		return One()
	}
	neg := n < 0
	if neg {
		n = -n
	}
	result := One()
	base := a
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	if neg {
		result = result.Inv()
	}
	return result
}

// CanonicalBytes returns a canonical byte encoding suitable for hashing:
// big-endian numerator length, numerator bytes (two's-complement sign byte
// prefix), denominator length, denominator bytes. Equal rationals always
// produce identical encodings because Rat is always kept reduced.
func (a Rat) CanonicalBytes() []byte {
	num := a.r.Num()
	den := a.r.Denom()
	numBytes := num.Bytes()
	denBytes := den.Bytes()
	out := make([]byte, 0, 2+len(numBytes)+len(denBytes)+1)
	sign := byte(0)
	if num.Sign() < 0 {
		sign = 1
	}
	out = append(out, sign, byte(len(numBytes)))
	out = append(out, numBytes...)
	out = append(out, byte(len(denBytes)))
	out = append(out, denBytes...)
	return out
}

// Less reports a < b, for use as a sort.Slice comparator.
func Less(a, b Rat) bool { return a.Cmp(b) < 0 }
