// Package session is the exported façade over internal/eval: the only
// package external callers need to import to build values, bind names, and
// invoke q-series functions without reaching into internal/.
package session

import (
	"math/big"

	"qkangaroo/internal/etaproof"
	"qkangaroo/internal/eval"
	"qkangaroo/internal/fps"
	"qkangaroo/internal/polyq"
	"qkangaroo/internal/qrat"
)

// defaultTruncOrder is the truncation order every fresh Session starts at,
// per spec.md Sec 4.12.
const defaultTruncOrder = 20

// Session owns one evaluation environment: its symbol registry, bindings,
// default truncation order, and bound nome value.
type Session struct {
	env *eval.Environment
}

// New returns a fresh session: truncation order 20, its own symbol registry
// seeded with the symbol q, and no user bindings.
func New() *Session {
	return &Session{env: eval.NewEnvironment(defaultTruncOrder)}
}

// NewWithTruncOrder is New but at a caller-supplied default truncation
// order, for callers (benchmark sweeps, tests) that need to vary it.
func NewWithTruncOrder(order int64) *Session {
	return &Session{env: eval.NewEnvironment(order)}
}

// SetQValue rebinds the concrete rational value q is evaluated at.
func (s *Session) SetQValue(q qrat.Rat) { s.env.SetQValue(q) }

// Eval evaluates expr against this session's environment.
func (s *Session) Eval(expr eval.Expr) (eval.Value, error) {
	return eval.Eval(s.env, expr)
}

// Call invokes a dispatch catalogue function directly, bypassing Expr
// construction — the entry point used by both the interactive evaluator
// and cmd/qkbench.
func (s *Session) Call(name string, args ...eval.Value) (eval.Value, error) {
	return eval.Dispatch(s.env, name, args)
}

// Bind associates name with v, overwriting any prior binding.
func (s *Session) Bind(name string, v eval.Value) { s.env.Bind(name, v) }

// Lookup returns name's bound value, reporting whether it is bound.
func (s *Session) Lookup(name string) (eval.Value, bool) { return s.env.Lookup(name) }

// Unbind removes name's binding, the effect of `x := 'x'`.
func (s *Session) Unbind(name string) { s.env.Unbind(name) }

// Restart clears every user binding.
func (s *Session) Restart() { s.env.Restart() }

// ANames returns the sorted list of currently bound names.
func (s *Session) ANames() []string { return s.env.ANames() }

// Q returns the session's q symbol as a Value, for building Expr trees or
// passing directly to Call.
func (s *Session) Q() eval.Value { return eval.Sym(s.env.QSymbol) }

// DefaultTrunc returns the session's default series truncation.
func (s *Session) DefaultTrunc() fps.Truncation { return s.env.DefaultTrunc }

// Value constructors mirroring spec.md Sec 6's tagged Value union, so
// callers never need to import internal/eval's Kind constants directly.

func Int(n int64) eval.Value             { return eval.Int(n) }
func BigInt(n *big.Int) eval.Value       { return eval.BigInt(n) }
func Rat(r qrat.Rat) eval.Value          { return eval.Rat(r) }
func RatFrac(num, den int64) eval.Value  { return eval.Rat(qrat.FromFrac(num, den)) }
func Str(s string) eval.Value            { return eval.Str(s) }
func Bool(b bool) eval.Value             { return eval.BoolVal(b) }
func List(vs []eval.Value) eval.Value    { return eval.List(vs) }
func SeriesFromCoeffs(v eval.Value, coeffs map[int64]*big.Rat, t fps.Truncation) eval.Value {
	m := make(map[int64]qrat.Rat, len(coeffs))
	for e, c := range coeffs {
		m[e] = qrat.FromBigFrac(new(big.Int).Set(c.Num()), new(big.Int).Set(c.Denom()))
	}
	return eval.SeriesVal(fps.FromCoeffs(v.Sym, m, t))
}
func JacobiProduct(factors []eval.JacobiFactor) eval.Value { return eval.JacobiProduct(factors) }
func EtaExpression(e etaproof.EtaExpression) eval.Value    { return eval.EtaQuotientVal(e) }
func Poly(p polyq.Poly) eval.Value                         { return eval.QProduct(p) }
func Dict(m map[string]eval.Value) eval.Value              { return eval.Dict(m) }
