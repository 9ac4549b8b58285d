// Package eval implements the Value discriminated union and the
// symbol-aware evaluator/dispatcher that sits on top of the kernel
// packages qrat, symtab, qmono, fps, qseries, hypergeom, mocktheta, polyq,
// gosper, petkovsek, etaproof, and relations.
package eval

import (
	"math/big"
	"sort"
	"strings"

	"qkangaroo/internal/etaproof"
	"qkangaroo/internal/fps"
	"qkangaroo/internal/polyq"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

// Kind tags which arm of the Value union is populated.
type Kind int

const (
	KindInteger Kind = iota
	KindRational
	KindSymbol
	KindString
	KindBool
	KindList
	KindSeries
	KindJacobiProduct
	KindEtaQuotient
	KindQProduct
	KindDict
	KindLambda
)

// JacobiFactor is one (a, b, exponent) layer of a JacobiProduct value,
// denoting JAC(a,b)^exponent.
type JacobiFactor struct {
	A, B, Exponent int64
}

// Lambda is a user-defined function: a closure over the environment at
// definition time, names bound to Expr arguments at call time.
type Lambda struct {
	Params []string
	Body   Expr
	Env    *Environment
}

// Value is the evaluator's tagged union. Exactly one field is meaningful
// per Kind.
type Value struct {
	Kind    Kind
	Int     *big.Int
	Rat     qrat.Rat
	Sym     symtab.ID
	Str     string
	Bool    bool
	List    []Value
	Series  fps.Series
	Jacobi  []JacobiFactor
	Eta     etaproof.EtaExpression
	Poly    polyq.Poly
	Dict    map[string]Value
	Lambda  *Lambda
}

func Int(n int64) Value            { return Value{Kind: KindInteger, Int: big.NewInt(n)} }
func BigInt(n *big.Int) Value      { return Value{Kind: KindInteger, Int: new(big.Int).Set(n)} }
func Rat(r qrat.Rat) Value         { return Value{Kind: KindRational, Rat: r} }
func Sym(id symtab.ID) Value       { return Value{Kind: KindSymbol, Sym: id} }
func Str(s string) Value           { return Value{Kind: KindString, Str: s} }
func BoolVal(b bool) Value         { return Value{Kind: KindBool, Bool: b} }
func List(vs []Value) Value        { return Value{Kind: KindList, List: vs} }
func SeriesVal(s fps.Series) Value { return Value{Kind: KindSeries, Series: s} }
func JacobiProduct(factors []JacobiFactor) Value {
	return Value{Kind: KindJacobiProduct, Jacobi: factors}
}
func EtaQuotientVal(e etaproof.EtaExpression) Value { return Value{Kind: KindEtaQuotient, Eta: e} }
func QProduct(p polyq.Poly) Value                   { return Value{Kind: KindQProduct, Poly: p} }
func Dict(m map[string]Value) Value                 { return Value{Kind: KindDict, Dict: m} }
func LambdaVal(l *Lambda) Value                      { return Value{Kind: KindLambda, Lambda: l} }

// IsZero reports whether v is the additive identity of its own kind, where
// that is well-defined (numeric and series kinds only).
func (v Value) IsZero() bool {
	switch v.Kind {
	case KindInteger:
		return v.Int.Sign() == 0
	case KindRational:
		return v.Rat.IsZero()
	case KindSeries:
		return len(v.Series.Coeffs) == 0
	default:
		return false
	}
}

// ErrTypeMismatch reports that an operation received a Value of a kind it
// cannot act on.
type ErrTypeMismatch struct {
	Op   string
	Kind Kind
}

func (e ErrTypeMismatch) Error() string {
	return "eval: " + e.Op + ": unsupported value kind " + kindName(e.Kind)
}

func kindName(k Kind) string {
	switch k {
	case KindInteger:
		return "integer"
	case KindRational:
		return "rational"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindSeries:
		return "series"
	case KindJacobiProduct:
		return "jacobi_product"
	case KindEtaQuotient:
		return "eta_quotient"
	case KindQProduct:
		return "q_product"
	case KindDict:
		return "dict"
	case KindLambda:
		return "lambda"
	default:
		return "unknown"
	}
}

// toRat converts an Integer or Rational value to qrat.Rat; ok is false for
// any other kind.
func toRat(v Value) (qrat.Rat, bool) {
	switch v.Kind {
	case KindInteger:
		return qrat.FromInt(v.Int), true
	case KindRational:
		return v.Rat, true
	default:
		return qrat.Rat{}, false
	}
}

// toSeries promotes v to an FPS over env's registered q symbol, the
// "q + 1 promotes q to an FPS monomial" rule spec.md Sec 4.11 describes.
// A bare Symbol promotes to v^1 when it is env's q symbol; any other symbol
// is not representable in the FPS model, so toSeries reports ok=false and
// the arithmetic reports ErrTypeMismatch upstream.
func toSeries(v Value, env *Environment) (fps.Series, bool) {
	switch v.Kind {
	case KindSeries:
		return v.Series, true
	case KindInteger, KindRational:
		r, _ := toRat(v)
		return fps.Constant(r, env.QSymbol, env.DefaultTrunc), true
	case KindSymbol:
		if v.Sym != env.QSymbol {
			return fps.Series{}, false
		}
		s := fps.Zero(env.QSymbol, env.DefaultTrunc)
		s.Coeffs[1] = qrat.One()
		return s, true
	default:
		return fps.Series{}, false
	}
}

// Add implements symbol-aware addition: numeric+numeric stays numeric,
// anything touching a Series or the q Symbol promotes both sides to FPS.
func Add(env *Environment, a, b Value) (Value, error) {
	if ra, ok := toRat(a); ok {
		if rb, ok := toRat(b); ok {
			return numericResult(a, b, ra.Add(rb)), nil
		}
	}
	sa, aok := toSeries(a, env)
	sb, bok := toSeries(b, env)
	if aok && bok {
		return SeriesVal(sa.Add(sb)), nil
	}
	return Value{}, ErrTypeMismatch{Op: "add", Kind: a.Kind}
}

// Sub is Add's subtractive counterpart.
func Sub(env *Environment, a, b Value) (Value, error) {
	if ra, ok := toRat(a); ok {
		if rb, ok := toRat(b); ok {
			return numericResult(a, b, ra.Sub(rb)), nil
		}
	}
	sa, aok := toSeries(a, env)
	sb, bok := toSeries(b, env)
	if aok && bok {
		return SeriesVal(sa.Sub(sb)), nil
	}
	return Value{}, ErrTypeMismatch{Op: "sub", Kind: a.Kind}
}

// Mul is Add's multiplicative counterpart.
func Mul(env *Environment, a, b Value) (Value, error) {
	if ra, ok := toRat(a); ok {
		if rb, ok := toRat(b); ok {
			return numericResult(a, b, ra.Mul(rb)), nil
		}
	}
	sa, aok := toSeries(a, env)
	sb, bok := toSeries(b, env)
	if aok && bok {
		return SeriesVal(sa.Mul(sb)), nil
	}
	return Value{}, ErrTypeMismatch{Op: "mul", Kind: a.Kind}
}

// numericResult keeps the result an Integer when both operands were
// integers and the quotient is exact, mirroring the polynomial-sentinel
// discipline's spirit: don't silently promote a value to a wider
// representation than the inputs justify.
func numericResult(a, b Value, r qrat.Rat) Value {
	if a.Kind == KindInteger && b.Kind == KindInteger && r.IsInt() {
		return BigInt(r.Num())
	}
	return Rat(r)
}

// String renders v for diagnostics; q-kangaroo's non-goals exclude
// end-user presentation, so this is not a parser-round-trippable format.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return v.Int.String()
	case KindRational:
		return v.Rat.String()
	case KindSymbol:
		return "<symbol>"
	case KindString:
		return v.Str
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindSeries:
		return v.Series.String()
	case KindDict:
		keys := make([]string, 0, len(v.Dict))
		for k := range v.Dict {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.Dict[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return kindName(v.Kind)
	}
}
