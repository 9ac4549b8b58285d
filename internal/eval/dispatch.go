package eval

import (
	"qkangaroo/internal/etaproof"
	"qkangaroo/internal/fps"
	"qkangaroo/internal/gosper"
	"qkangaroo/internal/hypergeom"
	"qkangaroo/internal/mocktheta"
	"qkangaroo/internal/petkovsek"
	"qkangaroo/internal/polyq"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/qseries"
	"qkangaroo/internal/relations"
	"qkangaroo/internal/symtab"
)

// ErrUnknownFunction reports a Call naming a function not in the catalogue.
type ErrUnknownFunction struct{ Name string }

func (e ErrUnknownFunction) Error() string { return "eval: unknown function " + e.Name }

// ErrArity reports a Call with the wrong number of arguments.
type ErrArity struct {
	Name          string
	Got, WantLow  int
	WantHigh      int
}

func (e ErrArity) Error() string {
	return "eval: " + e.Name + ": wrong number of arguments"
}

// dispatchFunc is one catalogue entry: a positional-argument function
// taking the environment (for the registry, default truncation, and bound
// q value) and the already-evaluated argument list.
type dispatchFunc func(env *Environment, args []Value) (Value, error)

// Dispatch resolves name through the function catalogue. Only aqprod
// detects its calling convention from args[0]'s Kind, per spec.md Sec 4.11;
// etaq, jacprod, sift, prodmake, etamake, jacprodmake and the find* family
// each accept a single positional form, and qfactor has no catalogue entry.
func Dispatch(env *Environment, name string, args []Value) (Value, error) {
	fn, ok := catalogue[name]
	if !ok {
		return Value{}, ErrUnknownFunction{Name: name}
	}
	return fn(env, args)
}

var catalogue map[string]dispatchFunc

func init() {
	catalogue = map[string]dispatchFunc{
		"restart":          fnRestart,
		"anames":           fnANames,
		"numbpart":         fnNumbpart,
		"partition_count":  fnNumbpart,
		"aqprod":           fnAqprod,
		"etaq":             fnEtaq,
		"jacprod":          fnJacprod,
		"tripleprod":       fnTripleprod,
		"quinprod":         fnQuinprod,
		"winquist":         fnWinquist,
		"qbin":             fnQbin,
		"theta2":           fnTheta2,
		"theta3":           fnTheta3,
		"theta4":           fnTheta4,
		"partition_gf":     fnPartitionGF,
		"distinct_parts_gf": fnDistinctPartsGF,
		"odd_parts_gf":     fnOddPartsGF,
		"bounded_parts_gf": fnBoundedPartsGF,
		"sift":             fnSift,
		"prodmake":         fnProdmake,
		"etamake":          fnEtamake,
		"jacprodmake":      fnJacprodmake,
		"findlincombo":     fnFindLinCombo,
		"findhom":          fnFindHom,
		"findnonhom":       fnFindNonHom,
		"findhommodp":      fnFindHomModP,
		"findcong":         fnFindCong,
		"findprod":         fnFindProd,
		"checkmult":        fnCheckMult,
		"checkprod":        fnCheckProd,
		"lqdegree0":        fnLqdegree0,
		"checkmodularity":  fnCheckModularity,
		"cuspmake":         fnCuspMake,
		"orderatcusp":      fnOrderAtCusp,
		"proveeta":         fnProveEta,
		"qpetkovsek":       fnQPetkovsek,
		"qgosper":          fnQGosper,
		"qshift":           fnQShift,
		"qshiftn":          fnQShiftN,
		"poly_gcd":         fnPolyGCD,
		"poly_resultant":   fnPolyResultant,
		"mockthetaF3":      fnMockthetaSeries(mocktheta.ThirdOrderF),
		"mockthetaphi3":    fnMockthetaSeries(mocktheta.ThirdOrderPhi),
		"mockthetapsi3":    fnMockthetaSeries(mocktheta.ThirdOrderPsi),
		"mockthetachi3":    fnMockthetaSeries(mocktheta.ThirdOrderChi),
		"mockthetaF0_5":    fnMockthetaSeries(mocktheta.FifthOrderF0),
		"mockthetaF1_5":    fnMockthetaSeries(mocktheta.FifthOrderF1),
		"appelllerch":      fnAppellLerch,
	}
}

// fnMockthetaSeries adapts one of the catalogue.go mock theta functions
// (which take only the implicit variable and a truncation) into a
// zero-argument dispatch entry.
func fnMockthetaSeries(f func(v symtab.ID, t fps.Truncation) (fps.Series, error)) dispatchFunc {
	return func(env *Environment, args []Value) (Value, error) {
		s, err := f(env.QSymbol, env.DefaultTrunc)
		if err != nil {
			return Value{}, err
		}
		return SeriesVal(s), nil
	}
}

func fnAppellLerch(env *Environment, args []Value) (Value, error) {
	if len(args) != 3 {
		return Value{}, ErrArity{Name: "appelllerch", Got: len(args), WantLow: 3, WantHigh: 3}
	}
	x, ok1 := monoArg(env, args[0])
	q, ok2 := monoArg(env, args[1])
	z, ok3 := monoArg(env, args[2])
	if !ok1 || !ok2 || !ok3 {
		return Value{}, ErrTypeMismatch{Op: "appelllerch", Kind: args[0].Kind}
	}
	s, err := mocktheta.AppellLerchSum(env.QSymbol, x, q, z, 12, env.DefaultTrunc)
	if err != nil {
		return Value{}, err
	}
	return SeriesVal(s), nil
}

func fnRestart(env *Environment, args []Value) (Value, error) {
	env.Restart()
	return BoolVal(true), nil
}

func fnANames(env *Environment, args []Value) (Value, error) {
	names := env.ANames()
	out := make([]Value, len(names))
	for i, n := range names {
		out[i] = Str(n)
	}
	return List(out), nil
}

func fnNumbpart(env *Environment, args []Value) (Value, error) {
	if len(args) != 1 || args[0].Kind != KindInteger {
		return Value{}, ErrArity{Name: "numbpart", Got: len(args), WantLow: 1, WantHigh: 1}
	}
	n := args[0].Int.Int64()
	return BigInt(qseries.PartitionCount(n)), nil
}

// monoArg converts a [coeff, power] list Value (or a bare q-promoted
// Symbol/Rational) into a q-monomial.
func monoArg(env *Environment, v Value) (qmono.Mono, bool) {
	switch v.Kind {
	case KindList:
		if len(v.List) != 2 {
			return qmono.Mono{}, false
		}
		c, ok1 := toRat(v.List[0])
		p, ok2 := toRat(v.List[1])
		if !ok1 || !ok2 || !p.IsInt() {
			return qmono.Mono{}, false
		}
		return qmono.New(c, p.Num().Int64()), true
	case KindSymbol:
		if v.Sym == env.QSymbol {
			return qmono.New(qrat.One(), 1), true
		}
		return qmono.Mono{}, false
	case KindInteger, KindRational:
		r, _ := toRat(v)
		return qmono.New(r, 0), true
	default:
		return qmono.Mono{}, false
	}
}

// fnAqprod implements aqprod's dual dispatch: args[0] a Symbol or List
// selects the (a, q, n [, T]) form; otherwise the legacy
// (coeff_num, coeff_den, power, n, T) form.
func fnAqprod(env *Environment, args []Value) (Value, error) {
	if len(args) < 3 {
		return Value{}, ErrArity{Name: "aqprod", Got: len(args), WantLow: 3, WantHigh: 5}
	}
	if args[0].Kind == KindSymbol || args[0].Kind == KindList {
		a, ok := monoArg(env, args[0])
		q, ok2 := monoArg(env, args[1])
		n, ok3 := toRat(args[2])
		if !ok || !ok2 || !ok3 || !n.IsInt() {
			return Value{}, ErrTypeMismatch{Op: "aqprod", Kind: args[0].Kind}
		}
		t := env.DefaultTrunc
		if len(args) >= 4 {
			t = truncArg(args[3])
		}
		s, err := qseries.AQProd(env.QSymbol, a, q, n.Num().Int64(), t)
		if err != nil {
			return Value{}, err
		}
		return SeriesVal(s), nil
	}
	if len(args) != 5 {
		return Value{}, ErrArity{Name: "aqprod", Got: len(args), WantLow: 5, WantHigh: 5}
	}
	num, _ := toRat(args[0])
	den, _ := toRat(args[1])
	power, _ := toRat(args[2])
	n, _ := toRat(args[3])
	a := qmono.New(num.Div(den), power.Num().Int64())
	q := qmono.New(qrat.One(), 1)
	t := truncArg(args[4])
	s, err := qseries.AQProd(env.QSymbol, a, q, n.Num().Int64(), t)
	if err != nil {
		return Value{}, err
	}
	return SeriesVal(s), nil
}

func truncArg(v Value) fps.Truncation {
	r, ok := toRat(v)
	if !ok || !r.IsInt() {
		return fps.Truncated(20)
	}
	return fps.Truncated(r.Num().Int64())
}

func fnEtaq(env *Environment, args []Value) (Value, error) {
	if len(args) < 2 {
		return Value{}, ErrArity{Name: "etaq", Got: len(args), WantLow: 2, WantHigh: 3}
	}
	b, _ := toRat(args[0])
	step, _ := toRat(args[1])
	t := env.DefaultTrunc
	if len(args) == 3 {
		t = truncArg(args[2])
	}
	return SeriesVal(qseries.EtaQ(env.QSymbol, b.Num().Int64(), step.Num().Int64(), env.QValue, t)), nil
}

// fnJacprod resolves the jacprod name ambiguity (spec Sec 9 Open Question):
// the 2-arg form is the JAC(a,b) primitive; a 3rd truthy argument requests
// the Garvan-compatible ratio form JAC(a,b)/JAC(b,3b), derived here at the
// dispatch boundary rather than inside internal/qseries.
func fnJacprod(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return Value{}, ErrArity{Name: "jacprod", Got: len(args), WantLow: 2, WantHigh: 3}
	}
	a, _ := toRat(args[0])
	b, _ := toRat(args[1])
	aExp, bExp := a.Num().Int64(), b.Num().Int64()
	primitive := qseries.Jacprod(env.QSymbol, aExp, bExp, env.QValue, env.DefaultTrunc)
	if len(args) == 2 || !isTruthy(args[2]) {
		return SeriesVal(primitive), nil
	}
	denom := qseries.Jacprod(env.QSymbol, bExp, 3*bExp, env.QValue, env.DefaultTrunc)
	inv, err := denom.Invert()
	if err != nil {
		return Value{}, err
	}
	return SeriesVal(primitive.Mul(inv)), nil
}

// isTruthy reports whether v is the dispatch-layer signal for "ratio form":
// a boolean true, or a nonzero integer/rational.
func isTruthy(v Value) bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInteger:
		return v.Int.Sign() != 0
	case KindRational:
		return v.Rat.Num().Sign() != 0
	default:
		return false
	}
}

func fnTripleprod(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, ErrArity{Name: "tripleprod", Got: len(args), WantLow: 2, WantHigh: 2}
	}
	z, ok := monoArg(env, args[0])
	q, ok2 := monoArg(env, args[1])
	if !ok || !ok2 {
		return Value{}, ErrTypeMismatch{Op: "tripleprod", Kind: args[0].Kind}
	}
	return SeriesVal(qseries.TripleProd(env.QSymbol, z, q, env.DefaultTrunc)), nil
}

func fnQuinprod(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, ErrArity{Name: "quinprod", Got: len(args), WantLow: 2, WantHigh: 2}
	}
	z, _ := monoArg(env, args[0])
	q, _ := monoArg(env, args[1])
	return SeriesVal(qseries.QuinProd(env.QSymbol, z, q, env.DefaultTrunc)), nil
}

func fnWinquist(env *Environment, args []Value) (Value, error) {
	if len(args) != 3 {
		return Value{}, ErrArity{Name: "winquist", Got: len(args), WantLow: 3, WantHigh: 3}
	}
	a, _ := monoArg(env, args[0])
	b, _ := monoArg(env, args[1])
	q, _ := monoArg(env, args[2])
	return SeriesVal(qseries.Winquist(env.QSymbol, a, b, q, env.DefaultTrunc)), nil
}

func fnQbin(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, ErrArity{Name: "qbin", Got: len(args), WantLow: 2, WantHigh: 2}
	}
	n, _ := toRat(args[0])
	k, _ := toRat(args[1])
	q := qmono.New(qrat.One(), 1)
	s, err := qseries.QBin(env.QSymbol, n.Num().Int64(), k.Num().Int64(), q)
	if err != nil {
		return Value{}, err
	}
	return SeriesVal(s), nil
}

// fnTheta2 returns theta2(q)/q^{1/4} = 2*sum_{n>=0} q^{n(n+1)}: the
// quarter-integer prefactor q^{1/4} has no representation in this
// integer-exponent FPS model, so the reduced series is returned instead and
// the caller is expected to track the q^{1/4} factor out of band.
func fnTheta2(env *Environment, args []Value) (Value, error) {
	t := env.DefaultTrunc
	s := fps.Zero(env.QSymbol, t)
	limit := t.Order()
	for n := int64(0); n*(n+1) < limit; n++ {
		e := n * (n + 1)
		s.Coeffs[e] = s.Coeff(e).Add(qrat.FromInt64(2))
	}
	return SeriesVal(s), nil
}
func fnTheta3(env *Environment, args []Value) (Value, error) {
	return SeriesVal(qseries.Theta3(env.QSymbol, env.DefaultTrunc)), nil
}
func fnTheta4(env *Environment, args []Value) (Value, error) {
	return SeriesVal(qseries.Theta4(env.QSymbol, env.DefaultTrunc)), nil
}

func fnPartitionGF(env *Environment, args []Value) (Value, error) {
	s, err := qseries.PartitionGF(env.QSymbol, env.DefaultTrunc)
	if err != nil {
		return Value{}, err
	}
	return SeriesVal(s), nil
}

func fnDistinctPartsGF(env *Environment, args []Value) (Value, error) {
	return SeriesVal(qseries.DistinctPartsGF(env.QSymbol, env.DefaultTrunc)), nil
}

func fnOddPartsGF(env *Environment, args []Value) (Value, error) {
	s, err := qseries.OddPartsGF(env.QSymbol, env.DefaultTrunc)
	if err != nil {
		return Value{}, err
	}
	return SeriesVal(s), nil
}

func fnBoundedPartsGF(env *Environment, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, ErrArity{Name: "bounded_parts_gf", Got: len(args), WantLow: 1, WantHigh: 1}
	}
	m, _ := toRat(args[0])
	s, err := qseries.BoundedPartsGF(env.QSymbol, m.Num().Int64(), env.DefaultTrunc)
	if err != nil {
		return Value{}, err
	}
	return SeriesVal(s), nil
}

func requireSeries(op string, v Value) (fps.Series, error) {
	if v.Kind != KindSeries {
		return fps.Series{}, ErrTypeMismatch{Op: op, Kind: v.Kind}
	}
	return v.Series, nil
}

func fnSift(env *Environment, args []Value) (Value, error) {
	if len(args) != 3 {
		return Value{}, ErrArity{Name: "sift", Got: len(args), WantLow: 3, WantHigh: 3}
	}
	s, err := requireSeries("sift", args[0])
	if err != nil {
		return Value{}, err
	}
	m, _ := toRat(args[1])
	j, _ := toRat(args[2])
	return SeriesVal(relations.Sift(s, m.Num().Int64(), j.Num().Int64())), nil
}

func fnProdmake(env *Environment, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, ErrArity{Name: "prodmake", Got: len(args), WantLow: 1, WantHigh: 1}
	}
	s, err := requireSeries("prodmake", args[0])
	if err != nil {
		return Value{}, err
	}
	result, err := relations.Prodmake(s)
	if err != nil {
		return Value{}, err
	}
	return prodmakeResultValue(result), nil
}

func prodmakeResultValue(result relations.ProdmakeResult) Value {
	exps := map[string]Value{}
	for n, a := range result.Exponents {
		exps[itoa(n)] = Rat(a)
	}
	return Dict(map[string]Value{
		"exponents":     Dict(exps),
		"terms_used":    Int(result.TermsUsed),
		"leading_coeff": Rat(result.LeadingCoeff),
		"valuation":     Int(result.Valuation),
		"is_exact":      BoolVal(result.IsExact),
	})
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func fnEtamake(env *Environment, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, ErrArity{Name: "etamake", Got: len(args), WantLow: 1, WantHigh: 1}
	}
	s, err := requireSeries("etamake", args[0])
	if err != nil {
		return Value{}, err
	}
	eq, err := relations.Etamake(s)
	if err != nil {
		return Value{}, err
	}
	level := int64(1)
	for d := range eq.Factors {
		if d > level {
			level = d
		}
	}
	return EtaQuotientVal(eq.ToEtaExpression(level)), nil
}

func fnJacprodmake(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, ErrArity{Name: "jacprodmake", Got: len(args), WantLow: 2, WantHigh: 2}
	}
	s, err := requireSeries("jacprodmake", args[0])
	if err != nil {
		return Value{}, err
	}
	bMax, _ := toRat(args[1])
	prod, err := relations.Prodmake(s)
	if err != nil {
		return Value{}, err
	}
	factors, ok := relations.JacProdMake(prod, bMax.Num().Int64())
	if !ok {
		return BoolVal(false), nil
	}
	out := make([]JacobiFactor, len(factors))
	for i, f := range factors {
		out[i] = JacobiFactor{A: f.A, B: f.B, Exponent: f.Multiplicity}
	}
	return JacobiProduct(out), nil
}

func requireSeriesList(op string, v Value) ([]fps.Series, error) {
	if v.Kind != KindList {
		return nil, ErrTypeMismatch{Op: op, Kind: v.Kind}
	}
	out := make([]fps.Series, len(v.List))
	for i, e := range v.List {
		s, err := requireSeries(op, e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func fnFindLinCombo(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, ErrArity{Name: "findlincombo", Got: len(args), WantLow: 2, WantHigh: 2}
	}
	f, err := requireSeries("findlincombo", args[0])
	if err != nil {
		return Value{}, err
	}
	basis, err := requireSeriesList("findlincombo", args[1])
	if err != nil {
		return Value{}, err
	}
	coeffs, ok := relations.FindLinCombo(f, basis)
	if !ok {
		return BoolVal(false), nil
	}
	out := make([]Value, len(coeffs))
	for i, c := range coeffs {
		out[i] = Rat(c)
	}
	return List(out), nil
}

func fnFindHom(env *Environment, args []Value) (Value, error) {
	series, err := requireSeriesList("findhom", args[0])
	if err != nil {
		return Value{}, err
	}
	result := relations.FindHom(series)
	if !result.Found {
		return BoolVal(false), nil
	}
	return ratListValue(result.Coeffs), nil
}

func fnFindNonHom(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, ErrArity{Name: "findnonhom", Got: len(args), WantLow: 2, WantHigh: 2}
	}
	series, err := requireSeriesList("findnonhom", args[0])
	if err != nil {
		return Value{}, err
	}
	target, err := requireSeries("findnonhom", args[1])
	if err != nil {
		return Value{}, err
	}
	result := relations.FindNonHom(series, target)
	if !result.Found {
		return BoolVal(false), nil
	}
	return ratListValue(result.Coeffs), nil
}

func fnFindHomModP(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, ErrArity{Name: "findhommodp", Got: len(args), WantLow: 2, WantHigh: 2}
	}
	series, err := requireSeriesList("findhommodp", args[0])
	if err != nil {
		return Value{}, err
	}
	p, _ := toRat(args[1])
	coeffs, found := relations.FindHomModP(series, p.Num().Int64())
	if !found {
		return BoolVal(false), nil
	}
	out := make([]Value, len(coeffs))
	for i, c := range coeffs {
		out[i] = Int(c)
	}
	return List(out), nil
}

func ratListValue(coeffs []qrat.Rat) Value {
	out := make([]Value, len(coeffs))
	for i, c := range coeffs {
		out[i] = Rat(c)
	}
	return List(out)
}

func fnFindCong(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, ErrArity{Name: "findcong", Got: len(args), WantLow: 2, WantHigh: 2}
	}
	s, err := requireSeries("findcong", args[0])
	if err != nil {
		return Value{}, err
	}
	lm, _ := toRat(args[1])
	results := relations.FindCong(s, lm.Num().Int64())
	out := make([]Value, len(results))
	for i, c := range results {
		out[i] = List([]Value{Int(c.Modulus), Int(c.Residue), Int(c.ReducingPrime)})
	}
	return List(out), nil
}

func fnFindProd(env *Environment, args []Value) (Value, error) {
	if len(args) != 4 {
		return Value{}, ErrArity{Name: "findprod", Got: len(args), WantLow: 4, WantHigh: 4}
	}
	series, err := requireSeriesList("findprod", args[0])
	if err != nil {
		return Value{}, err
	}
	T, _ := toRat(args[1])
	M, _ := toRat(args[2])
	Q, _ := toRat(args[3])
	results := relations.FindProd(series, T.Num().Int64(), M.Num().Int64(), Q.Num().Int64())
	out := make([]Value, len(results))
	for i, r := range results {
		coeffs := make([]Value, len(r.Coeffs))
		for j, c := range r.Coeffs {
			coeffs[j] = Int(c)
		}
		out[i] = List([]Value{Int(r.Valuation), List(coeffs)})
	}
	return List(out), nil
}

func fnCheckMult(env *Environment, args []Value) (Value, error) {
	if len(args) < 2 {
		return Value{}, ErrArity{Name: "checkmult", Got: len(args), WantLow: 2, WantHigh: 3}
	}
	if args[0].Kind != KindList {
		return Value{}, ErrTypeMismatch{Op: "checkmult", Kind: args[0].Kind}
	}
	coeffs := make([]int64, len(args[0].List))
	for i, v := range args[0].List {
		r, _ := toRat(v)
		coeffs[i] = r.Num().Int64()
	}
	T, _ := toRat(args[1])
	all := len(args) == 3 && args[2].Kind == KindString && args[2].Str == "yes"
	failures := relations.CheckMult(coeffs, T.Num().Int64(), all)
	out := make([]Value, len(failures))
	for i, f := range failures {
		out[i] = List([]Value{Int(f.M), Int(f.N), Int(f.Expected), Int(f.Actual)})
	}
	return List(out), nil
}

func fnCheckProd(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, ErrArity{Name: "checkprod", Got: len(args), WantLow: 2, WantHigh: 2}
	}
	s, err := requireSeries("checkprod", args[0])
	if err != nil {
		return Value{}, err
	}
	M, _ := toRat(args[1])
	result, err := relations.CheckProd(s, M.Num().Int64())
	if err != nil {
		return Value{}, err
	}
	switch result.Outcome {
	case relations.NiceProduct:
		return List([]Value{Int(result.LeadingCoeff), Int(1)}), nil
	case relations.LeadingCoeffNotInteger:
		return List([]Value{List([]Value{Int(result.LeadingCoeff), Int(0)}), Int(-1)}), nil
	default:
		return List([]Value{Int(result.LeadingCoeff), Int(result.MaxExponent)}), nil
	}
}

func fnLqdegree0(env *Environment, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, ErrArity{Name: "lqdegree0", Got: len(args), WantLow: 1, WantHigh: 1}
	}
	s, err := requireSeries("lqdegree0", args[0])
	if err != nil {
		return Value{}, err
	}
	v, ok := relations.Lqdegree0(s)
	if !ok {
		return BoolVal(false), nil
	}
	return Int(v), nil
}

func requireEta(op string, v Value) (etaproof.EtaExpression, error) {
	if v.Kind != KindEtaQuotient {
		return etaproof.EtaExpression{}, ErrTypeMismatch{Op: op, Kind: v.Kind}
	}
	return v.Eta, nil
}

func fnCheckModularity(env *Environment, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, ErrArity{Name: "checkmodularity", Got: len(args), WantLow: 1, WantHigh: 1}
	}
	eta, err := requireEta("checkmodularity", args[0])
	if err != nil {
		return Value{}, err
	}
	result := etaproof.CheckModularity(eta)
	conditions := make([]Value, len(result.FailedConditions))
	for i, c := range result.FailedConditions {
		conditions[i] = Str(c)
	}
	return Dict(map[string]Value{"ok": BoolVal(result.OK), "failed": List(conditions)}), nil
}

func fnCuspMake(env *Environment, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, ErrArity{Name: "cuspmake", Got: len(args), WantLow: 1, WantHigh: 1}
	}
	n, _ := toRat(args[0])
	cusps := etaproof.CuspMake(n.Num().Int64())
	out := make([]Value, len(cusps))
	for i, c := range cusps {
		out[i] = List([]Value{Int(c.Numer), Int(c.Denom)})
	}
	return List(out), nil
}

func fnOrderAtCusp(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, ErrArity{Name: "orderatcusp", Got: len(args), WantLow: 2, WantHigh: 2}
	}
	eta, err := requireEta("orderatcusp", args[0])
	if err != nil {
		return Value{}, err
	}
	d, _ := toRat(args[1])
	return Rat(etaproof.OrderAtCusp(eta, d.Num().Int64())), nil
}

func fnProveEta(env *Environment, args []Value) (Value, error) {
	if len(args) != 3 {
		return Value{}, ErrArity{Name: "proveeta", Got: len(args), WantLow: 3, WantHigh: 3}
	}
	lhs, err := requireEta("proveeta", args[0])
	if err != nil {
		return Value{}, err
	}
	rhs, err := requireEta("proveeta", args[1])
	if err != nil {
		return Value{}, err
	}
	constant, _ := toRat(args[2])
	result := etaproof.ProveEtaIdentity(lhs, rhs, constant)
	return Dict(map[string]Value{
		"outcome": Int(int64(result.Outcome)),
		"level":   Int(result.Level),
	}), nil
}

func fnQPetkovsek(env *Environment, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, ErrArity{Name: "qpetkovsek", Got: len(args), WantLow: 1, WantHigh: 1}
	}
	if args[0].Kind != KindList {
		return Value{}, ErrTypeMismatch{Op: "qpetkovsek", Kind: args[0].Kind}
	}
	coeffs := make([]qrat.Rat, len(args[0].List))
	for i, v := range args[0].List {
		r, _ := toRat(v)
		coeffs[i] = r
	}
	result := petkovsek.Solve(coeffs, env.QValue)
	return Dict(map[string]Value{
		"outcome":        Int(int64(result.Outcome)),
		"num_solutions":  Int(int64(len(result.Solutions))),
	}), nil
}

// hyperArg builds a hypergeom.Series from a Dict Value with "upper",
// "lower", "nome", "argument" keys (each a [coeff,power] pair, upper/lower
// lists of such pairs).
func hyperArg(env *Environment, v Value) (hypergeom.Series, error) {
	if v.Kind != KindDict {
		return hypergeom.Series{}, ErrTypeMismatch{Op: "hyperArg", Kind: v.Kind}
	}
	upperVal, ok := v.Dict["upper"]
	if !ok || upperVal.Kind != KindList {
		return hypergeom.Series{}, ErrTypeMismatch{Op: "hyperArg", Kind: v.Kind}
	}
	upper := make([]qmono.Mono, len(upperVal.List))
	for i, u := range upperVal.List {
		m, ok := monoArg(env, u)
		if !ok {
			return hypergeom.Series{}, ErrTypeMismatch{Op: "hyperArg", Kind: u.Kind}
		}
		upper[i] = m
	}
	lowerVal := v.Dict["lower"]
	lower := make([]qmono.Mono, len(lowerVal.List))
	for i, l := range lowerVal.List {
		m, _ := monoArg(env, l)
		lower[i] = m
	}
	nome, _ := monoArg(env, v.Dict["nome"])
	z, _ := monoArg(env, v.Dict["argument"])
	return hypergeom.NewPhi(upper, lower, nome, z), nil
}

func fnQGosper(env *Environment, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, ErrArity{Name: "qgosper", Got: len(args), WantLow: 1, WantHigh: 1}
	}
	s, err := hyperArg(env, args[0])
	if err != nil {
		return Value{}, err
	}
	result, err := gosper.Gosper(s, env.QValue)
	if err != nil {
		return Value{}, err
	}
	return Dict(map[string]Value{"outcome": Int(int64(result.Outcome))}), nil
}

func fnQShift(env *Environment, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, ErrArity{Name: "qshift", Got: len(args), WantLow: 1, WantHigh: 1}
	}
	if args[0].Kind != KindQProduct {
		return Value{}, ErrTypeMismatch{Op: "qshift", Kind: args[0].Kind}
	}
	return QProduct(polyq.QShift(args[0].Poly, env.QValue)), nil
}

func fnQShiftN(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, ErrArity{Name: "qshiftn", Got: len(args), WantLow: 2, WantHigh: 2}
	}
	if args[0].Kind != KindQProduct {
		return Value{}, ErrTypeMismatch{Op: "qshiftn", Kind: args[0].Kind}
	}
	j, _ := toRat(args[1])
	return QProduct(polyq.QShiftN(args[0].Poly, env.QValue, j.Num().Int64())), nil
}

func fnPolyGCD(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 || args[0].Kind != KindQProduct || args[1].Kind != KindQProduct {
		return Value{}, ErrTypeMismatch{Op: "poly_gcd", Kind: args[0].Kind}
	}
	return QProduct(polyq.GCD(args[0].Poly, args[1].Poly)), nil
}

func fnPolyResultant(env *Environment, args []Value) (Value, error) {
	if len(args) != 2 || args[0].Kind != KindQProduct || args[1].Kind != KindQProduct {
		return Value{}, ErrTypeMismatch{Op: "poly_resultant", Kind: args[0].Kind}
	}
	return Rat(polyq.Resultant(args[0].Poly, args[1].Poly)), nil
}
