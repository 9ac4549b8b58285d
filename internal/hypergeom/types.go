// Package hypergeom implements the basic and bilateral q-hypergeometric
// catalogue: _rphi_s series, term-by-term expansion into a
// Formal Power Series, the three Heine transforms, Sears and Watson
// transforms, transformation-chain BFS, and closed-form summation dispatch.
package hypergeom

import (
	"sort"
	"strings"

	"qkangaroo/internal/qmono"
)

// Kind distinguishes basic (_rphi_s) from bilateral (_rpsi_s) series.
type Kind int

const (
	Basic Kind = iota
	Bilateral
)

// Series captures a q-hypergeometric series: ordered upper and
// lower parameter multisets, a nome, an argument, and the extra_factor
// exponent recording the correction power of ((-1)^k q^{k(k-1)/2}) needed
// when r != s+1.
type Series struct {
	Kind        Kind
	Upper       []qmono.Mono
	Lower       []qmono.Mono
	Nome        qmono.Mono
	Argument    qmono.Mono
	ExtraFactor int64
}

// NewPhi constructs a basic _rphi_s series, computing the canonical
// extra_factor exponent s+1-r automatically.
func NewPhi(upper, lower []qmono.Mono, nome, z qmono.Mono) Series {
	r := len(upper)
	s := len(lower)
	return Series{
		Kind:        Basic,
		Upper:       append([]qmono.Mono(nil), upper...),
		Lower:       append([]qmono.Mono(nil), lower...),
		Nome:        nome,
		Argument:    z,
		ExtraFactor: int64(s + 1 - r),
	}
}

// CanonicalKey returns an order-independent string encoding of s's
// parameters, used both for display and as the visited-set key in
// transformation-chain BFS: upper and lower
// parameter lists are each sorted into a canonical string form before
// concatenation, since they are semantically multisets.
func (s Series) CanonicalKey() string {
	up := monoStrings(s.Upper)
	lo := monoStrings(s.Lower)
	sort.Strings(up)
	sort.Strings(lo)
	var b strings.Builder
	b.WriteString("U[")
	b.WriteString(strings.Join(up, ","))
	b.WriteString("]L[")
	b.WriteString(strings.Join(lo, ","))
	b.WriteString("]q(")
	b.WriteString(monoString(s.Nome))
	b.WriteString(")z(")
	b.WriteString(monoString(s.Argument))
	b.WriteString(")")
	return b.String()
}

func monoStrings(ms []qmono.Mono) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = monoString(m)
	}
	return out
}

func monoString(m qmono.Mono) string {
	return m.Coeff.String() + "^p" + itoa(m.Power)
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
