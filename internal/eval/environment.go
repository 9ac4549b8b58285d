package eval

import (
	"sort"

	"qkangaroo/internal/fps"
	"qkangaroo/internal/qrat"
	"qkangaroo/internal/symtab"
)

// Environment owns one session's mutable evaluation state: its symbol
// registry, user bindings, and the default series truncation order new FPS
// values are built at when no caller-supplied T is given.
type Environment struct {
	Registry     *symtab.Registry
	QSymbol      symtab.ID
	QValue       qrat.Rat // the concrete rational q is bound to for numeric evaluation
	DefaultTrunc fps.Truncation
	bindings     map[string]Value
}

// NewEnvironment returns a fresh environment with the q symbol pre-interned
// and bound to 1/2 by default (overridable via SetQValue), matching the
// "algorithms run at a concrete rational q value" non-goal.
func NewEnvironment(defaultOrder int64) *Environment {
	reg := symtab.New()
	q := reg.Intern("q")
	return &Environment{
		Registry:     reg,
		QSymbol:      q,
		QValue:       qrat.FromFrac(1, 2),
		DefaultTrunc: fps.Truncated(defaultOrder),
		bindings:     map[string]Value{},
	}
}

// SetQValue rebinds the concrete rational value q is evaluated at.
func (e *Environment) SetQValue(q qrat.Rat) { e.QValue = q }

// Bind associates name with v in this environment, overwriting any prior
// binding.
func (e *Environment) Bind(name string, v Value) { e.bindings[name] = v }

// Lookup returns name's bound value, reporting whether it is bound.
func (e *Environment) Lookup(name string) (Value, bool) {
	v, ok := e.bindings[name]
	return v, ok
}

// Unbind removes name's binding, the effect of Maple's `x := 'x'`
// self-assignment idiom.
func (e *Environment) Unbind(name string) { delete(e.bindings, name) }

// Restart clears every user binding (but not the symbol registry, so
// previously interned symbol IDs stay valid for any value still holding
// one).
func (e *Environment) Restart() { e.bindings = map[string]Value{} }

// ANames returns the sorted list of currently bound symbol names.
func (e *Environment) ANames() []string {
	names := make([]string, 0, len(e.bindings))
	for n := range e.bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
