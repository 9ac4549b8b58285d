// Package symtab implements an explicit symbol registry, owned per-session
// rather than kept in a package-level global, so that symbol handles never
// collide across sessions.
package symtab

import "fmt"

// ID is an opaque handle into a Registry. The zero value is never returned by
// Intern; use it as a sentinel for "no symbol".
type ID int32

// Registry interns variable names to small integer handles, case-sensitively.
// A Registry is not safe for concurrent use without external synchronization;
// there is no sharing across sessions, so none is needed.
type Registry struct {
	byName map[string]ID
	byID   []string // byID[id-1] == name for id allocated by Intern
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]ID)}
}

// Intern returns the handle for name, allocating a new one if name has not
// been seen before by this registry.
func (r *Registry) Intern(name string) ID {
	if id, ok := r.byName[name]; ok {
		return id
	}
	r.byID = append(r.byID, name)
	id := ID(len(r.byID))
	r.byName[name] = id
	return id
}

// Lookup returns the handle for name without allocating one, reporting
// whether it was found.
func (r *Registry) Lookup(name string) (ID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Name returns the interned name for id. Panics on an unknown id, since that
// indicates a violated invariant (a handle from a foreign registry) rather
// than a user-facing error.
func (r *Registry) Name(id ID) string {
	if id <= 0 || int(id) > len(r.byID) {
		panic(fmt.Sprintf("symtab: unknown id %d", id))
	}
	return r.byID[id-1]
}

// Len reports how many distinct symbols have been interned.
func (r *Registry) Len() int { return len(r.byID) }
