// Package identitydb stores proven eta-quotient identities in a
// TOML-backed database, searchable by tag, function name, or substring.
package identitydb

import (
	"strings"

	"github.com/BurntSushi/toml"
)

// Identity is one verified eta-quotient identity record.
type Identity struct {
	ID          string   `toml:"id"`
	Name        string   `toml:"name"`
	Tags        []string `toml:"tags"`
	Functions   []string `toml:"functions"`
	LHS         string   `toml:"lhs"`
	RHS         string   `toml:"rhs"`
	ProofMethod string   `toml:"proof_method"`
	Citation    string   `toml:"citation"`
}

// file is the on-disk TOML shape: a flat list of identities under a single
// top-level key, mirroring how the teacher's config-style structs wrap
// their TOML tables.
type file struct {
	Identity []Identity `toml:"identity"`
}

// DB is an in-memory collection of identities loaded from TOML.
type DB struct {
	identities []Identity
}

// Load parses a TOML document (as produced by Save) into a DB.
func Load(data string) (*DB, error) {
	var f file
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, err
	}
	return &DB{identities: f.Identity}, nil
}

// New returns an empty database.
func New() *DB {
	return &DB{}
}

// Add appends an identity to the database.
func (db *DB) Add(id Identity) {
	db.identities = append(db.identities, id)
}

// All returns every stored identity.
func (db *DB) All() []Identity {
	return append([]Identity(nil), db.identities...)
}

// Save renders the database back to TOML.
func (db *DB) Save() (string, error) {
	var b strings.Builder
	enc := toml.NewEncoder(&b)
	if err := enc.Encode(file{Identity: db.identities}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// SearchByTag returns every identity carrying the given tag, matched
// case-insensitively.
func (db *DB) SearchByTag(tag string) []Identity {
	tag = strings.ToLower(tag)
	var out []Identity
	for _, id := range db.identities {
		for _, t := range id.Tags {
			if strings.ToLower(t) == tag {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// SearchByFunction returns every identity naming the given function,
// matched case-insensitively.
func (db *DB) SearchByFunction(fn string) []Identity {
	fn = strings.ToLower(fn)
	var out []Identity
	for _, id := range db.identities {
		for _, f := range id.Functions {
			if strings.ToLower(f) == fn {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// Search returns every identity whose name, ID, LHS, or RHS contains
// pattern as a case-insensitive substring.
func (db *DB) Search(pattern string) []Identity {
	pattern = strings.ToLower(pattern)
	var out []Identity
	for _, id := range db.identities {
		haystacks := []string{id.Name, id.ID, id.LHS, id.RHS}
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), pattern) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}
