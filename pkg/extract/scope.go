package extract

import "strings"

// EntryKind distinguishes why a name is bound in a scope.
type EntryKind int

const (
	// EntryCTE is a WITH-clause name, valid for the defining statement.
	EntryCTE EntryKind = iota
	// EntryAlias is a table or subquery alias, valid in its defining scope.
	EntryAlias
)

// Scope tracks CTE names and aliases visible at one nesting level of a
// statement. Lookups walk the parent chain innermost-first, so an alias
// shadows an identically named real table only inside its own scope.
// Scopes live exactly as long as the recursive walk that created them.
type Scope struct {
	parent  *Scope
	entries map[string]EntryKind // lowercased name -> kind
}

// NewScope creates a new root scope for one statement.
func NewScope() *Scope {
	return &Scope{entries: make(map[string]EntryKind)}
}

// Child creates a child scope for a nested subquery.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, entries: make(map[string]EntryKind)}
}

// Bind registers a name in this scope. Names are case-insensitive.
func (s *Scope) Bind(name string, kind EntryKind) {
	s.entries[strings.ToLower(name)] = kind
}

// Lookup resolves a name against this scope and its ancestors,
// innermost first.
func (s *Scope) Lookup(name string) (EntryKind, bool) {
	key := strings.ToLower(name)
	for cur := s; cur != nil; cur = cur.parent {
		if kind, ok := cur.entries[key]; ok {
			return kind, true
		}
	}
	return 0, false
}
