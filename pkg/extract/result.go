package extract

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlsift/pkg/token"
)

// Classification describes what a table-like name turned out to be.
type Classification int

const (
	// ClassSource is a genuine source table (read from or written to).
	ClassSource Classification = iota
	// ClassCTEDefinition is a WITH-clause name being defined.
	ClassCTEDefinition
	// ClassAliasDefinition is an alias being bound to a table or subquery.
	ClassAliasDefinition
	// ClassUnresolved is a candidate whose context ran out before it
	// could be classified. Unresolved names are still reported as
	// sources: over-reporting beats silently dropping a dependency.
	ClassUnresolved
)

// String returns a human-readable classification name.
func (c Classification) String() string {
	switch c {
	case ClassSource:
		return "source"
	case ClassCTEDefinition:
		return "cte"
	case ClassAliasDefinition:
		return "alias"
	case ClassUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Reference is one classified table-like occurrence in the script.
type Reference struct {
	Name  string
	Pos   token.Position
	Class Classification
}

// Report is the full extraction result for one script.
type Report struct {
	// Tables holds the deduplicated source table names, sorted
	// lexicographically (case-insensitive). Never nil.
	Tables []string
	// References lists every classified occurrence in script order,
	// including CTE and alias definitions that were excluded from Tables.
	References []Reference
	// Statements is the number of SQL statements analyzed (USE and SET
	// configuration lines are not counted).
	Statements int
}

// resultSet deduplicates table names case-insensitively, preserving the
// first-seen casing.
type resultSet struct {
	names map[string]string // lowercased qualified name -> first casing
}

func newResultSet() *resultSet {
	return &resultSet{names: make(map[string]string)}
}

func (r *resultSet) add(name string) {
	key := strings.ToLower(name)
	if _, ok := r.names[key]; !ok {
		r.names[key] = name
	}
}

// sorted returns the collected names in deterministic order.
func (r *resultSet) sorted() []string {
	out := make([]string, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i]), strings.ToLower(out[j])
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}
