package extract

import (
	"strings"

	"github.com/leapstack-labs/sqlsift/pkg/token"
)

// extraction holds the state shared across a whole script: the
// deduplicated result set, the reference log, and the current database
// used to qualify bare names (empty leaves them bare).
type extraction struct {
	set  *resultSet
	refs []Reference
	db   string
}

func (x *extraction) record(ref Reference) {
	x.refs = append(x.refs, ref)
}

// walker performs the keyword-driven clause scan over one token slice.
// It is not a grammar: it looks for the clause keywords that introduce
// table references and recurses into parenthesized subqueries, skipping
// everything it does not recognize.
type walker struct {
	x    *extraction
	toks []token.Token
	pos  int
}

func (w *walker) peek() token.Token {
	if w.pos < len(w.toks) {
		return w.toks[w.pos]
	}
	return token.Token{Type: token.EOF}
}

func (w *walker) peekType() token.TokenType {
	return w.peek().Type
}

func (w *walker) next() token.Token {
	t := w.peek()
	if w.pos < len(w.toks) {
		w.pos++
	}
	return t
}

// walk scans the statement for clause keywords. Every branch advances
// pos by at least one token, so the scan always terminates.
func (w *walker) walk(scope *Scope) {
	for w.pos < len(w.toks) {
		switch w.toks[w.pos].Type {
		case token.WITH:
			w.pos++
			w.walkWith(scope)
		case token.FROM:
			w.pos++
			w.walkTableList(scope)
		case token.JOIN:
			w.pos++
			w.walkTableRef(scope, false)
		case token.INTO:
			// INSERT INTO [TABLE] t, MERGE INTO t, SELECT ... INTO t
			w.pos++
			if w.peekType() == token.TABLE {
				w.pos++
			}
			w.walkTableRef(scope, true)
		case token.TABLE:
			// INSERT OVERWRITE TABLE t, TRUNCATE TABLE t
			w.pos++
			w.walkTableRef(scope, true)
		case token.USING:
			// MERGE INTO t USING s; JOIN ... USING (cols) has no table
			w.pos++
			if w.peek().IsIdent() || w.peekType() == token.LATERAL {
				w.walkTableRef(scope, false)
			}
		case token.UPDATE:
			w.pos++
			w.walkTableRef(scope, true)
		case token.CREATE:
			w.pos++
			w.walkCreate(scope)
		case token.LPAREN:
			w.pos++
			w.walkParen(scope)
		default:
			w.pos++
		}
	}
}

// walkWith processes a leading WITH clause. Each CTE name is bound in
// the statement scope before its body is walked, so recursive CTEs do
// not report themselves, and later CTEs can see earlier ones.
func (w *walker) walkWith(scope *Scope) {
	if w.peekType() == token.RECURSIVE {
		w.pos++
	}

	for {
		if !w.peek().IsIdent() {
			return
		}
		nameTok := w.next()
		scope.Bind(nameTok.Literal, EntryCTE)
		w.x.record(Reference{Name: nameTok.Literal, Pos: nameTok.Pos, Class: ClassCTEDefinition})

		// Optional column list: with t (a, b) as (...)
		if w.peekType() == token.LPAREN {
			w.pos++
			w.walkParen(scope)
		}

		if w.peekType() != token.AS {
			return // malformed WITH; resume the main scan
		}
		w.pos++

		if w.peekType() == token.LPAREN {
			w.pos++
			w.walkParen(scope)
		}

		if w.peekType() != token.COMMA {
			return
		}
		w.pos++
	}
}

// walkTableList processes the comma-separated table list after FROM.
func (w *walker) walkTableList(scope *Scope) {
	for {
		w.walkTableRef(scope, false)
		if w.peekType() != token.COMMA {
			return
		}
		w.pos++
	}
}

// walkTableRef processes one table reference candidate. target is true
// for write positions (INTO/UPDATE/CREATE), where a following paren is a
// column list rather than a function call.
func (w *walker) walkTableRef(scope *Scope, target bool) {
	if w.peekType() == token.LATERAL {
		w.pos++
	}

	// Parenthesized operand: subquery or parenthesized join
	if w.peekType() == token.LPAREN {
		w.pos++
		inner := w.group()
		if len(inner) > 0 {
			sub := &walker{x: w.x, toks: inner}
			if inner[0].Type == token.SELECT || inner[0].Type == token.WITH {
				// Derived table: child scope; inner sources still
				// propagate up through the shared result set.
				sub.walk(scope.Child())
			} else {
				// Parenthesized join or table list keeps this scope.
				sub.walkTableList(scope)
				sub.walk(scope)
			}
		}
		w.bindAlias(scope)
		return
	}

	start := w.peek()
	if !start.IsIdent() {
		return // not a table position we recognize
	}

	parts, unresolved := w.readQualifiedName()

	// Candidate followed by ( is a function call or table-generating
	// expression in read positions; the group itself is scanned by the
	// main loop for nested subqueries.
	if !target && w.peekType() == token.LPAREN {
		return
	}

	name := strings.Join(parts, ".")
	if len(parts) == 1 {
		if _, ok := scope.Lookup(parts[0]); ok {
			// CTE or alias hit: not a source table
			w.bindAlias(scope)
			return
		}
		if w.x.db != "" {
			name = w.x.db + "." + name
		}
	}

	class := ClassSource
	if unresolved {
		class = ClassUnresolved
	}
	w.x.record(Reference{Name: name, Pos: start.Pos, Class: class})
	w.x.set.add(name)

	w.bindAlias(scope)
}

// readQualifiedName reads ident(.ident)* and reports whether the name
// was cut short (trailing dot at end of context).
func (w *walker) readQualifiedName() ([]string, bool) {
	parts := []string{w.next().Literal}
	for w.peekType() == token.DOT {
		w.pos++
		if !w.peek().IsIdent() {
			return parts, true
		}
		parts = append(parts, w.next().Literal)
	}
	return parts, false
}

// bindAlias binds a trailing [AS] identifier as an alias in scope.
// Clause keywords (ON, WHERE, JOIN, ...) have their own token types, so
// they are never mistaken for aliases.
func (w *walker) bindAlias(scope *Scope) {
	if w.peekType() == token.AS {
		w.pos++
	}
	if !w.peek().IsIdent() {
		return
	}
	aliasTok := w.next()
	scope.Bind(aliasTok.Literal, EntryAlias)
	w.x.record(Reference{Name: aliasTok.Literal, Pos: aliasTok.Pos, Class: ClassAliasDefinition})
}

// walkCreate handles CREATE [EXTERNAL|TEMPORARY|...] TABLE/VIEW. The
// created relation is reported as a source only when the statement
// derives from a SELECT (CTAS, CREATE VIEW ... AS SELECT); plain DDL
// does not consume or produce data.
func (w *walker) walkCreate(scope *Scope) {
	for {
		t := w.peekType()
		if t == token.TABLE || t == token.VIEW {
			w.pos++
			break
		}
		// Skip modifiers (EXTERNAL, TEMPORARY, OR REPLACE, ...)
		if w.peek().IsIdent() || t.IsKeyword() {
			w.pos++
			continue
		}
		return
	}

	// IF NOT EXISTS
	if w.peekType() == token.IF {
		w.pos++
		if w.peekType() == token.NOT {
			w.pos++
		}
		if w.peekType() == token.EXISTS {
			w.pos++
		}
	}

	if w.containsSelect() {
		w.walkTableRef(scope, true)
		return
	}
	w.readQualifiedNameIfPresent()
}

// containsSelect reports whether a SELECT appears in the remaining
// tokens of this statement.
func (w *walker) containsSelect() bool {
	for i := w.pos; i < len(w.toks); i++ {
		if w.toks[i].Type == token.SELECT {
			return true
		}
	}
	return false
}

func (w *walker) readQualifiedNameIfPresent() {
	if w.peek().IsIdent() {
		w.readQualifiedName()
	}
}

// group returns the tokens up to the matching close paren (the opener
// was already consumed) and advances past the close paren. An
// unbalanced group runs to the end of the statement.
func (w *walker) group() []token.Token {
	depth := 1
	start := w.pos
	i := w.pos
	for ; i < len(w.toks); i++ {
		switch w.toks[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
		if depth == 0 {
			break
		}
	}
	inner := w.toks[start:i]
	w.pos = i
	if w.pos < len(w.toks) {
		w.pos++ // consume RPAREN
	}
	return inner
}

// walkParen scans a parenthesized group found outside a table position
// (IN (...), EXISTS (...), function arguments, scalar subqueries). A
// group that starts with SELECT or WITH opens a child scope; anything
// else is scanned in the current scope so nested subqueries inside
// expressions are still found.
func (w *walker) walkParen(scope *Scope) {
	inner := w.group()
	if len(inner) == 0 {
		return
	}
	sub := &walker{x: w.x, toks: inner}
	if inner[0].Type == token.SELECT || inner[0].Type == token.WITH {
		sub.walk(scope.Child())
	} else {
		sub.walk(scope)
	}
}
