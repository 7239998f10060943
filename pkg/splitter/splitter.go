// Package splitter segments a token stream into individual SQL statements.
//
// Splitting happens after lexing, so semicolons inside string literals,
// quoted identifiers, and comments never count as statement boundaries.
package splitter

import (
	"github.com/leapstack-labs/sqlsift/pkg/lexer"
	"github.com/leapstack-labs/sqlsift/pkg/token"
)

// Statement is one SQL statement as an ordered token sequence, plus its
// starting position in the original script for diagnostics.
type Statement struct {
	Tokens []token.Token
	Start  token.Position
}

// Split tokenizes the script and splits it into statements at each
// top-level semicolon. Empty statements (consecutive or trailing
// semicolons, comment-only segments) are discarded. Statement order is
// preserved.
func Split(script string) []Statement {
	return FromTokens(lexer.Tokenize(script))
}

// FromTokens splits an already-lexed token stream into statements.
func FromTokens(toks []token.Token) []Statement {
	var stmts []Statement
	var current []token.Token

	flush := func() {
		if len(current) > 0 {
			stmts = append(stmts, Statement{
				Tokens: current,
				Start:  current[0].Pos,
			})
			current = nil
		}
	}

	for _, t := range toks {
		if t.Type == token.SEMICOLON {
			flush()
			continue
		}
		current = append(current, t)
	}
	flush()

	return stmts
}
