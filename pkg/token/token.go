// Package token defines the lexical token types for SQL scanning.
//
// The token set is deliberately small: the extractor is keyword-driven,
// so only the keywords that introduce or terminate table references get
// dedicated types. Any character the lexer does not recognize becomes a
// PUNCT token and flows through the pipeline without harm.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // token.TokenType reads naturally at call sites
type TokenType int32

const (
	// Special tokens
	EOF   TokenType = iota
	PUNCT           // any single unrecognized character

	// Literals
	IDENT  // unquoted identifier
	QIDENT // "quoted" or `backtick` identifier
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello'

	// Structural punctuation the extractor cares about
	DOT       // .
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	SEMICOLON // ;
	STAR      // *
	EQ        // =

	// Keywords that drive the clause walk (alphabetical)
	ALL
	AS
	BY
	CREATE
	CROSS
	DELETE
	DISTINCT
	EXCEPT
	EXISTS
	EXTERNAL
	FROM
	FULL
	GROUP
	HAVING
	IF
	IN
	INNER
	INSERT
	INTERSECT
	INTO
	JOIN
	LATERAL
	LEFT
	LIMIT
	MERGE
	NOT
	ON
	ORDER
	OUTER
	OVERWRITE
	RECURSIVE
	RIGHT
	SELECT
	SET
	TABLE
	TEMPORARY
	UNION
	UPDATE
	USE
	USING
	VALUES
	VIEW
	WHERE
	WITH
)

// Token is a single lexical token with its source position.
// Tokens are immutable once produced by the lexer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// IsIdent reports whether the token can serve as (part of) a table name.
func (t Token) IsIdent() bool {
	return t.Type == IDENT || t.Type == QIDENT
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// IsKeyword reports whether t is one of the keyword token types.
func (t TokenType) IsKeyword() bool {
	return t >= ALL
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:   "EOF",
	PUNCT: "PUNCT",

	IDENT:  "IDENT",
	QIDENT: "QIDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	DOT:       ".",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	SEMICOLON: ";",
	STAR:      "*",
	EQ:        "=",

	ALL:       "ALL",
	AS:        "AS",
	BY:        "BY",
	CREATE:    "CREATE",
	CROSS:     "CROSS",
	DELETE:    "DELETE",
	DISTINCT:  "DISTINCT",
	EXCEPT:    "EXCEPT",
	EXISTS:    "EXISTS",
	EXTERNAL:  "EXTERNAL",
	FROM:      "FROM",
	FULL:      "FULL",
	GROUP:     "GROUP",
	HAVING:    "HAVING",
	IF:        "IF",
	IN:        "IN",
	INNER:     "INNER",
	INSERT:    "INSERT",
	INTERSECT: "INTERSECT",
	INTO:      "INTO",
	JOIN:      "JOIN",
	LATERAL:   "LATERAL",
	LEFT:      "LEFT",
	LIMIT:     "LIMIT",
	MERGE:     "MERGE",
	NOT:       "NOT",
	ON:        "ON",
	ORDER:     "ORDER",
	OUTER:     "OUTER",
	OVERWRITE: "OVERWRITE",
	RECURSIVE: "RECURSIVE",
	RIGHT:     "RIGHT",
	SELECT:    "SELECT",
	SET:       "SET",
	TABLE:     "TABLE",
	TEMPORARY: "TEMPORARY",
	UNION:     "UNION",
	UPDATE:    "UPDATE",
	USE:       "USE",
	USING:     "USING",
	VALUES:    "VALUES",
	VIEW:      "VIEW",
	WHERE:     "WHERE",
	WITH:      "WITH",
}

// keywords maps lowercase identifier text to keyword token types.
var keywords = map[string]TokenType{
	"all":       ALL,
	"as":        AS,
	"by":        BY,
	"create":    CREATE,
	"cross":     CROSS,
	"delete":    DELETE,
	"distinct":  DISTINCT,
	"except":    EXCEPT,
	"exists":    EXISTS,
	"external":  EXTERNAL,
	"from":      FROM,
	"full":      FULL,
	"group":     GROUP,
	"having":    HAVING,
	"if":        IF,
	"in":        IN,
	"inner":     INNER,
	"insert":    INSERT,
	"intersect": INTERSECT,
	"into":      INTO,
	"join":      JOIN,
	"lateral":   LATERAL,
	"left":      LEFT,
	"limit":     LIMIT,
	"merge":     MERGE,
	"not":       NOT,
	"on":        ON,
	"order":     ORDER,
	"outer":     OUTER,
	"overwrite": OVERWRITE,
	"recursive": RECURSIVE,
	"right":     RIGHT,
	"select":    SELECT,
	"set":       SET,
	"table":     TABLE,
	"temporary": TEMPORARY,
	"union":     UNION,
	"update":    UPDATE,
	"use":       USE,
	"using":     USING,
	"values":    VALUES,
	"view":      VIEW,
	"where":     WHERE,
	"with":      WITH,
}

// LookupIdent returns the keyword type for ident (already lowercased),
// or IDENT if it is not a keyword.
func LookupIdent(ident string) TokenType {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}
