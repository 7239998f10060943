package lexer_test

import (
	"testing"

	"github.com/leapstack-labs/sqlsift/pkg/lexer"
	"github.com/leapstack-labs/sqlsift/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.TokenType
	}{
		{
			name:  "simple select",
			input: "SELECT * FROM t",
			want:  []token.TokenType{token.SELECT, token.STAR, token.FROM, token.IDENT},
		},
		{
			name:  "qualified name",
			input: "db.table_1",
			want:  []token.TokenType{token.IDENT, token.DOT, token.IDENT},
		},
		{
			name:  "keywords are case-insensitive",
			input: "select From JOIN",
			want:  []token.TokenType{token.SELECT, token.FROM, token.JOIN},
		},
		{
			name:  "string literal",
			input: "'hello world'",
			want:  []token.TokenType{token.STRING},
		},
		{
			name:  "numbers",
			input: "1 2.5 1e10 3E-5",
			want:  []token.TokenType{token.NUMBER, token.NUMBER, token.NUMBER, token.NUMBER},
		},
		{
			name:  "punctuation",
			input: "( ) , ; = *",
			want: []token.TokenType{
				token.LPAREN, token.RPAREN, token.COMMA,
				token.SEMICOLON, token.EQ, token.STAR,
			},
		},
		{
			name:  "unrecognized bytes become punct",
			input: "a @ b # c",
			want:  []token.TokenType{token.IDENT, token.PUNCT, token.IDENT, token.PUNCT, token.IDENT},
		},
		{
			name:  "empty input",
			input: "",
			want:  []token.TokenType{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types(lexer.Tokenize(tt.input))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuotedIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "double quoted", input: `"my table"`, want: "my table"},
		{name: "backtick quoted", input: "`from`", want: "from"},
		{name: "doubled quote escape", input: `"col""name"`, want: `col"name`},
		{name: "doubled backtick escape", input: "`a``b`", want: "a`b"},
		{name: "unterminated runs to end", input: `"open`, want: "open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexer.Tokenize(tt.input)
			require.Len(t, toks, 1)
			assert.Equal(t, token.QIDENT, toks[0].Type)
			assert.Equal(t, tt.want, toks[0].Literal)
		})
	}
}

func TestStringEscapes(t *testing.T) {
	toks := lexer.Tokenize("'it''s'")
	require.Len(t, toks, 1)
	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, "it's", toks[0].Literal)
}

func TestCommentsCollected(t *testing.T) {
	l := lexer.New("SELECT 1 -- trailing\n/* block\nspans lines */ FROM t")
	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		toks = append(toks, tok)
	}

	// Comments never appear in the token stream
	assert.Equal(t,
		[]token.TokenType{token.SELECT, token.NUMBER, token.FROM, token.IDENT},
		types(toks))

	require.Len(t, l.Comments, 2)
	assert.True(t, l.Comments[0].IsLineComment())
	assert.Equal(t, "-- trailing", l.Comments[0].Text)
	assert.Equal(t, token.BlockComment, l.Comments[1].Kind)
}

func TestSemicolonInsideStringIsNotABoundary(t *testing.T) {
	toks := lexer.Tokenize("'a;b'")
	require.Len(t, toks, 1)
	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, "a;b", toks[0].Literal)
}

func TestPositions(t *testing.T) {
	toks := lexer.Tokenize("ab\ncd")
	require.Len(t, toks, 2)

	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, 0, toks[0].Pos.Offset)
	assert.Equal(t, 2, toks[1].Pos.Line)
	assert.Equal(t, 3, toks[1].Pos.Offset)
}

func TestLexerNeverFails(t *testing.T) {
	// Arbitrary byte soup must produce tokens, not panics.
	inputs := []string{
		"\x00\x01\x02",
		"SELECT \xff FROM t",
		"”curly quotes“",
		"/* unterminated",
		"'unterminated",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { lexer.Tokenize(in) })
	}
}
