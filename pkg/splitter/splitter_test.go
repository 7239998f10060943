package splitter_test

import (
	"testing"

	"github.com/leapstack-labs/sqlsift/pkg/splitter"
	"github.com/leapstack-labs/sqlsift/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{name: "single statement", input: "SELECT * FROM a", count: 1},
		{name: "two statements", input: "SELECT 1; SELECT 2", count: 2},
		{name: "trailing semicolon", input: "SELECT 1;", count: 1},
		{name: "consecutive semicolons", input: "SELECT 1;;;SELECT 2", count: 2},
		{name: "semicolons only", input: ";;;", count: 0},
		{name: "empty input", input: "", count: 0},
		{name: "comment-only segment", input: "SELECT 1; -- note\n; SELECT 2", count: 2},
		{name: "semicolon in string", input: "SELECT 'a;b'; SELECT 2", count: 2},
		{name: "semicolon in quoted ident", input: "SELECT `a;b`", count: 1},
		{name: "semicolon in block comment", input: "SELECT 1 /* a;b */ + 2", count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := splitter.Split(tt.input)
			assert.Len(t, stmts, tt.count)
			for _, s := range stmts {
				assert.NotEmpty(t, s.Tokens)
			}
		})
	}
}

func TestSplitPreservesOrderAndPositions(t *testing.T) {
	stmts := splitter.Split("SELECT 1;\nSELECT 2")
	require.Len(t, stmts, 2)

	assert.Equal(t, token.SELECT, stmts[0].Tokens[0].Type)
	assert.Equal(t, 1, stmts[0].Start.Line)
	assert.Equal(t, 2, stmts[1].Start.Line)
	assert.Equal(t, stmts[1].Tokens[0].Pos, stmts[1].Start)
}

func TestSplitStatementTokensExcludeSemicolon(t *testing.T) {
	stmts := splitter.Split("SELECT 1; SELECT 2;")
	require.Len(t, stmts, 2)
	for _, s := range stmts {
		for _, tok := range s.Tokens {
			assert.NotEqual(t, token.SEMICOLON, tok.Type)
		}
	}
}
