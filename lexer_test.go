package jmespath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tokenTypes(tokens []token) []tokType {
	out := make([]tokType, len(tokens))
	for i, t := range tokens {
		out[i] = t.tokenType
	}
	return out
}

func TestLexerTokenizesDottedIdentifiers(t *testing.T) {
	a := assert.New(t)
	lx := newLexer()
	tokens, err := lx.tokenize("foo.bar")
	a.Nil(err)
	a.Equal([]tokType{tUnquotedIdentifier, tDot, tUnquotedIdentifier, tEOF}, tokenTypes(tokens))
}

func TestLexerTokenizesDoubleAmpersandAsAnd(t *testing.T) {
	a := assert.New(t)
	lx := newLexer()
	tokens, err := lx.tokenize("a && b")
	a.Nil(err)
	a.Equal([]tokType{tUnquotedIdentifier, tAnd, tUnquotedIdentifier, tEOF}, tokenTypes(tokens))
}

func TestLexerTokenizesSingleAmpersandAsExpref(t *testing.T) {
	a := assert.New(t)
	lx := newLexer()
	tokens, err := lx.tokenize("&foo")
	a.Nil(err)
	a.Equal([]tokType{tExpref, tUnquotedIdentifier, tEOF}, tokenTypes(tokens))
}

func TestLexerTokenizesBangAsNot(t *testing.T) {
	a := assert.New(t)
	lx := newLexer()
	tokens, err := lx.tokenize("!foo")
	a.Nil(err)
	a.Equal([]tokType{tNot, tUnquotedIdentifier, tEOF}, tokenTypes(tokens))
}

func TestLexerTokenizesNotEqual(t *testing.T) {
	a := assert.New(t)
	lx := newLexer()
	tokens, err := lx.tokenize("a != b")
	a.Nil(err)
	a.Equal([]tokType{tUnquotedIdentifier, tNE, tUnquotedIdentifier, tEOF}, tokenTypes(tokens))
}

func TestLexerRejectsBareEquals(t *testing.T) {
	a := assert.New(t)
	lx := newLexer()
	_, err := lx.tokenize("a = b")
	a.NotNil(err)
}

func TestLexerTokenizesFilterAndFlatten(t *testing.T) {
	a := assert.New(t)
	lx := newLexer()
	tokens, err := lx.tokenize("a[?b][]")
	a.Nil(err)
	a.Equal([]tokType{tUnquotedIdentifier, tFilter, tUnquotedIdentifier, tRbracket, tFlatten, tEOF}, tokenTypes(tokens))
}

func TestLexerTokenizesRawStringLiteral(t *testing.T) {
	a := assert.New(t)
	lx := newLexer()
	tokens, err := lx.tokenize(`'it\'s here'`)
	a.Nil(err)
	a.Equal(tStringLiteral, tokens[0].tokenType)
	a.Equal("it's here", tokens[0].value)
}

func TestLexerTokenizesQuotedIdentifierWithEscapes(t *testing.T) {
	a := assert.New(t)
	lx := newLexer()
	tokens, err := lx.tokenize(`"with \"quotes\""`)
	a.Nil(err)
	a.Equal(tQuotedIdentifier, tokens[0].tokenType)
	a.Equal(`with "quotes"`, tokens[0].value)
}

func TestLexerTokenizesJSONLiteral(t *testing.T) {
	a := assert.New(t)
	lx := newLexer()
	tokens, err := lx.tokenize("`{\"a\": 1}`")
	a.Nil(err)
	a.Equal(tJSONLiteral, tokens[0].tokenType)
}

func TestLexerTokenizesNegativeNumberIndex(t *testing.T) {
	a := assert.New(t)
	lx := newLexer()
	tokens, err := lx.tokenize("[-1]")
	a.Nil(err)
	a.Equal([]tokType{tLbracket, tNumber, tRbracket, tEOF}, tokenTypes(tokens))
	a.Equal("-1", tokens[1].value)
}

func TestLexerUnclosedRawStringIsSyntaxError(t *testing.T) {
	a := assert.New(t)
	lx := newLexer()
	_, err := lx.tokenize("'unterminated")
	a.NotNil(err)
	_, ok := err.(*SyntaxError)
	a.True(ok)
}
