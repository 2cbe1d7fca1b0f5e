package jmespath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func parse(t *testing.T, expression string) ASTNode {
	t.Helper()
	p := newParser()
	node, err := p.Parse(expression)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", expression, err)
	}
	return node
}

func TestParserIdentifierSubexpression(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "foo.bar")
	a.Equal(NodeSubexpression, node.NodeType)
	a.Equal(NodeIdentifier, node.Children[0].NodeType)
	a.Equal("foo", node.Children[0].Value)
	a.Equal("bar", node.Children[1].Value)
}

func TestParserPipeAndOr(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "a || b | c")
	a.Equal(NodePipeExpression, node.NodeType)
	a.Equal(NodeOrExpression, node.Children[0].NodeType)
}

func TestParserAndBindsTighterThanOr(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "a || b && c")
	a.Equal(NodeOrExpression, node.NodeType)
	a.Equal(NodeAndExpression, node.Children[1].NodeType)
}

func TestParserNotExpression(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "!foo")
	a.Equal(NodeNotExpression, node.NodeType)
	a.Equal(NodeIdentifier, node.Children[0].NodeType)
}

func TestParserComparator(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "a == `1`")
	a.Equal(NodeComparatorExpression, node.NodeType)
	a.Equal(CompareEqual, node.Value)
}

func TestParserParenExpression(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "(a || b)")
	a.Equal(NodeParenExpression, node.NodeType)
}

func TestParserArrayIndex(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "foo[0]")
	a.Equal(NodeIndexExpression, node.NodeType)
	bracket := node.Value.(Bracket)
	a.Equal(BracketArrayItem, bracket.Type)
	a.Equal(int64(0), bracket.Index)
}

func TestParserSliceIsAProjection(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "foo[0:2]")
	a.Equal(NodeIndexExpression, node.NodeType)
	bracket := node.Value.(Bracket)
	a.Equal(BracketSlice, bracket.Type)
	a.Equal(2, len(node.Children))
}

func TestParserListWildcard(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "foo[*]")
	bracket := node.Value.(Bracket)
	a.Equal(BracketListWildcard, bracket.Type)
}

func TestParserHashWildcard(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "foo.*")
	a.Equal(NodeHashWildcard, node.NodeType)
}

func TestParserFlatten(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "foo[]")
	bracket := node.Value.(Bracket)
	a.Equal(BracketFlatten, bracket.Type)
}

func TestParserFilterExpression(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "foo[?bar==`1`]")
	a.Equal(NodeFilterExpression, node.NodeType)
}

func TestParserMultiselectList(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "[a, b, c]")
	a.Equal(NodeMultiselectList, node.NodeType)
	a.Equal(3, len(node.Children))
}

func TestParserMultiselectHash(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "{x: a, y: b}")
	a.Equal(NodeMultiselectHash, node.NodeType)
	a.Equal("x", node.Children[0].Value)
}

func TestParserFunctionExpression(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "length(foo)")
	a.Equal(NodeFunctionExpression, node.NodeType)
	a.Equal("length", node.Value)
	a.Equal(1, len(node.Args))
}

func TestParserFunctionWithExpressionReference(t *testing.T) {
	a := assert.New(t)
	node := parse(t, "sort_by(foo, &bar)")
	a.Equal(2, len(node.Args))
	a.True(node.Args[1].IsReference)
}

func TestParserRejectsTrailingTokens(t *testing.T) {
	a := assert.New(t)
	p := newParser()
	_, err := p.Parse("foo bar")
	a.NotNil(err)
	_, ok := err.(*SyntaxError)
	a.True(ok)
}

func TestParserRejectsUnclosedBracket(t *testing.T) {
	a := assert.New(t)
	p := newParser()
	_, err := p.Parse("foo[0")
	a.NotNil(err)
}
