// Package jmespath implements JMESPath, a query language for JSON.
//
// Compile a query once and reuse it, or use Search for a one-shot
// evaluation:
//
//	expr, err := jmespath.Compile("foo.bar[?baz==`true`]")
//	result, err := expr.Search(data)
//
//	result, err := jmespath.Search("foo.bar", data)
//
// data may be a Value, the output of encoding/json.Unmarshal into
// interface{}, or any Go value FromGo can convert: a struct (whose
// exported fields are consulted via their "jmes" or "json" tag), a map
// keyed by string, a slice, or a scalar.
package jmespath

// Debug tokenizes and parses expression, returning the token stream and
// the AST without evaluating it. It exists for tooling (see cmd/jmesq)
// and is not part of the evaluation contract.
func Debug(expression string) ([]token, ASTNode, error) {
	lx := newLexer()
	tokens, err := lx.tokenize(expression)
	if err != nil {
		return nil, ASTNode{}, err
	}
	p := newParser()
	ast, err := p.Parse(expression)
	if err != nil {
		return tokens, ASTNode{}, err
	}
	return tokens, ast, nil
}
