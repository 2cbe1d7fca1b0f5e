package jmespath

// Expression is a parsed JMESPath expression ready to be evaluated against
// any number of input values. It is safe for concurrent use: evaluation
// only reads the AST, never mutates it.
type Expression struct {
	source string
	ast    ASTNode
}

// Compile parses expression into a reusable Expression. A malformed
// expression yields a *SyntaxError. An empty expression string compiles
// successfully to an empty handle, short-circuiting the parser rather than
// tokenizing an empty string; Search on that handle always returns Null.
func Compile(expression string) (*Expression, error) {
	if expression == "" {
		return &Expression{source: "", ast: ASTNode{NodeType: NodeEmpty}}, nil
	}
	p := newParser()
	ast, err := p.Parse(expression)
	if err != nil {
		return nil, err
	}
	return &Expression{source: expression, ast: ast}, nil
}

// MustCompile is like Compile but panics on error, for package-level
// expression variables initialized from literal strings.
func MustCompile(expression string) *Expression {
	expr, err := Compile(expression)
	if err != nil {
		panic("jmespath: Compile(" + quoteString(expression) + "): " + err.Error())
	}
	return expr
}

// Search evaluates the compiled expression against data. data may be a
// Value, or any other Go value accepted by FromGo (the result of
// encoding/json.Unmarshal into interface{}, a struct, a map, a slice, ...).
// Search on an empty expression (the zero Expression, or one compiled from
// "") always returns Null, regardless of data: there is no AST to evaluate,
// so there is nothing to search.
func (e *Expression) Search(data interface{}) (interface{}, error) {
	if e.IsEmpty() {
		return Encode(Null{}), nil
	}
	input, err := toValue(data)
	if err != nil {
		return nil, err
	}
	intr := newInterpreter()
	result, err := intr.Execute(e.ast, input)
	if err != nil {
		return nil, err
	}
	return Encode(result), nil
}

// String returns the original expression text.
func (e *Expression) String() string {
	return e.source
}

// IsEmpty reports whether the expression is the empty ("") handle.
func (e *Expression) IsEmpty() bool {
	return e.ast.IsEmpty()
}

// Equal reports whether two compiled expressions were compiled from the
// same source text. Two different expressions are never considered equal
// even if they happen to produce the same result for all inputs.
func (e *Expression) Equal(other *Expression) bool {
	if other == nil {
		return false
	}
	return e.source == other.source
}

func toValue(data interface{}) (Value, error) {
	if v, ok := data.(Value); ok {
		return v, nil
	}
	if data == nil {
		return Null{}, nil
	}
	return FromGo(data)
}

// Search compiles expression and evaluates it against data in one step.
// Prefer Compile when the same expression is evaluated repeatedly.
func Search(expression string, data interface{}) (interface{}, error) {
	expr, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return expr.Search(data)
}
