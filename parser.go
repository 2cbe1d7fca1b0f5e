package jmespath

import (
	"fmt"
	"strconv"
)

var bindingPowers = map[tokType]int{
	tEOF:                0,
	tUnquotedIdentifier:  0,
	tQuotedIdentifier:    0,
	tRbracket:            0,
	tRparen:              0,
	tComma:               0,
	tRbrace:              0,
	tNumber:              0,
	tCurrent:             0,
	tExpref:              0,
	tColon:               0,
	tPipe:                1,
	tOr:                  2,
	tAnd:                 3,
	tEQ:                  5,
	tLT:                  5,
	tLTE:                 5,
	tGT:                  5,
	tGTE:                 5,
	tNE:                  5,
	tFlatten:             9,
	tStar:                20,
	tFilter:              21,
	tDot:                 40,
	tNot:                 45,
	tLbrace:              50,
	tLbracket:            55,
	tLparen:              60,
}

var comparatorFor = map[tokType]Comparator{
	tLT:  CompareLess,
	tLTE: CompareLessOrEqual,
	tEQ:  CompareEqual,
	tNE:  CompareNotEqual,
	tGTE: CompareGreaterOrEqual,
	tGT:  CompareGreater,
}

// parser holds state about the expression currently being parsed. A parser
// is not safe for concurrent or re-entrant use; newParser returns a fresh
// one per call.
type parser struct {
	expression string
	tokens     []token
	index      int
}

func newParser() *parser {
	return &parser{}
}

// Parse compiles a JMESPath expression into an AST. The entire input must
// be consumed; trailing tokens are a SyntaxError.
func (p *parser) Parse(expression string) (ASTNode, error) {
	lx := newLexer()
	p.expression = expression
	p.index = 0
	tokens, err := lx.tokenize(expression)
	if err != nil {
		return ASTNode{}, err
	}
	p.tokens = tokens
	parsed, err := p.parseExpression(0)
	if err != nil {
		return ASTNode{}, err
	}
	if p.current() != tEOF {
		return ASTNode{}, p.syntaxError(fmt.Sprintf("Unexpected token at the end of the expression: %s", p.current()))
	}
	return parsed, nil
}

func (p *parser) parseExpression(bindingPower int) (ASTNode, error) {
	leftToken := p.lookaheadToken(0)
	p.advance()
	leftNode, err := p.nud(leftToken)
	if err != nil {
		return ASTNode{}, err
	}
	currentToken := p.current()
	for bindingPower < bindingPowers[currentToken] {
		p.advance()
		leftNode, err = p.led(currentToken, leftNode)
		if err != nil {
			return ASTNode{}, err
		}
		currentToken = p.current()
	}
	return leftNode, nil
}

func (p *parser) led(tokenType tokType, node ASTNode) (ASTNode, error) {
	switch tokenType {
	case tDot:
		if p.current() == tStar {
			p.advance()
			right, err := p.parseProjectionRHS(bindingPowers[tDot])
			return ASTNode{NodeType: NodeHashWildcard, Children: []ASTNode{node, right}}, err
		}
		right, err := p.parseDotRHS(bindingPowers[tDot])
		return ASTNode{NodeType: NodeSubexpression, Children: []ASTNode{node, right}}, err
	case tPipe:
		right, err := p.parseExpression(bindingPowers[tPipe])
		return ASTNode{NodeType: NodePipeExpression, Children: []ASTNode{node, right}}, err
	case tOr:
		right, err := p.parseExpression(bindingPowers[tOr])
		return ASTNode{NodeType: NodeOrExpression, Children: []ASTNode{node, right}}, err
	case tAnd:
		right, err := p.parseExpression(bindingPowers[tAnd])
		return ASTNode{NodeType: NodeAndExpression, Children: []ASTNode{node, right}}, err
	case tLparen:
		name, ok := node.Value.(string)
		if !ok {
			return ASTNode{}, p.syntaxError("A function name must precede '('")
		}
		args, err := p.parseFunctionArgs()
		if err != nil {
			return ASTNode{}, err
		}
		return ASTNode{NodeType: NodeFunctionExpression, Value: name, Args: args}, nil
	case tFilter:
		return p.parseFilter(node)
	case tFlatten:
		left := ASTNode{
			NodeType: NodeIndexExpression,
			Value:    Bracket{Type: BracketFlatten},
			Children: []ASTNode{node},
		}
		right, err := p.parseProjectionRHS(bindingPowers[tFlatten])
		if err != nil {
			return ASTNode{}, err
		}
		left.Children = append(left.Children, right)
		return left, nil
	case tEQ, tNE, tGT, tGTE, tLT, tLTE:
		right, err := p.parseExpression(bindingPowers[tokenType])
		if err != nil {
			return ASTNode{}, err
		}
		return ASTNode{
			NodeType: NodeComparatorExpression,
			Value:    comparatorFor[tokenType],
			Children: []ASTNode{node, right},
		}, nil
	case tLbracket:
		return p.parseTrailingBracket(node)
	}
	return ASTNode{}, p.syntaxError("Unexpected token: " + tokenType.String())
}

func (p *parser) nud(tok token) (ASTNode, error) {
	switch tok.tokenType {
	case tJSONLiteral:
		v, err := DecodeBytes([]byte(tok.value))
		if err != nil {
			return ASTNode{}, p.syntaxErrorToken("Invalid JSON literal: "+err.Error(), tok)
		}
		return ASTNode{NodeType: NodeLiteral, Value: v}, nil
	case tStringLiteral:
		return ASTNode{NodeType: NodeRawString, Value: tok.value}, nil
	case tUnquotedIdentifier:
		return ASTNode{NodeType: NodeIdentifier, Value: tok.value}, nil
	case tQuotedIdentifier:
		node := ASTNode{NodeType: NodeIdentifier, Value: tok.value}
		if p.current() == tLparen {
			return ASTNode{}, p.syntaxErrorToken("Can't have quoted identifier as function name", tok)
		}
		return node, nil
	case tStar:
		left := ASTNode{NodeType: NodeEmpty}
		var right ASTNode
		var err error
		if p.current() == tRbracket {
			right = ASTNode{NodeType: NodeEmpty}
		} else {
			right, err = p.parseProjectionRHS(bindingPowers[tStar])
		}
		return ASTNode{NodeType: NodeHashWildcard, Children: []ASTNode{left, right}}, err
	case tFilter:
		return p.parseFilter(ASTNode{NodeType: NodeEmpty})
	case tLbrace:
		return p.parseMultiselectHash()
	case tFlatten:
		left := ASTNode{
			NodeType: NodeIndexExpression,
			Value:    Bracket{Type: BracketFlatten},
			Children: []ASTNode{{NodeType: NodeEmpty}},
		}
		right, err := p.parseProjectionRHS(bindingPowers[tFlatten])
		if err != nil {
			return ASTNode{}, err
		}
		left.Children = append(left.Children, right)
		return left, nil
	case tLbracket:
		return p.parseLeadingBracket()
	case tCurrent:
		return ASTNode{NodeType: NodeCurrent}, nil
	case tExpref:
		expr, err := p.parseExpression(bindingPowers[tExpref])
		if err != nil {
			return ASTNode{}, err
		}
		return ASTNode{NodeType: NodeExpressionReference, Children: []ASTNode{expr}}, nil
	case tNot:
		expr, err := p.parseExpression(bindingPowers[tNot])
		if err != nil {
			return ASTNode{}, err
		}
		return ASTNode{NodeType: NodeNotExpression, Children: []ASTNode{expr}}, nil
	case tLparen:
		expr, err := p.parseExpression(0)
		if err != nil {
			return ASTNode{}, err
		}
		if err := p.match(tRparen); err != nil {
			return ASTNode{}, err
		}
		return ASTNode{NodeType: NodeParenExpression, Children: []ASTNode{expr}}, nil
	case tEOF:
		return ASTNode{}, p.syntaxErrorToken("Incomplete expression", tok)
	}
	return ASTNode{}, p.syntaxErrorToken("Invalid token: "+tok.tokenType.String(), tok)
}

// parseTrailingBracket parses a "[...]" that follows an existing node
// (led position): an index, a slice, or a projecting "[*]".
func (p *parser) parseTrailingBracket(node ASTNode) (ASTNode, error) {
	switch p.current() {
	case tNumber, tColon:
		right, err := p.parseIndexExpression()
		if err != nil {
			return ASTNode{}, err
		}
		return p.projectIfSlice(node, right)
	}
	if err := p.match(tStar); err != nil {
		return ASTNode{}, err
	}
	if err := p.match(tRbracket); err != nil {
		return ASTNode{}, err
	}
	right, err := p.parseProjectionRHS(bindingPowers[tStar])
	if err != nil {
		return ASTNode{}, err
	}
	idx := ASTNode{
		NodeType: NodeIndexExpression,
		Value:    Bracket{Type: BracketListWildcard},
		Children: []ASTNode{node, right},
	}
	return idx, nil
}

// parseLeadingBracket parses a "[...]" appearing in nud position: a
// leading index/slice (implicitly against Current), "[*]" list wildcard,
// or a multiselect list "[e1, e2, ...]".
func (p *parser) parseLeadingBracket() (ASTNode, error) {
	switch p.current() {
	case tNumber, tColon:
		right, err := p.parseIndexExpression()
		if err != nil {
			return ASTNode{}, err
		}
		return p.projectIfSlice(ASTNode{NodeType: NodeEmpty}, right)
	case tStar:
		if p.lookahead(1) == tRbracket {
			p.advance()
			p.advance()
			right, err := p.parseProjectionRHS(bindingPowers[tStar])
			if err != nil {
				return ASTNode{}, err
			}
			return ASTNode{
				NodeType: NodeIndexExpression,
				Value:    Bracket{Type: BracketListWildcard},
				Children: []ASTNode{{NodeType: NodeEmpty}, right},
			}, nil
		}
	}
	return p.parseMultiselectList()
}

func (p *parser) parseIndexExpression() (ASTNode, error) {
	if p.lookahead(0) == tColon || p.lookahead(1) == tColon {
		return p.parseSliceExpression()
	}
	indexStr := p.lookaheadToken(0).value
	parsed, err := strconv.ParseInt(indexStr, 10, 64)
	if err != nil {
		return ASTNode{}, p.syntaxError("Invalid index: " + indexStr)
	}
	node := ASTNode{NodeType: NodeIndexExpression, Value: Bracket{Type: BracketArrayItem, Index: parsed}}
	p.advance()
	if err := p.match(tRbracket); err != nil {
		return ASTNode{}, err
	}
	return node, nil
}

func (p *parser) parseSliceExpression() (ASTNode, error) {
	parts := [3]*int{}
	index := 0
	current := p.current()
	for current != tRbracket && index < 3 {
		switch current {
		case tColon:
			index++
			p.advance()
		case tNumber:
			v, err := strconv.Atoi(p.lookaheadToken(0).value)
			if err != nil {
				return ASTNode{}, p.syntaxError("Invalid slice component: " + p.lookaheadToken(0).value)
			}
			parts[index] = &v
			p.advance()
		default:
			return ASTNode{}, p.syntaxError("Expected tColon or tNumber, received: " + p.current().String())
		}
		current = p.current()
	}
	if err := p.match(tRbracket); err != nil {
		return ASTNode{}, err
	}
	return ASTNode{
		NodeType: NodeIndexExpression,
		Value:    Bracket{Type: BracketSlice, Slice: Slice{Start: parts[0], Stop: parts[1], Step: parts[2]}},
	}, nil
}

// projectIfSlice wraps left/right into an IndexExpression, adding the
// projected right-hand expression when right is itself a slice: a slice
// always produces a projection, while a plain index does not.
func (p *parser) projectIfSlice(left ASTNode, right ASTNode) (ASTNode, error) {
	idx := ASTNode{NodeType: NodeIndexExpression, Value: right.Value, Children: []ASTNode{left}}
	bracket := right.Value.(Bracket)
	if bracket.Type == BracketSlice {
		proj, err := p.parseProjectionRHS(bindingPowers[tStar])
		idx.Children = append(idx.Children, proj)
		return idx, err
	}
	return idx, nil
}

func (p *parser) parseFilter(node ASTNode) (ASTNode, error) {
	condition, err := p.parseExpression(0)
	if err != nil {
		return ASTNode{}, err
	}
	if err := p.match(tRbracket); err != nil {
		return ASTNode{}, err
	}
	var right ASTNode
	if p.current() == tFlatten {
		right = ASTNode{NodeType: NodeEmpty}
	} else {
		right, err = p.parseProjectionRHS(bindingPowers[tFilter])
		if err != nil {
			return ASTNode{}, err
		}
	}
	return ASTNode{NodeType: NodeFilterExpression, Children: []ASTNode{node, right, condition}}, nil
}

func (p *parser) parseMultiselectList() (ASTNode, error) {
	var expressions []ASTNode
	for {
		expr, err := p.parseExpression(0)
		if err != nil {
			return ASTNode{}, err
		}
		expressions = append(expressions, expr)
		if p.current() == tRbracket {
			break
		}
		if err := p.match(tComma); err != nil {
			return ASTNode{}, err
		}
	}
	if err := p.match(tRbracket); err != nil {
		return ASTNode{}, err
	}
	return ASTNode{NodeType: NodeMultiselectList, Children: expressions}, nil
}

func (p *parser) parseMultiselectHash() (ASTNode, error) {
	var children []ASTNode
	seen := map[string]bool{}
	for {
		keyToken := p.lookaheadToken(0)
		if err := p.match(tUnquotedIdentifier); err != nil {
			if err := p.match(tQuotedIdentifier); err != nil {
				return ASTNode{}, p.syntaxError("Expected tQuotedIdentifier or tUnquotedIdentifier")
			}
		}
		keyName := keyToken.value
		if err := p.match(tColon); err != nil {
			return ASTNode{}, err
		}
		value, err := p.parseExpression(0)
		if err != nil {
			return ASTNode{}, err
		}
		if seen[keyName] {
			// Later keys overwrite earlier ones rather than error, matching
			// object-literal semantics.
			for i := range children {
				if children[i].Value.(string) == keyName {
					children[i].Children = []ASTNode{value}
				}
			}
		} else {
			seen[keyName] = true
			children = append(children, ASTNode{NodeType: NodeKeyValPair, Value: keyName, Children: []ASTNode{value}})
		}
		switch p.current() {
		case tComma:
			if err := p.match(tComma); err != nil {
				return ASTNode{}, err
			}
		case tRbrace:
			if err := p.match(tRbrace); err != nil {
				return ASTNode{}, err
			}
			return ASTNode{NodeType: NodeMultiselectHash, Children: children}, nil
		default:
			return ASTNode{}, p.syntaxError("Expected ',' or '}', received: " + p.current().String())
		}
	}
}

func (p *parser) parseFunctionArgs() ([]FunctionArg, error) {
	var args []FunctionArg
	for p.current() != tRparen {
		if p.current() == tExpref {
			p.advance()
			expr, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			args = append(args, FunctionArg{IsReference: true, Expr: expr})
		} else {
			expr, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			args = append(args, FunctionArg{Expr: expr})
		}
		if p.current() == tComma {
			if err := p.match(tComma); err != nil {
				return nil, err
			}
		}
	}
	if err := p.match(tRparen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseDotRHS(bindingPower int) (ASTNode, error) {
	lookahead := p.current()
	if lookahead == tQuotedIdentifier || lookahead == tUnquotedIdentifier || lookahead == tStar {
		return p.parseExpression(bindingPower)
	}
	if lookahead == tLbracket {
		if err := p.match(tLbracket); err != nil {
			return ASTNode{}, err
		}
		return p.parseMultiselectList()
	}
	if lookahead == tLbrace {
		if err := p.match(tLbrace); err != nil {
			return ASTNode{}, err
		}
		return p.parseMultiselectHash()
	}
	return ASTNode{}, p.syntaxError("Expected identifier, lbracket, or lbrace")
}

func (p *parser) parseProjectionRHS(bindingPower int) (ASTNode, error) {
	current := p.current()
	switch {
	case bindingPowers[current] < 10:
		return ASTNode{NodeType: NodeEmpty}, nil
	case current == tLbracket, current == tFilter:
		return p.parseExpression(bindingPower)
	case current == tDot:
		if err := p.match(tDot); err != nil {
			return ASTNode{}, err
		}
		return p.parseDotRHS(bindingPower)
	}
	return ASTNode{}, p.syntaxError("Syntax error, unexpected token after projection: " + current.String())
}

func (p *parser) match(tokenType tokType) error {
	if p.current() == tokenType {
		p.advance()
		return nil
	}
	return p.syntaxError("Expected " + tokenType.String() + ", received: " + p.current().String())
}

func (p *parser) lookahead(n int) tokType {
	return p.lookaheadToken(n).tokenType
}

func (p *parser) current() tokType {
	return p.lookahead(0)
}

func (p *parser) lookaheadToken(n int) token {
	return p.tokens[p.index+n]
}

func (p *parser) advance() {
	p.index++
}

func (p *parser) syntaxError(msg string) *SyntaxError {
	return &SyntaxError{msg: msg, Expression: p.expression, Offset: p.lookaheadToken(0).position}
}

func (p *parser) syntaxErrorToken(msg string, t token) *SyntaxError {
	return &SyntaxError{msg: msg, Expression: p.expression, Offset: t.position}
}
