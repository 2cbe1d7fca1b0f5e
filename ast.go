package jmespath

import (
	"fmt"
	"strings"
)

// ASTNodeType tags the variant a given ASTNode represents: an int
// discriminant plus a generic payload, rather than one Go type per variant.
type ASTNodeType int

const (
	// NodeEmpty is the zero value: the empty-expression placeholder used by
	// the parser. The interpreter treats it as identity on the current
	// context.
	NodeEmpty ASTNodeType = iota
	NodeIdentifier
	NodeRawString
	NodeLiteral
	NodeCurrent
	NodeParenExpression
	NodeNotExpression
	NodeAndExpression
	NodeOrExpression
	NodeComparatorExpression
	NodePipeExpression
	NodeSubexpression
	NodeIndexExpression
	NodeHashWildcard
	NodeFilterExpression
	NodeMultiselectList
	NodeMultiselectHash
	NodeKeyValPair
	NodeFunctionExpression
	NodeExpressionReference
)

var nodeTypeNames = map[ASTNodeType]string{
	NodeEmpty:                "Empty",
	NodeIdentifier:           "Identifier",
	NodeRawString:            "RawString",
	NodeLiteral:              "Literal",
	NodeCurrent:              "Current",
	NodeParenExpression:      "ParenExpression",
	NodeNotExpression:        "NotExpression",
	NodeAndExpression:        "AndExpression",
	NodeOrExpression:         "OrExpression",
	NodeComparatorExpression: "ComparatorExpression",
	NodePipeExpression:       "PipeExpression",
	NodeSubexpression:        "Subexpression",
	NodeIndexExpression:      "IndexExpression",
	NodeHashWildcard:         "HashWildcard",
	NodeFilterExpression:     "FilterExpression",
	NodeMultiselectList:      "MultiselectList",
	NodeMultiselectHash:      "MultiselectHash",
	NodeKeyValPair:           "KeyValPair",
	NodeFunctionExpression:   "FunctionExpression",
	NodeExpressionReference:  "ExpressionReference",
}

func (t ASTNodeType) String() string {
	if s, ok := nodeTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ASTNodeType(%d)", int(t))
}

// Comparator enumerates the six comparator operators. There is deliberately
// no "Unknown" member: the parser only ever constructs one of these six, so
// the closed enum removes the need for a runtime default-case guard.
type Comparator int

const (
	CompareLess Comparator = iota
	CompareLessOrEqual
	CompareEqual
	CompareNotEqual
	CompareGreaterOrEqual
	CompareGreater
)

func (c Comparator) String() string {
	switch c {
	case CompareLess:
		return "<"
	case CompareLessOrEqual:
		return "<="
	case CompareEqual:
		return "=="
	case CompareNotEqual:
		return "!="
	case CompareGreaterOrEqual:
		return ">="
	case CompareGreater:
		return ">"
	}
	return "?"
}

// BracketType tags the four IndexExpression bracket forms.
type BracketType int

const (
	BracketArrayItem BracketType = iota
	BracketSlice
	BracketFlatten
	BracketListWildcard
)

// Slice holds the (optional) start/stop/step components of a [start:stop:step]
// bracket expression. A nil pointer means the component was omitted.
type Slice struct {
	Start *int
	Stop  *int
	Step  *int
}

// Bracket is the Value field of a NodeIndexExpression node, naming which
// bracket form it is.
type Bracket struct {
	Type  BracketType
	Index int64 // meaningful when Type == BracketArrayItem
	Slice Slice // meaningful when Type == BracketSlice
}

// FunctionArg is one argument of a FunctionExpression: either an ordinary
// expression evaluated against the current context, or an expression
// reference (&expr) passed unevaluated to higher-order functions.
type FunctionArg struct {
	IsReference bool
	Expr        ASTNode
}

// ASTNode is the tagged-union AST node. Value carries variant-specific
// payload (a string for Identifier/RawString, a Value for Literal, a
// Comparator for ComparatorExpression, a Bracket for IndexExpression, a
// string key for KeyValPair, or a function name for FunctionExpression).
// A FunctionExpression's arguments are held in Args, not in Value.
// Children carries the fixed-arity child expressions (or the ordered list
// for MultiselectList/MultiselectHash).
type ASTNode struct {
	NodeType ASTNodeType
	Value    interface{}
	Children []ASTNode
	Args     []FunctionArg // only for NodeFunctionExpression
}

// IsEmpty reports whether node is the Empty expression placeholder.
func (node ASTNode) IsEmpty() bool {
	return node.NodeType == NodeEmpty
}

func (node ASTNode) String() string {
	return node.PrettyPrint(0)
}

// PrettyPrint renders the AST for debugging. The exact output is not part
// of the contract and may change.
func (node ASTNode) PrettyPrint(indent int) string {
	spaces := strings.Repeat(" ", indent)
	out := fmt.Sprintf("%s%s {\n", spaces, node.NodeType)
	next := indent + 2
	if node.Value != nil {
		out += fmt.Sprintf("%svalue: %v\n", strings.Repeat(" ", next), node.Value)
	}
	if len(node.Args) > 0 {
		out += fmt.Sprintf("%sargs: {\n", strings.Repeat(" ", next))
		for _, a := range node.Args {
			if a.IsReference {
				out += fmt.Sprintf("%s&\n", strings.Repeat(" ", next+2))
			}
			out += a.Expr.PrettyPrint(next + 2)
		}
		out += fmt.Sprintf("%s}\n", strings.Repeat(" ", next))
	}
	if len(node.Children) > 0 {
		out += fmt.Sprintf("%schildren: {\n", strings.Repeat(" ", next))
		for _, c := range node.Children {
			out += c.PrettyPrint(next + 2)
		}
		out += fmt.Sprintf("%s}\n", strings.Repeat(" ", next))
	}
	out += fmt.Sprintf("%s}\n", spaces)
	return out
}
