package jmespath

// treeInterpreter walks an AST against a Value, producing the result Value.
// It holds no mutable state of its own beyond the function table, so a
// single instance is reused across Execute calls, including the recursive
// calls higher-order functions (map, sort_by, max_by, min_by) make back
// into Execute with a fresh current value.
type treeInterpreter struct {
	fns *functionCaller
}

func newInterpreter() *treeInterpreter {
	return &treeInterpreter{fns: newFunctionCaller()}
}

// exprRef is the runtime form of a function argument written as &expr,
// built by executeFunction without evaluating expr. It is never part of the
// Value closed set: it only ever appears as a function argument, and only an
// argExpref parameter accepts it.
type exprRef struct {
	node ASTNode
	intr *treeInterpreter
}

func (e exprRef) call(current Value) (Value, error) {
	return e.intr.Execute(e.node, current)
}

func asValue(v Value) Value {
	if v == nil {
		return Null{}
	}
	return v
}

// Execute evaluates node against current, returning the resulting Value.
func (intr *treeInterpreter) Execute(node ASTNode, current Value) (Value, error) {
	switch node.NodeType {
	case NodeEmpty:
		return asValue(current), nil
	case NodeCurrent:
		return asValue(current), nil
	case NodeRawString:
		return String(node.Value.(string)), nil
	case NodeLiteral:
		return node.Value.(Value), nil
	case NodeIdentifier:
		obj, ok := current.(*Object)
		if !ok {
			return Null{}, nil
		}
		v, ok := obj.Get(node.Value.(string))
		if !ok {
			return Null{}, nil
		}
		return asValue(v), nil
	case NodeParenExpression:
		return intr.Execute(node.Children[0], current)
	case NodeNotExpression:
		v, err := intr.Execute(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		return Bool(!isTruthy(v)), nil
	case NodeAndExpression:
		left, err := intr.Execute(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		if !isTruthy(left) {
			return left, nil
		}
		return intr.Execute(node.Children[1], current)
	case NodeOrExpression:
		left, err := intr.Execute(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		if isTruthy(left) {
			return left, nil
		}
		return intr.Execute(node.Children[1], current)
	case NodeComparatorExpression:
		return intr.executeComparator(node, current)
	case NodePipeExpression:
		left, err := intr.Execute(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		return intr.Execute(node.Children[1], left)
	case NodeSubexpression:
		left, err := intr.Execute(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		return intr.Execute(node.Children[1], left)
	case NodeIndexExpression:
		return intr.executeIndex(node, current)
	case NodeHashWildcard:
		return intr.executeHashWildcard(node, current)
	case NodeFilterExpression:
		return intr.executeFilter(node, current)
	case NodeMultiselectList:
		return intr.executeMultiselectList(node, current)
	case NodeMultiselectHash:
		return intr.executeMultiselectHash(node, current)
	case NodeFunctionExpression:
		return intr.executeFunction(node, current)
	case NodeExpressionReference:
		return nil, &InvalidArgumentError{msg: "expression reference used outside of a function argument"}
	}
	return nil, &InvalidArgumentError{msg: "unknown AST node type: " + node.NodeType.String()}
}

func (intr *treeInterpreter) executeComparator(node ASTNode, current Value) (Value, error) {
	left, err := intr.Execute(node.Children[0], current)
	if err != nil {
		return nil, err
	}
	right, err := intr.Execute(node.Children[1], current)
	if err != nil {
		return nil, err
	}
	cmp := node.Value.(Comparator)
	if cmp == CompareEqual {
		return Bool(equalValues(left, right)), nil
	}
	if cmp == CompareNotEqual {
		return Bool(!equalValues(left, right)), nil
	}
	ordering, ok := compareNumbers(left, right)
	if !ok {
		return Null{}, nil
	}
	switch cmp {
	case CompareLess:
		return Bool(ordering < 0), nil
	case CompareLessOrEqual:
		return Bool(ordering <= 0), nil
	case CompareGreaterOrEqual:
		return Bool(ordering >= 0), nil
	case CompareGreater:
		return Bool(ordering > 0), nil
	}
	return Null{}, nil
}

// executeIndex dispatches the four IndexExpression bracket forms. An
// ArrayItem node has a single child (left); the three projecting forms
// (Slice, Flatten, ListWildcard) have a second child, the right-hand
// expression applied to each surviving element.
func (intr *treeInterpreter) executeIndex(node ASTNode, current Value) (Value, error) {
	left, err := intr.Execute(node.Children[0], current)
	if err != nil {
		return nil, err
	}
	bracket := node.Value.(Bracket)
	switch bracket.Type {
	case BracketArrayItem:
		arr, ok := left.(Array)
		if !ok {
			return Null{}, nil
		}
		idx := bracket.Index
		if idx < 0 {
			idx += int64(len(arr))
		}
		if idx < 0 || idx >= int64(len(arr)) {
			return Null{}, nil
		}
		return asValue(arr[idx]), nil
	case BracketSlice:
		arr, ok := left.(Array)
		if !ok {
			return Null{}, nil
		}
		sliced, err := sliceArray(arr, bracket.Slice)
		if err != nil {
			return nil, err
		}
		return intr.project(sliced, node.Children[1], current)
	case BracketFlatten:
		arr, ok := left.(Array)
		if !ok {
			return Null{}, nil
		}
		var flat Array
		for _, v := range arr {
			if inner, ok := v.(Array); ok {
				flat = append(flat, inner...)
			} else {
				flat = append(flat, v)
			}
		}
		return intr.project(flat, node.Children[1], current)
	case BracketListWildcard:
		arr, ok := left.(Array)
		if !ok {
			return Null{}, nil
		}
		return intr.project(arr, node.Children[1], current)
	}
	return nil, &InvalidArgumentError{msg: "unknown bracket type"}
}

func (intr *treeInterpreter) executeHashWildcard(node ASTNode, current Value) (Value, error) {
	left := current
	if !node.Children[0].IsEmpty() {
		var err error
		left, err = intr.Execute(node.Children[0], current)
		if err != nil {
			return nil, err
		}
	}
	obj, ok := left.(*Object)
	if !ok {
		return Null{}, nil
	}
	return intr.project(Array(obj.Values()), node.Children[1], current)
}

func (intr *treeInterpreter) executeFilter(node ASTNode, current Value) (Value, error) {
	left, err := intr.Execute(node.Children[0], current)
	if err != nil {
		return nil, err
	}
	arr, ok := left.(Array)
	if !ok {
		return Null{}, nil
	}
	var kept Array
	for _, v := range arr {
		cond, err := intr.Execute(node.Children[2], v)
		if err != nil {
			return nil, err
		}
		if isTruthy(cond) {
			kept = append(kept, v)
		}
	}
	return intr.project(kept, node.Children[1], current)
}

// project applies the (possibly Empty) right-hand expression to each
// element of elements, dropping elements where the result is Null.
func (intr *treeInterpreter) project(elements Array, right ASTNode, current Value) (Value, error) {
	result := make(Array, 0, len(elements))
	for _, v := range elements {
		mapped, err := intr.Execute(right, v)
		if err != nil {
			return nil, err
		}
		if _, isNull := mapped.(Null); isNull || mapped == nil {
			continue
		}
		result = append(result, mapped)
	}
	return result, nil
}

func (intr *treeInterpreter) executeMultiselectList(node ASTNode, current Value) (Value, error) {
	if _, isNull := current.(Null); isNull || current == nil {
		return Null{}, nil
	}
	out := make(Array, 0, len(node.Children))
	for _, child := range node.Children {
		v, err := intr.Execute(child, current)
		if err != nil {
			return nil, err
		}
		out = append(out, asValue(v))
	}
	return out, nil
}

func (intr *treeInterpreter) executeMultiselectHash(node ASTNode, current Value) (Value, error) {
	if _, isNull := current.(Null); isNull || current == nil {
		return Null{}, nil
	}
	out := NewObject()
	for _, child := range node.Children {
		v, err := intr.Execute(child.Children[0], current)
		if err != nil {
			return nil, err
		}
		out.Set(child.Value.(string), asValue(v))
	}
	return out, nil
}

func (intr *treeInterpreter) executeFunction(node ASTNode, current Value) (Value, error) {
	name := node.Value.(string)
	args := make([]interface{}, len(node.Args))
	for i, a := range node.Args {
		if a.IsReference {
			args[i] = exprRef{node: a.Expr, intr: intr}
			continue
		}
		v, err := intr.Execute(a.Expr, current)
		if err != nil {
			return nil, err
		}
		args[i] = asValue(v)
	}
	return intr.fns.CallFunction(name, args)
}

// sliceArray implements [start:stop:step] slicing, including negative
// indices and negative step. The parser accepts a step of 0; it is
// reported here, at evaluation time, as InvalidValueError.
func sliceArray(arr Array, s Slice) (Array, error) {
	step := 1
	if s.Step != nil {
		step = *s.Step
	}
	if step == 0 {
		return nil, &InvalidValueError{msg: "slice step cannot be 0"}
	}
	length := len(arr)
	start := sliceBound(s.Start, step, length, true)
	stop := sliceBound(s.Stop, step, length, false)
	var out Array
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, arr[i])
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, arr[i])
		}
	}
	return out, nil
}

func sliceBound(p *int, step, length int, isStart bool) int {
	if p == nil {
		if step > 0 {
			if isStart {
				return 0
			}
			return length
		}
		if isStart {
			return length - 1
		}
		return -1
	}
	v := *p
	if v < 0 {
		v += length
		if v < 0 {
			if step > 0 {
				v = 0
			} else {
				return -1
			}
		}
	} else if v >= length {
		if step > 0 {
			v = length
		} else {
			v = length - 1
		}
	}
	return v
}
