package jmespath

import "fmt"

// SyntaxError reports that an expression's text is not a valid JMESPath
// expression. Offset is the byte position within Expression where the
// parser detected the problem, when available.
type SyntaxError struct {
	msg        string
	Expression string
	Offset     int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SyntaxError: %s", e.msg)
}

// InvalidValueError reports a parse-accepted but runtime-invalid value.
// Currently the only case is a Slice with step == 0.
type InvalidValueError struct {
	msg string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("InvalidValue: %s", e.msg)
}

// InvalidArgumentError reports an internal precondition violated by a
// malformed AST (not by caller input); its presence indicates a bug in AST
// construction.
type InvalidArgumentError struct {
	msg string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("InvalidArgument: %s", e.msg)
}

// UnknownFunctionError reports a function call whose name is not part of
// the closed built-in function set.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("UnknownFunction: unknown function: %s", e.Name)
}

// ArityError reports a function called with the wrong number of arguments.
type ArityError struct {
	Name        string
	Count       int
	MinExpected int
	MaxExpected int // -1 means unbounded (variadic)
}

func (e *ArityError) Error() string {
	variadic := e.MaxExpected < 0
	more, only := "", ""
	if variadic {
		more, only = "or more ", "only "
	}
	report := fmt.Sprintf("%s%d ", only, e.Count)
	if e.Count == 0 {
		report = "none "
	}
	plural := ""
	if e.MinExpected > 1 {
		plural = "s"
	}
	return fmt.Sprintf(
		"InvalidFunctionArgumentArity: invalid arity, the function '%s' expects %d argument%s %sbut %swere supplied",
		e.Name, e.MinExpected, plural, more, report)
}

// ArgumentTypeError reports a function argument of unacceptable type, or
// heterogeneous array elements where homogeneity is required.
type ArgumentTypeError struct {
	Name     string
	Position int
	Expected string
	Got      Value
}

func (e *ArgumentTypeError) Error() string {
	return fmt.Sprintf(
		"InvalidFunctionArgumentType: invalid type for argument %d of %s(), expected %s, got %s",
		e.Position, e.Name, e.Expected, typeName(e.Got))
}
