package jmespath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func eval(t *testing.T, expression string, data Value) Value {
	t.Helper()
	p := newParser()
	node, err := p.Parse(expression)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", expression, err)
	}
	result, err := newInterpreter().Execute(node, data)
	if err != nil {
		t.Fatalf("Execute(%q) failed: %v", expression, err)
	}
	return result
}

func mustDecode(t *testing.T, text string) Value {
	t.Helper()
	v, err := DecodeBytes([]byte(text))
	if err != nil {
		t.Fatalf("DecodeBytes(%q) failed: %v", text, err)
	}
	return v
}

func TestInterpreterFieldLookup(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"foo": {"bar": "baz"}}`)
	a.Equal(String("baz"), eval(t, "foo.bar", data))
}

func TestInterpreterFieldOnNonObjectIsNull(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"foo": 1}`)
	a.Equal(Null{}, eval(t, "foo.bar", data))
}

func TestInterpreterArrayIndexNegative(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `[0, 1, 2, 3]`)
	a.Equal(Int(3), eval(t, "[-1]", data))
}

func TestInterpreterSliceProjection(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `[0, 1, 2, 3, 4]`)
	result := eval(t, "[1:3]", data)
	a.Equal(Array{Int(1), Int(2)}, result)
}

func TestInterpreterFlattenMergesOneLevel(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `[[0, 1], [2, 3], 4]`)
	result := eval(t, "[]", data)
	a.Equal(Array{Int(0), Int(1), Int(2), Int(3), Int(4)}, result)
}

func TestInterpreterListWildcardDropsNulls(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `[{"a": 1}, {"b": 2}, {"a": 3}]`)
	result := eval(t, "[*].a", data)
	a.Equal(Array{Int(1), Int(3)}, result)
}

func TestInterpreterHashWildcardProjectsValues(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"a": 1, "b": 2}`)
	result := eval(t, "*", data)
	a.Equal(Array{Int(1), Int(2)}, result)
}

func TestInterpreterFilterExpression(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `[{"age": 10}, {"age": 30}, {"age": 20}]`)
	result := eval(t, "[?age > `15`].age", data)
	a.Equal(Array{Int(30), Int(20)}, result)
}

func TestInterpreterPipeStopsProjection(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"a": [{"b": 1}, {"b": 2}]}`)
	result := eval(t, "a[*].b | [0]", data)
	a.Equal(Int(1), result)
}

func TestInterpreterOrShortCircuits(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"a": null, "b": "x"}`)
	a.Equal(String("x"), eval(t, "a || b", data))
}

func TestInterpreterAndShortCircuits(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"a": null, "b": "x"}`)
	a.Equal(Null{}, eval(t, "a && b", data))
}

func TestInterpreterNotExpression(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"a": []}`)
	a.Equal(Bool(true), eval(t, "!a", data))
}

func TestInterpreterComparatorEquality(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"a": 2}`)
	a.Equal(Bool(true), eval(t, "a == `2`", data))
	a.Equal(Bool(true), eval(t, "a == `2.0`", data))
}

func TestInterpreterComparatorOrderingOnNonNumbersIsNull(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"a": "x", "b": 1}`)
	a.Equal(Null{}, eval(t, "a < b", data))
}

func TestInterpreterMultiselectList(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"a": 1, "b": 2}`)
	result := eval(t, "[a, b]", data)
	a.Equal(Array{Int(1), Int(2)}, result)
}

func TestInterpreterMultiselectHash(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"a": 1, "b": 2}`)
	result := eval(t, "{x: a, y: b}", data)
	obj := result.(*Object)
	a.Equal([]string{"x", "y"}, obj.Keys())
}

func TestInterpreterMultiselectOnNullIsNull(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"a": null}`)
	a.Equal(Null{}, eval(t, "a.{x: y}", data))
}

func TestInterpreterFunctionCall(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `{"a": [1, 2, 3]}`)
	a.Equal(Int(3), eval(t, "length(a)", data))
}

func TestInterpreterMapWithExpressionReference(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `[{"a": 1}, {"a": 2}]`)
	result := eval(t, "map(&a, @)", data)
	a.Equal(Array{Int(1), Int(2)}, result)
}

func TestInterpreterSliceWithStep(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `[0, 1, 2, 3, 4, 5]`)
	result := eval(t, "[::2]", data)
	a.Equal(Array{Int(0), Int(2), Int(4)}, result)
}

func TestInterpreterSliceWithNegativeStep(t *testing.T) {
	a := assert.New(t)
	data := mustDecode(t, `[0, 1, 2, 3]`)
	result := eval(t, "[::-1]", data)
	a.Equal(Array{Int(3), Int(2), Int(1), Int(0)}, result)
}
