package jmespath

import (
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/exp/slices"
)

// argType tags the accepted shapes for a function argument, checked against
// Value rather than interface{}.
type argType int

const (
	argAny argType = iota
	argNumber
	argString
	argArray
	argObject
	argArrayNumber
	argArrayString
	argExpref
)

type argSpec struct {
	types    []argType
	variadic bool
	optional bool
}

type functionHandler func(intr *treeInterpreter, args []interface{}) (Value, error)

type functionEntry struct {
	name      string
	arguments []argSpec
	handler   functionHandler
}

type functionCaller struct {
	table map[string]functionEntry
}

func newFunctionCaller() *functionCaller {
	c := &functionCaller{table: map[string]functionEntry{}}
	for _, e := range builtinFunctions {
		c.table[e.name] = e
	}
	return c
}

// CallFunction validates arguments against the named entry's argSpec and
// invokes its handler. args elements are either a Value or an exprRef
// (for argExpref parameters).
func (c *functionCaller) CallFunction(name string, args []interface{}) (Value, error) {
	entry, ok := c.table[name]
	if !ok {
		return nil, &UnknownFunctionError{Name: name}
	}
	if err := entry.resolveArgs(args); err != nil {
		return nil, err
	}
	return entry.handler(nil, args)
}

func isVariadic(specs []argSpec) bool {
	for _, s := range specs {
		if s.variadic {
			return true
		}
	}
	return false
}

func minExpected(specs []argSpec) int {
	n := 0
	for _, s := range specs {
		if !s.optional {
			n++
		}
	}
	return n
}

func (e *functionEntry) resolveArgs(args []interface{}) error {
	if len(e.arguments) == 0 {
		return nil
	}
	variadic := isVariadic(e.arguments)
	min := minExpected(e.arguments)
	count := len(args)
	if count < min {
		return &ArityError{Name: e.name, Count: count, MinExpected: min, MaxExpected: boundedMax(e.arguments, variadic)}
	}
	if !variadic && count > len(e.arguments) {
		return &ArityError{Name: e.name, Count: count, MinExpected: min, MaxExpected: len(e.arguments)}
	}
	for i, spec := range e.arguments {
		if spec.variadic {
			for j := i; j < len(args); j++ {
				if err := spec.typeCheck(e.name, j, args[j]); err != nil {
					return err
				}
			}
			break
		}
		if i >= len(args) {
			break
		}
		if err := spec.typeCheck(e.name, i, args[i]); err != nil {
			return err
		}
	}
	return nil
}

func boundedMax(specs []argSpec, variadic bool) int {
	if variadic {
		return -1
	}
	return len(specs)
}

func (a *argSpec) typeCheck(name string, position int, arg interface{}) error {
	for _, t := range a.types {
		switch t {
		case argAny:
			if _, ok := arg.(Value); ok {
				return nil
			}
		case argExpref:
			if _, ok := arg.(exprRef); ok {
				return nil
			}
		case argNumber:
			if v, ok := arg.(Value); ok {
				if _, ok := asFloat(v); ok {
					return nil
				}
			}
		case argString:
			if v, ok := arg.(Value); ok {
				if _, ok := v.(String); ok {
					return nil
				}
			}
		case argArray:
			if v, ok := arg.(Value); ok {
				if _, ok := v.(Array); ok {
					return nil
				}
			}
		case argObject:
			if v, ok := arg.(Value); ok {
				if _, ok := v.(*Object); ok {
					return nil
				}
			}
		case argArrayNumber:
			if v, ok := arg.(Value); ok {
				if arr, ok := v.(Array); ok && allNumbers(arr) {
					return nil
				}
			}
		case argArrayString:
			if v, ok := arg.(Value); ok {
				if arr, ok := v.(Array); ok && allStrings(arr) {
					return nil
				}
			}
		}
	}
	var got Value
	if v, ok := arg.(Value); ok {
		got = v
	} else {
		got = Null{}
	}
	return &ArgumentTypeError{Name: name, Position: position + 1, Expected: argTypeNames(a.types), Got: got}
}

func argTypeNames(types []argType) string {
	names := map[argType]string{
		argAny: "any", argNumber: "number", argString: "string", argArray: "array",
		argObject: "object", argArrayNumber: "array[number]", argArrayString: "array[string]",
		argExpref: "expression",
	}
	out := ""
	for i, t := range types {
		if i > 0 {
			out += "|"
		}
		out += names[t]
	}
	return out
}

func allNumbers(arr Array) bool {
	for _, v := range arr {
		if _, ok := asFloat(v); !ok {
			return false
		}
	}
	return true
}

func allStrings(arr Array) bool {
	for _, v := range arr {
		if _, ok := v.(String); !ok {
			return false
		}
	}
	return true
}

func arrayNums(arr Array) []float64 {
	out := make([]float64, len(arr))
	for i, v := range arr {
		f, _ := asFloat(v)
		out[i] = f
	}
	return out
}

func arrayStrings(arr Array) []string {
	out := make([]string, len(arr))
	for i, v := range arr {
		out[i] = string(v.(String))
	}
	return out
}

func val(args []interface{}, i int) Value {
	return args[i].(Value)
}

func ref(args []interface{}, i int) exprRef {
	return args[i].(exprRef)
}

var builtinFunctions = []functionEntry{
	{name: "abs", arguments: []argSpec{{types: []argType{argNumber}}}, handler: fnAbs},
	{name: "avg", arguments: []argSpec{{types: []argType{argArrayNumber}}}, handler: fnAvg},
	{name: "ceil", arguments: []argSpec{{types: []argType{argNumber}}}, handler: fnCeil},
	{name: "contains", arguments: []argSpec{
		{types: []argType{argArray, argString}},
		{types: []argType{argAny}},
	}, handler: fnContains},
	{name: "ends_with", arguments: []argSpec{
		{types: []argType{argString}},
		{types: []argType{argString}},
	}, handler: fnEndsWith},
	{name: "floor", arguments: []argSpec{{types: []argType{argNumber}}}, handler: fnFloor},
	{name: "join", arguments: []argSpec{
		{types: []argType{argString}},
		{types: []argType{argArrayString}},
	}, handler: fnJoin},
	{name: "keys", arguments: []argSpec{{types: []argType{argObject}}}, handler: fnKeys},
	{name: "length", arguments: []argSpec{{types: []argType{argString, argArray, argObject}}}, handler: fnLength},
	{name: "map", arguments: []argSpec{
		{types: []argType{argExpref}},
		{types: []argType{argArray}},
	}, handler: fnMap},
	{name: "max", arguments: []argSpec{{types: []argType{argArrayNumber, argArrayString}}}, handler: fnMax},
	{name: "max_by", arguments: []argSpec{
		{types: []argType{argArray}},
		{types: []argType{argExpref}},
	}, handler: fnMaxBy},
	{name: "merge", arguments: []argSpec{{types: []argType{argObject}, variadic: true}}, handler: fnMerge},
	{name: "min", arguments: []argSpec{{types: []argType{argArrayNumber, argArrayString}}}, handler: fnMin},
	{name: "min_by", arguments: []argSpec{
		{types: []argType{argArray}},
		{types: []argType{argExpref}},
	}, handler: fnMinBy},
	{name: "not_null", arguments: []argSpec{{types: []argType{argAny}, variadic: true}}, handler: fnNotNull},
	{name: "reverse", arguments: []argSpec{{types: []argType{argArray, argString}}}, handler: fnReverse},
	{name: "sort", arguments: []argSpec{{types: []argType{argArrayNumber, argArrayString}}}, handler: fnSort},
	{name: "sort_by", arguments: []argSpec{
		{types: []argType{argArray}},
		{types: []argType{argExpref}},
	}, handler: fnSortBy},
	{name: "starts_with", arguments: []argSpec{
		{types: []argType{argString}},
		{types: []argType{argString}},
	}, handler: fnStartsWith},
	{name: "sum", arguments: []argSpec{{types: []argType{argArrayNumber}}}, handler: fnSum},
	{name: "to_array", arguments: []argSpec{{types: []argType{argAny}}}, handler: fnToArray},
	{name: "to_number", arguments: []argSpec{{types: []argType{argAny}}}, handler: fnToNumber},
	{name: "to_string", arguments: []argSpec{{types: []argType{argAny}}}, handler: fnToString},
	{name: "type", arguments: []argSpec{{types: []argType{argAny}}}, handler: fnType},
	{name: "values", arguments: []argSpec{{types: []argType{argObject}}}, handler: fnValues},
}

func numResult(f float64) Value {
	if f == float64(int64(f)) {
		return Int(int64(f))
	}
	return Float(f)
}

func fnAbs(_ *treeInterpreter, args []interface{}) (Value, error) {
	f, _ := asFloat(val(args, 0))
	if f < 0 {
		f = -f
	}
	return numResult(f), nil
}

func fnAvg(_ *treeInterpreter, args []interface{}) (Value, error) {
	arr := val(args, 0).(Array)
	if len(arr) == 0 {
		return Null{}, nil
	}
	sum := 0.0
	for _, v := range arr {
		f, _ := asFloat(v)
		sum += f
	}
	return numResult(sum / float64(len(arr))), nil
}

func fnCeil(_ *treeInterpreter, args []interface{}) (Value, error) {
	f, _ := asFloat(val(args, 0))
	return numResult(ceilFloat(f)), nil
}

func fnFloor(_ *treeInterpreter, args []interface{}) (Value, error) {
	f, _ := asFloat(val(args, 0))
	return numResult(floorFloat(f)), nil
}

func ceilFloat(f float64) float64 {
	i := int64(f)
	if f > 0 && f != float64(i) {
		return float64(i + 1)
	}
	return float64(i)
}

func floorFloat(f float64) float64 {
	i := int64(f)
	if f < 0 && f != float64(i) {
		return float64(i - 1)
	}
	return float64(i)
}

func fnContains(_ *treeInterpreter, args []interface{}) (Value, error) {
	subject := val(args, 0)
	target := val(args, 1)
	switch t := subject.(type) {
	case Array:
		for _, v := range t {
			if equalValues(v, target) {
				return Bool(true), nil
			}
		}
		return Bool(false), nil
	case String:
		s, ok := target.(String)
		if !ok {
			return Bool(false), nil
		}
		return Bool(stringContains(string(t), string(s))), nil
	}
	return Bool(false), nil
}

func stringContains(s, substr string) bool {
	if len(substr) == 0 {
		return true
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func fnEndsWith(_ *treeInterpreter, args []interface{}) (Value, error) {
	s := string(val(args, 0).(String))
	suffix := string(val(args, 1).(String))
	return Bool(len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix), nil
}

func fnStartsWith(_ *treeInterpreter, args []interface{}) (Value, error) {
	s := string(val(args, 0).(String))
	prefix := string(val(args, 1).(String))
	return Bool(len(s) >= len(prefix) && s[:len(prefix)] == prefix), nil
}

func fnJoin(_ *treeInterpreter, args []interface{}) (Value, error) {
	sep := string(val(args, 0).(String))
	items := arrayStrings(val(args, 1).(Array))
	out := ""
	for i, s := range items {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return String(out), nil
}

func fnKeys(_ *treeInterpreter, args []interface{}) (Value, error) {
	obj := val(args, 0).(*Object)
	keys := obj.Keys()
	out := make(Array, len(keys))
	for i, k := range keys {
		out[i] = String(k)
	}
	return out, nil
}

func fnValues(_ *treeInterpreter, args []interface{}) (Value, error) {
	obj := val(args, 0).(*Object)
	vals := obj.Values()
	out := make(Array, len(vals))
	copy(out, vals)
	return out, nil
}

func fnLength(_ *treeInterpreter, args []interface{}) (Value, error) {
	switch t := val(args, 0).(type) {
	case String:
		return Int(len([]rune(string(t)))), nil
	case Array:
		return Int(len(t)), nil
	case *Object:
		return Int(t.Len()), nil
	}
	return nil, &InvalidArgumentError{msg: "length() requires a string, array, or object"}
}

func fnMap(intr *treeInterpreter, args []interface{}) (Value, error) {
	exp := ref(args, 0)
	arr := val(args, 1).(Array)
	out := make(Array, 0, len(arr))
	for _, v := range arr {
		mapped, err := exp.call(v)
		if err != nil {
			return nil, err
		}
		out = append(out, asValue(mapped))
	}
	return out, nil
}

func fnMax(_ *treeInterpreter, args []interface{}) (Value, error) {
	arr := val(args, 0).(Array)
	return extremum(arr, false)
}

func fnMin(_ *treeInterpreter, args []interface{}) (Value, error) {
	arr := val(args, 0).(Array)
	return extremum(arr, true)
}

func extremum(arr Array, wantMin bool) (Value, error) {
	if len(arr) == 0 {
		return Null{}, nil
	}
	best := arr[0]
	for _, v := range arr[1:] {
		if allNumbers(Array{best, v}) {
			bf, _ := asFloat(best)
			vf, _ := asFloat(v)
			if (wantMin && vf < bf) || (!wantMin && vf > bf) {
				best = v
			}
		} else {
			bs := string(best.(String))
			vs := string(v.(String))
			if (wantMin && vs < bs) || (!wantMin && vs > bs) {
				best = v
			}
		}
	}
	return best, nil
}

func fnMaxBy(intr *treeInterpreter, args []interface{}) (Value, error) {
	return extremumBy("max_by", val(args, 0).(Array), ref(args, 1), false)
}

func fnMinBy(intr *treeInterpreter, args []interface{}) (Value, error) {
	return extremumBy("min_by", val(args, 0).(Array), ref(args, 1), true)
}

func extremumBy(name string, arr Array, exp exprRef, wantMin bool) (Value, error) {
	if len(arr) == 0 {
		return Null{}, nil
	}
	keys := make([]Value, len(arr))
	for i, item := range arr {
		key, err := exp.call(item)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}
	if err := checkUniformSortKeys(name, keys); err != nil {
		return nil, err
	}
	if len(arr) == 1 {
		return arr[0], nil
	}
	bestIdx := 0
	_, numeric := asFloat(keys[0])
	for i := 1; i < len(arr); i++ {
		if numeric {
			bf, _ := asFloat(keys[bestIdx])
			kf, _ := asFloat(keys[i])
			if (wantMin && kf < bf) || (!wantMin && kf > bf) {
				bestIdx = i
			}
		} else {
			bs := string(keys[bestIdx].(String))
			ks := string(keys[i].(String))
			if (wantMin && ks < bs) || (!wantMin && ks > bs) {
				bestIdx = i
			}
		}
	}
	return arr[bestIdx], nil
}

// checkUniformSortKeys verifies that keys are either all numbers or all
// strings, the type consistency sort_by/max_by/min_by require of their
// expression results before any ordering is attempted.
func checkUniformSortKeys(name string, keys []Value) error {
	_, firstNumeric := asFloat(keys[0])
	_, firstString := keys[0].(String)
	if !firstNumeric && !firstString {
		return &ArgumentTypeError{Name: name, Position: 2, Expected: "number|string", Got: keys[0]}
	}
	for _, k := range keys[1:] {
		if firstNumeric {
			if _, ok := asFloat(k); !ok {
				return &ArgumentTypeError{Name: name, Position: 2, Expected: "number", Got: k}
			}
		} else {
			if _, ok := k.(String); !ok {
				return &ArgumentTypeError{Name: name, Position: 2, Expected: "string", Got: k}
			}
		}
	}
	return nil
}

func fnMerge(_ *treeInterpreter, args []interface{}) (Value, error) {
	out := NewObject()
	for _, a := range args {
		obj := a.(Value).(*Object)
		obj.Range(func(k string, v Value) {
			out.Set(k, v)
		})
	}
	return out, nil
}

func fnNotNull(_ *treeInterpreter, args []interface{}) (Value, error) {
	for _, a := range args {
		v := a.(Value)
		if _, isNull := v.(Null); !isNull {
			return v, nil
		}
	}
	return Null{}, nil
}

func fnReverse(_ *treeInterpreter, args []interface{}) (Value, error) {
	switch t := val(args, 0).(type) {
	case String:
		r := []rune(string(t))
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return String(r), nil
	case Array:
		out := make(Array, len(t))
		for i, v := range t {
			out[len(t)-1-i] = v
		}
		return out, nil
	}
	return nil, &InvalidArgumentError{msg: "reverse() requires a string or array"}
}

func fnSort(_ *treeInterpreter, args []interface{}) (Value, error) {
	arr := val(args, 0).(Array)
	out := make(Array, len(arr))
	copy(out, arr)
	if allNumbers(out) {
		slices.SortStableFunc(out, func(a, b Value) bool {
			af, _ := asFloat(a)
			bf, _ := asFloat(b)
			return af < bf
		})
		return out, nil
	}
	slices.SortStableFunc(out, func(a, b Value) bool {
		return string(a.(String)) < string(b.(String))
	})
	return out, nil
}

func fnSortBy(intr *treeInterpreter, args []interface{}) (Value, error) {
	arr := val(args, 0).(Array)
	exp := ref(args, 1)
	if len(arr) <= 1 {
		return arr, nil
	}
	out := make(Array, len(arr))
	copy(out, arr)
	keys := make([]Value, len(out))
	for i, v := range out {
		k, err := exp.call(v)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	if err := checkUniformSortKeys("sort_by", keys); err != nil {
		return nil, err
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	if _, ok := keys[0].(String); ok {
		slices.SortStableFunc(idx, func(a, b int) bool {
			return string(keys[a].(String)) < string(keys[b].(String))
		})
	} else {
		slices.SortStableFunc(idx, func(a, b int) bool {
			af, _ := asFloat(keys[a])
			bf, _ := asFloat(keys[b])
			return af < bf
		})
	}
	sorted := make(Array, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted, nil
}

func fnSum(_ *treeInterpreter, args []interface{}) (Value, error) {
	arr := val(args, 0).(Array)
	sum := 0.0
	for _, v := range arr {
		f, _ := asFloat(v)
		sum += f
	}
	return numResult(sum), nil
}

func fnToArray(_ *treeInterpreter, args []interface{}) (Value, error) {
	v := val(args, 0)
	if arr, ok := v.(Array); ok {
		return arr, nil
	}
	return Array{v}, nil
}

func fnToString(_ *treeInterpreter, args []interface{}) (Value, error) {
	v := val(args, 0)
	if s, ok := v.(String); ok {
		return s, nil
	}
	return String(renderJSON(v)), nil
}

func fnToNumber(_ *treeInterpreter, args []interface{}) (Value, error) {
	v := val(args, 0)
	switch t := v.(type) {
	case Int, Float:
		return t, nil
	case String:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return Int(i), nil
		}
		if f, err := strconv.ParseFloat(string(t), 64); err == nil {
			return Float(f), nil
		}
		return Null{}, nil
	}
	return Null{}, nil
}

func fnType(_ *treeInterpreter, args []interface{}) (Value, error) {
	return String(typeName(val(args, 0))), nil
}

func renderJSON(v Value) string {
	b, err := json.Marshal(Encode(v))
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
