package jmespath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Value is the JSON value representation the parser and interpreter operate
// over: null, bool, integer, float, string, array, or object. Objects
// preserve the insertion order of their keys, which a plain Go
// map[string]interface{} cannot guarantee.
//
// Value is a closed set: Null, Bool, Int, Float, String, Array and *Object
// are the only implementations, distinguished by the unexported jmesValue
// marker method.
type Value interface {
	jmesValue()
}

// Null is the JSON null value.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Int is a JSON number that was given (or computed) as an integer.
type Int int64

// Float is a JSON number with a fractional or exponent part.
type Float float64

// String is a JSON string.
type String string

// Array is an ordered JSON array.
type Array []Value

func (Null) jmesValue()   {}
func (Bool) jmesValue()   {}
func (Int) jmesValue()    {}
func (Float) jmesValue()  {}
func (String) jmesValue() {}
func (Array) jmesValue()  {}
func (*Object) jmesValue() {}

// Object is an insertion-ordered JSON object. The zero value is an empty
// object ready to use.
type Object struct {
	keys  []string
	index map[string]int
	vals  []Value
}

// NewObject returns an empty, ready-to-use Object.
func NewObject() *Object {
	return &Object{index: map[string]int{}}
}

// Len returns the number of keys in the object.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Get returns the value stored under key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.vals[i], true
}

// Set inserts or overwrites key with value, preserving the position of an
// existing key and appending new keys at the end, matching object-literal
// semantics where a later assignment to an existing key does not move it.
func (o *Object) Set(key string, value Value) {
	if o.index == nil {
		o.index = map[string]int{}
	}
	if i, ok := o.index[key]; ok {
		o.vals[i] = value
		return
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, value)
}

// Keys returns the object's keys in insertion order. The returned slice must
// not be mutated by the caller.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Values returns the object's values in the same order as Keys. The
// returned slice must not be mutated by the caller.
func (o *Object) Values() []Value {
	if o == nil {
		return nil
	}
	return o.vals
}

// Range calls fn for each key/value pair in insertion order.
func (o *Object) Range(fn func(key string, value Value)) {
	if o == nil {
		return
	}
	for i, k := range o.keys {
		fn(k, o.vals[i])
	}
}

// MarshalJSON implements json.Marshaler, preserving key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(Encode(o.vals[i]))
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// isTruthy implements JMESPath truthiness: any number and any boolean true
// are truthy; null, false, and empty string/array/object are falsy; every
// other non-empty value is truthy.
func isTruthy(v Value) bool {
	switch t := v.(type) {
	case nil, Null:
		return false
	case Bool:
		return bool(t)
	case Int, Float:
		return true
	case String:
		return len(t) > 0
	case Array:
		return len(t) > 0
	case *Object:
		return t.Len() > 0
	default:
		return false
	}
}

// equalValues implements structural equality: arrays compare element-wise,
// objects compare key set and value, and integers compare equal to floats
// with the same numeric value.
func equalValues(a, b Value) bool {
	a = normalizeNil(a)
	b = normalizeNil(b)
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Int, Float:
		bn, ok := asFloat(b)
		if !ok {
			return false
		}
		an, _ := asFloat(a)
		return an == bn
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValues(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys() {
			aval, _ := av.Get(k)
			bval, ok := bv.Get(k)
			if !ok || !equalValues(aval, bval) {
				return false
			}
		}
		return true
	}
	return false
}

func normalizeNil(v Value) Value {
	if v == nil {
		return Null{}
	}
	return v
}

func asFloat(v Value) (float64, bool) {
	switch t := v.(type) {
	case Int:
		return float64(t), true
	case Float:
		return float64(t), true
	}
	return 0, false
}

// compareNumbers implements the four ordering comparators. JMESPath defines
// ordering only between two numbers; the caller treats a false ok as "Null".
func compareNumbers(a, b Value) (cmp int, ok bool) {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	default:
		return 0, true
	}
}

// typeName returns the JMESPath type() name for v.
func typeName(v Value) string {
	switch v.(type) {
	case nil, Null:
		return "null"
	case Bool:
		return "boolean"
	case Int, Float:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case *Object:
		return "object"
	default:
		return "null"
	}
}

// DecodeBytes parses raw JSON text into a Value, preserving object key
// order via encoding/json's token-level decoder.
func DecodeBytes(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("jmespath: trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("jmespath: expected object key, got %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := Array{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("jmespath: unexpected delimiter %v", t)
	case json.Number:
		return numberValue(t)
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	}
	return nil, fmt.Errorf("jmespath: unexpected token %v", tok)
}

func numberValue(n json.Number) (Value, error) {
	if i, err := n.Int64(); err == nil {
		return Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}
	return Float(f), nil
}

// FromGo converts an arbitrary Go value (as accepted by interface{}-based
// Search callers, or returned by encoding/json.Unmarshal into interface{})
// into a Value. Structs are converted field by field, honoring a "jmes"
// struct tag and falling back to "json", via a reflect-based struct->map
// conversion.
func FromGo(value interface{}) (Value, error) {
	return fromGo(reflect.ValueOf(value))
}

func fromGo(rv reflect.Value) (Value, error) {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Null{}, nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return Null{}, nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null{}, nil
		}
		arr := make(Array, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := fromGo(rv.Index(i))
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case reflect.Map:
		if rv.IsNil() {
			return Null{}, nil
		}
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("jmespath: map key must be string, got %s", rv.Type().Key())
		}
		obj := NewObject()
		iter := rv.MapRange()
		keyed := map[string]reflect.Value{}
		for iter.Next() {
			k := iter.Key().String()
			keyed[k] = iter.Value()
		}
		keys := maps.Keys(keyed)
		slices.Sort(keys)
		for _, k := range keys {
			v, err := fromGo(keyed[k])
			if err != nil {
				return nil, err
			}
			obj.Set(k, v)
		}
		return obj, nil
	case reflect.Struct:
		return fromGoStruct(rv)
	default:
		return nil, fmt.Errorf("jmespath: unsupported type %s", rv.Type())
	}
}

func fromGoStruct(rv reflect.Value) (Value, error) {
	obj := NewObject()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		key := f.Name
		if tag, ok := f.Tag.Lookup("jmes"); ok {
			switch tag {
			case "":
			case "-":
				continue
			default:
				key = tag
			}
		} else if tag, ok := f.Tag.Lookup("json"); ok {
			switch tag {
			case "", "-":
			default:
				if idx := strings.IndexByte(tag, ','); idx >= 0 {
					if idx != 0 {
						key = tag[:idx]
					}
				} else {
					key = tag
				}
			}
		}
		v, err := fromGo(rv.Field(i))
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	return obj, nil
}

// Encode converts a Value back into plain Go values that
// encoding/json.Marshal accepts (nil, bool, int64, float64, string,
// []interface{}), for callers that want a conventional Go value rather than
// a Value. Objects are returned as *Object (which marshals
// order-preserving) rather than flattened into a map[string]interface{},
// since flattening would discard the ordering Value guarantees.
func Encode(v Value) interface{} {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	case String:
		return string(t)
	case Array:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = Encode(e)
		}
		return out
	case *Object:
		return t
	default:
		return nil
	}
}

// quoteString renders s as a Go string literal, used for panic messages in
// MustCompile.
func quoteString(s string) string {
	return strconv.Quote(s)
}
