// Package document models free-form nested records as a tagged value tree and
// merges partial records against canonical templates.
package document

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindScalar
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one node of a document. The zero Value is null.
type Value struct {
	kind   Kind
	scalar any
	array  []Value
	object Object
}

// Object is a mapping node. A nil Object is not a valid record.
type Object map[string]Value

func Null() Value {
	return Value{}
}

func Scalar(v any) Value {
	if v == nil {
		return Null()
	}
	return Value{kind: KindScalar, scalar: v}
}

func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, array: items}
}

func ObjectValue(o Object) Value {
	if o == nil {
		o = Object{}
	}
	return Value{kind: KindObject, object: o}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Scalar returns the scalar payload, or nil for non-scalars.
func (v Value) Scalar() any {
	if v.kind != KindScalar {
		return nil
	}
	return v.scalar
}

func (v Value) Array() ([]Value, bool) {
	return v.array, v.kind == KindArray
}

func (v Value) Object() (Object, bool) {
	return v.object, v.kind == KindObject
}

// AsString returns the scalar as a string when it is one.
func (v Value) AsString() (string, bool) {
	s, ok := v.scalar.(string)
	return s, ok && v.kind == KindScalar
}

// Clone returns a deep copy. Scalars are copied by value.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		items := make([]Value, len(v.array))
		for i, item := range v.array {
			items[i] = item.Clone()
		}
		return Value{kind: KindArray, array: items}
	case KindObject:
		return Value{kind: KindObject, object: v.object.Clone()}
	default:
		return v
	}
}

func (o Object) Clone() Object {
	if o == nil {
		return nil
	}
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = v.Clone()
	}
	return out
}

// Keys returns the object's keys in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Any converts the value back to plain Go data: nil, scalars, []any and
// map[string]any.
func (v Value) Any() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindArray:
		items := make([]any, len(v.array))
		for i, item := range v.array {
			items[i] = item.Any()
		}
		return items
	case KindObject:
		return v.object.Map()
	default:
		return nil
	}
}

func (o Object) Map() map[string]any {
	if o == nil {
		return nil
	}
	out := make(map[string]any, len(o))
	for k, v := range o {
		out[k] = v.Any()
	}
	return out
}

// FromAny converts decoded JSON or BSON data into a Value. Maps with string
// keys become objects, slices and arrays become arrays, everything else is a
// scalar.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case Object:
		return ObjectValue(t)
	case map[string]any:
		return ObjectValue(objectFromMap(t))
	case primitive.M:
		return ObjectValue(objectFromMap(t))
	case primitive.D:
		o := make(Object, len(t))
		for _, e := range t {
			o[e.Key] = FromAny(e.Value)
		}
		return ObjectValue(o)
	case []any:
		return arrayFromSlice(t)
	case primitive.A:
		return arrayFromSlice(t)
	case string, bool, float64, float32, int, int32, int64, json.Number, primitive.ObjectID, primitive.DateTime:
		return Scalar(t)
	}
	return fromReflect(reflect.ValueOf(v))
}

func objectFromMap(m map[string]any) Object {
	o := make(Object, len(m))
	for k, v := range m {
		o[k] = FromAny(v)
	}
	return o
}

func arrayFromSlice(s []any) Value {
	items := make([]Value, len(s))
	for i, item := range s {
		items[i] = FromAny(item)
	}
	return Array(items...)
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Map:
		if rv.IsNil() {
			return Null()
		}
		if rv.Type().Key().Kind() != reflect.String {
			return Scalar(rv.Interface())
		}
		o := make(Object, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			o[iter.Key().String()] = FromAny(iter.Value().Interface())
		}
		return ObjectValue(o)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null()
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Scalar(rv.Interface())
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromAny(rv.Index(i).Interface())
		}
		return Array(items...)
	default:
		return Scalar(rv.Interface())
	}
}

// AsObject converts v into an Object, failing with ErrInvalidArgumentType when
// v is not a mapping.
func AsObject(v any) (Object, error) {
	val := FromAny(v)
	o, ok := val.Object()
	if !ok {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrInvalidArgumentType, val.Kind())
	}
	return o, nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

func (o Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Map())
}

func (o *Object) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	obj, err := AsObject(raw)
	if err != nil {
		return err
	}
	*o = obj
	return nil
}

// MustObject converts a Go literal into an Object and panics on failure. It is
// meant for package-level templates.
func MustObject(m map[string]any) Object {
	o, err := AsObject(m)
	if err != nil {
		panic(err)
	}
	return o
}
