// Package value owns the basic value model every protocol field reduces to.
//
// Ownership boundary:
// - the five basic types and the BasicValue projection contract
// - Concrete, the owned one-of-five container for fields of unknown static type
// - Target, the conversion contract implemented by field types
// - Converter, the value domain bridge used by transmutation
package value

import (
	"fmt"
	"reflect"
)

// BasicType discriminates the five basic values.
type BasicType uint8

const (
	TypeU8 BasicType = iota
	TypeU64
	TypeStr
	TypeMap
	TypeVal
)

var allTypes = [...]BasicType{TypeU8, TypeU64, TypeStr, TypeMap, TypeVal}

// AllTypes lists every basic type in discriminant order. Each call returns
// a fresh slice.
func AllTypes() []BasicType {
	out := allTypes
	return out[:]
}

// String returns the type name.
func (t BasicType) String() string {
	switch t {
	case TypeU8:
		return "u8"
	case TypeU64:
		return "u64"
	case TypeStr:
		return "str"
	case TypeMap:
		return "map"
	case TypeVal:
		return "val"
	default:
		return fmt.Sprintf("basic_type(%d)", uint8(t))
	}
}

// Map is a string keyed map holding values of one value domain.
type Map = map[string]any

// BasicValue is implemented by every field carrying type.
//
// Projections panic with *UnexpectedType when called for a type other than
// the one reported by Type. Use the Try helpers for recoverable access.
type BasicValue interface {
	Type() BasicType
	U8() uint8
	U64() uint64
	Str() string
	Map() Map
	Val() any
}

// Target is implemented by types decodable from a basic value.
//
// SetBasic switches over the reported type and must return *UnexpectedType
// for every type it does not accept.
type Target interface {
	ExpectedTypes() []BasicType
	SetBasic(v BasicValue) error
}

// Into converts v into t after checking t accepts v's type.
func Into(v BasicValue, t Target) error {
	if err := Expect(v, t.ExpectedTypes()...); err != nil {
		return err
	}
	return t.SetBasic(v)
}

// Expect returns *UnexpectedType unless v's type is one of expected.
func Expect(v BasicValue, expected ...BasicType) error {
	actual := v.Type()
	for _, t := range expected {
		if t == actual {
			return nil
		}
	}
	return Unexpected(expected, actual)
}

func TryU8(v BasicValue) (uint8, error) {
	if err := Expect(v, TypeU8); err != nil {
		return 0, err
	}
	return v.U8(), nil
}

func TryU64(v BasicValue) (uint64, error) {
	if err := Expect(v, TypeU64); err != nil {
		return 0, err
	}
	return v.U64(), nil
}

func TryStr(v BasicValue) (string, error) {
	if err := Expect(v, TypeStr); err != nil {
		return "", err
	}
	return v.Str(), nil
}

func TryMap(v BasicValue) (Map, error) {
	if err := Expect(v, TypeMap); err != nil {
		return nil, err
	}
	return v.Map(), nil
}

func TryVal(v BasicValue) (any, error) {
	if err := Expect(v, TypeVal); err != nil {
		return nil, err
	}
	return v.Val(), nil
}

// Equal reports whether a and b have the same type and payload.
func Equal(a, b BasicValue) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch a.Type() {
	case TypeU8:
		return a.U8() == b.U8()
	case TypeU64:
		return a.U64() == b.U64()
	case TypeStr:
		return a.Str() == b.Str()
	case TypeMap:
		return reflect.DeepEqual(a.Map(), b.Map())
	case TypeVal:
		return reflect.DeepEqual(a.Val(), b.Val())
	default:
		return false
	}
}
