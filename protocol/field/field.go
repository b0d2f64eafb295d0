// Package field holds the Id, Meta and Body field types shared by every
// message kind.
package field

import (
	"fmt"
	"maps"

	"github.com/danmuck/lrpmp/protocol/value"
)

// ID identifies a request, publication or subscription.
type ID uint64

func (id ID) Type() value.BasicType { return value.TypeU64 }
func (id ID) U64() uint64           { return uint64(id) }
func (id ID) U8() uint8             { panic(value.Unexpected([]value.BasicType{value.TypeU8}, value.TypeU64)) }
func (id ID) Str() string           { panic(value.Unexpected([]value.BasicType{value.TypeStr}, value.TypeU64)) }
func (id ID) Map() value.Map        { panic(value.Unexpected([]value.BasicType{value.TypeMap}, value.TypeU64)) }
func (id ID) Val() any              { panic(value.Unexpected([]value.BasicType{value.TypeVal}, value.TypeU64)) }

func (id ID) String() string { return fmt.Sprintf("%d", uint64(id)) }

// ExpectedTypes accepts U8 as well since small ids classify as U8 on the wire.
func (id *ID) ExpectedTypes() []value.BasicType {
	return []value.BasicType{value.TypeU8, value.TypeU64}
}

func (id *ID) SetBasic(v value.BasicValue) error {
	switch v.Type() {
	case value.TypeU8:
		*id = ID(v.U8())
		return nil
	case value.TypeU64:
		*id = ID(v.U64())
		return nil
	case value.TypeStr, value.TypeMap, value.TypeVal:
		return value.Unexpected(id.ExpectedTypes(), v.Type())
	default:
		return value.Unexpected(id.ExpectedTypes(), v.Type())
	}
}

// Meta is the trailing metadata map of every message. The zero Meta is
// empty and encodes as an empty map. Values are held in the canonical form
// of value.Normalize.
type Meta struct {
	value.MapOnly
	m value.Map
}

func NewMeta(m value.Map) Meta { return Meta{m: value.NormalizeMap(m)} }

// Map never returns nil.
func (m Meta) Map() value.Map {
	if m.m == nil {
		return value.Map{}
	}
	return m.m
}

func (m Meta) Get(key string) (any, bool) {
	v, ok := m.m[key]
	return v, ok
}

func (m Meta) Len() int { return len(m.m) }

// With returns a copy of m with key set to v.
func (m Meta) With(key string, v any) Meta {
	out := make(value.Map, len(m.m)+1)
	maps.Copy(out, m.m)
	out[key] = value.Normalize(v)
	return Meta{m: out}
}

func (m *Meta) ExpectedTypes() []value.BasicType {
	return []value.BasicType{value.TypeMap}
}

func (m *Meta) SetBasic(v value.BasicValue) error {
	switch v.Type() {
	case value.TypeMap:
		*m = NewMeta(v.Map())
		return nil
	case value.TypeU8, value.TypeU64, value.TypeStr, value.TypeVal:
		return value.Unexpected(m.ExpectedTypes(), v.Type())
	default:
		return value.Unexpected(m.ExpectedTypes(), v.Type())
	}
}

// Body is a single opaque application value. Decoders hand it the raw wire
// value rather than a classification, normalized like Meta values.
type Body struct {
	value.ValOnly
	v any
}

func NewBody(v any) Body { return Body{v: value.Normalize(v)} }

func (b Body) Val() any   { return b.v }
func (b Body) Value() any { return b.v }

func (b *Body) ExpectedTypes() []value.BasicType {
	return []value.BasicType{value.TypeVal}
}

func (b *Body) SetBasic(v value.BasicValue) error {
	switch v.Type() {
	case value.TypeVal:
		*b = NewBody(v.Val())
		return nil
	case value.TypeU8, value.TypeU64, value.TypeStr, value.TypeMap:
		return value.Unexpected(b.ExpectedTypes(), v.Type())
	default:
		return value.Unexpected(b.ExpectedTypes(), v.Type())
	}
}
