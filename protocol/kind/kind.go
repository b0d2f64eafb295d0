package kind

import (
	"fmt"

	"github.com/danmuck/lrpmp/protocol/value"
)

// Unbounded marks a custom kind without an upper field limit.
const Unbounded = -1

// CustomKind is an application defined kind outside the standard table.
type CustomKind struct {
	Name      string
	Code      uint8
	MinFields int
	MaxFields int
}

// KnownKind is either a standard or a registered custom kind.
type KnownKind struct {
	std    StandardKind
	custom CustomKind
	isCust bool
}

func Standard(k StandardKind) KnownKind { return KnownKind{std: k} }

func Custom(k CustomKind) KnownKind { return KnownKind{custom: k, isCust: true} }

// KnownFromCode resolves standard kinds only.
func KnownFromCode(code uint8) (KnownKind, bool) {
	k, ok := StandardFromCode(code)
	if !ok {
		return KnownKind{}, false
	}
	return Standard(k), true
}

// KnownFromName resolves standard kinds only.
func KnownFromName(name string) (KnownKind, bool) {
	k, ok := StandardFromName(name)
	if !ok {
		return KnownKind{}, false
	}
	return Standard(k), true
}

func (k KnownKind) IsStandard() bool { return !k.isCust }

func (k KnownKind) Standard() (StandardKind, bool) { return k.std, !k.isCust }

func (k KnownKind) Custom() (CustomKind, bool) { return k.custom, k.isCust }

func (k KnownKind) Name() string {
	if k.isCust {
		return k.custom.Name
	}
	return k.std.Name()
}

func (k KnownKind) Code() uint8 {
	if k.isCust {
		return k.custom.Code
	}
	return k.std.Code()
}

func (k KnownKind) FieldCount() (min, max int) {
	if k.isCust {
		return k.custom.MinFields, k.custom.MaxFields
	}
	return k.std.FieldCount()
}

// Accepts reports whether n fields fit the kind's declared range.
func (k KnownKind) Accepts(n int) bool {
	min, max := k.FieldCount()
	return n >= min && (max == Unbounded || n <= max)
}

func (k KnownKind) String() string {
	return k.Name()
}

// UnknownKind is a kind seen on the wire that no table resolves.
type UnknownKind struct {
	name   string
	code   uint8
	byName bool
}

func UnknownCode(code uint8) UnknownKind { return UnknownKind{code: code} }

func UnknownName(name string) UnknownKind { return UnknownKind{name: name, byName: true} }

func (u UnknownKind) Code() (uint8, bool) { return u.code, !u.byName }

func (u UnknownKind) Name() (string, bool) { return u.name, u.byName }

func (u UnknownKind) String() string {
	if u.byName {
		return fmt.Sprintf("unknown(%q)", u.name)
	}
	return fmt.Sprintf("unknown(%d)", u.code)
}

// Kind is the wire level kind: known or unknown. Resolution never fails.
//
// Kind is a basic value: U8 for codes, Str for unknown kinds given by name.
type Kind struct {
	known     KnownKind
	unknown   UnknownKind
	isUnknown bool
}

func Known(k KnownKind) Kind { return Kind{known: k} }

func Unknown(u UnknownKind) Kind { return Kind{unknown: u, isUnknown: true} }

// FromCode resolves a standard kind by code, else an unknown kind.
func FromCode(code uint8) Kind {
	if k, ok := KnownFromCode(code); ok {
		return Known(k)
	}
	return Unknown(UnknownCode(code))
}

// FromName resolves a standard kind by name, else an unknown kind.
func FromName(name string) Kind {
	if k, ok := KnownFromName(name); ok {
		return Known(k)
	}
	return Unknown(UnknownName(name))
}

func (k Kind) Known() (KnownKind, bool) { return k.known, !k.isUnknown }

func (k Kind) Unknown() (UnknownKind, bool) { return k.unknown, k.isUnknown }

// Standard returns the standard kind when k resolved to one.
func (k Kind) Standard() (StandardKind, bool) {
	if k.isUnknown {
		return 0, false
	}
	return k.known.Standard()
}

func (k Kind) String() string {
	if k.isUnknown {
		return k.unknown.String()
	}
	return k.known.String()
}

func (k Kind) Type() value.BasicType {
	if k.isUnknown && k.unknown.byName {
		return value.TypeStr
	}
	return value.TypeU8
}

func (k Kind) U8() uint8 {
	switch {
	case !k.isUnknown:
		return k.known.Code()
	case !k.unknown.byName:
		return k.unknown.code
	default:
		panic(value.Unexpected([]value.BasicType{value.TypeU8}, value.TypeStr))
	}
}

func (k Kind) Str() string {
	if k.isUnknown && k.unknown.byName {
		return k.unknown.name
	}
	panic(value.Unexpected([]value.BasicType{value.TypeStr}, value.TypeU8))
}

func (k Kind) U64() uint64 {
	panic(value.Unexpected([]value.BasicType{value.TypeU64}, k.Type()))
}

func (k Kind) Map() value.Map {
	panic(value.Unexpected([]value.BasicType{value.TypeMap}, k.Type()))
}

func (k Kind) Val() any {
	panic(value.Unexpected([]value.BasicType{value.TypeVal}, k.Type()))
}

func (k *Kind) ExpectedTypes() []value.BasicType {
	return []value.BasicType{value.TypeU8, value.TypeStr}
}

func (k *Kind) SetBasic(v value.BasicValue) error {
	switch v.Type() {
	case value.TypeU8:
		*k = FromCode(v.U8())
		return nil
	case value.TypeStr:
		*k = FromName(v.Str())
		return nil
	case value.TypeU64, value.TypeMap, value.TypeVal:
		return value.Unexpected(k.ExpectedTypes(), v.Type())
	default:
		return value.Unexpected(k.ExpectedTypes(), v.Type())
	}
}
