package value

import "fmt"

// Concrete owns exactly one of the five basic payloads.
//
// The zero Concrete is U8(0).
type Concrete struct {
	t BasicType
	n uint64
	s string
	m Map
	v any
}

func U8Of(v uint8) Concrete { return Concrete{t: TypeU8, n: uint64(v)} }

func U64Of(v uint64) Concrete { return Concrete{t: TypeU64, n: v} }

func StrOf(v string) Concrete { return Concrete{t: TypeStr, s: v} }

func MapOf(v Map) Concrete { return Concrete{t: TypeMap, m: v} }

func ValOf(v any) Concrete { return Concrete{t: TypeVal, v: v} }

func (c Concrete) Type() BasicType { return c.t }

// ToConcrete copies the payload of any basic value into a Concrete.
func ToConcrete(v BasicValue) Concrete {
	if c, ok := v.(Concrete); ok {
		return c
	}
	if c, ok := v.(*Concrete); ok {
		return *c
	}
	switch v.Type() {
	case TypeU8:
		return U8Of(v.U8())
	case TypeU64:
		return U64Of(v.U64())
	case TypeStr:
		return StrOf(v.Str())
	case TypeMap:
		return MapOf(v.Map())
	default:
		return ValOf(v.Val())
	}
}

func (c Concrete) U8() uint8 {
	c.assert(TypeU8)
	return uint8(c.n)
}

func (c Concrete) U64() uint64 {
	c.assert(TypeU64)
	return c.n
}

func (c Concrete) Str() string {
	c.assert(TypeStr)
	return c.s
}

func (c Concrete) Map() Map {
	c.assert(TypeMap)
	return c.m
}

func (c Concrete) Val() any {
	c.assert(TypeVal)
	return c.v
}

// Any returns the payload as an untyped Go value.
func (c Concrete) Any() any {
	switch c.t {
	case TypeU8:
		return uint8(c.n)
	case TypeU64:
		return c.n
	case TypeStr:
		return c.s
	case TypeMap:
		return c.m
	default:
		return c.v
	}
}

func (c Concrete) String() string {
	return fmt.Sprintf("%s(%v)", c.t, c.Any())
}

// ExpectedTypes accepts every basic type.
func (c *Concrete) ExpectedTypes() []BasicType {
	return AllTypes()
}

func (c *Concrete) SetBasic(v BasicValue) error {
	*c = ToConcrete(v)
	return nil
}

func (c Concrete) assert(t BasicType) {
	if c.t != t {
		panic(mismatch(t, c.t))
	}
}

// Classify maps an untyped Go value onto a Concrete. Non-negative integers
// up to 255 become U8, larger ones U64, strings Str, string keyed maps Map
// and everything else Val.
func Classify(raw any) Concrete {
	switch x := raw.(type) {
	case uint8:
		return U8Of(x)
	case uint16:
		return classifyUint(uint64(x))
	case uint32:
		return classifyUint(uint64(x))
	case uint64:
		return classifyUint(x)
	case uint:
		return classifyUint(uint64(x))
	case int:
		if x >= 0 {
			return classifyUint(uint64(x))
		}
	case int64:
		if x >= 0 {
			return classifyUint(uint64(x))
		}
	case int32:
		if x >= 0 {
			return classifyUint(uint64(x))
		}
	case string:
		return StrOf(x)
	case map[string]any:
		return MapOf(x)
	}
	return ValOf(raw)
}

func classifyUint(n uint64) Concrete {
	if n <= 0xff {
		return U8Of(uint8(n))
	}
	return U64Of(n)
}
