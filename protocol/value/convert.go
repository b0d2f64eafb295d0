package value

// Converter bridges two value domains. ConvertMap and ConvertVal turn a
// source domain map or opaque value into the destination domain.
type Converter interface {
	ConvertMap(m Map) (Map, error)
	ConvertVal(v any) (any, error)
}

// Identity keeps values in their current domain.
var Identity Converter = Funcs{}

// Funcs adapts plain functions to a Converter. A nil function leaves the
// value unchanged.
type Funcs struct {
	Map func(Map) (Map, error)
	Val func(any) (any, error)
}

func (f Funcs) ConvertMap(m Map) (Map, error) {
	if f.Map == nil {
		return m, nil
	}
	return f.Map(m)
}

func (f Funcs) ConvertVal(v any) (any, error) {
	if f.Val == nil {
		return v, nil
	}
	return f.Val(v)
}

// Convert moves v into the destination domain of c. Scalars pass through.
func Convert(v BasicValue, c Converter) (Concrete, error) {
	switch v.Type() {
	case TypeU8:
		return U8Of(v.U8()), nil
	case TypeU64:
		return U64Of(v.U64()), nil
	case TypeStr:
		return StrOf(v.Str()), nil
	case TypeMap:
		m, err := c.ConvertMap(v.Map())
		if err != nil {
			return Concrete{}, err
		}
		return MapOf(m), nil
	case TypeVal:
		x, err := c.ConvertVal(v.Val())
		if err != nil {
			return Concrete{}, err
		}
		return ValOf(x), nil
	default:
		return Concrete{}, Unexpected(AllTypes(), v.Type())
	}
}
