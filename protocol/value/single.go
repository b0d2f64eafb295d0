package value

// The Only types are embedded by field types that always report one basic
// type. They supply Type and panic for every other projection; the embedding
// type implements the projection matching its type.

type StrOnly struct{}

func (StrOnly) Type() BasicType { return TypeStr }
func (StrOnly) U8() uint8       { panic(mismatch(TypeU8, TypeStr)) }
func (StrOnly) U64() uint64     { panic(mismatch(TypeU64, TypeStr)) }
func (StrOnly) Map() Map        { panic(mismatch(TypeMap, TypeStr)) }
func (StrOnly) Val() any        { panic(mismatch(TypeVal, TypeStr)) }

type MapOnly struct{}

func (MapOnly) Type() BasicType { return TypeMap }
func (MapOnly) U8() uint8       { panic(mismatch(TypeU8, TypeMap)) }
func (MapOnly) U64() uint64     { panic(mismatch(TypeU64, TypeMap)) }
func (MapOnly) Str() string     { panic(mismatch(TypeStr, TypeMap)) }
func (MapOnly) Val() any        { panic(mismatch(TypeVal, TypeMap)) }

type ValOnly struct{}

func (ValOnly) Type() BasicType { return TypeVal }
func (ValOnly) U8() uint8       { panic(mismatch(TypeU8, TypeVal)) }
func (ValOnly) U64() uint64     { panic(mismatch(TypeU64, TypeVal)) }
func (ValOnly) Str() string     { panic(mismatch(TypeStr, TypeVal)) }
func (ValOnly) Map() Map        { panic(mismatch(TypeMap, TypeVal)) }
