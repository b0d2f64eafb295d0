// Package codec defines the contract between messages and wire formats.
//
// Ownership boundary:
// - Encoder/FieldEncoder and Decoder/FieldDecoder lifecycles
// - the closed Error taxonomy shared by every backend
// - the in-memory array backend used by transmutation
//
// A message is encoded by Start(kind), one EncodeField per declared field
// in order, then End. Decoding mirrors it: Start yields the kind and a
// FieldDecoder popping one field per DecodeField call. Field names are hints
// for error paths; fields are positional.
package codec

import (
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/value"
)

type Encoder interface {
	Start(k kind.KnownKind) (FieldEncoder, error)
}

type FieldEncoder interface {
	EncodeField(name string, v value.BasicValue) error
	End() error
}

type Decoder interface {
	Start() (kind.Kind, FieldDecoder, error)
}

type FieldDecoder interface {
	// Remaining reports the fields left when the backend knows the count.
	Remaining() (int, bool)
	// DecodeField pops exactly one field into t. It returns ErrEOF when
	// no field remains.
	DecodeField(name string, t value.Target) error
}

// Field decodes the next field into a fresh T.
func Field[T any, PT interface {
	*T
	value.Target
}](d FieldDecoder, name string) (T, error) {
	var v T
	if err := d.DecodeField(name, PT(&v)); err != nil {
		return v, err
	}
	return v, nil
}

// IsRaw reports whether t takes the backend's raw wire value instead of a
// classified one. That holds for targets whose only expected type is Val.
func IsRaw(t value.Target) bool {
	types := t.ExpectedTypes()
	return len(types) == 1 && types[0] == value.TypeVal
}

// Deliver hands one decoded wire value to t. classified is the backend's
// classification of raw. Errors are mapped into the taxonomy with name as
// path.
func Deliver(t value.Target, classified value.Concrete, raw any, name string) error {
	var err error
	if IsRaw(t) {
		err = t.SetBasic(value.ValOf(raw))
	} else {
		err = value.Into(classified, t)
	}
	if err != nil {
		return Wrap(err).decoding(name)
	}
	return nil
}

// DeliverWith is Deliver followed by resolving a Kind target against r, so
// a field naming a custom kind decodes known.
func DeliverWith(r *kind.Registry, t value.Target, classified value.Concrete, raw any, name string) error {
	if err := Deliver(t, classified, raw, name); err != nil {
		return err
	}
	if k, ok := t.(*kind.Kind); ok {
		*k = r.Resolve(*k)
	}
	return nil
}

// EncodeAll starts k on enc, writes fields in order and ends the message.
func EncodeAll(enc Encoder, k kind.KnownKind, names []string, fields []value.BasicValue) error {
	fe, err := enc.Start(k)
	if err != nil {
		return err
	}
	for i, f := range fields {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		if err := fe.EncodeField(name, f); err != nil {
			return err
		}
	}
	return fe.End()
}

// Native projects v onto the plain Go value a backend serializes. Nil maps
// become empty maps.
func Native(v value.BasicValue) any {
	switch v.Type() {
	case value.TypeU8:
		return v.U8()
	case value.TypeU64:
		return v.U64()
	case value.TypeStr:
		return v.Str()
	case value.TypeMap:
		m := v.Map()
		if m == nil {
			return value.Map{}
		}
		return m
	default:
		return v.Val()
	}
}
