package message

import (
	"errors"

	"github.com/danmuck/lrpmp/protocol/codec"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/value"
)

// GenericMessage holds any known kind with its fields as concrete values in
// wire order. It carries custom kinds and messages handled without a schema.
type GenericMessage struct {
	kind   kind.KnownKind
	fields []value.Concrete
}

func NewGeneric(k kind.KnownKind, fields ...value.BasicValue) GenericMessage {
	out := make([]value.Concrete, len(fields))
	for i, f := range fields {
		out[i] = value.ToConcrete(f)
	}
	return GenericMessage{kind: k, fields: out}
}

func (m GenericMessage) Kind() kind.KnownKind { return m.kind }

func (m GenericMessage) Len() int { return len(m.fields) }

func (m GenericMessage) Field(i int) value.Concrete { return m.fields[i] }

// Fields returns the fields as basic values.
func (m GenericMessage) Fields() []value.BasicValue {
	out := make([]value.BasicValue, len(m.fields))
	for i, f := range m.fields {
		out[i] = f
	}
	return out
}

// Equal compares kinds and fields deeply.
func (m GenericMessage) Equal(o GenericMessage) bool {
	if m.kind != o.kind || len(m.fields) != len(o.fields) {
		return false
	}
	for i := range m.fields {
		if !value.Equal(m.fields[i], o.fields[i]) {
			return false
		}
	}
	return true
}

func (m GenericMessage) Encode(enc codec.Encoder) error {
	var names []string
	if std, ok := m.kind.Standard(); ok {
		names = std.FieldNames()
	}
	return codec.EncodeAll(enc, m.kind, names, m.Fields())
}

// DecodeFields reads fields until the decoder reports none remain. A
// decoder without a count hint ends the message with ErrEOF.
func (m *GenericMessage) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	known, ok := k.Known()
	if !ok {
		return codec.UnexpectedKind(k).At(codec.PhaseDecode)
	}
	n, hinted := fd.Remaining()
	fields := make([]value.Concrete, 0, n)
	for {
		if n, hinted = fd.Remaining(); hinted && n == 0 {
			break
		}
		var c value.Concrete
		if err := fd.DecodeField("", &c); err != nil {
			if !hinted && errors.Is(err, codec.ErrEOF) {
				break
			}
			return codec.Wrap(err).At(codec.PhaseDecode, known.Name())
		}
		fields = append(fields, c)
	}
	*m = GenericMessage{kind: known, fields: fields}
	return nil
}

// DecodeGeneric decodes the next message of any known kind.
func DecodeGeneric(dec codec.Decoder) (GenericMessage, error) {
	return Decode[GenericMessage](dec)
}
