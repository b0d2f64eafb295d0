package message

import (
	"github.com/danmuck/lrpmp/protocol/codec"
	"github.com/danmuck/lrpmp/protocol/value"
)

// Transmute re-decodes m as a T, moving maps and opaque values through
// conv. Field order and kind are preserved.
func Transmute[T any, PT interface {
	*T
	Decodable
}](m Message, conv value.Converter) (T, error) {
	var zero T
	dec, err := buffer(m, conv)
	if err != nil {
		return zero, err
	}
	return Decode[T, PT](dec)
}

func buffer(m Message, conv value.Converter) (codec.Decoder, error) {
	b := codec.NewBufferEncoder(conv)
	if err := m.Encode(b); err != nil {
		return nil, err
	}
	return b.Decoder()
}

// IntoGeneric views any message as a GenericMessage.
func IntoGeneric(m Message) (GenericMessage, error) {
	if g, ok := m.(GenericMessage); ok {
		return g, nil
	}
	return Transmute[GenericMessage](m, value.Identity)
}

// IntoStandard converts m into its standard struct. Custom kinds fail with
// ErrUnexpectedKind.
func IntoStandard(m Message) (StandardMessage, error) {
	if s, ok := m.(StandardMessage); ok {
		return s, nil
	}
	dec, err := buffer(m, value.Identity)
	if err != nil {
		return nil, err
	}
	return DecodeStandard(dec)
}
