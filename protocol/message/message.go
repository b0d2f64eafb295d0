// Package message implements the typed standard messages, the dynamic
// GenericMessage and transmutation between value domains.
//
// Ownership boundary:
// - one struct per standard kind with fields in declared wire order
// - GenericMessage for custom kinds and schema-less handling
// - Transmute, IntoGeneric and IntoStandard
// - RemoteError, the Go error view of an ERROR message
package message

import (
	"github.com/danmuck/lrpmp/protocol/codec"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/value"
)

// Message is implemented by every standard message and GenericMessage.
type Message interface {
	Kind() kind.KnownKind
	Encode(enc codec.Encoder) error
}

// Decodable is implemented by pointers to decodable messages. DecodeFields
// assigns the receiver only when every field decoded.
type Decodable interface {
	DecodeFields(k kind.Kind, fd codec.FieldDecoder) error
}

// StandardMessage is the closed set of the fifteen standard message types.
type StandardMessage interface {
	Message
	standard()
}

// Decode starts dec and decodes one message into a T.
func Decode[T any, PT interface {
	*T
	Decodable
}](dec codec.Decoder) (T, error) {
	var m T
	k, fd, err := dec.Start()
	if err != nil {
		return m, err
	}
	if err := PT(&m).DecodeFields(k, fd); err != nil {
		var zero T
		return zero, err
	}
	return m, nil
}

func encodeStandard(enc codec.Encoder, std kind.StandardKind, fields ...value.BasicValue) error {
	return codec.EncodeAll(enc, kind.Standard(std), std.FieldNames(), fields)
}

func decodeStandard(k kind.Kind, std kind.StandardKind, fd codec.FieldDecoder, targets ...value.Target) error {
	if got, ok := k.Standard(); !ok || got != std {
		return codec.UnexpectedKind(k).At(codec.PhaseDecode, std.Name())
	}
	names := std.FieldNames()
	for i, t := range targets {
		if err := fd.DecodeField(names[i], t); err != nil {
			return codec.Wrap(err).At(codec.PhaseDecode, std.Name())
		}
	}
	return nil
}

// DecodeStandard decodes the next message into its standard struct. Custom
// and unknown kinds fail with ErrUnexpectedKind.
func DecodeStandard(dec codec.Decoder) (StandardMessage, error) {
	k, fd, err := dec.Start()
	if err != nil {
		return nil, err
	}
	return decodeStandardFields(k, fd)
}

func decodeStandardFields(k kind.Kind, fd codec.FieldDecoder) (StandardMessage, error) {
	std, ok := k.Standard()
	if !ok {
		return nil, codec.UnexpectedKind(k).At(codec.PhaseDecode)
	}
	switch std {
	case kind.Goodbye:
		return decodeAs[Goodbye](k, fd)
	case kind.Hello:
		return decodeAs[Hello](k, fd)
	case kind.Prove:
		return decodeAs[Prove](k, fd)
	case kind.Proof:
		return decodeAs[Proof](k, fd)
	case kind.Error:
		return decodeAs[Error](k, fd)
	case kind.Cancel:
		return decodeAs[Cancel](k, fd)
	case kind.Call:
		return decodeAs[Call](k, fd)
	case kind.Result:
		return decodeAs[Result](k, fd)
	case kind.Event:
		return decodeAs[Event](k, fd)
	case kind.Publish:
		return decodeAs[Publish](k, fd)
	case kind.Published:
		return decodeAs[Published](k, fd)
	case kind.Subscribe:
		return decodeAs[Subscribe](k, fd)
	case kind.Subscribed:
		return decodeAs[Subscribed](k, fd)
	case kind.Unsubscribe:
		return decodeAs[Unsubscribe](k, fd)
	case kind.Unsubscribed:
		return decodeAs[Unsubscribed](k, fd)
	default:
		return nil, codec.UnexpectedKind(k).At(codec.PhaseDecode)
	}
}

func decodeAs[T StandardMessage, PT interface {
	*T
	Decodable
}](k kind.Kind, fd codec.FieldDecoder) (StandardMessage, error) {
	var m T
	if err := PT(&m).DecodeFields(k, fd); err != nil {
		return nil, err
	}
	return m, nil
}

// IsStandard reports whether m's kind is a standard kind.
func IsStandard(m Message) bool {
	return m.Kind().IsStandard()
}
