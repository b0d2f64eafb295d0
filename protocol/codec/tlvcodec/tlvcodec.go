// Package tlvcodec encodes messages as TLV payloads. Field 0 carries the
// kind code and field i the i-th message field; scalars use native TLV
// types and maps or opaque values carry canonical CBOR. On a stream every
// payload is prefixed with its big endian uint32 length.
package tlvcodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/danmuck/lrpmp/internal/observability"
	"github.com/danmuck/lrpmp/protocol/codec"
	"github.com/danmuck/lrpmp/protocol/codec/cborcodec"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/value"
)

const (
	Backend = "tlv"

	DefaultMaxMessageBytes = 8 * 1024 * 1024
)

var ErrMessageTooLarge = errors.New("tlv: message too large")

// EncodeValue converts one basic value into a TLV field.
func EncodeValue(id uint16, v value.BasicValue) (Field, error) {
	switch v.Type() {
	case value.TypeU8:
		return Field{ID: id, Type: TypeU8, Value: []byte{v.U8()}}, nil
	case value.TypeU64:
		return Field{ID: id, Type: TypeU64, Value: U64Bytes(v.U64())}, nil
	case value.TypeStr:
		return Field{ID: id, Type: TypeString, Value: []byte(v.Str())}, nil
	case value.TypeMap:
		b, err := cborcodec.Marshal(codec.Native(v))
		if err != nil {
			return Field{}, err
		}
		return Field{ID: id, Type: TypeMap, Value: b}, nil
	case value.TypeVal:
		b, err := cborcodec.Marshal(v.Val())
		if err != nil {
			return Field{}, err
		}
		return Field{ID: id, Type: TypeVal, Value: b}, nil
	default:
		return Field{}, value.Unexpected(value.AllTypes(), v.Type())
	}
}

// DecodeValue returns the classification and the raw value of f.
func DecodeValue(f Field) (value.Concrete, any, error) {
	switch f.Type {
	case TypeU8:
		if len(f.Value) != 1 {
			return value.Concrete{}, nil, fmt.Errorf("tlv: invalid u8 length: %d", len(f.Value))
		}
		return value.U8Of(f.Value[0]), uint64(f.Value[0]), nil
	case TypeU64:
		n, err := U64FromBytes(f.Value)
		if err != nil {
			return value.Concrete{}, nil, err
		}
		return value.U64Of(n), n, nil
	case TypeString:
		s := string(f.Value)
		return value.StrOf(s), s, nil
	case TypeMap:
		v, err := cborcodec.Unmarshal(f.Value)
		if err != nil {
			return value.Concrete{}, nil, err
		}
		m, ok := v.(value.Map)
		if !ok {
			return value.Concrete{}, nil, fmt.Errorf("tlv: field %d is not a string keyed map", f.ID)
		}
		return value.MapOf(m), m, nil
	case TypeVal:
		v, err := cborcodec.Unmarshal(f.Value)
		if err != nil {
			return value.Concrete{}, nil, err
		}
		return value.ValOf(v), v, nil
	default:
		return value.Concrete{}, nil, fmt.Errorf("tlv: field %d has unknown type %d", f.ID, f.Type)
	}
}

// Encoder writes successive length prefixed payloads to w.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Start(k kind.KnownKind) (codec.FieldEncoder, error) {
	return &fieldEncoder{
		w:      e.w,
		kind:   k,
		fields: []Field{{ID: 0, Type: TypeU8, Value: []byte{k.Code()}}},
		start:  time.Now(),
	}, nil
}

type fieldEncoder struct {
	w      io.Writer
	kind   kind.KnownKind
	fields []Field
	start  time.Time
}

func (f *fieldEncoder) EncodeField(name string, v value.BasicValue) error {
	if len(f.fields) > math.MaxUint16 {
		return codec.Codecf("field id %d exceeds %d", len(f.fields), math.MaxUint16).At(codec.PhaseEncode, f.kind.Name(), name)
	}
	field, err := EncodeValue(uint16(len(f.fields)), v)
	if err != nil {
		return codec.Wrap(err).At(codec.PhaseEncode, f.kind.Name(), name)
	}
	f.fields = append(f.fields, field)
	return nil
}

func (f *fieldEncoder) End() error {
	payload := EncodeFields(f.fields)
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := f.w.Write(append(prefix[:], payload...)); err != nil {
		observability.RecordCodec(Backend, observability.OpEncode, f.kind.Name(), observability.OutcomeError, f.start)
		return codec.Codec(err).At(codec.PhaseEncode, f.kind.Name())
	}
	observability.RecordCodec(Backend, observability.OpEncode, f.kind.Name(), observability.OutcomeOK, f.start)
	return nil
}

type Option func(*Decoder)

// WithRegistry resolves custom kinds through r.
func WithRegistry(r *kind.Registry) Option {
	return func(d *Decoder) { d.registry = r }
}

// WithMaxMessageBytes bounds a single payload.
func WithMaxMessageBytes(n uint32) Option {
	return func(d *Decoder) { d.maxBytes = n }
}

// Decoder reads successive length prefixed payloads from r.
type Decoder struct {
	r        io.Reader
	registry *kind.Registry
	maxBytes uint32
}

func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{r: r, maxBytes: DefaultMaxMessageBytes}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Decoder) Start() (kind.Kind, codec.FieldDecoder, error) {
	start := time.Now()
	k, fd, err := d.start()
	switch {
	case err == nil:
		observability.RecordCodec(Backend, observability.OpDecode, k.String(), observability.OutcomeOK, start)
		return k, fd, nil
	case errors.Is(err, codec.ErrEOF):
		observability.RecordCodec(Backend, observability.OpDecode, "", observability.OutcomeEOF, start)
	default:
		observability.RecordCodec(Backend, observability.OpDecode, "", observability.OutcomeError, start)
	}
	return kind.Kind{}, nil, err
}

func (d *Decoder) start() (kind.Kind, codec.FieldDecoder, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(d.r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return kind.Kind{}, nil, codec.EOF().At(codec.PhaseDecode)
		}
		return kind.Kind{}, nil, codec.Codec(err).At(codec.PhaseDecode)
	}
	n := binary.BigEndian.Uint32(prefix[:])
	if n > d.maxBytes {
		return kind.Kind{}, nil, codec.Codec(ErrMessageTooLarge).At(codec.PhaseDecode)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(d.r, payload); err != nil {
		return kind.Kind{}, nil, codec.Codec(err).At(codec.PhaseDecode)
	}
	return DecodePayload(payload, d.registry)
}

// DecodePayload decodes one unprefixed payload.
func DecodePayload(payload []byte, r *kind.Registry) (kind.Kind, codec.FieldDecoder, error) {
	fields, err := DecodeFields(payload)
	if err != nil {
		return kind.Kind{}, nil, codec.Codec(err).At(codec.PhaseDecode)
	}
	if len(fields) == 0 {
		return kind.Kind{}, nil, codec.Codecf("empty payload").At(codec.PhaseDecode)
	}
	head := fields[0]
	if err := MustType(head, TypeU8, TypeString); err != nil {
		return kind.Kind{}, nil, codec.Codec(err).At(codec.PhaseDecode, "kind")
	}
	var k kind.Kind
	if head.Type == TypeString {
		k = r.FromName(string(head.Value))
	} else {
		if len(head.Value) != 1 {
			return kind.Kind{}, nil, codec.Codecf("invalid kind length %d", len(head.Value)).At(codec.PhaseDecode, "kind")
		}
		k = r.FromCode(head.Value[0])
	}
	return k, &fieldDecoder{fields: fields[1:], registry: r}, nil
}

type fieldDecoder struct {
	fields   []Field
	registry *kind.Registry
}

func (f *fieldDecoder) Remaining() (int, bool) {
	return len(f.fields), true
}

func (f *fieldDecoder) DecodeField(name string, t value.Target) error {
	if len(f.fields) == 0 {
		return codec.EOF().At(codec.PhaseDecode, name)
	}
	field := f.fields[0]
	f.fields = f.fields[1:]
	c, raw, err := DecodeValue(field)
	if err != nil {
		return codec.Codec(err).At(codec.PhaseDecode, name)
	}
	return codec.DeliverWith(f.registry, t, c, raw, name)
}
