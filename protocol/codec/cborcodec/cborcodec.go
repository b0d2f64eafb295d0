// Package cborcodec encodes messages as CBOR arrays: the kind code followed
// by the declared fields. Map keys are written in canonical order.
package cborcodec

import (
	"errors"
	"io"
	"reflect"
	"time"

	"github.com/danmuck/lrpmp/internal/observability"
	"github.com/danmuck/lrpmp/protocol/codec"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/value"
	"github.com/fxamacker/cbor/v2"
)

const Backend = "cbor"

var (
	encMode cbor.EncMode
	// mapMode decodes string keyed maps as value.Map; anyMode accepts
	// every map and is the fallback for maps with other key types.
	mapMode cbor.DecMode
	anyMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if mapMode, err = (cbor.DecOptions{DefaultMapType: reflect.TypeOf(value.Map(nil))}).DecMode(); err != nil {
		panic(err)
	}
	if anyMode, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic(err)
	}
}

// Marshal writes v in canonical CBOR.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes one CBOR item, preferring string keyed maps. The result
// is in the canonical form of value.Normalize.
func Unmarshal(b []byte) (any, error) {
	var v any
	if err := mapMode.Unmarshal(b, &v); err == nil {
		return value.Normalize(v), nil
	}
	v = nil
	if err := anyMode.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return value.Normalize(v), nil
}

// Encoder writes successive messages to w.
type Encoder struct {
	enc *cbor.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: encMode.NewEncoder(w)}
}

func (e *Encoder) Start(k kind.KnownKind) (codec.FieldEncoder, error) {
	return &fieldEncoder{
		enc:   e.enc,
		kind:  k,
		items: []any{k.Code()},
		start: time.Now(),
	}, nil
}

type fieldEncoder struct {
	enc   *cbor.Encoder
	kind  kind.KnownKind
	items []any
	start time.Time
}

func (f *fieldEncoder) EncodeField(_ string, v value.BasicValue) error {
	f.items = append(f.items, codec.Native(v))
	return nil
}

func (f *fieldEncoder) End() error {
	if err := f.enc.Encode(f.items); err != nil {
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

// Decoder reads successive messages from r.
type Decoder struct {
	dec      *cbor.Decoder
	registry *kind.Registry
}

func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{dec: anyMode.NewDecoder(r)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start reads the next array. At a clean end of input it returns ErrEOF.
func (d *Decoder) Start() (kind.Kind, codec.FieldDecoder, error) {
	start := time.Now()
	var items []cbor.RawMessage
	if err := d.dec.Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			observability.RecordCodec(Backend, observability.OpDecode, "", observability.OutcomeEOF, start)
			return kind.Kind{}, nil, codec.EOF().At(codec.PhaseDecode)
		}
		observability.RecordCodec(Backend, observability.OpDecode, "", observability.OutcomeError, start)
		return kind.Kind{}, nil, codec.Codec(err).At(codec.PhaseDecode)
	}
	if len(items) == 0 {
		observability.RecordCodec(Backend, observability.OpDecode, "", observability.OutcomeError, start)
		return kind.Kind{}, nil, codec.Codecf("empty message array").At(codec.PhaseDecode)
	}
	k, err := d.decodeKind(items[0])
	if err != nil {
		observability.RecordCodec(Backend, observability.OpDecode, "", observability.OutcomeError, start)
		return kind.Kind{}, nil, err
	}
	observability.RecordCodec(Backend, observability.OpDecode, k.String(), observability.OutcomeOK, start)
	return k, &fieldDecoder{items: items[1:], registry: d.registry}, nil
}

func (d *Decoder) decodeKind(raw cbor.RawMessage) (kind.Kind, error) {
	v, err := Unmarshal(raw)
	if err != nil {
		return kind.Kind{}, codec.Codec(err).At(codec.PhaseDecode, "kind")
	}
	c := value.Classify(v)
	switch c.Type() {
	case value.TypeU8:
		return d.registry.FromCode(c.U8()), nil
	case value.TypeStr:
		return d.registry.FromName(c.Str()), nil
	default:
		return kind.Kind{}, codec.Codecf("kind must be a code or a name, got %s", c.Type()).At(codec.PhaseDecode, "kind")
	}
}

type fieldDecoder struct {
	items    []cbor.RawMessage
	registry *kind.Registry
}

func (f *fieldDecoder) Remaining() (int, bool) {
	return len(f.items), true
}

func (f *fieldDecoder) DecodeField(name string, t value.Target) error {
	if len(f.items) == 0 {
		return codec.EOF().At(codec.PhaseDecode, name)
	}
	raw := f.items[0]
	f.items = f.items[1:]
	v, err := Unmarshal(raw)
	if err != nil {
		return codec.Codec(err).At(codec.PhaseDecode, name)
	}
	return codec.DeliverWith(f.registry, t, value.Classify(v), v, name)
}
