// Package jsoncodec encodes messages as JSON arrays: the kind code followed
// by the declared fields, one array per line.
package jsoncodec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/danmuck/lrpmp/internal/observability"
	"github.com/danmuck/lrpmp/protocol/codec"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/value"
)

const Backend = "json"

// Encoder writes successive messages to w.
type Encoder struct {
	enc *json.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Encoder{enc: enc}
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
	enc   *json.Encoder
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
	dec      *json.Decoder
	registry *kind.Registry
}

func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	d := &Decoder{dec: dec}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start reads the next array. At a clean end of input it returns ErrEOF.
func (d *Decoder) Start() (kind.Kind, codec.FieldDecoder, error) {
	start := time.Now()
	var items []json.RawMessage
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

func (d *Decoder) decodeKind(raw json.RawMessage) (kind.Kind, error) {
	v, err := unmarshal(raw)
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
		return kind.Kind{}, codec.Codecf("kind must be a code or a name, got %s", raw).At(codec.PhaseDecode, "kind")
	}
}

type fieldDecoder struct {
	items    []json.RawMessage
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
	v, err := unmarshal(raw)
	if err != nil {
		return codec.Codec(err).At(codec.PhaseDecode, name)
	}
	return codec.DeliverWith(f.registry, t, value.Classify(v), v, name)
}

// unmarshal decodes one item into the canonical form of value.Normalize.
func unmarshal(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return value.Normalize(v), nil
}

// Classify maps a decoded JSON value onto a basic value. Integral numbers
// up to 255 are U8 and larger unsigned ones U64; other numbers stay Val in
// canonical form.
func Classify(v any) value.Concrete {
	return value.Classify(value.Normalize(v))
}
