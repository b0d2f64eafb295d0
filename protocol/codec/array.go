package codec

import (
	"slices"

	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/value"
)

// ArrayFieldDecoder pops fields from an in-memory slice.
type ArrayFieldDecoder struct {
	fields   []value.Concrete
	pos      int
	registry *kind.Registry
}

func NewArrayFieldDecoder(fields []value.Concrete) *ArrayFieldDecoder {
	return &ArrayFieldDecoder{fields: fields}
}

func (d *ArrayFieldDecoder) Remaining() (int, bool) {
	return len(d.fields) - d.pos, true
}

func (d *ArrayFieldDecoder) DecodeField(name string, t value.Target) error {
	if d.pos >= len(d.fields) {
		return EOF().decoding(name)
	}
	c := d.fields[d.pos]
	d.pos++
	return DeliverWith(d.registry, t, c, c.Any(), name)
}

// KindDecoder is a Decoder whose kind was resolved ahead of time.
type KindDecoder struct {
	Kind    kind.Kind
	Fields  FieldDecoder
	started bool
}

// NewArrayDecoder decodes one message of kind k from fields.
func NewArrayDecoder(k kind.KnownKind, fields []value.Concrete) *KindDecoder {
	return &KindDecoder{Kind: kind.Known(k), Fields: NewArrayFieldDecoder(fields)}
}

// Start yields the kind once. Later calls return ErrEOF.
func (d *KindDecoder) Start() (kind.Kind, FieldDecoder, error) {
	if d.started {
		return kind.Kind{}, nil, EOF().At(PhaseDecode)
	}
	d.started = true
	return d.Kind, d.Fields, nil
}

// BufferEncoder records one message as concrete values, converting each
// field through Converter. It backs transmutation between value domains.
type BufferEncoder struct {
	Converter value.Converter

	kind    kind.KnownKind
	fields  []value.Concrete
	customs []kind.CustomKind
	state   bufferState
}

type bufferState uint8

const (
	bufferIdle bufferState = iota
	bufferOpen
	bufferDone
)

func NewBufferEncoder(conv value.Converter) *BufferEncoder {
	if conv == nil {
		conv = value.Identity
	}
	return &BufferEncoder{Converter: conv}
}

func (b *BufferEncoder) Start(k kind.KnownKind) (FieldEncoder, error) {
	if b.state != bufferIdle {
		return nil, Custom("buffer encoder already holds a message").At(PhaseEncode, k.Name())
	}
	b.kind = k
	b.state = bufferOpen
	return bufferFields{b}, nil
}

type bufferFields struct {
	b *BufferEncoder
}

func (f bufferFields) EncodeField(name string, v value.BasicValue) error {
	if f.b.state != bufferOpen {
		return Custom("buffer encoder message already ended").At(PhaseEncode, f.b.kind.Name(), name)
	}
	c, err := value.Convert(v, f.b.Converter)
	if err != nil {
		return Wrap(err).At(PhaseEncode, f.b.kind.Name(), name)
	}
	f.b.fields = append(f.b.fields, c)
	f.b.noteCustom(v)
	return nil
}

func (f bufferFields) End() error {
	f.b.state = bufferDone
	return nil
}

// noteCustom remembers custom kinds carried by Kind fields so the replay
// resolves them again.
func (b *BufferEncoder) noteCustom(v value.BasicValue) {
	k, ok := v.(kind.Kind)
	if !ok {
		return
	}
	known, ok := k.Known()
	if !ok {
		return
	}
	c, ok := known.Custom()
	if !ok || slices.Contains(b.customs, c) {
		return
	}
	b.customs = append(b.customs, c)
}

// Kind returns the kind of the buffered message.
func (b *BufferEncoder) Kind() kind.KnownKind { return b.kind }

// Fields returns the buffered fields.
func (b *BufferEncoder) Fields() []value.Concrete { return b.fields }

// Decoder replays the buffered message. It fails unless End was called.
func (b *BufferEncoder) Decoder() (*KindDecoder, error) {
	if b.state != bufferDone {
		return nil, Custom("buffer encoder has no complete message").At(PhaseDecode)
	}
	fields := NewArrayFieldDecoder(b.fields)
	if len(b.customs) > 0 {
		r, err := kind.NewRegistry(b.customs...)
		if err != nil {
			return nil, Custom(err.Error()).At(PhaseDecode, b.kind.Name())
		}
		fields.registry = r
	}
	return &KindDecoder{Kind: kind.Known(b.kind), Fields: fields}, nil
}
