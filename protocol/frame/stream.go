package frame

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/danmuck/lrpmp/internal/logging"
	"github.com/danmuck/lrpmp/internal/observability"
	"github.com/danmuck/lrpmp/protocol/codec"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/value"
	"github.com/klauspost/compress/zstd"
)

// NewEncoderFunc builds a backend encoder writing one message to w.
type NewEncoderFunc func(w io.Writer) codec.Encoder

// NewDecoderFunc builds a backend decoder reading one message from r.
type NewDecoderFunc func(r io.Reader) codec.Decoder

type WriterOption func(*Writer)

func WithWriteLimits(l Limits) WriterOption {
	return func(w *Writer) { w.limits = l }
}

// WithCompression zstd compresses every payload.
func WithCompression() WriterOption {
	return func(w *Writer) { w.compress = true }
}

// Writer is a codec.Encoder emitting one frame per message. Message ids
// increase monotonically from 1.
type Writer struct {
	w        io.Writer
	newEnc   NewEncoderFunc
	limits   Limits
	compress bool
	zenc     *zstd.Encoder
	nextID   atomic.Uint64
}

func NewWriter(w io.Writer, newEnc NewEncoderFunc, opts ...WriterOption) (*Writer, error) {
	fw := &Writer{w: w, newEnc: newEnc, limits: DefaultLimits()}
	for _, opt := range opts {
		opt(fw)
	}
	if fw.compress {
		zenc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("frame: zstd encoder: %w", err)
		}
		fw.zenc = zenc
	}
	return fw, nil
}

func (w *Writer) Start(k kind.KnownKind) (codec.FieldEncoder, error) {
	buf := &bytes.Buffer{}
	fe, err := w.newEnc(buf).Start(k)
	if err != nil {
		return nil, err
	}
	return &frameFields{w: w, kind: k, buf: buf, inner: fe}, nil
}

// Close releases the compressor.
func (w *Writer) Close() error {
	if w.zenc != nil {
		return w.zenc.Close()
	}
	return nil
}

type frameFields struct {
	w     *Writer
	kind  kind.KnownKind
	buf   *bytes.Buffer
	inner codec.FieldEncoder
}

func (f *frameFields) EncodeField(name string, v value.BasicValue) error {
	return f.inner.EncodeField(name, v)
}

func (f *frameFields) End() error {
	if err := f.inner.End(); err != nil {
		return err
	}
	payload := f.buf.Bytes()
	flags := KindFlags(kind.Known(f.kind))
	if f.w.zenc != nil {
		payload = f.w.zenc.EncodeAll(payload, nil)
		flags |= FlagCompressed
	}
	id := f.w.nextID.Add(1)
	fr := Frame{
		Header: Header{
			Magic:       Magic,
			Version:     Version,
			MessageID:   id,
			MessageType: uint32(f.kind.Code()),
			Flags:       flags,
		},
		Payload: payload,
	}
	if err := WriteFrame(f.w.w, fr, f.w.limits); err != nil {
		return codec.Codec(err).At(codec.PhaseEncode, f.kind.Name())
	}
	observability.RecordFrame(observability.OpEncode, len(payload), flags&FlagCompressed != 0)
	logging.Tracef("frame write id=%d kind=%s payload=%d flags=0x%x", id, f.kind, len(payload), flags)
	return nil
}

type ReaderOption func(*Reader)

func WithReadLimits(l Limits) ReaderOption {
	return func(r *Reader) { r.limits = l }
}

// Reader is a codec.Decoder reading one message per frame. Compressed
// payloads are inflated transparently.
type Reader struct {
	r      io.Reader
	newDec NewDecoderFunc
	limits Limits
	zdec   *zstd.Decoder
	last   Header
}

func NewReader(r io.Reader, newDec NewDecoderFunc, opts ...ReaderOption) (*Reader, error) {
	fr := &Reader{r: r, newDec: newDec, limits: DefaultLimits()}
	for _, opt := range opts {
		opt(fr)
	}
	zdec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(fr.limits.MaxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("frame: zstd decoder: %w", err)
	}
	fr.zdec = zdec
	return fr, nil
}

// Header returns the header of the last frame read.
func (r *Reader) Header() Header { return r.last }

func (r *Reader) Close() error {
	r.zdec.Close()
	return nil
}

func (r *Reader) Start() (kind.Kind, codec.FieldDecoder, error) {
	fr, err := ReadFrame(r.r, r.limits)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return kind.Kind{}, nil, codec.EOF().At(codec.PhaseDecode)
		}
		return kind.Kind{}, nil, codec.Codec(err).At(codec.PhaseDecode)
	}
	if err := CheckHeader(fr.Header); err != nil {
		return kind.Kind{}, nil, codec.Codec(err).At(codec.PhaseDecode)
	}
	r.last = fr.Header
	observability.RecordFrame(observability.OpDecode, len(fr.Payload), fr.Header.Flags&FlagCompressed != 0)

	payload := fr.Payload
	if fr.Header.Flags&FlagCompressed != 0 {
		payload, err = r.zdec.DecodeAll(fr.Payload, nil)
		if err != nil {
			return kind.Kind{}, nil, codec.Codec(err).At(codec.PhaseDecode)
		}
		if uint64(len(payload)) > r.limits.MaxPayloadBytes {
			return kind.Kind{}, nil, codec.Codec(ErrPayloadTooLarge).At(codec.PhaseDecode)
		}
	}
	logging.Tracef("frame read id=%d type=%d payload=%d flags=0x%x", fr.Header.MessageID, fr.Header.MessageType, len(payload), fr.Header.Flags)

	k, fd, err := r.newDec(bytes.NewReader(payload)).Start()
	if err != nil {
		return kind.Kind{}, nil, err
	}
	if k.Type() == value.TypeU8 && uint32(k.U8()) != fr.Header.MessageType {
		return kind.Kind{}, nil, codec.Codec(fmt.Errorf("%w: header %d, payload %s", ErrKindMismatch, fr.Header.MessageType, k)).At(codec.PhaseDecode)
	}
	if got, want := fr.Header.Flags&(FlagIsResponse|FlagIsError), KindFlags(k); got != want {
		return kind.Kind{}, nil, codec.Codec(fmt.Errorf("%w: flags 0x%x, payload %s", ErrFlagMismatch, got, k)).At(codec.PhaseDecode)
	}
	return k, fd, nil
}

// KindFlags returns the response flags of a frame carrying k. ERROR sets
// FlagIsError and the standard replies set FlagIsResponse. Other kinds,
// custom ones included, set neither.
func KindFlags(k kind.Kind) uint32 {
	std, ok := k.Standard()
	if !ok {
		return 0
	}
	switch std {
	case kind.Error:
		return FlagIsError
	case kind.Result, kind.Published, kind.Subscribed, kind.Unsubscribed:
		return FlagIsResponse
	default:
		return 0
	}
}
