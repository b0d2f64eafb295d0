package frame

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/danmuck/lrpmp/internal/testutil/testlog"
	"github.com/danmuck/lrpmp/protocol/codec"
	"github.com/danmuck/lrpmp/protocol/codec/jsoncodec"
	"github.com/danmuck/lrpmp/protocol/codec/tlvcodec"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/value"
)

func TestReadWriteFrameRoundTrip(t *testing.T) {
	testlog.Start(t)
	payload := tlvcodec.EncodeFields([]tlvcodec.Field{{ID: 0, Type: tlvcodec.TypeU8, Value: []byte{2}}})
	in := Frame{
		Header:  Header{Magic: Magic, Version: Version, MessageID: 42, MessageType: 2},
		Auth:    []byte("auth"),
		Payload: payload,
	}
	var buf bytes.Buffer
	if err := WriteFrame(&buf, in, DefaultLimits()); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	out, err := ReadFrame(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if out.Header.Magic != in.Header.Magic || out.Header.MessageType != in.Header.MessageType || out.Header.MessageID != in.Header.MessageID {
		t.Fatalf("header mismatch: got=%+v want=%+v", out.Header, in.Header)
	}
	if out.Header.Flags&FlagHasAuth == 0 || out.Header.HeaderLen != FixedHeaderLen+4 {
		t.Fatalf("auth not reflected in header: %+v", out.Header)
	}
	if string(out.Auth) != "auth" {
		t.Fatalf("auth mismatch: %q", string(out.Auth))
	}
	if !bytes.Equal(out.Payload, payload) {
		t.Fatalf("payload mismatch")
	}
	if err := CheckHeader(out.Header); err != nil {
		t.Fatalf("check header: %v", err)
	}
}

func TestReadFrameCleanEOF(t *testing.T) {
	testlog.Start(t)
	_, err := ReadFrame(bytes.NewReader(nil), DefaultLimits())
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReadFrameMalformedHeaderIsDeterministic(t *testing.T) {
	testlog.Start(t)
	_, err := ReadFrame(bytes.NewReader([]byte{1, 2, 3}), DefaultLimits())
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestReadFrameHeaderLenTooSmall(t *testing.T) {
	testlog.Start(t)
	h := Header{Magic: Magic, Version: Version, HeaderLen: 8, MessageID: 1, MessageType: 1}
	_, err := ReadFrame(bytes.NewReader(EncodeHeader(h)), DefaultLimits())
	if !errors.Is(err, ErrHeaderLenTooSmall) {
		t.Fatalf("expected ErrHeaderLenTooSmall, got %v", err)
	}
}

func TestReadFrameAuthFlagWithoutAuthBytes(t *testing.T) {
	testlog.Start(t)
	h := Header{Magic: Magic, Version: Version, HeaderLen: FixedHeaderLen, MessageID: 1, MessageType: 1, Flags: FlagHasAuth}
	_, err := ReadFrame(bytes.NewReader(EncodeHeader(h)), DefaultLimits())
	if !errors.Is(err, ErrHeaderLenMismatch) {
		t.Fatalf("expected ErrHeaderLenMismatch, got %v", err)
	}
}

func TestFrameLimits(t *testing.T) {
	testlog.Start(t)
	limits := Limits{MaxAuthBytes: 2, MaxPayloadBytes: 4}
	var buf bytes.Buffer
	if err := WriteFrame(&buf, Frame{Payload: make([]byte, 5)}, limits); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if err := WriteFrame(&buf, Frame{Auth: make([]byte, 3)}, limits); !errors.Is(err, ErrAuthTooLarge) {
		t.Fatalf("expected ErrAuthTooLarge, got %v", err)
	}
	h := Header{Magic: Magic, Version: Version, HeaderLen: FixedHeaderLen, PayloadLen: 5}
	if _, err := ReadFrame(bytes.NewReader(EncodeHeader(h)), limits); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge on read, got %v", err)
	}
}

func TestCheckHeader(t *testing.T) {
	testlog.Start(t)
	if err := CheckHeader(Header{Magic: 0xEDCE1001, Version: Version}); !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
	if err := CheckHeader(Header{Magic: Magic, Version: 9}); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func newJSONWriter(t *testing.T, w io.Writer, opts ...WriterOption) *Writer {
	t.Helper()
	fw, err := NewWriter(w, func(w io.Writer) codec.Encoder { return jsoncodec.NewEncoder(w) }, opts...)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	t.Cleanup(func() { _ = fw.Close() })
	return fw
}

func newJSONReader(t *testing.T, r io.Reader, opts ...ReaderOption) *Reader {
	t.Helper()
	fr, err := NewReader(r, func(r io.Reader) codec.Decoder { return jsoncodec.NewDecoder(r) }, opts...)
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	t.Cleanup(func() { _ = fr.Close() })
	return fr
}

func hello(body string) []value.BasicValue {
	return []value.BasicValue{value.ValOf(body), value.MapOf(nil)}
}

func TestStreamAssignsSequentialIDs(t *testing.T) {
	testlog.Start(t)
	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		var opts []WriterOption
		if compress {
			opts = append(opts, WithCompression())
		}
		fw := newJSONWriter(t, &buf, opts...)
		for _, body := range []string{"a", "b", "c"} {
			if err := codec.EncodeAll(fw, kind.Standard(kind.Hello), nil, hello(body)); err != nil {
				t.Fatalf("encode: %v", err)
			}
		}

		fr := newJSONReader(t, &buf)
		for i, want := range []string{"a", "b", "c"} {
			k, fd, err := fr.Start()
			if err != nil {
				t.Fatalf("start %d: %v", i, err)
			}
			if k != kind.FromCode(2) {
				t.Fatalf("kind %d: %v", i, k)
			}
			h := fr.Header()
			if h.MessageID != uint64(i+1) || h.MessageType != 2 {
				t.Fatalf("header %d: %+v", i, h)
			}
			if got := h.Flags&FlagCompressed != 0; got != compress {
				t.Fatalf("compressed flag %v, want %v", got, compress)
			}
			body, err := codec.Field[value.Concrete](fd, "body")
			if err != nil {
				t.Fatalf("body %d: %v", i, err)
			}
			if body.Str() != want {
				t.Fatalf("body %d: %v", i, body)
			}
		}
		if _, _, err := fr.Start(); !errors.Is(err, codec.ErrEOF) {
			t.Fatalf("expected ErrEOF after last frame, got %v", err)
		}
	}
}

func TestReaderRejectsKindMismatch(t *testing.T) {
	testlog.Start(t)
	var payload bytes.Buffer
	if err := codec.EncodeAll(jsoncodec.NewEncoder(&payload), kind.Standard(kind.Hello), nil, hello("x")); err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	var buf bytes.Buffer
	fr := Frame{Header: Header{Magic: Magic, Version: Version, MessageID: 1, MessageType: 40}, Payload: payload.Bytes()}
	if err := WriteFrame(&buf, fr, DefaultLimits()); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	_, _, err := newJSONReader(t, &buf).Start()
	if !errors.Is(err, ErrKindMismatch) || !errors.Is(err, codec.ErrCodec) {
		t.Fatalf("expected kind mismatch codec error, got %v", err)
	}
}

func TestReaderRejectsForeignFrames(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	if err := WriteFrame(&buf, Frame{Header: Header{Magic: 0xEDCE1001, Version: 1}}, DefaultLimits()); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	_, _, err := newJSONReader(t, &buf).Start()
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestReaderBoundsInflatedPayload(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	fw := newJSONWriter(t, &buf, WithCompression())
	big := string(bytes.Repeat([]byte("z"), 4096))
	if err := codec.EncodeAll(fw, kind.Standard(kind.Hello), nil, hello(big)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	fr := newJSONReader(t, &buf, WithReadLimits(Limits{MaxAuthBytes: 0, MaxPayloadBytes: 1024}))
	if _, _, err := fr.Start(); err == nil {
		t.Fatalf("expected inflated payload to exceed limit")
	}
}

func TestWriterSetsResponseFlags(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		kind   kind.StandardKind
		fields []value.BasicValue
		want   uint32
	}{
		{kind.Hello, hello("x"), 0},
		{kind.Result, []value.BasicValue{value.U8Of(1), value.ValOf("ok"), value.MapOf(nil)}, FlagIsResponse},
		{kind.Subscribed, []value.BasicValue{value.U8Of(1), value.U8Of(2), value.MapOf(nil)}, FlagIsResponse},
		{kind.Unsubscribed, []value.BasicValue{value.U8Of(1), value.MapOf(nil)}, FlagIsResponse},
		{kind.Published, []value.BasicValue{value.U8Of(1), value.U8Of(2), value.MapOf(nil)}, FlagIsResponse},
		{kind.Error, []value.BasicValue{value.U8Of(40), value.U8Of(1), value.StrOf("a.b"), value.ValOf(nil), value.MapOf(nil)}, FlagIsError},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		if err := codec.EncodeAll(newJSONWriter(t, &buf), kind.Standard(tc.kind), nil, tc.fields); err != nil {
			t.Fatalf("%s: encode: %v", tc.kind, err)
		}
		fr := newJSONReader(t, &buf)
		if _, _, err := fr.Start(); err != nil {
			t.Fatalf("%s: start: %v", tc.kind, err)
		}
		if got := fr.Header().Flags & (FlagIsResponse | FlagIsError); got != tc.want {
			t.Fatalf("%s: flags 0x%x, want 0x%x", tc.kind, got, tc.want)
		}
	}
}

func TestReaderRejectsFlagMismatch(t *testing.T) {
	testlog.Start(t)
	var payload bytes.Buffer
	if err := codec.EncodeAll(jsoncodec.NewEncoder(&payload), kind.Standard(kind.Hello), nil, hello("x")); err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	for _, flags := range []uint32{FlagIsError, FlagIsResponse} {
		var buf bytes.Buffer
		fr := Frame{Header: Header{Magic: Magic, Version: Version, MessageID: 1, MessageType: 2, Flags: flags}, Payload: payload.Bytes()}
		if err := WriteFrame(&buf, fr, DefaultLimits()); err != nil {
			t.Fatalf("write frame: %v", err)
		}
		_, _, err := newJSONReader(t, &buf).Start()
		if !errors.Is(err, ErrFlagMismatch) || !errors.Is(err, codec.ErrCodec) {
			t.Fatalf("flags 0x%x: expected flag mismatch codec error, got %v", flags, err)
		}
	}
}
