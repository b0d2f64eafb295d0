package tlvcodec

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/danmuck/lrpmp/internal/testutil/testlog"
	"github.com/danmuck/lrpmp/protocol/codec"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueRoundTrip(t *testing.T) {
	testlog.Start(t)
	cases := []value.Concrete{
		value.U8Of(9),
		value.U64Of(1 << 50),
		value.StrOf("a.b.c"),
		value.MapOf(value.Map{"k": "v", "n": []any{"x"}}),
		value.ValOf([]any{"x", "y"}),
	}
	for i, in := range cases {
		f, err := EncodeValue(uint16(i+1), in)
		require.NoError(t, err)
		assert.Equal(t, uint16(i+1), f.ID)
		got, _, err := DecodeValue(f)
		require.NoError(t, err)
		assert.True(t, value.Equal(in, got), "%v != %v", in, got)
	}
}

func TestDecodeValueRejectsBadFields(t *testing.T) {
	testlog.Start(t)
	_, _, err := DecodeValue(Field{ID: 1, Type: TypeU8, Value: []byte{1, 2}})
	assert.Error(t, err)
	_, _, err = DecodeValue(Field{ID: 1, Type: 77})
	assert.Error(t, err)
	raw, err := encMap(t, []any{"not", "a", "map"})
	require.NoError(t, err)
	_, _, err = DecodeValue(Field{ID: 1, Type: TypeMap, Value: raw})
	assert.Error(t, err)
}

func encMap(t *testing.T, v any) ([]byte, error) {
	t.Helper()
	f, err := EncodeValue(1, value.ValOf(v))
	return f.Value, err
}

func TestStreamCarriesSuccessiveMessages(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, codec.EncodeAll(enc, kind.Standard(kind.Cancel), nil, []value.BasicValue{value.U8Of(4), value.MapOf(value.Map{})}))
	require.NoError(t, codec.EncodeAll(enc, kind.Standard(kind.Hello), nil, []value.BasicValue{value.StrOf("hi"), value.MapOf(nil)}))

	dec := NewDecoder(&buf)
	k, fd, err := dec.Start()
	require.NoError(t, err)
	assert.Equal(t, kind.FromCode(21), k)
	n, ok := fd.Remaining()
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	k, fd, err = dec.Start()
	require.NoError(t, err)
	assert.Equal(t, kind.FromCode(2), k)
	s, err := codec.Field[value.Concrete](fd, "body")
	require.NoError(t, err)
	assert.Equal(t, value.StrOf("hi"), s)

	_, _, err = dec.Start()
	require.ErrorIs(t, err, codec.ErrEOF)
}

func TestDecoderBoundsMessageSize(t *testing.T) {
	testlog.Start(t)
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], 1024)
	_, _, err := NewDecoder(bytes.NewReader(prefix[:]), WithMaxMessageBytes(16)).Start()
	require.ErrorIs(t, err, ErrMessageTooLarge)
	require.ErrorIs(t, err, codec.ErrCodec)
}

func TestDecodePayloadResolvesNamedKinds(t *testing.T) {
	testlog.Start(t)
	ping := kind.CustomKind{Name: "PING", Code: 201, MaxFields: kind.Unbounded}
	reg, err := kind.NewRegistry(ping)
	require.NoError(t, err)

	payload := EncodeFields([]Field{{ID: 0, Type: TypeString, Value: []byte("PING")}})
	k, _, err := DecodePayload(payload, reg)
	require.NoError(t, err)
	known, ok := k.Known()
	require.True(t, ok)
	assert.Equal(t, kind.Custom(ping), known)

	k, _, err = DecodePayload(payload, nil)
	require.NoError(t, err)
	_, ok = k.Unknown()
	assert.True(t, ok)

	_, _, err = DecodePayload(nil, nil)
	require.ErrorIs(t, err, codec.ErrCodec)
}

func TestDecodePayloadRejectsNonKindHead(t *testing.T) {
	testlog.Start(t)
	payload := EncodeFields([]Field{{ID: 0, Type: TypeU64, Value: U64Bytes(2)}})
	_, _, err := DecodePayload(payload, nil)
	require.ErrorIs(t, err, codec.ErrCodec)
	assert.Contains(t, err.Error(), "type mismatch")
}

func TestEncoderRejectsFieldIDOverflow(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	fe, err := NewEncoder(&buf).Start(kind.Standard(kind.Hello))
	require.NoError(t, err)
	for i := 1; i <= 65535; i++ {
		require.NoError(t, fe.EncodeField("", value.U8Of(1)))
	}
	err = fe.EncodeField("extra", value.U8Of(1))
	require.ErrorIs(t, err, codec.ErrCodec)
	var cerr *codec.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, codec.PhaseEncode, cerr.Phase)
	assert.Zero(t, buf.Len())
}

func TestFieldDecoderResolvesCustomKindFields(t *testing.T) {
	testlog.Start(t)
	ping := kind.CustomKind{Name: "PING", Code: 201, MaxFields: kind.Unbounded}
	reg, err := kind.NewRegistry(ping)
	require.NoError(t, err)

	payload := EncodeFields([]Field{
		{ID: 0, Type: TypeU8, Value: []byte{8}},
		{ID: 1, Type: TypeU8, Value: []byte{201}},
	})
	_, fd, err := DecodePayload(payload, reg)
	require.NoError(t, err)
	got, err := codec.Field[kind.Kind](fd, "request_kind")
	require.NoError(t, err)
	assert.Equal(t, kind.Known(kind.Custom(ping)), got)
}
