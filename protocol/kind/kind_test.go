package kind

import (
	"errors"
	"testing"

	"github.com/danmuck/lrpmp/internal/testutil/testlog"
	"github.com/danmuck/lrpmp/protocol/spec"
	"github.com/danmuck/lrpmp/protocol/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardTableMatchesDefinitions(t *testing.T) {
	testlog.Start(t)
	s := spec.MustDefault()
	for _, k := range StandardKinds() {
		def, ok := s.Message(k.Code())
		require.True(t, ok, "code %d", k.Code())
		assert.Equal(t, def.Name, k.Name())
		assert.Equal(t, def.FieldNames(), k.FieldNames())
		min, max := k.FieldCount()
		assert.Equal(t, len(def.Fields), min)
		assert.Equal(t, min, max)
	}
}

func TestStandardKindRoundTrip(t *testing.T) {
	testlog.Start(t)
	for _, k := range StandardKinds() {
		byCode, ok := StandardFromCode(k.Code())
		require.True(t, ok)
		byName, ok := StandardFromName(k.Name())
		require.True(t, ok)
		assert.Equal(t, k, byCode)
		assert.Equal(t, k, byName)
	}
}

func TestFromCode(t *testing.T) {
	testlog.Start(t)
	hello := FromCode(2)
	std, ok := hello.Standard()
	require.True(t, ok)
	assert.Equal(t, Hello, std)
	assert.Equal(t, "HELLO", hello.String())
	min, max := Hello.FieldCount()
	assert.Equal(t, 2, min)
	assert.Equal(t, 2, max)

	unknown := FromCode(99)
	_, ok = unknown.Known()
	assert.False(t, ok)
	u, ok := unknown.Unknown()
	require.True(t, ok)
	code, ok := u.Code()
	require.True(t, ok)
	assert.Equal(t, uint8(99), code)
	assert.Equal(t, Unknown(UnknownCode(99)), unknown)
}

func TestFromName(t *testing.T) {
	testlog.Start(t)
	assert.Equal(t, Known(Standard(Call)), FromName("CALL"))
	assert.Equal(t, Unknown(UnknownName("call")), FromName("call"))
	min, max := Error.FieldCount()
	assert.Equal(t, 5, min)
	assert.Equal(t, 5, max)
}

func TestKindAsBasicValue(t *testing.T) {
	testlog.Start(t)
	k := FromCode(40)
	assert.Equal(t, value.TypeU8, k.Type())
	assert.Equal(t, uint8(40), k.U8())

	named := FromName("custom")
	assert.Equal(t, value.TypeStr, named.Type())
	assert.Equal(t, "custom", named.Str())
	assert.Panics(t, func() { named.U8() })

	var got Kind
	require.NoError(t, value.Into(value.U8Of(61), &got))
	assert.Equal(t, Known(Standard(Publish)), got)
	require.NoError(t, value.Into(value.StrOf("SUBSCRIBE"), &got))
	assert.Equal(t, Known(Standard(Subscribe)), got)

	err := value.Into(value.U64Of(1000), &got)
	var ut *value.UnexpectedType
	require.ErrorAs(t, err, &ut)
	assert.Equal(t, value.TypeU64, ut.Actual)
}

func TestKnownKindCustom(t *testing.T) {
	testlog.Start(t)
	c := Custom(CustomKind{Name: "PING", Code: 200, MinFields: 1, MaxFields: Unbounded})
	assert.False(t, c.IsStandard())
	assert.Equal(t, uint8(200), c.Code())
	assert.Equal(t, "PING", c.Name())
	assert.True(t, c.Accepts(1))
	assert.True(t, c.Accepts(40))
	assert.False(t, c.Accepts(0))
	_, ok := c.Standard()
	assert.False(t, ok)

	assert.True(t, Standard(Result).Accepts(3))
	assert.False(t, Standard(Result).Accepts(2))
}

func TestRegistry(t *testing.T) {
	testlog.Start(t)
	ping := CustomKind{Name: "PING", Code: 200, MinFields: 0, MaxFields: 2}
	r, err := NewRegistry(ping)
	require.NoError(t, err)

	assert.Equal(t, Known(Custom(ping)), r.FromCode(200))
	assert.Equal(t, Known(Custom(ping)), r.FromName("PING"))
	assert.Equal(t, Known(Standard(Hello)), r.FromCode(2))
	assert.Equal(t, Unknown(UnknownCode(201)), r.FromCode(201))
	assert.Equal(t, Known(Custom(ping)), r.Resolve(FromCode(200)))
	assert.Equal(t, []CustomKind{ping}, r.Customs())

	var none *Registry
	assert.Equal(t, FromCode(200), none.FromCode(200))
	assert.Nil(t, none.Customs())
}

func TestRegistryCollisions(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name    string
		customs []CustomKind
		want    error
	}{
		{"standard code", []CustomKind{{Name: "X", Code: 2}}, ErrCodeCollision},
		{"standard name", []CustomKind{{Name: "HELLO", Code: 200}}, ErrNameCollision},
		{"custom code", []CustomKind{{Name: "X", Code: 200}, {Name: "Y", Code: 200}}, ErrCodeCollision},
		{"custom name", []CustomKind{{Name: "X", Code: 200}, {Name: "X", Code: 201}}, ErrNameCollision},
		{"empty name", []CustomKind{{Code: 200}}, ErrInvalidCustom},
		{"inverted range", []CustomKind{{Name: "X", Code: 200, MinFields: 3, MaxFields: 1}}, ErrInvalidCustom},
	}
	for _, tc := range cases {
		_, err := NewRegistry(tc.customs...)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoadStandardRejectsDrift(t *testing.T) {
	testlog.Start(t)
	s, err := spec.Parse(`
[[messages]]
code = 2
name = "HELLO"
fields = [{ name = "meta", type = "Meta" }]
`)
	require.NoError(t, err)
	require.Error(t, loadStandard(s))

	require.NoError(t, loadStandard(spec.MustDefault()))
}
