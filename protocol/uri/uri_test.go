package uri

import (
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/lrpmp/internal/testutil/testlog"
	"github.com/danmuck/lrpmp/protocol/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAccepts(t *testing.T) {
	testlog.Start(t)
	cases := map[string]Parts{
		"":                 {},
		"com.example.proc": {SegmentCount: 2},
		"a.*.c":            {SegmentCount: 2, WildcardCount: 1},
		"*.b*":             {SegmentCount: 1, WildcardCount: 2},
		"snake_case.v2":    {SegmentCount: 1},
		".leading":         {SegmentCount: 1},
	}
	for in, want := range cases {
		got, err := Validate([]byte(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestValidateRejects(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		in      string
		invalid byte
		offset  int
	}{
		{"a..b", '.', 2},
		{"a.**", '*', 3},
		{"Abc", 'A', 0},
		{"a.b-c", '-', 3},
		{"a b", ' ', 1},
		{"ok.X..", 'X', 3},
	}
	for _, tc := range cases {
		_, err := Validate([]byte(tc.in))
		var pe *ParseError
		require.ErrorAs(t, err, &pe, tc.in)
		assert.Equal(t, tc.invalid, pe.Invalid, tc.in)
		assert.Equal(t, tc.offset, pe.Offset, tc.in)
	}
}

func TestValidateSegmentOverflow(t *testing.T) {
	testlog.Start(t)
	ok := strings.Repeat("a.", 255) + "a"
	parts, err := Validate([]byte(ok))
	require.NoError(t, err)
	assert.Equal(t, uint8(255), parts.SegmentCount)

	over := strings.Repeat("a.", 256)
	_, err = Validate([]byte(over))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, byte('.'), pe.Invalid)
	assert.Equal(t, 511, pe.Offset)
}

func TestValidateWildcardOverflow(t *testing.T) {
	testlog.Start(t)
	in := strings.Repeat("*a", 256)
	_, err := Validate([]byte(in))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, byte('*'), pe.Invalid)
	assert.Equal(t, 510, pe.Offset)
}

func TestURIAccessors(t *testing.T) {
	testlog.Start(t)
	u := MustParse("lrpmp.*.added")
	assert.Equal(t, "lrpmp.*.added", u.String())
	assert.True(t, u.HasWildcard())
	assert.Equal(t, uint8(2), u.SegmentCount())
	assert.Equal(t, uint8(1), u.WildcardCount())
	assert.Equal(t, value.TypeStr, u.Type())
	assert.Panics(t, func() { u.U8() })

	assert.Panics(t, func() { MustParse("Bad") })
}

func TestURISetBasic(t *testing.T) {
	testlog.Start(t)
	var u URI
	require.NoError(t, value.Into(value.StrOf("a.b"), &u))
	assert.Equal(t, "a.b", u.String())

	err := value.Into(value.U8Of(1), &u)
	var ut *value.UnexpectedType
	require.ErrorAs(t, err, &ut)
	assert.Equal(t, value.TypeU8, ut.Actual)

	err = u.SetBasic(value.StrOf("a..b"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "a.b", u.String(), "failed conversion must not modify the target")
}

func TestMatch(t *testing.T) {
	testlog.Start(t)
	pattern := MustParse("sensors.*.temp")
	assert.True(t, Match(pattern, MustParse("sensors.kitchen.temp")))
	assert.False(t, Match(pattern, MustParse("sensors.kitchen.humidity")))
	assert.False(t, Match(pattern, MustParse("sensors.kitchen.temp.max")))
	assert.True(t, Match(MustParse("a.b"), MustParse("a.b")))
}
