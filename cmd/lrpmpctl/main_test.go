package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/lrpmp/internal/testutil/testlog"
	"github.com/danmuck/lrpmp/protocol/codec/cborcodec"
	"github.com/danmuck/lrpmp/protocol/codec/jsoncodec"
	"github.com/danmuck/lrpmp/protocol/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runCmd(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestUnknownCommand(t *testing.T) {
	testlog.Start(t)
	code, _, stderr := runCmd(t, "", "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	code, _, _ = runCmd(t, "")
	assert.Equal(t, 2, code)
}

func TestKindsText(t *testing.T) {
	testlog.Start(t)
	code, stdout, _ := runCmd(t, "", "kinds")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "CALL")
	assert.Contains(t, stdout, "request_id,procedure,body,meta")
	assert.Equal(t, 16, strings.Count(stdout, "\n"))
}

func TestKindsYAMLIncludesCustomKinds(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "lrpmp.toml")
	code, _, stderr := runCmd(t, "", "init", path)
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := runCmd(t, "", "-config", path, "kinds", "-format", "yaml")
	require.Equal(t, 0, code, stderr)
	var rows []kindRow
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 16)
	last := rows[len(rows)-1]
	assert.Equal(t, "PING", last.Name)
	assert.Equal(t, "custom", last.Source)
	assert.Equal(t, uint8(200), last.Code)
}

func TestInitRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "lrpmp.toml")
	require.NoError(t, os.WriteFile(path, []byte("codec = \"json\"\n"), 0o600))
	code, _, _ := runCmd(t, "", "init", path)
	assert.Equal(t, 1, code)
	code, _, _ = runCmd(t, "", "init", "-force", path)
	assert.Equal(t, 0, code)
}

func TestURI(t *testing.T) {
	testlog.Start(t)
	code, stdout, _ := runCmd(t, "", "uri", "-match", "sensors.*.temp", "sensors.kitchen.temp")
	require.Equal(t, 0, code)
	assert.Equal(t, "uri=sensors.kitchen.temp segments=2 wildcards=0\nmatch=true\n", stdout)

	code, _, stderr := runCmd(t, "", "uri", "Bad")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid char")

	code, _, _ = runCmd(t, "", "uri")
	assert.Equal(t, 2, code)
}

func TestCallWritesDecodableCall(t *testing.T) {
	testlog.Start(t)
	code, stdout, stderr := runCmd(t, "", "call", "-procedure", "com.example.add", "-body", `["a","b"]`, "-id", "7")
	require.Equal(t, 0, code, stderr)

	call, err := message.Decode[message.Call](jsoncodec.NewDecoder(strings.NewReader(stdout)))
	require.NoError(t, err)
	assert.Equal(t, "com.example.add", call.Procedure().String())
	assert.EqualValues(t, 7, call.RequestID())
	assert.Equal(t, []any{"a", "b"}, call.Body().Value())

	code, _, _ = runCmd(t, "", "call", "-procedure", "com.*")
	assert.Equal(t, 1, code)
	code, _, _ = runCmd(t, "", "call")
	assert.Equal(t, 2, code)
}

func TestTranscodeJSONToCBOR(t *testing.T) {
	testlog.Start(t)
	in := "[2,\"1\",{}]\n[40,5,\"com.example.add\",[1,2],{\"t\":\"x\"}]\n"
	code, stdout, stderr := runCmd(t, in, "transcode", "-from", "json", "-to", "cbor")
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, string([]byte{0x83, 0x02, 0x61, 0x31, 0xA0})))

	dec := cborcodec.NewDecoder(strings.NewReader(stdout))
	hello, err := message.Decode[message.Hello](dec)
	require.NoError(t, err)
	assert.Equal(t, "1", hello.Body().Value())
	call, err := message.Decode[message.Call](dec)
	require.NoError(t, err)
	assert.EqualValues(t, 5, call.RequestID())
}

func TestTranscodeFramedRoundTrip(t *testing.T) {
	testlog.Start(t)
	in := "[63,1,\"sensors.*.temp\",{}]\n[66,1,{}]\n"
	code, framed, stderr := runCmd(t, in, "transcode", "-from", "json", "-to", "tlv", "-framed", "-compress")
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := runCmd(t, framed, "transcode", "-from", "tlv", "-in-framed", "-to", "json")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, in, stdout)
}

func TestTranscodeRejectsSchemaViolations(t *testing.T) {
	testlog.Start(t)
	code, _, stderr := runCmd(t, "[40,\"x\",\"a.b\",1,{}]\n", "transcode", "-to", "json")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "type mismatch")

	code, _, stderr = runCmd(t, "[21,1]\n", "transcode")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "field count")

	code, _, _ = runCmd(t, "", "transcode", "-to", "xml")
	assert.Equal(t, 2, code)
}

func TestMetricsDump(t *testing.T) {
	testlog.Start(t)
	code, _, stderr := runCmd(t, "[2,\"1\",{}]\n", "-metrics", "transcode")
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, "lrpmp_codec_messages_total")
}
