package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/lrpmp/internal/testutil/testlog"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lrpmp.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	testlog.Start(t)
	require.NoError(t, Default().Validate())
	assert.Equal(t, CodecJSON, Default().Codec)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
codec = "CBOR"
framed = true

[limits]
max_payload_bytes = 1024
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CodecCBOR, cfg.Codec)
	assert.True(t, cfg.Framed)
	assert.False(t, cfg.Compress)
	assert.Equal(t, uint64(1024), cfg.FrameLimits().MaxPayloadBytes)
	assert.Equal(t, Default().Limits.MaxAuthBytes, cfg.FrameLimits().MaxAuthBytes)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestTemplateLoads(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "lrpmp.toml")
	require.NoError(t, WriteTemplate(path, false))
	require.Error(t, WriteTemplate(path, false))
	require.NoError(t, WriteTemplate(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	reg, err := cfg.Registry()
	require.NoError(t, err)
	k, ok := reg.KnownFromName("PING")
	require.True(t, ok)
	assert.Equal(t, uint8(200), k.Code())
	_, maxFields := k.FieldCount()
	assert.Equal(t, kind.Unbounded, maxFields)
}

func TestLoadRejectsInvalid(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"codec":       `codec = "xml"`,
		"compress":    `compress = true`,
		"payload":     "[limits]\nmax_payload_bytes = 0",
		"tlv bound":   "codec = \"tlv\"\n[limits]\nmax_payload_bytes = 9999999999",
		"log level":   "[log]\nlevel = \"loud\"",
		"kind name":   "[[custom_kinds]]\nname = \"\"\ncode = 201",
		"std collide": "[[custom_kinds]]\nname = \"PING\"\ncode = 2",
		"dup name": `
[[custom_kinds]]
name = "PING"
code = 201
[[custom_kinds]]
name = "PING"
code = 202
`,
		"syntax": `codec = `,
	}
	for name, body := range cases {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, name)
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestKindsMapsNegativeMax(t *testing.T) {
	testlog.Start(t)
	kinds := Kinds([]CustomKindConfig{{Name: "A", Code: 150, MinFields: 1, MaxFields: -5}, {Name: "B", Code: 151, MaxFields: 2}})
	require.Len(t, kinds, 2)
	assert.Equal(t, kind.Unbounded, kinds[0].MaxFields)
	assert.Equal(t, 2, kinds[1].MaxFields)
}
