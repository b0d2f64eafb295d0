// Package config loads the lrpmpctl TOML configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/lrpmp/internal/logging"
	"github.com/danmuck/lrpmp/protocol/codec/tlvcodec"
	"github.com/danmuck/lrpmp/protocol/frame"
)

// Backend names accepted by the codec setting.
const (
	CodecJSON = "json"
	CodecCBOR = "cbor"
	CodecTLV  = "tlv"
)

type Config struct {
	Codec       string             `toml:"codec"`
	Framed      bool               `toml:"framed"`
	Compress    bool               `toml:"compress"`
	Limits      LimitsConfig       `toml:"limits"`
	Log         LogConfig          `toml:"log"`
	CustomKinds []CustomKindConfig `toml:"custom_kinds"`
}

type LimitsConfig struct {
	MaxAuthBytes    uint64 `toml:"max_auth_bytes"`
	MaxPayloadBytes uint64 `toml:"max_payload_bytes"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// CustomKindConfig declares one custom kind. MaxFields < 0 means unbounded.
type CustomKindConfig struct {
	Name      string `toml:"name"`
	Code      uint8  `toml:"code"`
	MinFields int    `toml:"min_fields"`
	MaxFields int    `toml:"max_fields"`
}

func Default() Config {
	limits := frame.DefaultLimits()
	return Config{
		Codec: CodecJSON,
		Limits: LimitsConfig{
			MaxAuthBytes:    limits.MaxAuthBytes,
			MaxPayloadBytes: limits.MaxPayloadBytes,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load overlays the keys defined in path onto Default and validates the
// result.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		logging.Warnf("config %s: ignoring unknown keys %v", path, undecoded)
	}

	if meta.IsDefined("codec") {
		cfg.Codec = strings.ToLower(strings.TrimSpace(raw.Codec))
	}
	if meta.IsDefined("framed") {
		cfg.Framed = raw.Framed
	}
	if meta.IsDefined("compress") {
		cfg.Compress = raw.Compress
	}
	if meta.IsDefined("limits", "max_auth_bytes") {
		cfg.Limits.MaxAuthBytes = raw.Limits.MaxAuthBytes
	}
	if meta.IsDefined("limits", "max_payload_bytes") {
		cfg.Limits.MaxPayloadBytes = raw.Limits.MaxPayloadBytes
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("custom_kinds") {
		cfg.CustomKinds = raw.CustomKinds
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Codec {
	case CodecJSON, CodecCBOR, CodecTLV:
	default:
		return fmt.Errorf("unknown codec %q", c.Codec)
	}
	if c.Compress && !c.Framed {
		return fmt.Errorf("compress requires framed")
	}
	if c.Limits.MaxPayloadBytes == 0 {
		return fmt.Errorf("limits.max_payload_bytes must be positive")
	}
	if c.Codec == CodecTLV && c.Limits.MaxPayloadBytes > tlvcodec.DefaultMaxMessageBytes {
		return fmt.Errorf("limits.max_payload_bytes exceeds tlv bound %d", tlvcodec.DefaultMaxMessageBytes)
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	for i, ck := range c.CustomKinds {
		if strings.TrimSpace(ck.Name) == "" {
			return fmt.Errorf("custom_kinds[%d] missing name", i)
		}
	}
	if _, err := c.Registry(); err != nil {
		return err
	}
	return nil
}

// FrameLimits converts the configured limits.
func (c Config) FrameLimits() frame.Limits {
	return frame.Limits{
		MaxAuthBytes:    c.Limits.MaxAuthBytes,
		MaxPayloadBytes: c.Limits.MaxPayloadBytes,
	}
}
