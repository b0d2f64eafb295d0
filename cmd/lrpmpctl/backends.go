package main

import (
	"fmt"
	"io"

	"github.com/danmuck/lrpmp/internal/config"
	"github.com/danmuck/lrpmp/protocol/codec"
	"github.com/danmuck/lrpmp/protocol/codec/cborcodec"
	"github.com/danmuck/lrpmp/protocol/codec/jsoncodec"
	"github.com/danmuck/lrpmp/protocol/codec/tlvcodec"
	"github.com/danmuck/lrpmp/protocol/frame"
	"github.com/danmuck/lrpmp/protocol/kind"
)

type backend struct {
	encoder frame.NewEncoderFunc
	decoder func(r io.Reader, reg *kind.Registry, maxBytes uint64) codec.Decoder
}

var backends = map[string]backend{
	config.CodecJSON: {
		encoder: func(w io.Writer) codec.Encoder { return jsoncodec.NewEncoder(w) },
		decoder: func(r io.Reader, reg *kind.Registry, _ uint64) codec.Decoder {
			return jsoncodec.NewDecoder(r, jsoncodec.WithRegistry(reg))
		},
	},
	config.CodecCBOR: {
		encoder: func(w io.Writer) codec.Encoder { return cborcodec.NewEncoder(w) },
		decoder: func(r io.Reader, reg *kind.Registry, _ uint64) codec.Decoder {
			return cborcodec.NewDecoder(r, cborcodec.WithRegistry(reg))
		},
	},
	config.CodecTLV: {
		encoder: func(w io.Writer) codec.Encoder { return tlvcodec.NewEncoder(w) },
		decoder: func(r io.Reader, reg *kind.Registry, maxBytes uint64) codec.Decoder {
			return tlvcodec.NewDecoder(r, tlvcodec.WithRegistry(reg), tlvcodec.WithMaxMessageBytes(uint32(min(maxBytes, tlvcodec.DefaultMaxMessageBytes))))
		},
	},
}

func lookupBackend(name string) (backend, error) {
	b, ok := backends[name]
	if !ok {
		return backend{}, fmt.Errorf("%w: unknown codec %q", errUsage, name)
	}
	return b, nil
}

// stream describes one side of a transcode or the output of call.
type stream struct {
	codec    string
	framed   bool
	compress bool
}

// openEncoder returns the encoder for s and a closer releasing framing
// resources.
func openEncoder(w io.Writer, s stream, cfg config.Config) (codec.Encoder, func() error, error) {
	b, err := lookupBackend(s.codec)
	if err != nil {
		return nil, nil, err
	}
	if !s.framed {
		if s.compress {
			return nil, nil, fmt.Errorf("%w: compression requires framing", errUsage)
		}
		return b.encoder(w), func() error { return nil }, nil
	}
	opts := []frame.WriterOption{frame.WithWriteLimits(cfg.FrameLimits())}
	if s.compress {
		opts = append(opts, frame.WithCompression())
	}
	fw, err := frame.NewWriter(w, b.encoder, opts...)
	if err != nil {
		return nil, nil, err
	}
	return fw, fw.Close, nil
}

func openDecoder(r io.Reader, s stream, cfg config.Config, reg *kind.Registry) (codec.Decoder, func() error, error) {
	b, err := lookupBackend(s.codec)
	if err != nil {
		return nil, nil, err
	}
	maxBytes := cfg.Limits.MaxPayloadBytes
	if !s.framed {
		return b.decoder(r, reg, maxBytes), func() error { return nil }, nil
	}
	fr, err := frame.NewReader(r, func(r io.Reader) codec.Decoder {
		return b.decoder(r, reg, maxBytes)
	}, frame.WithReadLimits(cfg.FrameLimits()))
	if err != nil {
		return nil, nil, err
	}
	return fr, fr.Close, nil
}
