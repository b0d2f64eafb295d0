package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/uri"
	"github.com/danmuck/lrpmp/protocol/value"
)

// Code is the closed set of codec failure categories.
type Code string

const (
	CodeEOF            Code = "eof"
	CodeCodec          Code = "codec"
	CodeURI            Code = "uri"
	CodeUnexpectedKind Code = "unexpected_kind"
	CodeUnexpectedType Code = "unexpected_type"
	CodeCustom         Code = "custom"
)

// Phase indicates where the error occurred.
type Phase string

const (
	PhaseEncode Phase = "encode"
	PhaseDecode Phase = "decode"
)

// Sentinels for errors.Is. They match any *Error with the same Code.
var (
	ErrEOF            = &Error{Code: CodeEOF}
	ErrCodec          = &Error{Code: CodeCodec}
	ErrURI            = &Error{Code: CodeURI}
	ErrUnexpectedKind = &Error{Code: CodeUnexpectedKind}
	ErrUnexpectedType = &Error{Code: CodeUnexpectedType}
	ErrCustom         = &Error{Code: CodeCustom}
)

// Error is the structured error returned by encoders, decoders and message
// operations.
type Error struct {
	Code       Code
	Phase      Phase
	Path       []string
	Kind       kind.Kind
	Unexpected *value.UnexpectedType
	URI        *uri.ParseError
	Cause      error
	Detail     string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("codec: ")
	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Code))
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if e.Code == CodeUnexpectedKind {
		b.WriteString(": ")
		b.WriteString(e.Kind.String())
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// At returns a copy of e with phase set and path prefixed.
func (e *Error) At(phase Phase, path ...string) *Error {
	out := *e
	if out.Phase == "" {
		out.Phase = phase
	}
	out.Path = append(append([]string(nil), path...), e.Path...)
	return &out
}

func (e *Error) decoding(name string) *Error {
	if name == "" {
		return e.At(PhaseDecode)
	}
	return e.At(PhaseDecode, name)
}

func EOF() *Error {
	return &Error{Code: CodeEOF, Detail: "no fields remaining"}
}

// Codec wraps a backend failure.
func Codec(err error) *Error {
	return &Error{Code: CodeCodec, Cause: err}
}

// Codecf builds a backend failure from a message.
func Codecf(format string, args ...any) *Error {
	return &Error{Code: CodeCodec, Detail: fmt.Sprintf(format, args...)}
}

func URIError(err error) *Error {
	e := &Error{Code: CodeURI, Cause: err}
	var pe *uri.ParseError
	if errors.As(err, &pe) {
		e.URI = pe
	}
	return e
}

func UnexpectedKind(k kind.Kind) *Error {
	return &Error{Code: CodeUnexpectedKind, Kind: k}
}

func UnexpectedTypeError(ut *value.UnexpectedType) *Error {
	return &Error{Code: CodeUnexpectedType, Unexpected: ut, Cause: ut}
}

func Custom(msg string) *Error {
	return &Error{Code: CodeCustom, Detail: msg}
}

// Wrap maps err into the taxonomy. Value and uri errors keep their
// dedicated codes; anything else becomes a codec error.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	var ut *value.UnexpectedType
	if errors.As(err, &ut) {
		return UnexpectedTypeError(ut)
	}
	var pe *uri.ParseError
	if errors.As(err, &pe) {
		return URIError(err)
	}
	return Codec(err)
}
