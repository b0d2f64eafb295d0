// Package uri validates and carries the dotted resource identifiers used for
// procedures, topics and error reasons.
package uri

import (
	"fmt"
	"strings"

	"github.com/danmuck/lrpmp/protocol/value"
)

const (
	Segment  byte = '.'
	Wildcard byte = '*'
)

// Parts holds the counts derived while validating a URI.
type Parts struct {
	SegmentCount  uint8
	WildcardCount uint8
}

// ParseError reports the first invalid byte and its offset.
type ParseError struct {
	Invalid byte
	Offset  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("uri: invalid char %q at offset %d", e.Invalid, e.Offset)
}

// Validate scans b once. A separator repeating the previous byte or
// overflowing its counter is invalid, as is any byte outside [a-z0-9_.*].
func Validate(b []byte) (Parts, error) {
	var (
		prev  byte
		parts Parts
	)
	for i, c := range b {
		switch {
		case c == Wildcard:
			if prev == Wildcard || parts.WildcardCount == 0xff {
				return Parts{}, &ParseError{Invalid: c, Offset: i}
			}
			parts.WildcardCount++
		case c == Segment:
			if prev == Segment || parts.SegmentCount == 0xff {
				return Parts{}, &ParseError{Invalid: c, Offset: i}
			}
			parts.SegmentCount++
		case c == '_', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		default:
			return Parts{}, &ParseError{Invalid: c, Offset: i}
		}
		prev = c
	}
	return parts, nil
}

// URI is an immutable validated identifier. The zero URI is the empty string.
type URI struct {
	value.StrOnly
	text  string
	parts Parts
}

func Parse(s string) (URI, error) {
	parts, err := Validate([]byte(s))
	if err != nil {
		return URI{}, err
	}
	return URI{text: s, parts: parts}, nil
}

// MustParse panics on invalid input. Use it for package level constants.
func MustParse(s string) URI {
	u, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("invalid uri %q: %v", s, err))
	}
	return u
}

func (u URI) String() string       { return u.text }
func (u URI) Str() string          { return u.text }
func (u URI) HasWildcard() bool    { return u.parts.WildcardCount > 0 }
func (u URI) SegmentCount() uint8  { return u.parts.SegmentCount }
func (u URI) WildcardCount() uint8 { return u.parts.WildcardCount }
func (u URI) Parts() Parts         { return u.parts }

func (u *URI) ExpectedTypes() []value.BasicType {
	return []value.BasicType{value.TypeStr}
}

func (u *URI) SetBasic(v value.BasicValue) error {
	switch v.Type() {
	case value.TypeStr:
		parsed, err := Parse(v.Str())
		if err != nil {
			return err
		}
		*u = parsed
		return nil
	case value.TypeU8, value.TypeU64, value.TypeMap, value.TypeVal:
		return value.Unexpected(u.ExpectedTypes(), v.Type())
	default:
		return value.Unexpected(u.ExpectedTypes(), v.Type())
	}
}

// Match reports whether candidate matches pattern segment by segment. A
// pattern segment of exactly "*" matches any one segment.
func Match(pattern, candidate URI) bool {
	if pattern.parts.SegmentCount != candidate.parts.SegmentCount {
		return false
	}
	ps := strings.Split(pattern.text, string(Segment))
	cs := strings.Split(candidate.text, string(Segment))
	for i := range ps {
		if ps[i] == string(Wildcard) {
			continue
		}
		if ps[i] != cs[i] {
			return false
		}
	}
	return true
}
