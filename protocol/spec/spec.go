// Package spec loads the declarative message definitions every kind table
// and message struct is checked against.
//
// Ownership boundary:
// - parsing and validating definitions.toml
// - the field type names and the basic types each accepts
// - the named standard URI definitions
package spec

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/lrpmp/protocol/uri"
	"github.com/danmuck/lrpmp/protocol/value"
)

//go:embed definitions.toml
var definitions string

var (
	ErrDuplicateCode  = errors.New("spec: duplicate message code")
	ErrDuplicateName  = errors.New("spec: duplicate message name")
	ErrFieldType      = errors.New("spec: unknown field type")
	ErrMissingMeta    = errors.New("spec: message must end with meta")
	ErrInvalidURI     = errors.New("spec: invalid uri definition")
	ErrEmptyName      = errors.New("spec: empty name")
	ErrDuplicateField = errors.New("spec: duplicate field name")
)

// Field type names used by definitions.
const (
	TypeID   = "Id"
	TypeURI  = "Uri"
	TypeKind = "Kind"
	TypeMeta = "Meta"
	TypeBody = "Body"
)

var fieldTypes = map[string][]value.BasicType{
	TypeID:   {value.TypeU8, value.TypeU64},
	TypeURI:  {value.TypeStr},
	TypeKind: {value.TypeU8, value.TypeStr},
	TypeMeta: {value.TypeMap},
	TypeBody: value.AllTypes(),
}

// Accepts returns a copy of the basic types a field type decodes from. Body
// is opaque and accepts every basic type.
func Accepts(fieldType string) ([]value.BasicType, bool) {
	types, ok := fieldTypes[fieldType]
	return slices.Clone(types), ok
}

type Spec struct {
	Version  string       `toml:"version"`
	Messages []MessageDef `toml:"messages"`
	URIs     []URIDef     `toml:"uri_definitions"`
}

type MessageDef struct {
	Code   uint8      `toml:"code"`
	Name   string     `toml:"name"`
	Type   string     `toml:"type"`
	Stages []string   `toml:"stages"`
	Desc   string     `toml:"desc"`
	Fields []FieldDef `toml:"fields"`
}

type FieldDef struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
	Desc string `toml:"desc"`
}

type URIDef struct {
	Name string `toml:"name"`
	URI  string `toml:"uri"`
	Desc string `toml:"desc"`
}

var (
	defaultOnce sync.Once
	defaultSpec *Spec
	defaultErr  error
)

// Default returns the embedded definitions, parsed and validated once.
func Default() (*Spec, error) {
	defaultOnce.Do(func() {
		defaultSpec, defaultErr = Parse(definitions)
	})
	return defaultSpec, defaultErr
}

// MustDefault panics when the embedded definitions are invalid.
func MustDefault() *Spec {
	s, err := Default()
	if err != nil {
		panic(err)
	}
	return s
}

func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spec load failed (%s): %w", path, err)
	}
	s, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("spec load failed (%s): %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a definitions document.
func Parse(doc string) (*Spec, error) {
	var s Spec
	if _, err := toml.Decode(doc, &s); err != nil {
		return nil, fmt.Errorf("spec parse failed: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Spec) Validate() error {
	codes := make(map[uint8]string, len(s.Messages))
	names := make(map[string]struct{}, len(s.Messages))
	for _, m := range s.Messages {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w: message code %d", ErrEmptyName, m.Code)
		}
		if prev, ok := codes[m.Code]; ok {
			return fmt.Errorf("%w: %d used by %s and %s", ErrDuplicateCode, m.Code, prev, m.Name)
		}
		if _, ok := names[m.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateName, m.Name)
		}
		codes[m.Code] = m.Name
		names[m.Name] = struct{}{}
		if err := m.validateFields(); err != nil {
			return err
		}
	}
	for _, d := range s.URIs {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("%w: uri %q", ErrEmptyName, d.URI)
		}
		if _, err := uri.Validate([]byte(d.URI)); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidURI, d.Name, err)
		}
	}
	return nil
}

func (m MessageDef) validateFields() error {
	if len(m.Fields) == 0 || m.Fields[len(m.Fields)-1].Type != TypeMeta {
		return fmt.Errorf("%w: %s", ErrMissingMeta, m.Name)
	}
	seen := make(map[string]struct{}, len(m.Fields))
	for _, f := range m.Fields {
		if _, ok := fieldTypes[f.Type]; !ok {
			return fmt.Errorf("%w: %s.%s has type %q", ErrFieldType, m.Name, f.Name, f.Type)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateField, m.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// Message looks up a definition by code.
func (s *Spec) Message(code uint8) (MessageDef, bool) {
	for _, m := range s.Messages {
		if m.Code == code {
			return m, true
		}
	}
	return MessageDef{}, false
}

// MessageByName looks up a definition by name.
func (s *Spec) MessageByName(name string) (MessageDef, bool) {
	for _, m := range s.Messages {
		if m.Name == name {
			return m, true
		}
	}
	return MessageDef{}, false
}

// URI looks up a standard URI definition by name.
func (s *Spec) URI(name string) (URIDef, bool) {
	for _, d := range s.URIs {
		if d.Name == name {
			return d, true
		}
	}
	return URIDef{}, false
}

// FieldNames lists the declared field names in order.
func (m MessageDef) FieldNames() []string {
	out := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		out[i] = f.Name
	}
	return out
}
