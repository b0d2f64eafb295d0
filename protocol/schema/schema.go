// Package schema checks decoded field lists against the declared shape of
// their kind before they are handed to application code.
package schema

import (
	"fmt"

	"github.com/danmuck/lrpmp/internal/logging"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/spec"
	"github.com/danmuck/lrpmp/protocol/value"
)

const (
	ReasonFieldCount   = "field count out of range"
	ReasonTypeMismatch = "type mismatch"
)

// Requirement is one declared field position of a standard kind.
type Requirement struct {
	Field   string
	Type    string
	Accepts []value.BasicType
}

type ValidationError struct {
	Kind     kind.KnownKind
	Position int
	Field    string
	Reason   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: kind=%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("schema: kind=%s field=%d(%s): %s", e.Kind, e.Position, e.Field, e.Reason)
}

var requirements = buildRequirements(spec.MustDefault())

func buildRequirements(s *spec.Spec) map[kind.StandardKind][]Requirement {
	out := make(map[kind.StandardKind][]Requirement, len(s.Messages))
	for _, m := range s.Messages {
		k, ok := kind.StandardFromCode(m.Code)
		if !ok {
			continue
		}
		reqs := make([]Requirement, 0, len(m.Fields))
		for _, f := range m.Fields {
			accepts, _ := spec.Accepts(f.Type)
			reqs = append(reqs, Requirement{Field: f.Name, Type: f.Type, Accepts: accepts})
		}
		out[k] = reqs
	}
	return out
}

// Requirements returns the declared positions of a standard kind.
func Requirements(k kind.StandardKind) []Requirement {
	return requirements[k]
}

// Validate enforces the field count range of k and, for standard kinds, the
// accepted basic types of each position. Custom kinds are checked by count
// only.
func Validate(k kind.KnownKind, fields []value.BasicValue) error {
	logging.Debugf("schema.Validate kind=%s fields=%d", k, len(fields))
	if !k.Accepts(len(fields)) {
		min, max := k.FieldCount()
		logging.Errf("schema.Validate field count kind=%s got=%d want=%d..%d", k, len(fields), min, max)
		return ValidationError{Kind: k, Position: -1, Reason: ReasonFieldCount}
	}
	std, ok := k.Standard()
	if !ok {
		return nil
	}
	for i, req := range requirements[std] {
		if err := value.Expect(fields[i], req.Accepts...); err != nil {
			logging.Errf(
				"schema.Validate type mismatch kind=%s field=%s got=%s want=%s",
				k,
				req.Field,
				fields[i].Type(),
				req.Type,
			)
			return ValidationError{Kind: k, Position: i, Field: req.Field, Reason: ReasonTypeMismatch}
		}
	}
	logging.Debugf("schema.Validate ok kind=%s", k)
	return nil
}
