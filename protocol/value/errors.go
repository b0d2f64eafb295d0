package value

import (
	"slices"
	"strings"
)

// UnexpectedType is produced by an invalid basic type conversion.
type UnexpectedType struct {
	Expected []BasicType
	Actual   BasicType
}

// Unexpected builds an *UnexpectedType owning a copy of expected.
func Unexpected(expected []BasicType, actual BasicType) *UnexpectedType {
	return &UnexpectedType{Expected: slices.Clone(expected), Actual: actual}
}

func (e *UnexpectedType) Error() string {
	names := make([]string, 0, len(e.Expected))
	for _, t := range e.Expected {
		names = append(names, t.String())
	}
	return "value: unexpected type " + e.Actual.String() + ", expected one of [" + strings.Join(names, ", ") + "]"
}

// Is matches an *UnexpectedType with the same actual and expected types.
func (e *UnexpectedType) Is(target error) bool {
	t, ok := target.(*UnexpectedType)
	if !ok {
		return false
	}
	return t.Actual == e.Actual && slices.Equal(t.Expected, e.Expected)
}

func mismatch(expected, actual BasicType) *UnexpectedType {
	return &UnexpectedType{Expected: []BasicType{expected}, Actual: actual}
}
