package config

import (
	"github.com/danmuck/lrpmp/protocol/kind"
)

// Kinds converts the configured custom kinds. A negative MaxFields becomes
// kind.Unbounded.
func Kinds(entries []CustomKindConfig) []kind.CustomKind {
	kinds := make([]kind.CustomKind, 0, len(entries))
	for _, entry := range entries {
		maxFields := entry.MaxFields
		if maxFields < 0 {
			maxFields = kind.Unbounded
		}
		kinds = append(kinds, kind.CustomKind{
			Name:      entry.Name,
			Code:      entry.Code,
			MinFields: entry.MinFields,
			MaxFields: maxFields,
		})
	}
	return kinds
}

// Registry builds the kind registry for the configured custom kinds.
func (c Config) Registry() (*kind.Registry, error) {
	return kind.NewRegistry(Kinds(c.CustomKinds)...)
}
