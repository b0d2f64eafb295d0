package kind

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/danmuck/lrpmp/internal/logging"
)

var (
	ErrCodeCollision = errors.New("kind: code collision")
	ErrNameCollision = errors.New("kind: name collision")
	ErrInvalidCustom = errors.New("kind: invalid custom kind")
)

// Registry resolves standard kinds and a fixed set of custom kinds. It is
// immutable once built, so concurrent reads are safe. A nil *Registry
// resolves standard kinds only.
type Registry struct {
	byCode map[uint8]CustomKind
	byName map[string]CustomKind
}

func NewRegistry(customs ...CustomKind) (*Registry, error) {
	r := &Registry{
		byCode: make(map[uint8]CustomKind, len(customs)),
		byName: make(map[string]CustomKind, len(customs)),
	}
	for _, c := range customs {
		if err := validateCustom(c); err != nil {
			return nil, err
		}
		if k, ok := StandardFromCode(c.Code); ok {
			return nil, fmt.Errorf("%w: %s uses code %d of %s", ErrCodeCollision, c.Name, c.Code, k)
		}
		if _, ok := StandardFromName(c.Name); ok {
			return nil, fmt.Errorf("%w: %s is a standard kind", ErrNameCollision, c.Name)
		}
		if prev, ok := r.byCode[c.Code]; ok {
			return nil, fmt.Errorf("%w: %s uses code %d of %s", ErrCodeCollision, c.Name, c.Code, prev.Name)
		}
		if _, ok := r.byName[c.Name]; ok {
			return nil, fmt.Errorf("%w: %s registered twice", ErrNameCollision, c.Name)
		}
		r.byCode[c.Code] = c
		r.byName[c.Name] = c
		logging.Debugf("kind registry custom=%s code=%d fields=%d..%d", c.Name, c.Code, c.MinFields, c.MaxFields)
	}
	return r, nil
}

func validateCustom(c CustomKind) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: code %d has no name", ErrInvalidCustom, c.Code)
	}
	if c.MinFields < 0 {
		return fmt.Errorf("%w: %s min fields %d", ErrInvalidCustom, c.Name, c.MinFields)
	}
	if c.MaxFields != Unbounded && c.MaxFields < c.MinFields {
		return fmt.Errorf("%w: %s max fields %d below min %d", ErrInvalidCustom, c.Name, c.MaxFields, c.MinFields)
	}
	return nil
}

// KnownFromCode consults standard kinds, then custom kinds.
func (r *Registry) KnownFromCode(code uint8) (KnownKind, bool) {
	if k, ok := KnownFromCode(code); ok {
		return k, true
	}
	if r == nil {
		return KnownKind{}, false
	}
	c, ok := r.byCode[code]
	if !ok {
		return KnownKind{}, false
	}
	return Custom(c), true
}

// KnownFromName consults standard kinds, then custom kinds.
func (r *Registry) KnownFromName(name string) (KnownKind, bool) {
	if k, ok := KnownFromName(name); ok {
		return k, true
	}
	if r == nil {
		return KnownKind{}, false
	}
	c, ok := r.byName[name]
	if !ok {
		return KnownKind{}, false
	}
	return Custom(c), true
}

func (r *Registry) FromCode(code uint8) Kind {
	if k, ok := r.KnownFromCode(code); ok {
		return Known(k)
	}
	return Unknown(UnknownCode(code))
}

func (r *Registry) FromName(name string) Kind {
	if k, ok := r.KnownFromName(name); ok {
		return Known(k)
	}
	return Unknown(UnknownName(name))
}

// Resolve retries resolution of an unknown kind against the custom kinds.
func (r *Registry) Resolve(k Kind) Kind {
	u, ok := k.Unknown()
	if !ok {
		return k
	}
	if name, ok := u.Name(); ok {
		return r.FromName(name)
	}
	code, _ := u.Code()
	return r.FromCode(code)
}

// Customs lists the registered custom kinds in code order.
func (r *Registry) Customs() []CustomKind {
	if r == nil {
		return nil
	}
	out := make([]CustomKind, 0, len(r.byCode))
	for _, c := range r.byCode {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b CustomKind) int { return int(a.Code) - int(b.Code) })
	return out
}
