// Package kind maps message kind codes and names to their field counts.
//
// Ownership boundary:
// - the standard kind table, loaded from the embedded definitions at init
// - custom kinds and the immutable Registry that resolves them
// - the Kind value carried on the wire, including unknown kinds
package kind

import (
	"fmt"
	"slices"

	"github.com/danmuck/lrpmp/protocol/spec"
)

// StandardKind is one of the closed set of protocol kinds. Its value is the
// wire code.
type StandardKind uint8

const (
	Goodbye      StandardKind = 1
	Hello        StandardKind = 2
	Prove        StandardKind = 3
	Proof        StandardKind = 4
	Error        StandardKind = 20
	Cancel       StandardKind = 21
	Call         StandardKind = 40
	Result       StandardKind = 41
	Event        StandardKind = 60
	Publish      StandardKind = 61
	Published    StandardKind = 62
	Subscribe    StandardKind = 63
	Subscribed   StandardKind = 64
	Unsubscribe  StandardKind = 65
	Unsubscribed StandardKind = 66
)

var standardKinds = []StandardKind{
	Goodbye, Hello, Prove, Proof,
	Error, Cancel,
	Call, Result,
	Event, Publish, Published, Subscribe, Subscribed, Unsubscribe, Unsubscribed,
}

type standardDef struct {
	name   string
	fields []string
}

var (
	standardByCode map[StandardKind]standardDef
	standardByName map[string]StandardKind
)

func init() {
	if err := loadStandard(spec.MustDefault()); err != nil {
		panic(err)
	}
}

// loadStandard fills the static table from the definitions and fails on
// any drift between them and the declared constants.
func loadStandard(s *spec.Spec) error {
	byCode := make(map[StandardKind]standardDef, len(standardKinds))
	byName := make(map[string]StandardKind, len(standardKinds))
	for _, k := range standardKinds {
		def, ok := s.Message(uint8(k))
		if !ok {
			return fmt.Errorf("kind: code %d has no definition", uint8(k))
		}
		byCode[k] = standardDef{name: def.Name, fields: def.FieldNames()}
		byName[def.Name] = k
	}
	if len(s.Messages) != len(standardKinds) {
		return fmt.Errorf("kind: definitions declare %d messages, expected %d", len(s.Messages), len(standardKinds))
	}
	standardByCode = byCode
	standardByName = byName
	return nil
}

// StandardKinds lists every standard kind in code order.
func StandardKinds() []StandardKind {
	return slices.Clone(standardKinds)
}

func StandardFromCode(code uint8) (StandardKind, bool) {
	k := StandardKind(code)
	_, ok := standardByCode[k]
	return k, ok
}

func StandardFromName(name string) (StandardKind, bool) {
	k, ok := standardByName[name]
	return k, ok
}

func (k StandardKind) Code() uint8 { return uint8(k) }

func (k StandardKind) Name() string {
	return standardByCode[k].name
}

// FieldCount returns the declared field count after the kind code. Standard
// kinds have a fixed count so min equals max.
func (k StandardKind) FieldCount() (min, max int) {
	n := len(standardByCode[k].fields)
	return n, n
}

// FieldNames lists the declared field names in wire order.
func (k StandardKind) FieldNames() []string {
	return slices.Clone(standardByCode[k].fields)
}

func (k StandardKind) String() string {
	if def, ok := standardByCode[k]; ok {
		return def.name
	}
	return fmt.Sprintf("StandardKind(%d)", uint8(k))
}
