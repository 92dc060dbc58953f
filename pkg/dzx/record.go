package dzx

import (
	"fmt"

	"github.com/samcharles93/dzx/pkg/fsbytes"
)

// Record is one fixed-size entry of a chunk.
//
// The set of implementations is closed: every registered type maps to one of
// Treasure, ScaleableObject, Actor, PlayerSpawn, Exit, StageInfo or Opaque.
type Record interface {
	// Type is the logical type of the chunk the record belongs to.
	Type() Type
	// Offset is the absolute offset assigned by the last decode or encode,
	// or -1 for a record that has never been placed.
	Offset() int

	decode(b *fsbytes.Buffer, off int) error
	encode(b *fsbytes.Buffer, off int) error
	place(off int)
}

type placement struct {
	offset int
}

func (p *placement) Offset() int { return p.offset }

func (p *placement) place(off int) { p.offset = off }

func unplaced() placement { return placement{offset: -1} }

// RecordSize returns the fixed on-disk size of records of type t.
func RecordSize(t Type) (int, bool) {
	s, ok := schemas[t]
	return s.size, ok
}

// Registered reports whether t has a record kind.
func Registered(t Type) bool {
	_, ok := schemas[t]
	return ok
}

// Validate encodes r into a scratch buffer and reports the field error Encode
// would fail with, if any. Neither r nor any container is changed.
func Validate(r Record) error {
	size, ok := RecordSize(r.Type())
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnregisteredType, r.Type())
	}
	if err := r.encode(fsbytes.New(make([]byte, 0, size)), 0); err != nil {
		return fmt.Errorf("%s record: %w", r.Type(), err)
	}
	return nil
}
