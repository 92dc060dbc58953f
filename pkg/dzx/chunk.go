package dzx

import (
	"fmt"
	"strings"

	"github.com/samcharles93/dzx/pkg/fsbytes"
)

// layeredPrefixes maps the on-disk prefixes whose 4th character is a layer
// digit to their canonical logical type.
var layeredPrefixes = map[string]Type{
	"TRE": TypeTreasure,
	"ACT": TypeActor,
	"SCO": TypeObject,
}

// Layered reports whether chunks of type t may carry a layer.
func Layered(t Type) bool {
	if len(t) != 4 {
		return false
	}
	canon, ok := layeredPrefixes[string(t[:3])]
	return ok && canon == t
}

// ParseCode splits an on-disk chunk code into its logical type and layer.
func ParseCode(code string) (Type, Layer) {
	if len(code) == 4 {
		if canon, ok := layeredPrefixes[code[:3]]; ok {
			layer, ok := layerFromChar(code[3])
			if !ok {
				layer = NoLayer
			}
			return canon, layer
		}
	}
	return Type(code), NoLayer
}

// Code builds the on-disk code for a logical type and layer.
func Code(t Type, layer Layer) (string, error) {
	if layer == NoLayer {
		return string(t), nil
	}
	c, err := layer.char()
	if err != nil {
		return "", err
	}
	if len(t) != 4 {
		return "", fmt.Errorf("%w: type %q cannot carry a layer", ErrInvalidLayer, t)
	}
	return string(t[:3]) + string(c), nil
}

// Chunk is one directory entry and the records it describes.
type Chunk struct {
	typ   Type
	layer Layer

	records []Record

	// placeholders counts the advertised entries of a chunk whose type has
	// no record kind. Such a chunk has no records and cannot be encoded.
	placeholders int

	code        string
	entryOffset int
	firstOffset uint32
}

func (c *Chunk) Type() Type { return c.typ }

func (c *Chunk) Layer() Layer { return c.layer }

// Records returns the decoded records in order. The slice is shared with
// the chunk.
func (c *Chunk) Records() []Record { return c.records }

// Len is the advertised entry count, placeholders included.
func (c *Chunk) Len() int { return len(c.records) + c.placeholders }

// Known reports whether the chunk type has a registered record kind.
func (c *Chunk) Known() bool { return Registered(c.typ) }

// Saveable reports whether Encode can write this chunk. A chunk of an
// unregistered type is never saveable, even with zero entries.
func (c *Chunk) Saveable() bool { return c.placeholders == 0 && c.Known() }

// Err is ErrUnknownSchema for chunks of an unregistered type.
func (c *Chunk) Err() error {
	if c.Known() {
		return nil
	}
	return fmt.Errorf("%w: %q (%d entries)", ErrUnknownSchema, string(c.typ), c.Len())
}

// DiskCode is the code the chunk was read with, or the code it was last
// written with.
func (c *Chunk) DiskCode() string { return c.code }

// FourCC builds the code Encode writes for the chunk.
func (c *Chunk) FourCC() (string, error) { return Code(c.typ, c.layer) }

// FirstOffset is the absolute offset of the first record as last read or
// written.
func (c *Chunk) FirstOffset() uint32 { return c.firstOffset }

func (c *Chunk) String() string {
	var sb strings.Builder
	sb.WriteString(string(c.typ))
	if c.layer != NoLayer {
		sb.WriteString("@")
		sb.WriteString(c.layer.String())
	}
	fmt.Fprintf(&sb, "[%d]", c.Len())
	return sb.String()
}

func (c *Chunk) read(b *fsbytes.Buffer, entryOffset int) error {
	c.entryOffset = entryOffset

	code, err := b.String(entryOffset, 4)
	if err != nil {
		return err
	}
	count, err := b.U32(entryOffset + 4)
	if err != nil {
		return err
	}
	first, err := b.U32(entryOffset + 8)
	if err != nil {
		return err
	}

	c.code = code
	c.firstOffset = first
	c.typ, c.layer = ParseCode(code)

	s, ok := schemas[c.typ]
	if !ok {
		c.placeholders = int(count)
		return nil
	}

	// Reject counts that cannot fit before allocating for them.
	if count > 0 && uint64(first)+uint64(count)*uint64(s.size) > uint64(b.Len()) {
		return fmt.Errorf("%w: %s chunk with %d records at %#x overruns %#x bytes",
			ErrCorruptFile, c.typ, count, first, b.Len())
	}

	c.records = make([]Record, 0, count)
	for i := 0; i < int(count); i++ {
		off := int(first) + i*s.size
		r := s.newRecord(c.typ)
		if err := r.decode(b, off); err != nil {
			return fmt.Errorf("%s record %d: %w", c.typ, i, err)
		}
		r.place(off)
		c.records = append(c.records, r)
	}
	return nil
}
