package dzx

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/samcharles93/dzx/pkg/fsbytes"
)

// Container is a decoded DZR/DZS file: an ordered list of chunks over a byte
// buffer the container owns.
//
// A Container is not safe for concurrent use.
type Container struct {
	buf    *fsbytes.Buffer
	chunks []*Chunk
}

// New returns an empty container.
func New() *Container {
	return &Container{buf: fsbytes.New(nil)}
}

// Decode parses data into a container. The container keeps its own copy.
//
// Chunks of unregistered types do not fail decoding; they are kept with
// placeholder entries (see Chunk.Err). Only a buffer too short for its own
// directory or records is rejected, with ErrCorruptFile.
func Decode(data []byte) (*Container, error) {
	buf := fsbytes.New(bytes.Clone(data))

	count, err := buf.U32(0)
	if err != nil {
		return nil, fmt.Errorf("%w: missing chunk count: %w", ErrCorruptFile, err)
	}
	dirEnd := uint64(HeaderSize) + uint64(count)*EntrySize
	if dirEnd > uint64(buf.Len()) {
		return nil, fmt.Errorf("%w: directory of %d chunks overruns %#x bytes", ErrCorruptFile, count, buf.Len())
	}

	c := &Container{buf: buf, chunks: make([]*Chunk, 0, count)}
	for i := range int(count) {
		ch := &Chunk{}
		if err := ch.read(buf, HeaderSize+i*EntrySize); err != nil {
			if errors.Is(err, fsbytes.ErrOutOfRange) {
				err = fmt.Errorf("%w: chunk %d: %w", ErrCorruptFile, i, err)
			}
			return nil, err
		}
		c.chunks = append(c.chunks, ch)
	}
	return c, nil
}

// Bytes returns the buffer from the last decode or successful encode.
func (c *Container) Bytes() []byte { return c.buf.Bytes() }

// Chunks returns the chunks in directory order. The slice is shared.
func (c *Container) Chunks() []*Chunk { return c.chunks }

// ChunkAt returns the i-th chunk in directory order, or nil when i is out of
// range.
func (c *Container) ChunkAt(i int) *Chunk {
	if i < 0 || i >= len(c.chunks) {
		return nil
	}
	return c.chunks[i]
}

// ChunkSummary describes one directory entry for listings.
type ChunkSummary struct {
	Index       int
	Code        string
	Type        Type
	Layer       Layer
	Count       int
	FirstOffset uint32
	// RecordSize is 0 for chunks without a registered kind.
	RecordSize int
	Known      bool
}

// Summary lists every chunk in directory order.
func (c *Container) Summary() []ChunkSummary {
	out := make([]ChunkSummary, 0, len(c.chunks))
	for i, ch := range c.chunks {
		size, _ := RecordSize(ch.typ)
		out = append(out, ChunkSummary{
			Index:       i,
			Code:        ch.code,
			Type:        ch.typ,
			Layer:       ch.layer,
			Count:       ch.Len(),
			FirstOffset: ch.firstOffset,
			RecordSize:  size,
			Known:       ch.Known(),
		})
	}
	return out
}

// Chunk returns the first chunk matching type and layer, or nil.
func (c *Container) Chunk(t Type, layer Layer) *Chunk {
	for _, ch := range c.chunks {
		if ch.typ == t && ch.layer == layer {
			return ch
		}
	}
	return nil
}

// RecordsByType returns the records of every chunk of type t, on any layer,
// in chunk order.
func (c *Container) RecordsByType(t Type) []Record {
	var out []Record
	for _, ch := range c.chunks {
		if ch.typ == t {
			out = append(out, ch.records...)
		}
	}
	return out
}

// RecordsByTypeAndLayer is RecordsByType restricted to one layer. NoLayer
// selects only chunks without a layer.
func (c *Container) RecordsByTypeAndLayer(t Type, layer Layer) []Record {
	var out []Record
	for _, ch := range c.chunks {
		if ch.typ == t && ch.layer == layer {
			out = append(out, ch.records...)
		}
	}
	return out
}

// Entries returns the records of type t as their concrete kind.
func Entries[T Record](c *Container, t Type) []T {
	return castRecords[T](c.RecordsByType(t))
}

// EntriesOnLayer returns the records of type t on layer as their concrete kind.
func EntriesOnLayer[T Record](c *Container, t Type, layer Layer) []T {
	return castRecords[T](c.RecordsByTypeAndLayer(t, layer))
}

func castRecords[T Record](in []Record) []T {
	out := make([]T, 0, len(in))
	for _, r := range in {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Append adds a zero-initialised record of type t on layer and returns it for
// the caller to fill in. The record goes into the first chunk with the same
// type and layer; a new chunk is added at the end when there is none.
func (c *Container) Append(t Type, layer Layer) (Record, error) {
	s, ok := schemas[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnregisteredType, string(t))
	}
	if !layer.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLayer, int(layer))
	}
	if layer != NoLayer && !Layered(t) {
		return nil, fmt.Errorf("%w: %s chunks have no layers", ErrInvalidLayer, t)
	}

	ch := c.Chunk(t, layer)
	if ch == nil {
		ch = &Chunk{typ: t, layer: layer}
		c.chunks = append(c.chunks, ch)
	}
	r := s.newRecord(t)
	ch.records = append(ch.records, r)
	return r, nil
}

// Size returns the encoded size, padding included.
func (c *Container) Size() int {
	n := HeaderSize + len(c.chunks)*EntrySize
	for _, ch := range c.chunks {
		if s, ok := schemas[ch.typ]; ok {
			n += len(ch.records) * s.size
		}
	}
	return align(n, Alignment)
}

// Encode rebuilds the whole byte layout: chunk count, directory, then every
// chunk's records in order, padded with PadByte to a multiple of Alignment.
//
// The container's buffer is replaced only when encoding succeeds. A chunk of
// an unregistered type fails with ErrUnsavableChunk.
func (c *Container) Encode() ([]byte, error) {
	codes := make([]string, len(c.chunks))
	for i, ch := range c.chunks {
		if !ch.Saveable() {
			return nil, fmt.Errorf("%w: %s", ErrUnsavableChunk, ch.typ)
		}
		code, err := ch.FourCC()
		if err != nil {
			return nil, fmt.Errorf("chunk %d (%s): %w", i, ch.typ, err)
		}
		codes[i] = code
	}

	out := fsbytes.New(make([]byte, 0, c.Size()))
	if err := out.PutU32(0, uint32(len(c.chunks))); err != nil {
		return nil, err
	}

	// Directory with zeroed first-record offsets; patched below.
	entries := make([]int, len(c.chunks))
	off := HeaderSize
	for i, ch := range c.chunks {
		entries[i] = off
		if err := out.PutString(off, codes[i], 4); err != nil {
			return nil, err
		}
		if err := out.PutU32(off+4, uint32(len(ch.records))); err != nil {
			return nil, err
		}
		if err := out.PutU32(off+8, 0); err != nil {
			return nil, err
		}
		off += EntrySize
	}

	firsts := make([]uint32, len(c.chunks))
	placed := make([][]int, len(c.chunks))
	for i, ch := range c.chunks {
		firsts[i] = uint32(off)
		if err := out.PutU32(entries[i]+8, firsts[i]); err != nil {
			return nil, err
		}
		size := schemas[ch.typ].size
		placed[i] = make([]int, len(ch.records))
		for j, r := range ch.records {
			if err := r.encode(out, off); err != nil {
				return nil, fmt.Errorf("%s record %d: %w", ch.typ, j, err)
			}
			placed[i][j] = off
			off += size
		}
	}

	if pad := align(off, Alignment) - off; pad > 0 {
		if err := out.Fill(off, pad, PadByte); err != nil {
			return nil, err
		}
	}

	for i, ch := range c.chunks {
		ch.code = codes[i]
		ch.entryOffset = entries[i]
		ch.firstOffset = firsts[i]
		for j, r := range ch.records {
			r.place(placed[i][j])
		}
	}
	c.buf = out
	return out.Bytes(), nil
}
