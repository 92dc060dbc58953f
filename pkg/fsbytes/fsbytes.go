// Package fsbytes provides bounds-checked fixed-width accessors over a
// growable byte buffer.
//
// All multi-byte values are big-endian. Reads outside the buffer fail with
// ErrOutOfRange; writes past the end grow the buffer, zero-filling any gap.
package fsbytes

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrOutOfRange    = errors.New("fsbytes: offset out of range")
	ErrStringTooLong = errors.New("fsbytes: string too long")
)

// Buffer is a growable byte store addressed by absolute offsets.
type Buffer struct {
	data []byte
}

// New wraps data. The buffer takes ownership of the slice.
func New(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Len returns the current buffer length.
func (b *Buffer) Len() int { return len(b.data) }

// Bytes returns the backing slice. It is invalidated by the next write that
// grows the buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// Truncate shrinks the buffer to n bytes.
func (b *Buffer) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(b.data) {
		b.data = b.data[:n]
	}
}

func (b *Buffer) span(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > len(b.data)-n {
		return nil, fmt.Errorf("%w: [%#x, %#x) of %#x", ErrOutOfRange, off, off+n, len(b.data))
	}
	return b.data[off : off+n], nil
}

func (b *Buffer) grow(off, n int) ([]byte, error) {
	if off < 0 || n < 0 {
		return nil, fmt.Errorf("%w: write at %#x", ErrOutOfRange, off)
	}
	end := off + n
	if end > len(b.data) {
		if end > cap(b.data) {
			next := make([]byte, end, max(end, 2*cap(b.data)))
			copy(next, b.data)
			b.data = next
		} else {
			tail := b.data[len(b.data):end]
			clear(tail)
			b.data = b.data[:end]
		}
	}
	return b.data[off:end], nil
}

func (b *Buffer) U8(off int) (uint8, error) {
	p, err := b.span(off, 1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (b *Buffer) U16(off int) (uint16, error) {
	p, err := b.span(off, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

func (b *Buffer) U32(off int) (uint32, error) {
	p, err := b.span(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

func (b *Buffer) F32(off int) (float32, error) {
	u, err := b.U32(off)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// String reads a fixed-length field of n bytes with trailing NULs removed.
// Bytes before the last non-NUL byte, including inner NULs, are kept.
func (b *Buffer) String(off, n int) (string, error) {
	p, err := b.span(off, n)
	if err != nil {
		return "", err
	}
	end := len(p)
	for end > 0 && p[end-1] == 0 {
		end--
	}
	return string(p[:end]), nil
}

// Raw returns a copy of n bytes at off.
func (b *Buffer) Raw(off, n int) ([]byte, error) {
	p, err := b.span(off, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, p)
	return out, nil
}

func (b *Buffer) PutU8(off int, v uint8) error {
	p, err := b.grow(off, 1)
	if err != nil {
		return err
	}
	p[0] = v
	return nil
}

func (b *Buffer) PutU16(off int, v uint16) error {
	p, err := b.grow(off, 2)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(p, v)
	return nil
}

func (b *Buffer) PutU32(off int, v uint32) error {
	p, err := b.grow(off, 4)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(p, v)
	return nil
}

func (b *Buffer) PutF32(off int, v float32) error {
	return b.PutU32(off, math.Float32bits(v))
}

// PutString writes s into a field of n bytes, NUL-padding the remainder.
// A string that fills the whole field is written without a terminator.
func (b *Buffer) PutString(off int, s string, n int) error {
	if len(s) > n {
		return fmt.Errorf("%w: %q exceeds %d bytes", ErrStringTooLong, s, n)
	}
	p, err := b.grow(off, n)
	if err != nil {
		return err
	}
	copy(p, s)
	clear(p[len(s):])
	return nil
}

func (b *Buffer) PutRaw(off int, src []byte) error {
	p, err := b.grow(off, len(src))
	if err != nil {
		return err
	}
	copy(p, src)
	return nil
}

// Fill writes n copies of v at off.
func (b *Buffer) Fill(off, n int, v byte) error {
	p, err := b.grow(off, n)
	if err != nil {
		return err
	}
	for i := range p {
		p[i] = v
	}
	return nil
}
