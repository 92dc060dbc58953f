package dzx

import "github.com/samcharles93/dzx/pkg/fsbytes"

// fieldReader reads record fields relative to a record start. The first
// error sticks and later reads return zero values.
type fieldReader struct {
	b   *fsbytes.Buffer
	off int
	err error
}

func (r *fieldReader) u8(rel int) uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.b.U8(r.off + rel)
	r.err = err
	return v
}

func (r *fieldReader) u16(rel int) uint16 {
	if r.err != nil {
		return 0
	}
	v, err := r.b.U16(r.off + rel)
	r.err = err
	return v
}

func (r *fieldReader) u32(rel int) uint32 {
	if r.err != nil {
		return 0
	}
	v, err := r.b.U32(r.off + rel)
	r.err = err
	return v
}

func (r *fieldReader) f32(rel int) float32 {
	if r.err != nil {
		return 0
	}
	v, err := r.b.F32(r.off + rel)
	r.err = err
	return v
}

func (r *fieldReader) str(rel, n int) string {
	if r.err != nil {
		return ""
	}
	v, err := r.b.String(r.off+rel, n)
	r.err = err
	return v
}

func (r *fieldReader) raw(rel, n int) []byte {
	if r.err != nil {
		return nil
	}
	v, err := r.b.Raw(r.off+rel, n)
	r.err = err
	return v
}

// fieldWriter is the write-side counterpart of fieldReader.
type fieldWriter struct {
	b   *fsbytes.Buffer
	off int
	err error
}

func (w *fieldWriter) u8(rel int, v uint8) {
	if w.err == nil {
		w.err = w.b.PutU8(w.off+rel, v)
	}
}

func (w *fieldWriter) u16(rel int, v uint16) {
	if w.err == nil {
		w.err = w.b.PutU16(w.off+rel, v)
	}
}

func (w *fieldWriter) u32(rel int, v uint32) {
	if w.err == nil {
		w.err = w.b.PutU32(w.off+rel, v)
	}
}

func (w *fieldWriter) f32(rel int, v float32) {
	if w.err == nil {
		w.err = w.b.PutF32(w.off+rel, v)
	}
}

func (w *fieldWriter) str(rel int, s string, n int) {
	if w.err == nil {
		w.err = w.b.PutString(w.off+rel, s, n)
	}
}

func (w *fieldWriter) raw(rel int, p []byte) {
	if w.err == nil {
		w.err = w.b.PutRaw(w.off+rel, p)
	}
}

// bits is a packed sub-field of a parameter word.
type bits struct {
	mask  uint32
	shift uint
}

func (f bits) get(word uint32) uint32 {
	return (word & f.mask) >> f.shift
}

// set clears the field and ORs in v truncated to the field width.
func (f bits) set(word, v uint32) uint32 {
	width := f.mask >> f.shift
	return word&^f.mask | (v&width)<<f.shift
}
