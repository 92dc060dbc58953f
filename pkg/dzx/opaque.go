package dzx

import (
	"fmt"

	"github.com/samcharles93/dzx/pkg/fsbytes"
)

// Opaque is a record of a registered type whose fields are not modelled.
// Raw holds exactly the type's record size and is written back unchanged.
type Opaque struct {
	placement `json:"-"`

	typ Type
	Raw []byte `json:"raw"`
}

func (r *Opaque) Type() Type { return r.typ }

func (r *Opaque) decode(b *fsbytes.Buffer, off int) error {
	size, _ := RecordSize(r.typ)
	fr := fieldReader{b: b, off: off}
	r.Raw = fr.raw(0, size)
	return fr.err
}

func (r *Opaque) encode(b *fsbytes.Buffer, off int) error {
	size, _ := RecordSize(r.typ)
	if len(r.Raw) != size {
		return fmt.Errorf("%w: %s record holds %d bytes, want %d", ErrFieldOverflow, r.typ, len(r.Raw), size)
	}
	fw := fieldWriter{b: b, off: off}
	fw.raw(0, r.Raw)
	return fw.err
}
