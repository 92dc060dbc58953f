package dzx

import (
	"fmt"

	"github.com/samcharles93/dzx/pkg/fsbytes"
)

const maxStageID = 0x7FFF

// StageInfo is a STAG record: per-stage rendering and identity settings.
type StageInfo struct {
	placement `json:"-"`

	DepthMin           float32 `json:"depth_min"`
	DepthMax           float32 `json:"depth_max"`
	IsDungeon          bool    `json:"is_dungeon"`
	StageID            uint16  `json:"stage_id"`
	LoadedParticleBank uint16  `json:"loaded_particle_bank"`
	PropertyIndex      uint16  `json:"property_index"`
	Unknown1           uint8   `json:"unknown1"`
	Unknown2           uint8   `json:"unknown2"`
	Unknown3           uint8   `json:"unknown3"`
	Unknown4           uint8   `json:"unknown4"`
	DrawRange          uint16  `json:"draw_range"`
}

func (*StageInfo) Type() Type { return TypeStage }

// IsDungeonAndStageID is the packed form stored at offset 8.
func (r *StageInfo) IsDungeonAndStageID() uint16 {
	v := r.StageID << 1
	if r.IsDungeon {
		v |= 1
	}
	return v
}

func (r *StageInfo) SetIsDungeonAndStageID(v uint16) {
	r.IsDungeon = v&1 != 0
	r.StageID = v >> 1
}

func (r *StageInfo) decode(b *fsbytes.Buffer, off int) error {
	fr := fieldReader{b: b, off: off}
	r.DepthMin = fr.f32(0x00)
	r.DepthMax = fr.f32(0x04)
	r.SetIsDungeonAndStageID(fr.u16(0x08))
	r.LoadedParticleBank = fr.u16(0x0A)
	r.PropertyIndex = fr.u16(0x0C)
	r.Unknown1 = fr.u8(0x0E)
	r.Unknown2 = fr.u8(0x0F)
	r.Unknown3 = fr.u8(0x10)
	r.Unknown4 = fr.u8(0x11)
	r.DrawRange = fr.u16(0x12)
	return fr.err
}

func (r *StageInfo) encode(b *fsbytes.Buffer, off int) error {
	if r.StageID > maxStageID {
		return fmt.Errorf("%w: stage id %#x exceeds %#x", ErrFieldOverflow, r.StageID, maxStageID)
	}
	fw := fieldWriter{b: b, off: off}
	fw.f32(0x00, r.DepthMin)
	fw.f32(0x04, r.DepthMax)
	fw.u16(0x08, r.IsDungeonAndStageID())
	fw.u16(0x0A, r.LoadedParticleBank)
	fw.u16(0x0C, r.PropertyIndex)
	fw.u8(0x0E, r.Unknown1)
	fw.u8(0x0F, r.Unknown2)
	fw.u8(0x10, r.Unknown3)
	fw.u8(0x11, r.Unknown4)
	fw.u16(0x12, r.DrawRange)
	return fw.err
}
