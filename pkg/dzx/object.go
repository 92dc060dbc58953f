package dzx

import (
	"slices"

	"github.com/samcharles93/dzx/pkg/fsbytes"
)

var (
	salvageNames = []string{
		"Salvage",
		"SwSlvg",
		"Salvag2",
		"SalvagN",
		"SalvagE",
		"SalvFM",
	}
	buriedPigItemNames = []string{
		"TagKb",
	}
)

var (
	salvageTypeBits            = bits{0xF0000000, 28}
	salvageItemIDBits          = bits{0x00000FF0, 4}
	salvageChartIndexPlus1Bits = bits{0x0FF00000, 20}
	buriedPigItemIDBits        = bits{0x000000FF, 0}

	// Lives in Unknown1, not Params.
	salvageDuplicateIDBits = bits{0x0003, 0}
)

// ScaleableObject is a SCOB record: scenery with a per-axis scale.
type ScaleableObject struct {
	placement `json:"-"`

	Name           string  `json:"name"`
	Params         uint32  `json:"params"`
	X              float32 `json:"x"`
	Y              float32 `json:"y"`
	Z              float32 `json:"z"`
	AuxiliaryParam uint16  `json:"auxiliary_param"`
	YRot           uint16  `json:"y_rot"`
	Unknown1       uint16  `json:"unknown1"`
	Unknown2       uint16  `json:"unknown2"`
	ScaleX         uint8   `json:"scale_x"`
	ScaleY         uint8   `json:"scale_y"`
	ScaleZ         uint8   `json:"scale_z"`
	Padding        uint8   `json:"padding"`
}

func (*ScaleableObject) Type() Type { return TypeObject }

func (r *ScaleableObject) decode(b *fsbytes.Buffer, off int) error {
	fr := fieldReader{b: b, off: off}
	r.Name = fr.str(0x00, nameSize)
	r.Params = fr.u32(0x08)
	r.X = fr.f32(0x0C)
	r.Y = fr.f32(0x10)
	r.Z = fr.f32(0x14)
	r.AuxiliaryParam = fr.u16(0x18)
	r.YRot = fr.u16(0x1A)
	r.Unknown1 = fr.u16(0x1C)
	r.Unknown2 = fr.u16(0x1E)
	r.ScaleX = fr.u8(0x20)
	r.ScaleY = fr.u8(0x21)
	r.ScaleZ = fr.u8(0x22)
	r.Padding = fr.u8(0x23)
	return fr.err
}

func (r *ScaleableObject) encode(b *fsbytes.Buffer, off int) error {
	fw := fieldWriter{b: b, off: off}
	fw.str(0x00, r.Name, nameSize)
	fw.u32(0x08, r.Params)
	fw.f32(0x0C, r.X)
	fw.f32(0x10, r.Y)
	fw.f32(0x14, r.Z)
	fw.u16(0x18, r.AuxiliaryParam)
	fw.u16(0x1A, r.YRot)
	fw.u16(0x1C, r.Unknown1)
	fw.u16(0x1E, r.Unknown2)
	fw.u8(0x20, r.ScaleX)
	fw.u8(0x21, r.ScaleY)
	fw.u8(0x22, r.ScaleZ)
	fw.u8(0x23, r.Padding)
	return fw.err
}

func (r *ScaleableObject) IsSalvage() bool {
	return slices.Contains(salvageNames, r.Name)
}

func (r *ScaleableObject) IsBuriedPigItem() bool {
	return slices.Contains(buriedPigItemNames, r.Name)
}

func (r *ScaleableObject) SalvageType() uint8 { return uint8(salvageTypeBits.get(r.Params)) }

func (r *ScaleableObject) SetSalvageType(v uint8) {
	r.Params = salvageTypeBits.set(r.Params, uint32(v))
}

func (r *ScaleableObject) SalvageItemID() uint8 { return uint8(salvageItemIDBits.get(r.Params)) }

func (r *ScaleableObject) SetSalvageItemID(v uint8) {
	r.Params = salvageItemIDBits.set(r.Params, uint32(v))
}

func (r *ScaleableObject) SalvageChartIndexPlus1() uint8 {
	return uint8(salvageChartIndexPlus1Bits.get(r.Params))
}

func (r *ScaleableObject) SetSalvageChartIndexPlus1(v uint8) {
	r.Params = salvageChartIndexPlus1Bits.set(r.Params, uint32(v))
}

func (r *ScaleableObject) SalvageDuplicateID() uint8 {
	return uint8(salvageDuplicateIDBits.get(uint32(r.Unknown1)))
}

func (r *ScaleableObject) SetSalvageDuplicateID(v uint8) {
	r.Unknown1 = uint16(salvageDuplicateIDBits.set(uint32(r.Unknown1), uint32(v)))
}

func (r *ScaleableObject) BuriedPigItemID() uint8 {
	return uint8(buriedPigItemIDBits.get(r.Params))
}

func (r *ScaleableObject) SetBuriedPigItemID(v uint8) {
	r.Params = buriedPigItemIDBits.set(r.Params, uint32(v))
}
