package dzx

import "github.com/samcharles93/dzx/pkg/fsbytes"

var (
	chestTypeBits             = bits{0x00F00000, 20}
	appearConditionSwitchBits = bits{0x000FF000, 12}
	openedFlagBits            = bits{0x00000F80, 7}
	appearConditionTypeBits   = bits{0x0000007F, 0}
)

// Treasure is a TRES record: a placed treasure chest.
type Treasure struct {
	placement `json:"-"`

	Name    string  `json:"name"`
	Params  uint32  `json:"params"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Z       float32 `json:"z"`
	RoomNum uint16  `json:"room_num"`
	YRot    uint16  `json:"y_rot"`
	ItemID  uint8   `json:"item_id"`
	FlagID  uint8   `json:"flag_id"`
	Padding uint16  `json:"padding"`
}

func (*Treasure) Type() Type { return TypeTreasure }

func (r *Treasure) decode(b *fsbytes.Buffer, off int) error {
	fr := fieldReader{b: b, off: off}
	r.Name = fr.str(0x00, nameSize)
	r.Params = fr.u32(0x08)
	r.X = fr.f32(0x0C)
	r.Y = fr.f32(0x10)
	r.Z = fr.f32(0x14)
	r.RoomNum = fr.u16(0x18)
	r.YRot = fr.u16(0x1A)
	r.ItemID = fr.u8(0x1C)
	r.FlagID = fr.u8(0x1D)
	r.Padding = fr.u16(0x1E)
	return fr.err
}

func (r *Treasure) encode(b *fsbytes.Buffer, off int) error {
	fw := fieldWriter{b: b, off: off}
	fw.str(0x00, r.Name, nameSize)
	fw.u32(0x08, r.Params)
	fw.f32(0x0C, r.X)
	fw.f32(0x10, r.Y)
	fw.f32(0x14, r.Z)
	fw.u16(0x18, r.RoomNum)
	fw.u16(0x1A, r.YRot)
	fw.u8(0x1C, r.ItemID)
	fw.u8(0x1D, r.FlagID)
	fw.u16(0x1E, r.Padding)
	return fw.err
}

func (r *Treasure) ChestType() uint8 { return uint8(chestTypeBits.get(r.Params)) }

func (r *Treasure) SetChestType(v uint8) {
	r.Params = chestTypeBits.set(r.Params, uint32(v))
}

func (r *Treasure) AppearConditionSwitch() uint8 {
	return uint8(appearConditionSwitchBits.get(r.Params))
}

func (r *Treasure) SetAppearConditionSwitch(v uint8) {
	r.Params = appearConditionSwitchBits.set(r.Params, uint32(v))
}

// OpenedFlag shifts the masked bits right by 8 while SetOpenedFlag shifts
// left by 7, so the two are not inverses.
func (r *Treasure) OpenedFlag() uint8 {
	return uint8((r.Params & openedFlagBits.mask) >> 8)
}

func (r *Treasure) SetOpenedFlag(v uint8) {
	r.Params = openedFlagBits.set(r.Params, uint32(v))
}

func (r *Treasure) AppearConditionType() uint8 {
	return uint8(appearConditionTypeBits.get(r.Params))
}

func (r *Treasure) SetAppearConditionType(v uint8) {
	r.Params = appearConditionTypeBits.set(r.Params, uint32(v))
}
