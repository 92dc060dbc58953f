package dzx

import (
	"slices"

	"github.com/samcharles93/dzx/pkg/fsbytes"
)

var (
	itemNames     = []string{"item", "itemFLY"}
	bossItemNames = []string{"Bitem"}
)

var (
	itemIDBits          = bits{0x000000FF, 0}
	itemFlagBits        = bits{0x0000FF00, 8}
	bossItemStageIDBits = bits{0x000000FF, 0}
	bossItemIDBits      = bits{0x0000FF00, 8}
)

// Actor is an ACTR record: a placed actor such as an enemy, NPC or item.
type Actor struct {
	placement `json:"-"`

	Name        string  `json:"name"`
	Params      uint32  `json:"params"`
	X           float32 `json:"x"`
	Y           float32 `json:"y"`
	Z           float32 `json:"z"`
	XRot        uint16  `json:"x_rot"`
	YRot        uint16  `json:"y_rot"`
	SetFlag     uint16  `json:"set_flag"`
	EnemyNumber uint16  `json:"enemy_number"`
}

func (*Actor) Type() Type { return TypeActor }

func (r *Actor) decode(b *fsbytes.Buffer, off int) error {
	fr := fieldReader{b: b, off: off}
	r.Name = fr.str(0x00, nameSize)
	r.Params = fr.u32(0x08)
	r.X = fr.f32(0x0C)
	r.Y = fr.f32(0x10)
	r.Z = fr.f32(0x14)
	r.XRot = fr.u16(0x18)
	r.YRot = fr.u16(0x1A)
	r.SetFlag = fr.u16(0x1C)
	r.EnemyNumber = fr.u16(0x1E)
	return fr.err
}

func (r *Actor) encode(b *fsbytes.Buffer, off int) error {
	fw := fieldWriter{b: b, off: off}
	fw.str(0x00, r.Name, nameSize)
	fw.u32(0x08, r.Params)
	fw.f32(0x0C, r.X)
	fw.f32(0x10, r.Y)
	fw.f32(0x14, r.Z)
	fw.u16(0x18, r.XRot)
	fw.u16(0x1A, r.YRot)
	fw.u16(0x1C, r.SetFlag)
	fw.u16(0x1E, r.EnemyNumber)
	return fw.err
}

func (r *Actor) IsItem() bool { return slices.Contains(itemNames, r.Name) }

func (r *Actor) IsBossItem() bool { return slices.Contains(bossItemNames, r.Name) }

func (r *Actor) ItemID() uint8 { return uint8(itemIDBits.get(r.Params)) }

func (r *Actor) SetItemID(v uint8) { r.Params = itemIDBits.set(r.Params, uint32(v)) }

func (r *Actor) ItemFlag() uint8 { return uint8(itemFlagBits.get(r.Params)) }

func (r *Actor) SetItemFlag(v uint8) { r.Params = itemFlagBits.set(r.Params, uint32(v)) }

func (r *Actor) BossItemStageID() uint8 { return uint8(bossItemStageIDBits.get(r.Params)) }

func (r *Actor) SetBossItemStageID(v uint8) {
	r.Params = bossItemStageIDBits.set(r.Params, uint32(v))
}

// BossItemID is not part of the vanilla boss item parameters. The getter
// returns the masked bits in place (not shifted down) while the setter
// shifts its argument up by 8.
func (r *Actor) BossItemID() uint16 {
	return uint16(r.Params & bossItemIDBits.mask)
}

func (r *Actor) SetBossItemID(v uint8) {
	r.Params = bossItemIDBits.set(r.Params, uint32(v))
}
