package dzx

import "github.com/samcharles93/dzx/pkg/fsbytes"

// PlayerSpawn is a PLYR record: a point the player can enter the room at.
type PlayerSpawn struct {
	placement `json:"-"`

	Name       string  `json:"name"`
	EventIndex uint8   `json:"event_index"`
	Unknown1   uint8   `json:"unknown1"`
	SpawnType  uint8   `json:"spawn_type"`
	RoomNum    uint8   `json:"room_num"`
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Z          float32 `json:"z"`
	Unknown2   uint16  `json:"unknown2"`
	YRot       uint16  `json:"y_rot"`
	Unknown3   uint8   `json:"unknown3"`
	SpawnID    uint8   `json:"spawn_id"`
	Unknown4   uint16  `json:"unknown4"`
}

func (*PlayerSpawn) Type() Type { return TypePlayer }

func (r *PlayerSpawn) decode(b *fsbytes.Buffer, off int) error {
	fr := fieldReader{b: b, off: off}
	r.Name = fr.str(0x00, nameSize)
	r.EventIndex = fr.u8(0x08)
	r.Unknown1 = fr.u8(0x09)
	r.SpawnType = fr.u8(0x0A)
	r.RoomNum = fr.u8(0x0B)
	r.X = fr.f32(0x0C)
	r.Y = fr.f32(0x10)
	r.Z = fr.f32(0x14)
	r.Unknown2 = fr.u16(0x18)
	r.YRot = fr.u16(0x1A)
	r.Unknown3 = fr.u8(0x1C)
	r.SpawnID = fr.u8(0x1D)
	r.Unknown4 = fr.u16(0x1E)
	return fr.err
}

func (r *PlayerSpawn) encode(b *fsbytes.Buffer, off int) error {
	fw := fieldWriter{b: b, off: off}
	fw.str(0x00, r.Name, nameSize)
	fw.u8(0x08, r.EventIndex)
	fw.u8(0x09, r.Unknown1)
	fw.u8(0x0A, r.SpawnType)
	fw.u8(0x0B, r.RoomNum)
	fw.f32(0x0C, r.X)
	fw.f32(0x10, r.Y)
	fw.f32(0x14, r.Z)
	fw.u16(0x18, r.Unknown2)
	fw.u16(0x1A, r.YRot)
	fw.u8(0x1C, r.Unknown3)
	fw.u8(0x1D, r.SpawnID)
	fw.u16(0x1E, r.Unknown4)
	return fw.err
}

// Exit is an SCLS record: a transition to a spawn point of another stage.
type Exit struct {
	placement `json:"-"`

	DestStageName string `json:"dest_stage_name"`
	SpawnID       uint8  `json:"spawn_id"`
	RoomIndex     uint8  `json:"room_index"`
	FadeType      uint8  `json:"fade_type"`
	Padding       uint8  `json:"padding"`
}

func (*Exit) Type() Type { return TypeExit }

func (r *Exit) decode(b *fsbytes.Buffer, off int) error {
	fr := fieldReader{b: b, off: off}
	r.DestStageName = fr.str(0x00, nameSize)
	r.SpawnID = fr.u8(0x08)
	r.RoomIndex = fr.u8(0x09)
	r.FadeType = fr.u8(0x0A)
	r.Padding = fr.u8(0x0B)
	return fr.err
}

func (r *Exit) encode(b *fsbytes.Buffer, off int) error {
	fw := fieldWriter{b: b, off: off}
	fw.str(0x00, r.DestStageName, nameSize)
	fw.u8(0x08, r.SpawnID)
	fw.u8(0x09, r.RoomIndex)
	fw.u8(0x0A, r.FadeType)
	fw.u8(0x0B, r.Padding)
	return fw.err
}
