package dzx

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Record JSON carries the stored fields plus the packed parameter
// sub-fields. On decode the stored fields are applied first, then each
// sub-field present in the document that disagrees with the decoded params
// is set on top of them. A dumped record therefore decodes back unchanged
// even where a getter and setter use different shifts.

func (r *Treasure) MarshalJSON() ([]byte, error) {
	type plain Treasure
	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
		ChestType             uint8 `json:"chest_type"`
		AppearConditionSwitch uint8 `json:"appear_condition_switch"`
		OpenedFlag            uint8 `json:"opened_flag"`
		AppearConditionType   uint8 `json:"appear_condition_type"`
	}{
		Type:                  r.Type(),
		plain:                 (*plain)(r),
		ChestType:             r.ChestType(),
		AppearConditionSwitch: r.AppearConditionSwitch(),
		OpenedFlag:            r.OpenedFlag(),
		AppearConditionType:   r.AppearConditionType(),
	})
}

func (r *ScaleableObject) MarshalJSON() ([]byte, error) {
	type plain ScaleableObject
	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
		Salvage                bool  `json:"is_salvage"`
		BuriedPigItem          bool  `json:"is_buried_pig_item"`
		SalvageType            uint8 `json:"salvage_type"`
		SalvageItemID          uint8 `json:"salvage_item_id"`
		SalvageChartIndexPlus1 uint8 `json:"salvage_chart_index_plus_1"`
		SalvageDuplicateID     uint8 `json:"salvage_duplicate_id"`
		BuriedPigItemID        uint8 `json:"buried_pig_item_id"`
	}{
		Type:                   r.Type(),
		plain:                  (*plain)(r),
		Salvage:                r.IsSalvage(),
		BuriedPigItem:          r.IsBuriedPigItem(),
		SalvageType:            r.SalvageType(),
		SalvageItemID:          r.SalvageItemID(),
		SalvageChartIndexPlus1: r.SalvageChartIndexPlus1(),
		SalvageDuplicateID:     r.SalvageDuplicateID(),
		BuriedPigItemID:        r.BuriedPigItemID(),
	})
}

func (r *Actor) MarshalJSON() ([]byte, error) {
	type plain Actor
	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
		Item            bool   `json:"is_item"`
		BossItem        bool   `json:"is_boss_item"`
		ItemID          uint8  `json:"item_id"`
		ItemFlag        uint8  `json:"item_flag"`
		BossItemStageID uint8  `json:"boss_item_stage_id"`
		BossItemID      uint16 `json:"boss_item_id"`
	}{
		Type:            r.Type(),
		plain:           (*plain)(r),
		Item:            r.IsItem(),
		BossItem:        r.IsBossItem(),
		ItemID:          r.ItemID(),
		ItemFlag:        r.ItemFlag(),
		BossItemStageID: r.BossItemStageID(),
		BossItemID:      r.BossItemID(),
	})
}

func (r *Treasure) UnmarshalJSON(data []byte) error {
	type plain Treasure
	var packed struct {
		ChestType             *uint8 `json:"chest_type"`
		AppearConditionSwitch *uint8 `json:"appear_condition_switch"`
		OpenedFlag            *uint8 `json:"opened_flag"`
		AppearConditionType   *uint8 `json:"appear_condition_type"`
	}
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &packed); err != nil {
		return err
	}
	if packed.ChestType != nil && *packed.ChestType != r.ChestType() {
		r.SetChestType(*packed.ChestType)
	}
	if packed.AppearConditionSwitch != nil && *packed.AppearConditionSwitch != r.AppearConditionSwitch() {
		r.SetAppearConditionSwitch(*packed.AppearConditionSwitch)
	}
	if packed.OpenedFlag != nil && *packed.OpenedFlag != r.OpenedFlag() {
		r.SetOpenedFlag(*packed.OpenedFlag)
	}
	if packed.AppearConditionType != nil && *packed.AppearConditionType != r.AppearConditionType() {
		r.SetAppearConditionType(*packed.AppearConditionType)
	}
	return nil
}

func (r *ScaleableObject) UnmarshalJSON(data []byte) error {
	type plain ScaleableObject
	var packed struct {
		SalvageType            *uint8 `json:"salvage_type"`
		SalvageItemID          *uint8 `json:"salvage_item_id"`
		SalvageChartIndexPlus1 *uint8 `json:"salvage_chart_index_plus_1"`
		SalvageDuplicateID     *uint8 `json:"salvage_duplicate_id"`
		BuriedPigItemID        *uint8 `json:"buried_pig_item_id"`
	}
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &packed); err != nil {
		return err
	}
	if packed.SalvageType != nil && *packed.SalvageType != r.SalvageType() {
		r.SetSalvageType(*packed.SalvageType)
	}
	if packed.SalvageItemID != nil && *packed.SalvageItemID != r.SalvageItemID() {
		r.SetSalvageItemID(*packed.SalvageItemID)
	}
	if packed.SalvageChartIndexPlus1 != nil && *packed.SalvageChartIndexPlus1 != r.SalvageChartIndexPlus1() {
		r.SetSalvageChartIndexPlus1(*packed.SalvageChartIndexPlus1)
	}
	if packed.SalvageDuplicateID != nil && *packed.SalvageDuplicateID != r.SalvageDuplicateID() {
		r.SetSalvageDuplicateID(*packed.SalvageDuplicateID)
	}
	if packed.BuriedPigItemID != nil && *packed.BuriedPigItemID != r.BuriedPigItemID() {
		r.SetBuriedPigItemID(*packed.BuriedPigItemID)
	}
	return nil
}

// The boss_item_id field is not accepted on decode: its JSON value is the
// unshifted mask and does not fit the setter's byte argument.
func (r *Actor) UnmarshalJSON(data []byte) error {
	type plain Actor
	var packed struct {
		ItemID          *uint8 `json:"item_id"`
		ItemFlag        *uint8 `json:"item_flag"`
		BossItemStageID *uint8 `json:"boss_item_stage_id"`
	}
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &packed); err != nil {
		return err
	}
	if packed.ItemID != nil && *packed.ItemID != r.ItemID() {
		r.SetItemID(*packed.ItemID)
	}
	if packed.ItemFlag != nil && *packed.ItemFlag != r.ItemFlag() {
		r.SetItemFlag(*packed.ItemFlag)
	}
	if packed.BossItemStageID != nil && *packed.BossItemStageID != r.BossItemStageID() {
		r.SetBossItemStageID(*packed.BossItemStageID)
	}
	return nil
}

func (r *PlayerSpawn) MarshalJSON() ([]byte, error) {
	type plain PlayerSpawn
	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{r.Type(), (*plain)(r)})
}

func (r *Exit) MarshalJSON() ([]byte, error) {
	type plain Exit
	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{r.Type(), (*plain)(r)})
}

func (r *StageInfo) MarshalJSON() ([]byte, error) {
	type plain StageInfo
	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
		Packed uint16 `json:"is_dungeon_and_stage_id"`
	}{r.Type(), (*plain)(r), r.IsDungeonAndStageID()})
}

func (r *Opaque) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Type   `json:"type"`
		Raw  []byte `json:"raw"`
	}{r.typ, r.Raw})
}

func (r *Opaque) UnmarshalJSON(data []byte) error {
	var v struct {
		Raw []byte `json:"raw"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Raw != nil {
		r.Raw = v.Raw
	}
	return nil
}

// DecodeRecordJSON overlays the fields present in data onto r.
// Fields absent from data keep their current values.
func DecodeRecordJSON(r Record, data []byte) error {
	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("decode %s record: %w", r.Type(), err)
	}
	return nil
}

type chunkJSON struct {
	Type        Type     `json:"type"`
	Layer       *int     `json:"layer"`
	Code        string   `json:"code"`
	Count       int      `json:"count"`
	FirstOffset uint32   `json:"first_offset"`
	Unknown     bool     `json:"unknown,omitempty"`
	Records     []Record `json:"records"`
}

func (c *Chunk) MarshalJSON() ([]byte, error) {
	v := chunkJSON{
		Type:        c.typ,
		Code:        c.code,
		Count:       c.Len(),
		FirstOffset: c.firstOffset,
		Unknown:     !c.Known(),
		Records:     c.records,
	}
	if c.layer != NoLayer {
		l := int(c.layer)
		v.Layer = &l
	}
	if v.Records == nil {
		v.Records = []Record{}
	}
	return json.Marshal(v)
}

// MarshalJSON reports size as the size Encode would produce for the current
// records. A container holding an unsavable chunk cannot be re-encoded, so
// its size is that of the bytes it was decoded from.
func (c *Container) MarshalJSON() ([]byte, error) {
	size := c.Size()
	for _, ch := range c.chunks {
		if !ch.Saveable() {
			size = len(c.Bytes())
			break
		}
	}
	return json.Marshal(struct {
		Size   int      `json:"size"`
		Chunks []*Chunk `json:"chunks"`
	}{
		Size:   size,
		Chunks: c.chunks,
	})
}
