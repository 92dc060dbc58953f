package dzx

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goccy/go-json"
)

func TestParseCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code  string
		typ   Type
		layer Layer
	}{
		{"ACT3", TypeActor, 3},
		{"ACTb", TypeActor, 11},
		{"TREa", TypeTreasure, 10},
		{"SCO9", TypeObject, 9},
		{"ACTR", TypeActor, NoLayer},
		{"TRES", TypeTreasure, NoLayer},
		{"TREz", TypeTreasure, NoLayer},
		{"SCOB", TypeObject, NoLayer},
		{"PLYR", TypePlayer, NoLayer},
		{"MULT", "MULT", NoLayer},
	}
	for _, tc := range tests {
		typ, layer := ParseCode(tc.code)
		if typ != tc.typ || layer != tc.layer {
			t.Errorf("ParseCode(%q) = %s, %v; want %s, %v", tc.code, typ, layer, tc.typ, tc.layer)
		}
	}
}

func TestCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ   Type
		layer Layer
		want  string
	}{
		{TypeActor, NoLayer, "ACTR"},
		{TypeActor, 0, "ACT0"},
		{TypeActor, 3, "ACT3"},
		{TypeTreasure, 10, "TREa"},
		{TypeObject, 11, "SCOb"},
		{TypePlayer, NoLayer, "PLYR"},
	}
	for _, tc := range tests {
		got, err := Code(tc.typ, tc.layer)
		if err != nil {
			t.Fatalf("Code(%s, %v): %v", tc.typ, tc.layer, err)
		}
		if got != tc.want {
			t.Errorf("Code(%s, %v) = %q, want %q", tc.typ, tc.layer, got, tc.want)
		}
	}

	if _, err := Code(TypeActor, 12); !errors.Is(err, ErrInvalidLayer) {
		t.Fatalf("layer 12: got %v", err)
	}
}

func TestParseLayer(t *testing.T) {
	t.Parallel()

	ok := map[string]Layer{
		"":     NoLayer,
		"none": NoLayer,
		"0":    0,
		"7":    7,
		"a":    10,
		"b":    11,
		"10":   10,
		"11":   11,
	}
	for in, want := range ok {
		got, err := ParseLayer(in)
		if err != nil || got != want {
			t.Errorf("ParseLayer(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, in := range []string{"12", "-1", "c", "layer"} {
		if _, err := ParseLayer(in); !errors.Is(err, ErrInvalidLayer) {
			t.Errorf("ParseLayer(%q): got %v, want ErrInvalidLayer", in, err)
		}
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	sizes := map[Type]int{
		TypeTreasure: 0x20, TypeObject: 0x24, TypeActor: 0x20, TypePlayer: 0x20,
		TypeExit: 0x0C, TypeStage: 0x14, TypeFileInfo: 0x08, TypeTGOB: 0x20,
		TypeFloor: 0x14, TypeMap: 0x38, TypeLightBank: 0x01, TypeRailPath: 0x0C,
		TypeRailPoint: 0x10, TypeSound: 0x1C, TypeRoomCamera: 0x14, TypeRoomArrow: 0x14,
		TypeShip: 0x10,
	}
	if got := len(RegisteredTypes()); got != len(sizes) {
		t.Fatalf("registered types: got %d want %d", got, len(sizes))
	}
	for typ, want := range sizes {
		got, ok := RecordSize(typ)
		if !ok || got != want {
			t.Errorf("RecordSize(%s) = %#x, %v; want %#x", typ, got, ok, want)
		}
		r, ok := NewRecord(typ)
		if !ok || r.Type() != typ {
			t.Errorf("NewRecord(%s) = %v, %v", typ, r, ok)
		}
	}
	if _, ok := RecordSize("MULT"); ok {
		t.Fatalf("MULT should not be registered")
	}
	if k, _ := KindOf(TypeShip); k != KindOpaque {
		t.Fatalf("SHIP kind: %v", k)
	}
}

func TestTreasureBitFields(t *testing.T) {
	t.Parallel()

	r := &Treasure{}
	r.SetChestType(0x3)
	r.SetAppearConditionSwitch(0xAB)
	r.SetAppearConditionType(0x55)
	if r.Params != 0x003AB055 {
		t.Fatalf("params: got %#08x want %#08x", r.Params, 0x003AB055)
	}
	if r.ChestType() != 0x3 || r.AppearConditionSwitch() != 0xAB || r.AppearConditionType() != 0x55 {
		t.Fatalf("getters: %d %d %d", r.ChestType(), r.AppearConditionSwitch(), r.AppearConditionType())
	}

	// Overflowing values are masked to the field width.
	r.SetChestType(0xFF)
	if r.Params != 0x00FAB055 {
		t.Fatalf("chest type overflow bled into neighbours: %#08x", r.Params)
	}

	// Upper byte is untouched by any setter.
	r.Params |= 0xAB000000
	r.SetAppearConditionType(0)
	if r.Params != 0xABFAB000 {
		t.Fatalf("upper byte changed: %#08x", r.Params)
	}
}

func TestTreasureOpenedFlagAsymmetry(t *testing.T) {
	t.Parallel()

	r := &Treasure{}
	r.SetOpenedFlag(1)
	if r.Params != 0x80 {
		t.Fatalf("SetOpenedFlag(1): params %#x, want 0x80", r.Params)
	}
	if got := r.OpenedFlag(); got != 0 {
		t.Fatalf("OpenedFlag after SetOpenedFlag(1) = %d, want 0", got)
	}

	r.Params = 0xF80
	if got := r.OpenedFlag(); got != 0x0F {
		t.Fatalf("OpenedFlag(0xF80) = %#x, want 0xf", got)
	}
	r.SetOpenedFlag(0xFF)
	if r.Params != 0xF80 {
		t.Fatalf("SetOpenedFlag(0xff) = %#x, want 0xf80", r.Params)
	}
}

func TestActorBossItemID(t *testing.T) {
	t.Parallel()

	a := &Actor{Name: "Bitem"}
	a.SetBossItemStageID(0x04)
	a.SetBossItemID(0x12)
	if a.Params != 0x1204 {
		t.Fatalf("params: got %#x want 0x1204", a.Params)
	}
	if got := a.BossItemID(); got != 0x1200 {
		t.Fatalf("BossItemID() = %#x, want 0x1200", got)
	}
	if got := a.BossItemStageID(); got != 0x04 {
		t.Fatalf("BossItemStageID() = %#x", got)
	}

	item := &Actor{Name: "itemFLY"}
	item.SetItemID(0x33)
	item.SetItemFlag(0x7F)
	if !item.IsItem() || item.IsBossItem() || item.Params != 0x7F33 {
		t.Fatalf("item actor params %#x", item.Params)
	}
}

func TestScaleableObjectFields(t *testing.T) {
	t.Parallel()

	o := &ScaleableObject{Name: "SalvagE"}
	o.SetSalvageType(0xA)
	o.SetSalvageChartIndexPlus1(0xCD)
	o.SetSalvageItemID(0xEF)
	if o.Params != 0xACD00EF0 {
		t.Fatalf("params: got %#08x want 0xacd00ef0", o.Params)
	}
	if !o.IsSalvage() || o.IsBuriedPigItem() {
		t.Fatalf("name classification wrong for %q", o.Name)
	}

	o.Unknown1 = 0xFFF0
	o.SetSalvageDuplicateID(0x2)
	if o.Unknown1 != 0xFFF2 || o.SalvageDuplicateID() != 0x2 {
		t.Fatalf("duplicate id: unknown1 %#x", o.Unknown1)
	}
	if o.Params != 0xACD00EF0 {
		t.Fatalf("duplicate id touched params: %#08x", o.Params)
	}

	pig := &ScaleableObject{Name: "TagKb"}
	pig.SetBuriedPigItemID(0x42)
	if !pig.IsBuriedPigItem() || pig.BuriedPigItemID() != 0x42 {
		t.Fatalf("buried pig item: %+v", pig)
	}
	if (&ScaleableObject{Name: "salvage"}).IsSalvage() {
		t.Fatalf("name match should be case sensitive")
	}
}

func TestStageInfoPacking(t *testing.T) {
	t.Parallel()

	s := &StageInfo{}
	s.SetIsDungeonAndStageID(0xFFFF)
	if !s.IsDungeon || s.StageID != 0x7FFF {
		t.Fatalf("unpack 0xffff: %v %#x", s.IsDungeon, s.StageID)
	}
	if s.IsDungeonAndStageID() != 0xFFFF {
		t.Fatalf("repack: %#x", s.IsDungeonAndStageID())
	}
	s.IsDungeon = false
	s.StageID = 0x2A
	if s.IsDungeonAndStageID() != 0x54 {
		t.Fatalf("pack: %#x", s.IsDungeonAndStageID())
	}
}

func TestRecordJSONIdentity(t *testing.T) {
	t.Parallel()

	c, err := Decode(sampleRoom())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	for _, ch := range c.Chunks() {
		for i, r := range ch.Records() {
			data, err := json.Marshal(r)
			if err != nil {
				t.Fatalf("%s[%d] marshal: %v", ch, i, err)
			}
			fresh, _ := NewRecord(ch.Type())
			if err := DecodeRecordJSON(fresh, data); err != nil {
				t.Fatalf("%s[%d] decode: %v", ch, i, err)
			}

			want, _ := RecordSize(ch.Type())
			a := New()
			b := New()
			ra, _ := a.Append(ch.Type(), NoLayer)
			rb, _ := b.Append(ch.Type(), NoLayer)
			if err := DecodeRecordJSON(ra, data); err != nil {
				t.Fatalf("%s[%d] apply: %v", ch, i, err)
			}
			if err := DecodeRecordJSON(rb, mustJSON(t, fresh)); err != nil {
				t.Fatalf("%s[%d] re-apply: %v", ch, i, err)
			}
			outA, errA := a.Encode()
			outB, errB := b.Encode()
			if errA != nil || errB != nil {
				t.Fatalf("%s[%d] encode: %v / %v", ch, i, errA, errB)
			}
			orig := c.Bytes()[r.Offset() : r.Offset()+want]
			recA := outA[HeaderSize+EntrySize : HeaderSize+EntrySize+want]
			recB := outB[HeaderSize+EntrySize : HeaderSize+EntrySize+want]
			if !bytes.Equal(recA, orig) || !bytes.Equal(recB, orig) {
				t.Fatalf("%s[%d] JSON round trip changed bytes:\n orig % x\n   a  % x\n   b  % x", ch, i, orig, recA, recB)
			}
		}
	}
}

func TestRecordJSONPackedFields(t *testing.T) {
	t.Parallel()

	r := &Treasure{}
	if err := DecodeRecordJSON(r, []byte(`{"name":"takara","params":0,"chest_type":2,"opened_flag":1}`)); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Name != "takara" || r.Params != 0x00200080 {
		t.Fatalf("treasure: name %q params %#08x", r.Name, r.Params)
	}

	// Fields absent from the document keep their values.
	if err := DecodeRecordJSON(r, []byte(`{"x":12.5}`)); err != nil {
		t.Fatalf("overlay: %v", err)
	}
	if r.Name != "takara" || r.X != 12.5 || r.Params != 0x00200080 {
		t.Fatalf("overlay clobbered fields: %+v", r)
	}

	a := &Actor{}
	if err := DecodeRecordJSON(a, []byte(`{"name":"item","item_id":9,"item_flag":3,"boss_item_id":4608}`)); err != nil {
		t.Fatalf("actor decode: %v", err)
	}
	if a.Params != 0x0309 {
		t.Fatalf("actor params: %#x, boss_item_id should be ignored", a.Params)
	}

	o, _ := NewRecord(TypeFloor)
	if err := DecodeRecordJSON(o, []byte(`{"raw":"AQIDBA=="}`)); err != nil {
		t.Fatalf("opaque decode: %v", err)
	}
	if !bytes.Equal(o.(*Opaque).Raw, []byte{1, 2, 3, 4}) {
		t.Fatalf("opaque raw: % x", o.(*Opaque).Raw)
	}

	if err := DecodeRecordJSON(&Exit{}, []byte(`{"spawn_id":"x"}`)); err == nil {
		t.Fatalf("expected type error")
	}
}

func TestContainerJSON(t *testing.T) {
	t.Parallel()

	raw := buildFixture([]fixtureChunk{
		{code: "ACT2", size: 0x20, records: [][]byte{actorBytes("kamome", 1, 0, 0, 0, 0, 0, 0, 0)}},
		{code: "MULT", size: 4, records: pattern2(1, 4, 2)},
	})
	c, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var doc struct {
		Size   int `json:"size"`
		Chunks []struct {
			Type    string            `json:"type"`
			Layer   *int              `json:"layer"`
			Code    string            `json:"code"`
			Count   int               `json:"count"`
			Unknown bool              `json:"unknown"`
			Records []json.RawMessage `json:"records"`
		} `json:"chunks"`
	}
	if err := json.Unmarshal(mustJSON(t, c), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Size != len(raw) || len(doc.Chunks) != 2 {
		t.Fatalf("doc: %+v", doc)
	}
	actors := doc.Chunks[0]
	if actors.Type != "ACTR" || actors.Layer == nil || *actors.Layer != 2 || actors.Code != "ACT2" || len(actors.Records) != 1 {
		t.Fatalf("actor chunk: %+v", actors)
	}
	mult := doc.Chunks[1]
	if !mult.Unknown || mult.Layer != nil || mult.Count != 2 || len(mult.Records) != 0 {
		t.Fatalf("unknown chunk: %+v", mult)
	}
}

func TestContainerJSONSizeTracksAppends(t *testing.T) {
	t.Parallel()

	raw := buildFixture([]fixtureChunk{
		{code: "ACT2", size: 0x20, records: [][]byte{actorBytes("kamome", 1, 0, 0, 0, 0, 0, 0, 0)}},
	})
	c, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := c.Append(TypeActor, 2); err != nil {
		t.Fatalf("append: %v", err)
	}
	var doc struct {
		Size int `json:"size"`
	}
	if err := json.Unmarshal(mustJSON(t, c), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := c.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if doc.Size != len(out) || doc.Size == len(raw) {
		t.Fatalf("size before encode: got %d, encoded %d, decoded %d", doc.Size, len(out), len(raw))
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}
