package dzx

import "slices"

// Kind enumerates the record variants.
type Kind uint8

const (
	KindTreasure Kind = iota + 1
	KindObject
	KindActor
	KindPlayer
	KindExit
	KindStage
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindTreasure:
		return "treasure"
	case KindObject:
		return "object"
	case KindActor:
		return "actor"
	case KindPlayer:
		return "player"
	case KindExit:
		return "exit"
	case KindStage:
		return "stage"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

type schema struct {
	kind Kind
	size int
}

// schemas is the fixed type registry. Sizes are part of the format.
var schemas = map[Type]schema{
	TypeTreasure: {KindTreasure, 0x20},
	TypeObject:   {KindObject, 0x24},
	TypeActor:    {KindActor, 0x20},
	TypePlayer:   {KindPlayer, 0x20},
	TypeExit:     {KindExit, 0x0C},
	TypeStage:    {KindStage, 0x14},

	TypeFileInfo:   {KindOpaque, 0x08},
	TypeTGOB:       {KindOpaque, 0x20},
	TypeFloor:      {KindOpaque, 0x14},
	TypeMap:        {KindOpaque, 0x38},
	TypeLightBank:  {KindOpaque, 0x01},
	TypeRailPath:   {KindOpaque, 0x0C},
	TypeRailPoint:  {KindOpaque, 0x10},
	TypeSound:      {KindOpaque, 0x1C},
	TypeRoomCamera: {KindOpaque, 0x14},
	TypeRoomArrow:  {KindOpaque, 0x14},
	TypeShip:       {KindOpaque, 0x10},
}

// KindOf returns the record kind registered for t.
func KindOf(t Type) (Kind, bool) {
	s, ok := schemas[t]
	return s.kind, ok
}

// RegisteredTypes lists every registered type in sorted order.
func RegisteredTypes() []Type {
	out := make([]Type, 0, len(schemas))
	for t := range schemas {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// NewRecord returns a zero-initialised record of the kind registered for t.
func NewRecord(t Type) (Record, bool) {
	s, ok := schemas[t]
	if !ok {
		return nil, false
	}
	return s.newRecord(t), true
}

func (s schema) newRecord(t Type) Record {
	switch s.kind {
	case KindTreasure:
		return &Treasure{placement: unplaced()}
	case KindObject:
		return &ScaleableObject{placement: unplaced()}
	case KindActor:
		return &Actor{placement: unplaced()}
	case KindPlayer:
		return &PlayerSpawn{placement: unplaced()}
	case KindExit:
		return &Exit{placement: unplaced()}
	case KindStage:
		return &StageInfo{placement: unplaced()}
	default:
		return &Opaque{placement: unplaced(), typ: t, Raw: make([]byte, s.size)}
	}
}
