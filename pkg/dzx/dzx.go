// Package dzx implements the DZR/DZS scene container format.
//
// A container is a chunk directory followed by fixed-size records. Each
// directory entry names a record type (optionally specialised by a layer
// digit), a record count and the absolute offset of its first record. All
// values are big-endian.
package dzx

import (
	"fmt"
	"strconv"
)

// Layout constants must never change.
const (
	// HeaderSize is the size of the leading chunk count.
	HeaderSize = 4

	// EntrySize is the size of one chunk directory entry.
	EntrySize = 0xC

	// Alignment is the boundary the encoded size is padded to.
	Alignment = 0x20

	// PadByte fills the gap between the last record and Alignment.
	PadByte byte = 0xFF

	nameSize = 8
)

// Type is a logical four-character record type tag.
type Type string

const (
	TypeTreasure   Type = "TRES"
	TypeObject     Type = "SCOB"
	TypeActor      Type = "ACTR"
	TypePlayer     Type = "PLYR"
	TypeExit       Type = "SCLS"
	TypeStage      Type = "STAG"
	TypeFileInfo   Type = "FILI"
	TypeTGOB       Type = "TGOB"
	TypeFloor      Type = "FLOR"
	TypeMap        Type = "2DMA"
	TypeLightBank  Type = "LBNK"
	TypeRailPath   Type = "RPAT"
	TypeRailPoint  Type = "RPPN"
	TypeSound      Type = "SOND"
	TypeRoomCamera Type = "RCAM"
	TypeRoomArrow  Type = "RARO"
	TypeShip       Type = "SHIP"
)

// Layer selects one of the conditional variants of a layered chunk.
type Layer int

const (
	// NoLayer marks chunks that are present regardless of layer.
	NoLayer Layer = -1

	MaxLayer Layer = 11
)

// Valid reports whether l is NoLayer or within [0, MaxLayer].
func (l Layer) Valid() bool {
	return l == NoLayer || (l >= 0 && l <= MaxLayer)
}

func (l Layer) String() string {
	if l == NoLayer {
		return "none"
	}
	return strconv.Itoa(int(l))
}

// ParseLayer accepts "none", "" or a decimal/hex layer digit.
func ParseLayer(s string) (Layer, error) {
	switch s {
	case "", "none", "-":
		return NoLayer, nil
	}
	if len(s) == 1 {
		if l, ok := layerFromChar(s[0]); ok {
			return l, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || Layer(n) > MaxLayer {
		return NoLayer, fmt.Errorf("%w: %q", ErrInvalidLayer, s)
	}
	return Layer(n), nil
}

func layerFromChar(c byte) (Layer, bool) {
	switch {
	case c >= '0' && c <= '9':
		return Layer(c - '0'), true
	case c == 'a':
		return 10, true
	case c == 'b':
		return 11, true
	}
	return NoLayer, false
}

func (l Layer) char() (byte, error) {
	if l < 0 || l > MaxLayer {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLayer, int(l))
	}
	return "0123456789ab"[l], nil
}

func align(n, to int) int {
	return (n + to - 1) &^ (to - 1)
}
