package dzx

import (
	"encoding/binary"
	"math"
)

type fixtureChunk struct {
	code    string
	size    int
	records [][]byte
}

// buildFixture lays out a container the way the game tools write it.
func buildFixture(chunks []fixtureChunk) []byte {
	off := HeaderSize + EntrySize*len(chunks)
	out := make([]byte, off)
	binary.BigEndian.PutUint32(out, uint32(len(chunks)))
	for i, ch := range chunks {
		e := out[HeaderSize+EntrySize*i:]
		copy(e[0:4], ch.code)
		binary.BigEndian.PutUint32(e[4:], uint32(len(ch.records)))
		binary.BigEndian.PutUint32(e[8:], uint32(off))
		off += len(ch.records) * ch.size
	}
	for _, ch := range chunks {
		for _, r := range ch.records {
			if len(r) != ch.size {
				panic("fixture record size mismatch")
			}
			out = append(out, r...)
		}
	}
	for len(out)%Alignment != 0 {
		out = append(out, PadByte)
	}
	return out
}

// pattern returns n deterministic bytes below 0x7F, so float fields never
// hold NaN bit patterns.
func pattern(seed, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte((seed*31 + i*7 + 1) % 0x7F)
	}
	return out
}

func patternRecords(t Type, seed, count int) fixtureChunk {
	size, ok := RecordSize(t)
	if !ok {
		panic("unregistered fixture type " + string(t))
	}
	ch := fixtureChunk{code: string(t), size: size}
	for i := range count {
		ch.records = append(ch.records, pattern(seed+i, size))
	}
	return ch
}

func actorBytes(name string, params uint32, x, y, z float32, xRot, yRot, setFlag, enemy uint16) []byte {
	b := make([]byte, 0x20)
	copy(b[0:8], name)
	binary.BigEndian.PutUint32(b[0x08:], params)
	binary.BigEndian.PutUint32(b[0x0C:], math.Float32bits(x))
	binary.BigEndian.PutUint32(b[0x10:], math.Float32bits(y))
	binary.BigEndian.PutUint32(b[0x14:], math.Float32bits(z))
	binary.BigEndian.PutUint16(b[0x18:], xRot)
	binary.BigEndian.PutUint16(b[0x1A:], yRot)
	binary.BigEndian.PutUint16(b[0x1C:], setFlag)
	binary.BigEndian.PutUint16(b[0x1E:], enemy)
	return b
}

func stageBytes(depthMin, depthMax float32, packed uint16) []byte {
	b := make([]byte, 0x14)
	binary.BigEndian.PutUint32(b[0x00:], math.Float32bits(depthMin))
	binary.BigEndian.PutUint32(b[0x04:], math.Float32bits(depthMax))
	binary.BigEndian.PutUint16(b[0x08:], packed)
	binary.BigEndian.PutUint16(b[0x12:], 0x1234)
	return b
}

// sampleRoom is a room file with every registered type, layered chunks and
// an odd-sized LBNK record so padding is exercised.
func sampleRoom() []byte {
	actors := fixtureChunk{code: "ACTR", size: 0x20, records: [][]byte{
		actorBytes("item", 0x0000_2A05, 1.5, -2, 300, 0, 0x4000, 0xFFFF, 0xFFFF),
		actorBytes("Bitem", 0x0000_0309, 0, 0, 0, 0, 0, 0, 0),
	}}
	layer3 := fixtureChunk{code: "ACT3", size: 0x20, records: [][]byte{
		actorBytes("kamome", 0xFFFF_FFFF, 10, 20, 30, 1, 2, 3, 4),
	}}
	chunks := []fixtureChunk{
		{code: "STAG", size: 0x14, records: [][]byte{stageBytes(1, 160000, 0x0011)}},
		patternRecords(TypeFileInfo, 1, 1),
		patternRecords(TypePlayer, 2, 2),
		patternRecords(TypeExit, 3, 3),
		actors,
		layer3,
		patternRecords(TypeTreasure, 4, 2),
		{code: "TREb", size: 0x20, records: pattern2(5, 0x20, 1)},
		patternRecords(TypeObject, 6, 2),
		{code: "SCO0", size: 0x24, records: pattern2(7, 0x24, 1)},
		patternRecords(TypeTGOB, 8, 1),
		patternRecords(TypeFloor, 9, 1),
		patternRecords(TypeMap, 10, 1),
		patternRecords(TypeRailPath, 11, 2),
		patternRecords(TypeRailPoint, 12, 4),
		patternRecords(TypeSound, 13, 1),
		patternRecords(TypeRoomCamera, 14, 1),
		patternRecords(TypeRoomArrow, 15, 1),
		patternRecords(TypeShip, 16, 1),
		patternRecords(TypeLightBank, 17, 1),
	}
	return buildFixture(chunks)
}

func pattern2(seed, size, count int) [][]byte {
	out := make([][]byte, count)
	for i := range out {
		out[i] = pattern(seed+i, size)
	}
	return out
}
