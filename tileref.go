package constile

import (
	"encoding/binary"
)

// TileRef is a view onto one record of a TileProvider's backing array. It
// holds no tile data of its own: every getter is a load and every setter a
// store against the shared array, so all refs to the same (x, y) see each
// other's writes. A TileRef stays valid for as long as its provider does.
type TileRef struct {
	rec []byte
}

func newTileRef(data []byte, index int) TileRef {
	off := index * TileDataSize
	return TileRef{rec: data[off : off+TileDataSize : off+TileDataSize]}
}

// Initialize does nothing. The record already holds whatever was last
// written to it, and zeroes on first allocation.
func (r TileRef) Initialize() {}

func (r TileRef) Type() uint16      { return binary.LittleEndian.Uint16(r.rec[offType:]) }
func (r TileRef) SetType(v uint16)  { binary.LittleEndian.PutUint16(r.rec[offType:], v) }
func (r TileRef) Wall() uint16      { return binary.LittleEndian.Uint16(r.rec[offWall:]) }
func (r TileRef) SetWall(v uint16)  { binary.LittleEndian.PutUint16(r.rec[offWall:], v) }
func (r TileRef) Liquid() uint8     { return r.rec[offLiquid] }
func (r TileRef) SetLiquid(v uint8) { r.rec[offLiquid] = v }

func (r TileRef) STileHeader() uint16 {
	return binary.LittleEndian.Uint16(r.rec[offSTileHeader:])
}

func (r TileRef) SetSTileHeader(v uint16) {
	binary.LittleEndian.PutUint16(r.rec[offSTileHeader:], v)
}

func (r TileRef) BTileHeader() uint8      { return r.rec[offBTileHeader] }
func (r TileRef) SetBTileHeader(v uint8)  { r.rec[offBTileHeader] = v }
func (r TileRef) BTileHeader2() uint8     { return r.rec[offBTileHeader2] }
func (r TileRef) SetBTileHeader2(v uint8) { r.rec[offBTileHeader2] = v }
func (r TileRef) BTileHeader3() uint8     { return r.rec[offBTileHeader3] }
func (r TileRef) SetBTileHeader3(v uint8) { r.rec[offBTileHeader3] = v }

func (r TileRef) FrameX() int16 {
	return int16(binary.LittleEndian.Uint16(r.rec[offFrameX:]))
}

func (r TileRef) SetFrameX(v int16) {
	binary.LittleEndian.PutUint16(r.rec[offFrameX:], uint16(v))
}

func (r TileRef) FrameY() int16 {
	return int16(binary.LittleEndian.Uint16(r.rec[offFrameY:]))
}

func (r TileRef) SetFrameY(v int16) {
	binary.LittleEndian.PutUint16(r.rec[offFrameY:], uint16(v))
}

// CopyFrom overwrites this record with the fields of src. Another TileRef
// is copied as raw bytes.
func (r TileRef) CopyFrom(src Tile) error {
	switch s := src.(type) {
	case nil:
		return ErrNilTile
	case TileRef:
		copy(r.rec, s.rec)
	case *HeapTile:
		if s == nil {
			return ErrNilTile
		}
		s.TileData.put(r.rec)
	default:
		CopyTile(r, src)
	}
	return nil
}

// Data returns a copy of the record.
func (r TileRef) Data() TileData {
	var d TileData
	d.get(r.rec)
	return d
}

// SetData overwrites the whole record.
func (r TileRef) SetData(d TileData) {
	d.put(r.rec)
}

// ClearEverything zeroes the record.
func (r TileRef) ClearEverything() {
	for i := range r.rec {
		r.rec[i] = 0
	}
}
