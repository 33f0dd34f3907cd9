// Package constile stores a world grid as packed 14-byte tile records and
// hands out accessors that read and write those bytes in place.
package constile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// TileDataSize is the number of bytes one tile occupies in a TileProvider's
// backing array. External readers of the raw array depend on it.
const TileDataSize = 14

// Byte offsets of each field inside a packed tile record.
const (
	offType         = 0
	offWall         = 2
	offLiquid       = 4
	offSTileHeader  = 5
	offBTileHeader  = 7
	offBTileHeader2 = 8
	offBTileHeader3 = 9
	offFrameX       = 10
	offFrameY       = 12
)

// TileData is the unpacked value form of one tile record. The field order
// and widths are the binary layout: encoding/binary writes it as exactly
// TileDataSize bytes with no padding.
type TileData struct {
	Type         uint16
	Wall         uint16
	Liquid       uint8
	STileHeader  uint16
	BTileHeader  uint8
	BTileHeader2 uint8
	BTileHeader3 uint8
	FrameX       int16
	FrameY       int16
}

// ToBytes flushes the record to a writer in packed little-endian form
func (d *TileData) ToBytes(buf io.Writer) error {
	return binary.Write(buf, binary.LittleEndian, d)
}

// MarshalBinary packs the record into a new TileDataSize byte slice.
func (d TileData) MarshalBinary() ([]byte, error) {
	rec := make([]byte, TileDataSize)
	d.put(rec)
	return rec, nil
}

// UnmarshalBinary reads a packed record. Anything other than exactly
// TileDataSize bytes is rejected.
func (d *TileData) UnmarshalBinary(rec []byte) error {
	if len(rec) != TileDataSize {
		return fmt.Errorf("tile record is %d bytes, want %d", len(rec), TileDataSize)
	}
	d.get(rec)
	return nil
}

// TileDataFromBytes rehydrates a record from packed bytes
func TileDataFromBytes(rec []byte) (TileData, error) {
	return TileDataFromBuffer(bytes.NewReader(rec))
}

// TileDataFromBuffer pulls one record from a byte stream
func TileDataFromBuffer(buf io.Reader) (TileData, error) {
	var d TileData
	err := binary.Read(buf, binary.LittleEndian, &d)
	return d, err
}

func (d *TileData) put(rec []byte) {
	_ = rec[TileDataSize-1]
	binary.LittleEndian.PutUint16(rec[offType:], d.Type)
	binary.LittleEndian.PutUint16(rec[offWall:], d.Wall)
	rec[offLiquid] = d.Liquid
	binary.LittleEndian.PutUint16(rec[offSTileHeader:], d.STileHeader)
	rec[offBTileHeader] = d.BTileHeader
	rec[offBTileHeader2] = d.BTileHeader2
	rec[offBTileHeader3] = d.BTileHeader3
	binary.LittleEndian.PutUint16(rec[offFrameX:], uint16(d.FrameX))
	binary.LittleEndian.PutUint16(rec[offFrameY:], uint16(d.FrameY))
}

func (d *TileData) get(rec []byte) {
	_ = rec[TileDataSize-1]
	d.Type = binary.LittleEndian.Uint16(rec[offType:])
	d.Wall = binary.LittleEndian.Uint16(rec[offWall:])
	d.Liquid = rec[offLiquid]
	d.STileHeader = binary.LittleEndian.Uint16(rec[offSTileHeader:])
	d.BTileHeader = rec[offBTileHeader]
	d.BTileHeader2 = rec[offBTileHeader2]
	d.BTileHeader3 = rec[offBTileHeader3]
	d.FrameX = int16(binary.LittleEndian.Uint16(rec[offFrameX:]))
	d.FrameY = int16(binary.LittleEndian.Uint16(rec[offFrameY:]))
}
