package constile

// Tile is the per-tile surface the rest of the engine is written against.
// TileRef and HeapTile both implement it, so callers never need to know
// whether a tile lives in a packed array or on its own.
type Tile interface {
	Type() uint16
	SetType(uint16)
	Wall() uint16
	SetWall(uint16)
	Liquid() uint8
	SetLiquid(uint8)
	STileHeader() uint16
	SetSTileHeader(uint16)
	BTileHeader() uint8
	SetBTileHeader(uint8)
	BTileHeader2() uint8
	SetBTileHeader2(uint8)
	BTileHeader3() uint8
	SetBTileHeader3(uint8)
	FrameX() int16
	SetFrameX(int16)
	FrameY() int16
	SetFrameY(int16)

	// Initialize applies the implementation's default state. It runs when a
	// tile object is constructed.
	Initialize()
}

// TileCollection is a fixed size grid of tiles addressed by (x, y).
type TileCollection interface {
	Width() int
	Height() int
	Tile(x, y int) (Tile, error)
	SetTile(x, y int, tile Tile) error
}

// CopyTile copies every field from src into dst.
func CopyTile(dst, src Tile) {
	dst.SetType(src.Type())
	dst.SetWall(src.Wall())
	dst.SetLiquid(src.Liquid())
	dst.SetSTileHeader(src.STileHeader())
	dst.SetBTileHeader(src.BTileHeader())
	dst.SetBTileHeader2(src.BTileHeader2())
	dst.SetBTileHeader3(src.BTileHeader3())
	dst.SetFrameX(src.FrameX())
	dst.SetFrameY(src.FrameY())
}

// HeapTile is a tile that owns its own fields.
type HeapTile struct {
	TileData
}

// NewHeapTile allocates an initialized tile
func NewHeapTile() *HeapTile {
	tile := new(HeapTile)
	tile.Initialize()
	return tile
}

// Initialize clears every field.
func (t *HeapTile) Initialize() {
	t.TileData = TileData{}
}

func (t *HeapTile) Type() uint16            { return t.TileData.Type }
func (t *HeapTile) SetType(v uint16)        { t.TileData.Type = v }
func (t *HeapTile) Wall() uint16            { return t.TileData.Wall }
func (t *HeapTile) SetWall(v uint16)        { t.TileData.Wall = v }
func (t *HeapTile) Liquid() uint8           { return t.TileData.Liquid }
func (t *HeapTile) SetLiquid(v uint8)       { t.TileData.Liquid = v }
func (t *HeapTile) STileHeader() uint16     { return t.TileData.STileHeader }
func (t *HeapTile) SetSTileHeader(v uint16) { t.TileData.STileHeader = v }
func (t *HeapTile) BTileHeader() uint8      { return t.TileData.BTileHeader }
func (t *HeapTile) SetBTileHeader(v uint8)  { t.TileData.BTileHeader = v }
func (t *HeapTile) BTileHeader2() uint8     { return t.TileData.BTileHeader2 }
func (t *HeapTile) SetBTileHeader2(v uint8) { t.TileData.BTileHeader2 = v }
func (t *HeapTile) BTileHeader3() uint8     { return t.TileData.BTileHeader3 }
func (t *HeapTile) SetBTileHeader3(v uint8) { t.TileData.BTileHeader3 = v }
func (t *HeapTile) FrameX() int16           { return t.TileData.FrameX }
func (t *HeapTile) SetFrameX(v int16)       { t.TileData.FrameX = v }
func (t *HeapTile) FrameY() int16           { return t.TileData.FrameY }
func (t *HeapTile) SetFrameY(v int16)       { t.TileData.FrameY = v }
