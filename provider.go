package constile

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
)

// Errors returned by tile providers. They are wrapped with the offending
// coordinates or sizes, so test for them with errors.Is.
var (
	ErrOutOfBounds = errors.New("tile coordinate out of bounds")
	ErrAllocation  = errors.New("could not allocate tile storage")
	ErrNilTile     = errors.New("source tile is nil")
)

// WorldSize is the world's largest tile index on each axis, as reported by
// the host. Providers hold one extra row and column past it.
type WorldSize struct {
	MaxTilesX int `json:""`
	MaxTilesY int `json:""`
}

// TileProvider stores every tile of a world in one contiguous byte array of
// TileDataSize-byte records and hands out TileRefs into it. The array is
// allocated on first access and never moves afterwards.
//
// Record (x, y) lives at index Height*x + y, i.e. columns are contiguous.
type TileProvider struct {
	width  int
	height int

	once      sync.Once
	allocated atomic.Bool
	data      []byte
	err       error
}

var (
	_ TileCollection = (*TileProvider)(nil)
	_ Tile           = TileRef{}
	_ Tile           = (*HeapTile)(nil)
)

// NewTileProvider creates a provider sized for the world. Nothing is
// allocated until the first tile is requested.
func NewTileProvider(size WorldSize) *TileProvider {
	return &TileProvider{width: size.MaxTilesX + 1, height: size.MaxTilesY + 1}
}

// Width returns the number of columns
func (p *TileProvider) Width() int { return p.width }

// Height returns the number of rows
func (p *TileProvider) Height() int { return p.height }

// Len returns the number of tile records the provider holds.
func (p *TileProvider) Len() int { return p.width * p.height }

// Allocated reports whether the backing array exists yet.
func (p *TileProvider) Allocated() bool { return p.allocated.Load() }

// Tile returns the tile at (x, y) as a Tile.
func (p *TileProvider) Tile(x, y int) (Tile, error) {
	ref, err := p.Ref(x, y)
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// Ref returns a view of the record at (x, y).
func (p *TileProvider) Ref(x, y int) (TileRef, error) {
	index, err := tileIndex(p.width, p.height, x, y)
	if err != nil {
		return TileRef{}, err
	}

	data, err := p.storage()
	if err != nil {
		return TileRef{}, err
	}

	return newTileRef(data, index), nil
}

// SetTile copies the fields of tile into the record at (x, y). The record
// stays where it is; later refs to (x, y) read the copied values.
func (p *TileProvider) SetTile(x, y int, tile Tile) error {
	if tile == nil {
		return ErrNilTile
	}

	ref, err := p.Ref(x, y)
	if err != nil {
		return err
	}

	return ref.CopyFrom(tile)
}

// Bytes returns the backing array itself, allocating it if needed. Writes
// to it are visible through every TileRef.
func (p *TileProvider) Bytes() ([]byte, error) {
	return p.storage()
}

func (p *TileProvider) storage() ([]byte, error) {
	p.once.Do(p.allocate)
	return p.data, p.err
}

func (p *TileProvider) allocate() {
	size, err := storageLen(p.width, p.height, TileDataSize)
	if err != nil {
		log.Printf("Tile storage for %dx%d tiles: %v", p.width, p.height, err)
		p.err = err
		return
	}

	log.Printf("Allocating %d bytes of tile storage for %dx%d tiles", size, p.width, p.height)
	p.data, p.err = makeStorage(size)
	if p.err != nil {
		log.Printf("Tile storage for %dx%d tiles: %v", p.width, p.height, p.err)
		return
	}
	p.allocated.Store(true)
}

func tileIndex(width, height, x, y int) (int, error) {
	if x < 0 || x >= width || y < 0 || y >= height {
		return 0, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, width, height)
	}
	return height*x + y, nil
}

// storageLen is width*height*size, or an error if any of them is not
// positive or the product does not fit in an int.
func storageLen(width, height, size int) (int, error) {
	if width <= 0 || height <= 0 || size <= 0 {
		return 0, fmt.Errorf("%w: invalid dimensions %dx%d", ErrAllocation, width, height)
	}
	if width > math.MaxInt/height || width*height > math.MaxInt/size {
		return 0, fmt.Errorf("%w: %dx%d records of %d bytes overflows", ErrAllocation, width, height, size)
	}
	return width * height * size, nil
}

func makeStorage(size int) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("%w: %d bytes: %v", ErrAllocation, size, r)
		}
	}()

	return make([]byte, size), nil
}
