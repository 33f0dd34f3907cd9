package constile

import (
	"fmt"
	"log"
	"sync"
)

// HeapTileProvider keeps every tile as its own HeapTile object. It has the
// same contract as TileProvider and is mostly useful to compare against it.
type HeapTileProvider struct {
	width  int
	height int

	once  sync.Once
	tiles []*HeapTile
	err   error
}

var _ TileCollection = (*HeapTileProvider)(nil)

// NewHeapTileProvider creates a provider sized for the world.
func NewHeapTileProvider(size WorldSize) *HeapTileProvider {
	return &HeapTileProvider{width: size.MaxTilesX + 1, height: size.MaxTilesY + 1}
}

// Width returns the number of columns
func (p *HeapTileProvider) Width() int { return p.width }

// Height returns the number of rows
func (p *HeapTileProvider) Height() int { return p.height }

// Tile returns the tile object at (x, y).
func (p *HeapTileProvider) Tile(x, y int) (Tile, error) {
	index, err := tileIndex(p.width, p.height, x, y)
	if err != nil {
		return nil, err
	}

	tiles, err := p.storage()
	if err != nil {
		return nil, err
	}

	return tiles[index], nil
}

// SetTile copies the fields of tile into the object at (x, y).
func (p *HeapTileProvider) SetTile(x, y int, tile Tile) error {
	if tile == nil {
		return ErrNilTile
	}

	index, err := tileIndex(p.width, p.height, x, y)
	if err != nil {
		return err
	}

	tiles, err := p.storage()
	if err != nil {
		return err
	}

	switch src := tile.(type) {
	case *HeapTile:
		if src == nil {
			return ErrNilTile
		}
		tiles[index].TileData = src.TileData
	case TileRef:
		tiles[index].TileData = src.Data()
	default:
		CopyTile(tiles[index], tile)
	}

	return nil
}

func (p *HeapTileProvider) storage() ([]*HeapTile, error) {
	p.once.Do(func() {
		count, err := storageLen(p.width, p.height, 1)
		if err != nil {
			p.err = err
			return
		}

		log.Printf("Allocating %d tile objects for %dx%d tiles", count, p.width, p.height)
		p.tiles, p.err = makeHeapTiles(count)
	})
	return p.tiles, p.err
}

func makeHeapTiles(count int) (tiles []*HeapTile, err error) {
	defer func() {
		if r := recover(); r != nil {
			tiles, err = nil, fmt.Errorf("%w: %d tiles: %v", ErrAllocation, count, r)
		}
	}()

	tiles = make([]*HeapTile, count)
	for i := range tiles {
		tiles[i] = NewHeapTile()
	}
	return tiles, nil
}
