package worldgen

import (
	"strconv"

	"github.com/jasonbot/constile"
)

// Tile numbers written when a pass is not told otherwise.
const (
	airType   = 0
	dirtType  = 1
	stoneType = 2
	dirtWall  = 2
	stoneWall = 1

	fullLiquid = 255
	frameSize  = 18
)

type visitFunc func(g *Generator, tiles constile.TileCollection, params map[string]string) error

var generationAlgorithms map[string]visitFunc

func getIntSetting(settings map[string]string, settingName string, defaultValue int) int {
	if settings != nil {
		value, ok := settings[settingName]

		if ok && len(value) > 0 {
			val, err := strconv.Atoi(value)

			if err == nil {
				return val
			}
		}
	}

	return defaultValue
}

func getFloatSetting(settings map[string]string, settingName string, defaultValue float64) float64 {
	if settings != nil {
		value, ok := settings[settingName]

		if ok && len(value) > 0 {
			val, err := strconv.ParseFloat(value, 64)

			if err == nil {
				return val
			}
		}
	}

	return defaultValue
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// visitFill stamps one tile over a rectangle, the whole grid by default.
func visitFill(g *Generator, tiles constile.TileCollection, params map[string]string) error {
	x1 := getIntSetting(params, "x1", 0)
	y1 := getIntSetting(params, "y1", 0)
	x2 := getIntSetting(params, "x2", tiles.Width()-1)
	y2 := getIntSetting(params, "y2", tiles.Height()-1)

	tile := constile.NewHeapTile()
	tile.SetType(uint16(getIntSetting(params, "type", airType)))
	tile.SetWall(uint16(getIntSetting(params, "wall", 0)))
	tile.SetLiquid(uint8(getIntSetting(params, "liquid", 0)))

	for x := x1; x <= x2; x++ {
		for y := y1; y <= y2; y++ {
			if err := tiles.SetTile(x, y, tile); err != nil {
				return err
			}
		}
	}

	return nil
}

func (g *Generator) surfaceLevel(x, level, amplitude int, scale float64) int {
	return level + int(g.noise.Eval2(float64(x)*scale, 0)*float64(amplitude))
}

// visitSurface lays dirt over stone below a noisy horizon. Rows count
// downwards, so everything above the horizon is left alone.
func visitSurface(g *Generator, tiles constile.TileCollection, params map[string]string) error {
	height := tiles.Height()
	level := getIntSetting(params, "level", height/3)
	amplitude := getIntSetting(params, "amplitude", height/8)
	dirtDepth := getIntSetting(params, "dirtdepth", 6)
	scale := getFloatSetting(params, "scale", 0.02)
	dirt := uint16(getIntSetting(params, "dirt", dirtType))
	stone := uint16(getIntSetting(params, "stone", stoneType))

	for x := 0; x < tiles.Width(); x++ {
		surface := clamp(g.surfaceLevel(x, level, amplitude, scale), 0, height-1)

		for y := surface; y < height; y++ {
			tile, err := tiles.Tile(x, y)
			if err != nil {
				return err
			}

			if y-surface < dirtDepth {
				tile.SetType(dirt)
				tile.SetWall(dirtWall)
			} else {
				tile.SetType(stone)
				tile.SetWall(stoneWall)
			}
		}
	}

	return nil
}

// visitCaves hollows out tiles where the noise field is high, keeping walls.
func visitCaves(g *Generator, tiles constile.TileCollection, params map[string]string) error {
	depth := getIntSetting(params, "depth", tiles.Height()/2)
	threshold := getFloatSetting(params, "threshold", 0.35)
	scale := getFloatSetting(params, "scale", 0.08)

	for x := 0; x < tiles.Width(); x++ {
		for y := clamp(depth, 0, tiles.Height()); y < tiles.Height(); y++ {
			if g.noise.Eval2(float64(x)*scale, float64(y)*scale) <= threshold {
				continue
			}

			tile, err := tiles.Tile(x, y)
			if err != nil {
				return err
			}
			tile.SetType(airType)
		}
	}

	return nil
}

// visitLakes floods the open air between the water line and the ground in
// every column whose ground lies below the water line.
func visitLakes(g *Generator, tiles constile.TileCollection, params map[string]string) error {
	waterLine := getIntSetting(params, "level", tiles.Height()/3)
	amount := uint8(getIntSetting(params, "amount", fullLiquid))

	for x := 0; x < tiles.Width(); x++ {
		ground := -1
		for y := 0; y < tiles.Height(); y++ {
			tile, err := tiles.Tile(x, y)
			if err != nil {
				return err
			}
			if tile.Type() != airType {
				ground = y
				break
			}
		}

		if ground < 0 {
			continue
		}

		for y := clamp(waterLine, 0, ground); y < ground; y++ {
			tile, err := tiles.Tile(x, y)
			if err != nil {
				return err
			}
			if tile.Type() == airType && tile.Liquid() == 0 {
				tile.SetLiquid(amount)
			}
		}
	}

	return nil
}

// Neighbour bits used to pick a frame for a solid tile.
const (
	NORTHBIT = 1
	EASTBIT  = 2
	SOUTHBIT = 4
	WESTBIT  = 8
)

func solidAt(tiles constile.TileCollection, x, y int) (bool, error) {
	if x < 0 || y < 0 || x >= tiles.Width() || y >= tiles.Height() {
		return true, nil
	}

	tile, err := tiles.Tile(x, y)
	if err != nil {
		return false, err
	}
	return tile.Type() != airType, nil
}

// FrameFor maps a neighbour mask to sprite atlas offsets.
func FrameFor(mask int) (int16, int16) {
	return int16((mask % 4) * frameSize), int16((mask / 4) * frameSize)
}

// visitFrame points every solid tile at the atlas cell matching which of
// its neighbours are solid. The grid edge counts as solid.
func visitFrame(g *Generator, tiles constile.TileCollection, params map[string]string) error {
	neighbours := []struct {
		dx, dy int
		bit    int
	}{
		{0, -1, NORTHBIT},
		{1, 0, EASTBIT},
		{0, 1, SOUTHBIT},
		{-1, 0, WESTBIT},
	}

	for x := 0; x < tiles.Width(); x++ {
		for y := 0; y < tiles.Height(); y++ {
			tile, err := tiles.Tile(x, y)
			if err != nil {
				return err
			}

			if tile.Type() == airType {
				tile.SetFrameX(0)
				tile.SetFrameY(0)
				continue
			}

			mask := 0
			for _, n := range neighbours {
				solid, err := solidAt(tiles, x+n.dx, y+n.dy)
				if err != nil {
					return err
				}
				if solid {
					mask |= n.bit
				}
			}

			frameX, frameY := FrameFor(mask)
			tile.SetFrameX(frameX)
			tile.SetFrameY(frameY)
		}
	}

	return nil
}

func init() {
	generationAlgorithms = make(map[string]visitFunc)

	generationAlgorithms["fill"] = visitFill
	generationAlgorithms["surface"] = visitSurface
	generationAlgorithms["caves"] = visitCaves
	generationAlgorithms["lakes"] = visitLakes
	generationAlgorithms["frame"] = visitFrame
}
