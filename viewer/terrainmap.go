package viewer

import (
	"github.com/jasonbot/constile"
)

// CellRenderInfo holds the minimum info for rendering one tile in a terminal
type CellRenderInfo struct {
	FGColor byte
	BGColor byte
	Glyph   rune
}

// 256 colour xterm palette entries.
const (
	offGridFG = 232
	offGridBG = 233
	skyBG     = 24
	liquidFG  = 33
	liquidBG  = 19
	wallFG    = 238
	wallBG    = 235
	cameraFG  = 160
)

var solidGlyphs = []rune{'█', '▓', '▒', '#', '%', '&'}

func renderTile(tile constile.Tile) CellRenderInfo {
	switch {
	case tile.Type() != 0:
		kind := int(tile.Type())
		return CellRenderInfo{
			FGColor: byte(16 + kind%216),
			BGColor: wallBG,
			Glyph:   solidGlyphs[kind%len(solidGlyphs)]}
	case tile.Liquid() != 0:
		glyph := '~'
		if tile.Liquid() > 127 {
			glyph = '≈'
		}
		return CellRenderInfo{FGColor: liquidFG, BGColor: liquidBG, Glyph: glyph}
	case tile.Wall() != 0:
		return CellRenderInfo{FGColor: wallFG, BGColor: wallBG, Glyph: '░'}
	}

	return CellRenderInfo{FGColor: skyBG, BGColor: skyBG, Glyph: ' '}
}

// TerrainMap renders a width x height window centred on (cx, cy). Rows are
// indexed first. Anything outside the grid is drawn as a faint dot.
func TerrainMap(tiles constile.TileCollection, cx, cy, width, height int) ([][]CellRenderInfo, error) {
	terrainMap := make([][]CellRenderInfo, height)
	for i := range terrainMap {
		terrainMap[i] = make([]CellRenderInfo, width)
	}

	startx := cx - width/2
	starty := cy - height/2

	for xd := 0; xd < width; xd++ {
		for yd := 0; yd < height; yd++ {
			x, y := startx+xd, starty+yd

			if x < 0 || y < 0 || x >= tiles.Width() || y >= tiles.Height() {
				terrainMap[yd][xd] = CellRenderInfo{FGColor: offGridFG, BGColor: offGridBG, Glyph: '·'}
				continue
			}

			tile, err := tiles.Tile(x, y)
			if err != nil {
				return nil, err
			}
			terrainMap[yd][xd] = renderTile(tile)
		}
	}

	if cx >= startx && cx < startx+width && cy >= starty && cy < starty+height {
		terrainMap[cy-starty][cx-startx].FGColor = cameraFG
		terrainMap[cy-starty][cx-startx].Glyph = '+'
	}

	return terrainMap, nil
}
