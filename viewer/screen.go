package viewer

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ahmetb/go-cursor"
	"github.com/gliderlabs/ssh"
	"github.com/jasonbot/constile"
	"github.com/mgutz/ansi"
)

const (
	minScreenWidth  = 80
	minScreenHeight = 20
	inspectHeight   = 5
)

// Screen represents a UI screen. For now, just an SSH terminal.
type Screen interface {
	Render()
	Reset()
	ToggleInspect()
	Pan(dx, dy int)
}

type sshScreen struct {
	mu         sync.Mutex
	out        io.Writer
	tiles      constile.TileCollection
	viewer     *ViewerData
	online     func() int
	screenSize ssh.Window
	renderct   uint64
	refreshed  bool
	inspect    bool
}

func (screen *sshScreen) ToggleInspect() {
	screen.mu.Lock()
	screen.inspect = !screen.inspect
	screen.refreshed = false
	screen.mu.Unlock()
	screen.Render()
}

// Pan moves the camera, keeping it on the grid, and redraws.
func (screen *sshScreen) Pan(dx, dy int) {
	screen.mu.Lock()
	screen.viewer.X = clamp(screen.viewer.X+dx, 0, screen.tiles.Width()-1)
	screen.viewer.Y = clamp(screen.viewer.Y+dy, 0, screen.tiles.Height()-1)
	screen.mu.Unlock()
	screen.Render()
}

func (screen *sshScreen) Reset() {
	screen.mu.Lock()
	defer screen.mu.Unlock()
	io.WriteString(screen.out, fmt.Sprintf("%s%s%s", ansi.ColorCode("reset"), cursor.ClearEntireScreen(), cursor.MoveTo(1, 1)))
}

func (screen *sshScreen) Render() {
	screen.mu.Lock()
	defer screen.mu.Unlock()

	if screen.screenSize.Height < minScreenHeight || screen.screenSize.Width < minScreenWidth {
		clear := cursor.ClearEntireScreen()
		move := cursor.MoveTo(1, 1)
		io.WriteString(screen.out,
			fmt.Sprintf("%s%sScreen is too small. Make your terminal larger. (%dx%d minimum)",
				clear, move, minScreenWidth, minScreenHeight))
		return
	}

	if !screen.refreshed {
		io.WriteString(screen.out, cursor.ClearEntireScreen())
		screen.refreshed = true
	}

	screen.renderct++

	mapHeight := screen.screenSize.Height - 2
	if screen.inspect {
		mapHeight -= inspectHeight
	}

	var frame strings.Builder
	frame.WriteString(cursor.MoveTo(1, 1))
	frame.WriteString(screen.renderStatus())

	terrainMap, err := TerrainMap(screen.tiles, screen.viewer.X, screen.viewer.Y, screen.screenSize.Width, mapHeight)
	if err != nil {
		frame.WriteString(cursor.MoveTo(2, 1))
		frame.WriteString(ansi.Color(fmt.Sprintf("Can't draw map: %v", err), "red+b"))
	} else {
		for row, cells := range terrainMap {
			frame.WriteString(cursor.MoveTo(row+2, 1))
			frame.WriteString(renderRow(cells))
		}
	}

	if screen.inspect {
		for i, line := range screen.renderInspect() {
			frame.WriteString(cursor.MoveTo(mapHeight+2+i, 1))
			frame.WriteString(line)
		}
	}

	io.WriteString(screen.out, frame.String())
}

func renderRow(cells []CellRenderInfo) string {
	var row strings.Builder
	lastFG, lastBG := -1, -1

	for _, cell := range cells {
		if int(cell.FGColor) != lastFG || int(cell.BGColor) != lastBG {
			row.WriteString(ansi.ColorCode(fmt.Sprintf("%v:%v", cell.FGColor, cell.BGColor)))
			lastFG, lastBG = int(cell.FGColor), int(cell.BGColor)
		}
		row.WriteRune(cell.Glyph)
	}
	row.WriteString(ansi.ColorCode("reset"))

	return row.String()
}

func (screen *sshScreen) renderStatus() string {
	online := 1
	if screen.online != nil {
		online = screen.online()
	}

	status := fmt.Sprintf(" %s @ (%d, %d) of %dx%d  viewers: %d  [arrows] move  [i] inspect  [q] quit",
		screen.viewer.Name, screen.viewer.X, screen.viewer.Y,
		screen.tiles.Width(), screen.tiles.Height(), online)
	if len(status) < screen.screenSize.Width {
		status += strings.Repeat(" ", screen.screenSize.Width-len(status))
	}

	return ansi.Color(status, "black:white")
}

func (screen *sshScreen) renderInspect() []string {
	lines := make([]string, inspectHeight)
	title := ansi.ColorFunc("blue+b")

	tile, err := screen.tiles.Tile(screen.viewer.X, screen.viewer.Y)
	if err != nil {
		lines[0] = title("Inspect") + " " + err.Error()
		return lines
	}

	lines[0] = title(fmt.Sprintf("Tile (%d, %d)", screen.viewer.X, screen.viewer.Y))
	lines[1] = fmt.Sprintf("type %-6d wall %-6d liquid %-4d", tile.Type(), tile.Wall(), tile.Liquid())
	lines[2] = fmt.Sprintf("sTileHeader %016b  bTileHeader %08b", tile.STileHeader(), tile.BTileHeader())
	lines[3] = fmt.Sprintf("bTileHeader2 %08b  bTileHeader3 %08b", tile.BTileHeader2(), tile.BTileHeader3())
	lines[4] = fmt.Sprintf("frame (%d, %d)", tile.FrameX(), tile.FrameY())

	for i := range lines {
		lines[i] += cursor.ClearLineRight()
	}

	return lines
}

func (screen *sshScreen) resize(win ssh.Window) {
	screen.mu.Lock()
	screen.screenSize = win
	screen.refreshed = false
	screen.mu.Unlock()
	screen.Render()
}

func (screen *sshScreen) watchSSHScreen(done <-chan struct{}, resizeChan <-chan ssh.Window) {
	for {
		select {
		case <-done:
			return
		case win, ok := <-resizeChan:
			if !ok {
				return
			}
			screen.resize(win)
		}
	}
}

// NewSSHScreen manages the window rendering for a viewing session
func NewSSHScreen(session ssh.Session, tiles constile.TileCollection, viewer *ViewerData, online func() int) Screen {
	pty, resize, isPty := session.Pty()

	screen := sshScreen{out: session, tiles: tiles, viewer: viewer, online: online, screenSize: pty.Window}

	if isPty {
		go screen.watchSSHScreen(session.Context().Done(), resize)
	}

	return &screen
}
