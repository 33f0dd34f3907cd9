package main

import (
	"fmt"
	"log"

	"github.com/andlabs/ui"
	"github.com/jasonbot/constile/host"
	"github.com/jasonbot/constile/viewer"
)

func main() {
	log.Println("Starting")
	host.FindConfigDir()

	config := host.LoadConfig(host.ConfigFile)

	tiles, err := host.BuildWorld(config)
	if err != nil {
		panic(err)
	}

	store, err := viewer.OpenViewerStore(config.Database)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	go func() {
		log.Fatal(viewer.ServeSSH(config.Listen, config.HostKey, tiles, store))
	}()

	uierr := ui.Main(func() {
		box := ui.NewVerticalBox()
		box.SetPadded(true)
		box.Append(ui.NewLabel(fmt.Sprintf("Running SSH server on %v", config.Listen)), false)
		box.Append(ui.NewLabel(fmt.Sprintf("%dx%d tiles (%s provider)", tiles.Width(), tiles.Height(), config.Provider)), false)
		if size := host.StorageBytes(tiles); size > 0 {
			box.Append(ui.NewLabel(fmt.Sprintf("%d bytes of packed tile storage", size)), false)
		}
		window := ui.NewWindow("Tile Viewer SSH Server", 400, 80, false)
		window.SetChild(box)
		window.OnClosing(func(*ui.Window) bool {
			ui.Quit()
			return true
		})
		window.Show()
	})
	if uierr != nil {
		panic(uierr)
	}
}
