// Package host wires a tile provider, world generation and the SSH viewer
// together the way the binaries under cmd/ run them.
package host

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jasonbot/constile"
	"github.com/jasonbot/constile/viewer"
	"github.com/jasonbot/constile/worldgen"
)

// ConfigFile is read from the working directory, or from next to the
// executable when it is not there.
var ConfigFile = "./config.json"

// Config is the host's JSON configuration.
type Config struct {
	Listen         string             `json:""`
	HostKey        string             `json:""`
	Database       string             `json:""`
	WorldGen       string             `json:""`
	Provider       string             `json:""`
	Seed           int64              `json:""`
	World          constile.WorldSize `json:""`
	SkipGeneration bool               `json:",omitempty"`
}

// DefaultConfig is a small world served on :2222
func DefaultConfig() Config {
	return Config{
		Listen:   ":2222",
		HostKey:  "./host_key",
		Database: "./viewers.db",
		WorldGen: "./worldgen.json",
		Provider: "packed",
		Seed:     1,
		World:    constile.WorldSize{MaxTilesX: 4199, MaxTilesY: 1199},
	}
}

// LoadConfig reads a config file over the defaults. A missing or broken
// file is logged and the defaults are kept.
func LoadConfig(configFile string) Config {
	config := DefaultConfig()
	data, err := os.ReadFile(configFile)

	if err == nil {
		err = json.Unmarshal(data, &config)
	}

	if err != nil {
		log.Printf("Error parsing %s: %v", configFile, err)
	}

	return config
}

// FindConfigDir changes into the executable's directory when the config
// file is not in the working directory.
func FindConfigDir() {
	if _, err := os.Stat(ConfigFile); err == nil {
		return
	}

	executable, err := os.Executable()
	if err != nil {
		panic(err)
	}

	executablePath, err := filepath.Abs(filepath.Dir(executable))
	if err != nil {
		panic(err)
	}

	log.Printf("Going to folder %v...", executablePath)
	if err := os.Chdir(executablePath); err != nil {
		log.Printf("Error changing to %s: %v", executablePath, err)
	}
}

// NewTiles builds the configured provider.
func NewTiles(config Config) (constile.TileCollection, error) {
	switch config.Provider {
	case "", "packed":
		return constile.NewTileProvider(config.World), nil
	case "heap":
		return constile.NewHeapTileProvider(config.World), nil
	}
	return nil, fmt.Errorf("unknown tile provider %q", config.Provider)
}

// StorageBytes is what the tiles occupy, as far as it is known up front.
func StorageBytes(tiles constile.TileCollection) int {
	if p, ok := tiles.(*constile.TileProvider); ok {
		return p.Len() * constile.TileDataSize
	}
	return 0
}

// BuildWorld creates the tiles and runs world generation over them.
func BuildWorld(config Config) (constile.TileCollection, error) {
	tiles, err := NewTiles(config)
	if err != nil {
		return nil, err
	}

	if config.SkipGeneration {
		return tiles, nil
	}

	passes, err := worldgen.LoadPasses(config.WorldGen)
	if err != nil {
		log.Printf("Using default generation passes: %v", err)
		passes = worldgen.DefaultPasses()
	}

	if err := worldgen.NewGenerator(config.Seed).Generate(tiles, passes); err != nil {
		return nil, err
	}

	return tiles, nil
}

// Serve builds the world and runs the SSH viewer until it fails.
func Serve(config Config) error {
	tiles, err := BuildWorld(config)
	if err != nil {
		return err
	}

	store, err := viewer.OpenViewerStore(config.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	return viewer.ServeSSH(config.Listen, config.HostKey, tiles, store)
}
