// Package worldgen fills a tile grid with terrain. It only talks to the grid
// through constile.TileCollection, so it works the same against the packed
// and the heap providers.
package worldgen

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jasonbot/constile"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Pass is one step of world generation: an algorithm name and its settings.
type Pass struct {
	Algorithm  string            `json:"algorithm"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// Generator runs passes against a grid. Output depends only on Seed.
type Generator struct {
	Seed  int64
	noise *opensimplex.Noise
}

// NewGenerator makes a generator for a seed
func NewGenerator(seed int64) *Generator {
	return &Generator{Seed: seed, noise: opensimplex.NewWithSeed(seed)}
}

// Generate runs every pass in order and stops at the first error the grid
// reports. Unknown algorithms are logged and skipped.
func (g *Generator) Generate(tiles constile.TileCollection, passes []Pass) error {
	if tiles.Width() <= 0 || tiles.Height() <= 0 {
		return fmt.Errorf("cannot generate a %dx%d world", tiles.Width(), tiles.Height())
	}

	for i, pass := range passes {
		algo, ok := generationAlgorithms[pass.Algorithm]
		if !ok {
			log.Printf("Skipping unknown generation algorithm %q", pass.Algorithm)
			continue
		}

		log.Printf("Generation pass %d: %s %v", i, pass.Algorithm, pass.Parameters)
		if err := algo(g, tiles, pass.Parameters); err != nil {
			return fmt.Errorf("generation pass %d (%s): %w", i, pass.Algorithm, err)
		}
	}

	return nil
}

// DefaultPasses is used when no generation file is available.
func DefaultPasses() []Pass {
	return []Pass{
		{Algorithm: "fill"},
		{Algorithm: "surface"},
		{Algorithm: "caves"},
		{Algorithm: "lakes"},
		{Algorithm: "frame"},
	}
}

// LoadPasses reads a JSON list of passes.
func LoadPasses(passFile string) ([]Pass, error) {
	data, err := os.ReadFile(passFile)
	if err != nil {
		return nil, err
	}

	var fileData struct {
		Passes []Pass `json:"passes"`
	}
	if err := json.Unmarshal(data, &fileData); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", passFile, err)
	}

	return fileData.Passes, nil
}
