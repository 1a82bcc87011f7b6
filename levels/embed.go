package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is the on-disk JSON layout of a single level.
type Level struct {
	Name           string      `json:"name"`
	EnemyArchetype string      `json:"enemy_archetype"`
	FragmentType   string      `json:"fragment_type"`
	Width          int         `json:"width"`
	Height         int         `json:"height"`
	TileSize       int         `json:"tile_size,omitempty"`
	Layers         [][]int     `json:"layers"`
	LayerMeta      []LayerMeta `json:"layer_meta,omitempty"`
	Entities       []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
}

type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Dir is the on-disk directory checked before the embedded levels, so edited
// layouts are picked up without a rebuild.
const Dir = "levels"

// LoadLevelFromFS reads a level by file name, preferring the copy on disk.
func LoadLevelFromFS(name string) (*Level, error) {
	data, err := os.ReadFile(filepath.Join(Dir, name))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	return &lvl, nil
}

// FileName maps a level index to its file name.
func FileName(index int) string {
	return fmt.Sprintf("level_%d.json", index)
}
