package levels

import (
	"errors"
	"fmt"
	"strings"
)

const DefaultTileSize = 16

var (
	ErrBadDimensions = errors.New("levels: invalid dimensions")
	ErrLayerSize     = errors.New("levels: layer size does not match dimensions")
	ErrNoPlayerSpawn = errors.New("levels: no player spawner")
)

// Role tags a spawner.
type Role string

const (
	RolePlayer Role = "player"
	RoleEnemy  Role = "enemy"
)

// Spawner is a static point in a layout tagged with a role.
type Spawner struct {
	Role Role
	X    float64
	Y    float64
}

// Definition is the immutable static data of one level.
type Definition struct {
	Index          int
	Name           string
	Width          int
	Height         int
	TileSize       float64
	Layers         [][]int
	Solid          []bool
	Spawners       []Spawner
	EnemyArchetype string
	FragmentType   string
	Emergency      bool
}

// Source fetches level layouts by index.
type Source interface {
	FetchLevelLayout(index int) (*Definition, error)
}

// FSSource loads levels/level_<n>.json from disk or the embedded files.
type FSSource struct{}

func (FSSource) FetchLevelLayout(index int) (*Definition, error) {
	lvl, err := LoadLevelFromFS(FileName(index))
	if err != nil {
		return nil, err
	}
	return FromLevel(index, lvl)
}

// FromLevel validates a decoded layout and converts it to a Definition.
func FromLevel(index int, lvl *Level) (*Definition, error) {
	if lvl == nil || lvl.Width <= 0 || lvl.Height <= 0 {
		return nil, ErrBadDimensions
	}
	size := lvl.Width * lvl.Height
	tileSize := lvl.TileSize
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	def := &Definition{
		Index:          index,
		Name:           lvl.Name,
		Width:          lvl.Width,
		Height:         lvl.Height,
		TileSize:       float64(tileSize),
		Layers:         lvl.Layers,
		Solid:          make([]bool, size),
		EnemyArchetype: lvl.EnemyArchetype,
		FragmentType:   lvl.FragmentType,
	}
	if def.Name == "" {
		def.Name = fmt.Sprintf("Sector %d", index)
	}

	for layerIdx, layer := range lvl.Layers {
		if len(layer) != size {
			return nil, fmt.Errorf("layer %d: %w", layerIdx, ErrLayerSize)
		}
		physics := true
		if layerIdx < len(lvl.LayerMeta) {
			physics = lvl.LayerMeta[layerIdx].Physics
		}
		if !physics {
			continue
		}
		for i, tile := range layer {
			if tile > 0 {
				def.Solid[i] = true
			}
		}
	}

	hasPlayer := false
	for _, ent := range lvl.Entities {
		role := Role(strings.ToLower(ent.Type))
		switch role {
		case RolePlayer:
			hasPlayer = true
		case RoleEnemy:
		default:
			// Unknown entity type; ignore for now.
			continue
		}
		def.Spawners = append(def.Spawners, Spawner{Role: role, X: float64(ent.X), Y: float64(ent.Y)})
	}
	if !hasPlayer {
		return nil, ErrNoPlayerSpawn
	}
	return def, nil
}

// IsSolidTile reports whether the tile at (tx, ty) blocks movement. Tiles
// outside the map are open.
func (d *Definition) IsSolidTile(tx, ty int) bool {
	if d == nil || tx < 0 || tx >= d.Width || ty < 0 || ty >= d.Height {
		return false
	}
	return d.Solid[ty*d.Width+tx]
}

// SpawnersOf returns the spawners tagged role, in layout order.
func (d *Definition) SpawnersOf(role Role) []Spawner {
	if d == nil {
		return nil
	}
	out := make([]Spawner, 0, len(d.Spawners))
	for _, s := range d.Spawners {
		if s.Role == role {
			out = append(out, s)
		}
	}
	return out
}

// PixelWidth and PixelHeight give the level extent in world pixels.
func (d *Definition) PixelWidth() float64  { return float64(d.Width) * d.TileSize }
func (d *Definition) PixelHeight() float64 { return float64(d.Height) * d.TileSize }

const (
	emergencyWidth    = 24
	emergencyHeight   = 12
	emergencyFloorRow = 9
	emergencyFloorX0  = 2
	emergencyFloorX1  = 21
)

// Emergency builds the deterministic fallback layout: a short flat platform
// with one player spawner and one enemy spawner.
func Emergency(index int, fragmentType, archetype string) *Definition {
	size := emergencyWidth * emergencyHeight
	layer := make([]int, size)
	solid := make([]bool, size)
	for x := emergencyFloorX0; x <= emergencyFloorX1; x++ {
		for y := emergencyFloorRow; y < emergencyHeight; y++ {
			layer[y*emergencyWidth+x] = 1
			solid[y*emergencyWidth+x] = true
		}
	}
	ts := float64(DefaultTileSize)
	top := float64(emergencyFloorRow-1) * ts
	return &Definition{
		Index:    index,
		Name:     fmt.Sprintf("Sector %d: Safe Mode", index),
		Width:    emergencyWidth,
		Height:   emergencyHeight,
		TileSize: ts,
		Layers:   [][]int{layer},
		Solid:    solid,
		Spawners: []Spawner{
			{Role: RolePlayer, X: float64(emergencyFloorX0+2) * ts, Y: top},
			{Role: RoleEnemy, X: float64(emergencyFloorX1-3) * ts, Y: top},
		},
		EnemyArchetype: archetype,
		FragmentType:   fragmentType,
		Emergency:      true,
	}
}
