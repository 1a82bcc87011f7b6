// Package physics answers "is this point solid" for the active level using
// Chipmunk static shapes built from the level's solid tiles.
package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/netguardian/levels"
)

// Space owns the static collision geometry of one level.
type Space struct {
	space    *cp.Space
	tileSize float64
	rects    []cp.BB
	bottom   float64
}

// NewSpace merges solid tiles into maximal rectangles and registers each as
// a static box.
func NewSpace(def *levels.Definition) *Space {
	s := &Space{space: cp.NewSpace(), tileSize: levels.DefaultTileSize}
	if def == nil {
		return s
	}
	s.tileSize = def.TileSize
	s.bottom = def.PixelHeight()
	for _, bb := range mergeSolidTiles(def) {
		shape := cp.NewBox2(s.space.StaticBody, bb, 0)
		shape.SetFriction(0.9)
		s.space.AddShape(shape)
		s.rects = append(s.rects, bb)
	}
	return s
}

// IsSolid reports whether the point lies strictly inside a solid shape.
// Points on a shape edge are open, so a body resting exactly on a floor is
// not considered embedded in it.
func (s *Space) IsSolid(x, y float64) bool {
	if s == nil || s.space == nil {
		return false
	}
	info := s.space.PointQueryNearest(cp.Vector{X: x, Y: y}, 0, cp.SHAPE_FILTER_ALL)
	return info != nil && info.Shape != nil
}

// TileSize is the grid size used to snap bodies against solids.
func (s *Space) TileSize() float64 {
	if s == nil {
		return levels.DefaultTileSize
	}
	return s.tileSize
}

// Bottom is the lowest world y of the level; anything below has fallen out.
func (s *Space) Bottom() float64 {
	if s == nil {
		return 0
	}
	return s.bottom
}

// Rects returns the merged solid rectangles, used by the renderer.
func (s *Space) Rects() []cp.BB {
	if s == nil {
		return nil
	}
	return s.rects
}

func mergeSolidTiles(def *levels.Definition) []cp.BB {
	width, height := def.Width, def.Height
	if width <= 0 || height <= 0 {
		return nil
	}
	ts := def.TileSize
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }
	open := func(x, y int) bool {
		return !visited[index(x, y)] && def.IsSolidTile(x, y)
	}

	var out []cp.BB
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !open(x, y) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width && open(x2, y); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !open(x2, y2) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}

			out = append(out, cp.BB{
				L: float64(x) * ts,
				B: float64(y) * ts,
				R: float64(x+maxW) * ts,
				T: float64(y+maxH) * ts,
			})
		}
	}
	return out
}
