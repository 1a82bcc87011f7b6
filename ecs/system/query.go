package system

import (
	"math"

	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
)

// Solids is the static geometry a level exposes to systems.
type Solids interface {
	IsSolid(x, y float64) bool
	TileSize() float64
	Bottom() float64
}

// WorldQuery is everything a system may ask about the level it runs in.
type WorldQuery interface {
	IsSolid(x, y float64) bool
	Hitbox(e ecs.Entity) (component.AABB, bool)
	TileSize() float64
	Bottom() float64
}

// Query answers WorldQuery for one world and its solids.
type Query struct {
	world  *ecs.World
	solids Solids
}

func NewQuery(w *ecs.World, solids Solids) *Query {
	return &Query{world: w, solids: solids}
}

func (q *Query) IsSolid(x, y float64) bool {
	if q == nil || q.solids == nil {
		return false
	}
	return q.solids.IsSolid(x, y)
}

func (q *Query) Hitbox(e ecs.Entity) (component.AABB, bool) {
	if q == nil {
		return component.AABB{}, false
	}
	return Hitbox(q.world, e)
}

func (q *Query) TileSize() float64 {
	if q == nil || q.solids == nil {
		return 16
	}
	return q.solids.TileSize()
}

func (q *Query) Bottom() float64 {
	if q == nil || q.solids == nil {
		return math.Inf(1)
	}
	return q.solids.Bottom()
}

// Hitbox is the body rectangle of e in world space.
func Hitbox(w *ecs.World, e ecs.Entity) (component.AABB, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return component.AABB{}, false
	}
	b, ok := ecs.Get(w, e, component.BodyComponent.Kind())
	if !ok {
		return component.AABB{X: t.X, Y: t.Y}, true
	}
	return component.AABB{X: t.X, Y: t.Y, W: b.Width, H: b.Height}, true
}

// PlayerHitbox returns the hitbox of the first player in w.
func PlayerHitbox(w *ecs.World) (ecs.Entity, component.AABB, bool) {
	e, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return 0, component.AABB{}, false
	}
	box, ok := Hitbox(w, e)
	return e, box, ok
}
