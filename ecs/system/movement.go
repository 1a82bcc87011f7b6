package system

import (
	"math"

	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
)

// probe keeps collision samples off exact tile edges, which count as open.
const probe = 0.01

// MovementSystem integrates gravity and velocity for bodies and resolves
// them against the level one axis at a time.
type MovementSystem struct {
	query WorldQuery
}

func NewMovementSystem(q WorldQuery) *MovementSystem {
	return &MovementSystem{query: q}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if w == nil || s.query == nil {
		return
	}

	ecs.ForEach3(w, component.TransformComponent.Kind(), component.VelocityComponent.Kind(), component.BodyComponent.Kind(),
		func(e ecs.Entity, t *component.Transform, v *component.Velocity, b *component.Body) {
			if g, ok := ecs.Get(w, e, component.GravityComponent.Kind()); ok {
				v.Y = math.Min(v.Y+g.Accel, g.Terminal)
			}
			c, ok := ecs.Get(w, e, component.CollisionComponent.Kind())
			if !ok {
				c = &component.Collision{}
			}
			*c = component.Collision{}

			s.moveX(t, v, b, c)
			s.moveY(t, v, b, c)
		})
}

func (s *MovementSystem) moveX(t *component.Transform, v *component.Velocity, b *component.Body, c *component.Collision) {
	if v.X == 0 {
		return
	}
	ts := s.query.TileSize()
	t.X += v.X
	if v.X > 0 {
		edge := t.X + b.Width - probe
		if s.solidColumn(edge, t.Y, b.Height) {
			t.X = math.Floor(edge/ts)*ts - b.Width
			c.Right = true
		}
		return
	}
	edge := t.X + probe
	if s.solidColumn(edge, t.Y, b.Height) {
		t.X = (math.Floor(edge/ts) + 1) * ts
		c.Left = true
	}
}

func (s *MovementSystem) moveY(t *component.Transform, v *component.Velocity, b *component.Body, c *component.Collision) {
	if v.Y == 0 {
		return
	}
	ts := s.query.TileSize()
	t.Y += v.Y
	if v.Y > 0 {
		edge := t.Y + b.Height - probe
		if s.solidRow(t.X, edge, b.Width) {
			t.Y = math.Floor(edge/ts)*ts - b.Height
			c.Down = true
			v.Y = 0
		}
		return
	}
	edge := t.Y + probe
	if s.solidRow(t.X, edge, b.Width) {
		t.Y = (math.Floor(edge/ts) + 1) * ts
		c.Up = true
		v.Y = 0
	}
}

// solidColumn samples a vertical line at x from y to y+h at most a tile apart.
func (s *MovementSystem) solidColumn(x, y, h float64) bool {
	for _, sy := range samples(y+probe, y+h-probe, s.query.TileSize()) {
		if s.query.IsSolid(x, sy) {
			return true
		}
	}
	return false
}

func (s *MovementSystem) solidRow(x, y, w float64) bool {
	for _, sx := range samples(x+probe, x+w-probe, s.query.TileSize()) {
		if s.query.IsSolid(sx, y) {
			return true
		}
	}
	return false
}

func samples(from, to, step float64) []float64 {
	if to < from {
		return []float64{from}
	}
	out := []float64{from}
	for p := from + step; p < to; p += step {
		out = append(out, p)
	}
	return append(out, to)
}

// Grounded reports whether the body has solid ground just below its feet.
func Grounded(q WorldQuery, box component.AABB) bool {
	if q == nil {
		return false
	}
	y := box.Y + box.H + probe
	return q.IsSolid(box.X+probe, y) || q.IsSolid(box.X+box.W-probe, y)
}
