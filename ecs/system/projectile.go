package system

import (
	"image/color"
	"math/rand/v2"

	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/ecs/entity"
)

var impactColor = color.NRGBA{R: 0xff, G: 0x80, B: 0x60, A: 0xff}

// ProjectileSystem moves shots and removes them when they hit a wall or age
// out.
type ProjectileSystem struct {
	query WorldQuery
	rng   *rand.Rand
}

func NewProjectileSystem(q WorldQuery, rng *rand.Rand) *ProjectileSystem {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &ProjectileSystem{query: q, rng: rng}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Projectile, t *component.Transform) {
		t.X += p.Speed
		p.Age++
		box, _ := Hitbox(w, e)
		if s.query != nil && s.query.IsSolid(box.CenterX(), box.CenterY()) {
			ecs.DestroyEntity(w, e)
			entity.Burst(w, s.rng, box.CenterX(), box.CenterY(), 4, impactColor)
			return
		}
		if p.MaxAge > 0 && p.Age > p.MaxAge {
			ecs.DestroyEntity(w, e)
		}
	})
}
