package system

import (
	"math"

	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
)

// ParticleSystem drifts particles and slows sparks until they vanish.
type ParticleSystem struct{}

func NewParticleSystem() *ParticleSystem {
	return &ParticleSystem{}
}

func (s *ParticleSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.ParticleComponent.Kind(), component.TransformComponent.Kind(), component.VelocityComponent.Kind(),
		func(e ecs.Entity, p *component.Particle, t *component.Transform, v *component.Velocity) {
			t.X += v.X
			t.Y += v.Y
			v.X *= 0.9
			v.Y *= 0.9
			p.Size = math.Max(0, p.Size-p.Shrink)
			if p.Size == 0 {
				ecs.DestroyEntity(w, e)
			}
		})

	ecs.ForEach2(w, component.SparkComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, sp *component.Spark, t *component.Transform) {
		t.X += math.Cos(sp.Angle) * sp.Speed
		t.Y += math.Sin(sp.Angle) * sp.Speed
		sp.Speed = math.Max(0, sp.Speed-sp.Decay)
		if sp.Speed == 0 {
			ecs.DestroyEntity(w, e)
		}
	})
}
