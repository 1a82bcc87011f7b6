package entity

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
)

// NewParticle spawns a drifting square that shrinks away.
func NewParticle(w *ecs.World, x, y, vx, vy, size float64, tint color.NRGBA, frames int) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	_ = ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{X: vx, Y: vy})
	_ = ecs.Add(w, e, component.ParticleComponent.Kind(), &component.Particle{Color: tint, Size: size, Shrink: size / float64(max(frames, 1))})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: frames, Total: frames})
	return e
}

// NewSpark spawns a streak moving along angle.
func NewSpark(w *ecs.World, x, y, angle, speed float64) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	_ = ecs.Add(w, e, component.SparkComponent.Kind(), &component.Spark{Angle: angle, Speed: speed, Decay: 0.1})
	return e
}

// Burst spawns n sparks in random directions plus a ring of particles, the
// effect used for kills and impacts.
func Burst(w *ecs.World, rng *rand.Rand, x, y float64, n int, tint color.NRGBA) {
	for i := 0; i < n; i++ {
		angle := rng.Float64() * math.Pi * 2
		speed := rng.Float64() * 5
		NewSpark(w, x, y, angle, 2+rng.Float64()*3)
		NewParticle(w, x, y, math.Cos(angle+math.Pi)*speed*0.5, math.Sin(angle+math.Pi)*speed*0.5, 3, tint, 20+rng.IntN(10))
	}
}
