package system

import (
	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
)

// TTLSystem counts lifetimes down, fades particles along the way and
// destroys whatever runs out.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Frames <= 1 {
			ecs.DestroyEntity(w, e)
			return
		}
		ttl.Frames--
		if ttl.Total <= 0 {
			return
		}
		if p, ok := ecs.Get(w, e, component.ParticleComponent.Kind()); ok {
			p.Color.A = uint8(255 * ttl.Frames / ttl.Total)
		}
	})
}
