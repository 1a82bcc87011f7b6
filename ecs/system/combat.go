package system

import (
	"image/color"
	"math/rand/v2"

	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/ecs/entity"
)

const (
	killShake      = 16
	hurtShake      = 8
	deathShake     = 16
	hurtInvulnTime = 60
	hurtFlash      = 10
)

var (
	killColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	deathColor = color.NRGBA{R: 0xff, G: 0x50, B: 0x50, A: 0xff}
)

// CombatSystem resolves contacts between the player, enemies and shots.
// A dashing player destroys enemies and deflects shots; otherwise contact
// hurts the player.
type CombatSystem struct {
	query WorldQuery
	rng   *rand.Rand
}

func NewCombatSystem(q WorldQuery, rng *rand.Rand) *CombatSystem {
	if rng == nil {
		rng = rand.New(rand.NewPCG(3, 4))
	}
	return &CombatSystem{query: q, rng: rng}
}

func (s *CombatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pe, box, ok := PlayerHitbox(w)
	if !ok {
		return
	}
	p, _ := ecs.Get(w, pe, component.PlayerComponent.Kind())
	if p.Dead {
		return
	}
	h, ok := ecs.Get(w, pe, component.HealthComponent.Kind())
	if !ok {
		h = &component.Health{Current: 1, Max: 1}
	}
	if h.Invulnerable > 0 {
		h.Invulnerable--
	}
	if sp, ok := ecs.Get(w, pe, component.SpriteComponent.Kind()); ok && sp.Flash > 0 {
		sp.Flash--
	}

	if s.query != nil && box.Y > s.query.Bottom() {
		s.kill(w, pe, p, h, box)
		return
	}

	dashing := p.Dashing > 0
	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Enemy, _ *component.Transform) {
		if p.Dead {
			return
		}
		ebox, _ := Hitbox(w, e)
		if !box.Intersects(ebox) {
			return
		}
		if dashing {
			ecs.DestroyEntity(w, e)
			w.Events().Push(ecs.Event{Kind: ecs.EventEnemyDefeated, Entity: e, X: ebox.CenterX(), Y: ebox.CenterY()})
			w.Events().Push(ecs.Event{Kind: ecs.EventShake, Magnitude: killShake})
			entity.Burst(w, s.rng, ebox.CenterX(), ebox.CenterY(), 12, killColor)
			return
		}
		damage := 1
		if hs, ok := ecs.Get(w, e, component.HostileComponent.Kind()); ok {
			damage = hs.Damage
		}
		s.hurt(w, pe, p, h, box, damage)
	})

	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pr *component.Projectile, _ *component.Transform) {
		if p.Dead {
			return
		}
		pbox, _ := Hitbox(w, e)
		if !box.Intersects(pbox) {
			return
		}
		ecs.DestroyEntity(w, e)
		if dashing {
			entity.Burst(w, s.rng, pbox.CenterX(), pbox.CenterY(), 4, killColor)
			return
		}
		s.hurt(w, pe, p, h, box, pr.Damage)
	})
}

func (s *CombatSystem) hurt(w *ecs.World, pe ecs.Entity, p *component.Player, h *component.Health, box component.AABB, damage int) {
	if h.Invulnerable > 0 || damage <= 0 {
		return
	}
	h.Current -= damage
	h.Invulnerable = hurtInvulnTime
	if sp, ok := ecs.Get(w, pe, component.SpriteComponent.Kind()); ok {
		sp.Flash = hurtFlash
	}
	if h.Current <= 0 {
		s.kill(w, pe, p, h, box)
		return
	}
	w.Events().Push(ecs.Event{Kind: ecs.EventPlayerHurt, Entity: pe, X: box.CenterX(), Y: box.CenterY(), Magnitude: float64(h.Current)})
	w.Events().Push(ecs.Event{Kind: ecs.EventShake, Magnitude: hurtShake})
}

func (s *CombatSystem) kill(w *ecs.World, pe ecs.Entity, p *component.Player, h *component.Health, box component.AABB) {
	h.Current = 0
	p.Dead = true
	p.Dashing = 0
	w.Events().Push(ecs.Event{Kind: ecs.EventPlayerDied, Entity: pe, X: box.CenterX(), Y: box.CenterY()})
	w.Events().Push(ecs.Event{Kind: ecs.EventShake, Magnitude: deathShake})
	entity.Burst(w, s.rng, box.CenterX(), box.CenterY(), 24, deathColor)
}
