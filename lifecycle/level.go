package lifecycle

import (
	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/ecs/system"
	"github.com/milk9111/netguardian/levels"
	"github.com/milk9111/netguardian/physics"
)

// EnterTransition is the transition counter of a freshly loaded level; it
// climbs back to zero while the entry wipe plays.
const EnterTransition = -30

// Level is the runtime state of the level being played. A new one is built
// on every load and never reused.
type Level struct {
	Def    *levels.Definition
	World  *ecs.World
	Space  *physics.Space
	Query  *system.Query
	Player ecs.Entity

	ScrollX, ScrollY float64
	// Transition is negative while entering, positive while exiting and zero
	// when stable.
	Transition int
	Crossfade  int
	Shake      float64
	DeathTimer int

	EnemiesTotal    int
	EnemiesDefeated int
	Fallback        bool
}

// EnemyCount is the number of enemies still alive.
func (l *Level) EnemyCount() int {
	if l == nil {
		return 0
	}
	return ecs.Count(l.World, component.EnemyComponent.Kind())
}

// PlayerDead reports whether the player entity has died.
func (l *Level) PlayerDead() bool {
	if l == nil {
		return false
	}
	p, ok := ecs.Get(l.World, l.Player, component.PlayerComponent.Kind())
	return ok && p.Dead
}

// PlayerBox returns the player hitbox; the zero box when there is no player.
func (l *Level) PlayerBox() component.AABB {
	if l == nil {
		return component.AABB{}
	}
	box, _ := system.Hitbox(l.World, l.Player)
	return box
}

// PlayerSpawns counts player entities; a loaded level always has exactly one.
func (l *Level) PlayerSpawns() int {
	if l == nil {
		return 0
	}
	return ecs.Count(l.World, component.PlayerComponent.Kind())
}

// FollowCamera eases the scroll toward the player, centred in a view of
// viewW by viewH pixels and clamped to the level bounds.
func (l *Level) FollowCamera(viewW, viewH float64) {
	if l == nil || l.Def == nil {
		return
	}
	box := l.PlayerBox()
	targetX := box.CenterX() - viewW/2
	targetY := box.CenterY() - viewH/2
	l.ScrollX += (targetX - l.ScrollX) / 30
	l.ScrollY += (targetY - l.ScrollY) / 30

	maxX := l.Def.PixelWidth() - viewW
	maxY := l.Def.PixelHeight() - viewH
	l.ScrollX = clamp(l.ScrollX, 0, maxX)
	l.ScrollY = clamp(l.ScrollY, 0, maxY)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
