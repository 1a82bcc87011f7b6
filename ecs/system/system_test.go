package system

import (
	"math"
	"testing"

	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/ecs/entity"
	"github.com/milk9111/netguardian/input"
	"github.com/milk9111/netguardian/prefabs"
)

// box level: floor below y=96, wall left of x=16.
type boxSolids struct{}

func (boxSolids) IsSolid(x, y float64) bool { return y > 96 || x < 16 }
func (boxSolids) TileSize() float64         { return 16 }
func (boxSolids) Bottom() float64           { return 200 }

func testPlayerSpec() *prefabs.PlayerSpec {
	return &prefabs.PlayerSpec{
		Width: 8, Height: 15, MoveSpeed: 1.5, JumpSpeed: 3.2, MaxJumps: 1,
		CoyoteFrames: 4, DashSpeed: 8, DashFrames: 10, DashCooldown: 50,
		Health: 3, Gravity: 0.1, Terminal: 5,
	}
}

func newPlayer(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e, err := entity.NewPlayerAt(w, testPlayerSpec(), "default", component.Sprite{}.Color, x, y)
	if err != nil {
		t.Fatalf("NewPlayerAt: %v", err)
	}
	return e
}

func newEnemy(t *testing.T, w *ecs.World, tag string, spec prefabs.EnemySpec, x, y float64) ecs.Entity {
	t.Helper()
	e, err := entity.NewEnemyAt(w, tag, spec, x, y, -1)
	if err != nil {
		t.Fatalf("NewEnemyAt: %v", err)
	}
	return e
}

func eventsOf(evts []ecs.Event, kind ecs.EventKind) []ecs.Event {
	var out []ecs.Event
	for _, e := range evts {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestMovementLandsOnFloor(t *testing.T) {
	w := ecs.NewWorld()
	e := newPlayer(t, w, 40, 20)
	sys := NewMovementSystem(NewQuery(w, boxSolids{}))

	for i := 0; i < 300; i++ {
		sys.Update(w)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.Y != 96-15 {
		t.Fatalf("expected feet on floor at y=81, got %v", tr.Y)
	}
	c, _ := ecs.Get(w, e, component.CollisionComponent.Kind())
	if !c.Down {
		t.Fatalf("expected Down collision after landing")
	}
}

func TestMovementStopsAtWall(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: 40, Y: 50})
	_ = ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{X: -3})
	_ = ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Width: 8, Height: 8})
	_ = ecs.Add(w, e, component.CollisionComponent.Kind(), &component.Collision{})
	sys := NewMovementSystem(NewQuery(w, boxSolids{}))

	for i := 0; i < 20; i++ {
		sys.Update(w)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.X != 16 {
		t.Fatalf("expected to rest against wall at x=16, got %v", tr.X)
	}
	c, _ := ecs.Get(w, e, component.CollisionComponent.Kind())
	if !c.Left {
		t.Fatalf("expected Left collision")
	}
}

func TestPlayerController(t *testing.T) {
	tests := []struct {
		name  string
		frame input.Frame
		check func(t *testing.T, p *component.Player, v *component.Velocity)
		hint  string
	}{
		{
			name:  "move_right",
			frame: input.Frame{}.Press(input.Right),
			check: func(t *testing.T, p *component.Player, v *component.Velocity) {
				if v.X != p.MoveSpeed {
					t.Fatalf("vx = %v, want %v", v.X, p.MoveSpeed)
				}
			},
			hint: HintMovement,
		},
		{
			name:  "jump_from_ground",
			frame: input.Frame{}.Press(input.Jump),
			check: func(t *testing.T, p *component.Player, v *component.Velocity) {
				if v.Y != -p.JumpSpeed {
					t.Fatalf("vy = %v, want %v", v.Y, -p.JumpSpeed)
				}
			},
			hint: HintJump,
		},
		{
			name:  "dash",
			frame: input.Frame{}.Press(input.Dash),
			check: func(t *testing.T, p *component.Player, v *component.Velocity) {
				if p.Dashing != p.DashFrames-1 || p.Cooldown != p.DashCooldown {
					t.Fatalf("dash state = %d/%d", p.Dashing, p.Cooldown)
				}
				if v.X != p.DashSpeed {
					t.Fatalf("vx = %v, want %v", v.X, p.DashSpeed)
				}
			},
			hint: HintDash,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := newPlayer(t, w, 40, 81)
			sys := NewPlayerControllerSystem(NewQuery(w, boxSolids{}), 0)
			sys.SetInput(tt.frame)
			sys.Update(w)

			p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
			v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
			tt.check(t, p, v)

			hints := eventsOf(w.Events().Drain(), ecs.EventTutorial)
			if len(hints) != 1 || hints[0].Name != tt.hint {
				t.Fatalf("expected one %q hint, got %+v", tt.hint, hints)
			}
		})
	}
}

func TestPlayerControllerEnemyHintOnce(t *testing.T) {
	w := ecs.NewWorld()
	newPlayer(t, w, 40, 81)
	newEnemy(t, w, "crawler", prefabs.EnemySpec{Width: 8, Height: 15}, 80, 81)
	sys := NewPlayerControllerSystem(NewQuery(w, boxSolids{}), 96)

	sys.Update(w)
	sys.Update(w)
	if n := len(eventsOf(w.Events().Drain(), ecs.EventTutorial)); n != 1 {
		t.Fatalf("expected one enemy hint, got %d", n)
	}
}

func TestCombatDashDefeatsEnemy(t *testing.T) {
	w := ecs.NewWorld()
	pe := newPlayer(t, w, 40, 81)
	en := newEnemy(t, w, "crawler", prefabs.EnemySpec{Width: 8, Height: 15, Health: 1, ContactDamage: 1}, 44, 81)
	p, _ := ecs.Get(w, pe, component.PlayerComponent.Kind())
	p.Dashing = 5

	NewCombatSystem(NewQuery(w, boxSolids{}), nil).Update(w)

	if ecs.IsAlive(w, en) {
		t.Fatalf("enemy should be destroyed by a dash")
	}
	evts := w.Events().Drain()
	if n := len(eventsOf(evts, ecs.EventEnemyDefeated)); n != 1 {
		t.Fatalf("expected 1 defeat event, got %d", n)
	}
	if n := len(eventsOf(evts, ecs.EventShake)); n != 1 {
		t.Fatalf("expected 1 shake event, got %d", n)
	}
}

func TestCombatContactHurtsThenKills(t *testing.T) {
	w := ecs.NewWorld()
	pe := newPlayer(t, w, 40, 81)
	newEnemy(t, w, "crawler", prefabs.EnemySpec{Width: 8, Height: 15, Health: 1, ContactDamage: 1}, 44, 81)
	sys := NewCombatSystem(NewQuery(w, boxSolids{}), nil)
	h, _ := ecs.Get(w, pe, component.HealthComponent.Kind())

	sys.Update(w)
	if h.Current != 2 {
		t.Fatalf("health = %d, want 2", h.Current)
	}
	sys.Update(w)
	if h.Current != 2 {
		t.Fatalf("invulnerability should block repeat damage, health = %d", h.Current)
	}
	if n := len(eventsOf(w.Events().Drain(), ecs.EventPlayerHurt)); n != 1 {
		t.Fatalf("expected 1 hurt event, got %d", n)
	}

	h.Invulnerable = 0
	h.Current = 1
	sys.Update(w)
	p, _ := ecs.Get(w, pe, component.PlayerComponent.Kind())
	if !p.Dead {
		t.Fatalf("player should be dead")
	}
	if n := len(eventsOf(w.Events().Drain(), ecs.EventPlayerDied)); n != 1 {
		t.Fatalf("expected 1 death event, got %d", n)
	}
}

func TestCombatFallingOutKills(t *testing.T) {
	w := ecs.NewWorld()
	pe := newPlayer(t, w, 40, 250)
	NewCombatSystem(NewQuery(w, boxSolids{}), nil).Update(w)
	p, _ := ecs.Get(w, pe, component.PlayerComponent.Kind())
	if !p.Dead {
		t.Fatalf("player below the level should die")
	}
}

func TestEnemyScriptShoots(t *testing.T) {
	enemies, err := prefabs.LoadEnemiesSpec()
	if err != nil {
		t.Fatalf("LoadEnemiesSpec: %v", err)
	}
	spec, err := enemies.Archetype("sentry", "crawler")
	if err != nil {
		t.Fatalf("Archetype: %v", err)
	}
	spec.FireCooldown = 1

	w := ecs.NewWorld()
	newPlayer(t, w, 100, 81)
	en := newEnemy(t, w, "sentry", spec, 50, 81)
	NewEnemySystem(NewQuery(w, boxSolids{}), enemies, nil).Update(w)

	e, _ := ecs.Get(w, en, component.EnemyComponent.Kind())
	if e.Facing != 1 {
		t.Fatalf("sentry should face the player, facing = %v", e.Facing)
	}
	if n := ecs.Count(w, component.ProjectileComponent.Kind()); n != 1 {
		t.Fatalf("expected 1 projectile, got %d", n)
	}
	if n := len(eventsOf(w.Events().Drain(), ecs.EventShotFired)); n != 1 {
		t.Fatalf("expected 1 shot event, got %d", n)
	}
}

func TestEnemyWithoutScriptPatrols(t *testing.T) {
	w := ecs.NewWorld()
	en := newEnemy(t, w, "ghost", prefabs.EnemySpec{Width: 8, Height: 15, MoveSpeed: 0.5}, 50, 81)
	NewEnemySystem(NewQuery(w, boxSolids{}), &prefabs.EnemiesSpec{}, nil).Update(w)

	v, _ := ecs.Get(w, en, component.VelocityComponent.Kind())
	if math.Abs(v.X) != 0.5 {
		t.Fatalf("expected patrol speed 0.5, got %v", v.X)
	}
}

func TestProjectileHitsWall(t *testing.T) {
	w := ecs.NewWorld()
	e := entity.NewProjectile(w, 24, 50, -4, 1)
	sys := NewProjectileSystem(NewQuery(w, boxSolids{}), nil)
	for i := 0; i < 5 && ecs.IsAlive(w, e); i++ {
		sys.Update(w)
	}
	if ecs.IsAlive(w, e) {
		t.Fatalf("projectile should be destroyed by the wall")
	}
}

func TestTTLAndParticles(t *testing.T) {
	w := ecs.NewWorld()
	p := entity.NewParticle(w, 0, 0, 1, 0, 4, component.Sprite{}.Color, 2)
	s := entity.NewSpark(w, 0, 0, 0, 0.15)

	ttl := NewTTLSystem()
	parts := NewParticleSystem()

	ttl.Update(w)
	parts.Update(w)
	if !ecs.IsAlive(w, p) {
		t.Fatalf("particle should survive one tick")
	}
	ttl.Update(w)
	parts.Update(w)
	if ecs.IsAlive(w, p) {
		t.Fatalf("particle should expire after its TTL")
	}
	if ecs.IsAlive(w, s) {
		t.Fatalf("spark should stop and vanish")
	}

	faded := entity.NewParticle(w, 0, 0, 0, 0, 8, component.Sprite{}.Color, 4)
	ttl.Update(w)
	pc, ok := ecs.Get(w, faded, component.ParticleComponent.Kind())
	if !ok || pc.Color.A != 191 {
		t.Fatalf("particle alpha after 1 of 4 frames = %v, want 191", pc)
	}
}

func TestHitbox(t *testing.T) {
	w := ecs.NewWorld()
	e := newPlayer(t, w, 10, 20)
	box, ok := Hitbox(w, e)
	if !ok || box != (component.AABB{X: 10, Y: 20, W: 8, H: 15}) {
		t.Fatalf("Hitbox = %+v, %v", box, ok)
	}
	if _, ok := Hitbox(w, ecs.Entity(999)); ok {
		t.Fatalf("unknown entity should have no hitbox")
	}
}
