package system

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/ecs/entity"
	"github.com/milk9111/netguardian/prefabs"
)

// Globals exchanged with archetype scripts. Inputs are set before each run,
// outputs read after it.
var scriptGlobals = map[string]any{
	"dx":           0.0,
	"dy":           0.0,
	"facing":       1.0,
	"speed":        0.0,
	"ready":        false,
	"ground_ahead": true,
	"wall_ahead":   false,
	"vx":           0.0,
	"shoot":        false,
}

// EnemySystem steps every enemy through its archetype script.
type EnemySystem struct {
	query   WorldQuery
	scripts map[string]string
	cache   map[string]*tengo.Compiled
	failed  map[string]bool
	logger  *log.Logger
}

// NewEnemySystem maps each archetype to the script named in its spec.
func NewEnemySystem(q WorldQuery, enemies *prefabs.EnemiesSpec, logger *log.Logger) *EnemySystem {
	if logger == nil {
		logger = log.Default()
	}
	s := &EnemySystem{
		query:   q,
		scripts: map[string]string{},
		cache:   map[string]*tengo.Compiled{},
		failed:  map[string]bool{},
		logger:  logger.WithPrefix("enemy"),
	}
	if enemies != nil {
		for tag, a := range enemies.Archetypes {
			s.scripts[tag] = a.Script
		}
	}
	return s
}

// ClearScripts drops compiled scripts so edited files are picked up.
func (s *EnemySystem) ClearScripts() {
	s.cache = map[string]*tengo.Compiled{}
	s.failed = map[string]bool{}
}

func (s *EnemySystem) compiled(archetype string) (*tengo.Compiled, error) {
	name := s.scripts[archetype]
	if name == "" {
		return nil, fmt.Errorf("archetype %q has no script", archetype)
	}
	if c, ok := s.cache[name]; ok {
		return c, nil
	}
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, err
	}
	script := tengo.NewScript(src)
	for k, v := range scriptGlobals {
		if err := script.Add(k, v); err != nil {
			return nil, fmt.Errorf("script %s: add %s: %w", name, k, err)
		}
	}
	c, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	s.cache[name] = c
	return c, nil
}

func (s *EnemySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	px, py, hasPlayer := 0.0, 0.0, false
	if _, box, ok := PlayerHitbox(w); ok {
		px, py, hasPlayer = box.CenterX(), box.CenterY(), true
	}

	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, en *component.Enemy, t *component.Transform) {
		v, ok := ecs.Get(w, e, component.VelocityComponent.Kind())
		if !ok {
			return
		}
		box, _ := Hitbox(w, e)
		en.Timer++
		ready := en.FireCooldown > 0 && en.Timer >= en.FireCooldown && hasPlayer

		frontX := box.CenterX() + en.Facing*(box.W/2+2)
		groundAhead := s.query.IsSolid(frontX, box.Y+box.H+probe+1)
		wallAhead := s.query.IsSolid(frontX, box.CenterY())

		dx, dy := 0.0, 0.0
		if hasPlayer {
			dx, dy = px-box.CenterX(), py-box.CenterY()
		}

		vx, facing, shoot, err := s.run(en.Archetype, map[string]any{
			"dx":           dx,
			"dy":           dy,
			"facing":       en.Facing,
			"speed":        en.Speed,
			"ready":        ready,
			"ground_ahead": groundAhead,
			"wall_ahead":   wallAhead,
		})
		if err != nil {
			if !s.failed[en.Archetype] {
				s.failed[en.Archetype] = true
				s.logger.Warn("script failed, patrolling", "archetype", en.Archetype, "err", err)
			}
			vx, facing, shoot = patrol(en, groundAhead, wallAhead)
		}

		if facing != 0 {
			en.Facing = facing
		}
		v.X = vx
		if vx != 0 {
			en.Walking++
		} else {
			en.Walking = 0
		}
		if sp, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
			sp.FacingLeft = en.Facing < 0
		}

		if shoot && ready {
			en.Timer = 0
			x := box.CenterX() + en.Facing*(box.W/2+4)
			y := box.CenterY()
			damage := 1
			if h, ok := ecs.Get(w, e, component.HostileComponent.Kind()); ok && h.Damage > 0 {
				damage = h.Damage
			}
			entity.NewProjectile(w, x, y, en.Facing*en.ShotSpeed, damage)
			w.Events().Push(ecs.Event{Kind: ecs.EventShotFired, Entity: e, X: x, Y: y})
		}
	})
}

func (s *EnemySystem) run(archetype string, in map[string]any) (vx, facing float64, shoot bool, err error) {
	c, err := s.compiled(archetype)
	if err != nil {
		return 0, 0, false, err
	}
	for k, v := range in {
		if err := c.Set(k, v); err != nil {
			return 0, 0, false, err
		}
	}
	if err := c.Run(); err != nil {
		return 0, 0, false, err
	}
	return c.Get("vx").Float(), c.Get("facing").Float(), c.Get("shoot").Bool(), nil
}

// patrol walks back and forth, turning at walls and ledges.
func patrol(en *component.Enemy, groundAhead, wallAhead bool) (float64, float64, bool) {
	facing := en.Facing
	if facing == 0 {
		facing = -1
	}
	if wallAhead || !groundAhead {
		facing = -facing
	}
	return facing * en.Speed, facing, false
}
