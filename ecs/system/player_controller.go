package system

import (
	"math"

	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/input"
)

// Tutorial trigger names carried in EventTutorial.Name.
const (
	HintMovement = "movement"
	HintJump     = "jump"
	HintDash     = "dash"
	HintEnemy    = "enemy"
)

// PlayerControllerSystem turns the sampled input frame into player velocity.
type PlayerControllerSystem struct {
	query     WorldQuery
	frame     input.Frame
	hintRange float64
}

func NewPlayerControllerSystem(q WorldQuery, hintRange float64) *PlayerControllerSystem {
	return &PlayerControllerSystem{query: q, hintRange: hintRange}
}

// SetInput stores the frame used by the next Update.
func (s *PlayerControllerSystem) SetInput(f input.Frame) {
	s.frame = f
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	e, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	v, ok := ecs.Get(w, e, component.VelocityComponent.Kind())
	if !ok {
		return
	}
	if p.Dead {
		v.X = 0
		return
	}

	box, _ := Hitbox(w, e)
	grounded := false
	if c, ok := ecs.Get(w, e, component.CollisionComponent.Kind()); ok {
		grounded = c.Down
	}
	if !grounded {
		grounded = Grounded(s.query, box)
	}
	if grounded {
		p.AirTime = 0
		p.JumpsLeft = p.MaxJumps
	} else {
		p.AirTime++
		if p.AirTime > p.CoyoteFrames && p.JumpsLeft == p.MaxJumps {
			p.JumpsLeft--
		}
	}

	cx, cy := box.CenterX(), box.CenterY()
	hint := func(name string) {
		w.Events().Push(ecs.Event{Kind: ecs.EventTutorial, Entity: e, X: cx, Y: box.Y, Name: name})
	}

	move := 0.0
	if s.frame.Held(input.Left) {
		move--
	}
	if s.frame.Held(input.Right) {
		move++
	}
	if move != 0 {
		p.FacingLeft = move < 0
	}
	if s.frame.Pressed(input.Left) || s.frame.Pressed(input.Right) {
		hint(HintMovement)
	}

	if p.Cooldown > 0 {
		p.Cooldown--
	}
	if s.frame.Pressed(input.Dash) && p.Cooldown == 0 && p.Dashing == 0 {
		p.Dashing = p.DashFrames
		p.Cooldown = p.DashCooldown
		p.DashDir = 1
		if p.FacingLeft {
			p.DashDir = -1
		}
		if !p.TutorialDash {
			p.TutorialDash = true
			hint(HintDash)
		}
	}

	if p.Dashing > 0 {
		p.Dashing--
		v.X = p.DashDir * p.DashSpeed
		v.Y = 0
	} else {
		v.X = move * p.MoveSpeed
	}

	if s.frame.Pressed(input.Jump) && p.JumpsLeft > 0 {
		v.Y = -p.JumpSpeed
		p.JumpsLeft--
		p.AirTime = p.CoyoteFrames + 1
		hint(HintJump)
	}

	if sp, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
		sp.FacingLeft = p.FacingLeft
	}

	if !p.TutorialEnemy && s.hintRange > 0 {
		ecs.ForEach2(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Enemy, et *component.Transform) {
			if p.TutorialEnemy {
				return
			}
			if math.Hypot(et.X-cx, et.Y-cy) <= s.hintRange {
				p.TutorialEnemy = true
				hint(HintEnemy)
			}
		})
	}
}
