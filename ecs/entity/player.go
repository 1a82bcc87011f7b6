package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/prefabs"
)

// NewPlayerAt builds the player with its feet on the spawner's tile row.
func NewPlayerAt(w *ecs.World, spec *prefabs.PlayerSpec, skin string, tint color.NRGBA, x, y float64) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("player: nil spec")
	}
	e := ecs.CreateEntity(w)

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Width: spec.Width, Height: spec.Height}); err != nil {
		return 0, fmt.Errorf("player: add body: %w", err)
	}
	if err := ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{}); err != nil {
		return 0, fmt.Errorf("player: add velocity: %w", err)
	}
	if err := ecs.Add(w, e, component.GravityComponent.Kind(), &component.Gravity{Accel: spec.Gravity, Terminal: spec.Terminal}); err != nil {
		return 0, fmt.Errorf("player: add gravity: %w", err)
	}
	if err := ecs.Add(w, e, component.CollisionComponent.Kind(), &component.Collision{}); err != nil {
		return 0, fmt.Errorf("player: add collision: %w", err)
	}
	if err := ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Current: spec.Health, Max: spec.Health}); err != nil {
		return 0, fmt.Errorf("player: add health: %w", err)
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Color: tint, Layer: 10}); err != nil {
		return 0, fmt.Errorf("player: add sprite: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		MoveSpeed:    spec.MoveSpeed,
		JumpSpeed:    spec.JumpSpeed,
		DashSpeed:    spec.DashSpeed,
		DashFrames:   spec.DashFrames,
		DashCooldown: spec.DashCooldown,
		CoyoteFrames: spec.CoyoteFrames,
		MaxJumps:     spec.MaxJumps,
		JumpsLeft:    spec.MaxJumps,
		Skin:         skin,
	}); err != nil {
		return 0, fmt.Errorf("player: add player: %w", err)
	}
	return e, nil
}
