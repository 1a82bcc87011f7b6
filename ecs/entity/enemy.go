package entity

import (
	"fmt"

	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/prefabs"
)

// NewEnemyAt builds one enemy of the given archetype at a spawner.
func NewEnemyAt(w *ecs.World, tag string, spec prefabs.EnemySpec, x, y float64, facing float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)

	if facing == 0 {
		facing = -1
	}
	if err := ecs.Add(w, e, component.EnemyComponent.Kind(), &component.Enemy{
		Archetype:    tag,
		Speed:        spec.MoveSpeed,
		Facing:       facing,
		FireCooldown: spec.FireCooldown,
		ShotSpeed:    spec.ShotSpeed,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add enemy: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		return 0, fmt.Errorf("enemy: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Width: spec.Width, Height: spec.Height}); err != nil {
		return 0, fmt.Errorf("enemy: add body: %w", err)
	}
	if err := ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{}); err != nil {
		return 0, fmt.Errorf("enemy: add velocity: %w", err)
	}
	if err := ecs.Add(w, e, component.GravityComponent.Kind(), &component.Gravity{Accel: 0.1, Terminal: 5}); err != nil {
		return 0, fmt.Errorf("enemy: add gravity: %w", err)
	}
	if err := ecs.Add(w, e, component.CollisionComponent.Kind(), &component.Collision{}); err != nil {
		return 0, fmt.Errorf("enemy: add collision: %w", err)
	}
	health := spec.Health
	if health <= 0 {
		health = 1
	}
	if err := ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Current: health, Max: health}); err != nil {
		return 0, fmt.Errorf("enemy: add health: %w", err)
	}
	if err := ecs.Add(w, e, component.HostileComponent.Kind(), &component.Hostile{Damage: spec.ContactDamage}); err != nil {
		return 0, fmt.Errorf("enemy: add hostile: %w", err)
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Color: spec.Color.NRGBA, Layer: 5, FacingLeft: facing < 0}); err != nil {
		return 0, fmt.Errorf("enemy: add sprite: %w", err)
	}
	return e, nil
}
