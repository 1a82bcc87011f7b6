package entity

import (
	"image/color"

	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
)

const (
	projectileSize   = 4
	projectileMaxAge = 360
)

var projectileColor = color.NRGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xff}

// NewProjectile fires a hostile shot travelling horizontally at speed.
func NewProjectile(w *ecs.World, x, y, speed float64, damage int) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x - projectileSize/2, Y: y - projectileSize/2})
	_ = ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Width: projectileSize, Height: projectileSize})
	_ = ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{Speed: speed, MaxAge: projectileMaxAge, Damage: damage})
	_ = ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Color: projectileColor, Layer: 8})
	return e
}
