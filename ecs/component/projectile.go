package component

// Projectile travels horizontally until it hits a solid tile, the player, or
// runs out of frames.
type Projectile struct {
	Speed  float64
	Age    int
	MaxAge int
	Damage int
}

var ProjectileComponent = NewComponent[Projectile]()
