package component

// Velocity is applied by the movement system every tick.
type Velocity struct {
	X float64
	Y float64
}

var VelocityComponent = NewComponent[Velocity]()

// Body is the axis-aligned hitbox anchored at the transform.
type Body struct {
	Width  float64
	Height float64
}

var BodyComponent = NewComponent[Body]()

// Gravity accelerates Velocity.Y up to a terminal value.
type Gravity struct {
	Accel    float64
	Terminal float64
}

var GravityComponent = NewComponent[Gravity]()

// Collision records which sides touched solid tiles during the last move.
type Collision struct {
	Up, Down, Left, Right bool
}

var CollisionComponent = NewComponent[Collision]()

// AABB is a world-space rectangle.
type AABB struct {
	X, Y, W, H float64
}

func (a AABB) Intersects(b AABB) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

func (a AABB) CenterX() float64 { return a.X + a.W/2 }
func (a AABB) CenterY() float64 { return a.Y + a.H/2 }
