package component

import "image/color"

// Particle is a short-lived decorative square that drifts and shrinks.
type Particle struct {
	Color  color.NRGBA
	Size   float64
	Shrink float64
}

var ParticleComponent = NewComponent[Particle]()

// Spark is a directional streak spawned on impacts; it slows down and
// disappears once its speed reaches zero.
type Spark struct {
	Angle float64
	Speed float64
	Decay float64
}

var SparkComponent = NewComponent[Spark]()
