package component

// Enemy is a spawned hostile driven by its archetype script.
type Enemy struct {
	Archetype    string
	Speed        float64
	Facing       float64
	Timer        int
	FireCooldown int
	ShotSpeed    float64
	Walking      int
}

var EnemyComponent = NewComponent[Enemy]()
