package component

type Health struct {
	Current      int
	Max          int
	Invulnerable int
}

var HealthComponent = NewComponent[Health]()
