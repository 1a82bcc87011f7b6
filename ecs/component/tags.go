package component

// Hostile marks entities that hurt the player on contact.
type Hostile struct {
	Damage int
}

var HostileComponent = NewComponent[Hostile]()
