package component

// TTL removes an entity after Frames ticks. Total is the starting value and
// drives the fade of particles.
type TTL struct {
	Frames int
	Total  int
}

var TTLComponent = NewComponent[TTL]()
