package ecs

// System is one step of the per-frame entity update.
type System interface {
	Update(w *World)
}

// Scheduler runs its systems in the order they were given; the state
// machine relies on input, AI and movement running before combat.
type Scheduler struct {
	systems []System
}

// NewScheduler skips nil systems so optional ones can be passed inline.
func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{systems: make([]System, 0, len(systems))}
	for _, sys := range systems {
		if sys != nil {
			s.systems = append(s.systems, sys)
		}
	}
	return s
}

func (s *Scheduler) Update(w *World) {
	if s == nil || w == nil {
		return
	}
	for _, sys := range s.systems {
		sys.Update(w)
	}
}

func (s *Scheduler) Len() int {
	if s == nil {
		return 0
	}
	return len(s.systems)
}
