package gamestate

import "github.com/milk9111/netguardian/tutorial"

// Session is the run-scoped state owned by the Machine. Subsystems receive
// references to the parts they need instead of reaching back into the
// machine.
type Session struct {
	Level       int
	Lives       int
	PlayerAlive bool
	Triggers    tutorial.Fired
	Skin        string
	Volume      float64

	Defeated  int
	Fragments int
	Ticks     uint64
}

func NewSession() *Session {
	return &Session{Triggers: tutorial.Fired{}, Skin: "default", Volume: 0.5}
}

// Reset starts a new run. The trigger set is cleared in place because the
// tutorial system holds the same map.
func (s *Session) Reset(lives int) {
	if lives <= 0 {
		lives = 1
	}
	s.Level = 0
	s.Lives = lives
	s.PlayerAlive = true
	s.Defeated = 0
	s.Fragments = 0
	s.Ticks = 0
	clear(s.Triggers)
}
