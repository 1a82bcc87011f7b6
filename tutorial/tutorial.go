// Package tutorial shows a help message the first time a gameplay condition
// occurs in a session.
package tutorial

import "github.com/charmbracelet/log"

// Trigger names a one-shot hint.
type Trigger string

const (
	Movement Trigger = "movement"
	Jump     Trigger = "jump"
	Dash     Trigger = "dash"
	Enemy    Trigger = "enemy"
)

const (
	DefaultLifetime = 180
	DefaultFade     = 30
)

// Message is a transient hint anchored at a world position.
type Message struct {
	Trigger   Trigger
	Text      string
	X, Y      float64
	Remaining int
	Fade      int
}

// Alpha fades the message out over its final Fade ticks.
func (m Message) Alpha() uint8 {
	if m.Fade <= 0 || m.Remaining >= m.Fade {
		return 255
	}
	if m.Remaining <= 0 {
		return 0
	}
	return uint8(m.Remaining * 255 / m.Fade)
}

// Fired is the session-scoped set of triggers that already produced a
// message. It is owned by the session and shared with the System.
type Fired map[Trigger]bool

type Options struct {
	Texts    map[Trigger]string
	Lifetime int
	Fade     int
	Logger   *log.Logger
}

// System owns the live messages.
type System struct {
	fired    Fired
	texts    map[Trigger]string
	lifetime int
	fade     int
	messages []Message
	logger   *log.Logger
}

func NewSystem(fired Fired, opts Options) *System {
	if fired == nil {
		fired = Fired{}
	}
	s := &System{
		fired:    fired,
		texts:    opts.Texts,
		lifetime: opts.Lifetime,
		fade:     opts.Fade,
		logger:   opts.Logger,
	}
	if s.lifetime <= 0 {
		s.lifetime = DefaultLifetime
	}
	if s.fade <= 0 {
		s.fade = DefaultFade
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Fire enqueues the hint for trigger at (x, y) unless it already fired this
// session. Unknown triggers are ignored.
func (s *System) Fire(trigger Trigger, x, y float64) bool {
	if s == nil || s.fired[trigger] {
		return false
	}
	text, ok := s.texts[trigger]
	if !ok {
		s.logger.Debug("ignoring unknown tutorial trigger", "trigger", trigger)
		return false
	}
	s.fired[trigger] = true
	s.messages = append(s.messages, Message{
		Trigger:   trigger,
		Text:      text,
		X:         x,
		Y:         y,
		Remaining: s.lifetime,
		Fade:      s.fade,
	})
	return true
}

// Tick ages every message and drops the expired ones.
func (s *System) Tick() {
	if s == nil || len(s.messages) == 0 {
		return
	}
	live := s.messages[:0]
	for _, m := range s.messages {
		m.Remaining--
		if m.Remaining > 0 {
			live = append(live, m)
		}
	}
	for i := len(live); i < len(s.messages); i++ {
		s.messages[i] = Message{}
	}
	s.messages = live
}

// Messages returns a copy of the live messages.
func (s *System) Messages() []Message {
	if s == nil {
		return nil
	}
	return append([]Message(nil), s.messages...)
}

// HasFired reports whether trigger already produced its message.
func (s *System) HasFired(trigger Trigger) bool {
	return s != nil && s.fired[trigger]
}

// Reset drops live messages. The fired set belongs to the session and is
// cleared there.
func (s *System) Reset() {
	if s == nil {
		return
	}
	s.messages = nil
}
