// Package logfeed keeps the in-game event feed shown in the bottom-left of
// the HUD: a fixed number of entries, newest first.
package logfeed

// Severity tags an entry for colouring.
type Severity int

const (
	Info Severity = iota
	Warning
	Alert
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Alert:
		return "ALERT"
	default:
		return "UNKNOWN"
	}
}

// DefaultCapacity is the number of entries kept when none is configured.
const DefaultCapacity = 5

const (
	fadeStart  = 180
	fadeFrames = 60
)

// Entry is immutable once recorded.
type Entry struct {
	Message  string
	Severity Severity
	Tick     uint64
}

// View is an entry as seen by the renderer.
type View struct {
	Message  string
	Severity Severity
	Age      uint64
}

// History is a ring buffer: Record writes in front of the current head and
// overwrites the oldest slot once full.
type History struct {
	entries []Entry
	head    int
	size    int
	tick    uint64
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{entries: make([]Entry, capacity)}
}

// Record inserts a message at the head, evicting the oldest entry when the
// feed is full.
func (h *History) Record(message string, severity Severity) {
	if h == nil {
		return
	}
	capacity := len(h.entries)
	h.head = (h.head - 1 + capacity) % capacity
	h.entries[h.head] = Entry{Message: message, Severity: severity, Tick: h.tick}
	if h.size < capacity {
		h.size++
	}
}

// AdvanceTick must run exactly once per frame.
func (h *History) AdvanceTick() {
	if h == nil {
		return
	}
	h.tick++
}

// Snapshot lists entries newest to oldest with their current age.
func (h *History) Snapshot() []View {
	if h == nil || h.size == 0 {
		return nil
	}
	out := make([]View, 0, h.size)
	for i := 0; i < h.size; i++ {
		e := h.entries[(h.head+i)%len(h.entries)]
		out = append(out, View{Message: e.Message, Severity: e.Severity, Age: h.tick - e.Tick})
	}
	return out
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return h.size
}

func (h *History) Capacity() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

func (h *History) Tick() uint64 {
	if h == nil {
		return 0
	}
	return h.tick
}

// Clear drops every entry but keeps the tick counter running.
func (h *History) Clear() {
	if h == nil {
		return
	}
	for i := range h.entries {
		h.entries[i] = Entry{}
	}
	h.head = 0
	h.size = 0
}

// Alpha is the opacity of an entry of the given age: opaque for three
// seconds, then a one second linear fade.
func Alpha(age uint64) uint8 {
	if age <= fadeStart {
		return 255
	}
	over := age - fadeStart
	if over >= fadeFrames {
		return 0
	}
	return uint8(255 - over*255/fadeFrames)
}
