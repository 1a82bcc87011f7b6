// Package fragment spawns the data fragments dropped by defeated enemies and
// tracks which ones the player has recovered.
package fragment

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/logfeed"
)

const (
	gravity          = 0.3
	terminalVelocity = 5.0
	friction         = 0.95
	floatAfter       = 60
	bobFrequency     = 0.1
	bobAmplitude     = 0.5
	pickupSize       = 10.0
	notifyFrames     = 120
)

// Sink receives feed messages produced while collecting.
type Sink interface {
	Record(message string, severity logfeed.Severity)
}

// SolidQuery lets fragments land on the level instead of falling forever.
type SolidQuery interface {
	IsSolid(x, y float64) bool
}

// Fragment is a live collectible.
type Fragment struct {
	X, Y   float64
	VX, VY float64
	Type   string
	ID     int
	Age    int
	Phase  float64
}

// Bounds is the pickup box centred on the fragment.
func (f Fragment) Bounds() component.AABB {
	return component.AABB{X: f.X - pickupSize/2, Y: f.Y - pickupSize/2, W: pickupSize, H: pickupSize}
}

type Options struct {
	Quotas map[string]int
	Names  map[string]string
	Sink   Sink
	Solid  SolidQuery
	Rand   *rand.Rand
	Logger *log.Logger
}

// System owns live fragments and per-type collection progress. Progress is
// session scoped: it survives level changes until ResetForLevel.
type System struct {
	quotas    map[string]int
	names     map[string]string
	sink      Sink
	solid     SolidQuery
	rng       *rand.Rand
	logger    *log.Logger
	active    string
	fragments []Fragment
	progress  map[string][]int
	seen      map[string]map[int]bool

	notification string
	notifyTimer  int
}

func NewSystem(opts Options) *System {
	s := &System{
		quotas:   make(map[string]int, len(opts.Quotas)),
		names:    opts.Names,
		sink:     opts.Sink,
		solid:    opts.Solid,
		rng:      opts.Rand,
		logger:   opts.Logger,
		progress: make(map[string][]int),
		seen:     make(map[string]map[int]bool),
	}
	for k, v := range opts.Quotas {
		s.quotas[k] = v
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// SetSolid swaps the level geometry fragments land on.
func (s *System) SetSolid(q SolidQuery) {
	s.solid = q
}

// Activate makes fragmentType the type shown on the HUD for this level.
func (s *System) Activate(fragmentType string) {
	s.active = fragmentType
}

func (s *System) Active() string {
	return s.active
}

// Spawn drops a fragment at (x, y). If id is already live or collected for
// that type a fresh id is assigned; the id actually used is returned.
func (s *System) Spawn(x, y float64, fragmentType string, id int) int {
	if s.inUse(fragmentType, id) {
		fresh := s.nextFreeID(fragmentType)
		s.logger.Warn("duplicate fragment id reassigned", "type", fragmentType, "id", id, "assigned", fresh)
		id = fresh
	}
	s.fragments = append(s.fragments, Fragment{
		X:     x,
		Y:     y,
		VX:    s.rng.Float64()*4 - 2,
		VY:    -2 - s.rng.Float64()*2,
		Type:  fragmentType,
		ID:    id,
		Phase: s.rng.Float64() * math.Pi * 2,
	})
	return id
}

func (s *System) inUse(fragmentType string, id int) bool {
	if s.seen[fragmentType][id] {
		return true
	}
	for _, f := range s.fragments {
		if f.Type == fragmentType && f.ID == id {
			return true
		}
	}
	return false
}

func (s *System) nextFreeID(fragmentType string) int {
	next := 0
	for id := range s.seen[fragmentType] {
		if id >= next {
			next = id + 1
		}
	}
	for _, f := range s.fragments {
		if f.Type == fragmentType && f.ID >= next {
			next = f.ID + 1
		}
	}
	return next
}

// Tick moves every fragment and collects the ones overlapping player. It
// reports true only on the tick a type's count reaches its quota.
func (s *System) Tick(player component.AABB) bool {
	if s.notifyTimer > 0 {
		s.notifyTimer--
	}
	if len(s.fragments) == 0 {
		return false
	}

	snapshot := append([]Fragment(nil), s.fragments...)
	remove := make(map[int]bool)
	completed := false
	for i := range snapshot {
		f := &snapshot[i]
		s.move(f)
		if !player.Intersects(f.Bounds()) {
			continue
		}
		remove[i] = true
		if s.collect(*f) {
			completed = true
		}
	}

	live := s.fragments[:0]
	for i, f := range snapshot {
		if !remove[i] {
			live = append(live, f)
		}
	}
	s.fragments = live
	return completed
}

func (s *System) move(f *Fragment) {
	f.Age++

	f.VY = math.Min(f.VY+gravity, terminalVelocity)
	f.VX *= friction

	nx := f.X + f.VX
	if s.solid != nil && s.solid.IsSolid(nx, f.Y) {
		f.VX = 0
	} else {
		f.X = nx
	}

	ny := f.Y + f.VY
	if s.solid != nil && f.VY > 0 && s.solid.IsSolid(f.X, ny+pickupSize/2) {
		f.VY = 0
	} else {
		f.Y = ny
	}

	if f.Age > floatAfter {
		bob := math.Sin(float64(f.Age)*bobFrequency+f.Phase) * bobAmplitude
		if s.solid == nil || !s.solid.IsSolid(f.X, f.Y+bob+pickupSize/2) {
			f.Y += bob
		}
	}
}

// collect records f; a repeated id is dropped without counting again.
func (s *System) collect(f Fragment) bool {
	if s.seen[f.Type] == nil {
		s.seen[f.Type] = make(map[int]bool)
	}
	if s.seen[f.Type][f.ID] {
		return false
	}
	s.seen[f.Type][f.ID] = true
	s.progress[f.Type] = append(s.progress[f.Type], f.ID)

	current := len(s.progress[f.Type])
	total := s.quotas[f.Type]
	s.notification = fmt.Sprintf("Fragment %s %d/%d", s.displayName(f.Type), current, total)
	s.notifyTimer = notifyFrames
	if s.sink != nil {
		s.sink.Record(fmt.Sprintf("Data recovered [%d/%d]", current, total), logfeed.Info)
	}

	return current == total
}

func (s *System) displayName(fragmentType string) string {
	if name, ok := s.names[fragmentType]; ok && name != "" {
		return name
	}
	return strings.ToUpper(fragmentType)
}

// ResetForLevel clears fragmentType's progress and every live fragment.
func (s *System) ResetForLevel(fragmentType string) {
	delete(s.progress, fragmentType)
	delete(s.seen, fragmentType)
	s.fragments = nil
	s.notification = ""
	s.notifyTimer = 0
}

// Count is the number of distinct ids collected for fragmentType.
func (s *System) Count(fragmentType string) int {
	return len(s.progress[fragmentType])
}

func (s *System) Quota(fragmentType string) int {
	return s.quotas[fragmentType]
}

// Completed reports whether fragmentType reached its quota.
func (s *System) Completed(fragmentType string) bool {
	q, ok := s.quotas[fragmentType]
	return ok && len(s.progress[fragmentType]) >= q
}

// Collected returns the collected ids of fragmentType in pickup order.
func (s *System) Collected(fragmentType string) []int {
	return append([]int(nil), s.progress[fragmentType]...)
}

// Fragments returns a copy of the live fragments for rendering.
func (s *System) Fragments() []Fragment {
	return append([]Fragment(nil), s.fragments...)
}

// Notification returns the latest pickup banner and its remaining frames.
func (s *System) Notification() (string, int) {
	if s.notifyTimer <= 0 {
		return "", 0
	}
	return s.notification, s.notifyTimer
}

// NotificationAlpha fades the banner in its last 20 frames.
func NotificationAlpha(timer int) uint8 {
	if timer <= 0 {
		return 0
	}
	if timer < 20 {
		return uint8(timer * 255 / 20)
	}
	return 255
}
