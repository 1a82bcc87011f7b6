package fragment

import (
	"math/rand/v2"
	"testing"

	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/logfeed"
)

type recordingSink struct {
	messages []string
}

func (r *recordingSink) Record(message string, _ logfeed.Severity) {
	r.messages = append(r.messages, message)
}

type floorAt float64

func (f floorAt) IsSolid(_, y float64) bool { return y > float64(f) }

var around = component.AABB{X: -100, Y: -100, W: 200, H: 200}

func newTestSystem(sink Sink) *System {
	return NewSystem(Options{
		Quotas: map[string]int{"password": 8, "firewall": 12, "masterkey": 15},
		Names:  map[string]string{"password": "PASSWORD"},
		Sink:   sink,
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
}

func TestCollectingSameIDTwiceCountsOnce(t *testing.T) {
	s := newTestSystem(nil)
	f := Fragment{Type: "password", ID: 3}

	s.collect(f)
	s.collect(f)

	if got := s.Count("password"); got != 1 {
		t.Fatalf("Count = %d, want 1", got)
	}
	if ids := s.Collected("password"); len(ids) != 1 || ids[0] != 3 {
		t.Fatalf("Collected = %v, want [3]", ids)
	}
}

func TestQuotaSignalFiresOnceOnCrossing(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSystem(sink)
	s.Activate("password")

	for id := 1; id <= 9; id++ {
		s.Spawn(0, 0, "password", id)
		done := s.Tick(around)
		want := id == 8
		if done != want {
			t.Fatalf("collection %d: completion = %v, want %v", id, done, want)
		}
	}

	if got := s.Count("password"); got != 9 {
		t.Fatalf("Count = %d, want 9", got)
	}
	if !s.Completed("password") {
		t.Fatal("password should be completed")
	}
	if len(sink.messages) != 9 || sink.messages[7] != "Data recovered [8/8]" {
		t.Fatalf("unexpected feed messages %v", sink.messages)
	}
	if text, timer := s.Notification(); text != "Fragment PASSWORD 9/8" || timer != notifyFrames {
		t.Fatalf("unexpected notification %q (%d)", text, timer)
	}
}

func TestNoSignalBeforeQuota(t *testing.T) {
	s := newTestSystem(nil)
	for id := 0; id < 11; id++ {
		s.Spawn(0, 0, "firewall", id)
		if s.Tick(around) {
			t.Fatalf("completion fired early at collection %d", id+1)
		}
	}
	s.Spawn(0, 0, "firewall", 11)
	if !s.Tick(around) {
		t.Fatal("12th firewall fragment should complete the objective")
	}
}

func TestSpawnReassignsDuplicateIDs(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(s *System)
		spawnID int
		wantID  int
	}{
		{
			name:    "fresh_id_kept",
			setup:   func(s *System) {},
			spawnID: 4,
			wantID:  4,
		},
		{
			name:    "live_duplicate",
			setup:   func(s *System) { s.Spawn(500, 500, "password", 4) },
			spawnID: 4,
			wantID:  5,
		},
		{
			name: "already_collected",
			setup: func(s *System) {
				s.collect(Fragment{Type: "password", ID: 7})
			},
			spawnID: 7,
			wantID:  8,
		},
		{
			name:    "other_type_does_not_collide",
			setup:   func(s *System) { s.Spawn(500, 500, "firewall", 4) },
			spawnID: 4,
			wantID:  4,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSystem(nil)
			tc.setup(s)
			if got := s.Spawn(0, 0, "password", tc.spawnID); got != tc.wantID {
				t.Fatalf("Spawn returned id %d, want %d", got, tc.wantID)
			}
		})
	}
}

func TestFragmentsOutOfReachStayLive(t *testing.T) {
	s := newTestSystem(nil)
	s.Spawn(1000, 1000, "password", 1)
	far := component.AABB{X: 0, Y: 0, W: 10, H: 10}
	for i := 0; i < 5; i++ {
		s.Tick(far)
	}
	if len(s.Fragments()) != 1 || s.Count("password") != 0 {
		t.Fatalf("fragment should remain uncollected, got %+v", s.Fragments())
	}
}

func TestMotionDropsThenRests(t *testing.T) {
	s := newTestSystem(nil)
	s.SetSolid(floorAt(100))
	s.Spawn(50, 80, "password", 1)
	far := component.AABB{X: -1000, Y: -1000, W: 1, H: 1}

	startX := s.Fragments()[0].X
	for i := 0; i < 200; i++ {
		s.Tick(far)
	}
	f := s.Fragments()[0]
	if f.Y+pickupSize/2 > 100.5 {
		t.Fatalf("fragment sank into the floor: y=%v", f.Y)
	}
	if f.VY > terminalVelocity {
		t.Fatalf("fall speed %v exceeds terminal velocity", f.VY)
	}
	if d := f.X - startX; d > 40 || d < -40 {
		t.Fatalf("friction should bound horizontal drift, moved %v", d)
	}
	if f.Age != 200 {
		t.Fatalf("Age = %d, want 200", f.Age)
	}
}

func TestResetForLevel(t *testing.T) {
	s := newTestSystem(nil)
	s.Spawn(0, 0, "password", 1)
	s.Tick(around)
	s.Spawn(1000, 1000, "password", 2)
	s.collect(Fragment{Type: "firewall", ID: 1})

	s.ResetForLevel("password")

	if s.Count("password") != 0 {
		t.Fatal("password progress should be cleared")
	}
	if len(s.Fragments()) != 0 {
		t.Fatal("live fragments should be discarded")
	}
	if s.Count("firewall") != 1 {
		t.Fatal("other types keep their progress")
	}
	if got := s.Spawn(0, 0, "password", 1); got != 1 {
		t.Fatalf("id 1 should be reusable after reset, got %d", got)
	}
}

func TestNotificationAlpha(t *testing.T) {
	if NotificationAlpha(120) != 255 || NotificationAlpha(50) != 255 {
		t.Fatal("banner should be opaque before the fade")
	}
	if NotificationAlpha(10) != 127 {
		t.Fatalf("NotificationAlpha(10) = %d", NotificationAlpha(10))
	}
	if NotificationAlpha(0) != 0 {
		t.Fatal("expired banner should be invisible")
	}
}
