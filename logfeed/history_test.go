package logfeed

import (
	"testing"
)

func messages(views []View) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Message)
	}
	return out
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(5)
	for _, m := range []string{"A", "B", "C", "D", "E", "F"} {
		h.Record(m, Info)
	}

	got := messages(h.Snapshot())
	want := []string{"F", "E", "D", "C", "B"}
	if len(got) != len(want) {
		t.Fatalf("snapshot length = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot = %v, want %v", got, want)
		}
	}
}

func TestHistoryNeverExceedsCapacity(t *testing.T) {
	cases := []struct {
		name     string
		capacity int
		records  int
	}{
		{"empty", 5, 0},
		{"partial", 5, 3},
		{"exact", 5, 5},
		{"wrapped_many", 5, 37},
		{"capacity_one", 1, 4},
		{"default_capacity", 0, 9},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := NewHistory(c.capacity)
			for i := 0; i < c.records; i++ {
				h.Record(string(rune('a'+i%26)), Info)
				h.AdvanceTick()
			}
			snap := h.Snapshot()
			if len(snap) > h.Capacity() {
				t.Fatalf("snapshot has %d entries, capacity %d", len(snap), h.Capacity())
			}
			for i := 1; i < len(snap); i++ {
				if snap[i].Age <= snap[i-1].Age {
					t.Fatalf("entries not newest-first: %+v", snap)
				}
			}
		})
	}
}

func TestHistoryAgeAndSeverity(t *testing.T) {
	h := NewHistory(5)
	h.Record("boot", Info)
	h.AdvanceTick()
	h.AdvanceTick()
	h.Record("intrusion", Alert)
	h.AdvanceTick()

	snap := h.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap))
	}
	if snap[0].Message != "intrusion" || snap[0].Age != 1 || snap[0].Severity != Alert {
		t.Fatalf("unexpected head %+v", snap[0])
	}
	if snap[1].Message != "boot" || snap[1].Age != 3 || snap[1].Severity != Info {
		t.Fatalf("unexpected tail %+v", snap[1])
	}

	again := h.Snapshot()
	if again[0] != snap[0] || again[1] != snap[1] {
		t.Fatal("Snapshot must not mutate the history")
	}
}

func TestHistoryClearKeepsTick(t *testing.T) {
	h := NewHistory(3)
	h.Record("x", Warning)
	h.AdvanceTick()
	h.Clear()
	if h.Len() != 0 || h.Snapshot() != nil {
		t.Fatal("expected empty history after Clear")
	}
	if h.Tick() != 1 {
		t.Fatalf("tick = %d, want 1", h.Tick())
	}
}

func TestAlpha(t *testing.T) {
	tests := []struct {
		age  uint64
		want uint8
	}{
		{0, 255},
		{180, 255},
		{210, 128},
		{240, 0},
		{1000, 0},
	}
	for _, tc := range tests {
		if got := Alpha(tc.age); got != tc.want {
			t.Errorf("Alpha(%d) = %d, want %d", tc.age, got, tc.want)
		}
	}
}

func TestSeverityString(t *testing.T) {
	if Info.String() != "INFO" || Warning.String() != "WARNING" || Alert.String() != "ALERT" {
		t.Fatal("unexpected severity names")
	}
}
