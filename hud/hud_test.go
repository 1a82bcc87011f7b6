package hud

import (
	"image/color"
	"testing"

	"github.com/milk9111/netguardian/logfeed"
)

func TestSeverityColor(t *testing.T) {
	tests := []struct {
		sev  logfeed.Severity
		want color.NRGBA
	}{
		{logfeed.Info, color.NRGBA{R: 100, G: 200, B: 255, A: 255}},
		{logfeed.Warning, color.NRGBA{R: 255, G: 200, B: 100, A: 255}},
		{logfeed.Alert, color.NRGBA{R: 255, G: 100, B: 100, A: 255}},
		{logfeed.Severity(42), white},
	}
	for _, tt := range tests {
		t.Run(tt.sev.String(), func(t *testing.T) {
			if got := SeverityColor(tt.sev); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithAlpha(t *testing.T) {
	c := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	if got := withAlpha(c, 0).A; got != 0 {
		t.Fatalf("alpha 0 -> %d", got)
	}
	if got := withAlpha(c, 255).A; got != 255 {
		t.Fatalf("alpha 255 -> %d", got)
	}
	if got := withAlpha(color.NRGBA{A: 128}, 255).A; got != 128 {
		t.Fatalf("source alpha should be kept, got %d", got)
	}
}

func TestCounterText(t *testing.T) {
	if got := FragmentText("PASSWORD", 3, 8); got != "PASSWORD 3/8" {
		t.Fatalf("FragmentText = %q", got)
	}
	if got := EnemyText(2, 8); got != "THREATS 2/8" {
		t.Fatalf("EnemyText = %q", got)
	}
}
