// Package hud draws the overlay: log feed, tutorial hints, fragments,
// counters and the pickup banner.
package hud

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/netguardian/fragment"
	"github.com/milk9111/netguardian/logfeed"
	"github.com/milk9111/netguardian/tutorial"
	"golang.org/x/image/font/basicfont"
)

// Face is the shared overlay font.
var Face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

const lineHeight = 13

var (
	white     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	boxColor  = color.NRGBA{R: 0x0a, G: 0x14, B: 0x28, A: 0xff}
	tileColor = color.NRGBA{R: 0x1e, G: 0x32, B: 0x50, A: 0xff}
	edgeColor = color.NRGBA{R: 0x40, G: 0x80, B: 0xc0, A: 0xff}
)

var severityColors = map[logfeed.Severity]color.NRGBA{
	logfeed.Info:    {R: 100, G: 200, B: 255, A: 255},
	logfeed.Warning: {R: 255, G: 200, B: 100, A: 255},
	logfeed.Alert:   {R: 255, G: 100, B: 100, A: 255},
}

// SeverityColor is the feed colour of a severity; unknown ones are white.
func SeverityColor(s logfeed.Severity) color.NRGBA {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return white
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = uint8(uint16(c.A) * uint16(a) / 255)
	return c
}

// DrawText renders s with its top-left corner at (x, y).
func DrawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	ebtext.Draw(screen, s, Face, op)
}

// TextWidth measures s in the overlay font.
func TextWidth(s string) float64 {
	w, _ := ebtext.Measure(s, Face, lineHeight)
	return w
}

// DrawLogFeed lists the feed newest first from (x, y), fading old entries.
func DrawLogFeed(screen *ebiten.Image, views []logfeed.View, x, y float64) {
	for i, v := range views {
		a := logfeed.Alpha(v.Age)
		if a == 0 {
			continue
		}
		line := fmt.Sprintf("[%s] %s", v.Severity, v.Message)
		DrawText(screen, line, x, y+float64(i*lineHeight), withAlpha(SeverityColor(v.Severity), a))
	}
}

// DrawTutorial draws each hint in a box centred above its world position.
func DrawTutorial(screen *ebiten.Image, msgs []tutorial.Message, offX, offY float64) {
	for _, m := range msgs {
		a := m.Alpha()
		w := TextWidth(m.Text) + 8
		x := m.X - offX - w/2
		y := m.Y - offY - 28
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), lineHeight+6, withAlpha(boxColor, a), false)
		vector.StrokeRect(screen, float32(x), float32(y), float32(w), lineHeight+6, 1, withAlpha(edgeColor, a), false)
		DrawText(screen, m.Text, x+4, y+3, withAlpha(white, a))
	}
}

// DrawFragments draws live fragments as pulsing squares.
func DrawFragments(screen *ebiten.Image, frags []fragment.Fragment, colors map[string]color.NRGBA, offX, offY float64) {
	for _, f := range frags {
		c, ok := colors[f.Type]
		if !ok {
			c = white
		}
		pulse := 0.75 + 0.25*math.Sin(float64(f.Age)*0.15+f.Phase)
		b := f.Bounds()
		inset := (1 - pulse) * b.W / 2
		vector.DrawFilledRect(screen,
			float32(b.X+inset-offX), float32(b.Y+inset-offY),
			float32(b.W-2*inset), float32(b.H-2*inset),
			c, false)
	}
}

// DrawTiles draws merged solid rectangles.
func DrawTiles(screen *ebiten.Image, rects []cp.BB, offX, offY float64) {
	for _, bb := range rects {
		x := float32(bb.L - offX)
		y := float32(bb.B - offY)
		w := float32(bb.R - bb.L)
		h := float32(bb.T - bb.B)
		vector.DrawFilledRect(screen, x, y, w, h, tileColor, false)
		vector.StrokeLine(screen, x, y, x+w, y, 1, edgeColor, false)
	}
}

// Counters is the numeric HUD state.
type Counters struct {
	Health, MaxHealth int
	Defeated, Total   int
	FragmentName      string
	Fragments, Quota  int
	FragmentColor     color.NRGBA
	LevelName         string
}

func EnemyText(defeated, total int) string {
	return fmt.Sprintf("THREATS %d/%d", defeated, total)
}

func FragmentText(name string, count, quota int) string {
	return fmt.Sprintf("%s %d/%d", name, count, quota)
}

// DrawCounters draws health top-left and the objective top-right.
func DrawCounters(screen *ebiten.Image, c Counters) {
	sw := float64(screen.Bounds().Dx())
	for i := 0; i < c.MaxHealth; i++ {
		clr := color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
		if i < c.Health {
			clr = color.NRGBA{R: 0x3c, G: 0xff, B: 0xb4, A: 0xff}
		}
		vector.DrawFilledRect(screen, float32(4+i*10), 4, 8, 8, clr, false)
	}
	DrawText(screen, c.LevelName, 4, 14, white)

	frag := FragmentText(c.FragmentName, c.Fragments, c.Quota)
	DrawText(screen, frag, sw-TextWidth(frag)-4, 2, c.FragmentColor)
	enemies := EnemyText(c.Defeated, c.Total)
	DrawText(screen, enemies, sw-TextWidth(enemies)-4, 2+lineHeight, white)
}

// DrawNotification centres the pickup banner near the top of the screen.
func DrawNotification(screen *ebiten.Image, msg string, timer int, clr color.NRGBA) {
	if msg == "" || timer <= 0 {
		return
	}
	a := fragment.NotificationAlpha(timer)
	sw := float64(screen.Bounds().Dx())
	w := TextWidth(msg)
	DrawText(screen, msg, (sw-w)/2, 40, withAlpha(clr, a))
}

// DrawCentered writes lines centred on the screen.
func DrawCentered(screen *ebiten.Image, lines []string, clr color.Color) {
	sw := float64(screen.Bounds().Dx())
	sh := float64(screen.Bounds().Dy())
	top := (sh - float64(len(lines)*lineHeight)) / 2
	for i, l := range lines {
		DrawText(screen, l, (sw-TextWidth(l))/2, top+float64(i*lineHeight), clr)
	}
}
