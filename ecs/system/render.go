package system

import (
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
)

var flashColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

type drawItem struct {
	e     ecs.Entity
	layer int
}

// RenderSystem draws sprites, particles and sparks as flat shapes, offset by
// the camera scroll.
type RenderSystem struct {
	items []drawItem
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image, offX, offY float64) {
	if r == nil || w == nil || screen == nil {
		return
	}

	r.items = r.items[:0]
	ecs.ForEach(w, component.SpriteComponent.Kind(), func(e ecs.Entity, sp *component.Sprite) {
		r.items = append(r.items, drawItem{e: e, layer: sp.Layer})
	})
	sort.SliceStable(r.items, func(i, j int) bool {
		if r.items[i].layer != r.items[j].layer {
			return r.items[i].layer < r.items[j].layer
		}
		return uint64(r.items[i].e) < uint64(r.items[j].e)
	})

	for _, it := range r.items {
		sp, _ := ecs.Get(w, it.e, component.SpriteComponent.Kind())
		box, ok := Hitbox(w, it.e)
		if !ok {
			continue
		}
		clr := sp.Color
		if sp.Flash > 0 && sp.Flash%4 < 2 {
			clr = flashColor
		}
		if p, ok := ecs.Get(w, it.e, component.PlayerComponent.Kind()); ok && p.Dead {
			continue
		}
		vector.DrawFilledRect(screen, float32(box.X-offX), float32(box.Y-offY), float32(box.W), float32(box.H), clr, false)
		// eye marks facing
		eyeX := box.X + box.W - 3
		if sp.FacingLeft {
			eyeX = box.X + 1
		}
		if box.W >= 6 {
			vector.DrawFilledRect(screen, float32(eyeX-offX), float32(box.Y+3-offY), 2, 2, color.Black, false)
		}
	}

	ecs.ForEach2(w, component.ParticleComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Particle, t *component.Transform) {
		half := p.Size / 2
		vector.DrawFilledRect(screen, float32(t.X-half-offX), float32(t.Y-half-offY), float32(p.Size), float32(p.Size), p.Color, false)
	})

	ecs.ForEach2(w, component.SparkComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, sp *component.Spark, t *component.Transform) {
		tail := sp.Speed * 3
		x0 := t.X - offX
		y0 := t.Y - offY
		x1 := x0 - math.Cos(sp.Angle)*tail
		y1 := y0 - math.Sin(sp.Angle)*tail
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, color.White, false)
	})
}
