package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/milk9111/netguardian/gamestate"
	"github.com/milk9111/netguardian/hud"
)

// menuUI keeps the widgets whose labels follow the session.
type menuUI struct {
	machine *gamestate.Machine
	status  *widget.Text
}

func (m *menuUI) refresh() {
	s := m.machine.Session()
	m.status.Label = fmt.Sprintf("skin: %s   volume: %d%%", s.Skin, int(s.Volume*100+0.5))
}

// newMenuUI builds the centered main menu: start, skin, volume and quit.
func newMenuUI(g *Game) (*ebitenui.UI, *menuUI) {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x0a, G: 0x14, B: 0x28, A: 220})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x1e, G: 0x32, B: 0x50, A: 255})
	hoverImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x40, G: 0x80, B: 0xc0, A: 255})

	face := hud.Face
	textColor := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: textColor}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	title := widget.NewText(
		widget.TextOpts.Text("NETGUARDIAN", &face, color.NRGBA{R: 100, G: 200, B: 255, A: 255}),
		widget.TextOpts.WidgetOpts(center),
	)
	status := widget.NewText(
		widget.TextOpts.Text("", &face, textColor),
		widget.TextOpts.WidgetOpts(center),
	)

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: hoverImg, Pressed: hoverImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(center),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	m := g.machine
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 20, Right: 20}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(g.cfg.View.Width/2, g.cfg.View.Height/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(status)
	panel.AddChild(button("Start", m.Start))
	panel.AddChild(button("Next skin", func() { m.CycleSkin(1) }))
	panel.AddChild(button("Volume", func() {
		v := m.Session().Volume + 0.1
		if v > 1.05 {
			v = 0
		}
		m.SetVolume(v)
	}))
	panel.AddChild(button("Quit", func() { g.quit = true }))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	ui := &menuUI{machine: m, status: status}
	ui.refresh()
	return &ebitenui.UI{Container: root}, ui
}
