// ui.go
package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	uiimage "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

func newFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

var hudColor = color.RGBA{230, 230, 230, 255}

func (g *Game) drawHUD(screen *ebiten.Image) {
	s := g.world.Status()
	h := screen.Bounds().Dy()

	text.Draw(screen, fmt.Sprintf("FPS: %0.2f  TPS: %0.2f", ebiten.ActualFPS(), ebiten.ActualTPS()), g.hud, 10, 20, hudColor)
	text.Draw(screen, fmt.Sprintf("%s  x %.2f  y %.2f  angle %.0f  fov %.0f", s.Level, s.Player.X, s.Player.Y, s.Player.Angle, s.FOV), g.hud, 10, 38, hudColor)
	text.Draw(screen, fmt.Sprintf("sprites: %d  hits: %d", s.Sprites, s.Kills), g.hud, 10, 56, hudColor)
	for i, d := range s.Doors {
		text.Draw(screen, fmt.Sprintf("door %d: %s", d.ID, d.State), g.hud, 10, 74+18*i, hudColor)
	}

	text.Draw(screen, "move with WASD, turn with arrows or mouse, E to open doors, click to fire", g.hud, 10, h-34, hudColor)
	text.Draw(screen, "TAB map  -/= fov  P pause  ESC exit", g.hud, 10, h-14, hudColor)
}

// newPauseMenu builds the overlay shown while paused: a FOV readout and
// buttons to resume or quit.
func (g *Game) newPauseMenu(face font.Face) *ebitenui.UI {
	root := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(uiimage.NewNineSliceColor(color.NRGBA{0, 0, 0, 160})),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(uiimage.NewNineSliceColor(color.NRGBA{40, 40, 50, 230})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(20)),
			widget.RowLayoutOpts.Spacing(12),
		)),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
			HorizontalPosition: widget.AnchorLayoutPositionCenter,
			VerticalPosition:   widget.AnchorLayoutPositionCenter,
		})),
	)
	root.AddChild(panel)

	panel.AddChild(widget.NewText(widget.TextOpts.Text("Paused", face, color.White)))
	g.fovLabel = widget.NewText(widget.TextOpts.Text("", face, color.White))
	panel.AddChild(g.fovLabel)

	buttonImage := &widget.ButtonImage{
		Idle:    uiimage.NewNineSliceColor(color.NRGBA{90, 90, 110, 255}),
		Hover:   uiimage.NewNineSliceColor(color.NRGBA{120, 120, 150, 255}),
		Pressed: uiimage.NewNineSliceColor(color.NRGBA{60, 60, 80, 255}),
	}
	button := func(label string, clicked func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(buttonImage),
			widget.ButtonOpts.Text(label, face, &widget.ButtonTextColor{Idle: color.White}),
			widget.ButtonOpts.TextPadding(widget.NewInsetsSimple(8)),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true})),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				g.cues.click()
				clicked()
			}),
		)
	}
	panel.AddChild(button("Wider view", func() { g.world.AdjustFOV(5); g.refreshMenu() }))
	panel.AddChild(button("Narrower view", func() { g.world.AdjustFOV(-5); g.refreshMenu() }))
	panel.AddChild(button("Resume", func() { g.setPaused(false) }))
	panel.AddChild(button("Quit", func() { g.quit = true }))

	return &ebitenui.UI{Container: root}
}

func (g *Game) refreshMenu() {
	if g.fovLabel != nil {
		g.fovLabel.Label = fmt.Sprintf("Field of view: %.0f", g.world.Renderer.Options().FOV)
	}
}
