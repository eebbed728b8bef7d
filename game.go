package main

import (
	"context"
	"image/color"
	"math"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"

	"gridcaster/engine"
	"gridcaster/logger"
)

// Game is the windowed front end.
type Game struct {
	ctx   context.Context
	cfg   *Config
	world *World
	cues  *cues

	// scene is the frame at internal resolution, scaled into the window
	scene  *ebiten.Image
	pixels []byte
	pixel  *ebiten.Image

	paused      bool
	quit        bool
	showMinimap bool
	fog         *fog

	mouseX, mouseY int

	hud      font.Face
	menu     *ebitenui.UI
	fovLabel *widget.Text
}

// NewGame - Allows the game to perform any initialization it needs to before starting to run.
func NewGame(ctx context.Context, cfg *Config, w *World, c *cues) (*Game, error) {
	hud, err := newFace(14)
	if err != nil {
		return nil, err
	}
	menuFace, err := newFace(20)
	if err != nil {
		return nil, err
	}

	opts := w.Renderer.Options()
	g := &Game{
		ctx:         ctx,
		cfg:         cfg,
		world:       w,
		cues:        c,
		scene:       ebiten.NewImage(opts.Width, opts.Height),
		pixel:       whitePixel(),
		showMinimap: true,
		fog:         newFog(w.Level.Map.Width(), w.Level.Map.Height()),
		hud:         hud,
	}
	g.menu = g.newPauseMenu(menuFace)
	g.mouseX, g.mouseY = math.MinInt32, math.MinInt32

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	ebiten.SetVsyncEnabled(cfg.Window.VSync)
	ebiten.SetTPS(engine.TicksPerSecond)
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	return g, nil
}

// Run is the Ebiten Run loop caller
func (g *Game) Run() error {
	logger.Component("game").WithField("level", g.world.Level.Name).Info("starting window")
	return ebiten.RunGame(g)
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if paused {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		g.refreshMenu()
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	}
}

// Layout keeps the screen at the window size; the scene is letterboxed
// into it in Draw.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Update is called every tick (1/64 s).
func (g *Game) Update() error {
	in, quit := g.handleInput()
	if quit || g.quit {
		return ebiten.Termination
	}
	if g.paused {
		g.menu.Update()
		return nil
	}
	g.world.Step(in)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Compose(g.ctx)
	g.world.Comp.View(func(f *engine.Frame) {
		g.pixels = f.Bytes(g.pixels)
	})
	g.scene.WritePixels(g.pixels)

	screen.Fill(color.Black)
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	fw, fh := g.scene.Bounds().Dx(), g.scene.Bounds().Dy()
	dst := engine.Letterbox(sw, sh, fw, fh)
	if !dst.Empty() {
		op := &ebiten.DrawImageOptions{}
		op.Filter = ebiten.FilterNearest
		op.GeoM.Scale(float64(dst.Dx())/float64(fw), float64(dst.Dy())/float64(fh))
		op.GeoM.Translate(float64(dst.Min.X), float64(dst.Min.Y))
		screen.DrawImage(g.scene, op)
	}

	if g.showMinimap {
		g.drawMinimap(screen)
	}
	g.drawHUD(screen)
	if g.paused {
		g.menu.Draw(screen)
	}
}
