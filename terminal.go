package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"gridcaster/engine"
	"gridcaster/logger"
)

const (
	// terminals report presses but not releases, so a press holds its
	// movement for a few ticks
	impulseTicks = 8
	// frames are composed every other tick
	terminalFrameEvery = 2
)

type impulse struct {
	value float64
	ticks int
}

func (i *impulse) set(v float64) {
	i.value, i.ticks = v, impulseTicks
}

func (i *impulse) take() float64 {
	if i.ticks == 0 {
		return 0
	}
	i.ticks--
	return i.value
}

// terminal draws the world with half-block cells, two frame rows per
// terminal row.
type terminal struct {
	screen tcell.Screen
	world  *World

	forward, strafe, turn impulse
	use, fire             bool
}

func newTerminal(s tcell.Screen, w *World) *terminal {
	return &terminal{screen: s, world: w}
}

func runTerminal(ctx context.Context, w *World) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer s.Fini()
	s.HideCursor()
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))

	logger.Component("terminal").WithField("level", w.Level.Name).Info("starting terminal")
	return newTerminal(s, w).run(ctx)
}

func (t *terminal) run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / engine.TicksPerSecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if t.handleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		case <-ticker.C:
			t.world.Step(t.intent())
			if t.world.Tick()%terminalFrameEvery == 0 {
				t.world.Compose(ctx)
				t.draw()
			}
		}
	}
}

// handleKey records a key press and reports whether to quit.
func (t *terminal) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		t.forward.set(1)
	case tcell.KeyDown:
		t.forward.set(-1)
	case tcell.KeyLeft:
		t.turn.set(-1)
	case tcell.KeyRight:
		t.turn.set(1)
	case tcell.KeyEnter:
		t.fire = true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'w':
			t.forward.set(1)
		case 's':
			t.forward.set(-1)
		case 'a':
			t.strafe.set(-1)
		case 'd':
			t.strafe.set(1)
		case 'e', ' ':
			t.use = true
		case 'f':
			t.fire = true
		case '-':
			t.world.AdjustFOV(-5)
		case '=', '+':
			t.world.AdjustFOV(5)
		}
	}
	return false
}

// intent drains the pending presses into one tick of input.
func (t *terminal) intent() Intent {
	in := Intent{
		Forward: t.forward.take(),
		Strafe:  t.strafe.take(),
		Turn:    t.turn.take(),
		Use:     t.use,
		Fire:    t.fire,
	}
	t.use, t.fire = false, false
	return in
}

func (t *terminal) draw() {
	cols, rows := t.screen.Size()
	t.world.Comp.View(func(f *engine.Frame) {
		dst := engine.Letterbox(cols, rows*2, f.Width, f.Height)
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				top := sampleCell(f, dst, x, y*2)
				bottom := sampleCell(f, dst, x, y*2+1)
				style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
				t.screen.SetContent(x, y, '▀', nil, style)
			}
		}
	})

	s := t.world.Status()
	line := fmt.Sprintf(" %s  x %.1f y %.1f  angle %.0f  fov %.0f  hits %d  arrows/wasd move  e door  f fire  q quit ",
		s.Level, s.Player.X, s.Player.Y, s.Player.Angle, s.FOV, s.Kills)
	style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	for i, r := range []rune(line) {
		if i >= cols {
			break
		}
		t.screen.SetContent(i, rows-1, r, nil, style)
	}
	t.screen.Show()
}

// sampleCell maps a sub-cell pixel onto the letterboxed frame.
func sampleCell(f *engine.Frame, dst image.Rectangle, x, y int) color.RGBA {
	if !image.Pt(x, y).In(dst) {
		return color.RGBA{A: 255}
	}
	fx := (x - dst.Min.X) * f.Width / dst.Dx()
	fy := (y - dst.Min.Y) * f.Height / dst.Dy()
	return f.At(fx, fy)
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
