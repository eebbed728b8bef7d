package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// handleInput reads the keyboard and mouse into an Intent for this tick.
// It returns quit when the player asked to leave.
func (g *Game) handleInput() (in Intent, quit bool) {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return in, true
	}

	// if p, pause game
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		return in, false
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.showMinimap = !g.showMinimap
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.world.AdjustFOV(-5)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.world.AdjustFOV(5)
	}

	in.Sprint = ebiten.IsKeyPressed(ebiten.KeyShift)

	if ebiten.CursorMode() != ebiten.CursorModeCaptured {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)

		// reset initial mouse capture position
		g.mouseX, g.mouseY = math.MinInt32, math.MinInt32
	}

	x, y := ebiten.CursorPosition()
	if g.mouseX == math.MinInt32 && g.mouseY == math.MinInt32 {
		// initialize first position to establish delta
		if x != 0 && y != 0 {
			g.mouseX, g.mouseY = x, y
		}
	} else {
		in.Look = float64(x - g.mouseX)
		g.mouseX, g.mouseY = x, y
	}

	in.Fire = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || ebiten.IsKeyPressed(ebiten.KeyControl)
	in.Use = inpututil.IsKeyJustPressed(ebiten.KeyE) || inpututil.IsKeyJustPressed(ebiten.KeySpace)

	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		in.Forward++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		in.Forward--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		in.Strafe++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		in.Strafe--
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		in.Turn++
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		in.Turn--
	}
	return in, false
}
