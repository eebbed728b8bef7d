package main

import (
	"image/color"

	"gridcaster/engine"
)

const (
	crosshairSize = 3
	hitTicks      = 24
)

var (
	crosshairColor = color.RGBA{255, 255, 255, 200}
	hitColor       = color.RGBA{255, 40, 40, 255}
)

// crosshairs marks the frame center and flashes red for a while after a
// shot lands.
type crosshairs struct {
	hitTimer int
}

func (c *crosshairs) ActivateHitIndicator(ticks int) {
	c.hitTimer = ticks
}

func (c *crosshairs) IsHitIndicatorActive() bool {
	return c.hitTimer > 0
}

func (c *crosshairs) Update() {
	if c.hitTimer > 0 {
		c.hitTimer--
	}
}

func (c *crosshairs) draw(f *engine.Frame) {
	cx, cy := f.Width/2, f.Height/2
	clr := crosshairColor
	if c.IsHitIndicatorActive() {
		clr = hitColor
	}
	for d := 2; d <= crosshairSize+1; d++ {
		blend(f, cx+d, cy, clr)
		blend(f, cx-d, cy, clr)
		blend(f, cx, cy+d, clr)
		blend(f, cx, cy-d, clr)
	}
}

func blend(f *engine.Frame, x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	dst := f.At(x, y)
	a := uint32(c.A)
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a)) / 255)
	}
	f.Set(x, y, color.RGBA{R: mix(c.R, dst.R), G: mix(c.G, dst.G), B: mix(c.B, dst.B), A: 255})
}
