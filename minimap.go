// minimap.go
package main

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"gridcaster/engine"
	"gridcaster/model"
)

const (
	minimapScale  = 8
	minimapMargin = 10
	revealRadius  = 3
)

// fog tracks how well each cell has been seen, from 0 (never) to 1.
type fog struct {
	width, height int
	seen          []float64
}

func newFog(width, height int) *fog {
	return &fog{width: width, height: height, seen: make([]float64, width*height)}
}

// reveal lights cells around p, fading with distance. Cells keep the
// brightest value they have ever had.
func (f *fog) reveal(p engine.Point) {
	cx, cy := p.Cell()
	for y := cy - revealRadius; y <= cy+revealRadius; y++ {
		for x := cx - revealRadius; x <= cx+revealRadius; x++ {
			if x < 0 || y < 0 || x >= f.width || y >= f.height {
				continue
			}
			d := math.Hypot(float64(x)+0.5-p.X, float64(y)+0.5-p.Y)
			v := 1 - d/(revealRadius+1)
			if v > f.seen[y*f.width+x] {
				f.seen[y*f.width+x] = v
			}
		}
	}
}

// follow reveals around the player if it has moved since the last call.
func (f *fog) follow(p *model.Player) bool {
	if !p.Moved {
		return false
	}
	f.reveal(p.Pos())
	p.Moved = false
	return true
}

func (f *fog) at(x, y int) float64 {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return 0
	}
	return f.seen[y*f.width+x]
}

func (g *Game) drawMinimap(screen *ebiten.Image) {
	m := g.world.Level.Map
	g.fog.follow(g.world.Player)

	ox := float32(screen.Bounds().Dx() - m.Width()*minimapScale - minimapMargin)
	oy := float32(minimapMargin)
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			tileColor := color.RGBA{20, 20, 20, 255}
			if visibility := g.fog.at(x, y); visibility > 0 {
				switch {
				case m.TileAt(x, y).Solid():
					tileColor = color.RGBA{50, 50, 50, 255}
				case m.DoorAt(x, y) != nil:
					tileColor = color.RGBA{70, 110, 130, 255}
					if m.DoorAt(x, y).Passable() {
						tileColor = color.RGBA{120, 170, 190, 255}
					}
				default:
					tileColor = color.RGBA{200, 200, 200, 255}
				}

				// apply fog effect
				tileColor.R = uint8(float64(tileColor.R) * visibility)
				tileColor.G = uint8(float64(tileColor.G) * visibility)
				tileColor.B = uint8(float64(tileColor.B) * visibility)
			}
			vector.DrawFilledRect(screen, ox+float32(x*minimapScale), oy+float32(y*minimapScale), minimapScale, minimapScale, tileColor, false)
		}
	}

	m.Sprites().Each(func(_ engine.Handle, s *engine.Sprite) {
		sx, sy := s.Position.Cell()
		if g.fog.at(sx, sy) == 0 {
			return
		}
		vector.DrawFilledCircle(screen, ox+float32(s.Position.X*minimapScale), oy+float32(s.Position.Y*minimapScale), minimapScale/3, color.RGBA{255, 0, 0, 255}, false)
	})

	g.drawMinimapView(screen, ox, oy)
}

// drawMinimapView draws the player as an arrow inside a translucent cone the
// width of the field of view.
func (g *Game) drawMinimapView(screen *ebiten.Image, ox, oy float32) {
	p := g.world.Player
	px := ox + float32(p.Position.X*minimapScale)
	py := oy + float32(p.Position.Y*minimapScale)
	angle := p.Angle * math.Pi / 180
	half := g.world.Renderer.Options().FOV * math.Pi / 360

	const segments = 12
	const reach = 3 * minimapScale
	vertices := make([]ebiten.Vertex, segments+2)
	indices := make([]uint16, 0, segments*3)
	vertices[0] = ebiten.Vertex{DstX: px, DstY: py, ColorR: 1, ColorG: 1, ColorB: 0, ColorA: 0.25}
	for i := 0; i <= segments; i++ {
		a := angle - half + 2*half*float64(i)/segments
		vertices[i+1] = ebiten.Vertex{
			DstX:   px + float32(math.Cos(a)*reach),
			DstY:   py + float32(math.Sin(a)*reach),
			ColorR: 1, ColorG: 1, ColorB: 0, ColorA: 0.25,
		}
		if i < segments {
			indices = append(indices, 0, uint16(i+1), uint16(i+2))
		}
	}
	screen.DrawTriangles(vertices, indices, g.pixel, nil)

	size := float32(minimapScale)
	r, gr, b, a := vertexColor(p.MapColor)
	arrow := []ebiten.Vertex{
		{DstX: px + size*float32(math.Cos(angle)), DstY: py + size*float32(math.Sin(angle)), ColorR: r, ColorG: gr, ColorB: b, ColorA: a},
		{DstX: px + size/2*float32(math.Cos(angle+2.5)), DstY: py + size/2*float32(math.Sin(angle+2.5)), ColorR: r, ColorG: gr, ColorB: b, ColorA: a},
		{DstX: px + size/2*float32(math.Cos(angle-2.5)), DstY: py + size/2*float32(math.Sin(angle-2.5)), ColorR: r, ColorG: gr, ColorB: b, ColorA: a},
	}
	screen.DrawTriangles(arrow, []uint16{0, 1, 2}, g.pixel, nil)
}

func vertexColor(c color.RGBA) (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

// whitePixel is the source for untextured triangles.
func whitePixel() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}
