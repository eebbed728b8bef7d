package engine

import (
	"context"
	"image/color"
	"math"
	"testing"
)

var (
	red     = color.RGBA{R: 255, A: 255}
	blue    = color.RGBA{B: 255, A: 255}
	green   = color.RGBA{G: 255, A: 255}
	magenta = color.RGBA{R: 255, B: 255, A: 255}
	gray    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	stone   = color.RGBA{R: 100, G: 150, B: 200, A: 255}
)

func solidTexture(w, h int, c color.RGBA) *Texture {
	t := NewTexture(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t.Set(x, y, c)
		}
	}
	return t
}

// testTextures: 0 floor, 1 red, 2 blue, 3 green, 4 sky, 5 stone.
func testTextures() *TextureSet {
	return NewTextureSet(
		solidTexture(4, 4, gray),
		solidTexture(4, 4, red),
		solidTexture(4, 4, blue),
		solidTexture(4, 4, green),
		solidTexture(8, 4, magenta),
		solidTexture(4, 4, stone),
	)
}

func testRenderer(m *Map, threads int) *Renderer {
	opts := DefaultOptions()
	opts.Width, opts.Height = 64, 64
	opts.Threads = threads
	return NewRenderer(m, testTextures(), opts)
}

func render(r *Renderer, tick int) *Frame {
	f := NewFrame(r.Options().Width, r.Options().Height, FormatRGBA)
	r.Render(context.Background(), f, tick)
	return f
}

func TestNearerSpriteWinsRegardlessOfOrder(t *testing.T) {
	nearSprite := Sprite{Position: Point{X: 7.5, Y: 12.5}, Texture: 1}
	farSprite := Sprite{Position: Point{X: 12.5, Y: 12.5}, Texture: 2}

	for _, order := range [][]Sprite{{nearSprite, farSprite}, {farSprite, nearSprite}} {
		m := mustMap(t, openGrid(20, 25))
		for _, s := range order {
			m.Sprites().Insert(s)
		}
		r := testRenderer(m, 1)
		r.Camera = Camera{Position: Point{X: 2.5, Y: 12.5}, Angle: 0}

		f := render(r, 0)
		if got := f.At(32, 32); got != red {
			t.Fatalf("insert order %v: overlap pixel = %v, want the nearer sprite %v", order[0].Texture, got, red)
		}
		if got := f.At(30, 29); got != red {
			t.Fatalf("insert order %v: pixel (30,29) = %v, want %v", order[0].Texture, got, red)
		}
	}
}

func TestSpriteOccludedByNearerWall(t *testing.T) {
	cam := Camera{Position: Point{X: 2.5, Y: 12.5}, Angle: 0}
	sprite := Sprite{Position: Point{X: 7.5, Y: 12.5}, Texture: 1}

	walls := openGrid(20, 25)
	for y := range walls {
		walls[y][5] = 4
	}
	m := mustMap(t, walls)
	m.Sprites().Insert(sprite)
	r := testRenderer(m, 1)
	r.Camera = cam
	if got := render(r, 0).At(32, 32); got != green {
		t.Fatalf("sprite behind a wall: pixel %v, want wall %v", got, green)
	}

	// moving the wall behind the sprite uncovers it
	walls = openGrid(20, 25)
	for y := range walls {
		walls[y][10] = 4
	}
	m = mustMap(t, walls)
	m.Sprites().Insert(sprite)
	r = testRenderer(m, 1)
	r.Camera = cam
	f := render(r, 0)
	if got := f.At(32, 32); got != red {
		t.Fatalf("sprite in front of wall: pixel %v, want %v", got, red)
	}
	for x, z := range r.zbuf {
		if z <= 0 {
			t.Fatalf("column %d has z %v", x, z)
		}
	}
}

func TestTransparentSpritePixelsKeepBackground(t *testing.T) {
	walls := openGrid(20, 25)
	for y := range walls {
		walls[y][10] = 4
	}
	m := mustMap(t, walls)
	r := testRenderer(m, 1)
	clear := NewTexture(4, 4)
	r.Textures.Add(clear)
	m.Sprites().Insert(Sprite{Position: Point{X: 7.5, Y: 12.5}, Texture: r.Textures.Len() - 1})
	r.Camera = Camera{Position: Point{X: 2.5, Y: 12.5}}

	if got := render(r, 0).At(32, 32); got != green {
		t.Fatalf("transparent sprite covered the wall: %v", got)
	}
}

func sceneMap(t *testing.T) *Map {
	t.Helper()
	walls := walledGrid(10, 10)
	walls[3][6] = 6
	ceiling := make([][]int, 10)
	light := make([][]float64, 10)
	for y := range ceiling {
		ceiling[y] = make([]int, 10)
		light[y] = make([]float64, 10)
		for x := range ceiling[y] {
			ceiling[y][x] = 5
			if x > 4 {
				ceiling[y][x] = SkyTile
			}
			light[y][x] = float64(x) / 10
		}
	}
	m, err := NewMap(Layers{Walls: walls, Ceiling: ceiling, Light: light})
	if err != nil {
		t.Fatal(err)
	}
	m.SetSkyTexture(4)
	d := NewDoor(1, 3, false)
	d.Progress = 0.4
	if err := m.AddDoor(5, 6, d); err != nil {
		t.Fatal(err)
	}
	m.Sprites().Insert(Sprite{Position: Point{X: 6.5, Y: 5.5}, Texture: 1})
	m.Sprites().Insert(Sprite{Position: Point{X: 3.5, Y: 7.5}, Texture: 2})
	return m
}

func TestThreadCountDoesNotChangeFrame(t *testing.T) {
	var want *Frame
	for _, threads := range []int{1, 3, 4, 64, 200} {
		r := testRenderer(sceneMap(t), threads)
		r.Camera = Camera{Position: Point{X: 2.5, Y: 4.2}, Angle: 17}
		f := render(r, 0)
		if want == nil {
			want = f
			continue
		}
		for i := range f.Pix {
			if f.Pix[i] != want.Pix[i] {
				t.Fatalf("threads=%d: pixel %d differs", threads, i)
			}
		}
	}
}

func TestVoidColumnsAreBlack(t *testing.T) {
	m := mustMap(t, openGrid(3, 3))
	r := testRenderer(m, 2)
	r.Camera = Camera{Position: Point{X: 1.5, Y: 1.5}}
	f := render(r, 0)

	black := color.RGBA{A: 255}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if got := f.At(x, y); got != black {
				t.Fatalf("pixel (%d,%d) = %v, want black", x, y, got)
			}
		}
	}
	if z := r.zbuf[32]; math.Abs(z-1.5) > 1e-9 {
		t.Fatalf("center z = %v, want 1.5", z)
	}
}

func TestWallFloorAndSkyShading(t *testing.T) {
	walls := walledGrid(8, 8)
	for y := range walls {
		for x := range walls[y] {
			if walls[y][x] != 0 {
				walls[y][x] = 6
			}
		}
	}
	ceiling := make([][]int, 8)
	light := make([][]float64, 8)
	for y := range ceiling {
		ceiling[y] = []int{-1, -1, -1, -1, -1, -1, -1, -1}
		light[y] = make([]float64, 8)
	}
	m, err := NewMap(Layers{Walls: walls, Ceiling: ceiling, Light: light})
	if err != nil {
		t.Fatal(err)
	}
	m.SetSkyTexture(4)
	r := testRenderer(m, 1)
	r.Camera = Camera{Position: Point{X: 4.5, Y: 4.5}}
	f := render(r, 0)

	if got, want := f.At(32, 32), (color.RGBA{R: 10, G: 15, B: 20, A: 255}); got != want {
		t.Errorf("wall pixel = %v, want %v", got, want)
	}
	if got, want := f.At(32, 63), (color.RGBA{R: 20, G: 20, B: 20, A: 255}); got != want {
		t.Errorf("floor pixel = %v, want %v", got, want)
	}
	if got := f.At(32, 0); got != magenta {
		t.Errorf("sky pixel = %v, want unlit %v", got, magenta)
	}
}

func TestColumnAngleIsFlatProjection(t *testing.T) {
	r := testRenderer(mustMap(t, openGrid(3, 3)), 1)
	r.Camera.Angle = 100
	angle := func(i int) float64 { return r.columnAngle(r.Camera.Angle, i, 64) }
	if got := angle(32); got != 100 {
		t.Fatalf("center column angle = %v, want 100", got)
	}
	left := angle(0) - 100
	if math.Abs(left+30) > 1e-9 {
		t.Fatalf("left edge offset = %v, want -30", left)
	}
	// equal screen steps near the edge cover less angle than at the center
	center := angle(33) - angle(32)
	edge := angle(1) - angle(0)
	if edge >= center {
		t.Fatalf("edge step %v should be narrower than center step %v", edge, center)
	}
}

func TestPartitionIsDisjointAndComplete(t *testing.T) {
	z := make([]float64, 101)
	spans := partition(101, 7, z)
	next := 0
	for _, s := range spans {
		if s.start != next || s.end <= s.start || len(s.zbuf) != s.end-s.start {
			t.Fatalf("bad span %+v after %d", s, next)
		}
		next = s.end
	}
	if next != 101 {
		t.Fatalf("spans end at %d, want 101", next)
	}
}
