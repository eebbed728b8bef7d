package engine

import (
	"image"
	"image/color"
)

// PixelFormat describes where each 8-bit channel lives inside a packed
// 32-bit pixel. Presenters query their destination format and hand it to
// NewFrame; nothing in the renderer assumes a channel order.
type PixelFormat struct {
	RShift, GShift, BShift, AShift uint8
}

// FormatRGBA packs pixels so that little-endian bytes read R, G, B, A.
var FormatRGBA = PixelFormat{RShift: 0, GShift: 8, BShift: 16, AShift: 24}


func (f PixelFormat) Pack(r, g, b, a uint8) uint32 {
	return uint32(r)<<f.RShift | uint32(g)<<f.GShift | uint32(b)<<f.BShift | uint32(a)<<f.AShift
}

func (f PixelFormat) Unpack(p uint32) color.RGBA {
	return color.RGBA{
		R: uint8(p >> f.RShift),
		G: uint8(p >> f.GShift),
		B: uint8(p >> f.BShift),
		A: uint8(p >> f.AShift),
	}
}

// Frame is the off-screen render target at internal resolution.
type Frame struct {
	Pix    []uint32
	Width  int
	Height int
	Format PixelFormat
}

func NewFrame(width, height int, format PixelFormat) *Frame {
	return &Frame{
		Pix:    make([]uint32, width*height),
		Width:  width,
		Height: height,
		Format: format,
	}
}

func (f *Frame) Set(x, y int, c color.RGBA) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	f.Pix[y*f.Width+x] = f.Format.Pack(c.R, c.G, c.B, c.A)
}

func (f *Frame) At(x, y int) color.RGBA {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return color.RGBA{}
	}
	return f.Format.Unpack(f.Pix[y*f.Width+x])
}

func (f *Frame) Clear() {
	black := f.Format.Pack(0, 0, 0, 255)
	for i := range f.Pix {
		f.Pix[i] = black
	}
}

func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// Bytes serializes the frame little-endian into dst, growing it if needed.
// With FormatRGBA the result is directly usable as RGBA pixel bytes.
func (f *Frame) Bytes(dst []byte) []byte {
	n := len(f.Pix) * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, p := range f.Pix {
		dst[i*4] = byte(p)
		dst[i*4+1] = byte(p >> 8)
		dst[i*4+2] = byte(p >> 16)
		dst[i*4+3] = byte(p >> 24)
	}
	return dst
}

// RGBA converts the frame into a standard image.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, f.At(x, y))
		}
	}
	return img
}

func (f *Frame) Clone() *Frame {
	c := *f
	c.Pix = append([]uint32(nil), f.Pix...)
	return &c
}

type Vector struct {
	X, Y float64
}

type DrawOptions struct {
	GeoM GeoM
}

// GeoM is a scale followed by a translation.
type GeoM struct {
	ScaleVec Vector
	Trans    Vector
}

func (g *GeoM) Scale(x, y float64) {
	if g.ScaleVec == (Vector{}) {
		g.ScaleVec = Vector{X: 1, Y: 1}
	}
	g.ScaleVec.X *= x
	g.ScaleVec.Y *= y
}

func (g *GeoM) Translate(x, y float64) {
	g.Trans.X += x
	g.Trans.Y += y
}

// DrawTexture stamps a texture onto the frame, nearest-neighbor, skipping
// fully transparent texels and alpha blending the rest.
func (f *Frame) DrawTexture(src *Texture, op *DrawOptions) {
	if src == nil {
		return
	}
	if op == nil {
		op = &DrawOptions{}
	}
	sx, sy := op.GeoM.ScaleVec.X, op.GeoM.ScaleVec.Y
	if sx == 0 && sy == 0 {
		sx, sy = 1, 1
	}
	dw := int(float64(src.Width) * sx)
	dh := int(float64(src.Height) * sy)
	x0 := int(op.GeoM.Trans.X)
	y0 := int(op.GeoM.Trans.Y)

	for dy := 0; dy < dh; dy++ {
		y := y0 + dy
		if y < 0 || y >= f.Height {
			continue
		}
		ty := int(float64(dy) / sy)
		for dx := 0; dx < dw; dx++ {
			x := x0 + dx
			if x < 0 || x >= f.Width {
				continue
			}
			c := src.At(int(float64(dx)/sx), ty)
			if c.A == 0 {
				continue
			}
			if c.A == 255 {
				f.Set(x, y, c)
				continue
			}

			dst := f.At(x, y)
			a := uint32(c.A)
			f.Set(x, y, color.RGBA{
				R: uint8((uint32(c.R)*a + uint32(dst.R)*(255-a)) / 255),
				G: uint8((uint32(c.G)*a + uint32(dst.G)*(255-a)) / 255),
				B: uint8((uint32(c.B)*a + uint32(dst.B)*(255-a)) / 255),
				A: 255,
			})
		}
	}
}
