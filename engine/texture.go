package engine

import (
	"image"
	"image/color"
	"image/draw"
)

// Texture is a decoded RGBA pixel buffer. It is never written while a frame
// renders, so any number of column workers may sample it concurrently.
type Texture struct {
	Width  int
	Height int
	Pix    []byte
}

func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// TextureFromImage copies any decoded image into a Texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &Texture{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    append([]byte(nil), rgba.Pix...),
	}
}

func (t *Texture) Set(x, y int, c color.RGBA) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	i := (y*t.Width + x) * 4
	t.Pix[i] = c.R
	t.Pix[i+1] = c.G
	t.Pix[i+2] = c.B
	t.Pix[i+3] = c.A
}

// At samples the nearest texel. Coordinates outside the texture saturate to
// the edge.
func (t *Texture) At(x, y int) color.RGBA {
	x = clampInt(x, 0, t.Width-1)
	y = clampInt(y, 0, t.Height-1)
	i := (y*t.Width + x) * 4
	return color.RGBA{R: t.Pix[i], G: t.Pix[i+1], B: t.Pix[i+2], A: t.Pix[i+3]}
}

// TextureSet holds textures by index.
type TextureSet struct {
	textures []*Texture
}

func NewTextureSet(textures ...*Texture) *TextureSet {
	return &TextureSet{textures: textures}
}

// Add appends a texture and returns its index.
func (s *TextureSet) Add(t *Texture) int {
	s.textures = append(s.textures, t)
	return len(s.textures) - 1
}

func (s *TextureSet) Len() int {
	return len(s.textures)
}

func (s *TextureSet) Get(index int) *Texture {
	if index < 0 || index >= len(s.textures) {
		return nil
	}
	return s.textures[index]
}

func (s *TextureSet) Size(index int) (int, int) {
	t := s.textures[index]
	return t.Width, t.Height
}

func (s *TextureSet) ColorAt(index, x, y int) color.RGBA {
	return s.textures[index].At(x, y)
}
