package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"gridcaster/engine"
	"gridcaster/logger"
)

const texSize = 64

// LoadTextures decodes the named images from dir in order, so that the i-th
// name becomes texture index i. A name with no file on disk falls back to a
// generated texture of the same base name.
func LoadTextures(dir string, names []string) (*engine.TextureSet, error) {
	log := logger.Component("textures")
	set := engine.NewTextureSet()
	for _, name := range names {
		t, err := loadTexture(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			log.WithField("texture", name).Debug("no file, using generated texture")
			t = builtinTexture(name)
		} else if err != nil {
			return nil, fmt.Errorf("texture %s: %w", name, err)
		}
		set.Add(t)
	}
	return set, nil
}

func loadTexture(path string) (*engine.Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return engine.TextureFromImage(img), nil
}

func builtinTexture(name string) *engine.Texture {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	switch {
	case base == "wood":
		return planks(color.RGBA{R: 120, G: 80, B: 40, A: 255})
	case base == "wooddoor":
		return planks(color.RGBA{R: 90, G: 60, B: 30, A: 255})
	case base == "floor":
		return tiles(color.RGBA{R: 90, G: 90, B: 90, A: 255}, color.RGBA{R: 70, G: 70, B: 70, A: 255})
	case base == "bricks":
		return bricks()
	case base == "sky":
		return sky()
	case base == "door":
		return door()
	case base == "gun":
		return gun(false)
	case base == "gun_fire":
		return gun(true)
	case strings.HasPrefix(base, "guard_shoot_"):
		n, _ := strconv.Atoi(strings.TrimPrefix(base, "guard_shoot_"))
		return guard(0, n)
	case strings.HasPrefix(base, "guard_"):
		n, _ := strconv.Atoi(strings.TrimPrefix(base, "guard_"))
		return guard(n-1, 0)
	}
	return missing()
}

func planks(base color.RGBA) *engine.Texture {
	t := engine.NewTexture(texSize, texSize)
	for y := 0; y < texSize; y++ {
		for x := 0; x < texSize; x++ {
			c := base
			grain := uint8((x*7 + y/3) % 12)
			c.R -= grain
			c.G -= grain
			if x%16 == 0 {
				c = color.RGBA{R: 40, G: 25, B: 10, A: 255}
			}
			t.Set(x, y, c)
		}
	}
	return t
}

func tiles(a, b color.RGBA) *engine.Texture {
	t := engine.NewTexture(texSize, texSize)
	for y := 0; y < texSize; y++ {
		for x := 0; x < texSize; x++ {
			c := a
			if (x/16+y/16)%2 == 1 {
				c = b
			}
			if x%16 == 0 || y%16 == 0 {
				c = color.RGBA{R: 50, G: 50, B: 50, A: 255}
			}
			t.Set(x, y, c)
		}
	}
	return t
}

func bricks() *engine.Texture {
	t := engine.NewTexture(texSize, texSize)
	mortar := color.RGBA{R: 160, G: 160, B: 150, A: 255}
	for y := 0; y < texSize; y++ {
		row := y / 8
		for x := 0; x < texSize; x++ {
			off := 0
			if row%2 == 1 {
				off = 8
			}
			c := color.RGBA{R: uint8(150 + (row*13)%40), G: 50, B: 40, A: 255}
			if y%8 == 0 || (x+off)%16 == 0 {
				c = mortar
			}
			t.Set(x, y, c)
		}
	}
	return t
}

// sky is a wide gradient so that the panorama visibly scrolls with heading.
func sky() *engine.Texture {
	const w, h = 256, 64
	t := engine.NewTexture(w, h)
	for y := 0; y < h; y++ {
		f := float64(y) / h
		for x := 0; x < w; x++ {
			c := color.RGBA{R: uint8(40 + 80*f), G: uint8(90 + 90*f), B: uint8(200 + 40*f), A: 255}
			// a band of hills along the horizon
			hill := h - 10 - int(6*math.Sin(float64(x)*2*math.Pi/64)+4*math.Sin(float64(x)*2*math.Pi/23))
			if y > hill {
				c = color.RGBA{R: 40, G: 90, B: 50, A: 255}
			}
			t.Set(x, y, c)
		}
	}
	return t
}

func door() *engine.Texture {
	t := engine.NewTexture(texSize, texSize)
	for y := 0; y < texSize; y++ {
		for x := 0; x < texSize; x++ {
			c := color.RGBA{R: 70, G: 110, B: 130, A: 255}
			if x < 2 || x >= texSize-2 || y < 2 || y >= texSize-2 {
				c = color.RGBA{R: 30, G: 40, B: 50, A: 255}
			}
			if x >= 52 && x < 56 && y >= 28 && y < 36 {
				c = color.RGBA{R: 220, G: 200, B: 60, A: 255}
			}
			t.Set(x, y, c)
		}
	}
	return t
}

// guard draws a figure with a marker showing which way it faces. facing is
// the octant index, 0 facing the viewer; shot selects a firing frame.
func guard(facing, shot int) *engine.Texture {
	t := engine.NewTexture(texSize, texSize)
	uniform := color.RGBA{R: 110, G: 120, B: 70, A: 255}
	skin := color.RGBA{R: 230, G: 180, B: 140, A: 255}
	for y := 8; y < 20; y++ {
		for x := 26; x < 38; x++ {
			t.Set(x, y, skin)
		}
	}
	for y := 20; y < 64; y++ {
		for x := 20; x < 44; x++ {
			t.Set(x, y, uniform)
		}
	}
	// the marker swings around the head as the facing octant turns
	a := float64(facing) * math.Pi / 4
	mx := 32 + int(math.Round(8*math.Sin(a)))
	for y := 12; y < 16; y++ {
		for x := mx - 2; x < mx+2; x++ {
			t.Set(x, y, color.RGBA{A: 255})
		}
	}
	if shot > 0 {
		flash := color.RGBA{R: 255, G: uint8(120 + 40*shot), B: 40, A: 255}
		for y := 30; y < 30+4*shot; y++ {
			for x := 44; x < 50+2*shot; x++ {
				t.Set(x, y, flash)
			}
		}
	}
	return t
}

func gun(firing bool) *engine.Texture {
	t := engine.NewTexture(16, 16)
	metal := color.RGBA{R: 60, G: 60, B: 70, A: 255}
	for y := 6; y < 16; y++ {
		for x := 6; x < 10; x++ {
			t.Set(x, y, metal)
		}
	}
	for y := 12; y < 16; y++ {
		for x := 4; x < 12; x++ {
			t.Set(x, y, color.RGBA{R: 90, G: 60, B: 40, A: 255})
		}
	}
	if firing {
		for y := 0; y < 6; y++ {
			for x := 5; x < 11; x++ {
				t.Set(x, y, color.RGBA{R: 255, G: 200, B: 60, A: 200})
			}
		}
	}
	return t
}

func missing() *engine.Texture {
	t := engine.NewTexture(texSize, texSize)
	for y := 0; y < texSize; y++ {
		for x := 0; x < texSize; x++ {
			c := color.RGBA{A: 255}
			if (x/8+y/8)%2 == 0 {
				c = color.RGBA{R: 255, B: 255, A: 255}
			}
			t.Set(x, y, c)
		}
	}
	return t
}
