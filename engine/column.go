package engine

import "math"

const (
	// minPerpDistance keeps slice heights finite when the eye sits on a wall face.
	minPerpDistance = 1e-4
	// lightProbe backs the light sample off the wall face into the open cell.
	lightProbe = 1e-3
)

// renderColumn draws column i and returns its Z-buffer value.
func (r *Renderer) renderColumn(f *Frame, cam Camera, i int) float64 {
	w, h := f.Width, f.Height
	angle := r.columnAngle(cam.Angle, i, w)
	ev := CastRay(r.Map, cam.Position, angle, cam.Angle)

	if !ev.Hit() {
		black := f.Format.Pack(0, 0, 0, 255)
		for y := 0; y < h; y++ {
			f.Pix[y*w+i] = black
		}
		return ev.Distance
	}

	perp := math.Max(ev.Distance, minPerpDistance)
	lineHeight := int(math.Min(r.opts.WallHeight*float64(h)/perp, float64(h)*64))
	drawStart := clampInt(-lineHeight/2+h/2, 0, h)
	drawEnd := clampInt(lineHeight/2+h/2, 0, h)

	texCoord := frac(ev.Point.Y)
	if ev.Side == SideY {
		texCoord = frac(ev.Point.X)
	}
	if ev.Kind == DoorHit {
		texCoord += 1 - ev.DoorProgress
	}

	tex := r.Textures.Get(ev.Texture)
	texX := clampInt(int(texCoord*float64(tex.Width)), 0, tex.Width-1)

	dir := Direction(angle)
	lx, ly := ev.Point.Sub(dir.Scale(lightProbe)).Cell()
	div := r.lightDivisor(r.Map.LightAt(lx, ly))

	for y := drawStart; y < drawEnd; y++ {
		texY := ((y*2 - h + lineHeight) * tex.Height / lineHeight) / 2
		f.Pix[y*w+i] = shade(f.Format, tex.At(texX, texY), div)
	}

	r.castFloorCeiling(f, cam, i, ev.Point, perp, drawEnd)
	return ev.Distance
}

// castFloorCeiling fills the rows below and above the wall slice. Each floor
// row y-1 is mirrored by ceiling row h-y about the horizon.
func (r *Renderer) castFloorCeiling(f *Frame, cam Camera, i int, hit Point, perp float64, drawEnd int) {
	w, h := f.Width, f.Height
	m := r.Map
	sky := r.Textures.Get(m.SkyTexture())
	skyOffset := 0
	if sky != nil {
		skyOffset = int(NormalizeAngle(cam.Angle)*r.opts.SkyScale) % sky.Width
	}

	for y := drawEnd + 1; y <= h; y++ {
		denom := 2*y - h
		if denom <= 0 {
			continue
		}
		weight := float64(h) / float64(denom) / perp
		p := hit.Scale(weight).Add(cam.Position.Scale(1 - weight))
		cx, cy := p.Cell()
		div := r.lightDivisor(m.LightAt(cx, cy))

		floor := r.Textures.Get(m.FloorAt(cx, cy))
		fx := posMod(int(p.X*float64(floor.Width)), floor.Width)
		fy := posMod(int(p.Y*float64(floor.Height)), floor.Height)
		f.Pix[(y-1)*w+i] = shade(f.Format, floor.At(fx, fy), div)

		row := h - y
		ceil := m.CeilingAt(cx, cy)
		if ceil.Kind == SurfaceSky && sky != nil {
			sx := (i*sky.Width/w + skyOffset) % sky.Width
			sy := (row * sky.Height / h) % sky.Height
			f.Pix[row*w+i] = shade(f.Format, sky.At(sx, sy), 1)
			continue
		}
		tex := r.Textures.Get(ceil.Texture)
		if tex == nil {
			continue
		}
		tx := posMod(int(p.X*float64(tex.Width)), tex.Width)
		ty := posMod(int(p.Y*float64(tex.Height)), tex.Height)
		f.Pix[row*w+i] = shade(f.Format, tex.At(tx, ty), div)
	}
}

func posMod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
