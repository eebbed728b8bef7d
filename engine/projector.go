package engine

import (
	"context"
	"math"
	"sort"

	"go.opentelemetry.io/otel/attribute"
)

type spriteEntry struct {
	handle Handle
	sprite *Sprite
	dist   float64
}

// ProjectSprites draws the map's sprites farthest first, each column tested
// against the Z-buffer left by RenderWalls.
func (r *Renderer) ProjectSprites(ctx context.Context, f *Frame, tick int) {
	_, span := r.tracer.Start(ctx, "render.sprites")
	defer span.End()

	if len(r.zbuf) != f.Width {
		return
	}
	cam := r.Camera

	r.order = r.order[:0]
	r.Map.Sprites().Each(func(h Handle, s *Sprite) {
		r.order = append(r.order, spriteEntry{handle: h, sprite: s, dist: s.Position.Sub(cam.Position).Len()})
	})
	sort.SliceStable(r.order, func(a, b int) bool {
		return r.order[a].dist > r.order[b].dist
	})
	span.SetAttributes(attribute.Int("sprites", len(r.order)))

	w, h := f.Width, f.Height
	focal := r.focal(w)
	dir := Direction(cam.Angle)
	plane := Point{X: -dir.Y, Y: dir.X}.Scale(2 * math.Tan(radians(r.opts.FOV/2)))
	invDet := 1 / (plane.X*dir.Y - dir.X*plane.Y)

	for _, e := range r.order {
		s := e.sprite
		rel := s.Position.Sub(cam.Position)
		depth := invDet * (-plane.Y*rel.X + plane.X*rel.Y)
		if depth <= 0 {
			continue
		}

		view := relativeAngle(degrees(math.Atan2(rel.Y, rel.X)), cam.Angle)
		screenX := int(math.Round(float64(w)/2 + focal*math.Tan(radians(view))))
		size := int(math.Min(math.Abs(float64(h)/depth), float64(h)*64))
		if size <= 0 {
			continue
		}

		left := screenX - size/2
		startX := clampInt(left, 0, w)
		endX := clampInt(size/2+screenX, 0, w)
		startY := clampInt(-size/2+h/2, 0, h)
		endY := clampInt(size/2+h/2, 0, h)
		if startX >= endX {
			continue
		}

		tex := r.Textures.Get(s.TextureAt(tick, cam.Position))
		if tex == nil {
			continue
		}
		sx, sy := s.Position.Cell()
		div := r.lightDivisor(r.Map.LightAt(sx, sy))

		for stripe := startX; stripe < endX; stripe++ {
			if depth >= r.zbuf[stripe] {
				continue
			}
			texX := (256 * (stripe - left) * tex.Width / size) / 256
			for y := startY; y < endY; y++ {
				d := y*256 - h*128 + size*128
				texY := (d * tex.Height / size) / 256
				c := tex.At(texX, texY)
				if c.A == 0 {
					continue
				}
				f.Pix[y*w+stripe] = shade(f.Format, c, div)
			}
		}
	}
}
