package engine

import "math"

// TicksPerSecond is the rate of the global animation clock.
const TicksPerSecond = 64

// Octants are the eight 45 degree viewing buckets of a directional sprite,
// counted from the sprite's front.
const Octants = 8

// ReelFrame is one step of an animation reel.
type ReelFrame struct {
	Duration int
	Texture  int
}

// Sprite is a camera-facing billboard.
type Sprite struct {
	Position   Point
	Texture    int
	Angle      float64
	Animated   bool
	MultiAngle bool

	// Reel drives an animated sprite with a single view.
	Reel []ReelFrame
	// Directions holds one texture per octant for a static directional sprite.
	Directions [Octants]int
	// DirectionalReels holds one reel per octant when a sprite is both
	// animated and directional.
	DirectionalReels [Octants][]ReelFrame

	// Radius is the hit-scan radius; zero makes the sprite untargetable.
	Radius float64

	cursor   int
	lastTick int
}

// Octant buckets the viewer's position relative to the sprite's facing.
func (s *Sprite) Octant(viewer Point) int {
	v := s.Position.Sub(viewer)
	diff := NormalizeAngle(degrees(math.Atan2(v.Y, v.X)) + s.Angle)
	o := int(diff / (360 / Octants))
	if o >= Octants {
		o = Octants - 1
	}
	return o
}

// TextureAt picks the texture to draw for this tick as seen from viewer,
// advancing the animation cursor when the current frame has run its course.
func (s *Sprite) TextureAt(tick int, viewer Point) int {
	switch {
	case s.Animated && s.MultiAngle:
		return s.advance(s.DirectionalReels[s.Octant(viewer)], tick)
	case s.Animated:
		return s.advance(s.Reel, tick)
	case s.MultiAngle:
		return s.Directions[s.Octant(viewer)]
	}
	return s.Texture
}

// Cursor returns the current reel position.
func (s *Sprite) Cursor() int {
	return s.cursor
}

func (s *Sprite) advance(reel []ReelFrame, tick int) int {
	if len(reel) == 0 {
		return s.Texture
	}
	if s.cursor >= len(reel) {
		s.cursor %= len(reel)
	}
	if tick > s.lastTick && tick-s.lastTick >= reel[s.cursor].Duration {
		s.cursor = (s.cursor + 1) % len(reel)
		s.lastTick = tick
	}
	return reel[s.cursor].Texture
}

// textures lists every texture index the sprite may draw.
func (s *Sprite) textures() []int {
	out := []int{s.Texture}
	for _, f := range s.Reel {
		out = append(out, f.Texture)
	}
	if s.MultiAngle {
		out = append(out, s.Directions[:]...)
		for _, reel := range s.DirectionalReels {
			for _, f := range reel {
				out = append(out, f.Texture)
			}
		}
	}
	return out
}
