package engine

import "math"

type HitKind uint8

const (
	NoHit HitKind = iota
	WallHit
	DoorHit
)

func (k HitKind) String() string {
	switch k {
	case WallHit:
		return "wall"
	case DoorHit:
		return "door"
	}
	return "none"
}

// Side is the kind of grid line a ray crossed last.
type Side uint8

const (
	// SideX is a vertical grid line (constant X).
	SideX Side = iota
	// SideY is a horizontal grid line (constant Y).
	SideY
)

// CollisionEvent is the outcome of one ray cast. For NoHit the point and
// distance describe where the ray left the map, or +Inf when it ran out of
// length.
type CollisionEvent struct {
	Kind         HitKind
	Point        Point
	Side         Side
	Distance     float64
	Texture      int
	DoorProgress float64
	CellX, CellY int
}

func (e CollisionEvent) Hit() bool {
	return e.Kind != NoHit
}

// unitStep is the ray length needed to cross one full cell along an axis.
// An axis the ray never moves along can never be crossed.
func unitStep(d float64) float64 {
	if d == 0 {
		return math.Inf(1)
	}
	return math.Abs(1 / d)
}

// CastRay walks the grid from origin along angle (degrees) and returns the
// first wall or door slab it meets. Distances are projected onto viewAngle.
func CastRay(m *Map, origin Point, angle, viewAngle float64) CollisionEvent {
	dir := Direction(angle)
	stepLen := Point{X: unitStep(dir.X), Y: unitStep(dir.Y)}
	cx, cy := origin.Cell()

	var stepX, stepY int
	var lenX, lenY float64
	if dir.X < 0 {
		stepX = -1
		lenX = (origin.X - float64(cx)) * stepLen.X
	} else {
		stepX = 1
		lenX = (float64(cx+1) - origin.X) * stepLen.X
	}
	if dir.Y < 0 {
		stepY = -1
		lenY = (origin.Y - float64(cy)) * stepLen.Y
	} else {
		stepY = 1
		lenY = (float64(cy+1) - origin.Y) * stepLen.Y
	}

	correction := math.Cos(radians(angle - viewAngle))
	maxDist := float64(m.width)
	if m.height > m.width {
		maxDist = float64(m.height)
	}

	dist := 0.0
	side := SideX
	for dist < maxDist {
		if lenX <= lenY {
			cx += stepX
			dist = lenX
			lenX += stepLen.X
			side = SideX
		} else {
			cy += stepY
			dist = lenY
			lenY += stepLen.Y
			side = SideY
		}

		ev := CollisionEvent{
			Point:    origin.Add(dir.Scale(dist)),
			Side:     side,
			Distance: dist * correction,
			CellX:    cx,
			CellY:    cy,
		}
		if !m.InBounds(cx, cy) {
			return ev
		}
		if c := m.tiles[cy*m.width+cx]; c.Solid() {
			ev.Kind = WallHit
			ev.Texture = c.Texture
			return ev
		}
		if d := m.DoorAt(cx, cy); d != nil {
			t := ev.Point.Y - float64(cy)
			if d.Horizontal {
				t = ev.Point.X - float64(cx)
			}
			if d.Blocks(t) {
				ev.Kind = DoorHit
				ev.Texture = d.Texture
				ev.DoorProgress = d.Progress
				return ev
			}
		}
	}
	return CollisionEvent{Kind: NoHit, Side: side, Distance: math.Inf(1), CellX: cx, CellY: cy}
}

// HitScan fires a ray from origin and returns the nearest sprite with a
// positive radius that the ray passes through before reaching a wall or door.
func (m *Map) HitScan(origin Point, angle, maxRange float64) (Handle, bool) {
	reach := maxRange
	if wall := CastRay(m, origin, angle, angle); wall.Hit() && wall.Distance < reach {
		reach = wall.Distance
	}

	dir := Direction(angle)
	var best Handle
	bestT := math.Inf(1)
	m.sprites.Each(func(h Handle, s *Sprite) {
		if s.Radius <= 0 {
			return
		}
		v := s.Position.Sub(origin)
		along := v.X*dir.X + v.Y*dir.Y
		if along < 0 {
			return
		}
		miss := v.X*v.X + v.Y*v.Y - along*along
		r2 := s.Radius * s.Radius
		if miss > r2 {
			return
		}
		t := along - math.Sqrt(r2-miss)
		if t < 0 {
			t = 0
		}
		if t < reach && t < bestT {
			bestT = t
			best = h
		}
	})
	return best, best.Valid()
}
