package engine

import "math"

// Point is a continuous position in grid units. It doubles as a 2D vector.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Cell returns the grid cell containing p.
func (p Point) Cell() (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

// Direction returns the unit vector for an angle in degrees. The four axis
// headings are exact, with a zero component rather than a rounding residue.
func Direction(angle float64) Point {
	switch NormalizeAngle(angle) {
	case 0:
		return Point{X: 1}
	case 90:
		return Point{Y: 1}
	case 180:
		return Point{X: -1}
	case 270:
		return Point{Y: -1}
	}
	sin, cos := math.Sincos(radians(angle))
	return Point{X: cos, Y: sin}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeAngle wraps an angle in degrees into [0, 360).
func NormalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	if angle >= 360 {
		angle = 0
	}
	return angle
}

// relativeAngle returns a-b wrapped into (-180, 180].
func relativeAngle(a, b float64) float64 {
	d := NormalizeAngle(a - b)
	if d > 180 {
		d -= 360
	}
	return d
}

func frac(v float64) float64 {
	return v - math.Floor(v)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
