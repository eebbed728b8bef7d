package model

import (
	"image/color"
	"math"

	"github.com/harbdog/raycaster-go/geom"

	"gridcaster/engine"
)

// WallCloseness is how near, in grid units, the player may approach a wall.
const WallCloseness = 0.1

const (
	DefaultMoveSpeed        = 1.5
	DefaultSprintSpeed      = 3.0
	DefaultRotSpeed         = 110.0
	DefaultSprintRotSpeed   = 180.0
	DefaultMouseSensitivity = 0.1
)

// Blocker reports whether a grid cell stops movement.
type Blocker interface {
	Blocked(x, y int) bool
}

type Player struct {
	Position geom.Vector2
	// Angle is the heading in degrees, kept in [0, 360).
	Angle    float64
	// MapColor is the player's marker on the minimap.
	MapColor color.RGBA
	// Moved is set whenever the position or heading changes. Readers clear
	// it once they have caught up.
	Moved    bool

	MoveSpeed        float64
	SprintSpeed      float64
	RotSpeed         float64
	SprintRotSpeed   float64
	MouseSensitivity float64
}

func NewPlayer(x, y, angle float64) *Player {
	p := &Player{
		Position:         geom.Vector2{X: x, Y: y},
		MapColor:         color.RGBA{0, 255, 255, 255},
		MoveSpeed:        DefaultMoveSpeed,
		SprintSpeed:      DefaultSprintSpeed,
		RotSpeed:         DefaultRotSpeed,
		SprintRotSpeed:   DefaultSprintRotSpeed,
		MouseSensitivity: DefaultMouseSensitivity,
	}
	p.SetAngle(angle)
	return p
}

func (p *Player) SetAngle(angle float64) {
	p.Angle = engine.NormalizeAngle(angle)
	p.Moved = true
}

// Rotate turns by dir (-1..1) at the current rotation speed for dt seconds.
func (p *Player) Rotate(dir, dt float64, sprint bool) {
	if dir == 0 {
		return
	}
	speed := p.RotSpeed
	if sprint {
		speed = p.SprintRotSpeed
	}
	p.SetAngle(p.Angle + geom.Clamp(dir, -1, 1)*speed*dt)
}

// Look turns by a raw mouse delta in pixels.
func (p *Player) Look(dx float64) {
	if dx == 0 {
		return
	}
	p.SetAngle(p.Angle + dx*p.MouseSensitivity)
}

// Move walks forward and strafes right by the given amounts (-1..1) for dt
// seconds. Each axis is resolved on its own so the player slides along
// walls instead of stopping dead.
func (p *Player) Move(forward, strafe, dt float64, sprint bool, b Blocker) {
	if forward == 0 && strafe == 0 {
		return
	}
	speed := p.MoveSpeed
	if sprint {
		speed = p.SprintSpeed
	}

	dir := engine.Direction(p.Angle)
	right := engine.Direction(p.Angle + 90)
	step := dir.Scale(forward).Add(right.Scale(strafe))
	if l := step.Len(); l > 1 {
		step = step.Scale(1 / l)
	}
	step = step.Scale(speed * dt)

	if nx := p.Position.X + step.X; step.X != 0 && !blockedNear(b, nx+math.Copysign(WallCloseness, step.X), p.Position.Y) {
		p.Position.X = nx
		p.Moved = true
	}
	if ny := p.Position.Y + step.Y; step.Y != 0 && !blockedNear(b, p.Position.X, ny+math.Copysign(WallCloseness, step.Y)) {
		p.Position.Y = ny
		p.Moved = true
	}
}

func blockedNear(b Blocker, x, y float64) bool {
	return b.Blocked(int(math.Floor(x)), int(math.Floor(y)))
}

func (p *Player) Pos() engine.Point {
	return engine.Point{X: p.Position.X, Y: p.Position.Y}
}

// Camera is the renderer's view from the player.
func (p *Player) Camera() engine.Camera {
	return engine.Camera{Position: p.Pos(), Angle: p.Angle}
}
