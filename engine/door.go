package engine

type DoorState int

const (
	DoorClosed DoorState = iota
	DoorOpening
	DoorOpen
	DoorClosing
)

func (s DoorState) String() string {
	switch s {
	case DoorClosed:
		return "closed"
	case DoorOpening:
		return "opening"
	case DoorOpen:
		return "open"
	case DoorClosing:
		return "closing"
	}
	return "unknown"
}

// DefaultDoorSpeed is progress per second.
const DefaultDoorSpeed = 1.0

// doorEpsilon keeps rays grazing a slab edge from registering twice.
const doorEpsilon = 1e-4

// Door is a sliding slab occupying one grid cell. Progress is 1 when fully
// closed and 0 when fully open.
type Door struct {
	Exists     bool
	ID         int
	Texture    int
	State      DoorState
	Progress   float64
	Horizontal bool
	Speed      float64
}

// NewDoor returns a closed door.
func NewDoor(id, texture int, horizontal bool) Door {
	return Door{
		Exists:     true,
		ID:         id,
		Texture:    texture,
		State:      DoorClosed,
		Progress:   1,
		Horizontal: horizontal,
		Speed:      DefaultDoorSpeed,
	}
}

// Blocks reports whether a ray crossing the door cell at fractional offset t
// along the door's sliding axis strikes the slab. The solid part covers
// [0, Progress) of the cell.
func (d *Door) Blocks(t float64) bool {
	if d == nil || !d.Exists || d.Progress <= 0 {
		return false
	}
	if d.Progress >= 1 {
		return true
	}
	return t >= doorEpsilon && t <= d.Progress-doorEpsilon
}

// Passable reports whether the player can walk through the cell.
func (d *Door) Passable() bool {
	return d == nil || !d.Exists || d.State == DoorOpen
}

// toggle starts the door moving. Doors already in motion ignore the request.
func (d *Door) toggle() bool {
	switch d.State {
	case DoorClosed:
		d.State = DoorOpening
	case DoorOpen:
		d.State = DoorClosing
	default:
		return false
	}
	return true
}

// advance moves the slab and reports whether the door came to rest.
func (d *Door) advance(elapsed float64) bool {
	switch d.State {
	case DoorOpening:
		d.Progress -= elapsed * d.Speed
		if d.Progress <= 0 {
			d.Progress = 0
			d.State = DoorOpen
			return true
		}
	case DoorClosing:
		d.Progress += elapsed * d.Speed
		if d.Progress >= 1 {
			d.Progress = 1
			d.State = DoorClosed
			return true
		}
	default:
		return true
	}
	return false
}
