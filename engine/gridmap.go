package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrBadLayer      = errors.New("engine: malformed map layer")
	ErrTextureIndex  = errors.New("engine: texture index out of range")
	ErrDoorPlacement = errors.New("engine: door must sit on an empty cell")
)

type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellWall
)

// Cell is the decoded content of a wall-layer tile.
type Cell struct {
	Kind    CellKind
	Texture int
}

func (c Cell) Solid() bool {
	return c.Kind == CellWall
}

type SurfaceKind uint8

const (
	SurfaceTextured SurfaceKind = iota
	SurfaceSky
)

// Surface is the decoded content of a ceiling tile.
type Surface struct {
	Kind    SurfaceKind
	Texture int
}

// SkyTile marks a sky cell in a raw ceiling layer.
const SkyTile = -1

// Layers are the raw rows of a level, indexed [y][x]. Wall values are 0 for
// open floor and n > 0 for a wall drawn with texture n-1. Floor and ceiling
// values are texture indices, with SkyTile allowed on the ceiling. Missing
// floor, ceiling and light layers default to texture 0 and full light.
type Layers struct {
	Walls   [][]int
	Floor   [][]int
	Ceiling [][]int
	Light   [][]float64
}

// Map is the grid world: decoded cells, doors, lighting and sprites.
type Map struct {
	width, height int

	tiles   []Cell
	floor   []int
	ceiling []Surface
	light   []float64
	doors   []Door

	doorCells map[int][]int
	active    map[int]struct{}

	sky     int
	sprites *SpriteArena
}

func NewMap(l Layers) (*Map, error) {
	height := len(l.Walls)
	if height == 0 || len(l.Walls[0]) == 0 {
		return nil, fmt.Errorf("%w: empty wall layer", ErrBadLayer)
	}
	width := len(l.Walls[0])

	m := &Map{
		width:     width,
		height:    height,
		tiles:     make([]Cell, width*height),
		floor:     make([]int, width*height),
		ceiling:   make([]Surface, width*height),
		light:     make([]float64, width*height),
		doors:     make([]Door, width*height),
		doorCells: map[int][]int{},
		active:    map[int]struct{}{},
		sprites:   NewSpriteArena(),
	}

	for name, layer := range map[string]int{"floor": len(l.Floor), "ceiling": len(l.Ceiling), "light": len(l.Light)} {
		if layer != 0 && layer != height {
			return nil, fmt.Errorf("%w: %s layer has %d rows, want %d", ErrBadLayer, name, layer, height)
		}
	}

	for y := 0; y < height; y++ {
		if len(l.Walls[y]) != width {
			return nil, fmt.Errorf("%w: wall row %d has %d cells, want %d", ErrBadLayer, y, len(l.Walls[y]), width)
		}
		for x := 0; x < width; x++ {
			i := y*width + x
			if v := l.Walls[y][x]; v > 0 {
				m.tiles[i] = Cell{Kind: CellWall, Texture: v - 1}
			} else if v < 0 {
				return nil, fmt.Errorf("%w: negative wall tile %d at (%d,%d)", ErrBadLayer, v, x, y)
			}
			m.light[i] = 1
		}
		if len(l.Floor) > 0 {
			if len(l.Floor[y]) != width {
				return nil, fmt.Errorf("%w: floor row %d has %d cells, want %d", ErrBadLayer, y, len(l.Floor[y]), width)
			}
			copy(m.floor[y*width:], l.Floor[y])
		}
		if len(l.Ceiling) > 0 {
			if len(l.Ceiling[y]) != width {
				return nil, fmt.Errorf("%w: ceiling row %d has %d cells, want %d", ErrBadLayer, y, len(l.Ceiling[y]), width)
			}
			for x, v := range l.Ceiling[y] {
				if v == SkyTile {
					m.ceiling[y*width+x] = Surface{Kind: SurfaceSky}
				} else {
					m.ceiling[y*width+x] = Surface{Kind: SurfaceTextured, Texture: v}
				}
			}
		}
		if len(l.Light) > 0 {
			if len(l.Light[y]) != width {
				return nil, fmt.Errorf("%w: light row %d has %d cells, want %d", ErrBadLayer, y, len(l.Light[y]), width)
			}
			for x, v := range l.Light[y] {
				m.light[y*width+x] = math.Max(0, math.Min(1, v))
			}
		}
	}
	return m, nil
}

func (m *Map) Width() int  { return m.width }
func (m *Map) Height() int { return m.height }

func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

func (m *Map) TileAt(x, y int) Cell {
	if !m.InBounds(x, y) {
		return Cell{}
	}
	return m.tiles[y*m.width+x]
}

func (m *Map) FloorAt(x, y int) int {
	x, y = m.clamp(x, y)
	return m.floor[y*m.width+x]
}

func (m *Map) CeilingAt(x, y int) Surface {
	x, y = m.clamp(x, y)
	return m.ceiling[y*m.width+x]
}

// DoorAt returns the door in a cell, or nil.
func (m *Map) DoorAt(x, y int) *Door {
	if !m.InBounds(x, y) {
		return nil
	}
	d := &m.doors[y*m.width+x]
	if !d.Exists {
		return nil
	}
	return d
}

func (m *Map) LightAt(x, y int) float64 {
	x, y = m.clamp(x, y)
	return m.light[y*m.width+x]
}

func (m *Map) SkyTexture() int {
	return m.sky
}

func (m *Map) SetSkyTexture(index int) {
	m.sky = index
}

func (m *Map) Sprites() *SpriteArena {
	return m.sprites
}

// SetWall replaces the wall tile in a cell using the raw layer encoding.
func (m *Map) SetWall(x, y, tile int) {
	if !m.InBounds(x, y) {
		return
	}
	if tile > 0 {
		m.tiles[y*m.width+x] = Cell{Kind: CellWall, Texture: tile - 1}
	} else {
		m.tiles[y*m.width+x] = Cell{}
	}
}

// AddDoor places a door. Cells sharing an ID open and close together.
func (m *Map) AddDoor(x, y int, d Door) error {
	if !m.InBounds(x, y) || m.TileAt(x, y).Solid() {
		return fmt.Errorf("%w: (%d,%d)", ErrDoorPlacement, x, y)
	}
	if m.doors[y*m.width+x].Exists {
		return fmt.Errorf("%w: (%d,%d) already has a door", ErrDoorPlacement, x, y)
	}
	if d.Speed <= 0 {
		d.Speed = DefaultDoorSpeed
	}
	d.Exists = true
	i := y*m.width + x
	m.doors[i] = d
	m.doorCells[d.ID] = append(m.doorCells[d.ID], i)
	if d.State == DoorOpening || d.State == DoorClosing {
		m.active[d.ID] = struct{}{}
	}
	return nil
}

// ToggleDoor starts every cell of door id moving. It reports whether
// anything changed; unknown ids and doors already in motion are ignored.
func (m *Map) ToggleDoor(id int) bool {
	cells, ok := m.doorCells[id]
	if !ok {
		return false
	}
	changed := false
	for _, i := range cells {
		if m.doors[i].toggle() {
			changed = true
		}
	}
	if changed {
		m.active[id] = struct{}{}
	}
	return changed
}

// UpdateDoors advances doors in motion by elapsed seconds.
func (m *Map) UpdateDoors(elapsed float64) {
	for id := range m.active {
		done := true
		for _, i := range m.doorCells[id] {
			if !m.doors[i].advance(elapsed) {
				done = false
			}
		}
		if done {
			delete(m.active, id)
		}
	}
}

// ActiveDoors returns the number of door ids in motion.
func (m *Map) ActiveDoors() int {
	return len(m.active)
}

// DoorIDs returns all door ids in ascending order.
func (m *Map) DoorIDs() []int {
	ids := make([]int, 0, len(m.doorCells))
	for id := range m.doorCells {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Door returns the first cell of door id.
func (m *Map) Door(id int) (Door, bool) {
	cells, ok := m.doorCells[id]
	if !ok || len(cells) == 0 {
		return Door{}, false
	}
	return m.doors[cells[0]], true
}

// Blocked reports whether a cell stops movement: outside the map, walls and
// doors that are not fully open.
func (m *Map) Blocked(x, y int) bool {
	if !m.InBounds(x, y) {
		return true
	}
	if m.TileAt(x, y).Solid() {
		return true
	}
	return !m.DoorAt(x, y).Passable()
}

// DoorRef locates a door cell.
type DoorRef struct {
	ID   int
	X, Y int
}

// DoorNear walks from origin along angle for up to reach units and returns
// the first door cell found before a wall.
func (m *Map) DoorNear(origin Point, angle, reach float64) (DoorRef, bool) {
	const step = 0.05
	dir := Direction(angle)
	ox, oy := origin.Cell()
	for t := step; t <= reach; t += step {
		x, y := origin.Add(dir.Scale(t)).Cell()
		if x == ox && y == oy {
			continue
		}
		if !m.InBounds(x, y) || m.TileAt(x, y).Solid() {
			break
		}
		if d := m.DoorAt(x, y); d != nil {
			return DoorRef{ID: d.ID, X: x, Y: y}, true
		}
	}
	return DoorRef{}, false
}

// Validate checks every texture index the map refers to.
func (m *Map) Validate(textures *TextureSet) error {
	n := textures.Len()
	check := func(what string, idx int) error {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: %s uses texture %d, have %d", ErrTextureIndex, what, idx, n)
		}
		return nil
	}
	for i := range m.tiles {
		x, y := i%m.width, i/m.width
		if m.tiles[i].Solid() {
			if err := check(fmt.Sprintf("wall (%d,%d)", x, y), m.tiles[i].Texture); err != nil {
				return err
			}
		}
		if err := check(fmt.Sprintf("floor (%d,%d)", x, y), m.floor[i]); err != nil {
			return err
		}
		if m.ceiling[i].Kind == SurfaceSky {
			if err := check("sky", m.sky); err != nil {
				return err
			}
		} else if err := check(fmt.Sprintf("ceiling (%d,%d)", x, y), m.ceiling[i].Texture); err != nil {
			return err
		}
		if m.doors[i].Exists {
			if err := check(fmt.Sprintf("door %d", m.doors[i].ID), m.doors[i].Texture); err != nil {
				return err
			}
		}
	}
	var err error
	m.sprites.Each(func(h Handle, s *Sprite) {
		if err != nil {
			return
		}
		for _, idx := range s.textures() {
			if err = check(fmt.Sprintf("sprite %d", h.Index()), idx); err != nil {
				return
			}
		}
	})
	return err
}

func (m *Map) clamp(x, y int) (int, int) {
	return clampInt(x, 0, m.width-1), clampInt(y, 0, m.height-1)
}
