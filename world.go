package main

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"gridcaster/engine"
	"gridcaster/logger"
	"gridcaster/model"
)

const (
	tickDuration = 1.0 / engine.TicksPerSecond

	// firing frame length in ticks; also the delay between shots
	fireCooldown = 16
	shotRange    = 32.0
	gunScale     = 4
)

var (
	ErrUnknownDoor = errors.New("unknown door")
	ErrBusy        = errors.New("command queue full")
)

// Intent is one tick's worth of player input, independent of the front end
// that produced it.
type Intent struct {
	Forward float64
	Strafe  float64
	Turn    float64
	// Look is a raw horizontal mouse delta in pixels.
	Look   float64
	Sprint bool
	Use    bool
	Fire   bool
}

type DoorStatus struct {
	ID       int     `json:"id"`
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
}

type PlayerStatus struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// Status is the last published view of the world for readers on other
// goroutines.
type Status struct {
	Level   string       `json:"level"`
	Tick    int          `json:"tick"`
	Player  PlayerStatus `json:"player"`
	Doors   []DoorStatus `json:"doors"`
	Sprites int          `json:"sprites"`
	Kills   int          `json:"kills"`
	FOV     float64      `json:"fov"`
}

// World advances the level at a fixed 64 Hz and composes frames from the
// player's view. Step and Compose must be called from one goroutine;
// RequestDoorToggle, Status and the compositor's Snapshot are safe from any.
type World struct {
	Level    *Level
	Player   *model.Player
	Renderer *engine.Renderer
	Comp     *engine.Compositor

	reach  float64
	tick   int
	firing int
	kills  int

	gun       *engine.Texture
	gunFire   *engine.Texture
	crosshair crosshairs
	cues      *cues
	log       *logrus.Entry

	doorIDs  map[int]struct{}
	doorCmds chan int

	mu     sync.RWMutex
	status Status
}

func NewWorld(cfg *Config, lvl *Level, format engine.PixelFormat, tracer trace.Tracer, c *cues) (*World, error) {
	opts := cfg.RenderOptions()
	opts.Tracer = tracer
	r := engine.NewRenderer(lvl.Map, lvl.Textures, opts)

	p := model.NewPlayer(lvl.Start.X, lvl.Start.Y, lvl.Start.Angle)
	cfg.ApplyPlayer(p)

	guns, err := LoadTextures(cfg.Assets, []string{"gun.png", "gun_fire.png"})
	if err != nil {
		return nil, err
	}

	w := &World{
		Level:    lvl,
		Player:   p,
		Renderer: r,
		Comp:     engine.NewCompositor(r, format),
		reach:    cfg.Player.Reach,
		gun:      guns.Get(0),
		gunFire:  guns.Get(1),
		cues:     c,
		log:      logger.Component("world"),
		doorIDs:  make(map[int]struct{}),
		doorCmds: make(chan int, 16),
	}
	for _, id := range lvl.Map.DoorIDs() {
		w.doorIDs[id] = struct{}{}
	}
	w.Renderer.Camera = p.Camera()
	w.publish()
	return w, nil
}

func (w *World) Tick() int {
	return w.tick
}

// Firing reports whether the gun is showing its firing frame.
func (w *World) Firing() bool {
	return w.firing > 0
}

// Step advances the world by one tick.
func (w *World) Step(in Intent) {
	w.tick++
	m := w.Level.Map
	p := w.Player

	p.Rotate(in.Turn, tickDuration, in.Sprint)
	p.Look(in.Look)
	p.Move(in.Forward, in.Strafe, tickDuration, in.Sprint, m)

	if in.Use {
		if ref, ok := m.DoorNear(p.Pos(), p.Angle, w.reach); ok {
			w.toggleDoor(ref.ID, "player")
		}
	}

	if w.firing > 0 {
		w.firing--
	}
	w.crosshair.Update()
	if in.Fire && w.firing == 0 {
		w.fire()
	}

	w.drainDoorCommands()
	m.UpdateDoors(tickDuration)
	w.publish()
}

func (w *World) fire() {
	w.firing = fireCooldown
	w.cues.shot()

	p := w.Player
	h, ok := w.Level.Map.HitScan(p.Pos(), p.Angle, shotRange)
	if !ok {
		return
	}
	pos := w.Level.Map.Sprites().Get(h).Position
	w.Level.Map.Sprites().Remove(h)
	w.kills++
	w.crosshair.ActivateHitIndicator(hitTicks)
	w.log.WithFields(logrus.Fields{
		"sprite": h.Index(),
		"x":      pos.X,
		"y":      pos.Y,
	}).Info("sprite hit")
}

func (w *World) toggleDoor(id int, source string) {
	m := w.Level.Map
	if !m.ToggleDoor(id) {
		return
	}
	d, _ := m.Door(id)
	w.cues.door(d.State)
	w.log.WithFields(logrus.Fields{
		"door":   id,
		"state":  d.State,
		"source": source,
	}).Debug("door toggled")
}

// RequestDoorToggle queues a toggle to be applied on the next Step.
func (w *World) RequestDoorToggle(id int) error {
	if _, ok := w.doorIDs[id]; !ok {
		return ErrUnknownDoor
	}
	select {
	case w.doorCmds <- id:
		return nil
	default:
		return ErrBusy
	}
}

func (w *World) drainDoorCommands() {
	for {
		select {
		case id := <-w.doorCmds:
			w.toggleDoor(id, "remote")
		default:
			return
		}
	}
}

// AdjustFOV widens or narrows the view; out of range values are ignored.
func (w *World) AdjustFOV(delta float64) {
	w.Renderer.SetFOV(w.Renderer.Options().FOV + delta)
	w.publish()
}

func (w *World) publish() {
	m := w.Level.Map
	ids := m.DoorIDs()
	doors := make([]DoorStatus, 0, len(ids))
	for _, id := range ids {
		d, _ := m.Door(id)
		doors = append(doors, DoorStatus{ID: id, State: d.State.String(), Progress: d.Progress})
	}
	p := w.Player

	w.mu.Lock()
	w.status = Status{
		Level:   w.Level.Name,
		Tick:    w.tick,
		Player:  PlayerStatus{X: p.Position.X, Y: p.Position.Y, Angle: p.Angle},
		Doors:   doors,
		Sprites: m.Sprites().Len(),
		Kills:   w.kills,
		FOV:     w.Renderer.Options().FOV,
	}
	w.mu.Unlock()
}

func (w *World) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

// Compose renders the player's view with the gun and crosshairs on top.
func (w *World) Compose(ctx context.Context) {
	w.Renderer.Camera = w.Player.Camera()
	w.Comp.Compose(ctx, w.tick, w.drawGun, w.crosshair.draw)
}

func (w *World) drawGun(f *engine.Frame) {
	tex := w.gun
	if w.firing > 0 {
		tex = w.gunFire
	}
	if tex == nil {
		return
	}
	op := &engine.DrawOptions{}
	op.GeoM.Scale(gunScale, gunScale)
	op.GeoM.Translate(
		float64(f.Width-tex.Width*gunScale)/2,
		float64(f.Height-tex.Height*gunScale),
	)
	f.DrawTexture(tex, op)
}
