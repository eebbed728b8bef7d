package engine

import (
	"context"
	"image"
	"sync"
	"time"
)

// Stats describes the compositor's recent work.
type Stats struct {
	Frames    uint64
	LastFrame time.Duration
	Width     int
	Height    int
}

// Compositor owns the off-screen frame. Rendering holds an exclusive lease
// on it from the first column until the last overlay; presenters and
// snapshots take the same lease.
type Compositor struct {
	mu       sync.Mutex
	frame    *Frame
	renderer *Renderer
	stats    Stats
}

func NewCompositor(r *Renderer, format PixelFormat) *Compositor {
	opts := r.Options()
	return &Compositor{
		frame:    NewFrame(opts.Width, opts.Height, format),
		renderer: r,
		stats:    Stats{Width: opts.Width, Height: opts.Height},
	}
}

// Acquire takes the frame lease.
func (c *Compositor) Acquire() *Frame {
	c.mu.Lock()
	return c.frame
}

// Release returns the frame lease.
func (c *Compositor) Release() {
	c.mu.Unlock()
}

// Compose renders one frame and applies overlays before releasing the lease.
func (c *Compositor) Compose(ctx context.Context, tick int, overlays ...func(*Frame)) {
	start := time.Now()
	f := c.Acquire()
	defer c.Release()

	c.renderer.Render(ctx, f, tick)
	for _, o := range overlays {
		o(f)
	}
	c.stats.Frames++
	c.stats.LastFrame = time.Since(start)
}

// View runs fn with the finished frame under the lease.
func (c *Compositor) View(fn func(*Frame)) {
	f := c.Acquire()
	defer c.Release()
	fn(f)
}

// Snapshot copies the current frame.
func (c *Compositor) Snapshot() *Frame {
	f := c.Acquire()
	defer c.Release()
	return f.Clone()
}

func (c *Compositor) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Letterbox fits a frame into a window preserving aspect ratio. The result
// is centered with bars on the sides or on the top and bottom.
func Letterbox(windowW, windowH, frameW, frameH int) image.Rectangle {
	if windowW <= 0 || windowH <= 0 || frameW <= 0 || frameH <= 0 {
		return image.Rectangle{}
	}
	frameAspect := float64(frameW) / float64(frameH)
	windowAspect := float64(windowW) / float64(windowH)

	if windowAspect > frameAspect {
		w := int(float64(windowH) * frameAspect)
		x := (windowW - w) / 2
		return image.Rect(x, 0, x+w, windowH)
	}
	h := int(float64(windowW) / frameAspect)
	y := (windowH - h) / 2
	return image.Rect(0, y, windowW, y+h)
}
