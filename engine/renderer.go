package engine

import (
	"context"
	"image/color"
	"math"
	"runtime"

	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	DefaultRenderWidth  = 320
	DefaultRenderHeight = 180
	DefaultFOV          = 60
	DefaultBrightness   = 10
	DefaultSkyScale     = 2
)

// Options configure a Renderer.
type Options struct {
	Width      int
	Height     int
	FOV        float64
	WallHeight float64
	Brightness float64
	Threads    int
	SkyScale   float64
	Tracer     trace.Tracer
}

func DefaultOptions() Options {
	return Options{
		Width:      DefaultRenderWidth,
		Height:     DefaultRenderHeight,
		FOV:        DefaultFOV,
		WallHeight: 1,
		Brightness: DefaultBrightness,
		Threads:    runtime.NumCPU(),
		SkyScale:   DefaultSkyScale,
	}
}

// Camera is the viewpoint. Angle is in degrees and kept in [0, 360) by its
// owner.
type Camera struct {
	Position Point
	Angle    float64
}

// Renderer draws a map from a camera into a Frame.
type Renderer struct {
	Map      *Map
	Textures *TextureSet
	Camera   Camera

	opts   Options
	tracer trace.Tracer
	zbuf   []float64
	order  []spriteEntry
}

func NewRenderer(m *Map, textures *TextureSet, opts Options) *Renderer {
	def := DefaultOptions()
	if opts.FOV <= 0 || opts.FOV >= 180 {
		opts.FOV = def.FOV
	}
	if opts.WallHeight <= 0 {
		opts.WallHeight = def.WallHeight
	}
	if opts.Brightness <= 0 {
		opts.Brightness = def.Brightness
	}
	if opts.Threads <= 0 {
		opts.Threads = 1
	}
	if opts.SkyScale <= 0 {
		opts.SkyScale = def.SkyScale
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("engine")
	}
	return &Renderer{
		Map:      m,
		Textures: textures,
		opts:     opts,
		tracer:   tracer,
	}
}

func (r *Renderer) Options() Options {
	return r.opts
}

func (r *Renderer) SetFOV(fov float64) {
	if fov > 0 && fov < 180 {
		r.opts.FOV = fov
	}
}

// Cast fires a single ray with perpendicular distance measured against the
// current camera heading.
func (r *Renderer) Cast(origin Point, angle float64) CollisionEvent {
	return CastRay(r.Map, origin, angle, r.Camera.Angle)
}

// focal is the distance from the eye to a flat projection plane spanning
// the frame width, so the edge columns sit exactly at the configured FOV.
func (r *Renderer) focal(width int) float64 {
	return float64(width) / 2 / math.Tan(radians(r.opts.FOV/2))
}

func (r *Renderer) columnAngle(heading float64, i, width int) float64 {
	offset := float64(i) - float64(width)/2
	return heading + degrees(math.Atan(offset/r.focal(width)))
}

// Render draws walls, floors and ceilings, then sprites.
func (r *Renderer) Render(ctx context.Context, f *Frame, tick int) {
	ctx, span := r.tracer.Start(ctx, "render.frame", trace.WithAttributes(
		attribute.Int("width", f.Width),
		attribute.Int("height", f.Height),
	))
	defer span.End()

	r.RenderWalls(ctx, f)
	r.ProjectSprites(ctx, f, tick)
}

// columnSpan is one worker's share of the frame.
type columnSpan struct {
	start, end int
	zbuf       []float64
}

func partition(width, workers int, zbuf []float64) []columnSpan {
	if workers > width {
		workers = width
	}
	if workers < 1 {
		workers = 1
	}
	spans := make([]columnSpan, 0, workers)
	for w := 0; w < workers; w++ {
		start := width * w / workers
		end := width * (w + 1) / workers
		spans = append(spans, columnSpan{start: start, end: end, zbuf: zbuf[start:end]})
	}
	return spans
}

// RenderWalls runs the column pass over all columns and fills the Z-buffer.
// It returns only after every worker has finished.
func (r *Renderer) RenderWalls(ctx context.Context, f *Frame) {
	_, span := r.tracer.Start(ctx, "render.walls", trace.WithAttributes(attribute.Int("threads", r.opts.Threads)))
	defer span.End()

	if len(r.zbuf) != f.Width {
		r.zbuf = make([]float64, f.Width)
	}
	f.Clear()

	cam := r.Camera
	spans := partition(f.Width, r.opts.Threads, r.zbuf)
	if len(spans) == 1 {
		r.renderSpan(f, cam, spans[0])
		return
	}

	var wg conc.WaitGroup
	for _, s := range spans {
		s := s
		wg.Go(func() {
			r.renderSpan(f, cam, s)
		})
	}
	wg.Wait()
}

func (r *Renderer) renderSpan(f *Frame, cam Camera, s columnSpan) {
	for i := s.start; i < s.end; i++ {
		s.zbuf[i-s.start] = r.renderColumn(f, cam, i)
	}
}

// shade darkens a texel by the light divisor and packs it.
func shade(format PixelFormat, c color.RGBA, div float64) uint32 {
	return format.Pack(uint8(float64(c.R)/div), uint8(float64(c.G)/div), uint8(float64(c.B)/div), 255)
}

// lightDivisor maps a light value in [0,1] to a divisor of at least 1.
func (r *Renderer) lightDivisor(light float64) float64 {
	div := r.opts.Brightness - light*r.opts.Brightness
	if div < 1 {
		div = 1
	}
	return div
}
