package engine

import (
	"context"
	"sync"
	"testing"
)

func TestComposeAppliesOverlaysAfterScene(t *testing.T) {
	m := mustMap(t, walledGrid(8, 8))
	r := testRenderer(m, 2)
	r.Camera = Camera{Position: Point{X: 4.5, Y: 4.5}}
	c := NewCompositor(r, formatARGB)

	c.Compose(context.Background(), 0, func(f *Frame) {
		f.Set(0, 0, magenta)
	})

	snap := c.Snapshot()
	if snap.Format != formatARGB {
		t.Fatalf("snapshot format %+v", snap.Format)
	}
	if got := snap.At(0, 0); got != magenta {
		t.Fatalf("overlay pixel = %v, want %v", got, magenta)
	}
	st := c.Stats()
	if st.Frames != 1 || st.Width != 64 || st.Height != 64 {
		t.Fatalf("stats = %+v", st)
	}

	// the snapshot is a copy
	snap.Set(1, 1, red)
	c.View(func(f *Frame) {
		if f.At(1, 1) == red {
			t.Fatalf("snapshot shares pixels with the live frame")
		}
	})
}

func TestComposeIsExclusive(t *testing.T) {
	m := mustMap(t, walledGrid(8, 8))
	r := testRenderer(m, 4)
	r.Camera = Camera{Position: Point{X: 4.5, Y: 4.5}}
	c := NewCompositor(r, FormatRGBA)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(tick int) {
			defer wg.Done()
			c.Compose(context.Background(), tick)
		}(i)
		go func() {
			defer wg.Done()
			f := c.Snapshot()
			if len(f.Pix) != 64*64 {
				t.Errorf("snapshot has %d pixels", len(f.Pix))
			}
		}()
	}
	wg.Wait()
	if got := c.Stats().Frames; got != 4 {
		t.Fatalf("frames = %d, want 4", got)
	}
}
