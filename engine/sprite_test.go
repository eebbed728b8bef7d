package engine

import "testing"

func TestStaticSpriteTexture(t *testing.T) {
	s := Sprite{Texture: 5}
	for tick := 0; tick < 10; tick++ {
		if got := s.TextureAt(tick, Point{}); got != 5 {
			t.Fatalf("tick %d: texture %d, want 5", tick, got)
		}
	}
}

func TestAnimatedReelAdvancesAndWraps(t *testing.T) {
	s := Sprite{
		Animated: true,
		Reel:     []ReelFrame{{Duration: 2, Texture: 10}, {Duration: 3, Texture: 11}},
	}

	want := map[int]int{0: 10, 1: 10, 2: 11, 3: 11, 4: 11, 5: 10, 6: 10, 7: 11}
	for tick := 0; tick <= 7; tick++ {
		if got := s.TextureAt(tick, Point{}); got != want[tick] {
			t.Fatalf("tick %d: texture %d, want %d", tick, got, want[tick])
		}
	}
}

func TestAnimationIdempotentWithinTick(t *testing.T) {
	for _, d := range []int{0, 1, 4} {
		s := Sprite{
			Animated: true,
			Reel:     []ReelFrame{{Duration: d, Texture: 1}, {Duration: d, Texture: 2}, {Duration: d, Texture: 3}},
		}
		s.TextureAt(10, Point{})
		cursor := s.Cursor()
		for i := 0; i < 5; i++ {
			s.TextureAt(10, Point{})
		}
		if s.Cursor() != cursor {
			t.Fatalf("duration %d: cursor moved from %d to %d within one tick", d, cursor, s.Cursor())
		}
	}
}

func TestOctantBuckets(t *testing.T) {
	s := Sprite{Position: Point{X: 0, Y: 0}}
	tests := []struct {
		viewer Point
		want   int
	}{
		// viewer west of the sprite looks east: atan2 of (0,0)-(-1,0) is 0
		{Point{X: -1, Y: 0}, 0},
		{Point{X: -0.5, Y: -1}, 1},
		{Point{X: 0.3, Y: -1}, 2},
		{Point{X: 1, Y: -0.0001}, 3},
		{Point{X: 1, Y: 0.0001}, 4},
		{Point{X: -0.3, Y: 1}, 6},
		{Point{X: -1, Y: 0.5}, 7},
	}
	for _, tt := range tests {
		if got := s.Octant(tt.viewer); got != tt.want {
			t.Errorf("viewer %+v: octant %d, want %d", tt.viewer, got, tt.want)
		}
	}

	s.Angle = 90
	if got := s.Octant(Point{X: -1, Y: 0}); got != 2 {
		t.Errorf("facing 90: octant %d, want 2", got)
	}
}

func TestDirectionalSprite(t *testing.T) {
	s := Sprite{MultiAngle: true}
	for i := range s.Directions {
		s.Directions[i] = 20 + i
	}
	if got := s.TextureAt(0, Point{X: -1, Y: 0}); got != 20 {
		t.Fatalf("front texture %d, want 20", got)
	}
	if got := s.TextureAt(0, Point{X: -0.3, Y: 1}); got != 26 {
		t.Fatalf("side texture %d, want 26", got)
	}
}

func TestDirectionalReelSelection(t *testing.T) {
	s := Sprite{Animated: true, MultiAngle: true}
	for i := range s.DirectionalReels {
		s.DirectionalReels[i] = []ReelFrame{{Duration: 1, Texture: i * 10}, {Duration: 1, Texture: i*10 + 1}}
	}
	s.DirectionalReels[2] = []ReelFrame{{Duration: 1, Texture: 99}}

	front := Point{X: -1, Y: 0}
	if got := s.TextureAt(0, front); got != 0 {
		t.Fatalf("tick 0 front: %d, want 0", got)
	}
	if got := s.TextureAt(1, front); got != 1 {
		t.Fatalf("tick 1 front: %d, want 1", got)
	}
	// the cursor sits past the end of the shorter reel and must wrap
	if got := s.TextureAt(1, Point{X: 0.3, Y: -1}); got != 99 {
		t.Fatalf("octant 2: %d, want 99", got)
	}
}
