package engine

import (
	"math"
	"testing"
)

func openGrid(w, h int) [][]int {
	rows := make([][]int, h)
	for y := range rows {
		rows[y] = make([]int, w)
	}
	return rows
}

// walledGrid is an open room of w x h cells with a ring of texture-1 walls.
func walledGrid(w, h int) [][]int {
	rows := openGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				rows[y][x] = 1
			}
		}
	}
	return rows
}

func mustMap(t *testing.T, walls [][]int) *Map {
	t.Helper()
	m, err := NewMap(Layers{Walls: walls})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCastOpenMapLeavesAtBoundary(t *testing.T) {
	m := mustMap(t, openGrid(3, 3))

	ev := CastRay(m, Point{X: 1.5, Y: 1.5}, 0, 0)
	if ev.Hit() {
		t.Fatalf("expected no hit in an open map, got %v", ev.Kind)
	}
	if !near(ev.Point.X, 3) || !near(ev.Point.Y, 1.5) {
		t.Errorf("exit point = %+v, want (3, 1.5)", ev.Point)
	}
	if !near(ev.Distance, 1.5) {
		t.Errorf("distance = %v, want 1.5", ev.Distance)
	}
}

func TestCastHitsWallRing(t *testing.T) {
	m := mustMap(t, walledGrid(5, 5))
	origin := Point{X: 2.5, Y: 2.5}

	tests := []struct {
		angle float64
		side  Side
		point Point
	}{
		{0, SideX, Point{X: 4, Y: 2.5}},
		{90, SideY, Point{X: 2.5, Y: 4}},
		{180, SideX, Point{X: 1, Y: 2.5}},
		{270, SideY, Point{X: 2.5, Y: 1}},
	}
	for _, tt := range tests {
		ev := CastRay(m, origin, tt.angle, tt.angle)
		if ev.Kind != WallHit {
			t.Fatalf("angle %v: kind = %v, want wall", tt.angle, ev.Kind)
		}
		if ev.Side != tt.side {
			t.Errorf("angle %v: side = %v, want %v", tt.angle, ev.Side, tt.side)
		}
		if math.Abs(ev.Point.X-tt.point.X) > 1e-9 || math.Abs(ev.Point.Y-tt.point.Y) > 1e-9 {
			t.Errorf("angle %v: point = %+v, want %+v", tt.angle, ev.Point, tt.point)
		}
		if math.Abs(ev.Distance-1.5) > 1e-9 {
			t.Errorf("angle %v: distance = %v, want 1.5", tt.angle, ev.Distance)
		}
		if ev.Texture != 0 {
			t.Errorf("angle %v: texture = %d, want 0", tt.angle, ev.Texture)
		}
		if math.IsNaN(ev.Distance) || math.IsInf(ev.Distance, 0) {
			t.Errorf("angle %v: degenerate distance %v", tt.angle, ev.Distance)
		}
	}
}

func TestUnitStepAxisAligned(t *testing.T) {
	if !math.IsInf(unitStep(0), 1) {
		t.Fatalf("unitStep(0) = %v, want +Inf", unitStep(0))
	}
	if unitStep(-0.5) != 2 {
		t.Fatalf("unitStep(-0.5) = %v, want 2", unitStep(-0.5))
	}
}

func TestAxisHeadingsAreExact(t *testing.T) {
	tests := []struct {
		angle float64
		want  Point
	}{
		{0, Point{X: 1}},
		{90, Point{Y: 1}},
		{180, Point{X: -1}},
		{270, Point{Y: -1}},
		{-90, Point{Y: -1}},
		{450, Point{Y: 1}},
	}
	for _, tt := range tests {
		if got := Direction(tt.angle); got != tt.want {
			t.Errorf("Direction(%v) = %+v, want %+v", tt.angle, got, tt.want)
		}
	}

	// a 180 degree ray must take the infinite-step path on Y and land
	// exactly on the wall face
	m := mustMap(t, walledGrid(3, 3))
	ev := CastRay(m, Point{X: 1.5, Y: 1.5}, 180, 180)
	if ev.Kind != WallHit || ev.Point != (Point{X: 1, Y: 1.5}) || ev.Distance != 0.5 {
		t.Fatalf("cast 180 = %+v, want wall at {1 1.5} distance 0.5", ev)
	}
	if got := math.Cos(radians(100 - 40)); math.Abs(got-0.5) > 1e-15 {
		t.Fatalf("cos(60 deg) = %v", got)
	}
}

func TestCastFromGridLine(t *testing.T) {
	m := mustMap(t, walledGrid(6, 6))
	// origin on a vertical grid line, ray straight down the line
	ev := CastRay(m, Point{X: 3, Y: 2.5}, 90, 90)
	if ev.Kind != WallHit {
		t.Fatalf("kind = %v, want wall", ev.Kind)
	}
	if math.IsNaN(ev.Point.X) || math.IsNaN(ev.Distance) {
		t.Fatalf("NaN in event %+v", ev)
	}
}

func TestCastDiagonalCornerPrefersX(t *testing.T) {
	walls := openGrid(4, 4)
	walls[1][2] = 1
	walls[2][1] = 2
	m := mustMap(t, walls)

	// both neighbours are solid; from the cell center at 45 degrees the two
	// axes reach their grid lines together and the X side wins
	ev := CastRay(m, Point{X: 1.5, Y: 1.5}, 45, 45)
	if ev.Kind != WallHit {
		t.Fatalf("kind = %v, want wall", ev.Kind)
	}
	if ev.Side != SideX || ev.CellX != 2 || ev.CellY != 1 {
		t.Errorf("hit cell (%d,%d) side %v, want (2,1) on the X side", ev.CellX, ev.CellY, ev.Side)
	}
}

func TestFisheyeCorrection(t *testing.T) {
	m := mustMap(t, walledGrid(10, 10))
	origin := Point{X: 3.2, Y: 4.7}
	ray := 20.0

	raw := CastRay(m, origin, ray, ray)
	for _, heading := range []float64{0, 10, 35, 50} {
		ev := CastRay(m, origin, ray, heading)
		want := raw.Distance * math.Cos((ray-heading)*math.Pi/180)
		if math.Abs(ev.Distance-want) > 1e-9 {
			t.Errorf("heading %v: distance = %v, want %v", heading, ev.Distance, want)
		}
		if ev.Point != raw.Point {
			t.Errorf("heading %v: point moved %+v != %+v", heading, ev.Point, raw.Point)
		}
	}
}

func TestRendererCastUsesCameraHeading(t *testing.T) {
	m := mustMap(t, walledGrid(10, 10))
	r := NewRenderer(m, NewTextureSet(NewTexture(1, 1)), DefaultOptions())
	r.Camera = Camera{Position: Point{X: 3.2, Y: 4.7}, Angle: 10}

	got := r.Cast(r.Camera.Position, 20)
	want := CastRay(m, r.Camera.Position, 20, 10)
	if got != want {
		t.Fatalf("Cast = %+v, want %+v", got, want)
	}
}

func TestNoHitIffPathIsClear(t *testing.T) {
	walls := openGrid(8, 8)
	walls[2][5] = 3
	m := mustMap(t, walls)
	origin := Point{X: 1.5, Y: 2.5}

	if ev := CastRay(m, origin, 0, 0); ev.Kind != WallHit || ev.Texture != 2 || ev.CellX != 5 {
		t.Fatalf("ray toward wall: %+v", ev)
	}
	if ev := CastRay(m, origin, 180, 180); ev.Hit() {
		t.Fatalf("ray away from wall hit %+v", ev)
	}
	if ev := CastRay(m, origin, 90, 90); ev.Hit() {
		t.Fatalf("ray along clear column hit %+v", ev)
	}
}

func TestClosedDoorMatchesWall(t *testing.T) {
	doorMap := mustMap(t, openGrid(5, 5))
	d := NewDoor(1, 7, true)
	if err := doorMap.AddDoor(2, 2, d); err != nil {
		t.Fatal(err)
	}
	wallGrid := openGrid(5, 5)
	wallGrid[2][2] = 8
	wallMap := mustMap(t, wallGrid)

	origin := Point{X: 0.5, Y: 2.3}
	for _, angle := range []float64{0, 10, -15, 30} {
		dev := CastRay(doorMap, origin, angle, 0)
		wev := CastRay(wallMap, origin, angle, 0)
		if !wev.Hit() {
			continue
		}
		if dev.Kind != DoorHit {
			t.Fatalf("angle %v: kind = %v, want door", angle, dev.Kind)
		}
		if dev.Texture != 7 || dev.DoorProgress != 1 {
			t.Errorf("angle %v: texture %d progress %v", angle, dev.Texture, dev.DoorProgress)
		}
		if dev.Point != wev.Point || dev.Distance != wev.Distance || dev.Side != wev.Side {
			t.Errorf("angle %v: door %+v differs from wall %+v", angle, dev, wev)
		}
	}
}

func TestOpenDoorIsTransparent(t *testing.T) {
	m := mustMap(t, walledGrid(6, 5))
	d := NewDoor(1, 0, false)
	d.Progress = 0
	d.State = DoorOpen
	if err := m.AddDoor(3, 2, d); err != nil {
		t.Fatal(err)
	}
	ev := CastRay(m, Point{X: 1.5, Y: 2.5}, 0, 0)
	if ev.Kind != WallHit || ev.CellX != 5 {
		t.Fatalf("ray should pass the open door and hit the far wall, got %+v", ev)
	}
}

func TestDoorCoverageMonotonic(t *testing.T) {
	samples := 200
	prev := -1
	for _, p := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		d := NewDoor(1, 0, true)
		d.Progress = p
		hits := 0
		for i := 0; i < samples; i++ {
			if d.Blocks((float64(i) + 0.5) / float64(samples)) {
				hits++
			}
		}
		if hits < prev || (p > 0 && hits == prev) {
			t.Fatalf("progress %v covers %d samples, previous covered %d", p, hits, prev)
		}
		if p == 0 && hits != 0 {
			t.Fatalf("open door blocks %d samples", hits)
		}
		if p == 1 && hits != samples {
			t.Fatalf("closed door blocks %d of %d samples", hits, samples)
		}
		prev = hits
	}
}

func TestHitScanStopsAtWalls(t *testing.T) {
	m := mustMap(t, walledGrid(10, 5))
	closest := m.Sprites().Insert(Sprite{Position: Point{X: 4.5, Y: 2.5}, Radius: 0.3})
	m.Sprites().Insert(Sprite{Position: Point{X: 7.5, Y: 2.5}, Radius: 0.3})

	h, ok := m.HitScan(Point{X: 1.5, Y: 2.5}, 0, 100)
	if !ok || h != closest {
		t.Fatalf("HitScan = %v %v, want nearest sprite", h, ok)
	}
	if _, ok := m.HitScan(Point{X: 1.5, Y: 2.5}, 180, 100); ok {
		t.Fatalf("HitScan behind the shooter should miss")
	}

	m.SetWall(3, 2, 1)
	if _, ok := m.HitScan(Point{X: 1.5, Y: 2.5}, 0, 100); ok {
		t.Fatalf("HitScan through a wall should miss")
	}
}
