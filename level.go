package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	"gridcaster/engine"
	"gridcaster/logger"
)

var ErrBadLevel = errors.New("invalid level")

// levelFile is the on-disk level description.
type levelFile struct {
	Name      string                `yaml:"name"`
	Textures  []string              `yaml:"textures"`
	Sky       *int                  `yaml:"sky"`
	FOV       float64               `yaml:"fov"`
	Player    startSpec             `yaml:"player"`
	Walls     [][]int               `yaml:"walls"`
	WallImage string                `yaml:"wall_image"`
	Floor     [][]int               `yaml:"floor"`
	Ceiling   [][]int               `yaml:"ceiling"`
	Light     [][]float64           `yaml:"light"`
	Doors     []doorSpec            `yaml:"doors"`
	Templates map[string]spriteSpec `yaml:"templates"`
	Sprites   []spriteSpec          `yaml:"sprites"`
}

type startSpec struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Angle float64 `yaml:"angle"`
}

type doorSpec struct {
	ID         int     `yaml:"id"`
	X          int     `yaml:"x"`
	Y          int     `yaml:"y"`
	Texture    int     `yaml:"texture"`
	Horizontal bool    `yaml:"horizontal"`
	Speed      float64 `yaml:"speed"`
	Open       bool    `yaml:"open"`
}

type reelSpec struct {
	Duration int `yaml:"duration"`
	Texture  int `yaml:"texture"`
}

// spriteSpec is either a template or a placed sprite. A placed sprite with
// Template set starts from a copy of that template.
type spriteSpec struct {
	Template   string       `yaml:"template"`
	X          float64      `yaml:"x"`
	Y          float64      `yaml:"y"`
	Angle      float64      `yaml:"angle"`
	Texture    int          `yaml:"texture"`
	Radius     float64      `yaml:"radius"`
	Animated   bool         `yaml:"animated"`
	MultiAngle bool         `yaml:"multi_angle"`
	Reel       []reelSpec   `yaml:"reel"`
	Facings    []int        `yaml:"directions"`
	FacingReel [][]reelSpec `yaml:"directional_reels"`
}

// Level is a loaded, validated world ready to render.
type Level struct {
	Name     string
	Map      *engine.Map
	Textures *engine.TextureSet
	Start    startSpec
	FOV      float64
}

// LoadLevel reads a level from path. An empty path selects the built-in
// demo; a .png path imports the wall layer from a colour-keyed image and
// uses the demo textures.
func LoadLevel(path, assets string) (*Level, error) {
	switch {
	case path == "":
		return buildLevel(demoLevel(), assets, "")
	case strings.EqualFold(filepath.Ext(path), ".png"):
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open level: %w", err)
		}
		defer f.Close()
		lf := demoLevel()
		lf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		lf.Walls, lf.Light, lf.Doors, lf.Sprites = nil, nil, nil, nil
		if err := lf.importWallImage(f); err != nil {
			return nil, fmt.Errorf("level %s: %w", path, err)
		}
		lf.Floor = filled(len(lf.Walls), len(lf.Walls[0]), texFloor)
		lf.Ceiling = filled(len(lf.Walls), len(lf.Walls[0]), texFloor)
		return buildLevel(lf, assets, filepath.Dir(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	lf, err := parseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return buildLevel(lf, assets, filepath.Dir(path))
}

func parseLevel(data []byte) (*levelFile, error) {
	var lf levelFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadLevel, err)
	}
	return &lf, nil
}

func buildLevel(lf *levelFile, assets, dir string) (*Level, error) {
	if lf.WallImage != "" {
		p := lf.WallImage
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open wall image: %w", err)
		}
		err = lf.importWallImage(f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	if len(lf.Textures) == 0 {
		return nil, fmt.Errorf("%w: no textures", ErrBadLevel)
	}

	m, err := engine.NewMap(engine.Layers{
		Walls:   lf.Walls,
		Floor:   lf.Floor,
		Ceiling: lf.Ceiling,
		Light:   lf.Light,
	})
	if err != nil {
		return nil, err
	}
	if lf.Sky != nil {
		m.SetSkyTexture(*lf.Sky)
	}

	for _, d := range lf.Doors {
		door := engine.NewDoor(d.ID, d.Texture, d.Horizontal)
		if d.Speed > 0 {
			door.Speed = d.Speed
		}
		if d.Open {
			door.State, door.Progress = engine.DoorOpen, 0
		}
		if err := m.AddDoor(d.X, d.Y, door); err != nil {
			return nil, err
		}
	}

	templates := make(map[string]engine.Sprite, len(lf.Templates))
	for name, spec := range lf.Templates {
		s, err := spec.compile()
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		templates[name] = s
	}
	for i, spec := range lf.Sprites {
		s, err := spec.instance(templates)
		if err != nil {
			return nil, fmt.Errorf("sprite %d: %w", i, err)
		}
		if !m.InBounds(int(s.Position.X), int(s.Position.Y)) {
			return nil, fmt.Errorf("%w: sprite %d at (%v, %v) is outside the map", ErrBadLevel, i, s.Position.X, s.Position.Y)
		}
		m.Sprites().Insert(s)
	}

	textures, err := LoadTextures(assets, lf.Textures)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(textures); err != nil {
		return nil, err
	}

	start := lf.Player
	if start.X == 0 && start.Y == 0 {
		start.X, start.Y = 1.5, 1.5
	}
	if m.Blocked(int(start.X), int(start.Y)) {
		return nil, fmt.Errorf("%w: player starts inside a wall at (%v, %v)", ErrBadLevel, start.X, start.Y)
	}

	logger.Log.WithFields(map[string]any{
		"level":    lf.Name,
		"width":    m.Width(),
		"height":   m.Height(),
		"doors":    len(m.DoorIDs()),
		"sprites":  m.Sprites().Len(),
		"textures": textures.Len(),
	}).Info("level loaded")

	return &Level{
		Name:     lf.Name,
		Map:      m,
		Textures: textures,
		Start:    start,
		FOV:      lf.FOV,
	}, nil
}

func (s spriteSpec) compile() (engine.Sprite, error) {
	var out engine.Sprite
	if err := copier.Copy(&out, &s); err != nil {
		return out, err
	}
	if s.MultiAngle && !s.Animated && len(s.Facings) != engine.Octants {
		return out, fmt.Errorf("%w: directional sprite needs %d directions, got %d", ErrBadLevel, engine.Octants, len(s.Facings))
	}
	copy(out.Directions[:], s.Facings)

	if s.MultiAngle && s.Animated {
		if len(s.FacingReel) != engine.Octants {
			return out, fmt.Errorf("%w: directional reels need %d entries, got %d", ErrBadLevel, engine.Octants, len(s.FacingReel))
		}
		for i, reel := range s.FacingReel {
			if err := copier.Copy(&out.DirectionalReels[i], &reel); err != nil {
				return out, err
			}
		}
	}
	if s.Animated && !s.MultiAngle && len(s.Reel) == 0 {
		return out, fmt.Errorf("%w: animated sprite without a reel", ErrBadLevel)
	}
	for _, f := range s.Reel {
		if f.Duration < 0 {
			return out, fmt.Errorf("%w: negative frame duration", ErrBadLevel)
		}
	}
	return out, nil
}

func (s spriteSpec) instance(templates map[string]engine.Sprite) (engine.Sprite, error) {
	if s.Template == "" {
		out, err := s.compile()
		out.Position = engine.Point{X: s.X, Y: s.Y}
		return out, err
	}
	tpl, ok := templates[s.Template]
	if !ok {
		return engine.Sprite{}, fmt.Errorf("%w: unknown template %q", ErrBadLevel, s.Template)
	}
	var out engine.Sprite
	if err := copier.CopyWithOption(&out, &tpl, copier.Option{DeepCopy: true}); err != nil {
		return out, err
	}
	out.Position = engine.Point{X: s.X, Y: s.Y}
	out.Angle = s.Angle
	return out, nil
}

func filled(h, w, v int) [][]int {
	rows := make([][]int, h)
	for y := range rows {
		rows[y] = make([]int, w)
		for x := range rows[y] {
			rows[y][x] = v
		}
	}
	return rows
}

// colour keys for image-imported wall layers
var (
	keyEmpty     = color.RGBA{255, 255, 255, 255}
	keyWall      = color.RGBA{0, 0, 0, 255}
	keyGuard     = color.RGBA{255, 0, 0, 255}
	keyDoor      = color.RGBA{0, 255, 0, 255}
	keyPlayer    = color.RGBA{0, 0, 255, 255}
	keyConstruct = color.RGBA{255, 255, 0, 255}
)

const (
	importWallTile      = texWood + 1
	importConstructTile = texBricks + 1
	importGuardTemplate = "guard"
)

// importWallImage replaces the wall layer with one decoded from an image,
// one pixel per cell. Player, guard and door pixels become open cells with
// the matching entity placed on them.
func (lf *levelFile) importWallImage(r io.Reader) error {
	img, _, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("%w: decode wall image: %v", ErrBadLevel, err)
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: empty wall image", ErrBadLevel)
	}

	walls := make([][]int, height)
	for i := range walls {
		walls[i] = make([]int, width)
	}
	var doors []doorSpec

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			switch c {
			case keyWall:
				walls[y][x] = importWallTile
			case keyConstruct:
				walls[y][x] = importConstructTile
			case keyPlayer:
				lf.Player = startSpec{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			case keyGuard:
				lf.Sprites = append(lf.Sprites, spriteSpec{Template: importGuardTemplate, X: float64(x) + 0.5, Y: float64(y) + 0.5})
			case keyDoor:
				doors = append(doors, doorSpec{ID: len(doors) + 1, X: x, Y: y, Texture: texDoor})
			case keyEmpty:
			default:
				logger.Log.WithFields(map[string]any{"x": x, "y": y, "color": c}).Debug("unknown wall image colour, treating as empty")
			}
		}
	}

	// a door between walls on its left and right spans the x axis
	for i, d := range doors {
		left := d.X > 0 && walls[d.Y][d.X-1] != 0
		right := d.X < width-1 && walls[d.Y][d.X+1] != 0
		doors[i].Horizontal = left && right
	}

	lf.Walls = walls
	lf.Doors = append(lf.Doors, doors...)
	if _, ok := lf.Templates[importGuardTemplate]; !ok {
		for i := range lf.Sprites {
			if lf.Sprites[i].Template == importGuardTemplate {
				lf.Sprites[i].Template = ""
				lf.Sprites[i].Texture = guardFront
			}
		}
	}
	return nil
}

// demo texture indices
const (
	texWood = iota
	texFloor
	texWoodDoor
	texSky
	texBricks
	guardFront // 8 directional frames follow
	_
	_
	_
	_
	_
	_
	_
	guardShoot // 3 firing frames follow
	_
	_
	texDoor
)

func guardDirections() []int {
	return []int{guardFront, guardFront + 7, guardFront + 6, guardFront + 5, guardFront + 4, guardFront + 3, guardFront + 2, guardFront + 1}
}

// demoLevel is the 8x8 sample map: a room with a side corridor closed by a
// door, a dim corner, an open sky over the courtyard and three guards.
func demoLevel() *levelFile {
	sky := texSky
	shooting := []reelSpec{
		{Duration: 16, Texture: guardShoot},
		{Duration: 16, Texture: guardShoot + 1},
		{Duration: 16, Texture: guardShoot + 2},
		{Duration: 64, Texture: guardFront},
	}
	facingReels := make([][]reelSpec, engine.Octants)
	for i, tex := range guardDirections() {
		facingReels[i] = []reelSpec{{Duration: 1, Texture: tex}}
	}
	facingReels[0] = shooting

	textures := []string{"wood.png", "floor.png", "wooddoor.png", "sky.png", "bricks.png"}
	for i := 1; i <= 8; i++ {
		textures = append(textures, fmt.Sprintf("guard_%d.png", i))
	}
	for i := 1; i <= 3; i++ {
		textures = append(textures, fmt.Sprintf("guard_shoot_%d.png", i))
	}
	textures = append(textures, "door.png")

	return &levelFile{
		Name:     "demo",
		Textures: textures,
		Sky:      &sky,
		FOV:      60,
		Player:   startSpec{X: 1.5, Y: 1.5, Angle: 0},
		Walls: [][]int{
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 0, 0, 0, 0, 1, 0, 1},
			{1, 0, 0, 0, 0, 1, 0, 1},
			{1, 0, 0, 0, 0, 1, 0, 1},
			{1, 0, 0, 0, 0, 0, 0, 1},
			{1, 0, 0, 0, 0, 0, 0, 1},
			{1, 0, 0, 0, 0, 0, 0, 1},
			{1, 1, 1, 1, 3, 1, 1, 1},
		},
		Floor: [][]int{
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 1, 4, 1, 1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
		},
		Ceiling: [][]int{
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 1, -1, -1, -1, 1},
			{1, 1, 1, 1, -1, -1, -1, 1},
			{1, 1, 1, 1, -1, -1, -1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
		},
		Light: [][]float64{
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 1, 1, 0.5, 1, 1, 1, 1},
			{1, 1, 1, 1, 1, 1, 1, 1},
			{1, 0.7, 0.7, 0.7, 1, 1, 1, 1},
			{1, 0.5, 0.7, 1, 1, 1, 1, 1},
			{1, 0.5, 0.7, 1, 1, 1, 1, 1},
		},
		Doors: []doorSpec{
			{ID: 1, X: 6, Y: 3, Texture: texDoor, Horizontal: true},
		},
		Templates: map[string]spriteSpec{
			"guard": {
				Texture:    guardFront,
				Radius:     0.3,
				MultiAngle: true,
				Facings:    guardDirections(),
			},
			"sentry": {
				Texture:    guardFront,
				Radius:     0.3,
				Animated:   true,
				MultiAngle: true,
				FacingReel: facingReels,
			},
			"shooter": {
				Texture:  guardShoot,
				Radius:   0.3,
				Animated: true,
				Reel:     shooting,
			},
		},
		Sprites: []spriteSpec{
			{Template: "guard", X: 4.5, Y: 4.5, Angle: 0},
			{Template: "guard", X: 3.5, Y: 3.5, Angle: 90},
			{Template: "shooter", X: 2.5, Y: 2.5},
			{Template: "sentry", X: 6.5, Y: 1.5, Angle: 90},
		},
	}
}
