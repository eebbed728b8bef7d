package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gridcaster/engine"
	"gridcaster/model"
)

const envPrefix = "GRIDCASTER"

var ErrBadConfig = errors.New("invalid configuration")

type Config struct {
	Window   WindowConfig `mapstructure:"window"`
	Render   RenderConfig `mapstructure:"render"`
	Player   PlayerConfig `mapstructure:"player"`
	Level    string       `mapstructure:"level"`
	Assets   string       `mapstructure:"assets"`
	Terminal bool         `mapstructure:"terminal"`
	Debug    DebugConfig  `mapstructure:"debug"`
	Audio    AudioConfig  `mapstructure:"audio"`
	Log      LogConfig    `mapstructure:"log"`

	// FOVOverridden is set when the field of view came from a file, the
	// environment or a flag rather than the default.
	FOVOverridden bool `mapstructure:"-"`
}

type WindowConfig struct {
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	Title      string `mapstructure:"title"`
	Fullscreen bool   `mapstructure:"fullscreen"`
	VSync      bool   `mapstructure:"vsync"`
}

type RenderConfig struct {
	Width      int     `mapstructure:"width"`
	Height     int     `mapstructure:"height"`
	FOV        float64 `mapstructure:"fov"`
	WallHeight float64 `mapstructure:"wall_height"`
	Brightness float64 `mapstructure:"brightness"`
	Threads    int     `mapstructure:"threads"`
	SkyScale   float64 `mapstructure:"sky_scale"`
}

type PlayerConfig struct {
	MoveSpeed        float64 `mapstructure:"move_speed"`
	SprintSpeed      float64 `mapstructure:"sprint_speed"`
	RotSpeed         float64 `mapstructure:"rot_speed"`
	SprintRotSpeed   float64 `mapstructure:"sprint_rot_speed"`
	MouseSensitivity float64 `mapstructure:"mouse_sensitivity"`
	Reach            float64 `mapstructure:"reach"`
}

type DebugConfig struct {
	Addr string `mapstructure:"addr"`
}

type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "gridcaster")
	v.SetDefault("window.fullscreen", false)
	v.SetDefault("window.vsync", true)

	v.SetDefault("render.width", engine.DefaultRenderWidth)
	v.SetDefault("render.height", engine.DefaultRenderHeight)
	v.SetDefault("render.fov", engine.DefaultFOV)
	v.SetDefault("render.wall_height", 1.0)
	v.SetDefault("render.brightness", engine.DefaultBrightness)
	v.SetDefault("render.threads", runtime.NumCPU())
	v.SetDefault("render.sky_scale", engine.DefaultSkyScale)

	v.SetDefault("player.move_speed", model.DefaultMoveSpeed)
	v.SetDefault("player.sprint_speed", model.DefaultSprintSpeed)
	v.SetDefault("player.rot_speed", model.DefaultRotSpeed)
	v.SetDefault("player.sprint_rot_speed", model.DefaultSprintRotSpeed)
	v.SetDefault("player.mouse_sensitivity", model.DefaultMouseSensitivity)
	v.SetDefault("player.reach", 1.2)

	v.SetDefault("level", "")
	v.SetDefault("assets", "assets")
	v.SetDefault("terminal", false)
	v.SetDefault("debug.addr", "")
	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", 0.6)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig resolves configuration from defaults, an optional config file,
// GRIDCASTER_* environment variables and command line flags, in increasing
// priority.
func LoadConfig(args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	fs := pflag.NewFlagSet("gridcaster", pflag.ContinueOnError)
	configFile := fs.StringP("config", "c", "", "config file (default ./gridcaster.yaml)")
	fs.StringP("level", "l", "", "level file (.yaml or .png); empty runs the demo level")
	fs.String("assets", "assets", "texture directory")
	fs.BoolP("terminal", "t", false, "render to the terminal instead of a window")
	fs.Float64("fov", engine.DefaultFOV, "horizontal field of view in degrees")
	fs.Int("threads", runtime.NumCPU(), "column render workers")
	fs.Int("render-width", engine.DefaultRenderWidth, "internal frame width")
	fs.Int("render-height", engine.DefaultRenderHeight, "internal frame height")
	fs.Bool("fullscreen", false, "start fullscreen")
	fs.String("debug-addr", "", "debug HTTP listen address, e.g. localhost:6060")
	fs.Bool("audio", true, "enable door and weapon sounds")
	fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	binds := map[string]string{
		"level":             "level",
		"assets":            "assets",
		"terminal":          "terminal",
		"render.fov":        "fov",
		"render.threads":    "threads",
		"render.width":      "render-width",
		"render.height":     "render-height",
		"window.fullscreen": "fullscreen",
		"debug.addr":        "debug-addr",
		"audio.enabled":     "audio",
		"log.level":         "log-level",
	}
	for key, flag := range binds {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName("gridcaster")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if *configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	_, envFOV := os.LookupEnv(envPrefix + "_RENDER_FOV")
	cfg.FOVOverridden = fs.Changed("fov") || v.InConfig("render.fov") || envFOV
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: render size %dx%d", ErrBadConfig, c.Render.Width, c.Render.Height)
	}
	if c.Render.FOV <= 0 || c.Render.FOV >= 180 {
		return fmt.Errorf("%w: fov %v outside (0, 180)", ErrBadConfig, c.Render.FOV)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrBadConfig, c.Window.Width, c.Window.Height)
	}
	if c.Render.Threads < 1 {
		c.Render.Threads = 1
	}
	return nil
}

// RenderOptions maps the render section onto engine options.
func (c *Config) RenderOptions() engine.Options {
	return engine.Options{
		Width:      c.Render.Width,
		Height:     c.Render.Height,
		FOV:        c.Render.FOV,
		WallHeight: c.Render.WallHeight,
		Brightness: c.Render.Brightness,
		Threads:    c.Render.Threads,
		SkyScale:   c.Render.SkyScale,
	}
}

func (c *Config) ApplyPlayer(p *model.Player) {
	p.MoveSpeed = c.Player.MoveSpeed
	p.SprintSpeed = c.Player.SprintSpeed
	p.RotSpeed = c.Player.RotSpeed
	p.SprintRotSpeed = c.Player.SprintRotSpeed
	p.MouseSensitivity = c.Player.MouseSensitivity
}
