// main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/trace"

	"gridcaster/audio"
	"gridcaster/engine"
	"gridcaster/logger"
	"gridcaster/telemetry"
)

func main() {
	// a missing .env is normal; variables may be set directly
	envErr := godotenv.Load()

	cfg, err := LoadConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Log.WithError(err).Fatal("configuration")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.Component("main")
	if envErr != nil {
		log.WithError(envErr).Debug(".env not loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer := telemetry.NoopTracer()
	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.WithError(err).Warn("telemetry setup failed, running without traces")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.WithError(err).Warn("telemetry shutdown")
				}
			}()
			tracer = telemetry.Tracer("render")
		}
	}

	if err := run(ctx, cfg, tracer); err != nil {
		log.WithError(err).Fatal("exiting")
	}
}

func run(ctx context.Context, cfg *Config, tracer trace.Tracer) error {
	log := logger.Component("main")

	lvl, err := LoadLevel(cfg.Level, cfg.Assets)
	if err != nil {
		return err
	}
	if !cfg.FOVOverridden && lvl.FOV > 0 {
		cfg.Render.FOV = lvl.FOV
	}

	sounds := audio.NewSounds(cfg.Audio.Volume)
	if cfg.Audio.Enabled {
		if err := sounds.Initialize(); err != nil {
			log.WithError(err).Warn("audio unavailable, continuing silently")
		}
	}
	defer sounds.Close()
	c := newCues(sounds)

	// ebiten uploads bytes in R, G, B, A order; the terminal reads colours
	// through the frame's own format, so either works there
	w, err := NewWorld(cfg, lvl, engine.FormatRGBA, tracer, c)
	if err != nil {
		return err
	}

	if cfg.Debug.Addr != "" {
		go serveDebug(ctx, cfg.Debug.Addr, w)
	}

	if cfg.Terminal {
		return runTerminal(ctx, w)
	}
	g, err := NewGame(ctx, cfg, w, c)
	if err != nil {
		return err
	}
	return g.Run()
}
