package main

import (
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/gesture-tree/internal/audio"
	"github.com/iburimskiy/gesture-tree/internal/config"
	"github.com/iburimskiy/gesture-tree/internal/game"
	"github.com/iburimskiy/gesture-tree/internal/gesture"
)

func main() {
	configPath := flag.String("config", "gesture-tree.yaml", "path to the YAML config file")
	feedAddr := flag.String("feed", "", "listen address of the landmark feed")
	replayPath := flag.String("replay", "", "replay a JSON-lines landmark recording instead of the live feed")
	track := flag.String("track", "", "audio track to play on start")
	seed := flag.Int64("seed", 0, "random seed (0 picks one)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		slog.Error("load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "feed":
			if *feedAddr != "" {
				cfg.Feed = *feedAddr
			}
		case "replay":
			cfg.Replay = *replayPath
		case "track":
			cfg.Track = *track
		case "seed":
			cfg.Seed = *seed
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	cfg.Photos = append(cfg.Photos, flag.Args()...)

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		slog.Warn("falling back to info logging", "error", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	g := game.New(game.Options{
		Config: cfg,
		Output: audio.Speaker(),
		Source: gestureSource(cfg, logger),
		Logger: logger,
	})
	defer g.Close()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Gesture Tree - open hand to explode, pinch to reveal a photo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TicksPerSec)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("run", "error", err)
		g.Close()
		os.Exit(1)
	}
}

// gestureSource picks the replay file when one is configured and the live
// landmark feed otherwise.
func gestureSource(cfg *config.File, logger *slog.Logger) gesture.Source {
	if cfg.Replay != "" {
		r, err := gesture.LoadReplay(cfg.Replay, 0)
		if err == nil {
			logger.Info("replaying landmarks", "path", cfg.Replay, "frames", r.Len())
			return r
		}
		logger.Warn("replay unavailable, using live feed", "path", cfg.Replay, "error", err)
	}
	logger.Info("landmark feed", "addr", cfg.Feed)
	return gesture.NewFeed(cfg.Feed, logger.With("component", "feed"))
}
