package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gogpu/gg"
	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/pixel-backdrop/internal/config"
	"github.com/iburimskiy/pixel-backdrop/internal/game"
	"github.com/iburimskiy/pixel-backdrop/internal/pixelgrid"
	"github.com/iburimskiy/pixel-backdrop/internal/snapshot"
	"github.com/iburimskiy/pixel-backdrop/internal/term"
)

var (
	configFile string
	pickConfig bool
	seed       int64
	logLevel   string

	// window
	width   int
	height  int
	chime   bool
	dialogs bool

	// snapshot
	outFile string
	frames  int
	dpr     float64
	touches bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pixel-backdrop",
		Short:         "pointer-reactive pastel pixel grid",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: runWindow,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVar(&pickConfig, "pick-config", false, "choose the config file in a dialog")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed for colours and drift (default: config seed, else time based)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "open the backdrop in a window (default)",
		RunE:  runWindow,
	}
	for _, c := range []*cobra.Command{rootCmd, windowCmd} {
		c.Flags().IntVar(&width, "width", 0, "window width (0 = config)")
		c.Flags().IntVar(&height, "height", 0, "window height (0 = config)")
		c.Flags().BoolVar(&chime, "chime", false, "ping softly when cells light up")
		c.Flags().BoolVar(&dialogs, "dialogs", false, "report start-up errors in a dialog")
	}

	termCmd := &cobra.Command{
		Use:   "term",
		Short: "run the backdrop in the terminal",
		RunE:  runTerm,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render a pointer sweep offscreen and save the last frame as PNG",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output PNG path (empty = config)")
	snapshotCmd.Flags().IntVar(&frames, "frames", 0, "frames to simulate (0 = config)")
	snapshotCmd.Flags().IntVar(&width, "width", 0, "viewport width (0 = config)")
	snapshotCmd.Flags().IntVar(&height, "height", 0, "viewport height (0 = config)")
	snapshotCmd.Flags().Float64Var(&dpr, "dpr", 0, "device pixel ratio (0 = config)")
	snapshotCmd.Flags().BoolVar(&touches, "touches", false, "sweep two touch points instead of a mouse")

	rootCmd.AddCommand(windowCmd, termCmd, snapshotCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	pixelgrid.SetLogger(logger)
	gg.SetLogger(logger)
	return nil
}

// loadConfig resolves the config file from flags, falling back to defaults.
func loadConfig() (*config.Config, error) {
	path := configFile
	if pickConfig {
		picked, err := zenity.SelectFile(
			zenity.Title("Open Backdrop Config"),
			zenity.FileFilters{{
				Name:     "YAML",
				Patterns: []string{"*.yaml", "*.yml"},
			}},
		)
		switch {
		case errors.Is(err, zenity.ErrCanceled):
			slog.Info("config picker cancelled, using defaults")
		case err != nil:
			return nil, fmt.Errorf("pick config: %w", err)
		default:
			path = picked
		}
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		slog.Info("config loaded", "path", path)
	}
	return cfg, nil
}

// resolveSeed prefers an explicit --seed (zero included), then the config
// seed, then the clock.
func resolveSeed(cmd *cobra.Command, cfg *config.Config) int64 {
	if f := cmd.Flag("seed"); f != nil && f.Changed {
		return seed
	}
	switch {
	case cfg.Seed != 0:
		return cfg.Seed
	default:
		return time.Now().UnixNano()
	}
}

func runWindow(cmd *cobra.Command, args []string) error {
	err := func() error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if width > 0 {
			cfg.Window.Width = width
		}
		if height > 0 {
			cfg.Window.Height = height
		}
		if chime {
			cfg.Chime.Enabled = true
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return game.Run(cfg, game.Options{Seed: resolveSeed(cmd, cfg), Chime: chime})
	}()
	if err != nil && dialogs {
		_ = zenity.Error(err.Error(), zenity.Title("Pixel Backdrop"), zenity.ErrorIcon)
	}
	return err
}

func runTerm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return term.Run(ctx, cfg, term.Options{Seed: resolveSeed(cmd, cfg)})
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outFile != "" {
		cfg.Snapshot.Out = outFile
	}
	if frames > 0 {
		cfg.Snapshot.Frames = frames
	}
	if width > 0 {
		cfg.Snapshot.Width = width
	}
	if height > 0 {
		cfg.Snapshot.Height = height
	}
	if dpr > 0 {
		cfg.Snapshot.DPR = dpr
	}
	return snapshot.Run(cfg, snapshot.Options{Seed: resolveSeed(cmd, cfg), Touches: touches})
}
