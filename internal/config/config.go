package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/iburimskiy/pixel-backdrop/internal/pixelgrid"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1024
	WindowHeight = 640

	// Grid look and feel
	CellSize      = 12
	Density       = 0.28  // share of nearby cells that may light up
	RadiusMult    = 2.0   // trail radius in cells
	MaxAlpha      = 0.7   // peak glow
	FadeSpeed     = 0.004 // glow lost per frame
	ShadowBlur    = 14    // glow softness
	IdleFraction  = 0.15  // share of cells that float when idle
	IdleAmplitude = 1.2   // how far idle cells drift

	// Window background behind the grid
	Background = "#1b1b2f"

	// Chime
	ChimeSampleRate = 44100
	ChimeFrequency  = 1318.5 // E6
	ChimeVolume     = 0.15
	ChimeDurationMs = 90
	ChimeMaxVoices  = 6

	TerminalFPS = 30

	SnapshotFrames = 90
	SnapshotOut    = "backdrop.png"
)

// DefaultPalette is the pastel set cells pick their colour from.
var DefaultPalette = []string{
	"#ffd6e8", "#dafbe1", "#e0e7ff", "#ffe3ec", "#f0f4ff", "#e6f7f1", "#fef3c7",
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Seed     int64          `yaml:"seed"`
	Grid     GridConfig     `yaml:"grid"`
	Window   WindowConfig   `yaml:"window"`
	Chime    ChimeConfig    `yaml:"chime"`
	Terminal TerminalConfig `yaml:"terminal"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

type GridConfig struct {
	CellSize      int      `yaml:"cell_size"`
	Density       float64  `yaml:"density"`
	RadiusMult    float64  `yaml:"radius_mult"`
	MaxAlpha      float64  `yaml:"max_alpha"`
	FadeSpeed     float64  `yaml:"fade_speed"`
	ShadowBlur    float64  `yaml:"shadow_blur"`
	IdleFraction  float64  `yaml:"idle_fraction"`
	IdleAmplitude float64  `yaml:"idle_amplitude"`
	Palette       []string `yaml:"palette"`
}

type WindowConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Title       string `yaml:"title"`
	Background  string `yaml:"background"`
	Transparent bool   `yaml:"transparent"`
	Passthrough bool   `yaml:"passthrough"` // let clicks through to windows below
}

type ChimeConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Frequency  float64 `yaml:"frequency"`
	Volume     float64 `yaml:"volume"`
	DurationMs int     `yaml:"duration_ms"`
	MaxVoices  int     `yaml:"max_voices"`
}

type TerminalConfig struct {
	FPS int `yaml:"fps"`
}

type SnapshotConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	DPR    float64 `yaml:"dpr"`
	Frames int     `yaml:"frames"`
	Out    string  `yaml:"out"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			CellSize:      CellSize,
			Density:       Density,
			RadiusMult:    RadiusMult,
			MaxAlpha:      MaxAlpha,
			FadeSpeed:     FadeSpeed,
			ShadowBlur:    ShadowBlur,
			IdleFraction:  IdleFraction,
			IdleAmplitude: IdleAmplitude,
			Palette:       append([]string(nil), DefaultPalette...),
		},
		Window: WindowConfig{
			Width:      WindowWidth,
			Height:     WindowHeight,
			Title:      "Pixel Backdrop - Esc/Q: Quit",
			Background: Background,
		},
		Chime: ChimeConfig{
			SampleRate: ChimeSampleRate,
			Frequency:  ChimeFrequency,
			Volume:     ChimeVolume,
			DurationMs: ChimeDurationMs,
			MaxVoices:  ChimeMaxVoices,
		},
		Terminal: TerminalConfig{
			FPS: TerminalFPS,
		},
		Snapshot: SnapshotConfig{
			Width:  WindowWidth,
			Height: WindowHeight,
			DPR:    1,
			Frames: SnapshotFrames,
			Out:    SnapshotOut,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every out-of-range setting, each wrapping ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	g := c.Grid
	if g.CellSize <= 0 {
		bad("grid.cell_size must be positive, got %d", g.CellSize)
	}
	if g.Density < 0 {
		bad("grid.density must not be negative, got %v", g.Density)
	}
	if g.RadiusMult < 0 {
		bad("grid.radius_mult must not be negative, got %v", g.RadiusMult)
	}
	if g.MaxAlpha < 0 || g.MaxAlpha > 1 {
		bad("grid.max_alpha must be within [0, 1], got %v", g.MaxAlpha)
	}
	if g.FadeSpeed <= 0 {
		bad("grid.fade_speed must be positive, got %v", g.FadeSpeed)
	}
	if g.ShadowBlur < 0 {
		bad("grid.shadow_blur must not be negative, got %v", g.ShadowBlur)
	}
	if g.IdleFraction < 0 || g.IdleFraction > 1 {
		bad("grid.idle_fraction must be within [0, 1], got %v", g.IdleFraction)
	}
	if len(g.Palette) == 0 {
		bad("grid.palette must list at least one colour")
	}
	for _, hex := range g.Palette {
		if _, err := colorful.Hex(hex); err != nil {
			bad("grid.palette entry %q: %v", hex, err)
		}
	}
	if c.Window.Background != "" {
		if _, err := colorful.Hex(c.Window.Background); err != nil {
			bad("window.background %q: %v", c.Window.Background, err)
		}
	}
	// checked even when disabled, --chime can switch it on later
	if c.Chime.SampleRate <= 0 {
		bad("chime.sample_rate must be positive, got %d", c.Chime.SampleRate)
	}
	if c.Chime.DurationMs <= 0 {
		bad("chime.duration_ms must be positive, got %d", c.Chime.DurationMs)
	}
	if c.Chime.MaxVoices <= 0 {
		bad("chime.max_voices must be positive, got %d", c.Chime.MaxVoices)
	}
	if c.Terminal.FPS <= 0 {
		bad("terminal.fps must be positive, got %d", c.Terminal.FPS)
	}
	if c.Snapshot.Frames < 0 {
		bad("snapshot.frames must not be negative, got %d", c.Snapshot.Frames)
	}
	return errors.Join(errs...)
}

// Params converts the grid section into animator parameters.
func (c *Config) Params() (pixelgrid.Params, error) {
	palette := make([]color.NRGBA, 0, len(c.Grid.Palette))
	for _, hex := range c.Grid.Palette {
		col, err := ParseColor(hex)
		if err != nil {
			return pixelgrid.Params{}, err
		}
		palette = append(palette, col)
	}
	return pixelgrid.Params{
		CellSize:      c.Grid.CellSize,
		Density:       c.Grid.Density,
		RadiusMult:    c.Grid.RadiusMult,
		MaxAlpha:      c.Grid.MaxAlpha,
		FadeSpeed:     c.Grid.FadeSpeed,
		ShadowBlur:    c.Grid.ShadowBlur,
		IdleFraction:  c.Grid.IdleFraction,
		IdleAmplitude: c.Grid.IdleAmplitude,
		Palette:       palette,
	}, nil
}

// ParseColor parses "#rrggbb" or "#rgb" into an opaque colour.
func ParseColor(hex string) (color.NRGBA, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: colour %q: %v", ErrInvalid, hex, err)
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
