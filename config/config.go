// Package config is the YAML configuration file. Values left out of the file
// keep their built-in defaults.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/richinsley/goshaderplane/palette"
	"github.com/richinsley/goshaderplane/params"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`

	// PixelRatio overrides the detected device pixel ratio when > 0.
	PixelRatio float64 `yaml:"pixel_ratio,omitempty"`
}

type Palette struct {
	Mode  string `yaml:"mode"` // "custom" | "indexed"
	Index *int   `yaml:"index,omitempty"`
	// Table is a JSON file of five-color palettes replacing the built-in table.
	Table string `yaml:"table,omitempty"`
}

type Record struct {
	Duration   float64 `yaml:"duration"`
	FPS        int     `yaml:"fps"`
	Output     string  `yaml:"output"`
	Codec      string  `yaml:"codec,omitempty"`
	FFMPEGPath string  `yaml:"ffmpeg_path,omitempty"`

	// Headless renders through EGL without a window (Linux only).
	Headless bool `yaml:"headless,omitempty"`
}

type Config struct {
	LogLevel string `yaml:"log_level"`
	Damping  bool   `yaml:"damping"`

	Window  Window  `yaml:"window"`
	Palette Palette `yaml:"palette"`

	// Scalars and Colors override parameter startup values by name.
	Scalars map[string]float64 `yaml:"scalars,omitempty"`
	Colors  map[string]string  `yaml:"colors,omitempty"`

	Record Record `yaml:"record"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Damping:  true,
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "goshaderplane",
			VSync:  true,
		},
		Palette: Palette{Mode: palette.ModeCustom},
		Record: Record{
			Duration: 10,
			FPS:      60,
			Output:   "output.mp4",
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate reports the first bad value.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.PixelRatio < 0 {
		return fmt.Errorf("%w: pixel_ratio %v", ErrInvalid, c.Window.PixelRatio)
	}
	switch c.Palette.Mode {
	case palette.ModeCustom, palette.ModeIndexed:
	default:
		return fmt.Errorf("%w: palette mode %q", ErrInvalid, c.Palette.Mode)
	}
	if c.Palette.Index != nil && *c.Palette.Index < 0 {
		return fmt.Errorf("%w: palette index %d", ErrInvalid, *c.Palette.Index)
	}
	for name, v := range c.Scalars {
		if kind, ok := params.Known(name); !ok || kind != params.KindScalar {
			return fmt.Errorf("%w: scalars: %w: %s", ErrInvalid, params.ErrUnknownParam, name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: scalars.%s: %v is not finite", ErrInvalid, name, v)
		}
	}
	for name, hex := range c.Colors {
		if kind, ok := params.Known(name); !ok || kind != params.KindColor {
			return fmt.Errorf("%w: colors: %w: %s", ErrInvalid, params.ErrUnknownParam, name)
		}
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%w: colors.%s: %q is not #rrggbb", ErrInvalid, name, hex)
		}
	}
	if c.Record.FPS <= 0 || c.Record.Duration <= 0 {
		return fmt.Errorf("%w: record %v s at %d fps", ErrInvalid, c.Record.Duration, c.Record.FPS)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
	}
	return lvl, nil
}

// Defaults merges the parameter overrides into the built-in startup values.
func (c *Config) Defaults() params.Defaults {
	d := params.DefaultValues()
	for name, v := range c.Scalars {
		d.Scalars[name] = v
	}
	for name, hex := range c.Colors {
		d.Colors[name] = hex
	}
	if c.Palette.Index != nil {
		d.Scalars[params.ColorPaletteIndex] = float64(*c.Palette.Index)
	}
	return d
}

// PaletteTable loads the configured palette table, or the built-in one.
func (c *Config) PaletteTable() (palette.Table, error) {
	if c.Palette.Table == "" {
		return palette.Builtin(), nil
	}
	b, err := os.ReadFile(c.Palette.Table)
	if err != nil {
		return nil, err
	}
	t, err := palette.ParseTable(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Palette.Table, err)
	}
	return t, nil
}

// Frames is the number of frames a recording renders.
func (r Record) Frames() int {
	return int(math.Round(r.Duration * float64(r.FPS)))
}
