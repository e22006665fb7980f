package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/richinsley/goshaderplane/palette"
	"github.com/richinsley/goshaderplane/params"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	lvl, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)
	assert.Equal(t, params.DefaultValues(), c.Defaults())
	assert.Equal(t, 600, c.Record.Frames())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plane.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
window:
  width: 800
  height: 600
palette:
  mode: indexed
  index: 3
scalars:
  elevation: 0.5
colors:
  color2: "#123456"
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, 800, c.Window.Width)
	assert.Equal(t, "goshaderplane", c.Window.Title, "unset fields keep defaults")
	assert.Equal(t, 60, c.Record.FPS)
	assert.Equal(t, palette.ModeIndexed, c.Palette.Mode)

	d := c.Defaults()
	assert.Equal(t, 0.5, d.Scalars[params.Elevation])
	assert.Equal(t, 3.0, d.Scalars[params.ColorPaletteIndex])
	assert.Equal(t, 0.1, d.Scalars[params.Incline])
	assert.Equal(t, "#123456", d.Colors[params.Color2])
	assert.Equal(t, "#cda3ff", d.Colors[params.Color1])
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plane.yaml")
	c := Default()
	c.Scalars = map[string]float64{params.Tilt: -0.5}
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [1, 2"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	neg := -1
	cases := map[string]func(*Config){
		"level":       func(c *Config) { c.LogLevel = "loud" },
		"width":       func(c *Config) { c.Window.Width = 0 },
		"pixel ratio": func(c *Config) { c.Window.PixelRatio = -2 },
		"mode":        func(c *Config) { c.Palette.Mode = "random" },
		"index":       func(c *Config) { c.Palette.Index = &neg },
		"scalar name": func(c *Config) { c.Scalars = map[string]float64{"height": 1} },
		"scalar kind": func(c *Config) { c.Scalars = map[string]float64{params.Color1: 1} },
		"scalar nan":  func(c *Config) { c.Scalars = map[string]float64{params.Tilt: math.NaN()} },
		"scalar inf":  func(c *Config) { c.Scalars = map[string]float64{params.Elevation: math.Inf(-1)} },
		"color name":  func(c *Config) { c.Colors = map[string]string{"color9": "#ffffff"} },
		"color hex":   func(c *Config) { c.Colors = map[string]string{params.Color1: "purple"} },
		"record fps":  func(c *Config) { c.Record.FPS = 0 },
		"record secs": func(c *Config) { c.Record.Duration = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestPaletteTable(t *testing.T) {
	c := Default()
	tbl, err := c.PaletteTable()
	require.NoError(t, err)
	assert.Equal(t, palette.Builtin(), tbl)

	path := filepath.Join(t.TempDir(), "table.json")
	require.NoError(t, os.WriteFile(path, []byte(`[["#000000","#111111","#222222","#333333","#444444"]]`), 0644))
	c.Palette.Table = path
	tbl, err = c.PaletteTable()
	require.NoError(t, err)
	require.Len(t, tbl, 1)
	assert.Equal(t, "#444444", tbl[0].Hex()[4])

	c.Palette.Table = filepath.Join(t.TempDir(), "missing.json")
	_, err = c.PaletteTable()
	assert.Error(t, err)
}

func TestLoadRejectsNonFiniteScalar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plane.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scalars:\n  tilt: .nan\n"), 0644))
	c, err := Load(path)
	require.NoError(t, err)
	assert.ErrorIs(t, c.Validate(), ErrInvalid)
}

func TestRecordFramesRounds(t *testing.T) {
	assert.Equal(t, 435, Record{Duration: 4.35, FPS: 100}.Frames())
	assert.Equal(t, 600, Record{Duration: 10, FPS: 60}.Frames())
	assert.Equal(t, 1, Record{Duration: 1.0 / 30, FPS: 30}.Frames())
}
