package options

import (
	"flag"
	"io"
	"testing"

	"github.com/richinsley/goshaderplane/config"
	"github.com/richinsley/goshaderplane/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *PlaneOptions {
	t.Helper()
	fs := flag.NewFlagSet("goshaderplane", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o := Register(fs)
	require.NoError(t, fs.Parse(args))
	return o
}

func TestUnsetFlagsKeepConfig(t *testing.T) {
	c := config.Default()
	c.Window.Width = 640
	parse(t).Apply(c)
	assert.Equal(t, 640, c.Window.Width)
	assert.Equal(t, config.Default().Record, c.Record)
	assert.Nil(t, c.Palette.Index)
	assert.True(t, c.Damping)
}

func TestSetFlagsOverrideConfig(t *testing.T) {
	c := config.Default()
	o := parse(t,
		"-width", "800", "-height", "600", "-pixel-ratio", "3",
		"-palette", "indexed", "-palette-index", "0",
		"-no-damping", "-no-vsync", "-log-level", "debug",
		"-record", "-duration", "2.5", "-fps", "24", "-output", "plane.mp4", "-ffmpeg", "/opt/ffmpeg", "-headless",
	)
	o.Apply(c)

	assert.True(t, *o.Record)
	assert.Equal(t, 800, c.Window.Width)
	assert.Equal(t, 600, c.Window.Height)
	assert.Equal(t, 3.0, c.Window.PixelRatio)
	assert.False(t, c.Window.VSync)
	assert.False(t, c.Damping)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, palette.ModeIndexed, c.Palette.Mode)
	require.NotNil(t, c.Palette.Index)
	assert.Equal(t, 0, *c.Palette.Index)
	assert.Equal(t, config.Record{Duration: 2.5, FPS: 24, Output: "plane.mp4", FFMPEGPath: "/opt/ffmpeg", Headless: true}, c.Record)
	require.NoError(t, c.Validate())
}
