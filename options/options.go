package options

import (
	"flag"

	"github.com/richinsley/goshaderplane/config"
)

// PlaneOptions are the command-line flags. Flags that were given on the
// command line override the config file; the rest leave it untouched.
type PlaneOptions struct {
	ConfigPath  *string
	WriteConfig *string
	Help        *bool
	LogLevel    *string

	Width      *int
	Height     *int
	PixelRatio *float64
	NoVSync    *bool
	NoDamping  *bool

	Palette      *string // "custom" | "indexed"
	PaletteIndex *int
	PaletteTable *string

	Record     *bool
	Duration   *float64
	FPS        *int
	OutputFile *string
	Codec      *string
	FFMPEGPath *string
	Headless   *bool

	fs *flag.FlagSet
}

// Register defines every flag on fs.
func Register(fs *flag.FlagSet) *PlaneOptions {
	return &PlaneOptions{
		ConfigPath:  fs.String("config", "", "Path to a YAML config file"),
		WriteConfig: fs.String("write-config", "", "Write the effective config to this path and exit"),
		Help:        fs.Bool("help", false, "Show help message"),
		LogLevel:    fs.String("log-level", "", "Log level (trace, debug, info, warn, error)"),

		Width:      fs.Int("width", 0, "Window width"),
		Height:     fs.Int("height", 0, "Window height"),
		PixelRatio: fs.Float64("pixel-ratio", 0, "Override the device pixel ratio (clamped to 2)"),
		NoVSync:    fs.Bool("no-vsync", false, "Disable vertical sync"),
		NoDamping:  fs.Bool("no-damping", false, "Disable orbit control damping"),

		Palette:      fs.String("palette", "", "Palette mode: custom or indexed"),
		PaletteIndex: fs.Int("palette-index", 0, "Palette table index for indexed mode"),
		PaletteTable: fs.String("palette-table", "", "JSON file of five-color palettes replacing the built-in table"),

		Record:     fs.Bool("record", false, "Render offscreen to a video file instead of a window"),
		Duration:   fs.Float64("duration", 0, "Duration to record in seconds"),
		FPS:        fs.Int("fps", 0, "Frames per second for recording"),
		OutputFile: fs.String("output", "", "Output file name for recording"),
		Codec:      fs.String("codec", "", "ffmpeg video codec (default libx264)"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Headless:   fs.Bool("headless", false, "Record through EGL without a window (Linux, built with -tags egl)"),

		fs: fs,
	}
}

// Apply copies the explicitly set flags onto c.
func (o *PlaneOptions) Apply(c *config.Config) {
	set := make(map[string]bool)
	o.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["log-level"] {
		c.LogLevel = *o.LogLevel
	}
	if set["width"] {
		c.Window.Width = *o.Width
	}
	if set["height"] {
		c.Window.Height = *o.Height
	}
	if set["pixel-ratio"] {
		c.Window.PixelRatio = *o.PixelRatio
	}
	if set["no-vsync"] {
		c.Window.VSync = !*o.NoVSync
	}
	if set["no-damping"] {
		c.Damping = !*o.NoDamping
	}
	if set["palette"] {
		c.Palette.Mode = *o.Palette
	}
	if set["palette-index"] {
		idx := *o.PaletteIndex
		c.Palette.Index = &idx
	}
	if set["palette-table"] {
		c.Palette.Table = *o.PaletteTable
	}
	if set["duration"] {
		c.Record.Duration = *o.Duration
	}
	if set["fps"] {
		c.Record.FPS = *o.FPS
	}
	if set["output"] {
		c.Record.Output = *o.OutputFile
	}
	if set["codec"] {
		c.Record.Codec = *o.Codec
	}
	if set["ffmpeg"] {
		c.Record.FFMPEGPath = *o.FFMPEGPath
	}
	if set["headless"] {
		c.Record.Headless = *o.Headless
	}
}
