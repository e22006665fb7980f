// Package recorder encodes rendered frames to a video file with ffmpeg.
package recorder

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

var ErrFrameSize = errors.New("frame size mismatch")

// Config describes the encoded stream.
type Config struct {
	Width      int
	Height     int
	FPS        int
	Output     string
	Codec      string // libx264 when empty
	FFMPEGPath string
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("record size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("record fps must be positive, got %d", c.FPS)
	}
	if c.Output == "" {
		return errors.New("record output file is empty")
	}
	return nil
}

// FrameSize is the byte size of one RGBA frame.
func (c Config) FrameSize() int { return c.Width * c.Height * 4 }

// evenScale rounds odd output dimensions down to even ones; yuv420p needs
// even sizes.
const evenScale = "scale=trunc(iw/2)*2:trunc(ih/2)*2"

// Args returns the ffmpeg input and output arguments. Frames arrive as raw
// RGBA, bottom row first, so the output is flipped vertically.
func Args(c Config) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", c.Width, c.Height),
		"framerate": c.FPS,
	}
	codec := c.Codec
	if codec == "" {
		codec = "libx264"
	}
	vf := "vflip"
	if c.Width%2 != 0 || c.Height%2 != 0 {
		vf += "," + evenScale
	}
	outputArgs = ffmpeg.KwArgs{
		"vf":      vf,
		"pix_fmt": "yuv420p",
		"c:v":     codec,
		"r":       c.FPS,
	}
	return inputArgs, outputArgs
}

// Encoder pipes frames into a running ffmpeg process.
type Encoder struct {
	cfg    Config
	pipe   *io.PipeWriter
	errc   chan error
	frames int
	log    zerolog.Logger
	closed bool
}

// Start launches ffmpeg writing to cfg.Output.
func Start(cfg Config, log zerolog.Logger) (*Encoder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := Args(cfg)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(cfg.Output, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if cfg.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(cfg.FFMPEGPath)
	}

	e := &Encoder{cfg: cfg, pipe: pipeWriter, errc: make(chan error, 1), log: log}
	go func() {
		err := ffmpegCmd.Run()
		// Unblock a writer stuck on a dead process.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		e.errc <- err
	}()
	log.Info().
		Str("output", cfg.Output).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("fps", cfg.FPS).
		Msg("encoder started")
	return e, nil
}

// WriteFrame sends one RGBA frame.
func (e *Encoder) WriteFrame(pixels []byte) error {
	if len(pixels) != e.cfg.FrameSize() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(pixels), e.cfg.FrameSize())
	}
	if _, err := e.pipe.Write(pixels); err != nil {
		return fmt.Errorf("write frame %d to ffmpeg: %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Close ends the stream and waits for ffmpeg to exit.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.pipe.Close()
	err := <-e.errc
	if err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	e.log.Info().Int("frames", e.frames).Str("output", e.cfg.Output).Msg("encoder finished")
	return nil
}
