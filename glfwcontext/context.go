package glfwcontext

import (
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshaderplane/graphics"
	"github.com/richinsley/goshaderplane/viewport"
	"github.com/rs/zerolog/log"
)

// WindowConfig describes the window to open.
type WindowConfig struct {
	Width   int
	Height  int
	Title   string
	Visible bool
	VSync   bool
	// PixelRatio overrides the ratio derived from the framebuffer when > 0.
	PixelRatio float64
}

// KeyFunc handles a key press or repeat.
type KeyFunc func(mods glfw.ModifierKey)

// Context is a GLFW window that serves as both the GL context and the
// session host: size, pixel ratio, resize and pointer events, clock and
// frame scheduling.
type Context struct {
	window       *glfw.Window
	ratio        float64
	start        float64
	onResize     func(width, height int, pixelRatio float64)
	pointer      graphics.PointerHandler
	keyCallbacks map[glfw.Key]KeyFunc
}

var (
	_ graphics.Context = (*Context)(nil)
	_ graphics.Host    = (*Context)(nil)
)

// New creates a window with a 4.1 core context and makes it current.
func New(cfg WindowConfig) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)

	if cfg.Visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
		glfw.WindowHint(glfw.Visible, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	title := cfg.Title
	if title == "" {
		title = "goshaderplane"
	}
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		ratio:        cfg.PixelRatio,
		keyCallbacks: make(map[glfw.Key]KeyFunc),
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetSizeCallback(func(_ *glfw.Window, width, height int) { c.notifyResize(width, height) })
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) { c.notifyResize(c.Size()) })
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if c.pointer != nil {
			c.pointer.PointerMove(x, y)
		}
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, dy float64) {
		if c.pointer != nil {
			c.pointer.Scroll(dy)
		}
	})

	c.start = glfw.GetTime()
	w, h := c.Size()
	log.Info().Int("width", w).Int("height", h).Float64("pixelRatio", c.PixelRatio()).Bool("visible", cfg.Visible).Msg("window created")
	return c, nil
}

// RegisterKeyCallback calls f whenever key is pressed or auto-repeats.
func (c *Context) RegisterKeyCallback(key glfw.Key, f KeyFunc) {
	c.keyCallbacks[key] = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
		return
	}
	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	if callback, ok := c.keyCallbacks[key]; ok {
		callback(mods)
	}
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if c.pointer == nil || button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		x, y := w.GetCursorPos()
		c.pointer.PointerDown(x, y)
	case glfw.Release:
		c.pointer.PointerUp()
	}
}

func (c *Context) notifyResize(width, height int) {
	if c.onResize == nil || width == 0 || height == 0 {
		return
	}
	c.onResize(width, height, c.PixelRatio())
}

// Size returns the window size in screen units.
func (c *Context) Size() (int, int) {
	return c.window.GetSize()
}

// PixelRatio is framebuffer pixels per window unit, or the configured
// override. The session clamps it to viewport.MaxPixelRatio.
func (c *Context) PixelRatio() float64 {
	if c.ratio > 0 {
		return c.ratio
	}
	fbWidth, _ := c.window.GetFramebufferSize()
	winWidth, _ := c.window.GetSize()
	if winWidth <= 0 || fbWidth <= 0 {
		return 1
	}
	return viewport.ClampPixelRatio(float64(fbWidth) / float64(winWidth))
}

func (c *Context) OnResize(fn func(width, height int, pixelRatio float64)) {
	c.onResize = fn
}

func (c *Context) SetPointerHandler(h graphics.PointerHandler) {
	c.pointer = h
}

// Now returns seconds since the window was created.
func (c *Context) Now() float64 {
	return glfw.GetTime() - c.start
}

// NextFrame swaps buffers and polls events. It reports false once the window
// has been asked to close.
func (c *Context) NextFrame() bool {
	c.EndFrame()
	return !c.window.ShouldClose()
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

// Close asks the window to close at the end of the current frame.
func (c *Context) Close() {
	c.window.SetShouldClose(true)
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Info().Msg("GLFW initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Info().Msg("GLFW terminated")
}
