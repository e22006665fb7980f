package graphics

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
}

// PointerHandler receives pointer input in window coordinates.
type PointerHandler interface {
	PointerDown(x, y float64)
	PointerMove(x, y float64)
	PointerUp()
	Scroll(dy float64)
}

// Host is the capability set a session needs from its environment: a
// drawable surface with a size and pixel density, resize notifications,
// pointer input, a monotonic clock and a per-frame scheduler.
type Host interface {
	Size() (width, height int)
	PixelRatio() float64
	OnResize(fn func(width, height int, pixelRatio float64))
	SetPointerHandler(h PointerHandler)

	// Now returns seconds since the host started.
	Now() float64
	// NextFrame presents the current frame, waits for the next refresh and
	// processes pending events. It returns false once the host is closing.
	NextFrame() bool
}

// Surface is a GL context that can also host a session.
type Surface interface {
	Context
	Host
}
