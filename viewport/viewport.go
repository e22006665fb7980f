// Package viewport tracks the output surface size and pixel density and tells
// its subscribers when either changes.
package viewport

// MaxPixelRatio bounds the drawing-buffer density regardless of the device.
const MaxPixelRatio = 2.0

// State is the current surface size in window units and the applied pixel ratio.
type State struct {
	Width      int
	Height     int
	PixelRatio float64
}

// Aspect returns Width/Height, or 1 for a degenerate surface.
func (s State) Aspect() float32 {
	if s.Width <= 0 || s.Height <= 0 {
		return 1
	}
	return float32(s.Width) / float32(s.Height)
}

// DrawingBufferSize returns the size of the render target in device pixels.
func (s State) DrawingBufferSize() (int, int) {
	return int(float64(s.Width) * s.PixelRatio), int(float64(s.Height) * s.PixelRatio)
}

// ClampPixelRatio limits a device pixel ratio to (0, MaxPixelRatio].
func ClampPixelRatio(r float64) float64 {
	if r <= 0 {
		return 1
	}
	if r > MaxPixelRatio {
		return MaxPixelRatio
	}
	return r
}

// Observer receives the new state after a change.
type Observer func(State)

// Manager owns the viewport state. It is the only writer of State.
type Manager struct {
	state     State
	observers []Observer
}

// NewManager starts with the given size and device pixel ratio.
func NewManager(width, height int, devicePixelRatio float64) *Manager {
	return &Manager{state: State{
		Width:      width,
		Height:     height,
		PixelRatio: ClampPixelRatio(devicePixelRatio),
	}}
}

func (m *Manager) State() State { return m.state }

// Subscribe registers fn for future changes.
func (m *Manager) Subscribe(fn Observer) {
	m.observers = append(m.observers, fn)
}

// Resize records a resize signal. Observers run only when the clamped state
// differs from the current one; the return value reports whether they did.
func (m *Manager) Resize(width, height int, devicePixelRatio float64) bool {
	next := State{
		Width:      width,
		Height:     height,
		PixelRatio: ClampPixelRatio(devicePixelRatio),
	}
	if next == m.state {
		return false
	}
	m.state = next
	for _, fn := range m.observers {
		fn(next)
	}
	return true
}

// Apply pushes the current state to every observer. Use it once after wiring
// so observers start in sync.
func (m *Manager) Apply() {
	for _, fn := range m.observers {
		fn(m.state)
	}
}
