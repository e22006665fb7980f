package camera

import (
	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-6

// Orbit rotates a camera around its target from pointer drags and dollies it
// from scroll input. With damping enabled the accumulated rotation is applied
// over several Update calls, decaying by DampingFactor each step.
type Orbit struct {
	Camera *Perspective

	EnableDamping bool
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32

	MinDistance float32
	MaxDistance float32
	MinPolar    float32
	MaxPolar    float32

	// ViewportHeight converts pointer motion in pixels to rotation.
	ViewportHeight float32

	deltaTheta float32
	deltaPhi   float32
	scale      float32

	dragging     bool
	lastX, lastY float64

	lastPosition mgl32.Vec3
}

// NewOrbit attaches orbit controls to cam with the usual defaults.
func NewOrbit(cam *Perspective) *Orbit {
	return &Orbit{
		Camera:         cam,
		DampingFactor:  0.05,
		RotateSpeed:    1,
		ZoomSpeed:      1,
		MinDistance:    0,
		MaxDistance:    math.Inf(1),
		MinPolar:       0,
		MaxPolar:       math.Pi,
		ViewportHeight: 1,
		scale:          1,
		lastPosition:   cam.Position,
	}
}

// RotateLeft queues an azimuth rotation of angle radians.
func (o *Orbit) RotateLeft(angle float32) { o.deltaTheta -= angle }

// RotateUp queues a polar rotation of angle radians.
func (o *Orbit) RotateUp(angle float32) { o.deltaPhi -= angle }

// Dolly scales the camera distance by s on the next Update.
func (o *Orbit) Dolly(s float32) { o.scale *= s }

// PointerDown starts a rotate drag at (x, y) pixels.
func (o *Orbit) PointerDown(x, y float64) {
	o.dragging = true
	o.lastX, o.lastY = x, y
}

// PointerMove rotates by the motion since the last pointer event.
func (o *Orbit) PointerMove(x, y float64) {
	if !o.dragging {
		return
	}
	dx := float32(x-o.lastX) * o.RotateSpeed
	dy := float32(y-o.lastY) * o.RotateSpeed
	o.lastX, o.lastY = x, y
	h := o.ViewportHeight
	if h <= 0 {
		h = 1
	}
	o.RotateLeft(2 * math.Pi * dx / h)
	o.RotateUp(2 * math.Pi * dy / h)
}

func (o *Orbit) PointerUp() { o.dragging = false }

// Scroll dollies in for positive dy and out for negative dy.
func (o *Orbit) Scroll(dy float64) {
	zs := math.Pow(0.95, o.ZoomSpeed)
	switch {
	case dy > 0:
		o.Dolly(zs)
	case dy < 0:
		o.Dolly(1 / zs)
	}
}

// Update advances the controls by one step and moves the camera. It reports
// whether the camera position changed.
func (o *Orbit) Update() bool {
	cam := o.Camera
	offset := cam.Position.Sub(cam.Target)

	radius := offset.Len()
	var theta, phi float32
	if radius > 0 {
		theta = math.Atan2(offset.X(), offset.Z())
		phi = math.Acos(clamp(offset.Y()/radius, -1, 1))
	}

	if o.EnableDamping {
		theta += o.deltaTheta * o.DampingFactor
		phi += o.deltaPhi * o.DampingFactor
	} else {
		theta += o.deltaTheta
		phi += o.deltaPhi
	}
	phi = clamp(phi, o.MinPolar, o.MaxPolar)
	phi = clamp(phi, epsilon, math.Pi-epsilon)

	radius = clamp(radius*o.scale, o.MinDistance, o.MaxDistance)

	sinPhiRadius := math.Sin(phi) * radius
	offset = mgl32.Vec3{
		sinPhiRadius * math.Sin(theta),
		math.Cos(phi) * radius,
		sinPhiRadius * math.Cos(theta),
	}
	cam.Position = cam.Target.Add(offset)

	if o.EnableDamping {
		o.deltaTheta *= 1 - o.DampingFactor
		o.deltaPhi *= 1 - o.DampingFactor
	} else {
		o.deltaTheta, o.deltaPhi = 0, 0
	}
	o.scale = 1

	moved := cam.Position.Sub(o.lastPosition).LenSqr() > epsilon
	if moved {
		o.lastPosition = cam.Position
	}
	return moved
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
