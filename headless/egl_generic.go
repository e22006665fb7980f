//go:build !linux || !egl

package headless

import (
	"errors"

	"github.com/richinsley/goshaderplane/graphics"
)

// ErrUnsupported is returned by builds that cannot create an EGL surface.
// go-gl resolves GL entry points through EGL only when built with -tags egl,
// so the surface is compiled in only for that build on Linux.
var ErrUnsupported = errors.New("headless rendering needs a linux build with -tags egl")

func New(width, height int) (graphics.Surface, error) {
	return nil, ErrUnsupported
}
