//go:build !linux || !egl

package headless

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithoutEGLBuild(t *testing.T) {
	s, err := New(640, 360)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Nil(t, s)
}
