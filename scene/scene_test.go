package scene

import (
	"testing"

	"github.com/richinsley/goshaderplane/palette"
	"github.com/richinsley/goshaderplane/params"
	"github.com/richinsley/goshaderplane/shader"
	"github.com/richinsley/goshaderplane/uniforms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compose(t *testing.T, cfg Config) (*Scene, *params.Store) {
	t.Helper()
	store, err := params.NewDefaultStore(params.DefaultValues())
	require.NoError(t, err)
	src, err := palette.NewCustom(store, params.ColorNames)
	require.NoError(t, err)
	s, err := Compose(cfg, store, src)
	require.NoError(t, err)
	return s, store
}

func TestComposeInitialUniforms(t *testing.T) {
	s, store := compose(t, DefaultConfig())

	elev, err := s.Uniforms.Scalar(shader.UElevation)
	require.NoError(t, err)
	assert.Equal(t, 0.3, elev.Get())

	for _, b := range ScalarBindings {
		p, _ := store.Scalar(b.Param)
		u, err := s.Uniforms.Scalar(b.Uniform)
		require.NoError(t, err)
		assert.Equal(t, p.Float(), u.Get(), b.Uniform)
	}

	assert.Equal(t, 0.0, s.Time.Get())
	var hex []string
	for _, c := range s.Palette.Get() {
		hex = append(hex, c.Hex())
	}
	assert.Equal(t, []string{"#cda3ff", "#6ec3f4", "#eae2ff", "#b9beff", "#c3e4ff"}, hex)
}

func TestComposeGeometryAndCamera(t *testing.T) {
	s, _ := compose(t, DefaultConfig())
	assert.Equal(t, 181*181, s.Mesh.VertexCount())
	assert.Equal(t, float32(75), s.Camera.FOV)
	assert.Equal(t, float32(0.9), s.Camera.Position.Z())
	assert.Equal(t, s.Camera.View(), s.ModelView())
	assert.NotEmpty(t, s.VertexShader)
	assert.NotEmpty(t, s.FragmentShader)
}

func TestComposeFailsOnMissingParameter(t *testing.T) {
	store := params.NewStore()
	_, err := Compose(DefaultConfig(), store, &palette.Custom{})
	assert.ErrorIs(t, err, params.ErrUnknownParam)
}

func TestComposeFailsOnBadGeometry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Segments = 0
	store, err := params.NewDefaultStore(params.DefaultValues())
	require.NoError(t, err)
	src, err := palette.NewCustom(store, params.ColorNames)
	require.NoError(t, err)
	_, err = Compose(cfg, store, src)
	assert.Error(t, err)
}

func TestEveryBindingTargetsADeclaredUniform(t *testing.T) {
	set, err := uniforms.NewSet(shader.Schema())
	require.NoError(t, err)
	for _, b := range ScalarBindings {
		_, err := set.Scalar(b.Uniform)
		assert.NoError(t, err, b.Uniform)
		_, ok := params.Known(b.Param)
		assert.True(t, ok, b.Param)
	}
}
