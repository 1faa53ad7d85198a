package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/volcat/pkg/config"
	"github.com/marmos91/volcat/pkg/registry"
	"github.com/marmos91/volcat/pkg/volume"
	"github.com/marmos91/volcat/pkg/volume/memory"
)

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := registry.New()
	drv := memory.New()
	require.NoError(t, r.Register("media", drv))

	got, err := r.Resolve(volume.Target{Host: "h", Volume: "media"})
	require.NoError(t, err)
	assert.Equal(t, volume.Driver(drv), got)
}

func TestRegistry_RegisterRejects(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register("media", memory.New()))

	assert.Error(t, r.Register("media", memory.New()), "duplicate name")
	assert.Error(t, r.Register("", memory.New()), "empty name")
	assert.Error(t, r.Register("other", nil), "nil driver")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ResolveUnknownVolume(t *testing.T) {
	r := registry.New()

	_, err := r.Resolve(volume.Target{Host: "h", Volume: "nope"})
	require.ErrorIs(t, err, volume.ErrUnknownVolume)

	var connErr *volume.ConnectError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "nope", connErr.Target.Volume)
}

func TestRegistry_Names(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register("zeta", memory.New()))
	require.NoError(t, r.Register("alpha", memory.New()))

	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		Volumes: []config.VolumeConfig{
			{Name: "media", Driver: config.DriverPosix, Root: t.TempDir()},
			{Name: "scratch", Driver: config.DriverMemory},
		},
	}

	r, err := registry.FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"media", "scratch"}, r.Names())
}

func TestFromConfig_Errors(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		cfg := &config.Config{
			Volumes: []config.VolumeConfig{{Name: "media", Driver: "fancy"}},
		}
		_, err := registry.FromConfig(cfg)
		assert.Error(t, err)
	})

	t.Run("duplicate volume", func(t *testing.T) {
		cfg := &config.Config{
			Volumes: []config.VolumeConfig{
				{Name: "media", Driver: config.DriverMemory},
				{Name: "media", Driver: config.DriverMemory},
			},
		}
		_, err := registry.FromConfig(cfg)
		assert.Error(t, err)
	})
}
