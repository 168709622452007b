package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/annel0/colony-core/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colony.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("COLONY_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Sim.FPS)
	assert.False(t, cfg.Fluid.Vertical, "каноническая модель – только боковой поток")
	assert.Equal(t, int32(10), cfg.Fluid.GravityHead)
	assert.Equal(t, vec.New3(-32, -8, -32), cfg.Bounds().Min)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
world:
  min: {x: 0, y: 0, z: 0}
  max: {x: 15, y: 7, z: 15}
  basin:
    min: {x: 2, y: 5, z: 2}
    max: {x: 6, y: 5, z: 6}
    pressure: 8
terrain:
  seed: 99
  noise_scale: 0.1
  amplitude: 4
  step: 1
fluid:
  vertical: true
  gravity_head: 12
  staged: true
sim:
  fps: 60
  max_frames: 100
debug:
  http_addr: ":9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, vec.New3(15, 7, 15), cfg.World.Max)
	require.NotNil(t, cfg.World.Basin)
	assert.Equal(t, int32(8), cfg.World.Basin.Pressure)
	assert.Equal(t, int64(99), cfg.Terrain.Seed)
	assert.True(t, cfg.Fluid.Vertical)
	assert.Equal(t, int32(12), cfg.Fluid.GravityHead)
	assert.True(t, cfg.Fluid.Staged)
	assert.Equal(t, 60, cfg.Sim.FPS)
	assert.Equal(t, int64(100), cfg.Sim.MaxFrames)
	assert.Equal(t, ":9090", cfg.Debug.GetDebugAddr())
	// Незаданные поля остаются по умолчанию
	assert.Equal(t, 30, cfg.Sim.AgingInterval)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "sim:\n  fps: 10\n")
	t.Setenv("COLONY_SEED", "777")
	t.Setenv("COLONY_MAX_FRAMES", "5")
	t.Setenv("COLONY_DEBUG_ADDR", ":7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(777), cfg.Terrain.Seed)
	assert.Equal(t, int64(5), cfg.Sim.MaxFrames)
	assert.Equal(t, ":7000", cfg.Debug.GetDebugAddr())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "world: [это не объект"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `
world:
  min: {x: 5, y: 0, z: 0}
  max: {x: 0, y: 0, z: 0}
sim:
  fps: 0
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "world")
	assert.Contains(t, err.Error(), "sim.fps")
}

func TestValidateBasinInsideWorld(t *testing.T) {
	cfg := Default()
	cfg.World.Basin = &BasinConfig{Min: vec.New3(0, 0, 0), Max: vec.New3(100, 0, 0)}
	assert.Error(t, cfg.Validate())

	cfg.World.Basin.Max = vec.New3(3, 0, 0)
	assert.NoError(t, cfg.Validate())

	cfg.Fluid.Vertical = true
	cfg.Fluid.GravityHead = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadExampleConfig(t *testing.T) {
	for _, k := range []string{"COLONY_SEED", "COLONY_MAX_FRAMES", "COLONY_LOG_LEVEL", "COLONY_DEBUG_ADDR", "COLONY_NATS_URL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load(filepath.Join("..", "..", "configs", "colony.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default().World.Max, cfg.World.Max)
	require.NotNil(t, cfg.World.Basin)
	assert.Equal(t, int32(6), cfg.World.Basin.Pressure)
	assert.Equal(t, int32(10), cfg.Fluid.GravityHead)
	assert.Equal(t, ":8088", cfg.Debug.GetDebugAddr())
}

func TestEventsDefaultsAndEnv(t *testing.T) {
	t.Setenv("COLONY_CONFIG", "")
	t.Setenv("COLONY_NATS_URL", "nats://nats:4222")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Events.Buffer)
	assert.Equal(t, 24*time.Hour, cfg.Events.Retention)
	assert.Equal(t, "nats://nats:4222", cfg.Events.NATSURL)

	path := writeConfig(t, "events:\n  buffer: 0\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "events.buffer")

	path = writeConfig(t, "events:\n  retention: 90m\n")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.Events.Retention)
}
