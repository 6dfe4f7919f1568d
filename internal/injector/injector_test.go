package injector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/mazesense/internal/config"
)

const runConfig = `
log:
  level: error
maze:
  layout: |
    +---+---+
    |       |
    +   +   +
    |       |
    +---+---+
mouse:
  sensors:
    - name: front
      body_radius: 0.005
      range: 0.2
      half_width_degrees: 15
      position: {x: 0.04, y: 0}
`

func TestInitializeApp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(runConfig), 0o600))

	app, err := InitializeApp(ConfigPath(path))
	require.NoError(t, err)

	assert.Equal(t, 2, app.Maze.Width())
	assert.Equal(t, []string{"front"}, app.Mouse.SensorNames())
	assert.NotNil(t, app.Hub)
	assert.Equal(t, 0, app.Hub.Clients())
}

func TestInitializeAppMissingConfig(t *testing.T) {
	_, err := InitializeApp(ConfigPath(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestInitializeAppInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mouse": {"sensors": []}}`), 0o600))

	_, err := InitializeApp(ConfigPath(path))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
