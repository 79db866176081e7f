package renderer_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"render-manager/core/renderer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tempConfigFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func TestConfig_SaveReloadRoundTrip(t *testing.T) {
	path := tempConfigFile(t)

	saved := renderer.DefaultConfig()
	saved.SetConfigFile(path)
	require.NoError(t, saved.SetPort(4242))
	require.NoError(t, saved.SetTimeout(30*time.Second))
	require.NoError(t, saved.SetDefaultFormat("svg"))
	require.NoError(t, saved.SetDefaultWidth(800))
	require.NoError(t, saved.SetDefaultHeight(600))
	require.NoError(t, saved.SetDefaultScale(2))
	require.NoError(t, saved.Save())

	loaded := renderer.DefaultConfig()
	loaded.SetConfigFile(path)
	loaded.Reload(zap.NewNop())

	assert.Equal(t, 4242, loaded.Port())
	assert.Equal(t, 30*time.Second, loaded.Timeout())
	assert.Equal(t, "svg", loaded.DefaultFormat())
	assert.Equal(t, 800, loaded.DefaultWidth())
	assert.Equal(t, 600, loaded.DefaultHeight())
	assert.Equal(t, float64(2), loaded.DefaultScale())
}

func TestConfig_SaveWritesStableJSON(t *testing.T) {
	path := tempConfigFile(t)

	cfg := renderer.DefaultConfig()
	cfg.SetConfigFile(path)
	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var props map[string]any
	require.NoError(t, json.Unmarshal(data, &props))
	assert.Contains(t, props, "executable")
	assert.Contains(t, props, "default_format")
	assert.Contains(t, props, "mapbox_access_token")
	// Indented output, not a single line.
	assert.Contains(t, string(data), "\n    ")
}

func TestConfig_ReloadIgnoresUnknownKeys(t *testing.T) {
	path := tempConfigFile(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"port": 1234, "mystery_knob": true}`), 0o644))

	cfg := renderer.DefaultConfig()
	cfg.SetConfigFile(path)
	cfg.Reload(zap.NewNop())

	assert.Equal(t, 1234, cfg.Port())
}

func TestConfig_ReloadMalformedFile(t *testing.T) {
	path := tempConfigFile(t)
	require.NoError(t, os.WriteFile(path, []byte(`{not json at all`), 0o644))

	cfg := renderer.DefaultConfig()
	cfg.SetConfigFile(path)
	require.NoError(t, cfg.SetPort(5555))
	cfg.Reload(zap.NewNop())

	// Nothing changed and nothing blew up.
	assert.Equal(t, 5555, cfg.Port())
}

func TestConfig_ReloadMissingFile(t *testing.T) {
	cfg := renderer.DefaultConfig()
	cfg.SetConfigFile(filepath.Join(t.TempDir(), "does-not-exist.json"))
	cfg.Reload(zap.NewNop())

	assert.Equal(t, "orca", cfg.Executable())
}

func TestConfig_ReloadInvalidValueIgnored(t *testing.T) {
	path := tempConfigFile(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"default_format": "bmp", "port": 1234}`), 0o644))

	cfg := renderer.DefaultConfig()
	cfg.SetConfigFile(path)
	cfg.Reload(zap.NewNop())

	assert.Equal(t, "png", cfg.DefaultFormat())
	assert.Equal(t, 1234, cfg.Port())
}
