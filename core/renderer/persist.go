package renderer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"render-manager/core/utils"

	"go.uber.org/zap"
)

// ConfigFile returns the path of the per-user settings file. An explicit
// override set with SetConfigFile wins; otherwise the file lives under the
// OS-specific user configuration directory.
func (c *Config) ConfigFile() string {
	c.mu.RLock()
	override := c.configFile
	c.mu.RUnlock()
	if override != "" {
		return override
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "render-manager", "config.json")
}

// SetConfigFile overrides the settings file location.
func (c *Config) SetConfigFile(path string) {
	c.mu.Lock()
	c.configFile = path
	c.mu.Unlock()
}

// propertyMap returns every persistable property keyed by its file name.
func (c *Config) propertyMap() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return map[string]any{
		"executable":          c.executable,
		"port":                c.port,
		"timeout":             c.timeout.Seconds(),
		"default_format":      c.defaultFormat,
		"default_width":       c.defaultWidth,
		"default_height":      c.defaultHeight,
		"default_scale":       c.defaultScale,
		"plotlyjs":            c.plotlyjs,
		"topojson":            c.topojson,
		"mathjax":             c.mathjax,
		"mapbox_access_token": c.mapboxAccessToken,
	}
}

// Save writes the current settings to the per-user settings file so they are
// restored in future sessions.
func (c *Config) Save() error {
	path := c.ConfigFile()
	if path == "" {
		return fmt.Errorf("cannot determine the settings file location")
	}

	data, err := json.MarshalIndent(c.propertyMap(), "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Reload applies settings from the per-user settings file, if present.
// Only keys matching known property names are applied; unknown keys are
// ignored so files written by newer versions still load. A missing,
// unreadable or malformed file is reported as a warning and leaves the
// in-memory configuration untouched.
func (c *Config) Reload(logger *zap.Logger) {
	path := c.ConfigFile()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Unable to read renderer settings file",
				zap.String("path", path), zap.Error(err))
		}
		return
	}

	var props map[string]any
	if err := json.Unmarshal(data, &props); err != nil {
		logger.Warn("Renderer settings file is not valid JSON",
			zap.String("path", path), zap.Error(err))
		return
	}

	for key, val := range props {
		if err := c.applyProperty(key, val); err != nil {
			logger.Warn("Ignoring invalid renderer setting",
				zap.String("key", key), zap.Error(err))
		}
	}
}

func (c *Config) applyProperty(key string, val any) error {
	switch key {
	case "executable":
		return c.SetExecutable(utils.ToString(val))
	case "port":
		return c.SetPort(utils.ToInt(val))
	case "timeout":
		return c.SetTimeout(time.Duration(utils.ToFloat(val) * float64(time.Second)))
	case "default_format":
		return c.SetDefaultFormat(utils.ToString(val))
	case "default_width":
		return c.SetDefaultWidth(utils.ToInt(val))
	case "default_height":
		return c.SetDefaultHeight(utils.ToInt(val))
	case "default_scale":
		return c.SetDefaultScale(utils.ToFloat(val))
	case "plotlyjs":
		c.SetPlotlyjs(utils.ToString(val))
	case "topojson":
		c.SetTopojson(utils.ToString(val))
	case "mathjax":
		c.SetMathjax(utils.ToString(val))
	case "mapbox_access_token":
		c.SetMapboxAccessToken(utils.ToString(val))
	}
	// Unknown keys fall through untouched.
	return nil
}
