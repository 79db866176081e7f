package renderer

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultExecutable is the name searched on the system path when no
	// explicit executable has been configured.
	DefaultExecutable = "orca"

	// DefaultMathjax is the MathJax bundle used to render LaTeX characters
	// when no local bundle has been configured.
	DefaultMathjax = "https://cdnjs.cloudflare.com/ajax/libs/mathjax/2.7.5/MathJax.js"
)

// Settings carries the renderer section of the application configuration.
// It is the viper-facing counterpart of Config: plain fields with defaults,
// applied through the validating setters by ApplySettings.
type Settings struct {
	// Executable is the name or full path of the renderer executable.
	Executable string `mapstructure:"executable" default:"orca"`
	// Port is the fixed server port. 0 picks an ephemeral port per launch.
	Port int `mapstructure:"port" default:"0"`
	// TimeoutSeconds is the idle period after which a running server is shut
	// down. 0 disables the idle shutdown.
	TimeoutSeconds float64 `mapstructure:"timeout_seconds" default:"0"`
	// DefaultFormat is the image format used when a request omits one.
	DefaultFormat string `mapstructure:"default_format" default:"png"`
	// DefaultWidth is the image width used when a request omits one.
	// 0 lets the server decide.
	DefaultWidth int `mapstructure:"default_width" default:"0"`
	// DefaultHeight is the image height used when a request omits one.
	DefaultHeight int `mapstructure:"default_height" default:"0"`
	// DefaultScale is the resolution scale factor used when a request omits one.
	DefaultScale float64 `mapstructure:"default_scale" default:"1"`
	// Plotlyjs is the path of a local plotly.js bundle passed to the server.
	Plotlyjs string `mapstructure:"plotlyjs" default:""`
	// Topojson is the path of local topojson files for choropleth traces.
	// Empty means the server fetches them from the CDN.
	Topojson string `mapstructure:"topojson" default:""`
	// Mathjax is the MathJax bundle location.
	Mathjax string `mapstructure:"mathjax" default:"https://cdnjs.cloudflare.com/ajax/libs/mathjax/2.7.5/MathJax.js"`
	// MapboxAccessToken is required to render mapbox traces.
	MapboxAccessToken string `mapstructure:"mapbox_access_token" default:""`
}

// Config holds the user-tunable renderer parameters. All mutation goes
// through setter methods that validate their input; an invalid value is
// rejected with a ConfigError and nothing is applied.
//
// Setters that change how the server is launched (executable, asset paths)
// force-stop a running server before returning, so the next render observes
// a consistent configuration. The hooks doing that are installed by the
// Supervisor when it takes ownership of the Config.
type Config struct {
	mu sync.RWMutex

	executable        string
	port              int
	timeout           time.Duration
	defaultFormat     string
	defaultWidth      int
	defaultHeight     int
	defaultScale      float64
	plotlyjs          string
	topojson          string
	mathjax           string
	mapboxAccessToken string

	configFile string

	// stopServer shuts down a running server; resetServer additionally drops
	// the executable validation. Both are no-ops until a Supervisor binds.
	stopServer  func()
	resetServer func()
}

// DefaultConfig returns a Config with the library defaults applied.
func DefaultConfig() *Config {
	return &Config{
		executable:    DefaultExecutable,
		defaultFormat: "png",
		defaultScale:  1,
		mathjax:       DefaultMathjax,
	}
}

// ApplySettings applies a loaded Settings section through the validating
// setters. The first invalid value aborts with an error.
func (c *Config) ApplySettings(s Settings) error {
	if err := c.SetExecutable(s.Executable); err != nil {
		return err
	}
	if err := c.SetPort(s.Port); err != nil {
		return err
	}
	if err := c.SetTimeout(time.Duration(s.TimeoutSeconds * float64(time.Second))); err != nil {
		return err
	}
	if s.DefaultFormat != "" {
		if err := c.SetDefaultFormat(s.DefaultFormat); err != nil {
			return err
		}
	}
	if err := c.SetDefaultWidth(s.DefaultWidth); err != nil {
		return err
	}
	if err := c.SetDefaultHeight(s.DefaultHeight); err != nil {
		return err
	}
	if s.DefaultScale != 0 {
		if err := c.SetDefaultScale(s.DefaultScale); err != nil {
			return err
		}
	}
	c.SetPlotlyjs(s.Plotlyjs)
	c.SetTopojson(s.Topojson)
	c.SetMathjax(s.Mathjax)
	c.SetMapboxAccessToken(s.MapboxAccessToken)
	return nil
}

// bind installs the supervisor hooks invoked by launch-affecting setters.
func (c *Config) bind(stop, reset func()) {
	c.mu.Lock()
	c.stopServer = stop
	c.resetServer = reset
	c.mu.Unlock()
}

// invalidate runs the bound hook outside the config lock. Hooks acquire the
// supervisor lock, and the supervisor reads config values under it, so
// holding both at once would invert the lock order.
func (c *Config) invalidate(reset bool) {
	c.mu.RLock()
	stop, rst := c.stopServer, c.resetServer
	c.mu.RUnlock()
	if reset && rst != nil {
		rst()
	} else if !reset && stop != nil {
		stop()
	}
}

// Executable returns the configured executable name or path.
func (c *Config) Executable() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.executable
}

// SetExecutable sets the renderer executable name or path. An empty value
// restores the default. Any running server is stopped and the executable
// validation is dropped, so the next render re-validates.
func (c *Config) SetExecutable(v string) error {
	if v == "" {
		v = DefaultExecutable
	}
	c.mu.Lock()
	c.executable = v
	c.mu.Unlock()

	c.invalidate(true)
	return nil
}

// Port returns the configured server port, 0 meaning ephemeral.
func (c *Config) Port() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.port
}

// SetPort sets a fixed server port. 0 restores the ephemeral behavior.
func (c *Config) SetPort(v int) error {
	if v < 0 || v > 65535 {
		return &ConfigError{Property: "port", Detail: fmt.Sprintf("%d is not a valid TCP port", v)}
	}
	c.mu.Lock()
	c.port = v
	c.mu.Unlock()
	return nil
}

// Timeout returns the idle period after which a running server is shut down.
// 0 means the server is never shut down automatically.
func (c *Config) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

// SetTimeout sets the idle shutdown period. 0 disables the idle shutdown.
func (c *Config) SetTimeout(v time.Duration) error {
	if v < 0 {
		return &ConfigError{Property: "timeout", Detail: "must not be negative"}
	}
	c.mu.Lock()
	c.timeout = v
	c.mu.Unlock()
	return nil
}

// DefaultFormat returns the image format applied when a request omits one.
func (c *Config) DefaultFormat() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultFormat
}

// SetDefaultFormat sets the default image format. The value is coerced the
// same way request formats are ("JPG" and ".jpg" both become "jpeg").
func (c *Config) SetDefaultFormat(v string) error {
	coerced, err := CoerceFormat(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.defaultFormat = coerced
	c.mu.Unlock()
	return nil
}

// DefaultWidth returns the image width applied when a request omits one.
func (c *Config) DefaultWidth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultWidth
}

// SetDefaultWidth sets the default image width. 0 lets the server decide.
func (c *Config) SetDefaultWidth(v int) error {
	if v < 0 {
		return &ConfigError{Property: "default_width", Detail: "must not be negative"}
	}
	c.mu.Lock()
	c.defaultWidth = v
	c.mu.Unlock()
	return nil
}

// DefaultHeight returns the image height applied when a request omits one.
func (c *Config) DefaultHeight() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultHeight
}

// SetDefaultHeight sets the default image height. 0 lets the server decide.
func (c *Config) SetDefaultHeight(v int) error {
	if v < 0 {
		return &ConfigError{Property: "default_height", Detail: "must not be negative"}
	}
	c.mu.Lock()
	c.defaultHeight = v
	c.mu.Unlock()
	return nil
}

// DefaultScale returns the scale factor applied when a request omits one.
func (c *Config) DefaultScale() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultScale
}

// SetDefaultScale sets the default resolution scale factor.
func (c *Config) SetDefaultScale(v float64) error {
	if v <= 0 {
		return &ConfigError{Property: "default_scale", Detail: "must be positive"}
	}
	c.mu.Lock()
	c.defaultScale = v
	c.mu.Unlock()
	return nil
}

// Plotlyjs returns the configured plotly.js bundle path.
func (c *Config) Plotlyjs() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.plotlyjs
}

// SetPlotlyjs sets the plotly.js bundle path passed to the server at launch.
// A running server is stopped so the next render picks up the new bundle.
func (c *Config) SetPlotlyjs(v string) {
	c.mu.Lock()
	c.plotlyjs = v
	c.mu.Unlock()
	c.invalidate(false)
}

// Topojson returns the configured topojson path.
func (c *Config) Topojson() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topojson
}

// SetTopojson sets the path of local topojson files needed to render
// choropleth traces. A running server is stopped.
func (c *Config) SetTopojson(v string) {
	c.mu.Lock()
	c.topojson = v
	c.mu.Unlock()
	c.invalidate(false)
}

// Mathjax returns the configured MathJax bundle location.
func (c *Config) Mathjax() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mathjax
}

// SetMathjax sets the MathJax bundle location needed to render LaTeX
// characters. A running server is stopped.
func (c *Config) SetMathjax(v string) {
	c.mu.Lock()
	c.mathjax = v
	c.mu.Unlock()
	c.invalidate(false)
}

// MapboxAccessToken returns the configured mapbox access token.
func (c *Config) MapboxAccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mapboxAccessToken
}

// SetMapboxAccessToken sets the token required to render mapbox traces.
// A running server is stopped.
func (c *Config) SetMapboxAccessToken(v string) {
	c.mu.Lock()
	c.mapboxAccessToken = v
	c.mu.Unlock()
	c.invalidate(false)
}
