package renderer

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// installInstructions is appended to fatal locator errors so users know how
// to get a working executable without digging through documentation.
const installInstructions = `If you haven't installed orca yet, you can do so using conda:

    $ conda install -c plotly plotly-orca

For other installation approaches, see the orca project README at
https://github.com/plotly/orca.

If orca is installed but could not be located, point the renderer at it
explicitly, for example:

    $ render-manager export --help
    $ RENDERER_EXECUTABLE=/path/to/orca render-manager serve`

// ConfigError reports an invalid configuration value. The offending value is
// never applied; the previous configuration remains in effect.
type ConfigError struct {
	Property string
	Detail   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Property, e.Detail)
}

// NotFoundError reports that the configured executable could not be resolved
// on the system path.
type NotFoundError struct {
	Executable string
	SearchPath string
}

func (e *NotFoundError) Error() string {
	formatted := strings.ReplaceAll(e.SearchPath, string(os.PathListSeparator), "\n    ")
	return fmt.Sprintf(`the renderer executable is required in order to export figures as static images, but it could not be found on the system path.

Searched for executable %q on the following path:
    %s

%s`, e.Executable, formatted, installInstructions)
}

// InvalidExecutableError reports that a binary was found but failed the
// identity probe, i.e. it is not the expected rendering tool.
type InvalidExecutableError struct {
	Path string
}

func (e *InvalidExecutableError) Error() string {
	return fmt.Sprintf(`the executable found at %q does not appear to be a valid plotly orca executable.

%s`, e.Path, installInstructions)
}

// VersionError reports that the identity probe succeeded but the version
// probe failed or returned nothing.
type VersionError struct {
	Path   string
	Detail string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf(`failed to determine the version of the renderer executable.

Here is the command that was run to request the version:

    $ %s --version

%s`, e.Path, e.Detail)
}

// FormatError reports an image format designation that is not supported.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	valid := append([]string(nil), ValidFormats...)
	valid = append(valid, "jpg")
	sort.Strings(valid)
	return fmt.Sprintf("invalid image format %q; must be one of: %s",
		e.Value, strings.Join(valid, ", "))
}

// RenderError reports a failed render request: either the server returned a
// failure response, or no response arrived within the retry budget.
type RenderError struct {
	StatusCode int
	Message    string
}

func (e *RenderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("render server returned status %d: %s", e.StatusCode, e.Message)
	}
	return "render request failed: " + e.Message
}
