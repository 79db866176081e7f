package renderer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// identityMarker must appear (case-insensitively) in the --help output of a
// genuine renderer executable.
const identityMarker = "plotly"

// altExecutable is tried when the default executable name is not found.
// npm installs expose the tool as orca.js rather than orca.
const altExecutable = "orca.js"

// probeTimeout bounds each validation probe so a wedged binary cannot hang
// the caller forever.
const probeTimeout = 30 * time.Second

// Validate locates the configured executable and probes it for identity and
// version. On success the status moves from unvalidated to validated and the
// resolved path and version are recorded. It is a no-op when the executable
// has already been validated or a server is running.
//
// The minimum supported renderer version is 1.1.0; older releases do not
// understand the --graph-only launch flag. This is a documented precondition,
// not a runtime check.
func (s *Supervisor) Validate(ctx context.Context) error {
	if s.Status().State != StateUnvalidated {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.State != StateUnvalidated {
		return nil
	}

	path, err := locateExecutable(s.cfg.Executable())
	if err != nil {
		return err
	}

	if err := probeIdentity(ctx, path); err != nil {
		return err
	}

	version, err := probeVersion(ctx, path)
	if err != nil {
		return err
	}

	s.status.Executable = path
	s.status.Version = version
	s.status.State = StateValidated
	s.logger.Debug("Validated renderer executable",
		zap.String("path", path), zap.String("version", version))
	return nil
}

// locateExecutable resolves a name or path against the system search path.
// A value containing a path separator is treated as a literal path and
// bypasses the search. When the default name is not found, the npm variant
// is tried before giving up.
func locateExecutable(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil && name == DefaultExecutable {
		path, err = exec.LookPath(altExecutable)
	}
	if err != nil {
		return "", &NotFoundError{
			Executable: name,
			SearchPath: os.Getenv("PATH"),
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// probeIdentity runs the executable with --help and requires the output to
// mention the tool's name. Anything else is some unrelated binary that
// happens to share the configured name.
func probeIdentity(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--help").Output()
	if err != nil {
		return &InvalidExecutableError{Path: path}
	}
	if !strings.Contains(strings.ToLower(string(out)), identityMarker) {
		return &InvalidExecutableError{Path: path}
	}
	return nil
}

// probeVersion runs the executable with --version and returns the trimmed
// output. A failed run or empty output is a VersionError.
func probeVersion(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", &VersionError{Path: path, Detail: err.Error()}
	}

	version := strings.TrimSpace(string(out))
	if version == "" {
		return "", &VersionError{Path: path, Detail: "no version was reported"}
	}
	return version, nil
}
