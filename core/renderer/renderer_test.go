package renderer_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"render-manager/core/renderer"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubScript behaves like a minimal orca: it answers the identity and version
// probes and blocks forever in serve mode.
const stubScript = `#!/bin/sh
case "$1" in
  --help) echo "Plotly's image-exporting utility" ;;
  --version) echo "1.2.3" ;;
  serve) while :; do sleep 1; done ;;
esac
`

// writeStub writes an executable stub script and returns its path.
func writeStub(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub renderer scripts require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// newStubSupervisor builds a supervisor configured with a stub renderer and
// registers its shutdown as test cleanup.
func newStubSupervisor(t *testing.T, script string) *renderer.Supervisor {
	t.Helper()

	cfg := renderer.DefaultConfig()
	require.NoError(t, cfg.SetExecutable(writeStub(t, "orca", script)))

	sup := renderer.NewSupervisor(cfg, zap.NewNop())
	t.Cleanup(sup.Shutdown)
	return sup
}
