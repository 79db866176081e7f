package renderer_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"render-manager/core/renderer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRenderServer stands in for the rendering endpoint: the supervised stub
// process only sleeps, while the configured fixed port is owned by a local
// HTTP server under test control.
func fakeRenderServer(t *testing.T, handler http.Handler) int {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	_, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return port
}

func TestClient_Render(t *testing.T) {
	var attempts atomic.Int32
	var gotBody []byte

	port := fakeRenderServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte("fake-image-bytes"))
	}))

	sup := newStubSupervisor(t, stubScript)
	require.NoError(t, sup.Config().SetPort(port))
	client := renderer.NewClient(sup)

	data, err := client.Render(context.Background(), renderer.Request{
		Figure: map[string]any{"data": []any{}},
		Format: "png",
		Width:  800,
	})

	require.NoError(t, err)
	assert.Equal(t, []byte("fake-image-bytes"), data)
	assert.Equal(t, int32(1), attempts.Load())

	// Unset fields are omitted, not sent as null.
	var payload map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Contains(t, payload, "figure")
	assert.Contains(t, payload, "format")
	assert.Contains(t, payload, "width")
	assert.NotContains(t, payload, "height")
	assert.NotContains(t, payload, "scale")
}

func TestClient_ServerErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32

	port := fakeRenderServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("figure is not valid"))
	}))

	sup := newStubSupervisor(t, stubScript)
	require.NoError(t, sup.Config().SetPort(port))
	client := renderer.NewClient(sup)

	_, err := client.Render(context.Background(), renderer.Request{Figure: map[string]any{}})

	var renderErr *renderer.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, http.StatusInternalServerError, renderErr.StatusCode)
	assert.Contains(t, renderErr.Message, "figure is not valid")
	assert.Equal(t, int32(1), attempts.Load(), "server failures must not be retried")
}

func TestClient_RetriesUntilServerReady(t *testing.T) {
	// Reserve a port but delay the listener, simulating the window between
	// process spawn and the server socket accepting connections.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	go func() {
		time.Sleep(300 * time.Millisecond)
		ln, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(port))
		if err != nil {
			return
		}
		srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("late-image"))
		})}
		_ = srv.Serve(ln)
	}()

	sup := newStubSupervisor(t, stubScript)
	require.NoError(t, sup.Config().SetPort(port))
	client := renderer.NewClient(sup)

	data, err := client.Render(context.Background(), renderer.Request{Figure: map[string]any{}})

	require.NoError(t, err)
	assert.Equal(t, []byte("late-image"), data)
}

func TestClient_ValidationFailureNotRetried(t *testing.T) {
	cfg := renderer.DefaultConfig()
	require.NoError(t, cfg.SetExecutable("definitely-not-installed-anywhere"))
	sup := renderer.NewSupervisor(cfg, zap.NewNop())
	client := renderer.NewClient(sup)

	start := time.Now()
	_, err := client.Render(context.Background(), renderer.Request{Figure: map[string]any{}})

	var notFound *renderer.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Less(t, time.Since(start), 5*time.Second, "fatal errors must not burn the retry budget")
}
