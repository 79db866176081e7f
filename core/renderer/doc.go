// Package renderer supervises the external image-rendering executable.
//
// The renderer (plotly's orca) runs as a background server process bound to a
// localhost TCP port. This package locates and validates the executable,
// launches exactly one server instance on demand, retires it after a
// configurable idle period, and dispatches render requests to it over HTTP.
//
// # Supervisor
//
// The Supervisor is the single synchronization point: any number of
// goroutines may call EnsureRunning concurrently and at most one server
// process is ever spawned. Launch and shutdown use double-checked locking so
// the common already-running path stays off the lock.
//
// # Configuration
//
// Config exposes validating setters for every tunable parameter. Setters
// that change how the server is launched (executable, asset bundle paths)
// force-stop a running server before returning. Settings can be persisted to
// and reloaded from a per-user JSON file.
//
// # Client
//
// The Client posts JSON render requests to the running server and retries
// connection-level failures with randomized backoff, absorbing the brief
// window between process spawn and the server socket accepting connections.
//
// # Usage
//
//	cfg := renderer.DefaultConfig()
//	sup := renderer.NewSupervisor(cfg, logger)
//	defer sup.Shutdown()
//
//	client := renderer.NewClient(sup)
//	img, err := client.Render(ctx, renderer.Request{Figure: fig, Format: "png"})
package renderer
