package renderer

// State describes how far the supervisor has progressed with the external
// render server. The progression is strict: a server can only be running
// after its executable has been validated.
type State string

const (
	// StateUnvalidated means the executable has not yet been located or probed.
	StateUnvalidated State = "unvalidated"
	// StateValidated means the executable was located and probed successfully,
	// but no server process is running.
	StateValidated State = "validated"
	// StateRunning means a render server process is currently alive.
	StateRunning State = "running"
)

// Status is a read-only snapshot of the supervisor state. Executable and
// Version are populated once the executable has been validated; PID, Port and
// Command only while a server process is running.
type Status struct {
	State      State    `json:"state"`
	Executable string   `json:"executable,omitempty"`
	Version    string   `json:"version,omitempty"`
	PID        int      `json:"pid,omitempty"`
	Port       int      `json:"port,omitempty"`
	Command    []string `json:"command,omitempty"`
}
