package renderer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

// killGrace is how long Shutdown waits after terminating the server before
// escalating to a hard kill.
const killGrace = 5 * time.Second

// Supervisor owns the external render server process: it launches at most one
// instance, arms the idle shutdown timer, and tears the process down again.
// All mutable state is guarded by a single mutex; Status returns copies so
// readers never observe partial updates.
type Supervisor struct {
	cfg    *Config
	logger *zap.Logger

	// alive is the unlocked fast-path predicate for the double-checked
	// locking in EnsureRunning and Shutdown.
	alive atomic.Bool

	mu         sync.Mutex
	cmd        *exec.Cmd
	procDone   chan struct{}
	activePort int
	idleTimer  *time.Timer
	status     Status
}

// NewSupervisor creates a supervisor owning the given configuration. The
// launch-affecting config setters are bound to it, so changing the executable
// or an asset path stops a running server before the setter returns.
func NewSupervisor(cfg *Config, logger *zap.Logger) *Supervisor {
	s := &Supervisor{
		cfg:    cfg,
		logger: logger,
		status: Status{State: StateUnvalidated},
	}
	cfg.bind(s.Shutdown, s.Reset)
	return s
}

// Config returns the configuration owned by this supervisor.
func (s *Supervisor) Config() *Config {
	return s.cfg
}

// Status returns a snapshot of the supervisor state. The snapshot may lag a
// concurrent transition by one operation; callers needing exact state must
// serialize through EnsureRunning or Shutdown.
func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.status
	snap.Command = append([]string(nil), s.status.Command...)
	return snap
}

// EnsureRunning makes sure a validated render server process is alive and
// re-arms the idle shutdown timer. The common already-running case takes the
// unlocked fast path; launching is serialized and re-checks under the lock
// because concurrent callers race to be the one that spawns.
func (s *Supervisor) EnsureRunning(ctx context.Context) error {
	if err := s.Validate(ctx); err != nil {
		return err
	}

	if s.alive.Load() {
		s.mu.Lock()
		if s.cmd != nil {
			s.armTimerLocked()
			s.mu.Unlock()
			return nil
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil {
		if err := s.launchLocked(); err != nil {
			return err
		}
	}
	s.armTimerLocked()
	return nil
}

// launchLocked spawns the render server. Callers hold s.mu.
func (s *Supervisor) launchLocked() error {
	port := s.cfg.Port()
	if port == 0 {
		var err error
		if port, err = findOpenPort(); err != nil {
			return fmt.Errorf("failed to find an open port: %w", err)
		}
	}

	argv := s.launchCommand(port)
	cmd := exec.Command(argv[0], argv[1:]...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to capture render server output: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch render server: %w", err)
	}

	done := make(chan struct{})
	s.cmd = cmd
	s.procDone = done
	s.activePort = port
	s.status.State = StateRunning
	s.status.PID = cmd.Process.Pid
	s.status.Port = port
	s.status.Command = argv
	s.alive.Store(true)

	go s.drainOutput(stdout)
	go s.watch(cmd, done)

	s.logger.Info("Launched render server",
		zap.Int("pid", cmd.Process.Pid), zap.Int("port", port))
	return nil
}

// launchCommand assembles the server argv. The argument order is fixed for
// reproducibility: serve mode, port, graph-only, then optional asset flags.
func (s *Supervisor) launchCommand(port int) []string {
	argv := []string{
		s.status.Executable,
		"serve",
		"-p", strconv.Itoa(port),
		"--graph-only",
	}
	if v := s.cfg.Plotlyjs(); v != "" {
		argv = append(argv, "--plotly", v)
	}
	if v := s.cfg.Topojson(); v != "" {
		argv = append(argv, "--topojson", v)
	}
	if v := s.cfg.Mathjax(); v != "" {
		argv = append(argv, "--mathjax", v)
	}
	if v := s.cfg.MapboxAccessToken(); v != "" {
		argv = append(argv, "--mapbox-access-token", v)
	}
	return argv
}

// drainOutput forwards server stdout to the logger. The pipe must be drained
// or the child blocks once its stdout buffer fills.
func (s *Supervisor) drainOutput(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s.logger.Debug("render server", zap.String("output", scanner.Text()))
	}
}

// watch reaps the process and, when it exited on its own rather than through
// Shutdown, clears the running state so the next render relaunches. A server
// that lost an ephemeral-port race dies here shortly after launch; the
// relaunch picks a fresh port.
func (s *Supervisor) watch(cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()
	close(done)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd != cmd {
		// Shutdown already reclaimed this process.
		return
	}
	s.logger.Warn("Render server exited unexpectedly", zap.Error(err))
	s.clearRunningLocked()
}

// Shutdown stops the running render server process, if any. It is idempotent
// and never returns an error: a failed teardown is logged and the state still
// leaves running, so a dead server is never reported as alive.
func (s *Supervisor) Shutdown() {
	if !s.alive.Load() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil {
		return
	}

	pid := s.cmd.Process.Pid
	done := s.procDone

	// The renderer spawns helper children; terminate the descendants first
	// so none of them outlive the parent.
	s.terminateTree(pid)

	select {
	case <-done:
	case <-time.After(killGrace):
		s.logger.Warn("Render server did not exit in time, killing", zap.Int("pid", pid))
		if err := s.cmd.Process.Kill(); err != nil {
			s.logger.Warn("Failed to kill render server", zap.Int("pid", pid), zap.Error(err))
		}
		<-done
	}

	s.logger.Info("Stopped render server", zap.Int("pid", pid))
	s.clearRunningLocked()
}

// Reset shuts down any running server and drops the executable validation,
// returning the supervisor to its initial state. Used when the configured
// executable changes.
func (s *Supervisor) Reset() {
	s.Shutdown()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Status{State: StateUnvalidated}
}

// terminateTree terminates a process and all of its descendants, children
// first. Best effort: a process that already exited is skipped.
func (s *Supervisor) terminateTree(pid int) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return
	}

	for _, child := range descendants(proc) {
		if err := child.Terminate(); err != nil {
			s.logger.Debug("Failed to terminate render server child",
				zap.Int32("pid", child.Pid), zap.Error(err))
		}
	}
	if err := proc.Terminate(); err != nil {
		s.logger.Debug("Failed to terminate render server",
			zap.Int("pid", pid), zap.Error(err))
	}
}

// descendants walks the process tree breadth-first and returns every process
// below the given one.
func descendants(proc *process.Process) []*process.Process {
	var all []*process.Process
	queue := []*process.Process{proc}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		children, err := p.Children()
		if err != nil {
			continue
		}
		all = append(all, children...)
		queue = append(queue, children...)
	}
	return all
}

// clearRunningLocked resets the running-only state while keeping the
// validation results. Callers hold s.mu.
func (s *Supervisor) clearRunningLocked() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}
	s.cmd = nil
	s.procDone = nil
	s.activePort = 0
	s.alive.Store(false)

	s.status.State = StateValidated
	s.status.PID = 0
	s.status.Port = 0
	s.status.Command = nil
}

// armTimerLocked cancels any pending idle timer and arms a fresh one when an
// idle timeout is configured. Callers hold s.mu, so a firing timer cannot
// race a re-arm.
func (s *Supervisor) armTimerLocked() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}
	if timeout := s.cfg.Timeout(); timeout > 0 {
		s.idleTimer = time.AfterFunc(timeout, s.Shutdown)
	}
}

// findOpenPort reserves an ephemeral port by briefly binding a socket and
// reading back the assigned number.
func findOpenPort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()
	return port, nil
}
