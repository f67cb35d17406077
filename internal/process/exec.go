package process

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/richhaase/buildwatch/internal/domain"
)

// Exec spawns real OS processes.
type Exec struct {
	// Env overrides the child environment when non-nil.
	Env []string
}

// Spawn implements Spawner.
//
// Output is delivered through OS pipes rather than exec's copying goroutines,
// so process exit is observable while the streams are still draining. The
// child gets its own process group; cancelling ctx kills the whole group.
func (x Exec) Spawn(ctx context.Context, command string, args []string, dir string) (Handle, error) {
	// #nosec G204 - running the user's build command is the purpose of this tool.
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir
	cmd.Env = x.Env

	// Set process group so cancellation reaches make's children too
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return killGroup(cmd.Process.Pid)
	}

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, spawnError(command, dir, errors.Wrap(err, "failed to create stdout pipe"))
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		closeAll(stdoutR, stdoutW)
		return nil, spawnError(command, dir, errors.Wrap(err, "failed to create stderr pipe"))
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	if err := cmd.Start(); err != nil {
		closeAll(stdoutR, stdoutW, stderrR, stderrW)
		return nil, spawnError(command, dir, err)
	}

	// The child holds its own copies of the write ends.
	closeAll(stdoutW, stderrW)

	return &execHandle{
		cmd:    cmd,
		ctx:    ctx,
		stdout: stdoutR,
		stderr: stderrR,
	}, nil
}

func spawnError(command, dir string, err error) error {
	var serr error = &domain.SpawnError{Command: command, Dir: dir, Err: err}
	switch {
	case errors.Is(err, exec.ErrNotFound):
		serr = errors.WithHintf(serr, "check that %s is installed and on PATH", command)
	case errors.Is(err, os.ErrNotExist) && dir != "":
		serr = errors.WithHintf(serr, "check that the working directory %s exists", dir)
	case errors.Is(err, os.ErrPermission):
		serr = errors.WithHint(serr, "check that the command is executable")
	}
	return serr
}

func killGroup(pid int) error {
	// Ignore errors - the group may already be gone
	_ = syscall.Kill(-pid, syscall.SIGKILL)
	return nil
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

type execHandle struct {
	cmd    *exec.Cmd
	ctx    context.Context
	stdout *os.File
	stderr *os.File

	waitOnce sync.Once
	exitCode int
	waitErr  error

	closeOnce sync.Once
}

func (h *execHandle) Pid() int          { return h.cmd.Process.Pid }
func (h *execHandle) Stdout() io.Reader { return h.stdout }
func (h *execHandle) Stderr() io.Reader { return h.stderr }

func (h *execHandle) Wait() (int, error) {
	h.waitOnce.Do(func() {
		err := h.cmd.Wait()
		if err == nil {
			h.exitCode = 0
			return
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			h.exitCode = exitErr.ExitCode()
			return
		}
		h.exitCode = -1
		h.waitErr = errors.Wrapf(err, "waiting for %s", h.cmd.Path)
	})
	return h.exitCode, h.waitErr
}

func (h *execHandle) Close() error {
	h.closeOnce.Do(func() {
		if h.ctx.Err() != nil {
			_ = killGroup(h.cmd.Process.Pid)
		}
		closeAll(h.stdout, h.stderr)
	})
	return nil
}
