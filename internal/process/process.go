// Package process starts build commands and exposes their output streams
// and exit status independently of each other.
package process

import (
	"context"
	"io"
)

// Spawner starts a command.
type Spawner interface {
	// Spawn starts command with args in dir. A failure to start is a *domain.SpawnError.
	Spawn(ctx context.Context, command string, args []string, dir string) (Handle, error)
}

// Handle is a running process.
//
// Stdout and Stderr end with io.EOF once the process and every child holding
// the stream have closed it. Wait returns as soon as the process exits, even if
// the streams still hold unread data.
type Handle interface {
	Pid() int
	Stdout() io.Reader
	Stderr() io.Reader
	// Wait blocks until the process exits and returns its exit code.
	// A nonzero exit is not an error. The code is -1 when the process was
	// killed by a signal or could not be waited on.
	Wait() (int, error)
	// Close releases the streams, killing the process group first if the
	// spawn context is done. Safe to call more than once.
	Close() error
}
