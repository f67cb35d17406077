package build

import (
	"context"
	"io"

	"github.com/richhaase/buildwatch/internal/process"
)

type fakeSpawner struct {
	handle *fakeHandle
	calls  int
	args   []string
}

func (s *fakeSpawner) Spawn(_ context.Context, _ string, args []string, _ string) (process.Handle, error) {
	s.calls++
	s.args = args
	return s.handle, nil
}

type fakeHandle struct {
	stdout io.Reader
	stderr io.Reader
	code   chan int
}

func newFakeHandle(stdout, stderr io.Reader) *fakeHandle {
	return &fakeHandle{stdout: stdout, stderr: stderr, code: make(chan int, 1)}
}

func (h *fakeHandle) exit(code int) { h.code <- code }

func (h *fakeHandle) Pid() int          { return 4242 }
func (h *fakeHandle) Stdout() io.Reader { return h.stdout }
func (h *fakeHandle) Stderr() io.Reader { return h.stderr }
func (h *fakeHandle) Close() error      { return nil }

func (h *fakeHandle) Wait() (int, error) {
	return <-h.code, nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

// chunkedReader returns one chunk per Read call.
type chunkedReader struct {
	chunks []string
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if r.chunks[0] == "" {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}
