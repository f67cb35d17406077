package parse

import (
	"context"
	"io"

	"github.com/richhaase/buildwatch/internal/domain"
)

// ChunkSize is the read size used when pumping a reader into an engine.
const ChunkSize = 32 * 1024

// chunkBacklog bounds how far the reader may run ahead of the engine.
const chunkBacklog = 8

type message struct {
	data []byte
	err  error
}

// Run pumps r into the engine until EOF, a read error, or ctx is done, then
// calls End or Fail accordingly. Reads happen on a separate goroutine and are
// handed over through a bounded channel; the engine runs on the caller's
// goroutine, so the handler is never called concurrently.
//
// When ctx is done first, Run returns without waiting for a blocked Read.
func (e *Engine) Run(ctx context.Context, r io.Reader) (domain.ParsedLog, error) {
	chunks := make(chan message, chunkBacklog)
	stop := make(chan struct{})
	defer close(stop)

	go pump(r, chunks, stop)

	for {
		select {
		case <-ctx.Done():
			return e.Fail(ctx.Err())
		case msg, ok := <-chunks:
			if !ok {
				return e.End()
			}
			if msg.err != nil {
				return e.Fail(msg.err)
			}
			if err := e.Feed(msg.data); err != nil {
				return e.Log(), err
			}
		}
	}
}

// pump reads r in ChunkSize pieces. A closed channel means EOF.
func pump(r io.Reader, out chan<- message, stop <-chan struct{}) {
	send := func(m message) bool {
		select {
		case out <- m:
			return true
		case <-stop:
			return false
		}
	}

	for {
		buf := make([]byte, ChunkSize)
		n, err := r.Read(buf)
		if n > 0 && !send(message{data: buf[:n]}) {
			return
		}
		if err == io.EOF {
			close(out)
			return
		}
		if err != nil {
			send(message{err: err})
			return
		}
	}
}
