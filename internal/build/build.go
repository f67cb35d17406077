package build

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/richhaase/buildwatch/internal/domain"
	"github.com/richhaase/buildwatch/internal/parse"
	"github.com/richhaase/buildwatch/internal/process"
)

// Build is a launch in progress.
type Build struct {
	ID   string
	Spec domain.LaunchSpec

	handle  process.Handle
	engine  *parse.Engine
	handler Handler
	logger  *zap.Logger
	start   time.Time

	done   chan struct{}
	result *domain.BuildResult
	err    error
}

// Pid returns the build process id.
func (b *Build) Pid() int { return b.handle.Pid() }

// Done is closed when the build has finished.
func (b *Build) Done() <-chan struct{} { return b.done }

// Wait blocks until the build has finished and returns its result.
func (b *Build) Wait() (*domain.BuildResult, error) {
	<-b.done
	return b.result, b.err
}

type chunk struct {
	stream Stream
	data   []byte
	err    error
	eof    bool
}

type exitStatus struct {
	code int
	err  error
}

// run is the launch event loop. Stream readers and the exit waiter only send
// messages; every notification is produced here.
func (b *Build) run(ctx context.Context) {
	defer close(b.done)
	defer func() { _ = b.handle.Close() }()

	chunks := make(chan chunk, 16)
	var readers errgroup.Group
	readers.Go(func() error { return readStream(StreamStdout, b.handle.Stdout(), chunks) })
	readers.Go(func() error { return readStream(StreamStderr, b.handle.Stderr(), chunks) })
	go func() {
		_ = readers.Wait()
		close(chunks)
	}()

	exited := make(chan exitStatus, 1)
	go func() {
		code, err := b.handle.Wait()
		exited <- exitStatus{code: code, err: err}
	}()

	// BuildDone follows every entry, so it waits for both the exit status
	// and the end of stderr.
	var exit *exitStatus
	stderrDone := false
	for chunks != nil || exited != nil {
		select {
		case c, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			b.onChunk(c)
			if c.stream == StreamStderr && (c.eof || c.err != nil) {
				stderrDone = true
				if exit != nil {
					b.onExit(*exit)
				}
			}
		case st := <-exited:
			exited = nil
			if stderrDone {
				b.onExit(st)
			} else {
				exit = &st
			}
		}
	}

	b.result.Duration = time.Since(b.start)
	if err := ctx.Err(); err != nil {
		b.err = errors.Wrap(err, "build interrupted")
	}
	b.logger.Debug("build finished",
		zap.Int("exit_code", b.result.ExitCode),
		zap.Stringer("duration", b.result.Duration),
		zap.Int("entries", len(b.result.Log.Entries)),
	)
}

func (b *Build) onChunk(c chunk) {
	switch {
	case len(c.data) > 0:
		b.notify(RawOutput{Stream: c.stream, Text: string(c.data)})
		if c.stream == StreamStderr {
			if err := b.engine.Feed(c.data); err != nil {
				b.logger.Warn("feed rejected", zap.Error(err))
			}
		}
	case c.stream == StreamStdout && c.err != nil:
		b.result.SystemWarnings++
		b.notify(SystemWarning{Err: errors.Wrap(c.err, "reading stdout")})
	case c.stream == StreamStderr && c.err != nil:
		log, err := b.engine.Fail(c.err)
		b.result.Log = log
		b.result.ParseErr = err
	case c.stream == StreamStderr && c.eof:
		if log, err := b.engine.End(); err == nil {
			b.result.Log = log
		}
	}
}

func (b *Build) onExit(st exitStatus) {
	if st.err != nil {
		b.result.SystemWarnings++
		b.notify(SystemWarning{Err: st.err})
	}
	b.result.ExitCode = st.code
	b.result.Outcome = domain.OutcomeFromExitCode(st.code)
	b.logger.Debug("build exited", zap.Int("exit_code", st.code))
	b.notify(BuildDone{ExitCode: st.code})
}

// onEngineEvent runs on the event loop goroutine, inside Feed/End/Fail.
func (b *Build) onEngineEvent(ev parse.Event) {
	switch ev := ev.(type) {
	case parse.EntryDiscovered:
		switch ev.Entry.Kind {
		case domain.KindError:
			b.notify(BuildError{Entry: ev.Entry})
		case domain.KindWarning:
			b.notify(BuildWarning{Entry: ev.Entry})
		case domain.KindNote:
			b.notify(BuildNote{Entry: ev.Entry})
		}
	case parse.Completed:
		b.notify(FinalReport{Log: b.engine.Log()})
	case parse.SourceError:
		b.notify(ParseFailed{Err: ev.Err})
	case parse.ExtractorFailed:
		b.result.SystemWarnings++
		b.notify(SystemWarning{Err: ev.Err})
	}
}

func (b *Build) notify(n Notification) {
	if b.handler != nil {
		b.handler(n)
	}
}

// readStream forwards r to out until EOF or a read error, then sends a final
// eof or error message.
func readStream(stream Stream, r io.Reader, out chan<- chunk) error {
	for {
		buf := make([]byte, parse.ChunkSize)
		n, err := r.Read(buf)
		if n > 0 {
			out <- chunk{stream: stream, data: buf[:n]}
		}
		if errors.Is(err, io.EOF) {
			out <- chunk{stream: stream, eof: true}
			return nil
		}
		if err != nil {
			out <- chunk{stream: stream, err: err}
			return err
		}
	}
}
