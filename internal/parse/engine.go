// Package parse incrementally extracts diagnostics from a growing build log.
//
// Chunks are fed as they arrive. Each chunk is re-parsed together with up to
// overlap bytes of the text before it, so an entry split across chunk
// boundaries is found once both halves are present. Entries seen again in a
// later window are recognized by their full identity and dropped.
package parse

import (
	"bytes"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/richhaase/buildwatch/internal/domain"
	"github.com/richhaase/buildwatch/internal/extract"
)

// Engine is a single-use streaming parser bound to one extractor.
//
// Feed, End and Fail must not be called concurrently with each other; a second
// call while one is in progress (including from an event handler) is rejected
// with domain.ErrReentrantFeed. Log and Text may be called at any time,
// including from a handler.
type Engine struct {
	extractor extract.Extractor
	overlap   int
	handler   Handler
	logger    *zap.Logger

	mu     sync.Mutex
	buf    []byte
	offset int
	log    domain.ParsedLog
	known  map[domain.Entry]struct{}
	done   bool
	busy   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithOverlap sets the number of bytes before each chunk that are re-parsed.
// Values <= 0 disable re-parsing.
func WithOverlap(n int) Option {
	return func(e *Engine) {
		if n < 0 {
			n = 0
		}
		e.overlap = n
	}
}

// WithHandler sets the event handler.
func WithHandler(h Handler) Option {
	return func(e *Engine) { e.handler = h }
}

// WithLogger sets the debug logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine for x. The overlap defaults to the extractor's hint.
func New(x extract.Extractor, opts ...Option) *Engine {
	e := &Engine{
		extractor: x,
		overlap:   extract.OverlapFor(x),
		logger:    zap.NewNop(),
		known:     make(map[domain.Entry]struct{}),
		log:       domain.ParsedLog{Entries: []domain.Entry{}},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("extractor", x.Name()))
	return e
}

// Overlap returns the configured overlap in bytes.
func (e *Engine) Overlap() int { return e.overlap }

// Feed appends chunk to the log and reports the entries it completes.
// Empty chunks are ignored.
func (e *Engine) Feed(chunk []byte) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	if len(chunk) == 0 {
		return nil
	}

	e.mu.Lock()
	offset := e.offset
	e.buf = append(e.buf, chunk...)
	end := len(e.buf)
	start := lineStart(e.buf[:end], max(0, offset-e.overlap))
	window := append([]byte(nil), e.buf[start:end]...)
	e.mu.Unlock()

	candidates, err := e.extract(window, start)

	e.mu.Lock()
	e.offset = end
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("extractor failed", zap.Int("window_start", start), zap.Int("window_end", end), zap.Error(err))
		e.emit(ExtractorFailed{Err: err})
		return nil
	}

	added := 0
	for _, c := range candidates {
		entry := domain.Entry{
			Kind:       c.Kind,
			Filename:   c.Filename,
			Line:       c.Line,
			Column:     c.Column,
			StartIndex: start + c.StartIndex,
			EndIndex:   start + c.EndIndex,
		}

		e.mu.Lock()
		entry.Text = string(e.buf[entry.StartIndex:entry.EndIndex])
		if _, seen := e.known[entry]; seen {
			e.mu.Unlock()
			continue
		}
		e.known[entry] = struct{}{}
		e.log.Entries = append(e.log.Entries, entry)
		e.log.Add(entry.Kind)
		e.mu.Unlock()

		added++
		e.emit(EntryDiscovered{Entry: entry})
	}

	e.logger.Debug("chunk parsed",
		zap.Int("offset", offset),
		zap.Int("chunk_len", len(chunk)),
		zap.Int("window_start", start),
		zap.Int("candidates", len(candidates)),
		zap.Int("new_entries", added),
	)
	return nil
}

// lineStart returns from if it begins a line of buf, otherwise the offset just
// past the next newline (len(buf) if there is none).
func lineStart(buf []byte, from int) int {
	if from == 0 || buf[from-1] == '\n' {
		return from
	}
	i := bytes.IndexByte(buf[from:], '\n')
	if i < 0 {
		return len(buf)
	}
	return from + i + 1
}

// extract runs the extractor and validates every candidate against the window.
// Any failure discards the whole set.
func (e *Engine) extract(window []byte, start int) ([]extract.RawEntry, error) {
	fail := func(err error) error {
		return &domain.ExtractorError{
			Extractor:   e.extractor.Name(),
			WindowStart: start,
			WindowEnd:   start + len(window),
			Err:         err,
		}
	}

	candidates, err := e.extractor.Extract(window, start)
	if err != nil {
		return nil, fail(err)
	}
	for _, c := range candidates {
		if c.StartIndex < 0 || c.EndIndex > len(window) || c.StartIndex > c.EndIndex {
			return nil, fail(errors.Newf("entry span [%d,%d) outside window of %d bytes", c.StartIndex, c.EndIndex, len(window)))
		}
	}
	return candidates, nil
}

// End marks the input as complete, emits Completed and returns the final log.
func (e *Engine) End() (domain.ParsedLog, error) {
	if err := e.enter(); err != nil {
		return domain.ParsedLog{}, err
	}
	defer e.leave()

	e.mu.Lock()
	e.done = true
	log := e.log.Clone()
	size := len(e.buf)
	e.mu.Unlock()

	e.logger.Debug("parse completed",
		zap.Int("bytes", size),
		zap.Int("errors", log.Errors),
		zap.Int("warnings", log.Warnings),
		zap.Int("notes", log.Notes),
	)
	e.emit(Completed{Counts: log.Counts})
	return log, nil
}

// Fail records that the input stream failed. It emits SourceError and returns
// the partial log, marked incomplete, with a *domain.SourceStreamError.
func (e *Engine) Fail(cause error) (domain.ParsedLog, error) {
	if err := e.enter(); err != nil {
		return domain.ParsedLog{}, err
	}
	defer e.leave()

	e.mu.Lock()
	e.done = true
	e.log.Incomplete = true
	log := e.log.Clone()
	serr := &domain.SourceStreamError{Offset: len(e.buf), Err: cause}
	e.mu.Unlock()

	e.logger.Debug("parse failed", zap.Error(cause), zap.Int("bytes", serr.Offset))
	e.emit(SourceError{Err: serr})
	return log, serr
}

// Log returns a snapshot of the entries found so far.
func (e *Engine) Log() domain.ParsedLog {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Clone()
}

// Text returns the accumulated input.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return string(e.buf)
}

func (e *Engine) enter() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done {
		return domain.ErrEngineClosed
	}
	if e.busy {
		return domain.ErrReentrantFeed
	}
	e.busy = true
	return nil
}

func (e *Engine) leave() {
	e.mu.Lock()
	e.busy = false
	e.mu.Unlock()
}

func (e *Engine) emit(ev Event) {
	if e.handler != nil {
		e.handler(ev)
	}
}
