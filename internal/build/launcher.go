// Package build launches a build command, parses its stderr as it streams and
// reports what it finds.
package build

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richhaase/buildwatch/internal/domain"
	"github.com/richhaase/buildwatch/internal/extract"
	"github.com/richhaase/buildwatch/internal/parse"
	"github.com/richhaase/buildwatch/internal/process"
)

// Launcher starts builds. A Launcher may be used for any number of launches;
// each gets its own process and parse engine.
type Launcher struct {
	registry *extract.Registry
	spawner  process.Spawner
	handler  Handler
	overlap  int
	logger   *zap.Logger
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithHandler sets the notification handler.
func WithHandler(h Handler) Option {
	return func(l *Launcher) { l.handler = h }
}

// WithOverlap overrides the extractor's default overlap. Values <= 0 disable re-parsing.
func WithOverlap(n int) Option {
	return func(l *Launcher) {
		if n < 0 {
			n = 0
		}
		l.overlap = n
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLauncher creates a Launcher.
func NewLauncher(registry *extract.Registry, spawner process.Spawner, opts ...Option) *Launcher {
	l := &Launcher{
		registry: registry,
		spawner:  spawner,
		overlap:  -1,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch runs spec to completion. It returns once the process has exited and
// both output streams have ended.
//
// If ctx is cancelled the process group is killed; the result is still
// returned, together with an error wrapping ctx.Err().
func (l *Launcher) Launch(ctx context.Context, spec domain.LaunchSpec) (*domain.BuildResult, error) {
	b, err := l.Start(ctx, spec)
	if err != nil {
		return nil, err
	}
	return b.Wait()
}

// Start spawns the build and returns without waiting for it.
// An unknown extractor is reported before anything is spawned.
func (l *Launcher) Start(ctx context.Context, spec domain.LaunchSpec) (*Build, error) {
	spec = spec.Clone()

	x, err := l.registry.Lookup(spec.ExtractorSelector)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := l.logger.With(zap.String("build_id", id), zap.String("command", spec.CommandLine()))

	start := time.Now()
	handle, err := l.spawner.Spawn(ctx, spec.Command, spec.Arguments, spec.WorkingDirectory)
	if err != nil {
		logger.Debug("spawn failed", zap.Error(err))
		return nil, err
	}
	logger.Debug("build started", zap.Int("pid", handle.Pid()), zap.String("dir", spec.WorkingDirectory))

	b := &Build{
		ID:      id,
		Spec:    spec,
		handle:  handle,
		handler: l.handler,
		logger:  logger,
		start:   start,
		done:    make(chan struct{}),
		result: &domain.BuildResult{
			ID:   id,
			Spec: spec,
		},
	}

	engineOpts := []parse.Option{parse.WithHandler(b.onEngineEvent), parse.WithLogger(logger)}
	if l.overlap >= 0 {
		engineOpts = append(engineOpts, parse.WithOverlap(l.overlap))
	}
	b.engine = parse.New(x, engineOpts...)

	go b.run(ctx)
	return b, nil
}
