// Package logging builds the zap logger used for --debug output.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the debug log format and destination.
type Options struct {
	// Debug enables logging; otherwise New returns a no-op logger.
	Debug bool
	// JSON switches from console to JSON encoding.
	JSON bool
	// Output defaults to stderr.
	Output io.Writer
}

// New returns a logger for opts. Debug output never goes to stdout, which
// carries the build's own output.
func New(opts Options) *zap.Logger {
	if !opts.Debug {
		return zap.NewNop()
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var enc zapcore.Encoder
	if opts.JSON {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(out), zap.DebugLevel))
}
