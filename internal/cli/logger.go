package cli

import (
	"io"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newSessionLogger builds the --debug logger: console lines for text output,
// JSON for ndjson. Without --debug nothing is logged.
func newSessionLogger(debug bool, format string, w io.Writer) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	var enc zapcore.Encoder
	if format == "ndjson" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		cfg.CallerKey = ""
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.DebugLevel)
	return zap.New(core)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
