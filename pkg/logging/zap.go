package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log encodings accepted by NewZap
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// NewZap builds a zap logger writing to out at the given level.
// format is "json" (production encoder) or "console" (development encoder).
func NewZap(level, format string, out zapcore.WriteSyncer) (*zap.Logger, error) {
	lvl := zap.NewAtomicLevel()
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(format) {
	case "", FormatJSON:
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	case FormatConsole:
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	default:
		return nil, fmt.Errorf("invalid log format %q, must be %s or %s", format, FormatJSON, FormatConsole)
	}

	core := zapcore.NewCore(encoder, out, lvl)
	return zap.New(core, zap.AddStacktrace(zap.ErrorLevel)).Named("prism"), nil
}
