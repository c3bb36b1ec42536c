package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. The "json" format selects the
// production encoder, anything else the development one. A non-empty service
// is stamped on every entry so logs from several simulators can be told apart.
func NewLogger(level, format, service string) (*zap.Logger, error) {
	cfg, err := newConfig(level, format, service)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}

func newConfig(level, format, service string) (zap.Config, error) {
	logLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.Config{}, err
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(logLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if service != "" {
		cfg.InitialFields = map[string]interface{}{"service": service}
	}
	return cfg, nil
}
