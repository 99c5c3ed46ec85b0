package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger groups logging parameters.
type Logger struct {
	// One of debug, info, warn, error.
	Level string `mapstructure:"Level" yaml:"Level"`
	// Either console or json.
	Encoding string `mapstructure:"Encoding" yaml:"Encoding"`
}

func (l Logger) level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return lvl, fmt.Errorf("invalid log level: %w", err)
	}
	return lvl, nil
}

// Build returns zap.Logger writing to stderr.
func (l Logger) Build() (*zap.Logger, error) {
	lvl, err := l.level()
	if err != nil {
		return nil, err
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = l.Encoding
	cc.Level = zap.NewAtomicLevelAt(lvl)
	cc.Sampling = nil

	log, err := cc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return log, nil
}
