package logger

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fleet-dashboard/internal/config"
)

type Logger struct {
	*zap.Logger
}

func NewLogger(cfg config.LoggingConfig) (*Logger, error) {
	level, err := zap.ParseAtomicLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "text" || cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Level = level

	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}

	z, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: z}, nil
}

func New(z *zap.Logger) *Logger {
	return &Logger{Logger: z}
}

func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name)}
}

func (l *Logger) PollCycle(cycle uint64, nodes int, took time.Duration) {
	l.Debug("poll cycle published",
		zap.Uint64("cycle", cycle),
		zap.Int("nodes", nodes),
		zap.Duration("took", took),
	)
}

func (l *Logger) PollFailure(cycle uint64, err error) {
	l.Warn("poll cycle abandoned",
		zap.Uint64("cycle", cycle),
		zap.Error(err),
	)
}

func (l *Logger) PollDiscarded(cycle, applied uint64) {
	l.Debug("stale poll cycle discarded",
		zap.Uint64("cycle", cycle),
		zap.Uint64("applied", applied),
	)
}

func (l *Logger) ConfigFetchFailed(cycle uint64, node string, err error) {
	l.Warn("config fetch failed",
		zap.Uint64("cycle", cycle),
		zap.String("node", node),
		zap.Error(err),
	)
}

func (l *Logger) TransitionDispatched(id, node, action string) {
	l.Info("transition accepted",
		zap.String("dispatch", id),
		zap.String("node", node),
		zap.String("action", action),
	)
}

func (l *Logger) TransitionFailed(id, node, action string, err error) {
	l.Warn("transition dropped",
		zap.String("dispatch", id),
		zap.String("node", node),
		zap.String("action", action),
		zap.Error(err),
	)
}

func (l *Logger) LogFetched(node string, size int) {
	l.Debug("log file fetched",
		zap.String("node", node),
		zap.Int("bytes", size),
	)
}
