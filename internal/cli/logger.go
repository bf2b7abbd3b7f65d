package cli

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// agentLogger wraps zap for verbose debug with run/session context.
type agentLogger struct {
	logger    *zap.Logger
	sugared   *zap.SugaredLogger
	runID     string
	sessionFn func() int
}

func newAgentLogger(globals *Globals, runID string) *agentLogger {
	if globals == nil || !globals.Verbose {
		return &agentLogger{logger: zap.NewNop()}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.Encoding = "json"
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg.EncoderConfig),
		zapcore.Lock(zapcore.AddSync(globals.Stderr)),
		cfg.Level,
	)
	logger := zap.New(core)
	if runID != "" {
		logger = logger.With(zap.String("run_id", runID))
	}
	return &agentLogger{
		logger:  logger,
		sugared: logger.Sugar(),
		runID:   runID,
	}
}

// Zap returns the structured logger handed to the session core
func (l *agentLogger) Zap() *zap.Logger {
	return l.logger
}

// withSession adds the current session number to every Debug line
func (l *agentLogger) withSession(fn func() int) *agentLogger {
	l.sessionFn = fn
	return l
}

func (l *agentLogger) Debug(format string, args ...interface{}) {
	if l.sugared == nil {
		return
	}
	session := 0
	if l.sessionFn != nil {
		session = l.sessionFn()
	}
	l.sugared.With("session", session).Debugf(format, args...)
}

func (l *agentLogger) Sync() {
	_ = l.logger.Sync()
}
