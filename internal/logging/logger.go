package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "SIADRIVE_LOG_LEVEL"

// Initialize creates a new logger with the specified level writing to path.
// If level is empty, it checks the SIADRIVE_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode). An empty path
// means stdout.
func Initialize(level string, path string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	if path == "" {
		path = "stdout"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if path == "stdout" || path == "stderr" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		// no ANSI escapes in log files
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built

	return nil
}

// InitializeFromEnv initializes a stdout logger from SIADRIVE_LOG_LEVEL.
func InitializeFromEnv() error {
	return Initialize("", "")
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogScreenTransition logs a navigator transition.
func LogScreenTransition(from string, to string) {
	if from == "" {
		from = "none"
	}
	Info("Screen transition",
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LogBridgeCall logs an action issued against the host bridge.
// Never pass secrets in fields.
func LogBridgeCall(op string, fields ...zap.Field) {
	Info("Bridge call", append([]zap.Field{zap.String("op", op)}, fields...)...)
}

// LogBridgeResult logs the outcome of an asynchronous bridge call.
func LogBridgeResult(op string, ok bool, reason string) {
	if ok {
		Info("Bridge call succeeded", zap.String("op", op))
		return
	}
	Warn("Bridge call failed",
		zap.String("op", op),
		zap.String("reason", reason),
	)
}

// LogFrame logs a bridge wire frame. Payloads are not logged because
// unlock requests carry the wallet password.
func LogFrame(remoteAddr string, direction string, frameType string, name string, length int) {
	Debug("Bridge frame",
		zap.String("remote_addr", remoteAddr),
		zap.String("direction", direction),
		zap.String("type", frameType),
		zap.String("name", name),
		zap.Int("length", length),
	)
}

// LogConnection logs a connection event
func LogConnection(remoteAddr string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
