package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger = zap.NewNop().Sugar()

// Init initializes the global logger with JSON output
func Init(appEnv string) error {
	var config zap.Config

	if appEnv == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Encoding = "json"

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	globalLogger = logger.Sugar()
	return nil
}

// L returns the global SugaredLogger
func L() *zap.SugaredLogger {
	return globalLogger
}

// With returns a child logger carrying the given key/value pairs
func With(fields ...interface{}) *zap.SugaredLogger {
	return globalLogger.With(fields...)
}

// Sync flushes any buffered logs
func Sync() error {
	return globalLogger.Sync()
}

func Info(message string, fields ...interface{}) {
	globalLogger.Infow(message, fields...)
}

func Debug(message string, fields ...interface{}) {
	globalLogger.Debugw(message, fields...)
}

func Warn(message string, fields ...interface{}) {
	globalLogger.Warnw(message, fields...)
}

func Error(message string, fields ...interface{}) {
	globalLogger.Errorw(message, fields...)
}

// Fatal logs and exits the process
func Fatal(message string, fields ...interface{}) {
	globalLogger.Fatalw(message, fields...)
}
