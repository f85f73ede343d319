package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log *zap.Logger

// Init sets up the global logger. With an empty filename logs go to
// stdout; otherwise they are written to the file with rotation.
func Init(filename, level string) *zap.Logger {
	var sink zapcore.WriteSyncer
	if filename == "" {
		sink = zapcore.AddSync(os.Stdout)
	} else {
		if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
			panic("unable to create log directory: " + err.Error())
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filename,
			MaxSize:    100, // MB per file
			MaxBackups: 7,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		sink,
		parseLevel(level),
	)

	log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	zap.ReplaceGlobals(log)
	return log
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debug(msg string, fields ...zap.Field) { log.Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { log.Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { log.Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { log.Error(msg, fields...) }

func Fatal(msg string, fields ...zap.Field) { log.Fatal(msg, fields...) }

// Infof logs a formatted info message.
func Infof(template string, args ...interface{}) {
	log.Sugar().Infof(template, args...)
}

// Errorf logs a formatted error message.
func Errorf(template string, args ...interface{}) {
	log.Sugar().Errorf(template, args...)
}

// Fatalf logs a formatted fatal message and exits.
func Fatalf(template string, args ...interface{}) {
	log.Sugar().Fatalf(template, args...)
}

// Sync flushes buffered log entries.
func Sync() error { return log.Sync() }
