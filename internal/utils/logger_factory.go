package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level %q"
	unsupportedLogFormatTemplateConstant = "unsupported log format %q"
	logTimestampFieldNameConstant        = "timestamp"
	logTimestampEncodingLayoutConstant   = "2006-01-02T15:04:05.000Z0700"
	consoleMessageOnlyEncoderKeyConstant = "message"
	diagnosticLoggerNameConstant         = "diagnostic"
	consoleLoggerNameConstant            = "console"
)

// LogLevel enumerates supported logging verbosity levels.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logging output formats.
type LogFormat string

// Supported log formats.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// LoggerOutputs bundles the diagnostic and console loggers produced by the factory.
type LoggerOutputs struct {
	// DiagnosticLogger emits lifecycle and troubleshooting events.
	DiagnosticLogger *zap.Logger
	// ConsoleLogger emits human-facing status lines; it is a no-op for structured output.
	ConsoleLogger *zap.Logger
}

// LoggerFactory builds zap loggers according to requested level and format.
type LoggerFactory struct{}

// NewLoggerFactory constructs a LoggerFactory instance.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLoggerOutputs builds diagnostic and console loggers for the requested level and format.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (LoggerOutputs, error) {
	zapLevel, levelError := resolveZapLevel(requestedLogLevel)
	if levelError != nil {
		return LoggerOutputs{}, levelError
	}

	switch requestedLogFormat {
	case LogFormatStructured:
		diagnosticLogger := buildStructuredLogger(zapLevel)
		return LoggerOutputs{
			DiagnosticLogger: diagnosticLogger.Named(diagnosticLoggerNameConstant),
			ConsoleLogger:    zap.NewNop(),
		}, nil
	case LogFormatConsole:
		diagnosticLogger := buildConsoleLogger(zapLevel)
		consoleLogger := buildMessageOnlyLogger(zapLevel)
		return LoggerOutputs{
			DiagnosticLogger: diagnosticLogger.Named(diagnosticLoggerNameConstant),
			ConsoleLogger:    consoleLogger.Named(consoleLoggerNameConstant),
		}, nil
	default:
		return LoggerOutputs{}, fmt.Errorf(unsupportedLogFormatTemplateConstant, string(requestedLogFormat))
	}
}

func resolveZapLevel(requestedLogLevel LogLevel) (zapcore.Level, error) {
	switch requestedLogLevel {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InvalidLevel, fmt.Errorf(unsupportedLogLevelTemplateConstant, string(requestedLogLevel))
	}
}

func buildStructuredLogger(level zapcore.Level) *zap.Logger {
	encoderConfiguration := zap.NewProductionEncoderConfig()
	encoderConfiguration.TimeKey = logTimestampFieldNameConstant
	encoderConfiguration.EncodeTime = zapcore.TimeEncoderOfLayout(logTimestampEncodingLayoutConstant)
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfiguration),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

func buildConsoleLogger(level zapcore.Level) *zap.Logger {
	encoderConfiguration := zap.NewDevelopmentEncoderConfig()
	encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfiguration),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

func buildMessageOnlyLogger(level zapcore.Level) *zap.Logger {
	encoderConfiguration := zapcore.EncoderConfig{
		MessageKey:  consoleMessageOnlyEncoderKeyConstant,
		LineEnding:  zapcore.DefaultLineEnding,
		EncodeLevel: nil,
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfiguration),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}
