package mlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *Logger

func InitGlobalLogger(logger *Logger) {
	globalLogger = logger
	Debug = globalLogger.Debug
	Info = globalLogger.Info
	Warn = globalLogger.Warn
	Error = globalLogger.Error
	Critical = globalLogger.Critical
}

// RedirectStdLog sends the standard library logger through the global logger.
func RedirectStdLog(logger *Logger) {
	zap.RedirectStdLogAt(logger.zap.With(zap.String("source", "stdlog")).WithOptions(zap.AddCallerSkip(-1)), zapcore.ErrorLevel)
}

type LogFunc func(string, ...Field)

// Until InitGlobalLogger is called, log through a development-friendly default.
var defaultLog = NewLogger(&LoggerConfiguration{
	EnableConsole: true,
	ConsoleJson:   false,
	ConsoleLevel:  LevelInfo,
})

var Debug LogFunc = defaultLog.Debug
var Info LogFunc = defaultLog.Info
var Warn LogFunc = defaultLog.Warn
var Error LogFunc = defaultLog.Error
var Critical LogFunc = defaultLog.Critical
