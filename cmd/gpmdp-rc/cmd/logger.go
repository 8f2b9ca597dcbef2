package cmd

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// setupLogger builds a stderr logger. Stdout is reserved for results.
func setupLogger() (*zap.Logger, error) {
	level, err := loggerLevel(logLevel, GetVerbose(), GetDebug())
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Development = GetDebug()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}

// loggerLevel resolves the effective level. --debug wins; --verbose raises
// the default level to info.
func loggerLevel(name string, verbose, debug bool) (zapcore.Level, error) {
	if debug {
		return zap.DebugLevel, nil
	}

	switch strings.ToLower(name) {
	case "debug":
		return zap.DebugLevel, nil
	case "info":
		return zap.InfoLevel, nil
	case "warn", "warning", "":
		if verbose {
			return zap.InfoLevel, nil
		}
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return level, err
	}
	return level, nil
}
