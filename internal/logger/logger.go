package logger

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

func Init() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	Logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(Logger)
}

func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

// get lazily initializes so library callers don't need an explicit Init.
func get() *slog.Logger {
	if Logger == nil {
		Init()
	}
	return Logger
}
