package logging

import (
	"log/slog"
	"os"
	"strings"
)

var Logger = slog.Default()

func Init() {
	opts := &slog.HandlerOptions{Level: levelFromEnv()}
	if os.Getenv("APP_ENV") == "prod" {
		Logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	} else {
		Logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
