package main

import (
	"log/slog"
	"os"

	"github.com/kompoln/bind9-ctl/internal/infrastructure/logger"
	"github.com/kompoln/bind9-ctl/internal/interfaces/cli"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("BIND9CTL_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}

	logFormat := os.Getenv("BIND9CTL_LOG_FORMAT")

	logger.Init(&logger.Config{
		Level:     logLevel,
		Format:    logFormat,
		AddSource: os.Getenv("BIND9CTL_DEBUG") != "",
	})

	cli.Execute()
}
