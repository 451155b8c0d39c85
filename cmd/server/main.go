package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/0xPuncker/uac-task-api/internal/api"
	"github.com/0xPuncker/uac-task-api/internal/config"
	"github.com/0xPuncker/uac-task-api/internal/status"
	"github.com/0xPuncker/uac-task-api/internal/tasks"
	"github.com/0xPuncker/uac-task-api/internal/uac"
	"github.com/dimiro1/banner"
	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

const bannerText = `
{{ .Title "UAC Task API" "" 0 }}
{{ .AnsiBackground.BrightBlue }}{{ .AnsiColor.White }}
{{ .AnsiReset }}
`

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()

	if strings.ToLower(cfg.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05-07:00",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05-07:00",
		})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func mustDuration(logger *logrus.Logger, name, value string, fallback time.Duration) time.Duration {
	d, err := config.ParseDuration(value, fallback)
	if err != nil {
		logger.Fatalf("Invalid %s %q: %v", name, value, err)
	}
	return d
}

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load(".env.local"); err != nil {
			fmt.Printf("No .env or .env.local file found. Using environment variables.\n")
		}
	}

	banner.Init(colorable.NewColorableStdout(), true, true, strings.NewReader(bannerText))

	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg.Log)

	// The UAC client is built lazily on the first task request; a missing
	// UAC_URL or UAC_TOKEN only surfaces there.
	if os.Getenv(config.EnvUACURL) == "" || os.Getenv(config.EnvUACToken) == "" {
		logger.Warn("UAC_URL or UAC_TOKEN is not set; task endpoints will fail until restart")
	}

	provider := uac.NewProvider(cfg.LoadUAC, logger)
	service := tasks.NewService(tasks.ProviderConnect(provider), logger)
	handler := api.NewHandler(service, status.NewTracker(0), logger)

	opts := api.ServerOptions{
		Port:            cfg.Server.Port,
		ReadTimeout:     mustDuration(logger, "read timeout", cfg.Server.ReadTimeout, 10*time.Second),
		WriteTimeout:    mustDuration(logger, "write timeout", cfg.Server.WriteTimeout, 60*time.Second),
		IdleTimeout:     mustDuration(logger, "idle timeout", cfg.Server.IdleTimeout, 60*time.Second),
		ShutdownTimeout: mustDuration(logger, "shutdown timeout", cfg.Server.ShutdownTimeout, 5*time.Second),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.StartServer(ctx, handler, opts); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}
