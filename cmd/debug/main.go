// Command debug runs both task list calls once against the configured UAC
// instance and prints what came back.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/0xPuncker/uac-task-api/internal/config"
	"github.com/0xPuncker/uac-task-api/internal/tasks"
	"github.com/0xPuncker/uac-task-api/internal/uac"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file found. Using environment variables.\n")
	}

	timeout := flag.Duration("timeout", 30*time.Second, "timeout per list call")
	flag.Parse()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	cfg := config.DefaultConfig()
	cfg.UAC.Timeout = timeout.String()

	provider := uac.NewProvider(cfg.LoadUAC, logger)
	service := tasks.NewService(tasks.ProviderConnect(provider), logger)

	failed := false
	for _, mode := range []tasks.Mode{tasks.ModeBasic, tasks.ModeAdvanced} {
		fmt.Printf("\nMode: %s\n", mode)

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		start := time.Now()
		result, err := service.Fetch(ctx, mode)
		cancel()

		if err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
			continue
		}

		fmt.Printf("Tasks: %d (%s)\n", len(result), time.Since(start).Round(time.Millisecond))
		if len(result) > 0 {
			first, _ := json.MarshalIndent(result[0], "", "  ")
			fmt.Printf("First task: %s\n", first)
		}
	}

	if failed {
		os.Exit(1)
	}
}
