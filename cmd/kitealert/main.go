package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/internal/infra/config"
	apperrors "github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/pkg/errors"
	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "print the report instead of sending email")
	flag.Parse()

	// .env is optional and must be in place before the logger reads
	// LOG_LEVEL and the config reads everything else.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "warning: could not load .env:", err)
	}

	log := logger.New().With("run_id", uuid.NewString())

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration invalid", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app, err := buildApp(cfg, log, os.Stdout, *dryRun)
	if err != nil {
		log.Error("failed to wire application", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Error("run failed", "error", err, "code", apperrors.Code(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps failure classes to the process exit code: 2 for
// fetch-stage failures, 3 for delivery failures, 1 for anything else.
func exitCodeFor(err error) int {
	switch apperrors.Code(err) {
	case "fetch_failed", "no_data":
		return 2
	case "config_missing", "send_failed":
		return 3
	default:
		return 1
	}
}
