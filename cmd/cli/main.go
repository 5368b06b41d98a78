package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dpetrovs/memhub/internal/client/cli"
	"github.com/dpetrovs/memhub/internal/client/config"
	"github.com/dpetrovs/memhub/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	app := cli.NewApp(cfg, logger)
	app.Run(ctx)

}
