package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/kaman1990/field-service-sub001/internal/buildinfo"
	"github.com/kaman1990/field-service-sub001/internal/client/cli"
	"github.com/kaman1990/field-service-sub001/internal/client/config"
	"github.com/kaman1990/field-service-sub001/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	// Warnings and errors only, so background engine logs do not drown the prompt.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := logging.NewSlogLogger(slog.New(handler))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
