package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/usattar/mintvault/internal/buildinfo"
	"github.com/usattar/mintvault/internal/client/cli"
	"github.com/usattar/mintvault/internal/client/config"
	"github.com/usattar/mintvault/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewText(os.Stderr, slog.LevelInfo)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
