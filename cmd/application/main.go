package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pharmacatalog_api/config"
	"pharmacatalog_api/internal/catalog/app"
	"pharmacatalog_api/pkg/dbconnect/postgres"
	"pharmacatalog_api/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.Fatalf("Invalid log level %q: %v", cfg.Log.Level, err)
	}

	var writer io.Writer = os.Stdout
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		writer = io.MultiWriter(os.Stdout, f)
	}

	mainLog := logger.NewLogger(writer, "[Main]")
	mainLog.Log("Started app")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connector := postgres.NewPgConnector(cfg.Postgres, logger.NewLogger(writer, "[Postgres]"))
	server := app.NewCatalogServer(connector, cfg, writer)
	if err := server.Run(ctx); err != nil {
		mainLog.Error("Server stopped: %v", err)
		mainLog.Sync()
		os.Exit(1)
	}
	mainLog.Log("Server stopped")
	mainLog.Sync()
}
