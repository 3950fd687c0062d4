package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/jackc/pgx/v5"

	"etatcivil/internal/platform/config"
	"etatcivil/internal/platform/database"
	"etatcivil/internal/platform/logger"
	"etatcivil/internal/registry/seed"
	"etatcivil/internal/registry/store"
)

// main loads the reference dimensions into the configured database.
func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	applySchema := flag.Bool("schema", true, "apply the schema before loading")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.Debug)
	if cfg.Database.URL == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *applySchema {
		db, err := database.Open(ctx, cfg.Database, cfg.Retry.MaxElapsed, log)
		if err != nil {
			log.Error("connect", "error", err)
			os.Exit(1)
		}
		err = database.ApplySchema(ctx, db, store.Schema)
		db.Close()
		if err != nil {
			log.Error("schema", "error", err)
			os.Exit(1)
		}
	}

	conn, err := pgx.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Error("connect", "error", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	result, err := seed.Load(ctx, conn, seed.Reference, log)
	if err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	total := 0
	for _, n := range result {
		total += n
	}
	log.Info("seed complete", "inserted", total)
}
