package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"payment-status-bot/internal/config"
	"payment-status-bot/internal/domain/model"
	pg "payment-status-bot/internal/infra/db/postgres"
	"payment-status-bot/internal/infra/logging"
	"payment-status-bot/internal/infra/registry"
)

// seed imports a legacy "chatId,accountId" file into the configured registry.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	envFile := flag.String("env", ".env", "optional dotenv file")
	source := flag.String("file", "group_company_links.txt", "legacy registry file to import")
	dryRun := flag.Bool("dry-run", false, "parse and report without writing")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("dotenv: %v", err)
	}

	// ---- Config ----
	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, false)

	// ---- Read source ----
	f, err := os.Open(*source)
	if err != nil {
		log.Fatalf("open %s: %v", *source, err)
	}
	var recs []model.Registration
	skipped, err := registry.ReadLog(f, func(r model.Registration) { recs = append(recs, r) })
	_ = f.Close()
	if err != nil {
		log.Fatalf("read %s: %v", *source, err)
	}
	fmt.Printf("%d registrations read from %s (%d malformed lines skipped)\n", len(recs), *source, skipped)
	if *dryRun || len(recs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cfg.Registry.Driver {
	case config.RegistryPostgres:
		pool, err := pg.NewPgxPool(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		if err := pg.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("schema: %v", err)
		}
		repo, err := pg.NewRegistryRepo(ctx, pool, logger)
		if err != nil {
			log.Fatalf("registry: %v", err)
		}
		if err := repo.Import(ctx, recs); err != nil {
			log.Fatalf("import: %v", err)
		}
	default:
		if samePath(*source, cfg.Registry.Path) {
			fmt.Println("source is the configured registry file. No changes.")
			return
		}
		fr, err := registry.Open(cfg.Registry.Path, logger)
		if err != nil {
			log.Fatalf("registry: %v", err)
		}
		defer fr.Close()
		for _, r := range recs {
			if err := fr.Register(ctx, r.ChatID, r.AccountID); err != nil {
				log.Fatalf("register %d: %v", r.ChatID, err)
			}
		}
	}

	fmt.Printf("✅ Imported %d registrations into the %s registry.\n", len(recs), cfg.Registry.Driver)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
