// Command migrate runs the embedded goose migrations against DATABASE_URL.
//
// Usage:
//
//	go run ./cmd/migrate up          # Apply all pending migrations
//	go run ./cmd/migrate down        # Roll back the last migration
//	go run ./cmd/migrate status      # Show migration status
//	go run ./cmd/migrate version     # Show current schema version
//	go run ./cmd/migrate redo        # Roll back and re-apply last migration
//
// Outside APP_ENV=local, *_SSM_PARAM variables are resolved first, so
// DATABASE_URL_SSM_PARAM works the same as it does for the API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/config"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/db"
)

const migrateTimeout = 5 * time.Minute

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: migrate <command>")
		fmt.Println("Commands: up, down, status, version, redo, up-to <version>, down-to <version>")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(secretProvider())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.Database.Enabled() {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, os.Args[1], os.Args[2:]...); err != nil {
		log.Fatalf("%v", err)
	}
}

func secretProvider() config.SecretProvider {
	if os.Getenv("APP_ENV") == "local" {
		return nil
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	return config.NewSSMProvider(region, os.Getenv("AWS_ENDPOINT_URL"))
}
