// Command migrate runs schema operations for the backend.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"threadline/internal/config"
	"threadline/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|down|status> [steps]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	switch cmd {
	case "up":
		if err := database.RunMigrations(cfg); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "status":
		status, err := database.GetMigrationStatus(cfg)
		if err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		if !status.Applied {
			log.Println("no migrations applied")
			return nil
		}
		log.Printf("version=%d dirty=%t", status.Version, status.Dirty)
	case "down":
		steps := 1
		if flag.NArg() >= 2 {
			steps, err = strconv.Atoi(flag.Arg(1))
			if err != nil {
				return fmt.Errorf("invalid steps %q: %w", flag.Arg(1), err)
			}
		}
		if err := database.RollbackMigrations(cfg, steps); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back %d migration(s)", steps)
	default:
		return usage()
	}

	return nil
}
