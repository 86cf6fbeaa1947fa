package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"pickem/cmd"
	"pickem/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := handleMigrationCommand(); err != nil {
				log.Fatal("Migration error: ", err)
			}
			return
		case "leaderboard":
			if err := handleLeaderboardCommand(); err != nil {
				log.Fatal("Leaderboard error: ", err)
			}
			return
		case "serve":
		default:
			log.Fatalf("unknown command: %s (usage: pickem [serve|migrate|leaderboard])", os.Args[1])
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error: ", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: pickem migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

func handleLeaderboardCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: pickem leaderboard <group-id> [limit]")
	}

	limit := 20
	if len(os.Args) > 3 {
		n, err := strconv.Atoi(os.Args[3])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid limit: %s", os.Args[3])
		}
		limit = n
	}

	return cmd.PrintLeaderboard(context.Background(), os.Stdout, os.Args[2], limit)
}
