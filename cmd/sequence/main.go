// Command sequence prints the current cooking plan as JSON and exits.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/config"
	"github.com/PinJun0711/Thunderbolts/internal/database"
	"github.com/PinJun0711/Thunderbolts/internal/kitchen"
	"github.com/PinJun0711/Thunderbolts/internal/logger"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
	timeout    = flag.Duration("timeout", 30*time.Second, "Time allowed for the pass")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	// stdout carries only the plan
	log := logger.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, log); err != nil {
		log.Error("failed to generate cooking sequence", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := database.Open(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := kitchen.NewService(store.Orders(), store.Menu(), store.Stock(), kitchen.WithLogger(log))
	plan, err := svc.CookingSequence(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}
