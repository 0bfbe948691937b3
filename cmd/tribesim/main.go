// Command tribesim runs the tribal social-dynamics simulation.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/talgya/tribesim/internal/agents"
	"github.com/talgya/tribesim/internal/config"
	"github.com/talgya/tribesim/internal/engine"
	"github.com/talgya/tribesim/internal/legends"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults used when empty)")
	ticks := flag.Uint64("ticks", 10000, "number of ticks to run (0 = until interrupted)")
	reportEvery := flag.Uint64("report-every", 100, "ticks between population reports")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	slog.Info("tribesim starting",
		"seed", cfg.Sim.Seed,
		"initial_pop", cfg.Sim.InitialPop,
		"founder_tribes", cfg.Sim.FounderTribes,
		"workers", cfg.WorkerCount(),
	)

	// Legend archive: durable SQLite when a path is configured, otherwise
	// in-memory for throwaway runs.
	var archive legends.Archive
	if cfg.Sim.ArchivePath != "" {
		store, err := legends.Open(cfg.Sim.ArchivePath)
		if err != nil {
			slog.Error("failed to open legend archive", "path", cfg.Sim.ArchivePath, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		archive = store
		slog.Info("legend archive opened", "path", cfg.Sim.ArchivePath)
	} else {
		archive = legends.NewMemoryArchive()
		slog.Info("legend archive is in-memory; set sim.archive_path for durability")
	}

	spawner := agents.NewSpawner(cfg.Sim.Seed)
	founders := spawner.SpawnPopulation(cfg.Sim.InitialPop, agents.Position{})
	sim := engine.NewSimulation(cfg, spawner, founders, archive)
	slog.Info("population spawned", "agents", len(founders), "tribes", len(sim.Tribes))

	// A signal aborts between stages, never mid-stage.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for tick := uint64(1); *ticks == 0 || tick <= *ticks; tick++ {
		if err := sim.Tick(ctx, tick); err != nil {
			if ctx.Err() != nil {
				slog.Info("shutdown requested", "tick", tick)
				break
			}
			// Stage-level errors already aborted only the offending
			// operation; the run continues.
			slog.Warn("tick completed with errors", "tick", tick, "error", err)
		}
		if *reportEvery > 0 && tick%*reportEvery == 0 {
			sim.LogSummary(tick)
		}
		if sim.Stats.Population == 0 {
			slog.Info("population extinct", "tick", tick)
			break
		}
	}

	sim.LogSummary(sim.CurrentTick())
	if store, ok := archive.(*legends.Store); ok {
		if n, err := store.Count(); err == nil {
			slog.Info("legend archive", "entries", n)
		}
	}
}
