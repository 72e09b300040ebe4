// Package main provides the ticketlens worker entry point.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/flacuna/ticketlens/internal/config"
	gormdb "github.com/flacuna/ticketlens/internal/db/gorm"
	"github.com/flacuna/ticketlens/internal/narrative"
	"github.com/flacuna/ticketlens/internal/repository"
	"github.com/flacuna/ticketlens/internal/vector/chroma"
	"github.com/flacuna/ticketlens/internal/watcher"
	"github.com/flacuna/ticketlens/internal/worker"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	csvPath := flag.String("csv", "", "Ticket CSV export path (overrides config)")
	repoKind := flag.String("repository", "", "Ticket repository backend: csv or sqlite")
	port := flag.Int("port", 0, "Worker port (overrides config)")
	narrativeOn := flag.Bool("narrative", true, "Enable the LLM narrative summarizer")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	if err := config.EnsureAll(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure data directories")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
		cfg = config.Default()
	}
	if *csvPath != "" {
		cfg.CSVPath = *csvPath
	}
	if *repoKind != "" {
		cfg.Repository = *repoKind
	}
	if *port != 0 {
		cfg.WorkerPort = *port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down worker")
		cancel()
	}()

	store := chroma.NewClient(chroma.Config{
		BaseURL:    cfg.ChromaURL,
		Collection: cfg.Collection,
	})

	repo, cleanup, err := buildRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ticket repository")
	}
	if cleanup != nil {
		defer cleanup()
	}

	var summarizer narrative.Summarizer
	if *narrativeOn {
		summarizer = narrative.DefaultChain(narrative.NewClient(narrative.ClientConfig{
			BaseURL: cfg.LLMURL,
			Model:   cfg.LLMModel,
		}))
	}

	svc := worker.NewService(Version, cfg, store, repo, summarizer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Worker exited with error")
	}
	log.Info().Msg("Worker stopped")
}

// buildRepository wires the ticket row backend. The csv backend reads
// the export lazily and reloads when the file changes on disk; the
// sqlite backend imports the export once and serves rows via GORM.
func buildRepository(ctx context.Context, cfg *config.Config) (repository.Repository, func(), error) {
	if cfg.CSVPath == "" {
		log.Warn().Msg("No ticket CSV configured, reports will have zero aggregates")
		return nil, nil, nil
	}

	switch cfg.Repository {
	case "sqlite":
		store, err := gormdb.NewStore(gormdb.Config{
			Path:     config.DBPath(),
			MaxConns: cfg.MaxConns,
		})
		if err != nil {
			return nil, nil, err
		}
		tickets := gormdb.NewTicketStore(store)
		imported, err := tickets.ImportCSV(ctx, cfg.CSVPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.CSVPath).Msg("CSV import failed, serving existing rows")
		} else {
			log.Info().Int("rows", imported).Str("path", cfg.CSVPath).Msg("Ticket CSV imported")
		}
		return tickets, func() { store.Close() }, nil

	default:
		repo := repository.NewCSV(cfg.CSVPath)
		w, err := watcher.New(cfg.CSVPath, repo.Reset)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to create CSV watcher, reloads disabled")
			return repo, nil, nil
		}
		if err := w.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start CSV watcher")
			return repo, nil, nil
		}
		return repo, func() { _ = w.Stop() }, nil
	}
}
