// Command chanscribe ingests YouTube channels into a searchable
// transcript archive.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chanscribe/chanscribe/internal/adapters/driven/artifacts"
	configfile "github.com/chanscribe/chanscribe/internal/adapters/driven/config/file"
	"github.com/chanscribe/chanscribe/internal/adapters/driven/embedding/ollama"
	"github.com/chanscribe/chanscribe/internal/adapters/driven/journal"
	"github.com/chanscribe/chanscribe/internal/adapters/driven/storage/sqlite"
	"github.com/chanscribe/chanscribe/internal/adapters/driven/vector"
	"github.com/chanscribe/chanscribe/internal/adapters/driving/cli"
	"github.com/chanscribe/chanscribe/internal/audio"
	"github.com/chanscribe/chanscribe/internal/chunker"
	"github.com/chanscribe/chanscribe/internal/connectors/youtube"
	"github.com/chanscribe/chanscribe/internal/core/domain"
	"github.com/chanscribe/chanscribe/internal/core/ports/driven"
	"github.com/chanscribe/chanscribe/internal/core/services"
	"github.com/chanscribe/chanscribe/internal/logger"
	"github.com/chanscribe/chanscribe/internal/ratelimit"
	"github.com/chanscribe/chanscribe/internal/transcribe/whisper"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local overrides (cookies, service URLs) may live in a .env file.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CHANSCRIBE_CONFIG")
	if cfgPath == "" {
		var err error
		cfgPath, err = configfile.DefaultPath()
		if err != nil {
			return err
		}
	}
	cfg, err := configfile.Load(cfgPath)
	if err != nil {
		return err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".chanscribe", "data")
	}

	// Both stores must be reachable before any work is scheduled.
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		return err
	}

	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL:    cfg.Ollama.BaseURL,
		Model:      cfg.Ollama.Model,
		Dimensions: cfg.Ollama.Dimensions,
	})
	defer embedder.Close()
	if err := embedder.Ping(ctx); err != nil {
		return fmt.Errorf("embedding service unavailable: %w", err)
	}

	vectors, err := vector.NewStore(ctx, dataDir, embedder)
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}
	defer vectors.Close()

	sourceCfg := youtube.Config{
		Binary:         cfg.Source.Binary,
		CookiesFile:    cfg.Source.CookiesFile,
		BrowserCookies: cfg.Source.BrowserCookies,
	}
	catalog, err := youtube.NewCatalog(sourceCfg)
	if err != nil {
		return err
	}
	fetcher, err := youtube.NewFetcher(sourceCfg)
	if err != nil {
		return err
	}

	transcriber := whisperFromConfig(cfg)
	gateway := services.NewPersistenceGateway(store, vectors,
		time.Duration(cfg.FreshnessHours)*time.Hour)

	orchestrator, err := services.NewIngestOrchestrator(
		catalog,
		fetcher,
		audio.New(),
		transcriber,
		gateway,
		journalFactory(dataDir),
		artifactFactory(dataDir),
		ratelimit.New(time.Duration(cfg.RateLimitSeconds)*time.Second),
		chunker.New(chunker.WithWindowWords(cfg.WindowWords)),
		services.WithPoolSize(cfg.MaxWorkers),
	)
	if err != nil {
		return err
	}
	defer orchestrator.Release()

	cli.SetServices(&cli.Services{
		Ingestor: orchestrator,
		Store:    store,
	})

	if err := cli.Execute(ctx); err != nil {
		return err
	}

	if ctx.Err() != nil {
		logger.Warn("Interrupted; partial results were journalled")
	}
	return nil
}

func whisperFromConfig(cfg configfile.Config) driven.Transcriber {
	return whisper.New(whisper.Config{
		BaseURL:     cfg.Whisper.BaseURL,
		ModelSize:   cfg.Whisper.ModelSize,
		Device:      cfg.Whisper.Device,
		ComputeType: cfg.Whisper.ComputeType,
		CPUThreads:  cfg.Whisper.CPUThreads,
		NumWorkers:  cfg.Whisper.NumWorkers,
		BatchSize:   cfg.Whisper.BatchSize,
	})
}

// journalFactory opens the journal inside the channel's artifact directory.
func journalFactory(dataDir string) services.JournalFactory {
	return func(ch *domain.Channel) (driven.Journal, error) {
		st, err := artifacts.NewStore(dataDir, ch)
		if err != nil {
			return nil, err
		}
		return journal.New(st.Root())
	}
}

func artifactFactory(dataDir string) services.ArtifactFactory {
	return func(ch *domain.Channel) (driven.ArtifactStore, error) {
		return artifacts.NewStore(dataDir, ch)
	}
}
