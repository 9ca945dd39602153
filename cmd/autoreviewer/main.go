package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/autoreviewer/internal/adapter/driven/github"
	"github.com/ericfisherdev/autoreviewer/internal/adapter/driven/query"
	"github.com/ericfisherdev/autoreviewer/internal/adapter/driven/queue"
	sqliteadapter "github.com/ericfisherdev/autoreviewer/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/autoreviewer/internal/adapter/driving/stream"
	"github.com/ericfisherdev/autoreviewer/internal/application"
	"github.com/ericfisherdev/autoreviewer/internal/config"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"db_path", cfg.DBPath,
		"event_feed", cfg.EventFeed,
		"workers", cfg.Workers,
		"queue_depth", cfg.QueueDepth,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire driven adapters.
	sessions := sqliteadapter.NewSessionFactory(db)
	directory := sqliteadapter.NewDirectoryRepo(db)
	filterConfigs := sqliteadapter.NewFilterConfigRepo(db)
	changes := sqliteadapter.NewChangeRepo(db)
	assignments := sqliteadapter.NewAssignmentRepo(db)
	engine := query.NewEngine()

	var writer driven.ReviewerWriter
	if cfg.HasGitHubToken() {
		writer = githubadapter.NewWriter(cfg.GitHubToken)
		slog.Info("github writer created")
	} else {
		writer = githubadapter.NewDryRunWriter()
		slog.Info("no github token configured, running in dry-run mode")
	}

	// 6. Start the work queue; it drains buffered jobs on shutdown.
	pool := queue.NewPool(cfg.Workers, cfg.QueueDepth)
	poolDone := make(chan struct{})
	go func() {
		pool.Start(ctx)
		close(poolDone)
	}()

	// 7. Wire the pipeline and subscribe it to the event stream.
	matcher := application.NewMatcher(engine)
	resolver := application.NewResolver(directory)
	dispatcher := application.NewDispatcher(pool, sessions)
	gate := application.NewEventGate(filterConfigs, sessions, changes, matcher, resolver, dispatcher, writer, assignments)

	bus := stream.NewBus()
	bus.Subscribe(gate.OnEvent)

	feed, closeFeed, err := openFeed(cfg.EventFeed)
	if err != nil {
		return err
	}
	defer closeFeed()

	slog.Info("autoreviewer started", "event_feed", cfg.EventFeed)

	// 8. Consume the feed until it ends or a shutdown signal arrives.
	reader := stream.NewReader(feed, bus)
	if err := reader.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("event feed failed", "error", err)
	}

	// 9. Stop accepting work and wait for in-flight jobs to drain.
	stop()
	<-poolDone

	slog.Info("shutdown complete")
	return nil
}

// openFeed opens the configured event feed. "-" means stdin.
func openFeed(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening event feed: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			slog.Error("closing event feed", "error", err)
		}
	}, nil
}
