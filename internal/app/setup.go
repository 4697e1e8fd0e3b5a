package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robobook/backend/db"
	"github.com/robobook/backend/internal/auth"
	"github.com/robobook/backend/internal/config"
	"github.com/robobook/backend/internal/ingest"
	"github.com/robobook/backend/internal/knowledge"
	"github.com/robobook/backend/internal/log"
	"github.com/robobook/backend/internal/onboarding"
	"github.com/robobook/backend/internal/profile"
	"github.com/robobook/backend/internal/skills"
)

const cleanupInterval = 10 * time.Minute

// Setup creates and initializes the application.
// Returns an App with embedded cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = log.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	pool, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	g, err := provideGenkit(ctx)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}
	a.Embedder = embedder

	a.Auth = auth.NewService(pool, logger)
	a.Profiles = profile.NewStore(pool, logger)

	catalog := onboarding.DefaultCatalog()
	a.Walker = onboarding.NewWalker(catalog, onboarding.NewStore(catalog), logger)

	a.Orchestrator = skills.NewOrchestrator(g, cfg.ModelName, logger)
	a.Knowledge = knowledge.New(knowledge.NewQueries(pool), embedder, logger)
	a.Pipeline = ingest.NewPipeline(cfg.SitemapURL, ingest.NewExtractor(logger), a.Knowledge, logger)

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	go a.runCleanup(runCtx)

	return a, nil
}

// runCleanup periodically sweeps expired auth and onboarding sessions.
// Expired entries are also rejected on access; the sweep just keeps the
// tables and the in-memory store from accumulating garbage.
func (a *App) runCleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := a.Auth.CleanupExpiredSessions(ctx); err != nil {
				a.Logger.Warn("cleaning up expired sessions", "error", err)
			} else if n > 0 {
				a.Logger.Debug("expired auth sessions removed", "count", n)
			}

			if n := a.Walker.Store().Sweep(); n > 0 {
				a.Logger.Debug("expired onboarding sessions removed", "count", n)
			}
		}
	}
}

// provideGenkit initializes Genkit with the Google AI plugin. The plugin
// reads GEMINI_API_KEY from the environment; config validation has already
// checked it is present.
func provideGenkit(ctx context.Context) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with gemini provider")
	}
	return g, nil
}

// provideDBPool runs migrations and creates a PostgreSQL connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
