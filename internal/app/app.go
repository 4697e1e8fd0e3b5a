// Package app provides application initialization and dependency wiring.
//
// App is the container that holds every long-lived component: the database
// pool, Genkit runtime, stores, services and the ingestion pipeline. Setup
// builds it; Close releases it.
package app

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robobook/backend/internal/auth"
	"github.com/robobook/backend/internal/config"
	"github.com/robobook/backend/internal/ingest"
	"github.com/robobook/backend/internal/knowledge"
	"github.com/robobook/backend/internal/log"
	"github.com/robobook/backend/internal/onboarding"
	"github.com/robobook/backend/internal/profile"
	"github.com/robobook/backend/internal/skills"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	// Core services
	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	DBPool   *pgxpool.Pool

	// Domain components
	Auth         *auth.Service
	Profiles     *profile.Store
	Walker       *onboarding.Walker
	Orchestrator *skills.Orchestrator
	Knowledge    *knowledge.Store
	Pipeline     *ingest.Pipeline

	cancel context.CancelFunc
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down application")
	}

	if a.cancel != nil {
		a.cancel()
	}

	if a.DBPool != nil {
		a.DBPool.Close()
		if a.Logger != nil {
			a.Logger.Info("database pool closed")
		}
	}

	return nil
}
