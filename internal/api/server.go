package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robobook/backend/internal/log"
	"github.com/robobook/backend/internal/onboarding"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger   log.Logger
	Auth     AuthService        // Required
	Profiles ProfileStore       // Required
	Walker   *onboarding.Walker // Required
	Chat     Responder          // Optional: nil disables chat and skill endpoints
	Search   Searcher           // Optional: nil disables retrieval in /api/query
	Pipeline Ingester           // Optional: nil disables /api/ingest
	Pool     *pgxpool.Pool      // Optional: nil degrades /ready to a plain ok

	CORSOrigins []string // Allowed origins for CORS
	TrustProxy  bool     // Trust X-Real-IP/X-Forwarded-For headers
	IsDev       bool     // Disables Secure cookies and HSTS

	RateLimitRPS   float64       // Tokens refilled per second per IP (0 = default 10)
	RateLimitBurst int           // Rate limiter burst size per IP (0 = default 20)
	RateLimitSweep time.Duration // Interval between stale-client sweeps (0 = default 5m)
	RateLimitStale time.Duration // Idle time before a client is forgotten (0 = default 10m)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Auth == nil {
		return nil, errors.New("auth service is required")
	}
	if cfg.Profiles == nil {
		return nil, errors.New("profile store is required")
	}
	if cfg.Walker == nil {
		return nil, errors.New("onboarding walker is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	ah := &authHandler{
		service:    cfg.Auth,
		trustProxy: cfg.TrustProxy,
		isDev:      cfg.IsDev,
		logger:     logger,
	}

	oh := &onboardingHandler{
		walker:     cfg.Walker,
		auth:       cfg.Auth,
		profiles:   cfg.Profiles,
		cookies:    ah,
		trustProxy: cfg.TrustProxy,
		logger:     logger,
	}

	ph := &profileHandler{profiles: cfg.Profiles, logger: logger}

	mux := http.NewServeMux()

	// Conversational signup
	mux.HandleFunc("POST /api/auth/onboarding/start", oh.start)
	mux.HandleFunc("GET /api/auth/onboarding/question/{id}", oh.question)
	mux.HandleFunc("POST /api/auth/onboarding/answer", oh.answer)
	mux.HandleFunc("GET /api/auth/onboarding/summary/{id}", oh.summary)
	mux.HandleFunc("POST /api/auth/onboarding/complete", oh.complete)

	// Email/password auth
	mux.HandleFunc("POST /api/auth/sign-up/email", ah.signUp)
	mux.HandleFunc("POST /api/auth/sign-in/email", ah.signIn)
	mux.HandleFunc("POST /api/auth/sign-out", ah.signOut)
	mux.HandleFunc("GET /api/auth/get-session", ah.getSession)

	// Profile
	mux.HandleFunc("GET /user/profile", ph.getProfile)
	mux.HandleFunc("GET /user/profile/skills", ph.getSkills)
	mux.HandleFunc("GET /user/profile/hardware", ph.getHardware)

	// Chat and skills (optional — only registered if a responder is provided)
	if cfg.Chat != nil {
		ch := &chatbotHandler{
			responder: cfg.Chat,
			searcher:  cfg.Search,
			profiles:  cfg.Profiles,
			logger:    logger,
		}
		mux.HandleFunc("POST /api/chatbot", ch.chat)
		mux.HandleFunc("GET /api/chatbot/greeting", ch.greeting)
		mux.HandleFunc("POST /api/query", ch.query)

		sh := &skillsHandler{responder: cfg.Chat, logger: logger}
		mux.HandleFunc("POST /api/skills/{skill}", sh.run)
	}

	// Ingestion
	if cfg.Pipeline != nil {
		ih := &ingestHandler{pipeline: cfg.Pipeline, logger: logger}
		mux.HandleFunc("POST /api/ingest", ih.run)
	}

	// Rate limiter: per-IP token bucket
	rl := newClientLimiter(limiterConfig{
		rps:        cfg.RateLimitRPS,
		burst:      cfg.RateLimitBurst,
		sweepEvery: cfg.RateLimitSweep,
		staleAfter: cfg.RateLimitStale,
	})

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Auth → Routes
	// RequestID must be before Logging so request_id is available in log
	// attributes. CORS must be before RateLimit so preflight OPTIONS gets
	// proper CORS headers.
	var handler http.Handler = mux
	handler = authMiddleware(cfg.Auth, logger)(handler)
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Wrap with security headers
	isDev := cfg.IsDev
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w, isDev)
		handler.ServeHTTP(w, r)
	})

	// Use a top-level mux to separate health probes from the middleware stack
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.Pool))
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
