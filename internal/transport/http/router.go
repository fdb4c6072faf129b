package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/contest-api/internal/application/auth"
	"github.com/contest-api/internal/application/contestant"
	"github.com/contest-api/internal/application/draw"
	"github.com/contest-api/internal/application/registration"
	"github.com/contest-api/internal/application/verification"
	"github.com/contest-api/internal/config"
	"github.com/contest-api/internal/domain"
	"github.com/contest-api/internal/transport/http/handler"
	appmiddleware "github.com/contest-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Admin routes stay closed when no signing keys are configured.
	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = appmiddleware.Unavailable()
	}

	registrationSvc := registration.NewService(registration.ServiceDeps{
		ContestantRepo: deps.ContestantRepo,
		TokenRepo:      deps.TokenRepo,
		Notifier:       deps.Notifier,
	})
	verificationSvc := verification.NewService(verification.ServiceDeps{
		ContestantRepo: deps.ContestantRepo,
		TokenRepo:      deps.TokenRepo,
		AccountRepo:    deps.AccountRepo,
	})
	drawSvc := draw.NewService(draw.ServiceDeps{
		WinnerRepo:     deps.WinnerRepo,
		ContestantRepo: deps.ContestantRepo,
		Notifier:       deps.Notifier,
	})
	contestantSvc := contestant.NewService(contestant.ServiceDeps{
		ContestantRepo: deps.ContestantRepo,
		ExportStore:    deps.S3Store,
	})
	authDeps := auth.ServiceDeps{AccountRepo: deps.AccountRepo}
	if deps.JWTProvider != nil {
		authDeps.JWTProvider = deps.JWTProvider
	}
	authSvc := auth.NewService(authDeps)

	healthH := handler.NewHealthHandler()
	registrationH := handler.NewRegistrationHandler(registrationSvc)
	verificationH := handler.NewVerificationHandler(verificationSvc)
	contestantH := handler.NewContestantHandler(contestantSvc)
	winnerH := handler.NewWinnerHandler(drawSvc)
	sessionH := handler.NewSessionHandler(authSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/test", healthH.Test)
		r.Post("/test", healthH.Test)
		r.Post("/contestants", registrationH.Register)
		r.Post("/verification", verificationH.Verify)
		r.Post("/sessions/login", sessionH.Login)

		// ── Admin routes ─────────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

			r.Get("/contestants", contestantH.List)
			r.Get("/contestants/export", contestantH.Export)
			r.Get("/winner", winnerH.Get)
			r.Post("/winner", winnerH.Draw)
		})
	})

	return r
}
