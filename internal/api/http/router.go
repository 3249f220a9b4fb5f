package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/mindengage-flashcards/internal/auth"
	authmw "github.com/mind-engage/mindengage-flashcards/internal/auth/middleware"
	"github.com/mind-engage/mindengage-flashcards/internal/content"
	"github.com/mind-engage/mindengage-flashcards/internal/flashcards"
	"github.com/mind-engage/mindengage-flashcards/internal/metrics"
	"github.com/mind-engage/mindengage-flashcards/internal/rbac"
	"github.com/mind-engage/mindengage-flashcards/internal/session"
	"github.com/mind-engage/mindengage-flashcards/internal/statements"
	"github.com/mind-engage/mindengage-flashcards/internal/storage"
)

// Deps is everything the router mounts.
type Deps struct {
	Auth         *authmw.AuthService
	Credentials  authmw.Credentials
	LocalAuth    bool
	GuestAuth    bool
	CORSOrigins  []string
	Content      *content.Store
	Blobs        storage.BlobStore
	Sessions     *session.Manager
	Statements   statements.Store
	Syncer       *statements.Syncer // optional; nil when no LRS is configured
	Metrics      *metrics.Metrics   // optional
	Ready        func(ctx context.Context) error
	WriteTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	timeout := d.WriteTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if d.LocalAuth {
		r.Post("/auth/login", authmw.LoginHandler(d.Auth, d.Credentials))
	}
	r.Post("/auth/guest", auth.GuestLoginHandler(d.Auth, d.GuestAuth))

	// Images are loaded by <img> tags, which carry no bearer token.
	r.Get("/assets/*", ServeAssetHandler(d.Blobs))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth))

		pr.With(rbac.Require(rbac.PermContentWrite)).
			Post("/assets/content/{contentID}", UploadAssetHandler(d.Content))

		pr.Route("/content", func(cr chi.Router) {
			cr.With(rbac.RequireAny(rbac.PermContentView, rbac.PermContentWrite)).Get("/", ListContentHandler(d.Content))
			cr.With(rbac.Require(rbac.PermContentView)).Get("/{contentID}", GetContentHandler(d.Content))
			cr.With(rbac.Require(rbac.PermContentWrite)).Put("/{contentID}", PutContentHandler(d.Content))
			cr.With(rbac.Require(rbac.PermContentWrite)).Delete("/{contentID}", DeleteContentHandler(d.Content))
			cr.With(rbac.Require(rbac.PermContentWrite)).Post("/{contentID}/import", ImportContentHandler(d.Content))
		})

		pr.Route("/sessions", func(sr chi.Router) {
			sr.Use(rbac.Require(rbac.PermSessionPlay))
			sr.Post("/", CreateSessionHandler(d.Sessions))
			sr.Route("/{sessionID}", func(one chi.Router) {
				one.Get("/", GetSessionHandler(d.Sessions))
				one.Delete("/", DeleteSessionHandler(d.Sessions))
				one.Post("/next", MoveHandler(d.Sessions, (*flashcards.Quiz).Next))
				one.Post("/previous", MoveHandler(d.Sessions, (*flashcards.Quiz).Previous))
				one.Post("/first", MoveHandler(d.Sessions, (*flashcards.Quiz).First))
				one.Post("/last", MoveHandler(d.Sessions, (*flashcards.Quiz).Last))
				one.Post("/jump", JumpHandler(d.Sessions))
				one.Post("/answers", SubmitAnswerHandler(d.Sessions))
				one.Post("/results", ShowResultsHandler(d.Sessions))
				one.Post("/retry", RetryHandler(d.Sessions))
				one.Post("/reset", ResetHandler(d.Sessions))
				one.Post("/layout", LayoutHandler(d.Sessions))
				one.Get("/score", ScoreHandler(d.Sessions))
				one.Get("/xapi", XAPIHandler(d.Sessions))
			})
		})

		pr.Route("/statements", func(st chi.Router) {
			st.Use(rbac.Require(rbac.PermStatementView))
			st.Get("/", ListStatementsHandler(d.Statements))
			st.Get("/{statementID}", GetStatementHandler(d.Statements))
			if d.Syncer != nil {
				st.Post("/{statementID}/sync", SyncStatementHandler(d.Syncer))
			}
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}
	return r
}
