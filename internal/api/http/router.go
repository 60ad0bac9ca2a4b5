package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/smartmcq/smartmcq/internal/assessment"
	"github.com/smartmcq/smartmcq/internal/auth"
	"github.com/smartmcq/smartmcq/internal/authoring"
	"github.com/smartmcq/smartmcq/internal/config"
	"github.com/smartmcq/smartmcq/internal/logger"
	"github.com/smartmcq/smartmcq/internal/metrics"
	"github.com/smartmcq/smartmcq/internal/rbac"
)

type Deps struct {
	Config  config.Config
	DB      *sql.DB
	Store   assessment.Store
	Wizards *authoring.Service
	Auth    *auth.Service
	Users   *auth.Users
	Metrics *metrics.Recorder // optional
	Log     *logger.Logger    // optional
}

// NewRouter mounts every route on a chi router.
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logger.Requests(log), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if d.Config.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Users))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", ReadyHandler(d.DB))
	if d.Config.MetricsEnabled && d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.With(rbac.Require("question:create")).
			Post("/questions", CreateQuestionHandler(d.Store))
		// Test authors browse the bank while assembling a test.
		bankReaders := rbac.RequireAny("question:view", "test:create")
		pr.With(bankReaders).
			Get("/questions", ListQuestionsHandler(d.Store))
		pr.With(bankReaders).
			Get("/questions/{id}", GetQuestionHandler(d.Store))

		pr.With(rbac.Require("test:view")).
			Get("/tests", ListTestsHandler(d.Store))
		pr.With(rbac.Require("test:view")).
			Get("/tests/{id}", GetTestHandler(d.Store))

		pr.Route("/wizards", func(wr chi.Router) {
			wr.Use(rbac.Require("wizard:use"))
			mountWizards(wr, d.Wizards)
		})
	})

	return r
}

// ReadyHandler reports 503 until the database answers a ping.
func ReadyHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
