package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	api "github.com/brightstep/induction-portal/internal/api/http"
	"github.com/brightstep/induction-portal/internal/auth"
	"github.com/brightstep/induction-portal/internal/config"
	"github.com/brightstep/induction-portal/internal/db"
	"github.com/brightstep/induction-portal/internal/induction"
	"github.com/brightstep/induction-portal/internal/library"
	"github.com/brightstep/induction-portal/internal/questionbank"
	"github.com/brightstep/induction-portal/internal/quiz"
	"github.com/brightstep/induction-portal/internal/rbac"
	"github.com/brightstep/induction-portal/internal/results"
	"github.com/brightstep/induction-portal/internal/session"
	"github.com/brightstep/induction-portal/internal/storage"
	syncx "github.com/brightstep/induction-portal/internal/sync"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Stores ---
	var bank questionbank.Store = questionbank.NewSQLStore(dbh, cfg.DBDriver)
	if cfg.RedisAddr != "" {
		ttl, err := time.ParseDuration(cfg.QuizCacheTTL)
		if err != nil {
			log.Fatalf("bad QUIZ_CACHE_TTL: %v", err)
		}
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		bank = questionbank.NewCache(bank, rdb, ttl)
	}
	if cfg.SeedQuestions {
		if err := questionbank.Seed(ctx, bank); err != nil {
			log.Fatalf("seed questions: %v", err)
		}
	}

	events := syncx.NewEventRepo(dbh)
	responseStore := results.NewSQLStore(dbh, cfg.DBDriver)
	sink := results.NewSink(responseStore, events)
	registry := quiz.NewRegistry()
	sessions := session.NewSQLStore(dbh, cfg.DBDriver, cfg.RequiredModules)
	documents := library.NewSQLStore(dbh, cfg.DBDriver)
	inductionCfg := induction.NewSQLStore(dbh, cfg.DBDriver)
	admins := auth.NewSQLAdminDirectory(dbh)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	media := storage.NewMediaLibrary(bs)

	authSvc := auth.NewAuthService(cfg.JWTSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	corsOrigins := cfg.CORSOriginsDev
	if cfg.Mode == config.ModeProd {
		corsOrigins = cfg.CORSOriginsProd
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Auth surfaces ---
	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LocalLoginHandler(authSvc, cfg.AdminUser, cfg.AdminPassHash))
	}
	if cfg.EnableMicrosoftAuth {
		r.Get("/auth/microsoft/login", auth.MicrosoftLoginHandler(cfg))
		r.Get("/auth/microsoft/callback", auth.MicrosoftCallbackHandler(authSvc, admins, cfg))
	}

	// --- Employee flow (anonymous, session-scoped) ---
	r.Post("/sessions", api.CreateSessionHandler(sessions))
	r.Get("/sessions/{sessionID}", api.GetSessionHandler(sessions))
	r.Patch("/sessions/{sessionID}", api.UpdateSessionHandler(sessions))
	r.Post("/sessions/{sessionID}/videos", api.MarkVideoWatchedHandler(sessions))
	r.Post("/sessions/{sessionID}/modules", api.CompleteModuleHandler(sessions))
	r.Get("/sessions/{sessionID}/responses", api.ListSessionResponsesHandler(responseStore))
	r.Get("/sessions/{sessionID}/responses/{quizID}", api.GetSessionQuizResponseHandler(responseStore))

	r.Get("/quizzes", api.ListQuizzesHandler(bank))
	r.Get("/quizzes/{quizID}/questions", api.ListQuizQuestionsHandler(bank))

	r.Post("/attempts", api.StartAttemptHandler(bank, registry, sink))
	r.Get("/attempts/{attemptID}", api.GetAttemptHandler(registry))
	r.Post("/attempts/{attemptID}/answers", api.AnswerHandler(registry))
	r.Post("/attempts/{attemptID}/next", api.AdvanceAttemptHandler(registry, sessions))
	r.Post("/attempts/{attemptID}/previous", api.PreviousQuestionHandler(registry))
	r.Post("/attempts/{attemptID}/restart", api.RestartAttemptHandler(registry))
	r.Post("/attempts/{attemptID}/retry-submit", api.RetrySubmitHandler(registry))

	r.Get("/config/induction", api.GetInductionConfigHandler(inductionCfg))
	r.Get("/documents", api.ListDocumentsHandler(documents))
	r.Get("/assets/videos", api.ListVideosHandler(media))
	r.Get("/assets/videos/{name}", api.StreamVideoHandler(media))

	// --- Admin API (JWT → role in context → RBAC) ---
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.RequireCurrentAdmin(admins))

		pr.With(rbac.Require("questions:view")).
			Get("/admin/quizzes/{quizID}/questions", api.AdminListQuestionsHandler(bank))
		pr.With(rbac.Require("questions:create")).
			Post("/admin/questions", api.CreateQuestionHandler(bank))
		pr.With(rbac.Require("questions:update")).
			Put("/admin/questions/{questionID}", api.UpdateQuestionHandler(bank))
		pr.With(rbac.Require("questions:delete")).
			Delete("/admin/questions/{questionID}", api.DeleteQuestionHandler(bank))
		pr.With(rbac.Require("questions:seed")).
			Post("/admin/questions/seed", api.SeedQuestionsHandler(bank))

		pr.With(rbac.Require("results:view-all")).
			Get("/admin/responses", api.ListAllResponsesHandler(responseStore))
		pr.With(rbac.Require("results:view-all")).
			Get("/admin/quizzes/{quizID}/stats", api.QuizStatsHandler(responseStore))
		pr.With(rbac.Require("results:delete")).
			Delete("/admin/responses/{responseID}", api.DeleteResponseHandler(responseStore))
		pr.With(rbac.Require("results:purge")).
			Delete("/admin/responses", api.PurgeResponsesHandler(responseStore))

		pr.With(rbac.Require("sessions:list")).
			Get("/admin/sessions", api.ListSessionsHandler(sessions))
		pr.With(rbac.Require("sessions:stats")).
			Get("/admin/sessions/stats", api.SessionStatsHandler(sessions))
		pr.With(rbac.Require("sessions:purge")).
			Delete("/admin/sessions", api.PurgeSessionsHandler(sessions))

		pr.With(rbac.Require("config:manage")).
			Put("/admin/config/induction", api.UpdateInductionConfigHandler(inductionCfg))

		pr.With(rbac.Require("documents:manage")).
			Get("/admin/documents", api.AdminListDocumentsHandler(documents))
		pr.With(rbac.Require("documents:manage")).
			Post("/admin/documents", api.CreateDocumentHandler(documents))
		pr.With(rbac.Require("documents:manage")).
			Put("/admin/documents/order", api.ReorderDocumentsHandler(documents))
		pr.With(rbac.Require("documents:manage")).
			Put("/admin/documents/{documentID}", api.UpdateDocumentHandler(documents))
		pr.With(rbac.Require("documents:manage")).
			Delete("/admin/documents/{documentID}", api.DeleteDocumentHandler(documents))

		pr.With(rbac.Require("assets:manage")).
			Post("/admin/assets/videos", api.UploadVideoHandler(media))
		pr.With(rbac.Require("assets:manage")).
			Delete("/admin/assets/videos/{name}", api.DeleteVideoHandler(media))

		pr.With(rbac.Require("admins:manage")).
			Get("/admin/admins", api.ListAdminsHandler(admins))
		pr.With(rbac.Require("admins:manage")).
			Post("/admin/admins", api.AddAdminHandler(admins, cfg.AllowedDomains))
		pr.With(rbac.Require("admins:manage")).
			Delete("/admin/admins/{email}", api.RemoveAdminHandler(admins))

		pr.With(rbac.Require("events:view")).
			Get("/admin/events", api.RecentEventsHandler(events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
