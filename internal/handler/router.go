package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/noteman/internal/metrics"
	"github.com/hitoshi/noteman/internal/middleware"
	"github.com/hitoshi/noteman/internal/repository"
	"github.com/hitoshi/noteman/internal/security"
	"github.com/prometheus/client_golang/prometheus"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenValidator    middleware.TokenValidator
	CORSAllowedOrigin string
	Logger            *slog.Logger
	StatusObserver    middleware.StatusObserver

	// 認証
	AuthService AuthServiceInterface
	AuthMetrics AuthMetrics

	// ノート
	NoteRepo  repository.NoteRepository
	Sanitizer security.NoteSanitizerService

	// 運用
	HealthChecker   HealthChecker
	MetricsGatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RecoveryMiddleware → CORSMiddleware → LoggingMiddleware → (保護ルートのみ) AuthMiddleware
//
// ログイン・登録・/health・/metricsは認証ゲートの外に配置する。
// ゲートはそれ以外の全APIルートに無条件に適用され、どのリソースへの
// アクセスかは関知しない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusObserver))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthMetrics)
	noteHandler := NewNoteHandler(deps.NoteRepo, deps.Sanitizer)

	// --- 認証不要のルート ---

	r.Post("/api/login", authHandler.Login)
	r.Post("/api/register", authHandler.Register)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(r.Context()); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- 認証が必要なルート ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenValidator))

		r.Get("/api/notes/{userId}", noteHandler.ListNotes)

		r.Route("/api/note", func(r chi.Router) {
			r.Post("/", noteHandler.CreateNote)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", noteHandler.GetNote)
				r.Put("/", noteHandler.UpdateNote)
				r.Delete("/", noteHandler.DeleteNote)
			})
		})
	})

	// 未マッチのルートは404
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return r
}
