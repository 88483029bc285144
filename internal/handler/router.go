package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/washplay/internal/metrics"
	"github.com/hitoshi/washplay/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// サービス
	SessionService     SessionServiceInterface
	ScoreService       ScoreServiceInterface
	LeaderboardService LeaderboardServiceInterface

	// メトリクス公開（nilの場合は/metricsを公開しない）
	MetricsGatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → RateLimit
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))

	sessionHandler := NewSessionHandler(deps.SessionService)
	scoreHandler := NewScoreHandler(deps.ScoreService)
	leaderboardHandler := NewLeaderboardHandler(deps.LeaderboardService)

	// --- 運用系ルート（レート制限の外） ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))

	if deps.MetricsGatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.MetricsGatherer).ServeHTTP)
	}

	// --- APIルート ---

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Route("/api", func(r chi.Router) {
			r.Post("/session", sessionHandler.IssueSession)

			// スコア送信は専用のレート制限を追加
			if deps.RateLimiter != nil {
				r.With(deps.RateLimiter.SubmitMiddleware()).Post("/score", scoreHandler.SubmitScore)
			} else {
				r.Post("/score", scoreHandler.SubmitScore)
			}

			r.Get("/leaderboard", leaderboardHandler.GetLeaderboard)
		})
	})

	return r
}
