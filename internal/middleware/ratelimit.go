package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレート制限の設定を保持する。
// キオスクは認証されないため、制限はクライアントIP単位で適用する。
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API全般のレート（req/sec）。240/60 = 4 req/sec
	GeneralBurst    int           // API全般のバーストサイズ
	SubmitRate      rate.Limit    // スコア送信のレート（req/sec）。30/60
	SubmitBurst     int           // スコア送信のバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// 要件: API全般 240 req/min/IP、スコア送信 30 req/min/IP
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(240.0 / 60.0), // 4 req/sec
		GeneralBurst:    240,
		SubmitRate:      rate.Limit(30.0 / 60.0), // 0.5 req/sec
		SubmitBurst:     30,
		CleanupInterval: 5 * time.Minute,
	}
}

// clientLimiter はクライアントIPごとのレートリミッターとアクセス時刻を保持する。
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter はクライアントIPごとのレート制限を管理する。
// API全般のレート制限とスコア送信のレート制限の2種類を提供する。
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.Mutex
	generalLimiters map[string]*clientLimiter

	submitMu       sync.Mutex
	submitLimiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:          config,
		generalLimiters: make(map[string]*clientLimiter),
		submitLimiters:  make(map[string]*clientLimiter),
		stopCh:          make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware はAPI全般のレート制限ミドルウェアを返す。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			limiter := rl.getOrCreateLimiter(&rl.generalMu, rl.generalLimiters, ip, rl.config.GeneralRate, rl.config.GeneralBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", ip),
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SubmitMiddleware はスコア送信専用のレート制限ミドルウェアを返す。
// API全般のレート制限とは独立に動作する。
func (rl *RateLimiter) SubmitMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			limiter := rl.getOrCreateLimiter(&rl.submitMu, rl.submitLimiters, ip, rl.config.SubmitRate, rl.config.SubmitBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.SubmitRate)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", ip),
					slog.String("limit_type", "submit"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getOrCreateLimiter はクライアントIPに対応するリミッターを取得または生成する。
func (rl *RateLimiter) getOrCreateLimiter(mu *sync.Mutex, limiters map[string]*clientLimiter, ip string, limit rate.Limit, burst int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	if cl, ok := limiters[ip]; ok {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	cl := &clientLimiter{
		limiter:    rate.NewLimiter(limit, burst),
		lastAccess: time.Now(),
	}
	limiters[ip] = cl
	return cl.limiter
}

// cleanupLoop は一定間隔でアクセスのないエントリを削除する。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.config.CleanupInterval * 2)
			rl.cleanup(&rl.generalMu, rl.generalLimiters, cutoff)
			rl.cleanup(&rl.submitMu, rl.submitLimiters, cutoff)
		}
	}
}

func (rl *RateLimiter) cleanup(mu *sync.Mutex, limiters map[string]*clientLimiter, cutoff time.Time) {
	mu.Lock()
	defer mu.Unlock()

	for ip, cl := range limiters {
		if cl.lastAccess.Before(cutoff) {
			delete(limiters, ip)
		}
	}
}

// clientIP はリクエスト元のクライアントIPを返す。
// リバースプロキシ経由を想定してX-Forwarded-Forの先頭を優先する。
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimitResponseBody は429レスポンスのボディ。
type rateLimitResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeRateLimitResponse は429レスポンスをRetry-Afterヘッダー付きで書き込む。
func writeRateLimitResponse(w http.ResponseWriter, limit rate.Limit) {
	retryAfter := 1
	if limit > 0 {
		retryAfter = int(math.Ceil(1.0 / float64(limit)))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(rateLimitResponseBody{
		Code:     "RATE_LIMITED",
		Message:  "リクエストが多すぎます。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}
