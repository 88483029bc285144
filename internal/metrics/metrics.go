// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// session / score / leaderboard の各サービスが定義する記録インターフェースを全て満たす。
type Collector struct {
	sessionsIssued     *prometheus.CounterVec
	scoresSubmitted    *prometheus.CounterVec
	submitRejected     *prometheus.CounterVec
	leaderboardQueries *prometheus.CounterVec
	submitDuration     prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sessionsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "washplay_sessions_issued_total",
			Help: "発行されたプレイセッションの合計数",
		}, []string{"location_id"}),
		scoresSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "washplay_scores_submitted_total",
			Help: "記録されたスコアの合計数",
		}, []string{"location_id"}),
		submitRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "washplay_submit_rejected_total",
			Help: "却下されたスコア送信のエラーコード別合計数",
		}, []string{"code"}),
		leaderboardQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "washplay_leaderboard_queries_total",
			Help: "ランキングクエリの期間別合計数",
		}, []string{"range"}),
		submitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "washplay_submit_duration_seconds",
			Help:    "スコア送信処理（セッション消費とINSERTを含む）の所要時間",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.sessionsIssued,
		c.scoresSubmitted,
		c.submitRejected,
		c.leaderboardQueries,
		c.submitDuration,
	)

	return c
}

// RecordSessionIssued はセッション発行を記録する。
func (c *Collector) RecordSessionIssued(locationID string) {
	c.sessionsIssued.WithLabelValues(locationID).Inc()
}

// RecordScoreSubmitted はスコア記録の成功を記録する。
func (c *Collector) RecordScoreSubmitted(locationID string) {
	c.scoresSubmitted.WithLabelValues(locationID).Inc()
}

// RecordSubmitRejected はスコア送信の却下をエラーコード別に記録する。
func (c *Collector) RecordSubmitRejected(code string) {
	c.submitRejected.WithLabelValues(code).Inc()
}

// RecordLeaderboardQuery はランキングクエリを期間別に記録する。
func (c *Collector) RecordLeaderboardQuery(rang string) {
	c.leaderboardQueries.WithLabelValues(rang).Inc()
}

// ObserveSubmitDuration はスコア送信処理の所要時間を記録する。
func (c *Collector) ObserveSubmitDuration(d time.Duration) {
	c.submitDuration.Observe(d.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
