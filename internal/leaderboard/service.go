// Package leaderboard はロケーション別ランキングの読み取りクエリを提供する。
package leaderboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hitoshi/washplay/internal/model"
	"github.com/hitoshi/washplay/internal/repository"
)

// Range はランキングの集計期間を表す。
type Range string

const (
	// RangeDaily は当日（サーバーローカルの0時以降）。
	RangeDaily Range = "daily"
	// RangeWeekly は今週（直近の月曜0時以降、ISO週）。
	RangeWeekly Range = "weekly"
	// RangeAll は全期間。
	RangeAll Range = "all"
)

// limit の境界値。
const (
	DefaultLimit = 10
	MinLimit     = 1
	MaxLimit     = 50
)

// ParseRange は文字列からRangeを解釈する。
// 未知の値はエラーにせずRangeDailyにフォールバックする（意図的な寛容さ）。
func ParseRange(s string) Range {
	switch Range(s) {
	case RangeDaily, RangeWeekly, RangeAll:
		return Range(s)
	default:
		return RangeDaily
	}
}

// QueryRecorder はランキングクエリのメトリクス記録インターフェース。
type QueryRecorder interface {
	RecordLeaderboardQuery(rang string)
}

// Result はランキングクエリの結果を表す。
// Range/Limitは正規化後の実効値を保持する。
type Result struct {
	LocationID string
	Range      Range
	Limit      int
	Entries    []model.Score
}

// Service はランキングの読み取り専用クエリを提供する。状態を一切変更しない。
type Service struct {
	scores  repository.ScoreRepository
	metrics QueryRecorder
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(scores repository.ScoreRepository, metrics QueryRecorder) *Service {
	return &Service{
		scores:  scores,
		metrics: metrics,
	}
}

// Rank は指定ロケーションの上位スコアを返す。
// 並び順は value DESC, created_at ASC, id ASC（同値は先着優先）。
// 副作用がなく、同一データに対して何度呼んでも同じ並びを返す。
func (s *Service) Rank(ctx context.Context, locationID, rangeStr string, limit int) (*Result, error) {
	locationID = strings.TrimSpace(locationID)
	if locationID == "" {
		return nil, model.NewInvalidArgumentError("locationId")
	}

	rang := ParseRange(rangeStr)
	limit = clampLimit(limit)
	since := startOfRange(time.Now(), rang)

	entries, err := s.scores.ListTop(ctx, locationID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	if entries == nil {
		entries = []model.Score{}
	}

	if s.metrics != nil {
		s.metrics.RecordLeaderboardQuery(string(rang))
	}

	return &Result{
		LocationID: locationID,
		Range:      rang,
		Limit:      limit,
		Entries:    entries,
	}, nil
}

// clampLimit はlimitを[MinLimit, MaxLimit]にクランプする。0以下はデフォルト値。
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// startOfRange は集計期間の下限時刻を返す。RangeAllは下限なし（nil）。
// サーバーローカル時刻で評価する。
// weeklyの曜日オフセットは月曜→0、日曜→6。
func startOfRange(now time.Time, rang Range) *time.Time {
	switch rang {
	case RangeWeekly:
		offset := (int(now.Weekday()) + 6) % 7
		monday := now.AddDate(0, 0, -offset)
		start := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
		return &start
	case RangeDaily:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return &start
	default:
		return nil
	}
}
