// Package score はスコア送信パイプラインを提供する。
package score

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/washplay/internal/model"
	"github.com/hitoshi/washplay/internal/repository"
)

// SessionConsumer はセッション消費のためのインターフェース。
// session.Serviceの部分集合として定義する。
type SessionConsumer interface {
	// ValidateAndConsume はトークンを検証し、セッションをアトミックに消費する。
	ValidateAndConsume(ctx context.Context, token, locationID string) (int64, error)
}

// SubmitRecorder はスコア送信のメトリクス記録インターフェース。
type SubmitRecorder interface {
	RecordScoreSubmitted(locationID string)
	RecordSubmitRejected(code string)
	ObserveSubmitDuration(d time.Duration)
}

// Service はスコア送信のビジネスロジックを提供する。
// スコアレコード作成の唯一の書き手。
type Service struct {
	consumer SessionConsumer
	scores   repository.ScoreRepository
	metrics  SubmitRecorder
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(consumer SessionConsumer, scores repository.ScoreRepository, metrics SubmitRecorder) *Service {
	return &Service{
		consumer: consumer,
		scores:   scores,
		metrics:  metrics,
	}
}

// Submit はセッショントークンを消費してスコアを記録する。
//
// 入力の正規化:
//   - rawScoreは数値に強制変換する。非有限値はINVALID_SCORE。
//   - 値は[0, 1_000_000]にクランプし、小数は切り捨てる（エラーにしない）。
//   - rawNicknameはトリムして24文字に切り詰める（超過は黙って切り捨て）。
//
// セッション消費に失敗した場合（INVALID_TOKEN / ALREADY_USED / SESSION_EXPIRED）、
// スコア行は作成されない。消費成功後のINSERT失敗は握りつぶさずエラーとして
// 返し、消費済みセッションIDをログに残す（スコア未記録との突き合わせ用）。
func (s *Service) Submit(ctx context.Context, locationID, token string, rawScore any, rawNickname *string) (*model.Score, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveSubmitDuration(time.Since(start))
		}
	}()

	locationID = strings.TrimSpace(locationID)
	if locationID == "" {
		return nil, s.reject(model.NewInvalidArgumentError("locationId"))
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, s.reject(model.NewInvalidArgumentError("token"))
	}

	num, ok := coerceScore(rawScore)
	if !ok {
		return nil, s.reject(model.NewInvalidScoreError())
	}
	value := clampScore(num)

	nickname := normalizeNickname(rawNickname)

	sessionID, err := s.consumer.ValidateAndConsume(ctx, token, locationID)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			return nil, s.reject(apiErr)
		}
		return nil, err
	}

	created, err := s.scores.Create(ctx, &model.Score{
		LocationID: locationID,
		Value:      value,
		Nickname:   nickname,
	})
	if err != nil {
		// セッションは消費済みなのにスコアが残っていない状態。
		// 運用で突き合わせられるようにセッションIDを必ず記録する。
		slog.Error("score insert failed after session consume",
			slog.Int64("session_id", sessionID),
			slog.String("location_id", locationID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to record score for consumed session %d: %w", sessionID, err)
	}

	if s.metrics != nil {
		s.metrics.RecordScoreSubmitted(locationID)
	}

	slog.Info("score recorded",
		slog.Int64("score_id", created.ID),
		slog.Int64("session_id", sessionID),
		slog.String("location_id", locationID),
		slog.Int("value", created.Value),
	)

	return created, nil
}

// reject は却下メトリクスを記録してエラーをそのまま返す。
func (s *Service) reject(apiErr *model.APIError) error {
	if s.metrics != nil {
		s.metrics.RecordSubmitRejected(apiErr.Code)
	}
	return apiErr
}

// coerceScore は任意のJSON由来の値を数値に強制変換する。
// 数値・数値文字列を受け付け、それ以外と非有限値は ok=false を返す。
func coerceScore(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, isFinite(v)
	case float32:
		return float64(v), isFinite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil && isFinite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil && isFinite(f)
	default:
		return 0, false
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// clampScore は値を[ScoreMin, ScoreMax]にクランプし、小数を切り捨てる。
func clampScore(f float64) int {
	f = math.Floor(f)
	if f < model.ScoreMin {
		return model.ScoreMin
	}
	if f > model.ScoreMax {
		return model.ScoreMax
	}
	return int(f)
}

// normalizeNickname はニックネームをトリムして最大文字数に切り詰める。
// 未指定（nil）はnilのまま保存する。
func normalizeNickname(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	runes := []rune(trimmed)
	if len(runes) > model.NicknameMaxLen {
		trimmed = string(runes[:model.NicknameMaxLen])
	}
	return &trimmed
}
