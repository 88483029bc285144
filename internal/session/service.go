// Package session はプレイセッションの発行と消費を提供する。
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/washplay/internal/model"
	"github.com/hitoshi/washplay/internal/repository"
)

// DefaultTTL はプレイセッションの有効期間。
const DefaultTTL = 10 * time.Minute

// IssueRecorder はセッション発行のメトリクス記録インターフェース。
type IssueRecorder interface {
	RecordSessionIssued(locationID string)
}

// Service はプレイセッションのビジネスロジックを提供する。
// セッション状態遷移の唯一の書き手であり、発行と消費の両方を担う。
type Service struct {
	repo    repository.SessionRepository
	ttl     time.Duration
	metrics IssueRecorder
}

// NewService はServiceを生成する。
// ttlが0以下の場合はDefaultTTLを使用する。metricsはnil可。
func NewService(repo repository.SessionRepository, ttl time.Duration, metrics IssueRecorder) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		repo:    repo,
		ttl:     ttl,
		metrics: metrics,
	}
}

// Issue は指定ロケーションの新しいプレイセッションを発行する。
// 同一ロケーションに対する既存セッションの有無は確認しない
// （並行する複数セッションを許容する）。
func (s *Service) Issue(ctx context.Context, locationID string) (*model.PlaySession, error) {
	locationID = strings.TrimSpace(locationID)
	if locationID == "" {
		return nil, model.NewInvalidArgumentError("locationId")
	}

	now := time.Now()
	session := &model.PlaySession{
		LocationID: locationID,
		Token:      uuid.New().String(),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSessionIssued(locationID)
	}

	slog.Info("play session issued",
		slog.String("location_id", locationID),
		slog.Int64("session_id", session.ID),
		slog.Time("expires_at", session.ExpiresAt),
	)

	return session, nil
}

// ValidateAndConsume はトークンを検証し、セッションをアトミックに消費する。
// 成功時はセッションIDを返す。失敗は以下のいずれかのAPIErrorになる:
//   - INVALID_TOKEN:   (token, locationID)に一致するセッションが存在しない
//   - ALREADY_USED:    セッションが既に消費済み
//   - SESSION_EXPIRED: セッションの有効期限切れ
//
// 同一トークンに対する並行呼び出しでは、ストアの条件付きUPDATEにより
// 必ず1回だけ成功し、敗者はALREADY_USEDを観測する。
func (s *Service) ValidateAndConsume(ctx context.Context, token, locationID string) (int64, error) {
	id, ok, err := s.repo.Consume(ctx, token, locationID)
	if err != nil {
		return 0, fmt.Errorf("failed to consume session: %w", err)
	}
	if ok {
		slog.Info("play session consumed",
			slog.String("location_id", locationID),
			slog.Int64("session_id", id),
		)
		return id, nil
	}

	// 条件付きUPDATEが空振りした理由を分類する。
	// used_atは一度設定されたら消えないため、この読み取りは競合に対して安全。
	existing, err := s.repo.FindByToken(ctx, token, locationID)
	if err != nil {
		return 0, fmt.Errorf("failed to classify consume failure: %w", err)
	}
	if existing == nil {
		return 0, model.NewInvalidTokenError()
	}
	if existing.UsedAt != nil {
		return 0, model.NewAlreadyUsedError()
	}
	return 0, model.NewSessionExpiredError()
}
