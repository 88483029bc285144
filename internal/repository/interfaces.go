// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/washplay/internal/model"
)

// SessionRepository はプレイセッションの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成し、採番されたIDをsessionに書き戻す。
	Create(ctx context.Context, session *model.PlaySession) error

	// Consume は消費可能なセッションをアトミックに消費済みへ遷移させる。
	// (token, locationID)に一致し、used_atが未設定かつ有効期限内の行に限り
	// used_atを設定し、セッションIDと ok=true を返す。
	// 条件を満たす行がない場合は ok=false を返す（理由は判別しない）。
	// 同一トークンに対する並行呼び出しでは必ず1回だけ ok=true になる。
	Consume(ctx context.Context, token, locationID string) (int64, bool, error)

	// FindByToken は(token, locationID)でセッションを取得する。
	// 見つからない場合はnilを返す。Consume失敗の理由分類に使用する。
	FindByToken(ctx context.Context, token, locationID string) (*model.PlaySession, error)
}

// ScoreRepository はスコアレコードの永続化インターフェース。
type ScoreRepository interface {
	// Create はスコアを作成し、採番されたIDとサーバー付与のcreated_atを
	// 書き戻したレコードを返す。
	Create(ctx context.Context, score *model.Score) (*model.Score, error)

	// ListTop は指定ロケーションの上位スコアを返す。
	// sinceが非nilの場合はcreated_at >= sinceの行に限定する。
	// 並び順は value DESC, created_at ASC, id ASC（同値は先着優先、最後はID順）。
	ListTop(ctx context.Context, locationID string, since *time.Time, limit int) ([]model.Score, error)
}
