// Package model はドメインモデルを定義する。
package model

import "time"

// PlaySession はキオスク1回分のプレイセッションを表す。
// トークンは発行時に生成される単回使用の認可情報で、
// スコア送信時に1度だけ消費される。
type PlaySession struct {
	ID         int64
	LocationID string
	Token      string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	UsedAt     *time.Time
}

// Consumable はセッションが消費可能かどうかを返す。
// used_atが未設定かつ有効期限内の場合のみtrue。
// 期限切れは計算で判定する（状態フラグとしては保存しない）。
func (s *PlaySession) Consumable(now time.Time) bool {
	return s.UsedAt == nil && now.Before(s.ExpiresAt)
}

// Expired はセッションが有効期限を過ぎているかどうかを返す。
func (s *PlaySession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
