package model

import (
	"testing"
	"time"
)

func TestPlaySession_Consumable(t *testing.T) {
	now := time.Now()
	used := now.Add(-1 * time.Minute)

	tests := []struct {
		name    string
		session PlaySession
		want    bool
	}{
		{
			name:    "未使用かつ期限内は消費可能",
			session: PlaySession{ExpiresAt: now.Add(5 * time.Minute)},
			want:    true,
		},
		{
			name:    "使用済みは消費不可",
			session: PlaySession{ExpiresAt: now.Add(5 * time.Minute), UsedAt: &used},
			want:    false,
		},
		{
			name:    "期限切れは消費不可",
			session: PlaySession{ExpiresAt: now.Add(-1 * time.Second)},
			want:    false,
		},
		{
			name:    "期限ちょうどは消費不可",
			session: PlaySession{ExpiresAt: now},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.Consumable(now); got != tt.want {
				t.Errorf("Consumable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlaySession_Expired(t *testing.T) {
	now := time.Now()

	s := PlaySession{ExpiresAt: now.Add(10 * time.Minute)}
	if s.Expired(now) {
		t.Error("期限内のセッションがExpired=trueになった")
	}

	s = PlaySession{ExpiresAt: now.Add(-1 * time.Millisecond)}
	if !s.Expired(now) {
		t.Error("期限切れのセッションがExpired=falseになった")
	}
}
