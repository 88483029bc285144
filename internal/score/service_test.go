package score

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hitoshi/washplay/internal/model"
)

// --- モック定義 ---

// mockConsumer はSessionConsumerのモック実装。
type mockConsumer struct {
	validateAndConsumeFn func(ctx context.Context, token, locationID string) (int64, error)
	calls                int
}

func (m *mockConsumer) ValidateAndConsume(ctx context.Context, token, locationID string) (int64, error) {
	m.calls++
	if m.validateAndConsumeFn != nil {
		return m.validateAndConsumeFn(ctx, token, locationID)
	}
	return 1, nil
}

// mockScoreRepo はScoreRepositoryのモック実装。
type mockScoreRepo struct {
	createFn func(ctx context.Context, score *model.Score) (*model.Score, error)
	creates  int
}

func (m *mockScoreRepo) Create(ctx context.Context, score *model.Score) (*model.Score, error) {
	m.creates++
	if m.createFn != nil {
		return m.createFn(ctx, score)
	}
	created := *score
	created.ID = 100
	created.CreatedAt = time.Now()
	return &created, nil
}

func (m *mockScoreRepo) ListTop(ctx context.Context, locationID string, since *time.Time, limit int) ([]model.Score, error) {
	return nil, nil
}

func strptr(s string) *string { return &s }

// --- 正規化のテスト ---

func TestSubmit_ClampsAndTruncatesScore(t *testing.T) {
	tests := []struct {
		name     string
		rawScore any
		want     int
	}{
		{"負数は0に切り上げ", float64(-5), 0},
		{"上限超過は1_000_000に切り詰め", float64(2_000_000), 1_000_000},
		{"小数は切り捨て", 42.9, 42},
		{"境界値0", float64(0), 0},
		{"境界値1_000_000", float64(1_000_000), 1_000_000},
		{"数値文字列も受け付ける", "123", 123},
		{"小数の文字列も切り捨て", "99.99", 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockScoreRepo{}
			svc := NewService(&mockConsumer{}, repo, nil)

			created, err := svc.Submit(context.Background(), "kiosk-001", "token-1", tt.rawScore, nil)
			if err != nil {
				t.Fatalf("Submit returned error: %v", err)
			}
			if created.Value != tt.want {
				t.Errorf("Value = %d, want %d", created.Value, tt.want)
			}
		})
	}
}

func TestSubmit_NonFiniteScore_ReturnsInvalidScore(t *testing.T) {
	tests := []struct {
		name     string
		rawScore any
	}{
		{"数値でない文字列", "abc"},
		{"正の無限大", math.Inf(1)},
		{"NaN", math.NaN()},
		{"nil", nil},
		{"真偽値", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consumer := &mockConsumer{}
			repo := &mockScoreRepo{}
			svc := NewService(consumer, repo, nil)

			_, err := svc.Submit(context.Background(), "kiosk-001", "token-1", tt.rawScore, nil)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidScore {
				t.Errorf("error = %v, want INVALID_SCORE", err)
			}
			if consumer.calls != 0 {
				t.Error("session must not be consumed on invalid score")
			}
			if repo.creates != 0 {
				t.Error("no score row must be created on invalid score")
			}
		})
	}
}

func TestSubmit_NormalizesNickname(t *testing.T) {
	tests := []struct {
		name     string
		nickname *string
		want     *string
	}{
		{"未指定はnilのまま", nil, nil},
		{"前後の空白をトリム", strptr("  washmaster  "), strptr("washmaster")},
		{
			"40文字は24文字に切り詰め",
			strptr("aaaaaaaaaabbbbbbbbbbccccccccccdddddddddd"),
			strptr("aaaaaaaaaabbbbbbbbbbcccc"),
		},
		{"24文字ちょうどはそのまま", strptr("aaaaaaaaaabbbbbbbbbbcccc"), strptr("aaaaaaaaaabbbbbbbbbbcccc")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored *model.Score
			repo := &mockScoreRepo{
				createFn: func(ctx context.Context, score *model.Score) (*model.Score, error) {
					stored = score
					created := *score
					created.ID = 1
					return &created, nil
				},
			}
			svc := NewService(&mockConsumer{}, repo, nil)

			_, err := svc.Submit(context.Background(), "kiosk-001", "token-1", float64(10), tt.nickname)
			if err != nil {
				t.Fatalf("Submit returned error: %v", err)
			}

			switch {
			case tt.want == nil && stored.Nickname != nil:
				t.Errorf("Nickname = %q, want nil", *stored.Nickname)
			case tt.want != nil && stored.Nickname == nil:
				t.Errorf("Nickname = nil, want %q", *tt.want)
			case tt.want != nil && *stored.Nickname != *tt.want:
				t.Errorf("Nickname = %q, want %q", *stored.Nickname, *tt.want)
			}
		})
	}
}

// --- 入力検証のテスト ---

func TestSubmit_EmptyLocationID_ReturnsInvalidArgument(t *testing.T) {
	consumer := &mockConsumer{}
	svc := NewService(consumer, &mockScoreRepo{}, nil)

	_, err := svc.Submit(context.Background(), "  ", "token-1", float64(10), nil)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidArgument {
		t.Errorf("error = %v, want INVALID_ARGUMENT", err)
	}
	if consumer.calls != 0 {
		t.Error("session must not be consumed on invalid input")
	}
}

func TestSubmit_EmptyToken_ReturnsInvalidArgument(t *testing.T) {
	svc := NewService(&mockConsumer{}, &mockScoreRepo{}, nil)

	_, err := svc.Submit(context.Background(), "kiosk-001", "", float64(10), nil)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidArgument {
		t.Errorf("error = %v, want INVALID_ARGUMENT", err)
	}
}

// --- セッションプロトコルのテスト ---

func TestSubmit_ConsumeFailure_CreatesNoScoreRow(t *testing.T) {
	protocolErrs := []*model.APIError{
		model.NewInvalidTokenError(),
		model.NewAlreadyUsedError(),
		model.NewSessionExpiredError(),
	}

	for _, want := range protocolErrs {
		t.Run(want.Code, func(t *testing.T) {
			consumer := &mockConsumer{
				validateAndConsumeFn: func(ctx context.Context, token, locationID string) (int64, error) {
					return 0, want
				},
			}
			repo := &mockScoreRepo{}
			svc := NewService(consumer, repo, nil)

			_, err := svc.Submit(context.Background(), "kiosk-001", "token-1", float64(10), nil)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != want.Code {
				t.Errorf("error = %v, want %s", err, want.Code)
			}
			if repo.creates != 0 {
				t.Error("no score row must be created when consume fails")
			}
		})
	}
}

func TestSubmit_InsertFailureAfterConsume_IsSurfaced(t *testing.T) {
	consumer := &mockConsumer{
		validateAndConsumeFn: func(ctx context.Context, token, locationID string) (int64, error) {
			return 42, nil
		},
	}
	repo := &mockScoreRepo{
		createFn: func(ctx context.Context, score *model.Score) (*model.Score, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := NewService(consumer, repo, nil)

	_, err := svc.Submit(context.Background(), "kiosk-001", "token-1", float64(10), nil)
	if err == nil {
		t.Fatal("insert failure after consume must be surfaced, not swallowed")
	}

	// プロトコルエラーではなくストア障害として伝播する
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("storage fault should not be an APIError, got %v", apiErr)
	}
}

func TestSubmit_Success_ReturnsFullRecord(t *testing.T) {
	consumer := &mockConsumer{
		validateAndConsumeFn: func(ctx context.Context, token, locationID string) (int64, error) {
			if token != "token-1" {
				t.Errorf("token = %q, want token-1", token)
			}
			if locationID != "kiosk-001" {
				t.Errorf("locationID = %q, want kiosk-001", locationID)
			}
			return 7, nil
		},
	}
	svc := NewService(consumer, &mockScoreRepo{}, nil)

	created, err := svc.Submit(context.Background(), "kiosk-001", "token-1", float64(500), strptr("ace"))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected store-assigned ID in returned record")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected server-assigned CreatedAt in returned record")
	}
}
