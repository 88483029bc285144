package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hitoshi/washplay/internal/leaderboard"
)

// LeaderboardServiceInterface はランキングハンドラーが必要とするサービスインターフェース。
type LeaderboardServiceInterface interface {
	// Rank は指定ロケーションの上位スコアを返す。
	Rank(ctx context.Context, locationID, rangeStr string, limit int) (*leaderboard.Result, error)
}

// LeaderboardHandler はランキング取得のHTTPハンドラー。
type LeaderboardHandler struct {
	service LeaderboardServiceInterface
}

// NewLeaderboardHandler はLeaderboardHandlerを生成する。
func NewLeaderboardHandler(service LeaderboardServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// leaderboardResponse はランキングのAPIレスポンス。
// range/limitは正規化後の実効値を返す。
type leaderboardResponse struct {
	LocationID string          `json:"locationId"`
	Range      string          `json:"range"`
	Limit      int             `json:"limit"`
	Entries    []scoreResponse `json:"entries"`
}

// GetLeaderboard はランキング取得を処理する。
// GET /api/leaderboard?locationId=...&range=...&limit=...
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	locationID := q.Get("locationId")

	// limitは解釈できない値を黙ってデフォルトに倒す（rangeと同じ寛容さ）
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	result, err := h.service.Rank(r.Context(), locationID, q.Get("range"), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	entries := make([]scoreResponse, len(result.Entries))
	for i := range result.Entries {
		entries[i] = toScoreResponse(&result.Entries[i])
	}

	writeJSON(w, http.StatusOK, leaderboardResponse{
		LocationID: result.LocationID,
		Range:      string(result.Range),
		Limit:      result.Limit,
		Entries:    entries,
	})
}
