// Package handler はHTTP APIのハンドラー層を提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/washplay/internal/model"
)

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// scoreResponse はスコアレコードのAPIレスポンス。
type scoreResponse struct {
	ID         int64     `json:"id"`
	LocationID string    `json:"locationId"`
	Value      int       `json:"value"`
	Nickname   *string   `json:"nickname"`
	CreatedAt  time.Time `json:"createdAt"`
}

// toScoreResponse はmodel.ScoreからAPIレスポンスに変換する。
func toScoreResponse(score *model.Score) scoreResponse {
	return scoreResponse{
		ID:         score.ID,
		LocationID: score.LocationID,
		Value:      score.Value,
		Nickname:   score.Nickname,
		CreatedAt:  score.CreatedAt,
	}
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// APIError以外（ストア障害など）は詳細を漏らさず500として返し、ログにのみ記録する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
// セッションプロトコル違反は403で返す（キオスク側で操作ミスと二重送信を区別できるよう、
// コードとメッセージは種別ごとに異なる）。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidArgument, model.ErrCodeInvalidScore:
		return http.StatusBadRequest
	case model.ErrCodeInvalidToken, model.ErrCodeAlreadyUsed, model.ErrCodeSessionExpired:
		return http.StatusForbidden
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
