package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/washplay/internal/model"
)

// ScoreServiceInterface はスコアハンドラーが必要とするサービスインターフェース。
type ScoreServiceInterface interface {
	// Submit はセッショントークンを消費してスコアを記録する。
	Submit(ctx context.Context, locationID, token string, rawScore any, rawNickname *string) (*model.Score, error)
}

// ScoreHandler はスコア送信のHTTPハンドラー。
type ScoreHandler struct {
	service ScoreServiceInterface
}

// NewScoreHandler はScoreHandlerを生成する。
func NewScoreHandler(service ScoreServiceInterface) *ScoreHandler {
	return &ScoreHandler{service: service}
}

// submitScoreRequest はスコア送信リクエストのボディ。
// Scoreは数値でも数値文字列でも受け付けるため型を固定しない。
type submitScoreRequest struct {
	LocationID string  `json:"locationId"`
	Token      string  `json:"token"`
	Score      any     `json:"score"`
	Nickname   *string `json:"nickname"`
}

// SubmitScore はスコア送信を処理する。
// POST /api/score
func (h *ScoreHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidArgument,
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	score, err := h.service.Submit(r.Context(), req.LocationID, req.Token, req.Score, req.Nickname)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toScoreResponse(score))
}
