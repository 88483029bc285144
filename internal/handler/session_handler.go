package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/washplay/internal/model"
)

// SessionServiceInterface はセッションハンドラーが必要とするサービスインターフェース。
type SessionServiceInterface interface {
	// Issue は指定ロケーションの新しいプレイセッションを発行する。
	Issue(ctx context.Context, locationID string) (*model.PlaySession, error)
}

// SessionHandler はプレイセッション発行のHTTPハンドラー。
type SessionHandler struct {
	service SessionServiceInterface
}

// NewSessionHandler はSessionHandlerを生成する。
func NewSessionHandler(service SessionServiceInterface) *SessionHandler {
	return &SessionHandler{service: service}
}

// issueSessionRequest はセッション発行リクエストのボディ。
type issueSessionRequest struct {
	LocationID string `json:"locationId"`
}

// issueSessionResponse はセッション発行レスポンス。
// トークンと有効期限のみを返し、内部IDは公開しない。
type issueSessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IssueSession はプレイセッションの発行を処理する。
// POST /api/session
func (h *SessionHandler) IssueSession(w http.ResponseWriter, r *http.Request) {
	var req issueSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidArgument,
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	session, err := h.service.Issue(r.Context(), req.LocationID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, issueSessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}
