package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, session, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeInvalidScore    = "INVALID_SCORE"
	ErrCodeInvalidToken    = "INVALID_TOKEN"
	ErrCodeAlreadyUsed     = "ALREADY_USED"
	ErrCodeSessionExpired  = "SESSION_EXPIRED"
	ErrCodeRateLimited     = "RATE_LIMITED"
)

// NewInvalidArgumentError は入力不備エラーを生成する。
// fieldには不備のあったフィールド名を指定する。
func NewInvalidArgumentError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidArgument,
		Message:  fmt.Sprintf("%s は必須です。", field),
		Category: "validation",
		Action:   "リクエスト内容を確認して再送してください。",
	}
}

// NewInvalidScoreError はスコアが数値として解釈できない場合のエラーを生成する。
func NewInvalidScoreError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidScore,
		Message:  "scoreは数値で指定してください。",
		Category: "validation",
		Action:   "スコアを有限の数値として送信してください。",
	}
}

// NewInvalidTokenError はセッショントークンが存在しない場合のエラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "無効なセッショントークンです。",
		Category: "session",
		Action:   "新しいセッションを発行してからプレイしてください。",
	}
}

// NewAlreadyUsedError はセッションが消費済みの場合のエラーを生成する。
// 同一トークンでの再送信はこのエラーで確定し、リトライしてはならない。
func NewAlreadyUsedError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyUsed,
		Message:  "このセッションは既に使用されています。",
		Category: "session",
		Action:   "スコアは1セッションにつき1回のみ送信できます。新しいセッションを発行してください。",
	}
}

// NewSessionExpiredError はセッションの有効期限が切れている場合のエラーを生成する。
func NewSessionExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeSessionExpired,
		Message:  "セッションの有効期限が切れています。",
		Category: "session",
		Action:   "新しいセッションを発行してからプレイしてください。",
	}
}
