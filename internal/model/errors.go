// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// 失敗種別を表すセンチネルエラー。
// サービス層はこれらを返し、ハンドラー層がHTTPステータスへ写像する。
var (
	// ErrUnauthorized は認証失敗を表す。
	// 「ユーザーが存在しない」と「パスワード不一致」は意図的に区別しない。
	ErrUnauthorized = errors.New("unauthorized")

	// ErrChallengeRequired はチャレンジトークンが未提示であることを表す。
	ErrChallengeRequired = errors.New("challenge token is required")

	// ErrChallengeRejected はチャレンジ検証サービスがトークンを無効と判定したことを表す。
	ErrChallengeRejected = errors.New("challenge token is invalid")

	// ErrChallengeUnavailable はチャレンジ検証サービスへの呼び出し自体が
	// 失敗したことを表す。正当な拒否(ErrChallengeRejected)とは異なる依存先障害。
	ErrChallengeUnavailable = errors.New("challenge verification service unavailable")

	// ErrEmailTaken は同一メールアドレスのユーザーが既に存在することを表す。
	ErrEmailTaken = errors.New("email already registered")

	// ErrNoteNotFound は指定IDのノートが存在しないことを表す。
	ErrNoteNotFound = errors.New("note not found")
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, conflict, dependency, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeChallengeRequired    = "CHALLENGE_REQUIRED"
	ErrCodeChallengeRejected    = "CHALLENGE_REJECTED"
	ErrCodeChallengeUnavailable = "CHALLENGE_UNAVAILABLE"
	ErrCodeEmailTaken           = "EMAIL_TAKEN"
	ErrCodeNoteNotFound         = "NOTE_NOT_FOUND"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
)

// NewChallengeRequiredError はチャレンジトークン未提示エラーを生成する。
func NewChallengeRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeChallengeRequired,
		Message:  "チャレンジトークンが指定されていません。",
		Category: "validation",
		Action:   "reCAPTCHAを完了してから再度お試しください。",
	}
}

// NewChallengeRejectedError はチャレンジ検証拒否エラーを生成する。
func NewChallengeRejectedError() *APIError {
	return &APIError{
		Code:     ErrCodeChallengeRejected,
		Message:  "チャレンジトークンが無効です。",
		Category: "validation",
		Action:   "reCAPTCHAをやり直してから再度お試しください。",
	}
}

// NewChallengeUnavailableError はチャレンジ検証サービス障害エラーを生成する。
func NewChallengeUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeChallengeUnavailable,
		Message:  "チャレンジ検証サービスに接続できませんでした。",
		Category: "dependency",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "conflict",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewNoteNotFoundError はノート未検出エラーを生成する。
func NewNoteNotFoundError(noteID string) *APIError {
	return &APIError{
		Code:     ErrCodeNoteNotFound,
		Message:  fmt.Sprintf("指定されたノートが見つかりません: %s", noteID),
		Category: "validation",
		Action:   "ノートIDを確認してください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエストボディの形式を確認してください。",
	}
}
