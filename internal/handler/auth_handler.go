// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/noteman/internal/middleware"
	"github.com/hitoshi/noteman/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*model.Credential, error)
	Register(ctx context.Context, email, password, challengeToken string) (*model.Credential, error)
}

// AuthMetrics は認証ハンドラーが記録するメトリクスのインターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type AuthMetrics interface {
	RecordLogin(success bool)
	RecordRegistration(outcome string)
}

// AuthHandler はログイン・登録のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics AuthMetrics
}

// NewAuthHandler はAuthHandlerを生成する。metricsはnilを許容する。
func NewAuthHandler(service AuthServiceInterface, metrics AuthMetrics) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: metrics,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerRequest は登録リクエストのボディ。
// チャレンジトークンのフィールド名はフロントエンドのreCAPTCHAウィジェットに合わせる。
type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	ChallengeToken string `json:"tokenReCaptcha"`
}

// credentialResponse はログイン・登録成功時のレスポンスボディ。
type credentialResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
}

// Login はパスワード照合によりクレデンシャルを発行する。
// POST /api/login
// 認証失敗は詳細を含まないプレーンテキストの401で応答する。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("invalid JSON body"))
		return
	}

	cred, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			h.recordLogin(false)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		slog.Error("login failed", slog.String("error", err.Error()))
		h.recordLogin(false)
		middleware.WriteInternalServerError(w)
		return
	}

	h.recordLogin(true)
	writeCredential(w, cred)
}

// Register はチャレンジ検証と新規アカウント作成の後にクレデンシャルを発行する。
// POST /api/register
// すべての失敗経路がちょうど1つのレスポンスを生成する。
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("invalid JSON body"))
		return
	}

	cred, err := h.service.Register(r.Context(), req.Email, req.Password, req.ChallengeToken)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrChallengeRequired):
			h.recordRegistration("challenge_required")
			middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewChallengeRequiredError())
		case errors.Is(err, model.ErrChallengeRejected):
			h.recordRegistration("challenge_rejected")
			middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewChallengeRejectedError())
		case errors.Is(err, model.ErrChallengeUnavailable):
			// 依存先障害は正当な拒否と区別してログ・報告する
			slog.Error("challenge verifier unavailable", slog.String("error", err.Error()))
			h.recordRegistration("challenge_unavailable")
			middleware.WriteErrorResponse(w, http.StatusBadGateway, model.NewChallengeUnavailableError())
		case errors.Is(err, model.ErrEmailTaken):
			h.recordRegistration("email_taken")
			middleware.WriteErrorResponse(w, http.StatusConflict, model.NewEmailTakenError())
		default:
			slog.Error("registration failed", slog.String("error", err.Error()))
			h.recordRegistration("error")
			middleware.WriteInternalServerError(w)
		}
		return
	}

	h.recordRegistration("success")
	writeCredential(w, cred)
}

// writeCredential はクレデンシャルのJSONレスポンスを書き込む。
func writeCredential(w http.ResponseWriter, cred *model.Credential) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(credentialResponse{
		Token: cred.Token,
		ID:    cred.UserID,
	})
}

func (h *AuthHandler) recordLogin(success bool) {
	if h.metrics != nil {
		h.metrics.RecordLogin(success)
	}
}

func (h *AuthHandler) recordRegistration(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordRegistration(outcome)
	}
}
