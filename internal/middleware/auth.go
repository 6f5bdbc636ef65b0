// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/noteman/internal/model"
)

// authorizationHeader はクレデンシャルを運ぶヘッダー名。
// プレフィックス（"Bearer "等）なしの生トークンを格納する。
const authorizationHeader = "Authorization"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに認証情報を格納するためのキー。
var identityContextKey = contextKey("identity")

// TokenValidator はクレデンシャル検証に必要なインターフェース。
// auth.TokenCodecの部分集合として定義する。
type TokenValidator interface {
	Validate(token string) (*model.Identity, error)
}

// NewAuthMiddleware はauthorizationヘッダーのクレデンシャルを検証する
// ミドルウェアを返す。検証済みの認証情報をリクエストコンテキストに注入する。
// トークン不在・署名不正・期限切れ・形式不正はすべて401 Unauthorizedで
// 打ち切り、後続ハンドラーには到達させない。ストレージ照会は行わない。
func NewAuthMiddleware(validator TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. authorizationヘッダーから生トークンを取得
			token := r.Header.Get(authorizationHeader)
			if token == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// 2. 署名と有効期限を検証
			identity, err := validator.Validate(token)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// 3. 認証済みの認証情報をコンテキストに注入
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext はリクエストコンテキストから認証情報を取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*model.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok || identity == nil {
		return nil, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// ContextWithIdentity はコンテキストに認証情報を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
