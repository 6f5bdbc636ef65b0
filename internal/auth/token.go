package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/noteman/internal/model"
)

// DefaultTokenTTL はクレデンシャルの発行時からの有効期間。
const DefaultTokenTTL = 1 * time.Hour

// Claims はクレデンシャルに埋め込むクレーム。
// 標準クレーム（iat, exp）に加えてユーザーIDとメールアドレスを持つ。
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// TokenCodec は署名付きクレデンシャルの発行と検証を提供する。
// 署名鍵はプロセス全体の設定として起動時に1回読み込み、ローテーションしない。
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time // テスト用に差し替え可能
}

// NewTokenCodec はTokenCodecを生成する。
// ttlが0以下の場合はDefaultTokenTTLを使用する。
func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue はユーザーIDとメールアドレスを持つ署名付きトークンを発行する。
// 有効期限は発行時刻からTTL固定。同一ユーザーでも発行時刻が異なれば
// トークン文字列は異なる。
func (c *TokenCodec) Issue(userID, email string) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: userID,
		Email:  email,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate はトークンの署名と有効期限を検証し、認証情報を返す。
// 形式不正、署名不正、期限切れはいずれも認証失敗として扱う。
func (c *TokenCodec) Validate(tokenString string) (*model.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", model.ErrUnauthorized)
	}
	if !token.Valid {
		return nil, model.ErrUnauthorized
	}

	return &model.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}
