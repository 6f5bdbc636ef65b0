// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptダイジェストで、平文パスワードは保持しない。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credential はログイン・登録成功時に発行される署名付きクレデンシャル。
// ステートレスであり、サーバー側には一切永続化しない。
type Credential struct {
	Token  string
	UserID string
}

// Identity は検証済みクレデンシャルから導出されるリクエスト単位の認証情報。
// 認証ミドルウェアを通過したリクエストのコンテキストにのみ存在する。
type Identity struct {
	UserID string
	Email  string
}
