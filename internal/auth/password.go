// Package auth はパスワード検証、クレデンシャル発行・検証、
// ログイン・登録のビジネスロジックを提供する。
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost はパスワードハッシュのデフォルトコストファクタ。
const DefaultBcryptCost = 10

// PasswordHasher はパスワードの一方向ハッシュ化と検証を提供する。
// ソルトは呼び出しごとにランダム生成されるため、同一平文でも
// ダイジェストは毎回異なり、等価比較はVerifyでのみ行える。
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher は指定コストのPasswordHasherを生成する。
// costが0以下の場合はDefaultBcryptCostを使用する。
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash は平文パスワードからソルト付きbcryptダイジェストを生成する。
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify は平文パスワードがダイジェストの元になったものか検証する。
// 不一致は(false, nil)を返す。エラーはダイジェスト自体が不正な場合のみで、
// パスワード不一致とは区別される。
func (h *PasswordHasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("malformed password digest: %w", err)
}
